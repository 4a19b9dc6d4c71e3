package m3u

import (
	"sort"
	"strings"
)

// GroupSet is a set of channel group names, stored case-folded so membership
// checks are case-insensitive.
type GroupSet map[string]bool

// NewGroupSet builds a GroupSet from the given names, folding each to lower
// case. Empty names are ignored.
func NewGroupSet(names ...string) GroupSet {
	set := make(GroupSet, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		set[strings.ToLower(name)] = true
	}
	return set
}

// Contains reports whether the set holds the given group name, compared
// case-insensitively.
func (s GroupSet) Contains(group string) bool {
	return s[strings.ToLower(group)]
}

// Names returns the folded group names in sorted order.
func (s GroupSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FilterByGroups returns the entries whose group is in the set, preserving
// playlist order. When sortByName is true the survivors are instead ordered
// by their tvg-name attribute, compared byte-wise; entries sharing a name
// keep their relative playlist order.
func FilterByGroups(entries []Entry, groups GroupSet, sortByName bool) []Entry {
	var filtered []Entry
	for _, entry := range entries {
		if groups.Contains(entry.Group) {
			filtered = append(filtered, entry)
		}
	}

	if sortByName {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].TVGName < filtered[j].TVGName
		})
	}

	return filtered
}
