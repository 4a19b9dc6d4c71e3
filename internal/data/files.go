package data

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// SaveOutputs writes the source documents and their reduced renditions into
// the output directory. The playlist files are always written; the guide
// files only when the guide stage ran.
func SaveOutputs(dir, name string, result *FetchResult, logger *logrus.Logger) error {
	type output struct {
		name string
		data []byte
	}

	outputs := []output{
		{"original.m3u", result.M3U.Raw},
		{name + ".m3u", result.M3U.Filtered},
	}
	if result.EPG.Raw != nil {
		outputs = append(outputs, output{"original.xml", result.EPG.Raw})
	}
	if result.EPG.Filtered != nil {
		outputs = append(outputs, output{name + ".xml", result.EPG.Filtered})
	}

	for _, out := range outputs {
		path := filepath.Join(dir, out.name)
		if err := writeFileAtomic(path, out.data); err != nil {
			return fmt.Errorf("failed to write %s: %w", out.name, err)
		}
		logger.WithFields(logrus.Fields{
			"file":  path,
			"bytes": len(out.data),
		}).Info("Wrote output file")
	}

	return nil
}

// writeFileAtomic writes data through a temporary file in the target
// directory and renames it into place, so concurrent readers never observe
// a partially written file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
