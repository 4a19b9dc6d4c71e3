// Package config provides configuration management for the playlist and
// guide editing pipeline.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/haxcop/m3u-epg-editor/internal/m3u"
)

var (
	// ErrM3UURLRequired is returned when the M3U playlist URL is not provided.
	ErrM3UURLRequired = errors.New("m3u URL is required")
	// ErrEPGURLRequired is returned when the guide URL is not provided.
	ErrEPGURLRequired = errors.New("epg URL is required")
	// ErrGroupsRequired is returned when no channel groups are configured.
	ErrGroupsRequired = errors.New("at least one channel group is required")
	// ErrOutDirRequired is returned when the output directory is not provided.
	ErrOutDirRequired = errors.New("output directory is required")
	// ErrOutDirNotFound is returned when the output directory does not exist.
	ErrOutDirNotFound = errors.New("output directory does not exist")
	// ErrOutDirNotDir is returned when the output path is not a directory.
	ErrOutDirNotDir = errors.New("output path is not a directory")
	// ErrOutNameRequired is returned when the output base name is empty.
	ErrOutNameRequired = errors.New("output file name is required")
	// ErrInvalidPort is returned when the port number is invalid.
	ErrInvalidPort = errors.New("invalid port number")
	// ErrRefreshIntervalPositive is returned when the refresh interval is not positive.
	ErrRefreshIntervalPositive = errors.New("refresh interval must be positive")
	// ErrInvalidLogLevel is returned when the log level is invalid.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Config holds the application configuration.
type Config struct {
	M3UURL          string
	EPGURL          string
	Groups          m3u.GroupSet
	SortChannels    bool
	OutDirectory    string
	OutFilename     string
	Serve           bool
	Port            int
	LogLevel        string
	RefreshInterval time.Duration
}

// fileConfig mirrors Config for the optional YAML configuration file.
// Pointer fields distinguish absent keys from zero values.
type fileConfig struct {
	M3UURL          *string  `yaml:"m3u_url"`
	EPGURL          *string  `yaml:"epg_url"`
	Groups          []string `yaml:"groups"`
	SortChannels    *bool    `yaml:"sort_channels"`
	OutDirectory    *string  `yaml:"out_directory"`
	OutFilename     *string  `yaml:"out_filename"`
	Serve           *bool    `yaml:"serve"`
	Port            *int     `yaml:"port"`
	LogLevel        *string  `yaml:"log_level"`
	RefreshInterval *string  `yaml:"refresh_interval"`
}

// New creates the configuration from the process arguments.
func New() (*Config, error) {
	return NewFromArgs(os.Args[1:])
}

// NewFromArgs builds and validates the configuration from the given
// command-line arguments. Each setting resolves in order of precedence:
// flag, environment variable, configuration file, built-in default.
func NewFromArgs(args []string) (*Config, error) {
	flags := &Config{}
	var flagGroups string
	var configFile string

	fs := flag.NewFlagSet("m3u-epg-editor", flag.ContinueOnError)
	fs.StringVar(&flags.M3UURL, "m3u", "", "URL of the M3U playlist (required)")
	fs.StringVar(&flags.EPGURL, "epg", "", "URL of the XMLTV guide (required)")
	fs.StringVar(&flagGroups, "groups", "", "Comma-separated channel groups to keep (required)")
	fs.BoolVar(&flags.SortChannels, "sort", false, "Sort filtered channels by tvg-name")
	fs.StringVar(&flags.OutDirectory, "out", "", "Directory for generated files (required)")
	fs.StringVar(&flags.OutFilename, "name", "filtered", "Base name for generated files")
	fs.BoolVar(&flags.Serve, "serve", false, "Keep running and serve the generated documents over HTTP")
	fs.IntVar(&flags.Port, "port", 8080, "Port to listen on in serve mode")
	fs.StringVar(&flags.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.DurationVar(&flags.RefreshInterval, "refresh-interval", 30*time.Minute, "Interval between refreshes in serve mode")
	fs.StringVar(&configFile, "config", "", "Path to a YAML configuration file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := &Config{
		OutFilename:     "filtered",
		Port:            8080,
		LogLevel:        "info",
		RefreshInterval: 30 * time.Minute,
	}
	var groupNames []string

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	if configFile != "" {
		file, err := loadFile(configFile)
		if err != nil {
			return nil, err
		}
		if err := applyFile(cfg, &groupNames, file); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg, &groupNames); err != nil {
		return nil, err
	}

	applyFlags(cfg, &groupNames, flags, flagGroups, set)

	cfg.Groups = m3u.NewGroupSet(groupNames...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.M3UURL == "" {
		return ErrM3UURLRequired
	}

	if c.EPGURL == "" {
		return ErrEPGURLRequired
	}

	if len(c.Groups) == 0 {
		return ErrGroupsRequired
	}

	if c.OutDirectory == "" {
		return ErrOutDirRequired
	}

	if c.OutFilename == "" {
		return ErrOutNameRequired
	}

	if _, err := url.Parse(c.M3UURL); err != nil {
		return fmt.Errorf("invalid M3U URL: %w", err)
	}

	if _, err := url.Parse(c.EPGURL); err != nil {
		return fmt.Errorf("invalid EPG URL: %w", err)
	}

	info, err := os.Stat(c.OutDirectory)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrOutDirNotFound, c.OutDirectory)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrOutDirNotDir, c.OutDirectory)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}

	if c.RefreshInterval <= 0 {
		return ErrRefreshIntervalPositive
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("%w: %s (must be debug, info, warn, or error)", ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &file, nil
}

func applyFile(cfg *Config, groups *[]string, file *fileConfig) error {
	if file.M3UURL != nil {
		cfg.M3UURL = *file.M3UURL
	}
	if file.EPGURL != nil {
		cfg.EPGURL = *file.EPGURL
	}
	if file.Groups != nil {
		*groups = file.Groups
	}
	if file.SortChannels != nil {
		cfg.SortChannels = *file.SortChannels
	}
	if file.OutDirectory != nil {
		cfg.OutDirectory = *file.OutDirectory
	}
	if file.OutFilename != nil {
		cfg.OutFilename = *file.OutFilename
	}
	if file.Serve != nil {
		cfg.Serve = *file.Serve
	}
	if file.Port != nil {
		cfg.Port = *file.Port
	}
	if file.LogLevel != nil {
		cfg.LogLevel = *file.LogLevel
	}
	if file.RefreshInterval != nil {
		interval, err := time.ParseDuration(*file.RefreshInterval)
		if err != nil {
			return fmt.Errorf("invalid refresh_interval in config file: %w", err)
		}
		cfg.RefreshInterval = interval
	}
	return nil
}

func applyEnv(cfg *Config, groups *[]string) error {
	if v, ok := os.LookupEnv("M3U_URL"); ok {
		cfg.M3UURL = v
	}
	if v, ok := os.LookupEnv("EPG_URL"); ok {
		cfg.EPGURL = v
	}
	if v, ok := os.LookupEnv("GROUPS"); ok {
		*groups = splitGroups(v)
	}
	if v, ok := os.LookupEnv("SORT_CHANNELS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SORT_CHANNELS value %q: %w", v, err)
		}
		cfg.SortChannels = b
	}
	if v, ok := os.LookupEnv("OUT_DIR"); ok {
		cfg.OutDirectory = v
	}
	if v, ok := os.LookupEnv("OUT_NAME"); ok {
		cfg.OutFilename = v
	}
	if v, ok := os.LookupEnv("SERVE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SERVE value %q: %w", v, err)
		}
		cfg.Serve = b
	}
	if v, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT value %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("REFRESH_INTERVAL"); ok {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid REFRESH_INTERVAL value %q: %w", v, err)
		}
		cfg.RefreshInterval = interval
	}
	return nil
}

func applyFlags(cfg *Config, groups *[]string, flags *Config, flagGroups string, set map[string]bool) {
	if set["m3u"] {
		cfg.M3UURL = flags.M3UURL
	}
	if set["epg"] {
		cfg.EPGURL = flags.EPGURL
	}
	if set["groups"] {
		*groups = splitGroups(flagGroups)
	}
	if set["sort"] {
		cfg.SortChannels = flags.SortChannels
	}
	if set["out"] {
		cfg.OutDirectory = flags.OutDirectory
	}
	if set["name"] {
		cfg.OutFilename = flags.OutFilename
	}
	if set["serve"] {
		cfg.Serve = flags.Serve
	}
	if set["port"] {
		cfg.Port = flags.Port
	}
	if set["log-level"] {
		cfg.LogLevel = flags.LogLevel
	}
	if set["refresh-interval"] {
		cfg.RefreshInterval = flags.RefreshInterval
	}
}

func splitGroups(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}
