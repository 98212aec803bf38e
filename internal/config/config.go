package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// ThemeConfig holds TUI color configuration. Empty fields fall back to the
// preset's values.
type ThemeConfig struct {
	Preset        string `mapstructure:"preset"`
	Primary       string `mapstructure:"primary"`
	Secondary     string `mapstructure:"secondary"`
	Accent        string `mapstructure:"accent"`
	Muted         string `mapstructure:"muted"`
	Danger        string `mapstructure:"danger"`
	Background    string `mapstructure:"background"`
	MarkdownStyle string `mapstructure:"markdown_style"`
}

// DayNoteConfig controls how missing day notes are created.
type DayNoteConfig struct {
	Template      string `mapstructure:"template"`
	CreateMissing bool   `mapstructure:"create_missing"`
}

// ServiceConfig selects where day notes are resolved.
type ServiceConfig struct {
	Mode    string `mapstructure:"mode"`    // "local" or "mcp"
	Command string `mapstructure:"command"` // peer command line when Mode is "mcp"
}

// CalendarConfig holds calendar dropdown settings.
type CalendarConfig struct {
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// Config holds the application configuration.
type Config struct {
	Storage  string         `mapstructure:"storage"`
	DataDir  string         `mapstructure:"data_dir"`
	Editor   string         `mapstructure:"editor"`
	Locale   string         `mapstructure:"locale"`
	MaxWidth int            `mapstructure:"max_width"`
	LogFile  string         `mapstructure:"log_file"`
	DayNote  DayNoteConfig  `mapstructure:"day_note"`
	Service  ServiceConfig  `mapstructure:"service"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Theme    ThemeConfig    `mapstructure:"theme"`
}

// DefaultDayNoteTemplate is the content of a newly created day note.
const DefaultDayNoteTemplate = "# {{.Date}}\n\n{{.Weekday}}\n"

// DefaultDataDir returns the default data directory (~/.daycal/).
func DefaultDataDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return filepath.Join(".", ".daycal")
	}
	return filepath.Join(home, ".daycal")
}

// Load reads configuration from file, environment variables, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("storage", "markdown")
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("editor", "")
	v.SetDefault("locale", "en")
	v.SetDefault("max_width", 0)
	v.SetDefault("log_file", "")
	v.SetDefault("day_note.template", DefaultDayNoteTemplate)
	v.SetDefault("day_note.create_missing", true)
	v.SetDefault("service.mode", "local")
	v.SetDefault("service.command", "")
	v.SetDefault("calendar.fetch_timeout", "5s")
	v.SetDefault("theme.preset", "default-dark")

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// XDG support
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "daycal"))
		}
		v.AddConfigPath(DefaultDataDir())
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	// Environment variables: DAYCAL_STORAGE, DAYCAL_DATA_DIR, etc.
	v.SetEnvPrefix("DAYCAL")
	v.AutomaticEnv()

	// Read config file (ignore not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if configPath != "" {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	dataDir, err := homedir.Expand(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.DataDir = dataDir

	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "daycal.log")
	} else if cfg.LogFile, err = homedir.Expand(cfg.LogFile); err != nil {
		return nil, err
	}

	if cfg.Calendar.FetchTimeout <= 0 {
		cfg.Calendar.FetchTimeout = 5 * time.Second
	}

	return cfg, nil
}
