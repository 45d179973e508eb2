// Package config loads taskboard settings from defaults, a TOML file and
// the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// AppName names the config directory and file.
	AppName = "taskboard"

	// FileName is the config file looked up in the working directory and the
	// user config directory.
	FileName = "taskboard.toml"

	DefaultAPIURL     = "http://localhost:8080/v1/tasks"
	DefaultLocale     = "pt-BR"
	DefaultListenAddr = ":8090"
	DefaultTimeout    = 10 * time.Second
	DefaultWasmDir    = "web"
)

// Duration is a time.Duration written as a string such as "5s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds every setting of the taskboard binaries.
type Config struct {
	APIURL     string   `toml:"api_url"`     // task collection URL of the remote service
	Locale     string   `toml:"locale"`      // BCP 47 tag, e.g. pt-BR or en-US
	ListenAddr string   `toml:"listen_addr"` // web front address
	Timeout    Duration `toml:"timeout"`     // per-request timeout
	WasmDir    string   `toml:"wasm_dir"`    // WebAssembly build of the Gio client
	LogLevel   string   `toml:"log_level"`
	LogFormat  string   `toml:"log_format"`

	// File is the config file that was read, if any.
	File string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL:     DefaultAPIURL,
		Locale:     DefaultLocale,
		ListenAddr: DefaultListenAddr,
		Timeout:    Duration{DefaultTimeout},
		WasmDir:    DefaultWasmDir,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load builds the configuration. If path is empty the working directory and
// then the user config directory are searched; a missing file is not an
// error. An explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.File = path
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.APIURL == "" {
		errs = append(errs, errors.New("api_url is required"))
	}
	if c.Timeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	return errors.Join(errs...)
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TASKBOARD_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("TASKBOARD_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.ListenAddr = ":" + v
	}
	if v := os.Getenv("TASKBOARD_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("TASKBOARD_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TASKBOARD_TIMEOUT: %w", err)
		}
		cfg.Timeout = Duration{d}
	}
	if v := os.Getenv("WASM_DIR"); v != "" {
		cfg.WasmDir = v
	}
	if v := os.Getenv("TASKBOARD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKBOARD_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	return nil
}

func findFile() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	if dir := userConfigDir(); dir != "" {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// userConfigDir uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}
