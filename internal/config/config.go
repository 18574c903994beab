// Package config loads timeclock.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/amonks/timeclock/internal/paths"
)

// ProjectFile is the per-directory config file name.
const ProjectFile = "timeclock.toml"

// APIURLEnv overrides the configured service URL.
const APIURLEnv = "TC_API_URL"

const (
	DefaultAPIURL     = "http://127.0.0.1:8089"
	DefaultTimeout    = 15 * time.Second
	DefaultPageSize   = 10
	DefaultServerAddr = "127.0.0.1:8089"
)

// Config represents a timeclock.toml file.
type Config struct {
	API     API     `toml:"api"`
	Display Display `toml:"display"`
	Server  Server  `toml:"server"`
}

// API configures the task service client.
type API struct {
	URL string `toml:"url"`
	// Timeout is a Go duration string such as "15s".
	Timeout string `toml:"timeout"`
}

// Display configures tables and the terminal UI.
type Display struct {
	PageSize int `toml:"page-size"`
	// Timezone is an IANA zone name used to group entries by day.
	Timezone string `toml:"timezone"`
}

// Server configures tc serve.
type Server struct {
	Addr     string `toml:"addr"`
	StateDir string `toml:"state-dir"`
}

// Load reads the global config file and dir/timeclock.toml, with project
// values winning wherever they are defined. Missing files are not errors.
func Load(dir string) (*Config, error) {
	globalCfg, globalMeta, err := loadConfigFile(paths.GlobalConfigPath())
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, ProjectFile))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	if url := strings.TrimSpace(os.Getenv(APIURLEnv)); url != "" {
		merged.API.URL = url
	}
	return merged, nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("config file %s: unknown key %s", path, undecoded[0])
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.API.URL = mergeString(projectMeta.IsDefined("api", "url"), projectCfg.API.URL, globalCfg.API.URL)
	merged.API.Timeout = mergeString(projectMeta.IsDefined("api", "timeout"), projectCfg.API.Timeout, globalCfg.API.Timeout)
	merged.Display.Timezone = mergeString(projectMeta.IsDefined("display", "timezone"), projectCfg.Display.Timezone, globalCfg.Display.Timezone)
	merged.Server.Addr = mergeString(projectMeta.IsDefined("server", "addr"), projectCfg.Server.Addr, globalCfg.Server.Addr)
	merged.Server.StateDir = mergeString(projectMeta.IsDefined("server", "state-dir"), projectCfg.Server.StateDir, globalCfg.Server.StateDir)
	if projectMeta.IsDefined("display", "page-size") {
		merged.Display.PageSize = projectCfg.Display.PageSize
	} else if globalMeta.IsDefined("display", "page-size") {
		merged.Display.PageSize = globalCfg.Display.PageSize
	}

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

// APIURL returns the service URL or the default.
func (c *Config) APIURL() string {
	if c.API.URL == "" {
		return DefaultAPIURL
	}
	return c.API.URL
}

// APITimeout parses the configured timeout.
func (c *Config) APITimeout() (time.Duration, error) {
	if c.API.Timeout == "" {
		return DefaultTimeout, nil
	}
	timeout, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, fmt.Errorf("api.timeout: %w", err)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	return timeout, nil
}

// PageSize returns the configured page size or the default.
func (c *Config) PageSize() int {
	if c.Display.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.Display.PageSize
}

// Location resolves the display timezone; empty means time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Display.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("display.timezone: %w", err)
	}
	return loc, nil
}

// ServerAddr returns the dev server listen address or the default.
func (c *Config) ServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultServerAddr
	}
	return c.Server.Addr
}

// ServerStateDir returns the dev server data dir or the XDG default.
func (c *Config) ServerStateDir() string {
	if c.Server.StateDir == "" {
		return paths.DefaultServerStateDir()
	}
	return c.Server.StateDir
}
