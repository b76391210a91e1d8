package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".depobs"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .depobs configuration file.
// Zero values mean "keep the default".
type File struct {
	BaseURL         string            `yaml:"baseURL,omitempty"`
	Timeout         string            `yaml:"timeout,omitempty"`
	UserAgent       string            `yaml:"userAgent,omitempty"`
	Proxy           string            `yaml:"proxy,omitempty"`
	Headers         map[string]string `yaml:"headers,omitempty"`
	IssueTrackerURL string            `yaml:"issueTrackerURL,omitempty"`
	Markdown        bool              `yaml:"markdown,omitempty"`
	Serve           ServeFile         `yaml:"serve,omitempty"`
}

// ServeFile holds the development report service section of the file.
type ServeFile struct {
	Addr            string `yaml:"addr,omitempty"`
	DBDir           string `yaml:"dbDir,omitempty"`
	ScoredAfterDays int    `yaml:"scoredAfterDays,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies the non-zero values of the file onto cfg.
func (cf *File) Apply(cfg *Config) error {
	if cf.BaseURL != "" {
		cfg.BaseURL = cf.BaseURL
	}
	if cf.Timeout != "" {
		d, err := time.ParseDuration(cf.Timeout)
		if err != nil {
			return err
		}
		cfg.Timeout = d
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if cf.Proxy != "" {
		cfg.ProxyAddress = cf.Proxy
	}
	if len(cf.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(cf.Headers))
		}
		for k, v := range cf.Headers {
			cfg.Headers[k] = v
		}
	}
	if cf.IssueTrackerURL != "" {
		cfg.IssueTrackerURL = cf.IssueTrackerURL
	}
	if cf.Markdown {
		cfg.Markdown = true
	}
	if cf.Serve.Addr != "" {
		cfg.ServeAddr = cf.Serve.Addr
	}
	if cf.Serve.DBDir != "" {
		cfg.DBDir = cf.Serve.DBDir
	}
	if cf.Serve.ScoredAfterDays != 0 {
		cfg.ScoredAfterDays = cf.Serve.ScoredAfterDays
	}
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .depobs in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .depobs in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}
