package config

import (
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "depobs"

	// DefaultBaseURL is where a locally started `depobs serve` listens.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultServeAddr is the listen address of the development report service.
	DefaultServeAddr = "127.0.0.1:8000"

	// DefaultTimeout bounds each request to the report service.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies depobs in requests to the report service.
	DefaultUserAgent = "depobs/1.0 (+https://github.com/nao1215/depobs)"

	// DefaultIssueTrackerURL is the tracker that bug-report links point at.
	DefaultIssueTrackerURL = "https://github.com/mozilla-services/dependency-observatory/issues/new"

	// DefaultScoredAfterDays is how old a report may be and still count as
	// existing in the development report service.
	DefaultScoredAfterDays = 30
)

// Config holds all configuration options for depobs.
// It is populated from the config file and CLI flags and passed down
// explicitly; nothing reads it from global state.
type Config struct {
	// BaseURL is the root URL of the report service.
	BaseURL string

	// Timeout bounds each HTTP request to the report service.
	Timeout time.Duration

	// UserAgent is sent with every request to the report service.
	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in host:port form.
	ProxyAddress string

	// Headers are extra HTTP headers sent to the report service
	// (for example an Authorization header in front of a private deployment).
	Headers map[string]string

	// IssueTrackerURL is the "new issue" URL used for bug-report links.
	IssueTrackerURL string

	// Markdown renders outcomes as Markdown instead of coloured text.
	Markdown bool

	// NoColor disables ANSI colours in text output.
	NoColor bool

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path to the configuration file. Empty means
	// search the current and home directories.
	ConfigFilePath string

	// ServeAddr is the listen address of `depobs serve`.
	ServeAddr string

	// DBDir is the directory holding the development service database.
	DBDir string

	// ScoredAfterDays is the freshness window for reports served by the
	// development report service.
	ScoredAfterDays int
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:         DefaultBaseURL,
		Timeout:         DefaultTimeout,
		UserAgent:       DefaultUserAgent,
		IssueTrackerURL: DefaultIssueTrackerURL,
		ServeAddr:       DefaultServeAddr,
		DBDir:           XDGDataDir(),
		ScoredAfterDays: DefaultScoredAfterDays,
	}
}

// XDGDataDir returns the XDG data directory for depobs.
// On Linux: ~/.local/share/depobs
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for depobs.
// On Linux: ~/.config/depobs
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	tracker, err := url.Parse(c.IssueTrackerURL)
	if err != nil || !tracker.IsAbs() {
		return ErrInvalidIssueTrackerURL
	}

	if c.ScoredAfterDays < 0 {
		return ErrInvalidScoredAfterDays
	}

	if c.ProxyAddress != "" && !IsValidProxyAddress(c.ProxyAddress) {
		return ErrInvalidProxyAddress
	}

	return nil
}

// IsValidProxyAddress checks that address is host:port with a port in
// the range 1-65535.
func IsValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}
