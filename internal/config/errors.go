package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidBaseURL is returned when the report service URL is not an
	// absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base url: must be an absolute http or https url")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidIssueTrackerURL is returned when the bug-report URL is not an
	// absolute URL.
	ErrInvalidIssueTrackerURL = errors.New("invalid issue tracker url: must be an absolute url")

	// ErrInvalidScoredAfterDays is returned when the report freshness window
	// is negative.
	ErrInvalidScoredAfterDays = errors.New("invalid scored after days: must be non-negative")

	// ErrInvalidProxyAddress is returned when the proxy address is not in
	// host:port form.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)
