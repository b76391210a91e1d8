// Package config provides configuration structures and utilities for depobs.
// It defines where the report service lives, how the HTTP client talks to it,
// how outcomes are presented, and how the development report service runs.
package config
