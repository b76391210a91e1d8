// Package devserver implements a development double of the dependency
// report service.
//
// It serves the endpoints the depobs CLI talks to (the package report query,
// the report pages, the scans API and the scan logs page) on top of the
// SQLite store in internal/database. Every response carries the standard
// security headers and a fresh X-Request-Id so error paths can be exercised
// end to end.
package devserver
