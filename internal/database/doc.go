// Package database provides SQLite-based storage for the development report
// service.
//
// The store keeps two tables:
//   - scans: queued scan jobs created through the scans API
//   - package_reports: scored package reports looked up by name and version
//
// SQLite (via modernc.org/sqlite) keeps the service a single CGO-free binary
// whose state lives in one file under the XDG data directory.
package database
