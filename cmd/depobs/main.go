// Package main provides the entry point for the depobs CLI.
//
// depobs requests dependency-risk reports for npm packages. For each request
// it either redirects to an existing, recent report or queues a new scan and
// redirects to the scan's log page.
//
// Usage:
//
//	depobs report <package> [version]
//	depobs report --force-rescan <package>
//	depobs serve
//
// See --help for all available options.
package main

// main is the entry point for depobs.
func main() {
	Execute()
}
