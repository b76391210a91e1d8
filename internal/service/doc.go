// Package service talks to the dependency report service.
//
// Client implements the two leaf operations used by the submission
// controller:
//   - StartScan: POST /api/v1/scans, expecting 202 and a scan id
//   - CheckReport: HEAD /package_report, returning the raw probe response
//
// Neither call touches the UI. Transport failures are returned as
// *model.Failure wrapping model.ErrTransport; CheckReport never turns a
// status code into an error, classification belongs to the caller.
package service
