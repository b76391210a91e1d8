// Package controller decides, for one package report submission, whether an
// existing report satisfies the request or a new scan has to be started.
//
// Decision order, evaluated once per submission with no retries:
//
//  1. force rescan requested: start a scan
//  2. no version given: start a scan
//  3. otherwise lock the form, probe for the report, unlock, then
//     200 navigates to the report, 404 starts a scan, anything else
//     (or a transport error) shows an error
//
// A started scan navigates to its logs page; a failed one shows an error.
// Only one submission runs at a time; a submission made while another is in
// flight is ignored and reported as ErrSubmissionInFlight.
package controller
