// Package model defines the data shared by the depobs report controller.
//
// This package contains the following main types:
//   - SubmissionFields: the immutable snapshot of one form submission
//   - ScanHandle: the identifier of a started scan
//   - Outcome: the tagged result of a report-service call
//   - Failure: the error carried by a failed report-service call
//
// The types are kept free of I/O so the service clients, the controller and
// the presenter can all depend on them without import cycles.
package model
