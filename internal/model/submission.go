package model

import (
	"net/url"
)

// Form field names consumed from a package report submission.
const (
	FieldPackageName    = "package_name"
	FieldPackageVersion = "package_version"
	FieldForceRescan    = "force_rescan"

	// checkboxOn is the value a checked checkbox submits.
	checkboxOn = "on"
)

// SubmissionFields is the snapshot of the package report form taken at
// submit time. It is treated as immutable once built.
type SubmissionFields struct {
	// PackageName is the npm package to report on. Required.
	PackageName string

	// PackageVersion is the package version. Empty means "latest".
	PackageVersion string

	// ForceRescan skips the report existence check and always starts a scan.
	ForceRescan bool

	// forceRescanRaw keeps the submitted checkbox value so Values can encode
	// the fields verbatim.
	forceRescanRaw string
}

// NewSubmissionFields snapshots submitted form values.
// ForceRescan is set only when force_rescan carries the literal "on".
func NewSubmissionFields(values url.Values) SubmissionFields {
	raw := values.Get(FieldForceRescan)
	return SubmissionFields{
		PackageName:    values.Get(FieldPackageName),
		PackageVersion: values.Get(FieldPackageVersion),
		ForceRescan:    raw == checkboxOn,
		forceRescanRaw: raw,
	}
}

// HasVersion reports whether a specific version was requested.
func (s SubmissionFields) HasVersion() bool {
	return s.PackageVersion != ""
}

// Values encodes the fields the way the form submits them.
// Fields absent from the original submission stay absent.
func (s SubmissionFields) Values() url.Values {
	v := url.Values{}
	v.Set(FieldPackageName, s.PackageName)
	if s.PackageVersion != "" {
		v.Set(FieldPackageVersion, s.PackageVersion)
	}
	switch {
	case s.forceRescanRaw != "":
		v.Set(FieldForceRescan, s.forceRescanRaw)
	case s.ForceRescan:
		v.Set(FieldForceRescan, checkboxOn)
	}
	return v
}

// ScanArgs returns the positional arguments for a package scan.
// The version argument is omitted entirely when no version was given.
func (s SubmissionFields) ScanArgs() []string {
	if !s.HasVersion() {
		return []string{s.PackageName}
	}
	return []string{s.PackageName, s.PackageVersion}
}

// Validate checks that the submission names a package.
func (s SubmissionFields) Validate() error {
	if s.PackageName == "" {
		return ErrMissingPackageName
	}
	return nil
}
