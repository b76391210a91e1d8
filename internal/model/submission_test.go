package model

import (
	"net/url"
	"reflect"
	"testing"
)

func TestNewSubmissionFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		values      url.Values
		wantName    string
		wantVersion string
		wantForce   bool
	}{
		{
			name:        "name and version",
			values:      url.Values{"package_name": {"left-pad"}, "package_version": {"1.3.0"}},
			wantName:    "left-pad",
			wantVersion: "1.3.0",
		},
		{
			name:      "force rescan on",
			values:    url.Values{"package_name": {"left-pad"}, "force_rescan": {"on"}},
			wantName:  "left-pad",
			wantForce: true,
		},
		{
			name:     "force rescan with other value is ignored",
			values:   url.Values{"package_name": {"left-pad"}, "force_rescan": {"true"}},
			wantName: "left-pad",
		},
		{
			name:     "empty version means latest",
			values:   url.Values{"package_name": {"left-pad"}, "package_version": {""}},
			wantName: "left-pad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NewSubmissionFields(tt.values)
			if got.PackageName != tt.wantName {
				t.Errorf("PackageName = %q, expected %q", got.PackageName, tt.wantName)
			}
			if got.PackageVersion != tt.wantVersion {
				t.Errorf("PackageVersion = %q, expected %q", got.PackageVersion, tt.wantVersion)
			}
			if got.ForceRescan != tt.wantForce {
				t.Errorf("ForceRescan = %v, expected %v", got.ForceRescan, tt.wantForce)
			}
		})
	}
}

func TestSubmissionFields_ScanArgs(t *testing.T) {
	t.Parallel()

	t.Run("version omitted when empty", func(t *testing.T) {
		t.Parallel()
		s := SubmissionFields{PackageName: "left-pad"}
		if got := s.ScanArgs(); !reflect.DeepEqual(got, []string{"left-pad"}) {
			t.Errorf("ScanArgs() = %v", got)
		}
	})

	t.Run("version included when set", func(t *testing.T) {
		t.Parallel()
		s := SubmissionFields{PackageName: "left-pad", PackageVersion: "1.3.0"}
		if got := s.ScanArgs(); !reflect.DeepEqual(got, []string{"left-pad", "1.3.0"}) {
			t.Errorf("ScanArgs() = %v", got)
		}
	})
}

func TestSubmissionFields_Values(t *testing.T) {
	t.Parallel()

	t.Run("round trips submitted values verbatim", func(t *testing.T) {
		t.Parallel()
		in := url.Values{"package_name": {"left-pad"}, "package_version": {"1.3.0"}, "force_rescan": {"yes"}}
		got := NewSubmissionFields(in).Values()
		if got.Encode() != in.Encode() {
			t.Errorf("Values() = %q, expected %q", got.Encode(), in.Encode())
		}
	})

	t.Run("force rescan set programmatically encodes as on", func(t *testing.T) {
		t.Parallel()
		s := SubmissionFields{PackageName: "left-pad", ForceRescan: true}
		if got := s.Values().Get("force_rescan"); got != "on" {
			t.Errorf("force_rescan = %q, expected %q", got, "on")
		}
	})

	t.Run("absent version stays absent", func(t *testing.T) {
		t.Parallel()
		s := SubmissionFields{PackageName: "left-pad"}
		if _, ok := s.Values()["package_version"]; ok {
			t.Error("expected package_version to be absent")
		}
	})
}

func TestSubmissionFields_Validate(t *testing.T) {
	t.Parallel()

	if err := (SubmissionFields{}).Validate(); err != ErrMissingPackageName {
		t.Errorf("expected ErrMissingPackageName, got %v", err)
	}
	if err := (SubmissionFields{PackageName: "x"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestScanHandle_LogsPath(t *testing.T) {
	t.Parallel()

	h := ScanHandle{ID: "abc123"}
	if got := h.LogsPath(); got != "/scans/abc123/logs" {
		t.Errorf("LogsPath() = %q", got)
	}
}
