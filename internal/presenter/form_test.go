package presenter

import (
	"errors"
	"net/url"
	"testing"
)

func TestForm(t *testing.T) {
	t.Parallel()

	t.Run("snapshot reflects set values", func(t *testing.T) {
		t.Parallel()

		f := NewForm()
		err := f.Fill(url.Values{
			"package_name":    {"left-pad"},
			"package_version": {"1.3.0"},
			"force_rescan":    {"on"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		s := f.Snapshot()
		if s.PackageName != "left-pad" || s.PackageVersion != "1.3.0" || !s.ForceRescan {
			t.Errorf("Snapshot() = %+v", s)
		}
	})

	t.Run("snapshot is not affected by later input", func(t *testing.T) {
		t.Parallel()

		f := NewForm()
		_ = f.Set("package_name", "left-pad")
		s := f.Snapshot()
		_ = f.Set("package_name", "right-pad")
		if s.PackageName != "left-pad" {
			t.Errorf("snapshot changed to %q", s.PackageName)
		}
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		t.Parallel()

		if err := NewForm().Set("evil", "x"); !errors.Is(err, ErrUnknownField) {
			t.Errorf("expected ErrUnknownField, got %v", err)
		}
	})

	t.Run("disabled form rejects input", func(t *testing.T) {
		t.Parallel()

		f := NewForm()
		f.setDisabled(true)
		if err := f.Set("package_name", "x"); !errors.Is(err, ErrFormDisabled) {
			t.Errorf("expected ErrFormDisabled, got %v", err)
		}
		for _, g := range f.Groups() {
			if !g.Disabled {
				t.Errorf("group %q should be disabled", g.Name)
			}
		}
	})
}
