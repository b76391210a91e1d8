package model

import (
	"errors"
	"net/http"
	"testing"
)

func TestFailure(t *testing.T) {
	t.Parallel()

	t.Run("status failure carries request id", func(t *testing.T) {
		t.Parallel()

		h := http.Header{}
		h.Set("x-request-id", "req-1")
		f := NewStatusFailure("/api/v1/scans", http.StatusInternalServerError, h)

		if f.StatusCode != http.StatusInternalServerError {
			t.Errorf("StatusCode = %d", f.StatusCode)
		}
		if f.RequestID != "req-1" {
			t.Errorf("RequestID = %q", f.RequestID)
		}
		if !errors.Is(f, ErrUnexpectedStatus) {
			t.Error("expected ErrUnexpectedStatus")
		}
		if f.Error() != "unexpected status: 500 from /api/v1/scans" {
			t.Errorf("Error() = %q", f.Error())
		}
	})

	t.Run("transport failure has no status", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		f := NewTransportFailure(cause)
		if f.StatusCode != 0 {
			t.Errorf("StatusCode = %d", f.StatusCode)
		}
		if !errors.Is(f, ErrTransport) || !errors.Is(f, cause) {
			t.Errorf("expected error chain to contain ErrTransport and cause, got %v", f)
		}
	})

	t.Run("AsFailure keeps existing failures", func(t *testing.T) {
		t.Parallel()

		f := &Failure{StatusCode: 418}
		if got := AsFailure(f); got != f {
			t.Errorf("AsFailure() = %v", got)
		}
		if AsFailure(nil) != nil {
			t.Error("expected nil for nil error")
		}
		if got := AsFailure(errors.New("boom")); !errors.Is(got, ErrTransport) {
			t.Errorf("expected transport failure, got %v", got)
		}
	})
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	if Success("/x").Err() != nil {
		t.Error("success outcome should have no error")
	}
	if NotFound().Err() != nil {
		t.Error("not found outcome should have no error")
	}
	f := &Failure{StatusCode: 500}
	if Failed(f).Err() != f {
		t.Error("failed outcome should return its failure")
	}
	if OutcomeNotFound.String() != "not found" {
		t.Errorf("String() = %q", OutcomeNotFound.String())
	}
}
