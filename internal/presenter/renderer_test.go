package presenter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

var errTest = errors.New("connection refused")

func TestMarkdownRenderer(t *testing.T) {
	t.Parallel()

	t.Run("error panel", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		panel := ErrorPanel{
			Visible:    true,
			Context:    "checking a package report exists",
			StatusCode: 502,
			RequestID:  "req-1",
			IssueURL:   BugReportURL(DefaultIssueTrackerURL, "req-1"),
		}
		if err := NewMarkdownRenderer().RenderError(&buf, panel); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"## Error While Checking A Package Report Exists",
			"[!CAUTION]",
			"| Status",
			"502",
			"`req-1`",
			"[report a bug](",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("hidden panel renders nothing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := NewMarkdownRenderer().RenderError(&buf, ErrorPanel{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("navigation", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		target := "http://localhost:8000/scans/1/logs"
		if err := NewMarkdownRenderer().RenderNavigation(&buf, target); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "["+target+"]("+target+")") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})
}

func TestTextRenderer_NoColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewTextRenderer(true)
	panel := ErrorPanel{Visible: true, Context: "scanning a package", IssueURL: "https://example.com/new"}
	if err := r.RenderError(&buf, panel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected no ANSI escapes: %q", buf.String())
	}
	if strings.Contains(buf.String(), "status:") {
		t.Errorf("expected no status line for transport failure: %q", buf.String())
	}
}
