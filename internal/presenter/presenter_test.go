package presenter

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"github.com/nao1215/depobs/internal/model"
)

func newTestPresenter(t *testing.T, opts ...Option) (*Presenter, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	base, err := url.Parse("http://localhost:8000")
	if err != nil {
		t.Fatal(err)
	}
	all := append([]Option{
		WithOutput(&buf),
		WithRenderer(NewTextRenderer(true)),
		WithBaseURL(base),
	}, opts...)
	return New(all...), &buf
}

func allGroupsDisabled(p *Presenter, want bool) bool {
	for _, g := range p.Form().Groups() {
		if g.Disabled != want {
			return false
		}
	}
	return true
}

func TestPresenter_LockUnlock(t *testing.T) {
	t.Parallel()

	t.Run("lock twice equals lock once", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestPresenter(t)
		p.Lock()
		p.Lock()
		if !p.Locked() || !allGroupsDisabled(p, true) {
			t.Error("expected form to be disabled")
		}
	})

	t.Run("unlock twice equals unlock once", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestPresenter(t)
		p.Lock()
		p.Unlock()
		p.Unlock()
		if p.Locked() || !allGroupsDisabled(p, false) {
			t.Error("expected form to be enabled")
		}
	})

	t.Run("new presenter starts unlocked", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestPresenter(t)
		if p.Locked() {
			t.Error("expected unlocked")
		}
	})
}

func TestPresenter_ShowError(t *testing.T) {
	t.Parallel()

	t.Run("request id is rendered into the bug link", func(t *testing.T) {
		t.Parallel()

		p, buf := newTestPresenter(t)
		p.ShowError(&model.Failure{StatusCode: 500, RequestID: "req-42"}, "scanning a package")

		panel := p.ErrorPanel()
		if !panel.Visible {
			t.Fatal("expected visible panel")
		}
		if panel.Context != "scanning a package" {
			t.Errorf("Context = %q", panel.Context)
		}
		if panel.RequestID != "req-42" {
			t.Errorf("RequestID = %q", panel.RequestID)
		}
		if !strings.Contains(panel.IssueURL, "request+id%3A+req-42") {
			t.Errorf("IssueURL = %q", panel.IssueURL)
		}

		out := buf.String()
		for _, want := range []string{"Error while scanning a package", "status:     500", "request id: req-42", panel.IssueURL} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("missing request id falls back to placeholder", func(t *testing.T) {
		t.Parallel()

		p, buf := newTestPresenter(t)
		p.ShowError(&model.Failure{StatusCode: 500, RequestID: "old"}, "scanning a package")
		p.ShowError(model.NewTransportFailure(errTest), "checking a package report exists")

		panel := p.ErrorPanel()
		if panel.RequestID != "" {
			t.Errorf("RequestID = %q, expected it to be cleared", panel.RequestID)
		}
		if !strings.Contains(panel.IssueURL, "request+id%3A+replaceme") {
			t.Errorf("IssueURL = %q", panel.IssueURL)
		}
		if strings.Count(buf.String(), "request id:") != 1 {
			t.Errorf("expected only the first panel to print a request id:\n%s", buf.String())
		}
	})

	t.Run("custom issue tracker", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestPresenter(t, WithIssueTrackerURL("https://tracker.example.com/new"))
		p.ShowError(nil, "scanning a package")
		if !strings.HasPrefix(p.ErrorPanel().IssueURL, "https://tracker.example.com/new?") {
			t.Errorf("IssueURL = %q", p.ErrorPanel().IssueURL)
		}
	})

	t.Run("clear hides the panel", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestPresenter(t)
		p.ShowError(&model.Failure{StatusCode: 500}, "scanning a package")
		p.ClearError()
		if p.ErrorPanel().Visible {
			t.Error("expected hidden panel")
		}
	})
}

func TestPresenter_Navigate(t *testing.T) {
	t.Parallel()

	t.Run("relative target is resolved against base url", func(t *testing.T) {
		t.Parallel()

		p, buf := newTestPresenter(t)
		p.Navigate("/scans/abc123/logs")
		if got := p.Destination(); got != "http://localhost:8000/scans/abc123/logs" {
			t.Errorf("Destination() = %q", got)
		}
		if !strings.Contains(buf.String(), "Redirecting to http://localhost:8000/scans/abc123/logs") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("absolute target is kept", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestPresenter(t)
		p.Navigate("https://depobs.example.com/package_report/left-pad/1.3.0")
		if got := p.Destination(); got != "https://depobs.example.com/package_report/left-pad/1.3.0" {
			t.Errorf("Destination() = %q", got)
		}
	})
}

func TestBugReportURL(t *testing.T) {
	t.Parallel()

	got := BugReportURL(DefaultIssueTrackerURL, "abc")
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("invalid URL %q: %v", got, err)
	}
	if u.Query().Get("title") != "error making request" {
		t.Errorf("title = %q", u.Query().Get("title"))
	}
	if u.Query().Get("body") != "request id: abc" {
		t.Errorf("body = %q", u.Query().Get("body"))
	}
	if u.Host != "github.com" || u.Path != "/mozilla-services/dependency-observatory/issues/new" {
		t.Errorf("unexpected tracker %q", got)
	}
}
