package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/nao1215/depobs/internal/model"
)

func TestClient_CheckReport(t *testing.T) {
	t.Parallel()

	t.Run("sends HEAD with form fields as query", func(t *testing.T) {
		t.Parallel()

		var method string
		var query url.Values
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			query = r.URL.Query()
			w.WriteHeader(http.StatusNotFound)
		})

		fields := model.NewSubmissionFields(url.Values{
			"package_name":    {"left-pad"},
			"package_version": {"1.3.0"},
			"force_rescan":    {"off"},
		})
		resp, err := c.CheckReport(t.Context(), fields)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if method != http.MethodHead {
			t.Errorf("method = %s", method)
		}
		if query.Get("package_name") != "left-pad" || query.Get("package_version") != "1.3.0" || query.Get("force_rescan") != "off" {
			t.Errorf("query = %v", query)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d", resp.StatusCode)
		}
	})

	t.Run("follows redirects and reports final url", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/package_report", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/package_report/left-pad/1.3.0", http.StatusFound)
		})
		mux.HandleFunc("/package_report/left-pad/1.3.0", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		c := newTestClient(t, mux.ServeHTTP)

		resp, err := c.CheckReport(t.Context(), fieldsFor("left-pad", "1.3.0"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d", resp.StatusCode)
		}
		u, err := url.Parse(resp.URL)
		if err != nil {
			t.Fatalf("bad URL %q: %v", resp.URL, err)
		}
		if u.Path != "/package_report/left-pad/1.3.0" {
			t.Errorf("final path = %q", u.Path)
		}
	})

	t.Run("unexpected status is not an error", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Request-Id", "req-422")
			w.WriteHeader(http.StatusUnprocessableEntity)
		})

		resp, err := c.CheckReport(t.Context(), fieldsFor("left-pad", "1.3.0"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("StatusCode = %d", resp.StatusCode)
		}
		if resp.RequestID() != "req-422" {
			t.Errorf("RequestID() = %q", resp.RequestID())
		}
	})

	t.Run("transport failure is returned as error", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.NotFoundHandler())
		base := ts.URL
		ts.Close()

		c, err := NewClient(base)
		if err != nil {
			t.Fatalf("NewClient: %v", err)
		}
		_, err = c.CheckReport(t.Context(), fieldsFor("left-pad", "1.3.0"))
		if !errors.Is(err, model.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})
}
