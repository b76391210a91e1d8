package presenter

import (
	"net/url"
)

const (
	// issueTitle is the pre-filled title of a bug report.
	issueTitle = "error making request"

	// placeholderRequestID fills the bug report when no request id is known.
	placeholderRequestID = "replaceme"
)

// ErrorPanel is the state of the search error display.
type ErrorPanel struct {
	// Visible reports whether the panel is shown.
	Visible bool

	// Context describes the step that failed, e.g. "scanning a package".
	Context string

	// StatusCode is the failed response status, 0 for transport failures.
	StatusCode int

	// RequestID is the server request id, empty when unknown.
	RequestID string

	// IssueURL is the pre-filled bug report link.
	IssueURL string

	// Detail is the error message of the failure.
	Detail string
}

// BugReportURL builds a new-issue link on trackerURL pre-filled with the
// request id, or with a placeholder when requestID is empty.
func BugReportURL(trackerURL, requestID string) string {
	if requestID == "" {
		requestID = placeholderRequestID
	}

	u, err := url.Parse(trackerURL)
	if err != nil {
		return trackerURL
	}
	q := u.Query()
	q.Set("title", issueTitle)
	q.Set("body", "request id: "+requestID)
	u.RawQuery = q.Encode()
	return u.String()
}
