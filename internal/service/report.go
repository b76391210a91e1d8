package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nao1215/depobs/internal/model"
)

// ProbeResponse is the metadata of a report existence probe.
type ProbeResponse struct {
	// StatusCode is the status of the final response.
	StatusCode int

	// Header holds the final response headers.
	Header http.Header

	// URL is the final URL after redirects, i.e. the report location when
	// the report exists.
	URL string
}

// RequestID returns the x-request-id header of the probe response.
func (p *ProbeResponse) RequestID() string {
	return p.Header.Get(model.RequestIDHeader)
}

// CheckReport probes whether a report exists for fields with a HEAD request
// to /package_report, following redirects. Every status is returned as a
// ProbeResponse; only transport failures produce an error.
func (c *Client) CheckReport(ctx context.Context, fields model.SubmissionFields) (*ProbeResponse, error) {
	uri := c.endpoint(PackageReportPath, fields.Values())

	req, err := c.newRequest(ctx, http.MethodHead, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create report request: %w", err)
	}

	c.logger.Debug("checking package report exists", "url", uri)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("error checking report exists", "url", uri, "error", err)
		return nil, model.NewTransportFailure(err)
	}
	defer resp.Body.Close()

	probe := &ProbeResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		URL:        resp.Request.URL.String(),
	}
	c.logger.Debug("report probe finished", "status", probe.StatusCode, "url", probe.URL)
	return probe, nil
}
