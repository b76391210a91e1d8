package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nao1215/depobs/internal/model"
)

// scanRequest is the body of POST /api/v1/scans.
type scanRequest struct {
	Name string   `json:"name"`
	Args []string `json:"args"`
}

// StartScan asks the report service to scan and score a package.
//
// The version argument is sent only when fields carries one. 202 Accepted is
// the only success status; any other status returns a *model.Failure with
// the status code and x-request-id. On success the scan id is read from the
// JSON response body.
func (c *Client) StartScan(ctx context.Context, fields model.SubmissionFields) (model.ScanHandle, error) {
	uri := c.endpoint(ScansPath, nil)

	payload, err := json.Marshal(scanRequest{
		Name: model.ScanJobName,
		Args: fields.ScanArgs(),
	})
	if err != nil {
		return model.ScanHandle{}, fmt.Errorf("failed to encode scan request: %w", err)
	}
	c.logger.Debug("starting scan", "url", uri, "body", string(payload))

	req, err := c.newRequest(ctx, http.MethodPost, uri, strings.NewReader(string(payload)))
	if err != nil {
		return model.ScanHandle{}, fmt.Errorf("failed to create scan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("error POSTing scan", "url", uri, "error", err)
		return model.ScanHandle{}, model.NewTransportFailure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse
		return model.ScanHandle{}, model.NewStatusFailure(uri, resp.StatusCode, resp.Header)
	}

	id, err := decodeScanID(resp.Body)
	if err != nil {
		return model.ScanHandle{}, &model.Failure{
			StatusCode: resp.StatusCode,
			RequestID:  resp.Header.Get(model.RequestIDHeader),
			Err:        fmt.Errorf("%w: %w", model.ErrMalformedScan, err),
		}
	}

	c.logger.Info("created scan", "id", id, "url", c.endpoint(ScansPath+"/"+id, nil))
	return model.ScanHandle{ID: id}, nil
}

// decodeScanID reads the "id" field of a scan JSON document. The service
// may encode it as a string or a number.
func decodeScanID(r io.Reader) (string, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode scan response: %w", err)
	}

	switch id := body["id"].(type) {
	case string:
		if id != "" {
			return id, nil
		}
	case json.Number:
		return id.String(), nil
	}
	return "", fmt.Errorf("scan response has no id field")
}
