package model

import "net/url"

// ScanJobName is the report-service job that scans and scores an npm package.
const ScanJobName = "scan_score_npm_package"

// ScanHandle identifies a scan started by the report service.
// It is consumed once to build the scan logs redirect and then discarded.
type ScanHandle struct {
	ID string
}

// LogsPath returns the path of the page that tails the scan's logs.
func (h ScanHandle) LogsPath() string {
	return "/scans/" + url.PathEscape(h.ID) + "/logs"
}
