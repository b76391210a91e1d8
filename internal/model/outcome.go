package model

// OutcomeKind tags the variant held by an Outcome.
type OutcomeKind int

const (
	// OutcomeSuccess means the call produced the expected payload.
	OutcomeSuccess OutcomeKind = iota

	// OutcomeNotFound means the report does not exist. It is a branch
	// signal, not an error.
	OutcomeNotFound

	// OutcomeFailure means the call failed; Failure holds the details.
	OutcomeFailure
)

// String returns a human-readable name of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not found"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of a report-service call:
// Success(URL), NotFound, or Failure{StatusCode, RequestID}.
type Outcome struct {
	Kind OutcomeKind

	// URL is the navigation target of a successful outcome.
	URL string

	// Failure is set for OutcomeFailure.
	Failure *Failure
}

// Success returns a successful outcome pointing at url.
func Success(url string) Outcome {
	return Outcome{Kind: OutcomeSuccess, URL: url}
}

// NotFound returns the not-found outcome.
func NotFound() Outcome {
	return Outcome{Kind: OutcomeNotFound}
}

// Failed returns a failed outcome.
func Failed(f *Failure) Outcome {
	return Outcome{Kind: OutcomeFailure, Failure: f}
}

// Err returns the failure as an error, or nil for other outcomes.
func (o Outcome) Err() error {
	if o.Kind != OutcomeFailure || o.Failure == nil {
		return nil
	}
	return o.Failure
}
