package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nao1215/depobs/internal/model"
	"github.com/nao1215/depobs/internal/service"
	"golang.org/x/sync/semaphore"
)

// Error contexts shown to the user for each failing step.
const (
	ContextCheckingReport = "checking a package report exists"
	ContextScanning       = "scanning a package"
	ContextRescanning     = "rescanning a package"
)

// ErrSubmissionInFlight is returned when OnSubmit is called while another
// submission is still running. The second submission is ignored.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// ScanRequester starts package scans.
type ScanRequester interface {
	StartScan(ctx context.Context, fields model.SubmissionFields) (model.ScanHandle, error)
}

// ReportChecker probes whether a package report exists.
type ReportChecker interface {
	CheckReport(ctx context.Context, fields model.SubmissionFields) (*service.ProbeResponse, error)
}

// FormPresenter applies the visible effects of a submission.
type FormPresenter interface {
	Lock()
	Unlock()
	ShowError(failure *model.Failure, errContext string)
	ClearError()
	Navigate(target string)
}

// Controller runs package report submissions.
type Controller struct {
	checker   ReportChecker
	requester ScanRequester
	presenter FormPresenter
	logger    *slog.Logger

	inFlight *semaphore.Weighted
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates a Controller.
func New(checker ReportChecker, requester ScanRequester, presenter FormPresenter, opts ...Option) *Controller {
	c := &Controller{
		checker:   checker,
		requester: requester,
		presenter: presenter,
		inFlight:  semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// OnSubmit handles one submission of the package report form and returns
// its terminal outcome. The returned error is the failure shown to the
// user, or ErrSubmissionInFlight when the submission was ignored.
func (c *Controller) OnSubmit(ctx context.Context, fields model.SubmissionFields) (model.Outcome, error) {
	if !c.inFlight.TryAcquire(1) {
		c.logger.Warn("ignoring submission while another is in progress", "package", fields.PackageName)
		return model.Outcome{}, ErrSubmissionInFlight
	}
	defer c.inFlight.Release(1)

	c.logger.Debug("form submitted",
		"package", fields.PackageName,
		"version", fields.PackageVersion,
		"force_rescan", fields.ForceRescan,
	)
	c.presenter.ClearError()

	var outcome model.Outcome
	switch {
	case fields.ForceRescan:
		c.logger.Debug("skipping report check since rescan requested")
		outcome = c.scan(ctx, fields, ContextRescanning)
	case !fields.HasVersion():
		c.logger.Debug("skipping report check since package version not specified")
		outcome = c.scan(ctx, fields, ContextRescanning)
	default:
		outcome = c.checkThenScan(ctx, fields)
	}
	return outcome, outcome.Err()
}

// checkThenScan probes for an existing report and falls back to a scan
// when the report is missing.
func (c *Controller) checkThenScan(ctx context.Context, fields model.SubmissionFields) model.Outcome {
	probe, err := c.probe(ctx, fields)
	if err != nil {
		c.logger.Error("error checking report exists", "error", err)
		return c.fail(model.AsFailure(err), ContextCheckingReport)
	}

	switch probe.StatusCode {
	case http.StatusOK:
		c.logger.Debug("report exists", "url", probe.URL)
		c.presenter.Navigate(probe.URL)
		return model.Success(probe.URL)
	case http.StatusNotFound:
		return c.scan(ctx, fields, ContextScanning)
	default:
		return c.fail(model.NewStatusFailure(probe.URL, probe.StatusCode, probe.Header), ContextCheckingReport)
	}
}

// probe runs the report check with the form locked. The form is unlocked
// on every return path, before the caller acts on the result.
func (c *Controller) probe(ctx context.Context, fields model.SubmissionFields) (*service.ProbeResponse, error) {
	c.presenter.Lock()
	defer c.presenter.Unlock()

	resp, err := c.checker.CheckReport(ctx, fields)
	if err == nil && resp == nil {
		err = errors.New("report check returned no response")
	}
	return resp, err
}

// scan starts a scan and navigates to its logs, or shows an error labelled
// with errContext.
func (c *Controller) scan(ctx context.Context, fields model.SubmissionFields, errContext string) model.Outcome {
	handle, err := c.requester.StartScan(ctx, fields)
	if err != nil {
		c.logger.Error("error starting scan", "context", errContext, "error", err)
		return c.fail(model.AsFailure(err), errContext)
	}

	target := handle.LogsPath()
	c.logger.Info("redirecting to scan logs", "scan", handle.ID, "path", target)
	c.presenter.Navigate(target)
	return model.Success(target)
}

func (c *Controller) fail(f *model.Failure, errContext string) model.Outcome {
	c.presenter.ShowError(f, errContext)
	return model.Failed(f)
}
