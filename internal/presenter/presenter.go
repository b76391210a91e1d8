package presenter

import (
	"io"
	"log/slog"
	"net/url"
	"os"
	"sync"

	"github.com/nao1215/depobs/internal/model"
)

// DefaultIssueTrackerURL is the new-issue page used for bug-report links.
const DefaultIssueTrackerURL = "https://github.com/mozilla-services/dependency-observatory/issues/new"

// Presenter applies UI side effects for the submission controller.
// It owns the form lock state and the error panel.
type Presenter struct {
	mu sync.Mutex

	form   *Form
	locked bool
	panel  ErrorPanel

	destination string

	output          io.Writer
	renderer        Renderer
	baseURL         *url.URL
	issueTrackerURL string
	logger          *slog.Logger
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithForm sets the form the presenter locks and unlocks.
func WithForm(form *Form) Option {
	return func(p *Presenter) {
		p.form = form
	}
}

// WithOutput sets where the error panel and navigation are rendered.
func WithOutput(w io.Writer) Option {
	return func(p *Presenter) {
		p.output = w
	}
}

// WithRenderer sets the output format.
func WithRenderer(r Renderer) Option {
	return func(p *Presenter) {
		p.renderer = r
	}
}

// WithBaseURL resolves relative navigation targets against base.
func WithBaseURL(base *url.URL) Option {
	return func(p *Presenter) {
		p.baseURL = base
	}
}

// WithIssueTrackerURL sets the new-issue page for bug-report links.
func WithIssueTrackerURL(u string) Option {
	return func(p *Presenter) {
		if u != "" {
			p.issueTrackerURL = u
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Presenter) {
		p.logger = logger
	}
}

// New creates a Presenter. Without options it renders coloured text to
// stdout for a fresh form.
func New(opts ...Option) *Presenter {
	p := &Presenter{
		issueTrackerURL: DefaultIssueTrackerURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.form == nil {
		p.form = NewForm()
	}
	if p.output == nil {
		p.output = os.Stdout
	}
	if p.renderer == nil {
		p.renderer = NewTextRenderer(false)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Form returns the form owned by the presenter.
func (p *Presenter) Form() *Form {
	return p.form
}

// Lock disables every field group. Locking a locked form is a no-op.
func (p *Presenter) Lock() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.locked {
		p.logger.Debug("disabling search form")
	}
	p.locked = true
	p.form.setDisabled(true)
}

// Unlock enables every field group. Unlocking an unlocked form is a no-op.
func (p *Presenter) Unlock() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.locked {
		p.logger.Debug("enabling search form")
	}
	p.locked = false
	p.form.setDisabled(false)
}

// Locked reports whether the form is currently disabled.
func (p *Presenter) Locked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.locked
}

// ShowError fills and shows the error panel. A request id, when present,
// is rendered with a pre-filled bug-report link; otherwise the id is
// cleared and the link carries a placeholder.
func (p *Presenter) ShowError(failure *model.Failure, errContext string) {
	p.mu.Lock()
	panel := ErrorPanel{
		Visible: true,
		Context: errContext,
	}
	if failure != nil {
		panel.StatusCode = failure.StatusCode
		panel.RequestID = failure.RequestID
		panel.Detail = failure.Error()
	}
	panel.IssueURL = BugReportURL(p.issueTrackerURL, panel.RequestID)
	p.panel = panel
	p.mu.Unlock()

	p.logger.Warn("search error", "context", errContext, "status", panel.StatusCode, "request_id", panel.RequestID)
	if err := p.renderer.RenderError(p.output, panel); err != nil {
		p.logger.Error("failed to render error panel", "error", err)
	}
}

// ClearError hides the error panel.
func (p *Presenter) ClearError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.panel = ErrorPanel{}
}

// ErrorPanel returns the current error panel state.
func (p *Presenter) ErrorPanel() ErrorPanel {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.panel
}

// Navigate sends the user to target, resolved against the base URL when
// relative. It is terminal for the submission.
func (p *Presenter) Navigate(target string) {
	resolved := p.resolve(target)

	p.mu.Lock()
	p.destination = resolved
	p.mu.Unlock()

	p.logger.Info("redirecting", "url", resolved)
	if err := p.renderer.RenderNavigation(p.output, resolved); err != nil {
		p.logger.Error("failed to render navigation", "error", err)
	}
}

// Destination returns the last navigation target, or "" if none.
func (p *Presenter) Destination() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.destination
}

func (p *Presenter) resolve(target string) string {
	if p.baseURL == nil {
		return target
	}
	ref, err := url.Parse(target)
	if err != nil || ref.IsAbs() {
		return target
	}
	return p.baseURL.ResolveReference(ref).String()
}
