package presenter

import (
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Renderer writes presenter output in a particular format.
type Renderer interface {
	RenderError(w io.Writer, panel ErrorPanel) error
	RenderNavigation(w io.Writer, target string) error
}

// TextRenderer prints coloured terminal output.
type TextRenderer struct {
	errColor  *color.Color
	linkColor *color.Color
	okColor   *color.Color
	dimColor  *color.Color
}

// NewTextRenderer creates a TextRenderer. noColor prints plain text.
func NewTextRenderer(noColor bool) *TextRenderer {
	r := &TextRenderer{
		errColor:  color.New(color.FgRed, color.Bold),
		linkColor: color.New(color.FgCyan, color.Underline),
		okColor:   color.New(color.FgGreen),
		dimColor:  color.New(color.FgHiBlack),
	}
	if noColor {
		for _, c := range []*color.Color{r.errColor, r.linkColor, r.okColor, r.dimColor} {
			c.DisableColor()
		}
	}
	return r
}

// RenderError prints the error panel.
func (r *TextRenderer) RenderError(w io.Writer, panel ErrorPanel) error {
	if !panel.Visible {
		return nil
	}
	if _, err := r.errColor.Fprintf(w, "Error while %s\n", panel.Context); err != nil {
		return err
	}
	if panel.StatusCode != 0 {
		if _, err := r.dimColor.Fprintf(w, "  status:     %d\n", panel.StatusCode); err != nil {
			return err
		}
	}
	if panel.RequestID != "" {
		if _, err := r.dimColor.Fprintf(w, "  request id: %s\n", panel.RequestID); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "  report a bug: "); err != nil {
		return err
	}
	_, err := r.linkColor.Fprintln(w, panel.IssueURL)
	return err
}

// RenderNavigation prints the navigation target.
func (r *TextRenderer) RenderNavigation(w io.Writer, target string) error {
	if _, err := r.okColor.Fprint(w, "Redirecting to "); err != nil {
		return err
	}
	_, err := r.linkColor.Fprintln(w, target)
	return err
}

// MarkdownRenderer prints GitHub flavoured Markdown.
type MarkdownRenderer struct {
	title cases.Caser
}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{title: cases.Title(language.English)}
}

// RenderError prints the error panel as a caution alert with a details table.
func (r *MarkdownRenderer) RenderError(w io.Writer, panel ErrorPanel) error {
	if !panel.Visible {
		return nil
	}

	status := "-"
	if panel.StatusCode != 0 {
		status = strconv.Itoa(panel.StatusCode)
	}
	requestID := "-"
	if panel.RequestID != "" {
		requestID = "`" + panel.RequestID + "`"
	}

	md := markdown.NewMarkdown(w)
	md.H2(r.title.String("error while " + panel.Context))
	md.PlainText("")
	md.Cautionf("The request failed while %s.", panel.Context)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Step", panel.Context},
			{"Status", status},
			{"Request ID", requestID},
		},
	})
	md.PlainText("")
	md.PlainTextf("If this keeps happening, %s.", markdown.Link("report a bug", panel.IssueURL))
	return md.Build()
}

// RenderNavigation prints the navigation target as a link.
func (r *MarkdownRenderer) RenderNavigation(w io.Writer, target string) error {
	md := markdown.NewMarkdown(w)
	md.PlainTextf("Redirecting to %s", markdown.Link(target, target))
	return md.Build()
}
