// Package presenter owns every visible side effect of a package report
// submission: enabling and disabling the form, the error panel, and
// navigation to the next page.
//
// A Presenter renders to an io.Writer through a Renderer. TextRenderer
// prints coloured terminal output; MarkdownRenderer prints GitHub flavoured
// Markdown.
package presenter
