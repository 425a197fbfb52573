package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successColor = lipgloss.AdaptiveColor{Light: "#28A745", Dark: "#4CDD76"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#DC3545", Dark: "#FF6B7D"}
	warningColor = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFD54F"}
	infoColor    = lipgloss.AdaptiveColor{Light: "#17A2B8", Dark: "#4DD0E1"}
	headingColor = lipgloss.AdaptiveColor{Light: "#212529", Dark: "#F8F9FA"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#ADB5BD"}
	pathColor    = lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#A0A8B0"}
)

// palette decorates report text. The plain palette leaves text as is and
// spells states out in words.
type palette struct {
	heading func(string) string
	muted   func(string) string
	path    func(string) string
	success func(string) string
	failure func(string) string
	warning func(string) string
	info    func(string) string

	okMark       string
	failMark     string
	warnMark     string
	createdMark  string
	linkedMark   string
	conflictMark string
}

func plainPalette() palette {
	id := func(s string) string { return s }
	return palette{
		heading: id, muted: id, path: id, success: id, failure: id, warning: id, info: id,

		okMark:       "ok",
		failMark:     "FAILED",
		warnMark:     "orphan",
		createdMark:  "created",
		linkedMark:   "linked",
		conflictMark: "CONFLICT",
	}
}

func terminalPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	render := func(s lipgloss.Style) func(string) string {
		return func(text string) string { return s.Render(text) }
	}

	success := r.NewStyle().Foreground(successColor).Bold(true)
	failure := r.NewStyle().Foreground(errorColor).Bold(true)
	warning := r.NewStyle().Foreground(warningColor).Bold(true)
	info := r.NewStyle().Foreground(infoColor)

	return palette{
		heading: render(r.NewStyle().Foreground(headingColor).Bold(true)),
		muted:   render(r.NewStyle().Foreground(mutedColor)),
		path:    render(r.NewStyle().Foreground(pathColor).Italic(true)),
		success: render(success),
		failure: render(failure),
		warning: render(warning),
		info:    render(info),

		okMark:       success.Render("✓"),
		failMark:     failure.Render("✗"),
		warnMark:     warning.Render("!"),
		createdMark:  success.Render("+"),
		linkedMark:   info.Render("="),
		conflictMark: warning.Render("!"),
	}
}
