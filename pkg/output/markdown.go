package output

import (
	"io"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown writes md to w, rendered for the terminal when format
// resolves to FormatTerminal and verbatim otherwise.
func RenderMarkdown(w io.Writer, format Format, md string) error {
	if Resolve(format, w) != FormatTerminal {
		_, err := io.WriteString(w, md)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
