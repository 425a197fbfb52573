package output

import (
	"fmt"
	"io"

	"github.com/arthur-debert/mtcollect/pkg/types"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderRun renders the outcome of a collection update.
	RenderRun(report *types.RunReport) error

	// RenderSync renders the outcome of a sync or sync-dev run.
	RenderSync(report *types.SyncReport) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error
}

// NewRenderer creates a renderer for format writing to w. FormatAuto is
// resolved against w first.
func NewRenderer(format Format, w io.Writer) (Renderer, error) {
	switch Resolve(format, w) {
	case FormatTerminal:
		return newHumanRenderer(w, terminalPalette(w)), nil
	case FormatText:
		return newHumanRenderer(w, plainPalette()), nil
	case FormatJSON:
		return newJSONRenderer(w), nil
	case FormatYAML:
		return newYAMLRenderer(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
