package output

import (
	"io"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/mtcollect/pkg/logging"
	"github.com/arthur-debert/mtcollect/pkg/types"
)

// Progress shows a progress bar while packages are reconciled. A disabled
// Progress does nothing, so callers need not check for a terminal.
type Progress struct {
	w       io.Writer
	enabled bool
	bar     *pterm.ProgressbarPrinter
}

// NewProgress creates a progress display on w. It is enabled only when w
// is a terminal.
func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w, enabled: Interactive(w)}
}

// Update has the signature of collection.ProgressFunc.
func (p *Progress) Update(done, total int, ref types.PackageRef, result *types.EntryResult) {
	if !p.enabled || total == 0 {
		return
	}

	if p.bar == nil {
		bar, err := pterm.DefaultProgressbar.
			WithTotal(total).
			WithTitle("Updating collection").
			WithWriter(p.w).
			Start()
		if err != nil {
			logger := logging.GetLogger("output")
			logger.Debug().Err(err).Msg("Progress bar unavailable")
			p.enabled = false
			return
		}
		p.bar = bar
	}

	if result == nil {
		p.bar.UpdateTitle(ref.Folder())
		return
	}
	p.bar.Increment()
	if done >= total {
		p.Stop()
	}
}

// Stop removes the bar if it is still running.
func (p *Progress) Stop() {
	if p.bar != nil {
		_, _ = p.bar.Stop()
		p.bar = nil
	}
}
