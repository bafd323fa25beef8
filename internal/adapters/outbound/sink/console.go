package sink

import (
	"context"
	"fmt"
	"io"

	"github.com/battleroid/dwms/internal/adapters/outbound/tui"
	"github.com/battleroid/dwms/internal/domain"
)

// Console prints one dot-leader line per cluster, colored by that cluster's
// own status. OKAY lines go to stdout, everything else to stderr.
type Console struct {
	stdout io.Writer
	stderr io.Writer
}

// NewConsole creates a console sink writing to the given streams.
func NewConsole(stdout, stderr io.Writer) *Console {
	return &Console{stdout: stdout, stderr: stderr}
}

func (c *Console) Name() string { return "console" }

// Dispatch implements domain.Sink.
func (c *Console) Dispatch(_ context.Context, d domain.Dispatch) error {
	// Both tables share one layout; each stream gets its own color profile.
	out := tui.NewRenderer(c.stdout).StatusTable(d.Statuses)
	errs := tui.NewRenderer(c.stderr).StatusTable(d.Statuses)

	for i := range out {
		w, line := c.stdout, out[i].Text
		if out[i].Status != domain.StatusOkay {
			w, line = c.stderr, errs[i].Text
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("writing %s: %w", out[i].Cluster, err)
		}
	}
	return nil
}
