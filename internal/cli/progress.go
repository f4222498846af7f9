package cli

import (
	"context"
	"io"
	"time"

	"gopkg.in/cheggaaa/pb.v1"

	"github.com/matzehuels/pipeflow/pkg/observability"
)

// sweepBar reports sweep progress on a terminal progress bar. It implements
// observability.SweepHooks.
type sweepBar struct {
	bar *pb.ProgressBar
}

// newSweepBar creates a bar for n grid points writing to w.
func newSweepBar(w io.Writer, n int) *sweepBar {
	bar := pb.New(n)
	bar.Output = w
	bar.ShowSpeed = false
	bar.ShowTimeLeft = false
	bar.SetMaxWidth(80)
	bar.Prefix("sweep ")
	return &sweepBar{bar: bar}
}

// install starts the bar and registers it as the sweep hooks. The returned
// func restores the previous hooks.
func (b *sweepBar) install() func() {
	prev := observability.Sweep()
	b.bar.Start()
	observability.SetSweepHooks(b)
	return func() { observability.SetSweepHooks(prev) }
}

func (b *sweepBar) OnPoint(context.Context, float64, float64, error) {
	b.bar.Increment()
}

func (b *sweepBar) OnSweepComplete(context.Context, int, int, time.Duration, error) {
	b.finish()
}

// finish completes the bar. Safe to call more than once.
func (b *sweepBar) finish() {
	b.bar.Finish()
}
