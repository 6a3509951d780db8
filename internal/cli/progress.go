package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/payee-classifier/internal/engine"
)

// ProgressReporter draws a progress bar fed by batch progress events.
type ProgressReporter struct {
	bar       *progressbar.ProgressBar
	writer    io.Writer
	done      chan struct{}
	completed int
	cacheHits int
}

// NewProgressReporter creates a reporter for total names.
func NewProgressReporter(w io.Writer, total int) *ProgressReporter {
	r := &ProgressReporter{writer: w, done: make(chan struct{})}
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("payees"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Classifying payees...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return r
}

// Consume advances the bar for every event until events is closed.
func (r *ProgressReporter) Consume(events <-chan engine.ProgressEvent) {
	defer close(r.done)
	for ev := range events {
		if ev.CacheHit {
			r.cacheHits++
		}
		// Concurrent workers may deliver counts out of order.
		if ev.Completed <= r.completed {
			continue
		}
		r.completed = ev.Completed
		if err := r.bar.Set(ev.Completed); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
}

// Wait blocks until Consume returns.
func (r *ProgressReporter) Wait() {
	<-r.done
}

// Completed returns the highest completed count reported.
func (r *ProgressReporter) Completed() int {
	return r.completed
}

// CacheHits returns how many events were served from the run cache.
func (r *ProgressReporter) CacheHits() int {
	return r.cacheHits
}
