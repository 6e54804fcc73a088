// Package ui consumes pipeline events and reports per-file failures
// and the end-of-run summary. Records themselves go to the emitter's
// sink; everything here is side-channel output.
package ui

import (
	"github.com/bamsammich/hashdex/internal/event"
	"github.com/bamsammich/hashdex/internal/stats"
)

// Presenter consumes events and reports progress and failures.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan event.Event) error
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Stats   *stats.Collector
	Quiet   bool
	Verbose bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{}
	}
	return &plainPresenter{stats: cfg.Stats, verbose: cfg.Verbose}
}
