package ui

import "github.com/bamsammich/hashdex/internal/event"

// quietPresenter consumes events but produces no output.
type quietPresenter struct{}

func (p *quietPresenter) Run(events <-chan event.Event) error {
	for range events {
		// Counters are written on the collector by the engine directly;
		// nothing to do here.
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
