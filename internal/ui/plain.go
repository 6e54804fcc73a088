package ui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bamsammich/hashdex/internal/event"
	"github.com/bamsammich/hashdex/internal/stats"
)

// plainPresenter logs failures as they happen and renders a one-line
// summary from the collector when the run ends.
type plainPresenter struct {
	stats   *stats.Collector
	verbose bool
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	for ev := range events {
		p.handleEvent(ev)
	}
	return nil
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.FileFailed:
		slog.Warn("file failed", "path", ev.Path, "error", ev.Error)
	case event.DirSkipped:
		slog.Warn("directory skipped", "path", ev.Path, "error", ev.Error)
	case event.FileHashed:
		if p.verbose {
			slog.Debug("file hashed", "path", ev.Path, "size", ev.Size, "worker", ev.WorkerID)
		}
	case event.FileSkipped:
		if p.verbose {
			slog.Debug("file skipped", "path", ev.Path, "worker", ev.WorkerID)
		}
	case event.ExploreStarted:
		slog.Debug("explore started", "root", ev.Path)
	case event.ExploreComplete:
		slog.Debug("explore complete")
	}
}

func (p *plainPresenter) Summary() string {
	s := p.stats.Snapshot()
	return fmt.Sprintf("hashed %d files (%s) in %s; %d failed, %d skipped",
		s.FilesHashed, stats.FormatBytes(s.BytesHashed),
		s.Elapsed.Round(time.Millisecond), s.FilesFailed, s.FilesSkipped)
}
