// Package engine implements the concurrent fingerprinting pipeline: an
// iterative path explorer feeding a bounded work queue consumed by a
// fixed-size pool of hashing workers. The two sides share no state
// beyond the queue itself.
package engine

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/bamsammich/hashdex/internal/emit"
	"github.com/bamsammich/hashdex/internal/event"
	"github.com/bamsammich/hashdex/internal/hasher"
	"github.com/bamsammich/hashdex/internal/stats"
)

// Config describes a fingerprinting run.
type Config struct {
	Root       string
	Label      string
	Delimiter  string   // default ","
	Algorithms []string // default: the registry default
	Workers    int      // default: NumCPU
	Out        io.Writer
	Events     chan<- event.Event
	Stats      *stats.Collector
}

// Result is the outcome of a run. Err carries only operation-level
// failures (unknown algorithm, missing root); per-file errors are
// reported through Events and counted in Stats, never aborting the run.
type Result struct {
	Stats stats.Snapshot
	Err   error
}

// Run executes a fingerprinting run, blocking until the tree is fully
// explored and every queued file has been consumed.
func Run(ctx context.Context, cfg Config) Result {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Delimiter == "" {
		cfg.Delimiter = ","
	}
	if len(cfg.Algorithms) == 0 {
		cfg.Algorithms = []string{hasher.Default()}
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}

	// Constructing each algorithm once up front turns a bad identifier
	// into an operation-level failure before any I/O happens.
	for _, name := range cfg.Algorithms {
		if _, err := hasher.Construct(name); err != nil {
			return Result{Stats: cfg.Stats.Snapshot(), Err: err}
		}
	}

	emitter := emit.NewEmitter(cfg.Out, cfg.Delimiter)

	explorer := NewExplorer(ExplorerConfig{
		Root:     cfg.Root,
		QueueCap: cfg.Workers,
		Events:   cfg.Events,
		Stats:    cfg.Stats,
	})

	pool := NewWorkerPool(WorkerConfig{
		NumWorkers: cfg.Workers,
		Algorithms: cfg.Algorithms,
		Label:      cfg.Label,
		Emitter:    emitter,
		Stats:      cfg.Stats,
		Events:     cfg.Events,
	})

	var exploreErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		exploreErr = explorer.Explore(ctx)
	}()

	// Blocks until the explorer has closed the queue and the workers
	// have drained it.
	pool.Run(ctx, explorer.Tasks())
	wg.Wait()

	if err := emitter.Flush(); err != nil && exploreErr == nil {
		exploreErr = fmt.Errorf("flush output: %w", err)
	}

	return Result{Stats: cfg.Stats.Snapshot(), Err: exploreErr}
}

// emitEvent timestamps and sends ev without blocking; a slow or absent
// consumer can never stall the pipeline.
func emitEvent(ch chan<- event.Event, ev event.Event) {
	if ch == nil {
		return
	}
	ev.Timestamp = time.Now()
	select {
	case ch <- ev:
	default:
	}
}
