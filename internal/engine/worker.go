package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/bamsammich/hashdex/internal/emit"
	"github.com/bamsammich/hashdex/internal/event"
	"github.com/bamsammich/hashdex/internal/hasher"
	"github.com/bamsammich/hashdex/internal/stats"
)

// chunkSize is the read buffer for the single hashing pass. 8 KiB
// bounds per-worker memory while keeping syscall overhead low.
const chunkSize = 8 * 1024

// WorkerConfig controls worker pool behavior.
type WorkerConfig struct {
	NumWorkers int
	Algorithms []string // validated identifiers; digest order in records
	Label      string
	Emitter    *emit.Emitter
	Stats      *stats.Collector
	Events     chan<- event.Event
}

// WorkerPool manages a fixed-size pool of hashing workers.
type WorkerPool struct {
	cfg WorkerConfig
}

// NewWorkerPool creates a pool. The worker count is clamped to at
// least 1.
func NewWorkerPool(cfg WorkerConfig) *WorkerPool {
	if cfg.NumWorkers < 1 {
		cfg.NumWorkers = 1
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	return &WorkerPool{cfg: cfg}
}

// Run starts the workers and blocks until the task channel is closed
// and drained or the context is cancelled. A failing file is reported
// and skipped; it never brings down a worker or the pool.
func (wp *WorkerPool) Run(ctx context.Context, tasks <-chan FileTask) {
	var wg sync.WaitGroup
	for id := 0; id < wp.cfg.NumWorkers; id++ {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				select {
				case <-ctx.Done():
					return
				default:
				}
				wp.processTask(id, task)
			}
		}()
	}
	wg.Wait()
}

func (wp *WorkerPool) processTask(workerID int, task FileTask) {
	info, err := os.Lstat(task.Path)
	if err != nil || !info.Mode().IsRegular() {
		// Vanished or replaced between discovery and processing.
		wp.cfg.Stats.AddFilesSkipped(1)
		wp.emit(event.Event{Type: event.FileSkipped, Path: task.Path, WorkerID: workerID})
		return
	}

	digests, err := wp.hashFile(task.Path)
	if err != nil {
		wp.fail(workerID, task.Path, err)
		return
	}

	rec := emit.Record{
		Label:   wp.cfg.Label,
		Digests: digests,
		Size:    info.Size(),
		Path:    task.Path,
	}
	if err := wp.cfg.Emitter.Emit(rec); err != nil {
		wp.fail(workerID, task.Path, fmt.Errorf("emit record: %w", err))
		return
	}

	wp.cfg.Stats.AddFilesHashed(1)
	wp.cfg.Stats.AddBytesHashed(info.Size())
	wp.emit(event.Event{
		Type:     event.FileHashed,
		Path:     task.Path,
		Size:     info.Size(),
		WorkerID: workerID,
	})
}

// hashFile reads the file once with a fixed-size buffer, feeding every
// accumulator chunk by chunk, and returns the digests in requested
// order. One read pass regardless of how many algorithms are active.
func (wp *WorkerPool) hashFile(path string) ([]string, error) {
	accs := make([]hasher.Accumulator, len(wp.cfg.Algorithms))
	for i, name := range wp.cfg.Algorithms {
		acc, err := hasher.Construct(name)
		if err != nil {
			return nil, err
		}
		accs[i] = acc
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			for _, acc := range accs {
				acc.Update(buf[:n])
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	digests := make([]string, len(accs))
	for i, acc := range accs {
		digests[i] = acc.Finish()
	}
	return digests, nil
}

func (wp *WorkerPool) fail(workerID int, path string, err error) {
	wp.cfg.Stats.AddFilesFailed(1)
	wp.emit(event.Event{Type: event.FileFailed, Path: path, Error: err, WorkerID: workerID})
}

func (wp *WorkerPool) emit(ev event.Event) {
	emitEvent(wp.cfg.Events, ev)
}
