package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bamsammich/hashdex/internal/event"
	"github.com/bamsammich/hashdex/internal/stats"
)

// ErrRootNotFound reports that the root path of an explore operation
// does not exist. It is the only fatal traversal error; everything
// below the root is skipped and reported instead.
var ErrRootNotFound = errors.New("root path not found")

// ExplorerConfig controls explorer behavior.
type ExplorerConfig struct {
	Root     string
	QueueCap int // task queue capacity; scales with worker count
	Events   chan<- event.Event
	Stats    *stats.Collector
}

// Explorer traverses a directory tree and enqueues a FileTask for every
// regular file it finds. Traversal is iterative over an explicit stack
// of pending directories, so depth is bounded by available memory
// rather than call-stack size.
type Explorer struct {
	cfg   ExplorerConfig
	tasks chan FileTask
}

// NewExplorer creates an explorer with a bounded task queue.
func NewExplorer(cfg ExplorerConfig) *Explorer {
	if cfg.QueueCap < 1 {
		cfg.QueueCap = 1
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	return &Explorer{cfg: cfg, tasks: make(chan FileTask, cfg.QueueCap)}
}

// Tasks returns the queue workers consume from. It is closed when
// Explore returns; the close is the pool's termination signal.
func (e *Explorer) Tasks() <-chan FileTask { return e.tasks }

// Explore walks the tree under cfg.Root. Sends block on a full queue,
// so very large trees are never buffered in memory. A nonexistent root
// is the only fatal condition; unreadable subtrees are reported and
// skipped. The task queue is closed on return even when Explore fails,
// letting the worker pool drain and exit normally.
func (e *Explorer) Explore(ctx context.Context) error {
	defer close(e.tasks)

	info, err := os.Lstat(e.cfg.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, e.cfg.Root)
		}
		return fmt.Errorf("stat root %s: %w", e.cfg.Root, err)
	}

	e.emit(event.Event{Type: event.ExploreStarted, Path: e.cfg.Root})
	defer e.emit(event.Event{Type: event.ExploreComplete})

	// A root that is itself a regular file yields a single task.
	if info.Mode().IsRegular() {
		return e.send(ctx, FileTask{Path: e.cfg.Root})
	}
	if !info.IsDir() {
		// Symlink, device or socket: links are never followed.
		return nil
	}

	stack := []string{e.cfg.Root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			// Permission denied or racing deletion: skip the subtree,
			// keep walking the rest of the tree.
			e.cfg.Stats.AddDirsSkipped(1)
			e.emit(event.Event{Type: event.DirSkipped, Path: dir, Error: err})
			continue
		}
		e.cfg.Stats.AddDirsScanned(1)

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			switch mode := entry.Type(); {
			case mode.IsDir():
				stack = append(stack, path)
			case mode.IsRegular():
				if err := e.send(ctx, FileTask{Path: path}); err != nil {
					return err
				}
			default:
				// Symlinks, devices, sockets: never followed, never hashed.
			}
		}
	}

	return nil
}

func (e *Explorer) send(ctx context.Context, task FileTask) error {
	select {
	case e.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Explorer) emit(ev event.Event) {
	emitEvent(e.cfg.Events, ev)
}
