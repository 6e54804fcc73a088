// Package stats tracks run counters for the fingerprinting pipeline.
package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks pipeline statistics using lock-free atomic counters.
// The explorer and every worker write concurrently; presenters read a
// Snapshot after the run completes.
type Collector struct {
	filesHashed  atomic.Int64
	filesFailed  atomic.Int64
	filesSkipped atomic.Int64
	bytesHashed  atomic.Int64
	dirsScanned  atomic.Int64
	dirsSkipped  atomic.Int64
	startTime    time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesHashed  int64
	FilesFailed  int64
	FilesSkipped int64
	BytesHashed  int64
	DirsScanned  int64
	DirsSkipped  int64
	Elapsed      time.Duration
}

func (c *Collector) AddFilesHashed(n int64)  { c.filesHashed.Add(n) }
func (c *Collector) AddFilesFailed(n int64)  { c.filesFailed.Add(n) }
func (c *Collector) AddFilesSkipped(n int64) { c.filesSkipped.Add(n) }
func (c *Collector) AddBytesHashed(n int64)  { c.bytesHashed.Add(n) }
func (c *Collector) AddDirsScanned(n int64)  { c.dirsScanned.Add(n) }
func (c *Collector) AddDirsSkipped(n int64)  { c.dirsSkipped.Add(n) }

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesHashed:  c.filesHashed.Load(),
		FilesFailed:  c.filesFailed.Load(),
		FilesSkipped: c.filesSkipped.Load(),
		BytesHashed:  c.bytesHashed.Load(),
		DirsScanned:  c.dirsScanned.Load(),
		DirsSkipped:  c.dirsSkipped.Load(),
		Elapsed:      c.Elapsed(),
	}
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"hashed=%d failed=%d skipped=%d bytes=%d dirs=%d dirs_skipped=%d",
		s.FilesHashed, s.FilesFailed, s.FilesSkipped,
		s.BytesHashed, s.DirsScanned, s.DirsSkipped,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
