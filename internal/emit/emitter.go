// Package emit renders result records as delimited text lines on a
// shared sink.
package emit

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Record describes one successfully hashed file. Digests appear in the
// order the algorithms were requested for the run. A record is built
// and emitted exactly once.
type Record struct {
	Label   string
	Digests []string
	Size    int64
	Path    string
}

// Emitter writes records as single delimited lines. Line writes are
// serialized so concurrent workers never interleave partial lines; no
// ordering across lines is guaranteed.
type Emitter struct {
	mu        sync.Mutex
	w         *bufio.Writer
	delimiter string
}

// NewEmitter wraps w with a buffered, mutex-guarded line writer.
func NewEmitter(w io.Writer, delimiter string) *Emitter {
	return &Emitter{w: bufio.NewWriter(w), delimiter: delimiter}
}

// Emit renders rec as one line: label, digests, size, path.
func (e *Emitter) Emit(rec Record) error {
	var b strings.Builder
	b.WriteString(rec.Label)
	for _, d := range rec.Digests {
		b.WriteString(e.delimiter)
		b.WriteString(d)
	}
	b.WriteString(e.delimiter)
	b.WriteString(strconv.FormatInt(rec.Size, 10))
	b.WriteString(e.delimiter)
	b.WriteString(renderPath(rec.Path, e.delimiter))
	b.WriteByte('\n')

	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.w.WriteString(b.String())
	return err
}

// Flush drains the underlying buffer.
func (e *Emitter) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.w.Flush()
}

// renderPath quotes path as a Go string literal when it could break
// delimiter parsing, and returns it unchanged otherwise.
func renderPath(path, delimiter string) string {
	if needsQuoting(path, delimiter) {
		return strconv.Quote(path)
	}
	return path
}

func needsQuoting(path, delimiter string) bool {
	if strings.Contains(path, delimiter) {
		return true
	}
	for _, r := range path {
		if r == '"' || r == '\\' || !strconv.IsPrint(r) {
			return true
		}
	}
	return false
}
