package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	ExploreStarted Type = iota + 1
	ExploreComplete
	FileHashed
	FileFailed
	FileSkipped
	DirSkipped
)

var typeNames = [...]string{
	ExploreStarted:  "ExploreStarted",
	ExploreComplete: "ExploreComplete",
	FileHashed:      "FileHashed",
	FileFailed:      "FileFailed",
	FileSkipped:     "FileSkipped",
	DirSkipped:      "DirSkipped",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the pipeline. FileFailed
// and DirSkipped carry the per-path error; the fatal explore error is
// returned from the run itself, never sent here.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string
	Size      int64 // file size (FileHashed)
	Error     error
	WorkerID  int
}
