package engine

// FileTask is one discovered regular file awaiting hashing. A task is
// owned by exactly one worker for its lifetime and never re-enqueued.
type FileTask struct {
	Path string
}
