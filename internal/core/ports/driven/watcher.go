package driven

import "context"

// FileEvent is a file system change observed by a watcher.
type FileEvent struct {
	// Path is the absolute path of the changed file.
	Path string

	// Op is the kind of change.
	Op FileOp
}

// FileOp is the type of file change.
type FileOp int

const (
	FileCreated FileOp = iota
	FileModified
	FileRemoved
)

// FileWatcher monitors a directory and emits change events. Used to
// auto-ingest documents dropped into a watched folder.
type FileWatcher interface {
	// Watch starts monitoring dir. The returned channel closes when ctx
	// is cancelled or the watcher is closed.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Close stops the watcher.
	Close() error
}
