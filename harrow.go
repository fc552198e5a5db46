package harrow

import (
	"log/slog"

	"github.com/harrowhq/harrow/internal/platform"
	"github.com/harrowhq/harrow/pkg/core"
)

// --- Configuration ---

// Option defines a functional option for configuring harrow.
type Option = platform.Option

// WithAutoInit enables automatic initialization of the corpus (creates
// the directory and runs git init).
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables version control (Git).
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithMustExist ensures the corpus directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly enables read-only mode: writes fail with ErrReadOnly and
// no initialization or cache persistence happens.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".harrow").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithEventBuffer allows specifying the size of the watch event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler registers a callback for runtime watcher errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a new harrow Service over the corpus at path.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Init initializes a repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// --- Operations ---

// Sync performs a synchronization (pull/push) of the corpus.
func Sync(path string, opts ...Option) error {
	return platform.Sync(path, opts...)
}

// FindCorpusRoot walks upwards from startDir looking for a corpus root
// indicator (.harrow directory, _meta/TAXONOMY.md, or .git).
func FindCorpusRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
