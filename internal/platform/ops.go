package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrowhq/harrow/pkg/core"
	"github.com/harrowhq/harrow/pkg/corpus"
)

// Init initializes a corpus at the given path based on the provided
// configuration and returns the configured core.Repository.
func Init(path string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.repository != nil {
		return o.repository, nil
	}

	repo, err := initCorpus(path, o)
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}

	return repo, nil
}

// initCorpus builds the filesystem-backed repository from parsed options.
func initCorpus(path string, o *options) (core.Repository, error) {
	autoInit, _ := o.config["auto_init"].(bool)
	gitless, _ := o.config["gitless"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	if systemDir == "" {
		systemDir = ".harrow"
	}

	// If "gitless" is not explicitly configured, detect the environment.
	if _, ok := o.config["gitless"]; !ok {
		if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
			// .git exists, it's a versioned corpus.
			gitless = false
		} else if autoInit {
			// Fresh start: default to Git unless a system dir already
			// marks this as an existing gitless corpus.
			if _, err := os.Stat(filepath.Join(path, systemDir)); err == nil {
				gitless = true
			} else {
				gitless = false
			}
		} else {
			// Just opening a folder without .git: raw filesystem mode.
			gitless = true
		}

		if gitless && o.logger != nil {
			o.logger.Debug("auto-detected gitless mode", "reason", ".git missing")
		}
	}

	return corpus.NewRepository(corpus.Config{
		Path:         path,
		AutoInit:     autoInit,
		Gitless:      gitless,
		MustExist:    mustExist || !autoInit,
		ReadOnly:     readOnly,
		Logger:       o.logger,
		SystemDir:    systemDir,
		ErrorHandler: errorHandler,
	}), nil
}

// Sync synchronizes the corpus at the given path with its Git remote.
func Sync(path string, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var repo core.Repository
	if o.repository != nil {
		repo = o.repository
	} else {
		// Syncing an absent corpus makes no sense; require it.
		o.config["must_exist"] = true
		var err error
		repo, err = initCorpus(path, o)
		if err != nil {
			return err
		}
	}

	syncable, ok := repo.(core.Syncable)
	if !ok {
		return fmt.Errorf("repository does not support synchronization")
	}

	return syncable.Sync(context.Background())
}
