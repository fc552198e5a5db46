package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrowhq/harrow/pkg/core"
	"github.com/harrowhq/harrow/pkg/git"
)

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string
	AutoInit     bool
	Gitless      bool
	MustExist    bool
	ReadOnly     bool
	Logger       *slog.Logger
	SystemDir    string // e.g. ".harrow"
	ErrorHandler func(error)
}

// Repository implements core.Repository on a directory tree of Markdown
// files, optionally versioned by Git.
type Repository struct {
	Path   string
	git    *git.Client
	cache  *cache
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastReconcile *time.Time
}

// NewRepository creates a new filesystem-backed corpus repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = ".harrow"
	}
	return &Repository{
		Path:   config.Path,
		git:    git.NewClient(config.Path, config.Logger),
		config: config,
		cache:  newCache(config.Path, config.SystemDir),
	}
}

// Initialize performs the necessary setup for the repository (mkdir, git init).
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.ReadOnly {
		// Nothing to set up; reads work on whatever exists.
		return nil
	}

	// 1. Directory Initialization
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("corpus path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("corpus path is not a directory: %s", r.Path)
		}
	} else {
		if err := os.MkdirAll(r.Path, 0755); err != nil {
			return fmt.Errorf("failed to create corpus directory: %w", err)
		}
	}

	// 2. Git Initialization
	if !r.config.Gitless {
		if !git.IsInstalled() {
			return fmt.Errorf("git is not installed")
		}

		wasNewRepo := false
		if !r.git.IsRepo() {
			if r.config.AutoInit {
				if err := r.git.Init(); err != nil {
					return fmt.Errorf("failed to git init: %w", err)
				}
				wasNewRepo = true
			} else {
				return fmt.Errorf("path is not a git repository: %s", r.Path)
			}
		}

		// Ensure .gitignore has the system directory
		mod, err := r.ensureIgnore()
		if err != nil {
			return fmt.Errorf("failed to ensure .gitignore: %w", err)
		}

		if mod && wasNewRepo {
			// If we just created the repo, commit the .gitignore to start clean
			if err := r.git.Add(".gitignore"); err != nil {
				return fmt.Errorf("failed to add .gitignore: %w", err)
			}
			if err := r.git.Commit(fmt.Sprintf("chore: configure %s ignore", r.config.SystemDir)); err != nil {
				return fmt.Errorf("failed to commit .gitignore: %w", err)
			}
		}
	}

	return nil
}

func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	ignoreEntry := r.config.SystemDir + "/"

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	lines := strings.Split(string(content), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == ignoreEntry {
			return false, nil
		}
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}

	if _, err := f.WriteString(ignoreEntry + "\n"); err != nil {
		return false, err
	}

	return true, nil
}

// Sync synchronizes the repository with its remote.
func (r *Repository) Sync(ctx context.Context) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if r.config.Gitless {
		return fmt.Errorf("cannot sync in gitless mode")
	}

	if !r.git.IsRepo() {
		return fmt.Errorf("path is not a git repository: %s", r.Path)
	}

	if !r.git.HasRemote() {
		return fmt.Errorf("remote 'origin' not configured")
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	return r.git.Sync()
}

// filename maps a document ID to its relative file path.
func filename(id string) string {
	if filepath.Ext(id) == ".md" {
		return id
	}
	return id + ".md"
}

// fullPath joins a document ID onto the corpus root, rejecting IDs that
// resolve outside it. The service validates IDs too; this guards direct
// repository use.
func (r *Repository) fullPath(id string) (string, error) {
	full := filepath.Join(r.Path, filepath.FromSlash(filename(id)))
	rel, err := filepath.Rel(r.Path, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("document ID escapes the corpus root: %s", id)
	}
	return full, nil
}

// Save persists a document to the filesystem and commits it to Git.
//
// Workflow:
//  1. Validate ID.
//  2. Create parent directories.
//  3. Serialize frontmatter + body and write atomically to disk.
//  4. (If Git enabled) 'git add' and 'git commit' with context metadata.
func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if doc.ID == "" {
		return fmt.Errorf("document has no ID")
	}

	name := filename(doc.ID)
	fullPath, err := r.fullPath(doc.ID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := SerializeDocument(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	if err := writeFileAtomic(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	r.cache.Delete(filepath.ToSlash(name))

	if !r.config.Gitless {
		unlock, err := r.git.Lock()
		if err != nil {
			return fmt.Errorf("failed to acquire git lock: %w", err)
		}
		defer unlock()

		if err := r.git.Add(name); err != nil {
			return fmt.Errorf("failed to git add: %w", err)
		}

		msg := "docs: update " + doc.ID
		if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
			msg = val
		}

		if err := r.git.Commit(msg); err != nil {
			return fmt.Errorf("failed to git commit: %w", err)
		}
	}

	return nil
}

// Get retrieves a document from the filesystem.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	data, err := r.ReadSource(id)
	if err != nil {
		return core.Document{}, err
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to parse document %s: %w", id, err)
	}
	doc.ID = strings.TrimSuffix(id, ".md")

	return *doc, nil
}

// ReadSource returns the raw file bytes for a document ID.
func (r *Repository) ReadSource(id string) ([]byte, error) {
	fullPath, err := r.fullPath(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", id, core.ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}

// List scans the directory for all documents.
//
// Strategy:
//  1. Load existing cache (frontmatter index) from disk.
//  2. Walk the directory tree (skipping .git and the system dir).
//  3. For each .md file:
//     a. Cache hit (mtime match): use cached frontmatter (no parse).
//     b. Cache miss: full parse. Update cache.
//  4. Prune stale entries and save the cache back to disk.
//
// Cache hits return frontmatter only; use Get for the body.
func (r *Repository) List(ctx context.Context) ([]core.Document, error) {
	var docs []core.Document

	if err := r.cache.Load(); err != nil {
		if r.config.Logger != nil {
			r.config.Logger.Warn("failed to load cache", "error", err)
		}
	}
	seen := make(map[string]bool)

	err := filepath.WalkDir(r.Path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == r.config.SystemDir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(d.Name()) != ".md" {
			return nil
		}

		relPath, err := filepath.Rel(r.Path, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		id := strings.TrimSuffix(relPath, ".md")

		info, err := d.Info()
		if err != nil {
			return nil
		}
		mtime := info.ModTime()

		seen[relPath] = true

		if entry, hit := r.cache.Get(relPath, mtime); hit {
			docs = append(docs, core.Document{ID: entry.ID, Metadata: entry.Metadata})
			return nil
		}

		doc, err := r.Get(ctx, id)
		if err != nil {
			if r.config.Logger != nil {
				r.config.Logger.Warn("failed to parse document during list", "id", id, "error", err)
			}
			return nil // Continue walking
		}

		r.cache.Set(relPath, &indexEntry{
			ID:           id,
			Metadata:     doc.Metadata,
			LastModified: mtime,
		})

		docs = append(docs, doc)
		return nil
	})

	if err != nil {
		return nil, err
	}

	r.cache.Prune(seen)
	if !r.config.ReadOnly {
		if err := r.cache.Save(); err != nil {
			if r.config.Logger != nil {
				r.config.Logger.Warn("failed to save cache", "error", err)
			}
		}
	}

	return docs, nil
}

// Delete removes a document.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}

	name := filename(id)
	fullPath, err := r.fullPath(id)
	if err != nil {
		return err
	}

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", id, core.ErrNotFound)
	}

	r.cache.Delete(filepath.ToSlash(name))

	if r.config.Gitless {
		if err := os.Remove(fullPath); err != nil {
			return fmt.Errorf("failed to remove file: %w", err)
		}
		return nil
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := r.git.Rm(name); err != nil {
		return fmt.Errorf("failed to git rm: %w", err)
	}

	msg := "docs: delete " + id
	if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
		msg = val
	}

	if err := r.git.Commit(msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}

	return nil
}

var _ core.Repository = (*Repository)(nil)
var _ core.Syncable = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
