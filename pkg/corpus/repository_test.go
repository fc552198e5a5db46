package corpus_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrowhq/harrow/pkg/core"
	"github.com/harrowhq/harrow/pkg/corpus"
	"github.com/harrowhq/harrow/pkg/git"
)

// setupRepo creates a repository rooted in a temp directory.
// Defaults to gitless for speed; override via opts.
func setupRepo(t *testing.T, opts ...func(*corpus.Config)) (*corpus.Repository, string) {
	t.Helper()

	corpusPath := filepath.Join(t.TempDir(), "docs")

	cfg := corpus.Config{
		Path:     corpusPath,
		AutoInit: true,
		Gitless:  true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return corpus.NewRepository(cfg), corpusPath
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		repo, path := setupRepo(t)

		if err := repo.Initialize(context.Background()); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("expected directory to be created at %s", path)
		}
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		repo, _ := setupRepo(t, func(c *corpus.Config) {
			c.MustExist = true
			c.AutoInit = false
		})

		if err := repo.Initialize(context.Background()); err == nil {
			t.Error("expected error for missing corpus directory")
		}
	})

	t.Run("ReadOnly Skips Setup", func(t *testing.T) {
		repo, path := setupRepo(t, func(c *corpus.Config) {
			c.ReadOnly = true
		})

		if err := repo.Initialize(context.Background()); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("read-only initialize should not create directories")
		}
	})

	t.Run("Git Init Configures Ignore", func(t *testing.T) {
		if !git.IsInstalled() {
			t.Skip("git not installed")
		}

		repo, path := setupRepo(t, func(c *corpus.Config) {
			c.Gitless = false
		})

		if err := repo.Initialize(context.Background()); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
			t.Error("expected .git directory")
		}

		ignore, err := os.ReadFile(filepath.Join(path, ".gitignore"))
		if err != nil {
			t.Fatalf("expected .gitignore: %v", err)
		}
		if want := ".harrow/"; !strings.Contains(string(ignore), want) {
			t.Errorf(".gitignore missing %q, got: %s", want, ignore)
		}
	})
}

func TestSaveAndGet(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	doc := core.Document{
		ID:      "topics/context-windows",
		Content: "# Context Windows\n",
		Metadata: core.Metadata{
			"title":  "Context Windows",
			"slug":   "context-windows",
			"status": "living",
		},
	}

	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(path, "topics", "context-windows.md")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	got, err := repo.Get(ctx, "topics/context-windows")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Metadata["status"] != "living" {
		t.Errorf("unexpected status: %v", got.Metadata["status"])
	}
	if got.Content != doc.Content {
		t.Errorf("content mismatch: %q != %q", got.Content, doc.Content)
	}
}

func TestEscapingIDsRejected(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	for _, id := range []string{"../escape", "topics/../../escape", "../../etc/passwd"} {
		t.Run(id, func(t *testing.T) {
			if err := repo.Save(ctx, core.Document{ID: id, Content: "x\n"}); err == nil {
				t.Errorf("Save accepted escaping ID %q", id)
			}
			if _, err := repo.Get(ctx, id); err == nil {
				t.Errorf("Get accepted escaping ID %q", id)
			}
			if err := repo.Delete(ctx, id); err == nil {
				t.Errorf("Delete accepted escaping ID %q", id)
			}
		})
	}

	// Nothing may have landed above the corpus root.
	outside := filepath.Join(filepath.Dir(path), "escape.md")
	if _, err := os.Stat(outside); !os.IsNotExist(err) {
		t.Errorf("file written outside the corpus root: %s", outside)
	}
}

func TestGetNotFound(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	_, err := repo.Get(ctx, "topics/missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestList(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	for _, id := range []string{"topics/a", "topics/b", "engineering/c"} {
		doc := core.Document{
			ID:       id,
			Content:  "body\n",
			Metadata: core.Metadata{"title": id, "status": "draft"},
		}
		if err := repo.Save(ctx, doc); err != nil {
			t.Fatalf("Save %s failed: %v", id, err)
		}
	}

	docs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}

	// Second list should be served from the index cache and still carry
	// the frontmatter.
	docs, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List (cached) failed: %v", err)
	}
	for _, doc := range docs {
		if doc.Metadata["status"] != "draft" {
			t.Errorf("cached list lost status for %s: %v", doc.ID, doc.Metadata)
		}
	}
}

func TestListStableAcrossCacheWarmth(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	doc := core.Document{
		ID:      "topics/rag",
		Content: "# RAG\n",
		Metadata: core.Metadata{
			"title":   "RAG",
			"slug":    "rag",
			"status":  "stable",
			"tags":    []any{"agents"},
			"summary": "Retrieval-augmented generation patterns.",
			"sources": []any{
				map[string]any{
					"id":       "ref1",
					"title":    "Reference",
					"url":      "https://example.com/ref",
					"accessed": "2026-01-15",
				},
			},
		},
	}
	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// First List parses the file; the second is served from the index
	// cache. Both must return the same metadata.
	cold, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List (cold) failed: %v", err)
	}
	warm, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List (warm) failed: %v", err)
	}
	if len(cold) != 1 || len(warm) != 1 {
		t.Fatalf("expected 1 document, got %d cold / %d warm", len(cold), len(warm))
	}

	for _, key := range []string{"title", "slug", "status", "summary"} {
		if cold[0].Metadata[key] != warm[0].Metadata[key] {
			t.Errorf("%s differs: cold=%v warm=%v", key, cold[0].Metadata[key], warm[0].Metadata[key])
		}
	}
	if warm[0].Metadata["summary"] != "Retrieval-augmented generation patterns." {
		t.Errorf("cached list lost summary: %v", warm[0].Metadata)
	}
	sources, ok := warm[0].Metadata["sources"].([]any)
	if !ok || len(sources) != 1 {
		t.Fatalf("cached list lost sources: %v", warm[0].Metadata["sources"])
	}
	src, ok := sources[0].(map[string]any)
	if !ok || src["url"] != "https://example.com/ref" {
		t.Errorf("cached source malformed: %v", sources[0])
	}
}

func TestDelete(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	doc := core.Document{ID: "topics/gone", Content: "x\n"}
	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := repo.Delete(ctx, "topics/gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(path, "topics", "gone.md")); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}

	if err := repo.Delete(ctx, "topics/gone"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got: %v", err)
	}
}

func TestReadOnlyWrites(t *testing.T) {
	repo, _ := setupRepo(t, func(c *corpus.Config) {
		c.ReadOnly = true
	})
	ctx := context.Background()

	if err := repo.Save(ctx, core.Document{ID: "x"}); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly from Save, got: %v", err)
	}
	if err := repo.Delete(ctx, "x"); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly from Delete, got: %v", err)
	}
	if err := repo.Sync(ctx); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly from Sync, got: %v", err)
	}
}

func TestSyncGitless(t *testing.T) {
	repo, _ := setupRepo(t)
	if err := repo.Sync(context.Background()); err == nil {
		t.Error("expected error syncing a gitless corpus")
	}
}
