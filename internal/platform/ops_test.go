package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrowhq/harrow/pkg/core"
)

func TestInitAutoDetectsGitless(t *testing.T) {
	t.Run("Plain Folder Without AutoInit", func(t *testing.T) {
		dir := t.TempDir()

		repo, err := Init(dir, WithMustExist(true))
		if err != nil {
			t.Fatalf("Init failed: %v", err)
		}

		// Gitless mode: saving must not require git.
		doc := core.Document{ID: "topics/a", Content: "x\n"}
		if err := repo.Save(context.Background(), doc); err != nil {
			t.Fatalf("Save failed in detected gitless mode: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "topics", "a.md")); err != nil {
			t.Errorf("expected document on disk: %v", err)
		}
	})

	t.Run("Explicit Versioning Off", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "fresh")

		repo, err := Init(dir, WithAutoInit(true), WithVersioning(false))
		if err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		if err := repo.Save(context.Background(), core.Document{ID: "a", Content: "x\n"}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); !os.IsNotExist(err) {
			t.Error("versioning disabled, .git must not exist")
		}
	})
}

func TestInitInjectedRepository(t *testing.T) {
	fake := &fakeRepo{}

	repo, err := Init("ignored", WithRepository(fake))
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if repo != fake {
		t.Error("expected the injected repository to be returned")
	}
}

func TestNewWiresService(t *testing.T) {
	dir := t.TempDir()

	svc, err := New(dir, WithMustExist(true))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := context.Background()
	if err := svc.SaveDocument(ctx, "topics/b", "body\n", core.Metadata{"title": "B"}); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	doc, err := svc.GetDocument(ctx, "topics/b")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if doc.Metadata["title"] != "B" {
		t.Errorf("unexpected metadata: %v", doc.Metadata)
	}
}

func TestSyncRequiresSupport(t *testing.T) {
	if err := Sync("ignored", WithRepository(&fakeRepo{})); err == nil {
		t.Error("expected error for repository without sync support")
	}
}

// fakeRepo is a no-op core.Repository for injection tests.
type fakeRepo struct{}

func (f *fakeRepo) Save(ctx context.Context, doc core.Document) error   { return nil }
func (f *fakeRepo) Get(ctx context.Context, id string) (core.Document, error) {
	return core.Document{}, core.ErrNotFound
}
func (f *fakeRepo) List(ctx context.Context) ([]core.Document, error) { return nil, nil }
func (f *fakeRepo) Delete(ctx context.Context, id string) error       { return nil }
func (f *fakeRepo) Initialize(ctx context.Context) error              { return nil }
