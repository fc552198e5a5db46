package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/harrowhq/harrow/pkg/core"
)

// memoryRepo is a minimal in-memory Repository for service tests.
type memoryRepo struct {
	docs map[string]core.Document
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{docs: make(map[string]core.Document)}
}

func (m *memoryRepo) Save(ctx context.Context, doc core.Document) error {
	m.docs[doc.ID] = doc
	return nil
}

func (m *memoryRepo) Get(ctx context.Context, id string) (core.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return core.Document{}, core.ErrNotFound
	}
	return doc, nil
}

func (m *memoryRepo) List(ctx context.Context) ([]core.Document, error) {
	var out []core.Document
	for _, doc := range m.docs {
		out = append(out, doc)
	}
	return out, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id string) error {
	delete(m.docs, id)
	return nil
}

func (m *memoryRepo) Initialize(ctx context.Context) error { return nil }

// watchableRepo adds a controllable event stream.
type watchableRepo struct {
	*memoryRepo
	events chan core.Event
}

func (w *watchableRepo) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	return w.events, nil
}

func TestValidateID(t *testing.T) {
	valid := []string{"topics/context-windows", "engineering/execplans/q3-migration", "README"}
	for _, id := range valid {
		if err := core.ValidateID(id); err != nil {
			t.Errorf("expected %q to be valid, got: %v", id, err)
		}
	}

	invalid := []string{
		"",
		`topics\windows`,
		"/absolute/path",
		"../escape",
		"topics/../../escape",
		"./topics/doc",
		"topics/./doc",
		"..",
	}
	for _, id := range invalid {
		if err := core.ValidateID(id); err == nil {
			t.Errorf("expected %q to be rejected", id)
		}
	}
}

func TestServiceSaveGet(t *testing.T) {
	svc := core.NewService(newMemoryRepo())
	ctx := context.Background()

	if err := svc.SaveDocument(ctx, "topics/memory", "body", core.Metadata{"title": "Memory"}); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	doc, err := svc.GetDocument(ctx, "topics/memory")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if doc.Content != "body" {
		t.Errorf("unexpected content: %q", doc.Content)
	}

	if err := svc.SaveDocument(ctx, "/bad", "x", nil); err == nil {
		t.Error("expected invalid ID to be rejected")
	}
}

func TestServiceSaveTyped(t *testing.T) {
	repo := newMemoryRepo()
	svc := core.NewService(repo)

	fm := core.Frontmatter{Title: "T", Slug: "t", Status: core.StatusDraft}
	if err := svc.SaveTyped(context.Background(), "topics/t", "body", fm); err != nil {
		t.Fatalf("SaveTyped failed: %v", err)
	}

	saved := repo.docs["topics/t"]
	if saved.Metadata["status"] != "draft" {
		t.Errorf("expected encoded status in metadata, got %v", saved.Metadata["status"])
	}
}

func TestServiceWatch(t *testing.T) {
	t.Run("Unsupported Repository", func(t *testing.T) {
		svc := core.NewService(newMemoryRepo())
		if _, err := svc.Watch(context.Background(), "**/*.md"); err == nil {
			t.Error("expected error for non-watchable repository")
		}
	})

	t.Run("Events Are Forwarded", func(t *testing.T) {
		repo := &watchableRepo{memoryRepo: newMemoryRepo(), events: make(chan core.Event, 1)}
		svc := core.NewService(repo)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		out, err := svc.Watch(ctx, "**/*.md")
		if err != nil {
			t.Fatalf("Watch failed: %v", err)
		}

		want := core.Event{Type: core.EventModify, ID: "topics/memory", Timestamp: time.Now().Unix()}
		repo.events <- want

		select {
		case got := <-out:
			if got.Type != want.Type || got.ID != want.ID {
				t.Errorf("unexpected event: %+v", got)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for forwarded event")
		}
	})

	t.Run("Closes When Upstream Closes", func(t *testing.T) {
		repo := &watchableRepo{memoryRepo: newMemoryRepo(), events: make(chan core.Event)}
		svc := core.NewService(repo)

		out, err := svc.Watch(context.Background(), "**/*.md")
		if err != nil {
			t.Fatalf("Watch failed: %v", err)
		}

		close(repo.events)

		select {
		case _, ok := <-out:
			if ok {
				t.Error("expected closed channel, got event")
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for channel close")
		}
	})
}

func TestServiceSyncUnsupported(t *testing.T) {
	svc := core.NewService(newMemoryRepo())
	if err := svc.Sync(context.Background()); err == nil {
		t.Error("expected error for non-syncable repository")
	}
}
