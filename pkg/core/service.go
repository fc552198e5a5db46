package core

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// DefaultEventBuffer is the buffer size used to decouple watch producers
// from slow consumers.
const DefaultEventBuffer = 100

// Service handles the business logic for corpus documents.
type Service struct {
	repo            Repository
	eventBufferSize int
	mu              sync.RWMutex
}

// NewService creates a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, eventBufferSize: DefaultEventBuffer}
}

// SetEventBuffer overrides the watch event buffer size. Zero resets to default.
func (s *Service) SetEventBuffer(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size <= 0 {
		size = DefaultEventBuffer
	}
	s.eventBufferSize = size
}

// ValidateID checks a document ID against the corpus naming rules.
// IDs are corpus-relative paths and must stay inside the corpus root,
// so "." and ".." segments are rejected.
func ValidateID(id string) error {
	if id == "" {
		return errors.New("document ID cannot be empty")
	}
	if strings.Contains(id, `\`) {
		return errors.New("document ID must use forward slashes")
	}
	if strings.HasPrefix(id, "/") {
		return errors.New("document ID must be corpus-relative")
	}
	for _, seg := range strings.Split(id, "/") {
		if seg == "." || seg == ".." {
			return errors.New("document ID must not contain relative path segments")
		}
	}
	return nil
}

// SaveDocument saves a document after ID validation.
func (s *Service) SaveDocument(ctx context.Context, id string, content string, metadata Metadata) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	doc := Document{
		ID:       id,
		Content:  content,
		Metadata: metadata,
	}

	return s.repo.Save(ctx, doc)
}

// SaveTyped saves a document with a typed frontmatter schema.
func (s *Service) SaveTyped(ctx context.Context, id string, content string, fm Frontmatter) error {
	meta, err := EncodeFrontmatter(fm)
	if err != nil {
		return err
	}
	return s.SaveDocument(ctx, id, content, meta)
}

// GetDocument retrieves a document.
func (s *Service) GetDocument(ctx context.Context, id string) (Document, error) {
	if err := ValidateID(id); err != nil {
		return Document{}, err
	}
	return s.repo.Get(ctx, id)
}

// ListDocuments retrieves all documents.
func (s *Service) ListDocuments(ctx context.Context) ([]Document, error) {
	return s.repo.List(ctx)
}

// DeleteDocument removes a document.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Watch observes changes in the repository if supported.
// Events are re-buffered so a slow consumer does not block the
// underlying watcher.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}

	upstream, err := w.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	size := s.eventBufferSize
	s.mu.RUnlock()

	out := make(chan Event, size)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-upstream:
				if !ok {
					return
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Sync synchronizes the repository with its remote if supported.
func (s *Service) Sync(ctx context.Context) error {
	syncable, ok := s.repo.(Syncable)
	if !ok {
		return errors.New("repository does not support synchronization")
	}
	return syncable.Sync(ctx)
}
