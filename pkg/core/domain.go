// Package core holds the domain model and ports of the corpus engine:
// documents, typed frontmatter, events, and the repository contract.
package core

// Metadata represents the flexible key-value pairs parsed from a
// document's YAML frontmatter.
type Metadata map[string]any

// Document is the central entity of the domain.
// It represents a single Markdown file in the corpus, identified by its
// corpus-relative path without the ".md" extension.
type Document struct {
	ID       string
	Content  string
	Metadata Metadata
}

// EventType represents the type of change in the corpus.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the corpus.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

type contextKey string

// ChangeReasonKey is the context key for passing specific change reasons
// (commit messages) during Save/Delete operations.
const ChangeReasonKey contextKey = "change_reason"
