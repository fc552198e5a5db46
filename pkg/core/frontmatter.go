package core

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Status is the editorial lifecycle stage of a document.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusLiving     Status = "living"
	StatusStable     Status = "stable"
	StatusDeprecated Status = "deprecated"
)

// Valid reports whether the status is one of the known stages.
// The empty string is not valid; absence is reported separately.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusLiving, StatusStable, StatusDeprecated:
		return true
	}
	return false
}

// Statuses returns the known lifecycle stages in order.
func Statuses() []Status {
	return []Status{StatusDraft, StatusLiving, StatusStable, StatusDeprecated}
}

// Source is a single citation record in a document's frontmatter.
type Source struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title,omitempty" json:"title,omitempty"`
	URL      string `yaml:"url" json:"url"`
	Accessed string `yaml:"accessed,omitempty" json:"accessed,omitempty"`
}

// Frontmatter is the typed view of the corpus metadata convention.
// Unknown keys are preserved in Document.Metadata, not here.
type Frontmatter struct {
	Title   string   `yaml:"title" json:"title"`
	Slug    string   `yaml:"slug" json:"slug"`
	Status  Status   `yaml:"status" json:"status"`
	Tags    []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Summary string   `yaml:"summary,omitempty" json:"summary,omitempty"`
	Sources []Source `yaml:"sources,omitempty" json:"sources,omitempty"`
}

// DecodeFrontmatter converts the raw metadata map into the typed schema.
// It round-trips through YAML so the struct tags decide the mapping,
// and tolerates missing keys (zero values).
func DecodeFrontmatter(meta Metadata) (Frontmatter, error) {
	var fm Frontmatter
	if len(meta) == 0 {
		return fm, nil
	}

	data, err := yaml.Marshal(meta)
	if err != nil {
		return fm, fmt.Errorf("failed to process document metadata: %w", err)
	}
	if err := yaml.Unmarshal(data, &fm); err != nil {
		return fm, fmt.Errorf("failed to decode frontmatter: %w", err)
	}
	return fm, nil
}

// EncodeFrontmatter converts the typed schema back into a raw metadata
// map, for scaffolding new documents.
func EncodeFrontmatter(fm Frontmatter) (Metadata, error) {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	meta := make(Metadata)
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to convert frontmatter to map: %w", err)
	}
	return meta, nil
}
