package core_test

import (
	"testing"

	"github.com/harrowhq/harrow/pkg/core"
)

func TestStatusValid(t *testing.T) {
	for _, s := range core.Statuses() {
		if !s.Valid() {
			t.Errorf("expected status %q to be valid", s)
		}
	}

	for _, s := range []core.Status{"", "published", "DRAFT"} {
		if s.Valid() {
			t.Errorf("expected status %q to be invalid", s)
		}
	}
}

func TestDecodeFrontmatter(t *testing.T) {
	t.Run("Full Schema", func(t *testing.T) {
		// Shapes as they come out of the YAML parser: []interface{},
		// map[string]interface{}.
		meta := core.Metadata{
			"title":   "Context Windows",
			"slug":    "context-windows",
			"status":  "living",
			"tags":    []interface{}{"agents", "llm"},
			"summary": "How context windows shape agent design.",
			"sources": []interface{}{
				map[string]interface{}{
					"id":       "anthropic-docs",
					"title":    "Docs",
					"url":      "https://example.com/docs",
					"accessed": "2026-01-15",
				},
			},
		}

		fm, err := core.DecodeFrontmatter(meta)
		if err != nil {
			t.Fatalf("DecodeFrontmatter failed: %v", err)
		}

		if fm.Title != "Context Windows" {
			t.Errorf("unexpected title: %q", fm.Title)
		}
		if fm.Status != core.StatusLiving {
			t.Errorf("unexpected status: %q", fm.Status)
		}
		if len(fm.Tags) != 2 || fm.Tags[0] != "agents" {
			t.Errorf("unexpected tags: %v", fm.Tags)
		}
		if len(fm.Sources) != 1 || fm.Sources[0].ID != "anthropic-docs" {
			t.Fatalf("unexpected sources: %v", fm.Sources)
		}
		if fm.Sources[0].Accessed != "2026-01-15" {
			t.Errorf("unexpected accessed date: %q", fm.Sources[0].Accessed)
		}
	})

	t.Run("Empty Metadata", func(t *testing.T) {
		fm, err := core.DecodeFrontmatter(nil)
		if err != nil {
			t.Fatalf("DecodeFrontmatter failed: %v", err)
		}
		if fm.Title != "" || fm.Status != "" || fm.Tags != nil {
			t.Errorf("expected zero frontmatter, got %+v", fm)
		}
	})

	t.Run("Unknown Keys Ignored", func(t *testing.T) {
		fm, err := core.DecodeFrontmatter(core.Metadata{
			"title":  "X",
			"weight": 3,
		})
		if err != nil {
			t.Fatalf("DecodeFrontmatter failed: %v", err)
		}
		if fm.Title != "X" {
			t.Errorf("unexpected title: %q", fm.Title)
		}
	})
}

func TestEncodeFrontmatterRoundTrip(t *testing.T) {
	in := core.Frontmatter{
		Title:   "Tool Use",
		Slug:    "tool-use",
		Status:  core.StatusDraft,
		Tags:    []string{"agents"},
		Summary: "Short.",
		Sources: []core.Source{{ID: "ref1", URL: "https://example.com"}},
	}

	meta, err := core.EncodeFrontmatter(in)
	if err != nil {
		t.Fatalf("EncodeFrontmatter failed: %v", err)
	}
	if meta["title"] != "Tool Use" {
		t.Errorf("unexpected encoded title: %v", meta["title"])
	}
	if _, ok := meta["summary"]; !ok {
		t.Error("expected summary key in encoded metadata")
	}

	out, err := core.DecodeFrontmatter(meta)
	if err != nil {
		t.Fatalf("DecodeFrontmatter failed: %v", err)
	}
	if out.Title != in.Title || out.Slug != in.Slug || out.Status != in.Status {
		t.Errorf("round trip mismatch: in=%+v out=%+v", in, out)
	}
	if len(out.Sources) != 1 || out.Sources[0].URL != "https://example.com" {
		t.Errorf("round trip lost sources: %v", out.Sources)
	}
}
