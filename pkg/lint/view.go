package lint

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrowhq/harrow/pkg/core"
	"github.com/harrowhq/harrow/pkg/corpus"
	"github.com/harrowhq/harrow/pkg/markdown"
	"github.com/harrowhq/harrow/pkg/taxonomy"
)

// View is an immutable snapshot of the corpus the rules run against.
// Unlike the repository List (which serves cached frontmatter), the view
// fully parses every document: rules need bodies, raw sources, and scans.
type View struct {
	Root     string
	Targets  []*Target
	Taxonomy *taxonomy.Taxonomy

	// Preflight holds findings produced while loading (parse failures,
	// missing taxonomy) that no per-document rule will see.
	Preflight []Finding

	byPath map[string]*Target
	slugs  map[string][]string // slug -> file paths
	files  map[string]bool     // every file in the corpus, any extension
}

// LoadView walks the corpus root, parses all Markdown documents, and
// scans their structure. skipDirs names directories excluded from the
// walk (the repository's system dir); it defaults to ".harrow". The
// .git directory is always skipped.
func LoadView(ctx context.Context, root string, logger *slog.Logger, skipDirs ...string) (*View, error) {
	if len(skipDirs) == 0 {
		skipDirs = []string{".harrow"}
	}
	skip := map[string]bool{".git": true}
	for _, d := range skipDirs {
		skip[d] = true
	}

	tax, err := taxonomy.Load(root)
	if err != nil {
		return nil, err
	}

	v := &View{
		Root:     root,
		Taxonomy: tax,
		byPath:   make(map[string]*Target),
		slugs:    make(map[string][]string),
		files:    make(map[string]bool),
	}

	if !tax.Defined() {
		v.Preflight = append(v.Preflight, Finding{
			Rule:     "taxonomy/missing",
			Severity: SeverityWarning,
			Path:     taxonomy.File,
			Message:  "taxonomy file not found; tag validation is disabled",
		})
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if skip[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		v.files[rel] = true

		if filepath.Ext(rel) != ".md" {
			return nil
		}

		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}

		doc, err := corpus.ParseDocument(source)
		if err != nil {
			v.Preflight = append(v.Preflight, Finding{
				Rule:     "frontmatter/invalid",
				Severity: SeverityError,
				Path:     rel,
				Message:  err.Error(),
			})
			return nil
		}
		doc.ID = strings.TrimSuffix(rel, ".md")

		fm, err := core.DecodeFrontmatter(doc.Metadata)
		if err != nil {
			v.Preflight = append(v.Preflight, Finding{
				Rule:     "frontmatter/invalid",
				Severity: SeverityError,
				Path:     rel,
				Message:  err.Error(),
			})
			return nil
		}

		scan, err := markdown.ScanSource(source)
		if err != nil {
			if logger != nil {
				logger.Warn("failed to scan document", "path", rel, "error", err)
			}
			scan = &markdown.Scan{}
		}

		t := &Target{
			Path:   rel,
			Doc:    *doc,
			Meta:   fm,
			Source: source,
			Scan:   scan,
			View:   v,
		}
		v.Targets = append(v.Targets, t)
		v.byPath[rel] = t
		if fm.Slug != "" {
			v.slugs[fm.Slug] = append(v.slugs[fm.Slug], rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return v, nil
}

// FileExists reports whether a corpus-relative path exists in the snapshot.
func (v *View) FileExists(rel string) bool {
	return v.files[rel]
}

// TargetByPath returns the parsed document for a corpus-relative path, if any.
func (v *View) TargetByPath(rel string) *Target {
	return v.byPath[rel]
}

// SlugPaths returns all file paths declaring the given slug.
func (v *View) SlugPaths(slug string) []string {
	return v.slugs[slug]
}
