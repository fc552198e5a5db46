package lint

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/harrowhq/harrow/pkg/core"
	"github.com/harrowhq/harrow/pkg/corpus"
)

// accessedLayout is the date format for source accessed fields.
const accessedLayout = "2006-01-02"

func frontmatterMissingRule() Rule {
	return NewRule("frontmatter/missing", func(ctx context.Context, t *Target) ([]Finding, error) {
		if corpus.HasFrontmatter(t.Source) {
			return nil, nil
		}
		return []Finding{{
			Rule:     "frontmatter/missing",
			Severity: SeverityError,
			Path:     t.Path,
			Line:     1,
			Message:  "document has no frontmatter block",
		}}, nil
	})
}

func frontmatterRequiredRule() Rule {
	return NewRule("frontmatter/required", func(ctx context.Context, t *Target) ([]Finding, error) {
		if !corpus.HasFrontmatter(t.Source) {
			return nil, nil // frontmatter/missing already covers this
		}

		var findings []Finding
		report := func(field string) {
			findings = append(findings, Finding{
				Rule:     "frontmatter/required",
				Severity: SeverityError,
				Path:     t.Path,
				Line:     1,
				Message:  fmt.Sprintf("required frontmatter field %q is missing or empty", field),
			})
		}

		if strings.TrimSpace(t.Meta.Title) == "" {
			report("title")
		}
		if strings.TrimSpace(t.Meta.Slug) == "" {
			report("slug")
		}
		if t.Meta.Status == "" {
			report("status")
		}
		return findings, nil
	})
}

func frontmatterStatusRule() Rule {
	return NewRule("frontmatter/status", func(ctx context.Context, t *Target) ([]Finding, error) {
		if t.Meta.Status == "" || t.Meta.Status.Valid() {
			return nil, nil
		}
		return []Finding{{
			Rule:     "frontmatter/status",
			Severity: SeverityError,
			Path:     t.Path,
			Line:     1,
			Message: fmt.Sprintf("invalid status %q (expected one of: %s)",
				t.Meta.Status, statusList()),
		}}, nil
	})
}

func statusList() string {
	var names []string
	for _, s := range core.Statuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func frontmatterSummaryRule(maxLen int) Rule {
	return NewRule("frontmatter/summary", func(ctx context.Context, t *Target) ([]Finding, error) {
		if !corpus.HasFrontmatter(t.Source) {
			return nil, nil
		}

		summary := strings.TrimSpace(t.Meta.Summary)
		if summary == "" {
			return []Finding{{
				Rule:     "frontmatter/summary",
				Severity: SeverityWarning,
				Path:     t.Path,
				Line:     1,
				Message:  "summary is missing",
			}}, nil
		}

		if n := len([]rune(summary)); n >= maxLen {
			return []Finding{{
				Rule:     "frontmatter/summary",
				Severity: SeverityError,
				Path:     t.Path,
				Line:     1,
				Message:  fmt.Sprintf("summary is %d characters, must stay under %d", n, maxLen),
			}}, nil
		}
		return nil, nil
	})
}

func frontmatterSlugRule() Rule {
	return NewRule("frontmatter/slug", func(ctx context.Context, t *Target) ([]Finding, error) {
		if t.Meta.Slug == "" {
			return nil, nil
		}
		want := strings.TrimSuffix(path.Base(t.Path), ".md")
		if t.Meta.Slug == want {
			return nil, nil
		}
		return []Finding{{
			Rule:     "frontmatter/slug",
			Severity: SeverityError,
			Path:     t.Path,
			Line:     1,
			Message:  fmt.Sprintf("slug %q does not match filename (expected %q)", t.Meta.Slug, want),
		}}, nil
	})
}

func frontmatterSlugUniqueRule() Rule {
	return NewRule("frontmatter/slug-unique", func(ctx context.Context, t *Target) ([]Finding, error) {
		if t.Meta.Slug == "" {
			return nil, nil
		}
		paths := t.View.SlugPaths(t.Meta.Slug)
		if len(paths) <= 1 {
			return nil, nil
		}

		var others []string
		for _, p := range paths {
			if p != t.Path {
				others = append(others, p)
			}
		}
		return []Finding{{
			Rule:     "frontmatter/slug-unique",
			Severity: SeverityError,
			Path:     t.Path,
			Line:     1,
			Message:  fmt.Sprintf("slug %q is also used by %s", t.Meta.Slug, strings.Join(others, ", ")),
		}}, nil
	})
}

func tagsEmptyRule() Rule {
	return NewRule("tags/empty", func(ctx context.Context, t *Target) ([]Finding, error) {
		if !corpus.HasFrontmatter(t.Source) || len(t.Meta.Tags) > 0 {
			return nil, nil
		}
		return []Finding{{
			Rule:     "tags/empty",
			Severity: SeverityWarning,
			Path:     t.Path,
			Line:     1,
			Message:  "document has no tags",
		}}, nil
	})
}

func tagsUnknownRule() Rule {
	return NewRule("tags/unknown", func(ctx context.Context, t *Target) ([]Finding, error) {
		if !t.View.Taxonomy.Defined() {
			return nil, nil // taxonomy/missing is reported once at load time
		}

		var findings []Finding
		for _, tag := range t.Meta.Tags {
			if t.View.Taxonomy.Has(tag) {
				continue
			}
			findings = append(findings, Finding{
				Rule:     "tags/unknown",
				Severity: SeverityError,
				Path:     t.Path,
				Line:     1,
				Message:  fmt.Sprintf("tag %q is not defined in %s", tag, "_meta/TAXONOMY.md"),
			})
		}
		return findings, nil
	})
}

func sourcesFieldsRule() Rule {
	return NewRule("sources/fields", func(ctx context.Context, t *Target) ([]Finding, error) {
		var findings []Finding
		for i, src := range t.Meta.Sources {
			if strings.TrimSpace(src.ID) == "" {
				findings = append(findings, Finding{
					Rule:     "sources/fields",
					Severity: SeverityError,
					Path:     t.Path,
					Line:     1,
					Message:  fmt.Sprintf("sources[%d] has no id", i),
				})
			}
			if strings.TrimSpace(src.URL) == "" {
				findings = append(findings, Finding{
					Rule:     "sources/fields",
					Severity: SeverityError,
					Path:     t.Path,
					Line:     1,
					Message:  fmt.Sprintf("sources[%d] has no url", i),
				})
			}
			if src.Accessed != "" {
				if _, err := time.Parse(accessedLayout, src.Accessed); err != nil {
					findings = append(findings, Finding{
						Rule:     "sources/fields",
						Severity: SeverityWarning,
						Path:     t.Path,
						Line:     1,
						Message:  fmt.Sprintf("sources[%d] accessed date %q is not YYYY-MM-DD", i, src.Accessed),
					})
				}
			}
		}
		return findings, nil
	})
}

func sourcesStaleRule(maxAge time.Duration) Rule {
	return NewRule("sources/stale", func(ctx context.Context, t *Target) ([]Finding, error) {
		var findings []Finding
		for _, src := range t.Meta.Sources {
			if src.Accessed == "" {
				continue
			}
			accessed, err := time.Parse(accessedLayout, src.Accessed)
			if err != nil {
				continue // sources/fields reports the format problem
			}
			if age := time.Since(accessed); age > maxAge {
				findings = append(findings, Finding{
					Rule:     "sources/stale",
					Severity: SeverityWarning,
					Path:     t.Path,
					Line:     1,
					Message: fmt.Sprintf("source %q was last accessed %s (%d days ago)",
						src.ID, src.Accessed, int(age.Hours()/24)),
				})
			}
		}
		return findings, nil
	})
}
