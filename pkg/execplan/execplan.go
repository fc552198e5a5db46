// Package execplan scaffolds and compliance-checks ExecPlan documents:
// structured Markdown plans tracking the goal, progress, decisions, and
// outcomes of a multi-step initiative.
package execplan

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/harrowhq/harrow/pkg/core"
	"github.com/harrowhq/harrow/pkg/lint"
)

// Section is the corpus directory ExecPlans live in.
const Section = "engineering/execplans"

// Tag is the taxonomy tag applied to scaffolded plans.
const Tag = "execplan"

// requiredSections are the headings every ExecPlan must carry.
var requiredSections = []string{"Goal", "Progress", "Decisions", "Outcomes"}

var checkboxRe = regexp.MustCompile(`(?m)^\s*[-*] \[( |x|X)\]`)

// Scaffold builds a new draft ExecPlan document for the given slug.
func Scaffold(slug, title string) (core.Document, error) {
	if slug == "" {
		return core.Document{}, fmt.Errorf("execplan slug cannot be empty")
	}
	if strings.Contains(slug, "/") {
		return core.Document{}, fmt.Errorf("execplan slug must not contain %q", "/")
	}
	if title == "" {
		title = slug
	}

	meta, err := core.EncodeFrontmatter(core.Frontmatter{
		Title:   title,
		Slug:    slug,
		Status:  core.StatusDraft,
		Tags:    []string{Tag},
		Summary: fmt.Sprintf("Execution plan for %s.", title),
	})
	if err != nil {
		return core.Document{}, err
	}

	var b strings.Builder
	b.WriteString("\n## Goal\n\n")
	b.WriteString("Describe the outcome this plan delivers and how to tell it is done.\n")
	b.WriteString("\n## Progress\n\n")
	b.WriteString("- [ ] Define scope\n")
	b.WriteString("\n## Decisions\n\n")
	b.WriteString("_None yet._\n")
	b.WriteString("\n## Outcomes\n\n")
	b.WriteString("_None yet._\n")

	return core.Document{
		ID:       Section + "/" + slug,
		Content:  b.String(),
		Metadata: meta,
	}, nil
}

// IsPlan reports whether a corpus-relative path is an ExecPlan document.
func IsPlan(path string) bool {
	return strings.HasPrefix(path, Section+"/")
}

// Rules returns the ExecPlan compliance rules, for registration with
// the lint runner. They no-op on documents outside the plan section.
func Rules() []lint.Rule {
	return []lint.Rule{
		sectionsRule(),
		progressRule(),
		statusRule(),
	}
}

func sectionsRule() lint.Rule {
	return lint.NewRule("execplan/sections", func(ctx context.Context, t *lint.Target) ([]lint.Finding, error) {
		if !IsPlan(t.Path) {
			return nil, nil
		}

		present := make(map[string]bool)
		for _, h := range t.Scan.Headings {
			present[strings.ToLower(strings.TrimSpace(h.Text))] = true
		}

		var findings []lint.Finding
		for _, section := range requiredSections {
			if present[strings.ToLower(section)] {
				continue
			}
			findings = append(findings, lint.Finding{
				Rule:     "execplan/sections",
				Severity: lint.SeverityError,
				Path:     t.Path,
				Line:     1,
				Message:  fmt.Sprintf("plan is missing the %q section", "## "+section),
			})
		}
		return findings, nil
	})
}

func progressRule() lint.Rule {
	return lint.NewRule("execplan/progress", func(ctx context.Context, t *lint.Target) ([]lint.Finding, error) {
		if !IsPlan(t.Path) {
			return nil, nil
		}
		if checked, unchecked := CountTasks(t.Source); checked+unchecked > 0 {
			return nil, nil
		}
		return []lint.Finding{{
			Rule:     "execplan/progress",
			Severity: lint.SeverityWarning,
			Path:     t.Path,
			Line:     1,
			Message:  "plan has no checklist items under Progress",
		}}, nil
	})
}

func statusRule() lint.Rule {
	return lint.NewRule("execplan/status", func(ctx context.Context, t *lint.Target) ([]lint.Finding, error) {
		if !IsPlan(t.Path) {
			return nil, nil
		}

		_, unchecked := CountTasks(t.Source)
		if unchecked == 0 {
			return nil, nil
		}

		switch t.Meta.Status {
		case core.StatusStable:
			return []lint.Finding{{
				Rule:     "execplan/status",
				Severity: lint.SeverityError,
				Path:     t.Path,
				Line:     1,
				Message:  fmt.Sprintf("plan is marked stable but has %d open task(s)", unchecked),
			}}, nil
		case core.StatusDeprecated:
			return []lint.Finding{{
				Rule:     "execplan/status",
				Severity: lint.SeverityWarning,
				Path:     t.Path,
				Line:     1,
				Message:  fmt.Sprintf("plan is deprecated with %d open task(s)", unchecked),
			}}, nil
		}
		return nil, nil
	})
}

// CountTasks returns the number of checked and unchecked checklist items
// in the raw document source.
func CountTasks(source []byte) (checked, unchecked int) {
	for _, m := range checkboxRe.FindAllSubmatch(source, -1) {
		if string(m[1]) == " " {
			unchecked++
		} else {
			checked++
		}
	}
	return checked, unchecked
}
