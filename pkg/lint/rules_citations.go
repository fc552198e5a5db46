package lint

import (
	"context"
	"fmt"
)

func citationsUnknownRefRule() Rule {
	return NewRule("citations/unknown-ref", func(ctx context.Context, t *Target) ([]Finding, error) {
		known := make(map[string]bool, len(t.Meta.Sources))
		for _, src := range t.Meta.Sources {
			known[src.ID] = true
		}

		var findings []Finding
		reported := make(map[string]bool)
		for _, ref := range t.Scan.CitationRefs {
			if known[ref.ID] || reported[ref.ID] {
				continue
			}
			reported[ref.ID] = true
			findings = append(findings, Finding{
				Rule:     "citations/unknown-ref",
				Severity: SeverityError,
				Path:     t.Path,
				Line:     ref.Line,
				Message:  fmt.Sprintf("citation [^%s] has no matching sources entry", ref.ID),
			})
		}
		return findings, nil
	})
}

func citationsUnusedSourceRule() Rule {
	return NewRule("citations/unused-source", func(ctx context.Context, t *Target) ([]Finding, error) {
		referenced := make(map[string]bool, len(t.Scan.CitationRefs))
		for _, ref := range t.Scan.CitationRefs {
			referenced[ref.ID] = true
		}

		var findings []Finding
		for _, src := range t.Meta.Sources {
			if src.ID == "" || referenced[src.ID] {
				continue
			}
			findings = append(findings, Finding{
				Rule:     "citations/unused-source",
				Severity: SeverityWarning,
				Path:     t.Path,
				Line:     1,
				Message:  fmt.Sprintf("source %q is never cited in the text", src.ID),
			})
		}
		return findings, nil
	})
}
