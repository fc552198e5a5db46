package lint

import (
	"context"
	"fmt"
	"strings"
)

// layoutSectionRule checks that nested documents live in a known
// section. Root-level files (README.md and friends) are exempt.
func layoutSectionRule(sections []string) Rule {
	known := make(map[string]bool, len(sections))
	for _, s := range sections {
		known[s] = true
	}

	return NewRule("layout/section", func(ctx context.Context, t *Target) ([]Finding, error) {
		idx := strings.Index(t.Path, "/")
		if idx < 0 {
			return nil, nil
		}
		section := t.Path[:idx]
		if known[section] {
			return nil, nil
		}
		return []Finding{{
			Rule:     "layout/section",
			Severity: SeverityWarning,
			Path:     t.Path,
			Line:     1,
			Message:  fmt.Sprintf("directory %q is not a known corpus section (%s)", section, strings.Join(sections, ", ")),
		}}, nil
	})
}
