// Package lint implements the compliance rule engine for a Markdown
// knowledge base: frontmatter schema, taxonomy, link, and citation checks.
package lint

import (
	"context"
	"time"

	"github.com/harrowhq/harrow/pkg/core"
	"github.com/harrowhq/harrow/pkg/markdown"
)

// Severity classifies a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single compliance violation located in the corpus.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

// Target is the unit of work a rule checks: one parsed document plus
// the corpus-wide context it needs.
type Target struct {
	Path   string // corpus-relative file path, e.g. "topics/mcp.md"
	Doc    core.Document
	Meta   core.Frontmatter
	Source []byte
	Scan   *markdown.Scan
	View   *View
}

// Rule checks one concern on one document. Returning an error means the
// rule failed to run, which is distinct from reporting findings.
type Rule interface {
	ID() string
	Check(ctx context.Context, t *Target) ([]Finding, error)
}

// Config tunes the rule engine.
type Config struct {
	// Include/Exclude are doublestar globs over corpus-relative paths.
	// Empty Include means everything.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	// IgnoreRules disables rules by ID.
	IgnoreRules []string `yaml:"ignore_rules"`

	// MaxSummaryLen is the first invalid summary length (frontmatter
	// summaries must stay under it).
	MaxSummaryLen int `yaml:"max_summary_len"`

	// MaxSourceAge is how old a source's accessed date may be before it
	// is flagged as stale.
	MaxSourceAge time.Duration `yaml:"max_source_age"`

	// Sections are the directory names documents are expected to live in.
	Sections []string `yaml:"sections"`
}

// DefaultConfig returns the engine defaults matching the corpus conventions.
func DefaultConfig() Config {
	return Config{
		MaxSummaryLen: 160,
		MaxSourceAge:  365 * 24 * time.Hour,
		Sections:      []string{"topics", "engineering", "platforms", "_meta"},
	}
}

// normalized fills zero values with defaults.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.MaxSummaryLen <= 0 {
		c.MaxSummaryLen = def.MaxSummaryLen
	}
	if c.MaxSourceAge <= 0 {
		c.MaxSourceAge = def.MaxSourceAge
	}
	if len(c.Sections) == 0 {
		c.Sections = def.Sections
	}
	return c
}

func (c Config) ignored(ruleID string) bool {
	for _, id := range c.IgnoreRules {
		if id == ruleID {
			return true
		}
	}
	return false
}
