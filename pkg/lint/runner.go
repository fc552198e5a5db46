package lint

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
)

// Runner evaluates registered rules over a corpus view.
type Runner struct {
	cfg    Config
	rules  []Rule
	logger *slog.Logger
}

// NewRunner creates a runner with the default rule set.
func NewRunner(cfg Config, logger *slog.Logger) *Runner {
	cfg = cfg.normalized()
	r := &Runner{cfg: cfg, logger: logger}
	r.Register(DefaultRules(cfg)...)
	return r
}

// Register adds rules to the runner. Later registrations run after the
// defaults; ordering only affects log output, findings are sorted.
func (r *Runner) Register(rules ...Rule) {
	r.rules = append(r.rules, rules...)
}

// selected applies the include/exclude globs to a corpus-relative path.
func (r *Runner) selected(path string) bool {
	if len(r.cfg.Include) > 0 {
		matched := false
		for _, pattern := range r.cfg.Include {
			if ok, err := doublestar.Match(pattern, path); err == nil && ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, pattern := range r.cfg.Exclude {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return false
		}
	}
	return true
}

// Run checks every selected document in the view against every rule.
// Rule execution failures are aggregated and returned alongside the
// report; findings collected before a failure are preserved.
func (r *Runner) Run(ctx context.Context, view *View) (*Report, error) {
	report := NewReport()
	var merr *multierror.Error

	for _, f := range view.Preflight {
		if !r.selected(f.Path) || r.cfg.ignored(f.Rule) {
			continue
		}
		report.Findings = append(report.Findings, f)
	}

	for _, t := range view.Targets {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !r.selected(t.Path) {
			continue
		}
		report.Checked++

		for _, rule := range r.rules {
			if r.cfg.ignored(rule.ID()) {
				continue
			}

			findings, err := rule.Check(ctx, t)
			if err != nil {
				if r.logger != nil {
					r.logger.Error("rule failed", "rule", rule.ID(), "path", t.Path, "error", err)
				}
				merr = multierror.Append(merr, fmt.Errorf("rule %s on %s: %w", rule.ID(), t.Path, err))
				continue
			}
			report.Findings = append(report.Findings, findings...)
		}
	}

	report.Sort()
	return report, merr.ErrorOrNil()
}
