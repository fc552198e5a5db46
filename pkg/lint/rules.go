package lint

import "context"

// ruleFunc adapts a plain function to the Rule interface.
type ruleFunc struct {
	id    string
	check func(ctx context.Context, t *Target) ([]Finding, error)
}

func (r ruleFunc) ID() string { return r.id }

func (r ruleFunc) Check(ctx context.Context, t *Target) ([]Finding, error) {
	return r.check(ctx, t)
}

// NewRule wraps a check function as a Rule.
func NewRule(id string, check func(ctx context.Context, t *Target) ([]Finding, error)) Rule {
	return ruleFunc{id: id, check: check}
}

// DefaultRules returns the built-in rule set for the corpus conventions.
func DefaultRules(cfg Config) []Rule {
	cfg = cfg.normalized()
	return []Rule{
		frontmatterMissingRule(),
		frontmatterRequiredRule(),
		frontmatterStatusRule(),
		frontmatterSummaryRule(cfg.MaxSummaryLen),
		frontmatterSlugRule(),
		frontmatterSlugUniqueRule(),
		tagsEmptyRule(),
		tagsUnknownRule(),
		sourcesFieldsRule(),
		sourcesStaleRule(cfg.MaxSourceAge),
		citationsUnknownRefRule(),
		citationsUnusedSourceRule(),
		linksBrokenRule(),
		linksAnchorRule(),
		layoutSectionRule(cfg.Sections),
	}
}
