package lint

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// splitLink separates a link destination into its path and fragment.
func splitLink(dest string) (target, fragment string) {
	if idx := strings.Index(dest, "#"); idx >= 0 {
		return dest[:idx], dest[idx+1:]
	}
	return dest, ""
}

// isExternal reports whether the destination points outside the corpus
// (absolute URLs, protocol-relative URLs, mail links).
func isExternal(dest string) bool {
	if strings.HasPrefix(dest, "//") {
		return true
	}
	u, err := url.Parse(dest)
	if err != nil {
		return false // malformed; treat as a corpus path and let resolution flag it
	}
	return u.Scheme != ""
}

// resolveLink maps a destination to a corpus-relative path.
// Leading "/" is corpus-root relative; anything else is relative to the
// linking document. Returns "" when the link escapes the corpus root.
func resolveLink(docPath, dest string) string {
	dest = path.Clean(dest)
	var resolved string
	if strings.HasPrefix(dest, "/") {
		resolved = strings.TrimPrefix(dest, "/")
	} else {
		resolved = path.Join(path.Dir(docPath), dest)
	}
	if resolved == ".." || strings.HasPrefix(resolved, "../") {
		return ""
	}
	return resolved
}

func linksBrokenRule() Rule {
	return NewRule("links/broken", func(ctx context.Context, t *Target) ([]Finding, error) {
		var findings []Finding
		for _, link := range t.Scan.Links {
			target, _ := splitLink(link.Destination)
			if target == "" || isExternal(link.Destination) {
				continue // anchor-only or external
			}

			resolved := resolveLink(t.Path, target)
			if resolved == "" {
				findings = append(findings, Finding{
					Rule:     "links/broken",
					Severity: SeverityError,
					Path:     t.Path,
					Line:     link.Line,
					Message:  fmt.Sprintf("link %q escapes the corpus root", link.Destination),
				})
				continue
			}

			if !t.View.FileExists(resolved) {
				findings = append(findings, Finding{
					Rule:     "links/broken",
					Severity: SeverityError,
					Path:     t.Path,
					Line:     link.Line,
					Message:  fmt.Sprintf("link target %q does not exist", link.Destination),
				})
			}
		}
		return findings, nil
	})
}

func linksAnchorRule() Rule {
	return NewRule("links/anchor", func(ctx context.Context, t *Target) ([]Finding, error) {
		var findings []Finding
		for _, link := range t.Scan.Links {
			if isExternal(link.Destination) {
				continue
			}
			target, fragment := splitLink(link.Destination)
			if fragment == "" {
				continue
			}

			// Anchor-only links point at the current document.
			doc := t
			if target != "" {
				resolved := resolveLink(t.Path, target)
				if resolved == "" || !strings.HasSuffix(resolved, ".md") {
					continue
				}
				doc = t.View.TargetByPath(resolved)
				if doc == nil {
					continue // links/broken reports the missing file
				}
			}

			found := false
			for _, h := range doc.Scan.Headings {
				if h.Anchor == fragment {
					found = true
					break
				}
			}
			if !found {
				findings = append(findings, Finding{
					Rule:     "links/anchor",
					Severity: SeverityWarning,
					Path:     t.Path,
					Line:     link.Line,
					Message:  fmt.Sprintf("anchor %q not found in %s", fragment, doc.Path),
				})
			}
		}
		return findings, nil
	})
}
