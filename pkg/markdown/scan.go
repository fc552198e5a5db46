// Package markdown extracts document structure (links, headings,
// citation references) from raw Markdown sources using goldmark.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Link is a link or image destination found in a document body.
type Link struct {
	Destination string
	Line        int // 1-based, best effort (start of the enclosing block)
}

// Heading is a section heading with its GitHub-style anchor.
type Heading struct {
	Level  int
	Text   string
	Anchor string
}

// CitationRef is a footnote-style [^id] reference in the text.
type CitationRef struct {
	ID   string
	Line int
}

// Scan holds the extracted structure of a single document.
type Scan struct {
	Links        []Link
	Headings     []Heading
	CitationRefs []CitationRef
}

// citationRe matches footnote-style citation markers. A trailing colon
// marks a footnote definition, not a reference.
var citationRe = regexp.MustCompile(`\[\^([A-Za-z0-9][A-Za-z0-9_.-]*)\](:?)`)

// ScanSource parses the full raw file (frontmatter included; the meta
// extension keeps the fence out of the document AST) and extracts links,
// headings, and citation references.
func ScanSource(source []byte) (*Scan, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	pctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(source), parser.WithContext(pctx))

	s := &Scan{}

	// Citation markers collide with regex character classes, so code
	// regions are blanked out before matching. Newlines are preserved to
	// keep line numbers stable.
	masked := make([]byte, len(source))
	copy(masked, source)
	mask := func(start, stop int) {
		for i := start; i < stop && i < len(masked); i++ {
			if masked[i] != '\n' {
				masked[i] = ' '
			}
		}
	}

	anchorCounts := make(map[string]int)

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Link:
			s.Links = append(s.Links, Link{
				Destination: string(node.Destination),
				Line:        lineOf(source, n),
			})
		case *ast.Image:
			s.Links = append(s.Links, Link{
				Destination: string(node.Destination),
				Line:        lineOf(source, n),
			})
		case *ast.AutoLink:
			s.Links = append(s.Links, Link{
				Destination: string(node.URL(source)),
				Line:        lineOf(source, n),
			})
		case *ast.Heading:
			txt := string(node.Text(source))
			anchor := AnchorFor(txt)
			// Duplicate headings get -1, -2, ... suffixes.
			if seen := anchorCounts[anchor]; seen > 0 {
				anchorCounts[anchor]++
				anchor = fmt.Sprintf("%s-%d", anchor, seen)
			} else {
				anchorCounts[anchor]++
			}
			s.Headings = append(s.Headings, Heading{
				Level:  node.Level,
				Text:   txt,
				Anchor: anchor,
			})
		case *ast.FencedCodeBlock:
			maskLines(mask, node.Lines())
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			maskLines(mask, node.Lines())
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					mask(txt.Segment.Start, txt.Segment.Stop)
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk markdown ast: %w", err)
	}

	s.CitationRefs = scanCitations(masked)

	return s, nil
}

func maskLines(mask func(start, stop int), lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		mask(seg.Start, seg.Stop)
	}
}

// scanCitations finds [^id] references, skipping footnote definitions.
func scanCitations(source []byte) []CitationRef {
	var refs []CitationRef
	for _, m := range citationRe.FindAllSubmatchIndex(source, -1) {
		// m: full match, group 1 (id), group 2 (optional colon)
		if m[5] > m[4] {
			continue // definition ("[^id]:"), not a reference
		}
		refs = append(refs, CitationRef{
			ID:   string(source[m[2]:m[3]]),
			Line: 1 + bytes.Count(source[:m[0]], []byte("\n")),
		})
	}
	return refs
}

// AnchorFor converts heading text to a GitHub-style anchor slug.
func AnchorFor(heading string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(heading)) {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// lineOf resolves the 1-based line of an inline node by locating the
// nearest ancestor block that carries source segments.
func lineOf(source []byte, n ast.Node) int {
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.Type() == ast.TypeBlock && cur.Lines().Len() > 0 {
			return 1 + bytes.Count(source[:cur.Lines().At(0).Start], []byte("\n"))
		}
	}
	return 0
}
