// Package taxonomy loads the corpus tag vocabulary from _meta/TAXONOMY.md.
package taxonomy

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// File is the corpus-relative location of the taxonomy document.
const File = "_meta/TAXONOMY.md"

// Taxonomy is the controlled tag vocabulary.
// Each top-level bullet in the taxonomy document defines one tag: the
// first code span (or the first word) is the tag, the rest its description.
type Taxonomy struct {
	path    string
	defined bool
	tags    map[string]string // tag -> description
}

// Load reads the taxonomy document under the given corpus root.
// A missing file yields an empty vocabulary, not an error; the lint
// layer reports it as a finding.
func Load(root string) (*Taxonomy, error) {
	path := filepath.Join(root, filepath.FromSlash(File))
	t := &Taxonomy{path: path, tags: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy: %w", err)
	}
	t.defined = true

	if err := t.parse(data); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Taxonomy) parse(source []byte) error {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	pctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(source), parser.WithContext(pctx))

	return ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		item, ok := n.(*ast.ListItem)
		if !ok {
			return ast.WalkContinue, nil
		}

		tag, desc := extractEntry(item, source)
		if tag != "" {
			if _, exists := t.tags[tag]; !exists {
				t.tags[tag] = desc
			}
		}
		// Nested lists do not define tags.
		return ast.WalkSkipChildren, nil
	})
}

// extractEntry pulls the tag and description from a single list item.
func extractEntry(item *ast.ListItem, source []byte) (tag, desc string) {
	var plain strings.Builder

	_ = ast.Walk(item, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.CodeSpan:
			if tag == "" {
				tag = string(node.Text(source))
				return ast.WalkSkipChildren, nil
			}
		case *ast.Text:
			plain.Write(node.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})

	rest := strings.TrimSpace(plain.String())
	if tag == "" {
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return "", ""
		}
		tag = fields[0]
		rest = strings.TrimSpace(strings.TrimPrefix(rest, tag))
	}

	desc = strings.TrimLeft(rest, " \t:–—-")
	return tag, strings.TrimSpace(desc)
}

// Defined reports whether the taxonomy file exists in the corpus.
func (t *Taxonomy) Defined() bool {
	return t.defined
}

// Has reports whether the tag is part of the vocabulary.
func (t *Taxonomy) Has(tag string) bool {
	_, ok := t.tags[tag]
	return ok
}

// Description returns the tag's description, if any.
func (t *Taxonomy) Description(tag string) string {
	return t.tags[tag]
}

// Tags returns the vocabulary in sorted order.
func (t *Taxonomy) Tags() []string {
	out := make([]string, 0, len(t.tags))
	for tag := range t.tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of known tags.
func (t *Taxonomy) Len() int {
	return len(t.tags)
}
