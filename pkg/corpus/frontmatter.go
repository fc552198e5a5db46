package corpus

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harrowhq/harrow/pkg/core"
)

// ParseDocument decodes raw Markdown bytes into a Document.
// A file that does not open with a frontmatter fence is all content.
// A fence that is opened but never closed is a parse error.
func ParseDocument(data []byte) (*core.Document, error) {
	doc := &core.Document{Metadata: make(core.Metadata)}

	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		doc.Content = string(data)
		return doc, nil
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("\n---"), 2)
	if len(parts) == 1 {
		return nil, errors.New("frontmatter started but no closing delimiter found")
	}

	yamlData := parts[0]
	contentData := parts[1]

	if err := yaml.Unmarshal(yamlData, &doc.Metadata); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	content := string(contentData)
	// Drop the remainder of the fence line.
	if idx := strings.Index(content, "\n"); idx >= 0 {
		content = content[idx+1:]
	} else {
		content = ""
	}
	doc.Content = strings.TrimPrefix(content, "\r\n")
	doc.Content = strings.TrimPrefix(doc.Content, "\n")

	return doc, nil
}

// SerializeDocument encodes a Document back into Markdown bytes with a
// YAML frontmatter block when metadata is present.
func SerializeDocument(doc core.Document) ([]byte, error) {
	var buf bytes.Buffer
	if len(doc.Metadata) > 0 {
		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc.Metadata); err != nil {
			return nil, err
		}
		encoder.Close()
		buf.WriteString("---\n")
	}
	buf.WriteString(doc.Content)
	return buf.Bytes(), nil
}

// HasFrontmatter reports whether raw bytes open with a frontmatter fence.
func HasFrontmatter(data []byte) bool {
	return bytes.HasPrefix(data, []byte("---\n")) || bytes.HasPrefix(data, []byte("---\r\n"))
}
