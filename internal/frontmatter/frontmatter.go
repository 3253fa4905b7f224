// Package frontmatter splits and parses the YAML header of content pages.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a YAML header
// with "---" but never closed it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Meta holds the header fields the site builder understands. Unknown keys
// are kept in Params.
type Meta struct {
	Title  string         `yaml:"title"`
	Draft  bool           `yaml:"draft"`
	Params map[string]any `yaml:",inline"`
}

// Split separates a "---" delimited YAML header from the Markdown body.
// Both LF and CRLF line endings are accepted. When the document has no
// header, had is false and body is the full input.
func Split(content []byte) (header []byte, body []byte, had bool, err error) {
	nl := newline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closing)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closing):], true, nil
}

// Join writes header and body back into a single document using LF endings.
// An empty header produces body unchanged.
func Join(header []byte, body []byte) []byte {
	if len(header) == 0 {
		return body
	}
	out := make([]byte, 0, len(header)+len(body)+8)
	out = append(out, "---\n"...)
	out = append(out, header...)
	if !bytes.HasSuffix(header, []byte("\n")) {
		out = append(out, '\n')
	}
	out = append(out, "---\n"...)
	return append(out, body...)
}

// ParseYAML parses a raw header (without delimiters) into a map.
func ParseYAML(header []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(header)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(header, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Decode parses a raw header into Meta.
func Decode(header []byte) (Meta, error) {
	var meta Meta
	if len(bytes.TrimSpace(header)) == 0 {
		return meta, nil
	}
	if err := yaml.Unmarshal(header, &meta); err != nil {
		return Meta{}, fmt.Errorf("decode frontmatter: %w", err)
	}
	return meta, nil
}

// Parse splits content and decodes its header in one step.
func Parse(content []byte) (Meta, []byte, error) {
	header, body, _, err := Split(content)
	if err != nil {
		return Meta{}, nil, err
	}
	meta, err := Decode(header)
	if err != nil {
		return Meta{}, nil, err
	}
	return meta, body, nil
}

// SerializeYAML encodes fields as a YAML header body with keys sorted so
// output is stable. An empty map yields an empty slice.
func SerializeYAML(fields map[string]any) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		var value yaml.Node
		if err := value.Encode(fields[k]); err != nil {
			return nil, fmt.Errorf("encode frontmatter key %q: %w", k, err)
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, &value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
