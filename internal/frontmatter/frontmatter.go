// Package frontmatter splits `---` delimited YAML headers from post bodies.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter is returned when a document opens a YAML header
// but never closes it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a parsed post source.
type Document struct {
	Fields map[string]any
	Body   []byte
	// HasFrontmatter is false when the source did not start with `---`.
	HasFrontmatter bool
}

// Split separates the raw YAML header from the body. LF and CRLF sources are
// both accepted; the newline style of the first line decides which one.
func Split(content []byte) (header []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	delim := []byte("---" + nl)
	if !bytes.HasPrefix(content, delim) {
		return nil, content, false, nil
	}

	start := len(delim)
	if bytes.HasPrefix(content[start:], delim) {
		return []byte{}, content[start+len(delim):], true, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closing)
	if idx < 0 {
		// A closing delimiter on the last line without a trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content, tail) {
			return content[start : len(content)-len(tail)+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return content[start : start+idx+len(nl)], content[start+idx+len(closing):], true, nil
}

// ParseYAML decodes a raw header into a map. An empty header yields an empty map.
func ParseYAML(header []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(header)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(header, &fields); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Parse splits content and decodes its header.
func Parse(content []byte) (Document, error) {
	header, body, had, err := Split(content)
	if err != nil {
		return Document{}, err
	}
	fields, err := ParseYAML(header)
	if err != nil {
		return Document{}, err
	}
	return Document{Fields: fields, Body: body, HasFrontmatter: had}, nil
}

// Canonical renders fields as YAML with sorted keys and LF newlines, minus
// the excluded keys and the final newline. Equal maps always render equally.
func Canonical(fields map[string]any, exclude ...string) (string, error) {
	subset := make(map[string]any, len(fields))
	for k, v := range fields {
		subset[k] = v
	}
	for _, k := range exclude {
		delete(subset, k)
	}
	if len(subset) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(subset); err != nil {
		_ = enc.Close()
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
