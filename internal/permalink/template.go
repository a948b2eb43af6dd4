// Package permalink resolves the canonical URL of every post.
package permalink

import (
	"fmt"
	"strings"
)

// UnknownTokenError reports a template token with no value. It is a
// configuration error.
type UnknownTokenError struct {
	Token    string
	Template string
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown permalink token :%s in template %q", e.Token, e.Template)
}

// Tokens lists the token names in template in order of appearance.
func Tokens(template string) []string {
	var names []string
	scan(template, func(string) {}, func(name string) { names = append(names, name) })
	return names
}

// Expand substitutes every :name token in template with fields[name]. All
// other bytes are copied verbatim, including case. A ':' that does not start a
// name is literal.
func Expand(template string, fields map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(template))
	var missing string
	scan(template,
		func(literal string) { b.WriteString(literal) },
		func(name string) {
			v, ok := fields[name]
			if !ok && missing == "" {
				missing = name
			}
			b.WriteString(v)
		})
	if missing != "" {
		return "", &UnknownTokenError{Token: missing, Template: template}
	}
	return b.String(), nil
}

// scan walks template calling literal for runs of plain text and token for
// every :name. Names match [A-Za-z_][A-Za-z0-9_]*, longest first.
func scan(template string, literal func(string), token func(string)) {
	start := 0
	for i := 0; i < len(template); i++ {
		if template[i] != ':' || i+1 >= len(template) || !isNameStart(template[i+1]) {
			continue
		}
		j := i + 2
		for j < len(template) && isNameChar(template[j]) {
			j++
		}
		if start < i {
			literal(template[start:i])
		}
		token(template[i+1 : j])
		start = j
		i = j - 1
	}
	if start < len(template) {
		literal(template[start:])
	}
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
