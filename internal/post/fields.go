package post

import (
	"fmt"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation"
)

// Front-matter keys understood by the loader.
const (
	FieldTitle      = "title"
	FieldDate       = "date"
	FieldPermalink  = "permalink"
	FieldCategories = "categories"
	FieldDraft      = "draft"
)

var dateLayouts = []string{
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339,
}

// ParseDate accepts the date formats posts are written with. Dates without a
// zone are taken as UTC.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func dateField(fields map[string]any) (foundation.Option[time.Time], error) {
	switch v := fields[FieldDate].(type) {
	case nil:
		return foundation.None[time.Time](), nil
	case time.Time:
		return foundation.Some(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return foundation.None[time.Time](), nil
		}
		t, err := ParseDate(v)
		if err != nil {
			return foundation.None[time.Time](), err
		}
		return foundation.Some(t), nil
	default:
		return foundation.None[time.Time](), fmt.Errorf("unsupported date value %v (%T)", v, v)
	}
}

func stringField(fields map[string]any, key string) foundation.Option[string] {
	switch v := fields[key].(type) {
	case nil:
		return foundation.None[string]()
	case string:
		if v == "" {
			return foundation.None[string]()
		}
		return foundation.Some(v)
	default:
		return foundation.Some(fmt.Sprint(v))
	}
}

func boolField(fields map[string]any, key string) bool {
	switch v := fields[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

// categoriesField accepts a comma separated string or a list. Names are
// trimmed, empty names dropped and exact duplicates collapsed; case is kept.
func categoriesField(fields map[string]any) []string {
	var raw []string
	switch v := fields[FieldCategories].(type) {
	case string:
		raw = strings.Split(v, ",")
	case []any:
		for _, item := range v {
			if item != nil {
				raw = append(raw, fmt.Sprint(item))
			}
		}
	case []string:
		raw = v
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
