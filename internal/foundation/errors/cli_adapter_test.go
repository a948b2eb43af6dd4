package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", NewError(CategoryValidation, "bad input").Build(), 2},
		{"config", ConfigError("bad config").Build(), 7},
		{"permalink", PermalinkError("no permalink").Build(), 9},
		{"taxonomy wrapped", fmt.Errorf("stage: %w", TaxonomyError("collision").Build()), 9},
		{"filesystem", FileSystemError("write").Build(), 11},
		{"network", NewError(CategoryNetwork, "nats").Build(), 8},
		{"unclassified", stderrors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	err := WrapError(stderrors.New("token :slug has no value"), CategoryConfig, "invalid permalink template").
		WithContext("template", "/blog/:slug").
		Build()

	quiet := NewCLIErrorAdapter(false, nil).FormatError(err)
	if !strings.HasPrefix(quiet, "Error: invalid permalink template: token :slug has no value") {
		t.Errorf("unexpected quiet format: %q", quiet)
	}
	if !strings.Contains(quiet, "template: /blog/:slug") {
		t.Errorf("expected context in quiet format: %q", quiet)
	}

	verbose := NewCLIErrorAdapter(true, nil).FormatError(err)
	if !strings.Contains(verbose, "[config:error]") {
		t.Errorf("expected full chain in verbose format: %q", verbose)
	}

	if got := NewCLIErrorAdapter(false, nil).FormatError(nil); got != "" {
		t.Errorf("expected empty string for nil, got %q", got)
	}
}

func TestCLIErrorAdapter_LogError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	adapter := NewCLIErrorAdapter(false, logger)

	adapter.LogError(TaxonomyError("ambiguous category slug").WithContext("slug", "go").Warning().Build())

	out := buf.String()
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("expected warn level, got %q", out)
	}
	if !strings.Contains(out, "category=taxonomy") || !strings.Contains(out, "slug=go") {
		t.Errorf("expected category and context attrs, got %q", out)
	}
}
