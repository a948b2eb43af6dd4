// Package notify announces finished builds to downstream consumers.
package notify

import (
	"context"
	"time"
)

// BuildCompletedEvent is published after a successful build.
type BuildCompletedEvent struct {
	BuildID    string    `json:"build_id"`
	Outcome    string    `json:"outcome"`
	SiteURL    string    `json:"site_url"`
	BlogPath   string    `json:"blog_path"`
	Posts      int       `json:"posts"`
	Categories int       `json:"categories"`
	Files      int       `json:"files"`
	Moved      []string  `json:"moved,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher delivers build events.
type Publisher interface {
	Publish(ctx context.Context, event BuildCompletedEvent) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, BuildCompletedEvent) error { return nil }
func (NoopPublisher) Close() error                                       { return nil }
