package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// StageCount aggregates counts of outcomes for a stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// BuildReport captures what one build did.
type BuildReport struct {
	SchemaVersion int
	BuildID       string
	DryRun        bool

	Posts      int // published posts loaded
	Drafts     int // posts skipped as drafts
	Categories int
	Collisions int // category names dropped because their slug was taken
	Pages      int // rendered HTML pages
	Feeds      int // rendered RSS feeds
	Files      int // files written
	LinkIssues int
	Moves      int // posts whose URL changed since the previous journaled build
	Edited     int // posts whose content changed since the previous journaled build

	Start           time.Time
	End             time.Time
	Errors          []error // fatal or canceled stage errors (at most one)
	Warnings        []error
	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount
	Outcome         BuildOutcome
}

func newBuildReport(buildID string) *BuildReport {
	return &BuildReport{
		SchemaVersion:   1,
		BuildID:         buildID,
		Start:           time.Now(),
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
	}
}

func (r *BuildReport) finish() {
	r.End = time.Now()
	r.deriveOutcome()
}

// Duration is the wall time of the build, or the time so far while it runs.
func (r *BuildReport) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	return fmt.Sprintf("build=%s posts=%d drafts=%d categories=%d pages=%d feeds=%d files=%d link_issues=%d moved=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.BuildID, r.Posts, r.Drafts, r.Categories, r.Pages, r.Feeds, r.Files, r.LinkIssues, r.Moves,
		r.Duration().Truncate(time.Millisecond), len(r.Errors), len(r.Warnings), r.Outcome)
}

// deriveOutcome sets Outcome from the recorded errors and warnings.
func (r *BuildReport) deriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Persist writes the report atomically as JSON to jsonPath and a one-line
// summary next to it with a .txt extension. Errors are returned for caller
// logging and do not change the build outcome.
func (r *BuildReport) Persist(jsonPath string) error {
	if r.End.IsZero() {
		r.finish()
	}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0o750); err != nil {
		return fmt.Errorf("ensure directory for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.sanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := writeAtomic(jsonPath, jb); err != nil {
		return fmt.Errorf("write report json: %w", err)
	}
	summaryPath := strings.TrimSuffix(jsonPath, filepath.Ext(jsonPath)) + ".txt"
	if err := writeAtomic(summaryPath, []byte(r.Summary()+"\n")); err != nil {
		return fmt.Errorf("write report summary: %w", err)
	}
	return nil
}

func writeAtomic(target string, data []byte) error {
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

// sanitizedCopy converts errors to strings and typed keys to plain strings.
func (r *BuildReport) sanitizedCopy() *BuildReportSerializable {
	s := &BuildReportSerializable{
		SchemaVersion:   r.SchemaVersion,
		BuildID:         r.BuildID,
		DryRun:          r.DryRun,
		Posts:           r.Posts,
		Drafts:          r.Drafts,
		Categories:      r.Categories,
		Collisions:      r.Collisions,
		Pages:           r.Pages,
		Feeds:           r.Feeds,
		Files:           r.Files,
		LinkIssues:      r.LinkIssues,
		Moves:           r.Moves,
		Edited:          r.Edited,
		Start:           r.Start,
		End:             r.End,
		Errors:          make([]string, len(r.Errors)),
		Warnings:        make([]string, len(r.Warnings)),
		StageDurations:  make(map[string]time.Duration, len(r.StageDurations)),
		StageErrorKinds: make(map[string]string, len(r.StageErrorKinds)),
		StageCounts:     make(map[string]StageCount, len(r.StageCounts)),
		Outcome:         string(r.Outcome),
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	for k, v := range r.StageDurations {
		s.StageDurations[string(k)] = v
	}
	for k, v := range r.StageErrorKinds {
		s.StageErrorKinds[string(k)] = string(v)
	}
	for k, v := range r.StageCounts {
		s.StageCounts[string(k)] = v
	}
	return s
}

// BuildReportSerializable mirrors BuildReport with string errors for JSON output.
type BuildReportSerializable struct {
	SchemaVersion   int                      `json:"schema_version"`
	BuildID         string                   `json:"build_id"`
	DryRun          bool                     `json:"dry_run,omitempty"`
	Posts           int                      `json:"posts"`
	Drafts          int                      `json:"drafts"`
	Categories      int                      `json:"categories"`
	Collisions      int                      `json:"category_collisions"`
	Pages           int                      `json:"pages"`
	Feeds           int                      `json:"feeds"`
	Files           int                      `json:"files"`
	LinkIssues      int                      `json:"link_issues"`
	Moves           int                      `json:"moved_permalinks"`
	Edited          int                      `json:"edited_posts"`
	Start           time.Time                `json:"start"`
	End             time.Time                `json:"end"`
	Errors          []string                 `json:"errors"`
	Warnings        []string                 `json:"warnings"`
	StageDurations  map[string]time.Duration `json:"stage_durations"`
	StageErrorKinds map[string]string        `json:"stage_error_kinds"`
	StageCounts     map[string]StageCount    `json:"stage_counts"`
	Outcome         string                   `json:"outcome"`
}
