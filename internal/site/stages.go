package site

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying the stage and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}
func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// stageFailure classifies err as canceled when ctx is done, fatal otherwise.
func stageFailure(ctx context.Context, stage StageName, err error) *StageError {
	if ctx.Err() != nil {
		return newCanceledStageError(stage, ctx.Err())
	}
	return newFatalStageError(stage, err)
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal or canceled error.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := newCanceledStageError(st.Name, err)
			bs.recordStage(st.Name, 0, se)
			return se
		}

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		var se *StageError
		if err != nil && !errors.As(err, &se) {
			se = newFatalStageError(st.Name, err)
		}
		bs.recordStage(st.Name, dur, se)
		if se != nil && se.Kind != StageErrorWarning {
			return se
		}
	}
	return nil
}

func (bs *BuildState) recordStage(name StageName, dur time.Duration, se *StageError) {
	r := bs.Report
	r.StageDurations[name] = dur
	bs.recorder.ObserveStageDuration(string(name), dur)

	sc := r.StageCounts[name]
	result := metrics.ResultSuccess
	if se != nil {
		r.StageErrorKinds[name] = se.Kind
		switch se.Kind {
		case StageErrorWarning:
			sc.Warning++
			result = metrics.ResultWarning
			r.Warnings = append(r.Warnings, se)
		case StageErrorCanceled:
			sc.Canceled++
			result = metrics.ResultCanceled
			r.Errors = append(r.Errors, se)
		case StageErrorFatal:
			sc.Fatal++
			result = metrics.ResultFatal
			r.Errors = append(r.Errors, se)
		}
	} else {
		sc.Success++
	}
	r.StageCounts[name] = sc
	bs.recorder.IncStageResult(string(name), result)

	attrs := []any{logfields.Stage(string(name)), logfields.DurationMS(float64(dur.Microseconds()) / 1000)}
	if se != nil {
		attrs = append(attrs, logfields.Error(se))
	}
	bs.logger.Debug("Stage finished", attrs...)
}
