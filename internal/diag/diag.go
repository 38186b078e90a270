// Package diag carries structured diagnostics out of the ingestion pipeline.
// Stages report events through a Reporter instead of printing, so failures
// can be inspected programmatically and logged consistently.
package diag

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Severity classifies an event.
type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Stage identifies the pipeline stage that produced an event.
type Stage string

const (
	StageScan      Stage = "scan"
	StageTokenize  Stage = "tokenize"
	StageLimits    Stage = "limits"
	StageExtract   Stage = "extract"
	StageNormalize Stage = "normalize"
	StageClean     Stage = "clean"
	StageStats     Stage = "stats"
	StageExport    Stage = "export"
)

// Event is one diagnostic record: which stage, which file, which parameter
// (both optional), and what happened.
type Event struct {
	Stage    Stage
	File     string
	Param    string
	Severity Severity
	Message  string
}

// Reporter collects events and mirrors them to a zap logger. The zero value
// is not usable; construct with NewReporter. Safe for concurrent use.
type Reporter struct {
	mu     sync.Mutex
	events []Event
	log    *zap.Logger
}

// NewReporter wraps the given logger. Pass zap.NewNop() in tests.
func NewReporter(log *zap.Logger) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reporter{log: log}
}

// Record stores the event and logs it at the level matching its severity.
func (r *Reporter) Record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()

	fields := []zap.Field{zap.String("stage", string(e.Stage))}
	if e.File != "" {
		fields = append(fields, zap.String("file", e.File))
	}
	if e.Param != "" {
		fields = append(fields, zap.String("param", e.Param))
	}
	switch e.Severity {
	case Error:
		r.log.Error(e.Message, fields...)
	case Warning:
		r.log.Warn(e.Message, fields...)
	default:
		r.log.Info(e.Message, fields...)
	}
}

// Infof records an informational event for a stage and file.
func (r *Reporter) Infof(stage Stage, file, format string, args ...any) {
	r.Record(Event{Stage: stage, File: file, Severity: Info, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a warning for a stage and file.
func (r *Reporter) Warnf(stage Stage, file, format string, args ...any) {
	r.Record(Event{Stage: stage, File: file, Severity: Warning, Message: fmt.Sprintf(format, args...)})
}

// Errorf records an error-severity event for a stage and file.
func (r *Reporter) Errorf(stage Stage, file, format string, args ...any) {
	r.Record(Event{Stage: stage, File: file, Severity: Error, Message: fmt.Sprintf(format, args...)})
}

// ParamWarnf records a warning scoped to one parameter.
func (r *Reporter) ParamWarnf(stage Stage, file, param, format string, args ...any) {
	r.Record(Event{Stage: stage, File: file, Param: param, Severity: Warning, Message: fmt.Sprintf(format, args...)})
}

// Events returns a copy of everything recorded so far.
func (r *Reporter) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// HasErrors reports whether any error-severity event was recorded.
func (r *Reporter) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Severity == Error {
			return true
		}
	}
	return false
}
