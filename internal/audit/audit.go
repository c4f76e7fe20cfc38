// Package audit emits structured conversation lifecycle events. Events go to
// the process log stream; downstream collection is an operational concern.
package audit

import (
	"github.com/rs/zerolog"

	"github.com/altonotch/dilli/internal/model"
)

type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{log: log.With().Str("component", "audit").Logger()}
}

func (l *Logger) FlowStarted(userID string, kind model.FlowKind, sessionID string) {
	l.log.Info().
		Str("event", "flow_started").
		Str("user_id", userID).
		Str("kind", string(kind)).
		Str("session_id", sessionID).
		Msg("Flow started")
}

func (l *Logger) FlowCanceled(userID string, kind model.FlowKind, sessionID string, step model.Step) {
	l.log.Info().
		Str("event", "flow_canceled").
		Str("user_id", userID).
		Str("kind", string(kind)).
		Str("session_id", sessionID).
		Str("step", string(step)).
		Msg("Flow canceled")
}

func (l *Logger) FlowCompleted(userID string, kind model.FlowKind, sessionID string) {
	l.log.Info().
		Str("event", "flow_completed").
		Str("user_id", userID).
		Str("kind", string(kind)).
		Str("session_id", sessionID).
		Msg("Flow completed")
}

func (l *Logger) ReportMaterialized(userID, sessionID string, reportID int64) {
	l.log.Info().
		Str("event", "report_materialized").
		Str("user_id", userID).
		Str("session_id", sessionID).
		Int64("report_id", reportID).
		Msg("Price report materialized")
}

// MaterializeFailed records a persistence failure that was swallowed so the
// user still received a summary. These events are the reconciliation trail.
func (l *Logger) MaterializeFailed(userID, sessionID string, err error) {
	l.log.Error().
		Str("event", "materialize_failed").
		Str("user_id", userID).
		Str("session_id", sessionID).
		Err(err).
		Msg("Price report materialization failed")
}
