package notice

import (
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// Notice is one emitted notice.
type Notice struct {
	ID       types.EventID
	Severity types.Severity
	Message  string
}

// Logger emits notices as structured log lines.
type Logger struct {
	log zerolog.Logger
}

var _ types.Emitter = (*Logger)(nil)

// NewLogger returns an emitter writing to log.
func NewLogger(log zerolog.Logger) *Logger {
	return &Logger{log: log.With().Str("component", "notice").Logger()}
}

// Emit logs the notice at the level matching its severity.
func (l *Logger) Emit(id types.EventID, severity types.Severity, message string) {
	var ev *zerolog.Event
	switch severity {
	case types.SeverityDebug:
		ev = l.log.Debug()
	case types.SeverityInfo:
		ev = l.log.Info()
	case types.SeverityCritical:
		ev = l.log.WithLevel(zerolog.FatalLevel)
	default:
		ev = l.log.Error()
	}
	ev.Uint16("event_id", uint16(id)).Str("severity", severity.String()).Msg(message)
}

// Recorder keeps every notice in memory.
type Recorder struct {
	Notices []Notice
}

var _ types.Emitter = (*Recorder)(nil)

// Emit records the notice.
func (r *Recorder) Emit(id types.EventID, severity types.Severity, message string) {
	r.Notices = append(r.Notices, Notice{ID: id, Severity: severity, Message: message})
}

// Count returns how many notices with id were recorded.
func (r *Recorder) Count(id types.EventID) int {
	n := 0
	for _, x := range r.Notices {
		if x.ID == id {
			n++
		}
	}
	return n
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (Notice, bool) {
	if len(r.Notices) == 0 {
		return Notice{}, false
	}
	return r.Notices[len(r.Notices)-1], true
}

// Reset discards all recorded notices.
func (r *Recorder) Reset() {
	r.Notices = nil
}

// Tee emits every notice to each of its emitters in order.
type Tee []types.Emitter

// Emit forwards the notice.
func (t Tee) Emit(id types.EventID, severity types.Severity, message string) {
	for _, e := range t {
		e.Emit(id, severity, message)
	}
}
