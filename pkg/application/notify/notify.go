// Package notify carries the "fire a user-facing notification" contract.
// How notifications are rendered (toasts, console, TUI) is a presentation
// concern outside this module.
package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

// Notifier receives user-facing, non-blocking notifications.
type Notifier interface {
	Success(msg string)
	Warning(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to a structured log.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

var _ Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) Success(msg string) {
	n.log.Info().Str("kind", "success").Msg(msg)
}

func (n *LogNotifier) Warning(msg string) {
	n.log.Warn().Str("kind", "warning").Msg(msg)
}

func (n *LogNotifier) Error(msg string) {
	n.log.Error().Str("kind", "error").Msg(msg)
}

// Level classifies a recorded notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelWarning
	LevelError
)

// String method for Level enum
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "Unknown"
	}
}

// Notification is a recorded user-facing message.
type Notification struct {
	Level   Level
	Message string
}

// Recorder captures notifications for inspection in tests.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

var _ Notifier = (*Recorder)(nil)

func (r *Recorder) Success(msg string) { r.record(LevelSuccess, msg) }
func (r *Recorder) Warning(msg string) { r.record(LevelWarning, msg) }
func (r *Recorder) Error(msg string)   { r.record(LevelError, msg) }

func (r *Recorder) record(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{Level: level, Message: msg})
}

// All returns a snapshot of recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// ByLevel returns recorded notifications of one level.
func (r *Recorder) ByLevel(level Level) []Notification {
	var out []Notification
	for _, n := range r.All() {
		if n.Level == level {
			out = append(out, n)
		}
	}
	return out
}
