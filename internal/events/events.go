package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	PreferencesChanged = "preferences:changed"
	ThemeApply         = "theme:apply"
	LocaleChanged      = "locale:changed"
	Navigate           = "navigate"
)

// Event is the envelope every backend notification is wrapped in.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ThemeEvent tells the frontend which marker the document root carries.
type ThemeEvent struct {
	Dark bool `json:"dark"`
}

type LocaleEvent struct {
	Language string `json:"language"`
}

type NavigateEvent struct {
	Path string `json:"path"`
}

func New(name string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Name:      name,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

type contextKey string

const windowContextKey contextKey = "gptlink/events/window"

// WithWindow marks ctx as belonging to a live Wails window. The runtime
// emitter ignores contexts without the mark.
func WithWindow(ctx context.Context) context.Context {
	return context.WithValue(ctx, windowContextKey, true)
}

func hasWindow(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(windowContextKey).(bool)
	return v
}
