package events

import (
	"context"
	"sync"

	"gptlink/internal/models"
)

// Environment is the frontend side of the preference store: it remembers
// the OS color-scheme signal reported by the webview and pushes markers and
// state changes back to it.
type Environment struct {
	mu         sync.RWMutex
	systemDark bool
	dark       bool
}

func NewEnvironment() *Environment {
	return &Environment{}
}

func (e *Environment) SystemPrefersDark() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.systemDark
}

// SetSystemDark records the latest prefers-color-scheme signal.
func (e *Environment) SetSystemDark(dark bool) {
	e.mu.Lock()
	e.systemDark = dark
	e.mu.Unlock()
}

// Dark reports the marker most recently applied to the document.
func (e *Environment) Dark() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dark
}

func (e *Environment) SetDarkMode(ctx context.Context, dark bool) {
	e.mu.Lock()
	e.dark = dark
	e.mu.Unlock()

	WindowTheme(ctx, dark)
	Emit(ctx, New(ThemeApply, ThemeEvent{Dark: dark}))
}

func (e *Environment) PreferencesChanged(ctx context.Context, prefs models.Preferences) {
	Emit(ctx, New(PreferencesChanged, prefs))
}

// Navigator forwards route changes to the frontend router.
type Navigator struct{}

func NewNavigator() *Navigator {
	return &Navigator{}
}

func (Navigator) Navigate(ctx context.Context, path string) {
	Emit(ctx, New(Navigate, NavigateEvent{Path: path}))
}

func (Navigator) Open(ctx context.Context, url string) {
	OpenURL(ctx, url)
}

// EmitLocaleChanged notifies the frontend that label lookups changed.
func EmitLocaleChanged(ctx context.Context, language models.Language) {
	Emit(ctx, New(LocaleChanged, LocaleEvent{Language: string(language)}))
}
