package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gptlink/internal/models"
)

func captureEvents(t *testing.T) *[]Event {
	t.Helper()
	var got []Event
	SetCustomEmitter(func(ctx context.Context, evt Event) {
		got = append(got, evt)
	})
	t.Cleanup(func() { SetCustomEmitter(nil) })
	return &got
}

func TestEnvironment_SetDarkMode(t *testing.T) {
	got := captureEvents(t)
	env := NewEnvironment()

	env.SetDarkMode(context.Background(), true)
	assert.True(t, env.Dark())
	require.Len(t, *got, 1)
	assert.Equal(t, ThemeApply, (*got)[0].Name)
	assert.Equal(t, ThemeEvent{Dark: true}, (*got)[0].Payload)
	assert.NotEmpty(t, (*got)[0].ID)
}

func TestEnvironment_SystemSignal(t *testing.T) {
	env := NewEnvironment()
	assert.False(t, env.SystemPrefersDark())
	env.SetSystemDark(true)
	assert.True(t, env.SystemPrefersDark())
}

func TestEnvironment_PreferencesChanged(t *testing.T) {
	got := captureEvents(t)
	prefs := models.DefaultPreferences()

	NewEnvironment().PreferencesChanged(context.Background(), prefs)
	require.Len(t, *got, 1)
	assert.Equal(t, PreferencesChanged, (*got)[0].Name)
	assert.Equal(t, prefs, (*got)[0].Payload)
}

func TestNavigatorAndLocale(t *testing.T) {
	got := captureEvents(t)

	NewNavigator().Navigate(context.Background(), "/login")
	EmitLocaleChanged(context.Background(), models.LanguageEN)
	require.Len(t, *got, 2)
	assert.Equal(t, NavigateEvent{Path: "/login"}, (*got)[0].Payload)
	assert.Equal(t, LocaleEvent{Language: "en"}, (*got)[1].Payload)
}

func TestRuntimeEmitterIgnoresContextsWithoutWindow(t *testing.T) {
	EnableRuntimeEmitter()
	t.Cleanup(func() {
		SetCustomEmitter(nil)
		WindowTheme = func(context.Context, bool) {}
		OpenURL = func(context.Context, string) {}
	})

	// Would panic inside the Wails runtime if the window guard were missing.
	Emit(context.Background(), New(Navigate, NavigateEvent{Path: "/chat"}))
	WindowTheme(context.Background(), true)
	OpenURL(context.Background(), "https://example.com")
	assert.False(t, hasWindow(context.Background()))
	assert.True(t, hasWindow(WithWindow(context.Background())))
}
