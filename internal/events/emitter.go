package events

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Emit delivers an event to the frontend. It is a no-op until
// EnableRuntimeEmitter or SetCustomEmitter is called.
var Emit = func(ctx context.Context, evt Event) {}

// WindowTheme switches the native window chrome. No-op outside Wails.
var WindowTheme = func(ctx context.Context, dark bool) {}

// OpenURL opens an external link in the system browser. No-op outside Wails.
var OpenURL = func(ctx context.Context, url string) {}

func EnableRuntimeEmitter() {
	Emit = func(ctx context.Context, evt Event) {
		if !hasWindow(ctx) {
			return
		}
		runtime.EventsEmit(ctx, evt.Name, evt)
	}
	WindowTheme = func(ctx context.Context, dark bool) {
		if !hasWindow(ctx) {
			return
		}
		if dark {
			runtime.WindowSetDarkTheme(ctx)
		} else {
			runtime.WindowSetLightTheme(ctx)
		}
	}
	OpenURL = func(ctx context.Context, url string) {
		if !hasWindow(ctx) {
			return
		}
		runtime.BrowserOpenURL(ctx, url)
	}
}

// SetCustomEmitter routes events to f. Passing nil restores the no-op.
func SetCustomEmitter(f func(ctx context.Context, evt Event)) {
	if f == nil {
		Emit = func(context.Context, Event) {}
		return
	}
	Emit = f
}
