package mocks

import (
	"context"
	"sync"

	"gptlink/internal/models"
)

// EnvironmentMock records the side effects the preference store applies.
type EnvironmentMock struct {
	mu         sync.Mutex
	SystemDark bool
	DarkCalls  []bool
	Changes    []models.Preferences
}

func (m *EnvironmentMock) SystemPrefersDark() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SystemDark
}

func (m *EnvironmentMock) SetSystemDark(dark bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SystemDark = dark
}

func (m *EnvironmentMock) SetDarkMode(ctx context.Context, dark bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DarkCalls = append(m.DarkCalls, dark)
}

func (m *EnvironmentMock) PreferencesChanged(ctx context.Context, prefs models.Preferences) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Changes = append(m.Changes, prefs)
}

// LastDark returns the most recent marker, and false when none was applied.
func (m *EnvironmentMock) LastDark() (dark bool, applied bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.DarkCalls) == 0 {
		return false, false
	}
	return m.DarkCalls[len(m.DarkCalls)-1], true
}
