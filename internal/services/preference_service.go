package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"gptlink/internal/logging"
	"gptlink/internal/models"
	"gptlink/internal/repositories"
)

// Environment is where preference side effects land: the document's
// dark/light marker and change notifications for re-rendering.
type Environment interface {
	SystemPrefersDark() bool
	SetDarkMode(ctx context.Context, dark bool)
	PreferencesChanged(ctx context.Context, prefs models.Preferences)
}

type PreferenceService interface {
	Load(ctx context.Context) (models.Preferences, error)
	Get() models.Preferences
	SetTheme(ctx context.Context, theme models.ThemeMode) (models.Preferences, error)
	SetLanguage(ctx context.Context, language models.Language) (models.Preferences, error)
	SetModel(ctx context.Context, model models.ModelType) (models.Preferences, error)
	SetLoginType(ctx context.Context, loginType models.LoginType) (models.Preferences, error)
	SetAppConfig(ctx context.Context, cfg models.AppConfig) (models.Preferences, error)
	Reset(ctx context.Context) (models.Preferences, error)
	// ApplyEnvironment re-applies the dark/light marker for the current
	// state and reports whether dark mode is in effect.
	ApplyEnvironment(ctx context.Context) bool
}

type preferenceService struct {
	store  repositories.KVRepository
	env    Environment
	logger *log.Logger

	mu    sync.RWMutex
	state models.Preferences
}

func NewPreferenceService(store repositories.KVRepository, env Environment, logger *log.Logger) PreferenceService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &preferenceService{
		store:  store,
		env:    env,
		logger: logger,
		state:  models.DefaultPreferences(),
	}
}

// Load seeds the in-memory state from the persisted snapshot. Without a
// snapshot the defaults apply, adopting the language and model a previous
// install kept under separate keys.
func (s *preferenceService) Load(ctx context.Context) (models.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.store.Get(ctx, models.SnapshotKey)
	if err != nil {
		return s.state.Copy(), fmt.Errorf("%w: read snapshot: %v", ErrStorage, err)
	}
	if ok {
		prefs, err := models.DecodeSnapshot(data)
		if err != nil {
			s.logger.Warn("discarding unreadable preference snapshot", "error", err)
		} else {
			prefs, reset := prefs.Repair()
			s.state = prefs
			if len(reset) > 0 {
				s.logger.Warn("reset unknown preference values to defaults", "fields", reset)
				if err := s.persist(ctx); err != nil {
					return s.state.Copy(), err
				}
			}
			s.logger.Debug("preferences restored", "theme", prefs.Theme, "language", prefs.Language, "model", prefs.Model)
			return s.state.Copy(), nil
		}
	}

	s.state = models.DefaultPreferences()
	if migrated := s.adoptLegacyKeys(ctx); migrated {
		if err := s.persist(ctx); err != nil {
			return s.state.Copy(), err
		}
	}
	return s.state.Copy(), nil
}

func (s *preferenceService) adoptLegacyKeys(ctx context.Context) bool {
	migrated := false
	if raw, ok, err := s.store.Get(ctx, models.LegacyLanguageKey); err == nil && ok {
		if lang := models.Language(unquote(raw)); lang.Valid() {
			s.state = s.state.WithLanguage(lang)
			migrated = true
		}
	}
	if raw, ok, err := s.store.Get(ctx, models.LegacyModelKey); err == nil && ok {
		if model := models.ModelType(unquote(raw)); model.Valid() {
			s.state = s.state.WithModel(model)
			migrated = true
		}
	}
	if migrated {
		for _, key := range []string{models.LegacyLanguageKey, models.LegacyModelKey} {
			if err := s.store.Delete(ctx, key); err != nil {
				s.logger.Warn("could not remove legacy key", "key", key, "error", err)
			}
		}
		s.logger.Info("migrated legacy preference keys", "language", s.state.Language, "model", s.state.Model)
	}
	return migrated
}

// unquote accepts legacy values stored either as bare text or as JSON strings.
func unquote(raw []byte) string {
	if n := len(raw); n >= 2 && raw[0] == '"' && raw[n-1] == '"' {
		return string(raw[1 : n-1])
	}
	return string(raw)
}

func (s *preferenceService) Get() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Copy()
}

func (s *preferenceService) SetTheme(ctx context.Context, theme models.ThemeMode) (models.Preferences, error) {
	if !theme.Valid() {
		return s.Get(), fmt.Errorf("%w: theme %q", ErrInvalidPreference, theme)
	}
	return s.update(ctx, func(p models.Preferences) models.Preferences {
		return p.WithTheme(theme)
	}, true)
}

func (s *preferenceService) SetLanguage(ctx context.Context, language models.Language) (models.Preferences, error) {
	if !language.Valid() {
		return s.Get(), fmt.Errorf("%w: language %q", ErrInvalidPreference, language)
	}
	return s.update(ctx, func(p models.Preferences) models.Preferences {
		return p.WithLanguage(language)
	}, false)
}

// SetModel accepts every catalog member, including models the selector
// shows as disabled.
func (s *preferenceService) SetModel(ctx context.Context, model models.ModelType) (models.Preferences, error) {
	if !model.Valid() {
		return s.Get(), fmt.Errorf("%w: model %q", ErrInvalidPreference, model)
	}
	return s.update(ctx, func(p models.Preferences) models.Preferences {
		return p.WithModel(model)
	}, false)
}

func (s *preferenceService) SetLoginType(ctx context.Context, loginType models.LoginType) (models.Preferences, error) {
	if loginType == "" {
		return s.Get(), fmt.Errorf("%w: empty login type", ErrInvalidPreference)
	}
	return s.update(ctx, func(p models.Preferences) models.Preferences {
		return p.WithLoginType(loginType)
	}, false)
}

// SetAppConfig refuses blobs that could not be persisted, leaving the
// current configuration in place.
func (s *preferenceService) SetAppConfig(ctx context.Context, cfg models.AppConfig) (models.Preferences, error) {
	if err := cfg.Validate(); err != nil {
		return s.Get(), fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return s.update(ctx, func(p models.Preferences) models.Preferences {
		return p.WithAppConfig(cfg)
	}, false)
}

func (s *preferenceService) Reset(ctx context.Context) (models.Preferences, error) {
	return s.update(ctx, func(models.Preferences) models.Preferences {
		return models.DefaultPreferences()
	}, true)
}

func (s *preferenceService) ApplyEnvironment(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyTheme(ctx)
}

// update runs one transition under the write lock: the new state is
// committed, persisted and, when applyTheme is set, pushed to the
// environment before any reader sees it. A failed write leaves the new
// state in memory.
func (s *preferenceService) update(ctx context.Context, transition func(models.Preferences) models.Preferences, applyTheme bool) (models.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = transition(s.state)
	err := s.persist(ctx)
	if applyTheme {
		s.applyTheme(ctx)
	}
	if s.env != nil {
		s.env.PreferencesChanged(ctx, s.state.Copy())
	}
	return s.state.Copy(), err
}

func (s *preferenceService) persist(ctx context.Context) error {
	data, err := models.EncodeSnapshot(s.state)
	if err != nil {
		s.logger.Error("encode preferences", "error", err)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := s.store.Set(ctx, models.SnapshotKey, data); err != nil {
		s.logger.Error("persist preferences", "key", models.SnapshotKey, "error", err)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

func (s *preferenceService) applyTheme(ctx context.Context) bool {
	systemDark := false
	if s.env != nil {
		systemDark = s.env.SystemPrefersDark()
	}
	dark := s.state.Theme.IsDark(systemDark)
	if s.env != nil {
		s.env.SetDarkMode(ctx, dark)
	}
	return dark
}
