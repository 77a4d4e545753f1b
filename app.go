package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm/logger"

	"gptlink/internal/config"
	"gptlink/internal/database"
	"gptlink/internal/events"
	"gptlink/internal/i18n"
	"gptlink/internal/models"
	"gptlink/internal/services"
)

// App struct
type App struct {
	ctx        context.Context
	cfg        config.Config
	log        *log.Logger
	env        *events.Environment
	translator *i18n.Translator
	db         *services.DbServices
	header     *services.HeaderService
	appConfig  *services.AppConfigService
	dbClose    func() error
}

// NewApp creates a new App application struct
func NewApp(cfg config.Config, logger *log.Logger) *App {
	return &App{
		ctx:        context.Background(),
		cfg:        cfg,
		log:        logger,
		env:        events.NewEnvironment(),
		translator: i18n.New(),
	}
}

// init opens storage, wires the services and reads the preference snapshot
// so the first render already has the persisted values.
func (a *App) init() error {
	db, err := database.Init(database.Config{
		Path:     a.cfg.DBPath,
		LogLevel: logger.Warn,
		Logger:   a.log,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		a.dbClose = sqlDB.Close
	}

	ring, err := services.OpenKeyring(a.cfg.KeyringBackend)
	if err != nil {
		a.log.Warn("secret store unavailable, sessions will not survive restarts", "error", err)
		ring, _ = services.OpenKeyring("memory")
	}

	a.db = services.NewDbServices(db, a.env, services.NewKeyringService(ring), a.log)
	a.appConfig = services.NewAppConfigService(a.cfg.APIBase, nil, a.db.Preferences, a.log.With("component", "app-config"))
	a.header = services.NewHeaderService(services.HeaderDeps{
		Preferences:    a.db.Preferences,
		Models:         a.db.ModelConfigs,
		Session:        a.db.Sessions,
		Translator:     a.translator,
		Navigator:      events.NewNavigator(),
		Signal:         a.env,
		LocaleChanged:  events.EmitLocaleChanged,
		RepositoryLink: a.cfg.RepositoryLink,
		Logger:         a.log.With("component", "header"),
	})

	if err := a.db.ModelConfigs.Startup(a.ctx); err != nil {
		return err
	}
	if err := a.db.Sessions.Startup(a.ctx); err != nil {
		a.log.Warn("could not restore session", "error", err)
	}

	prefs, err := a.db.Preferences.Load(a.ctx)
	if err != nil {
		a.log.Error("failed to load preferences, using defaults", "error", err)
	}
	if err := a.translator.SetLocale(prefs.Language); err != nil {
		a.log.Warn("unsupported stored language", "language", prefs.Language, "error", err)
	}
	return nil
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = events.WithWindow(ctx)
	a.header.Startup(a.ctx)
	a.appConfig.Startup(a.ctx)
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			a.log.Error("failed to close database", "error", err)
		} else {
			a.log.Info("database closed")
		}
		a.dbClose = nil
	}
}

// Bootstrap is called by the frontend once the page is loaded: it refreshes
// the backend configuration, re-applies preferences and returns the first
// header view.
func (a *App) Bootstrap(route string, systemDark bool) (*models.HeaderView, error) {
	a.env.SetSystemDark(systemDark)
	if _, err := a.appConfig.Refresh(); err != nil && !errors.Is(err, services.ErrConfig) {
		a.log.Error("failed to store app config", "error", err)
	}
	if _, err := a.header.Mount(); err != nil {
		a.log.Error("failed to re-apply preferences", "error", err)
	}
	return a.header.View(route, false)
}

// GetPreferences returns the current preference record
func (a *App) GetPreferences() models.Preferences {
	return a.db.Preferences.Get()
}
