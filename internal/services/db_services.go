package services

import (
	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"gptlink/internal/repositories"
)

// DbServices aggregates the services backed by the database.
type DbServices struct {
	Preferences  PreferenceService
	ModelConfigs ModelConfigService
	Sessions     SessionService
}

// NewDbServices constructs the service container using repositories backed by db.
func NewDbServices(db *gorm.DB, env Environment, keyring *KeyringService, logger *log.Logger) *DbServices {
	kvRepo := repositories.NewKVRepository(db)
	modelSettingRepo := repositories.NewModelSettingRepository(db)
	userRepo := repositories.NewUserRepository(db)

	return &DbServices{
		Preferences:  NewPreferenceService(kvRepo, env, logger.With("component", "preferences")),
		ModelConfigs: NewModelConfigService(modelSettingRepo),
		Sessions:     NewSessionService(userRepo, keyring, logger.With("component", "session")),
	}
}
