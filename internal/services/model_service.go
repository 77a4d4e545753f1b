package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"gptlink/internal/assets"
	"gptlink/internal/models"
	"gptlink/internal/repositories"
)

type ModelConfigService interface {
	Startup(ctx context.Context) error
	ListModelGroups() ([]models.LLMModelGroup, error)
	SetModelEnabled(modelKey string, enabled bool) (*models.LLMModel, error)
	SetProviderEnabled(provider string, enabled bool) ([]models.LLMModel, error)
	GetModel(modelKey string) (*models.LLMModel, error)
	IsSelectable(model models.ModelType) bool
}

type modelConfigService struct {
	repo    repositories.ModelSettingRepository
	catalog []byte
	ctx     context.Context

	mu            sync.RWMutex
	providerOrder []string
	providerNames map[string]string
	modelOrder    []models.ModelType
	models        map[models.ModelType]*catalogModel
	settings      map[models.ModelType]bool
}

type catalogModel struct {
	Key            models.ModelType
	ProviderID     string
	Provider       string
	DisplayName    string
	DefaultEnabled bool
}

type rawModelFile struct {
	Providers []rawProvider `json:"providers"`
}

type rawProvider struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	Models      []rawModel `json:"models"`
}

type rawModel struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Enabled     *bool  `json:"enabled,omitempty"`
}

// NewModelConfigService reads the embedded catalog.
func NewModelConfigService(repo repositories.ModelSettingRepository) ModelConfigService {
	return NewModelConfigServiceWithCatalog(repo, assets.ModelsData)
}

func NewModelConfigServiceWithCatalog(repo repositories.ModelSettingRepository, catalog []byte) ModelConfigService {
	return &modelConfigService{
		repo:          repo,
		catalog:       catalog,
		ctx:           context.Background(),
		models:        make(map[models.ModelType]*catalogModel),
		settings:      make(map[models.ModelType]bool),
		providerNames: make(map[string]string),
	}
}

func (s *modelConfigService) Startup(ctx context.Context) error {
	if ctx != nil {
		s.ctx = ctx
	}

	var parsed rawModelFile
	if err := json.Unmarshal(s.catalog, &parsed); err != nil {
		return fmt.Errorf("parse models asset: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.providerOrder = make([]string, 0, len(parsed.Providers))
	s.modelOrder = s.modelOrder[:0]
	for _, provider := range parsed.Providers {
		providerID := strings.TrimSpace(provider.ID)
		if providerID == "" {
			continue
		}
		providerName := strings.TrimSpace(provider.DisplayName)
		s.providerNames[providerID] = providerName
		s.providerOrder = append(s.providerOrder, providerID)
		for _, mdl := range provider.Models {
			key := models.ModelType(strings.TrimSpace(mdl.Key))
			if !key.Valid() {
				return fmt.Errorf("models asset: unknown model %q", mdl.Key)
			}
			enabled := true
			if mdl.Enabled != nil {
				enabled = *mdl.Enabled
			}
			s.models[key] = &catalogModel{
				Key:            key,
				ProviderID:     providerID,
				Provider:       providerName,
				DisplayName:    strings.TrimSpace(mdl.DisplayName),
				DefaultEnabled: enabled,
			}
			s.modelOrder = append(s.modelOrder, key)
		}
	}

	// Load existing settings and seed defaults
	existing, err := s.repo.List(s.ctx)
	if err != nil {
		return fmt.Errorf("load model settings: %w", err)
	}
	for _, setting := range existing {
		s.settings[models.ModelType(setting.ModelKey)] = setting.Enabled
	}
	for _, key := range s.modelOrder {
		def := s.models[key]
		if _, ok := s.settings[key]; !ok {
			if _, err := s.repo.Upsert(s.ctx, string(key), def.ProviderID, def.DefaultEnabled); err != nil {
				return fmt.Errorf("seed model setting for %s: %w", key, err)
			}
			s.settings[key] = def.DefaultEnabled
		}
	}

	return nil
}

// ListModelGroups keeps the catalog order, which is the order the selector
// shows.
func (s *modelConfigService) ListModelGroups() ([]models.LLMModelGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]models.LLMModelGroup, 0, len(s.providerOrder))
	for _, providerID := range s.providerOrder {
		group := models.LLMModelGroup{
			ProviderID:   providerID,
			ProviderName: s.providerName(providerID),
			Models:       []models.LLMModel{},
		}
		for _, key := range s.modelOrder {
			mdl := s.models[key]
			if mdl.ProviderID != providerID {
				continue
			}
			group.Models = append(group.Models, s.toLLMModel(mdl))
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (s *modelConfigService) SetModelEnabled(modelKey string, enabled bool) (*models.LLMModel, error) {
	key := models.ModelType(strings.TrimSpace(modelKey))
	if key == "" {
		return nil, fmt.Errorf("model key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, ok := s.models[key]
	if !ok {
		return nil, fmt.Errorf("model %s not found", key)
	}

	if _, err := s.repo.Upsert(s.ctx, string(key), catalog.ProviderID, enabled); err != nil {
		return nil, err
	}
	s.settings[key] = enabled
	model := s.toLLMModel(catalog)
	return &model, nil
}

func (s *modelConfigService) SetProviderEnabled(provider string, enabled bool) ([]models.LLMModel, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return nil, fmt.Errorf("provider is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.providerNames[provider]; !ok {
		return nil, fmt.Errorf("provider %s not found", provider)
	}
	if err := s.repo.SetProviderEnabled(s.ctx, provider, enabled); err != nil {
		return nil, err
	}

	updated := make([]models.LLMModel, 0)
	for _, key := range s.modelOrder {
		mdl := s.models[key]
		if mdl.ProviderID != provider {
			continue
		}
		s.settings[key] = enabled
		updated = append(updated, s.toLLMModel(mdl))
	}
	return updated, nil
}

func (s *modelConfigService) GetModel(modelKey string) (*models.LLMModel, error) {
	key := models.ModelType(strings.TrimSpace(modelKey))
	if key == "" {
		return nil, fmt.Errorf("model key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	catalog, ok := s.models[key]
	if !ok {
		return nil, fmt.Errorf("model %s not found", key)
	}
	model := s.toLLMModel(catalog)
	return &model, nil
}

// IsSelectable reports whether the selector lets users pick model. Models
// missing from the catalog are never selectable.
func (s *modelConfigService) IsSelectable(model models.ModelType) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.models[model]; !ok {
		return false
	}
	return s.settings[model]
}

func (s *modelConfigService) providerName(providerID string) string {
	if name, ok := s.providerNames[providerID]; ok && strings.TrimSpace(name) != "" {
		return name
	}
	return providerID
}

func (s *modelConfigService) toLLMModel(mdl *catalogModel) models.LLMModel {
	return models.LLMModel{
		Key:          mdl.Key,
		DisplayName:  mdl.DisplayName,
		ProviderID:   mdl.ProviderID,
		ProviderName: mdl.Provider,
		Enabled:      s.settings[mdl.Key],
	}
}
