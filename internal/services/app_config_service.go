package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"gptlink/internal/logging"
	"gptlink/internal/models"
)

const appConfigPath = "/api/config"

// AppConfigService pulls the application configuration from the backend
// and hands it to the preference store.
type AppConfigService struct {
	baseURL string
	client  *http.Client
	prefs   PreferenceService
	logger  *log.Logger
	ctx     context.Context
}

func NewAppConfigService(baseURL string, client *http.Client, prefs PreferenceService, logger *log.Logger) *AppConfigService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &AppConfigService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		prefs:   prefs,
		logger:  logger,
		ctx:     context.Background(),
	}
}

func (s *AppConfigService) Startup(ctx context.Context) {
	if ctx != nil {
		s.ctx = ctx
	}
}

// Refresh fetches the configuration and stores it. On failure the last
// persisted configuration stays in effect.
func (s *AppConfigService) Refresh() (*models.Preferences, error) {
	cfg, err := s.Fetch(s.ctx)
	if err != nil {
		s.logger.Warn("keeping persisted app config", "error", err)
		return nil, err
	}
	prefs, err := s.prefs.SetAppConfig(s.ctx, cfg)
	if err != nil {
		return &prefs, err
	}
	s.logger.Info("app config refreshed", "name", cfg.Name(), "loginType", cfg.LoginType())
	return &prefs, nil
}

// Fetch accepts either a bare JSON object or one wrapped as {"data": {...}}.
func (s *AppConfigService) Fetch(ctx context.Context) (models.AppConfig, error) {
	if s.baseURL == "" {
		return nil, fmt.Errorf("%w: no api base configured", ErrConfig)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+appConfigPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrConfig, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrConfig, err)
	}
	return decodeAppConfig(body)
}

// decodeAppConfig unwraps {"code":..,"data":{..}} envelopes. A body with
// envelope keys must carry an object in data; anything else is a bare config.
func decodeAppConfig(body []byte) (models.AppConfig, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrConfig, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: empty config", ErrConfig)
	}

	payload := body
	data, hasData := fields["data"]
	_, hasCode := fields["code"]
	switch {
	case hasData:
		payload = data
	case hasCode:
		return nil, fmt.Errorf("%w: response envelope without data", ErrConfig)
	}

	cfg, err := models.DecodeAppConfig(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrConfig, err)
	}
	return cfg, nil
}
