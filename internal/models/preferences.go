package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

type ThemeMode string

const (
	ThemeDark   ThemeMode = "dark"
	ThemeLight  ThemeMode = "light"
	ThemeSystem ThemeMode = "system"
)

// ThemeModes lists the theme options in menu order.
var ThemeModes = []ThemeMode{ThemeLight, ThemeDark, ThemeSystem}

func (t ThemeMode) Valid() bool {
	switch t {
	case ThemeDark, ThemeLight, ThemeSystem:
		return true
	}
	return false
}

// IsDark resolves the effective color scheme. systemDark is the OS signal
// and only matters for ThemeSystem.
func (t ThemeMode) IsDark(systemDark bool) bool {
	return t == ThemeDark || (t == ThemeSystem && systemDark)
}

type Language string

const (
	LanguageEN Language = "en"
	LanguageZH Language = "zh"
)

// Languages lists the language options in menu order.
var Languages = []Language{LanguageZH, LanguageEN}

func (l Language) Valid() bool {
	return l == LanguageEN || l == LanguageZH
}

type ModelType string

const (
	ModelGPT4        ModelType = "GPT-4"
	ModelGPT35       ModelType = "GPT-3.5"
	ModelChatGLMPro  ModelType = "ChatGLM-Pro"
	ModelChatGLMStd  ModelType = "ChatGLM-Std"
	ModelChatGLMLite ModelType = "ChatGLM-Lite"
)

var ModelTypes = []ModelType{ModelGPT4, ModelGPT35, ModelChatGLMPro, ModelChatGLMStd, ModelChatGLMLite}

func (m ModelType) Valid() bool {
	for _, known := range ModelTypes {
		if m == known {
			return true
		}
	}
	return false
}

// LoginType is the authentication channel advertised by the backend.
// Values come from configuration, so any non-empty string is accepted.
type LoginType string

const (
	LoginWechat LoginType = "wechat"
	LoginPhone  LoginType = "phone"
	LoginEmail  LoginType = "email"
)

// AppConfig is the configuration blob supplied by the backend. It is passed
// through untouched; only a handful of keys are read.
type AppConfig map[string]any

func (c AppConfig) str(key string) string {
	if c == nil {
		return ""
	}
	if v, ok := c[key].(string); ok {
		return v
	}
	return ""
}

func (c AppConfig) Name() string     { return c.str("name") }
func (c AppConfig) WebLogo() string  { return c.str("web_logo") }
func (c AppConfig) UserLogo() string { return c.str("user_logo") }

func (c AppConfig) LoginType() LoginType { return LoginType(c.str("login_type")) }

// Clone returns a deep copy so callers never share nested maps or slices
// with the store. Values keep their Go types.
func (c AppConfig) Clone() AppConfig {
	out := make(AppConfig, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case AppConfig:
		return t.Clone()
	case map[string]any:
		return map[string]any(AppConfig(t).Clone())
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Validate reports whether the blob can be persisted as JSON.
func (c AppConfig) Validate() error {
	if _, err := json.Marshal(c); err != nil {
		return fmt.Errorf("app config is not JSON encodable: %w", err)
	}
	return nil
}

// DecodeAppConfig parses a JSON object. Numbers are kept as json.Number so
// large integers survive a store and reload unchanged.
func DecodeAppConfig(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := decodeJSON(data, &cfg); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.New("app config must be a JSON object")
	}
	return cfg, nil
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// Preferences is the full preference record. Every With* method is a pure
// transition returning a new value.
type Preferences struct {
	Theme     ThemeMode `json:"theme" yaml:"theme"`
	Language  Language  `json:"language" yaml:"language"`
	LoginType LoginType `json:"loginType" yaml:"loginType"`
	AppConfig AppConfig `json:"appConfig" yaml:"appConfig"`
	Model     ModelType `json:"model" yaml:"model"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:     ThemeSystem,
		Language:  LanguageZH,
		LoginType: LoginWechat,
		AppConfig: AppConfig{},
		Model:     ModelGPT35,
	}
}

func (p Preferences) Copy() Preferences {
	p.AppConfig = p.AppConfig.Clone()
	return p
}

func (p Preferences) WithTheme(theme ThemeMode) Preferences {
	p.Theme = theme
	return p
}

func (p Preferences) WithLanguage(language Language) Preferences {
	p.Language = language
	return p
}

func (p Preferences) WithModel(model ModelType) Preferences {
	p.Model = model
	return p
}

func (p Preferences) WithLoginType(loginType LoginType) Preferences {
	p.LoginType = loginType
	return p
}

// WithAppConfig replaces the configuration and takes the login type from it.
func (p Preferences) WithAppConfig(cfg AppConfig) Preferences {
	p.AppConfig = cfg.Clone()
	p.LoginType = p.AppConfig.LoginType()
	return p
}

// PreferenceSnapshot is the persisted envelope stored under SnapshotKey.
type PreferenceSnapshot struct {
	State   Preferences `json:"state"`
	Version int         `json:"version"`
}

const (
	SnapshotKey       = "gptlink:config"
	SnapshotVersion   = 0
	LegacyLanguageKey = "language-mode"
	LegacyModelKey    = "model-mode"
)

func EncodeSnapshot(p Preferences) ([]byte, error) {
	data, err := json.Marshal(PreferenceSnapshot{State: p, Version: SnapshotVersion})
	if err != nil {
		return nil, fmt.Errorf("encode preference snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot restores preferences on top of the defaults, so fields
// missing from an older snapshot keep their default value.
func DecodeSnapshot(data []byte) (Preferences, error) {
	snap := PreferenceSnapshot{State: DefaultPreferences()}
	if err := decodeJSON(data, &snap); err != nil {
		return Preferences{}, fmt.Errorf("decode preference snapshot: %w", err)
	}
	if snap.State.AppConfig == nil {
		snap.State.AppConfig = AppConfig{}
	}
	return snap.State, nil
}

// Repair replaces enumeration fields holding unknown members with their
// defaults and returns the names of the fields it reset.
func (p Preferences) Repair() (Preferences, []string) {
	def := DefaultPreferences()
	var reset []string
	if !p.Theme.Valid() {
		p.Theme = def.Theme
		reset = append(reset, "theme")
	}
	if !p.Language.Valid() {
		p.Language = def.Language
		reset = append(reset, "language")
	}
	if !p.Model.Valid() {
		p.Model = def.Model
		reset = append(reset, "model")
	}
	if p.AppConfig == nil {
		p.AppConfig = AppConfig{}
	}
	return p, reset
}
