package mocks

import (
	"errors"

	"gptlink/internal/models"
)

// TranslatorMock echoes keys and records locale switches. Calls is shared
// with other mocks to check ordering.
type TranslatorMock struct {
	Lang    models.Language
	Fail    bool
	Locales []models.Language
	Calls   *[]string
}

func (m *TranslatorMock) SetLocale(language models.Language) error {
	if m.Fail {
		return errors.New("locale switch failed")
	}
	m.Lang = language
	m.Locales = append(m.Locales, language)
	if m.Calls != nil {
		*m.Calls = append(*m.Calls, "locale:"+string(language))
	}
	return nil
}

func (m *TranslatorMock) Locale() models.Language { return m.Lang }

func (m *TranslatorMock) T(key string) string { return key }
