// Package i18n holds the label catalog used by the header.
package i18n

import (
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"gptlink/internal/models"
)

var tags = map[models.Language]language.Tag{
	models.LanguageZH: language.Chinese,
	models.LanguageEN: language.English,
}

var messages = map[string]map[models.Language]string{
	"light":          {models.LanguageZH: "浅色", models.LanguageEN: "Light"},
	"dark":           {models.LanguageZH: "深色", models.LanguageEN: "Dark"},
	"system":         {models.LanguageZH: "跟随系统", models.LanguageEN: "System"},
	"zh":             {models.LanguageZH: "简体中文", models.LanguageEN: "简体中文"},
	"en":             {models.LanguageZH: "English", models.LanguageEN: "English"},
	"user center":    {models.LanguageZH: "个人中心", models.LanguageEN: "User center"},
	"billing center": {models.LanguageZH: "计费中心", models.LanguageEN: "Billing center"},
	"sign out":       {models.LanguageZH: "退出登录", models.LanguageEN: "Sign out"},
	"sign in":        {models.LanguageZH: "去登录", models.LanguageEN: "Sign in"},
	"select model":   {models.LanguageZH: "请选择模型", models.LanguageEN: "Select a model"},
}

// Translator resolves labels for the active locale.
type Translator struct {
	mu      sync.RWMutex
	lang    models.Language
	printer *message.Printer
	cat     *catalog.Builder
}

// New builds the catalog and activates Chinese.
func New() *Translator {
	cat := catalog.NewBuilder(catalog.Fallback(language.Chinese))
	for key, byLang := range messages {
		for lang, msg := range byLang {
			// SetString only fails for malformed messages; the table above is static.
			_ = cat.SetString(tags[lang], key, msg)
		}
	}
	t := &Translator{cat: cat}
	t.activate(models.LanguageZH)
	return t
}

func (t *Translator) activate(lang models.Language) {
	t.lang = lang
	t.printer = message.NewPrinter(tags[lang], message.Catalog(t.cat))
}

// SetLocale switches the active locale.
func (t *Translator) SetLocale(lang models.Language) error {
	if _, ok := tags[lang]; !ok {
		return fmt.Errorf("unsupported locale %q", lang)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activate(lang)
	return nil
}

func (t *Translator) Locale() models.Language {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lang
}

// T returns the label for key, or key itself when the catalog has none.
func (t *Translator) T(key string) string {
	t.mu.RLock()
	p := t.printer
	t.mu.RUnlock()
	if _, ok := messages[key]; !ok {
		return key
	}
	return p.Sprintf(key)
}
