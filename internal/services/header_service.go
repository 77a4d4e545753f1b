package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"gptlink/internal/logging"
	"gptlink/internal/models"
)

const (
	RouteChat    = "/chat"
	RouteLogin   = "/login"
	RouteUser    = "/user"
	RouteBilling = "/billing"

	actionSignOut = "signout"
)

// Translator is the label lookup the header renders with.
type Translator interface {
	SetLocale(language models.Language) error
	Locale() models.Language
	T(key string) string
}

// Navigator moves the frontend router or opens external links.
type Navigator interface {
	Navigate(ctx context.Context, path string)
	Open(ctx context.Context, url string)
}

// ColorSchemeSignal holds the prefers-color-scheme value reported by the
// webview.
type ColorSchemeSignal interface {
	SystemPrefersDark() bool
	SetSystemDark(dark bool)
}

// LocaleNotifier is told after the active locale changed.
type LocaleNotifier func(ctx context.Context, language models.Language)

type HeaderDeps struct {
	Preferences    PreferenceService
	Models         ModelConfigService
	Session        SessionService
	Translator     Translator
	Navigator      Navigator
	Signal         ColorSchemeSignal
	LocaleChanged  LocaleNotifier
	RepositoryLink string
	Logger         *log.Logger
}

// HeaderService backs the header bar: theme, language and model pickers,
// the user menu and navigation. Its methods are bound to the frontend.
type HeaderService struct {
	ctx            context.Context
	prefs          PreferenceService
	models         ModelConfigService
	session        SessionService
	translator     Translator
	navigator      Navigator
	signal         ColorSchemeSignal
	localeChanged  LocaleNotifier
	repositoryLink string
	logger         *log.Logger
}

func NewHeaderService(deps HeaderDeps) *HeaderService {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	return &HeaderService{
		ctx:            context.Background(),
		prefs:          deps.Preferences,
		models:         deps.Models,
		session:        deps.Session,
		translator:     deps.Translator,
		navigator:      deps.Navigator,
		signal:         deps.Signal,
		localeChanged:  deps.LocaleChanged,
		repositoryLink: deps.RepositoryLink,
		logger:         deps.Logger,
	}
}

func (h *HeaderService) Startup(ctx context.Context) {
	if ctx != nil {
		h.ctx = ctx
	}
}

// Mount re-applies the stored theme, language and model so the dark
// marker and the active locale are in place after a full load.
func (h *HeaderService) Mount() (*models.Preferences, error) {
	current := h.prefs.Get()
	var errs []error
	if _, err := h.SelectTheme(string(current.Theme)); err != nil {
		errs = append(errs, err)
	}
	if _, err := h.SelectLanguage(string(current.Language)); err != nil {
		errs = append(errs, err)
	}
	// The stored model is re-applied through the store directly: it may be
	// one the selector disables, and mounting must not reject it.
	if _, err := h.prefs.SetModel(h.ctx, current.Model); err != nil {
		errs = append(errs, err)
	}
	prefs := h.prefs.Get()
	return &prefs, errors.Join(errs...)
}

func (h *HeaderService) SelectTheme(theme string) (*models.Preferences, error) {
	prefs, err := h.prefs.SetTheme(h.ctx, models.ThemeMode(theme))
	if err != nil {
		h.logger.Warn("select theme", "theme", theme, "error", err)
	}
	return &prefs, err
}

// SelectLanguage switches the translator before the store so no render
// pairs the new language with old labels.
func (h *HeaderService) SelectLanguage(language string) (*models.Preferences, error) {
	lang := models.Language(language)
	if !lang.Valid() {
		prefs := h.prefs.Get()
		return &prefs, fmt.Errorf("%w: language %q", ErrInvalidPreference, language)
	}
	if err := h.translator.SetLocale(lang); err != nil {
		prefs := h.prefs.Get()
		h.logger.Error("switch locale", "language", lang, "error", err)
		return &prefs, fmt.Errorf("%w: %v", ErrEnvironment, err)
	}
	if h.localeChanged != nil {
		h.localeChanged(h.ctx, lang)
	}
	prefs, err := h.prefs.SetLanguage(h.ctx, lang)
	return &prefs, err
}

// SelectModel refuses models the selector shows as disabled.
func (h *HeaderService) SelectModel(model string) (*models.Preferences, error) {
	m := models.ModelType(model)
	if !m.Valid() {
		prefs := h.prefs.Get()
		return &prefs, fmt.Errorf("%w: model %q", ErrInvalidPreference, model)
	}
	if !h.models.IsSelectable(m) {
		prefs := h.prefs.Get()
		return &prefs, fmt.Errorf("%w: %s", ErrModelDisabled, m)
	}
	prefs, err := h.prefs.SetModel(h.ctx, m)
	return &prefs, err
}

// ReportColorScheme records the OS color-scheme signal and re-applies the
// marker when the theme follows the system.
func (h *HeaderService) ReportColorScheme(dark bool) bool {
	if h.signal != nil {
		h.signal.SetSystemDark(dark)
	}
	if theme := h.prefs.Get().Theme; theme != models.ThemeSystem {
		return theme.IsDark(dark)
	}
	return h.prefs.ApplyEnvironment(h.ctx)
}

// SignOut ends the session and sends the user to the login page.
func (h *HeaderService) SignOut() error {
	if !h.session.IsLogin() {
		h.navigator.Navigate(h.ctx, RouteLogin)
		return ErrNotLoggedIn
	}
	err := h.session.SignOut()
	if err != nil {
		h.logger.Error("sign out", "error", err)
	}
	h.navigator.Navigate(h.ctx, RouteLogin)
	return err
}

func (h *HeaderService) Navigate(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	h.navigator.Navigate(h.ctx, path)
	return nil
}

func (h *HeaderService) OpenRepository() {
	if h.repositoryLink == "" {
		return
	}
	h.navigator.Open(h.ctx, h.repositoryLink)
}

// View builds the header projection for route. plain hides the navigation
// links and the user menu.
func (h *HeaderService) View(route string, plain bool) (*models.HeaderView, error) {
	prefs := h.prefs.Get()
	groups, err := h.models.ListModelGroups()
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	systemDark := false
	if h.signal != nil {
		systemDark = h.signal.SystemPrefersDark()
	}

	view := &models.HeaderView{
		AppName:        prefs.AppConfig.Name(),
		WebLogo:        prefs.AppConfig.WebLogo(),
		Plain:          plain,
		Themes:         h.themeOptions(prefs.Theme),
		Languages:      h.languageOptions(prefs.Language),
		ModelGroups:    groups,
		ModelHint:      h.translator.T("select model"),
		Preferences:    prefs,
		Dark:           prefs.Theme.IsDark(systemDark),
		RepositoryLink: h.repositoryLink,
		NavItems:       []models.NavItem{},
	}
	if !plain {
		view.NavItems = h.navItems(route)
		view.User = h.userMenu(prefs.AppConfig)
	}
	return view, nil
}

func (h *HeaderService) navItems(route string) []models.NavItem {
	items := []models.NavItem{
		{Path: strings.TrimPrefix(RouteUser, "/"), Name: h.translator.T("user center")},
		{Path: strings.TrimPrefix(RouteBilling, "/"), Name: h.translator.T("billing center")},
	}
	for i := range items {
		items[i].Active = strings.Contains(route, items[i].Path)
	}
	return items
}

func (h *HeaderService) themeOptions(current models.ThemeMode) []models.Option {
	opts := make([]models.Option, 0, len(models.ThemeModes))
	for _, t := range models.ThemeModes {
		opts = append(opts, models.Option{Value: string(t), Label: h.translator.T(string(t)), Selected: t == current})
	}
	return opts
}

func (h *HeaderService) languageOptions(current models.Language) []models.Option {
	opts := make([]models.Option, 0, len(models.Languages))
	for _, l := range models.Languages {
		opts = append(opts, models.Option{Value: string(l), Label: h.translator.T(string(l)), Selected: l == current})
	}
	return opts
}

func (h *HeaderService) userMenu(cfg models.AppConfig) models.UserMenu {
	if !h.session.IsLogin() {
		return models.UserMenu{
			Actions: []models.Option{{Value: RouteLogin, Label: h.translator.T("sign in")}},
		}
	}
	info := h.session.UserInfo()
	avatar := info.Avatar
	if avatar == "" {
		avatar = cfg.UserLogo()
	}
	initial := ""
	if r, size := utf8.DecodeRuneInString(info.Nickname); size > 0 && r != utf8.RuneError {
		initial = string(r)
	}
	return models.UserMenu{
		IsLogin:  true,
		Nickname: info.Nickname,
		Avatar:   avatar,
		Initial:  initial,
		Actions: []models.Option{
			{Value: RouteUser, Label: h.translator.T("user center")},
			{Value: actionSignOut, Label: h.translator.T("sign out")},
		},
	}
}
