package models

type NavItem struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type UserMenu struct {
	IsLogin  bool     `json:"isLogin"`
	Nickname string   `json:"nickname"`
	Avatar   string   `json:"avatar"`
	Initial  string   `json:"initial"`
	Actions  []Option `json:"actions"`
}

// HeaderView is everything the header needs for one render.
type HeaderView struct {
	AppName        string          `json:"appName"`
	WebLogo        string          `json:"webLogo"`
	Plain          bool            `json:"plain"`
	NavItems       []NavItem       `json:"navItems"`
	Themes         []Option        `json:"themes"`
	Languages      []Option        `json:"languages"`
	ModelGroups    []LLMModelGroup `json:"modelGroups"`
	ModelHint      string          `json:"modelHint"`
	Preferences    Preferences     `json:"preferences"`
	Dark           bool            `json:"dark"`
	User           UserMenu        `json:"user"`
	RepositoryLink string          `json:"repositoryLink"`
}
