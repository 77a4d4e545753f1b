package mocks

import (
	"context"

	"gptlink/internal/models"
)

type SessionServiceMock struct {
	LoggedIn    bool
	Info        models.UserInfo
	SignOutFunc func() error
	SignOuts    int
}

func (m *SessionServiceMock) Startup(ctx context.Context) error { return nil }

func (m *SessionServiceMock) IsLogin() bool { return m.LoggedIn }

func (m *SessionServiceMock) UserInfo() models.UserInfo { return m.Info }

func (m *SessionServiceMock) SignIn(token, nickname, avatar string) (*models.UserInfo, error) {
	m.LoggedIn = true
	m.Info = models.UserInfo{Nickname: nickname, Avatar: avatar}
	info := m.Info
	return &info, nil
}

func (m *SessionServiceMock) SignOut() error {
	m.SignOuts++
	m.LoggedIn = false
	m.Info = models.UserInfo{}
	if m.SignOutFunc != nil {
		return m.SignOutFunc()
	}
	return nil
}
