package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"gptlink/internal/logging"
	"gptlink/internal/models"
	"gptlink/internal/repositories"
)

type SessionService interface {
	Startup(ctx context.Context) error
	IsLogin() bool
	UserInfo() models.UserInfo
	SignIn(token, nickname, avatar string) (*models.UserInfo, error)
	SignOut() error
}

type sessionService struct {
	users   repositories.UserRepository
	keyring *KeyringService
	logger  *log.Logger
	ctx     context.Context

	mu    sync.RWMutex
	token string
	user  models.UserInfo
}

func NewSessionService(users repositories.UserRepository, keyring *KeyringService, logger *log.Logger) SessionService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &sessionService{users: users, keyring: keyring, logger: logger, ctx: context.Background()}
}

// Startup restores the previous session when both the token and the cached
// profile survive.
func (s *sessionService) Startup(ctx context.Context) error {
	if ctx != nil {
		s.ctx = ctx
	}
	token, err := s.keyring.Token()
	if err != nil {
		return fmt.Errorf("read session token: %w", err)
	}
	u, err := s.users.Current(s.ctx)
	if err != nil {
		return fmt.Errorf("read user profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" || u == nil {
		s.token = ""
		s.user = models.UserInfo{}
		return nil
	}
	s.token = token
	s.user = models.UserInfo{Nickname: u.Nickname, Avatar: u.AvatarURL}
	s.logger.Debug("session restored", "nickname", u.Nickname)
	return nil
}

func (s *sessionService) IsLogin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *sessionService) UserInfo() models.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *sessionService) SignIn(token, nickname, avatar string) (*models.UserInfo, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("token is required")
	}
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, errors.New("nickname is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.keyring.StoreToken(token); err != nil {
		return nil, fmt.Errorf("store session token: %w", err)
	}
	if err := s.users.Save(s.ctx, &models.User{Nickname: nickname, AvatarURL: avatar}); err != nil {
		return nil, fmt.Errorf("save user profile: %w", err)
	}
	s.token = token
	s.user = models.UserInfo{Nickname: nickname, Avatar: avatar}
	s.logger.Info("signed in", "nickname", nickname)
	info := s.user
	return &info, nil
}

// SignOut clears the in-memory session before touching storage.
func (s *sessionService) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = models.UserInfo{}

	if err := s.keyring.DeleteToken(); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	if err := s.users.Clear(s.ctx); err != nil {
		return fmt.Errorf("clear user profile: %w", err)
	}
	s.logger.Info("signed out")
	return nil
}
