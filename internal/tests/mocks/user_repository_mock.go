package mocks

import (
	"context"

	"gptlink/internal/models"
)

type UserRepositoryMock struct {
	CurrentFunc func(ctx context.Context) (*models.User, error)
	SaveFunc    func(ctx context.Context, u *models.User) error
	ClearFunc   func(ctx context.Context) error
}

func (m *UserRepositoryMock) Current(ctx context.Context) (*models.User, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx)
	}
	return nil, nil
}

func (m *UserRepositoryMock) Save(ctx context.Context, u *models.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, u)
	}
	return nil
}

func (m *UserRepositoryMock) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return nil
}
