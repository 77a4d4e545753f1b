package mocks

import (
	"context"
	"sync"
)

// KVRepositoryMock keeps values in memory unless a *Func override is set.
type KVRepositoryMock struct {
	GetFunc    func(ctx context.Context, key string) ([]byte, bool, error)
	SetFunc    func(ctx context.Context, key string, value []byte) error
	DeleteFunc func(ctx context.Context, key string) error

	mu     sync.Mutex
	Data   map[string][]byte
	Writes int
}

func (m *KVRepositoryMock) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Data[key]
	return v, ok, nil
}

func (m *KVRepositoryMock) Set(ctx context.Context, key string, value []byte) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Data == nil {
		m.Data = make(map[string][]byte)
	}
	m.Data[key] = append([]byte(nil), value...)
	m.Writes++
	return nil
}

func (m *KVRepositoryMock) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	return nil
}
