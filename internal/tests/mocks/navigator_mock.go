package mocks

import "context"

type NavigatorMock struct {
	Paths  []string
	Opened []string
}

func (m *NavigatorMock) Navigate(ctx context.Context, path string) {
	m.Paths = append(m.Paths, path)
}

func (m *NavigatorMock) Open(ctx context.Context, url string) {
	m.Opened = append(m.Opened, url)
}
