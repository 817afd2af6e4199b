package tui

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shouni/gemini-image-gallery/pkg/domain"
)

// --- Mocks ---

type mockService struct {
	calls atomic.Int32
	resp  *domain.GenerationResponse
	err   error
}

func (m *mockService) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error) {
	m.calls.Add(1)
	return m.resp, m.err
}

type downloadCall struct {
	url    string
	prompt string
}

type mockDownloader struct {
	mu    sync.Mutex
	calls []downloadCall
}

func (m *mockDownloader) Export(ctx context.Context, url, prompt string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, downloadCall{url: url, prompt: prompt})
	return prompt + ".png"
}

func (m *mockDownloader) Calls() []downloadCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]downloadCall(nil), m.calls...)
}
