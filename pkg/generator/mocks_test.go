package generator

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shouni/gemini-image-gallery/pkg/domain"
)

// --- Mocks ---

type mockService struct {
	calls    atomic.Int32
	mu       sync.Mutex
	requests []domain.GenerationRequest

	// 以下のいずれかで応答を決める
	resp      *domain.GenerationResponse
	err       error
	panicWith any

	// entered と release が設定されていれば、呼び出し中にブロックする
	entered chan struct{}
	release chan struct{}
}

func (m *mockService) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.entered != nil {
		close(m.entered)
	}
	if m.release != nil {
		<-m.release
	}
	if m.panicWith != nil {
		panic(m.panicWith)
	}
	return m.resp, m.err
}

func (m *mockService) lastRequest() domain.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[len(m.requests)-1]
}

// reentrantReporter は通知の中から Lifecycle を参照する Reporter です。
type reentrantReporter struct {
	lifecycle *Lifecycle
	mu        sync.Mutex
	busy      []bool
}

func (r *reentrantReporter) Success(msg string) { r.observe() }
func (r *reentrantReporter) Error(msg string)   { r.observe() }
func (r *reentrantReporter) Info(msg string)    { r.observe() }

func (r *reentrantReporter) observe() {
	busy := r.lifecycle.Busy()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.busy = append(r.busy, busy)
}

func (r *reentrantReporter) observed() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.busy...)
}
