package generator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shouni/gemini-image-gallery/pkg/domain"
	"github.com/shouni/gemini-image-gallery/pkg/gallery"
	"github.com/shouni/gemini-image-gallery/pkg/notify"
	"github.com/shouni/gemini-image-gallery/pkg/prompt"
)

// Lifecycle は1セッション分のプロンプト、ビジーフラグ、ギャラリーを束ね、
// Idle → Requesting → Idle の遷移を管理します。
// 同時に実行中の生成リクエストは常に高々1件です。
type Lifecycle struct {
	mu       sync.Mutex
	state    State
	input    *prompt.Controller
	store    *gallery.Store
	service  Service
	reporter notify.Reporter
	timeout  time.Duration
	now      func() time.Time
	newID    func() string
}

// Option は Lifecycle の任意設定です。
type Option func(*Lifecycle)

// WithTimeout は1回の生成呼び出しに期限を設けます。0 以下なら期限なしです。
func WithTimeout(d time.Duration) Option {
	return func(l *Lifecycle) { l.timeout = d }
}

// WithClock はレコードのタイムスタンプに使う時計を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(l *Lifecycle) { l.now = now }
}

// WithIDGenerator はレコードIDの生成方法を差し替えます。
func WithIDGenerator(newID func() string) Option {
	return func(l *Lifecycle) { l.newID = newID }
}

// NewLifecycle は依存関係を注入して Lifecycle を初期化します。
func NewLifecycle(input *prompt.Controller, store *gallery.Store, service Service, reporter notify.Reporter, opts ...Option) (*Lifecycle, error) {
	if input == nil {
		return nil, fmt.Errorf("input is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if service == nil {
		return nil, fmt.Errorf("service is required")
	}
	if reporter == nil {
		return nil, fmt.Errorf("reporter is required")
	}

	l := &Lifecycle{
		state:    StateIdle,
		input:    input,
		store:    store,
		service:  service,
		reporter: reporter,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// State は現在の状態を返します。
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Busy はリクエスト中であれば true を返します。
func (l *Lifecycle) Busy() bool {
	return l.State() == StateRequesting
}

// Input はセッションのプロンプトを返します。
func (l *Lifecycle) Input() *prompt.Controller {
	return l.input
}

// Store はセッションのギャラリーを返します。
func (l *Lifecycle) Store() *gallery.Store {
	return l.store
}

// Begin は送信を受け付けて Requesting へ遷移し、送信する要求を返します。
//
// リクエスト中であれば何もせず ErrBusy を返します。
// プロンプトが空白のみであれば検証エラーを通知して ErrEmptyPrompt を返し、状態は変えません。
func (l *Lifecycle) Begin() (domain.GenerationRequest, error) {
	l.mu.Lock()
	if l.state == StateRequesting {
		l.mu.Unlock()
		return domain.GenerationRequest{}, ErrBusy
	}

	text := l.input.Text()
	if !prompt.Validate(text) {
		l.mu.Unlock()
		l.reporter.Error(prompt.MsgEmptyPrompt)
		return domain.GenerationRequest{}, ErrEmptyPrompt
	}

	l.state = StateRequesting
	l.mu.Unlock()
	return domain.GenerationRequest{Prompt: text}, nil
}

// Invoke は外部サービスを呼び出します。
// サービス内の panic は回収し、通信レベルの失敗として error で返します。
func (l *Lifecycle) Invoke(ctx context.Context, req domain.GenerationRequest) (resp *domain.GenerationResponse, err error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = fmt.Errorf("panic during generation: %v", r)
		}
	}()

	return l.service.Generate(ctx, req)
}

// Finish は呼び出し結果を解釈して終端遷移を1つ適用し、必ず Idle に戻します。
//
// 成功時は新しいレコードを返します。失敗時は *ApplicationError または
// *TransportFault を返し、プロンプトとギャラリーは変更しません。
func (l *Lifecycle) Finish(ctx context.Context, req domain.GenerationRequest, resp *domain.GenerationResponse, callErr error) (*domain.GeneratedImage, error) {
	rec, report, err := l.settle(ctx, req, resp, callErr)
	// 通知はロックを解放してから行う
	report()
	return rec, err
}

// settle はロックを保持したまま状態を確定し、送るべき通知を返します。
func (l *Lifecycle) settle(ctx context.Context, req domain.GenerationRequest, resp *domain.GenerationResponse, callErr error) (*domain.GeneratedImage, func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer func() { l.state = StateIdle }()

	if callErr != nil {
		slog.ErrorContext(ctx, "画像生成の呼び出しに失敗しました", "error", callErr)
		return nil, func() { l.reporter.Error(MsgUnexpectedError) }, &TransportFault{Err: callErr}
	}

	if resp != nil && resp.Error != nil {
		msg := resp.Error.Message
		if msg == "" {
			msg = MsgGenerateFailed
		}
		slog.ErrorContext(ctx, "画像生成サービスがエラーを返しました", "message", resp.Error.Message)
		return nil, func() { l.reporter.Error(msg) }, &ApplicationError{Message: msg}
	}

	if resp == nil || resp.ImageURL == "" {
		slog.WarnContext(ctx, "画像URLが含まれない応答を受信しました")
		return nil, func() { l.reporter.Error(MsgNoImageURL) }, &ApplicationError{Message: MsgNoImageURL}
	}

	rec := domain.GeneratedImage{
		ID:        l.newID(),
		URL:       resp.ImageURL,
		Prompt:    req.Prompt,
		Timestamp: l.now().UnixMilli(),
	}
	l.store.Prepend(rec)
	l.input.Clear()

	slog.InfoContext(ctx, "画像を生成しました", "id", rec.ID, "url", rec.URL)
	return &rec, func() { l.reporter.Success(MsgGenerated) }, nil
}

// Submit は Begin、Invoke、Finish を順に実行します。
// どの経路で終わってもビジーフラグは解除されます。
func (l *Lifecycle) Submit(ctx context.Context) (*domain.GeneratedImage, error) {
	req, err := l.Begin()
	if err != nil {
		return nil, err
	}

	resp, callErr := l.Invoke(ctx, req)
	return l.Finish(ctx, req, resp, callErr)
}
