package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shouni/gemini-image-gallery/pkg/domain"
	"github.com/shouni/gemini-image-gallery/pkg/generator"
	"github.com/shouni/gemini-image-gallery/pkg/notify"
)

// DefaultToastTTL は通知を自動で消すまでの既定時間です。
const DefaultToastTTL = 4 * time.Second

const maxToasts = 3

// Downloader はギャラリーの画像をローカルに書き出します。
// download.Exporter がこれを満たします。
type Downloader interface {
	Export(ctx context.Context, url, prompt string) string
}

type focus int

const (
	focusPrompt focus = iota
	focusGallery
)

type generatedMsg struct {
	req  domain.GenerationRequest
	resp *domain.GenerationResponse
	err  error
}

type downloadedMsg struct {
	name string
}

type notificationMsg notify.Notification

type pruneToastsMsg time.Time

// Model は1セッション分の画面状態です。
// 生成状態そのものは generator.Lifecycle が持ち、Model は描画と入力の仲介だけを行います。
type Model struct {
	ctx        context.Context
	lifecycle  *generator.Lifecycle
	downloader Downloader
	feed       *notify.Feed
	toastTTL   time.Duration

	input    textinput.Model
	spinner  spinner.Model
	focus    focus
	cursor   int
	offset   int // scroll offset
	toasts   []notify.Notification
	width    int
	height   int
	quitting bool
}

// Option は Model の任意設定です。
type Option func(*Model)

// WithToastTTL は通知の表示時間を変更します。
func WithToastTTL(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.toastTTL = d
		}
	}
}

// NewModel は依存関係を注入して Model を初期化します。
// feed は lifecycle と downloader が通知を送る先と同じものを渡してください。
func NewModel(ctx context.Context, lifecycle *generator.Lifecycle, downloader Downloader, feed *notify.Feed, opts ...Option) (Model, error) {
	if ctx == nil {
		return Model{}, fmt.Errorf("ctx is required")
	}
	if lifecycle == nil {
		return Model{}, fmt.Errorf("lifecycle is required")
	}
	if downloader == nil {
		return Model{}, fmt.Errorf("downloader is required")
	}
	if feed == nil {
		return Model{}, fmt.Errorf("feed is required")
	}

	ti := textinput.New()
	ti.Placeholder = "Describe the image you want to generate..."
	ti.CharLimit = 1000
	ti.SetValue(lifecycle.Input().Text())
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := Model{
		ctx:        ctx,
		lifecycle:  lifecycle,
		downloader: downloader,
		feed:       feed,
		toastTTL:   DefaultToastTTL,
		input:      ti,
		spinner:    s,
		width:      100,
		height:     30,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForNotification())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-8)
		m.clampOffset()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case generatedMsg:
		return m.finish(msg)

	case downloadedMsg:
		slog.DebugContext(m.ctx, "ダウンロード操作が完了しました", "file", msg.name)
		return m, nil

	case notificationMsg:
		m.toasts = append(m.toasts, notify.Notification(msg))
		if len(m.toasts) > maxToasts {
			m.toasts = m.toasts[len(m.toasts)-maxToasts:]
		}
		return m, tea.Batch(m.waitForNotification(), m.expireToasts())

	case pruneToastsMsg:
		m.pruneToasts(time.Time(msg))
		return m, nil

	case spinner.TickMsg:
		if !m.lifecycle.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// カーソル点滅
	if m.focus == focusPrompt && !m.lifecycle.Busy() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab", "shift+tab":
		if m.focus == focusPrompt {
			m.focus = focusGallery
			m.input.Blur()
			return m, nil
		}
		m.focus = focusPrompt
		if m.lifecycle.Busy() {
			return m, nil
		}
		return m, m.input.Focus()
	}

	if m.focus == focusGallery {
		return m.updateGallery(msg)
	}
	return m.updatePrompt(msg)
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		return m.submit()
	}

	// リクエスト中は入力を受け付けない
	if m.lifecycle.Busy() {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.lifecycle.Input().SetPrompt(m.input.Value())
	return m, cmd
}

func (m Model) updateGallery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.lifecycle.Store().Len()

	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}

	case "home", "g":
		m.cursor = 0

	case "end", "G":
		m.cursor = max(0, n-1)

	case "enter", "d":
		return m, m.download()
	}

	m.clampOffset()
	return m, nil
}

// submit はリクエストを開始し、生成処理を tea.Cmd として返します。
func (m Model) submit() (tea.Model, tea.Cmd) {
	req, err := m.lifecycle.Begin()
	if err != nil {
		// 空プロンプトの通知は Begin 側で送信済み。リクエスト中の再送信は無視する
		slog.DebugContext(m.ctx, "送信を受け付けませんでした", "error", err)
		return m, nil
	}

	m.input.Blur()
	return m, tea.Batch(m.spinner.Tick, m.generate(req))
}

func (m Model) generate(req domain.GenerationRequest) tea.Cmd {
	ctx, lc := m.ctx, m.lifecycle
	return func() tea.Msg {
		resp, err := lc.Invoke(ctx, req)
		return generatedMsg{req: req, resp: resp, err: err}
	}
}

func (m Model) finish(msg generatedMsg) (tea.Model, tea.Cmd) {
	if _, err := m.lifecycle.Finish(m.ctx, msg.req, msg.resp, msg.err); err == nil {
		m.cursor = 0
		m.offset = 0
	}
	m.input.SetValue(m.lifecycle.Input().Text())

	if m.focus != focusPrompt {
		return m, nil
	}
	return m, m.input.Focus()
}

func (m Model) download() tea.Cmd {
	rec, ok := m.lifecycle.Store().At(m.cursor)
	if !ok {
		return nil
	}
	ctx, d := m.ctx, m.downloader
	return func() tea.Msg {
		return downloadedMsg{name: d.Export(ctx, rec.URL, rec.Prompt)}
	}
}

func (m Model) waitForNotification() tea.Cmd {
	ctx, ch := m.ctx, m.feed.C()
	return func() tea.Msg {
		select {
		case n := <-ch:
			return notificationMsg(n)
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) expireToasts() tea.Cmd {
	return tea.Tick(m.toastTTL, func(t time.Time) tea.Msg {
		return pruneToastsMsg(t)
	})
}

func (m *Model) pruneToasts(now time.Time) {
	var kept []notify.Notification
	for _, n := range m.toasts {
		if !n.Expired(now, m.toastTTL) {
			kept = append(kept, n)
		}
	}
	m.toasts = kept
}

func (m Model) visibleRows() int {
	// タイトル、入力欄、通知、ヘルプを除いた行数
	rows := m.height - 6 - maxToasts
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) clampOffset() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// Toasts は表示中の通知を返します。
func (m Model) Toasts() []notify.Notification {
	return append([]notify.Notification(nil), m.toasts...)
}
