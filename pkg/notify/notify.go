package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Kind は通知の種類です。
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notification はユーザーに表示する一時的な通知です。
type Notification struct {
	Kind    Kind
	Message string
	At      time.Time
}

// Expired は ttl を過ぎていれば true を返します。
func (n Notification) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(n.At) >= ttl
}

// Reporter は処理結果をユーザーへ通知する窓口です。
// 呼び出し側をブロックしない fire-and-forget を前提とします。
type Reporter interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Feed はチャネル経由で通知を受け渡す Reporter です。
// バッファが溢れた場合、通知は破棄されます。
type Feed struct {
	ch  chan Notification
	now func() time.Time
}

// NewFeed はバッファサイズ size の Feed を生成します。
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = 1
	}
	return &Feed{ch: make(chan Notification, size), now: time.Now}
}

func (f *Feed) Success(msg string) { f.push(KindSuccess, msg) }
func (f *Feed) Error(msg string)   { f.push(KindError, msg) }
func (f *Feed) Info(msg string)    { f.push(KindInfo, msg) }

func (f *Feed) push(kind Kind, msg string) {
	n := Notification{Kind: kind, Message: msg, At: f.now()}
	select {
	case f.ch <- n:
	default:
		slog.Warn("通知バッファが満杯のため破棄しました", "kind", kind, "message", msg)
	}
}

// C は通知を受け取るためのチャネルを返します。
func (f *Feed) C() <-chan Notification {
	return f.ch
}

// Drain はバッファ済みの通知をブロックせずにすべて取り出します。
func (f *Feed) Drain() []Notification {
	var out []Notification
	for {
		select {
		case n := <-f.ch:
			out = append(out, n)
		default:
			return out
		}
	}
}

// Recorder は受け取った通知を順に記録する Reporter です。
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Success(msg string) { r.add(KindSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(KindError, msg) }
func (r *Recorder) Info(msg string)    { r.add(KindInfo, msg) }

func (r *Recorder) add(kind Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Kind: kind, Message: msg, At: time.Now()})
}

// All は記録済みの通知のコピーを返します。
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last は最後の通知を返します。
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// LogReporter は通知を slog に書き出します。
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter は logger が nil の場合 slog.Default を使います。
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger}
}

func (l *LogReporter) Success(msg string) { l.log(slog.LevelInfo, KindSuccess, msg) }
func (l *LogReporter) Error(msg string)   { l.log(slog.LevelWarn, KindError, msg) }
func (l *LogReporter) Info(msg string)    { l.log(slog.LevelInfo, KindInfo, msg) }

func (l *LogReporter) log(level slog.Level, kind Kind, msg string) {
	l.logger.Log(context.Background(), level, "notification", "kind", kind, "message", msg)
}

// WriterReporter は通知を1行ずつ w に書き出します。CLI 向けです。
type WriterReporter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

func (w *WriterReporter) Success(msg string) { w.write(KindSuccess, msg) }
func (w *WriterReporter) Error(msg string)   { w.write(KindError, msg) }
func (w *WriterReporter) Info(msg string)    { w.write(KindInfo, msg) }

func (w *WriterReporter) write(kind Kind, msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.w, "[%s] %s\n", kind, msg)
}

// Multi は複数の Reporter に同じ通知を配ります。
type Multi []Reporter

func (m Multi) Success(msg string) {
	for _, r := range m {
		r.Success(msg)
	}
}

func (m Multi) Error(msg string) {
	for _, r := range m {
		r.Error(msg)
	}
}

func (m Multi) Info(msg string) {
	for _, r := range m {
		r.Info(msg)
	}
}
