package gallery

import (
	"sync"

	"github.com/shouni/gemini-image-gallery/pkg/domain"
)

// Layout はギャラリー領域に何を描画するかを表します。
type Layout int

const (
	// LayoutEmpty は空状態のプレースホルダーを表示します。
	LayoutEmpty Layout = iota
	// LayoutBusy は送信ボタンのビジー表示のみで、空状態メッセージは出しません。
	LayoutBusy
	// LayoutGallery は生成済み画像の一覧を表示します。
	LayoutGallery
)

// EmptyStateMessage は空状態のプレースホルダー文言です。
const EmptyStateMessage = "Your generated images will appear here"

// Store はセッション内の生成画像を新しい順に保持するインメモリストアです。
// レコードは先頭への追加のみで、変更・削除は行いません。
type Store struct {
	mu      sync.RWMutex
	records []domain.GeneratedImage // 挿入順。読み出し時に逆順にする
}

// NewStore は空の Store を生成します。
func NewStore() *Store {
	return &Store{}
}

// Prepend はレコードを先頭（最新）に追加します。
func (s *Store) Prepend(rec domain.GeneratedImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

// All は新しい順に並んだレコードのコピーを返します。
func (s *Store) All() []domain.GeneratedImage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.GeneratedImage, len(s.records))
	for i, rec := range s.records {
		out[len(s.records)-1-i] = rec
	}
	return out
}

// At は新しい順で i 番目のレコードを返します。
func (s *Store) At(i int) (domain.GeneratedImage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.records) {
		return domain.GeneratedImage{}, false
	}
	return s.records[len(s.records)-1-i], true
}

// Len はレコード数を返します。
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// LayoutFor はレコード数とリクエスト中かどうかから描画内容を決めます。
func LayoutFor(n int, requesting bool) Layout {
	switch {
	case n > 0:
		return LayoutGallery
	case requesting:
		return LayoutBusy
	default:
		return LayoutEmpty
	}
}
