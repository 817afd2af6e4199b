package generator

import (
	"context"

	"github.com/shouni/gemini-image-gallery/pkg/domain"
)

// Service は外部の画像生成サービスを表すインターフェースです。
//
// 戻り値の error は通信レベルの失敗（ネットワーク断など）を表します。
// サービスが明示的に返した失敗は GenerationResponse.Error で表現します。
type Service interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error)
}

// ServiceFunc は関数を Service として扱うためのアダプターです。
type ServiceFunc func(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error)

func (f ServiceFunc) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error) {
	return f(ctx, req)
}
