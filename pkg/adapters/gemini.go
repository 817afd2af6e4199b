package adapters

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"

	"github.com/shouni/gemini-image-gallery/pkg/domain"
)

// DefaultGeminiModel は画像生成に使う既定のモデル名です。
const DefaultGeminiModel = "gemini-2.5-flash-image"

// GenerativeModel は GeminiGenerator が必要とする Gemini クライアントの機能です。
type GenerativeModel interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// GeminiGenerator はリモート関数を介さず Gemini で直接画像を生成する Service 実装です。
// 生成した画像は AssetStore に保存し、その URL を返します。
type GeminiGenerator struct {
	aiClient    GenerativeModel
	assets      AssetStore
	model       string
	aspectRatio string
	seed        *int64
}

// GeminiOption は GeminiGenerator の任意設定です。
type GeminiOption func(*GeminiGenerator)

// WithAspectRatio は生成画像のアスペクト比を指定します。
func WithAspectRatio(ratio string) GeminiOption {
	return func(g *GeminiGenerator) { g.aspectRatio = ratio }
}

// WithSeed はシード値を固定します。nil でランダムです。
func WithSeed(seed *int64) GeminiOption {
	return func(g *GeminiGenerator) { g.seed = seed }
}

// NewGeminiGenerator は依存関係を注入して GeminiGenerator を初期化します。
func NewGeminiGenerator(aiClient GenerativeModel, assets AssetStore, model string, opts ...GeminiOption) (*GeminiGenerator, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient is required")
	}
	if assets == nil {
		return nil, fmt.Errorf("assets is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	g := &GeminiGenerator{aiClient: aiClient, assets: assets, model: model}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate はプロンプトから画像を生成し、保存先の URL を応答として返します。
func (g *GeminiGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error) {
	parts := []*genai.Part{{Text: req.Prompt}}
	opts := gemini.GenerateOptions{
		AspectRatio: g.aspectRatio,
		Seed:        g.seed,
	}

	slog.DebugContext(ctx, "Geminiに画像生成をリクエストします", "model", g.model)
	resp, err := g.aiClient.GenerateWithParts(ctx, g.model, parts, opts)
	if err != nil {
		return nil, fmt.Errorf("Gemini画像生成エラー: %w", err)
	}

	out, svcErr := parseImage(resp)
	if svcErr != nil {
		return &domain.GenerationResponse{Error: svcErr}, nil
	}
	if out == nil {
		return &domain.GenerationResponse{}, nil
	}

	url, err := g.assets.Put(ctx, out.Data, out.MimeType)
	if err != nil {
		return nil, fmt.Errorf("生成画像の保存に失敗しました: %w", err)
	}
	return &domain.GenerationResponse{ImageURL: url}, nil
}

// imageOutput は Gemini 応答から取り出した画像です。
type imageOutput struct {
	Data     []byte
	MimeType string
}

// parseImage は最初の候補 (Candidate) から画像パーツを探します。
// 安全フィルター等で止まった場合は ServiceError を、画像がなければ (nil, nil) を返します。
func parseImage(resp *gemini.Response) (*imageOutput, *domain.ServiceError) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return nil, &domain.ServiceError{Message: "No valid response from Gemini"}
	}

	candidate := resp.RawResponse.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &imageOutput{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}

	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return nil, &domain.ServiceError{Message: fmt.Sprintf("Image generation stopped (finish reason: %s)", candidate.FinishReason)}
	}
	return nil, nil
}

// seedToPtrInt32 は *int64 を SDK 用の *int32 に変換します。
// int32 の範囲を超える値は上位ビットが切り捨てられます。
func seedToPtrInt32(s *int64) *int32 {
	if s == nil {
		return nil
	}
	v := int32(*s)
	return &v
}
