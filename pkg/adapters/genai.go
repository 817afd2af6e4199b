package adapters

import (
	"context"
	"fmt"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// ContentGenerator は genai.Client.Models が満たす生成 API です。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAIModel は genai SDK を GenerativeModel として扱うためのアダプターです。
type GenAIModel struct {
	models ContentGenerator
}

// NewGenAIModel は models (通常は client.Models) をラップします。
func NewGenAIModel(models ContentGenerator) (*GenAIModel, error) {
	if models == nil {
		return nil, fmt.Errorf("models is required")
	}
	return &GenAIModel{models: models}, nil
}

// NewGeminiAPIModel は API キーで Gemini API のクライアントを作成します。
func NewGeminiAPIModel(ctx context.Context, apiKey string) (*GenAIModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの作成に失敗しました: %w", err)
	}
	return NewGenAIModel(client.Models)
}

// GenerateWithParts は parts を1件のユーザー入力として送信します。
func (m *GenAIModel) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := m.models.GenerateContent(ctx, model, contents, contentConfig(opts))
	if err != nil {
		return nil, err
	}
	return &gemini.Response{RawResponse: resp}, nil
}

func contentConfig(opts gemini.GenerateOptions) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		Seed:               seedToPtrInt32(opts.Seed),
	}
	if opts.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(opts.SystemPrompt, genai.RoleUser)
	}
	if opts.AspectRatio != "" {
		cfg.ImageConfig = &genai.ImageConfig{AspectRatio: opts.AspectRatio}
	}
	return cfg
}
