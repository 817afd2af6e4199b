package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/shouni/gemini-image-gallery/pkg/domain"
)

func TestNewGeminiGenerator(t *testing.T) {
	_, err := NewGeminiGenerator(nil, &mockAssets{}, "")
	assert.ErrorContains(t, err, "aiClient is required")

	_, err = NewGeminiGenerator(&mockAIClient{}, nil, "")
	assert.ErrorContains(t, err, "assets is required")

	g, err := NewGeminiGenerator(&mockAIClient{}, &mockAssets{}, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiModel, g.model)
}

func TestGeminiGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("成功: プロンプトとオプションが渡され、保存先URLが返るのだ", func(t *testing.T) {
		seed := int64(777)
		assets := &mockAssets{url: "file:///tmp/assets/1.png"}
		ai := &mockAIClient{
			generateFunc: func(model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				assert.Equal(t, "imagen-test", model)
				require.Len(t, parts, 1)
				assert.Equal(t, "a cat", parts[0].Text)
				assert.Equal(t, "1:1", opts.AspectRatio)
				require.NotNil(t, opts.Seed)
				assert.Equal(t, int64(777), *opts.Seed)
				return imageResponse([]byte("png-bytes"), "image/png"), nil
			},
		}

		g, err := NewGeminiGenerator(ai, assets, "imagen-test", WithAspectRatio("1:1"), WithSeed(&seed))
		require.NoError(t, err)

		resp, err := g.Generate(ctx, domain.GenerationRequest{Prompt: "a cat"})
		require.NoError(t, err)
		assert.Equal(t, &domain.GenerationResponse{ImageURL: "file:///tmp/assets/1.png"}, resp)
		assert.Equal(t, []byte("png-bytes"), assets.lastData)
		assert.Equal(t, "image/png", assets.lastMime)
	})

	t.Run("通信エラーは error として返す", func(t *testing.T) {
		cause := errors.New("unavailable")
		ai := &mockAIClient{
			generateFunc: func(string, []*genai.Part, gemini.GenerateOptions) (*gemini.Response, error) {
				return nil, cause
			},
		}
		g, _ := NewGeminiGenerator(ai, &mockAssets{}, "")

		_, err := g.Generate(ctx, domain.GenerationRequest{Prompt: "x"})
		assert.ErrorIs(t, err, cause)
	})

	t.Run("安全フィルターで停止した場合はサービスエラーになる", func(t *testing.T) {
		assets := &mockAssets{}
		ai := &mockAIClient{
			generateFunc: func(string, []*genai.Part, gemini.GenerateOptions) (*gemini.Response, error) {
				return &gemini.Response{RawResponse: &genai.GenerateContentResponse{
					Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
				}}, nil
			},
		}
		g, _ := NewGeminiGenerator(ai, assets, "")

		resp, err := g.Generate(ctx, domain.GenerationRequest{Prompt: "x"})
		require.NoError(t, err)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Message, string(genai.FinishReasonSafety))
		assert.False(t, assets.putCalled)
	})

	t.Run("候補がない場合はサービスエラーになる", func(t *testing.T) {
		ai := &mockAIClient{
			generateFunc: func(string, []*genai.Part, gemini.GenerateOptions) (*gemini.Response, error) {
				return &gemini.Response{RawResponse: &genai.GenerateContentResponse{}}, nil
			},
		}
		g, _ := NewGeminiGenerator(ai, &mockAssets{}, "")

		resp, err := g.Generate(ctx, domain.GenerationRequest{Prompt: "x"})
		require.NoError(t, err)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "No valid response from Gemini", resp.Error.Message)
	})

	t.Run("テキストのみの応答はURLなしになる", func(t *testing.T) {
		ai := &mockAIClient{
			generateFunc: func(string, []*genai.Part, gemini.GenerateOptions) (*gemini.Response, error) {
				return &gemini.Response{RawResponse: &genai.GenerateContentResponse{
					Candidates: []*genai.Candidate{{
						Content:      &genai.Content{Parts: []*genai.Part{{Text: "sorry"}}},
						FinishReason: genai.FinishReasonStop,
					}},
				}}, nil
			},
		}
		g, _ := NewGeminiGenerator(ai, &mockAssets{}, "")

		resp, err := g.Generate(ctx, domain.GenerationRequest{Prompt: "x"})
		require.NoError(t, err)
		assert.Equal(t, &domain.GenerationResponse{}, resp)
	})

	t.Run("保存に失敗した場合は error を返す", func(t *testing.T) {
		ai := &mockAIClient{
			generateFunc: func(string, []*genai.Part, gemini.GenerateOptions) (*gemini.Response, error) {
				return imageResponse([]byte("png"), "image/png"), nil
			},
		}
		g, _ := NewGeminiGenerator(ai, &mockAssets{err: errors.New("disk full")}, "")

		_, err := g.Generate(ctx, domain.GenerationRequest{Prompt: "x"})
		assert.ErrorContains(t, err, "disk full")
	})
}

func TestSeedToPtrInt32(t *testing.T) {
	assert.Nil(t, seedToPtrInt32(nil))

	v := int64(999)
	got := seedToPtrInt32(&v)
	require.NotNil(t, got)
	assert.Equal(t, int32(999), *got)
}
