package adapters

import (
	"context"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// --- Mocks ---

type mockAIClient struct {
	generateFunc func(model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

func (m *mockAIClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	return m.generateFunc(model, parts, opts)
}

type mockAssets struct {
	putCalled bool
	lastData  []byte
	lastMime  string
	url       string
	err       error
}

func (m *mockAssets) Put(ctx context.Context, data []byte, mimeType string) (string, error) {
	m.putCalled = true
	m.lastData = data
	m.lastMime = mimeType
	return m.url, m.err
}

func imageResponse(data []byte, mime string) *gemini.Response {
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{
					Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: mime, Data: data}}},
				},
				FinishReason: genai.FinishReasonStop,
			}},
		},
	}
}
