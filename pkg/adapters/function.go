package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shouni/gemini-image-gallery/pkg/domain"
)

const (
	// DefaultFunctionName は画像生成を行うリモート関数の既定名です。
	DefaultFunctionName = "generate-image"

	maxResponseBytes = 10 << 20
)

// FunctionClient は HTTP 経由でリモートの画像生成関数を呼び出すクライアントです。
//
// 2xx 以外のステータスやエラーを含む本文はアプリケーションエラーとして応答に詰め、
// 通信自体の失敗だけを error として返します。
type FunctionClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// NewFunctionClient は baseURL と関数名から呼び出し先を組み立てます。
// httpClient が nil の場合は http.DefaultClient を使います。
func NewFunctionClient(baseURL, functionName, apiKey string, httpClient *http.Client) (*FunctionClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}
	if functionName == "" {
		functionName = DefaultFunctionName
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &FunctionClient{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(functionName, "/"),
		apiKey:     apiKey,
	}, nil
}

// Endpoint は呼び出し先の URL を返します。
func (c *FunctionClient) Endpoint() string {
	return c.endpoint
}

// Generate は {"prompt": ...} を送信し、応答を GenerationResponse に変換します。
func (c *FunctionClient) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.WarnContext(ctx, "画像生成関数が異常ステータスを返しました",
			"endpoint", c.endpoint, "status", resp.StatusCode)
		return &domain.GenerationResponse{Error: decodeErrorBody(body)}, nil
	}

	var out domain.GenerationResponse
	if err := json.Unmarshal(body, &out); err != nil {
		// JSON 以外の本文は画像URLなしの応答として扱う
		slog.WarnContext(ctx, "画像生成関数の応答をJSONとして解釈できませんでした", "error", err)
		return &domain.GenerationResponse{}, nil
	}
	return &out, nil
}

func decodeErrorBody(body []byte) *domain.ServiceError {
	var parsed struct {
		Error   *domain.ServiceError `json:"error"`
		Message string               `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return &domain.ServiceError{}
	}
	if parsed.Error != nil {
		return parsed.Error
	}
	return &domain.ServiceError{Message: parsed.Message}
}
