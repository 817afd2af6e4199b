package domain

import (
	"bytes"
	"encoding/json"
)

// GeneratedImage はギャラリーに表示される生成済み画像の1レコードです。
// 一度作成されたレコードはセッション中に変更・削除されません。
type GeneratedImage struct {
	ID        string `json:"id"`        // 描画用の一意キー
	URL       string `json:"url"`       // 生成画像の参照先（中身は解釈しない）
	Prompt    string `json:"prompt"`    // 生成に使われたプロンプト（送信時のまま）
	Timestamp int64  `json:"timestamp"` // 作成時刻（Unix エポックからのミリ秒）
}

// GenerationRequest は画像生成サービスへ送る要求です。
type GenerationRequest struct {
	Prompt string `json:"prompt"`
}

// GenerationResponse は画像生成サービスからの応答です。
// Error が nil で ImageURL が空でない場合のみ成功として扱います。
type GenerationResponse struct {
	ImageURL string        `json:"imageUrl,omitempty"`
	Error    *ServiceError `json:"error,omitempty"`
}

// ServiceError はサービスが明示的に返したアプリケーションエラーです。
type ServiceError struct {
	Message string `json:"message,omitempty"`
}

// UnmarshalJSON は "error": "..." と "error": {"message": "..."} の両方を受け付けます。
func (e *ServiceError) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &e.Message)
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	e.Message = obj.Message
	return nil
}
