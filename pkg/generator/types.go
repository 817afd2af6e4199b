package generator

import (
	"errors"
	"fmt"
)

// State はリクエストライフサイクルの状態です。
type State int

const (
	StateIdle State = iota
	StateRequesting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ユーザーに表示する通知文。
const (
	MsgGenerated       = "Image generated successfully!"
	MsgGenerateFailed  = "Failed to generate image"
	MsgNoImageURL      = "No image URL received"
	MsgUnexpectedError = "An unexpected error occurred"
)

var (
	// ErrEmptyPrompt はプロンプトが空白のみの場合に返されます。
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrBusy はリクエスト中に再度送信された場合に返されます。
	ErrBusy = errors.New("generation already in progress")
)

// ApplicationError はサービスが失敗を返した、または画像URLを返さなかったことを表します。
type ApplicationError struct {
	Message string // ユーザーに表示した文言
}

func (e *ApplicationError) Error() string {
	return "application error: " + e.Message
}

// TransportFault は呼び出し自体が正常に完了しなかったことを表します。
type TransportFault struct {
	Err error
}

func (e *TransportFault) Error() string {
	return fmt.Sprintf("transport fault: %v", e.Err)
}

func (e *TransportFault) Unwrap() error {
	return e.Err
}
