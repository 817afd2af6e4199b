package prompt

import "strings"

// MsgEmptyPrompt は空のプロンプトで送信しようとした際の通知文です。
const MsgEmptyPrompt = "Please enter a prompt"

// Controller は入力中のプロンプト文字列を保持します。
// 入力の都度の検証は行わず、検証は送信時に Validate で行います。
type Controller struct {
	text string
}

// NewController は空のプロンプトを持つ Controller を生成します。
func NewController() *Controller {
	return &Controller{}
}

// SetPrompt はプロンプトを無条件に置き換えます。
func (c *Controller) SetPrompt(text string) {
	c.text = text
}

// Text は現在のプロンプトを返します。
func (c *Controller) Text() string {
	return c.text
}

// Clear はプロンプトを空にします。
func (c *Controller) Clear() {
	c.text = ""
}

// Valid は現在のプロンプトが送信可能かどうかを返します。
func (c *Controller) Valid() bool {
	return Validate(c.text)
}

// Validate は前後の空白を除いた text が空でなければ true を返します。
func Validate(text string) bool {
	return strings.TrimSpace(text) != ""
}
