package imgutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"
)

// MimePNG は PNG の MIME タイプです。
const MimePNG = "image/png"

// IsPNG はデータの先頭バイトから PNG かどうかを判定します。
func IsPNG(data []byte) bool {
	return http.DetectContentType(data) == MimePNG
}

// ToPNG は画像データ（JPEG, GIF, PNG）を PNG 形式に変換します。
// 既に PNG の場合はそのまま返します。
func ToPNG(data []byte) ([]byte, error) {
	if IsPNG(data) {
		return data, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("%s から PNG への変換に失敗しました: %w", format, err)
	}
	return buf.Bytes(), nil
}
