package download

// Extension はダウンロードファイルに付ける固定の拡張子です。
const Extension = ".png"

// maxBaseRunes はプロンプトからファイル名に使う最大文字数です。
const maxBaseRunes = 30

// BaseName はプロンプトの先頭30文字を取り、英数字以外をすべて '_' に置き換えます。
func BaseName(prompt string) string {
	runes := []rune(prompt)
	if len(runes) > maxBaseRunes {
		runes = runes[:maxBaseRunes]
	}
	for i, r := range runes {
		if !isASCIIAlnum(r) {
			runes[i] = '_'
		}
	}
	return string(runes)
}

// FileName はプロンプトから保存用のファイル名を導出します。
func FileName(prompt string) string {
	return BaseName(prompt) + Extension
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
