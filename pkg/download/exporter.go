package download

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/gemini-image-gallery/pkg/adapters"
	"github.com/shouni/gemini-image-gallery/pkg/imgutil"
	"github.com/shouni/gemini-image-gallery/pkg/notify"
)

// MsgDownloaded はダウンロード操作の完了通知です。
const MsgDownloaded = "Image downloaded!"

// HTTPClient は URL から画像データを取得するためのインターフェースです。
// httpkit.ClientInterface がこれを満たします。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// ImageCacher は取得済み画像のキャッシュです。
type ImageCacher interface {
	Get(key string) (any, bool)
	Set(key string, value any, d time.Duration)
}

// Exporter はギャラリーの画像をローカルに保存します。
type Exporter struct {
	httpClient   HTTPClient
	reader       remoteio.InputReader
	cache        ImageCacher
	cacheTTL     time.Duration
	reporter     notify.Reporter
	dir          string
	allowPrivate bool
}

// Option は Exporter の任意設定です。
type Option func(*Exporter)

// WithCache は取得した画像を ttl の間キャッシュします。
func WithCache(cache ImageCacher, ttl time.Duration) Option {
	return func(e *Exporter) {
		e.cache = cache
		e.cacheTTL = ttl
	}
}

// WithReader は http(s) 以外のスキームを読むための InputReader を設定します。
func WithReader(reader remoteio.InputReader) Option {
	return func(e *Exporter) { e.reader = reader }
}

// AllowPrivateNetworks は SSRF 対策の検証を無効にします。ローカル開発用です。
func AllowPrivateNetworks(allow bool) Option {
	return func(e *Exporter) { e.allowPrivate = allow }
}

// NewExporter は依存関係を注入して Exporter を初期化します。
func NewExporter(httpClient HTTPClient, reporter notify.Reporter, dir string, opts ...Option) (*Exporter, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if reporter == nil {
		return nil, fmt.Errorf("reporter is required")
	}
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	// cache と reader は nil を許容

	e := &Exporter{httpClient: httpClient, reporter: reporter, dir: dir}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Export は画像を保存し、結果にかかわらず完了を通知します。
// 保存の失敗はログに残すだけで、通知内容には反映しません。
func (e *Exporter) Export(ctx context.Context, rawURL, prompt string) string {
	name := FileName(prompt)
	path, err := e.Save(ctx, rawURL, prompt)
	if err != nil {
		slog.WarnContext(ctx, "画像の保存に失敗しました", "url", rawURL, "file", name, "error", err)
	} else {
		slog.InfoContext(ctx, "画像を保存しました", "path", path)
	}
	e.reporter.Success(MsgDownloaded)
	return name
}

// Save は rawURL の画像を取得し、プロンプトから導出した名前で保存先に書き込みます。
// 同名のファイルがあれば "name (1).png" のように番号を付けます。
func (e *Exporter) Save(ctx context.Context, rawURL, prompt string) (string, error) {
	data, err := e.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	if converted, err := imgutil.ToPNG(data); err == nil {
		data = converted
	} else {
		slog.WarnContext(ctx, "PNGへの変換に失敗したため元データのまま保存します", "url", rawURL, "error", err)
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("保存先ディレクトリの作成に失敗しました: %w", err)
	}
	return writeUnique(e.dir, BaseName(prompt), data)
}

func (e *Exporter) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	// インライン画像はキャッシュせずにそのまま展開する
	if len(rawURL) > len("data:") && strings.EqualFold(rawURL[:len("data:")], "data:") {
		return decodeDataURL(rawURL)
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get(rawURL); ok {
			if data, ok := cached.([]byte); ok {
				return data, nil
			}
			slog.WarnContext(ctx, "キャッシュデータが不正な型です", "url", rawURL, "type", fmt.Sprintf("%T", cached))
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("URLパース失敗: %w", err)
	}

	var data []byte
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if !e.allowPrivate {
			if safe, err := adapters.IsSafeURL(rawURL); err != nil || !safe {
				return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
			}
		}
		data, err = e.httpClient.FetchBytes(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("画像の取得に失敗しました: %w", err)
		}
	default:
		if e.reader == nil {
			return nil, fmt.Errorf("未対応のスキーム: %s", u.Scheme)
		}
		rc, err := e.reader.Open(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("画像の読み込みに失敗しました: %w", err)
		}
		defer rc.Close()
		data, err = io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("画像の読み込みに失敗しました: %w", err)
		}
	}

	if e.cache != nil {
		e.cache.Set(rawURL, data, e.cacheTTL)
	}
	return data, nil
}

// decodeDataURL は data:[<mime>][;base64],<payload> 形式の URL を展開します。
func decodeDataURL(rawURL string) ([]byte, error) {
	header, payload, ok := strings.Cut(rawURL[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("data URL にデータ部がありません")
	}

	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("data URL の展開に失敗しました: %w", err)
	}
	if !strings.HasSuffix(strings.ToLower(header), ";base64") {
		return []byte(unescaped), nil
	}

	data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(unescaped, "="))
	if err != nil {
		return nil, fmt.Errorf("data URL のデコードに失敗しました: %w", err)
	}
	return data, nil
}

func writeUnique(dir, base string, data []byte) (string, error) {
	for i := 0; i < 1000; i++ {
		name := base + Extension
		if i > 0 {
			name = fmt.Sprintf("%s (%d)%s", base, i, Extension)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("ファイルの作成に失敗しました: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("ファイルの書き込みに失敗しました: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("ファイルの書き込みに失敗しました: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("空いているファイル名が見つかりません: %s", base)
}
