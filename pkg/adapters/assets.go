package adapters

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AssetStore は生成された画像データを保存し、参照用の URL を返します。
type AssetStore interface {
	Put(ctx context.Context, data []byte, mimeType string) (string, error)
}

// LocalAssetStore はローカルディレクトリに画像を保存し file:// URL を返します。
type LocalAssetStore struct {
	dir string
}

// NewLocalAssetStore は dir を作成して LocalAssetStore を返します。
func NewLocalAssetStore(dir string) (*LocalAssetStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("保存先パスの解決に失敗しました: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("保存先ディレクトリの作成に失敗しました: %w", err)
	}
	return &LocalAssetStore{dir: abs}, nil
}

// Put は画像をランダムなファイル名で保存します。
func (s *LocalAssetStore) Put(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("画像データが空です")
	}

	path := filepath.Join(s.dir, uuid.NewString()+extensionFor(mimeType))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("画像の保存に失敗しました: %w", err)
	}
	return FileURL(path), nil
}

// FileURL は絶対パスを file:// URL に変換します。
func FileURL(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func extensionFor(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}

// LocalReader は file:// URL を読み出す remoteio.InputReader の実装です。
type LocalReader struct{}

// Open は file:// URL が指すファイルを開きます。
func (LocalReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	path, err := localPath(uri)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// List は uri 配下のファイルを file:// URL として fn に渡します。
func (LocalReader) List(ctx context.Context, uri string, fn func(string) error) error {
	root, err := localPath(uri)
	if err != nil {
		return err
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(FileURL(path))
	})
}

func localPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("URLパース失敗: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("未対応のスキーム: %s", u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}
