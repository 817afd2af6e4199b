package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend は画像生成サービスの接続方式です。
type Backend string

const (
	BackendFunction Backend = "function"
	BackendGemini   Backend = "gemini"
)

// Config はアプリケーション全体の設定を保持します。
type Config struct {
	Backend Backend

	FunctionsURL string
	FunctionName string
	FunctionKey  string

	GeminiAPIKey string
	GeminiModel  string
	AspectRatio  string
	Seed         *int64

	AssetDir  string
	OutputDir string

	GenerationTimeout time.Duration // 0 なら期限なし
	HTTPTimeout       time.Duration
	CacheTTL          time.Duration
	ToastTTL          time.Duration
	AllowPrivateURLs  bool
	LogFile           string
	LogLevel          slog.Level
}

// Load は .env と環境変数から設定を読み込みます。
// envFiles を省略した場合、カレントディレクトリの .env は存在すれば読み込みます。
func Load(envFiles ...string) (*Config, error) {
	// 既定の .env はなくてもよいが、明示されたファイルは必須
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv は getenv から設定を組み立てて検証します。
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}
	seconds := func(key string, def int) (time.Duration, error) {
		v := get(key, strconv.Itoa(def))
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%s must be a non-negative integer: %q", key, v)
		}
		return time.Duration(n) * time.Second, nil
	}

	cfg := &Config{
		Backend:      Backend(strings.ToLower(get("GALLERY_BACKEND", string(BackendFunction)))),
		FunctionsURL: get("GALLERY_FUNCTIONS_URL", ""),
		FunctionName: get("GALLERY_FUNCTION_NAME", "generate-image"),
		FunctionKey:  get("GALLERY_FUNCTION_KEY", ""),
		GeminiAPIKey: get("GEMINI_API_KEY", ""),
		GeminiModel:  get("GALLERY_GEMINI_MODEL", "gemini-2.5-flash-image"),
		AspectRatio:  get("GALLERY_ASPECT_RATIO", ""),
		AssetDir:     get("GALLERY_ASSET_DIR", "./assets"),
		OutputDir:    get("GALLERY_OUTPUT_DIR", "./downloads"),
		LogFile:      get("GALLERY_LOG_FILE", "gallery.log"),
	}

	var err error
	if cfg.GenerationTimeout, err = seconds("GALLERY_GENERATION_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = seconds("GALLERY_HTTP_TIMEOUT", 60); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = seconds("GALLERY_CACHE_TTL", 600); err != nil {
		return nil, err
	}
	if cfg.ToastTTL, err = seconds("GALLERY_TOAST_TTL", 4); err != nil {
		return nil, err
	}

	if v := get("GALLERY_SEED", ""); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("GALLERY_SEED must be an integer: %q", v)
		}
		cfg.Seed = &seed
	}

	if v := get("GALLERY_ALLOW_PRIVATE_URLS", "false"); v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("GALLERY_ALLOW_PRIVATE_URLS must be a boolean: %q", v)
		}
		cfg.AllowPrivateURLs = allow
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(get("GALLERY_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("GALLERY_LOG_LEVEL is invalid: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate はバックエンドごとの必須項目を確認します。
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFunction:
		if c.FunctionsURL == "" {
			return fmt.Errorf("GALLERY_FUNCTIONS_URL is required for the %s backend", c.Backend)
		}
	case BackendGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the %s backend", c.Backend)
		}
	default:
		return fmt.Errorf("unknown GALLERY_BACKEND: %q", c.Backend)
	}
	return nil
}
