package main

import (
	"context"
	"fmt"
	"net/http"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/gemini-image-gallery/pkg/adapters"
	"github.com/shouni/gemini-image-gallery/pkg/config"
	"github.com/shouni/gemini-image-gallery/pkg/download"
	"github.com/shouni/gemini-image-gallery/pkg/gallery"
	"github.com/shouni/gemini-image-gallery/pkg/generator"
	"github.com/shouni/gemini-image-gallery/pkg/notify"
	"github.com/shouni/gemini-image-gallery/pkg/prompt"
)

func newService(ctx context.Context, cfg *config.Config) (generator.Service, error) {
	switch cfg.Backend {
	case config.BackendFunction:
		// 生成の期限は Lifecycle 側のコンテキストで管理する
		return adapters.NewFunctionClient(cfg.FunctionsURL, cfg.FunctionName, cfg.FunctionKey, &http.Client{})

	case config.BackendGemini:
		model, err := adapters.NewGeminiAPIModel(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		assets, err := adapters.NewLocalAssetStore(cfg.AssetDir)
		if err != nil {
			return nil, err
		}
		return adapters.NewGeminiGenerator(model, assets, cfg.GeminiModel,
			adapters.WithAspectRatio(cfg.AspectRatio),
			adapters.WithSeed(cfg.Seed),
		)
	}
	return nil, fmt.Errorf("unknown backend: %q", cfg.Backend)
}

func newExporter(cfg *config.Config, reporter notify.Reporter) (*download.Exporter, error) {
	opts := []download.Option{
		download.WithReader(adapters.LocalReader{}),
		download.AllowPrivateNetworks(cfg.AllowPrivateURLs),
	}
	// go-cache は 0 を無期限として扱うため、TTL 0 はキャッシュなしにする
	if cfg.CacheTTL > 0 {
		opts = append(opts, download.WithCache(gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL), cfg.CacheTTL))
	}
	return download.NewExporter(httpkit.New(cfg.HTTPTimeout), reporter, cfg.OutputDir, opts...)
}

func newLifecycle(cfg *config.Config, service generator.Service, reporter notify.Reporter) (*generator.Lifecycle, error) {
	return generator.NewLifecycle(
		prompt.NewController(),
		gallery.NewStore(),
		service,
		reporter,
		generator.WithTimeout(cfg.GenerationTimeout),
	)
}
