// Command gallery はプロンプトから画像を生成し、セッション内のギャラリーに並べる端末アプリです。
//
// Usage:
//
//	gallery
//	gallery -prompt "a cat" -download
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/shouni/gemini-image-gallery/pkg/config"
	"github.com/shouni/gemini-image-gallery/pkg/generator"
	"github.com/shouni/gemini-image-gallery/pkg/notify"
	"github.com/shouni/gemini-image-gallery/pkg/tui"
)

func main() {
	promptText := flag.String("prompt", "", "generate one image non-interactively and exit")
	download := flag.Bool("download", false, "with -prompt, also save the generated image")
	envFile := flag.String("env", "", "path to a .env file (default: ./.env if present)")
	flag.Parse()

	if err := run(*promptText, *download, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(promptText string, download bool, envFile string) error {
	var envFiles []string
	if envFile != "" {
		envFiles = append(envFiles, envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if promptText != "" {
		slog.SetDefault(newLogger(os.Stderr, cfg.LogLevel))
		return runOnce(ctx, cfg, promptText, download)
	}

	// TUI が端末を使うため、ログはファイルに書き出す
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("ログファイルを開けません: %w", err)
	}
	defer logFile.Close()
	slog.SetDefault(newLogger(logFile, cfg.LogLevel))

	return runTUI(ctx, cfg)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "gallery",
		Level:           log.Level(level),
	})
	return slog.New(handler)
}

func runTUI(ctx context.Context, cfg *config.Config) error {
	feed := notify.NewFeed(32)
	reporter := notify.Multi{feed, notify.NewLogReporter(nil)}

	lc, exporter, err := newSession(ctx, cfg, reporter)
	if err != nil {
		return err
	}

	m, err := tui.NewModel(ctx, lc, exporter, feed, tui.WithToastTTL(cfg.ToastTTL))
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "TUIを起動します", "backend", cfg.Backend, "output", cfg.OutputDir)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUIの実行に失敗しました: %w", err)
	}
	return nil
}

func runOnce(ctx context.Context, cfg *config.Config, promptText string, download bool) error {
	reporter := notify.Multi{notify.NewWriterReporter(os.Stdout), notify.NewLogReporter(nil)}

	lc, exporter, err := newSession(ctx, cfg, reporter)
	if err != nil {
		return err
	}

	lc.Input().SetPrompt(promptText)
	rec, err := lc.Submit(ctx)
	if err != nil {
		// 内容は reporter で表示済み
		return errors.Join(errGenerationFailed, err)
	}
	fmt.Fprintln(os.Stdout, rec.URL)

	if download {
		name := exporter.Export(ctx, rec.URL, rec.Prompt)
		fmt.Fprintln(os.Stdout, name)
	}
	return nil
}

var errGenerationFailed = errors.New("generation failed")

// newSession は1セッション分の Lifecycle と Exporter を組み立てます。
func newSession(ctx context.Context, cfg *config.Config, reporter notify.Reporter) (*generator.Lifecycle, tui.Downloader, error) {
	service, err := newService(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	exporter, err := newExporter(cfg, reporter)
	if err != nil {
		return nil, nil, err
	}
	lc, err := newLifecycle(cfg, service, reporter)
	if err != nil {
		return nil, nil, err
	}
	return lc, exporter, nil
}
