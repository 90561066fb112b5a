package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-media-kit/internal/builder"
	"github.com/shouni/go-media-kit/internal/config"
	"github.com/shouni/go-media-kit/pkg/domain"
	"github.com/shouni/go-media-kit/pkg/publisher"

	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// Execute は、テキスト・画像・音声の生成から保存までの全工程を実行するのだ。
func Execute(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := runGenerationStep(ctx, appCtx)
	if err != nil {
		return err
	}

	return runPublishStep(ctx, appCtx, result)
}

// ExecuteTextOnly はテキスト生成だけを行い、本文を保存するのだ。
func ExecuteTextOnly(ctx context.Context, cfg *config.Config) error {
	cfg.Options.SkipImage = true
	cfg.Options.SkipAudio = true
	return Execute(ctx, cfg)
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	httpClient := httpkit.New(cfg.Options.HTTPTimeout)

	gcsFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}
	writer, err := gcsFactory.OutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, writer)
	return &appCtx, nil
}

// runGenerationStep は Orchestrator を構築してリクエスト1件を実行するのだ。
func runGenerationStep(ctx context.Context, appCtx *builder.AppContext) (*domain.PipelineResult, error) {
	orc, err := builder.BuildOrchestrator(appCtx)
	if err != nil {
		return nil, fmt.Errorf("パイプラインの構築に失敗したのだ: %w", err)
	}

	req := buildRequest(appCtx.Options)
	slog.Info("コンテンツ生成を開始するのだ！",
		"topic", req.Topic,
		"content_type", req.ContentType,
		"style", req.Style,
		"sequence", req.SequenceMode)

	result, err := orc.Submit(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("生成に失敗したのだ: %w", err)
	}

	slog.Info("生成が完了したのだ",
		"words", result.Text.WordCount,
		"images", result.ImageCount(),
		"failures", len(result.Failures))
	return result, nil
}

// runPublishStep は MediaPublisher を使って最終成果物を保存するのだ
func runPublishStep(ctx context.Context, appCtx *builder.AppContext, result *domain.PipelineResult) error {
	pub, err := builder.BuildPublisher(appCtx)
	if err != nil {
		return fmt.Errorf("Publisherの構築に失敗したのだ: %w", err)
	}

	published, err := pub.Publish(ctx, result, publisher.Options{
		OutputDir: appCtx.Options.OutputDir,
		Title:     appCtx.Options.Title,
	})
	if err != nil {
		return fmt.Errorf("公開処理に失敗したのだ: %w", err)
	}

	slog.Info("すべての成果物を保存したのだ！",
		"index", published.IndexPath,
		"images", len(published.ImagePaths),
		"audio", published.AudioPath)
	return nil
}

// buildRequest は CLI オプションをドメインのリクエストに写すのだ。
// 未知の種別・スタイルはここでは弾かず、下流の明示的フォールバックに委ねる。
func buildRequest(opts config.GenerateOptions) domain.GenerationRequest {
	return domain.GenerationRequest{
		Topic:          opts.Topic,
		ContentType:    domain.ContentType(strings.ToLower(strings.TrimSpace(opts.ContentType))),
		Style:          domain.Style(strings.ToLower(strings.TrimSpace(opts.Style))),
		ImagePrompt:    opts.ImagePrompt,
		SequenceMode:   opts.SequenceMode,
		MaxTokens:      opts.MaxTokens,
		ImageModel:     opts.ImageModel,
		Width:          opts.Width,
		Height:         opts.Height,
		Steps:          opts.Steps,
		SpeechProvider: opts.SpeechProvider,
		Voice:          opts.Voice,
	}
}
