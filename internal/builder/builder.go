package builder

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-media-kit/internal/config"
	"github.com/shouni/go-media-kit/pkg/anthropic"
	"github.com/shouni/go-media-kit/pkg/character"
	"github.com/shouni/go-media-kit/pkg/domain"
	"github.com/shouni/go-media-kit/pkg/flux"
	"github.com/shouni/go-media-kit/pkg/generator"
	"github.com/shouni/go-media-kit/pkg/pipeline"
	"github.com/shouni/go-media-kit/pkg/prompt"
	"github.com/shouni/go-media-kit/pkg/publisher"
	"github.com/shouni/go-media-kit/pkg/speech"
)

// BuildOrchestrator は設定に応じて全ステージを組み上げた Orchestrator を構築します。
// 画像・音声のバックエンドはキーが無ければ静かに外されるのだ。
func BuildOrchestrator(appCtx *AppContext) (*pipeline.Orchestrator, error) {
	aiClient, err := InitializeAnthropicClient(appCtx.Config)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}

	opts := []pipeline.Option{
		pipeline.WithPromptSynthesizer(prompt.NewSynthesizer(aiClient)),
		pipeline.WithCharacterAnalyzer(character.NewAnalyzer(aiClient)),
		pipeline.WithVarySeedPerScene(!appCtx.Options.FixedSeed),
		pipeline.WithRenderInterval(config.DefaultRateLimit),
		pipeline.WithEvents(logEvents),
	}

	if !appCtx.Options.SkipImage {
		renderer, err := initializeImageClient(appCtx)
		if err != nil {
			return nil, err
		}
		if renderer != nil {
			opts = append(opts, pipeline.WithImageRenderer(renderer))
		}
	}

	if !appCtx.Options.SkipAudio {
		opts = append(opts, buildSpeechOptions(appCtx.Config)...)
	}

	return pipeline.New(generator.NewTextGenerator(aiClient), opts...)
}

// BuildPublisher は成果物の保存を担う MediaPublisher を構築します。
func BuildPublisher(appCtx *AppContext) (*publisher.MediaPublisher, error) {
	if appCtx.Writer == nil {
		return nil, fmt.Errorf("出力先の初期化に失敗しているため保存できません")
	}
	return publisher.NewMediaPublisher(appCtx.Writer), nil
}

// InitializeAnthropicClient はテキスト生成用のクライアントを初期化します。
func InitializeAnthropicClient(cfg *config.Config) (*anthropic.Client, error) {
	return anthropic.New(cfg.AnthropicAPIKey, cfg.AnthropicModel)
}

// initializeImageClient は画像生成クライアントを初期化します。
// キーが未設定なら nil を返し、画像ステージは構成されません。
func initializeImageClient(appCtx *AppContext) (*flux.Client, error) {
	if appCtx.Config.BFLAPIKey == "" {
		slog.Warn("BFL_API_KEY が未設定のため、画像生成ステージを外すのだ")
		return nil, nil
	}
	progress := func(attempt, maxAttempts int, status string) {
		slog.Debug("esperando la imagen", "attempt", attempt, "max", maxAttempts, "status", status)
	}
	return flux.New(appCtx.Config.BFLAPIKey, appCtx.httpClient, flux.WithProgress(progress))
}

// buildSpeechOptions は利用可能なキーを持つ音声プロバイダーだけを登録します。
func buildSpeechOptions(cfg *config.Config) []pipeline.Option {
	var opts []pipeline.Option
	if cfg.OpenAIAPIKey != "" {
		syn, err := speech.NewOpenAISynthesizer(cfg.OpenAIAPIKey)
		if err == nil {
			opts = append(opts, pipeline.WithSpeechSynthesizer(domain.SpeechProviderOpenAI, syn))
		}
	}
	if cfg.ElevenLabsAPIKey != "" {
		syn, err := speech.NewElevenLabsSynthesizer(cfg.ElevenLabsAPIKey)
		if err == nil {
			opts = append(opts, pipeline.WithSpeechSynthesizer(domain.SpeechProviderElevenLabs, syn))
		}
	}
	if len(opts) == 0 {
		slog.Warn("音声合成のAPIキーが未設定のため、ナレーションステージを外すのだ")
	}
	return opts
}

// logEvents はステージの進捗を構造化ログに流すのだ。
func logEvents(ev pipeline.Event) {
	switch ev.Kind {
	case pipeline.EventStarted:
		slog.Info("ステージ開始", "stage", ev.Stage)
	case pipeline.EventCompleted:
		slog.Info("ステージ完了", "stage", ev.Stage, "detail", ev.Detail)
	case pipeline.EventFailed:
		slog.Error("ステージ失敗", "stage", ev.Stage, "detail", ev.Detail, "error", ev.Err)
	case pipeline.EventSkipped:
		slog.Info("ステージをスキップ", "stage", ev.Stage)
	}
}
