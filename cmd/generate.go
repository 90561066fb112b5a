package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-media-kit/internal/config"
	"github.com/shouni/go-media-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、テキスト・画像・音声の全ステージを実行するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "テーマからテキスト・画像・ナレーションを一括生成しますなのだ。",
	Long: `指定されたテーマでスペイン語のコンテンツを生成し、内容に合わせた画像と
ナレーション音声まで一括で作るのだ。--sequence を付けると登場キャラクターごとの
シーン連作画像を生成するのだよ。`,
	RunE: generateCommand,
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 必須チェック
	if opts.Topic == "" {
		return fmt.Errorf("テーマ（--topic）を指定してほしいのだ")
	}

	// 2. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("コンテンツ生成パイプラインを起動するのだ！",
		"topic", opts.Topic,
		"content_type", opts.ContentType,
		"style", opts.Style,
		"output", opts.OutputDir)

	// 3. 更新した config を考慮しつつパイプラインを実行するのだ
	if err := pipeline.Execute(ctx, cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}
