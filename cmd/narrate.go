package cmd

import (
	"fmt"

	"github.com/shouni/go-media-kit/internal/config"
	"github.com/shouni/go-media-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// narrateCmd は、テキストとナレーション音声だけを生成するのだ。
var narrateCmd = &cobra.Command{
	Use:   "narrate",
	Short: "テキストとナレーション音声を生成しますなのだ。",
	Long: `画像ステージを飛ばし、テキスト生成とナレーション合成だけを実行するのだ。
--speech-provider で openai と elevenlabs を切り替えられるのだよ。`,
	RunE: narrateCommand,
}

func narrateCommand(cmd *cobra.Command, args []string) error {
	if opts.Topic == "" {
		return fmt.Errorf("テーマ（--topic）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.Options = opts
	cfg.Options.SkipImage = true

	return pipeline.Execute(cmd.Context(), cfg)
}
