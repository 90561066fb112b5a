package cmd

import (
	"fmt"

	"github.com/shouni/go-media-kit/internal/config"
	"github.com/shouni/go-media-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// textCmd は、テキスト生成だけを実行するのだ。
var textCmd = &cobra.Command{
	Use:   "text",
	Short: "テキストだけを生成して保存しますなのだ。",
	Long:  `画像と音声のステージを飛ばし、指定テーマのスペイン語テキストだけを生成するのだ。`,
	RunE:  textCommand,
}

func textCommand(cmd *cobra.Command, args []string) error {
	if opts.Topic == "" {
		return fmt.Errorf("テーマ（--topic）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.Options = opts

	return pipeline.ExecuteTextOnly(cmd.Context(), cfg)
}
