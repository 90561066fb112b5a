package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-media-kit/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は全コマンドで共有される実行時パラメータなのだ。
var opts config.GenerateOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- コンテンツ指定関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.Topic, "topic", "t", "", "生成するコンテンツのテーマなのだ（必須）。")
	rootCmd.PersistentFlags().StringVarP(&opts.ContentType, "content-type", "c", config.DefaultContentType, "コンテンツの種別（ejercicio, artículo, relato など）なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.Style, "style", "s", config.DefaultStyle, "画像の視覚スタイルなのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.MaxTokens, "max-tokens", config.DefaultMaxTokens, "テキスト生成のトークン上限（500〜4000）なのだ。")

	// --- 画像生成関連 ---
	rootCmd.PersistentFlags().StringVar(&opts.ImagePrompt, "image-prompt", "", "指定するとAI解析を飛ばしてこのプロンプトをそのまま使うのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "使用する画像生成モデル名なのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.Width, "width", config.DefaultWidth, "画像の幅（512/768/1024/1344）なのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.Height, "height", config.DefaultHeight, "画像の高さ（512/768/1024/1344）なのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.Steps, "steps", config.DefaultSteps, "生成ステップ数（1〜50）なのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.SequenceMode, "sequence", false, "キャラクターごとのシーン連作を生成するのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.FixedSeed, "fixed-seed", false, "全シーンで基礎シードを固定するのだ。")

	// --- 音声合成関連 ---
	rootCmd.PersistentFlags().StringVar(&opts.SpeechProvider, "speech-provider", config.DefaultProvider, "ナレーションのプロバイダー（openai / elevenlabs）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Voice, "voice", config.DefaultVoice, "ナレーションの声なのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultLocalOutDir, "保存先ディレクトリ（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Title, "title", config.DefaultOutputTitle, "目次に使うタイトルなのだ。")

	// --- 実行制御 ---
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// テキスト生成は全コマンドの土台なので、APIキーの存在チェックは欠かせないのだ！
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 ANTHROPIC_API_KEY が設定されていません。テキスト生成には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"ap-media-go",
		addAppFlags,
		preRunAppE,
		generateCmd,
		textCmd,
		narrateCmd,
		typesCmd,
	)
}
