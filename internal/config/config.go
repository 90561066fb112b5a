package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultTextModel    = "claude-3-5-sonnet-20241022"
	DefaultImageModel   = "flux-pro-1.1"
	DefaultVoice        = "nova"
	DefaultProvider     = "openai"
	DefaultContentType  = "texto"
	DefaultStyle        = "photorealistic"
	DefaultMaxTokens    = 1500
	DefaultWidth        = 1024
	DefaultHeight       = 768
	DefaultSteps        = 28
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultRateLimit    = 10 * time.Second // 画像生成ジョブ投入の間隔なのだ
	DefaultLocalOutDir  = "output"         // パブリッシャーで使用するデフォルト保存先なのだ
	DefaultOutputTitle  = "Contenido generado"
)

// Config はアプリケーション全体の環境設定（APIキーやモデル名）を保持する構造体なのだ。
type Config struct {
	AnthropicAPIKey  string
	AnthropicModel   string
	BFLAPIKey        string
	OpenAIAPIKey     string
	ElevenLabsAPIKey string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		AnthropicAPIKey:  envutil.GetEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   envutil.GetEnv("ANTHROPIC_MODEL", DefaultTextModel),
		BFLAPIKey:        envutil.GetEnv("BFL_API_KEY", ""),
		OpenAIAPIKey:     envutil.GetEnv("OPENAI_API_KEY", ""),
		ElevenLabsAPIKey: envutil.GetEnv("ELEVENLABS_API_KEY", ""),
	}
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// コンテンツ指定関連
	Topic       string // --topic
	ContentType string // --content-type
	Style       string // --style
	MaxTokens   int    // --max-tokens

	// 画像生成関連
	ImagePrompt  string // --image-prompt: 指定時はAI解析を飛ばして直接使うのだ
	ImageModel   string // --image-model
	Width        int
	Height       int
	Steps        int
	SequenceMode bool // --sequence: キャラクターごとのシーン連作を生成する
	FixedSeed    bool // --fixed-seed: 全シーンで基礎シードを固定する

	// 音声合成関連
	SpeechProvider string // --speech-provider
	Voice          string // --voice
	SkipAudio      bool   // --skip-audio
	SkipImage      bool   // --skip-image

	// 生成結果の出力設定
	OutputDir string // --output-dir
	Title     string // --title

	// 実行制御
	HTTPTimeout time.Duration // --http-timeout
}
