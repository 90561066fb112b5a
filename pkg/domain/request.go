package domain

import (
	"fmt"
	"strings"
)

// 画像バックエンドのモデル識別子。
const (
	ImageModelPro   = "flux-pro-1.1"
	ImageModelUltra = "flux-pro-1.1-ultra"
)

// 音声合成プロバイダの識別子。
const (
	SpeechProviderOpenAI     = "openai"
	SpeechProviderElevenLabs = "elevenlabs"
)

// validDimensions は画像の辺として許可される離散値なのだ。
var validDimensions = []int{512, 768, 1024, 1344}

// GenerationRequest は1回のパイプライン実行への入力です。
// 提出後は変更されません。
type GenerationRequest struct {
	Topic       string      // ユーザーが入力したテーマ
	ContentType ContentType // 生成するテキストの種別
	Style       Style       // 画像の視覚スタイル

	// ImagePrompt はユーザー指定の画像プロンプト（英語）。
	// 空でなければ自動生成を行わず、この文字列をそのまま使います。
	ImagePrompt string

	// SequenceMode が真のとき、キャラクター解析を行い
	// キャラクター×シーンごとに画像を生成します。
	SequenceMode bool

	MaxTokens int // テキスト生成のトークン上限

	ImageModel string // ImageModelPro または ImageModelUltra
	Width      int
	Height     int
	Steps      int // Pro バリアントのみで使用

	SpeechProvider string // SpeechProviderOpenAI または SpeechProviderElevenLabs
	Voice          string // プロバイダ固有のボイス識別子
}

// Validate はネットワーク呼び出しの前に行う入力検証です。
// 未知の ContentType はここでは拒否しません。テキスト生成側が
// 明示的なフォールバックで処理します。
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return fmt.Errorf("el tema no puede estar vacío")
	}
	if r.MaxTokens < 500 || r.MaxTokens > 4000 {
		return fmt.Errorf("max tokens fuera de rango [500, 4000]: %d", r.MaxTokens)
	}
	switch r.ImageModel {
	case ImageModelPro:
		if r.Steps < 1 || r.Steps > 50 {
			return fmt.Errorf("pasos de generación fuera de rango [1, 50]: %d", r.Steps)
		}
	case ImageModelUltra:
		// Ultra は寸法とステップ数を自動で扱う
	default:
		return fmt.Errorf("modelo de imagen desconocido: %q", r.ImageModel)
	}
	if !validDimension(r.Width) {
		return fmt.Errorf("ancho de imagen no permitido: %d (permitidos: %v)", r.Width, validDimensions)
	}
	if !validDimension(r.Height) {
		return fmt.Errorf("alto de imagen no permitido: %d (permitidos: %v)", r.Height, validDimensions)
	}
	switch r.SpeechProvider {
	case SpeechProviderOpenAI, SpeechProviderElevenLabs:
	default:
		return fmt.Errorf("proveedor de voz desconocido: %q", r.SpeechProvider)
	}
	if strings.TrimSpace(r.Voice) == "" {
		return fmt.Errorf("la voz no puede estar vacía")
	}
	return nil
}

func validDimension(v int) bool {
	for _, d := range validDimensions {
		if v == d {
			return true
		}
	}
	return false
}

// AspectRatio は Ultra バリアント向けのアスペクト比文字列を導出します。
// 正方形なら "w:h" を、それ以外は固定の "16:9" を返します。
func (r GenerationRequest) AspectRatio() string {
	if r.Width == r.Height {
		return fmt.Sprintf("%d:%d", r.Width, r.Height)
	}
	return "16:9"
}
