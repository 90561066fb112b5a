package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-media-kit/pkg/anthropic"
	"github.com/shouni/go-media-kit/pkg/domain"
)

const (
	// 解析は再現性を優先して低温度で行うのだ
	analysisTemperature = 0.3
	analysisMaxTokens   = 400
	analysisWordLimit   = 150

	// basicフォールバックで本文から拾う語数
	previewWordLimit = 80
)

// qualityVocabulary は品質修飾語の語彙です。いずれかが既に含まれていれば
// 正規化は何も追加しません（冪等性の保証）。
var qualityVocabulary = []string{
	"high quality",
	"8k",
	"detailed",
	"sharp focus",
	"masterpiece",
	"professional",
}

const qualitySuffix = ", high quality, detailed, professional, 8K resolution, sharp focus"

// Completer はプロンプト解析に使うテキスト補完バックエンドへの窓口です。
type Completer interface {
	Complete(ctx context.Context, req anthropic.CompletionRequest) (string, error)
}

// Result は合成された画像プロンプトと、その決定経路のタグです。
type Result struct {
	Text string
	Path domain.PromptPath
}

// Synthesizer は生成テキストから画像プロンプトを合成します。
// 優先順位: ユーザー指定 → LLM解析 → 先頭80語のフォールバック。
type Synthesizer struct {
	client Completer // nil の場合は常に basic 経路へ落ちる
}

// NewSynthesizer は新しい Synthesizer を生成して返します。
func NewSynthesizer(client Completer) *Synthesizer {
	return &Synthesizer{client: client}
}

// Synthesize は本文・種別・スタイル・ユーザー指定から最終プロンプトを決定します。
// どの経路を通っても最後にスタイル雛形で包み、品質修飾語の正規化を適用します。
func (s *Synthesizer) Synthesize(ctx context.Context, text string, ct domain.ContentType, style domain.Style, userOverride string) Result {
	// 1. ユーザー指定があれば、英語前提でそのまま本文に採用するのだ
	if override := strings.TrimSpace(userOverride); override != "" {
		return Result{Text: Finalize(override, style), Path: domain.PromptPathPersonalized}
	}

	// 2. LLMによる内容解析を試みる
	if s.client != nil {
		if analyzed, err := s.analyze(ctx, text, ct, style); err == nil {
			return Result{Text: Finalize(analyzed, style), Path: domain.PromptPathIntelligent}
		} else {
			slog.Warn("el análisis visual falló, usando el prompt básico", "error", err)
		}
	}

	// 3. 素朴なフォールバック: 先頭80語を汎用の雛形で包む
	return Result{Text: Finalize(basicPrompt(text), style), Path: domain.PromptPathBasic}
}

// Finalize は本文をスタイル雛形で包み、品質修飾語の正規化を適用した
// 最終プロンプトを返します。どの決定経路でもスタイルは必ず反映されます。
func Finalize(body string, style domain.Style) string {
	return Normalize(domain.ApplyStyle(style, body))
}

// analyze は種別固有の視覚的切り口とスタイル適応指示で本文を解析させます。
func (s *Synthesizer) analyze(ctx context.Context, text string, ct domain.ContentType, style domain.Style) (string, error) {
	spec, _ := domain.ContentOrFallback(ct)
	styleSpec := domain.LookupStyle(style)

	system := fmt.Sprintf(`Eres un director de arte que convierte textos en descripciones visuales para un generador de imágenes.
%s
%s
Responde únicamente con la descripción visual en inglés, sin explicaciones, con un máximo de %d palabras.`,
		spec.VisualAnalysis, styleSpec.Adaptation, analysisWordLimit)

	analyzed, err := s.client.Complete(ctx, anthropic.CompletionRequest{
		System:      system,
		UserMessage: text,
		MaxTokens:   analysisMaxTokens,
		Temperature: analysisTemperature,
	})
	if err != nil {
		return "", err
	}

	analyzed = strings.TrimSpace(analyzed)
	if analyzed == "" {
		return "", fmt.Errorf("el análisis devolvió una descripción vacía")
	}
	return capWords(analyzed, analysisWordLimit), nil
}

// basicPrompt は本文の先頭80語を汎用の写実シーン雛形で包みます。
func basicPrompt(text string) string {
	preview := capWords(text, previewWordLimit)
	return fmt.Sprintf("A realistic scene representing: %s. Real world setting, natural environment, authentic details", preview)
}

// Normalize はプロンプトに品質修飾語を付加します。語彙のいずれかが既に
// （大文字小文字を無視して）含まれている場合は何も変更しません。
// したがって正規化済みの文字列に再適用しても結果は変わりません。
func Normalize(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, term := range qualityVocabulary {
		if strings.Contains(lower, term) {
			return prompt
		}
	}
	return prompt + qualitySuffix
}

// capWords は語数が上限を超える場合に先頭 limit 語へ切り詰めるのだ。
func capWords(s string, limit int) string {
	words := strings.Fields(s)
	if len(words) <= limit {
		return strings.TrimSpace(s)
	}
	return strings.Join(words[:limit], " ")
}
