package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-media-kit/pkg/anthropic"
	"github.com/shouni/go-media-kit/pkg/domain"
)

// テキスト生成は創造性を保つため固定温度 0.7 を使うのだ。
const textTemperature = 0.7

// Completer はテキスト補完バックエンドへの窓口です。
type Completer interface {
	Complete(ctx context.Context, req anthropic.CompletionRequest) (string, error)
}

// TextGenerator はコンテンツ種別ごとの指示テンプレートを使って
// テーマからスペイン語の本文を生成します。
type TextGenerator struct {
	client Completer
}

// NewTextGenerator は新しい TextGenerator を生成して返します。
func NewTextGenerator(client Completer) *TextGenerator {
	return &TextGenerator{client: client}
}

// Generate はテーマと種別から本文を生成します。
// 未知の種別は "texto" の汎用テンプレートへ明示的にフォールバックします。
// バックエンドの失敗はリトライせずそのまま伝搬します。
func (g *TextGenerator) Generate(ctx context.Context, topic string, ct domain.ContentType, maxTokens int) (domain.GeneratedText, error) {
	spec, resolved := domain.ContentOrFallback(ct)
	if resolved != ct {
		slog.Warn("tipo de contenido desconocido, usando plantilla genérica",
			"requested", string(ct), "fallback", string(resolved))
	}

	body, err := g.client.Complete(ctx, anthropic.CompletionRequest{
		System:      spec.SystemPrompt,
		UserMessage: buildUserMessage(topic, resolved, spec),
		MaxTokens:   maxTokens,
		Temperature: textTemperature,
	})
	if err != nil {
		return domain.GeneratedText{}, fmt.Errorf("la generación de texto falló: %w", err)
	}

	return domain.NewGeneratedText(body, resolved), nil
}

// buildUserMessage はテーマと種別固有の構成指示を埋め込んだ
// ユーザーメッセージを組み立てます。
func buildUserMessage(topic string, ct domain.ContentType, spec domain.ContentSpec) string {
	return fmt.Sprintf(`Crea un %s sobre: %s

Por favor, asegúrate de que el contenido sea:
1. Completo y bien desarrollado
2. Apropiado para el tipo de contenido solicitado
3. Interesante y bien escrito
4. Listo para ser presentado como contenido final

%s`, string(ct), topic, spec.Structure)
}
