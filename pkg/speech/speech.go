package speech

import (
	"context"
	"strings"

	"github.com/shouni/go-media-kit/pkg/domain"
)

// プロバイダーごとの入力文字数上限（ルーン単位で数えるのだ）
const (
	OpenAICharLimit     = 4000
	ElevenLabsCharLimit = 5000
)

const truncationMarker = "..."

// Synthesizer はテキストから音声トラックを合成します。
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (*domain.RenderedAudio, error)
}

// PrepareText は本文をナレーション向けに整形し、上限を超える場合は
// ルーン単位で切り詰めて省略記号を付けます。
// 段落区切りは文の区切りとして読み上げに反映させます。
func PrepareText(text string, limit int) string {
	prepared := strings.ReplaceAll(text, "\n\n", ". ")
	prepared = strings.ReplaceAll(prepared, "\n", " ")
	prepared = strings.TrimSpace(prepared)

	runes := []rune(prepared)
	if len(runes) <= limit {
		return prepared
	}
	return string(runes[:limit]) + truncationMarker
}
