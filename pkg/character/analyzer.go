package character

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/shouni/go-media-kit/pkg/anthropic"
	"github.com/shouni/go-media-kit/pkg/domain"
)

const (
	// 構造化出力は多少の揺らぎを許しつつ低めの温度で行うのだ
	analysisTemperature = 0.4
	analysisMaxTokens   = 3000

	defaultCacheTTL = 30 * time.Minute
)

const analysisSystemPrompt = `Eres un analista de narrativas. Extrae los personajes principales del texto dado.
Responde ÚNICAMENTE con JSON válido, sin texto adicional ni bloques de código, con esta estructura exacta:
{
  "has_characters": true,
  "characters": [
    {
      "name": "nombre del personaje",
      "category": "human | animal | creature",
      "description": "descripción visual en inglés (apariencia, ropa, edad)",
      "key_features": ["rasgo distintivo 1", "rasgo distintivo 2"],
      "scenes": [
        {
          "action": "acción breve en inglés",
          "description": "descripción visual de la escena en inglés",
          "camera": "encuadre de cámara",
          "emotion": "emoción dominante",
          "lighting": "iluminación"
        }
      ]
    }
  ]
}
Si el texto no tiene personajes identificables, responde {"has_characters": false, "characters": []}.`

// Completer はキャラクター抽出に使うテキスト補完バックエンドへの窓口です。
type Completer interface {
	Complete(ctx context.Context, req anthropic.CompletionRequest) (string, error)
}

// Analyzer は本文からキャラクターと登場シーンを抽出します。
// 同一本文に対する解析結果はキャッシュで再利用します。
type Analyzer struct {
	client Completer
	memo   *cache.Cache
}

// NewAnalyzer は新しい Analyzer を生成して返します。
func NewAnalyzer(client Completer) *Analyzer {
	return &Analyzer{
		client: client,
		memo:   cache.New(defaultCacheTTL, 1*time.Hour),
	}
}

// Analyze は本文を解析し、キャラクターとシーンの一覧を返します。
// 応答がJSONとして解析できない場合はエラーにせず、キャラクター無しとして
// 返します。呼び出し側はその場合に単一画像モードへ切り替えるのだ。
func (a *Analyzer) Analyze(ctx context.Context, text string) (domain.CharacterAnalysis, error) {
	key := cacheKey(text)
	if cached, ok := a.memo.Get(key); ok {
		return cached.(domain.CharacterAnalysis), nil
	}

	raw, err := a.client.Complete(ctx, anthropic.CompletionRequest{
		System:      analysisSystemPrompt,
		UserMessage: text,
		MaxTokens:   analysisMaxTokens,
		Temperature: analysisTemperature,
	})
	if err != nil {
		return domain.CharacterAnalysis{}, fmt.Errorf("el análisis de personajes falló: %w", err)
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		// パース失敗は致命ではない。単一画像モードへの退避材料として扱う。
		slog.Warn("la respuesta del análisis no es JSON válido, continuando sin personajes", "error", err)
		analysis = domain.CharacterAnalysis{HasCharacters: false}
	}

	a.memo.Set(key, analysis, cache.DefaultExpiration)
	return analysis, nil
}

// parseAnalysis は、AIが返したテキストからMarkdownのコードブロック等を除去してJSONとしてパースするのだ。
func parseAnalysis(raw string) (domain.CharacterAnalysis, error) {
	rawJSON := strings.TrimSpace(raw)
	rawJSON = strings.TrimPrefix(rawJSON, "```json")
	rawJSON = strings.TrimPrefix(rawJSON, "```")
	rawJSON = strings.TrimSuffix(rawJSON, "```")
	rawJSON = strings.TrimSpace(rawJSON)

	var analysis domain.CharacterAnalysis
	if err := json.Unmarshal([]byte(rawJSON), &analysis); err != nil {
		return domain.CharacterAnalysis{}, &domain.ParseError{Cause: err}
	}

	// 名前を持たないキャラクターはシードが計算できないため除外する
	kept := analysis.Characters[:0]
	for _, ch := range analysis.Characters {
		if strings.TrimSpace(ch.Name) == "" {
			continue
		}
		kept = append(kept, ch)
	}
	analysis.Characters = kept
	if len(analysis.Characters) == 0 {
		analysis.HasCharacters = false
	}
	return analysis, nil
}

func cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
