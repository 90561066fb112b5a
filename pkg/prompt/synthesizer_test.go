package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-media-kit/pkg/anthropic"
	"github.com/shouni/go-media-kit/pkg/domain"
)

// mockCompleter はテスト用の Completer 実装です。
type mockCompleter struct {
	response string
	err      error
	calls    int
	lastReq  anthropic.CompletionRequest
}

func (m *mockCompleter) Complete(_ context.Context, req anthropic.CompletionRequest) (string, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func TestSynthesize_ユーザー指定はLLMを呼ばない(t *testing.T) {
	mock := &mockCompleter{response: "should not be used"}
	syn := NewSynthesizer(mock)

	res := syn.Synthesize(context.Background(), "本文テキスト", domain.ContentTexto, domain.StylePhotorealistic, "a lone lighthouse at dusk")

	assert.Equal(t, domain.PromptPathPersonalized, res.Path)
	assert.Contains(t, res.Text, "a lone lighthouse at dusk")
	assert.True(t, strings.HasPrefix(res.Text, "Photorealistic, high-quality photograph of:"), "指定プロンプトもスタイル雛形で包むこと")
	assert.Equal(t, 0, mock.calls, "指定プロンプトがある場合は解析を実行しない")
}

func TestSynthesize_LLM解析経路(t *testing.T) {
	mock := &mockCompleter{response: "A bustling market square in southern Spain, morning light"}
	syn := NewSynthesizer(mock)

	res := syn.Synthesize(context.Background(), "Un artículo sobre los mercados de Sevilla.", domain.ContentArticulo, domain.StyleCinematic, "")

	require.Equal(t, 1, mock.calls)
	assert.Equal(t, domain.PromptPathIntelligent, res.Path)
	assert.Contains(t, res.Text, "market square")
	assert.True(t, strings.HasPrefix(res.Text, "Cinematic scene of:"), "解析結果もスタイル雛形で包むこと")
	assert.InDelta(t, 0.3, mock.lastReq.Temperature, 1e-9)

	// システム指示に種別の視覚解析とスタイル適応の両方が入ること
	spec, _ := domain.ContentOrFallback(domain.ContentArticulo)
	styleSpec := domain.LookupStyle(domain.StyleCinematic)
	assert.Contains(t, mock.lastReq.System, spec.VisualAnalysis)
	assert.Contains(t, mock.lastReq.System, styleSpec.Adaptation)
}

func TestSynthesize_解析失敗でbasicへフォールバック(t *testing.T) {
	mock := &mockCompleter{err: errors.New("upstream down")}
	syn := NewSynthesizer(mock)

	res := syn.Synthesize(context.Background(), "Una receta de paella valenciana con arroz y azafrán.", domain.ContentReceta, domain.StylePhotorealistic, "")

	assert.Equal(t, domain.PromptPathBasic, res.Path)
	assert.Contains(t, res.Text, "A realistic scene representing: Una receta de paella")
	assert.Contains(t, res.Text, "authentic details")
}

func TestSynthesize_basic経路にもスタイル雛形が掛かる(t *testing.T) {
	syn := NewSynthesizer(nil)

	res := syn.Synthesize(context.Background(), "Un relato sobre el pueblo.", domain.ContentRelato, domain.StyleDigitalArt, "")

	assert.Equal(t, domain.PromptPathBasic, res.Path)
	assert.True(t, strings.HasPrefix(res.Text, "High-quality digital artwork of:"))
	assert.Contains(t, res.Text, "A realistic scene representing: Un relato sobre el pueblo")
}

func TestSynthesize_クライアント無しはbasic(t *testing.T) {
	syn := NewSynthesizer(nil)

	res := syn.Synthesize(context.Background(), "Texto breve.", domain.ContentTexto, domain.StylePhotorealistic, "")

	assert.Equal(t, domain.PromptPathBasic, res.Path)
}

func TestBasicPromptは80語で切り詰める(t *testing.T) {
	words := make([]string, 120)
	for i := range words {
		words[i] = "palabra"
	}
	got := basicPrompt(strings.Join(words, " "))

	body := strings.TrimPrefix(got, "A realistic scene representing: ")
	body = strings.TrimSuffix(body, ". Real world setting, natural environment, authentic details")
	assert.Len(t, strings.Fields(body), 80)
}

func TestNormalizeは冪等(t *testing.T) {
	once := Normalize("a quiet mountain lake at dawn")
	twice := Normalize(once)

	assert.Equal(t, once, twice)
	assert.Contains(t, once, "high quality")
}

func TestNormalize_既存語彙は大文字小文字を無視して検出(t *testing.T) {
	prompt := "Detailed oil painting of a ship"
	assert.Equal(t, prompt, Normalize(prompt), "'Detailed' が既にあるので追記しない")

	upsampled := "masterpiece, a castle on a hill"
	assert.Equal(t, upsampled, Normalize(upsampled))
}
