package speech

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-media-kit/pkg/domain"
)

func TestPrepareText(t *testing.T) {
	t.Run("改行をナレーション向けに整形すること", func(t *testing.T) {
		got := PrepareText("Primer párrafo.\n\nSegundo párrafo.\nContinúa.", 4000)
		assert.Equal(t, "Primer párrafo.. Segundo párrafo. Continúa.", got)
	})

	t.Run("上限以内のテキストは切り詰めないこと", func(t *testing.T) {
		got := PrepareText("corto", 4000)
		assert.Equal(t, "corto", got)
	})

	t.Run("上限超過はルーン単位で切り詰めて省略記号を付けること", func(t *testing.T) {
		long := strings.Repeat("ñ", 5000)
		got := PrepareText(long, 4000)
		runes := []rune(got)
		assert.Len(t, runes, 4003)
		assert.True(t, strings.HasSuffix(got, "..."))
		// マルチバイト文字の途中で切れていないこと
		assert.Equal(t, strings.Repeat("ñ", 4000), string(runes[:4000]))
	})
}

// mockSpeechCreator はテスト用の speechCreator 実装です。
type mockSpeechCreator struct {
	lastReq openai.CreateSpeechRequest
	data    string
	err     error
}

func (m *mockSpeechCreator) CreateSpeech(_ context.Context, req openai.CreateSpeechRequest) (openai.RawResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return openai.RawResponse{}, m.err
	}
	return openai.RawResponse{ReadCloser: io.NopCloser(strings.NewReader(m.data))}, nil
}

func TestOpenAISynthesizer_Synthesize(t *testing.T) {
	mock := &mockSpeechCreator{data: "mp3-bytes"}
	syn := &OpenAISynthesizer{client: mock}

	audio, err := syn.Synthesize(context.Background(), "Hola\n\nMundo", "nova")
	require.NoError(t, err)

	assert.Equal(t, openai.TTSModel1HD, mock.lastReq.Model)
	assert.Equal(t, openai.SpeechVoice("nova"), mock.lastReq.Voice)
	assert.Equal(t, "Hola. Mundo", mock.lastReq.Input)
	assert.Equal(t, []byte("mp3-bytes"), audio.Data)
	assert.Equal(t, domain.SpeechProviderOpenAI, audio.Provider)
	assert.Equal(t, "nova", audio.Voice)
	assert.Equal(t, len("mp3-bytes"), audio.SizeBytes)
}

func TestOpenAISynthesizer_上限4000で切り詰める(t *testing.T) {
	mock := &mockSpeechCreator{data: "x"}
	syn := &OpenAISynthesizer{client: mock}

	_, err := syn.Synthesize(context.Background(), strings.Repeat("a", 5000), "alloy")
	require.NoError(t, err)
	assert.Len(t, []rune(mock.lastReq.Input), 4003)
}

func TestNewOpenAISynthesizer_キー未設定はConfigurationError(t *testing.T) {
	_, err := NewOpenAISynthesizer("")
	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestElevenLabsSynthesizer_Synthesize(t *testing.T) {
	var gotPath, gotKey string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	syn, err := NewElevenLabsSynthesizer("el-key", WithElevenLabsBaseURL(server.URL))
	require.NoError(t, err)

	audio, err := syn.Synthesize(context.Background(), "Hola mundo", "voice-abc")
	require.NoError(t, err)

	assert.Equal(t, "/v1/text-to-speech/voice-abc", gotPath)
	assert.Equal(t, "el-key", gotKey)
	assert.Contains(t, string(gotBody), `"model_id":"eleven_multilingual_v2"`)
	assert.Contains(t, string(gotBody), `"stability":0.5`)
	assert.Contains(t, string(gotBody), `"similarity_boost":0.75`)
	assert.Equal(t, domain.SpeechProviderElevenLabs, audio.Provider)
	assert.Equal(t, []byte("mp3-bytes"), audio.Data)
}

func TestElevenLabsSynthesizer_非200はUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	syn, err := NewElevenLabsSynthesizer("el-key", WithElevenLabsBaseURL(server.URL))
	require.NoError(t, err)

	_, err = syn.Synthesize(context.Background(), "Hola", "voice-abc")
	var upErr *domain.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusTooManyRequests, upErr.StatusCode)
	assert.Equal(t, "elevenlabs", upErr.Provider)
}
