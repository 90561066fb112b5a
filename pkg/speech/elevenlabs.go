package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shouni/go-media-kit/pkg/domain"
)

const (
	elevenLabsBaseURL = "https://api.elevenlabs.io"
	elevenLabsModel   = "eleven_multilingual_v2"

	// 声質チューニング（落ち着いたナレーション向けの固定値）
	elevenStability       = 0.5
	elevenSimilarityBoost = 0.75
	elevenStyle           = 0.0
)

// ElevenLabsSynthesizer は ElevenLabs の音声合成APIでナレーションを生成します。
type ElevenLabsSynthesizer struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// ElevenLabsOption は ElevenLabsSynthesizer の挙動を調整します。
type ElevenLabsOption func(*ElevenLabsSynthesizer)

// WithElevenLabsBaseURL はAPIのベースURLを差し替えます（テスト用）。
func WithElevenLabsBaseURL(u string) ElevenLabsOption {
	return func(s *ElevenLabsSynthesizer) { s.baseURL = u }
}

// WithElevenLabsHTTPClient はHTTPクライアントを差し替えます。
func WithElevenLabsHTTPClient(hc *http.Client) ElevenLabsOption {
	return func(s *ElevenLabsSynthesizer) { s.httpClient = hc }
}

// NewElevenLabsSynthesizer は新しい ElevenLabsSynthesizer を生成して返します。
func NewElevenLabsSynthesizer(apiKey string, opts ...ElevenLabsOption) (*ElevenLabsSynthesizer, error) {
	if apiKey == "" {
		return nil, &domain.ConfigurationError{Field: "ELEVENLABS_API_KEY"}
	}
	s := &ElevenLabsSynthesizer{
		apiKey:     apiKey,
		baseURL:    elevenLabsBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type elevenLabsRequest struct {
	Text          string              `json:"text"`
	ModelID       string              `json:"model_id"`
	VoiceSettings elevenVoiceSettings `json:"voice_settings"`
}

type elevenVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
}

// Synthesize は本文を整形・切り詰めたうえでMP3の音声トラックを返します。
// voice にはElevenLabsのボイスIDを渡します。
func (s *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text, voice string) (*domain.RenderedAudio, error) {
	prepared := PrepareText(text, ElevenLabsCharLimit)

	body, err := json.Marshal(elevenLabsRequest{
		Text:    prepared,
		ModelID: elevenLabsModel,
		VoiceSettings: elevenVoiceSettings{
			Stability:       elevenStability,
			SimilarityBoost: elevenSimilarityBoost,
			Style:           elevenStyle,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("la serialización de la petición falló: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", s.baseURL, voice)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("la síntesis de voz de ElevenLabs falló: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("la lectura del audio falló: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{Provider: "elevenlabs", StatusCode: resp.StatusCode, Message: string(data)}
	}

	return &domain.RenderedAudio{
		Data:      data,
		Voice:     voice,
		Provider:  domain.SpeechProviderElevenLabs,
		SizeBytes: len(data),
		CreatedAt: time.Now(),
	}, nil
}
