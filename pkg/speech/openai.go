package speech

import (
	"context"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/shouni/go-media-kit/pkg/domain"
)

// speechCreator は go-openai クライアントの音声合成部分だけを切り出した
// 窓口です。*openai.Client がこれを満たします。
type speechCreator interface {
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// OpenAISynthesizer は OpenAI の音声合成APIでナレーションを生成します。
type OpenAISynthesizer struct {
	client speechCreator
}

// NewOpenAISynthesizer は新しい OpenAISynthesizer を生成して返します。
func NewOpenAISynthesizer(apiKey string) (*OpenAISynthesizer, error) {
	if apiKey == "" {
		return nil, &domain.ConfigurationError{Field: "OPENAI_API_KEY"}
	}
	return &OpenAISynthesizer{client: openai.NewClient(apiKey)}, nil
}

// Synthesize は本文を整形・切り詰めたうえでMP3の音声トラックを返します。
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text, voice string) (*domain.RenderedAudio, error) {
	prepared := PrepareText(text, OpenAICharLimit)

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1HD,
		Input:          prepared,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("la síntesis de voz de OpenAI falló: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("la lectura del audio falló: %w", err)
	}

	return &domain.RenderedAudio{
		Data:      data,
		Voice:     voice,
		Provider:  domain.SpeechProviderOpenAI,
		SizeBytes: len(data),
		CreatedAt: time.Now(),
	}, nil
}
