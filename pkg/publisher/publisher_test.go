package publisher

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-media-kit/pkg/domain"
)

// memoryWriter は remoteio.OutputWriter を満たすテスト用の書き込み先です。
type memoryWriter struct {
	files map[string][]byte
	types map[string]string
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{files: map[string][]byte{}, types: map[string]string{}}
}

func (w *memoryWriter) Write(_ context.Context, path string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	w.files[path] = data
	w.types[path] = contentType
	return nil
}

func sampleResult() *domain.PipelineResult {
	text := domain.NewGeneratedText("Un relato sobre María.", domain.ContentRelato)
	return &domain.PipelineResult{
		Text: &text,
		Sequences: []domain.CharacterRender{
			{
				Profile: domain.CharacterProfile{Name: "María López"},
				Images: []domain.RenderedImage{
					{Data: []byte("png-1"), CharacterName: "María López", SceneLabel: "walking"},
					{Data: []byte("png-2"), CharacterName: "María López", SceneLabel: "reading"},
				},
			},
		},
		Audio: &domain.RenderedAudio{Data: []byte("mp3"), Voice: "nova", Provider: domain.SpeechProviderOpenAI, SizeBytes: 3},
	}
}

func TestPublish_成果物一式を書き出す(t *testing.T) {
	writer := newMemoryWriter()
	pub := NewMediaPublisher(writer)

	published, err := pub.Publish(context.Background(), sampleResult(), Options{OutputDir: "out", Title: "Relato"})
	require.NoError(t, err)

	assert.Equal(t, "out/content.md", published.TextPath)
	assert.Equal(t, "out/index.md", published.IndexPath)
	assert.Equal(t, "out/narration.mp3", published.AudioPath)
	require.Len(t, published.ImagePaths, 2)
	assert.Contains(t, published.ImagePaths[0], "mar_a_l_pez_01.png")

	assert.Equal(t, "text/markdown; charset=utf-8", writer.types["out/content.md"])
	assert.Equal(t, "audio/mpeg", writer.types["out/narration.mp3"])
	assert.Equal(t, "image/png", writer.types[published.ImagePaths[0]])

	index := string(writer.files["out/index.md"])
	assert.Contains(t, index, "# Relato")
	assert.Contains(t, index, "narration.mp3")
	assert.Contains(t, index, "images/mar_a_l_pez_01.png")
}

func TestPublish_音声なしでも目次は生成される(t *testing.T) {
	writer := newMemoryWriter()
	pub := NewMediaPublisher(writer)

	result := sampleResult()
	result.Audio = nil
	published, err := pub.Publish(context.Background(), result, Options{OutputDir: "out", Title: "Relato"})
	require.NoError(t, err)

	assert.Empty(t, published.AudioPath)
	assert.NotContains(t, string(writer.files["out/index.md"]), "narration.mp3")
}

func TestPublish_失敗記録は目次に載る(t *testing.T) {
	writer := newMemoryWriter()
	pub := NewMediaPublisher(writer)

	result := sampleResult()
	result.RecordFailure(domain.StageAudio, assert.AnError)
	_, err := pub.Publish(context.Background(), result, Options{OutputDir: "out", Title: "Relato"})
	require.NoError(t, err)

	assert.Contains(t, string(writer.files["out/index.md"]), "## Avisos")
}

func TestPublish_テキストなしはエラー(t *testing.T) {
	pub := NewMediaPublisher(newMemoryWriter())
	_, err := pub.Publish(context.Background(), &domain.PipelineResult{}, Options{OutputDir: "out"})
	assert.Error(t, err)
}

func TestResolveOutputPath_GCSとローカル(t *testing.T) {
	gcs, err := ResolveOutputPath("gs://bucket/dir", "content.md")
	require.NoError(t, err)
	assert.Equal(t, "gs://bucket/dir/content.md", gcs)

	local, err := ResolveOutputPath("out", "content.md")
	require.NoError(t, err)
	assert.Equal(t, "out/content.md", local)
}
