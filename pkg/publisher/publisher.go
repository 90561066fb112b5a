package publisher

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/go-media-kit/pkg/domain"
)

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string
	Title     string
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	TextPath   string   // 生成された本文 content.md のパス
	IndexPath  string   // 生成された index.md のパス
	ImagePaths []string // 保存された全画像のパスリスト
	AudioPath  string   // 保存されたナレーションのパス。音声なしなら空
}

const (
	defaultTextName  = "content.md"
	defaultIndexName = "index.md"
	defaultAudioName = "narration.mp3"
	imageDirName     = "images"
)

// ファイル名に使えない文字をまとめて潰すのだ
var unsafeNameRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// MediaPublisher は生成された成果物一式の永続化を担います。
// ローカルディレクトリと gs:// の両方に書き出せます。
type MediaPublisher struct {
	writer remoteio.OutputWriter
}

// NewMediaPublisher は新しい MediaPublisher を生成して返します。
func NewMediaPublisher(writer remoteio.OutputWriter) *MediaPublisher {
	return &MediaPublisher{writer: writer}
}

// Publish は本文・画像・音声の保存と目次Markdownの構築を一括して実行し、
// 生成されたファイル情報を返却するのだ！
func (p *MediaPublisher) Publish(ctx context.Context, result *domain.PipelineResult, opts Options) (PublishResult, error) {
	published := PublishResult{}

	if result == nil || result.Text == nil {
		return published, fmt.Errorf("no hay texto que publicar")
	}

	// 1. 本文の書き出し
	textPath, err := ResolveOutputPath(opts.OutputDir, defaultTextName)
	if err != nil {
		return published, err
	}
	body := fmt.Sprintf("# %s\n\n%s\n", opts.Title, result.Text.Body)
	if err := p.writer.Write(ctx, textPath, strings.NewReader(body), "text/markdown; charset=utf-8"); err != nil {
		return published, fmt.Errorf("la escritura del texto falló: %w", err)
	}
	published.TextPath = textPath

	// 2. 画像の保存
	imgDir, err := ResolveOutputPath(opts.OutputDir, imageDirName)
	if err != nil {
		return published, err
	}
	published.ImagePaths, err = p.saveImages(ctx, result, imgDir)
	if err != nil {
		return published, fmt.Errorf("la escritura de imágenes falló: %w", err)
	}

	// 3. 音声の保存
	if result.Audio != nil {
		audioPath, err := ResolveOutputPath(opts.OutputDir, defaultAudioName)
		if err != nil {
			return published, err
		}
		if err := p.writer.Write(ctx, audioPath, bytes.NewReader(result.Audio.Data), "audio/mpeg"); err != nil {
			return published, fmt.Errorf("la escritura del audio falló: %w", err)
		}
		published.AudioPath = audioPath
	}

	// 4. 目次Markdownの構築と書き出し
	indexPath, err := ResolveOutputPath(opts.OutputDir, defaultIndexName)
	if err != nil {
		return published, err
	}
	index := p.buildIndex(result, opts.Title, published)
	if err := p.writer.Write(ctx, indexPath, strings.NewReader(index), "text/markdown; charset=utf-8"); err != nil {
		return published, fmt.Errorf("la escritura del índice falló: %w", err)
	}
	published.IndexPath = indexPath

	return published, nil
}

// saveImages は単一画像とシーケンス画像をまとめて保存し、パスの一覧を返します。
func (p *MediaPublisher) saveImages(ctx context.Context, result *domain.PipelineResult, baseDir string) ([]string, error) {
	var paths []string

	write := func(name string, data []byte) error {
		fullPath, err := ResolveOutputPath(baseDir, name)
		if err != nil {
			return err
		}
		if err := p.writer.Write(ctx, fullPath, bytes.NewReader(data), "image/png"); err != nil {
			return fmt.Errorf("%s: %w", fullPath, err)
		}
		paths = append(paths, fullPath)
		return nil
	}

	if result.Image != nil && len(result.Image.Data) > 0 {
		if err := write("scene.png", result.Image.Data); err != nil {
			return nil, err
		}
	}
	for _, seq := range result.Sequences {
		for i, img := range seq.Images {
			if len(img.Data) == 0 {
				continue
			}
			name := fmt.Sprintf("%s_%02d.png", safeName(seq.Profile.Name), i+1)
			if err := write(name, img.Data); err != nil {
				return nil, err
			}
		}
	}
	return paths, nil
}

// buildIndex は成果物の目次Markdownを組み立てます。
func (p *MediaPublisher) buildIndex(result *domain.PipelineResult, title string, published PublishResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("- Tipo: %s\n", result.Text.ContentType))
	sb.WriteString(fmt.Sprintf("- Palabras: %d\n", result.Text.WordCount))
	sb.WriteString(fmt.Sprintf("- Texto: [%s](%s)\n", defaultTextName, defaultTextName))
	if published.AudioPath != "" {
		sb.WriteString(fmt.Sprintf("- Narración: [%s](%s)\n", defaultAudioName, defaultAudioName))
	}
	sb.WriteString("\n")

	for _, pathStr := range published.ImagePaths {
		rel := path.Join(imageDirName, filepath.Base(pathStr))
		sb.WriteString(fmt.Sprintf("![%s](%s)\n\n", filepath.Base(pathStr), rel))
	}

	if len(result.Failures) > 0 {
		sb.WriteString("## Avisos\n\n")
		for _, f := range result.Failures {
			sb.WriteString(fmt.Sprintf("- etapa %s: %v\n", f.Stage, f.Err))
		}
	}
	return sb.String()
}

func safeName(name string) string {
	cleaned := unsafeNameRegex.ReplaceAllString(name, "_")
	cleaned = strings.Trim(cleaned, "_")
	if cleaned == "" {
		return "character"
	}
	return strings.ToLower(cleaned)
}
