package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Stage はパイプラインの処理段階を表します。
type Stage string

const (
	StageText              Stage = "text"
	StageCharacterAnalysis Stage = "character_analysis"
	StageImage             Stage = "image"
	StageAudio             Stage = "audio"
)

// PromptPath は画像プロンプトがどの経路で決定されたかを示すタグです。
type PromptPath string

const (
	PromptPathPersonalized PromptPath = "personalized" // ユーザー指定プロンプトをそのまま採用
	PromptPathIntelligent  PromptPath = "intelligent"  // LLMによる内容解析で生成
	PromptPathBasic        PromptPath = "basic"        // 先頭80語の素朴なフォールバック
)

// GeneratedText はテキスト生成ステージの出力です。生成後は変更されません。
type GeneratedText struct {
	Body        string
	ContentType ContentType
	WordCount   int
	CharCount   int
	CreatedAt   time.Time
}

// NewGeneratedText は本文から派生メタデータを計算して GeneratedText を作るのだ。
func NewGeneratedText(body string, ct ContentType) GeneratedText {
	return GeneratedText{
		Body:        body,
		ContentType: ct,
		WordCount:   len(strings.Fields(body)),
		CharCount:   utf8.RuneCountInString(body),
		CreatedAt:   time.Now(),
	}
}

// RenderedImage は生成済み画像1枚とその由来情報です。生成後は変更されません。
type RenderedImage struct {
	Data   []byte // PNG（ロスレス形式へ再エンコード済み）
	Prompt string // バックエンドへ実際に送信したプロンプト文字列
	Seed   int64  // 使用したシード。未使用なら 0
	Width  int
	Height int

	// シーケンスモードでのみ設定されるフィールド
	CharacterName string
	SceneLabel    string

	CreatedAt time.Time
}

// RenderedAudio は生成済み音声トラックです。生成後は変更されません。
type RenderedAudio struct {
	Data      []byte // MP3
	Voice     string
	Provider  string
	SizeBytes int
	CreatedAt time.Time
}

// CharacterRender は1キャラクター分の画像一式です。
type CharacterRender struct {
	Profile CharacterProfile
	Images  []RenderedImage
}

// StageFailure は失敗したステージとその理由の記録です。
type StageFailure struct {
	Stage Stage
	Err   error
}

// PipelineResult は1回の実行で得られた全成果物の集約です。
// 部分的な結果も正当です。失敗したステージの成果物は欠けますが、
// 完了済みのステージの成果物は保持されます。
type PipelineResult struct {
	Text *GeneratedText

	// 単一画像モードの成果物。シーケンスモードでは nil。
	Image      *RenderedImage
	PromptPath PromptPath

	// シーケンスモードの成果物。キャラクター順・シーン順を保持します。
	Analysis  *CharacterAnalysis
	Sequences []CharacterRender

	Audio *RenderedAudio

	Failures []StageFailure
}

// Failed は指定ステージが失敗として記録されているかを返します。
func (r *PipelineResult) Failed(stage Stage) bool {
	for _, f := range r.Failures {
		if f.Stage == stage {
			return true
		}
	}
	return false
}

// RecordFailure はステージの失敗理由を記録するのだ。
func (r *PipelineResult) RecordFailure(stage Stage, err error) {
	r.Failures = append(r.Failures, StageFailure{Stage: stage, Err: err})
}

// ImageCount は生成された画像の総数を返します。
func (r *PipelineResult) ImageCount() int {
	n := 0
	if r.Image != nil {
		n++
	}
	for _, seq := range r.Sequences {
		n += len(seq.Images)
	}
	return n
}
