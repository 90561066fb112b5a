package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/shouni/go-media-kit/pkg/domain"
	"github.com/shouni/go-media-kit/pkg/flux"
	"github.com/shouni/go-media-kit/pkg/prompt"
	"github.com/shouni/go-media-kit/pkg/speech"
)

// TextGenerator はテキスト生成ステージへの窓口です。
type TextGenerator interface {
	Generate(ctx context.Context, topic string, ct domain.ContentType, maxTokens int) (domain.GeneratedText, error)
}

// PromptSynthesizer は画像プロンプト合成ステージへの窓口です。
type PromptSynthesizer interface {
	Synthesize(ctx context.Context, text string, ct domain.ContentType, style domain.Style, userOverride string) prompt.Result
}

// CharacterAnalyzer はキャラクター抽出ステージへの窓口です。
type CharacterAnalyzer interface {
	Analyze(ctx context.Context, text string) (domain.CharacterAnalysis, error)
}

// ImageRenderer は画像生成バックエンドへの窓口です。
type ImageRenderer interface {
	Render(ctx context.Context, task flux.RenderTask) ([]byte, error)
}

// EventKind はパイプラインの進捗イベントの種別です。
type EventKind string

const (
	EventStarted   EventKind = "started"
	EventCompleted EventKind = "completed"
	EventFailed    EventKind = "failed"
	EventSkipped   EventKind = "skipped"
)

// Event はステージ単位の進捗通知です。
type Event struct {
	Stage  domain.Stage
	Kind   EventKind
	Detail string
	Err    error
}

// EventFunc は進捗イベントを受け取るコールバックです。
type EventFunc func(Event)

// Orchestrator は各ステージを束ねてコンテンツ一式を生成します。
// テキスト生成の失敗だけが致命で、画像と音声は互いに独立して
// 失敗を記録しながら処理を続けます。
type Orchestrator struct {
	text       TextGenerator
	prompts    PromptSynthesizer
	characters CharacterAnalyzer
	images     ImageRenderer
	speech     map[string]speech.Synthesizer

	varySeedPerScene bool
	renderInterval   time.Duration
	events           EventFunc
}

// Option は Orchestrator の構成を調整します。
type Option func(*Orchestrator)

// WithPromptSynthesizer は画像プロンプト合成器を設定します。
func WithPromptSynthesizer(p PromptSynthesizer) Option {
	return func(o *Orchestrator) { o.prompts = p }
}

// WithCharacterAnalyzer はキャラクター抽出器を設定します。
func WithCharacterAnalyzer(a CharacterAnalyzer) Option {
	return func(o *Orchestrator) { o.characters = a }
}

// WithImageRenderer は画像生成バックエンドを設定します。
func WithImageRenderer(r ImageRenderer) Option {
	return func(o *Orchestrator) { o.images = r }
}

// WithSpeechSynthesizer は指定プロバイダーの音声合成器を登録します。
func WithSpeechSynthesizer(provider string, s speech.Synthesizer) Option {
	return func(o *Orchestrator) { o.speech[provider] = s }
}

// WithVarySeedPerScene はシーンごとにシードを変化させるかを設定します。
// false の場合、同一キャラクターの全シーンが基礎シードを共有します。
func WithVarySeedPerScene(vary bool) Option {
	return func(o *Orchestrator) { o.varySeedPerScene = vary }
}

// WithRenderInterval はシーケンスモードの画像生成の流量制限間隔を設定します。
// 0 は制限なしです。
func WithRenderInterval(d time.Duration) Option {
	return func(o *Orchestrator) { o.renderInterval = d }
}

// WithEvents は進捗イベントのコールバックを設定します。
// シーケンスモードではワーカーから並行に呼ばれるため、
// コールバックは並行呼び出しに安全でなければなりません。
func WithEvents(fn EventFunc) Option {
	return func(o *Orchestrator) { o.events = fn }
}

// New は新しい Orchestrator を生成して返します。
// テキスト生成器は必須、それ以外のステージはオプションです。
func New(text TextGenerator, opts ...Option) (*Orchestrator, error) {
	if text == nil {
		return nil, fmt.Errorf("el generador de texto es obligatorio")
	}
	o := &Orchestrator{
		text:             text,
		speech:           make(map[string]speech.Synthesizer),
		varySeedPerScene: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

func (o *Orchestrator) emit(ev Event) {
	if o.events != nil {
		o.events(ev)
	}
}

// Submit はリクエスト1件を実行し、部分的な成果物を含む結果を返します。
// 検証エラーとテキスト生成の失敗のみが error として返ります。
func (o *Orchestrator) Submit(ctx context.Context, req domain.GenerationRequest) (*domain.PipelineResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &domain.PipelineResult{}

	// 1. テキスト生成。ここで失敗したら後続に渡せるものがないので打ち切るのだ。
	o.emit(Event{Stage: domain.StageText, Kind: EventStarted})
	text, err := o.text.Generate(ctx, req.Topic, req.ContentType, req.MaxTokens)
	if err != nil {
		o.emit(Event{Stage: domain.StageText, Kind: EventFailed, Err: err})
		return nil, fmt.Errorf("la generación de texto falló: %w", err)
	}
	result.Text = &text
	o.emit(Event{Stage: domain.StageText, Kind: EventCompleted, Detail: fmt.Sprintf("%d palabras", text.WordCount)})

	// 2. 画像生成。失敗は記録して続行する。
	if o.images != nil {
		o.runImageStage(ctx, req, text, result)
	} else {
		o.emit(Event{Stage: domain.StageImage, Kind: EventSkipped})
	}

	// 3. 音声合成。画像とは独立して実行する。
	if len(o.speech) > 0 {
		o.runAudioStage(ctx, req, text, result)
	} else {
		o.emit(Event{Stage: domain.StageAudio, Kind: EventSkipped})
	}

	return result, nil
}

// runImageStage はモードに応じて単一画像かシーケンス生成を実行します。
// シーケンスモードでキャラクター抽出に失敗した場合は単一画像モードへ退避します。
func (o *Orchestrator) runImageStage(ctx context.Context, req domain.GenerationRequest, text domain.GeneratedText, result *domain.PipelineResult) {
	o.emit(Event{Stage: domain.StageImage, Kind: EventStarted})

	if req.SequenceMode && o.characters != nil {
		o.emit(Event{Stage: domain.StageCharacterAnalysis, Kind: EventStarted})
		analysis, err := o.characters.Analyze(ctx, text.Body)
		switch {
		case err != nil:
			slog.Warn("el análisis de personajes falló, cambiando a imagen única", "error", err)
			result.RecordFailure(domain.StageCharacterAnalysis, err)
			o.emit(Event{Stage: domain.StageCharacterAnalysis, Kind: EventFailed, Err: err})
		case !analysis.HasCharacters:
			slog.Info("el texto no tiene personajes identificables, generando imagen única")
			result.Analysis = &analysis
			o.emit(Event{Stage: domain.StageCharacterAnalysis, Kind: EventCompleted, Detail: "sin personajes"})
		default:
			result.Analysis = &analysis
			o.emit(Event{Stage: domain.StageCharacterAnalysis, Kind: EventCompleted, Detail: fmt.Sprintf("%d personajes", len(analysis.Characters))})
			o.renderSequences(ctx, req, analysis, result)
			return
		}
	}

	o.renderSingle(ctx, req, text, result)
}

// renderSingle は本文全体を表す1枚の画像を生成します。
func (o *Orchestrator) renderSingle(ctx context.Context, req domain.GenerationRequest, text domain.GeneratedText, result *domain.PipelineResult) {
	var imagePrompt string
	path := domain.PromptPathBasic
	if o.prompts != nil {
		synth := o.prompts.Synthesize(ctx, text.Body, req.ContentType, req.Style, req.ImagePrompt)
		imagePrompt, path = synth.Text, synth.Path
	} else {
		override := strings.TrimSpace(req.ImagePrompt)
		if override == "" {
			err := fmt.Errorf("no hay sintetizador de prompts ni prompt de usuario")
			result.RecordFailure(domain.StageImage, err)
			o.emit(Event{Stage: domain.StageImage, Kind: EventFailed, Err: err})
			return
		}
		imagePrompt = prompt.Finalize(override, req.Style)
		path = domain.PromptPathPersonalized
	}

	data, err := o.images.Render(ctx, flux.RenderTask{
		Prompt:      imagePrompt,
		Model:       req.ImageModel,
		Width:       req.Width,
		Height:      req.Height,
		Steps:       req.Steps,
		AspectRatio: req.AspectRatio(),
	})
	if err != nil {
		result.RecordFailure(domain.StageImage, err)
		o.emit(Event{Stage: domain.StageImage, Kind: EventFailed, Err: err})
		return
	}

	result.Image = &domain.RenderedImage{
		Data:      data,
		Prompt:    imagePrompt,
		Width:     req.Width,
		Height:    req.Height,
		CreatedAt: time.Now(),
	}
	result.PromptPath = path
	o.emit(Event{Stage: domain.StageImage, Kind: EventCompleted, Detail: "1 imagen"})
}

// sceneJob はシーケンスモードの1枚分のジョブです。
type sceneJob struct {
	charIndex  int
	sceneIndex int
	profile    domain.CharacterProfile
	scene      domain.SceneSpec
}

// renderSequences は全キャラクターの全シーンを並列に生成します。
// 1枚の失敗が他の枚を道連れにしないよう、エラーは枚ごとに記録するのだ。
func (o *Orchestrator) renderSequences(ctx context.Context, req domain.GenerationRequest, analysis domain.CharacterAnalysis, result *domain.PipelineResult) {
	var jobs []sceneJob
	for ci, profile := range analysis.Characters {
		for si, scene := range profile.Scenes {
			jobs = append(jobs, sceneJob{charIndex: ci, sceneIndex: si, profile: profile, scene: scene})
		}
	}
	if len(jobs) == 0 {
		slog.Info("los personajes no tienen escenas, generando imagen única")
		o.renderSingle(ctx, req, *result.Text, result)
		return
	}

	images := make([]*domain.RenderedImage, len(jobs))
	errs := make([]error, len(jobs))
	eg, egCtx := errgroup.WithContext(ctx)

	// 流量制限。Burst 2 により、開始直後に2枚までは同時にリクエストを開始できるのだ
	var limiter *rate.Limiter
	if o.renderInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(o.renderInterval), 2)
	}
	slog.Info("iniciando la generación paralela de escenas", "count", len(jobs))

	for i, job := range jobs {
		i, job := i, job
		eg.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(egCtx); err != nil {
					errs[i] = err
					return nil
				}
			}

			label := fmt.Sprintf("%s: %s", job.profile.Name, job.scene.Action)
			o.emit(Event{Stage: domain.StageImage, Kind: EventStarted, Detail: label})

			scenePrompt := buildScenePrompt(job.profile, job.scene, req.Style)
			seed := job.profile.SceneSeedFor(job.scene, o.varySeedPerScene)
			data, err := o.images.Render(egCtx, flux.RenderTask{
				Prompt:      scenePrompt,
				Model:       req.ImageModel,
				Width:       req.Width,
				Height:      req.Height,
				Steps:       req.Steps,
				AspectRatio: req.AspectRatio(),
				Seed:        &seed,
			})
			if err != nil {
				// グループ全体は中断せず、このシーンの失敗として記録する
				errs[i] = fmt.Errorf("escena %q de %s: %w", job.scene.Action, job.profile.Name, err)
				o.emit(Event{Stage: domain.StageImage, Kind: EventFailed, Detail: label, Err: err})
				return nil
			}
			images[i] = &domain.RenderedImage{
				Data:          data,
				Prompt:        scenePrompt,
				Seed:          seed,
				Width:         req.Width,
				Height:        req.Height,
				CharacterName: job.profile.Name,
				SceneLabel:    job.scene.Action,
				CreatedAt:     time.Now(),
			}
			o.emit(Event{Stage: domain.StageImage, Kind: EventCompleted, Detail: label})
			return nil
		})
	}
	// ワーカーはエラーを返さないので Wait のエラーは無視できるのだ
	_ = eg.Wait()

	// キャラクター順・シーン順を保って集約する
	renders := make([]domain.CharacterRender, len(analysis.Characters))
	for ci, profile := range analysis.Characters {
		renders[ci] = domain.CharacterRender{Profile: profile}
	}
	failed := 0
	for i, job := range jobs {
		if errs[i] != nil {
			result.RecordFailure(domain.StageImage, errs[i])
			failed++
			continue
		}
		if images[i] != nil {
			renders[job.charIndex].Images = append(renders[job.charIndex].Images, *images[i])
		}
	}
	result.Sequences = renders
	result.PromptPath = domain.PromptPathIntelligent

	detail := fmt.Sprintf("%d/%d imágenes", len(jobs)-failed, len(jobs))
	if failed == len(jobs) {
		o.emit(Event{Stage: domain.StageImage, Kind: EventFailed, Detail: detail})
		return
	}
	o.emit(Event{Stage: domain.StageImage, Kind: EventCompleted, Detail: detail})
}

// runAudioStage は登録済みプロバイダーでナレーションを合成します。
func (o *Orchestrator) runAudioStage(ctx context.Context, req domain.GenerationRequest, text domain.GeneratedText, result *domain.PipelineResult) {
	o.emit(Event{Stage: domain.StageAudio, Kind: EventStarted})

	syn, ok := o.speech[req.SpeechProvider]
	if !ok {
		err := &domain.ConfigurationError{Field: "speech_provider"}
		result.RecordFailure(domain.StageAudio, err)
		o.emit(Event{Stage: domain.StageAudio, Kind: EventFailed, Err: err})
		return
	}

	audio, err := syn.Synthesize(ctx, text.Body, req.Voice)
	if err != nil {
		result.RecordFailure(domain.StageAudio, err)
		o.emit(Event{Stage: domain.StageAudio, Kind: EventFailed, Err: err})
		return
	}
	result.Audio = audio
	o.emit(Event{Stage: domain.StageAudio, Kind: EventCompleted, Detail: fmt.Sprintf("%d bytes", audio.SizeBytes)})
}

// buildScenePrompt はキャラクターの外見記述とシーン指定から
// 一貫性のある画像プロンプトを組み立てます。
func buildScenePrompt(profile domain.CharacterProfile, scene domain.SceneSpec, style domain.Style) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, a %s. %s.", profile.Name, profile.Category, profile.Description)
	if len(profile.KeyFeatures) > 0 {
		fmt.Fprintf(&b, " Distinctive features: %s.", strings.Join(profile.KeyFeatures, ", "))
	}
	fmt.Fprintf(&b, " %s. %s.", scene.Action, scene.Description)
	if scene.Camera != "" {
		fmt.Fprintf(&b, " Camera: %s.", scene.Camera)
	}
	if scene.Emotion != "" {
		fmt.Fprintf(&b, " Emotion: %s.", scene.Emotion)
	}
	if scene.Lighting != "" {
		fmt.Fprintf(&b, " Lighting: %s.", scene.Lighting)
	}

	styled := domain.ApplyStyle(style, b.String())
	return prompt.Normalize(styled)
}
