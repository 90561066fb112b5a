package flux

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shouni/go-media-kit/pkg/domain"
	"github.com/shouni/go-media-kit/pkg/imgutil"
)

const (
	defaultBaseURL = "https://api.bfl.ml"

	// ポーリングは5秒間隔で最大60回、合計で約5分待つのだ
	defaultPollInterval = 5 * time.Second
	defaultMaxAttempts  = 60

	// Proモデルの固定パラメータ（原典のチューニング値）
	proGuidance        = 2.5
	proSafetyTolerance = 2
	proInterval        = 2
)

// ポーリング応答の既知ステータス
const (
	statusReady            = "Ready"
	statusPending          = "Pending"
	statusFailed           = "Failed"
	statusContentModerated = "Content Moderated"
	statusRequestModerated = "Request Moderated"
)

// Fetcher は完成画像のURLからバイト列を取得するための窓口です。
// httpkit.ClientInterface がこれを満たします。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// ProgressFunc はポーリングの進捗通知を受け取るコールバックです。
type ProgressFunc func(attempt, maxAttempts int, status string)

// RenderTask は1枚の画像生成ジョブの指定です。
type RenderTask struct {
	Prompt      string
	Model       string // domain.ImageModelPro または domain.ImageModelUltra
	Width       int    // Proのみ
	Height      int    // Proのみ
	Steps       int    // Proのみ
	AspectRatio string // Ultraのみ

	// Seed は視覚一貫性のための固定シード。nil ならバックエンドに
	// シード選択を委ね、リクエストにフィールド自体を含めない。
	Seed *int64
}

// Client は画像生成APIのクライアントです。ジョブの投入から
// ポーリング、完成画像の取得・PNG変換までを担います。
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	fetcher      Fetcher
	pollInterval time.Duration
	maxAttempts  int
	progress     ProgressFunc
}

// Option は Client の挙動を調整します。
type Option func(*Client)

// WithBaseURL はAPIのベースURLを差し替えます（テスト用）。
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient はジョブ投入・ポーリングに使うHTTPクライアントを差し替えます。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPollInterval はポーリング間隔を差し替えます（テスト用）。
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// WithMaxAttempts はポーリング回数の上限を差し替えます。
func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.maxAttempts = n }
}

// WithProgress は試行ごとの進捗コールバックを設定します。
func WithProgress(fn ProgressFunc) Option {
	return func(c *Client) { c.progress = fn }
}

// New は新しい Client を生成して返します。
func New(apiKey string, fetcher Fetcher, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, &domain.ConfigurationError{Field: "BFL_API_KEY"}
	}
	if fetcher == nil {
		return nil, fmt.Errorf("el cliente de descarga no puede ser nil")
	}
	c := &Client{
		apiKey:       apiKey,
		baseURL:      defaultBaseURL,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		fetcher:      fetcher,
		pollInterval: defaultPollInterval,
		maxAttempts:  defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// proPayload / ultraPayload はモデルごとのリクエストボディです。
type proPayload struct {
	Prompt           string  `json:"prompt"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	Steps            int     `json:"steps"`
	Guidance         float64 `json:"guidance"`
	SafetyTolerance  int     `json:"safety_tolerance"`
	Interval         int     `json:"interval"`
	Seed             *int64  `json:"seed,omitempty"`
	PromptUpsampling bool    `json:"prompt_upsampling"`
	OutputFormat     string  `json:"output_format"`
}

type ultraPayload struct {
	Prompt          string `json:"prompt"`
	AspectRatio     string `json:"aspect_ratio"`
	SafetyTolerance int    `json:"safety_tolerance"`
	Seed            *int64 `json:"seed,omitempty"`
	Raw             bool   `json:"raw"`
	OutputFormat    string `json:"output_format"`
}

type submitResponse struct {
	ID string `json:"id"`
}

type pollResponse struct {
	Status string `json:"status"`
	Result struct {
		Sample string `json:"sample"`
	} `json:"result"`
}

// Render はジョブを投入して完成を待ち、PNGに変換した画像を返します。
func (c *Client) Render(ctx context.Context, task RenderTask) ([]byte, error) {
	taskID, err := c.submit(ctx, task)
	if err != nil {
		return nil, err
	}
	sampleURL, err := c.poll(ctx, taskID)
	if err != nil {
		return nil, err
	}

	raw, err := c.fetcher.FetchBytes(ctx, sampleURL)
	if err != nil {
		return nil, fmt.Errorf("la descarga de la imagen generada falló: %w", err)
	}
	pngData, err := imgutil.ConvertToPNG(raw)
	if err != nil {
		return nil, fmt.Errorf("la conversión a PNG falló: %w", err)
	}
	return pngData, nil
}

// submit はモデルに応じたエンドポイントへジョブを投入し、タスクIDを返します。
func (c *Client) submit(ctx context.Context, task RenderTask) (string, error) {
	var payload any
	switch task.Model {
	case domain.ImageModelUltra:
		payload = ultraPayload{
			Prompt:          task.Prompt,
			AspectRatio:     task.AspectRatio,
			SafetyTolerance: proSafetyTolerance,
			Seed:            task.Seed,
			Raw:             false,
			OutputFormat:    "jpeg",
		}
	default:
		payload = proPayload{
			Prompt:           task.Prompt,
			Width:            task.Width,
			Height:           task.Height,
			Steps:            task.Steps,
			Guidance:         proGuidance,
			SafetyTolerance:  proSafetyTolerance,
			Interval:         proInterval,
			Seed:             task.Seed,
			PromptUpsampling: false,
			OutputFormat:     "jpeg",
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("la serialización de la petición falló: %w", err)
	}

	endpoint := c.baseURL + "/v1/" + task.Model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("el envío del trabajo de imagen falló: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &domain.UpstreamError{Provider: "bfl", StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	var submitted submitResponse
	if err := json.Unmarshal(respBody, &submitted); err != nil {
		return "", &domain.ParseError{Cause: err}
	}
	if submitted.ID == "" {
		return "", &domain.UpstreamError{Provider: "bfl", StatusCode: resp.StatusCode, Message: "la respuesta no contiene id de tarea"}
	}
	return submitted.ID, nil
}

// poll は完成かターミナル状態になるまで結果エンドポイントを問い合わせます。
// 上限回数に達した場合は TimeoutError を返すのだ。
func (c *Client) poll(ctx context.Context, taskID string) (string, error) {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		status, sampleURL, err := c.checkResult(ctx, taskID)
		if err != nil {
			return "", err
		}
		if c.progress != nil {
			c.progress(attempt, c.maxAttempts, status)
		}

		switch status {
		case statusReady:
			return sampleURL, nil
		case statusPending:
			// 継続して待つ
		case statusContentModerated, statusRequestModerated:
			return "", &domain.ModerationError{Provider: "bfl", Status: status}
		case statusFailed:
			return "", &domain.UpstreamError{Provider: "bfl", StatusCode: 0, Message: "la generación terminó en estado Failed"}
		default:
			// 未知のステータスは原文のままターミナル扱いにする
			return "", &domain.UpstreamError{Provider: "bfl", StatusCode: 0, Message: fmt.Sprintf("estado inesperado: %s", status)}
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
	return "", &domain.TimeoutError{Provider: "bfl", Attempts: c.maxAttempts}
}

func (c *Client) checkResult(ctx context.Context, taskID string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/get_result?id="+taskID, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("x-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("la consulta del resultado falló: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", &domain.UpstreamError{Provider: "bfl", StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	var polled pollResponse
	if err := json.Unmarshal(respBody, &polled); err != nil {
		return "", "", &domain.ParseError{Cause: err}
	}
	return polled.Status, polled.Result.Sample, nil
}
