package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-media-kit/pkg/domain"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	messagesPath   = "/v1/messages"
	apiVersion     = "2023-06-01"

	// テキスト生成は数千トークンの出力を待つため、タイムアウトは長めに取るのだ
	defaultTimeout = 120 * time.Second

	providerName = "anthropic"
)

// CompletionRequest は1回のテキスト補完呼び出しのパラメータです。
// 温度とトークン上限は呼び出しごとに指定します（生成 0.7 / 解析 0.3-0.4）。
type CompletionRequest struct {
	System      string  // システム指示ブロック
	UserMessage string  // ユーザーメッセージ本文
	MaxTokens   int     // 出力トークン上限
	Temperature float64
}

// Client は Claude messages API と通信するテキスト補完クライアントです。
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option は Client の挙動を調整する関数オプションです。
type Option func(*Client)

// WithBaseURL はエンドポイントの基底URLを差し替えます。テストで使用します。
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient は下位の http.Client を差し替えます。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New は新しい Client を生成します。APIキーが空の場合は
// ネットワーク呼び出しの前に ConfigurationError を返します。
func New(apiKey, model string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &domain.ConfigurationError{Field: "ANTHROPIC_API_KEY"}
	}
	if strings.TrimSpace(model) == "" {
		return nil, &domain.ConfigurationError{Field: "claude model"}
	}

	c := &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ワイヤ上のリクエスト/レスポンス形。
type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	System      string        `json:"system,omitempty"`
	Messages    []wireMessage `json:"messages"`
}

type wireResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete はシステム指示とユーザーメッセージを送り、生成テキストを返します。
// 非 2xx はリトライせず UpstreamError として伝搬します。
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body, err := json.Marshal(wireRequest{
		Model:       c.model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		System:      req.System,
		Messages:    []wireMessage{{Role: "user", Content: req.UserMessage}},
	})
	if err != nil {
		return "", fmt.Errorf("リクエストのエンコードに失敗しました: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &domain.UpstreamError{Provider: providerName, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", &domain.UpstreamError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(errBody)),
		}
	}

	var parsed wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &domain.UpstreamError{Provider: providerName, Message: fmt.Sprintf("malformed response: %v", err)}
	}
	if len(parsed.Content) == 0 {
		return "", &domain.UpstreamError{Provider: providerName, Message: "empty content in response"}
	}

	return parsed.Content[0].Text, nil
}
