package domain

import "fmt"

// UpstreamError は外部バックエンドが非 2xx または不正な応答を返したことを表します。
// リトライは行わず、ステータスと本文を添えて呼び出し元へ伝搬します。
type UpstreamError struct {
	Provider   string // "anthropic" / "bfl" / "openai-tts" / "elevenlabs" など
	StatusCode int    // HTTPステータス。通信自体の失敗時は 0
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: upstream error %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: upstream error: %s", e.Provider, e.Message)
}

// TimeoutError は画像ポーリングが試行上限を超えたことを表します。
type TimeoutError struct {
	Provider string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: polling timed out after %d attempts", e.Provider, e.Attempts)
}

// ModerationError はバックエンドがコンテンツを明示的に拒否したことを表します。
// 入力を変えない限り再試行しても意味がないため、終端エラーとして扱います。
type ModerationError struct {
	Provider string
	Status   string // バックエンドが返したステータス文字列そのまま
}

func (e *ModerationError) Error() string {
	return fmt.Sprintf("%s: content rejected by moderation (%s)", e.Provider, e.Status)
}

// ParseError はキャラクター解析のJSONが不正だったことを表します。
// パイプラインはこのエラーを「キャラクターなし」として局所回復します。
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("character analysis JSON parse failed: %v", e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ConfigurationError は必須の認証情報や設定値が欠けていることを表します。
// 一切のネットワーク呼び出しの前に検出されます。
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Field)
}
