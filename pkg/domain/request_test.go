package domain

import "testing"

// validRequest はテスト用の妥当なリクエストを返すヘルパーなのだ。
func validRequest() GenerationRequest {
	return GenerationRequest{
		Topic:          "un gato que viaja en el tiempo",
		ContentType:    ContentRelato,
		Style:          StyleDigitalArt,
		MaxTokens:      2000,
		ImageModel:     ImageModelPro,
		Width:          1024,
		Height:         1024,
		Steps:          25,
		SpeechProvider: SpeechProviderOpenAI,
		Voice:          "alloy",
	}
}

func TestGenerationRequest_Validate(t *testing.T) {
	t.Run("妥当なリクエストは検証を通過すること", func(t *testing.T) {
		if err := validRequest().Validate(); err != nil {
			t.Errorf("予期しないエラー: %v", err)
		}
	})

	t.Run("空のテーマは拒否されること", func(t *testing.T) {
		r := validRequest()
		r.Topic = "   "
		if err := r.Validate(); err == nil {
			t.Error("空のテーマでエラーが発生しませんでした")
		}
	})

	t.Run("離散集合にない寸法は拒否されること", func(t *testing.T) {
		r := validRequest()
		r.Width = 800
		if err := r.Validate(); err == nil {
			t.Error("不正な幅でエラーが発生しませんでした")
		}
	})

	t.Run("ステップ数の範囲外は拒否されること", func(t *testing.T) {
		r := validRequest()
		r.Steps = 51
		if err := r.Validate(); err == nil {
			t.Error("範囲外のステップ数でエラーが発生しませんでした")
		}
	})

	t.Run("Ultraではステップ数を検証しないこと", func(t *testing.T) {
		r := validRequest()
		r.ImageModel = ImageModelUltra
		r.Steps = 0
		if err := r.Validate(); err != nil {
			t.Errorf("Ultraで予期しないエラー: %v", err)
		}
	})

	t.Run("未知のコンテンツ種別は検証では拒否しないこと", func(t *testing.T) {
		// 未知の種別はテキスト生成側の明示的フォールバックに委ねる
		r := validRequest()
		r.ContentType = ContentType("haiku")
		if err := r.Validate(); err != nil {
			t.Errorf("予期しないエラー: %v", err)
		}
	})

	t.Run("未知の音声プロバイダは拒否されること", func(t *testing.T) {
		r := validRequest()
		r.SpeechProvider = "azure"
		if err := r.Validate(); err == nil {
			t.Error("未知のプロバイダでエラーが発生しませんでした")
		}
	})
}

func TestGenerationRequest_AspectRatio(t *testing.T) {
	t.Run("正方形は実寸の比を返すこと", func(t *testing.T) {
		r := validRequest()
		if got := r.AspectRatio(); got != "1024:1024" {
			t.Errorf("期待値 \"1024:1024\", 実際の値 %q", got)
		}
	})

	t.Run("非正方形は16:9へ固定されること", func(t *testing.T) {
		r := validRequest()
		r.Height = 768
		if got := r.AspectRatio(); got != "16:9" {
			t.Errorf("期待値 \"16:9\", 実際の値 %q", got)
		}
	})
}
