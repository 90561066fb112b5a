package domain

import (
	"strings"
	"testing"
)

func TestContentTable(t *testing.T) {
	t.Run("13種別すべてが定義されていること", func(t *testing.T) {
		if got := len(ContentTypes()); got != 13 {
			t.Errorf("期待値 13, 実際の値 %d", got)
		}
	})

	t.Run("全種別に4つの定義が揃っていること", func(t *testing.T) {
		for _, ct := range ContentTypes() {
			spec, ok := LookupContent(ct)
			if !ok {
				t.Fatalf("種別 %q の定義が見つかりません", ct)
			}
			if spec.Label == "" || spec.SystemPrompt == "" || spec.Structure == "" || spec.VisualAnalysis == "" {
				t.Errorf("種別 %q の定義に空フィールドがあります", ct)
			}
		}
	})

	t.Run("未知の種別はtextoへ明示的にフォールバックすること", func(t *testing.T) {
		spec, used := ContentOrFallback(ContentType("haiku"))
		if used != ContentTexto {
			t.Errorf("フォールバック先の期待値 %q, 実際の値 %q", ContentTexto, used)
		}
		want, _ := LookupContent(ContentTexto)
		if spec.SystemPrompt != want.SystemPrompt {
			t.Error("フォールバック定義がtextoの定義と一致しません")
		}
	})

	t.Run("既知の種別はフォールバックされないこと", func(t *testing.T) {
		_, used := ContentOrFallback(ContentRelato)
		if used != ContentRelato {
			t.Errorf("既知の種別が %q に置き換えられました", used)
		}
	})

	t.Run("clip de noticias は5項目と40-60語の指示を含むこと", func(t *testing.T) {
		spec, _ := LookupContent(ContentNoticias)
		if !strings.Contains(spec.Structure, "5") || !strings.Contains(spec.Structure, "40-60") {
			t.Errorf("構成指示に必須要件が含まれていません: %q", spec.Structure)
		}
	})
}

func TestParseContentType(t *testing.T) {
	t.Run("前後の空白と大文字を許容すること", func(t *testing.T) {
		ct, err := ParseContentType("  Relato ")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if ct != ContentRelato {
			t.Errorf("期待値 %q, 実際の値 %q", ContentRelato, ct)
		}
	})

	t.Run("未知の文字列はエラーになること", func(t *testing.T) {
		if _, err := ParseContentType("novela"); err == nil {
			t.Error("未知の種別でエラーが発生しませんでした")
		}
	})
}

func TestStyleTable(t *testing.T) {
	t.Run("5スタイルすべてが定義されていること", func(t *testing.T) {
		if got := len(Styles()); got != 5 {
			t.Errorf("期待値 5, 実際の値 %d", got)
		}
	})

	t.Run("ApplyStyleがプロンプト本文を雛形に埋め込むこと", func(t *testing.T) {
		got := ApplyStyle(StyleDigitalArt, "a cat in space")
		if !strings.Contains(got, "a cat in space") {
			t.Errorf("プロンプト本文が埋め込まれていません: %q", got)
		}
		if !strings.Contains(got, "digital art") {
			t.Errorf("スタイル修飾語が含まれていません: %q", got)
		}
	})

	t.Run("未知のスタイルはphotorealisticへフォールバックすること", func(t *testing.T) {
		got := ApplyStyle(Style("watercolor"), "a dog")
		want := ApplyStyle(StylePhotorealistic, "a dog")
		if got != want {
			t.Error("未知スタイルのフォールバックが機能していません")
		}
	})
}
