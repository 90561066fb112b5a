package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Style は画像生成の視覚スタイルを表す閉じた列挙型です。
type Style string

const (
	StylePhotorealistic Style = "photorealistic"
	StyleDigitalArt     Style = "digital-art"
	StyleCinematic      Style = "cinematic"
	StyleDocumentary    Style = "documentary"
	StylePortrait       Style = "portrait"
)

// StyleSpec は1つのスタイルプリセットの定義を保持します。
type StyleSpec struct {
	// Template は最終プロンプトを包むスタイル雛形です。%s にプロンプト本文が入ります。
	Template string

	// Adaptation は「intelligent」プロンプト合成時に、このスタイル向けに
	// 描写の方向性を調整させる補足指示です。
	Adaptation string
}

// styleTable はスタイルと雛形の対応表なのだ。
var styleTable = map[Style]StyleSpec{
	StylePhotorealistic: {
		Template:   "Photorealistic, high-quality photograph of: %s. Professional photography, realistic lighting, sharp focus, detailed textures, natural colors, 8K resolution, masterpiece quality, cinematic composition",
		Adaptation: "Adapta la descripción a una fotografía realista: entorno creíble, luz natural y detalles tangibles.",
	},
	StyleDigitalArt: {
		Template:   "High-quality digital artwork of: %s. Professional digital art, vibrant colors, sharp focus, detailed illustration, artistic composition, masterpiece",
		Adaptation: "Adapta la descripción a una ilustración digital: colores vibrantes, composición artística y detalle estilizado.",
	},
	StyleCinematic: {
		Template:   "Cinematic scene of: %s. Movie-like composition, dramatic lighting, professional cinematography, high production value, detailed scene, 8K quality",
		Adaptation: "Adapta la descripción a un fotograma de película: iluminación dramática, encuadre amplio y atmósfera narrativa.",
	},
	StyleDocumentary: {
		Template:   "Documentary-style photograph of: %s. Authentic, candid photography, natural lighting, real-world setting, journalistic quality, unposed, realistic",
		Adaptation: "Adapta la descripción a una fotografía documental: momento espontáneo, entorno real y registro periodístico.",
	},
	StylePortrait: {
		Template:   "Professional portrait of: %s. Studio lighting, sharp focus, detailed features, high-quality photography, professional composition, realistic skin tones",
		Adaptation: "Adapta la descripción a un retrato profesional: sujeto en primer plano, luz de estudio y rasgos nítidos.",
	},
}

// DefaultStyle は未知のスタイルを受け取ったときに使う既定のスタイルです。
const DefaultStyle = StylePhotorealistic

// LookupStyle はスタイルの定義を返します。未知のスタイルは既定にフォールバックします。
func LookupStyle(s Style) StyleSpec {
	if spec, ok := styleTable[s]; ok {
		return spec
	}
	return styleTable[DefaultStyle]
}

// ApplyStyle はプロンプト本文をスタイル雛形で包んだ最終文字列を返します。
func ApplyStyle(s Style, prompt string) string {
	return fmt.Sprintf(LookupStyle(s).Template, prompt)
}

// Styles はサポートする全スタイルをソート済みで返すのだ。
func Styles() []Style {
	keys := slices.Collect(maps.Keys(styleTable))
	slices.Sort(keys)
	return keys
}

// ParseStyle は文字列を検証済みの Style に変換します。
func ParseStyle(s string) (Style, error) {
	st := Style(strings.TrimSpace(strings.ToLower(s)))
	if _, ok := styleTable[st]; !ok {
		return "", fmt.Errorf("estilo de imagen desconocido: %q", s)
	}
	return st, nil
}
