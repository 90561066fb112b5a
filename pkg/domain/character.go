package domain

// CharacterCategory はキャラクターの大分類です。
type CharacterCategory string

const (
	CategoryHuman    CharacterCategory = "human"
	CategoryAnimal   CharacterCategory = "animal"
	CategoryCreature CharacterCategory = "creature"
)

// SceneSpec は物語から抽出された1つの視覚的な見せ場（ビート）です。
// 1つの SceneSpec がちょうど1枚の画像生成に対応します。
type SceneSpec struct {
	Action      string `json:"action"`      // シーンを識別する行動ラベル
	Description string `json:"description"` // 主体・行動・感情・構図・光を含む英語の完全な描写
	Camera      string `json:"camera"`      // カメラ構図タグ（wide shot, close-up など）
	Emotion     string `json:"emotion"`     // 感情タグ
	Lighting    string `json:"lighting"`    // 光のムードタグ
}

// CharacterProfile は物語から検出された1人のキャラクターです。
// 抽出後は読み取り専用として扱います。
type CharacterProfile struct {
	Name     string            `json:"name"`
	Category CharacterCategory `json:"category"`

	// Description は全シーンで固定の視覚アンカーとなる英語の外見描写です。
	Description string `json:"description"`

	// KeyFeatures は識別に効く少数の際立った特徴です。
	KeyFeatures []string `json:"key_features"`

	// Scenes は物語を順に読んで抽出された3〜5個の見せ場です。
	Scenes []SceneSpec `json:"scenes"`
}

// BaseSeed はこのキャラクターの基礎シードを返します。
// 名前にのみ依存するため、全シーンで同一の値になります。
func (c CharacterProfile) BaseSeed() int64 {
	return BaseSeed(c.Name)
}

// SceneSeedFor は指定シーン向けのシードを返します。
// varyPerScene が偽のとき、変化成分は適用されず基礎シードに揃います。
func (c CharacterProfile) SceneSeedFor(scene SceneSpec, varyPerScene bool) int64 {
	if !varyPerScene {
		return SceneSeed(c.Name, "")
	}
	return SceneSeed(c.Name, scene.Action)
}

// CharacterAnalysis はキャラクター解析ステージの結果です。
// 解析JSONが不正だった場合も HasCharacters=false の正常値として表現されます。
type CharacterAnalysis struct {
	HasCharacters bool               `json:"has_characters"`
	Characters    []CharacterProfile `json:"characters"`
}
