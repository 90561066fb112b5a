package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// シード導出の定数。値域を変えるとキャラクターの再現性が壊れるので注意。
const (
	baseSeedModulo  = 50000  // 名前由来の基礎成分の値域
	sceneSeedModulo = 1000   // シーン由来の変化成分の値域
	seedModulo      = 100000 // 最終シードの値域（32bit整数に収まる）
)

// BaseSeed はキャラクター名から決定論的な基礎シードを導出します。
// 同じ名前は常に同じ値を返すため、複数シーンにまたがる
// 視覚的一貫性のアンカーとして機能します。
func BaseSeed(name string) int64 {
	return hashComponent(name, 6) % baseSeedModulo
}

// SceneSeed は基礎シードにシーン固有の変化成分を加えたシードを返します。
// action が空のときは基礎シードだけが使われます。変化成分は同一キャラクターの
// 姿を崩さずに、シーンごとの構図やポーズを揺らすための小さなオフセットです。
func SceneSeed(name, action string) int64 {
	base := BaseSeed(name)
	if action == "" {
		return base % seedModulo
	}
	variation := hashComponent(action, 3) % sceneSeedModulo
	return (base + variation) % seedModulo
}

// hashComponent は入力の sha256 16進表現の先頭 digits 桁を整数化して返すのだ。
func hashComponent(input string, digits int) int64 {
	sum := sha256.Sum256([]byte(input))
	hexStr := hex.EncodeToString(sum[:])
	v, err := strconv.ParseInt(hexStr[:digits], 16, 64)
	if err != nil {
		// 16進文字列の先頭切り出しなので失敗は起こり得ないが、念のため 0 を返す
		return 0
	}
	return v
}
