package imgutil

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
)

// ConvertToPNG は画像データ（JPEG, GIF, PNG等）を可逆なPNG形式に変換します。
// image.Decodeがサポートするフォーマットに対応しています。
func ConvertToPNG(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	// 既にPNGなら再エンコードせずそのまま返す
	if format == "png" {
		return data, nil
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
