// Package level はNSMBWのレベルアーカイブを処理するパッケージです。
// 圧縮形式の判定、コースファイル内のゾーンレコードの地形ライティング
// フラグの消去、そしてファイル1つ分のパイプライン全体を担当します。
package level

import (
	"bytes"

	"github.com/shiroemons/go-terrainlight/pkg/lz11"
)

// Compression は先頭バイトから判定したファイルの圧縮状態
type Compression int

const (
	// CompressionNone は非圧縮のU8コンテナ
	CompressionNone Compression = iota

	// CompressionLZ11 はLZ11圧縮されたコンテナ
	CompressionLZ11

	// CompressionUnsupported は再圧縮できない圧縮形式 (LHなど)。
	// エラーではなくスキップ対象として扱います。
	CompressionUnsupported

	// CompressionUnknown はレベルファイルと認識できないデータ
	CompressionUnknown
)

// String は圧縮状態の表示名を返します
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "uncompressed"
	case CompressionLZ11:
		return "LZ11"
	case CompressionUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// containerMagic は非圧縮U8コンテナの先頭4バイト ("U\xAA8-")
var containerMagic = []byte{'U', 0xAA, '8', '-'}

// Classify はファイルの先頭4バイトから圧縮状態を判定します。
// 判定に使うのは先頭バイトだけなので、残りのファイルを読む前に
// 呼び出せます。副作用はありません。
func Classify(first4 []byte) Compression {
	if bytes.Equal(first4, containerMagic) {
		return CompressionNone
	}
	if len(first4) == 0 {
		return CompressionUnknown
	}
	if first4[0] == lz11.Marker {
		return CompressionLZ11
	}
	if first4[0]>>4 == 4 {
		// おそらくLH圧縮。再圧縮できないためスキップする
		return CompressionUnsupported
	}
	return CompressionUnknown
}
