package level

import (
	"encoding/binary"
	"fmt"
)

const (
	// zoneBlockHeaderOffset はコースファイルヘッダ内でゾーンブロックの
	// オフセットとサイズ (ビッグエンディアン4バイトずつ) が置かれる位置
	zoneBlockHeaderOffset = 0x48

	// zoneRecordSize はゾーンレコード1件のバイト数
	zoneRecordSize = 24

	// terrainLightingOffset はレコード先頭から地形ライティングフラグ
	// (ビッグエンディアン16ビット) までのオフセット
	terrainLightingOffset = 10
)

// PatchCourse はコースファイル ("courseN.bin") のバイト列を受け取り、
// ゾーンレコード内の地形ライティングフラグが非ゼロのものをゼロに
// 書き換えます。パッチ済みのコピーと書き換えたレコード数を返します。
// 入力バッファは変更されません。
//
// ゾーンブロックの位置はヘッダの値をそのまま使いますが、バッファの
// 範囲外を指すヘッダは破損として扱いエラーを返します。サイズが
// レコード長の倍数でない場合、端数のバイトはレコードではないものと
// して無視します。
func PatchCourse(data []byte) ([]byte, int, error) {
	if len(data) < zoneBlockHeaderOffset+8 {
		return nil, 0, fmt.Errorf("%w: %dバイト", ErrCourseTooShort, len(data))
	}

	zonesOff := binary.BigEndian.Uint32(data[zoneBlockHeaderOffset:])
	zonesSize := binary.BigEndian.Uint32(data[zoneBlockHeaderOffset+4:])
	if int64(zonesOff)+int64(zonesSize) > int64(len(data)) {
		return nil, 0, fmt.Errorf("%w: オフセット0x%x サイズ0x%x (コースは%dバイト)",
			ErrZoneBlockOutOfRange, zonesOff, zonesSize, len(data))
	}

	patched := make([]byte, len(data))
	copy(patched, data)

	fixes := 0
	for i := 0; i < int(zonesSize)/zoneRecordSize; i++ {
		off := int(zonesOff) + i*zoneRecordSize + terrainLightingOffset
		if binary.BigEndian.Uint16(patched[off:]) != 0 {
			binary.BigEndian.PutUint16(patched[off:], 0)
			fixes++
		}
	}

	return patched, fixes, nil
}
