// Package lz11 はニンテンドー系タイトルで使われるLZ11圧縮形式の
// 展開と圧縮を行うパッケージです。
//
// LZ11ストリームの構造:
//   - 先頭1バイトはマーカー 0x11
//   - 続く3バイトは展開後サイズ (リトルエンディアン)。0の場合は
//     さらに4バイトの拡張サイズが続く
//   - 以降はフラグバイト(上位ビットから8ブロック分)とトークン列。
//     フラグビットが1なら参照トークン、0ならリテラル1バイト
//
// 参照トークンは先頭バイトの上位ニブルで3つの形式に分かれます:
//   - ニブル >= 2: 2バイト形式 (長さ 3..16)
//   - ニブル == 0: 3バイト形式 (長さ 17..272)
//   - ニブル == 1: 4バイト形式 (長さ 273..65808)
//
// 距離はいずれの形式でも12ビット+1 (最大0x1000) です。
package lz11

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Marker はLZ11ストリームの先頭バイト
	Marker = 0x11

	// WindowSize は参照トークンが遡れる最大距離
	WindowSize = 0x1000

	// MinMatch は参照トークンで表現できる最小の一致長
	MinMatch = 3

	// MaxMatch は4バイト形式トークンで表現できる最大の一致長
	MaxMatch = 0x10110
)

var (
	// ErrBadMarker は先頭バイトが0x11でない場合のエラー
	ErrBadMarker = errors.New("LZ11マーカーがありません")

	// ErrTruncated はトークン列が展開後サイズに達する前に尽きた場合のエラー
	ErrTruncated = errors.New("LZ11データが途中で終わっています")

	// ErrBadBackref は参照トークンが出力済みデータの範囲外を指す場合のエラー
	ErrBadBackref = errors.New("LZ11参照トークンが範囲外を指しています")
)

// Codec はLZ11形式のステートレスなコーデックです。
// DecompressとCompressをインターフェース越しに差し替えられるようにします。
type Codec struct{}

// NewCodec は新しいCodecを作成します。
func NewCodec() *Codec {
	return &Codec{}
}

// Decompress はLZ11圧縮されたデータを展開します。
func (c *Codec) Decompress(data []byte) ([]byte, error) {
	return Decompress(data)
}

// Compress はデータをLZ11形式に圧縮します。
func (c *Codec) Compress(data []byte) ([]byte, error) {
	return Compress(data)
}

// Decompress はLZ11圧縮されたデータを展開します。
// 入力バッファは変更されません。
func Decompress(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: ヘッダが%dバイトしかありません", ErrTruncated, len(data))
	}
	if data[0] != Marker {
		return nil, fmt.Errorf("%w: 先頭バイト 0x%02x", ErrBadMarker, data[0])
	}

	size := int(data[1]) | int(data[2])<<8 | int(data[3])<<16
	pos := 4
	if size == 0 {
		// 拡張ヘッダ (展開後サイズが24ビットに収まらない場合)
		if len(data) < 8 {
			return nil, fmt.Errorf("%w: 拡張ヘッダが欠けています", ErrTruncated)
		}
		size = int(binary.LittleEndian.Uint32(data[4:8]))
		pos = 8
	}

	out := make([]byte, 0, size)
	for len(out) < size {
		if pos >= len(data) {
			return nil, fmt.Errorf("%w: %d/%dバイト展開済み", ErrTruncated, len(out), size)
		}
		flags := data[pos]
		pos++

		for bit := 0; bit < 8 && len(out) < size; bit++ {
			if flags&0x80 == 0 {
				// リテラル
				if pos >= len(data) {
					return nil, fmt.Errorf("%w: %d/%dバイト展開済み", ErrTruncated, len(out), size)
				}
				out = append(out, data[pos])
				pos++
				flags <<= 1
				continue
			}

			// 参照トークン
			if pos >= len(data) {
				return nil, fmt.Errorf("%w: %d/%dバイト展開済み", ErrTruncated, len(out), size)
			}
			var length, disp int
			switch data[pos] >> 4 {
			case 0:
				// 3バイト形式
				if pos+2 >= len(data) {
					return nil, fmt.Errorf("%w: 3バイト形式トークンが欠けています", ErrTruncated)
				}
				b1, b2, b3 := data[pos], data[pos+1], data[pos+2]
				length = (int(b1&0x0F)<<4 | int(b2>>4)) + 0x11
				disp = (int(b2&0x0F)<<8 | int(b3)) + 1
				pos += 3
			case 1:
				// 4バイト形式
				if pos+3 >= len(data) {
					return nil, fmt.Errorf("%w: 4バイト形式トークンが欠けています", ErrTruncated)
				}
				b1, b2, b3, b4 := data[pos], data[pos+1], data[pos+2], data[pos+3]
				length = (int(b1&0x0F)<<12 | int(b2)<<4 | int(b3>>4)) + 0x111
				disp = (int(b3&0x0F)<<8 | int(b4)) + 1
				pos += 4
			default:
				// 2バイト形式
				if pos+1 >= len(data) {
					return nil, fmt.Errorf("%w: 2バイト形式トークンが欠けています", ErrTruncated)
				}
				b1, b2 := data[pos], data[pos+1]
				length = int(b1>>4) + 1
				disp = (int(b1&0x0F)<<8 | int(b2)) + 1
				pos += 2
			}

			if disp > len(out) {
				return nil, fmt.Errorf("%w: 距離%d 出力済み%dバイト", ErrBadBackref, disp, len(out))
			}
			// 距離 < 長さ の重なりコピーが許されるため1バイトずつ進める
			for i := 0; i < length && len(out) < size; i++ {
				out = append(out, out[len(out)-disp])
			}
			flags <<= 1
		}
	}

	return out, nil
}

// Compress はデータをLZ11形式に圧縮します。
// 貪欲法で窓内の最長一致を探すため、出力は純正の圧縮器と
// バイト一致するとは限りませんが、Decompressで元のデータに戻ります。
func Compress(data []byte) ([]byte, error) {
	var out bytes.Buffer

	// ヘッダ
	// サイズ0は24ビットフィールドでは拡張ヘッダの合図と区別できないため
	// 空データは常に拡張ヘッダ形式で書き出す
	out.WriteByte(Marker)
	if len(data) > 0 && len(data) < 1<<24 {
		out.WriteByte(byte(len(data)))
		out.WriteByte(byte(len(data) >> 8))
		out.WriteByte(byte(len(data) >> 16))
	} else {
		out.Write([]byte{0, 0, 0})
		var ext [4]byte
		binary.LittleEndian.PutUint32(ext[:], uint32(len(data)))
		out.Write(ext[:])
	}

	pos := 0
	for pos < len(data) {
		flagIdx := out.Len()
		out.WriteByte(0)
		var flags byte

		for bit := 0; bit < 8 && pos < len(data); bit++ {
			length, disp := findMatch(data, pos)
			if length < MinMatch {
				out.WriteByte(data[pos])
				pos++
				continue
			}

			flags |= 0x80 >> bit
			d := disp - 1
			switch {
			case length <= 0x10:
				// 2バイト形式
				out.WriteByte(byte(length-1)<<4 | byte(d>>8))
				out.WriteByte(byte(d))
			case length <= 0x110:
				// 3バイト形式
				l := length - 0x11
				out.WriteByte(byte(l >> 4))
				out.WriteByte(byte(l&0x0F)<<4 | byte(d>>8))
				out.WriteByte(byte(d))
			default:
				// 4バイト形式
				l := length - 0x111
				out.WriteByte(0x10 | byte(l>>12))
				out.WriteByte(byte(l >> 4))
				out.WriteByte(byte(l&0x0F)<<4 | byte(d>>8))
				out.WriteByte(byte(d))
			}
			pos += length
		}

		out.Bytes()[flagIdx] = flags
	}

	return out.Bytes(), nil
}

// findMatch は data[pos:] に対する窓内の最長一致を探します。
// 一致長がMinMatch未満の場合は (0, 0) を返します。
func findMatch(data []byte, pos int) (length, disp int) {
	maxLen := len(data) - pos
	if maxLen > MaxMatch {
		maxLen = MaxMatch
	}
	if maxLen < MinMatch {
		return 0, 0
	}

	start := pos - WindowSize
	if start < 0 {
		start = 0
	}

	for cand := pos - 1; cand >= start; cand-- {
		if data[cand] != data[pos] {
			continue
		}
		n := 1
		// cand+n が pos を越える場合は出力済みデータを周期的に
		// 繰り返す重なり一致として扱う
		for n < maxLen && data[cand+n%(pos-cand)] == data[pos+n] {
			n++
		}
		if n > length {
			length = n
			disp = pos - cand
			if length == maxLen {
				break
			}
		}
	}

	if length < MinMatch {
		return 0, 0
	}
	return length, disp
}
