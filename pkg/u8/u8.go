// Package u8 はWii系タイトルで使われるU8アーカイブ形式の
// 読み込みと書き出しを行うパッケージです。
//
// U8アーカイブの構造 (すべてビッグエンディアン):
//   - 0x00: マジック 0x55AA382D ("U\xAA8-")
//   - 0x04: ルートノードのオフセット (通常 0x20)
//   - 0x08: ノードテーブルと文字列プールの合計サイズ
//   - 0x0C: データ領域の先頭オフセット
//   - 0x10: 予約領域 16バイト
//
// ノードは12バイト固定で、種別1バイト + 名前オフセット3バイト +
// 32ビット値2つを持ちます。ファイルノードはデータの絶対オフセットと
// サイズ、ディレクトリノードは親ノード番号と自身の範囲の終端ノード
// 番号を持ちます。ルートノードのこの終端値が総ノード数になります。
//
// 基本的な使い方:
//
//	arc, err := u8.Parse(data)
//	if err != nil {
//	    return err
//	}
//	for _, e := range arc.Entries() {
//	    // トップレベルのエントリを処理...
//	}
//	out, err := arc.Bytes()
package u8

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Magic はU8アーカイブのマジックナンバー ("U\xAA8-")
	Magic = 0x55AA382D

	// 1ノードあたりのバイト数
	nodeSize = 12

	// ルートノードの標準的な配置オフセット
	rootNodeOffset = 0x20

	// ファイルデータのアライメント
	dataAlign = 0x20

	nodeTypeFile = 0
	nodeTypeDir  = 1
)

var (
	// ErrBadMagic はマジックナンバーが一致しない場合のエラー
	ErrBadMagic = errors.New("U8マジックナンバーがありません")

	// ErrTooShort はヘッダを読み切る前にデータが尽きた場合のエラー
	ErrTooShort = errors.New("U8データが短すぎます")

	// ErrCorrupt はノードテーブルや文字列プールが壊れている場合のエラー
	ErrCorrupt = errors.New("U8アーカイブが壊れています")
)

// Node はアーカイブ内の1エントリを表します。
// ディレクトリの場合はChildrenが挿入順を保持します。
// 再エンコード時の並び順はこの挿入順がそのまま使われます。
type Node struct {
	Name     string
	IsDir    bool
	Data     []byte  // ファイルのみ
	Children []*Node // ディレクトリのみ
}

// Child は直下の子エントリを名前で検索します。見つからない場合はnilを返します。
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Append は子エントリを末尾に追加します。
func (n *Node) Append(child *Node) {
	n.Children = append(n.Children, child)
}

// Archive はU8アーカイブ全体を表します。
// Rootは名前を持たないディレクトリノードです。
type Archive struct {
	Root *Node
}

// New は空のArchiveを作成します。
func New() *Archive {
	return &Archive{Root: &Node{IsDir: true}}
}

// Entries はトップレベルのエントリを返します。
func (a *Archive) Entries() []*Node {
	return a.Root.Children
}

// rawNode はノードテーブル上の生の12バイト表現です。
type rawNode struct {
	typ     byte
	nameOff uint32 // 24ビット
	a, b    uint32
}

func readRawNode(data []byte, off int) rawNode {
	return rawNode{
		typ:     data[off],
		nameOff: uint32(data[off+1])<<16 | uint32(data[off+2])<<8 | uint32(data[off+3]),
		a:       binary.BigEndian.Uint32(data[off+4:]),
		b:       binary.BigEndian.Uint32(data[off+8:]),
	}
}

// Parse はU8アーカイブをバイト列から読み込みます。
// すべてのオフセットとサイズを検証し、範囲外を指すアーカイブには
// ErrCorruptを返します。入力バッファは変更されず、ファイルデータは
// コピーされて保持されます。
func Parse(data []byte) (*Archive, error) {
	if len(data) < rootNodeOffset+nodeSize {
		return nil, fmt.Errorf("%w: %dバイト", ErrTooShort, len(data))
	}
	if binary.BigEndian.Uint32(data) != Magic {
		return nil, fmt.Errorf("%w: 0x%08x", ErrBadMagic, binary.BigEndian.Uint32(data))
	}

	rootOff := int(binary.BigEndian.Uint32(data[4:]))
	headerSize := int(binary.BigEndian.Uint32(data[8:]))
	if rootOff < 0 || rootOff+nodeSize > len(data) {
		return nil, fmt.Errorf("%w: ルートノードオフセット 0x%x", ErrCorrupt, rootOff)
	}
	if headerSize < 0 || rootOff+headerSize > len(data) {
		return nil, fmt.Errorf("%w: ヘッダサイズ 0x%x", ErrCorrupt, headerSize)
	}

	root := readRawNode(data, rootOff)
	if root.typ != nodeTypeDir {
		return nil, fmt.Errorf("%w: ルートノードがディレクトリではありません", ErrCorrupt)
	}
	count := int(root.b)
	if count < 1 || count*nodeSize > headerSize {
		return nil, fmt.Errorf("%w: ノード数 %d", ErrCorrupt, count)
	}

	// 文字列プールはノードテーブルの直後からヘッダ末尾まで
	pool := data[rootOff+count*nodeSize : rootOff+headerSize]

	readName := func(off uint32) (string, error) {
		if int(off) >= len(pool) {
			return "", fmt.Errorf("%w: 名前オフセット 0x%x", ErrCorrupt, off)
		}
		end := bytes.IndexByte(pool[off:], 0)
		if end < 0 {
			return "", fmt.Errorf("%w: 名前が終端されていません", ErrCorrupt)
		}
		return string(pool[off : int(off)+end]), nil
	}

	rootName, err := readName(root.nameOff)
	if err != nil {
		return nil, err
	}

	arc := &Archive{Root: &Node{Name: rootName, IsDir: true}}

	// ディレクトリの入れ子はノード番号の範囲で表現されるため、
	// 終端ノード番号を積んだスタックで復元する
	type frame struct {
		dir *Node
		end int
	}
	stack := []frame{{dir: arc.Root, end: count}}

	for i := 1; i < count; i++ {
		for len(stack) > 1 && i >= stack[len(stack)-1].end {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].dir

		raw := readRawNode(data, rootOff+i*nodeSize)
		name, err := readName(raw.nameOff)
		if err != nil {
			return nil, err
		}

		switch raw.typ {
		case nodeTypeDir:
			if int(raw.b) <= i || int(raw.b) > count {
				return nil, fmt.Errorf("%w: ディレクトリ%qの終端ノード番号 %d", ErrCorrupt, name, raw.b)
			}
			child := &Node{Name: name, IsDir: true}
			parent.Append(child)
			stack = append(stack, frame{dir: child, end: int(raw.b)})
		case nodeTypeFile:
			start, size := int64(raw.a), int64(raw.b)
			if start+size > int64(len(data)) {
				return nil, fmt.Errorf("%w: ファイル%qのデータ範囲 0x%x+0x%x", ErrCorrupt, name, raw.a, raw.b)
			}
			fileData := make([]byte, size)
			copy(fileData, data[start:start+size])
			parent.Append(&Node{Name: name, Data: fileData})
		default:
			return nil, fmt.Errorf("%w: 不明なノード種別 0x%02x", ErrCorrupt, raw.typ)
		}
	}

	return arc, nil
}

// Bytes はアーカイブをU8形式のバイト列に書き出します。
// ノードは木の深さ優先順、ファイルデータは0x20バイト境界に
// 揃えて配置されます。Parseとの往復でエントリの並びと内容が
// バイト単位で保存されます。
func (a *Archive) Bytes() ([]byte, error) {
	// ノードを深さ優先で平坦化し、ディレクトリの親番号と終端番号を控える
	var flat []*Node
	parentIdx := make(map[*Node]int)
	endIdx := make(map[*Node]int)

	var walk func(n *Node, parent int)
	walk = func(n *Node, parent int) {
		idx := len(flat)
		flat = append(flat, n)
		if n.IsDir {
			parentIdx[n] = parent
			for _, c := range n.Children {
				walk(c, idx)
			}
			endIdx[n] = len(flat)
		}
	}
	walk(a.Root, 0)

	// 文字列プール (ノード順)
	nameOffs := make([]int, len(flat))
	var pool bytes.Buffer
	for i, n := range flat {
		if bytes.IndexByte([]byte(n.Name), 0) >= 0 {
			return nil, fmt.Errorf("%w: 名前にNUL文字が含まれています: %q", ErrCorrupt, n.Name)
		}
		nameOffs[i] = pool.Len()
		pool.WriteString(n.Name)
		pool.WriteByte(0)
	}
	if pool.Len() > 0xFFFFFF {
		return nil, fmt.Errorf("%w: 文字列プールが大きすぎます", ErrCorrupt)
	}

	headerSize := len(flat)*nodeSize + pool.Len()
	dataOff := align(rootNodeOffset+headerSize, dataAlign)

	// ファイルデータの配置を決める
	dataOffs := make(map[*Node]int)
	cur := dataOff
	for _, n := range flat {
		if n.IsDir {
			continue
		}
		cur = align(cur, dataAlign)
		dataOffs[n] = cur
		cur += len(n.Data)
	}

	out := make([]byte, cur)
	binary.BigEndian.PutUint32(out[0:], Magic)
	binary.BigEndian.PutUint32(out[4:], rootNodeOffset)
	binary.BigEndian.PutUint32(out[8:], uint32(headerSize))
	binary.BigEndian.PutUint32(out[12:], uint32(dataOff))

	for i, n := range flat {
		off := rootNodeOffset + i*nodeSize
		nameOff := nameOffs[i]
		out[off+1] = byte(nameOff >> 16)
		out[off+2] = byte(nameOff >> 8)
		out[off+3] = byte(nameOff)
		if n.IsDir {
			out[off] = nodeTypeDir
			binary.BigEndian.PutUint32(out[off+4:], uint32(parentIdx[n]))
			binary.BigEndian.PutUint32(out[off+8:], uint32(endIdx[n]))
		} else {
			out[off] = nodeTypeFile
			binary.BigEndian.PutUint32(out[off+4:], uint32(dataOffs[n]))
			binary.BigEndian.PutUint32(out[off+8:], uint32(len(n.Data)))
		}
	}

	copy(out[rootNodeOffset+len(flat)*nodeSize:], pool.Bytes())

	for _, n := range flat {
		if n.IsDir {
			continue
		}
		copy(out[dataOffs[n]:], n.Data)
	}

	return out, nil
}

func align(v, a int) int {
	return (v + a - 1) / a * a
}
