package level

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// buildCourse はゾーンブロックを持つコースファイルを組み立てます。
// 全体を0xEEで埋めてからヘッダとフラグを書き込むので、フラグ以外の
// バイトが書き換わっていないことを検証できます。
func buildCourse(zonesOff int, zonesSize int, flags []uint16) []byte {
	data := bytes.Repeat([]byte{0xEE}, zonesOff+zonesSize)
	binary.BigEndian.PutUint32(data[zoneBlockHeaderOffset:], uint32(zonesOff))
	binary.BigEndian.PutUint32(data[zoneBlockHeaderOffset+4:], uint32(zonesSize))
	for i, f := range flags {
		binary.BigEndian.PutUint16(data[zonesOff+i*zoneRecordSize+terrainLightingOffset:], f)
	}
	return data
}

func TestPatchCourse_TwoRecords(t *testing.T) {
	// レコード0はフラグ0x0001、レコード1は0x0000
	input := buildCourse(0x50, 48, []uint16{0x0001, 0x0000})

	patched, fixes, err := PatchCourse(input)
	if err != nil {
		t.Fatalf("PatchCourse() error = %v", err)
	}
	if fixes != 1 {
		t.Errorf("fixes = %d, want 1", fixes)
	}

	// 両方のフラグが0x0000になっていること
	for i := 0; i < 2; i++ {
		off := 0x50 + i*zoneRecordSize + terrainLightingOffset
		if got := binary.BigEndian.Uint16(patched[off:]); got != 0 {
			t.Errorf("レコード%dのフラグ = 0x%04x, want 0x0000", i, got)
		}
	}

	// フラグ以外のバイトは一切変わっていないこと
	want := buildCourse(0x50, 48, []uint16{0x0000, 0x0000})
	if !bytes.Equal(patched, want) {
		t.Errorf("フラグ以外のバイトが書き換わっています")
	}
}

func TestPatchCourse_InputNotMutated(t *testing.T) {
	input := buildCourse(0x50, 24, []uint16{0xFFFF})
	original := append([]byte{}, input...)

	_, _, err := PatchCourse(input)
	if err != nil {
		t.Fatalf("PatchCourse() error = %v", err)
	}
	if !bytes.Equal(input, original) {
		t.Errorf("入力バッファが書き換えられています")
	}
}

func TestPatchCourse_EmptyZoneBlock(t *testing.T) {
	// サイズ0のゾーンブロック: レコード0件、修正0件
	input := buildCourse(0x50, 0, nil)

	patched, fixes, err := PatchCourse(input)
	if err != nil {
		t.Fatalf("PatchCourse() error = %v", err)
	}
	if fixes != 0 {
		t.Errorf("fixes = %d, want 0", fixes)
	}
	if !bytes.Equal(patched, input) {
		t.Errorf("バイト列が変わっています")
	}
}

func TestPatchCourse_TrailingBytesIgnored(t *testing.T) {
	// サイズ50 = レコード2件 + 端数2バイト。端数はレコードではない
	input := buildCourse(0x50, 50, []uint16{0x0100, 0x0200})

	_, fixes, err := PatchCourse(input)
	if err != nil {
		t.Fatalf("PatchCourse() error = %v", err)
	}
	if fixes != 2 {
		t.Errorf("fixes = %d, want 2", fixes)
	}
}

func TestPatchCourse_AscendingOrder(t *testing.T) {
	input := buildCourse(0x50, 96, []uint16{1, 0, 2, 3})

	_, fixes, err := PatchCourse(input)
	if err != nil {
		t.Fatalf("PatchCourse() error = %v", err)
	}
	if fixes != 3 {
		t.Errorf("fixes = %d, want 3", fixes)
	}
}

func TestPatchCourse_TooShort(t *testing.T) {
	_, _, err := PatchCourse(make([]byte, 0x40))
	if !errors.Is(err, ErrCourseTooShort) {
		t.Errorf("PatchCourse() error = %v, want ErrCourseTooShort", err)
	}
}

func TestPatchCourse_HeaderOutOfRange(t *testing.T) {
	// ヘッダがバッファの範囲外を指す: 破損として扱う
	data := make([]byte, 0x60)
	binary.BigEndian.PutUint32(data[zoneBlockHeaderOffset:], 0x1000)
	binary.BigEndian.PutUint32(data[zoneBlockHeaderOffset+4:], 0x100)

	_, _, err := PatchCourse(data)
	if !errors.Is(err, ErrZoneBlockOutOfRange) {
		t.Errorf("PatchCourse() error = %v, want ErrZoneBlockOutOfRange", err)
	}
}
