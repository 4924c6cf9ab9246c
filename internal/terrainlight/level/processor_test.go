package level

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/shiroemons/go-terrainlight/internal/terrainlight/config"
	"github.com/shiroemons/go-terrainlight/internal/terrainlight/mocks"
	"github.com/shiroemons/go-terrainlight/pkg/lz11"
	"github.com/shiroemons/go-terrainlight/pkg/u8"
)

// buildLevelBytes は course/courseN.bin 構造のU8アーカイブを組み立てます
func buildLevelBytes(t *testing.T, slots map[string][]byte) []byte {
	t.Helper()
	arc := u8.New()
	course := &u8.Node{Name: "course", IsDir: true}
	arc.Root.Append(course)
	for i := 1; i <= 4; i++ {
		name := "course" + string(rune('0'+i)) + ".bin"
		if data, ok := slots[name]; ok {
			course.Append(&u8.Node{Name: name, Data: data})
		}
	}
	out, err := arc.Bytes()
	if err != nil {
		t.Fatalf("u8 Bytes() error = %v", err)
	}
	return out
}

func newTestProcessor(t *testing.T, fs *mocks.MockFileSystem, dryRun bool) (*Processor, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	logger := config.NewDebugLogger(false)
	p := NewProcessorWithOptions(logger, ProcessorOptions{
		FileSystem: fs,
		Out:        out,
		DryRun:     dryRun,
	})
	return p, out
}

func slotFlags(t *testing.T, data []byte, slotName string) []uint16 {
	t.Helper()
	arc, err := u8.Parse(data)
	if err != nil {
		t.Fatalf("u8 Parse() error = %v", err)
	}
	slot := arc.Entries()[0].Child(slotName)
	if slot == nil {
		t.Fatalf("スロット %s がありません", slotName)
	}
	off := binary.BigEndian.Uint32(slot.Data[zoneBlockHeaderOffset:])
	size := binary.BigEndian.Uint32(slot.Data[zoneBlockHeaderOffset+4:])
	var flags []uint16
	for i := 0; i < int(size)/zoneRecordSize; i++ {
		p := int(off) + i*zoneRecordSize + terrainLightingOffset
		flags = append(flags, binary.BigEndian.Uint16(slot.Data[p:]))
	}
	return flags
}

func TestProcessFile_Uncompressed(t *testing.T) {
	levelData := buildLevelBytes(t, map[string][]byte{
		"course1.bin": buildCourse(0x50, 48, []uint16{0x0001, 0x0000}),
		"course3.bin": buildCourse(0x50, 24, []uint16{0x0040}),
	})

	fs := mocks.NewMockFileSystem()
	fs.AddFile("levels/01-01.arc", levelData)
	p, out := newTestProcessor(t, fs, false)

	if err := p.ProcessFile("levels/01-01.arc"); err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}

	want := "Fixed 2 zones in 2 areas in levels/01-01.arc\n"
	if out.String() != want {
		t.Errorf("出力 = %q, want %q", out.String(), want)
	}

	// 書き戻されたファイルの全フラグが0になっていること
	written := fs.Files["levels/01-01.arc"]
	for _, slot := range []string{"course1.bin", "course3.bin"} {
		for i, f := range slotFlags(t, written, slot) {
			if f != 0 {
				t.Errorf("%s レコード%dのフラグ = 0x%04x, want 0", slot, i, f)
			}
		}
	}
}

func TestProcessFile_PreservesFileMode(t *testing.T) {
	levelData := buildLevelBytes(t, map[string][]byte{
		"course1.bin": buildCourse(0x50, 24, []uint16{0x0001}),
	})

	fs := mocks.NewMockFileSystem()
	fs.AddFile("levels/01-01.arc", levelData)
	fs.Modes["levels/01-01.arc"] = 0664
	p, _ := newTestProcessor(t, fs, false)

	if err := p.ProcessFile("levels/01-01.arc"); err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}

	// 書き戻しは元のファイルのパーミッションを引き継ぐ
	if perm := fs.WriteFilePerms["levels/01-01.arc"]; perm != 0664 {
		t.Errorf("書き込みパーミッション = %04o, want 0664", perm)
	}
}

func TestProcessFile_Pluralization(t *testing.T) {
	levelData := buildLevelBytes(t, map[string][]byte{
		"course1.bin": buildCourse(0x50, 24, []uint16{0x0001}),
	})

	fs := mocks.NewMockFileSystem()
	fs.AddFile("a.arc", levelData)
	p, out := newTestProcessor(t, fs, false)

	if err := p.ProcessFile("a.arc"); err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	want := "Fixed 1 zone in 1 area in a.arc\n"
	if out.String() != want {
		t.Errorf("出力 = %q, want %q", out.String(), want)
	}
}

func TestProcessFile_Compressed(t *testing.T) {
	levelData := buildLevelBytes(t, map[string][]byte{
		"course2.bin": buildCourse(0x50, 48, []uint16{0x0100, 0x0200}),
	})
	compressed, err := lz11.Compress(levelData)
	if err != nil {
		t.Fatalf("lz11 Compress() error = %v", err)
	}

	fs := mocks.NewMockFileSystem()
	fs.AddFile("levels/01-02.arc.LZ", compressed)
	p, out := newTestProcessor(t, fs, false)

	if err := p.ProcessFile("levels/01-02.arc.LZ"); err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if !strings.Contains(out.String(), "Fixed 2 zones in 1 area") {
		t.Errorf("出力 = %q", out.String())
	}

	// 書き戻された内容はLZ11のまま。展開して確認する
	written, err := lz11.Decompress(fs.Files["levels/01-02.arc.LZ"])
	if err != nil {
		t.Fatalf("書き戻しデータの展開に失敗: %v", err)
	}
	for i, f := range slotFlags(t, written, "course2.bin") {
		if f != 0 {
			t.Errorf("レコード%dのフラグ = 0x%04x, want 0", i, f)
		}
	}
}

func TestProcessFile_Idempotent(t *testing.T) {
	levelData := buildLevelBytes(t, map[string][]byte{
		"course1.bin": buildCourse(0x50, 48, []uint16{0x0001, 0x0002}),
	})

	fs := mocks.NewMockFileSystem()
	fs.AddFile("a.arc", levelData)
	p, _ := newTestProcessor(t, fs, false)

	if err := p.ProcessFile("a.arc"); err != nil {
		t.Fatalf("1回目 error = %v", err)
	}
	afterFirst := append([]byte{}, fs.Files["a.arc"]...)
	writesAfterFirst := fs.WriteFileCalls

	// 2回目は修正対象がないので書き込みが発生しない
	p2, out2 := newTestProcessor(t, fs, false)
	if err := p2.ProcessFile("a.arc"); err != nil {
		t.Fatalf("2回目 error = %v", err)
	}
	if fs.WriteFileCalls != writesAfterFirst {
		t.Errorf("2回目の実行で書き込みが発生しました")
	}
	if out2.Len() != 0 {
		t.Errorf("2回目の出力 = %q, want 空", out2.String())
	}
	if !bytes.Equal(fs.Files["a.arc"], afterFirst) {
		t.Errorf("2回目の実行でバイト列が変わりました")
	}
}

func TestProcessFile_NoFixesNoWrite(t *testing.T) {
	// 全フラグが既に0: 書き込みは発生しない
	levelData := buildLevelBytes(t, map[string][]byte{
		"course1.bin": buildCourse(0x50, 48, []uint16{0, 0}),
	})

	fs := mocks.NewMockFileSystem()
	fs.AddFile("a.arc", levelData)
	p, out := newTestProcessor(t, fs, false)

	if err := p.ProcessFile("a.arc"); err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if fs.WriteFileCalls != 0 {
		t.Errorf("書き込みが発生しました")
	}
	if out.Len() != 0 {
		t.Errorf("出力 = %q, want 空", out.String())
	}
}

func TestProcessFile_SkipsUnsupportedCompression(t *testing.T) {
	// 先頭バイトの上位ニブルが4: LH圧縮。残りを読まずにスキップする
	fs := mocks.NewMockFileSystem()
	fs.AddFile("a.arc", []byte{0x41, 0xFF, 0xFF, 0xFF, 0xFF})
	p, out := newTestProcessor(t, fs, false)

	if err := p.ProcessFile("a.arc"); err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if fs.ReadFileCalls != 0 {
		t.Errorf("スキップ対象なのにファイル全体を読んでいます")
	}
	if fs.WriteFileCalls != 0 || out.Len() != 0 {
		t.Errorf("スキップ対象なのに副作用があります")
	}
}

func TestProcessFile_SkipsUnknownFormat(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.AddFile("a.arc", []byte{0xDE, 0xAD, 0xBE, 0xEF})
	p, _ := newTestProcessor(t, fs, false)

	if err := p.ProcessFile("a.arc"); err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if fs.WriteFileCalls != 0 {
		t.Errorf("書き込みが発生しました")
	}
}

func TestProcessFile_SkipsNonLevelArchive(t *testing.T) {
	// トップレベルが course 以外: レベルではないarcファイル
	arc := u8.New()
	other := &u8.Node{Name: "textures", IsDir: true}
	other.Append(&u8.Node{Name: "bg.bin", Data: buildCourse(0x50, 24, []uint16{0x0001})})
	arc.Root.Append(other)
	data, err := arc.Bytes()
	if err != nil {
		t.Fatalf("u8 Bytes() error = %v", err)
	}

	fs := mocks.NewMockFileSystem()
	fs.AddFile("other.arc", data)
	p, out := newTestProcessor(t, fs, false)

	if err := p.ProcessFile("other.arc"); err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if fs.WriteFileCalls != 0 || out.Len() != 0 {
		t.Errorf("対象外のアーカイブに副作用があります")
	}
	if !bytes.Equal(fs.Files["other.arc"], data) {
		t.Errorf("対象外のアーカイブが書き換えられています")
	}
}

func TestProcessFile_DryRun(t *testing.T) {
	levelData := buildLevelBytes(t, map[string][]byte{
		"course1.bin": buildCourse(0x50, 24, []uint16{0x0001}),
	})

	fs := mocks.NewMockFileSystem()
	fs.AddFile("a.arc", levelData)
	p, out := newTestProcessor(t, fs, true)

	if err := p.ProcessFile("a.arc"); err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	// 報告はするが書き込まない
	if !strings.Contains(out.String(), "Fixed 1 zone in 1 area") {
		t.Errorf("出力 = %q", out.String())
	}
	if fs.WriteFileCalls != 0 {
		t.Errorf("ドライランなのに書き込みが発生しました")
	}
	if !bytes.Equal(fs.Files["a.arc"], levelData) {
		t.Errorf("ドライランなのにファイルが変わっています")
	}
}

func TestProcessFile_CorruptCourseHeader(t *testing.T) {
	// ゾーンブロックが範囲外を指すコース: 構造的な失敗として報告する
	course := make([]byte, 0x60)
	binary.BigEndian.PutUint32(course[zoneBlockHeaderOffset:], 0xFFFF)
	binary.BigEndian.PutUint32(course[zoneBlockHeaderOffset+4:], 0x100)
	levelData := buildLevelBytes(t, map[string][]byte{"course1.bin": course})

	fs := mocks.NewMockFileSystem()
	fs.AddFile("broken.arc", levelData)
	p, _ := newTestProcessor(t, fs, false)

	err := p.ProcessFile("broken.arc")
	if !errors.Is(err, ErrPatchCourse) {
		t.Fatalf("ProcessFile() error = %v, want ErrPatchCourse", err)
	}
	if !errors.Is(err, ErrZoneBlockOutOfRange) {
		t.Errorf("元のエラーが包まれていません: %v", err)
	}
	if fs.WriteFileCalls != 0 {
		t.Errorf("失敗したのに書き込みが発生しました")
	}
}
