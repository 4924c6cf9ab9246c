package level

import (
	"fmt"
	"io"
	"os"

	"github.com/shiroemons/go-terrainlight/internal/terrainlight/config"
	"github.com/shiroemons/go-terrainlight/internal/terrainlight/fileutil"
	"github.com/shiroemons/go-terrainlight/internal/terrainlight/interfaces"
)

// maxAreas はレベル1つが持てるエリア数 (course1.bin..course4.bin)
const maxAreas = 4

// topLevelEntryName はレベルアーカイブの唯一のトップレベルエントリ名
const topLevelEntryName = "course"

// Processor はレベルファイル1つ分のパイプラインを実行します。
// 圧縮形式の判定、展開、コンテナの読み込み、各エリアのパッチ、
// 再エンコード、再圧縮、書き戻しまでを担当します。
type Processor struct {
	logger      interfaces.Logger
	fs          interfaces.FileSystem
	container   interfaces.ContainerCodec
	compression interfaces.CompressionCodec
	out         io.Writer
	dryRun      bool
}

// ProcessorOptions はProcessorの設定オプション
type ProcessorOptions struct {
	FileSystem  interfaces.FileSystem
	Container   interfaces.ContainerCodec
	Compression interfaces.CompressionCodec
	Out         io.Writer
	DryRun      bool
}

// NewProcessor は新しいProcessorを作成します
func NewProcessor(logger *config.DebugLogger) *Processor {
	return NewProcessorWithOptions(logger, ProcessorOptions{})
}

// NewProcessorWithOptions は新しいProcessorをオプション付きで作成します
func NewProcessorWithOptions(logger interfaces.Logger, opts ProcessorOptions) *Processor {
	fs := opts.FileSystem
	if fs == nil {
		fs = fileutil.NewOSFileSystem()
	}

	container := opts.Container
	if container == nil {
		container = NewU8Codec()
	}

	compression := opts.Compression
	if compression == nil {
		compression = NewLZ11Codec()
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	return &Processor{
		logger:      logger,
		fs:          fs,
		container:   container,
		compression: compression,
		out:         out,
		dryRun:      opts.DryRun,
	}
}

// ProcessFile はレベルファイル1つを処理し、必要なら書き戻します。
// レベルファイルでないと判定したファイルはエラーにせず、
// 一切変更しないまま正常終了します。
func (p *Processor) ProcessFile(path string) error {
	// まず先頭4バイトだけで形式を判定する
	first4, err := p.fs.ReadFileHeader(path, 4)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadFile, err)
	}

	compression := Classify(first4)
	switch compression {
	case CompressionUnsupported:
		// LHは再圧縮できないためスキップ
		p.logger.Printf("%s: 未対応の圧縮形式のためスキップします\n", path)
		return nil
	case CompressionUnknown:
		// おそらくレベルファイルではない
		p.logger.Printf("%s: レベルファイルではないためスキップします\n", path)
		return nil
	}

	data, err := p.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadFile, err)
	}

	isCompressed := compression == CompressionLZ11
	if isCompressed {
		data, err = p.compression.Decompress(data)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDecompress, err)
		}
	}

	arc, err := p.container.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeContainer, err)
	}

	// トップレベルが course ディレクトリ1つだけでなければ
	// レベル以外のarcファイルなので触らない
	entries := arc.Entries()
	if len(entries) != 1 || entries[0].Name != topLevelEntryName || !entries[0].IsDir {
		p.logger.Printf("%s: course以外の構造のためスキップします\n", path)
		return nil
	}
	course := entries[0]

	// 各エリアをパッチする。エリアは独立しており、
	// 欠けているスロットは単に飛ばす
	totalFixes := 0
	totalAreasFixed := 0
	for i := 1; i <= maxAreas; i++ {
		slotName := fmt.Sprintf("course%d.bin", i)
		slot := course.Child(slotName)
		if slot == nil || slot.IsDir {
			continue
		}

		patched, fixes, err := PatchCourse(slot.Data)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrPatchCourse, slotName, err)
		}
		if fixes > 0 {
			slot.Data = patched
			totalFixes += fixes
			totalAreasFixed++
		}
	}

	// 修正がなければ書き戻さない (再実行しても何も起きない)
	if totalFixes == 0 {
		p.logger.Printf("%s: 修正対象はありませんでした\n", path)
		return nil
	}

	fmt.Fprintf(p.out, "Fixed %d zone%s in %d area%s in %s\n",
		totalFixes, plural(totalFixes), totalAreasFixed, plural(totalAreasFixed), path)

	if p.dryRun {
		p.logger.Printf("%s: ドライランのため書き込みをスキップします\n", path)
		return nil
	}

	output, err := p.container.Encode(arc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeContainer, err)
	}
	if isCompressed {
		output, err = p.compression.Compress(output)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCompress, err)
		}
	}

	// 元のファイルのパーミッションを引き継いで書き戻す
	perm := uint32(0644)
	if info, err := p.fs.Stat(path); err == nil && info.Mode() != 0 {
		perm = info.Mode()
	}
	if err := p.fs.WriteFile(path, output, perm); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFile, err)
	}
	return nil
}

// plural は英語の複数形接尾辞を返します
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
