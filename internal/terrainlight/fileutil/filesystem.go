package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shiroemons/go-terrainlight/internal/terrainlight/interfaces"
)

// OSFileSystem は実際のOSファイルシステムを使用する実装
type OSFileSystem struct{}

// NewOSFileSystem は新しいOSFileSystemを作成します
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// ReadFile はファイルを読み込みます
func (fs *OSFileSystem) ReadFile(filename string) ([]byte, error) {
	return os.ReadFile(filename)
}

// ReadFileHeader はファイルの先頭nバイトだけを読み込みます。
// ファイル全体を読む前に形式を判定するために使います。
func (fs *OSFileSystem) ReadFileHeader(filename string, n int) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(file, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		// ファイルがnバイトより短い場合は読めた分だけ返す
		return buf[:read], nil
	}
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteFile はファイルを書き込みます。
// 同じディレクトリの一時ファイルに書いてからリネームすることで、
// 書き込み途中の失敗で元のファイルが壊れないようにします。
func (fs *OSFileSystem) WriteFile(filename string, data []byte, perm uint32) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, ".terrainlight-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreateTempFile, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", ErrWriteContent, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", ErrWriteContent, err)
	}
	if err := os.Chmod(tmpPath, os.FileMode(perm)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", ErrWriteContent, err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", ErrRenameTempFile, err)
	}
	return nil
}

// Stat はファイル情報を取得します
func (fs *OSFileSystem) Stat(name string) (interfaces.FileInfo, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	return &osFileInfo{info}, nil
}

// ReadDir はディレクトリを読み込みます
func (fs *OSFileSystem) ReadDir(dirname string) ([]interfaces.DirEntry, error) {
	entries, err := os.ReadDir(dirname)
	if err != nil {
		return nil, err
	}

	result := make([]interfaces.DirEntry, len(entries))
	for i, entry := range entries {
		result[i] = &osDirEntry{entry}
	}
	return result, nil
}

// osFileInfo はos.FileInfoのラッパー
type osFileInfo struct {
	os.FileInfo
}

// Name はファイル名を返します
func (fi *osFileInfo) Name() string {
	return fi.FileInfo.Name()
}

// IsDir はディレクトリかどうかを返します
func (fi *osFileInfo) IsDir() bool {
	return fi.FileInfo.IsDir()
}

// Mode はパーミッションビットを返します
func (fi *osFileInfo) Mode() uint32 {
	return uint32(fi.FileInfo.Mode().Perm())
}

// osDirEntry はos.DirEntryのラッパー
type osDirEntry struct {
	os.DirEntry
}

// Name はエントリ名を返します
func (de *osDirEntry) Name() string {
	return de.DirEntry.Name()
}

// IsDir はディレクトリかどうかを返します
func (de *osDirEntry) IsDir() bool {
	return de.DirEntry.IsDir()
}
