// Package mocks はテスト用のモック実装を提供します
package mocks

import (
	"errors"
	"path/filepath"

	"github.com/shiroemons/go-terrainlight/internal/terrainlight/interfaces"
)

// MockFileSystem はテスト用のファイルシステムモック
type MockFileSystem struct {
	Files map[string][]byte
	// Modes はファイルごとのパーミッション (AddFileは0644を設定)
	Modes map[string]uint32
	Dirs  map[string]bool
	Error error

	// ReadFileCalls は全体読み込みの回数 (ReadFileHeaderは数えない)
	ReadFileCalls int
	// WriteFileCalls は書き込みの回数
	WriteFileCalls int
	// WriteFilePerms は書き込み時に指定されたパーミッション
	WriteFilePerms map[string]uint32
}

// NewMockFileSystem は新しいMockFileSystemを作成します
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:          make(map[string][]byte),
		Modes:          make(map[string]uint32),
		Dirs:           make(map[string]bool),
		WriteFilePerms: make(map[string]uint32),
	}
}

// AddFile はファイルを登録し、親ディレクトリも合わせて登録します
func (fs *MockFileSystem) AddFile(path string, data []byte) {
	fs.Files[path] = data
	fs.Modes[path] = 0644
	dir := filepath.Dir(path)
	for dir != "." && dir != "/" && !fs.Dirs[dir] {
		fs.Dirs[dir] = true
		dir = filepath.Dir(dir)
	}
}

// ReadFile はファイルを読み込みます
func (fs *MockFileSystem) ReadFile(filename string) ([]byte, error) {
	fs.ReadFileCalls++
	return fs.readFile(filename)
}

// ReadFileHeader はファイルの先頭nバイトだけを読み込みます
func (fs *MockFileSystem) ReadFileHeader(filename string, n int) ([]byte, error) {
	data, err := fs.readFile(filename)
	if err != nil {
		return nil, err
	}
	if len(data) < n {
		return data, nil
	}
	return data[:n], nil
}

func (fs *MockFileSystem) readFile(filename string) ([]byte, error) {
	if fs.Error != nil {
		return nil, fs.Error
	}
	data, exists := fs.Files[filename]
	if !exists {
		return nil, errors.New("file not found")
	}
	return data, nil
}

// WriteFile はファイルを書き込みます
func (fs *MockFileSystem) WriteFile(filename string, data []byte, perm uint32) error {
	if fs.Error != nil {
		return fs.Error
	}
	fs.WriteFileCalls++
	fs.Files[filename] = data
	fs.WriteFilePerms[filename] = perm
	return nil
}

// Stat はファイル情報を取得します
func (fs *MockFileSystem) Stat(name string) (interfaces.FileInfo, error) {
	if fs.Error != nil {
		return nil, fs.Error
	}
	if _, exists := fs.Files[name]; exists {
		return &MockFileInfo{FileName: filepath.Base(name), FileMode: fs.Modes[name]}, nil
	}
	if fs.Dirs[name] {
		return &MockFileInfo{FileName: filepath.Base(name), Dir: true}, nil
	}
	return nil, errors.New("file not found")
}

// ReadDir はディレクトリ直下のエントリを列挙します
func (fs *MockFileSystem) ReadDir(dirname string) ([]interfaces.DirEntry, error) {
	if fs.Error != nil {
		return nil, fs.Error
	}
	if !fs.Dirs[dirname] {
		return nil, errors.New("directory not found")
	}

	var result []interfaces.DirEntry
	for path := range fs.Files {
		if filepath.Dir(path) == dirname {
			result = append(result, &MockDirEntry{EntryName: filepath.Base(path)})
		}
	}
	for path := range fs.Dirs {
		if filepath.Dir(path) == dirname {
			result = append(result, &MockDirEntry{EntryName: filepath.Base(path), Dir: true})
		}
	}
	return result, nil
}

// MockFileInfo はテスト用のファイル情報
type MockFileInfo struct {
	FileName string
	FileMode uint32
	Dir      bool
}

// Name はファイル名を返します
func (fi *MockFileInfo) Name() string {
	return fi.FileName
}

// IsDir はディレクトリかどうかを返します
func (fi *MockFileInfo) IsDir() bool {
	return fi.Dir
}

// Mode はパーミッションビットを返します
func (fi *MockFileInfo) Mode() uint32 {
	return fi.FileMode
}

// MockDirEntry はテスト用のディレクトリエントリ
type MockDirEntry struct {
	EntryName string
	Dir       bool
}

// Name はエントリ名を返します
func (de *MockDirEntry) Name() string {
	return de.EntryName
}

// IsDir はディレクトリかどうかを返します
func (de *MockDirEntry) IsDir() bool {
	return de.Dir
}
