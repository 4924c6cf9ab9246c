// Package interfaces はterrainlightコマンドで使用するインターフェースを定義します
package interfaces

import (
	"github.com/shiroemons/go-terrainlight/pkg/u8"
)

// FileSystem はファイルシステム操作のインターフェース
type FileSystem interface {
	ReadFile(filename string) ([]byte, error)
	// ReadFileHeader はファイルの先頭nバイトだけを読み込みます。
	// ファイルがnバイトより短い場合は読めた分だけを返します。
	ReadFileHeader(filename string, n int) ([]byte, error)
	WriteFile(filename string, data []byte, perm uint32) error
	Stat(name string) (FileInfo, error)
	ReadDir(dirname string) ([]DirEntry, error)
}

// FileInfo はファイル情報のインターフェース
type FileInfo interface {
	Name() string
	IsDir() bool
	// Mode はパーミッションビットを返します
	Mode() uint32
}

// DirEntry はディレクトリエントリのインターフェース
type DirEntry interface {
	Name() string
	IsDir() bool
}

// ContainerCodec はU8コンテナの読み書きを行うインターフェース
type ContainerCodec interface {
	Decode(data []byte) (*u8.Archive, error)
	Encode(arc *u8.Archive) ([]byte, error)
}

// CompressionCodec はLZ11圧縮の展開と再圧縮を行うインターフェース
type CompressionCodec interface {
	Decompress(data []byte) ([]byte, error)
	Compress(data []byte) ([]byte, error)
}

// Processor はレベルファイル1つを処理するインターフェース
type Processor interface {
	ProcessFile(path string) error
}

// Logger はログ出力のインターフェース
type Logger interface {
	Printf(format string, a ...any)
}
