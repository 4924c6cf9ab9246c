package level

import (
	"github.com/shiroemons/go-terrainlight/pkg/lz11"
	"github.com/shiroemons/go-terrainlight/pkg/u8"
)

// U8Codec はpkg/u8をinterfaces.ContainerCodecとして提供します
type U8Codec struct{}

// NewU8Codec は新しいU8Codecを作成します
func NewU8Codec() *U8Codec {
	return &U8Codec{}
}

// Decode はU8コンテナを読み込みます
func (c *U8Codec) Decode(data []byte) (*u8.Archive, error) {
	return u8.Parse(data)
}

// Encode はU8コンテナを書き出します
func (c *U8Codec) Encode(arc *u8.Archive) ([]byte, error) {
	return arc.Bytes()
}

// NewLZ11Codec はpkg/lz11のコーデックをinterfaces.CompressionCodecとして返します
func NewLZ11Codec() *lz11.Codec {
	return lz11.NewCodec()
}
