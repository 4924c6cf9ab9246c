// Package fileutil はファイル操作のユーティリティ関数を提供します
package fileutil

import (
	"path/filepath"
	"strings"
)

// LooksLikeLevelFile はファイル名がレベルファイルらしいかを判定します。
// 拡張子 .arc、または複合拡張子 .arc.lz (いずれも大文字小文字を区別
// しない) に一致する場合にtrueを返します。
func LooksLikeLevelFile(name string) bool {
	lower := strings.ToLower(filepath.Base(name))

	ext := filepath.Ext(lower)
	if ext == ".arc" {
		return true
	}
	if ext == ".lz" {
		return filepath.Ext(strings.TrimSuffix(lower, ext)) == ".arc"
	}
	return false
}
