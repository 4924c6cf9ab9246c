package fileutil

import "errors"

var (
	// ErrCreateTempFile は一時ファイルの作成に失敗した場合のエラー
	ErrCreateTempFile = errors.New("一時ファイルの作成に失敗しました")

	// ErrWriteContent は内容の書き込みに失敗した場合のエラー
	ErrWriteContent = errors.New("内容の書き込みに失敗しました")

	// ErrRenameTempFile は一時ファイルのリネームに失敗した場合のエラー
	ErrRenameTempFile = errors.New("一時ファイルのリネームに失敗しました")
)
