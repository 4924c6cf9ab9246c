package app

import "errors"

var (
	// ErrPathNotExist は指定されたパスがファイルでもディレクトリでもない場合のエラー
	ErrPathNotExist = errors.New("指定されたパスが存在しません")

	// ErrReadDirectory はディレクトリ内のファイル一覧を取得できなかった場合のエラー
	ErrReadDirectory = errors.New("ディレクトリ内のファイル一覧を取得できませんでした")
)
