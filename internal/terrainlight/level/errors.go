package level

import "errors"

var (
	// ErrCourseTooShort はコースファイルがヘッダ分の長ささえない場合のエラー
	ErrCourseTooShort = errors.New("コースファイルが短すぎます")

	// ErrZoneBlockOutOfRange はヘッダのゾーンブロック位置がコースファイルの
	// 範囲外を指している場合のエラー
	ErrZoneBlockOutOfRange = errors.New("ゾーンブロックがコースファイルの範囲外を指しています")

	// ErrReadFile はファイルの読み込みに失敗した場合のエラー
	ErrReadFile = errors.New("ファイルの読み込みに失敗しました")

	// ErrDecompress はLZ11の展開に失敗した場合のエラー
	ErrDecompress = errors.New("LZ11の展開に失敗しました")

	// ErrCompress はLZ11の再圧縮に失敗した場合のエラー
	ErrCompress = errors.New("LZ11の再圧縮に失敗しました")

	// ErrDecodeContainer はU8コンテナの読み込みに失敗した場合のエラー
	ErrDecodeContainer = errors.New("U8コンテナの読み込みに失敗しました")

	// ErrEncodeContainer はU8コンテナの書き出しに失敗した場合のエラー
	ErrEncodeContainer = errors.New("U8コンテナの書き出しに失敗しました")

	// ErrPatchCourse はコースファイルのパッチに失敗した場合のエラー
	ErrPatchCourse = errors.New("コースファイルのパッチに失敗しました")

	// ErrWriteFile はファイルの書き込みに失敗した場合のエラー
	ErrWriteFile = errors.New("ファイルの書き込みに失敗しました")
)
