// Package app はアプリケーションのメインロジックを実装します
package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/shiroemons/go-terrainlight/internal/terrainlight/config"
	"github.com/shiroemons/go-terrainlight/internal/terrainlight/fileutil"
	"github.com/shiroemons/go-terrainlight/internal/terrainlight/interfaces"
	"github.com/shiroemons/go-terrainlight/internal/terrainlight/level"
)

// App はアプリケーションのメインロジックを管理します
type App struct {
	config    *config.Config
	logger    *config.DebugLogger
	fs        interfaces.FileSystem
	processor interfaces.Processor
	errOut    io.Writer
}

// Options はAppの設定オプション
type Options struct {
	FileSystem interfaces.FileSystem
	Processor  interfaces.Processor
	ErrOut     io.Writer
}

// New は新しいAppを作成します
func New(cfg *config.Config) *App {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions は新しいAppをオプション付きで作成します
func NewWithOptions(cfg *config.Config, opts Options) *App {
	logger := config.NewDebugLogger(cfg.DebugMode)

	// デフォルトのファイルシステムを設定
	fs := opts.FileSystem
	if fs == nil {
		fs = fileutil.NewOSFileSystem()
	}

	// デフォルトのProcessorを設定
	processor := opts.Processor
	if processor == nil {
		processor = level.NewProcessorWithOptions(logger, level.ProcessorOptions{
			FileSystem: fs,
			DryRun:     cfg.DryRun,
		})
	}

	errOut := opts.ErrOut
	if errOut == nil {
		errOut = os.Stderr
	}

	return &App{
		config:    cfg,
		logger:    logger,
		fs:        fs,
		processor: processor,
		errOut:    errOut,
	}
}

// Run はアプリケーションを実行します。
// 指定されたパスがファイルならそのまま処理し (エラーは呼び出し元に
// 伝播)、ディレクトリなら走査します。どちらでもなければ
// ErrPathNotExist を返します。
func (a *App) Run() error {
	info, err := a.fs.Stat(a.config.Path)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrPathNotExist, a.config.Path)
	}

	if !info.IsDir() {
		// 明示的に指定された1ファイルの失敗は隠さず伝播させる
		return a.processor.ProcessFile(a.config.Path)
	}

	return a.walkDir(a.config.Path)
}

// walkDir はディレクトリを走査します。
// まずこの階層のレベルファイルをすべて処理してから、再帰が有効な
// 場合にサブディレクトリへ降ります。各パスはファイル用とディレクトリ
// 用で独立に一覧を取り直します。
func (a *App) walkDir(dir string) error {
	entries, err := a.fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReadDirectory, dir, err)
	}
	sortEntries(entries)

	// まずこの階層のファイルを処理する...
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if fileutil.LooksLikeLevelFile(entry.Name()) {
			a.processFileSafe(filepath.Join(dir, entry.Name()))
		}
	}

	// ...次にサブディレクトリ (再帰が有効な場合)
	if a.config.Recursive {
		entries, err := a.fs.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrReadDirectory, dir, err)
		}
		sortEntries(entries)

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			if err := a.walkDir(filepath.Join(dir, entry.Name())); err != nil {
				// サブディレクトリの失敗も走査全体は止めない
				fmt.Fprintf(a.errOut, "ERROR while scanning %q:\n%v\n", filepath.Join(dir, entry.Name()), err)
			}
		}
	}

	return nil
}

// processFileSafe はファイル1つの失敗を記録して握りつぶすラッパーです。
// 1つの壊れたファイルで走査全体が止まらないようにします。
func (a *App) processFileSafe(path string) {
	if err := a.processor.ProcessFile(path); err != nil {
		fmt.Fprintf(a.errOut, "ERROR while checking %q:\n%v\n", path, err)
	}
}

// sortEntries はエントリを名前順に並べ替えます (走査順を決定的にするため)
func sortEntries(entries []interfaces.DirEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
}
