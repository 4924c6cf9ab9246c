// Package config はterrainlightコマンドの設定管理を行います
package config

import (
	"flag"
	"fmt"
	"os"
)

const Version = "0.1.0"

// Config はアプリケーションの設定を保持します
type Config struct {
	Path        string
	Recursive   bool
	DryRun      bool
	DebugMode   bool
	ShowVersion bool
}

// ParseFlags はコマンドライン引数を解析して設定を返します
func ParseFlags() *Config {
	config := &Config{}

	// カスタムUsage関数を設定（ダブルハイフン表示）
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] <path>\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "  <path>")
		fmt.Fprintln(flag.CommandLine.Output(), "    \ta level file or folder (will be edited in-place)")
		fmt.Fprintln(flag.CommandLine.Output(), "  --recursive")
		fmt.Fprintln(flag.CommandLine.Output(), "    \tsearch through subfolders too")
		fmt.Fprintln(flag.CommandLine.Output(), "  -r\tsearch through subfolders too (shorthand)")
		fmt.Fprintln(flag.CommandLine.Output(), "  --dry-run")
		fmt.Fprintln(flag.CommandLine.Output(), "    \treport what would change without writing any file")
		fmt.Fprintln(flag.CommandLine.Output(), "  -n\treport what would change without writing any file (shorthand)")
		fmt.Fprintln(flag.CommandLine.Output(), "  --debug")
		fmt.Fprintln(flag.CommandLine.Output(), "    \tenable debug output")
		fmt.Fprintln(flag.CommandLine.Output(), "  -d\tenable debug output (shorthand)")
		fmt.Fprintln(flag.CommandLine.Output(), "  --version")
		fmt.Fprintln(flag.CommandLine.Output(), "    \tshow version information")
		fmt.Fprintln(flag.CommandLine.Output(), "  -v\tshow version information (shorthand)")
	}

	// 再帰フラグ
	flag.BoolVar(&config.Recursive, "recursive", false, "search through subfolders too")
	flag.BoolVar(&config.Recursive, "r", false, "search through subfolders too (shorthand)")

	// ドライランモード
	flag.BoolVar(&config.DryRun, "dry-run", false, "report what would change without writing any file")
	flag.BoolVar(&config.DryRun, "n", false, "report what would change without writing any file (shorthand)")

	// デバッグモード
	flag.BoolVar(&config.DebugMode, "debug", false, "enable debug output")
	flag.BoolVar(&config.DebugMode, "d", false, "enable debug output (shorthand)")

	// バージョン表示
	flag.BoolVar(&config.ShowVersion, "version", false, "show version information")
	flag.BoolVar(&config.ShowVersion, "v", false, "show version information (shorthand)")

	flag.Parse()

	config.Path = flag.Arg(0)

	return config
}

// HandleVersion はバージョン表示を処理します
func HandleVersion(showVersion bool) {
	if showVersion {
		fmt.Printf("terrainlight version %s\n", Version)
		os.Exit(0)
	}
}

// DebugLogger はデバッグ出力を管理します
type DebugLogger struct {
	enabled bool
}

// NewDebugLogger は新しいDebugLoggerを作成します
func NewDebugLogger(enabled bool) *DebugLogger {
	return &DebugLogger{enabled: enabled}
}

// Printf はデバッグモードが有効な場合のみメッセージを表示します
func (d *DebugLogger) Printf(format string, a ...any) {
	if d.enabled {
		fmt.Printf(format, a...)
	}
}
