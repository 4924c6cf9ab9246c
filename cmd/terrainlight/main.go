package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/shiroemons/go-terrainlight/internal/terrainlight/app"
	"github.com/shiroemons/go-terrainlight/internal/terrainlight/config"
)

const banner = `Terrain Lighting Eliminator: eliminate terrain lighting from all your
NSMBW levels!
This program comes with ABSOLUTELY NO WARRANTY; for details, see the
included LICENSE file.
This is free software, and you are welcome to redistribute it
under certain conditions; see the included LICENSE file for details.
`

func main() {
	cfg := config.ParseFlags()

	// バージョン表示
	config.HandleVersion(cfg.ShowVersion)

	fmt.Print(banner)
	fmt.Println()

	// 引数チェック
	if cfg.Path == "" {
		flag.Usage()
		os.Exit(1)
	}

	application := app.New(cfg)
	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrPathNotExist) {
			fmt.Printf("Error: %q does not exist.\n", cfg.Path)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "エラー: %v\n", err)
		os.Exit(1)
	}
}
