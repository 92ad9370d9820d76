// tripmanは旅行プラン管理APIサーバーの起動バイナリ。
// サブコマンド (serve / worker / migrate / healthcheck) でモードを切り替える。
package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/tripman/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "tripman: %v\n", err)
		os.Exit(1)
	}
}
