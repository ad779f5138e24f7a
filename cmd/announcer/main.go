package main

import (
	"os"

	"github.com/nerdneilsfield/go-announce-bot/internal/cli"
)

// 构建时通过 -ldflags "-X main.version=..." 注入
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if err := cli.NewRootCommand(version, commit, buildDate).Execute(); err != nil {
		os.Exit(1)
	}
}
