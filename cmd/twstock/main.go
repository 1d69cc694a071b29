// Command twstock is the Taiwan stock market RAG analyst CLI.
package main

import (
	"os"

	"github.com/tsen1220/tw-stock-analyst/internal/adapters/driving/cli"
)

// version is overridden at build time:
//
//	go build -ldflags "-X main.version=v1.2.3"
var version = "dev"

func main() {
	cli.SetVersion(version)
	os.Exit(cli.Execute())
}
