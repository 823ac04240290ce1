// Command site serves the portfolio.
//
//	make wasm && go build -o site . && ./site serve --config site.yaml
package main

import (
	"os"

	"github.com/Zachkp/folio/internal/cli"
)

func main() {
	if err := cli.NewRoot(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
