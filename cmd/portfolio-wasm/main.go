//go:build js && wasm

// Command portfolio-wasm is the browser build of the page enhancements.
//
//	GOOS=js GOARCH=wasm go build -o web/static/main.wasm ./cmd/portfolio-wasm
package main

import (
	"context"

	"github.com/Zachkp/folio/internal/portfolio"
	"github.com/Zachkp/folio/internal/ui/jsdom"
	"github.com/Zachkp/folio/pkg/logger"
)

func main() {
	log := logger.MustNew(logger.Options{Level: "info"})
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	loop := jsdom.NewLoop()
	doc := jsdom.NewDocument(loop)
	win := jsdom.NewWindow(loop)

	p := portfolio.New(doc, win, loop, portfolio.Options{Logger: log})
	p.Start(ctx)

	loop.Run(ctx)
}
