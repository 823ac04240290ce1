// Package web embeds the page templates and static assets. The wasm client and
// wasm_exec.js are copied into static/ by `make wasm` before the server build.
package web

import "embed"

//go:embed templates static
var FS embed.FS
