//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/aretw0/damascout"
	"github.com/aretw0/damascout/pkg/adapters/browser"
	"github.com/aretw0/damascout/pkg/domain"
)

// The page calls damascShowError(cmd, str) and damascShowResult(cmd, str).
// window.damascOutput is resolved once at load; a page that registers it
// later must call damascRebind().
func main() {
	policy := domain.DefaultErrorPolicy
	if p := js.Global().Get("damascErrorPolicy"); p.Type() == js.TypeString {
		if parsed, err := domain.ParseErrorPolicy(p.String()); err == nil {
			policy = parsed
		}
	}

	build := func() *damascout.Router {
		return damascout.New(browser.NewConsole(),
			damascout.WithSink(browser.Lookup("damascOutput")),
			damascout.WithErrorPolicy(policy),
		)
	}
	router := build()

	js.Global().Set("damascShowError", js.FuncOf(func(this js.Value, args []js.Value) any {
		cmd, msg := pair(args)
		router.ReportError(cmd, msg)
		return nil
	}))
	js.Global().Set("damascShowResult", js.FuncOf(func(this js.Value, args []js.Value) any {
		cmd, msg := pair(args)
		router.ReportResult(cmd, msg)
		return nil
	}))
	js.Global().Set("damascRebind", js.FuncOf(func(this js.Value, args []js.Value) any {
		router = build()
		return router.HasSink()
	}))

	select {}
}

func pair(args []js.Value) (string, string) {
	var cmd, msg string
	if len(args) > 0 {
		cmd = args[0].String()
	}
	if len(args) > 1 {
		msg = args[1].String()
	}
	return cmd, msg
}
