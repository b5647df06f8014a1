//go:build !(js && wasm)

package main

import (
	"fmt"
	"os"
)

// Stub for non-wasm builds. The page binding lives in main.go.
func main() {
	fmt.Fprintln(os.Stderr, "damascout-wasm must be built with GOOS=js GOARCH=wasm")
	os.Exit(1)
}
