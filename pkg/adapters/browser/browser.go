//go:build js && wasm

package browser

import (
	"fmt"
	"syscall/js"

	"github.com/aretw0/damascout/pkg/ports"
)

// Sink calls printError/printResult on a page object.
type Sink struct {
	obj js.Value
}

// Lookup resolves the page global called name. It returns nil when the page
// did not register one, or when either method is missing.
func Lookup(name string) ports.Sink {
	v := js.Global().Get(name)
	if v.IsUndefined() || v.IsNull() {
		return nil
	}
	if v.Get("printError").Type() != js.TypeFunction || v.Get("printResult").Type() != js.TypeFunction {
		return nil
	}
	return &Sink{obj: v}
}

// PrintError forwards an error report to the page.
func (s *Sink) PrintError(command, message string) error {
	return call(s.obj, "printError", command, message)
}

// PrintResult forwards a result report to the page.
func (s *Sink) PrintResult(command, message string) error {
	return call(s.obj, "printResult", command, message)
}

// call converts a thrown JS exception into an error.
func call(obj js.Value, method string, args ...any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s failed: %v", method, r)
		}
	}()
	obj.Call(method, args...)
	return nil
}

// Console writes to the browser console.
type Console struct {
	console js.Value
}

// NewConsole binds the global console object.
func NewConsole() *Console {
	return &Console{console: js.Global().Get("console")}
}

// Error calls console.error(line).
func (c *Console) Error(line string) {
	c.console.Call("error", line)
}

// Log calls console.log(line).
func (c *Console) Log(line string) {
	c.console.Call("log", line)
}
