package js

import (
	"fmt"
	"os"
	"sync"

	"github.com/aretw0/damascout/pkg/domain"
	"github.com/aretw0/damascout/pkg/ports"
	"github.com/dop251/goja"
)

// DefaultName is the global the browser host registers its output object under.
const DefaultName = "damascOutput"

// Sink implements ports.Sink by calling printError/printResult on an object
// living in a goja runtime.
//
// goja runtimes are not goroutine-safe; calls are serialised, and the runtime
// must not be used concurrently by other code while the sink is in use.
type Sink struct {
	vm          *goja.Runtime
	obj         *goja.Object
	printError  goja.Callable
	printResult goja.Callable
	mu          sync.Mutex
}

// NewSink resolves the global object called name in vm.
// It returns domain.ErrSinkNotFound when the global is undefined or null and
// domain.ErrSinkInvalid when either method is not callable.
func NewSink(vm *goja.Runtime, name string) (*Sink, error) {
	val := vm.Get(name)
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSinkNotFound, name)
	}

	obj := val.ToObject(vm)
	printError, ok := goja.AssertFunction(obj.Get("printError"))
	if !ok {
		return nil, fmt.Errorf("%w: %s.printError is not a function", domain.ErrSinkInvalid, name)
	}
	printResult, ok := goja.AssertFunction(obj.Get("printResult"))
	if !ok {
		return nil, fmt.Errorf("%w: %s.printResult is not a function", domain.ErrSinkInvalid, name)
	}

	return &Sink{
		vm:          vm,
		obj:         obj,
		printError:  printError,
		printResult: printResult,
	}, nil
}

// PrintError calls printError(command, message) on the JS object.
func (s *Sink) PrintError(command, message string) error {
	return s.call(s.printError, command, message)
}

// PrintResult calls printResult(command, message) on the JS object.
func (s *Sink) PrintResult(command, message string) error {
	return s.call(s.printResult, command, message)
}

func (s *Sink) call(fn goja.Callable, command, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fn(s.obj, s.vm.ToValue(command), s.vm.ToValue(message)); err != nil {
		return fmt.Errorf("js sink call failed: %w", err)
	}
	return nil
}

// InstallConsole exposes c to scripts as the global console object with
// error and log methods. Multiple arguments are joined with spaces.
func InstallConsole(vm *goja.Runtime, c ports.Console) error {
	obj := vm.NewObject()
	join := func(call goja.FunctionCall) string {
		out := ""
		for i, arg := range call.Arguments {
			if i > 0 {
				out += " "
			}
			out += arg.String()
		}
		return out
	}

	if err := obj.Set("error", func(call goja.FunctionCall) goja.Value {
		c.Error(join(call))
		return goja.Undefined()
	}); err != nil {
		return err
	}
	if err := obj.Set("log", func(call goja.FunctionCall) goja.Value {
		c.Log(join(call))
		return goja.Undefined()
	}); err != nil {
		return err
	}
	return vm.Set("console", obj)
}

// NewRuntime creates a goja runtime with console bound to c.
func NewRuntime(c ports.Console) (*goja.Runtime, error) {
	vm := goja.New()
	if err := InstallConsole(vm, c); err != nil {
		return nil, fmt.Errorf("failed to install console: %w", err)
	}
	return vm, nil
}

// LoadScript runs the host script at path in vm. The script is expected to
// define the output object, e.g. globalThis.damascOutput = {...}.
func LoadScript(vm *goja.Runtime, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	if _, err := vm.RunScript(path, string(src)); err != nil {
		return fmt.Errorf("failed to run script %s: %w", path, err)
	}
	return nil
}

// Load builds a runtime bound to c, runs the script at path, and resolves the
// sink called name. A missing global yields domain.ErrSinkNotFound so callers
// can fall back to console-only routing.
func Load(c ports.Console, path, name string) (*Sink, error) {
	vm, err := NewRuntime(c)
	if err != nil {
		return nil, err
	}
	if err := LoadScript(vm, path); err != nil {
		return nil, err
	}
	return NewSink(vm, name)
}
