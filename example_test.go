package damascout_test

import (
	"fmt"
	"os"

	"github.com/aretw0/damascout"
	"github.com/aretw0/damascout/pkg/adapters/console"
	"github.com/aretw0/damascout/pkg/adapters/memory"
)

// ExampleNew shows the console fallback used when no sink is registered.
func ExampleNew() {
	r := damascout.New(console.New(os.Stdout, os.Stdout))

	r.ReportResult("run", "42")
	// Output:
	// >>run
	// 42
}

// ExampleWithSink shows a registered sink taking results instead of the console.
func ExampleWithSink() {
	sink := memory.NewSink()
	r := damascout.New(console.New(os.Stdout, os.Stdout), damascout.WithSink(sink))

	r.ReportResult("run", "42")

	for _, rep := range sink.Reports() {
		fmt.Printf("%s %q %q\n", rep.Kind, rep.Command, rep.Message)
	}
	// Output:
	// result "run" "42"
}
