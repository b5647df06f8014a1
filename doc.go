/*
Package damascout routes the output of a damasc evaluation host.

An evaluation produces two kinds of output for a command: an error or a
result. damascout hands each (command, message) pair to an external sink when
the host registered one, and otherwise writes it to the diagnostic console as

	>>command
	message

# Concept

The sink is an optional capability injected at construction. Adapters provide
sinks for an embedded JavaScript runtime (the damascOutput object of the
browser host), the real browser page under js/wasm, Redis, and Server-Sent
Event subscribers. The console is always present.

How error reports behave when a sink is present is an explicit policy:

  - PolicyForward (default): the raw message goes to the error stream and the
    pair is forwarded to the sink's error method.
  - PolicyConsole: the formatted line goes to the error stream and the sink is
    not called.

# Usage

	package main

	import (
		"github.com/aretw0/damascout"
		"github.com/aretw0/damascout/pkg/adapters/console"
	)

	func main() {
		r := damascout.New(console.Default())
		r.ReportResult("run", "42") // >>run\n42 on stdout
	}
*/
package damascout
