package tests

import (
	"testing"

	"github.com/aretw0/damascout/pkg/domain"
	"github.com/aretw0/damascout/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SinkContractTest is a reusable test suite that verifies an adapter complies
// with ports.Sink: reports arrive unmodified and in call order.
//
// received must return every report the sink has delivered so far, oldest
// first. Only Kind, Command and Message are compared.
func SinkContractTest(t *testing.T, sink ports.Sink, received func() []domain.Report) {
	t.Helper()

	var want []domain.Report
	check := func(t *testing.T) {
		t.Helper()
		got := received()
		require.Len(t, got, len(want), "delivered report count")
		for i := range want {
			assert.Equal(t, want[i].Kind, got[i].Kind, "kind of report %d", i)
			assert.Equal(t, want[i].Command, got[i].Command, "command of report %d", i)
			assert.Equal(t, want[i].Message, got[i].Message, "message of report %d", i)
		}
	}

	t.Run("PrintResult", func(t *testing.T) {
		require.NoError(t, sink.PrintResult("run", "42"))
		want = append(want, domain.Report{Kind: domain.KindResult, Command: "run", Message: "42"})
		check(t)
	})

	t.Run("PrintError", func(t *testing.T) {
		require.NoError(t, sink.PrintError("let x = ", "Parse Error"))
		want = append(want, domain.Report{Kind: domain.KindError, Command: "let x = ", Message: "Parse Error"})
		check(t)
	})

	t.Run("Unmodified", func(t *testing.T) {
		msg := "Error: [Evaluation] Division By Zero\n   ╭─[REPL:1:1]\n   │\n"
		require.NoError(t, sink.PrintError("1/0", msg))
		require.NoError(t, sink.PrintResult("", ""))
		want = append(want,
			domain.Report{Kind: domain.KindError, Command: "1/0", Message: msg},
			domain.Report{Kind: domain.KindResult, Command: "", Message: ""},
		)
		check(t)
	})

	t.Run("Repeated", func(t *testing.T) {
		require.NoError(t, sink.PrintResult("x", "1"))
		require.NoError(t, sink.PrintResult("x", "1"))
		want = append(want,
			domain.Report{Kind: domain.KindResult, Command: "x", Message: "1"},
			domain.Report{Kind: domain.KindResult, Command: "x", Message: "1"},
		)
		check(t)
	})
}
