package damascout

import (
	"errors"
	"testing"

	"github.com/aretw0/damascout/pkg/adapters/memory"
	"github.com/aretw0/damascout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	kind domain.Kind
	dest domain.Destination
}

type recordingObserver struct {
	seen     []observation
	failures []domain.Kind
}

func (o *recordingObserver) Observe(kind domain.Kind, dest domain.Destination) {
	o.seen = append(o.seen, observation{kind, dest})
}

func (o *recordingObserver) SinkFailed(kind domain.Kind) {
	o.failures = append(o.failures, kind)
}

func TestReportResult_NoSink(t *testing.T) {
	con := memory.NewConsole()
	r := New(con)

	r.ReportResult("run", "42")

	assert.Equal(t, []string{">>run\n42"}, con.Logs())
	assert.Empty(t, con.Errors())
	assert.False(t, r.HasSink())
}

func TestReportResult_WithSink(t *testing.T) {
	con := memory.NewConsole()
	sink := memory.NewSink()
	r := New(con, WithSink(sink))

	r.ReportResult("run", "42")

	reports := sink.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, domain.KindResult, reports[0].Kind)
	assert.Equal(t, "run", reports[0].Command)
	assert.Equal(t, "42", reports[0].Message)
	assert.Empty(t, con.Lines(), "no console output when a sink takes the result")
}

func TestReportResult_ArbitraryStrings(t *testing.T) {
	pairs := [][2]string{
		{"", ""},
		{"x = [1, 2]", "[1, 2]"},
		{"multi\nline", "a\nb\n"},
		{">>nested", "ünïcødé ✓"},
	}

	for _, p := range pairs {
		con := memory.NewConsole()
		New(con).ReportResult(p[0], p[1])
		assert.Equal(t, []string{">>" + p[0] + "\n" + p[1]}, con.Logs())

		con = memory.NewConsole()
		sink := memory.NewSink()
		New(con, WithSink(sink)).ReportResult(p[0], p[1])
		require.Len(t, sink.Reports(), 1)
		assert.Equal(t, p[0], sink.Reports()[0].Command)
		assert.Equal(t, p[1], sink.Reports()[0].Message)
		assert.Empty(t, con.Logs())
	}
}

func TestReportError_NoSink(t *testing.T) {
	for _, policy := range []domain.ErrorPolicy{domain.PolicyForward, domain.PolicyConsole} {
		t.Run(string(policy), func(t *testing.T) {
			con := memory.NewConsole()
			r := New(con, WithErrorPolicy(policy))

			r.ReportError("1/0", "Division By Zero")

			assert.Equal(t, []string{">>1/0\nDivision By Zero"}, con.Errors())
			assert.Empty(t, con.Logs())
		})
	}
}

func TestReportError_ForwardPolicy(t *testing.T) {
	con := memory.NewConsole()
	sink := memory.NewSink()
	r := New(con, WithSink(sink))

	require.Equal(t, domain.PolicyForward, r.Policy())
	r.ReportError("1/0", "Division By Zero")

	assert.Equal(t, []string{"Division By Zero"}, con.Errors(), "raw message goes to the error stream")
	reports := sink.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, domain.KindError, reports[0].Kind)
	assert.Equal(t, "1/0", reports[0].Command)
	assert.Equal(t, "Division By Zero", reports[0].Message)
}

func TestReportError_ConsolePolicy(t *testing.T) {
	con := memory.NewConsole()
	sink := memory.NewSink()
	r := New(con, WithSink(sink), WithErrorPolicy(domain.PolicyConsole))

	r.ReportError("1/0", "Division By Zero")

	assert.Equal(t, []string{">>1/0\nDivision By Zero"}, con.Errors())
	assert.Empty(t, sink.Reports(), "console policy never calls the sink on the error path")

	r.ReportResult("run", "42")
	assert.Len(t, sink.Reports(), 1, "results still reach the sink")
}

func TestReport_Idempotent(t *testing.T) {
	con := memory.NewConsole()
	r := New(con)

	r.ReportResult("run", "42")
	r.ReportResult("run", "42")
	r.ReportError("bad", "oops")
	r.ReportError("bad", "oops")

	assert.Equal(t, []string{">>run\n42", ">>run\n42"}, con.Logs())
	assert.Equal(t, []string{">>bad\noops", ">>bad\noops"}, con.Errors())

	sink := memory.NewSink()
	con = memory.NewConsole()
	r = New(con, WithSink(sink))
	r.ReportResult("run", "42")
	r.ReportResult("run", "42")

	reports := sink.Reports()
	require.Len(t, reports, 2)
	assert.Equal(t, reports[0].Command, reports[1].Command)
	assert.Equal(t, reports[0].Message, reports[1].Message)
}

func TestReportResult_SinkFailureFallsBack(t *testing.T) {
	con := memory.NewConsole()
	sink := memory.NewSink()
	sink.FailWith(errors.New("host gone"))
	obs := &recordingObserver{}
	r := New(con, WithSink(sink), WithObserver(obs))

	r.ReportResult("run", "42")

	assert.Equal(t, []string{">>run\n42"}, con.Logs())
	assert.Equal(t, []domain.Kind{domain.KindResult}, obs.failures)
	assert.Equal(t, []observation{{domain.KindResult, domain.DestinationConsole}}, obs.seen)
}

func TestReportError_SinkFailureKeepsRawLine(t *testing.T) {
	con := memory.NewConsole()
	sink := memory.NewSink()
	sink.FailWith(errors.New("host gone"))
	obs := &recordingObserver{}
	r := New(con, WithSink(sink), WithObserver(obs))

	r.ReportError("1/0", "Division By Zero")

	assert.Equal(t, []string{"Division By Zero"}, con.Errors())
	assert.Equal(t, []domain.Kind{domain.KindError}, obs.failures)
}

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	sink := memory.NewSink()

	New(memory.NewConsole(), WithObserver(obs)).ReportResult("a", "1")
	New(memory.NewConsole(), WithObserver(obs), WithSink(sink)).ReportResult("a", "1")
	New(memory.NewConsole(), WithObserver(obs), WithSink(sink)).ReportError("a", "1")
	New(memory.NewConsole(), WithObserver(obs)).ReportError("a", "1")

	assert.Equal(t, []observation{
		{domain.KindResult, domain.DestinationConsole},
		{domain.KindResult, domain.DestinationSink},
		{domain.KindError, domain.DestinationSink},
		{domain.KindError, domain.DestinationConsole},
	}, obs.seen)
	assert.Empty(t, obs.failures)
}

func TestNew_TypedNilSink(t *testing.T) {
	var sink *memory.Sink
	con := memory.NewConsole()
	r := New(con, WithSink(sink))

	assert.False(t, r.HasSink())
	r.ReportResult("run", "42")
	assert.Equal(t, []string{">>run\n42"}, con.Logs())
}

func TestReport_ByKind(t *testing.T) {
	con := memory.NewConsole()
	r := New(con)

	r.Report(domain.KindResult, "a", "1")
	r.Report(domain.KindError, "b", "2")

	assert.Equal(t, []string{">>a\n1"}, con.Logs())
	assert.Equal(t, []string{">>b\n2"}, con.Errors())
}

func TestNew_Defaults(t *testing.T) {
	r := New(nil, WithErrorPolicy(""))
	assert.NotNil(t, r.console)
	assert.NotNil(t, r.logger)
	assert.Equal(t, domain.DefaultErrorPolicy, r.Policy())
}

// switchableSink is a memory sink whose receiver can be detached.
type switchableSink struct {
	*memory.Sink
	present bool
}

func (s *switchableSink) Present() bool { return s.present }

func TestRouter_AbsentSinkUsesFallback(t *testing.T) {
	con := memory.NewConsole()
	sink := &switchableSink{Sink: memory.NewSink()}
	obs := &recordingObserver{}
	r := New(con, WithSink(sink), WithObserver(obs))

	r.ReportError("1/0", "Division By Zero")
	r.ReportResult("run", "42")

	assert.True(t, r.HasSink())
	assert.Empty(t, sink.Reports())
	assert.Equal(t, []string{">>1/0\nDivision By Zero"}, con.Errors())
	assert.Equal(t, []string{">>run\n42"}, con.Logs())
	assert.Empty(t, obs.failures)

	sink.present = true
	con.Reset()
	r.ReportError("1/0", "Division By Zero")

	require.Len(t, sink.Reports(), 1)
	assert.Equal(t, []string{"Division By Zero"}, con.Errors())
}
