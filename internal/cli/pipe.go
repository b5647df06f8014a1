package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/damascout"
	"github.com/aretw0/damascout/pkg/domain"
)

// maxLineSize bounds a single input report.
const maxLineSize = 1 << 20

var unescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\t`, "\t")

type lineReport struct {
	Kind    string `json:"kind"`
	Command string `json:"command"`
	Message string `json:"message"`
}

// ParseLine decodes one input line into a report. Two forms are accepted:
//
//	{"kind":"result","command":"run","message":"42"}
//	result<TAB>run<TAB>42
//
// In the tab form \n, \t and \\ are unescaped. Blank lines and lines starting
// with '#' yield ok == false.
func ParseLine(line string) (report domain.Report, ok bool, err error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return domain.Report{}, false, nil
	}

	var raw lineReport
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
			return domain.Report{}, false, fmt.Errorf("invalid JSON report: %w", err)
		}
	} else {
		parts := strings.SplitN(strings.TrimRight(line, "\r\n"), "\t", 3)
		if len(parts) < 2 {
			return domain.Report{}, false, fmt.Errorf("expected kind<TAB>command<TAB>message, got %q", trimmed)
		}
		raw.Kind = parts[0]
		raw.Command = unescaper.Replace(parts[1])
		if len(parts) == 3 {
			raw.Message = unescaper.Replace(parts[2])
		}
	}

	kind, err := domain.ParseKind(raw.Kind)
	if err != nil {
		return domain.Report{}, false, err
	}

	return domain.Report{
		Kind:    kind,
		Command: domain.MessageFromBytes([]byte(raw.Command)),
		Message: domain.MessageFromBytes([]byte(raw.Message)),
	}, true, nil
}

// RunPipe routes every report read from r until EOF or ctx is done.
// Malformed lines are routed as error reports against the offending line,
// the way an evaluation host reports a parse error against its input.
//
// Lines are scanned on a separate goroutine so cancellation is honoured while
// r blocks. When r never returns, that goroutine outlives the call.
func RunPipe(ctx context.Context, r io.Reader, router *damascout.Router, logger *slog.Logger) (int, error) {
	lines, scanErr := scanLines(ctx, r)

	routed := 0
	for {
		if err := ctx.Err(); err != nil {
			return routed, err
		}

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return routed, ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			if err := ctx.Err(); err != nil {
				return routed, err
			}
			if err := <-scanErr; err != nil {
				return routed, fmt.Errorf("failed to read reports: %w", err)
			}
			return routed, nil
		}

		report, parsed, err := ParseLine(line)
		if err != nil {
			logger.Debug("malformed report line", "error", err)
			router.ReportError(domain.MessageFromBytes([]byte(line)), "Parse Error: "+err.Error())
			routed++
			continue
		}
		if !parsed {
			continue
		}

		router.Report(report.Kind, report.Command, report.Message)
		routed++
	}
}

// scanLines feeds lines of r to the returned channel. The channel closes at
// EOF, on a read error, or when ctx is done; only the first two deliver a
// value on the error channel.
func scanLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	return lines, scanErr
}
