package memory

import "sync"

// Line is a single write to a recorded console.
type Line struct {
	Stream string // "error" or "log"
	Text   string
}

// Console implements ports.Console by recording every line.
// Safe for concurrent use.
type Console struct {
	lines []Line
	mu    sync.RWMutex
}

// NewConsole creates a new recording console.
func NewConsole() *Console {
	return &Console{}
}

// Error records a line on the error stream.
func (c *Console) Error(line string) {
	c.append(Line{Stream: "error", Text: line})
}

// Log records a line on the log stream.
func (c *Console) Log(line string) {
	c.append(Line{Stream: "log", Text: line})
}

func (c *Console) append(l Line) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, l)
}

// Lines returns every recorded line in write order.
func (c *Console) Lines() []Line {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Errors returns the text of the lines written to the error stream.
func (c *Console) Errors() []string {
	return c.stream("error")
}

// Logs returns the text of the lines written to the log stream.
func (c *Console) Logs() []string {
	return c.stream("log")
}

func (c *Console) stream(name string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []string
	for _, l := range c.lines {
		if l.Stream == name {
			out = append(out, l.Text)
		}
	}
	return out
}

// Reset discards all recorded lines.
func (c *Console) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}
