package engine

import (
	"bytes"
	"strings"
	"sync"
)

// lineAccumulator collects a stream line by line as it arrives.
// Each complete line is stored with a trailing "\n"; carriage returns before the
// newline are dropped. Nothing is discarded: limit only triggers onExceed once.
type lineAccumulator struct {
	mu       sync.Mutex
	lines    strings.Builder
	partial  bytes.Buffer
	size     int64
	limit    int64
	exceeded bool
	onExceed func(size int64)
}

func newLineAccumulator(limit int64, onExceed func(size int64)) *lineAccumulator {
	return &lineAccumulator{limit: limit, onExceed: onExceed}
}

// Write implements io.Writer.
func (a *lineAccumulator) Write(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.size += int64(len(p))
	if a.limit > 0 && a.size > a.limit && !a.exceeded {
		a.exceeded = true
		if a.onExceed != nil {
			a.onExceed(a.size)
		}
	}

	rest := p
	for {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			a.partial.Write(rest)
			return len(p), nil
		}
		a.partial.Write(rest[:i])
		a.appendLine()
		rest = rest[i+1:]
	}
}

func (a *lineAccumulator) appendLine() {
	line := bytes.TrimSuffix(a.partial.Bytes(), []byte{'\r'})
	a.lines.Write(line)
	a.lines.WriteByte('\n')
	a.partial.Reset()
}

// String returns everything captured so far, including an unterminated last line.
func (a *lineAccumulator) String() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.partial.Len() == 0 {
		return a.lines.String()
	}
	tail := bytes.TrimSuffix(a.partial.Bytes(), []byte{'\r'})
	return a.lines.String() + string(tail) + "\n"
}
