package progress

import (
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

const remotePrefix = "remote:"

// stageLinePattern matches sideband lines such as "Receiving objects:  45% (9/20), 1.2 MiB".
var stageLinePattern = regexp.MustCompile(`^([A-Za-z][A-Za-z ]*?):\s+(\d+)%\s+\((\d+)/(\d+)\)`)

// countLinePattern matches lines without a total such as "Enumerating objects: 20, done.".
var countLinePattern = regexp.MustCompile(`^([A-Za-z][A-Za-z ]*?):\s+(\d+)(?:,|$)`)

// lineWriter turns the sideband stream of a clone into updates. Lines end in
// either a carriage return or a line feed.
type lineWriter struct {
	mutex   sync.Mutex
	sink    Sink
	pending bytes.Buffer
}

// NewWriter returns a writer suitable for go-git's Progress option that
// forwards every complete line to sink.
func NewWriter(sink Sink) io.Writer {
	return &lineWriter{sink: OrDiscard(sink)}
}

func (writer *lineWriter) Write(data []byte) (int, error) {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	for _, character := range data {
		if character == '\r' || character == '\n' {
			writer.flush()
			continue
		}
		writer.pending.WriteByte(character)
	}
	return len(data), nil
}

func (writer *lineWriter) flush() {
	line := strings.TrimSpace(writer.pending.String())
	writer.pending.Reset()
	if line == "" {
		return
	}
	writer.sink.OnProgress(ParseLine(line))
}

// ParseLine converts one sideband line into an Update. Lines that carry no
// counters become message-only updates.
func ParseLine(line string) Update {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), remotePrefix))
	if matches := stageLinePattern.FindStringSubmatch(trimmed); matches != nil {
		current, _ := strconv.ParseInt(matches[3], 10, 64)
		total, _ := strconv.ParseInt(matches[4], 10, 64)
		return Update{Stage: matches[1], Current: current, Total: total, Message: trimmed}
	}
	if matches := countLinePattern.FindStringSubmatch(trimmed); matches != nil {
		current, _ := strconv.ParseInt(matches[2], 10, 64)
		update := Update{Stage: matches[1], Current: current, Message: trimmed}
		if strings.HasSuffix(trimmed, "done.") {
			update.Total = current
		}
		return update
	}
	return Update{Message: trimmed}
}
