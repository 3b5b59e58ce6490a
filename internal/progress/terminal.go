package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	noColorVariable     = "NO_COLOR"
	terminalVariable    = "TERM"
	dumbTerminal        = "dumb"
	clearLineSequence   = "\r\033[K"
	stagePercentFormat  = "%s %s: %d%% (%d/%d)"
	stageCountFormat    = "%s %s: %d"
	stageMessageFormat  = "%s %s"
	stageCompleteFormat = "%s %s: done (%d)\n"
)

// TerminalSink prints clone progress for a person watching the command. On a
// terminal it redraws a single status line; elsewhere it prints one line per
// completed stage.
type TerminalSink struct {
	mutex       sync.Mutex
	writer      io.Writer
	title       string
	interactive bool
	lineOpen    bool
	completed   map[string]bool
	titleColor  *color.Color
	stageColor  *color.Color
}

// NewTerminalSink creates a sink writing to writer. The status line is
// redrawn in place only when writer itself is a terminal, regardless of where
// standard output goes. NO_COLOR turns colors off but keeps the redraw.
func NewTerminalSink(writer io.Writer, title string) *TerminalSink {
	return newTerminalSink(writer, title, isTerminalWriter(writer))
}

func newTerminalSink(writer io.Writer, title string, interactive bool) *TerminalSink {
	titleColor := color.New(color.FgCyan, color.Bold)
	stageColor := color.New(color.FgGreen)
	if interactive && os.Getenv(noColorVariable) == "" {
		titleColor.EnableColor()
		stageColor.EnableColor()
	} else {
		titleColor.DisableColor()
		stageColor.DisableColor()
	}
	return &TerminalSink{
		writer:      writer,
		title:       title,
		interactive: interactive,
		completed:   make(map[string]bool),
		titleColor:  titleColor,
		stageColor:  stageColor,
	}
}

// OnProgress renders one update.
func (sink *TerminalSink) OnProgress(update Update) {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()

	if sink.interactive {
		sink.redraw(update)
		return
	}
	if update.Stage == "" || !update.Done() || sink.completed[update.Stage] {
		return
	}
	sink.completed[update.Stage] = true
	fmt.Fprintf(sink.writer, stageCompleteFormat, sink.title, update.Stage, update.Total)
}

// Finish terminates the status line so later output starts on a fresh line.
func (sink *TerminalSink) Finish() {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	if sink.lineOpen {
		fmt.Fprintln(sink.writer)
		sink.lineOpen = false
	}
}

func (sink *TerminalSink) redraw(update Update) {
	title := sink.titleColor.Sprint(sink.title)
	var line string
	switch {
	case update.Stage != "" && update.Percent() >= 0:
		line = fmt.Sprintf(stagePercentFormat, title, sink.stageColor.Sprint(update.Stage), update.Percent(), update.Current, update.Total)
	case update.Stage != "":
		line = fmt.Sprintf(stageCountFormat, title, sink.stageColor.Sprint(update.Stage), update.Current)
	default:
		line = fmt.Sprintf(stageMessageFormat, title, update.Message)
	}
	fmt.Fprint(sink.writer, clearLineSequence+line)
	sink.lineOpen = true
}

func isTerminalWriter(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile || os.Getenv(terminalVariable) == dumbTerminal {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
