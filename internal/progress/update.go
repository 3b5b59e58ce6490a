// Package progress carries clone progress from the fetcher to whoever is watching.
package progress

// Update is one observation of a running transfer. Total is zero when the
// size of the stage is unknown.
type Update struct {
	Stage   string
	Current int64
	Total   int64
	Message string
}

// Percent returns the completed share of the stage, or -1 when it is unknown.
func (update Update) Percent() int {
	if update.Total <= 0 {
		return -1
	}
	if update.Current >= update.Total {
		return 100
	}
	return int(update.Current * 100 / update.Total)
}

// Done reports whether the stage finished.
func (update Update) Done() bool {
	return update.Total > 0 && update.Current >= update.Total
}

// Sink receives progress updates synchronously from the fetcher.
type Sink interface {
	OnProgress(update Update)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(update Update)

// OnProgress calls the function.
func (sinkFunc SinkFunc) OnProgress(update Update) {
	sinkFunc(update)
}

type discardSink struct{}

func (discardSink) OnProgress(Update) {}

// Discard drops every update.
var Discard Sink = discardSink{}

// OrDiscard returns sink, or Discard when sink is nil.
func OrDiscard(sink Sink) Sink {
	if sink == nil {
		return Discard
	}
	return sink
}
