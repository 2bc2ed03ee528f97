package runner

import (
	"github.com/npillmayer/gopeg/buffer"
	"github.com/npillmayer/gopeg/match"
	"github.com/npillmayer/gopeg/matcher"
)

// TraceEvent is one per-frame notification a TracingRunner's sink
// receives: identical semantics to Basic but with per-frame trace events
// emitted through a pluggable sink.
type TraceEvent struct {
	Matcher *matcher.Matcher
	Start   int
	// End and Matched are zero/false on the enter event, populated on exit.
	End     int
	Matched bool
	Phase   TracePhase
}

// TracePhase distinguishes a frame's enter notification from its exit one.
type TracePhase int8

const (
	TraceEnter TracePhase = iota
	TraceExit
)

func (p TracePhase) String() string {
	if p == TraceEnter {
		return "enter"
	}
	return "exit"
}

// TraceSink receives TraceEvents as a parse progresses. Sinks must not
// retain the Matcher pointer's identity as a cache key across parses — the
// combinator cache may return the same instance for structurally
// equivalent grammars built later.
type TraceSink func(TraceEvent)

// TracingRunner performs the same single pass as BasicRunner, additionally
// routing an enter/exit TraceEvent through Sink for every matcher frame.
type TracingRunner struct {
	Sink TraceSink
}

var _ Runner = TracingRunner{}

type sinkObserver struct{ sink TraceSink }

func (o sinkObserver) OnEnter(m *matcher.Matcher, start int) {
	o.sink(TraceEvent{Matcher: m, Start: start, Phase: TraceEnter})
}

func (o sinkObserver) OnExit(m *matcher.Matcher, start, end int, matched bool) {
	o.sink(TraceEvent{Matcher: m, Start: start, End: end, Matched: matched, Phase: TraceExit})
}

// Run implements Runner.
func (r TracingRunner) Run(root *matcher.Matcher, buf buffer.Buffer) (*ParsingResult, error) {
	var obs match.Observer
	if r.Sink != nil {
		obs = sinkObserver{sink: r.Sink}
	}
	res := match.RunWithObserver(root, buf, 0, obs)
	tracer().Debugf("tracing runner: matched=%v", res.Matched)
	return resultOf(res, buf, nil), nil
}
