// Package runner implements the PEG engine's match handlers: strategies
// that drive a root matcher context over an input buffer and differ only
// in how they react to a root-level failure. BasicRunner is a single pass;
// ReportingRunner adds farthest-failure diagnostics; RecoveringRunner
// attempts local repairs to keep going past an error; TracingRunner is
// Basic plus a per-frame trace sink.
package runner

import (
	"github.com/npillmayer/gopeg/buffer"
	"github.com/npillmayer/gopeg/match"
	"github.com/npillmayer/gopeg/matcher"
	"github.com/npillmayer/gopeg/perr"
	"github.com/npillmayer/gopeg/tree"
	"github.com/npillmayer/gopeg/values"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.runner'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.runner")
}

// Runner drives a matcher graph over an input buffer to completion. The
// four variants share this interface so an embedder can swap strategies
// without touching call sites.
type Runner interface {
	Run(root *matcher.Matcher, buf buffer.Buffer) (*ParsingResult, error)
}

// ParsingResult is what every runner returns: whether the grammar
// matched, the value (if any) left on top of the value
// stack, the parse tree root, the full value stack, any diagnostics
// collected, and the input buffer the parse ran against.
type ParsingResult struct {
	Matched       bool
	ResultValue   interface{}
	ParseTreeRoot *tree.Node
	ValueStack    *values.Stack
	ParseErrors   []*perr.ParseError
	InputBuffer   buffer.Buffer
}

func resultOf(res *match.Result, buf buffer.Buffer, errs []*perr.ParseError) *ParsingResult {
	pr := &ParsingResult{
		Matched:     res.Matched,
		ParseErrors: errs,
		ValueStack:  res.Stack,
		InputBuffer: buf,
	}
	if res.Matched {
		pr.ParseTreeRoot = res.Node
		if res.Stack.Depth() > 0 {
			pr.ResultValue = res.Stack.Peek()
		}
	}
	return pr
}
