package runner

import (
	"github.com/npillmayer/gopeg/buffer"
	"github.com/npillmayer/gopeg/match"
	"github.com/npillmayer/gopeg/matcher"
	"github.com/npillmayer/gopeg/perr"
)

// ReportingRunner adds farthest-failure diagnostics on top of the basic
// matching core: the same single pass that determines whether the grammar
// matches also tracks the farthest failure reached along the way, so a
// failed match can build a single InvalidInputError straight from that
// pass's recorded index and path, with no separate pass needed to recover
// them.
type ReportingRunner struct{}

var _ Runner = ReportingRunner{}

// Run implements Runner.
func (ReportingRunner) Run(root *matcher.Matcher, buf buffer.Buffer) (*ParsingResult, error) {
	res := match.Run(root, buf, 0)
	if res.Matched {
		tracer().Debugf("reporting runner: matched")
		return resultOf(res, buf, nil), nil
	}
	end := res.FailIndex
	if end < buf.Length() {
		end++
	}
	err := perr.NewInvalidInput(res.FailIndex, end, res.FailPath)
	if res.ActionErr != nil {
		err = res.ActionErr
	}
	tracer().Debugf("reporting runner: failed at %d, expected %s", res.FailIndex, err.Message)
	return resultOf(res, buf, []*perr.ParseError{err}), nil
}
