package runner

import (
	"github.com/npillmayer/gopeg/buffer"
	"github.com/npillmayer/gopeg/match"
	"github.com/npillmayer/gopeg/matcher"
)

// BasicRunner performs exactly one matching pass. On failure it reports
// nothing beyond "did not match" — no error list is populated.
type BasicRunner struct{}

var _ Runner = BasicRunner{}

// Run implements Runner.
func (BasicRunner) Run(root *matcher.Matcher, buf buffer.Buffer) (*ParsingResult, error) {
	res := match.Run(root, buf, 0)
	tracer().Debugf("basic runner: matched=%v", res.Matched)
	return resultOf(res, buf, nil), nil
}
