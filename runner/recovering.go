package runner

import (
	"fmt"

	"github.com/npillmayer/gopeg/buffer"
	"github.com/npillmayer/gopeg/match"
	"github.com/npillmayer/gopeg/matcher"
	"github.com/npillmayer/gopeg/perr"
)

// defaultMaxRepairs bounds the recovering runner's repair loop so a
// pathological grammar/input pair can never retry forever.
const defaultMaxRepairs = 50

// RecoveringRunner builds on the reporting runner: when a deepest failure
// is located, it tries, in order, resynchronization,
// single-character deletion, and single-character insertion, accepting
// the first repair that lets the parse consume strictly more of the
// original input than the failing baseline. Each accepted repair is
// recorded as a ParseError and the whole grammar is retried from the
// start against the repaired input. Repairs run out, or none improves on
// the baseline, ends the loop in GIVE_UP with a final InvalidInputError.
type RecoveringRunner struct {
	maxRepairs int
	pollCancel func() bool
}

var _ Runner = (*RecoveringRunner)(nil)

// Option configures a RecoveringRunner.
type Option func(*RecoveringRunner)

// WithMaxRepairs caps the number of repair attempts (default 50).
func WithMaxRepairs(n int) Option {
	return func(r *RecoveringRunner) { r.maxRepairs = n }
}

// WithPollCancel installs a cooperative cancellation hook, polled between
// repair attempts — a coarser, runner-level alternative to cancellation at
// the matcher level. A true return stops the repair loop and returns the
// best result found so far.
func WithPollCancel(poll func() bool) Option {
	return func(r *RecoveringRunner) { r.pollCancel = poll }
}

// NewRecoveringRunner builds a RecoveringRunner with the given options.
func NewRecoveringRunner(opts ...Option) *RecoveringRunner {
	r := &RecoveringRunner{maxRepairs: defaultMaxRepairs}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func reparse(root *matcher.Matcher, cur []rune) *match.Result {
	return match.Run(root, buffer.New(string(cur)), 0)
}

// Run implements Runner.
func (r *RecoveringRunner) Run(root *matcher.Matcher, buf buffer.Buffer) (*ParsingResult, error) {
	origLen := buf.Length()
	cur := []rune(buf.Extract(0, origLen))
	origIdx := make([]int, len(cur))
	for i := range origIdx {
		origIdx[i] = i
	}

	baseline := reparse(root, cur)
	if baseline.Matched {
		tracer().Debugf("recovering runner: matched with no repairs")
		return resultOf(baseline, buf, nil), nil
	}

	max := r.maxRepairs
	if max <= 0 {
		max = defaultMaxRepairs
	}
	var errs []*perr.ParseError
	for attempt := 0; attempt < max; attempt++ {
		if r.pollCancel != nil && r.pollCancel() {
			tracer().Warnf("recovering runner: cancelled after %d repairs", attempt)
			break
		}
		newCur, newOrigIdx, rec, ok := r.attemptRepair(root, cur, origIdx, origLen, baseline)
		if !ok {
			tracer().Debugf("recovering runner: repairs exhausted at index %d", origProgress(origIdx, baseline.FailIndex, origLen))
			break
		}
		cur, origIdx = newCur, newOrigIdx
		errs = append(errs, rec)
		baseline = reparse(root, cur)
		if baseline.Matched {
			tracer().Debugf("recovering runner: matched after %d repair(s)", attempt+1)
			return resultOf(baseline, buf, errs), nil
		}
	}
	fatalAt := origProgress(origIdx, baseline.FailIndex, origLen)
	errs = append(errs, perr.NewInvalidInput(fatalAt, fatalAt, baseline.FailPath))
	return resultOf(baseline, buf, errs), nil
}

// attemptRepair tries resync, delete, then insert at baseline's farthest
// failure, in that order, accepting the first one whose reparse improves
// on baseline's original-input progress: a repair is only taken if it
// lets the outer parse consume strictly more input.
func (r *RecoveringRunner) attemptRepair(root *matcher.Matcher, cur []rune, origIdx []int, origLen int, baseline *match.Result) ([]rune, []int, *perr.ParseError, bool) {
	failIdx := baseline.FailIndex
	baseProgress := origProgress(origIdx, failIdx, origLen)
	origAt := baseProgress

	if follow := perr.FollowSet(baseline.FailPath); follow.Size() > 0 {
		if newCur, newOrigIdx, ok := resyncRepair(cur, origIdx, failIdx, follow); ok {
			if res := reparse(root, newCur); improves(res, newOrigIdx, origLen, baseProgress) {
				skippedTo := origLen
				if failIdx < len(newOrigIdx) && newOrigIdx[failIdx] >= 0 {
					skippedTo = newOrigIdx[failIdx]
				}
				rec := &perr.ParseError{
					Kind: perr.Resynchronized, Start: origAt, End: skippedTo,
					Message: "resynchronized, skipping unexpected input",
				}
				return newCur, newOrigIdx, rec, true
			}
		}
	}

	if newCur, newOrigIdx, ok := deleteRepair(cur, origIdx, failIdx); ok {
		if res := reparse(root, newCur); improves(res, newOrigIdx, origLen, baseProgress) {
			rec := &perr.ParseError{
				Kind: perr.Deleted, Start: origAt, End: origAt + 1,
				Message: "deleted unexpected character",
			}
			return newCur, newOrigIdx, rec, true
		}
	}

	if ch, ok := perr.FirstChar(leafMatcher(baseline.FailPath)); ok {
		newCur, newOrigIdx := insertRepair(cur, origIdx, failIdx, ch)
		if res := reparse(root, newCur); improves(res, newOrigIdx, origLen, baseProgress) {
			rec := &perr.ParseError{
				Kind: perr.Inserted, Start: origAt, End: origAt,
				Message: fmt.Sprintf("inserted missing %q", string(ch)),
			}
			return newCur, newOrigIdx, rec, true
		}
	}

	return nil, nil, nil, false
}

func leafMatcher(path *perr.PathEntry) *matcher.Matcher {
	if path == nil {
		return nil
	}
	return path.Matcher
}

func improves(res *match.Result, newOrigIdx []int, origLen, baseProgress int) bool {
	if res.Matched {
		return true
	}
	return origProgress(newOrigIdx, res.FailIndex, origLen) > baseProgress
}
