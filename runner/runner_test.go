package runner

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/npillmayer/gopeg/buffer"
	"github.com/npillmayer/gopeg/matcher"
)

// TestRerunYieldsEqualTree checks testable property: running the same
// grammar over the same input twice produces structurally equal parse
// trees (same labels, same spans, same shape) — the matching core has no
// hidden global state that could make two identical passes diverge.
func TestRerunYieldsEqualTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.runner")
	defer teardown()

	digit := matcher.CharRange('0', '9')
	root := matcher.OneOrMore(digit)
	buf := buffer.New("12345")

	r := BasicRunner{}
	res1, err := r.Run(root, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res2, err := r.Run(root, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res1.Matched || !res2.Matched {
		t.Fatalf("expected both passes to match")
	}
	dump1 := res1.ParseTreeRoot.Dump()
	dump2 := res2.ParseTreeRoot.Dump()
	if dump1 != dump2 {
		t.Errorf("expected identical trees across reruns:\n%s\nvs\n%s", dump1, dump2)
	}
}

func TestBasicRunnerReportsNoDiagnosticsOnFailure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.runner")
	defer teardown()

	root := matcher.Char('a')
	res, err := BasicRunner{}.Run(root, buffer.New("b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Matched {
		t.Fatalf("expected no match")
	}
	if len(res.ParseErrors) != 0 {
		t.Errorf("expected BasicRunner to leave ParseErrors empty, got %d", len(res.ParseErrors))
	}
}

func TestResultValueIsTopOfStackOnMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.runner")
	defer teardown()

	root := matcher.Do(func(ctx matcher.ActionContext) bool { ctx.Stack().Push(42); return true })
	res, err := BasicRunner{}.Run(root, buffer.New(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Matched {
		t.Fatalf("expected match")
	}
	if res.ResultValue != 42 {
		t.Errorf("expected ResultValue 42, got %v", res.ResultValue)
	}
}
