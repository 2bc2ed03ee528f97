// Package perr implements the PEG engine's error model: parse error
// records, the matcher-path chain used to diagnose a failure, and the
// "expected" label selection that drives human-readable messages.
package perr

import (
	"fmt"

	"github.com/npillmayer/gopeg/matcher"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.perr'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.perr")
}

// Kind classifies a ParseError.
type Kind int8

const (
	// InvalidInput: input did not match at some index.
	InvalidInput Kind = iota
	// ActionException: a user predicate raised a fault.
	ActionException
	// Deleted: the recovering runner's single-character deletion repair
	// was applied at this index.
	Deleted
	// Inserted: the recovering runner's single-character insertion
	// repair was applied at this index.
	Inserted
	// Resynchronized: the recovering runner's resync repair skipped
	// input up to a follow-set character at this index.
	Resynchronized
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case ActionException:
		return "ActionException"
	case Deleted:
		return "Deleted"
	case Inserted:
		return "Inserted"
	case Resynchronized:
		return "Resynchronized"
	default:
		return "Kind(?)"
	}
}

// ParseError is one diagnostic record: kind, the input range it concerns,
// an optional human message, and the failed-matcher path, if one was
// tracked.
type ParseError struct {
	Kind    Kind
	Start   int
	End     int
	Message string
	Path    *PathEntry
}

func (e *ParseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s at [%d,%d): %s", e.Kind, e.Start, e.End, e.Message)
	}
	return fmt.Sprintf("%s at [%d,%d)", e.Kind, e.Start, e.End)
}

// NewInvalidInput builds an InvalidInput error, selecting an "expected"
// label from path via FindProperLabelMatcher.
func NewInvalidInput(start, end int, path *PathEntry) *ParseError {
	label := "input"
	if m := FindProperLabelMatcher(path, start); m != nil {
		label = m.Label
	} else if path != nil {
		label = path.Matcher.Label
	}
	tracer().Debugf("invalid input at [%d,%d), expected %s", start, end, label)
	return &ParseError{
		Kind:    InvalidInput,
		Start:   start,
		End:     end,
		Message: "expected " + label,
		Path:    path,
	}
}

// NewActionException wraps a recovered action panic as a parse error.
func NewActionException(start, end int, path *PathEntry, cause interface{}) *ParseError {
	return &ParseError{
		Kind:    ActionException,
		Start:   start,
		End:     end,
		Message: fmt.Sprintf("action panicked: %v", cause),
		Path:    path,
	}
}

// Report renders a textual diagnostic surface:
//
//	"<message> (line L, pos C):\n<line text>\n<C-1 spaces><carets>\n"
//
// where the caret run length equals min(errEnd-errStart, lineLen-col+2),
// but is never less than one.
// This is data formatting only; full report prettifying (colors, multi-
// error layout, and so on) is left to the embedder.
func (e *ParseError) Report(line, col int, lineText string) string {
	caretLen := e.End - e.Start
	if max := len(lineText) - col + 2; caretLen > max {
		caretLen = max
	}
	if caretLen < 1 {
		caretLen = 1
	}
	pad := ""
	if col > 1 {
		pad = fmt.Sprintf("%*s", col-1, "")
	}
	carets := ""
	for i := 0; i < caretLen; i++ {
		carets += "^"
	}
	return fmt.Sprintf("%s (line %d, pos %d):\n%s\n%s%s\n", e.Message, line, col, lineText, pad, carets)
}
