package evaluator

import (
	"fmt"
	"strings"

	"github.com/cwscript-lang/cwscript/internal/script"
)

// DefaultMaxRecursionDepth is the call-stack cap used when a caller does
// not configure one explicitly.
const DefaultMaxRecursionDepth = 1024

// CallStack tracks script-function call frames for stack-overflow
// detection and exception stack traces (spec 4.7). Grounded on the
// teacher's internal/interp/evaluator/callstack.go method set, rebuilt
// on top of script.StackTrace (this module's generalized, cap-bounded
// frame list) instead of a prior implementation's AST/lexer.Position-coupled
// errors.StackTrace.
type CallStack struct {
	trace    *script.StackTrace
	maxDepth int
}

// NewCallStack creates a call stack. maxDepth <= 0 selects
// DefaultMaxRecursionDepth; 0 cannot mean "uncapped" here the way spec
// 4.7's stack-trace cap does, because an uncapped call stack would
// defeat its entire purpose (bounding recursion), so the zero value is
// just the default rather than "disabled".
func NewCallStack(maxDepth int) *CallStack {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxRecursionDepth
	}
	return &CallStack{trace: script.NewStackTrace(maxDepth), maxDepth: maxDepth}
}

// Push adds a new frame. Returns an error if doing so would exceed
// maxDepth (stack overflow).
func (cs *CallStack) Push(name string, pos script.Position) error {
	if cs.trace.Depth() >= cs.maxDepth {
		return fmt.Errorf("stack overflow: maximum recursion depth (%d) exceeded in function %q", cs.maxDepth, name)
	}
	cs.trace.Push(script.Frame{Script: pos.Script, Line: pos.Line, Column: pos.Column, Name: name})
	return nil
}

// Pop removes the most recent frame. No-op if the stack is empty.
func (cs *CallStack) Pop() { cs.trace.Pop() }

// Current returns the most recent frame, or (Frame{}, false) if empty.
func (cs *CallStack) Current() (script.Frame, bool) {
	frames := cs.trace.Frames()
	if len(frames) == 0 {
		return script.Frame{}, false
	}
	return frames[len(frames)-1], true
}

// Depth returns the current number of frames.
func (cs *CallStack) Depth() int { return cs.trace.Depth() }

// Frames returns every frame, oldest first (call order).
func (cs *CallStack) Frames() []script.Frame { return cs.trace.Frames() }

// MaxDepth returns the configured cap.
func (cs *CallStack) MaxDepth() int { return cs.maxDepth }

// SetMaxDepth updates the cap; <= 0 resets to the default.
func (cs *CallStack) SetMaxDepth(maxDepth int) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxRecursionDepth
	}
	cs.maxDepth = maxDepth
}

// IsEmpty reports whether the stack has no frames.
func (cs *CallStack) IsEmpty() bool { return cs.trace.Depth() == 0 }

// WillOverflow reports whether one more Push would exceed the cap.
func (cs *CallStack) WillOverflow() bool { return cs.trace.Depth() >= cs.maxDepth }

// Clear empties the stack.
func (cs *CallStack) Clear() { cs.trace = script.NewStackTrace(cs.maxDepth) }

// Snapshot returns the frames newest-first, ready to embed into an
// exception value (spec 4.7's exception.stacktrace field).
func (cs *CallStack) Snapshot() []script.Frame { return cs.trace.Snapshot() }

// String renders the stack, oldest to newest, one frame per line.
func (cs *CallStack) String() string {
	frames := cs.trace.Frames()
	if len(frames) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, f := range frames {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "  at %s (%s:%d:%d)", f.Name, f.Script, f.Line, f.Column)
	}
	return sb.String()
}

// FormatError prepends message to the rendered call stack, if non-empty.
func (cs *CallStack) FormatError(message string) string {
	trace := cs.String()
	if trace == "" {
		return message
	}
	return fmt.Sprintf("%s\n\nCall stack:\n%s", message, trace)
}

// FindFrame returns the first frame named name and its index (oldest
// first), or (Frame{}, -1) if none matches.
func (cs *CallStack) FindFrame(name string) (script.Frame, int) {
	for i, f := range cs.trace.Frames() {
		if f.Name == name {
			return f, i
		}
	}
	return script.Frame{}, -1
}

// ContainsFunction reports whether any frame is named name.
func (cs *CallStack) ContainsFunction(name string) bool {
	_, idx := cs.FindFrame(name)
	return idx != -1
}
