package value

import (
	"fmt"

	"github.com/cwscript-lang/cwscript/internal/script"
)

// ExceptionValue is the exception kind named by spec 3.1 and detailed in
// 4.7: code, message, optional script position, and a stack trace.
type ExceptionValue struct {
	hdr   Header
	props *PropMap

	Code       script.RC
	Message    string
	Script     string
	Line       int
	Column     int
	StackTrace []script.Frame
}

func newException(code script.RC, message string) *ExceptionValue {
	return &ExceptionValue{Code: code, Message: message, props: NewPropMap()}
}

func (e *ExceptionValue) Kind() Kind      { return KindException }
func (e *ExceptionValue) Hdr() *Header    { return &e.hdr }
func (e *ExceptionValue) Props() *PropMap { return e.props }

func (e *ExceptionValue) String() string {
	if e.Script != "" {
		return fmt.Sprintf("%s: %s (%s:%d:%d)", e.Code, e.Message, e.Script, e.Line, e.Column)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AdoptPosition fills in the script/line/column fields from pos unless
// they are already set, avoiding duplicate frames when an exception is
// rethrown (spec 4.7).
func (e *ExceptionValue) AdoptPosition(scriptName string, line, column int) {
	if e.Script != "" || e.Line != 0 || e.Column != 0 {
		return
	}
	e.Script = scriptName
	e.Line = line
	e.Column = column
}
