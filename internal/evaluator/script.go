package evaluator

import (
	"github.com/cwscript-lang/cwscript/internal/lexer"
	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// EvalScript implements spec 4.5's "Top-level eval": it iterates
// top-level statements/expressions, running the sweep/vacuum scheduler
// after each one, until EOF or an uncaught flow-control signal or
// exception stops it early. The final non-terminated expression's value
// becomes the script's result; a trailing separator after a value
// discards it (the result resets to undefined until the next
// expression runs).
func (e *Evaluator) EvalScript(src string) (value.Value, *script.EngineError) {
	saved := e.lex
	e.lex = lexer.New(src)
	e.lex.NextToken()
	defer func() { e.lex = saved }()

	var result value.Value = value.Undefined()

	for {
		e.skipSeparators()
		if e.lex.Current().Type == lexer.EOF {
			return result, nil
		}
		if e.interrupted.Load() {
			return value.Undefined(), e.errorf(script.INTERRUPTED, "evaluation interrupted")
		}

		result = value.Undefined()
		if isStatementKeyword(e.lex.Current().Type) {
			if err := e.parseStatement(); err != nil {
				return nil, err
			}
		} else {
			v, _, err := e.parseCommaExpr2(false)
			if err != nil {
				return nil, err
			}
			result = v
		}
		if e.pending.isSet() {
			return e.unwindTopLevel()
		}

		if e.lex.Current().Type == lexer.EOX || e.lex.Current().Type == lexer.EOL {
			if e.lex.Current().Type == lexer.EOX {
				result = value.Undefined()
			}
			e.lex.NextToken()
		}

		e.schedule()
	}
}

// isStatementKeyword reports whether tt starts one of parseStatement's
// non-expression forms, the same set parseStatement's switch dispatches
// by keyword rather than falling through to an expression statement.
func isStatementKeyword(tt lexer.TokenType) bool {
	switch tt {
	case lexer.VAR, lexer.CONST, lexer.IF, lexer.WHILE, lexer.DO, lexer.FOR,
		lexer.FOREACH, lexer.BREAK, lexer.CONTINUE, lexer.RETURN, lexer.EXIT,
		lexer.THROW, lexer.TRY, lexer.ASSERT, lexer.AFFIRM, lexer.PROC,
		lexer.SCOPE, lexer.PRAGMA, lexer.CLASS, lexer.ENUM, lexer.LBRACE:
		return true
	default:
		return false
	}
}

// unwindTopLevel turns a flow-control signal that escapes every
// enclosing construct into a result or error for the top-level driver:
// an uncaught exception becomes an error, return/exit become the
// script's result, and break/continue (meaningless outside a loop)
// are reported as errors.
func (e *Evaluator) unwindTopLevel() (value.Value, *script.EngineError) {
	switch e.pending.code {
	case script.EXCEPTION:
		exc := e.exception
		e.exception = nil
		e.pending = noSignal
		msg := "uncaught exception"
		pos := e.pos()
		var trace []script.Frame
		if ev, ok := exc.(*value.ExceptionValue); ok {
			msg = ev.Message
			trace = ev.StackTrace
			if ev.Script != "" || ev.Line != 0 || ev.Column != 0 {
				pos = script.Position{Script: ev.Script, Line: ev.Line, Column: ev.Column}
			}
		}
		return nil, &script.EngineError{Code: script.EXCEPTION, Pos: pos, Message: msg, StackTrace: trace}
	case script.RETURN, script.EXIT:
		v := e.pending.value
		e.pending = noSignal
		if v == nil {
			v = value.Undefined()
		}
		return v, nil
	case script.INTERRUPTED:
		e.pending = noSignal
		return nil, e.errorf(script.INTERRUPTED, "evaluation interrupted")
	default:
		code := e.pending.code
		e.pending = noSignal
		return nil, e.errorf(code, "%s outside of a loop", code)
	}
}

// schedule runs spec 4.2's sweep/vacuum scheduler: a sweep every
// sweepInterval'th top-level expression, promoted to a vacuum every
// vacuumInterval'th successful sweep.
func (e *Evaluator) schedule() {
	e.sweepCount++
	if e.sweepCount < e.sweepInterval {
		return
	}
	e.sweepCount = 0
	e.Scope.Sweep(e.Engine)

	if e.vacuumInterval <= 0 {
		return
	}
	e.vacuumCount++
	if e.vacuumCount < e.vacuumInterval {
		return
	}
	e.vacuumCount = 0
	e.Scope.Vacuum(e.Engine)
}
