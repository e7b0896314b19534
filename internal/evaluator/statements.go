package evaluator

import (
	"strings"

	"github.com/cwscript-lang/cwscript/internal/lexer"
	"github.com/cwscript-lang/cwscript/internal/optable"
	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// runBlock tokenizes src fresh (spec 4.3's "Groups": a captured span is
// re-scanned, never kept as a parsed tree) and runs each statement in
// the evaluator's *current* scope, stopping as soon as a flow-control
// signal or exception starts propagating. Callers that want the block's
// own scope (an if/while/for/proc body) push one first; runBlock itself
// never pushes one, since callScript needs to run a function body
// directly in the scope it already pushed.
func (e *Evaluator) runBlock(src string) *script.EngineError {
	saved := e.lex
	e.lex = lexer.New(src)
	e.lex.NextToken()
	defer func() { e.lex = saved }()

	for {
		e.skipSeparators()
		if e.lex.Current().Type == lexer.EOF {
			return nil
		}
		if e.interrupted.Load() {
			e.pending = signal{code: script.INTERRUPTED}
			return nil
		}
		if err := e.parseStatement(); err != nil {
			return err
		}
		if e.pending.isSet() {
			return nil
		}
	}
}

// runBlockScoped runs src in a fresh child scope, popping it afterward
// regardless of outcome (spec 4.2's "Push"/"Pop": every compound
// statement body is its own scope frame).
func (e *Evaluator) runBlockScoped(src string) *script.EngineError {
	e.pushBlockScope()
	err := e.runBlock(src)
	e.popScope()
	return err
}

func (e *Evaluator) skipSeparators() {
	for {
		switch e.lex.Current().Type {
		case lexer.EOX, lexer.EOL:
			e.lex.NextToken()
		default:
			return
		}
	}
}

func (e *Evaluator) atStatementEnd() bool {
	switch e.lex.Current().Type {
	case lexer.EOX, lexer.EOL, lexer.EOF, lexer.RBRACE:
		return true
	default:
		return false
	}
}

// scanBlock consumes a `{...}` group as one captured span (the current
// token must already be the LBRACE, which the lexer has already scanned,
// leaving the cursor just past '{' per ScanGroup's precondition).
func (e *Evaluator) scanBlock() (string, *script.EngineError) {
	if e.lex.Current().Type != lexer.LBRACE {
		return "", e.errorf(script.UNEXPECTED_TOKEN, "expected { but got %s", e.lex.Current().Type)
	}
	g := e.lex.ScanGroup('{')
	if g.Type == lexer.ERR {
		return "", e.errorf(script.SYNTAX, "unterminated block")
	}
	e.lex.NextToken()
	return g.Literal, nil
}

// scanParenGroup is scanBlock's analogue for a `(...)` header (if/while/
// for conditions, proc parameter lists).
func (e *Evaluator) scanParenGroup() (string, *script.EngineError) {
	if e.lex.Current().Type != lexer.LPAREN {
		return "", e.errorf(script.UNEXPECTED_TOKEN, "expected ( but got %s", e.lex.Current().Type)
	}
	g := e.lex.ScanGroup('(')
	if g.Type == lexer.ERR {
		return "", e.errorf(script.SYNTAX, "unterminated group")
	}
	e.lex.NextToken()
	return g.Literal, nil
}

// consumeTok is consume's free-function form for a lexer other than the
// evaluator's own current one (header sub-parses for foreach/enum).
func consumeTok(l *lexer.Lexer, tt lexer.TokenType, pos script.Position) (lexer.Token, *script.EngineError) {
	tok := l.Current()
	if tok.Type != tt {
		return tok, script.NewEngineError(script.UNEXPECTED_TOKEN, pos, "expected %s, got %s", tt, tok.Type)
	}
	l.NextToken()
	return tok, nil
}

// splitTopLevelClauses tokenizes src and splits it at each EOX (`;`)
// token, returning the trimmed text between them. Used for a classic
// for-loop's `init; cond; post` header, which is captured as one opaque
// span by scanParenGroup.
func splitTopLevelClauses(src string) []string {
	l := lexer.New(src)
	tok := l.NextToken()
	var clauses []string
	start := 0
	for {
		if tok.Type == lexer.EOF {
			clauses = append(clauses, strings.TrimSpace(src[start:]))
			return clauses
		}
		if tok.Type == lexer.EOX {
			clauses = append(clauses, strings.TrimSpace(src[start:tok.Pos.Offset]))
			start = tok.Pos.Offset + 1
		}
		tok = l.NextToken()
	}
}

// parseStatement dispatches on the current token's keyword, or falls
// through to an expression statement.
func (e *Evaluator) parseStatement() *script.EngineError {
	switch e.lex.Current().Type {
	case lexer.VAR:
		return e.parseVarDecl(false)
	case lexer.CONST:
		return e.parseVarDecl(true)
	case lexer.IF:
		return e.parseIf()
	case lexer.WHILE:
		return e.parseWhile()
	case lexer.DO:
		return e.parseDoWhile()
	case lexer.FOR:
		return e.parseFor()
	case lexer.FOREACH:
		return e.parseForeach()
	case lexer.BREAK:
		e.lex.NextToken()
		e.pending = signal{code: script.BREAK}
		return nil
	case lexer.CONTINUE:
		e.lex.NextToken()
		e.pending = signal{code: script.CONTINUE}
		return nil
	case lexer.RETURN:
		return e.parseReturnOrExit(script.RETURN)
	case lexer.EXIT:
		return e.parseReturnOrExit(script.EXIT)
	case lexer.THROW:
		return e.parseThrow()
	case lexer.TRY:
		return e.parseTry()
	case lexer.ASSERT, lexer.AFFIRM:
		return e.parseAssert()
	case lexer.PROC:
		return e.parseProcStatement()
	case lexer.SCOPE:
		return e.parseScopeStmt()
	case lexer.PRAGMA:
		return e.parsePragma()
	case lexer.CLASS:
		return e.parseClass()
	case lexer.ENUM:
		return e.parseEnum()
	case lexer.LBRACE:
		blockSrc, err := e.scanBlock()
		if err != nil {
			return err
		}
		return e.runBlockScoped(blockSrc)
	default:
		_, _, err := e.parseCommaExpr2(false)
		return err
	}
}

// parseCommaExpr2 adapts parseCommaExpr's (value, error) return to the
// (value, ref, error) shape a couple of statement helpers want without
// introducing a second public entry point.
func (e *Evaluator) parseCommaExpr2(skip bool) (value.Value, *lvalueRef, *script.EngineError) {
	v, err := e.parseCommaExpr(skip)
	return v, nil, err
}

func (e *Evaluator) parseVarDecl(isConst bool) *script.EngineError {
	e.lex.NextToken()
	for {
		nameTok, err := e.consume(lexer.IDENT)
		if err != nil {
			return err
		}
		var v value.Value = value.Undefined()
		if e.lex.Current().Type == lexer.ASSIGN || e.lex.Current().Type == lexer.DEFINE {
			e.lex.NextToken()
			val, _, verr := e.parseAssignExpr(false)
			if verr != nil {
				return verr
			}
			v = val
			if e.pending.isSet() {
				return nil
			}
		}
		flags := value.PropFlag(0)
		if isConst {
			flags = value.PropConst
		}
		if err := e.declareVar(nameTok.Literal, e.Engine.Ref(v), flags); err != nil {
			return err
		}
		if e.lex.Current().Type == lexer.COMMA {
			e.lex.NextToken()
			continue
		}
		return nil
	}
}

// parseIf implements if/else-if/else. A taken branch's sibling(s) are
// skipped token-for-token (skipIfChain) rather than parsed into values,
// matching spec 4.3's "an untaken branch is never parsed at all".
func (e *Evaluator) parseIf() *script.EngineError {
	e.lex.NextToken()
	condSrc, err := e.scanParenGroup()
	if err != nil {
		return err
	}
	thenSrc, err := e.scanBlock()
	if err != nil {
		return err
	}

	condVal, cerr := e.evalExprText(condSrc)
	if cerr != nil {
		return cerr
	}
	if e.pending.isSet() {
		return nil
	}
	cond := optable.Truthy(condVal)

	hasElse := e.lex.Current().Type == lexer.ELSE
	if cond {
		if hasElse {
			e.lex.NextToken()
			if e.lex.Current().Type == lexer.IF {
				if err := e.skipIfChain(); err != nil {
					return err
				}
			} else if _, err := e.scanBlock(); err != nil {
				return err
			}
		}
		return e.runBlockScoped(thenSrc)
	}

	if !hasElse {
		return nil
	}
	e.lex.NextToken()
	if e.lex.Current().Type == lexer.IF {
		return e.parseIf()
	}
	elseSrc, err := e.scanBlock()
	if err != nil {
		return err
	}
	return e.runBlockScoped(elseSrc)
}

// skipIfChain consumes (without evaluating) an if/else-if/else chain
// that a sibling branch already taken has made dead.
func (e *Evaluator) skipIfChain() *script.EngineError {
	e.lex.NextToken()
	if _, err := e.scanParenGroup(); err != nil {
		return err
	}
	if _, err := e.scanBlock(); err != nil {
		return err
	}
	if e.lex.Current().Type == lexer.ELSE {
		e.lex.NextToken()
		if e.lex.Current().Type == lexer.IF {
			return e.skipIfChain()
		}
		if _, err := e.scanBlock(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) parseWhile() *script.EngineError {
	e.lex.NextToken()
	condSrc, err := e.scanParenGroup()
	if err != nil {
		return err
	}
	bodySrc, err := e.scanBlock()
	if err != nil {
		return err
	}

	for {
		if e.interrupted.Load() {
			e.pending = signal{code: script.INTERRUPTED}
			return nil
		}
		condVal, cerr := e.evalExprText(condSrc)
		if cerr != nil {
			return cerr
		}
		if !optable.Truthy(condVal) {
			return nil
		}
		if err := e.runBlockScoped(bodySrc); err != nil {
			return err
		}
		if done, err := e.handleLoopSignal(); done {
			return err
		}
	}
}

func (e *Evaluator) parseDoWhile() *script.EngineError {
	e.lex.NextToken()
	bodySrc, err := e.scanBlock()
	if err != nil {
		return err
	}
	if _, err := e.consume(lexer.WHILE); err != nil {
		return err
	}
	condSrc, err := e.scanParenGroup()
	if err != nil {
		return err
	}

	for {
		if err := e.runBlockScoped(bodySrc); err != nil {
			return err
		}
		if done, err := e.handleLoopSignal(); done {
			return err
		}
		condVal, cerr := e.evalExprText(condSrc)
		if cerr != nil {
			return cerr
		}
		if !optable.Truthy(condVal) {
			return nil
		}
	}
}

func (e *Evaluator) parseFor() *script.EngineError {
	e.lex.NextToken()
	headerSrc, err := e.scanParenGroup()
	if err != nil {
		return err
	}
	bodySrc, err := e.scanBlock()
	if err != nil {
		return err
	}

	clauses := splitTopLevelClauses(headerSrc)
	var initSrc, condSrc, postSrc string
	if len(clauses) > 0 {
		initSrc = clauses[0]
	}
	if len(clauses) > 1 {
		condSrc = clauses[1]
	}
	if len(clauses) > 2 {
		postSrc = clauses[2]
	}

	e.pushBlockScope()
	defer e.popScope()

	if initSrc != "" {
		// The init clause may be a `var` declaration (its binding must
		// live in the loop's own enclosing scope, not a fresh one), so
		// it runs as a statement rather than through evalExprText.
		if ierr := e.runBlock(initSrc); ierr != nil {
			return ierr
		}
		if e.pending.isSet() {
			return nil
		}
	}

	for {
		if condSrc != "" {
			condVal, cerr := e.evalExprText(condSrc)
			if cerr != nil {
				return cerr
			}
			if !optable.Truthy(condVal) {
				return nil
			}
		}
		if err := e.runBlockScoped(bodySrc); err != nil {
			return err
		}
		if done, err := e.handleLoopSignal(); done {
			return err
		}
		if postSrc != "" {
			if _, perr := e.evalExprText(postSrc); perr != nil {
				return perr
			}
			if e.pending.isSet() {
				return nil
			}
		}
	}
}

// handleLoopSignal interprets e.pending after one loop-body run: BREAK
// ends the loop cleanly, CONTINUE clears it so the loop proceeds to its
// next condition/post-clause check, anything else (RETURN/EXIT/
// EXCEPTION/INTERRUPTED) must keep propagating so the enclosing
// function/driver sees it. done reports whether the caller's loop
// should return immediately; err is what it should return.
func (e *Evaluator) handleLoopSignal() (done bool, err *script.EngineError) {
	if !e.pending.isSet() {
		return false, nil
	}
	switch e.pending.code {
	case script.BREAK:
		e.pending = noSignal
		return true, nil
	case script.CONTINUE:
		e.pending = noSignal
		return false, nil
	default:
		return true, nil
	}
}

// parseForeach implements `foreach (v in expr) {...}` and
// `foreach (k, v in expr) {...}` over arrays and property holders.
// `in` is not a lexer keyword (spec 4.3's closed token set has no slot
// for it); it is recognized as a plain IDENT spelled "in".
func (e *Evaluator) parseForeach() *script.EngineError {
	e.lex.NextToken()
	headerSrc, err := e.scanParenGroup()
	if err != nil {
		return err
	}
	bodySrc, err := e.scanBlock()
	if err != nil {
		return err
	}

	hl := lexer.New(headerSrc)
	hl.NextToken()
	pos := e.pos()

	firstTok, herr := consumeTok(hl, lexer.IDENT, pos)
	if herr != nil {
		return herr
	}
	keyName := ""
	valName := firstTok.Literal
	if hl.Current().Type == lexer.COMMA {
		hl.NextToken()
		secondTok, herr := consumeTok(hl, lexer.IDENT, pos)
		if herr != nil {
			return herr
		}
		keyName = valName
		valName = secondTok.Literal
	}
	if hl.Current().Type != lexer.IDENT || hl.Current().Literal != "in" {
		return e.errorf(script.SYNTAX, "expected 'in' in foreach header")
	}
	hl.NextToken()
	iterSrc := headerSrc[hl.Current().Pos.Offset:]

	iterVal, ierr := e.evalExprText(iterSrc)
	if ierr != nil {
		return ierr
	}
	if e.pending.isSet() {
		return nil
	}

	runIteration := func(key, val value.Value) (stop bool, err *script.EngineError) {
		e.pushBlockScope()
		if keyName != "" {
			if derr := e.declareVar(keyName, key, 0); derr != nil {
				e.popScope()
				return true, derr
			}
		}
		if derr := e.declareVar(valName, val, 0); derr != nil {
			e.popScope()
			return true, derr
		}
		berr := e.runBlock(bodySrc)
		e.popScope()
		if berr != nil {
			return true, berr
		}
		done, lerr := e.handleLoopSignal()
		return done, lerr
	}

	switch container := iterVal.(type) {
	case *value.ArrayValue:
		n := container.Length()
		for i := int64(0); i < n; i++ {
			elem, _ := container.GetIndex(i)
			if stop, err := runIteration(e.Engine.NewInt(i), elem); stop {
				return err
			}
		}
	case value.PropertyHolder:
		var stopErr *script.EngineError
		container.Props().Range(func(k, v value.Value, _ value.PropFlag) bool {
			stop, err := runIteration(k, v)
			if err != nil {
				stopErr = err
				return false
			}
			return !stop
		})
		if stopErr != nil {
			return stopErr
		}
	default:
		return e.errorf(script.TYPE, "value of kind %s is not iterable", iterVal.Kind())
	}
	return nil
}

func (e *Evaluator) parseReturnOrExit(code script.RC) *script.EngineError {
	e.lex.NextToken()
	var v value.Value = value.Undefined()
	if !e.atStatementEnd() {
		val, _, err := e.parseCommaExpr2(false)
		if err != nil {
			return err
		}
		v = val
		if e.pending.isSet() {
			return nil
		}
	}
	e.pending = signal{code: code, value: e.Engine.Ref(v)}
	return nil
}

func (e *Evaluator) parseThrow() *script.EngineError {
	e.lex.NextToken()
	val, _, err := e.parseCommaExpr2(false)
	if err != nil {
		return err
	}
	if e.pending.isSet() {
		return nil
	}
	exc := e.toException(val)
	e.exception = e.Engine.Ref(exc)
	e.pending = signal{code: script.EXCEPTION}
	return nil
}

// toException wraps an arbitrary thrown value in an exception record
// (spec 4.7: "a new exception adopts the script-position information of
// the currently executing tokenizer unless it already carries that
// information"), preserving the original payload under its "value"
// property so a catch handler can recover it losslessly.
func (e *Evaluator) toException(v value.Value) *value.ExceptionValue {
	if exc, ok := v.(*value.ExceptionValue); ok {
		pos := e.pos()
		exc.AdoptPosition(e.ScriptName, pos.Line, pos.Column)
		return exc
	}
	exc := e.Engine.NewException(script.EXCEPTION, v.String())
	exc.Props().SetByName("value", v, 0)
	exc.StackTrace = e.Calls.Snapshot()
	pos := e.pos()
	exc.AdoptPosition(e.ScriptName, pos.Line, pos.Column)
	return exc
}

func (e *Evaluator) parseAssert() *script.EngineError {
	e.lex.NextToken()
	val, _, err := e.parseCommaExpr2(false)
	if err != nil {
		return err
	}
	if e.pending.isSet() {
		return nil
	}
	if optable.Truthy(val) {
		return nil
	}
	exc := e.Engine.NewException(script.ASSERT, "assertion failed")
	pos := e.pos()
	exc.AdoptPosition(e.ScriptName, pos.Line, pos.Column)
	e.exception = e.Engine.Ref(exc)
	e.pending = signal{code: script.EXCEPTION}
	return nil
}

// parseTry implements try/catch/finally. A finally block always runs;
// it can itself replace the outcome (if it diverges with its own
// return/throw/break/continue), but otherwise the try/catch outcome is
// restored once it completes (spec 4.6/4.7's unwind-then-cleanup order).
func (e *Evaluator) parseTry() *script.EngineError {
	e.lex.NextToken()
	trySrc, err := e.scanBlock()
	if err != nil {
		return err
	}

	haveCatch := false
	var catchName, catchSrc string
	if e.lex.Current().Type == lexer.CATCH {
		e.lex.NextToken()
		haveCatch = true
		if e.lex.Current().Type == lexer.LPAREN {
			paramSrc, perr := e.scanParenGroup()
			if perr != nil {
				return perr
			}
			catchName = strings.TrimSpace(paramSrc)
		}
		s, berr := e.scanBlock()
		if berr != nil {
			return berr
		}
		catchSrc = s
	}

	haveFinally := false
	var finallySrc string
	if e.lex.Current().Type == lexer.FINALLY {
		e.lex.NextToken()
		haveFinally = true
		s, ferr := e.scanBlock()
		if ferr != nil {
			return ferr
		}
		finallySrc = s
	}

	result := e.runBlockScoped(trySrc)

	if result == nil && e.pending.code == script.EXCEPTION && haveCatch {
		excVal := e.exception
		e.exception = nil
		e.pending = noSignal
		e.pushBlockScope()
		if catchName != "" {
			if derr := e.declareVar(catchName, excVal, 0); derr != nil {
				e.popScope()
				return derr
			}
		}
		result = e.runBlock(catchSrc)
		e.popScope()
	}

	if haveFinally {
		savedPending := e.pending
		savedExc := e.exception
		e.pending = noSignal
		if ferr := e.runBlockScoped(finallySrc); ferr != nil {
			return ferr
		}
		if !e.pending.isSet() {
			e.pending = savedPending
			e.exception = savedExc
		}
	}

	return result
}

func (e *Evaluator) parseScopeStmt() *script.EngineError {
	e.lex.NextToken()
	blockSrc, err := e.scanBlock()
	if err != nil {
		return err
	}
	return e.runBlockScoped(blockSrc)
}

func (e *Evaluator) parsePragma() *script.EngineError {
	e.lex.NextToken()
	nameTok, err := e.consume(lexer.IDENT)
	if err != nil {
		return err
	}
	var v value.Value = e.Engine.NewBool(true)
	if e.lex.Current().Type == lexer.ASSIGN {
		e.lex.NextToken()
		val, _, verr := e.parseAssignExpr(false)
		if verr != nil {
			return verr
		}
		v = val
	}
	e.pragmas[nameTok.Literal] = v
	return nil
}

// parseProcParams parses a `(name, &byRefName, withDefault = expr)`
// parameter list. Default-value expressions are kept as opaque source
// text (evaluated lazily, per call, against the call's own scope) the
// same way a script function's body is, rather than pre-evaluated once.
func (e *Evaluator) parseProcParams() ([]value.Param, bool, *script.EngineError) {
	paramSrc, err := e.scanParenGroup()
	if err != nil {
		return nil, false, err
	}
	pl := lexer.New(paramSrc)
	pl.NextToken()
	pos := e.pos()

	var params []value.Param
	// No variadic-parameter syntax exists in the token set; callers reach
	// extra arguments through the implicit "argv" binding instead.
	variadic := false
	for pl.Current().Type != lexer.EOF {
		byRef := false
		if pl.Current().Type == lexer.AMP {
			byRef = true
			pl.NextToken()
		}
		nameTok, nerr := consumeTok(pl, lexer.IDENT, pos)
		if nerr != nil {
			return nil, false, nerr
		}
		p := value.Param{Name: nameTok.Literal, ByRef: byRef}
		if pl.Current().Type == lexer.ASSIGN {
			pl.NextToken()
			defStart := pl.Current().Pos.Offset
			depth := 0
			for {
				tt := pl.Current().Type
				if tt == lexer.EOF {
					break
				}
				if tt == lexer.COMMA && depth == 0 {
					break
				}
				switch tt {
				case lexer.LPAREN, lexer.LBRACK, lexer.LBRACE:
					depth++
				case lexer.RPAREN, lexer.RBRACK, lexer.RBRACE:
					depth--
				}
				pl.NextToken()
			}
			p.Default = strings.TrimSpace(paramSrc[defStart:pl.Current().Pos.Offset])
		}
		params = append(params, p)
		if pl.Current().Type == lexer.COMMA {
			pl.NextToken()
			continue
		}
		break
	}
	return params, variadic, nil
}

// parseProcExpr parses `proc [name](params) {body}` as a value: a
// script function closed over the evaluator's current scope (spec 9's
// "Script functions with captured ... bindings").
func (e *Evaluator) parseProcExpr() (value.Value, *script.EngineError) {
	e.lex.NextToken()
	name := ""
	if e.lex.Current().Type == lexer.IDENT {
		name = e.lex.Current().Literal
		e.lex.NextToken()
	}
	params, variadic, err := e.parseProcParams()
	if err != nil {
		return nil, err
	}
	bodySrc, err := e.scanBlock()
	if err != nil {
		return nil, err
	}
	fn := e.Engine.NewScriptFunction(name, params, variadic, bodySrc, e.Scope)
	return fn, nil
}

func (e *Evaluator) parseProcStatement() *script.EngineError {
	fn, err := e.parseProcExpr()
	if err != nil {
		return err
	}
	fv := fn.(*value.FunctionValue)
	if fv.Name == "" {
		return e.errorf(script.SYNTAX, "a proc statement requires a name")
	}
	return e.declareVar(fv.Name, e.Engine.Ref(fn), 0)
}

// parseClass builds a prototype object out of a class body's `proc`
// methods and `var`/`const` fields (spec 4.6's class support grounded on
// 4.4's prototype-chain overloading/method model), optionally deriving
// from a named base class.
func (e *Evaluator) parseClass() *script.EngineError {
	e.lex.NextToken()
	nameTok, err := e.consume(lexer.IDENT)
	if err != nil {
		return err
	}
	var base value.Value
	if e.lex.Current().Type == lexer.COLON {
		e.lex.NextToken()
		baseTok, berr := e.consume(lexer.IDENT)
		if berr != nil {
			return berr
		}
		if v, _, ok := e.lookupVar(baseTok.Literal); ok {
			base = v
		}
	}
	bodySrc, err := e.scanBlock()
	if err != nil {
		return err
	}

	proto := e.Engine.NewObject(base)
	proto.SetClassName(nameTok.Literal)

	saved := e.lex
	e.lex = lexer.New(bodySrc)
	e.lex.NextToken()
	var bodyErr *script.EngineError
classBody:
	for {
		e.skipSeparators()
		switch e.lex.Current().Type {
		case lexer.EOF:
			break classBody
		case lexer.PROC:
			fn, ferr := e.parseProcExpr()
			if ferr != nil {
				bodyErr = ferr
				break classBody
			}
			fv := fn.(*value.FunctionValue)
			if fv.Name != "" {
				proto.Props().SetByName(fv.Name, e.Engine.Ref(fn), 0)
			}
		case lexer.VAR, lexer.CONST:
			isConst := e.lex.Current().Type == lexer.CONST
			e.lex.NextToken()
			for {
				fTok, ferr := e.consume(lexer.IDENT)
				if ferr != nil {
					bodyErr = ferr
					break classBody
				}
				var v value.Value = value.Undefined()
				if e.lex.Current().Type == lexer.ASSIGN {
					e.lex.NextToken()
					val, _, verr := e.parseAssignExpr(false)
					if verr != nil {
						bodyErr = verr
						break classBody
					}
					v = val
				}
				flags := value.PropFlag(0)
				if isConst {
					flags = value.PropConst
				}
				proto.Props().SetByName(fTok.Literal, e.Engine.Ref(v), flags)
				if e.lex.Current().Type == lexer.COMMA {
					e.lex.NextToken()
					continue
				}
				break
			}
		default:
			bodyErr = e.errorf(script.SYNTAX, "unexpected token %s in class body", e.lex.Current().Type)
			break classBody
		}
	}
	e.lex = saved
	if bodyErr != nil {
		return bodyErr
	}
	return e.declareVar(nameTok.Literal, e.Engine.Ref(proto), 0)
}

// parseEnum builds a plain object whose properties are consecutive
// (or explicitly assigned) integer constants, declared under the enum's
// own name.
func (e *Evaluator) parseEnum() *script.EngineError {
	e.lex.NextToken()
	nameTok, err := e.consume(lexer.IDENT)
	if err != nil {
		return err
	}
	bodySrc, err := e.scanBlock()
	if err != nil {
		return err
	}

	obj := e.Engine.NewObject(nil)
	obj.SetClassName(nameTok.Literal)

	bl := lexer.New(bodySrc)
	bl.NextToken()
	pos := e.pos()
	idx := int64(0)
	for {
		for bl.Current().Type == lexer.COMMA || bl.Current().Type == lexer.EOL || bl.Current().Type == lexer.EOX {
			bl.NextToken()
		}
		if bl.Current().Type == lexer.EOF {
			break
		}
		memberTok, merr := consumeTok(bl, lexer.IDENT, pos)
		if merr != nil {
			return merr
		}
		if bl.Current().Type == lexer.ASSIGN {
			bl.NextToken()
			if bl.Current().Type == lexer.INT {
				n, nerr := parseIntLiteral(bl.Current().Literal)
				if nerr == nil {
					idx = n
				}
				bl.NextToken()
			}
		}
		obj.Props().SetByName(memberTok.Literal, e.Engine.NewInt(idx), value.PropConst)
		idx++
	}
	return e.declareVar(nameTok.Literal, e.Engine.Ref(obj), 0)
}
