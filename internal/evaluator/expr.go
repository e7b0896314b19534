package evaluator

import (
	"github.com/cwscript-lang/cwscript/internal/lexer"
	"github.com/cwscript-lang/cwscript/internal/optable"
	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// Expression parsing is recursive descent down to parsePostfix/
// parsePrimary, then handed to internal/optable's two-stack machine for
// everything above unary precedence. skip threads through every level
// (spec 4.4's "Short-circuiting"): an operand under skip is still fully
// parsed (tokens consumed, nested calls structurally walked) but
// performs no side effect (no store, no declare, no actual call).
//
// Four wrapper levels exist outside the generic stack machine because
// each needs something the machine's uniform (engine, args, skip) ->
// value handler signature cannot express: comma discards all but the
// last value, assignment needs the left operand's lvalueRef to store
// into, ternary spans two delimiting tokens instead of one operator
// slot, and the stack machine itself handles everything from logical-or
// down through unary.

var assignTokens = map[lexer.TokenType]bool{
	lexer.ASSIGN: true, lexer.DEFINE: true,
	lexer.PLUSEQ: true, lexer.MINUSEQ: true, lexer.STAREQ: true,
	lexer.SLASHEQ: true, lexer.PERCENTEQ: true,
	lexer.AMPEQ: true, lexer.PIPEEQ: true, lexer.CARETEQ: true,
	lexer.SHLEQ: true, lexer.SHREQ: true,
}

// parseCommaExpr parses a comma-separated sequence of assignment
// expressions, evaluating each (so side effects happen in source order)
// and yielding the last one's value (spec 6's comma-operator surface).
func (e *Evaluator) parseCommaExpr(skip bool) (value.Value, *script.EngineError) {
	val, _, err := e.parseAssignExpr(skip)
	if err != nil {
		return nil, err
	}
	for e.lex.Current().Type == lexer.COMMA {
		e.lex.NextToken()
		v, _, err := e.parseAssignExpr(skip)
		if err != nil {
			return nil, err
		}
		val = v
		if e.pending.isSet() {
			return val, nil
		}
	}
	return val, nil
}

// parseAssignExpr handles `:=`, `=`, and the compound-assign operators,
// all right-associative and all needing the already-parsed left operand's
// lvalueRef (spec 4.4's ops_assign.go note: "only the evaluator knows
// which kind of lvalue produced the left operand").
func (e *Evaluator) parseAssignExpr(skip bool) (value.Value, *lvalueRef, *script.EngineError) {
	lhsVal, lhsRef, err := e.parseTernary(skip)
	if err != nil {
		return nil, nil, err
	}
	if e.pending.isSet() {
		return lhsVal, nil, nil
	}

	tok := e.lex.Current()
	if !assignTokens[tok.Type] {
		return lhsVal, lhsRef, nil
	}
	e.lex.NextToken()

	rhsVal, _, err := e.parseAssignExpr(skip)
	if err != nil {
		return nil, nil, err
	}
	if skip {
		return value.Undefined(), nil, nil
	}
	if e.pending.isSet() {
		return rhsVal, nil, nil
	}
	if lhsRef == nil {
		return nil, nil, script.NewEngineError(script.SYNTAX, e.pos(), "invalid assignment target")
	}

	var result value.Value
	if tok.Type == lexer.DEFINE {
		result = rhsVal
		if err := e.declareVar(lhsRef.name, e.Engine.Ref(result), 0); err != nil {
			return nil, nil, err
		}
		return result, lhsRef, nil
	}

	if tok.Type == lexer.ASSIGN {
		result = rhsVal
	} else {
		op, ok := optable.Lookup(tok.Type)
		if !ok {
			return nil, nil, script.NewEngineError(script.SYNTAX, e.pos(), "unknown assignment operator")
		}
		curVal, lerr := e.loadRef(*lhsRef)
		if lerr != nil {
			return nil, nil, lerr
		}
		result, err = op.Handler(e.Engine, []value.Value{curVal, rhsVal}, false)
		if err != nil {
			return nil, nil, err
		}
	}
	if err := e.storeRef(*lhsRef, e.Engine.Ref(result)); err != nil {
		return nil, nil, err
	}
	return result, lhsRef, nil
}

// parseTernary handles the bare `cond ? then : else` form, which spans
// two delimiting tokens rather than one operator slot (the `?:` Elvis
// operator, by contrast, is a single token and is handled generically by
// the stack machine inside parseBinaryChain).
func (e *Evaluator) parseTernary(skip bool) (value.Value, *lvalueRef, *script.EngineError) {
	condVal, ref, err := e.parseBinaryChain(skip)
	if err != nil {
		return nil, nil, err
	}
	if e.pending.isSet() || e.lex.Current().Type != lexer.QUESTION {
		return condVal, ref, nil
	}
	e.lex.NextToken()

	cond := optable.Truthy(condVal)
	thenVal, _, err := e.parseAssignExpr(skip || !cond)
	if err != nil {
		return nil, nil, err
	}
	if _, err := e.consume(lexer.COLON); err != nil {
		return nil, nil, err
	}
	elseVal, _, err := e.parseAssignExpr(skip || cond)
	if err != nil {
		return nil, nil, err
	}
	if skip || e.pending.isSet() {
		return value.Undefined(), nil, nil
	}
	if cond {
		return thenVal, nil, nil
	}
	return elseVal, nil, nil
}

// parseBinaryChain drives internal/optable's StackMachine across every
// precedence level from logical-or through unary (everything optable
// registers as a plain infix Op). It stops at comma and at the
// assignment-family tokens, which are not fed into the generic machine
// because storing an assignment's result needs the lvalueRef the machine
// never sees.
func (e *Evaluator) parseBinaryChain(skip bool) (value.Value, *lvalueRef, *script.EngineError) {
	m := optable.NewStackMachine()
	if skip {
		m.RaiseSkip()
	}

	val, ref, err := e.parseUnary(m.Skipping())
	if err != nil {
		return nil, nil, err
	}
	if e.pending.isSet() {
		return val, nil, nil
	}
	m.PushValue(val)
	terms := 1

	for {
		tok := e.lex.Current()
		if assignTokens[tok.Type] || tok.Type == lexer.COMMA || tok.Type == lexer.QUESTION {
			break
		}
		op, ok := optable.Lookup(tok.Type)
		if !ok {
			break
		}
		e.lex.NextToken()
		if err := m.PushOperator(e.Engine, op); err != nil {
			return nil, nil, err
		}
		rhsVal, _, err := e.parseUnary(m.Skipping())
		if err != nil {
			return nil, nil, err
		}
		if e.pending.isSet() {
			return rhsVal, nil, nil
		}
		m.PushValue(rhsVal)
		terms++
		ref = nil
	}

	result, err := m.Finish(e.Engine)
	if err != nil {
		return nil, nil, err
	}
	if terms != 1 {
		ref = nil
	}
	return result, ref, nil
}

// parseUnary handles the prefix operators: `-`, `!`, `~` via optable's
// prefix table (none of which produce an lvalue), and `++`/`--` which
// the evaluator special-cases because they both read and store through
// the operand's lvalueRef.
func (e *Evaluator) parseUnary(skip bool) (value.Value, *lvalueRef, *script.EngineError) {
	tok := e.lex.Current()

	if tok.Type == lexer.INC || tok.Type == lexer.DEC {
		e.lex.NextToken()
		operandVal, ref, err := e.parseUnary(skip)
		if err != nil {
			return nil, nil, err
		}
		if skip || e.pending.isSet() {
			return value.Undefined(), nil, nil
		}
		if ref == nil {
			return nil, nil, script.NewEngineError(script.SYNTAX, e.pos(), "invalid operand for %s", tok.Type)
		}
		op, _ := optable.LookupPrefix(tok.Type)
		newVal, eerr := op.Handler(e.Engine, []value.Value{operandVal}, false)
		if eerr != nil {
			return nil, nil, eerr
		}
		if err := e.storeRef(*ref, e.Engine.Ref(newVal)); err != nil {
			return nil, nil, err
		}
		return newVal, nil, nil
	}

	if op, ok := optable.LookupPrefix(tok.Type); ok {
		e.lex.NextToken()
		operandVal, _, err := e.parseUnary(skip)
		if err != nil {
			return nil, nil, err
		}
		if e.pending.isSet() {
			return operandVal, nil, nil
		}
		result, eerr := op.Handler(e.Engine, []value.Value{operandVal}, skip)
		if eerr != nil {
			return nil, nil, eerr
		}
		return result, nil, nil
	}

	return e.parsePostfix(skip)
}

// parsePostfix parses one primary expression, then repeatedly applies
// trailers: `.name` (property access, publishing a dot-op `this` for a
// call that may immediately follow), `[expr]` (subscript), `(args)`
// (call), and postfix `++`/`--`.
func (e *Evaluator) parsePostfix(skip bool) (value.Value, *lvalueRef, *script.EngineError) {
	val, ref, err := e.parsePrimary(skip)
	if err != nil {
		return nil, nil, err
	}
	if e.pending.isSet() {
		return val, nil, nil
	}

	// dotThis tracks the receiver of the most recent `.name`/`[...]`
	// trailer so an immediately-following call binds `this` to it
	// rather than to the callee function itself (spec 4.5's "this
	// according to the publishing dot-op state").
	var dotThis value.Value
	haveDotThis := false

	for {
		switch e.lex.Current().Type {
		case lexer.DOT, lexer.SAFE_DOT:
			safe := e.lex.Current().Type == lexer.SAFE_DOT
			e.lex.NextToken()
			nameTok, cerr := e.consume(lexer.IDENT)
			if cerr != nil {
				return nil, nil, cerr
			}
			if safe && isNullish(val) {
				return value.Undefined(), nil, nil
			}
			propVal, gerr := e.getProp(val, nameTok.Literal)
			if gerr != nil {
				return nil, nil, gerr
			}
			dotThis, haveDotThis = val, true
			ph, _ := val.(value.PropertyHolder)
			val = propVal
			ref = &lvalueRef{kind: refProp, holder: ph, key: nameTok.Literal}

		case lexer.LBRACK:
			e.lex.NextToken()
			idxVal, ierr := e.parseCommaExpr(skip)
			if ierr != nil {
				return nil, nil, ierr
			}
			if _, cerr := e.consume(lexer.RBRACK); cerr != nil {
				return nil, nil, cerr
			}
			idxNum, ok := idxVal.(value.NumericValue)
			if !ok {
				return nil, nil, script.NewEngineError(script.TYPE, e.pos(), "subscript requires a numeric index")
			}
			idxable, ok := val.(value.IndexableValue)
			if !ok {
				return nil, nil, script.NewEngineError(script.TYPE, e.pos(), "value of kind %s is not indexable", val.Kind())
			}
			i, _ := idxNum.AsInt()
			elem, gerr := idxable.GetIndex(i)
			if gerr != nil {
				elem = value.Undefined()
			}
			dotThis, haveDotThis = val, true
			val = elem
			ref = &lvalueRef{kind: refIndex, indexable: idxable, idx: i}

		case lexer.LPAREN:
			e.lex.NextToken()
			args, perr := e.parseArgList()
			if perr != nil {
				return nil, nil, perr
			}
			if skip || e.pending.isSet() {
				val, ref = value.Undefined(), nil
				haveDotThis = false
				continue
			}
			this := val
			if haveDotThis {
				this = dotThis
			}
			result, cerr := e.callValue(val, this, args)
			if cerr != nil {
				return nil, nil, cerr
			}
			val, ref = result, nil
			haveDotThis = false
			if e.pending.isSet() {
				return val, nil, nil
			}

		case lexer.INC, lexer.DEC:
			tt := e.lex.Current().Type
			e.lex.NextToken()
			if skip || ref == nil {
				continue
			}
			op, _ := optable.LookupPrefix(tt)
			newVal, eerr := op.Handler(e.Engine, []value.Value{val}, false)
			if eerr != nil {
				return nil, nil, eerr
			}
			if err := e.storeRef(*ref, e.Engine.Ref(newVal)); err != nil {
				return nil, nil, err
			}
			// postfix yields the pre-increment value; val already
			// holds it, so nothing further to do here.
			ref = nil

		default:
			return val, ref, nil
		}
	}
}

func isNullish(v value.Value) bool {
	switch v.(type) {
	case *value.UndefinedValue, *value.NullValue:
		return true
	default:
		return false
	}
}

// parseArgList parses a comma-separated, possibly-empty argument list up
// to and including the closing `)`.
func (e *Evaluator) parseArgList() ([]value.Value, *script.EngineError) {
	var args []value.Value
	if e.lex.Current().Type == lexer.RPAREN {
		e.lex.NextToken()
		return args, nil
	}
	for {
		v, _, err := e.parseAssignExpr(false)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		if e.pending.isSet() {
			break
		}
		if e.lex.Current().Type == lexer.COMMA {
			e.lex.NextToken()
			continue
		}
		break
	}
	if _, err := e.consume(lexer.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// parsePrimary parses literals, identifiers, parenthesized
// subexpressions, array/object literals, `new`, `this`, and anonymous
// `proc` expressions.
func (e *Evaluator) parsePrimary(skip bool) (value.Value, *lvalueRef, *script.EngineError) {
	tok := e.lex.Current()

	switch tok.Type {
	case lexer.INT:
		e.lex.NextToken()
		n, err := parseIntLiteral(tok.Literal)
		if err != nil {
			return nil, nil, script.NewEngineError(script.SYNTAX, e.pos(), "invalid integer literal %q", tok.Literal)
		}
		return e.Engine.NewInt(n), nil, nil

	case lexer.DOUBLE:
		e.lex.NextToken()
		f, err := parseDoubleLiteral(tok.Literal)
		if err != nil {
			return nil, nil, script.NewEngineError(script.SYNTAX, e.pos(), "invalid float literal %q", tok.Literal)
		}
		return e.Engine.NewDouble(f), nil, nil

	case lexer.STRING:
		e.lex.NextToken()
		return e.Engine.NewString(unescapeString(tok.Literal)), nil, nil

	case lexer.HEREDOC:
		e.lex.NextToken()
		return e.Engine.NewString(tok.Literal), nil, nil

	case lexer.TRUE:
		e.lex.NextToken()
		return e.Engine.NewBool(true), nil, nil
	case lexer.FALSE:
		e.lex.NextToken()
		return e.Engine.NewBool(false), nil, nil
	case lexer.NULL:
		e.lex.NextToken()
		return value.Null(), nil, nil
	case lexer.UNDEFINED:
		e.lex.NextToken()
		return value.Undefined(), nil, nil
	case lexer.THIS:
		e.lex.NextToken()
		v, _, ok := e.lookupVar("this")
		if !ok {
			return value.Undefined(), nil, nil
		}
		return v, nil, nil

	case lexer.IDENT:
		e.lex.NextToken()
		if v, ok := e.UKWD.Lookup(tok.Literal); ok {
			return v, nil, nil
		}
		v, _, ok := e.lookupVar(tok.Literal)
		if !ok {
			return value.Undefined(), &lvalueRef{kind: refVar, name: tok.Literal}, nil
		}
		return v, &lvalueRef{kind: refVar, name: tok.Literal}, nil

	case lexer.LPAREN:
		e.lex.NextToken()
		v, err := e.parseCommaExpr(skip)
		if err != nil {
			return nil, nil, err
		}
		if _, err := e.consume(lexer.RPAREN); err != nil {
			return nil, nil, err
		}
		return v, nil, nil

	case lexer.LBRACK:
		return e.parseArrayLiteral(skip)

	case lexer.LBRACE:
		return e.parseObjectLiteral(skip)

	case lexer.NEW:
		return e.parseNewExpr(skip)

	case lexer.PROC:
		v, err := e.parseProcExpr()
		return v, nil, err

	case lexer.CATCH:
		e.lex.NextToken()
		blockSrc, berr := e.scanBlock()
		if berr != nil {
			return nil, nil, berr
		}
		if skip {
			return value.Undefined(), nil, nil
		}
		if cerr := e.runBlockScoped(blockSrc); cerr != nil {
			return nil, nil, cerr
		}
		if e.pending.code == script.EXCEPTION {
			excVal := e.exception
			e.exception = nil
			e.pending = noSignal
			if excVal == nil {
				excVal = value.Undefined()
			}
			return excVal, nil, nil
		}
		if e.pending.isSet() {
			return value.Undefined(), nil, nil
		}
		return value.Undefined(), nil, nil

	case lexer.TYPEINFO:
		e.lex.NextToken()
		if e.lex.Current().Type != lexer.LPAREN {
			return nil, nil, script.NewEngineError(script.UNEXPECTED_TOKEN, e.pos(), "expected ( after typeinfo")
		}
		group := e.lex.ScanGroup('(')
		if group.Type == lexer.ERR {
			return nil, nil, script.NewEngineError(script.SYNTAX, e.pos(), "unterminated typeinfo(...) group")
		}
		e.lex.NextToken()
		if skip {
			return value.Undefined(), nil, nil
		}
		v, verr := e.evalExprText(group.Literal)
		if verr != nil {
			return nil, nil, verr
		}
		info := e.Engine.NewObject(nil)
		info.Props().SetByName("kind", e.Engine.NewString(v.Kind().String()), 0)
		info.Props().SetByName("isContainer", e.Engine.NewBool(v.Kind().IsContainer()), 0)
		info.Props().SetByName("prototypeName", e.Engine.NewString(prototypeName(v)), 0)
		return info, nil, nil

	case lexer.EVAL:
		e.lex.NextToken()
		if e.lex.Current().Type != lexer.LPAREN {
			return nil, nil, script.NewEngineError(script.UNEXPECTED_TOKEN, e.pos(), "expected ( after eval")
		}
		// The LPAREN token was already scanned, leaving the cursor just
		// past '(' (ScanGroup's precondition), so the group is captured
		// without a separate NextToken call.
		group := e.lex.ScanGroup('(')
		if group.Type == lexer.ERR {
			return nil, nil, script.NewEngineError(script.SYNTAX, e.pos(), "unterminated eval(...) group")
		}
		e.lex.NextToken()
		if skip {
			return value.Undefined(), nil, nil
		}
		v, err := e.evalExprText(group.Literal)
		return v, nil, err

	default:
		return nil, nil, script.NewEngineError(script.UNEXPECTED_TOKEN, e.pos(), "unexpected token %s", tok.Type)
	}
}

func (e *Evaluator) parseArrayLiteral(skip bool) (value.Value, *lvalueRef, *script.EngineError) {
	e.lex.NextToken()
	var items []value.Value
	if e.lex.Current().Type == lexer.RBRACK {
		e.lex.NextToken()
		return e.Engine.NewArray(items), nil, nil
	}
	for {
		v, _, err := e.parseAssignExpr(skip)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, e.Engine.Ref(v))
		if e.lex.Current().Type == lexer.COMMA {
			e.lex.NextToken()
			if e.lex.Current().Type == lexer.RBRACK {
				break
			}
			continue
		}
		break
	}
	if _, err := e.consume(lexer.RBRACK); err != nil {
		return nil, nil, err
	}
	return e.Engine.NewArray(items), nil, nil
}

func (e *Evaluator) parseObjectLiteral(skip bool) (value.Value, *lvalueRef, *script.EngineError) {
	e.lex.NextToken()
	obj := e.Engine.NewObject(nil)
	if e.lex.Current().Type == lexer.RBRACE {
		e.lex.NextToken()
		return obj, nil, nil
	}
	for {
		keyTok := e.lex.Current()
		var keyName string
		switch keyTok.Type {
		case lexer.IDENT, lexer.STRING:
			keyName = keyTok.Literal
			e.lex.NextToken()
		default:
			return nil, nil, script.NewEngineError(script.SYNTAX, e.pos(), "expected property name")
		}
		if _, err := e.consume(lexer.COLON); err != nil {
			return nil, nil, err
		}
		v, _, err := e.parseAssignExpr(skip)
		if err != nil {
			return nil, nil, err
		}
		if err := obj.Props().SetByName(keyName, e.Engine.Ref(v), 0); err != nil {
			return nil, nil, script.NewEngineError(script.CONST_VIOLATION, e.pos(), "%s", err.Error())
		}
		if e.lex.Current().Type == lexer.COMMA {
			e.lex.NextToken()
			if e.lex.Current().Type == lexer.RBRACE {
				break
			}
			continue
		}
		break
	}
	if _, err := e.consume(lexer.RBRACE); err != nil {
		return nil, nil, err
	}
	return obj, nil, nil
}

// parseNewExpr implements `new Ctor(args)`: Ctor must resolve to an
// object (used directly as the new instance's prototype) or a function
// (invoked, bound to the new instance, as an initializer).
func (e *Evaluator) parseNewExpr(skip bool) (value.Value, *lvalueRef, *script.EngineError) {
	e.lex.NextToken()
	nameTok, err := e.consume(lexer.IDENT)
	if err != nil {
		return nil, nil, err
	}
	ctor, _, ok := e.lookupVar(nameTok.Literal)
	if !ok {
		return nil, nil, script.NewEngineError(script.UNKNOWN_IDENTIFIER, e.pos(), "unknown identifier %q", nameTok.Literal)
	}

	var args []value.Value
	if e.lex.Current().Type == lexer.LPAREN {
		e.lex.NextToken()
		args, err = e.parseArgList()
		if err != nil {
			return nil, nil, err
		}
	}
	if skip {
		return value.Undefined(), nil, nil
	}

	var proto value.Value
	if ov, ok := ctor.(*value.ObjectValue); ok {
		proto = ov
	}
	inst := e.Engine.NewObject(proto)
	inst.SetClassName(nameTok.Literal)

	if fn, ok := ctor.(*value.FunctionValue); ok {
		if _, err := e.callValue(fn, inst, args); err != nil {
			return nil, nil, err
		}
	} else if proto != nil {
		if initFn := lookupPrototypeMethod(proto.(*value.ObjectValue), "init"); initFn != nil {
			if _, err := e.callValue(initFn, inst, args); err != nil {
				return nil, nil, err
			}
		}
	}
	return inst, nil, nil
}

// prototypeName walks v's prototype chain (spec 9's typeinfo "is-a
// checks, prototype walk") to find the nearest named class, returning
// "" for values with no class identity.
func prototypeName(v value.Value) string {
	ov, ok := v.(*value.ObjectValue)
	if !ok {
		return ""
	}
	for cur := value.Value(ov); cur != nil; {
		o, ok := cur.(*value.ObjectValue)
		if !ok {
			break
		}
		if o.ClassName() != "" {
			return o.ClassName()
		}
		cur = o.Prototype()
	}
	return ""
}
