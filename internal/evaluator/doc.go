// Package evaluator implements the token-stream-driven interpreter
// described in spec 4.5/4.6: no persistent AST is built anywhere. A
// control-flow keyword captures its body as an opaque source span via
// lexer.ScanGroup and re-tokenizes it fresh every time it runs (every
// loop iteration gets its own *lexer.Lexer over the same captured text);
// an untaken branch is never even handed to a sub-evaluator.
//
// Expressions are reduced by internal/optable's two-stack machine; this
// package is the driver that feeds it operands and operators, handles
// the handful of operators optable cannot express generically (dot,
// call, subscript, assignment, ternary, prefix/postfix ++/--), and owns
// the token-stream recursive-descent chain between statements and the
// stack machine's leaves (parseCommaExpr -> parseAssignExpr ->
// parseTernary -> parseBinaryChain -> parseUnary -> parsePostfix ->
// parsePrimary).
//
// Grounded on a prior implementation's internal/interp/evaluator package (a single
// Evaluator type driving Environment/CallStack/Interrupter together),
// generalized from an AST-walking design into the spec's span-capture,
// no-AST design.
package evaluator
