package lexer

import "testing"

func collect(src string) []Token {
	l := New(src)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func TestIdentifiersAndKeywords(t *testing.T) {
	toks := collect("var x = foo")
	want := []TokenType{VAR, IDENT, ASSIGN, IDENT, EOF}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d: got %s want %s", i, toks[i].Type, w)
		}
	}
}

func TestNonASCIIIdentifier(t *testing.T) {
	toks := collect("var café = 1")
	if toks[1].Type != IDENT || toks[1].Literal != "café" {
		t.Fatalf("expected non-ASCII identifier to scan whole, got %+v", toks[1])
	}
}

func TestNumberLiterals(t *testing.T) {
	cases := map[string]TokenType{
		"123":     INT,
		"0x1F":    INT,
		"0o17":    INT,
		"0b1010":  INT,
		"3.14":    DOUBLE,
		"1e10":    DOUBLE,
		"1.5e-3":  DOUBLE,
	}
	for src, want := range cases {
		toks := collect(src)
		if toks[0].Type != want {
			t.Fatalf("%q: got %s want %s", src, toks[0].Type, want)
		}
		if toks[0].Literal != src {
			t.Fatalf("%q: literal mismatch, got %q", src, toks[0].Literal)
		}
	}
}

func TestOperatorDisambiguation(t *testing.T) {
	cases := []struct {
		src  string
		want []TokenType
	}{
		{"==", []TokenType{EQ, EOF}},
		{"===", []TokenType{EQ3, EOF}},
		{"!=", []TokenType{NEQ, EOF}},
		{"!==", []TokenType{NEQ3, EOF}},
		{"<=", []TokenType{LE, EOF}},
		{">=", []TokenType{GE, EOF}},
		{"<<", []TokenType{SHL, EOF}},
		{"<<=", []TokenType{SHLEQ, EOF}},
		{">>", []TokenType{SHR, EOF}},
		{">>=", []TokenType{SHREQ, EOF}},
		{"&&", []TokenType{AND, EOF}},
		{"||", []TokenType{OR, EOF}},
		{"|||", []TokenType{OROR_OR, EOF}},
		{"?:", []TokenType{ELVIS, EOF}},
		{"?.", []TokenType{SAFE_DOT, EOF}},
		{"=~", []TokenType{MATCH, EOF}},
		{"!~", []TokenType{NMATCH, EOF}},
		{"=>", []TokenType{FATARROW, EOF}},
		{"->", []TokenType{ARROW, EOF}},
		{"..", []TokenType{RANGE, EOF}},
		{".#", []TokenType{GROUPDOT, EOF}},
		{"++", []TokenType{INC, EOF}},
		{"--", []TokenType{DEC, EOF}},
		{"+=", []TokenType{PLUSEQ, EOF}},
		{":=", []TokenType{DEFINE, EOF}},
		{"::", []TokenType{DBLCOLON, EOF}},
	}
	for _, c := range cases {
		toks := collect(c.src)
		if len(toks) != len(c.want) {
			t.Fatalf("%q: expected %d tokens got %d: %+v", c.src, len(c.want), len(toks), toks)
		}
		for i, w := range c.want {
			if toks[i].Type != w {
				t.Fatalf("%q token %d: got %s want %s", c.src, i, toks[i].Type, w)
			}
		}
	}
}

func TestStringEscapes(t *testing.T) {
	toks := collect(`"hello\nworld"`)
	if toks[0].Type != STRING {
		t.Fatalf("expected STRING, got %s", toks[0].Type)
	}
	if toks[0].Literal != `hello\nworld` {
		t.Fatalf("expected raw escaped span preserved, got %q", toks[0].Literal)
	}
}

func TestLineCommentSkipped(t *testing.T) {
	toks := collect("1 // a comment\n+ 2")
	want := []TokenType{INT, EOL, PLUS, INT, EOF}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(toks), toks)
	}
}

func TestBlockCommentSkipped(t *testing.T) {
	toks := collect("1 /* skip\nme */ + 2")
	want := []TokenType{INT, PLUS, INT, EOF}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(toks), toks)
	}
}

func TestScanGroupBraces(t *testing.T) {
	l := New("{ return 1 + 2; }")
	tok := l.NextToken() // consumes '{'
	if tok.Type != LBRACE {
		t.Fatalf("expected LBRACE, got %s", tok.Type)
	}
	group := l.ScanGroup('{')
	if group.Type != GROUP_BRACE {
		t.Fatalf("expected GROUP_BRACE, got %s", group.Type)
	}
	if group.Literal != "return 1 + 2;" {
		t.Fatalf("unexpected group literal: %q", group.Literal)
	}
}

func TestScanGroupNested(t *testing.T) {
	l := New("(a + (b * c))")
	l.NextToken() // consumes outer '('
	group := l.ScanGroup('(')
	if group.Type != GROUP_PAREN {
		t.Fatalf("expected GROUP_PAREN, got %s", group.Type)
	}
	if group.Literal != "a + (b * c)" {
		t.Fatalf("unexpected nested group literal: %q", group.Literal)
	}
}

func TestHeredoc(t *testing.T) {
	src := "<<<EOT\nline one\nline two\nEOT"
	l := New(src)
	tok := l.NextToken()
	if tok.Type != HEREDOC {
		t.Fatalf("expected HEREDOC, got %s: %+v", tok.Type, tok)
	}
	if tok.Literal != "line one\nline two" {
		t.Fatalf("unexpected heredoc body: %q", tok.Literal)
	}
}

func TestShebangAndBOMStripped(t *testing.T) {
	src := "\xEF\xBB\xBF#!/usr/bin/env cwscript\nvar x = 1"
	toks := collect(src)
	if toks[0].Type != VAR {
		t.Fatalf("expected shebang/BOM to be stripped, first token got %s", toks[0].Type)
	}
}

func TestPutbackAndPeek(t *testing.T) {
	l := New("1 + 2")
	first := l.NextToken()
	if first.Type != INT {
		t.Fatalf("expected INT, got %s", first.Type)
	}
	peeked := l.Peek()
	if peeked.Type != PLUS {
		t.Fatalf("expected peek to see PLUS, got %s", peeked.Type)
	}
	second := l.NextToken()
	if second.Type != PLUS {
		t.Fatalf("expected peeked token to be returned without rescanning, got %s", second.Type)
	}
	pb, ok := l.Putback()
	if !ok || pb.Type != INT {
		t.Fatalf("expected putback to be the prior current token (INT), got %+v ok=%v", pb, ok)
	}
}

func TestEOXOnSemicolon(t *testing.T) {
	toks := collect("1;2")
	want := []TokenType{INT, EOX, INT, EOF}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d: got %s want %s", i, toks[i].Type, w)
		}
	}
}
