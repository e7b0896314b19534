package evaluator

import "strconv"

// parseIntLiteral converts an INT token's literal text (decimal, or
// 0x/0o/0b prefixed per the lexer's scanNumber) to an int64.
func parseIntLiteral(lit string) (int64, error) {
	return strconv.ParseInt(lit, 0, 64)
}

// parseDoubleLiteral converts a DOUBLE token's literal text to a float64.
func parseDoubleLiteral(lit string) (float64, error) {
	return strconv.ParseFloat(lit, 64)
}

// unescapeString resolves the backslash escapes the lexer's scanString
// leaves untouched in a STRING token's literal (it copies `\` plus the
// following rune verbatim so the caller can choose an escape dialect).
func unescapeString(s string) string {
	var out []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			out = append(out, c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case '\\':
			out = append(out, '\\')
		case '\'':
			out = append(out, '\'')
		case '"':
			out = append(out, '"')
		case '0':
			out = append(out, 0)
		default:
			out = append(out, '\\', s[i])
		}
	}
	return string(out)
}
