package cmd

import (
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/cwscript-lang/cwscript/internal/lexer"
)

var (
	showPos    bool
	showType   bool
	onlyErrors bool
	prettyDump bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a cwscript file or expression",
	Long: `Tokenize (lex) a cwscript program and print the resulting tokens.

This command is useful for debugging the lexer and understanding how
cwscript source code is tokenized.

Examples:
  # Tokenize a script file
  cwscript lex script.cws

  # Tokenize an inline expression
  cwscript lex -e "var x = 42;"

  # Show token types and positions
  cwscript lex --show-type --show-pos script.cws

  # Show only errors (illegal tokens)
  cwscript lex --only-errors script.cws

  # Dump the full token struct (kr/pretty) instead of the one-line form
  cwscript lex --pretty script.cws`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token type names")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal/error tokens")
	lexCmd.Flags().BoolVar(&prettyDump, "pretty", false, "dump the full token struct instead of the one-line form")
}

// scannedToken pairs a raw lexer.Token with the position it occupies in
// the stream, so the whole run can be collected before anything is
// printed (needed for --pretty, which dumps the slice in one shot
// rather than interleaving prints with scanning).
type scannedToken struct {
	Index int
	Tok   lexer.Token
}

func lexScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readScriptInput(args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	tokens, errorCount := scanAll(input)
	if onlyErrors {
		filtered := tokens[:0]
		for _, st := range tokens {
			if st.Tok.Type == lexer.ERR {
				filtered = append(filtered, st)
			}
		}
		tokens = filtered
	}

	if prettyDump {
		for _, st := range tokens {
			fmt.Printf("%d: %s\n", st.Index, pretty.Sprint(st.Tok))
		}
	} else {
		for _, st := range tokens {
			printToken(st.Tok)
		}
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", len(tokens))
		if errorCount > 0 {
			fmt.Printf("Errors: %d\n", errorCount)
		}
	}

	if onlyErrors && errorCount > 0 {
		return fmt.Errorf("found %d illegal token(s)", errorCount)
	}

	return nil
}

// scanAll drains l to EOF, returning every token produced (EOF included)
// and a count of how many were ERR tokens.
func scanAll(input string) ([]scannedToken, int) {
	l := lexer.New(input)

	var tokens []scannedToken
	errorCount := 0

	for i := 0; ; i++ {
		tok := l.NextToken()
		tokens = append(tokens, scannedToken{Index: i, Tok: tok})
		if tok.Type == lexer.ERR {
			errorCount++
		}
		if tok.Type == lexer.EOF {
			break
		}
	}

	return tokens, errorCount
}

func printToken(tok lexer.Token) {
	var output string

	if showType {
		output = fmt.Sprintf("[%-12s]", tok.Type)
	}

	switch {
	case tok.Type == lexer.EOF:
		output += " EOF"
	case tok.Type == lexer.ERR:
		output += fmt.Sprintf(" ILLEGAL: %q", tok.Literal)
	case tok.Literal == "":
		output += fmt.Sprintf(" %s", tok.Type)
	default:
		output += fmt.Sprintf(" %q", tok.Literal)
	}

	if showPos {
		output += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}

	fmt.Println(output)
}

// readScriptInput resolves the shared -e/file-argument convention used
// by every subcommand that takes script source.
func readScriptInput(args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}
