package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cwscript-lang/cwscript/internal/evaluator"
	"github.com/cwscript-lang/cwscript/internal/scope"
	"github.com/cwscript-lang/cwscript/internal/value"
	"github.com/spf13/cobra"
)

var parseExpression bool

var parseCmd = &cobra.Command{
	Use:     "parse [file]",
	Aliases: []string{"dump"},
	Short:   "Evaluate cwscript source and display its resulting value",
	Long: `Evaluate cwscript source and print a structural dump of its final
expression value.

There is no separate parse-only stage to inspect: the evaluator consumes
the token stream directly as it runs, so this command is eval plus a
debug dump of the result rather than a standalone syntax tree. No
builtins (print, to_json, from_json) are registered, so the dump is the
only thing on stdout; a script that calls print fails with an error.

If no file is provided, reads from stdin. Use -e to evaluate a single
expression from the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVarP(&parseExpression, "expression", "e", false, "evaluate an expression from the command line")
}

func runParse(_ *cobra.Command, args []string) error {
	var input string

	switch {
	case parseExpression:
		if len(args) == 0 {
			return fmt.Errorf("no expression provided")
		}
		input = args[0]
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
	}

	ve := value.NewEngine(value.Options{})
	root := scope.NewRoot()
	ve.SetCurrentScope(root)
	ev := evaluator.New(ve, root, "<parse>")

	result, err := ev.EvalScript(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		return fmt.Errorf("evaluation failed")
	}

	fmt.Println(value.DebugString(result))
	return nil
}
