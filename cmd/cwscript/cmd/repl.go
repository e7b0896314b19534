package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cwscript-lang/cwscript/pkg/cwscript"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Long: `Start an interactive session: each line is evaluated against a single
persistent engine, so variables declared in one line remain available in
later ones.

Commands:
  :quit, :exit   leave the session
  :help          show this help`,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(_ *cobra.Command, _ []string) error {
	engine, err := cwscript.New(cwscript.WithOutput(os.Stdout))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	fmt.Printf("cwscript REPL v%s\n", Version)
	fmt.Println("Type ':help' for help, ':quit' or ':exit' to leave")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("cwscript> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case ":quit", ":exit":
			return nil
		case ":help":
			printREPLHelp()
			continue
		case "":
			continue
		}

		result, err := engine.Eval(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err.Error())
			continue
		}
		if result.Success && result.Value != nil {
			fmt.Println(result.Value.String())
		}
	}
	return scanner.Err()
}

func printREPLHelp() {
	fmt.Println("Commands:")
	fmt.Println("  :help     show this help")
	fmt.Println("  :quit     leave the session")
	fmt.Println("  :exit     leave the session")
}
