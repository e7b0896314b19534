package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/cwscript-lang/cwscript/pkg/cwscript"
	"github.com/spf13/cobra"
)

var (
	evalExpr     string
	dumpResult   bool
	configPath   string
	maxStackFlag int
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a cwscript file or expression",
	Long: `Execute a cwscript program from a file or inline expression.

Examples:
  # Run a script file
  cwscript run script.cws

  # Evaluate an inline expression
  cwscript run -e "print(\"Hello, World!\");"

  # Run with a YAML tuning config
  cwscript run --config engine.yaml script.cws

  # Print the script's final value after running
  cwscript run --dump-result script.cws`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpResult, "dump-result", false, "print the script's final value after running")
	runCmd.Flags().StringVar(&configPath, "config", "", "load engine tuning options from a YAML file")
	runCmd.Flags().IntVar(&maxStackFlag, "max-stack-depth", 0, "override the recursion cap (0 keeps the config/default)")
}

func runScript(_ *cobra.Command, args []string) error {
	var input, filename string

	if evalExpr != "" {
		input, filename = evalExpr, "<eval>"
	} else if len(args) == 1 {
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	} else {
		return fmt.Errorf("either provide a file path or use -e flag for inline code")
	}

	var opts []cwscript.Option
	opts = append(opts, cwscript.WithOutput(os.Stdout))
	if maxStackFlag > 0 {
		opts = append(opts, cwscript.WithMaxStackDepth(maxStackFlag))
	}

	var engine *cwscript.Engine
	var err error
	if configPath != "" {
		engine, err = cwscript.NewFromYAML(configPath, opts...)
	} else {
		engine, err = cwscript.New(opts...)
	}
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[running %s]\n", filename)
	}

	result, err := engine.EvalCstr(input)
	if err != nil {
		var ce *cwscript.CompileError
		if errors.As(err, &ce) {
			fmt.Fprintf(os.Stderr, "%s\n", ce.Error())
		} else {
			fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		}
		return fmt.Errorf("execution failed")
	}

	if dumpResult && result.Success {
		fmt.Println(result.Value.String())
	}

	return nil
}
