package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cwscript",
	Short: "cwscript embeddable scripting runtime",
	Long: `cwscript is a small, dynamically typed scripting language meant to be
embedded in a host Go program: dynamic values, prototype-based objects,
exceptions, and a JSON bridge for passing data across the host/script
boundary. Parameters are passed by value; lazy and by-reference
parameters are not supported.

This CLI drives the same engine pkg/cwscript exposes for embedding,
useful for running scripts standalone and for debugging the lexer and
evaluator.`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
