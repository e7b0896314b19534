package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwscript-lang/cwscript/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Display detailed version information including commit hash and build date.

With the global --verbose flag, also prints the engine tuning defaults
a bare New() would use (sweep/vacuum cadence, recursion cap), so a bug
report can include what "default config" means for the binary that
produced it.`,
	Run: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("cwscript version %s\n", Version)
	fmt.Printf("Git Commit: %s\n", GitCommit)
	fmt.Printf("Build Date: %s\n", BuildDate)

	if !verbose {
		return
	}
	d := config.Default()
	fmt.Println("\nEngine defaults:")
	fmt.Printf("  sweep interval:   %d\n", d.SweepInterval)
	fmt.Printf("  vacuum interval:  %d\n", d.VacuumInterval)
	fmt.Printf("  max stack depth:  %d\n", d.MaxStackDepth)
}
