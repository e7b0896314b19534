package main

import (
	"fmt"
	"os"

	"github.com/cwscript-lang/cwscript/cmd/cwscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
