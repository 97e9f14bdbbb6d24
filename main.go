// ./main.go
package main

import (
	"github.com/xkilldash9x/faultline/cmd"
)

// main is the entry point for the faultline CLI application.
func main() {
	// Execute the root command defined in the cmd package.
	// This handles all command-line parsing, configuration, and execution.
	cmd.Execute()
}
