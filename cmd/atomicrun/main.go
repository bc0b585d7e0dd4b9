// Command atomicrun drives atomiccmd.Descriptor values described by YAML
// files on disk: run one, inspect its file-set index, or chain two through
// a pipe.
package main

import (
	"os"

	"github.com/biopipe/atomiccmd/pkg/lib"
	"github.com/spf13/cobra"
)

const appName = "atomicrun"

var rootCmd = &cobra.Command{
	Use:   appName + " [command]",
	Short: "Run atomiccmd descriptors described in YAML",
	Long:  "Run atomiccmd descriptors described in YAML.\n\nEach descriptor is a separate YAML document naming a command, its\nslot bindings, and whether it runs with the temp root as its cwd.",
}

func main() {
	rootCmd.AddCommand(runCmd, listCmd, pipeCmd, pickCmd, psCmd)
	if err := rootCmd.Execute(); err != nil {
		lib.Exit(err)
	}
}
