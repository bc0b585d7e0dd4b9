package main

import (
	"fmt"

	"github.com/biopipe/atomiccmd/pkg/atomiccmd"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <descriptor.yaml>",
	Short: "Print a descriptor's file-set index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDescriptor(args[0])
		if err != nil {
			return err
		}
		printSet(cmd, "inputs", d.InputFiles())
		printSet(cmd, "outputs", d.OutputFiles())
		printSet(cmd, "executables", d.Executables())
		printSet(cmd, "auxiliary", d.AuxiliaryFiles())
		printSet(cmd, "expected_temp_files", d.ExpectedTempFiles())
		printSet(cmd, "optional_temp_files", d.OptionalTempFiles())
		fmt.Fprintf(cmd.OutOrStdout(), "requirements: %d check(s)\n", len(d.Requirements()))
		return nil
	},
}

func printSet(cmd *cobra.Command, label string, s atomiccmd.FileSet) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", label)
	for _, name := range s.Sorted() {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
	}
}
