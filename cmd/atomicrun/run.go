package main

import (
	"fmt"
	"os"

	"github.com/biopipe/atomiccmd/pkg/atomiccmd"
	"github.com/biopipe/atomiccmd/pkg/atomicyaml"
	"github.com/spf13/cobra"
)

var flagKeepTemp bool

var runCmd = &cobra.Command{
	Use:   "run <descriptor.yaml> <temp-dir>",
	Short: "Run a descriptor against a temp root and commit on success",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDescriptor(args[0])
		if err != nil {
			return err
		}
		tempRoot := args[1]
		if err := os.MkdirAll(tempRoot, 0o755); err != nil {
			return fmt.Errorf("creating temp root: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), d.String())

		if err := d.Run(tempRoot); err != nil {
			return err
		}
		code, err := d.Wait()
		if err != nil {
			return err
		}
		if code != 0 {
			return fmt.Errorf("%s exited %d; temp root left at %s for inspection", d.Argv()[0], code, tempRoot)
		}
		if err := d.Commit(tempRoot); err != nil {
			return err
		}
		if !flagKeepTemp {
			os.RemoveAll(tempRoot)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "committed (state=%s)\n", d.State())
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&flagKeepTemp, "keep-temp", false, "do not remove the temp root after a successful commit")
}

func loadDescriptor(path string) (*atomiccmd.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	d, err := atomicyaml.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
