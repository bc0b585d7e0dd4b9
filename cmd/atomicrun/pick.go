package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
)

var flagRun bool

var pickCmd = &cobra.Command{
	Use:   "pick [dir]",
	Short: "Fuzzy-select a descriptor from a directory and print or run it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		} else {
			d, err := resolveDescriptorDir()
			if err != nil {
				return err
			}
			dir = d
		}

		files, err := listDescriptorFiles(dir)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", dir, err)
		}
		if len(files) == 0 {
			return fmt.Errorf("no descriptor YAML files found in %s", dir)
		}

		selected, err := fzfSelectDescriptor(files)
		if err != nil {
			return fmt.Errorf("selection cancelled: %w", err)
		}

		d, err := loadDescriptor(selected)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), d.String())

		if !flagRun {
			return nil
		}
		tempRoot, err := os.MkdirTemp("", "atomicrun-pick-*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tempRoot)

		if err := d.Run(tempRoot); err != nil {
			return err
		}
		code, err := d.Wait()
		if err != nil {
			return err
		}
		if code != 0 {
			return fmt.Errorf("%s exited %d", selected, code)
		}
		return d.Commit(tempRoot)
	},
}

func init() {
	pickCmd.Flags().BoolVar(&flagRun, "run", false, "run the selected descriptor against a scratch temp root")
}

// fzfSelectDescriptor opens a terminal UI for fuzzy-searching descriptor
// file basenames and returns the chosen full path.
func fzfSelectDescriptor(files []string) (string, error) {
	idx, err := fuzzyfinder.Find(
		files,
		func(i int) string { return filepath.Base(files[i]) },
		fuzzyfinder.WithPromptString("Select descriptor: "),
	)
	if err != nil {
		return "", err
	}
	return files[idx], nil
}
