package main

import (
	"fmt"
	"os"

	"github.com/biopipe/atomiccmd/pkg/atomiccmd"
	"github.com/biopipe/atomiccmd/pkg/atomicyaml"
	"github.com/spf13/cobra"
)

var pipeCmd = &cobra.Command{
	Use:   "pipe <producer.yaml> <consumer.yaml> <temp-dir>",
	Short: "Chain a producer's stdout into a consumer's stdin and commit the consumer",
	Long: "Chain a producer's stdout into a consumer's stdin and commit the consumer.\n\n" +
		"The producer's YAML must bind OUT_STDOUT (or TEMP_OUT_STDOUT) to PIPE.\n" +
		"The consumer's YAML must not bind IN_STDIN/TEMP_IN_STDIN itself — pipe\n" +
		"wires it to the producer's live stdout, which YAML cannot express.",
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		producer, err := loadDescriptor(args[0])
		if err != nil {
			return fmt.Errorf("producer: %w", err)
		}

		consumer, err := loadConsumerWithUpstream(args[1], producer)
		if err != nil {
			return fmt.Errorf("consumer: %w", err)
		}

		tempRoot := args[2]
		if err := os.MkdirAll(tempRoot, 0o755); err != nil {
			return fmt.Errorf("creating temp root: %w", err)
		}

		if err := producer.Run(tempRoot); err != nil {
			return fmt.Errorf("starting producer: %w", err)
		}
		if err := consumer.Run(tempRoot); err != nil {
			producer.Terminate()
			return fmt.Errorf("starting consumer: %w", err)
		}

		consumerCode, err := consumer.Wait()
		if err != nil {
			return fmt.Errorf("waiting for consumer: %w", err)
		}
		producerCode, err := producer.Wait()
		if err != nil {
			return fmt.Errorf("waiting for producer: %w", err)
		}
		if producerCode != 0 {
			return fmt.Errorf("producer exited %d", producerCode)
		}
		if consumerCode != 0 {
			return fmt.Errorf("consumer exited %d", consumerCode)
		}

		if err := consumer.Commit(tempRoot); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "pipe committed")
		return nil
	},
}

// loadConsumerWithUpstream decodes a consumer descriptor from YAML and
// injects IN_STDIN as an Upstream reference to producer, a binding YAML
// itself cannot express (atomiccmd.Upstream has no literal form).
func loadConsumerWithUpstream(path string, producer *atomiccmd.Descriptor) (*atomiccmd.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	argv, setCwd, slots, err := atomicyaml.Decode(data)
	if err != nil {
		return nil, err
	}
	if slots["IN_STDIN"] != nil || slots["TEMP_IN_STDIN"] != nil {
		return nil, fmt.Errorf("%s: consumer must not declare its own IN_STDIN when used with pipe", path)
	}
	slots["IN_STDIN"] = atomiccmd.Upstream{Cmd: producer}
	return atomiccmd.New(argv, setCwd, slots)
}
