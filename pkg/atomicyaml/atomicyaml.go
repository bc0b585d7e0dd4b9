// Package atomicyaml decodes atomiccmd.Descriptor specifications from YAML,
// the way go-tools/cmd/devshell/dslyaml decodes its DSL node tree: a small
// polymorphic front end (command as a string or an explicit argv list)
// feeding a strict, typed builder.
package atomicyaml

import (
	"fmt"
	"strings"

	"github.com/biopipe/atomiccmd/pkg/atomiccmd"
	"gopkg.in/yaml.v3"
)

// rawDescriptor is the YAML-facing shape of a descriptor file. Command
// handling follows the same two-form convention the teacher's DSL uses for
// a runnable node:
//
//   - Command: the compact string form. Split into argv with strings.Fields
//     after decoding — template placeholders that span tokens are
//     therefore not supported in this form, matching the same limitation
//     the teacher documents for its own string form.
//   - Argv: the pre-tokenized array form, used as-is.
//
// Exactly one of Command or Argv must be set.
type rawDescriptor struct {
	Command yaml.Node         `yaml:"command,omitempty"`
	Argv    []string          `yaml:"argv,omitempty"`
	SetCwd  bool              `yaml:"set_cwd,omitempty"`
	Slots   map[string]string `yaml:"slots,omitempty"`
}

// pipeSentinelValue is the YAML spelling recognised as atomiccmd.PIPE.
const pipeSentinelValue = "PIPE"

// Decode parses a descriptor YAML document into the raw pieces a
// Descriptor is built from, without constructing it. Callers that need to
// wire an Upstream or CheckFunc slot programmatically (neither is
// expressible in YAML) should use Decode directly and add those slots to
// the returned map before calling atomiccmd.New themselves; Load is the
// convenience wrapper for the common case where no such wiring is needed.
func Decode(data []byte) (argv []string, setCwd bool, slots map[string]atomiccmd.SlotValue, err error) {
	var raw rawDescriptor
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, false, nil, fmt.Errorf("decoding descriptor: %w", err)
	}

	argv, err = resolveArgv(raw)
	if err != nil {
		return nil, false, nil, err
	}

	slots = make(map[string]atomiccmd.SlotValue, len(raw.Slots))
	for name, value := range raw.Slots {
		if value == pipeSentinelValue {
			slots[name] = atomiccmd.PIPE
			continue
		}
		slots[name] = atomiccmd.Path(value)
	}

	return argv, raw.SetCwd, slots, nil
}

// Load decodes a descriptor YAML document and builds the Descriptor in one
// step. It cannot express CHECK_* or upstream-descriptor (IN_STDIN chained
// from another command) slots; use Decode for those.
func Load(data []byte) (*atomiccmd.Descriptor, error) {
	argv, setCwd, slots, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return atomiccmd.New(argv, setCwd, slots)
}

// resolveArgv applies the Command/Argv XOR rule and splits the string form.
func resolveArgv(raw rawDescriptor) ([]string, error) {
	hasArgv := len(raw.Argv) > 0
	hasCommand := raw.Command.Kind != 0

	switch {
	case hasArgv && hasCommand:
		return nil, fmt.Errorf("descriptor cannot declare both 'command' and 'argv'")
	case hasArgv:
		return raw.Argv, nil
	case hasCommand:
		var s string
		if err := raw.Command.Decode(&s); err != nil {
			return nil, fmt.Errorf("decoding command: %w", err)
		}
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return nil, fmt.Errorf("command must not be empty")
		}
		return fields, nil
	default:
		return nil, fmt.Errorf("descriptor must declare either 'command' or 'argv'")
	}
}
