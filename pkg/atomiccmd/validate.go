package atomiccmd

import (
	"fmt"
	"sort"
	"strings"
)

// processArguments runs the Argument Spec Validator (spec.md §4.1) in
// order, returning the cleaned slot map (nil values dropped) ready for use,
// or the first violation encountered.
func processArguments(id uint64, argv []string, raw map[string]SlotValue) (map[string]SlotValue, error) {
	if err := validateStreamUniqueness(raw); err != nil {
		return nil, err
	}

	slots := make(map[string]SlotValue, len(raw))
	for name, value := range raw {
		if value == nil {
			continue // null-valued slots are dropped silently
		}
		if err := validateSlot(name, value); err != nil {
			return nil, err
		}
		slots[name] = value
	}

	fillDefaultStreams(id, argv, slots)

	if err := validateNoDuplicateOutputs(slots); err != nil {
		return nil, err
	}

	return slots, nil
}

// validateStreamUniqueness enforces: for each reserved stream, at most one
// of the temp/non-temp forms is present.
func validateStreamUniqueness(raw map[string]SlotValue) error {
	pairs := [][2]string{
		{"IN_" + suffixStdin, "TEMP_IN_" + suffixStdin},
		{"OUT_" + suffixStdout, "TEMP_OUT_" + suffixStdout},
		{"OUT_" + suffixStderr, "TEMP_OUT_" + suffixStderr},
	}
	for _, pair := range pairs {
		final, temp := raw[pair[0]], raw[pair[1]]
		if final != nil && temp != nil {
			return fmt.Errorf("%w: pipe %s declared both as %s and %s", ErrSpec, strings.TrimPrefix(pair[0], "OUT_"), pair[0], pair[1])
		}
	}
	return nil
}

// validateSlot checks a single (name, value) pair: legal prefix and
// non-empty suffix, type rules per slot kind, and the temp-basename rule.
func validateSlot(name string, value SlotValue) error {
	kind, scope, _, ok := parseSlotName(name)
	if !ok {
		return fmt.Errorf("%w: argument %q has an invalid or missing prefix", ErrSpec, name)
	}

	switch {
	case name == "OUT_"+suffixStdout || name == "TEMP_OUT_"+suffixStdout:
		switch value.(type) {
		case Path, pipeSentinel:
		default:
			return fmt.Errorf("%w: %s must be a path or atomiccmd.PIPE, not %T", ErrSpec, name, value)
		}
	case name == "IN_"+suffixStdin || name == "TEMP_IN_"+suffixStdin:
		switch value.(type) {
		case Path, Upstream:
		default:
			return fmt.Errorf("%w: %s must be a path or an upstream Descriptor, not %T", ErrSpec, name, value)
		}
	case kind == KindCheck:
		if _, ok := value.(CheckFunc); !ok {
			return fmt.Errorf("%w: %s must be a CheckFunc, not %T", ErrSpec, name, value)
		}
	default:
		if _, ok := value.(Path); !ok {
			return fmt.Errorf("%w: %s must be a path, not %T", ErrSpec, name, value)
		}
	}

	if scope == ScopeTemp {
		if path, ok := value.(Path); ok && hasDirComponent(string(path)) {
			return fmt.Errorf("%w: %s cannot contain a directory component: %q", ErrSpec, name, string(path))
		}
	}

	return nil
}

// validateNoDuplicateOutputs enforces output uniqueness: no two output
// slots (temp or final) may resolve to the same basename.
func validateNoDuplicateOutputs(slots map[string]SlotValue) error {
	byBasename := map[string][]string{}
	for name, value := range slots {
		kind, _, _, ok := parseSlotName(name)
		if !ok || kind != KindOut {
			continue
		}
		path, ok := value.(Path)
		if !ok {
			continue // PIPE carries no basename
		}
		b := baseName(string(path))
		byBasename[b] = append(byBasename[b], name)
	}

	var conflicts []string
	for b := range byBasename {
		if len(byBasename[b]) > 1 {
			conflicts = append(conflicts, b)
		}
	}
	if len(conflicts) == 0 {
		return nil
	}
	sort.Strings(conflicts)
	b := conflicts[0]
	keys := byBasename[b]
	sort.Strings(keys)
	return fmt.Errorf("%w: output filename %q is specified for multiple slots: %s", ErrSpec, b, strings.Join(keys, ", "))
}

// fillDefaultStreams auto-fills OUT_STDOUT/OUT_STDERR when neither the
// final nor temp form was declared, synthesising a deterministic filename
// of the form pipe_<exec-basename>_<descriptor-id>.<stream>.
func fillDefaultStreams(id uint64, argv []string, slots map[string]SlotValue) {
	exe := baseName(argv[0])
	for _, stream := range [2]string{suffixStdout, suffixStderr} {
		final, temp := "OUT_"+stream, "TEMP_OUT_"+stream
		if slots[final] != nil || slots[temp] != nil {
			continue
		}
		filename := fmt.Sprintf("pipe_%s_%d.%s", exe, id, strings.ToLower(stream))
		slots[temp] = Path(filename)
	}
}

// dryRunTemplate performs the construction-time dry run required by
// spec.md §4.1 rule 5: templating against an empty temp root, catching
// missing or mistyped placeholders before the descriptor is ever run.
func dryRunTemplate(argv []string, slots map[string]SlotValue) error {
	filenames := resolveFilenames(slots, "")
	_, err := buildArgv(argv, filenames)
	return err
}
