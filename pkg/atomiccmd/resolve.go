package atomiccmd

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// baseName is filepath.Base, named to match the vocabulary of spec.md.
func baseName(p string) string { return filepath.Base(p) }

// hasDirComponent reports whether p names something other than a bare
// filename in the current directory — i.e. it has a directory component.
// TEMP_* path values must fail this check (spec.md §3 "Temp basename rule").
func hasDirComponent(p string) bool {
	return filepath.Base(p) != p
}

// resolveFilenames is the Filename Resolver (spec.md §4.2). It produces a
// mapping from slot name to concrete path given a temp root R:
//
//   - "TEMP_DIR" -> R
//   - TEMP_* or OUT_* path value -> R/basename(value)
//   - IN_*/AUX_* path value, when R == "" (set-cwd mode) -> absolute path
//   - everything else -> unchanged
//
// Only Path-valued slots appear in the returned map (alongside TEMP_DIR);
// Pipe, Upstream and CheckFunc slots carry no filename.
func resolveFilenames(slots map[string]SlotValue, root string) map[string]string {
	out := map[string]string{"TEMP_DIR": root}

	for name, value := range slots {
		path, ok := value.(Path)
		if !ok {
			continue
		}
		s := string(path)

		switch {
		case isTempOrOutPrefixed(name):
			s = filepath.Join(root, baseName(s))
		case root == "" && isInOrAuxPrefixed(name):
			if abs, err := filepath.Abs(s); err == nil {
				s = abs
			}
		}

		out[name] = s
	}

	return out
}

func isTempOrOutPrefixed(name string) bool {
	kind, scope, _, ok := parseSlotName(name)
	if !ok {
		return false
	}
	return scope == ScopeTemp || kind == KindOut
}

func isInOrAuxPrefixed(name string) bool {
	kind, scope, _, ok := parseSlotName(name)
	if !ok {
		return false
	}
	return scope == ScopeFinal && (kind == KindIn || kind == KindAux)
}

// placeholderRe matches a %(NAME)s style named placeholder, the printf-style
// keyed substitution spec.md §9 calls for.
var placeholderRe = regexp.MustCompile(`%\(([A-Za-z_][A-Za-z0-9_]*)\)s`)

// buildArgv renders argvTemplate against filenames, substituting every
// %(NAME)s placeholder. A placeholder with no entry in filenames is a spec
// error naming the offending argv element and the missing key, exactly as
// spec.md §4.2 requires.
func buildArgv(argvTemplate []string, filenames map[string]string) ([]string, error) {
	out := make([]string, len(argvTemplate))
	for i, field := range argvTemplate {
		rendered, missing := substitute(field, filenames)
		if missing != "" {
			return nil, fmt.Errorf("%w: call = %v: argument %q: value not specified for path = %s", ErrSpec, argvTemplate, field, missing)
		}
		out[i] = rendered
	}
	return out, nil
}

// substitute replaces every placeholder in field using filenames. If a
// placeholder name has no entry, missing is set to the first such name and
// the original text is left in place so the caller can report it.
func substitute(field string, filenames map[string]string) (rendered string, missing string) {
	rendered = placeholderRe.ReplaceAllStringFunc(field, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		value, ok := filenames[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return match
		}
		return value
	})
	return rendered, missing
}
