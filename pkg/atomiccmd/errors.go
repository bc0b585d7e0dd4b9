package atomiccmd

import "errors"

// Error taxonomy (spec.md §7). All four are sentinels: wrap one with
// fmt.Errorf("...: %w", ErrX) and callers can test with errors.Is.
var (
	// ErrSpec covers prefix/grammar violations, the temp-basename rule,
	// duplicate output basenames, duplicate stream-pipe forms, missing
	// placeholders, and empty argv. Always raised at construction.
	ErrSpec = errors.New("atomiccmd: spec error")

	// ErrUsage covers calling Run on an already-run descriptor, Commit
	// before Join, Commit with a mismatched temp root, and Commit with
	// missing expected outputs.
	ErrUsage = errors.New("atomiccmd: usage error")

	// ErrExec covers spawn failures: executable not found, permission
	// denied. The descriptor remains Constructed.
	ErrExec = errors.New("atomiccmd: exec error")

	// ErrIO covers failures opening stdio redirection targets, or moving
	// outputs at commit. Partial promotions are not rolled back.
	ErrIO = errors.New("atomiccmd: io error")
)
