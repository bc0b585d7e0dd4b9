package atomiccmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

// streamValue looks up the value bound to a reserved stream, preferring the
// final-scope form over the temp-scope form (the validator has already
// rejected both being present at once). The returned name is whichever of
// the two slot names was actually bound, for use as a resolveFilenames key.
func (d *Descriptor) streamValue(kind Kind, suffix string) (SlotValue, string) {
	final, temp := streamSlotNames(kind, suffix)
	if v, ok := d.slots[final]; ok {
		return v, final
	}
	if v, ok := d.slots[temp]; ok {
		return v, temp
	}
	return nil, ""
}

// Run is the Process Supervisor's entry point (spec.md §4.4). It launches
// the child in its own process group, wires the three standard streams,
// and registers the live process in the killlist. Run blocks only for the
// spawn syscall; use Join to wait for the child's lifetime.
func (d *Descriptor) Run(tempRoot string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.hasRun() {
		return fmt.Errorf("%w: run called on a command that has already run", ErrUsage)
	}

	d.tempRoot = tempRoot

	// Pipe files are opened relative to the caller's cwd, before any chdir,
	// so filenames here are always resolved against the raw temp root.
	ioFilenames := resolveFilenames(d.slots, tempRoot)

	stdin, stdinCloser, err := d.openStdin(ioFilenames)
	if err != nil {
		return fmt.Errorf("%w: opening stdin: %v", ErrIO, err)
	}
	stdout, stdoutCloser, wantPipe, err := d.openStdout(ioFilenames)
	if err != nil {
		closeAll(stdinCloser)
		return fmt.Errorf("%w: opening stdout: %v", ErrIO, err)
	}
	stderr, stderrCloser, err := d.openStderr(ioFilenames)
	if err != nil {
		closeAll(stdinCloser, stdoutCloser)
		return fmt.Errorf("%w: opening stderr: %v", ErrIO, err)
	}

	root := ""
	if !d.setCwd {
		abs, err := filepath.Abs(tempRoot)
		if err != nil {
			closeAll(stdinCloser, stdoutCloser, stderrCloser)
			return fmt.Errorf("%w: resolving temp root: %v", ErrIO, err)
		}
		root = abs
	}
	argv, err := buildArgv(d.argv, resolveFilenames(d.slots, root))
	if err != nil {
		closeAll(stdinCloser, stdoutCloser, stderrCloser)
		return err
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = stdin
	cmd.Stderr = stderr
	if !wantPipe {
		cmd.Stdout = stdout
	}
	if d.setCwd {
		cmd.Dir = tempRoot
	}
	// A new process group makes the child its own leader, so a single
	// SIGTERM to -pid reaches every descendant it spawns (spec.md §4.4.1).
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdoutPipe io.ReadCloser
	if wantPipe {
		stdoutPipe, err = cmd.StdoutPipe()
		if err != nil {
			closeAll(stdinCloser, stdoutCloser, stderrCloser)
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}

	if err := cmd.Start(); err != nil {
		closeAll(stdinCloser, stdoutCloser, stderrCloser)
		return fmt.Errorf("%w: %v", ErrExec, err)
	}

	d.cmd = cmd
	d.state = StateRunning
	d.stdoutPipe = stdoutPipe
	d.ownedHandles = appendNonNil(d.ownedHandles, stdinCloser, stdoutCloser, stderrCloser)
	d.done = make(chan struct{})
	go func() {
		d.waitErr = cmd.Wait()
		close(d.done)
	}()

	globalKilllist.add(cmd.Process)
	return nil
}

func (d *Descriptor) openStdin(filenames map[string]string) (io.Reader, io.Closer, error) {
	value, name := d.streamValue(KindIn, suffixStdin)
	switch v := value.(type) {
	case nil:
		return os.Stdin, nil, nil
	case Path:
		f, err := os.Open(filenames[name])
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	case Upstream:
		if v.Cmd.stdoutPipe == nil {
			return nil, nil, errors.New("upstream descriptor has no live PIPE stdout to read from; run the producer first")
		}
		return v.Cmd.stdoutPipe, nil, nil
	default:
		return nil, nil, fmt.Errorf("unexpected stdin slot value %T", v)
	}
}

func (d *Descriptor) openStdout(filenames map[string]string) (io.Writer, io.Closer, bool, error) {
	value, name := d.streamValue(KindOut, suffixStdout)
	switch v := value.(type) {
	case pipeSentinel:
		return nil, nil, true, nil
	case Path:
		f, err := os.Create(filenames[name])
		if err != nil {
			return nil, nil, false, err
		}
		return f, f, false, nil
	default:
		return nil, nil, false, fmt.Errorf("unexpected stdout slot value %T", v)
	}
}

func (d *Descriptor) openStderr(filenames map[string]string) (io.Writer, io.Closer, error) {
	value, name := d.streamValue(KindOut, suffixStderr)
	_, ok := value.(Path)
	if !ok {
		return nil, nil, fmt.Errorf("unexpected stderr slot value %T", value)
	}
	f, err := os.Create(filenames[name])
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func closeAll(closers ...io.Closer) {
	for _, c := range closers {
		if c != nil {
			_ = c.Close()
		}
	}
}

func appendNonNil(list []io.Closer, items ...io.Closer) []io.Closer {
	for _, item := range items {
		if item != nil {
			list = append(list, item)
		}
	}
	return list
}

// readyLocked is Ready's logic for callers that already hold d.mu.
func (d *Descriptor) readyLocked() bool {
	if d.done == nil {
		return false
	}
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// Ready reports, without blocking, whether the child has terminated.
func (d *Descriptor) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readyLocked()
}

// Join blocks until the child exits, closes every stdio handle the
// supervisor opened (handles borrowed from an upstream descriptor are not
// owned here), and returns the exit code wrapped in a single-element slice
// — the sequence shape spec.md §4.4 calls for so a scheduler can treat a
// single Descriptor polymorphically with a set-of-commands abstraction.
func (d *Descriptor) Join() ([]int, error) {
	d.mu.Lock()
	done := d.done
	cmd := d.cmd
	d.mu.Unlock()

	if done == nil {
		return nil, fmt.Errorf("%w: join called before run", ErrUsage)
	}
	<-done

	d.mu.Lock()
	defer d.mu.Unlock()

	code := exitCodeFromWaitErr(cmd, d.waitErr)
	closeAll(d.ownedHandles...)
	d.ownedHandles = nil
	d.state = StateCompleted
	d.joined = true
	return []int{code}, nil
}

// Wait is the scalar convenience form of Join, unsuitable for contexts that
// treat a Descriptor polymorphically with a set-of-commands abstraction.
func (d *Descriptor) Wait() (int, error) {
	codes, err := d.Join()
	if err != nil {
		return 0, err
	}
	return codes[0], nil
}

// exitCodeFromWaitErr turns the result of cmd.Wait into the exit code
// convention this package uses throughout: a non-negative value is a real
// exit status, a negative value -N means the process died from signal N.
func exitCodeFromWaitErr(cmd *exec.Cmd, waitErr error) int {
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return -int(ws.Signal())
		}
		return exitErr.ExitCode()
	}
	return -1
}

// Terminate sends SIGTERM to the child if it is still running. It is
// idempotent and best-effort: signalling an already-dead process is
// swallowed, matching the Python source, except that — unlike that source
// — the process handle is retained, so a subsequent Join still reaps the
// real, signal-derived exit status (spec.md §9 Open Questions).
func (d *Descriptor) Terminate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cmd == nil || d.cmd.Process == nil {
		return
	}
	if d.readyLocked() {
		return
	}
	_ = d.cmd.Process.Signal(syscall.SIGTERM)
}

// Stdout returns the live readable end of the child's stdout if the
// declared stdout was PIPE and the child is still running; otherwise nil.
func (d *Descriptor) Stdout() io.ReadCloser {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stdoutPipe == nil || d.readyLocked() {
		return nil
	}
	return d.stdoutPipe
}
