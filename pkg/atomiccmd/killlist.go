package atomiccmd

import (
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"weak"
)

// killlist is the process-wide registry of live children described in
// spec.md §4.4.1. It is deliberately package-global state: SIGTERM is
// delivered to the process, not to any one Descriptor, so the set of
// children that must be cleaned up on receipt has to be process-wide too.
//
// Entries are held via weak.Pointer so a Descriptor whose process has
// exited and been garbage-collected does not pin an entry here forever;
// runtime.AddCleanup removes the entry the moment the *os.Process backing
// it is collected, the Go analogue of Python's weakref.ref(proc, remove).
type killlistT struct {
	mu      sync.Mutex
	entries map[int]weak.Pointer[os.Process]
}

var globalKilllist = &killlistT{entries: map[int]weak.Pointer[os.Process]{}}

var installSignalHandler sync.Once

// add registers proc in the killlist. An insertion into an empty registry
// calls install, which sets up the SIGTERM handler lazily and at most once
// per process.
func (k *killlistT) add(proc *os.Process) {
	k.mu.Lock()
	if len(k.entries) == 0 {
		k.install()
	}
	k.entries[proc.Pid] = weak.Make(proc)
	k.mu.Unlock()

	runtime.AddCleanup(proc, func(pid int) {
		k.mu.Lock()
		delete(k.entries, pid)
		k.mu.Unlock()
	}, proc.Pid)
}

// install arranges for SIGTERM delivered to this process to fan out to
// every registered child's process group. Installed at most once per
// process lifetime: re-registering signal.Notify on every repopulation of
// an emptied registry would be harmless but pointless, so a sync.Once
// guards it instead of literally matching the Python re-check.
func (k *killlistT) install() {
	installSignalHandler.Do(func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM)
		go func() {
			for sig := range ch {
				k.handle(sig)
			}
		}()
	})
}

// handle is the killlist's SIGTERM handler (spec.md §4.4.1): it snapshots
// the live entries, sends SIGTERM to each child's entire process group
// (reaping grandchildren spawned by shell wrappers), then terminates the
// host process with exit status -signum.
func (k *killlistT) handle(sig os.Signal) {
	k.mu.Lock()
	snapshot := make([]weak.Pointer[os.Process], 0, len(k.entries))
	for _, wp := range k.entries {
		snapshot = append(snapshot, wp)
	}
	k.mu.Unlock()

	for _, wp := range snapshot {
		proc := wp.Value()
		if proc == nil {
			continue // collected since the snapshot was taken
		}
		_ = syscall.Kill(-proc.Pid, syscall.SIGTERM) // negative pid: whole process group
	}

	signum, _ := sig.(syscall.Signal)
	os.Exit(-int(signum))
}
