package atomiccmd

import (
	"errors"
	"strings"
	"testing"
)

func mustContain(t *testing.T, got string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(got, sub) {
			t.Fatalf("expected %q to contain %q", got, sub)
		}
	}
}

func TestNew_EmptyArgvIsSpecError(t *testing.T) {
	_, err := New(nil, false, nil)
	if !errors.Is(err, ErrSpec) {
		t.Fatalf("got %v, want ErrSpec", err)
	}

	_, err = New([]string{""}, false, nil)
	if !errors.Is(err, ErrSpec) {
		t.Fatalf("got %v, want ErrSpec", err)
	}
}

func TestNew_BogusSlotPrefixIsSpecError(t *testing.T) {
	_, err := New([]string{"tool"}, false, map[string]SlotValue{
		"NOT_A_PREFIX": Path("x"),
	})
	if !errors.Is(err, ErrSpec) {
		t.Fatalf("got %v, want ErrSpec", err)
	}
	mustContain(t, err.Error(), "NOT_A_PREFIX")
}

func TestNew_NilSlotValuesAreDroppedSilently(t *testing.T) {
	d, err := New([]string{"tool"}, false, map[string]SlotValue{
		"AUX_REF": nil,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.AuxiliaryFiles().Len() != 0 {
		t.Fatalf("nil-valued AUX_ slot should not appear in AuxiliaryFiles")
	}
}

func TestNew_DuplicateOutputBasenameIsSpecError(t *testing.T) {
	_, err := New([]string{"tool"}, false, map[string]SlotValue{
		"OUT_A": Path("/x/result.txt"),
		"OUT_B": Path("/y/result.txt"),
	})
	if !errors.Is(err, ErrSpec) {
		t.Fatalf("got %v, want ErrSpec", err)
	}
	mustContain(t, err.Error(), "result.txt", "OUT_A", "OUT_B")
}

func TestNew_TempBasenameRuleRejectsDirectoryComponent(t *testing.T) {
	_, err := New([]string{"tool"}, false, map[string]SlotValue{
		"TEMP_OUT_LOG": Path("subdir/run.log"),
	})
	if !errors.Is(err, ErrSpec) {
		t.Fatalf("got %v, want ErrSpec", err)
	}
	mustContain(t, err.Error(), "TEMP_OUT_LOG", "directory component")
}

func TestNew_StreamUniquenessRejectsBothForms(t *testing.T) {
	_, err := New([]string{"tool"}, false, map[string]SlotValue{
		"IN_STDIN":      Path("/a/in"),
		"TEMP_IN_STDIN": Path("in"),
	})
	if !errors.Is(err, ErrSpec) {
		t.Fatalf("got %v, want ErrSpec", err)
	}
}

func TestNew_StdoutAcceptsPathOrPipeOnly(t *testing.T) {
	_, err := New([]string{"tool"}, false, map[string]SlotValue{
		"OUT_STDOUT": Upstream{},
	})
	if !errors.Is(err, ErrSpec) {
		t.Fatalf("got %v, want ErrSpec", err)
	}
}

func TestNew_FillsDefaultStdoutStderr(t *testing.T) {
	d, err := New([]string{"/bin/echo", "hi"}, false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.OptionalTempFiles().Len() != 2 {
		t.Fatalf("expected both default stdout and stderr to be synthesised as temp files, got %d", d.OptionalTempFiles().Len())
	}
}

func TestNew_ExplicitStdoutSuppressesDefault(t *testing.T) {
	d, err := New([]string{"/bin/echo", "hi"}, false, map[string]SlotValue{
		"OUT_STDOUT": Path("/final/out.txt"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.OutputFiles().Contains("/final/out.txt") {
		t.Fatalf("expected OutputFiles to contain the declared stdout destination")
	}
	// Only the stderr default remains synthesised; stdout was explicit.
	if d.OptionalTempFiles().Len() != 1 {
		t.Fatalf("expected exactly one synthesised temp stream (stderr), got %d", d.OptionalTempFiles().Len())
	}
}

func TestNew_ConstructionTimeDryRunCatchesMissingPlaceholder(t *testing.T) {
	_, err := New([]string{"tool", "%(OUT_MISSING)s"}, false, nil)
	if !errors.Is(err, ErrSpec) {
		t.Fatalf("got %v, want ErrSpec", err)
	}
	mustContain(t, err.Error(), "OUT_MISSING")
}

func TestNew_ArgvZeroIsImplicitlyExecutable(t *testing.T) {
	d, err := New([]string{"/bin/echo", "hi"}, false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Executables().Contains("/bin/echo") {
		t.Fatal("argv[0] should be in the Executables set even without an EXEC_ slot")
	}
}

func TestNew_CheckSlotRequiresCheckFunc(t *testing.T) {
	_, err := New([]string{"tool"}, false, map[string]SlotValue{
		"CHECK_VERSION": Path("not-a-func"),
	})
	if !errors.Is(err, ErrSpec) {
		t.Fatalf("got %v, want ErrSpec", err)
	}
}

func TestDescriptor_RequirementsAreReturnedNotInvoked(t *testing.T) {
	called := false
	d, err := New([]string{"tool"}, false, map[string]SlotValue{
		"CHECK_VERSION": CheckFunc(func() error { called = true; return nil }),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reqs := d.Requirements()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 requirement, got %d", len(reqs))
	}
	if called {
		t.Fatal("the core must never invoke a CheckFunc itself")
	}
	if err := reqs[0](); err != nil || !called {
		t.Fatal("invoking the returned CheckFunc should run the caller's check")
	}
}

func TestDescriptor_StateTransitionsStartAtConstructed(t *testing.T) {
	d, err := New([]string{"/bin/echo"}, false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.State() != StateConstructed {
		t.Fatalf("got %v, want StateConstructed", d.State())
	}
	if d.hasRun() {
		t.Fatal("a freshly constructed descriptor must not report hasRun")
	}
}

func TestDescriptor_ArgvReturnsACopy(t *testing.T) {
	d, err := New([]string{"/bin/echo", "hi"}, false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	argv := d.Argv()
	argv[0] = "mutated"
	if d.Argv()[0] != "/bin/echo" {
		t.Fatal("mutating the slice returned by Argv must not affect the descriptor")
	}
}
