package atomiccmd

import "testing"

func TestParseSlotName(t *testing.T) {
	cases := []struct {
		name       string
		wantKind   Kind
		wantScope  Scope
		wantSuffix string
		wantOK     bool
	}{
		{"IN_BAM", KindIn, ScopeFinal, "BAM", true},
		{"TEMP_IN_BAM", KindIn, ScopeTemp, "BAM", true},
		{"OUT_LOG", KindOut, ScopeFinal, "LOG", true},
		{"TEMP_OUT_LOG", KindOut, ScopeTemp, "LOG", true},
		{"EXEC_SAMTOOLS", KindExec, ScopeFinal, "SAMTOOLS", true},
		{"AUX_REF", KindAux, ScopeFinal, "REF", true},
		{"CHECK_VERSION", KindCheck, ScopeFinal, "VERSION", true},
		{"BOGUS_X", 0, 0, "", false},
		{"IN_", 0, 0, "", false},
		{"TEMP_OUT_", 0, 0, "", false},
		{"", 0, 0, "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			kind, scope, suffix, ok := parseSlotName(c.name)
			if ok != c.wantOK {
				t.Fatalf("ok = %v, want %v", ok, c.wantOK)
			}
			if !ok {
				return
			}
			if kind != c.wantKind || scope != c.wantScope || suffix != c.wantSuffix {
				t.Fatalf("got (%v, %v, %q), want (%v, %v, %q)", kind, scope, suffix, c.wantKind, c.wantScope, c.wantSuffix)
			}
		})
	}
}

func TestParseSlotName_TempPrefixBeatsShortPrefix(t *testing.T) {
	// TEMP_IN_ must not be parsed as IN_ with a literal "TEMP_" in the suffix.
	kind, scope, suffix, ok := parseSlotName("TEMP_IN_STDIN")
	if !ok || kind != KindIn || scope != ScopeTemp || suffix != "STDIN" {
		t.Fatalf("got (%v, %v, %q, %v)", kind, scope, suffix, ok)
	}
}

func TestStreamSlotNames(t *testing.T) {
	final, temp := streamSlotNames(KindOut, suffixStdout)
	if final != "OUT_STDOUT" || temp != "TEMP_OUT_STDOUT" {
		t.Fatalf("got (%q, %q)", final, temp)
	}

	final, temp = streamSlotNames(KindAux, suffixStdin)
	if final != "" || temp != "" {
		t.Fatalf("expected empty names for a kind with no reserved stream, got (%q, %q)", final, temp)
	}
}
