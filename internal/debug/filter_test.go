package debug

import "testing"

func TestCompile_ShouldMatchSingleKindSelector(t *testing.T) {
	f, err := Compile("kind = cpu_instruction")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	if !f.Match(Event{Kind: KindCPUInstruction}) {
		t.Error("expected match for cpu_instruction event")
	}
	if f.Match(Event{Kind: KindMemoryRead}) {
		t.Error("expected no match for memory_read event")
	}
}

func TestCompile_ShouldCombineTermsWithAndOr(t *testing.T) {
	f, err := Compile("kind = memory_write AND addr in 2100-213F OR component = apu")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	cases := []struct {
		name string
		ev   Event
		want bool
	}{
		{"ppu register write", Event{Kind: KindMemoryWrite, Address: 0x2105}, true},
		{"write outside ppu range", Event{Kind: KindMemoryWrite, Address: 0x4200}, false},
		{"apu event of any kind", Event{Kind: KindAnomaly, Component: ComponentAPU}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Match(tc.ev); got != tc.want {
				t.Errorf("Match(%+v) = %v, want %v", tc.ev, got, tc.want)
			}
		})
	}
}

func TestCompile_ShouldRejectUnknownKey(t *testing.T) {
	if _, err := Compile("bogus = 1"); err == nil {
		t.Fatal("expected error for unknown filter key")
	}
}

func TestCompile_ShouldRejectMalformedRange(t *testing.T) {
	if _, err := Compile("addr in 100"); err == nil {
		t.Fatal("expected error for malformed range")
	}
}

func TestDebugger_EmitShouldLatchBreakOnMatch(t *testing.T) {
	d := New()
	f, err := Compile("kind = cpu_instruction AND addr = 8000")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	d.SetFilter(f)

	if _, matched := d.Emit(Event{Kind: KindCPUInstruction, Address: 0x7FFF}); matched {
		t.Fatal("unexpected match")
	}
	if _, pending := d.TakePending(); pending {
		t.Fatal("unexpected pending break before a match")
	}

	if _, matched := d.Emit(Event{Kind: KindCPUInstruction, Address: 0x8000}); !matched {
		t.Fatal("expected match")
	}
	b, pending := d.TakePending()
	if !pending {
		t.Fatal("expected a pending break")
	}
	if b.Reason != ReasonInstructionAt {
		t.Errorf("Reason = %v, want ReasonInstructionAt", b.Reason)
	}

	if _, pending := d.TakePending(); pending {
		t.Fatal("break should be cleared after TakePending")
	}
}

func TestDebugger_ManualHaltTakesPriority(t *testing.T) {
	d := New()
	d.ManualHalt()
	b, pending := d.TakePending()
	if !pending || b.Reason != ReasonManualHalt {
		t.Fatalf("expected ReasonManualHalt, got %+v pending=%v", b, pending)
	}
}

func TestDebugger_LoggingShouldBoundedlyRetainEvents(t *testing.T) {
	d := New()
	d.maxLog = 3
	d.EnableLogging(true)
	for i := 0; i < 5; i++ {
		d.Emit(Event{Kind: KindMemoryRead, Address: uint32(i)})
	}
	log := d.Log()
	if len(log) != 3 {
		t.Fatalf("len(log) = %d, want 3", len(log))
	}
	if log[0].Address != 2 {
		t.Errorf("oldest retained event Address = %d, want 2", log[0].Address)
	}
}
