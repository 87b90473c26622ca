package cpu65816

import (
	"testing"

	"snescore/internal/debug"
)

type testBus struct {
	mem map[uint32]uint8
	dbg *debug.Debugger
}

func newTestBus() *testBus {
	return &testBus{mem: make(map[uint32]uint8), dbg: debug.New()}
}

func (b *testBus) addr(bank uint8, offset uint16) uint32 {
	return uint32(bank)<<16 | uint32(offset)
}

func (b *testBus) Read(bank uint8, offset uint16) uint8 {
	return b.mem[b.addr(bank, offset)]
}

func (b *testBus) Write(bank uint8, offset uint16, value uint8) {
	b.mem[b.addr(bank, offset)] = value
}

func (b *testBus) Debugger() *debug.Debugger { return b.dbg }

func (b *testBus) loadAt(bank uint8, offset uint16, bytes ...uint8) {
	for i, v := range bytes {
		b.Write(bank, offset+uint16(i), v)
	}
}

func (b *testBus) setResetVector(pc uint16) {
	b.Write(0, VectorResetEmu, uint8(pc))
	b.Write(0, VectorResetEmu+1, uint8(pc>>8))
}

func newResetCPU(bus *testBus) *CPU {
	c := New(bus)
	c.Reset()
	return c
}

func TestReset_ShouldEnterEmulationModeWithStackForced(t *testing.T) {
	bus := newTestBus()
	bus.setResetVector(0x8000)
	c := newResetCPU(bus)

	if !c.E {
		t.Fatal("expected emulation mode after reset")
	}
	if !c.flag(FlagM) || !c.flag(FlagX) {
		t.Fatal("expected M and X set after reset")
	}
	if c.S != 0x01FD {
		t.Errorf("S = %04X, want 01FD", c.S)
	}
	if c.PC != 0x8000 {
		t.Errorf("PC = %04X, want 8000", c.PC)
	}
}

func TestStep_LDAImmediate_ShouldLoad8BitValueAndSetFlags(t *testing.T) {
	bus := newTestBus()
	bus.setResetVector(0x8000)
	bus.loadAt(0, 0x8000, 0xA9, 0x00) // LDA #$00
	c := newResetCPU(bus)

	c.Step()

	if c.getA() != 0 {
		t.Errorf("A = %02X, want 00", c.getA())
	}
	if !c.flag(FlagZ) {
		t.Error("expected Z set for zero load")
	}
	if c.flag(FlagN) {
		t.Error("expected N clear")
	}
}

func TestStep_LDAImmediate16Bit_ShouldRespectMFlagWidth(t *testing.T) {
	bus := newTestBus()
	bus.setResetVector(0x8000)
	// XCE to native, REP #$20 to widen A, LDA #$1234
	bus.loadAt(0, 0x8000, 0x18, 0xFB, 0xC2, 0x20, 0xA9, 0x34, 0x12)
	c := newResetCPU(bus)

	c.Step() // CLC
	c.Step() // XCE -> native mode
	c.Step() // REP #$20 -> clear M
	c.Step() // LDA #$1234

	if c.getA() != 0x1234 {
		t.Errorf("A = %04X, want 1234", c.getA())
	}
}

func TestStep_ADC_ShouldSetCarryAndOverflowOn8BitOverflow(t *testing.T) {
	bus := newTestBus()
	bus.setResetVector(0x8000)
	bus.loadAt(0, 0x8000, 0xA9, 0x7F, 0x18, 0x69, 0x01) // LDA #$7F; CLC; ADC #$01
	c := newResetCPU(bus)

	c.Step()
	c.Step()
	c.Step()

	if c.getA() != 0x80 {
		t.Errorf("A = %02X, want 80", c.getA())
	}
	if !c.flag(FlagV) {
		t.Error("expected overflow flag set (127+1 signed overflow)")
	}
	if c.flag(FlagC) {
		t.Error("expected carry clear")
	}
}

func TestBranch_ShouldAddExtraCycleWhenTaken(t *testing.T) {
	bus := newTestBus()
	bus.setResetVector(0x8000)
	bus.loadAt(0, 0x8000, 0x38, 0xB0, 0x02) // SEC; BCS +2
	c := newResetCPU(bus)

	c.Step() // SEC
	r := c.Step()

	if r.Cycles < 3 {
		t.Errorf("Cycles = %d, want >= 3 for taken branch", r.Cycles)
	}
	if c.PC != 0x8005 {
		t.Errorf("PC = %04X, want 8005", c.PC)
	}
}

func TestPHA_ShouldDecrementSByOneWhenAccumulatorIs8Bit(t *testing.T) {
	bus := newTestBus()
	bus.setResetVector(0x8000)
	bus.loadAt(0, 0x8000, 0x18, 0xFB, 0x48) // CLC; XCE; PHA (8-bit A: M stays set from reset after XCE)
	c := newResetCPU(bus)
	c.Step() // CLC
	c.Step() // XCE -> native, M/X unaffected by leaving emulation (still set from reset)

	sBefore := c.S
	c.Step() // PHA (8-bit since M still set)
	if c.S != sBefore-1 {
		t.Errorf("S = %04X, want %04X after 8-bit PHA", c.S, sBefore-1)
	}
}

func TestNMI_ShouldLatchOnFallingEdgeAndServiceAfterInstruction(t *testing.T) {
	bus := newTestBus()
	bus.setResetVector(0x8000)
	bus.loadAt(0, 0x8000, 0xEA) // NOP
	bus.Write(0, VectorNMIEmu, 0x00)
	bus.Write(0, VectorNMIEmu+1, 0x90)
	c := newResetCPU(bus)

	c.NMI(true)
	c.NMI(false) // falling edge latches nmiPending

	c.Step()

	if c.PC != 0x9000 {
		t.Errorf("PC = %04X, want 9000 after NMI vector load", c.PC)
	}
	if !c.flag(FlagI) {
		t.Error("expected I flag set after interrupt entry")
	}
}

func TestIRQ_ShouldBeMaskedByIFlag(t *testing.T) {
	bus := newTestBus()
	bus.setResetVector(0x8000)
	bus.loadAt(0, 0x8000, 0xEA) // NOP, I flag set by reset
	bus.Write(0, VectorIRQEmu, 0x00)
	bus.Write(0, VectorIRQEmu+1, 0x90)
	c := newResetCPU(bus)

	c.IRQ(true)
	c.Step()

	if c.PC == 0x9000 {
		t.Error("expected IRQ to be masked by I flag set at reset")
	}
}

func TestXCE_ShouldForceMAndXWhenEnteringEmulation(t *testing.T) {
	bus := newTestBus()
	bus.setResetVector(0x8000)
	bus.loadAt(0, 0x8000, 0x18, 0xFB, 0xC2, 0x30, 0x38, 0xFB) // CLC;XCE(native);REP#$30;SEC;XCE(emulation)
	c := newResetCPU(bus)

	c.Step() // CLC
	c.Step() // XCE -> native
	c.Step() // REP #$30 clear M and X
	if c.flag(FlagM) || c.flag(FlagX) {
		t.Fatal("expected M/X clear after REP #$30 in native mode")
	}
	c.Step() // SEC
	c.Step() // XCE -> emulation

	if !c.flag(FlagM) || !c.flag(FlagX) {
		t.Error("expected M and X forced set when entering emulation mode")
	}
	if c.S&0xFF00 != 0x0100 {
		t.Errorf("S = %04X, want forced high byte 01", c.S)
	}
}

func TestWAI_ShouldStallUntilInterruptPending(t *testing.T) {
	bus := newTestBus()
	bus.setResetVector(0x8000)
	bus.loadAt(0, 0x8000, 0xCB) // WAI
	c := newResetCPU(bus)

	c.Step() // enters waiting state

	r := c.Step()
	if r.Outcome != Normal {
		t.Fatalf("expected WAI to stay idle without a pending interrupt")
	}
	if c.state != stateWaiting {
		t.Fatal("expected CPU to remain in waiting state")
	}

	c.NMI(true)
	c.NMI(false)
	c.Step()
	if c.state == stateWaiting {
		t.Error("expected WAI to resume once NMI was pending")
	}
}

func TestMVN_ShouldCopyBlockAndUpdateRegisters(t *testing.T) {
	bus := newTestBus()
	bus.setResetVector(0x8000)
	bus.loadAt(0, 0x8000, 0x18, 0xFB, 0xC2, 0x30) // CLC; XCE native; REP #$30 (16-bit A/X/Y)
	bus.loadAt(0, 0x8004, 0x54, 0x01, 0x00)       // MVN dst=01 src=00
	bus.loadAt(0, 0x1000, 0xAA, 0xBB, 0xCC)
	c := newResetCPU(bus)
	c.Step()
	c.Step()
	c.Step()

	c.X = 0x1000
	c.Y = 0x2000
	c.C = 2 // copy 3 bytes (count - 1)

	c.Step() // MVN

	if bus.Read(1, 0x2000) != 0xAA || bus.Read(1, 0x2002) != 0xCC {
		t.Error("expected MVN to copy bytes into destination bank")
	}
	if c.C != 0xFFFF {
		t.Errorf("C = %04X, want FFFF after block move completes", c.C)
	}
}

func TestDisassemble_ShouldRenderImmediateAndAbsoluteModes(t *testing.T) {
	bus := newTestBus()
	bus.setResetVector(0x8000)
	bus.loadAt(0, 0x8000, 0xA9, 0x42, 0xAD, 0x00, 0x20)
	c := newResetCPU(bus)

	if got := c.Disassemble(0, 0x8000); got != "LDA #$42" {
		t.Errorf("Disassemble = %q, want %q", got, "LDA #$42")
	}
	if got := c.Disassemble(0, 0x8002); got != "LDA $2000" {
		t.Errorf("Disassemble = %q, want %q", got, "LDA $2000")
	}
}
