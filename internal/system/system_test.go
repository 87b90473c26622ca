package system

import "testing"

func buildTestROM() []byte {
	data := make([]byte, 0x10000)
	const loHeaderOffset = 0x7FC0
	copy(data[loHeaderOffset:], "TEST")
	data[loHeaderOffset+0x15] = 0x20
	data[loHeaderOffset+0x17] = 0x0B
	data[loHeaderOffset+0x18] = 0x03

	// Reset vector points at bank 0, 0x8000: LDA #$42 then an infinite BRA loop.
	data[0x0000] = 0xA9 // LDA #imm
	data[0x0001] = 0x42
	data[0x0002] = 0x80 // BRA -2
	data[0x0003] = 0xFE

	vectorTable := loHeaderOffset + 0x20
	data[vectorTable+0x1C] = 0x00
	data[vectorTable+0x1D] = 0x80
	return data
}

func TestNew_ShouldLoadCartridgeAndResetToResetVector(t *testing.T) {
	s, err := New(buildTestROM())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.CPU.PC != 0x8000 {
		t.Errorf("PC = %04X, want 8000", s.CPU.PC)
	}
}

func TestExecuteInstruction_ShouldRunOneInstructionAtATime(t *testing.T) {
	s, err := New(buildTestROM())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s.ExecuteInstruction()
	if s.CPU.PC != 0x8002 {
		t.Errorf("PC after one instruction = %04X, want 8002", s.CPU.PC)
	}
}

func TestExecuteCycles_ShouldStopAtOrAfterTheRequestedBound(t *testing.T) {
	s, err := New(buildTestROM())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s.ExecuteCycles(4)
	if s.Bus.PPU.Dot() == 0 && s.Bus.PPU.Scanline() == 0 && s.Bus.PPU.Frame() == 0 {
		t.Error("expected some PPU advance after spending master cycles")
	}
}
