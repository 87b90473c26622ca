package savestate

import (
	"testing"

	"snescore/internal/system"
)

func buildTestROM() []byte {
	data := make([]byte, 0x10000)
	const loHeaderOffset = 0x7FC0
	copy(data[loHeaderOffset:], "TEST")
	data[loHeaderOffset+0x15] = 0x20
	data[loHeaderOffset+0x17] = 0x0B
	data[loHeaderOffset+0x18] = 0x03
	vectorTable := loHeaderOffset + 0x20
	data[vectorTable+0x1C] = 0x00
	data[vectorTable+0x1D] = 0x80
	return data
}

func TestSaveLoad_ShouldRoundTripCPURegisters(t *testing.T) {
	s, err := system.New(buildTestROM())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s.CPU.C = 0x1234
	s.CPU.X = 0xBEEF
	s.Bus.WRAM[0x10] = 0x55

	data, err := Save(s)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	fresh, err := system.New(buildTestROM())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := Load(data, fresh); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if fresh.CPU.C != 0x1234 || fresh.CPU.X != 0xBEEF {
		t.Errorf("C/X = %04X/%04X, want 1234/BEEF", fresh.CPU.C, fresh.CPU.X)
	}
	if fresh.Bus.WRAM[0x10] != 0x55 {
		t.Errorf("WRAM[0x10] = %02X, want 55", fresh.Bus.WRAM[0x10])
	}
}

func TestLoad_ShouldRejectCorruptedChecksum(t *testing.T) {
	s, err := system.New(buildTestROM())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	data, err := Save(s)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data[10] ^= 0xFF

	fresh, err := system.New(buildTestROM())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := Load(data, fresh); err == nil {
		t.Error("expected checksum mismatch error")
	}
}
