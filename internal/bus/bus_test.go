package bus

import (
	"testing"

	"snescore/internal/cartridge"
	"snescore/internal/debug"
)

func buildTestCart(t *testing.T) *cartridge.Cartridge {
	t.Helper()
	data := make([]byte, 0x10000)
	const loHeaderOffset = 0x7FC0
	copy(data[loHeaderOffset:], "TEST")
	data[loHeaderOffset+0x15] = 0x20
	data[loHeaderOffset+0x17] = 0x0B
	data[loHeaderOffset+0x18] = 0x03
	cart, err := cartridge.Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return cart
}

func newTestBus(t *testing.T) *Bus {
	return New(buildTestCart(t), debug.New())
}

func TestReadWrite_WRAMMirror_ShouldShareStorageWithBank7E(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x00, 0x0042, 0x99)
	if got := b.Read(0x7E, 0x0042); got != 0x99 {
		t.Errorf("WRAM[0042] via bank 7E = %02X, want 99", got)
	}
}

func TestReadWrite_PPURegister_ShouldDispatchToPPU(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x00, 0x2115, 0x00) // VMAIN
	b.Write(0x00, 0x2116, 0x34) // VMADDL
	b.Write(0x00, 0x2117, 0x12) // VMADDH
	b.Write(0x00, 0x2118, 0xAD) // VMDATAL
	b.Write(0x00, 0x2119, 0xDE) // VMDATAH

	if b.PPU == nil {
		t.Fatal("expected PPU to be wired")
	}
	// VMAIN=0 increments after the low byte, so the high byte lands one word on.
	if got := b.PPU.VRAMWord(0x1234); got != 0x00AD {
		t.Errorf("VRAM[0x1234] = %04X, want 00AD", got)
	}
	if got := b.PPU.VRAMWord(0x1235); got != 0xDE00 {
		t.Errorf("VRAM[0x1235] = %04X, want DE00", got)
	}
}

func TestMultiply_ShouldComputeUnsigned8x8ProductInRDMPY(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x00, 0x4202, 12) // WRMPYA
	b.Write(0x00, 0x4203, 10) // WRMPYB

	lo := b.Read(0x00, 0x4216)
	hi := b.Read(0x00, 0x4217)
	got := uint16(lo) | uint16(hi)<<8
	if got != 120 {
		t.Errorf("RDMPY = %d, want 120", got)
	}
}

func TestDivide_ShouldComputeQuotientAndRemainder(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x00, 0x4204, 100) // WRDIVL
	b.Write(0x00, 0x4205, 0)   // WRDIVH
	b.Write(0x00, 0x4206, 7)   // WRDIVB

	quotLo := b.Read(0x00, 0x4214)
	quotHi := b.Read(0x00, 0x4215)
	remLo := b.Read(0x00, 0x4216)
	remHi := b.Read(0x00, 0x4217)

	quot := uint16(quotLo) | uint16(quotHi)<<8
	rem := uint16(remLo) | uint16(remHi)<<8
	if quot != 14 || rem != 2 {
		t.Errorf("100/7 = %d rem %d, want 14 rem 2", quot, rem)
	}
}

func TestGeneralDMA_ShouldCopyWRAMToVRAMAndBack(t *testing.T) {
	b := newTestBus(t)

	for i := 0; i < 0x100; i++ {
		b.Write(0x00, uint16(i), uint8(i))
	}

	b.Write(0x00, 0x2115, 0x80) // VMAIN: increment on high write
	b.Write(0x00, 0x2116, 0x00)
	b.Write(0x00, 0x2117, 0x00)

	b.Write(0x00, 0x4300, 0x01) // DMAP ch0: 2 bytes, WRAM->PPU
	b.Write(0x00, 0x4301, 0x18) // B-bus = VMDATAL
	b.Write(0x00, 0x4302, 0x00) // A1TL
	b.Write(0x00, 0x4303, 0x00) // A1TH
	b.Write(0x00, 0x4304, 0x00) // A1B (bank 0)
	b.Write(0x00, 0x4305, 0x00) // DASL
	b.Write(0x00, 0x4306, 0x01) // DASH = 0x0100 bytes
	b.Write(0x00, 0x420B, 0x01) // MDMAEN ch0

	for i := 0; i < 0x80; i++ {
		if got := b.PPU.VRAMWord(uint16(i)); got&0xFF != uint16(i*2)&0xFF || got>>8 != uint16(i*2+1)&0xFF {
			t.Fatalf("vram[%d] = %04X, want low=%02X high=%02X", i, got, i*2, i*2+1)
		}
	}
}
