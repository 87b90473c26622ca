package ppu

import "testing"

func TestWriteRegister_VMADDAndData_ShouldWriteWordIntoVRAM(t *testing.T) {
	p := New(nil)
	p.Reset()

	p.WriteRegister(regVMAIN, 0x80) // increment after the high byte
	p.WriteRegister(regVMADDL, 0x00)
	p.WriteRegister(regVMADDH, 0x10)
	p.WriteRegister(regVMDATAL, 0xAD)
	p.WriteRegister(regVMDATAH, 0xDE)

	if got := p.vram[0x1000]; got != 0xDEAD {
		t.Errorf("vram[0x1000] = %04X, want DEAD", got)
	}
}

func TestReadRegister_VRAMPrefetch_ShouldReturnPreIncrementLatch(t *testing.T) {
	p := New(nil)
	p.Reset()
	p.vram[0x0000] = 0x1234

	p.WriteRegister(regVMAIN, 0x80) // increment after the high byte
	p.WriteRegister(regVMADDL, 0x00)
	p.WriteRegister(regVMADDH, 0x00)

	lo := p.ReadRegister(regRDVRAML)
	hi := p.ReadRegister(regRDVRAMH)

	if lo != 0x34 || hi != 0x12 {
		t.Errorf("got lo=%02X hi=%02X, want 34 12", lo, hi)
	}
}

func TestWriteRegister_CGDATA_ShouldLatchLowThenCommitOnHigh(t *testing.T) {
	p := New(nil)
	p.Reset()

	p.WriteRegister(regCGADD, 0x05)
	p.WriteRegister(regCGDATA, 0xFF)
	p.WriteRegister(regCGDATA, 0x7F)

	if p.cgram[5] != 0x7FFF {
		t.Errorf("cgram[5] = %04X, want 7FFF", p.cgram[5])
	}
}

func TestWriteRegister_OAMDATA_ShouldWriteWordPairOnSecondByte(t *testing.T) {
	p := New(nil)
	p.Reset()

	p.WriteRegister(regOAMADDL, 0x00)
	p.WriteRegister(regOAMADDH, 0x00)
	p.WriteRegister(regOAMDATA, 0x11)
	p.WriteRegister(regOAMDATA, 0x22)

	if p.oam[0] != 0x11 || p.oam[1] != 0x22 {
		t.Errorf("oam[0:2] = %02X %02X, want 11 22", p.oam[0], p.oam[1])
	}
}

func TestStep_ShouldAdvanceDotAndScanlineCounters(t *testing.T) {
	p := New(nil)
	p.Reset()

	for i := 0; i < int(dotsPerLine)+2; i++ {
		p.Step()
	}

	if p.Scanline() != 1 {
		t.Errorf("Scanline() = %d, want 1", p.Scanline())
	}
}

func TestStep_ShouldSignalNMIAtVBlankStart(t *testing.T) {
	p := New(nil)
	p.Reset()
	p.forcedBlank = false

	fired := false
	p.SetNMICallback(func() { fired = true })

	for int(p.v) != vblankStart {
		p.Step()
	}
	p.Step()

	if !fired {
		t.Error("expected NMI callback to fire at vblank start")
	}
}

func TestStep_ShouldWrapFrameAtLine262AndInvokeFrameComplete(t *testing.T) {
	p := New(nil)
	p.Reset()

	completed := 0
	p.SetFrameCompleteCallback(func() { completed++ })

	totalDots := (dotsPerLine + 1) * linesPerFrame
	for i := 0; i < totalDots; i++ {
		p.Step()
	}

	if completed != 1 {
		t.Errorf("frame complete callback fired %d times, want 1", completed)
	}
	if p.Scanline() != 0 || p.Dot() != 0 {
		t.Errorf("after one frame, v/h = %d/%d, want 0/0", p.Scanline(), p.Dot())
	}
}

func TestBGPixel_ShouldDecode2bppTileThroughPaletteLookup(t *testing.T) {
	p := New(nil)
	p.Reset()
	p.bgMode = 0
	p.bg[0].scAddr = 0
	p.bg[0].nba = 0x1000

	// Tilemap entry 0: tile 1, palette 0.
	p.vram[0] = 1

	// Tile 1 of a 2bpp tileset starts at nba + 1*8 words.
	p.vram[0x1000+8] = 0x0001 // bitplane row 0: low byte 0x01 sets rightmost pixel

	p.cgram[1] = 0x7FFF // palette 0, color 1: white-ish

	px := p.bgPixel(0, 7, 0)
	if px.colorIndex != 1 {
		t.Errorf("colorIndex = %d, want 1", px.colorIndex)
	}
}

func TestEvaluateSprites_ShouldCapAt32SpritesPerLine(t *testing.T) {
	p := New(nil)
	p.Reset()
	p.obsel = 0

	for i := 0; i < 40; i++ {
		p.oam[i*4] = 10   // Y
		p.oam[i*4+1] = 0  // tile
		p.oam[i*4+2] = 0  // attr
		p.oam[i*4+3] = uint8(i) // X
	}

	p.evaluateSprites(10)

	if !p.rangeOver {
		t.Error("expected rangeOver (STAT77 overflow) to be set beyond 32 sprites")
	}
}
