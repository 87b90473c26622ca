// Package ppu implements the SNES Picture Processing Unit: the
// register file at 0x2100-0x213F, VRAM/OAM/CGRAM storage, the
// background and sprite rendering pipeline, and the scanline/dot/frame
// state machine that drives NMI and HDMA.
package ppu

import "snescore/internal/debug"

const (
	screenWidth  = 256
	screenHeight = 224

	dotsPerLine    = 340
	linesPerFrame  = 262
	vblankStart    = 225
	hblankStartDot = 274
)

// PPU is the SNES Picture Processing Unit.
type PPU struct {
	// Register file.
	forcedBlank bool
	brightness  uint8 // INIDISP bits 0-3

	obsel       uint8
	oamaddr     uint16
	oamPriority bool // OAMADDR bit 7 of high byte: obj priority rotation
	oamLatch    uint8
	oamLatched  bool

	bgMode    uint8
	bgMode1Sw bool // BGMODE bit 3: BG3 priority in mode 1
	mosaic    uint8
	bg        [4]bgReg

	vmain      uint8
	vmaddr     uint16
	vramPrefetch uint16

	m7 mode7Reg
	mpy int32

	cgaddr     uint8
	cgLatchLow uint8
	cgHighPhase bool
	cgReadLatch uint8

	w12sel, w34sel, wobjsel uint8
	wh0, wh1, wh2, wh3      uint8
	wbglog, wobjlog         uint8

	tm, ts   uint8
	tmw, tsw uint8

	cgwsel  uint8
	cgadsub uint8
	fixedR, fixedG, fixedB uint8

	interlace  bool
	overscan   bool
	pseudoHi   bool
	extBG      bool

	hCounterLatch uint16
	vCounterLatch uint16
	latchPhase    bool
	timeOver      bool
	rangeOver     bool
	oddFrame      bool
	inVBlank      bool

	// Storage.
	vram  [0x8000]uint16
	oam   [512]uint8
	oamHi [32]uint8
	cgram [256]uint16

	// Timing.
	v, h uint32
	f    uint64

	front, back []uint32

	nmiCallback   func()
	hdmaCallback  func(scanline int)
	frameComplete func()

	dbg *debug.Debugger
}

// New creates a PPU with empty storage. Reset brings it to power-on state.
func New(dbg *debug.Debugger) *PPU {
	p := &PPU{
		front: make([]uint32, screenWidth*screenHeight),
		back:  make([]uint32, screenWidth*screenHeight),
		dbg:   dbg,
	}
	return p
}

// Reset clears all registers and storage to power-on state.
func (p *PPU) Reset() {
	*p = PPU{
		front: p.front, back: p.back, dbg: p.dbg,
		nmiCallback: p.nmiCallback, hdmaCallback: p.hdmaCallback, frameComplete: p.frameComplete,
	}
	p.forcedBlank = true
}

func (p *PPU) SetNMICallback(cb func())             { p.nmiCallback = cb }
func (p *PPU) SetHDMACallback(cb func(scanline int)) { p.hdmaCallback = cb }
func (p *PPU) SetFrameCompleteCallback(cb func())    { p.frameComplete = cb }

// Scanline/Dot/Frame expose the counters for debug-trace comparison (§8).
func (p *PPU) Scanline() uint32 { return p.v }
func (p *PPU) Dot() uint32      { return p.h }
func (p *PPU) Frame() uint64    { return p.f }

// Swap returns the completed frame and begins writing into the other buffer.
func (p *PPU) Swap() []uint32 {
	out := p.back
	p.front, p.back = p.back, p.front
	return out
}

func (p *PPU) emitAnomaly(addr uint32, reason string) {
	if p.dbg != nil {
		p.dbg.Anomaly(debug.ComponentPPU, addr, reason)
	}
}

// activeDisplay reports whether the beam is inside the visible window
// and rendering is not forced-blanked, used to flag writes that real
// hardware would corrupt (§4.2 "writes during active display").
func (p *PPU) activeDisplay() bool {
	return !p.forcedBlank && p.v < vblankStart && p.h < hblankStartDot
}

// Step advances the PPU by one master-clock-derived dot (§5: one dot
// per 4 master cycles, billed by the bus's catch-up bridge).
//
// Real hardware lengthens two dots per scanline (around h=322/326) to
// 6 master cycles, and skips that lengthening on one scanline every
// other frame, to hold the NTSC refresh rate exactly on its target —
// this model holds every dot at a fixed 4 cycles instead. v/h/f
// counters are therefore off by a few master cycles near the end of
// a scanline relative to real hardware; frame cadence (which scanline
// and dot vblank/NMI/HDMA fire on) is unaffected, since the skipped
// cycles fall after the active display and HDMA windows.
func (p *PPU) Step() {
	if p.h == 0 && p.v < screenHeight {
		p.renderScanline(int(p.v))
	}

	if p.v == vblankStart && p.h == 0 {
		p.setVBlankFlag(true)
		if p.nmiCallback != nil {
			p.nmiCallback()
		}
	}
	if p.v == 0 && p.h == 0 {
		p.setVBlankFlag(false)
		p.timeOver = false
		p.rangeOver = false
	}

	if p.hdmaCallback != nil && p.h == 0 && p.v < screenHeight {
		p.hdmaCallback(int(p.v))
	}

	p.h++
	if p.h > dotsPerLine {
		p.h = 0
		p.v++
		if p.v == vblankStart && p.h == 0 {
			p.oddFrame = !p.oddFrame
		}
		if p.v >= linesPerFrame {
			p.v = 0
			p.f++
			if p.frameComplete != nil {
				p.frameComplete()
			}
		}
	}
}

func (p *PPU) setVBlankFlag(v bool) { p.inVBlank = v }
