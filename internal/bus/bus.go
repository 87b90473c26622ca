// Package bus implements the SNES main bus: address decoding across
// WRAM, PPU/APU register windows, internal CPU registers, DMA/HDMA,
// hardware multiply/divide, controller auto-read, and the cartridge
// mapping, plus the lazy PPU/APU catch-up that the 65C816 drives from
// every memory access (§4.4, §5).
package bus

import (
	"snescore/internal/addr"
	"snescore/internal/apu"
	"snescore/internal/cartridge"
	"snescore/internal/debug"
	"snescore/internal/input"
	"snescore/internal/ppu"
)

// Bus composes every device the 65C816 can see and bills master-clock
// time for each access, catching the PPU and APU up to that point.
type Bus struct {
	WRAM [0x20000]uint8 // banks 0x7E-0x7F

	cart *cartridge.Cartridge
	PPU  *ppu.PPU
	APU  *apu.APU
	Pad  *input.Input

	dbg *debug.Debugger

	// Internal CPU registers (0x4200-0x421F).
	nmitimen uint8
	wrio     uint8
	wrmpya   uint8
	wrmpyb   uint8
	wrdiv    uint16
	wrdivb   uint8
	rdmpy    uint16
	rddiv    uint16
	htime    uint16
	vtime    uint16
	memsel   uint8

	nmiFlag  bool
	irqFlag  bool
	hvbjoy   uint8

	dma [8]dmaChannel

	wmadd uint32 // 0x2180-0x2183 WRAM access port address

	masterCycles uint64
	openBus      uint8

	nmiLine func() // forwarded to CPU via System
	irqLine func()
}

type dmaChannel struct {
	dmap    uint8
	bbad    uint8
	a1t     uint16
	a1b     uint8
	das     uint16
	a2a     uint16 // HDMA indirect bank-relative address / line counter byte
	ntlr    uint8
	doTransfer bool
}

// New creates a Bus with the given cartridge already inserted.
func New(cart *cartridge.Cartridge, dbg *debug.Debugger) *Bus {
	b := &Bus{
		cart: cart,
		PPU:  ppu.New(dbg),
		APU:  apu.New(dbg),
		Pad:  input.New(),
		dbg:  dbg,
	}
	b.PPU.SetHDMACallback(b.runHDMAForScanline)
	return b
}

// SetNMILine/SetIRQLine let the owning System observe interrupt edges
// without the bus embedding a *cpu65816.CPU (§9's cyclic-reference split).
func (b *Bus) SetNMILine(cb func()) { b.nmiLine = cb }
func (b *Bus) SetIRQLine(cb func()) { b.irqLine = cb }

func (b *Bus) Reset() {
	b.PPU.Reset()
	b.APU.Reset()
	b.Pad.Reset()
	b.PPU.SetHDMACallback(b.runHDMAForScanline)
	b.nmitimen = 0
	b.masterCycles = 0
	b.openBus = 0
	b.dma = [8]dmaChannel{}
}

func (b *Bus) Debugger() *debug.Debugger { return b.dbg }

// classify returns the master-clock cost of accessing the given address
// per §4.4's fast/slow/extra-slow classes.
func classify(a addr.Addr24) addr.Speed {
	switch {
	case a.Offset >= 0x4000 && a.Offset <= 0x41FF:
		return addr.SpeedExtraSlow
	case a.Bank >= 0x40 && a.Bank <= 0x7D:
		return addr.SpeedExtraSlow
	case a.Offset >= 0x2000 && a.Offset <= 0x5FFF:
		return addr.SpeedFast
	case a.Offset >= 0x6000:
		return addr.SpeedSlow
	default:
		return addr.SpeedSlow
	}
}

// catchUp advances PPU dot-by-dot and APU through its clock bridge by
// cycles master-clock ticks, implementing §5's one-scheduling-point rule.
// Every dot is billed a fixed 4 cycles; real hardware's per-scanline
// long dots (and the alternating-frame short scanline that keeps NTSC
// refresh timing exact) are not modeled here, so v/h/f drift by a few
// master cycles from a real-hardware trace near the end of some
// scanlines. See internal/ppu.PPU.Step's doc comment.
func (b *Bus) catchUp(cycles uint64) {
	prev := b.masterCycles
	b.masterCycles += cycles
	for dot := prev / 4; dot < b.masterCycles/4; dot++ {
		b.PPU.Step()
	}
	b.APU.CatchUp(cycles)
}

// Read implements cpu65816.Bus.
func (b *Bus) Read(bank uint8, offset uint16) uint8 {
	a := addr.Addr24{Bank: bank, Offset: offset}
	cost := classify(a)
	b.catchUp(cost.Cycles())

	v, ok := b.readDecoded(bank, offset)
	if !ok {
		b.dbg.Anomaly(debug.ComponentBus, a.Full(), "open bus read")
		v = b.openBus
	} else {
		b.openBus = v
	}
	if b.dbg != nil {
		b.dbg.Emit(debug.Event{Kind: debug.KindMemoryRead, Component: debug.ComponentBus, Address: a.Full(), Value: uint32(v)})
	}
	return v
}

// Write implements cpu65816.Bus.
func (b *Bus) Write(bank uint8, offset uint16, value uint8) {
	a := addr.Addr24{Bank: bank, Offset: offset}
	cost := classify(a)
	b.catchUp(cost.Cycles())

	b.openBus = value
	if b.dbg != nil {
		b.dbg.Emit(debug.Event{Kind: debug.KindMemoryWrite, Component: debug.ComponentBus, Address: a.Full(), Value: uint32(value)})
	}
	b.writeDecoded(bank, offset, value)
}

func wramMirror(bank uint8, offset uint16) bool {
	lowBank := bank&0x7F <= 0x3F
	return lowBank && offset <= 0x1FFF
}

func (b *Bus) readDecoded(bank uint8, offset uint16) (uint8, bool) {
	switch {
	case bank == 0x7E || bank == 0x7F:
		return b.WRAM[uint32(bank&1)<<16|uint32(offset)], true
	case wramMirror(bank, offset):
		return b.WRAM[offset], true
	case offset >= 0x2100 && offset <= 0x213F && bank&0x7F <= 0x3F:
		return b.PPU.ReadRegister(uint8(offset - 0x2100)), true
	case offset >= 0x2140 && offset <= 0x217F && bank&0x7F <= 0x3F:
		return b.APU.ReadPort(uint8(offset & 0x03)), true
	case offset == 0x2180 && bank&0x7F <= 0x3F:
		v := b.WRAM[b.wmadd&0x1FFFF]
		b.wmadd = (b.wmadd + 1) & 0x1FFFF
		return v, true
	case offset == 0x4016:
		return b.Pad.ReadSerial(false), true
	case offset == 0x4017:
		return b.Pad.ReadSerial(true), true
	case offset >= 0x4200 && offset <= 0x421F:
		return b.readInternalRegister(offset), true
	case offset >= 0x4300 && offset <= 0x437F:
		return b.readDMARegister(offset), true
	default:
		return b.cart.Read(bank, offset)
	}
}

func (b *Bus) writeDecoded(bank uint8, offset uint16, value uint8) {
	switch {
	case bank == 0x7E || bank == 0x7F:
		b.WRAM[uint32(bank&1)<<16|uint32(offset)] = value
	case wramMirror(bank, offset):
		b.WRAM[offset] = value
	case offset >= 0x2100 && offset <= 0x213F && bank&0x7F <= 0x3F:
		b.PPU.WriteRegister(uint8(offset-0x2100), value)
	case offset >= 0x2140 && offset <= 0x217F && bank&0x7F <= 0x3F:
		b.APU.WritePort(uint8(offset&0x03), value)
	case offset == 0x2181 && bank&0x7F <= 0x3F:
		b.wmadd = b.wmadd&0x1FFF00 | uint32(value)
	case offset == 0x2182 && bank&0x7F <= 0x3F:
		b.wmadd = b.wmadd&0x1F00FF | uint32(value)<<8
	case offset == 0x2183 && bank&0x7F <= 0x3F:
		b.wmadd = b.wmadd&0x00FFFF | uint32(value&0x01)<<16
	case offset == 0x2180 && bank&0x7F <= 0x3F:
		b.WRAM[b.wmadd&0x1FFFF] = value
		b.wmadd = (b.wmadd + 1) & 0x1FFFF
	case offset == 0x4016:
		b.Pad.WriteStrobe(value)
	case offset >= 0x4200 && offset <= 0x421F:
		b.writeInternalRegister(offset, value)
	case offset >= 0x4300 && offset <= 0x437F:
		b.writeDMARegister(offset, value)
	default:
		if ok := b.cart.Write(bank, offset, value); !ok {
			b.dbg.Anomaly(debug.ComponentBus, addr.Addr24{Bank: bank, Offset: offset}.Full(), "write to unmapped address")
		}
	}
}
