package ppu

// vramIncrement returns the word-increment amount encoded in VMAIN bits 0-1.
func (p *PPU) vramIncrement() uint16 {
	switch p.vmain & 0x03 {
	case 0:
		return 1
	case 1:
		return 32
	default:
		return 128
	}
}

// vramIncrementOnHigh reports whether VMAIN bit 7 routes the
// auto-increment to the high-byte access instead of the low-byte one.
func (p *PPU) vramIncrementOnHigh() bool { return p.vmain&0x80 != 0 }

func (p *PPU) vramAutoIncrement(onHigh bool) {
	if onHigh == p.vramIncrementOnHigh() {
		p.vmaddr += p.vramIncrement()
	}
}

func (p *PPU) refreshVRAMPrefetch() {
	p.vramPrefetch = p.vram[p.vmaddr&0x7FFF]
}

// VRAMWord exposes one VRAM word for debug tooling and tests (§4.2's
// VMDATA storage is otherwise only reachable through the latched
// register ports).
func (p *PPU) VRAMWord(addr uint16) uint16 { return p.vram[addr&0x7FFF] }

// LoadVRAMWord writes a word directly into VRAM storage, used by
// save-state restoration to bypass the VMADD/VMDATA latch protocol.
func (p *PPU) LoadVRAMWord(addr uint16, word uint16) { p.vram[addr&0x7FFF] = word }

// WriteRegister dispatches a CPU write to a PPU register, address being
// the low byte of 0x21xx (§4.2's "dispatched by low byte").
func (p *PPU) WriteRegister(reg uint8, value uint8) {
	if p.activeDisplay() && reg != regMOSAIC {
		p.emitAnomaly(uint32(reg), "ppu register write during active display")
	}

	switch reg {
	case regINIDISP:
		p.forcedBlank = value&0x80 != 0
		p.brightness = value & 0x0F

	case regOBSEL:
		p.obsel = value

	case regOAMADDL:
		p.oamaddr = (p.oamaddr & 0x0200) | uint16(value)<<1
	case regOAMADDH:
		p.oamaddr = (p.oamaddr & 0x01FE) | (uint16(value&0x01) << 9)
		p.oamPriority = value&0x80 != 0
		p.oamLatched = false

	case regOAMDATA:
		p.writeOAMByte(value)

	case regBGMODE:
		p.bgMode = value & 0x07
		p.bgMode1Sw = value&0x08 != 0

	case regMOSAIC:
		p.mosaic = value

	case regBG1SC:
		p.bg[0].scAddr = uint16(value&0xFC) << 8
		p.bg[0].scSize = value & 0x03
	case regBG2SC:
		p.bg[1].scAddr = uint16(value&0xFC) << 8
		p.bg[1].scSize = value & 0x03
	case regBG3SC:
		p.bg[2].scAddr = uint16(value&0xFC) << 8
		p.bg[2].scSize = value & 0x03
	case regBG4SC:
		p.bg[3].scAddr = uint16(value&0xFC) << 8
		p.bg[3].scSize = value & 0x03

	case regBG12NBA:
		p.bg[0].nba = uint16(value&0x0F) << 12
		p.bg[1].nba = uint16(value&0xF0) << 8
	case regBG34NBA:
		p.bg[2].nba = uint16(value&0x0F) << 12
		p.bg[3].nba = uint16(value&0xF0) << 8

	case regBG1HOFS:
		p.writeBGOfs(0, true, value)
	case regBG1VOFS:
		p.writeBGOfs(0, false, value)
	case regBG2HOFS:
		p.writeBGOfs(1, true, value)
	case regBG2VOFS:
		p.writeBGOfs(1, false, value)
	case regBG3HOFS:
		p.writeBGOfs(2, true, value)
	case regBG3VOFS:
		p.writeBGOfs(2, false, value)
	case regBG4HOFS:
		p.writeBGOfs(3, true, value)
	case regBG4VOFS:
		p.writeBGOfs(3, false, value)

	case regVMAIN:
		p.vmain = value
	case regVMADDL:
		p.vmaddr = (p.vmaddr & 0xFF00) | uint16(value)
		p.refreshVRAMPrefetch()
	case regVMADDH:
		p.vmaddr = (p.vmaddr & 0x00FF) | uint16(value)<<8
		p.refreshVRAMPrefetch()
	case regVMDATAL:
		p.vram[p.vmaddr&0x7FFF] = (p.vram[p.vmaddr&0x7FFF] & 0xFF00) | uint16(value)
		p.vramAutoIncrement(false)
	case regVMDATAH:
		p.vram[p.vmaddr&0x7FFF] = (p.vram[p.vmaddr&0x7FFF] & 0x00FF) | uint16(value)<<8
		p.vramAutoIncrement(true)

	case regM7SEL:
		p.m7.flipH = value&0x01 != 0
		p.m7.flipV = value&0x02 != 0
		p.m7.screenOver = (value >> 6) & 0x03
	case regM7A:
		p.m7.a = int16(uint16(p.m7.latched) | uint16(value)<<8)
		p.m7.latched = value
	case regM7B:
		p.m7.b = int16(uint16(p.m7.latched) | uint16(value)<<8)
		p.m7.latched = value
		p.mpy = int32(p.m7.a) * int32(value)
	case regM7C:
		p.m7.c = int16(uint16(p.m7.latched) | uint16(value)<<8)
		p.m7.latched = value
	case regM7D:
		p.m7.d = int16(uint16(p.m7.latched) | uint16(value)<<8)
		p.m7.latched = value
	case regM7X:
		p.m7.x = int16(uint16(p.m7.latched) | uint16(value)<<8)
		p.m7.latched = value
	case regM7Y:
		p.m7.y = int16(uint16(p.m7.latched) | uint16(value)<<8)
		p.m7.latched = value

	case regCGADD:
		p.cgaddr = value
		p.cgHighPhase = false
	case regCGDATA:
		if !p.cgHighPhase {
			p.cgLatchLow = value
			p.cgHighPhase = true
		} else {
			p.cgram[p.cgaddr] = uint16(p.cgLatchLow) | uint16(value&0x7F)<<8
			p.cgaddr++
			p.cgHighPhase = false
		}

	case regW12SEL:
		p.w12sel = value
	case regW34SEL:
		p.w34sel = value
	case regWOBJSEL:
		p.wobjsel = value
	case regWH0:
		p.wh0 = value
	case regWH1:
		p.wh1 = value
	case regWH2:
		p.wh2 = value
	case regWH3:
		p.wh3 = value
	case regWBGLOG:
		p.wbglog = value
	case regWOBJLOG:
		p.wobjlog = value

	case regTM:
		p.tm = value
	case regTS:
		p.ts = value
	case regTMW:
		p.tmw = value
	case regTSW:
		p.tsw = value

	case regCGWSEL:
		p.cgwsel = value
	case regCGADSUB:
		p.cgadsub = value
	case regCOLDATA:
		if value&0x20 != 0 {
			p.fixedR = value & 0x1F
		}
		if value&0x40 != 0 {
			p.fixedG = value & 0x1F
		}
		if value&0x80 != 0 {
			p.fixedB = value & 0x1F
		}

	case regSETINI:
		p.interlace = value&0x01 != 0
		p.overscan = value&0x04 != 0
		p.pseudoHi = value&0x08 != 0
		p.extBG = value&0x40 != 0

	default:
		p.emitAnomaly(uint32(reg), "write to read-only or undefined ppu register")
	}
}

func (p *PPU) writeBGOfs(bg int, horizontal bool, value uint8) {
	if horizontal {
		p.bg[bg].hofs = (uint16(value) << 8) | uint16(p.bg[bg].latched)
		p.bg[bg].hofs &^= 0xFC00 // keep to 10 bits
		p.bg[bg].latched = value
	} else {
		p.bg[bg].vofs = (uint16(value) << 8) | uint16(p.bg[bg].latched)
		p.bg[bg].vofs &^= 0xFC00
		p.bg[bg].latched = value
	}
}

func (p *PPU) writeOAMByte(value uint8) {
	addr := p.oamaddr
	if addr < 0x200 {
		if !p.oamLatched {
			p.oamLatch = value
			p.oamLatched = true
		} else {
			p.oam[addr&0x1FE] = p.oamLatch
			p.oam[(addr&0x1FE)+1] = value
			p.oamLatched = false
		}
	} else {
		p.oamHi[addr&0x1F] = value
	}
	p.oamaddr++
	if p.oamaddr >= 0x220 {
		p.oamaddr = 0
	}
}

// ReadRegister dispatches a CPU read from 0x21xx. Write-only registers
// return 0; the bus passes that 0 through as is, so the PPU1/PPU2
// open-bus latches that real hardware returns are not modeled.
func (p *PPU) ReadRegister(reg uint8) uint8 {
	switch reg {
	case regRDOAM:
		return p.readOAMByte()
	case regRDVRAML:
		v := uint8(p.vramPrefetch)
		p.vramAutoIncrement(false)
		if !p.vramIncrementOnHigh() {
			p.refreshVRAMPrefetch()
		}
		return v
	case regRDVRAMH:
		v := uint8(p.vramPrefetch >> 8)
		p.vramAutoIncrement(true)
		if p.vramIncrementOnHigh() {
			p.refreshVRAMPrefetch()
		}
		return v
	case regRDCGRAM:
		if !p.cgHighPhase {
			v := uint8(p.cgram[p.cgaddr])
			p.cgHighPhase = true
			return v
		}
		v := uint8(p.cgram[p.cgaddr] >> 8)
		p.cgHighPhase = false
		p.cgaddr++
		return v
	case regMPYL:
		return uint8(p.mpy)
	case regMPYM:
		return uint8(p.mpy >> 8)
	case regMPYH:
		return uint8(p.mpy >> 16)
	case regSLHV:
		p.hCounterLatch = uint16(p.h)
		p.vCounterLatch = uint16(p.v)
		return 0
	case regOPHCT:
		if !p.latchPhase {
			p.latchPhase = true
			return uint8(p.hCounterLatch)
		}
		p.latchPhase = false
		return uint8(p.hCounterLatch >> 8)
	case regOPVCT:
		return uint8(p.vCounterLatch)
	case regSTAT77:
		v := uint8(1) // PPU1 version
		if p.timeOver {
			v |= 0x80
		}
		if p.rangeOver {
			v |= 0x40
		}
		return v
	case regSTAT78:
		v := uint8(1) // PPU2 version
		if p.oddFrame {
			v |= 0x80
		}
		return v
	default:
		return 0
	}
}

func (p *PPU) readOAMByte() uint8 {
	addr := p.oamaddr
	var v uint8
	if addr < 0x200 {
		v = p.oam[addr]
	} else {
		v = p.oamHi[addr&0x1F]
	}
	p.oamaddr++
	if p.oamaddr >= 0x220 {
		p.oamaddr = 0
	}
	return v
}
