package bus

// readInternalRegister/writeInternalRegister implement the 0x4200-0x421F
// block: NMI/IRQ enable, joypad-enable, the hardware multiply/divide
// unit, and the HVBJOY/RDNMI/TIMEUP status registers (§4.4).
func (b *Bus) readInternalRegister(offset uint16) uint8 {
	switch offset & 0x1F {
	case 0x10: // RDNMI
		v := uint8(0)
		if b.nmiFlag {
			v |= 0x80
			b.nmiFlag = false
		}
		return v | 0x02 // CPU version bits, fixed
	case 0x11: // TIMEUP
		v := uint8(0)
		if b.irqFlag {
			v |= 0x80
			b.irqFlag = false
		}
		return v
	case 0x12: // HVBJOY
		return b.hvbjoy
	case 0x14: // RDDIVL
		return uint8(b.rddiv)
	case 0x15: // RDDIVH
		return uint8(b.rddiv >> 8)
	case 0x16: // RDMPYL (also holds the division remainder, per hardware)
		return uint8(b.rdmpy)
	case 0x17: // RDMPYH
		return uint8(b.rdmpy >> 8)
	case 0x18: // JOY1L
		return b.Pad.Latched(0, true)
	case 0x19:
		return b.Pad.Latched(0, false)
	case 0x1A:
		return b.Pad.Latched(1, true)
	case 0x1B:
		return b.Pad.Latched(1, false)
	default:
		return b.openBus
	}
}

func (b *Bus) writeInternalRegister(offset uint16, value uint8) {
	switch offset & 0x1F {
	case 0x00: // NMITIMEN
		b.nmitimen = value
	case 0x01: // WRIO
		b.wrio = value
	case 0x02: // WRMPYA
		b.wrmpya = value
	case 0x03: // WRMPYB
		b.wrmpyb = value
		b.rdmpy = uint16(b.wrmpya) * uint16(value)
	case 0x04: // WRDIVL
		b.wrdiv = b.wrdiv&0xFF00 | uint16(value)
	case 0x05: // WRDIVH
		b.wrdiv = b.wrdiv&0x00FF | uint16(value)<<8
	case 0x06: // WRDIVB
		b.wrdivb = value
		if value == 0 {
			b.rddiv = 0xFFFF
			b.rdmpy = b.wrdiv
		} else {
			b.rddiv = b.wrdiv / uint16(value)
			b.rdmpy = b.wrdiv % uint16(value)
		}
	case 0x07: // HTIMEL
		b.htime = b.htime&0xFF00 | uint16(value)
	case 0x08:
		b.htime = b.htime&0x00FF | uint16(value)<<8
	case 0x09: // VTIMEL
		b.vtime = b.vtime&0xFF00 | uint16(value)
	case 0x0A:
		b.vtime = b.vtime&0x00FF | uint16(value)<<8
	case 0x0B: // MDMAEN
		b.triggerGeneralDMA(value)
	case 0x0C: // HDMAEN
		for i := range b.dma {
			b.dma[i].doTransfer = value&(1<<uint(i)) != 0
		}
	case 0x0D: // MEMSEL
		b.memsel = value
	}
}

// NMI enable bit and latch, polled by the bus's PPU callback wiring
// (set up by System) rather than here: the internal CPU-register block
// only tracks the enable flag and the RDNMI-readback latch.
func (b *Bus) nmiEnabled() bool { return b.nmitimen&0x80 != 0 }
func (b *Bus) autoJoyEnabled() bool { return b.nmitimen&0x01 != 0 }

// OnVBlankStart is wired to the PPU's NMI callback by System: it sets
// the RDNMI latch, fires the CPU NMI line if enabled, and triggers
// controller auto-read (§4.4).
func (b *Bus) OnVBlankStart() {
	b.nmiFlag = true
	b.hvbjoy |= 0x80
	if b.nmiEnabled() && b.nmiLine != nil {
		b.nmiLine()
	}
	if b.autoJoyEnabled() {
		b.Pad.AutoRead()
	}
}

func (b *Bus) OnVBlankEnd() {
	b.hvbjoy &^= 0x80
}
