// Package apu implements the SNES Audio Processing Unit: the SPC700
// 8-bit CPU, its shared RAM with memory-mapped timers and CPU I/O
// ports, and the S-DSP eight-voice synthesizer.
package apu

// Flag bits of the SPC700 PSW register.
type Flag uint8

const (
	FlagC Flag = 1 << 0
	FlagZ Flag = 1 << 1
	FlagI Flag = 1 << 2
	FlagH Flag = 1 << 3
	FlagB Flag = 1 << 4
	FlagP Flag = 1 << 5 // direct page selector: 0=0x00xx, 1=0x01xx
	FlagV Flag = 1 << 6
	FlagN Flag = 1 << 7
)

// SPC700 is the sound CPU. It addresses its own 64 KiB space through
// the owning APU, which overlays RAM with the timer/port I/O window
// and the optional boot ROM (§4.3).
type SPC700 struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	PSW     Flag

	mem *apuMemory

	stopped bool
	cycles  uint64
}

func newSPC700(mem *apuMemory) *SPC700 {
	return &SPC700{mem: mem}
}

// Reset sets the documented power-on state: PC from the reset vector
// at 0xFFFE (boot ROM entry), SP at 0xEF, I flag set.
func (c *SPC700) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xEF
	c.PSW = FlagI
	c.PC = uint16(c.mem.read(0xFFFE)) | uint16(c.mem.read(0xFFFF))<<8
	c.stopped = false
	c.cycles = 0
}

func (c *SPC700) flag(f Flag) bool { return c.PSW&f != 0 }
func (c *SPC700) setFlag(f Flag, v bool) {
	if v {
		c.PSW |= f
	} else {
		c.PSW &^= f
	}
}

func (c *SPC700) dpBase() uint16 {
	if c.flag(FlagP) {
		return 0x0100
	}
	return 0x0000
}

func (c *SPC700) setZN(v uint8) {
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagN, v&0x80 != 0)
}

func (c *SPC700) setZN16(v uint16) {
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagN, v&0x8000 != 0)
}

func (c *SPC700) fetch8() uint8 {
	v := c.mem.read(c.PC)
	c.PC++
	return v
}

func (c *SPC700) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(lo) | uint16(hi)<<8
}

func (c *SPC700) push8(v uint8) {
	c.mem.write(0x0100|uint16(c.SP), v)
	c.SP--
}

func (c *SPC700) pop8() uint8 {
	c.SP++
	return c.mem.read(0x0100 | uint16(c.SP))
}

func (c *SPC700) push16(v uint16) {
	c.push8(uint8(v >> 8))
	c.push8(uint8(v))
}

func (c *SPC700) pop16() uint16 {
	lo := c.pop8()
	hi := c.pop8()
	return uint16(lo) | uint16(hi)<<8
}

// Step executes one instruction and returns the cycles it cost.
func (c *SPC700) Step() uint8 {
	if c.stopped {
		return 2
	}
	opcode := c.fetch8()
	cycles := c.execute(opcode)
	c.cycles += uint64(cycles)
	return cycles
}

// dp/dpX/dpY resolve direct-page effective addresses.
func (c *SPC700) dp() uint16    { return c.dpBase() + uint16(c.fetch8()) }
func (c *SPC700) dpX() uint16   { return c.dpBase() + uint16(c.fetch8()+c.X) }
func (c *SPC700) dpY() uint16   { return c.dpBase() + uint16(c.fetch8()+c.Y) }
func (c *SPC700) abs() uint16   { return c.fetch16() }
func (c *SPC700) absX() uint16  { return c.fetch16() + uint16(c.X) }
func (c *SPC700) absY() uint16  { return c.fetch16() + uint16(c.Y) }
func (c *SPC700) indX() uint16  { return c.dpBase() + uint16(c.X) }
func (c *SPC700) indY() uint16  { return c.dpBase() + uint16(c.Y) }
func (c *SPC700) dpIndX() uint16 {
	ptr := c.dpBase() + uint16(c.fetch8()+c.X)
	return uint16(c.mem.read(ptr)) | uint16(c.mem.read(ptr+1))<<8
}
func (c *SPC700) dpIndY() uint16 {
	ptr := c.dpBase() + uint16(c.fetch8())
	base := uint16(c.mem.read(ptr)) | uint16(c.mem.read(ptr+1))<<8
	return base + uint16(c.Y)
}

func (c *SPC700) branch(taken bool) uint8 {
	disp := int8(c.fetch8())
	if !taken {
		return 4
	}
	c.PC = uint16(int32(c.PC) + int32(disp))
	return 6
}

// execute dispatches a decoded opcode. It covers MOV/arithmetic/
// logic/shift/branch/jump/loop/call/stack/bit-test/word and decimal-
// adjust families. Opcodes with no case here (mostly multi-byte
// direct-page-bit addressing modes beyond SET1/CLR1/TSET1/TCLR1) fall
// through to the default NOP case.
func (c *SPC700) execute(op uint8) uint8 {
	switch op {
	case 0x00: // NOP
		return 2
	case 0xEF, 0xFF: // SLEEP / STOP
		c.stopped = true
		return 2

	// --- MOV A, src ---
	case 0xE8:
		c.A = c.fetch8()
		c.setZN(c.A)
		return 2
	case 0xE4:
		c.A = c.mem.read(c.dp())
		c.setZN(c.A)
		return 3
	case 0xF4:
		c.A = c.mem.read(c.dpX())
		c.setZN(c.A)
		return 4
	case 0xE5:
		c.A = c.mem.read(c.abs())
		c.setZN(c.A)
		return 4
	case 0xF5:
		c.A = c.mem.read(c.absX())
		c.setZN(c.A)
		return 5
	case 0xF6:
		c.A = c.mem.read(c.absY())
		c.setZN(c.A)
		return 5
	case 0xE6:
		c.A = c.mem.read(c.indX())
		c.setZN(c.A)
		return 3
	case 0xF7:
		c.A = c.mem.read(c.dpIndY())
		c.setZN(c.A)
		return 6
	case 0xE7:
		c.A = c.mem.read(c.dpIndX())
		c.setZN(c.A)
		return 6

	// --- MOV X/Y, src ---
	case 0xCD:
		c.X = c.fetch8()
		c.setZN(c.X)
		return 2
	case 0xF8:
		c.X = c.mem.read(c.dp())
		c.setZN(c.X)
		return 3
	case 0xF9:
		c.X = c.mem.read(c.dpY())
		c.setZN(c.X)
		return 4
	case 0xE9:
		c.X = c.mem.read(c.abs())
		c.setZN(c.X)
		return 4
	case 0x8D:
		c.Y = c.fetch8()
		c.setZN(c.Y)
		return 2
	case 0xEB:
		c.Y = c.mem.read(c.dp())
		c.setZN(c.Y)
		return 3
	case 0xFB:
		c.Y = c.mem.read(c.dpX())
		c.setZN(c.Y)
		return 4
	case 0xEC:
		c.Y = c.mem.read(c.abs())
		c.setZN(c.Y)
		return 4

	// --- MOV dst, A ---
	case 0xC4:
		c.mem.write(c.dp(), c.A)
		return 4
	case 0xD4:
		c.mem.write(c.dpX(), c.A)
		return 5
	case 0xC5:
		c.mem.write(c.abs(), c.A)
		return 5
	case 0xD5:
		c.mem.write(c.absX(), c.A)
		return 6
	case 0xD6:
		c.mem.write(c.absY(), c.A)
		return 6
	case 0xC6:
		c.mem.write(c.indX(), c.A)
		return 4
	case 0xD7:
		c.mem.write(c.dpIndY(), c.A)
		return 7
	case 0xC7:
		c.mem.write(c.dpIndX(), c.A)
		return 7
	case 0xD8:
		c.mem.write(c.dp(), c.X)
		return 4
	case 0xD9:
		c.mem.write(c.dpY(), c.X)
		return 5
	case 0xC9:
		c.mem.write(c.abs(), c.X)
		return 5
	case 0xCB:
		c.mem.write(c.dp(), c.Y)
		return 4
	case 0xDB:
		c.mem.write(c.dpX(), c.Y)
		return 5
	case 0xCC:
		c.mem.write(c.abs(), c.Y)
		return 5

	// --- register transfers ---
	case 0x7D: // MOV A,X
		c.A = c.X
		c.setZN(c.A)
		return 2
	case 0xDD: // MOV A,Y
		c.A = c.Y
		c.setZN(c.A)
		return 2
	case 0x5D: // MOV X,A
		c.X = c.A
		c.setZN(c.X)
		return 2
	case 0xFD: // MOV Y,A
		c.Y = c.A
		c.setZN(c.Y)
		return 2
	case 0x9D: // MOV X,SP
		c.X = c.SP
		c.setZN(c.X)
		return 2
	case 0xBD: // MOV SP,X
		c.SP = c.X
		return 2

	// --- arithmetic (A,src) ---
	case 0x88:
		c.A = c.adc(c.A, c.fetch8())
		return 2
	case 0x84:
		c.A = c.adc(c.A, c.mem.read(c.dp()))
		return 3
	case 0x94:
		c.A = c.adc(c.A, c.mem.read(c.dpX()))
		return 4
	case 0x85:
		c.A = c.adc(c.A, c.mem.read(c.abs()))
		return 4
	case 0xA8:
		c.A = c.sbc(c.A, c.fetch8())
		return 2
	case 0xA4:
		c.A = c.sbc(c.A, c.mem.read(c.dp()))
		return 3
	case 0xA5:
		c.A = c.sbc(c.A, c.mem.read(c.abs()))
		return 4

	case 0x68: // CMP A,#imm
		c.cmp(c.A, c.fetch8())
		return 2
	case 0x64:
		c.cmp(c.A, c.mem.read(c.dp()))
		return 3
	case 0x65:
		c.cmp(c.A, c.mem.read(c.abs()))
		return 4
	case 0xC8: // CMP X,#imm
		c.cmp(c.X, c.fetch8())
		return 2
	case 0xAD: // CMP Y,#imm
		c.cmp(c.Y, c.fetch8())
		return 2

	// --- logic (A,src) ---
	case 0x28:
		c.A &= c.fetch8()
		c.setZN(c.A)
		return 2
	case 0x24:
		c.A &= c.mem.read(c.dp())
		c.setZN(c.A)
		return 3
	case 0x08:
		c.A |= c.fetch8()
		c.setZN(c.A)
		return 2
	case 0x04:
		c.A |= c.mem.read(c.dp())
		c.setZN(c.A)
		return 3
	case 0x48:
		c.A ^= c.fetch8()
		c.setZN(c.A)
		return 2
	case 0x44:
		c.A ^= c.mem.read(c.dp())
		c.setZN(c.A)
		return 3

	// --- inc/dec ---
	case 0xBC:
		c.A++
		c.setZN(c.A)
		return 2
	case 0x9C:
		c.A--
		c.setZN(c.A)
		return 2
	case 0x3D:
		c.X++
		c.setZN(c.X)
		return 2
	case 0x1D:
		c.X--
		c.setZN(c.X)
		return 2
	case 0xFC:
		c.Y++
		c.setZN(c.Y)
		return 2
	case 0xDC:
		c.Y--
		c.setZN(c.Y)
		return 2
	case 0xAB:
		addr := c.dp()
		v := c.mem.read(addr) + 1
		c.mem.write(addr, v)
		c.setZN(v)
		return 4
	case 0x8B:
		addr := c.dp()
		v := c.mem.read(addr) - 1
		c.mem.write(addr, v)
		c.setZN(v)
		return 4

	// --- shifts (accumulator) ---
	case 0x1C: // ASL A
		c.setFlag(FlagC, c.A&0x80 != 0)
		c.A <<= 1
		c.setZN(c.A)
		return 2
	case 0x5C: // LSR A
		c.setFlag(FlagC, c.A&0x01 != 0)
		c.A >>= 1
		c.setZN(c.A)
		return 2
	case 0x3C: // ROL A
		oldC := c.flag(FlagC)
		c.setFlag(FlagC, c.A&0x80 != 0)
		c.A <<= 1
		if oldC {
			c.A |= 1
		}
		c.setZN(c.A)
		return 2
	case 0x7C: // ROR A
		oldC := c.flag(FlagC)
		c.setFlag(FlagC, c.A&0x01 != 0)
		c.A >>= 1
		if oldC {
			c.A |= 0x80
		}
		c.setZN(c.A)
		return 2

	// --- branches ---
	case 0x2F: // BRA
		return c.branch(true)
	case 0xF0: // BEQ
		return c.branch(c.flag(FlagZ))
	case 0xD0: // BNE
		return c.branch(!c.flag(FlagZ))
	case 0xB0: // BCS
		return c.branch(c.flag(FlagC))
	case 0x90: // BCC
		return c.branch(!c.flag(FlagC))
	case 0x70: // BVS
		return c.branch(c.flag(FlagV))
	case 0x50: // BVC
		return c.branch(!c.flag(FlagV))
	case 0x30: // BMI
		return c.branch(c.flag(FlagN))
	case 0x10: // BPL
		return c.branch(!c.flag(FlagN))

	// --- call/return ---
	case 0x3F: // CALL abs
		target := c.abs()
		c.push16(c.PC)
		c.PC = target
		return 8
	case 0x6F: // RET
		c.PC = c.pop16()
		return 5
	case 0x7F: // RETI
		c.PSW = Flag(c.pop8())
		c.PC = c.pop16()
		return 6

	// --- stack ---
	case 0x2D: // PUSH A
		c.push8(c.A)
		return 4
	case 0x4D: // PUSH X
		c.push8(c.X)
		return 4
	case 0x6D: // PUSH Y
		c.push8(c.Y)
		return 4
	case 0x0D: // PUSH PSW
		c.push8(uint8(c.PSW))
		return 4
	case 0xAE: // POP A
		c.A = c.pop8()
		return 4
	case 0xCE: // POP X
		c.X = c.pop8()
		return 4
	case 0xEE: // POP Y
		c.Y = c.pop8()
		return 4
	case 0x8E: // POP PSW
		c.PSW = Flag(c.pop8())
		return 4

	// --- flags ---
	case 0x60: // CLRC
		c.setFlag(FlagC, false)
		return 2
	case 0x80: // SETC
		c.setFlag(FlagC, true)
		return 2
	case 0xED: // NOTC
		c.setFlag(FlagC, !c.flag(FlagC))
		return 3
	case 0xE0: // CLRV
		c.setFlag(FlagV, false)
		c.setFlag(FlagH, false)
		return 2
	case 0x20: // CLRP
		c.setFlag(FlagP, false)
		return 2
	case 0x40: // SETP
		c.setFlag(FlagP, true)
		return 2
	case 0xA0: // EI
		c.setFlag(FlagI, true)
		return 3
	case 0xC0: // DI
		c.setFlag(FlagI, false)
		return 3

	// --- MUL/DIV ---
	case 0xCF: // MUL YA
		result := uint16(c.Y) * uint16(c.A)
		c.A = uint8(result)
		c.Y = uint8(result >> 8)
		c.setZN(c.Y)
		return 9
	case 0x9E: // DIV YA,X
		ya := uint16(c.Y)<<8 | uint16(c.A)
		if c.X == 0 {
			c.A = 0xFF
			c.Y = uint8(ya)
			c.setFlag(FlagV, true)
		} else {
			c.A = uint8(ya / uint16(c.X))
			c.Y = uint8(ya % uint16(c.X))
			c.setFlag(FlagV, false)
		}
		c.setZN(c.A)
		return 12

	// --- bit test/set on dp.bit (TSET1/TCLR1, absolute) ---
	case 0x0E: // TSET1 abs
		addr := c.abs()
		v := c.mem.read(addr)
		c.setZN(c.A - v)
		c.mem.write(addr, v|c.A)
		return 6
	case 0x4E: // TCLR1 abs
		addr := c.abs()
		v := c.mem.read(addr)
		c.setZN(c.A - v)
		c.mem.write(addr, v&^c.A)
		return 6

	// --- jumps ---
	case 0x5F: // JMP !abs
		c.PC = c.abs()
		return 3
	case 0x1F: // JMP [!abs+X]
		ptr := c.abs() + uint16(c.X)
		c.PC = uint16(c.mem.read(ptr)) | uint16(c.mem.read(ptr+1))<<8
		return 6

	// --- decrement-and-branch / compare-and-branch ---
	case 0xFE: // DBNZ Y, rel
		c.Y--
		return c.branch(c.Y != 0)
	case 0x6E: // DBNZ dp, rel
		addr := c.dp()
		v := c.mem.read(addr) - 1
		c.mem.write(addr, v)
		return c.branch(v != 0)
	case 0x2E: // CBNE dp, rel
		v := c.mem.read(c.dp())
		return c.branch(c.A != v)
	case 0xDE: // CBNE dp+X, rel
		v := c.mem.read(c.dpX())
		return c.branch(c.A != v)

	// --- 16-bit word ops on YA/dp ---
	case 0xBA: // MOVW YA, dp
		addr := c.dp()
		lo := c.mem.read(addr)
		hi := c.mem.read(addr + 1)
		c.Y, c.A = hi, lo
		c.setZN16(uint16(hi)<<8 | uint16(lo))
		return 5
	case 0xDA: // MOVW dp, YA
		addr := c.dp()
		c.mem.write(addr, c.A)
		c.mem.write(addr+1, c.Y)
		return 5
	case 0x3A: // INCW dp
		addr := c.dp()
		lo := c.mem.read(addr)
		hi := c.mem.read(addr + 1)
		word := (uint16(hi)<<8 | uint16(lo)) + 1
		c.mem.write(addr, uint8(word))
		c.mem.write(addr+1, uint8(word>>8))
		c.setZN16(word)
		return 6
	case 0x1A: // DECW dp
		addr := c.dp()
		lo := c.mem.read(addr)
		hi := c.mem.read(addr + 1)
		word := (uint16(hi)<<8 | uint16(lo)) - 1
		c.mem.write(addr, uint8(word))
		c.mem.write(addr+1, uint8(word>>8))
		c.setZN16(word)
		return 6

	// --- table calls ---
	case 0x4F: // PCALL upage
		upage := c.fetch8()
		c.push16(c.PC)
		c.PC = 0xFF00 | uint16(upage)
		return 6

	// --- decimal adjust (after ADC/SBC on packed-BCD operands) ---
	case 0xDF: // DAA
		if c.flag(FlagC) || c.A > 0x99 {
			c.A += 0x60
			c.setFlag(FlagC, true)
		}
		if c.flag(FlagH) || c.A&0x0F > 0x09 {
			c.A += 0x06
		}
		c.setZN(c.A)
		return 3
	case 0xBE: // DAS
		if !c.flag(FlagC) || c.A > 0x99 {
			c.A -= 0x60
			c.setFlag(FlagC, false)
		}
		if !c.flag(FlagH) || c.A&0x0F > 0x09 {
			c.A -= 0x06
		}
		c.setZN(c.A)
		return 3

	default:
		if op&0x0F == 0x01 { // TCALL n: opcode = n<<4 | 0x01
			n := op >> 4
			c.push16(c.PC)
			c.PC = uint16(c.mem.read(0xFFDE-uint16(n)*2)) | uint16(c.mem.read(0xFFDE-uint16(n)*2+1))<<8
			return 8
		}
		if bit, isSet, ok := decodeBitOpcode(op); ok {
			addr := c.dp()
			if isSet {
				c.mem.write(addr, c.mem.read(addr)|1<<bit)
			} else {
				c.mem.write(addr, c.mem.read(addr)&^(1<<bit))
			}
			return 4
		}
		return 2
	}
}

func (c *SPC700) adc(a, v uint8) uint8 {
	carry := uint16(0)
	if c.flag(FlagC) {
		carry = 1
	}
	result := uint16(a) + uint16(v) + carry
	c.setFlag(FlagC, result > 0xFF)
	c.setFlag(FlagV, (a^uint8(result))&0x80 != 0 && (a^v)&0x80 == 0)
	c.setFlag(FlagH, (a&0x0F)+(v&0x0F)+uint8(carry) > 0x0F)
	c.setZN(uint8(result))
	return uint8(result)
}

func (c *SPC700) sbc(a, v uint8) uint8 {
	return c.adc(a, ^v)
}

func (c *SPC700) cmp(a, v uint8) {
	result := uint16(a) - uint16(v)
	c.setFlag(FlagC, a >= v)
	c.setZN(uint8(result))
}

// decodeBitOpcode recognizes the SET1 (0xo2 per bit) and CLR1 (0x12
// per bit) per-bit direct-page family: opcode = bit<<5 | (0x02 or 0x12).
func decodeBitOpcode(op uint8) (bit uint8, isSet bool, ok bool) {
	low := op & 0x1F
	if low != 0x02 && low != 0x12 {
		return 0, false, false
	}
	return op >> 5, low == 0x02, true
}
