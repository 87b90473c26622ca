package cpu65816

// Mode identifies one of the 24 65C816 addressing modes.
type Mode uint8

const (
	ModeImplied Mode = iota
	ModeAccumulator
	ModeImmediateM // immediate, width = M flag
	ModeImmediateX // immediate, width = X flag
	ModeImmediate8 // always 8-bit immediate (e.g. REP/SEP operand)
	ModeDirect
	ModeDirectX
	ModeDirectY
	ModeDirectIndirect     // (dp)
	ModeDirectIndirectLong // [dp]
	ModeDirectIndirectX    // (dp,X)
	ModeDirectIndirectY    // (dp),Y
	ModeDirectIndirectLongY
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeAbsoluteLong
	ModeAbsoluteLongX
	ModeAbsoluteIndirect    // (addr) - JMP only
	ModeAbsoluteIndirectX   // (addr,X) - JMP/JSR only
	ModeAbsoluteIndirectLong // [addr] - JML only
	ModeStackRelative       // sr,S
	ModeStackRelativeIndirectY
	ModeRelative  // branches
	ModeRelativeLong
	ModeBlockMove
)

// operand is the decoded effective address plus bookkeeping the
// instruction handlers need: the bank/offset pair, whether an index
// mode crossed a page boundary (one extra cycle for reads), and, for
// direct-page modes, whether D's low byte was non-zero (one extra
// cycle, real hardware's "DL != 0" penalty).
type operand struct {
	bank        uint8
	offset      uint16
	pageCrossed bool
	dpPenalty   bool
	imm8        uint8
	imm16       uint16
}

// decodeOperand consumes the operand bytes for mode (advancing PC) and
// computes the effective address. It does not perform the access itself
// so that instruction handlers can choose read-modify-write ordering.
func (c *CPU) decodeOperand(mode Mode) operand {
	var op operand

	if c.D&0xFF != 0 {
		op.dpPenalty = true
	}

	switch mode {
	case ModeImplied, ModeAccumulator:
		// no operand bytes

	case ModeImmediateM:
		if c.widthM() {
			op.imm8 = c.fetch8()
		} else {
			op.imm16 = c.fetch16()
		}

	case ModeImmediateX:
		if c.widthX() {
			op.imm8 = c.fetch8()
		} else {
			op.imm16 = c.fetch16()
		}

	case ModeImmediate8:
		op.imm8 = c.fetch8()

	case ModeDirect:
		dp := c.fetch8()
		op.bank = 0
		op.offset = c.D + uint16(dp)

	case ModeDirectX:
		dp := c.fetch8()
		op.bank = 0
		op.offset = c.D + uint16(dp) + c.X

	case ModeDirectY:
		dp := c.fetch8()
		op.bank = 0
		op.offset = c.D + uint16(dp) + c.Y

	case ModeDirectIndirect:
		dp := c.fetch8()
		ptr := c.D + uint16(dp)
		addr := c.read16(0, ptr)
		op.bank = c.DBR
		op.offset = addr

	case ModeDirectIndirectLong:
		dp := c.fetch8()
		ptr := c.D + uint16(dp)
		lo := c.read8(0, ptr)
		hi := c.read8(0, ptr+1)
		bank := c.read8(0, ptr+2)
		op.bank = bank
		op.offset = uint16(lo) | uint16(hi)<<8

	case ModeDirectIndirectX:
		dp := c.fetch8()
		ptr := c.D + uint16(dp) + c.X
		addr := c.read16(0, ptr)
		op.bank = c.DBR
		op.offset = addr

	case ModeDirectIndirectY:
		dp := c.fetch8()
		ptr := c.D + uint16(dp)
		base := c.read16(0, ptr)
		addr := base + c.Y
		op.bank = c.DBR
		op.offset = addr
		op.pageCrossed = (base & 0xFF00) != (addr & 0xFF00)

	case ModeDirectIndirectLongY:
		dp := c.fetch8()
		ptr := c.D + uint16(dp)
		lo := c.read8(0, ptr)
		hi := c.read8(0, ptr+1)
		bank := c.read8(0, ptr+2)
		base := uint32(bank)<<16 | uint32(hi)<<8 | uint32(lo)
		full := base + uint32(c.Y)
		op.bank = uint8(full >> 16)
		op.offset = uint16(full)

	case ModeAbsolute:
		addr := c.fetch16()
		op.bank = c.DBR
		op.offset = addr

	case ModeAbsoluteX:
		base := c.fetch16()
		addr := base + c.X
		op.bank = c.DBR
		op.offset = addr
		op.pageCrossed = (base & 0xFF00) != (addr & 0xFF00)

	case ModeAbsoluteY:
		base := c.fetch16()
		addr := base + c.Y
		op.bank = c.DBR
		op.offset = addr
		op.pageCrossed = (base & 0xFF00) != (addr & 0xFF00)

	case ModeAbsoluteLong:
		lo := c.fetch8()
		hi := c.fetch8()
		bank := c.fetch8()
		op.bank = bank
		op.offset = uint16(lo) | uint16(hi)<<8

	case ModeAbsoluteLongX:
		lo := c.fetch8()
		hi := c.fetch8()
		bank := c.fetch8()
		full := uint32(bank)<<16 | uint32(hi)<<8 | uint32(lo) + uint32(c.X)
		op.bank = uint8(full >> 16)
		op.offset = uint16(full)

	case ModeAbsoluteIndirect:
		ptr := c.fetch16()
		op.bank = c.PBR
		op.offset = c.read16(0, ptr)

	case ModeAbsoluteIndirectX:
		ptr := c.fetch16() + c.X
		op.bank = c.PBR
		op.offset = c.read16(c.PBR, ptr)

	case ModeAbsoluteIndirectLong:
		ptr := c.fetch16()
		lo := c.read8(0, ptr)
		hi := c.read8(0, ptr+1)
		bank := c.read8(0, ptr+2)
		op.bank = bank
		op.offset = uint16(lo) | uint16(hi)<<8

	case ModeStackRelative:
		sr := c.fetch8()
		op.bank = 0
		op.offset = c.S + uint16(sr)

	case ModeStackRelativeIndirectY:
		sr := c.fetch8()
		ptr := c.S + uint16(sr)
		base := c.read16(0, ptr)
		op.bank = c.DBR
		op.offset = base + c.Y

	case ModeRelative:
		disp := int8(c.fetch8())
		op.bank = c.PBR
		target := uint16(int32(c.PC) + int32(disp))
		op.pageCrossed = (c.PC & 0xFF00) != (target & 0xFF00)
		op.offset = target

	case ModeRelativeLong:
		disp := int16(c.fetch16())
		op.bank = c.PBR
		op.offset = uint16(int32(c.PC) + int32(disp))

	case ModeBlockMove:
		// MVN/MVP fetch dest bank then src bank; handled in the opcode
		// body directly since it also drives A/X/Y and the transfer loop.
	}

	return op
}
