package cpu65816

import "snescore/internal/debug"

// Step executes exactly one instruction (or, if WAI/STP halted the CPU,
// accounts one idle cycle while waiting for an interrupt/reset) and
// reports the outcome and the instruction's CPU cycle count: the opcode
// table's base count plus taken-branch, width, page-cross and
// direct-page extras. This is not a master-clock count; the bus bills
// master-clock time per access on its own.
func (c *CPU) Step() StepResult {
	if c.state == stateStopped {
		return StepResult{Cycles: 1, Outcome: Halt}
	}

	if c.state == stateWaiting {
		if c.nmiPending || (c.irqLine && !c.flag(FlagI)) {
			c.state = stateRunning
		} else {
			return StepResult{Cycles: 1, Outcome: Normal}
		}
	}

	startPC := c.PC
	startPBR := c.PBR

	opcode := c.fetch8()
	instr := instructions[opcode]

	op := c.decodeOperand(instr.mode)
	extra := c.execute(opcode, instr.mode, op)

	total := uint64(instr.cycles) + uint64(extra)
	if op.pageCrossed && readPenalizesPageCross(opcode) {
		total++
	}
	if op.dpPenalty && directPageModes(instr.mode) {
		total++
	}
	c.cycles += total

	result := StepResult{Cycles: total, Outcome: Normal}

	if d := c.bus.Debugger(); d != nil {
		ev := debug.Event{
			Kind:      debug.KindCPUInstruction,
			Component: debug.ComponentCPU,
			Address:   uint32(startPBR)<<16 | uint32(startPC),
			Value:     uint32(opcode),
			Text:      c.Disassemble(startPBR, startPC),
		}
		d.Emit(ev)
		if b, pending := d.TakePending(); pending {
			result.Outcome = BreakOutcome
			result.Break = b
			return result
		}
	}

	if c.state == stateStopped {
		result.Outcome = Halt
		return result
	}

	c.serviceInterrupts()
	return result
}

func directPageModes(m Mode) bool {
	switch m {
	case ModeDirect, ModeDirectX, ModeDirectY, ModeDirectIndirect,
		ModeDirectIndirectLong, ModeDirectIndirectX, ModeDirectIndirectY,
		ModeDirectIndirectLongY:
		return true
	default:
		return false
	}
}

// readPenalizesPageCross reports whether opcode is a "read" instruction
// in an indexed mode, which takes the extra page-cross cycle; store
// instructions in indexed modes always take the extra cycle regardless
// (already folded into their base cycle count above).
func readPenalizesPageCross(opcode uint8) bool {
	switch opcode {
	case 0xBD, 0xB9, 0xB1, 0xBF, 0x7D, 0x79, 0x71, 0x7F, 0x3D, 0x39, 0x31, 0x3F,
		0x1D, 0x19, 0x11, 0x1F, 0x5D, 0x59, 0x51, 0x5F, 0xDD, 0xD9, 0xD1, 0xDF,
		0xBC:
		return true
	default:
		return false
	}
}

// serviceInterrupts is called after each instruction completes (§4.1:
// "sampled between instructions"). NMI has priority and is
// edge-latched; IRQ is level-triggered and masked by the I flag.
func (c *CPU) serviceInterrupts() {
	if c.nmiPending {
		c.nmiPending = false
		c.enterInterrupt(VectorNMINative, VectorNMIEmu)
		return
	}
	if c.irqLine && !c.flag(FlagI) {
		c.enterInterrupt(VectorIRQNative, VectorIRQEmu)
	}
}

func (c *CPU) enterInterrupt(nativeVector, emuVector uint16) {
	if !c.E {
		c.push8(c.PBR)
	}
	c.push16(c.PC)
	if c.E {
		c.push8(c.GetStatusByte() &^ uint8(FlagB))
	} else {
		c.push8(c.GetStatusByte())
	}
	c.setFlag(FlagI, true)
	c.setFlag(FlagD, false)
	c.PBR = 0
	vector := emuVector
	if !c.E {
		vector = nativeVector
	}
	c.PC = c.read16(0, vector)
	c.cycles += 7
}

// execute dispatches opcode against its decoded operand and returns any
// extra cycles beyond the table's base count (used for taken branches
// and accumulator-width-dependent stack ops).
func (c *CPU) execute(opcode uint8, mode Mode, op operand) uint8 {
	switch opcode {
	// --- Load ---
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xAF, 0xBF, 0xA1, 0xB1, 0xB2, 0xA7, 0xB7, 0xA3, 0xB3:
		return c.opLDA(mode, op)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE:
		return c.opLDX(mode, op)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC:
		return c.opLDY(mode, op)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x8F, 0x9F, 0x81, 0x91, 0x92, 0x87, 0x97, 0x83, 0x93:
		return c.opSTA(op)
	case 0x86, 0x96, 0x8E:
		return c.opSTX(op)
	case 0x84, 0x94, 0x8C:
		return c.opSTY(op)
	case 0x64, 0x74, 0x9C, 0x9E:
		return c.opSTZ(op)

	// --- Arithmetic ---
	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x6F, 0x7F, 0x61, 0x71, 0x72, 0x67, 0x77, 0x63, 0x73:
		return c.opADC(mode, op)
	case 0xE9, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xEF, 0xFF, 0xE1, 0xF1, 0xF2, 0xE7, 0xF7, 0xE3, 0xF3:
		return c.opSBC(mode, op)
	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xCF, 0xDF, 0xC1, 0xD1, 0xD2, 0xC7, 0xD7, 0xC3, 0xD3:
		return c.opCompare(mode, op, c.getA(), c.widthM())
	case 0xE0, 0xE4, 0xEC:
		return c.opCompare(mode, op, c.X, c.widthX())
	case 0xC0, 0xC4, 0xCC:
		return c.opCompare(mode, op, c.Y, c.widthX())

	// --- Logic ---
	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x2F, 0x3F, 0x21, 0x31, 0x32, 0x27, 0x37, 0x23, 0x33:
		return c.opAND(mode, op)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x0F, 0x1F, 0x01, 0x11, 0x12, 0x07, 0x17, 0x03, 0x13:
		return c.opORA(mode, op)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x4F, 0x5F, 0x41, 0x51, 0x52, 0x47, 0x57, 0x43, 0x53:
		return c.opEOR(mode, op)
	case 0x24, 0x2C, 0x34, 0x3C, 0x89:
		return c.opBIT(mode, op)
	case 0x14, 0x1C:
		return c.opTRB(mode, op)
	case 0x04, 0x0C:
		return c.opTSB(mode, op)

	// --- Shift/rotate ---
	case 0x0A:
		return c.opASLAcc()
	case 0x06, 0x16, 0x0E, 0x1E:
		return c.opASLMem(op)
	case 0x4A:
		return c.opLSRAcc()
	case 0x46, 0x56, 0x4E, 0x5E:
		return c.opLSRMem(op)
	case 0x2A:
		return c.opROLAcc()
	case 0x26, 0x36, 0x2E, 0x3E:
		return c.opROLMem(op)
	case 0x6A:
		return c.opRORAcc()
	case 0x66, 0x76, 0x6E, 0x7E:
		return c.opRORMem(op)

	// --- Inc/dec ---
	case 0x1A:
		c.setA(c.getA() + 1)
		c.setZNA(c.getA())
		return 0
	case 0x3A:
		c.setA(c.getA() - 1)
		c.setZNA(c.getA())
		return 0
	case 0xE6, 0xF6, 0xEE, 0xFE:
		return c.opINCMem(op)
	case 0xC6, 0xD6, 0xCE, 0xDE:
		return c.opDECMem(op)
	case 0xE8:
		c.X = c.incX(c.X, 1)
		c.setZNX(c.X)
		return 0
	case 0xC8:
		c.Y = c.incX(c.Y, 1)
		c.setZNX(c.Y)
		return 0
	case 0xCA:
		c.X = c.incX(c.X, -1)
		c.setZNX(c.X)
		return 0
	case 0x88:
		c.Y = c.incX(c.Y, -1)
		c.setZNX(c.Y)
		return 0

	// --- Transfers ---
	case 0xAA:
		c.X = c.widenX(c.getA())
		c.setZNX(c.X)
		return 0
	case 0xA8:
		c.Y = c.widenX(c.getA())
		c.setZNX(c.Y)
		return 0
	case 0x8A:
		c.setA(c.X)
		c.setZNA(c.getA())
		return 0
	case 0x98:
		c.setA(c.Y)
		c.setZNA(c.getA())
		return 0
	case 0x9A:
		if c.E {
			c.S = 0x0100 | (c.X & 0xFF)
		} else {
			c.S = c.X
		}
		return 0
	case 0xBA:
		c.X = c.widenX(c.S)
		c.setZNX(c.X)
		return 0
	case 0x9B:
		c.Y = c.widenX(c.X)
		c.setZNX(c.Y)
		return 0
	case 0xBB:
		c.X = c.widenX(c.Y)
		c.setZNX(c.X)
		return 0
	case 0x5B:
		c.D = c.C
		c.setZN16(c.D)
		return 0
	case 0x7B:
		c.C = c.D
		c.setZN16(c.C)
		return 0
	case 0x1B:
		c.S = c.C
		return 0
	case 0x3B:
		c.C = c.S
		c.setZN16(c.C)
		return 0

	// --- Stack ---
	case 0x48:
		return c.opPushA()
	case 0x68:
		return c.opPullA()
	case 0xDA:
		return c.opPushX(c.X)
	case 0xFA:
		v, extra := c.opPullWidth(c.widthX())
		c.X = v
		c.setZNX(c.X)
		return extra
	case 0x5A:
		return c.opPushX(c.Y)
	case 0x7A:
		v, extra := c.opPullWidth(c.widthX())
		c.Y = v
		c.setZNX(c.Y)
		return extra
	case 0x08:
		c.push8(c.GetStatusByte())
		return 0
	case 0x28:
		c.SetStatusByte(c.pop8())
		return 0
	case 0x8B:
		c.push8(c.DBR)
		return 0
	case 0xAB:
		c.DBR = c.pop8()
		c.setZN8(c.DBR)
		return 0
	case 0x0B:
		c.push16(c.D)
		return 0
	case 0x2B:
		c.D = c.pop16()
		c.setZN16(c.D)
		return 0
	case 0x4B:
		c.push8(c.PBR)
		return 0
	case 0xF4:
		c.push16(op.offset)
		return 0
	case 0xD4:
		addr := c.read16(0, op.offset)
		c.push16(addr)
		return 0
	case 0x62:
		c.push16(op.offset)
		return 0

	// --- Flags ---
	case 0x18:
		c.setFlag(FlagC, false)
		return 0
	case 0x38:
		c.setFlag(FlagC, true)
		return 0
	case 0x58:
		c.setFlag(FlagI, false)
		return 0
	case 0x78:
		c.setFlag(FlagI, true)
		return 0
	case 0xB8:
		c.setFlag(FlagV, false)
		return 0
	case 0xD8:
		c.setFlag(FlagD, false)
		return 0
	case 0xF8:
		c.setFlag(FlagD, true)
		return 0
	case 0xC2:
		c.P &^= Flag(op.imm8)
		if c.E {
			c.P |= FlagM | FlagX
		}
		c.clearXYHighByte()
		return 0
	case 0xE2:
		c.P |= Flag(op.imm8)
		c.clearXYHighByte()
		return 0
	case 0xFB:
		carry := c.flag(FlagC)
		c.setFlag(FlagC, c.E)
		c.SetEmulation(carry)
		return 0

	// --- Control flow ---
	case 0x4C, 0x6C, 0x7C:
		c.PC = op.offset
		return 0
	case 0x5C, 0xDC:
		c.PBR = op.bank
		c.PC = op.offset
		return 0
	case 0x20:
		c.push16(c.PC - 1)
		c.PC = op.offset
		return 0
	case 0xFC:
		c.push16(c.PC - 1)
		c.PC = op.offset
		return 0
	case 0x22:
		c.push8(c.PBR)
		c.push16(c.PC - 1)
		c.PBR = op.bank
		c.PC = op.offset
		return 0
	case 0x60:
		c.PC = c.pop16() + 1
		return 0
	case 0x6B:
		c.PC = c.pop16() + 1
		c.PBR = c.pop8()
		return 0
	case 0x40:
		c.SetStatusByte(c.pop8())
		c.PC = c.pop16()
		if !c.E {
			c.PBR = c.pop8()
		}
		return 0

	// --- Branches ---
	case 0x90:
		return c.branch(!c.flag(FlagC), op)
	case 0xB0:
		return c.branch(c.flag(FlagC), op)
	case 0xF0:
		return c.branch(c.flag(FlagZ), op)
	case 0xD0:
		return c.branch(!c.flag(FlagZ), op)
	case 0x10:
		return c.branch(!c.flag(FlagN), op)
	case 0x30:
		return c.branch(c.flag(FlagN), op)
	case 0x50:
		return c.branch(!c.flag(FlagV), op)
	case 0x70:
		return c.branch(c.flag(FlagV), op)
	case 0x80:
		return c.branch(true, op)
	case 0x82:
		c.PC = op.offset
		return 0

	// --- Block move ---
	case 0x54:
		return c.opMVN()
	case 0x44:
		return c.opMVP()

	// --- Misc ---
	case 0xEB:
		c.C = c.C<<8 | c.C>>8
		c.setZN8(uint8(c.C))
		return 0
	case 0xEA:
		return 0
	case 0x42:
		return 0
	case 0xDB:
		c.state = stateStopped
		return 0
	case 0xCB:
		c.state = stateWaiting
		return 0
	case 0x00:
		return c.opBRK()
	case 0x02:
		return c.opCOP()

	default:
		return 0
	}
}

func (c *CPU) branch(taken bool, op operand) uint8 {
	if !taken {
		return 0
	}
	c.PC = op.offset
	if op.pageCrossed {
		return 2
	}
	return 1
}

func (c *CPU) incX(v uint16, delta int16) uint16 {
	if c.widthX() {
		return (v & 0xFF00) | uint16(uint8(uint16(v)+uint16(delta)))
	}
	return v + uint16(delta)
}

func (c *CPU) widenX(v uint16) uint16 {
	if c.widthX() {
		return v & 0xFF
	}
	return v
}

// --- Load/store ---

func (c *CPU) opLDA(mode Mode, op operand) uint8 {
	if mode == ModeImmediateM {
		if c.widthM() {
			c.setA(uint16(op.imm8))
		} else {
			c.setA(op.imm16)
		}
	} else if c.widthM() {
		c.setA(uint16(c.read8(op.bank, op.offset)))
	} else {
		c.setA(c.read16(op.bank, op.offset))
	}
	c.setZNA(c.getA())
	return 0
}

func (c *CPU) opLDX(mode Mode, op operand) uint8 {
	if mode == ModeImmediateX {
		if c.widthX() {
			c.X = uint16(op.imm8)
		} else {
			c.X = op.imm16
		}
	} else if c.widthX() {
		c.X = uint16(c.read8(op.bank, op.offset))
	} else {
		c.X = c.read16(op.bank, op.offset)
	}
	c.setZNX(c.X)
	return 0
}

func (c *CPU) opLDY(mode Mode, op operand) uint8 {
	if mode == ModeImmediateX {
		if c.widthX() {
			c.Y = uint16(op.imm8)
		} else {
			c.Y = op.imm16
		}
	} else if c.widthX() {
		c.Y = uint16(c.read8(op.bank, op.offset))
	} else {
		c.Y = c.read16(op.bank, op.offset)
	}
	c.setZNX(c.Y)
	return 0
}

func (c *CPU) opSTA(op operand) uint8 {
	if c.widthM() {
		c.write8(op.bank, op.offset, uint8(c.getA()))
	} else {
		c.write16(op.bank, op.offset, c.getA())
	}
	return 0
}

func (c *CPU) opSTX(op operand) uint8 {
	if c.widthX() {
		c.write8(op.bank, op.offset, uint8(c.X))
	} else {
		c.write16(op.bank, op.offset, c.X)
	}
	return 0
}

func (c *CPU) opSTY(op operand) uint8 {
	if c.widthX() {
		c.write8(op.bank, op.offset, uint8(c.Y))
	} else {
		c.write16(op.bank, op.offset, c.Y)
	}
	return 0
}

func (c *CPU) opSTZ(op operand) uint8 {
	if c.widthM() {
		c.write8(op.bank, op.offset, 0)
	} else {
		c.write16(op.bank, op.offset, 0)
	}
	return 0
}

// --- Arithmetic ---

func (c *CPU) readOperandM(mode Mode, op operand) uint16 {
	if mode == ModeImmediateM {
		if c.widthM() {
			return uint16(op.imm8)
		}
		return op.imm16
	}
	if c.widthM() {
		return uint16(c.read8(op.bank, op.offset))
	}
	return c.read16(op.bank, op.offset)
}

func (c *CPU) opADC(mode Mode, op operand) uint8 {
	value := c.readOperandM(mode, op)
	a := c.getA()
	carry := uint16(0)
	if c.flag(FlagC) {
		carry = 1
	}

	if c.flag(FlagD) {
		c.setA(c.adcDecimal(a, value, carry))
	} else if c.widthM() {
		result := uint16(uint8(a)) + uint16(uint8(value)) + carry
		c.setFlag(FlagC, result > 0xFF)
		c.setFlag(FlagV, (uint8(a)^uint8(result))&0x80!= 0 && (uint8(a)^uint8(value))&0x80==0)
		c.setA(result & 0xFF)
	} else {
		result := uint32(a) + uint32(value) + uint32(carry)
		c.setFlag(FlagC, result > 0xFFFF)
		c.setFlag(FlagV, (uint16(a)^uint16(result))&0x8000!=0 && (uint16(a)^value)&0x8000==0)
		c.setA(uint16(result))
	}
	c.setZNA(c.getA())
	return 0
}

func (c *CPU) opSBC(mode Mode, op operand) uint8 {
	value := c.readOperandM(mode, op)
	a := c.getA()
	carry := uint16(0)
	if c.flag(FlagC) {
		carry = 1
	}

	if c.flag(FlagD) {
		c.setA(c.sbcDecimal(a, value, carry))
	} else {
		inv := value ^ 0xFFFF
		if c.widthM() {
			inv = uint16(uint8(value) ^ 0xFF)
			result := uint16(uint8(a)) + inv + carry
			c.setFlag(FlagC, result > 0xFF)
			c.setFlag(FlagV, (uint8(a)^uint8(result))&0x80!=0 && (uint8(a)^uint8(inv))&0x80==0)
			c.setA(result & 0xFF)
		} else {
			result := uint32(a) + uint32(inv) + uint32(carry)
			c.setFlag(FlagC, result > 0xFFFF)
			c.setFlag(FlagV, (uint16(a)^uint16(result))&0x8000!=0 && (uint16(a)^inv)&0x8000==0)
			c.setA(uint16(result))
		}
	}
	c.setZNA(c.getA())
	return 0
}

// adcDecimal/sbcDecimal implement BCD mode per-nibble, matching the
// 65816's decimal-adjusted add/subtract for both 8- and 16-bit widths.
func (c *CPU) adcDecimal(a, value, carry uint16) uint16 {
	if c.widthM() {
		lo := (a & 0x0F) + (value & 0x0F) + carry
		hi := (a >> 4 & 0x0F) + (value >> 4 & 0x0F)
		if lo > 9 {
			lo += 6
			hi++
		}
		if hi > 9 {
			hi += 6
		}
		result := (hi << 4) | (lo & 0x0F)
		c.setFlag(FlagC, hi > 0x0F || result > 0xFF)
		c.setFlag(FlagV, false)
		return result & 0xFF
	}
	// 16-bit BCD: four nibble positions.
	var result uint16
	carryOut := carry
	for shift := uint(0); shift < 16; shift += 4 {
		da := (a >> shift) & 0xF
		dv := (value >> shift) & 0xF
		sum := da + dv + carryOut
		carryOut = 0
		if sum > 9 {
			sum += 6
			carryOut = 1
		}
		result |= (sum & 0xF) << shift
	}
	c.setFlag(FlagC, carryOut != 0)
	c.setFlag(FlagV, false)
	return result
}

func (c *CPU) sbcDecimal(a, value, carry uint16) uint16 {
	borrow := uint16(1)
	if carry != 0 {
		borrow = 0
	}
	if c.widthM() {
		lo := int16(a&0x0F) - int16(value&0x0F) - int16(borrow)
		hi := int16(a>>4&0x0F) - int16(value>>4&0x0F)
		if lo < 0 {
			lo += 10
			hi--
		}
		if hi < 0 {
			hi += 10
			c.setFlag(FlagC, false)
		} else {
			c.setFlag(FlagC, true)
		}
		c.setFlag(FlagV, false)
		return uint16((hi<<4)|lo&0xF) & 0xFF
	}
	var result uint16
	b := borrow
	ok := true
	for shift := uint(0); shift < 16; shift += 4 {
		da := int16((a >> shift) & 0xF)
		dv := int16((value >> shift) & 0xF)
		d := da - dv - int16(b)
		b = 0
		if d < 0 {
			d += 10
			b = 1
		}
		result |= uint16(d&0xF) << shift
	}
	if b != 0 {
		ok = false
	}
	c.setFlag(FlagC, ok)
	c.setFlag(FlagV, false)
	return result
}

func (c *CPU) opCompare(mode Mode, op operand, reg uint16, width8 bool) uint8 {
	var value uint16
	isImmediate := mode == ModeImmediateM || mode == ModeImmediateX
	if isImmediate {
		if width8 {
			value = uint16(op.imm8)
		} else {
			value = op.imm16
		}
	} else if width8 {
		value = uint16(c.read8(op.bank, op.offset))
	} else {
		value = c.read16(op.bank, op.offset)
	}

	if width8 {
		r := uint8(reg) - uint8(value)
		c.setFlag(FlagC, uint8(reg) >= uint8(value))
		c.setZN8(r)
	} else {
		r := reg - value
		c.setFlag(FlagC, reg >= value)
		c.setZN16(r)
	}
	return 0
}

// --- Logic ---

func (c *CPU) opAND(mode Mode, op operand) uint8 {
	c.setA(c.getA() & c.readOperandM(mode, op))
	c.setZNA(c.getA())
	return 0
}

func (c *CPU) opORA(mode Mode, op operand) uint8 {
	c.setA(c.getA() | c.readOperandM(mode, op))
	c.setZNA(c.getA())
	return 0
}

func (c *CPU) opEOR(mode Mode, op operand) uint8 {
	c.setA(c.getA() ^ c.readOperandM(mode, op))
	c.setZNA(c.getA())
	return 0
}

func (c *CPU) opBIT(mode Mode, op operand) uint8 {
	value := c.readOperandM(mode, op)
	a := c.getA()
	if c.widthM() {
		if mode != ModeImmediateM {
			c.setFlag(FlagN, value&0x80 != 0)
			c.setFlag(FlagV, value&0x40 != 0)
		}
		c.setFlag(FlagZ, uint8(a)&uint8(value) == 0)
	} else {
		if mode != ModeImmediateM {
			c.setFlag(FlagN, value&0x8000 != 0)
			c.setFlag(FlagV, value&0x4000 != 0)
		}
		c.setFlag(FlagZ, a&value == 0)
	}
	return 0
}

func (c *CPU) opTRB(mode Mode, op operand) uint8 {
	if c.widthM() {
		v := c.read8(op.bank, op.offset)
		c.setFlag(FlagZ, uint8(c.getA())&v == 0)
		c.write8(op.bank, op.offset, v&^uint8(c.getA()))
	} else {
		v := c.read16(op.bank, op.offset)
		c.setFlag(FlagZ, c.getA()&v == 0)
		c.write16(op.bank, op.offset, v&^c.getA())
	}
	return 0
}

func (c *CPU) opTSB(mode Mode, op operand) uint8 {
	if c.widthM() {
		v := c.read8(op.bank, op.offset)
		c.setFlag(FlagZ, uint8(c.getA())&v == 0)
		c.write8(op.bank, op.offset, v|uint8(c.getA()))
	} else {
		v := c.read16(op.bank, op.offset)
		c.setFlag(FlagZ, c.getA()&v == 0)
		c.write16(op.bank, op.offset, v|c.getA())
	}
	return 0
}

// --- Shift/rotate ---

func (c *CPU) opASLAcc() uint8 {
	if c.widthM() {
		v := uint8(c.getA())
		c.setFlag(FlagC, v&0x80 != 0)
		v <<= 1
		c.setA(uint16(v))
		c.setZN8(v)
	} else {
		v := c.getA()
		c.setFlag(FlagC, v&0x8000 != 0)
		v <<= 1
		c.setA(v)
		c.setZN16(v)
	}
	return 0
}

func (c *CPU) opASLMem(op operand) uint8 {
	if c.widthM() {
		v := c.read8(op.bank, op.offset)
		c.setFlag(FlagC, v&0x80 != 0)
		v <<= 1
		c.write8(op.bank, op.offset, v)
		c.setZN8(v)
	} else {
		v := c.read16(op.bank, op.offset)
		c.setFlag(FlagC, v&0x8000 != 0)
		v <<= 1
		c.write16(op.bank, op.offset, v)
		c.setZN16(v)
	}
	return 0
}

func (c *CPU) opLSRAcc() uint8 {
	if c.widthM() {
		v := uint8(c.getA())
		c.setFlag(FlagC, v&0x01 != 0)
		v >>= 1
		c.setA(uint16(v))
		c.setZN8(v)
	} else {
		v := c.getA()
		c.setFlag(FlagC, v&0x0001 != 0)
		v >>= 1
		c.setA(v)
		c.setZN16(v)
	}
	return 0
}

func (c *CPU) opLSRMem(op operand) uint8 {
	if c.widthM() {
		v := c.read8(op.bank, op.offset)
		c.setFlag(FlagC, v&0x01 != 0)
		v >>= 1
		c.write8(op.bank, op.offset, v)
		c.setZN8(v)
	} else {
		v := c.read16(op.bank, op.offset)
		c.setFlag(FlagC, v&0x0001 != 0)
		v >>= 1
		c.write16(op.bank, op.offset, v)
		c.setZN16(v)
	}
	return 0
}

func (c *CPU) opROLAcc() uint8 {
	oldCarry := c.flag(FlagC)
	if c.widthM() {
		v := uint8(c.getA())
		c.setFlag(FlagC, v&0x80 != 0)
		v <<= 1
		if oldCarry {
			v |= 1
		}
		c.setA(uint16(v))
		c.setZN8(v)
	} else {
		v := c.getA()
		c.setFlag(FlagC, v&0x8000 != 0)
		v <<= 1
		if oldCarry {
			v |= 1
		}
		c.setA(v)
		c.setZN16(v)
	}
	return 0
}

func (c *CPU) opROLMem(op operand) uint8 {
	oldCarry := c.flag(FlagC)
	if c.widthM() {
		v := c.read8(op.bank, op.offset)
		c.setFlag(FlagC, v&0x80 != 0)
		v <<= 1
		if oldCarry {
			v |= 1
		}
		c.write8(op.bank, op.offset, v)
		c.setZN8(v)
	} else {
		v := c.read16(op.bank, op.offset)
		c.setFlag(FlagC, v&0x8000 != 0)
		v <<= 1
		if oldCarry {
			v |= 1
		}
		c.write16(op.bank, op.offset, v)
		c.setZN16(v)
	}
	return 0
}

func (c *CPU) opRORAcc() uint8 {
	oldCarry := c.flag(FlagC)
	if c.widthM() {
		v := uint8(c.getA())
		c.setFlag(FlagC, v&0x01 != 0)
		v >>= 1
		if oldCarry {
			v |= 0x80
		}
		c.setA(uint16(v))
		c.setZN8(v)
	} else {
		v := c.getA()
		c.setFlag(FlagC, v&0x0001 != 0)
		v >>= 1
		if oldCarry {
			v |= 0x8000
		}
		c.setA(v)
		c.setZN16(v)
	}
	return 0
}

func (c *CPU) opRORMem(op operand) uint8 {
	oldCarry := c.flag(FlagC)
	if c.widthM() {
		v := c.read8(op.bank, op.offset)
		c.setFlag(FlagC, v&0x01 != 0)
		v >>= 1
		if oldCarry {
			v |= 0x80
		}
		c.write8(op.bank, op.offset, v)
		c.setZN8(v)
	} else {
		v := c.read16(op.bank, op.offset)
		c.setFlag(FlagC, v&0x0001 != 0)
		v >>= 1
		if oldCarry {
			v |= 0x8000
		}
		c.write16(op.bank, op.offset, v)
		c.setZN16(v)
	}
	return 0
}

func (c *CPU) opINCMem(op operand) uint8 {
	if c.widthM() {
		v := c.read8(op.bank, op.offset) + 1
		c.write8(op.bank, op.offset, v)
		c.setZN8(v)
	} else {
		v := c.read16(op.bank, op.offset) + 1
		c.write16(op.bank, op.offset, v)
		c.setZN16(v)
	}
	return 0
}

func (c *CPU) opDECMem(op operand) uint8 {
	if c.widthM() {
		v := c.read8(op.bank, op.offset) - 1
		c.write8(op.bank, op.offset, v)
		c.setZN8(v)
	} else {
		v := c.read16(op.bank, op.offset) - 1
		c.write16(op.bank, op.offset, v)
		c.setZN16(v)
	}
	return 0
}

// --- Stack ---

func (c *CPU) opPushA() uint8 {
	if c.widthM() {
		c.push8(uint8(c.getA()))
		return 0
	}
	c.push16(c.getA())
	return 1
}

func (c *CPU) opPullA() uint8 {
	v, extra := c.opPullWidth(c.widthM())
	c.setA(v)
	c.setZNA(c.getA())
	return extra
}

func (c *CPU) opPullWidth(width8 bool) (uint16, uint8) {
	if width8 {
		return uint16(c.pop8()), 0
	}
	return c.pop16(), 1
}

func (c *CPU) opPushX(v uint16) uint8 {
	if c.widthX() {
		c.push8(uint8(v))
		return 0
	}
	c.push16(v)
	return 1
}

// --- Block move ---

// opMVN/opMVP implement the byte-at-a-time block move: each transferred
// byte is its own bus access, X/Y and the 16-bit A (the remaining count
// minus one) all update per byte, and execution re-enters the same
// opcode until A underflows (handled here as a single bounded loop
// since the bus's per-access timing already reflects the true cost).
func (c *CPU) opMVN() uint8 {
	dstBank := c.fetch8()
	srcBank := c.fetch8()
	c.DBR = dstBank
	for {
		v := c.read8(srcBank, c.X)
		c.write8(dstBank, c.Y, v)
		c.X++
		c.Y++
		c.C--
		if c.widthX() {
			c.X &= 0xFF
			c.Y &= 0xFF
		}
		if c.C == 0xFFFF {
			break
		}
	}
	return 0
}

func (c *CPU) opMVP() uint8 {
	dstBank := c.fetch8()
	srcBank := c.fetch8()
	c.DBR = dstBank
	for {
		v := c.read8(srcBank, c.X)
		c.write8(dstBank, c.Y, v)
		c.X--
		c.Y--
		c.C--
		if c.widthX() {
			c.X &= 0xFF
			c.Y &= 0xFF
		}
		if c.C == 0xFFFF {
			break
		}
	}
	return 0
}

// --- BRK/COP ---

func (c *CPU) opBRK() uint8 {
	c.PC++ // signature/padding byte
	if !c.E {
		c.push8(c.PBR)
	}
	c.push16(c.PC)
	if c.E {
		c.push8(c.GetStatusByte() | uint8(FlagB))
	} else {
		c.push8(c.GetStatusByte())
	}
	c.setFlag(FlagI, true)
	c.setFlag(FlagD, false)
	c.PBR = 0
	if c.E {
		c.PC = c.read16(0, VectorIRQEmu)
	} else {
		c.PC = c.read16(0, VectorBRKNative)
	}
	return 0
}

func (c *CPU) opCOP() uint8 {
	c.PC++
	if !c.E {
		c.push8(c.PBR)
	}
	c.push16(c.PC)
	c.push8(c.GetStatusByte())
	c.setFlag(FlagI, true)
	c.setFlag(FlagD, false)
	c.PBR = 0
	if c.E {
		c.PC = c.read16(0, VectorCOPEmu)
	} else {
		c.PC = c.read16(0, VectorCOPNative)
	}
	return 0
}
