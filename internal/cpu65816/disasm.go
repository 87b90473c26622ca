package cpu65816

import "fmt"

// Disassemble renders the instruction at bank:pc as text for debug
// events, without mutating CPU state. It peeks operand bytes directly
// through the bus rather than reusing fetch8/decodeOperand, which
// advance PC.
func (c *CPU) Disassemble(bank uint8, pc uint16) string {
	opcode := c.bus.Read(bank, pc)
	instr := instructions[opcode]
	peek := func(n uint16) uint8 { return c.bus.Read(bank, pc+n) }

	switch instr.mode {
	case ModeImplied, ModeAccumulator:
		return instr.name
	case ModeImmediateM, ModeImmediateX, ModeImmediate8:
		if instr.mode == ModeImmediate8 || (instr.mode == ModeImmediateM && c.widthM()) || (instr.mode == ModeImmediateX && c.widthX()) {
			return fmt.Sprintf("%s #$%02X", instr.name, peek(1))
		}
		return fmt.Sprintf("%s #$%02X%02X", instr.name, peek(2), peek(1))
	case ModeDirect:
		return fmt.Sprintf("%s $%02X", instr.name, peek(1))
	case ModeDirectX:
		return fmt.Sprintf("%s $%02X,X", instr.name, peek(1))
	case ModeDirectY:
		return fmt.Sprintf("%s $%02X,Y", instr.name, peek(1))
	case ModeDirectIndirect:
		return fmt.Sprintf("%s ($%02X)", instr.name, peek(1))
	case ModeDirectIndirectLong:
		return fmt.Sprintf("%s [$%02X]", instr.name, peek(1))
	case ModeDirectIndirectX:
		return fmt.Sprintf("%s ($%02X,X)", instr.name, peek(1))
	case ModeDirectIndirectY:
		return fmt.Sprintf("%s ($%02X),Y", instr.name, peek(1))
	case ModeDirectIndirectLongY:
		return fmt.Sprintf("%s [$%02X],Y", instr.name, peek(1))
	case ModeAbsolute:
		return fmt.Sprintf("%s $%02X%02X", instr.name, peek(2), peek(1))
	case ModeAbsoluteX:
		return fmt.Sprintf("%s $%02X%02X,X", instr.name, peek(2), peek(1))
	case ModeAbsoluteY:
		return fmt.Sprintf("%s $%02X%02X,Y", instr.name, peek(2), peek(1))
	case ModeAbsoluteLong:
		return fmt.Sprintf("%s $%02X%02X%02X", instr.name, peek(3), peek(2), peek(1))
	case ModeAbsoluteLongX:
		return fmt.Sprintf("%s $%02X%02X%02X,X", instr.name, peek(3), peek(2), peek(1))
	case ModeAbsoluteIndirect:
		return fmt.Sprintf("%s ($%02X%02X)", instr.name, peek(2), peek(1))
	case ModeAbsoluteIndirectX:
		return fmt.Sprintf("%s ($%02X%02X,X)", instr.name, peek(2), peek(1))
	case ModeAbsoluteIndirectLong:
		return fmt.Sprintf("%s [$%02X%02X]", instr.name, peek(2), peek(1))
	case ModeStackRelative:
		return fmt.Sprintf("%s $%02X,S", instr.name, peek(1))
	case ModeStackRelativeIndirectY:
		return fmt.Sprintf("%s ($%02X,S),Y", instr.name, peek(1))
	case ModeRelative:
		target := uint16(int32(pc) + 2 + int32(int8(peek(1))))
		return fmt.Sprintf("%s $%04X", instr.name, target)
	case ModeRelativeLong:
		disp := int16(uint16(peek(1)) | uint16(peek(2))<<8)
		target := uint16(int32(pc) + 3 + int32(disp))
		return fmt.Sprintf("%s $%04X", instr.name, target)
	case ModeBlockMove:
		return fmt.Sprintf("%s #$%02X,#$%02X", instr.name, peek(2), peek(1))
	default:
		return instr.name
	}
}
