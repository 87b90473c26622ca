package cpu65816

// instruction is one opcode's static metadata: mnemonic (used only for
// disassembly/debug events), addressing mode and base CPU cycle count
// before width/page/dp penalties.
type instruction struct {
	name   string
	mode   Mode
	cycles uint8
}

// instructions is the 256-entry opcode table, populated once in init.
// Every 65C816 opcode is defined (unlike the 6502, there are no illegal
// opcodes in the base instruction set).
var instructions [256]instruction

func def(opcode uint8, name string, mode Mode, cycles uint8) {
	instructions[opcode] = instruction{name: name, mode: mode, cycles: cycles}
}

func init() {
	// Load/Store
	def(0xA9, "LDA", ModeImmediateM, 2)
	def(0xA5, "LDA", ModeDirect, 3)
	def(0xB5, "LDA", ModeDirectX, 4)
	def(0xAD, "LDA", ModeAbsolute, 4)
	def(0xBD, "LDA", ModeAbsoluteX, 4)
	def(0xB9, "LDA", ModeAbsoluteY, 4)
	def(0xAF, "LDA", ModeAbsoluteLong, 5)
	def(0xBF, "LDA", ModeAbsoluteLongX, 5)
	def(0xA1, "LDA", ModeDirectIndirectX, 6)
	def(0xB1, "LDA", ModeDirectIndirectY, 5)
	def(0xB2, "LDA", ModeDirectIndirect, 5)
	def(0xA7, "LDA", ModeDirectIndirectLong, 6)
	def(0xB7, "LDA", ModeDirectIndirectLongY, 6)
	def(0xA3, "LDA", ModeStackRelative, 4)
	def(0xB3, "LDA", ModeStackRelativeIndirectY, 7)

	def(0xA2, "LDX", ModeImmediateX, 2)
	def(0xA6, "LDX", ModeDirect, 3)
	def(0xB6, "LDX", ModeDirectY, 4)
	def(0xAE, "LDX", ModeAbsolute, 4)
	def(0xBE, "LDX", ModeAbsoluteY, 4)

	def(0xA0, "LDY", ModeImmediateX, 2)
	def(0xA4, "LDY", ModeDirect, 3)
	def(0xB4, "LDY", ModeDirectX, 4)
	def(0xAC, "LDY", ModeAbsolute, 4)
	def(0xBC, "LDY", ModeAbsoluteX, 4)

	def(0x85, "STA", ModeDirect, 3)
	def(0x95, "STA", ModeDirectX, 4)
	def(0x8D, "STA", ModeAbsolute, 4)
	def(0x9D, "STA", ModeAbsoluteX, 5)
	def(0x99, "STA", ModeAbsoluteY, 5)
	def(0x8F, "STA", ModeAbsoluteLong, 5)
	def(0x9F, "STA", ModeAbsoluteLongX, 5)
	def(0x81, "STA", ModeDirectIndirectX, 6)
	def(0x91, "STA", ModeDirectIndirectY, 6)
	def(0x92, "STA", ModeDirectIndirect, 5)
	def(0x87, "STA", ModeDirectIndirectLong, 6)
	def(0x97, "STA", ModeDirectIndirectLongY, 6)
	def(0x83, "STA", ModeStackRelative, 4)
	def(0x93, "STA", ModeStackRelativeIndirectY, 7)

	def(0x86, "STX", ModeDirect, 3)
	def(0x96, "STX", ModeDirectY, 4)
	def(0x8E, "STX", ModeAbsolute, 4)

	def(0x84, "STY", ModeDirect, 3)
	def(0x94, "STY", ModeDirectX, 4)
	def(0x8C, "STY", ModeAbsolute, 4)

	def(0x64, "STZ", ModeDirect, 3)
	def(0x74, "STZ", ModeDirectX, 4)
	def(0x9C, "STZ", ModeAbsolute, 4)
	def(0x9E, "STZ", ModeAbsoluteX, 5)

	// Arithmetic
	def(0x69, "ADC", ModeImmediateM, 2)
	def(0x65, "ADC", ModeDirect, 3)
	def(0x75, "ADC", ModeDirectX, 4)
	def(0x6D, "ADC", ModeAbsolute, 4)
	def(0x7D, "ADC", ModeAbsoluteX, 4)
	def(0x79, "ADC", ModeAbsoluteY, 4)
	def(0x6F, "ADC", ModeAbsoluteLong, 5)
	def(0x7F, "ADC", ModeAbsoluteLongX, 5)
	def(0x61, "ADC", ModeDirectIndirectX, 6)
	def(0x71, "ADC", ModeDirectIndirectY, 5)
	def(0x72, "ADC", ModeDirectIndirect, 5)
	def(0x67, "ADC", ModeDirectIndirectLong, 6)
	def(0x77, "ADC", ModeDirectIndirectLongY, 6)
	def(0x63, "ADC", ModeStackRelative, 4)
	def(0x73, "ADC", ModeStackRelativeIndirectY, 7)

	def(0xE9, "SBC", ModeImmediateM, 2)
	def(0xE5, "SBC", ModeDirect, 3)
	def(0xF5, "SBC", ModeDirectX, 4)
	def(0xED, "SBC", ModeAbsolute, 4)
	def(0xFD, "SBC", ModeAbsoluteX, 4)
	def(0xF9, "SBC", ModeAbsoluteY, 4)
	def(0xEF, "SBC", ModeAbsoluteLong, 5)
	def(0xFF, "SBC", ModeAbsoluteLongX, 5)
	def(0xE1, "SBC", ModeDirectIndirectX, 6)
	def(0xF1, "SBC", ModeDirectIndirectY, 5)
	def(0xF2, "SBC", ModeDirectIndirect, 5)
	def(0xE7, "SBC", ModeDirectIndirectLong, 6)
	def(0xF7, "SBC", ModeDirectIndirectLongY, 6)
	def(0xE3, "SBC", ModeStackRelative, 4)
	def(0xF3, "SBC", ModeStackRelativeIndirectY, 7)

	def(0xC9, "CMP", ModeImmediateM, 2)
	def(0xC5, "CMP", ModeDirect, 3)
	def(0xD5, "CMP", ModeDirectX, 4)
	def(0xCD, "CMP", ModeAbsolute, 4)
	def(0xDD, "CMP", ModeAbsoluteX, 4)
	def(0xD9, "CMP", ModeAbsoluteY, 4)
	def(0xCF, "CMP", ModeAbsoluteLong, 5)
	def(0xDF, "CMP", ModeAbsoluteLongX, 5)
	def(0xC1, "CMP", ModeDirectIndirectX, 6)
	def(0xD1, "CMP", ModeDirectIndirectY, 5)
	def(0xD2, "CMP", ModeDirectIndirect, 5)
	def(0xC7, "CMP", ModeDirectIndirectLong, 6)
	def(0xD7, "CMP", ModeDirectIndirectLongY, 6)
	def(0xC3, "CMP", ModeStackRelative, 4)
	def(0xD3, "CMP", ModeStackRelativeIndirectY, 7)

	def(0xE0, "CPX", ModeImmediateX, 2)
	def(0xE4, "CPX", ModeDirect, 3)
	def(0xEC, "CPX", ModeAbsolute, 4)

	def(0xC0, "CPY", ModeImmediateX, 2)
	def(0xC4, "CPY", ModeDirect, 3)
	def(0xCC, "CPY", ModeAbsolute, 4)

	// Logic
	def(0x29, "AND", ModeImmediateM, 2)
	def(0x25, "AND", ModeDirect, 3)
	def(0x35, "AND", ModeDirectX, 4)
	def(0x2D, "AND", ModeAbsolute, 4)
	def(0x3D, "AND", ModeAbsoluteX, 4)
	def(0x39, "AND", ModeAbsoluteY, 4)
	def(0x2F, "AND", ModeAbsoluteLong, 5)
	def(0x3F, "AND", ModeAbsoluteLongX, 5)
	def(0x21, "AND", ModeDirectIndirectX, 6)
	def(0x31, "AND", ModeDirectIndirectY, 5)
	def(0x32, "AND", ModeDirectIndirect, 5)
	def(0x27, "AND", ModeDirectIndirectLong, 6)
	def(0x37, "AND", ModeDirectIndirectLongY, 6)
	def(0x23, "AND", ModeStackRelative, 4)
	def(0x33, "AND", ModeStackRelativeIndirectY, 7)

	def(0x09, "ORA", ModeImmediateM, 2)
	def(0x05, "ORA", ModeDirect, 3)
	def(0x15, "ORA", ModeDirectX, 4)
	def(0x0D, "ORA", ModeAbsolute, 4)
	def(0x1D, "ORA", ModeAbsoluteX, 4)
	def(0x19, "ORA", ModeAbsoluteY, 4)
	def(0x0F, "ORA", ModeAbsoluteLong, 5)
	def(0x1F, "ORA", ModeAbsoluteLongX, 5)
	def(0x01, "ORA", ModeDirectIndirectX, 6)
	def(0x11, "ORA", ModeDirectIndirectY, 5)
	def(0x12, "ORA", ModeDirectIndirect, 5)
	def(0x07, "ORA", ModeDirectIndirectLong, 6)
	def(0x17, "ORA", ModeDirectIndirectLongY, 6)
	def(0x03, "ORA", ModeStackRelative, 4)
	def(0x13, "ORA", ModeStackRelativeIndirectY, 7)

	def(0x49, "EOR", ModeImmediateM, 2)
	def(0x45, "EOR", ModeDirect, 3)
	def(0x55, "EOR", ModeDirectX, 4)
	def(0x4D, "EOR", ModeAbsolute, 4)
	def(0x5D, "EOR", ModeAbsoluteX, 4)
	def(0x59, "EOR", ModeAbsoluteY, 4)
	def(0x4F, "EOR", ModeAbsoluteLong, 5)
	def(0x5F, "EOR", ModeAbsoluteLongX, 5)
	def(0x41, "EOR", ModeDirectIndirectX, 6)
	def(0x51, "EOR", ModeDirectIndirectY, 5)
	def(0x52, "EOR", ModeDirectIndirect, 5)
	def(0x47, "EOR", ModeDirectIndirectLong, 6)
	def(0x57, "EOR", ModeDirectIndirectLongY, 6)
	def(0x43, "EOR", ModeStackRelative, 4)
	def(0x53, "EOR", ModeStackRelativeIndirectY, 7)

	def(0x24, "BIT", ModeDirect, 3)
	def(0x2C, "BIT", ModeAbsolute, 4)
	def(0x34, "BIT", ModeDirectX, 4)
	def(0x3C, "BIT", ModeAbsoluteX, 4)
	def(0x89, "BIT", ModeImmediateM, 2)

	def(0x14, "TRB", ModeDirect, 5)
	def(0x1C, "TRB", ModeAbsolute, 6)
	def(0x04, "TSB", ModeDirect, 5)
	def(0x0C, "TSB", ModeAbsolute, 6)

	// Shift/rotate
	def(0x0A, "ASL", ModeAccumulator, 2)
	def(0x06, "ASL", ModeDirect, 5)
	def(0x16, "ASL", ModeDirectX, 6)
	def(0x0E, "ASL", ModeAbsolute, 6)
	def(0x1E, "ASL", ModeAbsoluteX, 7)

	def(0x4A, "LSR", ModeAccumulator, 2)
	def(0x46, "LSR", ModeDirect, 5)
	def(0x56, "LSR", ModeDirectX, 6)
	def(0x4E, "LSR", ModeAbsolute, 6)
	def(0x5E, "LSR", ModeAbsoluteX, 7)

	def(0x2A, "ROL", ModeAccumulator, 2)
	def(0x26, "ROL", ModeDirect, 5)
	def(0x36, "ROL", ModeDirectX, 6)
	def(0x2E, "ROL", ModeAbsolute, 6)
	def(0x3E, "ROL", ModeAbsoluteX, 7)

	def(0x6A, "ROR", ModeAccumulator, 2)
	def(0x66, "ROR", ModeDirect, 5)
	def(0x76, "ROR", ModeDirectX, 6)
	def(0x6E, "ROR", ModeAbsolute, 6)
	def(0x7E, "ROR", ModeAbsoluteX, 7)

	// Inc/dec
	def(0x1A, "INC", ModeAccumulator, 2)
	def(0xE6, "INC", ModeDirect, 5)
	def(0xF6, "INC", ModeDirectX, 6)
	def(0xEE, "INC", ModeAbsolute, 6)
	def(0xFE, "INC", ModeAbsoluteX, 7)

	def(0x3A, "DEC", ModeAccumulator, 2)
	def(0xC6, "DEC", ModeDirect, 5)
	def(0xD6, "DEC", ModeDirectX, 6)
	def(0xCE, "DEC", ModeAbsolute, 6)
	def(0xDE, "DEC", ModeAbsoluteX, 7)

	def(0xE8, "INX", ModeImplied, 2)
	def(0xC8, "INY", ModeImplied, 2)
	def(0xCA, "DEX", ModeImplied, 2)
	def(0x88, "DEY", ModeImplied, 2)

	// Transfers
	def(0xAA, "TAX", ModeImplied, 2)
	def(0xA8, "TAY", ModeImplied, 2)
	def(0x8A, "TXA", ModeImplied, 2)
	def(0x98, "TYA", ModeImplied, 2)
	def(0x9A, "TXS", ModeImplied, 2)
	def(0xBA, "TSX", ModeImplied, 2)
	def(0x9B, "TXY", ModeImplied, 2)
	def(0xBB, "TYX", ModeImplied, 2)
	def(0x5B, "TCD", ModeImplied, 2)
	def(0x7B, "TDC", ModeImplied, 2)
	def(0x1B, "TCS", ModeImplied, 2)
	def(0x3B, "TSC", ModeImplied, 2)

	// Stack
	def(0x48, "PHA", ModeImplied, 3)
	def(0x68, "PLA", ModeImplied, 4)
	def(0xDA, "PHX", ModeImplied, 3)
	def(0xFA, "PLX", ModeImplied, 4)
	def(0x5A, "PHY", ModeImplied, 3)
	def(0x7A, "PLY", ModeImplied, 4)
	def(0x08, "PHP", ModeImplied, 3)
	def(0x28, "PLP", ModeImplied, 4)
	def(0x8B, "PHB", ModeImplied, 3)
	def(0xAB, "PLB", ModeImplied, 4)
	def(0x0B, "PHD", ModeImplied, 4)
	def(0x2B, "PLD", ModeImplied, 5)
	def(0x4B, "PHK", ModeImplied, 3)
	def(0xF4, "PEA", ModeAbsolute, 5)
	def(0xD4, "PEI", ModeDirectIndirect, 6)
	def(0x62, "PER", ModeRelativeLong, 6)

	// Flags
	def(0x18, "CLC", ModeImplied, 2)
	def(0x38, "SEC", ModeImplied, 2)
	def(0x58, "CLI", ModeImplied, 2)
	def(0x78, "SEI", ModeImplied, 2)
	def(0xB8, "CLV", ModeImplied, 2)
	def(0xD8, "CLD", ModeImplied, 2)
	def(0xF8, "SED", ModeImplied, 2)
	def(0xC2, "REP", ModeImmediate8, 3)
	def(0xE2, "SEP", ModeImmediate8, 3)
	def(0xFB, "XCE", ModeImplied, 2)

	// Control flow
	def(0x4C, "JMP", ModeAbsolute, 3)
	def(0x6C, "JMP", ModeAbsoluteIndirect, 5)
	def(0x7C, "JMP", ModeAbsoluteIndirectX, 6)
	def(0x5C, "JML", ModeAbsoluteLong, 4)
	def(0xDC, "JML", ModeAbsoluteIndirectLong, 6)
	def(0x20, "JSR", ModeAbsolute, 6)
	def(0xFC, "JSR", ModeAbsoluteIndirectX, 8)
	def(0x22, "JSL", ModeAbsoluteLong, 8)
	def(0x60, "RTS", ModeImplied, 6)
	def(0x6B, "RTL", ModeImplied, 6)
	def(0x40, "RTI", ModeImplied, 6)

	// Branches
	def(0x90, "BCC", ModeRelative, 2)
	def(0xB0, "BCS", ModeRelative, 2)
	def(0xF0, "BEQ", ModeRelative, 2)
	def(0xD0, "BNE", ModeRelative, 2)
	def(0x10, "BPL", ModeRelative, 2)
	def(0x30, "BMI", ModeRelative, 2)
	def(0x50, "BVC", ModeRelative, 2)
	def(0x70, "BVS", ModeRelative, 2)
	def(0x80, "BRA", ModeRelative, 3)
	def(0x82, "BRL", ModeRelativeLong, 4)

	// Block move
	def(0x54, "MVN", ModeBlockMove, 7)
	def(0x44, "MVP", ModeBlockMove, 7)

	// Misc
	def(0xEA, "NOP", ModeImplied, 2)
	def(0xEB, "XBA", ModeImplied, 3)
	def(0x42, "WDM", ModeImmediate8, 2)
	def(0xDB, "STP", ModeImplied, 3)
	def(0xCB, "WAI", ModeImplied, 3)
	def(0x00, "BRK", ModeImmediate8, 7)
	def(0x02, "COP", ModeImmediate8, 7)
}
