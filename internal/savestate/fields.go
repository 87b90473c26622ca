package savestate

import (
	"bytes"
	"encoding/binary"
	"io"

	"snescore/internal/cpu65816"
	"snescore/internal/system"
)

// writeCPU/readCPU (de)serialize the 65C816's register file. Field
// order here is the wire format; it has no relation to struct
// declaration order in cpu65816.CPU.
func writeCPU(buf *bytes.Buffer, s *system.System) {
	c := s.CPU
	binary.Write(buf, binary.LittleEndian, c.C)
	binary.Write(buf, binary.LittleEndian, c.X)
	binary.Write(buf, binary.LittleEndian, c.Y)
	binary.Write(buf, binary.LittleEndian, c.D)
	binary.Write(buf, binary.LittleEndian, c.S)
	binary.Write(buf, binary.LittleEndian, c.PC)
	buf.WriteByte(c.DBR)
	buf.WriteByte(c.PBR)
	buf.WriteByte(uint8(c.P))
	if c.E {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func readCPU(r *bytes.Reader, s *system.System) error {
	c := s.CPU
	for _, target := range []interface{}{&c.C, &c.X, &c.Y, &c.D, &c.S, &c.PC} {
		if err := binary.Read(r, binary.LittleEndian, target); err != nil {
			return &Error{Reason: "truncated CPU state: " + err.Error()}
		}
	}
	dbr, err := r.ReadByte()
	if err != nil {
		return &Error{Reason: "truncated CPU state"}
	}
	pbr, err := r.ReadByte()
	if err != nil {
		return &Error{Reason: "truncated CPU state"}
	}
	p, err := r.ReadByte()
	if err != nil {
		return &Error{Reason: "truncated CPU state"}
	}
	e, err := r.ReadByte()
	if err != nil {
		return &Error{Reason: "truncated CPU state"}
	}
	c.DBR = dbr
	c.PBR = pbr
	c.P = cpu65816.Flag(p)
	c.E = e != 0
	return nil
}

// writeBus/readBus (de)serialize WRAM and VRAM. OAM, CGRAM, the APU's
// RAM, and the PPU, APU/DSP and bus register files are not part of
// the save state; Load leaves them as they were.
func writeBus(buf *bytes.Buffer, s *system.System) {
	buf.Write(s.Bus.WRAM[:])
	for i := 0; i < 0x8000; i++ {
		binary.Write(buf, binary.LittleEndian, s.Bus.PPU.VRAMWord(uint16(i)))
	}
}

func readBus(r *bytes.Reader, s *system.System) error {
	if _, err := io.ReadFull(r, s.Bus.WRAM[:]); err != nil {
		return &Error{Reason: "truncated WRAM: " + err.Error()}
	}
	for i := 0; i < 0x8000; i++ {
		var word uint16
		if err := binary.Read(r, binary.LittleEndian, &word); err != nil {
			return &Error{Reason: "truncated VRAM: " + err.Error()}
		}
		s.Bus.PPU.LoadVRAMWord(uint16(i), word)
	}
	return nil
}
