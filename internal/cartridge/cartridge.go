// Package cartridge implements ROM loading, header parsing and
// LoROM/HiROM address mapping for SNES cartridges.
package cartridge

import (
	"fmt"
	"io"
)

// MappingMode selects the bank/offset-to-ROM-offset decomposition.
type MappingMode uint8

const (
	MappingLoROM MappingMode = iota
	MappingHiROM
)

func (m MappingMode) String() string {
	if m == MappingHiROM {
		return "HiROM"
	}
	return "LoROM"
}

// Region is the header's region/country byte.
type Region uint8

// Header holds the parsed fields of the internal ROM header (§6).
type Header struct {
	Title        string
	Mapping      MappingMode
	ROMTypeByte  uint8
	ROMSizeLog2  uint8
	SRAMSizeLog2 uint8
	Region       Region
	Maker        uint16
	Version      uint8
	Complement   uint16
	Checksum     uint16
	ResetVector  uint16
	NMIVector    uint16
	IRQVector    uint16
}

// ROMSize returns the declared ROM size in bytes (1 << ROMSizeLog2 KiB).
func (h Header) ROMSize() int {
	if h.ROMSizeLog2 == 0 {
		return 0
	}
	return 1024 << h.ROMSizeLog2
}

// SRAMSize returns the declared SRAM size in bytes.
func (h Header) SRAMSize() int {
	if h.SRAMSizeLog2 == 0 {
		return 0
	}
	return 1024 << h.SRAMSizeLog2
}

// Error is the CartridgeError taxonomy member (§7): malformed header,
// unsupported mapping, or a truncated ROM image. It is never returned
// from anything except the loading boundary.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("cartridge: %s", e.Reason) }

func errf(format string, args ...any) error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// Cartridge owns the immutable ROM bytes, mutable SRAM (if present) and
// the parsed Header, and answers 24-bit-address byte reads/writes per
// the selected mapping mode.
type Cartridge struct {
	rom    []uint8
	sram   []uint8
	header Header
}

// Load parses raw (already SMC-header-stripped or not) .sfc bytes into a
// Cartridge, auto-detecting and stripping a 512-byte copier header, then
// scoring both LoROM and HiROM header locations and picking the higher.
func Load(data []byte) (*Cartridge, error) {
	data = stripCopierHeader(data)
	if len(data) < 0x8000 {
		return nil, errf("truncated ROM: %d bytes, need at least 32 KiB", len(data))
	}

	loScore := scoreHeader(data, loHeaderOffset)
	hiScore := scoreHeader(data, hiHeaderOffset)

	mode := MappingLoROM
	offset := loHeaderOffset
	if hiScore > loScore {
		mode = MappingHiROM
		offset = hiHeaderOffset
	}
	if offset+0x40 > len(data) {
		return nil, errf("truncated ROM: header region at 0x%X not present", offset)
	}

	h, err := parseHeader(data, offset, mode)
	if err != nil {
		return nil, err
	}

	sramSize := h.SRAMSize()
	var sram []uint8
	if sramSize > 0 {
		sram = make([]uint8, sramSize)
	}

	return &Cartridge{rom: data, sram: sram, header: h}, nil
}

// LoadFromReader reads all of r and loads it as a cartridge image.
func LoadFromReader(r io.Reader) (*Cartridge, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errf("reading ROM: %v", err)
	}
	return Load(data)
}

func stripCopierHeader(data []byte) []byte {
	if len(data)%0x8000 == 512 {
		return data[512:]
	}
	return data
}

const (
	loHeaderOffset = 0x7FC0
	hiHeaderOffset = 0xFFC0
)

// scoreHeader applies the standard checksum/complement and vector-sanity
// heuristic used to disambiguate LoROM from HiROM headers.
func scoreHeader(data []byte, offset int) int {
	if offset+0x40 > len(data) {
		return -1
	}
	score := 0

	checksum := le16(data, offset+0x1C)
	complement := le16(data, offset+0x1E)
	if checksum^complement == 0xFFFF && checksum != 0 {
		score += 8
	}

	resetVector := le16(data, offset+0x3C)
	if resetVector >= 0x8000 {
		score += 4
	}

	mappingByte := data[offset+0x15]
	switch mappingByte & 0x0F {
	case 0x00, 0x01, 0x02, 0x03, 0x05, 0x0A:
		score += 2
	}

	for i := 0; i < 21; i++ {
		c := data[offset+i]
		if c < 0x20 || c > 0x7E {
			if c != 0x00 {
				score--
			}
		}
	}

	return score
}

func parseHeader(data []byte, offset int, mode MappingMode) (Header, error) {
	title := make([]byte, 0, 21)
	for i := 0; i < 21; i++ {
		c := data[offset+i]
		if c == 0 {
			break
		}
		title = append(title, c)
	}

	h := Header{
		Title:        string(title),
		Mapping:      mode,
		ROMTypeByte:  data[offset+0x16],
		ROMSizeLog2:  data[offset+0x17],
		SRAMSizeLog2: data[offset+0x18],
		Region:       Region(data[offset+0x19]),
		Maker:        le16(data, offset+0x1A),
		Version:      data[offset+0x1B],
		Checksum:     le16(data, offset+0x1C),
		Complement:   le16(data, offset+0x1E),
	}

	vectorTable := offset + 0x20
	if vectorTable+0x20 > len(data) {
		return Header{}, errf("truncated ROM: native vector table not present")
	}
	h.ResetVector = le16(data, vectorTable+0x1C)
	h.NMIVector = le16(data, vectorTable+0x1A)
	h.IRQVector = le16(data, vectorTable+0x1E)

	return h, nil
}

func le16(data []byte, offset int) uint16 {
	return uint16(data[offset]) | uint16(data[offset+1])<<8
}

// Header returns the parsed header.
func (c *Cartridge) Header() Header { return c.header }

// HasSRAM reports whether the cartridge declares battery-backed SRAM.
func (c *Cartridge) HasSRAM() bool { return len(c.sram) > 0 }

// SRAM returns the mutable SRAM backing store, or nil if none.
func (c *Cartridge) SRAM() []uint8 { return c.sram }

// ROM returns the raw immutable ROM bytes.
func (c *Cartridge) ROM() []uint8 { return c.rom }

// Read returns the byte at a 24-bit main-bus address, decoded per the
// cartridge's mapping mode. ok is false if the address does not land in
// ROM or SRAM (the bus treats that as open bus).
func (c *Cartridge) Read(bank uint8, offset uint16) (value uint8, ok bool) {
	if c.header.Mapping == MappingHiROM {
		return c.readHiROM(bank, offset)
	}
	return c.readLoROM(bank, offset)
}

// Write stores to SRAM if the address lands in the SRAM window and
// reports false otherwise (cartridges are read-only outside of SRAM);
// the bus discards such a write and emits an anomaly event for it.
func (c *Cartridge) Write(bank uint8, offset uint16, value uint8) (ok bool) {
	if c.header.Mapping == MappingHiROM {
		return c.writeHiROM(bank, offset, value)
	}
	return c.writeLoROM(bank, offset, value)
}

func (c *Cartridge) readLoROM(bank uint8, offset uint16) (uint8, bool) {
	b := bank & 0x7F
	fullWindow := (bank >= 0x40 && bank <= 0x7D) || bank >= 0xC0
	switch {
	case fullWindow && offset < 0x8000:
		romOffset := int(b)*0x8000 + int(offset)
		if romOffset < len(c.rom) {
			return c.rom[romOffset], true
		}
		return 0, false
	case (bank <= 0x3F || (bank >= 0x80 && bank <= 0xBF)) && offset >= 0x6000 && offset <= 0x7FFF:
		if len(c.sram) == 0 {
			return 0, false
		}
		idx := int(offset-0x6000) % len(c.sram)
		return c.sram[idx], true
	case offset >= 0x8000:
		romOffset := int(b)*0x8000 + int(offset-0x8000)
		if romOffset < len(c.rom) {
			return c.rom[romOffset], true
		}
		return 0, false
	default:
		return 0, false
	}
}

func (c *Cartridge) writeLoROM(bank uint8, offset uint16, value uint8) bool {
	if (bank <= 0x3F || (bank >= 0x80 && bank <= 0xBF)) && offset >= 0x6000 && offset <= 0x7FFF {
		if len(c.sram) == 0 {
			return false
		}
		idx := int(offset-0x6000) % len(c.sram)
		c.sram[idx] = value
		return true
	}
	return false
}

func (c *Cartridge) readHiROM(bank uint8, offset uint16) (uint8, bool) {
	fullWindow := (bank >= 0x40 && bank <= 0x7D) || bank >= 0xC0
	b := bank & 0x3F
	switch {
	case fullWindow:
		romOffset := int(b)*0x10000 + int(offset)
		if romOffset < len(c.rom) {
			return c.rom[romOffset], true
		}
		return 0, false
	case (bank <= 0x3F || (bank >= 0x80 && bank <= 0xBF)) && offset >= 0x6000 && offset <= 0x7FFF:
		if len(c.sram) == 0 {
			return 0, false
		}
		idx := int(offset-0x6000) % len(c.sram)
		return c.sram[idx], true
	case offset >= 0x8000:
		romOffset := int(b)*0x10000 + int(offset)
		if romOffset < len(c.rom) {
			return c.rom[romOffset], true
		}
		return 0, false
	default:
		return 0, false
	}
}

func (c *Cartridge) writeHiROM(bank uint8, offset uint16, value uint8) bool {
	if (bank <= 0x3F || (bank >= 0x80 && bank <= 0xBF)) && offset >= 0x6000 && offset <= 0x7FFF {
		if len(c.sram) == 0 {
			return false
		}
		idx := int(offset-0x6000) % len(c.sram)
		c.sram[idx] = value
		return true
	}
	return false
}
