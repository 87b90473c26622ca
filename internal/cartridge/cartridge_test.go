package cartridge

import "testing"

func buildLoROM(title string, resetVector uint16, romSize int) []byte {
	data := make([]byte, romSize)
	copy(data[loHeaderOffset:], title)
	data[loHeaderOffset+0x15] = 0x20 // LoROM, slow
	data[loHeaderOffset+0x17] = 0x0B // ROM size
	data[loHeaderOffset+0x18] = 0x03 // SRAM size
	vectorTable := loHeaderOffset + 0x20
	data[vectorTable+0x1C] = uint8(resetVector)
	data[vectorTable+0x1D] = uint8(resetVector >> 8)
	checksum := uint16(0x1234)
	data[loHeaderOffset+0x1C] = uint8(checksum)
	data[loHeaderOffset+0x1D] = uint8(checksum >> 8)
	complement := ^checksum
	data[loHeaderOffset+0x1E] = uint8(complement)
	data[loHeaderOffset+0x1F] = uint8(complement >> 8)
	return data
}

func TestLoad_ShouldParseLoROMHeader(t *testing.T) {
	data := buildLoROM("TEST GAME", 0x8000, 0x10000)

	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	h := cart.Header()
	if h.Mapping != MappingLoROM {
		t.Errorf("Mapping = %v, want LoROM", h.Mapping)
	}
	if h.Title != "TEST GAME" {
		t.Errorf("Title = %q, want %q", h.Title, "TEST GAME")
	}
	if h.ResetVector != 0x8000 {
		t.Errorf("ResetVector = %04X, want 8000", h.ResetVector)
	}
	if h.SRAMSize() != 8*1024 {
		t.Errorf("SRAMSize() = %d, want 8192", h.SRAMSize())
	}
}

func TestLoad_ShouldStripCopierHeader(t *testing.T) {
	inner := buildLoROM("HEADERED", 0x8000, 0x10000)
	withSMC := append(make([]byte, 512), inner...)

	cart, err := Load(withSMC)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cart.Header().Title != "HEADERED" {
		t.Errorf("Title = %q, want %q", cart.Header().Title, "HEADERED")
	}
}

func TestLoad_ShouldRejectTruncatedROM(t *testing.T) {
	if _, err := Load(make([]byte, 100)); err == nil {
		t.Fatal("expected error for truncated ROM")
	}
}

func TestLoROMRead_ShouldDecodeBankOffsetToROMOffset(t *testing.T) {
	data := buildLoROM("BANKTEST", 0x8000, 0x40000) // 8 banks * 0x8000; each bank maps its 0x8000..0xFFFF half
	data[0*0x8000+0] = 0xAA // bank 0, offset 0x8000 -> romOffset 0
	data[1*0x8000+5] = 0xBB // bank 1, offset 0x8005 -> romOffset 0x8005

	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if v, ok := cart.Read(0x00, 0x8000); !ok || v != 0xAA {
		t.Errorf("Read(00:8000) = %02X, ok=%v, want AA, true", v, ok)
	}
	if v, ok := cart.Read(0x01, 0x8005); !ok || v != 0xBB {
		t.Errorf("Read(01:8005) = %02X, ok=%v, want BB, true", v, ok)
	}
}

func TestLoROMSRAM_ShouldRoundTripWrites(t *testing.T) {
	data := buildLoROM("SRAMTEST", 0x8000, 0x10000)
	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cart.HasSRAM() {
		t.Fatal("expected cartridge to declare SRAM")
	}

	if ok := cart.Write(0x00, 0x6010, 0x42); !ok {
		t.Fatal("expected SRAM write to succeed")
	}
	v, ok := cart.Read(0x00, 0x6010)
	if !ok || v != 0x42 {
		t.Errorf("Read(00:6010) = %02X, ok=%v, want 42, true", v, ok)
	}
}

func TestLoad_ShouldPreferHigherScoringHeader(t *testing.T) {
	// Build a ROM with a valid LoROM-scoring header and garbage at the
	// HiROM location; LoROM should win.
	data := buildLoROM("SCORE TEST", 0x8000, 0x10000)
	for i := 0; i < 0x40; i++ {
		data[hiHeaderOffset+i] = 0xFF
	}

	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cart.Header().Mapping != MappingLoROM {
		t.Errorf("Mapping = %v, want LoROM", cart.Header().Mapping)
	}
}
