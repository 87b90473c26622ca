package apu

import "snescore/internal/debug"

// apuMemory backs the SPC700's 64 KiB address space: general RAM, the
// overlaid I/O window at 0x00F0-0x00FF, and the boot ROM at the top of
// the space when enabled by the control register (§4.3).
type apuMemory struct {
	ram     [0x10000]uint8
	bootROM [64]uint8
	bootMap bool

	ports [4]struct {
		toSPC uint8 // CPU writes here, SPC700 reads
		toCPU uint8 // SPC700 writes here, CPU reads
	}

	timers [3]apuTimer

	dspAddr uint8
	dsp     *DSP
}

type apuTimer struct {
	enabled bool
	target  uint8
	divider uint8
	out     uint8 // 4-bit output counter, read-and-clear
}

// tick advances a timer by one raw SPC700 cycle (1.024 MHz). Real
// hardware prescales T0/T1 to 8 kHz and T2 to 64 kHz before comparing
// against target; this ticks divider at the full SPC700 rate instead,
// a documented simplification, so target should be read as "SPC700
// cycles per output increment" rather than the real 8/64 kHz count.
func (t *apuTimer) tick() {
	if !t.enabled {
		return
	}
	t.divider++
	if t.divider >= t.target || t.target == 0 {
		t.divider = 0
		t.out = (t.out + 1) & 0x0F
	}
}

func newAPUMemory(dsp *DSP) *apuMemory {
	return &apuMemory{dsp: dsp}
}

func (m *apuMemory) read(addr uint16) uint8 {
	switch {
	case addr == 0x00F1:
		return 0
	case addr == 0x00F2:
		return m.dspAddr
	case addr == 0x00F3:
		return m.dsp.ReadRegister(m.dspAddr)
	case addr >= 0x00F4 && addr <= 0x00F7:
		return m.ports[addr-0x00F4].toSPC
	case addr >= 0x00FD && addr <= 0x00FF:
		t := &m.timers[addr-0x00FD]
		v := t.out
		t.out = 0
		return v
	case m.bootMap && addr >= 0xFFC0:
		return m.bootROM[addr-0xFFC0]
	default:
		return m.ram[addr]
	}
}

func (m *apuMemory) write(addr uint16, v uint8) {
	switch {
	case addr == 0x00F1:
		for i := range m.timers {
			wasEnabled := m.timers[i].enabled
			nowEnabled := v&(1<<uint(i)) != 0
			if nowEnabled && !wasEnabled {
				m.timers[i].divider, m.timers[i].out = 0, 0
			}
			m.timers[i].enabled = nowEnabled
		}
		m.bootMap = v&0x80 != 0
	case addr == 0x00F2:
		m.dspAddr = v
	case addr == 0x00F3:
		m.dsp.WriteRegister(m.dspAddr, v)
	case addr >= 0x00F4 && addr <= 0x00F7:
		m.ports[addr-0x00F4].toCPU = v
	case addr == 0x00FA:
		m.timers[0].target = v
	case addr == 0x00FB:
		m.timers[1].target = v
	case addr == 0x00FC:
		m.timers[2].target = v
	case addr == 0x00F8 || addr == 0x00F9:
		m.ram[addr] = v // auxiliary I/O ports, data-only on this core
	default:
		m.ram[addr] = v
	}
}

// APU composes the SPC700, its memory/timer/port substrate, and the
// S-DSP, plus the master-clock bridge that keeps the 1.024 MHz sound
// domain phase-locked to the CPU (§4.3, §5).
type APU struct {
	cpu *SPC700
	mem *apuMemory
	dsp *DSP

	clockRemainder int64 // goes negative while a multi-cycle instruction is paid off
	sampleRemainder uint64
	samples        []int16 // interleaved stereo, appended until drained

	dbg *debug.Debugger
}

// Master clock to SPC700 clock ratio: 21.477 MHz / ~1.024 MHz ≈ 21:1,
// tracked as a fixed-point remainder so long runs don't drift (§4.3).
const (
	masterClockHz = 21477272
	spcClockHz    = 1024000
	dspSampleRate = 32000
)

func New(dbg *debug.Debugger) *APU {
	dsp := newDSP()
	mem := newAPUMemory(dsp)
	copy(mem.bootROM[:], defaultBootROM[:])
	dsp.bindRAM(&mem.ram)
	a := &APU{cpu: newSPC700(mem), mem: mem, dsp: dsp, dbg: dbg}
	return a
}

func (a *APU) Reset() {
	a.mem.bootMap = true
	for i := range a.mem.ports {
		a.mem.ports[i] = struct{ toSPC, toCPU uint8 }{}
	}
	a.cpu.Reset()
	a.dsp.Reset()
	a.clockRemainder = 0
	a.sampleRemainder = 0
	a.samples = a.samples[:0]
}

// CatchUp advances the APU by masterCycles worth of master-clock time,
// converting via the integer-remainder bridge described in §5.
func (a *APU) CatchUp(masterCycles uint64) {
	a.clockRemainder += int64(masterCycles) * spcClockHz
	for a.clockRemainder >= masterClockHz {
		cycles := a.stepInstruction()
		a.clockRemainder -= int64(cycles) * masterClockHz
	}
}

// stepInstruction runs one SPC700 instruction, ticks the timers and the
// DSP sample clock by its cycle count, and returns that count.
func (a *APU) stepInstruction() uint8 {
	cycles := a.cpu.Step()
	for i := uint8(0); i < cycles; i++ {
		a.mem.timers[0].tick()
		a.mem.timers[1].tick()
		a.mem.timers[2].tick()
	}
	a.sampleRemainder += uint64(cycles) * dspSampleRate
	for a.sampleRemainder >= spcClockHz {
		a.sampleRemainder -= spcClockHz
		l, r := a.dsp.Tick()
		a.samples = append(a.samples, l, r)
	}
	return cycles
}

// ReadPort/WritePort are the CPU-visible halves of the four bidirectional
// ports at 0x2140-0x2143 (mirrored through 0x217F on the main bus).
func (a *APU) ReadPort(n uint8) uint8  { return a.mem.ports[n&0x03].toCPU }
func (a *APU) WritePort(n uint8, v uint8) { a.mem.ports[n&0x03].toSPC = v }

// DrainSamples returns and clears buffered stereo samples (§9 audio
// buffer swap, 16-bit stereo at 32000 Hz).
func (a *APU) DrainSamples() []int16 {
	out := a.samples
	a.samples = nil
	return out
}

// defaultBootROM is the 64-byte IPL ROM stub: it is not the real
// Sony-authored boot code (not redistributable). It writes the AA/BB
// ready signature to ports 0 and 1 and then spins; it does not answer
// the CC upload handshake, so CPU code that waits for that echo keeps
// waiting.
var defaultBootROM = buildBootROMStub()

func buildBootROMStub() [64]uint8 {
	var rom [64]uint8
	// MOV X,#$EF; MOV SP,X; MOV A,#$AA; MOV Y,#$BB; MOV $F4,A; MOV $F5,Y; loop: BRA loop
	prog := []uint8{
		0xCD, 0xEF, // MOV X,#$EF
		0xBD,       // MOV SP,X
		0xE8, 0xAA, // MOV A,#$AA
		0x8D, 0xBB, // MOV Y,#$BB
		0xC4, 0xF4, // MOV $F4,A (writes port0 = 0xAA)
		0xCB, 0xF5, // MOV $F5,Y (writes port1 = 0xBB)
		0x2F, 0xFE, // BRA -2 (spin forever)
	}
	copy(rom[:], prog)
	rom[62] = 0xC0
	rom[63] = 0xFF // reset vector low/high within the ROM's own window is set via FFC0 mapping
	return rom
}
