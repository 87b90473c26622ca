// Package system wires the CPU, main bus, PPU, APU, cartridge, and
// debugger into the top-level emulator instance and exposes the
// execute_* API described in §2 and §5.
package system

import (
	"time"

	"snescore/internal/bus"
	"snescore/internal/cartridge"
	"snescore/internal/cpu65816"
	"snescore/internal/debug"
)

// System is the assembled emulator. Per §9's cyclic-reference split,
// the CPU holds the bus, the bus owns the devices, and the debugger is
// a shared non-owning handle; System itself just holds the CPU and a
// convenience reference to the bus for frame/sample draining.
type System struct {
	CPU *cpu65816.CPU
	Bus *bus.Bus
	Dbg *debug.Debugger
}

// New loads romData as a cartridge and assembles a System around it.
func New(romData []byte) (*System, error) {
	cart, err := cartridge.Load(romData)
	if err != nil {
		return nil, err
	}

	dbg := debug.New()
	b := bus.New(cart, dbg)
	c := cpu65816.New(b)

	b.SetNMILine(func() {
		c.NMI(true)
		c.NMI(false)
	})
	b.PPU.SetNMICallback(b.OnVBlankStart)

	s := &System{CPU: c, Bus: b, Dbg: dbg}
	s.Reset()
	return s, nil
}

func (s *System) Reset() {
	s.Bus.Reset()
	s.CPU.Reset()
}

// Outcome is cpu65816.Outcome; an execute_* call that stops because it
// reached its bound reports Normal.
type Outcome = cpu65816.Outcome

const (
	Normal = cpu65816.Normal
	Halt   = cpu65816.Halt
	Break  = cpu65816.BreakOutcome
)

// ExecuteInstruction runs exactly one CPU instruction.
func (s *System) ExecuteInstruction() cpu65816.StepResult {
	return s.CPU.Step()
}

// ExecuteUntilBreak runs until Halt or Break, with no bound on
// instruction count (the caller's debugger filter is the only brake).
func (s *System) ExecuteUntilBreak() cpu65816.StepResult {
	for {
		r := s.CPU.Step()
		if r.Outcome != Normal {
			return r
		}
	}
}

// ExecuteFrames runs until n frames have completed, or Halt/Break
// fires first; partial video/audio output from the in-progress frame
// remains visible either way (§5 cancellation semantics).
func (s *System) ExecuteFrames(n int) cpu65816.StepResult {
	startFrame := s.Bus.PPU.Frame()
	for s.Bus.PPU.Frame() < startFrame+uint64(n) {
		r := s.CPU.Step()
		if r.Outcome != Normal {
			return r
		}
	}
	return cpu65816.StepResult{Outcome: Normal}
}

// ExecuteScanlines runs until n PPU scanlines have elapsed.
func (s *System) ExecuteScanlines(n int) cpu65816.StepResult {
	startLine := s.Bus.PPU.Scanline()
	startFrame := s.Bus.PPU.Frame()
	target := startFrame*262 + uint64(startLine) + uint64(n)
	for s.Bus.PPU.Frame()*262+uint64(s.Bus.PPU.Scanline()) < target {
		r := s.CPU.Step()
		if r.Outcome != Normal {
			return r
		}
	}
	return cpu65816.StepResult{Outcome: Normal}
}

// ExecuteCycles runs until at least n master cycles have elapsed.
func (s *System) ExecuteCycles(n uint64) cpu65816.StepResult {
	var spent uint64
	for spent < n {
		r := s.CPU.Step()
		spent += r.Cycles
		if r.Outcome != Normal {
			return r
		}
	}
	return cpu65816.StepResult{Outcome: Normal}
}

// ExecuteSamples runs until at least n stereo audio samples have been
// produced by the APU, draining and accumulating them as it goes.
func (s *System) ExecuteSamples(n int) ([]int16, cpu65816.StepResult) {
	var out []int16
	for len(out)/2 < n {
		r := s.CPU.Step()
		out = append(out, s.Bus.APU.DrainSamples()...)
		if r.Outcome != Normal {
			return out, r
		}
	}
	return out, cpu65816.StepResult{Outcome: Normal}
}

// ExecuteDuration converts a wall-clock budget into a target master-cycle
// count (at the NTSC master clock rate) and runs until that many cycles
// pass or another termination condition fires (§5).
func (s *System) ExecuteDuration(d time.Duration) cpu65816.StepResult {
	const masterClockHz = 21477272
	cycles := uint64(d.Seconds() * masterClockHz)
	return s.ExecuteCycles(cycles)
}

// SwapVideo returns the completed frame buffer (256x224 RGB packed as
// 0x00RRGGBB per pixel) and begins writing into the other buffer.
func (s *System) SwapVideo() []uint32 { return s.Bus.PPU.Swap() }

// DrainAudio returns and clears buffered interleaved stereo samples.
func (s *System) DrainAudio() []int16 { return s.Bus.APU.DrainSamples() }
