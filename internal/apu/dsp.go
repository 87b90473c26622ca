package apu

// DSP is the S-DSP: eight BRR-sample voices with per-voice ADSR/Gain
// envelopes, a noise generator, an 8-tap echo FIR filter, and the
// master L/R mixer, driven once per output sample (§4.3, 32 kHz).
type DSP struct {
	regs [128]uint8

	voices [8]voice

	noiseLFSR uint16

	echoBuf    [][2]int16
	echoPos    int
	echoLen    int
	firTaps    [8]int8

	keyOnPending  uint8
	keyOffPending uint8

	ram *[0x10000]uint8 // aliases apuMemory.ram so BRR sample data is addressable
}

type voice struct {
	srcn      uint8
	pitch     uint16 // 14-bit pitch counter step
	pitchCtr  uint32 // 16.16 fixed-point sample position within decoded block
	brrAddr   uint16 // current BRR block address
	loopAddr  uint16
	decoded   [16]int16 // last-decoded BRR block, 16 samples
	prevSamples [2]int16 // history for BRR linear prediction

	envMode    uint8 // 0=release 1=attack 2=decay 3=sustain
	envLevel   int32 // 0..2047 (11-bit internal precision, shifted to 15-bit on output)
	envCounter uint16
	useADSR    bool

	keyedOn  bool
	blockEnd bool
	blockLoop bool

	outLast int16
}

func newDSP() *DSP {
	return &DSP{echoBuf: make([][2]int16, 0)}
}

func (d *DSP) Reset() {
	d.regs = [128]uint8{}
	d.voices = [8]voice{}
	d.noiseLFSR = 0x4000
	d.echoBuf = d.echoBuf[:0]
	d.echoPos = 0
	d.keyOnPending = 0
	d.keyOffPending = 0
}

// bindRAM lets apuMemory share its backing RAM with the DSP so BRR
// sample directories and echo buffers read real bus-visible bytes.
func (d *DSP) bindRAM(ram *[0x10000]uint8) { d.ram = ram }

// S-DSP register addresses used by name below; the rest are addressed
// numerically per-voice (voice n occupies 0xn0-0xn9).
const (
	dspMVOLL = 0x0C
	dspMVOLR = 0x1C
	dspEVOLL = 0x2C
	dspEVOLR = 0x3C
	dspKON   = 0x4C
	dspKOFF  = 0x5C
	dspFLG   = 0x6C
	dspENDX  = 0x7C
	dspEFB   = 0x0D
	dspPMON  = 0x2D
	dspNON   = 0x3D
	dspEON   = 0x4D
	dspDIR   = 0x5D
	dspESA   = 0x6D
	dspEDL   = 0x7D
)

func (d *DSP) ReadRegister(addr uint8) uint8 {
	addr &= 0x7F
	return d.regs[addr]
}

func (d *DSP) WriteRegister(addr uint8, v uint8) {
	addr &= 0x7F
	if addr == dspENDX {
		d.regs[addr] = 0 // writes to ENDX clear it regardless of value
		return
	}
	d.regs[addr] = v
	switch addr {
	case dspKON:
		d.keyOnPending |= v
	case dspKOFF:
		d.keyOffPending |= v
	case dspEDL:
		d.echoLen = int(v&0x0F) * 2 * 1024
		if cap(d.echoBuf) < d.echoLen && d.echoLen > 0 {
			d.echoBuf = make([][2]int16, d.echoLen/4)
		}
	}
	if addr&0x0F == 0x0F {
		d.firTaps[addr>>4] = int8(v)
	}
}

func (d *DSP) voiceReg(n int, lowNibble uint8) uint8 {
	return d.regs[uint8(n)<<4|lowNibble]
}

// Per-voice register offsets within the 0xn0-0xn9 block.
const (
	voiceRegSRCN  = 0x04
	voiceRegADSR1 = 0x05
	voiceRegADSR2 = 0x06
	voiceRegGAIN  = 0x07
)

// envRatePeriod maps a 5-bit ADSR/GAIN rate index to the number of
// samples between envelope steps at that rate (§4.3's rate table;
// index 0 never fires, index 31 fires every sample).
var envRatePeriod = [32]uint16{
	0, 2048, 1536, 1280, 1024, 768, 640, 512,
	384, 320, 256, 192, 160, 128, 96, 80,
	64, 48, 40, 32, 24, 20, 16, 12,
	10, 8, 6, 5, 4, 3, 2, 1,
}

// envTick advances v's rate counter and reports whether this sample is
// a step boundary for rate index idx.
func envTick(v *voice, idx uint8) bool {
	period := envRatePeriod[idx&0x1F]
	if period == 0 {
		return false
	}
	v.envCounter++
	if v.envCounter >= period {
		v.envCounter = 0
		return true
	}
	return false
}

// Tick runs one full 8-voice sample step and returns the mixed,
// clamped stereo output (§4.3's per-sample pipeline).
func (d *DSP) Tick() (int16, int16) {
	d.applyKeyEvents()

	var mixL, mixR int32
	var echoInL, echoInR int32

	for i := range d.voices {
		v := &d.voices[i]
		sample := d.stepVoice(i, v)

		if d.regs[dspNON]&(1<<uint(i)) != 0 {
			sample = d.noiseSample()
		}

		env := d.applyEnvelope(i, v)
		scaled := int32(sample) * env >> 11

		volL := int8(d.voiceReg(i, 0x00))
		volR := int8(d.voiceReg(i, 0x01))
		outL := scaled * int32(volL) >> 7
		outR := scaled * int32(volR) >> 7

		mixL += outL
		mixR += outR

		if d.regs[dspEON]&(1<<uint(i)) != 0 {
			echoInL += outL
			echoInR += outR
		}

		v.outLast = int16(clamp16(scaled))
		if v.blockEnd && !v.blockLoop {
			d.regs[dspENDX] |= 1 << uint(i)
		}
	}

	echoL, echoR := d.processEcho(echoInL, echoInR)

	finalL := mixL*int32(int8(d.regs[dspMVOLL]))>>7 + echoL*int32(int8(d.regs[dspEVOLL]))>>7
	finalR := mixR*int32(int8(d.regs[dspMVOLR]))>>7 + echoR*int32(int8(d.regs[dspEVOLR]))>>7

	return int16(clamp16(finalL)), int16(clamp16(finalR))
}

func clamp16(v int32) int32 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}

func (d *DSP) applyKeyEvents() {
	for i := range d.voices {
		bit := uint8(1 << uint(i))
		v := &d.voices[i]
		if d.keyOnPending&bit != 0 {
			v.keyedOn = true
			v.envMode = 1 // attack
			v.envLevel = 0
			v.envCounter = 0
			v.pitchCtr = 0
			v.brrAddr = d.sampleStartAddr(i)
			v.loopAddr = d.sampleLoopAddr(i)
			v.blockEnd = false
			d.regs[dspENDX] &^= bit
		}
		if d.keyOffPending&bit != 0 {
			v.envMode = 0 // release
		}
	}
	d.keyOnPending = 0
	d.keyOffPending = 0
}

// sampleStartAddr and sampleLoopAddr read the sample directory entry
// for a voice's SRCN: the first word is the BRR start address, the
// second word (at entry+2/+3) is the loop-restart address (§4.3
// step 3).
func (d *DSP) sampleStartAddr(voiceIdx int) uint16 {
	if d.ram == nil {
		return 0
	}
	entry := d.dirEntry(voiceIdx)
	return uint16(d.ram[entry]) | uint16(d.ram[entry+1])<<8
}

func (d *DSP) sampleLoopAddr(voiceIdx int) uint16 {
	if d.ram == nil {
		return 0
	}
	entry := d.dirEntry(voiceIdx)
	return uint16(d.ram[entry+2]) | uint16(d.ram[entry+3])<<8
}

func (d *DSP) dirEntry(voiceIdx int) uint16 {
	dirBase := uint16(d.regs[dspDIR]) << 8
	srcn := d.voiceReg(voiceIdx, voiceRegSRCN)
	return dirBase + uint16(srcn)*4
}

// stepVoice decodes BRR data as needed and advances the voice's pitch
// counter, returning the decoded BRR sample at the counter's position.
// No interpolation is applied between neighbouring samples.
func (d *DSP) stepVoice(idx int, v *voice) int16 {
	if !v.keyedOn || d.ram == nil {
		return 0
	}

	pitchLo := d.voiceReg(idx, 0x02)
	pitchHi := d.voiceReg(idx, 0x03)
	v.pitch = uint16(pitchLo) | uint16(pitchHi&0x3F)<<8

	v.pitchCtr += uint32(v.pitch) << 2
	for v.pitchCtr >= 16<<16 {
		v.pitchCtr -= 16 << 16
		d.decodeBRRBlock(v)
	}

	sampleIdx := (v.pitchCtr >> 16) & 0x0F
	return v.decoded[sampleIdx]
}

// decodeBRRBlock decompresses one 9-byte BRR block: a header byte
// (range/filter/loop/end) followed by 16 4-bit ADPCM nibbles, using
// the filter formulas from §4.3.
func (d *DSP) decodeBRRBlock(v *voice) {
	header := d.ram[v.brrAddr]
	shift := header >> 4
	filter := (header >> 2) & 0x03
	loop := header&0x02 != 0
	end := header&0x01 != 0

	p1, p2 := v.prevSamples[0], v.prevSamples[1]
	for i := 0; i < 16; i++ {
		byteVal := d.ram[v.brrAddr+1+uint16(i/2)]
		var nibble int8
		if i%2 == 0 {
			nibble = int8(byteVal) >> 4
		} else {
			nibble = int8(byteVal<<4) >> 4
		}
		var sample int32
		if shift <= 12 {
			sample = int32(nibble) << shift
		} else {
			sample = int32(nibble) &^ 0x7FF << 1 // shift 13-15: degenerate, clamp to sign
		}

		switch filter {
		case 1:
			sample += int32(p1) + ((-int32(p1)) >> 4)
		case 2:
			sample += int32(p1)*2 + ((-int32(p1) * 3) >> 5) - int32(p2) + (int32(p2) >> 4)
		case 3:
			sample += int32(p1)*2 + ((-int32(p1) * 13) >> 6) - int32(p2) + ((int32(p2) * 3) >> 4)
		}

		s16 := int16(clamp16(sample))
		v.decoded[i] = s16
		p2 = p1
		p1 = s16
	}
	v.prevSamples[0], v.prevSamples[1] = p1, p2

	v.blockEnd = end
	v.blockLoop = loop
	if end {
		if loop {
			v.brrAddr = d.loopPoint(v)
		} else {
			v.keyedOn = false
		}
	} else {
		v.brrAddr += 9
	}
}

func (d *DSP) loopPoint(v *voice) uint16 {
	return v.loopAddr
}

// applyEnvelope runs one ADSR/Gain step and returns the current 11-bit
// envelope level (§4.3's envelope state machine). ADSR1 bit 7 selects
// between the ADSR state machine (attack/decay/sustain, rates from
// ADSR1/ADSR2 via the shared rate table) and the GAIN register, which
// either sets the level directly or runs one of four rate-gated custom
// ramps, per §4.3 step 5.
func (d *DSP) applyEnvelope(idx int, v *voice) int32 {
	adsr1 := d.voiceReg(idx, voiceRegADSR1)
	v.useADSR = adsr1&0x80 != 0

	if v.envMode == 0 { // release: always a fixed-rate ramp to zero
		v.envLevel -= 8
		if v.envLevel < 0 {
			v.envLevel = 0
		}
		return v.envLevel
	}

	if !v.useADSR {
		d.applyGain(idx, v)
		return v.envLevel
	}

	adsr2 := d.voiceReg(idx, voiceRegADSR2)
	switch v.envMode {
	case 1: // attack
		ar := adsr1 & 0x0F
		if !envTick(v, ar*2+1) {
			break
		}
		step := int32(32)
		if ar == 0x0F {
			step = 1024
		}
		v.envLevel += step
		if v.envLevel >= 2047 {
			v.envLevel = 2047
			v.envMode = 2
		}
	case 2: // decay
		dr := (adsr1 >> 4) & 0x07
		if envTick(v, 16+dr*2) {
			v.envLevel -= ((v.envLevel - 1) >> 8) + 1
			if v.envLevel < 0 {
				v.envLevel = 0
			}
		}
		sustainLevel := (int32(adsr2>>5&0x07) + 1) * 0x100
		if v.envLevel <= sustainLevel {
			v.envMode = 3
		}
	case 3: // sustain
		sr := adsr2 & 0x1F
		if envTick(v, sr) {
			v.envLevel -= ((v.envLevel - 1) >> 8) + 1
			if v.envLevel < 0 {
				v.envLevel = 0
			}
		}
	}
	return v.envLevel
}

// applyGain handles GAIN-register-driven level control used whenever
// ADSR1 bit 7 is clear.
func (d *DSP) applyGain(idx int, v *voice) {
	gain := d.voiceReg(idx, voiceRegGAIN)
	if gain&0x80 == 0 { // direct gain: level follows the register every sample
		v.envLevel = int32(gain&0x7F) << 4
		return
	}

	rate := gain & 0x1F
	mode := (gain >> 5) & 0x03
	if !envTick(v, rate) {
		return
	}
	switch mode {
	case 0: // linear decrease
		v.envLevel -= 32
	case 1: // exponential decrease
		v.envLevel -= ((v.envLevel - 1) >> 8) + 1
	case 2: // linear increase
		v.envLevel += 32
	case 3: // bent-line increase
		if v.envLevel < 0x600 {
			v.envLevel += 32
		} else {
			v.envLevel += 8
		}
	}
	if v.envLevel < 0 {
		v.envLevel = 0
	}
	if v.envLevel > 2047 {
		v.envLevel = 2047
	}
}

func (d *DSP) noiseSample() int16 {
	bit := (d.noiseLFSR ^ (d.noiseLFSR >> 1)) & 1
	d.noiseLFSR = (d.noiseLFSR >> 1) | (bit << 14)
	if d.noiseLFSR&1 != 0 {
		return 1024
	}
	return -1024
}

// processEcho runs the 8-tap FIR filter over the echo ring buffer and
// feeds the new input back in, per §4.3's echo/feedback stage.
func (d *DSP) processEcho(inL, inR int32) (int32, int32) {
	if d.echoLen == 0 || len(d.echoBuf) == 0 {
		return 0, 0
	}

	var fl, fr int32
	for i, tap := range d.firTaps {
		idx := (d.echoPos - i + len(d.echoBuf)) % len(d.echoBuf)
		fl += int32(d.echoBuf[idx][0]) * int32(tap)
		fr += int32(d.echoBuf[idx][1]) * int32(tap)
	}
	fl >>= 6
	fr >>= 6

	fb := int32(int8(d.regs[dspEFB]))
	newL := clamp16(inL + (fl*fb)>>7)
	newR := clamp16(inR + (fr*fb)>>7)
	d.echoBuf[d.echoPos] = [2]int16{int16(newL), int16(newR)}
	d.echoPos = (d.echoPos + 1) % len(d.echoBuf)

	return fl, fr
}
