package ppu

// Register addresses, low byte of 0x21xx (§4.2, §6).
const (
	regINIDISP = 0x00
	regOBSEL   = 0x01
	regOAMADDL = 0x02
	regOAMADDH = 0x03
	regOAMDATA = 0x04
	regBGMODE  = 0x05
	regMOSAIC  = 0x06
	regBG1SC   = 0x07
	regBG2SC   = 0x08
	regBG3SC   = 0x09
	regBG4SC   = 0x0A
	regBG12NBA = 0x0B
	regBG34NBA = 0x0C
	regBG1HOFS = 0x0D
	regBG1VOFS = 0x0E
	regBG2HOFS = 0x0F
	regBG2VOFS = 0x10
	regBG3HOFS = 0x11
	regBG3VOFS = 0x12
	regBG4HOFS = 0x13
	regBG4VOFS = 0x14
	regVMAIN   = 0x15
	regVMADDL  = 0x16
	regVMADDH  = 0x17
	regVMDATAL = 0x18
	regVMDATAH = 0x19
	regM7SEL   = 0x1A
	regM7A     = 0x1B
	regM7B     = 0x1C
	regM7C     = 0x1D
	regM7D     = 0x1E
	regM7X     = 0x1F
	regM7Y     = 0x20
	regCGADD   = 0x21
	regCGDATA  = 0x22
	regW12SEL  = 0x23
	regW34SEL  = 0x24
	regWOBJSEL = 0x25
	regWH0     = 0x26
	regWH1     = 0x27
	regWH2     = 0x28
	regWH3     = 0x29
	regWBGLOG  = 0x2A
	regWOBJLOG = 0x2B
	regTM      = 0x2C
	regTS      = 0x2D
	regTMW     = 0x2E
	regTSW     = 0x2F
	regCGWSEL  = 0x30
	regCGADSUB = 0x31
	regCOLDATA = 0x32
	regSETINI  = 0x33

	regMPYL    = 0x34
	regMPYM    = 0x35
	regMPYH    = 0x36
	regSLHV    = 0x37
	regRDOAM   = 0x38
	regRDVRAML = 0x39
	regRDVRAMH = 0x3A
	regRDCGRAM = 0x3B
	regOPHCT   = 0x3C
	regOPVCT   = 0x3D
	regSTAT77  = 0x3E
	regSTAT78  = 0x3F
)

// bgReg holds one background layer's scroll/tilemap configuration.
type bgReg struct {
	scAddr  uint16 // tilemap base address, in VRAM words
	scSize  uint8  // 0=32x32 1=64x32 2=32x64 3=64x64
	nba     uint16 // tile data base address, in VRAM words
	hofs    uint16
	vofs    uint16
	latched uint8 // low-byte-write value retained for the write-twice pair
}

// mode7Reg holds the Mode 7 affine transform matrix and origin.
type mode7Reg struct {
	a, b, c, d int16
	x, y       int16
	hofs, vofs int16
	flipH      bool
	flipV      bool
	screenOver uint8
	latched    uint8
}
