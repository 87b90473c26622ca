package ppu

// bgDepth returns the bits-per-pixel for BG layer bg under the current
// BGMODE (0/1/3/7 are the modes this package fully supports; other
// modes fall back to 2bpp/mode 1 machinery).
func (p *PPU) bgDepth(bg int) int {
	switch p.bgMode {
	case 0:
		return 2
	case 1:
		if bg == 2 {
			return 2
		}
		return 4
	case 3:
		if bg == 0 {
			return 8
		}
		return 4
	case 7:
		return 8
	default:
		return 2
	}
}

func (p *PPU) bgLayerCount() int {
	switch p.bgMode {
	case 0:
		return 4
	case 1:
		return 3
	case 3:
		return 2
	case 7:
		return 1
	default:
		return 2
	}
}

// tilemapDims returns the tilemap's dimension in tiles for a given
// BGnSC size code: 0=32x32 1=64x32 2=32x64 3=64x64.
func tilemapDims(size uint8) (w, h int) {
	switch size {
	case 1:
		return 64, 32
	case 2:
		return 32, 64
	case 3:
		return 64, 64
	default:
		return 32, 32
	}
}

type pixel struct {
	colorIndex uint8 // 0 = transparent
	color      uint32
	priority   uint8
	layer      int // 0-3 BG, 4 = sprite
}

// renderScanline computes one full 256-pixel scanline into the back
// buffer, batching the per-dot rendering described in §4.2 into a
// single pass. Component state after the batch matches the unbatched
// trace (§5's batching guarantee), since no register read observes
// mid-scanline pixel state.
func (p *PPU) renderScanline(line int) {
	if p.forcedBlank {
		for x := 0; x < screenWidth; x++ {
			p.back[line*screenWidth+x] = 0
		}
		return
	}

	spriteLine := p.evaluateSprites(line)

	for x := 0; x < screenWidth; x++ {
		var best pixel
		found := false

		if p.bgMode == 7 {
			bp := p.mode7Pixel(x, line)
			if bp.colorIndex != 0 {
				best = bp
				found = true
			}
		} else {
			for layer := 0; layer < p.bgLayerCount(); layer++ {
				if p.tm&(1<<uint(layer)) == 0 {
					continue
				}
				bp := p.bgPixel(layer, x, line)
				if bp.colorIndex == 0 {
					continue
				}
				if !found || bp.priority > best.priority {
					best = bp
					found = true
				}
			}
		}

		if p.tm&0x10 != 0 {
			if sp, ok := spriteLine[x]; ok {
				if !found || sp.priority >= best.priority {
					best = sp
					found = true
				}
			}
		}

		var rgb uint32
		if found {
			rgb = best.color
		} else {
			rgb = p.cgramToRGB(p.cgram[0])
		}
		rgb = p.applyColorMath(rgb, best, found)
		p.back[line*screenWidth+x] = applyBrightness(rgb, p.brightness)
	}
}

func applyBrightness(rgb uint32, brightness uint8) uint32 {
	r := uint32(rgb>>16) & 0xFF
	g := uint32(rgb>>8) & 0xFF
	b := uint32(rgb) & 0xFF
	r = r * uint32(brightness) / 15
	g = g * uint32(brightness) / 15
	b = b * uint32(brightness) / 15
	return r<<16 | g<<8 | b
}

func (p *PPU) cgramToRGB(entry uint16) uint32 {
	r := uint32(entry&0x1F) * 255 / 31
	g := uint32((entry>>5)&0x1F) * 255 / 31
	b := uint32((entry>>10)&0x1F) * 255 / 31
	return r<<16 | g<<8 | b
}

// bgPixel resolves one background layer's pixel at screen (x,y),
// applying scroll and tilemap-size wrapping (§4.2's per-pixel steps).
func (p *PPU) bgPixel(bg int, x, y int) pixel {
	reg := p.bg[bg]
	depth := p.bgDepth(bg)

	worldX := (x + int(reg.hofs)) & 0x3FF
	worldY := (y + int(reg.vofs)) & 0x3FF

	tmw, tmh := tilemapDims(reg.scSize)
	tileX := (worldX / 8) % tmw
	tileY := (worldY / 8) % tmh
	pixX := worldX % 8
	pixY := worldY % 8

	mapW := 32
	quadX, quadY := tileX/32, tileY/32
	quadOffset := uint16(0)
	if quadX == 1 {
		quadOffset += 0x400
	}
	if quadY == 1 {
		quadOffset += 0x800
	}
	entryAddr := reg.scAddr + quadOffset + uint16((tileY%32)*mapW+(tileX%32))
	entry := p.vram[entryAddr&0x7FFF]

	tileID := entry & 0x3FF
	palette := uint8((entry >> 10) & 0x07)
	priority := uint8((entry >> 13) & 0x01)
	flipH := entry&0x4000 != 0
	flipV := entry&0x8000 != 0

	if flipH {
		pixX = 7 - pixX
	}
	if flipV {
		pixY = 7 - pixY
	}

	colorIndex := p.decodeTilePixel(reg.nba, int(tileID), depth, pixX, pixY)
	if colorIndex == 0 {
		return pixel{}
	}

	paletteBase := p.paletteBaseForBG(depth, palette)
	rgb := p.cgramToRGB(p.cgram[(paletteBase+uint16(colorIndex))&0xFF])
	return pixel{colorIndex: colorIndex, color: rgb, priority: priority, layer: bg}
}

func (p *PPU) paletteBaseForBG(depth int, palette uint8) uint16 {
	switch depth {
	case 2:
		return uint16(palette) * 4
	case 4:
		return uint16(palette) * 16
	default:
		return 0
	}
}

// decodeTilePixel reads a tileID's bitplanes from VRAM starting at base
// and extracts the color index for pixel (px,py) within the 8x8 tile.
func (p *PPU) decodeTilePixel(base uint16, tileID int, depth int, px, py int) uint8 {
	tileWords := depth * 8 / 2 // 2bpp=8 words, 4bpp=16 words, 8bpp=32 words
	tileAddr := base + uint16(tileID*tileWords)

	var colorIndex uint8
	planes := depth
	for plane := 0; plane < planes; plane += 2 {
		rowWord := p.vram[(tileAddr+uint16(py)+uint16(plane/2*8))&0x7FFF]
		lo := uint8(rowWord)
		hi := uint8(rowWord >> 8)
		bit := 7 - px
		b0 := (lo >> uint(bit)) & 1
		b1 := (hi >> uint(bit)) & 1
		colorIndex |= (b0 | b1<<1) << uint(plane)
	}
	return colorIndex
}

// mode7Pixel resolves a pixel under the Mode 7 affine transform.
func (p *PPU) mode7Pixel(x, y int) pixel {
	cx, cy := int32(p.m7.x), int32(p.m7.y)
	sx, sy := int32(x), int32(y)
	if p.m7.flipH {
		sx = 255 - sx
	}
	if p.m7.flipV {
		sy = 255 - sy
	}

	rx := sx - int32(p.m7.hofs) - cx
	ry := sy - int32(p.m7.vofs) - cy

	tx := (int32(p.m7.a)*rx+int32(p.m7.b)*ry)>>8 + cx
	ty := (int32(p.m7.c)*rx+int32(p.m7.d)*ry)>>8 + cy

	tileX := int((tx >> 3) & 0x7F)
	tileY := int((ty >> 3) & 0x7F)
	pixX := int(tx & 7)
	pixY := int(ty & 7)

	if tx < 0 || tx >= 1024 || ty < 0 || ty >= 1024 {
		if p.m7.screenOver == 3 {
			return pixel{}
		}
	}

	mapAddr := uint16(tileY*128 + tileX)
	tileID := uint8(p.vram[mapAddr&0x7FFF])
	tileAddr := uint16(tileID) * 64
	pixelWord := p.vram[(tileAddr+uint16(pixY*8+pixX))&0x7FFF]
	colorIndex := uint8(pixelWord >> 8)
	if colorIndex == 0 {
		return pixel{}
	}
	rgb := p.cgramToRGB(p.cgram[colorIndex])
	return pixel{colorIndex: colorIndex, color: rgb, priority: 1, layer: 0}
}

// sprite size table selected by OBSEL bits 5-7 (small, large).
var spriteSizeTable = [8][2]int{
	{8, 16}, {8, 32}, {8, 64}, {16, 32}, {16, 64}, {32, 64}, {16, 32}, {16, 32},
}

type oamEntry struct {
	x, y     int
	tile     uint8
	nameTbl  uint8
	palette  uint8
	priority uint8
	flipH    bool
	flipV    bool
	large    bool
}

func (p *PPU) readOAMEntry(i int) oamEntry {
	b := i * 4
	y := int(p.oam[b])
	tile := p.oam[b+1]
	attr := p.oam[b+2]
	xLow := p.oam[b+3]

	hiByte := p.oamHi[i/4]
	shift := uint((i % 4) * 2)
	xHigh := (hiByte >> shift) & 0x01
	large := (hiByte>>(shift+1))&0x01 != 0

	x := int(xLow) | int(xHigh)<<8
	if x >= 256 {
		x -= 512
	}

	return oamEntry{
		x: x, y: y, tile: tile,
		nameTbl:  attr & 0x01,
		palette:  (attr >> 1) & 0x07,
		priority: (attr >> 4) & 0x03,
		flipH:    attr&0x40 != 0,
		flipV:    attr&0x80 != 0,
		large:    large,
	}
}

// evaluateSprites selects sprites intersecting line, enforcing the
// 32-sprite/34-tile caps (§4.2), and returns a keyed per-pixel line
// buffer of already-composited sprite pixels.
func (p *PPU) evaluateSprites(line int) map[int]pixel {
	result := make(map[int]pixel)
	sizeIdx := (p.obsel >> 5) & 0x07
	small, large := spriteSizeTable[sizeIdx][0], spriteSizeTable[sizeIdx][1]
	nameBase := [2]uint16{uint16(p.obsel&0x07) << 13, (uint16(p.obsel&0x07)<<13 + (uint16((p.obsel>>3)&0x03)+1)<<12)}

	selected := 0
	tilesUsed := 0

	for i := 0; i < 128; i++ {
		e := p.readOAMEntry(i)
		h := small
		if e.large {
			h = large
		}
		if line < e.y || line >= e.y+h {
			if !(e.y+h > 256 && line < (e.y+h)-256) {
				continue
			}
		}
		if selected >= 32 {
			p.rangeOver = true
			break
		}
		tilesThisSprite := (h / 8)
		if tilesUsed+tilesThisSprite > 34 {
			p.timeOver = true
			break
		}
		tilesUsed += tilesThisSprite
		selected++

		rowInSprite := line - e.y
		if rowInSprite < 0 {
			rowInSprite += 256
		}
		if e.flipV {
			rowInSprite = h - 1 - rowInSprite
		}
		tileRow := rowInSprite / 8
		pixY := rowInSprite % 8

		base := nameBase[e.nameTbl]
		width := h / 8 // square sprites: tiles-per-row equals tiles-per-col

		for col := 0; col < width; col++ {
			drawCol := col
			if e.flipH {
				drawCol = width - 1 - col
			}
			tileID := int(e.tile) + tileRow*16 + drawCol
			for px := 0; px < 8; px++ {
				sx := e.x + col*8 + px
				if sx < 0 || sx >= screenWidth {
					continue
				}
				pixX := px
				if e.flipH {
					pixX = 7 - px
				}
				ci := p.decodeTilePixel(base, tileID, 4, pixX, pixY)
				if ci == 0 {
					continue
				}
				rgb := p.cgramToRGB(p.cgram[128+uint16(e.palette)*16+uint16(ci)])
				if existing, ok := result[sx]; !ok || e.priority >= existing.priority {
					result[sx] = pixel{colorIndex: ci, color: rgb, priority: e.priority + 4, layer: 4}
				}
			}
		}
	}
	return result
}

// applyColorMath implements the add/sub/half blend against the COLDATA
// fixed color, gated by CGADSUB's per-layer enable mask (§4.2
// compositing). CGWSEL is not consulted and the subscreen/backdrop is
// never used as the addend. Window masking is treated as always-open,
// a documented simplification (see DESIGN.md).
func (p *PPU) applyColorMath(rgb uint32, px pixel, found bool) uint32 {
	if !found {
		return rgb
	}
	layerBit := uint8(1) << uint(px.layer)
	if px.layer == 4 {
		layerBit = 0x10
	}
	if p.cgadsub&layerBit == 0 {
		return rgb
	}

	fixed := uint32(p.fixedR)*255/31<<16 | uint32(p.fixedG)*255/31<<8 | uint32(p.fixedB)*255/31

	subtract := p.cgadsub&0x80 != 0
	half := p.cgadsub&0x40 != 0

	r1, g1, b1 := (rgb>>16)&0xFF, (rgb>>8)&0xFF, rgb&0xFF
	r2, g2, b2 := (fixed>>16)&0xFF, (fixed>>8)&0xFF, fixed&0xFF

	var r, g, b uint32
	if subtract {
		r, g, b = clampSub(r1, r2), clampSub(g1, g2), clampSub(b1, b2)
	} else {
		r, g, b = clampAdd(r1, r2), clampAdd(g1, g2), clampAdd(b1, b2)
	}
	if half {
		r, g, b = r/2, g/2, b/2
	}
	return r<<16 | g<<8 | b
}

func clampAdd(a, b uint32) uint32 {
	v := a + b
	if v > 255 {
		return 255
	}
	return v
}

func clampSub(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}
