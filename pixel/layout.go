//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package pixel

import (
	"encoding/binary"
	"image/color"
	"math"
)

// layout is the storage strategy of a pixel format. The set of
// implementations is closed; every ClassID maps to exactly one of them.
type layout interface {
	get(pix []byte, n int, pal *Palette) color.NRGBA64
	set(pix []byte, n int, c color.NRGBA64, pal *Palette)
}

func to8(v uint16) uint8 {
	return uint8(v >> 8)
}

func to16(v uint8) uint16 {
	return uint16(v) * 0x101
}

// luminance uses integer Rec. 601 weights, exact for neutral colors
func luminance(c color.NRGBA64) uint16 {
	y := (299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B) + 500) / 1000
	return uint16(y)
}

func to8NRGBA(c color.NRGBA64) color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

func to16NRGBA(c color.NRGBA) color.NRGBA64 {
	return color.NRGBA64{R: to16(c.R), G: to16(c.G), B: to16(c.B), A: to16(c.A)}
}

// getBits reads the n'th packed value, MSB first
func getBits(pix []byte, n int, bits int) uint8 {
	bit := n * bits
	shift := 8 - bits - (bit & 7)
	mask := uint8(1<<uint(bits)) - 1

	return (pix[bit>>3] >> uint(shift)) & mask
}

func setBits(pix []byte, n int, bits int, value uint8) {
	bit := n * bits
	shift := uint(8 - bits - (bit & 7))
	mask := (uint8(1<<uint(bits)) - 1) << shift

	pix[bit>>3] = (pix[bit>>3] &^ mask) | ((value << shift) & mask)
}

type indexLayout struct {
	bits int
}

func (lay indexLayout) get(pix []byte, n int, pal *Palette) color.NRGBA64 {
	var index int
	if lay.bits < 8 {
		index = int(getBits(pix, n, lay.bits))
	} else {
		index = int(pix[n])
	}

	return to16NRGBA(pal.Color(index))
}

func (lay indexLayout) set(pix []byte, n int, c color.NRGBA64, pal *Palette) {
	index := uint8(pal.Nearest(to8NRGBA(c)))
	if lay.bits < 8 {
		setBits(pix, n, lay.bits, index)
	} else {
		pix[n] = index
	}
}

type grayLayout struct {
	bits  int
	white bool
}

func (lay grayLayout) get(pix []byte, n int, pal *Palette) (c color.NRGBA64) {
	var y uint16

	switch lay.bits {
	case 1:
		if getBits(pix, n, 1) != 0 {
			y = 0xffff
		}
	case 8:
		y = to16(pix[n])
	case 16:
		y = binary.LittleEndian.Uint16(pix[n*2:])
	}

	if lay.white {
		y = 0xffff - y
	}

	c = color.NRGBA64{R: y, G: y, B: y, A: 0xffff}

	return
}

func (lay grayLayout) set(pix []byte, n int, c color.NRGBA64, pal *Palette) {
	y := luminance(c)
	if lay.white {
		y = 0xffff - y
	}

	switch lay.bits {
	case 1:
		var bit uint8
		if y >= 0x8000 {
			bit = 1
		}
		setBits(pix, n, 1, bit)
	case 8:
		pix[n] = to8(y)
	case 16:
		binary.LittleEndian.PutUint16(pix[n*2:], y)
	}
}

type rgb565Layout struct{}

// gray565 holds the most neutral code for each 5-bit level, with the
// luminance it decodes to
var gray565 = func() (table [32]struct{ code, y uint16 }) {
	for r5 := range table {
		r8 := (r5 << 3) | (r5 >> 2)
		g6 := 2 * r5
		if odd := g6 + 1; abs(((odd<<2)|(odd>>4))-r8) < abs(((g6<<2)|(g6>>4))-r8) {
			g6 = odd
		}
		table[r5].code = uint16(r5<<11 | g6<<5 | r5)
		table[r5].y = luminance(decode565(table[r5].code))
	}
	return
}()

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func decode565(v uint16) color.NRGBA64 {
	r5 := uint8(v>>11) & 0x1f
	g6 := uint8(v>>5) & 0x3f
	b5 := uint8(v) & 0x1f

	return to16NRGBA(color.NRGBA{
		R: (r5 << 3) | (r5 >> 2),
		G: (g6 << 2) | (g6 >> 4),
		B: (b5 << 3) | (b5 >> 2),
		A: 0xff,
	})
}

func (rgb565Layout) get(pix []byte, n int, pal *Palette) color.NRGBA64 {
	return decode565(binary.LittleEndian.Uint16(pix[n*2:]))
}

// set maps neutral colors to the gray code of nearest luminance, so that
// gray survives repeated trips through 5-6-5.
func (rgb565Layout) set(pix []byte, n int, c color.NRGBA64, pal *Palette) {
	c8 := to8NRGBA(c)

	var v uint16
	if c8.R == c8.G && c8.G == c8.B {
		y := int(luminance(c))
		best := -1
		for _, gray := range gray565 {
			if dist := abs(int(gray.y) - y); best < 0 || dist < best {
				best = dist
				v = gray.code
			}
		}
	} else {
		v = (uint16(c8.R>>3) << 11) | (uint16(c8.G>>2) << 5) | uint16(c8.B>>3)
	}

	binary.LittleEndian.PutUint16(pix[n*2:], v)
}

// channelLayout stores one fixed-size value per role, in order
type channelLayout struct {
	roles []Role
	size  int // bytes per channel: 1, 2 (little endian) or 4 (float32)
}

func (lay channelLayout) load(pix []byte, offset int) uint16 {
	switch lay.size {
	case 1:
		return to16(pix[offset])
	case 2:
		return binary.LittleEndian.Uint16(pix[offset:])
	}

	f := math.Float32frombits(binary.LittleEndian.Uint32(pix[offset:]))
	switch {
	case f != f, f <= 0:
		return 0
	case f >= 1:
		return 0xffff
	}

	return uint16(math.Round(float64(f) * 0xffff))
}

func (lay channelLayout) store(pix []byte, offset int, v uint16) {
	switch lay.size {
	case 1:
		pix[offset] = to8(v)
	case 2:
		binary.LittleEndian.PutUint16(pix[offset:], v)
	default:
		f := float32(float64(v) / 0xffff)
		binary.LittleEndian.PutUint32(pix[offset:], math.Float32bits(f))
	}
}

func (lay channelLayout) get(pix []byte, n int, pal *Palette) (c color.NRGBA64) {
	base := n * lay.size * len(lay.roles)
	c.A = 0xffff

	for i, role := range lay.roles {
		offset := base + i*lay.size
		switch role {
		case RoleRed:
			c.R = lay.load(pix, offset)
		case RoleGreen:
			c.G = lay.load(pix, offset)
		case RoleBlue:
			c.B = lay.load(pix, offset)
		case RoleAlpha:
			c.A = lay.load(pix, offset)
		case RoleGray:
			y := lay.load(pix, offset)
			c.R, c.G, c.B = y, y, y
		}
	}

	return
}

func (lay channelLayout) set(pix []byte, n int, c color.NRGBA64, pal *Palette) {
	base := n * lay.size * len(lay.roles)

	for i, role := range lay.roles {
		offset := base + i*lay.size
		switch role {
		case RoleRed:
			lay.store(pix, offset, c.R)
		case RoleGreen:
			lay.store(pix, offset, c.G)
		case RoleBlue:
			lay.store(pix, offset, c.B)
		case RoleAlpha:
			lay.store(pix, offset, c.A)
		case RoleGray:
			lay.store(pix, offset, luminance(c))
		default:
			lay.store(pix, offset, 0)
		}
	}
}

type cmykLayout struct{}

func (cmykLayout) get(pix []byte, n int, pal *Palette) color.NRGBA64 {
	p := pix[n*4 : n*4+4]
	r, g, b := color.CMYKToRGB(p[0], p[1], p[2], p[3])

	return to16NRGBA(color.NRGBA{R: r, G: g, B: b, A: 0xff})
}

func (cmykLayout) set(pix []byte, n int, c color.NRGBA64, pal *Palette) {
	c8 := to8NRGBA(c)
	p := pix[n*4 : n*4+4]
	p[0], p[1], p[2], p[3] = color.RGBToCMYK(c8.R, c8.G, c8.B)
}
