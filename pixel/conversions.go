//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package pixel

import (
	"image/color"
)

// convertGeneric goes through a 16-bit non-premultiplied color
func convertGeneric(from, to *PixelType, src, dst []byte, count int) {
	if count == 1 {
		to.SetColorAt(dst, 0, from.ColorAt(src, 0))
		return
	}

	for n := 0; n < count; n++ {
		to.SetColorAt(dst, n, from.ColorAt(src, n))
	}
}

// convertIdentity copies raw bits. Indexed types with different palettes
// fall back to a color conversion.
func convertIdentity(from, to *PixelType, src, dst []byte, count int) {
	if from.Palette() != nil && !from.Palette().Equal(to.Palette()) {
		convertGeneric(from, to, src, dst, count)
		return
	}

	bits := from.CountPixelRawDataBits() * count
	whole := bits / 8
	copy(dst[:whole], src[:whole])

	if rem := uint(bits % 8); rem != 0 {
		mask := byte(0xff) << (8 - rem)
		dst[whole] = (dst[whole] &^ mask) | (src[whole] & mask)
	}
}

// composeGeneric blends source-over at 8-bit precision
func composeGeneric(from, to *PixelType, src, dst []byte, count int) {
	for n := 0; n < count; n++ {
		s := to8NRGBA(from.ColorAt(src, n))
		d := to8NRGBA(to.ColorAt(dst, n))
		a := s.A

		out := color.NRGBA{
			R: blend8(s.R, d.R, a),
			G: blend8(s.G, d.G, a),
			B: blend8(s.B, d.B, a),
			A: a + DivideBy255ToByte(uint32(d.A)*uint32(255-a)),
		}

		to.SetColorAt(dst, n, to16NRGBA(out))
	}
}

// gray8 matches the luminance of the generic path
func gray8(r, g, b uint8) uint8 {
	return to8(luminance(color.NRGBA64{R: to16(r), G: to16(g), B: to16(b)}))
}

func convertRGB24ToRGBA32(from, to *PixelType, src, dst []byte, count int) {
	if count == 1 {
		dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], 0xff
		return
	}

	for n := 0; n < count; n++ {
		s := src[n*3 : n*3+3]
		d := dst[n*4 : n*4+4]
		d[0], d[1], d[2], d[3] = s[0], s[1], s[2], 0xff
	}
}

func convertRGBA32ToRGB24(from, to *PixelType, src, dst []byte, count int) {
	for n := 0; n < count; n++ {
		s := src[n*4 : n*4+4]
		d := dst[n*3 : n*3+3]
		d[0], d[1], d[2] = s[0], s[1], s[2]
	}
}

func composeRGBA32ToRGB24(from, to *PixelType, src, dst []byte, count int) {
	for n := 0; n < count; n++ {
		s := src[n*4 : n*4+4]
		d := dst[n*3 : n*3+3]
		a := s[3]
		d[0] = blend8(s[0], d[0], a)
		d[1] = blend8(s[1], d[1], a)
		d[2] = blend8(s[2], d[2], a)
	}
}

func convertRGB24ToGray8(from, to *PixelType, src, dst []byte, count int) {
	for n := 0; n < count; n++ {
		s := src[n*3 : n*3+3]
		dst[n] = gray8(s[0], s[1], s[2])
	}
}

func convertGray8ToRGB24(from, to *PixelType, src, dst []byte, count int) {
	for n := 0; n < count; n++ {
		y := src[n]
		d := dst[n*3 : n*3+3]
		d[0], d[1], d[2] = y, y, y
	}
}

func convertRGBA32ToGray8(from, to *PixelType, src, dst []byte, count int) {
	for n := 0; n < count; n++ {
		s := src[n*4 : n*4+4]
		dst[n] = gray8(s[0], s[1], s[2])
	}
}

func composeRGBA32ToGray8(from, to *PixelType, src, dst []byte, count int) {
	for n := 0; n < count; n++ {
		s := src[n*4 : n*4+4]
		dst[n] = blend8(gray8(s[0], s[1], s[2]), dst[n], s[3])
	}
}

func convertRGBA32ToGrayWhite8(from, to *PixelType, src, dst []byte, count int) {
	for n := 0; n < count; n++ {
		s := src[n*4 : n*4+4]
		dst[n] = 255 - gray8(s[0], s[1], s[2])
	}
}

// composeRGBA32ToGrayWhite8 works on whiteness: the destination stores
// 255 - luminance.
func composeRGBA32ToGrayWhite8(from, to *PixelType, src, dst []byte, count int) {
	for n := 0; n < count; n++ {
		s := src[n*4 : n*4+4]
		gray := uint32(gray8(s[0], s[1], s[2]))
		alpha := uint32(s[3])
		dest := uint32(dst[n])

		dst[n] = 255 - DivideBy255ToByte(gray*alpha+(255-dest)*(255-alpha))
	}
}

func registerFastPaths(convs *Converters) {
	convs.Register(V24R8G8B8, V32R8G8B8A8, Conversion{Convert: convertRGB24ToRGBA32})
	convs.Register(V32R8G8B8A8, V24R8G8B8, Conversion{Convert: convertRGBA32ToRGB24, Compose: composeRGBA32ToRGB24})
	convs.Register(V24R8G8B8, V8Gray8, Conversion{Convert: convertRGB24ToGray8})
	convs.Register(V8Gray8, V24R8G8B8, Conversion{Convert: convertGray8ToRGB24})
	convs.Register(V32R8G8B8A8, V8Gray8, Conversion{Convert: convertRGBA32ToGray8, Compose: composeRGBA32ToGray8})
	convs.Register(V32R8G8B8A8, V8GrayWhite8, Conversion{Convert: convertRGBA32ToGrayWhite8, Compose: composeRGBA32ToGrayWhite8})
}
