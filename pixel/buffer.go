//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package pixel

// Buffer is a block of raw scanlines. Each line holds Width pixels followed
// by PaddingBits of padding, rounded up to a whole byte.
type Buffer struct {
	Type        *PixelType
	Width       int
	Height      int
	PaddingBits int
	Pix         []byte
}

// NewBuffer allocates an owned, zeroed buffer
func NewBuffer(pt *PixelType, width, height, paddingBits int) (buf *Buffer) {
	buf = &Buffer{
		Type:        pt,
		Width:       width,
		Height:      height,
		PaddingBits: paddingBits,
	}

	buf.Pix = make([]byte, buf.Stride()*height)

	return
}

// NewBufferView wraps caller memory without copying. The caller keeps
// ownership of pix.
func NewBufferView(pt *PixelType, width, height, paddingBits int, pix []byte) (buf *Buffer) {
	buf = &Buffer{
		Type:        pt,
		Width:       width,
		Height:      height,
		PaddingBits: paddingBits,
		Pix:         pix,
	}

	if len(pix) < buf.Stride()*height {
		panic("pixel: buffer view too small")
	}

	return
}

// Stride is the byte length of one line, including padding
func (buf *Buffer) Stride() int {
	return buf.Type.LineBytes(buf.Width, buf.PaddingBits)
}

// Line returns the bytes of line y, including padding
func (buf *Buffer) Line(y int) []byte {
	stride := buf.Stride()
	return buf.Pix[y*stride : (y+1)*stride]
}

// Clone returns an owned copy
func (buf *Buffer) Clone() (clone *Buffer) {
	clone = &Buffer{
		Type:        buf.Type,
		Width:       buf.Width,
		Height:      buf.Height,
		PaddingBits: buf.PaddingBits,
		Pix:         append([]byte(nil), buf.Pix...),
	}

	return
}

// AlignedPadding is the padding needed to round a line up to a multiple of
// alignBits
func AlignedPadding(pt *PixelType, width int, alignBits int) int {
	bits := width * pt.CountPixelRawDataBits()
	return (alignBits - bits%alignBits) % alignBits
}
