//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

// Package crl8 run-length encodes 8-bit indexed images as pairs of
// little-endian 16-bit words: (index, count)
package crl8

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-restruct/restruct"

	"github.com/ezrec/imagepp/codec"
)

const (
	// Name of the codec in the registry
	Name = "crl8"

	lineMarker = 0xffff
	maxRun     = 0xffff
	headerSize = 8
)

type lineHeader struct {
	Marker uint16 // Always 0xffff
	Words  uint16 // Run words that follow
	Line   uint16 // Line number in the image
	Offset uint16 // First pixel of the line, always 0
}

// Codec is the CRL8 codec
type Codec struct {
	codec.Subset

	// LineHeader adds a header before the runs of each line
	LineHeader bool
}

var _ codec.Codec = (*Codec)(nil)

// New returns an idle 8 bits per pixel codec
func New() (c *Codec) {
	c = &Codec{}
	c.SetBitsPerPixel(8)

	return
}

func (c *Codec) Name() string {
	return Name
}

func (c *Codec) IsBitsPerPixelSupported(bits int) bool {
	return bits == 8
}

// SetBitsPerPixel panics for anything but 8 bits
func (c *Codec) SetBitsPerPixel(bits int) {
	if !c.IsBitsPerPixelSupported(bits) {
		panic(fmt.Sprintf("crl8: %d bits per pixel not supported", bits))
	}

	c.Subset.SetBitsPerPixel(bits)
}

// SetLineHeader turns line headers on or off
func (c *Codec) SetLineHeader(enabled bool) {
	if c.State() != codec.StateIdle {
		panic("crl8: line header changed while " + c.State().String())
	}
	c.LineHeader = enabled
}

func (c *Codec) Clone() codec.Codec {
	clone := *c
	return &clone
}

// SubsetMaxCompressedSize is the size when every pixel is its own run
func (c *Codec) SubsetMaxCompressedSize() (size int) {
	size = c.Width() * 5 * c.SubsetHeight()

	if c.LineHeader {
		withHeader := (c.Width()*4 + headerSize) * c.SubsetHeight()
		if withHeader > size {
			size = withHeader
		}
	}

	return
}

// encodeLine appends the runs of one line
func encodeLine(out []byte, line []byte) []byte {
	var word [4]byte

	addRun := func(index byte, count int) {
		binary.LittleEndian.PutUint16(word[0:2], uint16(index))
		binary.LittleEndian.PutUint16(word[2:4], uint16(count))
		out = append(out, word[:]...)
	}

	index := line[0]
	count := 0
	for _, pix := range line {
		if pix == index && count < maxRun {
			count++
			continue
		}

		addRun(index, count)
		index = pix
		count = 1
	}
	addRun(index, count)

	return out
}

// CompressSubset encodes the next subset of lines of in
func (c *Codec) CompressSubset(in, out []byte) (n int, err error) {
	c.Begin(codec.StateCompressing)

	lines := c.SubsetLines()
	stride := c.LineBytes()

	if len(in) < lines*stride {
		err = fmt.Errorf("crl8: %d byte subset, expected %d: %w", len(in), lines*stride, io.ErrShortBuffer)
		return
	}

	if len(out) < c.SubsetMaxCompressedSize() {
		err = fmt.Errorf("crl8: %d byte output, need %d: %w", len(out), c.SubsetMaxCompressedSize(), io.ErrShortBuffer)
		return
	}

	rle := out[:0]
	for y := 0; y < lines; y++ {
		line := in[y*stride : y*stride+c.Width()]

		if !c.LineHeader {
			rle = encodeLine(rle, line)
			continue
		}

		if c.SubsetPosY()+y > 0xffff {
			err = fmt.Errorf("crl8: line %d is past the last line a line header can number", c.SubsetPosY()+y)
			return
		}

		start := len(rle)
		rle = encodeLine(append(rle, make([]byte, headerSize)...), line)

		words := (len(rle) - start - headerSize) / 2
		if words > 0xffff {
			err = fmt.Errorf("crl8: line %d has %d run words, too many for a line header", c.SubsetPosY()+y, words)
			return
		}

		header := lineHeader{
			Marker: lineMarker,
			Words:  uint16(words),
			Line:   uint16(c.SubsetPosY() + y),
		}

		var data []byte
		data, err = restruct.Pack(binary.LittleEndian, &header)
		if err != nil {
			return
		}
		copy(rle[start:], data)
	}

	n = len(rle)
	c.Advance(lines)

	return
}

// decodeLine fills line from the runs at the start of in, returning the
// bytes of in consumed. words limits the runs read when not negative.
func decodeLine(in []byte, line []byte, words int) (used int, err error) {
	x := 0
	for words > 0 || (words < 0 && x < len(line)) {
		if used+4 > len(in) {
			err = fmt.Errorf("crl8: truncated run: %w", codec.ErrCorrupt)
			return
		}

		index := binary.LittleEndian.Uint16(in[used:])
		count := int(binary.LittleEndian.Uint16(in[used+2:]))
		used += 4
		if words > 0 {
			words -= 2
		}

		if index > 0xff || count == 0 || count > len(line)-x {
			err = fmt.Errorf("crl8: bad run (%d, %d) at pixel %d of %d: %w", index, count, x, len(line), codec.ErrCorrupt)
			return
		}

		for end := x + count; x < end; x++ {
			line[x] = byte(index)
		}
	}

	if x != len(line) {
		err = fmt.Errorf("crl8: line has %d of %d pixels: %w", x, len(line), codec.ErrCorrupt)
	}

	return
}

// DecompressSubset decodes in into the next subset of lines of out
func (c *Codec) DecompressSubset(in, out []byte) (n int, err error) {
	c.Begin(codec.StateDecompressing)

	lines := c.SubsetLines()
	stride := c.LineBytes()

	if len(out) < lines*stride {
		err = fmt.Errorf("crl8: %d byte output, need %d: %w", len(out), lines*stride, io.ErrShortBuffer)
		return
	}

	pos := 0
	for y := 0; y < lines; y++ {
		line := out[y*stride : (y+1)*stride]
		for x := c.Width(); x < stride; x++ {
			line[x] = 0
		}

		words := -1
		if c.LineHeader {
			if c.SubsetPosY()+y > 0xffff {
				err = fmt.Errorf("crl8: line %d is past the last line a line header can number", c.SubsetPosY()+y)
				return
			}
			if pos+headerSize > len(in) {
				err = fmt.Errorf("crl8: truncated line header: %w", codec.ErrCorrupt)
				return
			}

			var header lineHeader
			err = restruct.Unpack(in[pos:pos+headerSize], binary.LittleEndian, &header)
			if err != nil {
				return
			}
			pos += headerSize

			if header.Marker != lineMarker || header.Words%2 != 0 || header.Offset != 0 {
				err = fmt.Errorf("crl8: bad line header %+v: %w", header, codec.ErrCorrupt)
				return
			}
			if header.Line != uint16(c.SubsetPosY()+y) {
				err = fmt.Errorf("crl8: line header for line %d, expected %d: %w", header.Line, c.SubsetPosY()+y, codec.ErrCorrupt)
				return
			}

			words = int(header.Words)
		}

		var used int
		used, err = decodeLine(in[pos:], line[:c.Width()], words)
		if err != nil {
			return
		}
		pos += used
	}

	n = lines * stride
	c.Advance(lines)

	return
}
