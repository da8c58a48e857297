//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

// Package lzw compresses image subsets as TIFF compatible LZW streams
package lzw

import (
	"bytes"
	"fmt"
	"io"

	tifflzw "golang.org/x/image/tiff/lzw"

	"github.com/ezrec/imagepp/codec"
)

// Name of the codec in the registry
const Name = "lzw"

// Codec encodes every subset as its own LZW stream
type Codec struct {
	codec.Subset
	encoder *Encoder
}

var _ codec.Codec = (*Codec)(nil)

// New returns an idle codec
func New() (c *Codec) {
	c = &Codec{}
	return
}

func (c *Codec) Name() string {
	return Name
}

// IsBitsPerPixelSupported is true for any depth; lines are byte streams
func (c *Codec) IsBitsPerPixelSupported(bits int) bool {
	return bits > 0
}

func (c *Codec) Clone() codec.Codec {
	return &Codec{Subset: c.Subset}
}

func (c *Codec) SubsetMaxCompressedSize() int {
	return MaxEncodedSize(c.SubsetHeight() * c.LineBytes())
}

// CompressSubset encodes the next subset of in
func (c *Codec) CompressSubset(in, out []byte) (n int, err error) {
	c.Begin(codec.StateCompressing)

	size := c.SubsetBytes()
	if len(in) < size {
		err = fmt.Errorf("lzw: %d byte subset, expected %d: %w", len(in), size, io.ErrShortBuffer)
		return
	}

	if c.encoder == nil {
		c.encoder = &Encoder{}
	}

	n, err = c.encoder.Encode(in[:size], out)
	if err != nil {
		return
	}

	c.Advance(c.SubsetLines())

	return
}

// DecompressSubset decodes in into the next subset of out
func (c *Codec) DecompressSubset(in, out []byte) (n int, err error) {
	c.Begin(codec.StateDecompressing)

	size := c.SubsetBytes()
	if len(out) < size {
		err = fmt.Errorf("lzw: %d byte output, need %d: %w", len(out), size, io.ErrShortBuffer)
		return
	}

	reader := tifflzw.NewReader(bytes.NewReader(in), tifflzw.MSB, 8)
	defer reader.Close()

	n, err = io.ReadFull(reader, out[:size])
	if err != nil {
		err = fmt.Errorf("lzw: %d of %d bytes: %v: %w", n, size, err, codec.ErrCorrupt)
		return
	}

	c.Advance(c.SubsetLines())

	return
}
