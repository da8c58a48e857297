//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

// Package zlib deflates image subsets
package zlib

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/ezrec/imagepp/codec"
)

// Name of the codec in the registry
const Name = "zlib"

// Codec deflates every subset as its own zlib stream
type Codec struct {
	codec.Subset

	// Level is the compression level, zlib.DefaultCompression when zero
	Level int
}

var _ codec.Codec = (*Codec)(nil)

func New() *Codec {
	return &Codec{}
}

func (c *Codec) Name() string {
	return Name
}

func (c *Codec) IsBitsPerPixelSupported(bits int) bool {
	return bits > 0
}

func (c *Codec) Clone() codec.Codec {
	clone := *c
	return &clone
}

// SubsetMaxCompressedSize allows for stored blocks plus the stream framing
func (c *Codec) SubsetMaxCompressedSize() int {
	size := c.SubsetHeight() * c.LineBytes()
	return size + (size/16383+1)*5 + 6 + 64
}

// CompressSubset deflates the next subset of in
func (c *Codec) CompressSubset(in, out []byte) (n int, err error) {
	c.Begin(codec.StateCompressing)

	size := c.SubsetBytes()
	if len(in) < size {
		err = fmt.Errorf("zlib: %d byte subset, expected %d: %w", len(in), size, io.ErrShortBuffer)
		return
	}

	level := c.Level
	if level == 0 {
		level = zlib.DefaultCompression
	}

	var buf bytes.Buffer
	writer, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return
	}

	_, err = writer.Write(in[:size])
	if err != nil {
		return
	}

	err = writer.Close()
	if err != nil {
		return
	}

	if buf.Len() > len(out) {
		err = fmt.Errorf("zlib: %d byte output, need %d: %w", len(out), buf.Len(), io.ErrShortBuffer)
		return
	}

	n = copy(out, buf.Bytes())
	c.Advance(c.SubsetLines())

	return
}

// DecompressSubset inflates in into the next subset of out
func (c *Codec) DecompressSubset(in, out []byte) (n int, err error) {
	c.Begin(codec.StateDecompressing)

	size := c.SubsetBytes()
	if len(out) < size {
		err = fmt.Errorf("zlib: %d byte output, need %d: %w", len(out), size, io.ErrShortBuffer)
		return
	}

	reader, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		err = fmt.Errorf("zlib: %v: %w", err, codec.ErrCorrupt)
		return
	}
	defer reader.Close()

	n, err = io.ReadFull(reader, out[:size])
	if err != nil {
		err = fmt.Errorf("zlib: %d of %d bytes: %v: %w", n, size, err, codec.ErrCorrupt)
		return
	}

	c.Advance(c.SubsetLines())

	return
}
