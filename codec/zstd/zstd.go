//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

// Package zstd compresses image subsets with Zstandard
package zstd

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/ezrec/imagepp/codec"
)

// Name of the codec in the registry
const Name = "zstd"

// Codec compresses every subset as its own zstd frame. The coders are
// built on first use and held until Close.
type Codec struct {
	codec.Subset

	// Level is the encoder level, zstd.SpeedDefault when zero
	Level zstd.EncoderLevel

	encoder *zstd.Encoder
	decoder *zstd.Decoder
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

// Clone copies the configuration; the clone builds its own coders
func (c *Codec) Clone() codec.Codec {
	clone := *c
	clone.encoder = nil
	clone.decoder = nil
	return &clone
}

// SubsetMaxCompressedSize is the zstd compress bound plus frame overhead
func (c *Codec) SubsetMaxCompressedSize() int {
	size := c.SubsetHeight() * c.LineBytes()
	bound := size + size>>8
	if size < 128<<10 {
		bound += (128<<10 - size) >> 11
	}

	return bound + 64
}

// Close releases the coders. A closed codec may be used again; it builds
// new coders on demand.
func (c *Codec) Close() (err error) {
	if c.encoder != nil {
		err = c.encoder.Close()
		c.encoder = nil
	}

	if c.decoder != nil {
		c.decoder.Close()
		c.decoder = nil
	}

	return
}

func (c *Codec) coders() (err error) {
	if c.encoder == nil {
		level := c.Level
		if level == 0 {
			level = zstd.SpeedDefault
		}
		c.encoder, err = zstd.NewWriter(nil,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(level),
			zstd.WithLowerEncoderMem(true),
		)
		if err != nil {
			return
		}
	}

	if c.decoder == nil {
		c.decoder, err = zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(true),
		)
		if err != nil {
			return
		}
	}

	return
}

// CompressSubset compresses the next subset of in
func (c *Codec) CompressSubset(in, out []byte) (n int, err error) {
	c.Begin(codec.StateCompressing)

	size := c.SubsetBytes()
	if len(in) < size {
		err = fmt.Errorf("zstd: %d byte subset, expected %d: %w", len(in), size, io.ErrShortBuffer)
		return
	}

	err = c.coders()
	if err != nil {
		return
	}

	frame := c.encoder.EncodeAll(in[:size], nil)
	if len(frame) > len(out) {
		err = fmt.Errorf("zstd: %d byte output, need %d: %w", len(out), len(frame), io.ErrShortBuffer)
		return
	}

	n = copy(out, frame)
	c.Advance(c.SubsetLines())

	return
}

// DecompressSubset decompresses in into the next subset of out
func (c *Codec) DecompressSubset(in, out []byte) (n int, err error) {
	c.Begin(codec.StateDecompressing)

	size := c.SubsetBytes()
	if len(out) < size {
		err = fmt.Errorf("zstd: %d byte output, need %d: %w", len(out), size, io.ErrShortBuffer)
		return
	}

	err = c.coders()
	if err != nil {
		return
	}

	plain, err := c.decoder.DecodeAll(in, nil)
	if err != nil {
		err = fmt.Errorf("zstd: %v: %w", err, codec.ErrCorrupt)
		return
	}

	if len(plain) != size {
		err = fmt.Errorf("zstd: %d bytes, expected %d: %w", len(plain), size, codec.ErrCorrupt)
		return
	}

	n = copy(out, plain)
	c.Advance(c.SubsetLines())

	return
}
