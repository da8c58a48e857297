//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package crl8

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ezrec/imagepp/codec"
)

func words(data []byte) (w []uint16) {
	for n := 0; n+1 < len(data); n += 2 {
		w = append(w, binary.LittleEndian.Uint16(data[n:]))
	}
	return
}

func newCodec(width, height int) (c *Codec) {
	c = New()
	c.SetDimensions(width, height)
	return
}

func compress(t *testing.T, c *Codec, in []byte) []byte {
	out := make([]byte, c.SubsetMaxCompressedSize())
	n, err := c.CompressSubset(in, out)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	return out[:n]
}

func decompress(t *testing.T, c *Codec, in []byte, size int) []byte {
	out := make([]byte, size)
	n, err := c.DecompressSubset(in, out)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	return out[:n]
}

func TestCompressRuns(t *testing.T) {
	c := newCodec(4, 1)

	rle := compress(t, c, []byte{7, 7, 7, 9})
	expect := []uint16{7, 3, 9, 1}
	if !cmp.Equal(words(rle), expect) {
		t.Fatalf("expected %v, got %v", expect, words(rle))
	}

	if c.State() != codec.StateIdle || c.SubsetPosY() != 0 {
		t.Fatalf("expected reset after the last line, got %v at %v", c.State(), c.SubsetPosY())
	}

	got := decompress(t, c, rle, 4)
	if !cmp.Equal(got, []byte{7, 7, 7, 9}) {
		t.Fatalf("round trip: got %v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	const width = 64
	const height = 6

	alternating := make([]byte, width*height)
	distinct := make([]byte, width*height)
	for n := range alternating {
		alternating[n] = byte((n / 3) & 1)
		distinct[n] = byte(n)
	}

	table := map[string][]byte{
		"identical":   bytes.Repeat([]byte{0x5a}, width*height),
		"distinct":    distinct,
		"alternating": alternating,
	}

	for name, data := range table {
		for _, header := range []bool{false, true} {
			for _, subset := range []int{1, 4, height} {
				c := newCodec(width, height)
				c.LineHeader = header
				c.SetSubsetHeight(subset)

				var got []byte
				var chunks [][]byte
				for y := 0; y < height; y += subset {
					end := y + subset
					if end > height {
						end = height
					}
					chunks = append(chunks, compress(t, c, data[y*width:end*width]))
				}

				for _, chunk := range chunks {
					lines := c.SubsetLines()
					got = append(got, decompress(t, c, chunk, lines*width)...)
				}

				if !bytes.Equal(got, data) {
					t.Errorf("%v header=%v subset=%v: round trip mismatch", name, header, subset)
				}
				if c.State() != codec.StateIdle {
					t.Errorf("%v: expected idle, got %v", name, c.State())
				}
			}
		}
	}
}

func TestSingleRunSize(t *testing.T) {
	c := newCodec(100, 2)
	rle := compress(t, c, bytes.Repeat([]byte{3}, 200))

	expect := []uint16{3, 100, 3, 100}
	if !cmp.Equal(words(rle), expect) {
		t.Fatalf("expected %v, got %v", expect, words(rle))
	}
}

func TestRunSaturates(t *testing.T) {
	const width = 0x10000 + 5

	c := newCodec(width, 1)
	data := bytes.Repeat([]byte{1}, width)

	rle := compress(t, c, data)
	expect := []uint16{1, 0xffff, 1, 6}
	if !cmp.Equal(words(rle), expect) {
		t.Fatalf("expected %v, got %v", expect, words(rle))
	}

	got := decompress(t, c, rle, width)
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch")
	}
}

func TestLineHeader(t *testing.T) {
	c := newCodec(4, 2)
	c.LineHeader = true

	rle := compress(t, c, []byte{7, 7, 7, 9, 1, 1, 1, 1})
	expect := []uint16{
		0xffff, 4, 0, 0, 7, 3, 9, 1,
		0xffff, 2, 1, 0, 1, 4,
	}
	if !cmp.Equal(words(rle), expect) {
		t.Fatalf("expected %v, got %v", expect, words(rle))
	}
}

func TestLineHeaderLastLine(t *testing.T) {
	c := newCodec(1, 0x10002)
	c.LineHeader = true
	c.SetSubsetHeight(2)
	c.SetSubsetPosY(0xfffe)

	rle := compress(t, c, []byte{5, 6})
	expect := []uint16{
		0xffff, 2, 0xfffe, 0, 5, 1,
		0xffff, 2, 0xffff, 0, 6, 1,
	}
	if !cmp.Equal(words(rle), expect) {
		t.Fatalf("expected %v, got %v", expect, words(rle))
	}

	out := make([]byte, c.SubsetMaxCompressedSize())
	_, err := c.CompressSubset([]byte{7, 8}, out)
	if err == nil {
		t.Fatalf("expected line 0x10000 to be rejected")
	}

	d := newCodec(1, 0x10002)
	d.LineHeader = true
	d.SetSubsetPosY(0x10000)
	_, err = d.DecompressSubset([]byte{0xff, 0xff, 2, 0, 0, 0, 0, 0, 7, 0, 1, 0}, make([]byte, 2))
	if err == nil {
		t.Fatalf("expected line 0x10000 to be rejected")
	}
}

func TestLinePadding(t *testing.T) {
	c := newCodec(3, 2)
	c.SetLinePaddingBits(8)

	in := []byte{1, 2, 2, 0xee, 4, 4, 4, 0xee}
	rle := compress(t, c, in)
	if !cmp.Equal(words(rle), []uint16{1, 1, 2, 2, 4, 3}) {
		t.Fatalf("padding was encoded: %v", words(rle))
	}

	got := decompress(t, c, rle, len(in))
	expect := []byte{1, 2, 2, 0, 4, 4, 4, 0}
	if !cmp.Equal(got, expect) {
		t.Fatalf("expected %v, got %v", expect, got)
	}
}

func TestDecompressCorrupt(t *testing.T) {
	table := map[string][]uint16{
		"overrun":   {7, 5},
		"truncated": {7, 2},
		"zero":      {7, 0, 7, 4},
		"index":     {0x100, 4},
	}

	for name, w := range table {
		data := make([]byte, len(w)*2)
		for n, v := range w {
			binary.LittleEndian.PutUint16(data[n*2:], v)
		}

		c := newCodec(4, 1)
		_, err := c.DecompressSubset(data, make([]byte, 4))
		if !errors.Is(err, codec.ErrCorrupt) {
			t.Errorf("%v: expected corrupt data error, got %v", name, err)
		}
	}

	c := newCodec(4, 1)
	c.LineHeader = true
	data := []byte{0xff, 0xff, 4, 0, 3, 0, 0, 0, 7, 0, 4, 0}
	_, err := c.DecompressSubset(data, make([]byte, 4))
	if !errors.Is(err, codec.ErrCorrupt) {
		t.Errorf("wrong line number: expected corrupt data error, got %v", err)
	}
}

func TestBitsPerPixel(t *testing.T) {
	c := New()
	if !c.IsBitsPerPixelSupported(8) || c.IsBitsPerPixelSupported(4) {
		t.Fatalf("only 8 bits per pixel should be supported")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	c.SetBitsPerPixel(1)
}

func TestMixedStatePanics(t *testing.T) {
	c := newCodec(4, 2)
	c.SetSubsetHeight(1)
	compress(t, c, []byte{1, 2, 3, 4})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic decompressing while compressing")
		}
	}()
	_, _ = c.DecompressSubset([]byte{1, 0, 4, 0}, make([]byte, 4))
}

func TestRegistered(t *testing.T) {
	c, err := codec.New(Name)
	if err != nil {
		t.Fatal(err)
	}

	if c.Name() != Name {
		t.Fatalf("expected %v, got %v", Name, c.Name())
	}
}
