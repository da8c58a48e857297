//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package lzw

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	tifflzw "golang.org/x/image/tiff/lzw"

	"github.com/ezrec/imagepp/codec"
)

func encode(t *testing.T, in []byte) []byte {
	out := make([]byte, MaxEncodedSize(len(in)))

	n, err := (&Encoder{}).Encode(in, out)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	return out[:n]
}

func decode(t *testing.T, in []byte) []byte {
	reader := tifflzw.NewReader(bytes.NewReader(in), tifflzw.MSB, 8)
	defer reader.Close()

	out, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	return out
}

// codes splits a stream into its codes, following the width changes a
// decoder makes
func codes(data []byte) (list []int) {
	width := uint(bitsMin)
	hi := codeEOI
	bit := 0

	for bit+int(width) <= len(data)*8 {
		code := 0
		for n := 0; n < int(width); n++ {
			b := (data[bit/8] >> (7 - uint(bit%8))) & 1
			code = code<<1 | int(b)
			bit++
		}
		list = append(list, code)

		switch code {
		case codeEOI:
			return
		case codeClear:
			width = bitsMin
			hi = codeEOI
			continue
		}

		hi++
		if hi >= (1<<width)-1 && width < bitsMax {
			width++
		}
	}

	return
}

func TestEncodeEmpty(t *testing.T) {
	n, err := (&Encoder{}).Encode(nil, make([]byte, 16))
	if n != 0 || err != nil {
		t.Fatalf("expected nothing written, got %v, %v", n, err)
	}
}

func TestEncodeSingle(t *testing.T) {
	data := encode(t, []byte{0x41})

	expect := []byte{0x80, 0x10, 0x60, 0x20}
	if !cmp.Equal(data, expect) {
		t.Fatalf("expected %x, got %x", expect, data)
	}

	if !cmp.Equal(codes(data), []int{codeClear, 0x41, codeEOI}) {
		t.Fatalf("unexpected codes %v", codes(data))
	}

	if !cmp.Equal(decode(t, data), []byte{0x41}) {
		t.Fatalf("round trip failed")
	}
}

func TestEncodeLongRun(t *testing.T) {
	// Every code covers one byte more than the last, so the table fills
	// after about 7.4M bytes
	in := bytes.Repeat([]byte{0x33}, 8000000)
	data := encode(t, in)

	clears := 0
	for _, code := range codes(data) {
		if code == codeClear {
			clears++
		}
	}

	if clears < 2 {
		t.Fatalf("expected the table to be cleared, got %v clear codes", clears)
	}

	if !bytes.Equal(decode(t, data), in) {
		t.Fatalf("round trip failed")
	}
}

func TestEncodeRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, size := range []int{1, 2, 255, 256, 4096, 100000} {
		in := make([]byte, size)
		rng.Read(in)

		data := encode(t, in)
		if len(data) > MaxEncodedSize(size) {
			t.Fatalf("%v: %v bytes exceeds the bound", size, len(data))
		}

		if !bytes.Equal(decode(t, data), in) {
			t.Fatalf("%v: round trip failed", size)
		}
	}
}

func TestEncodeText(t *testing.T) {
	in := bytes.Repeat([]byte("TOBEORNOTTOBEORTOBEORNOT#"), 2000)
	data := encode(t, in)

	if len(data) >= len(in)/4 {
		t.Errorf("expected repetitive input to compress, got %v of %v bytes", len(data), len(in))
	}

	if !bytes.Equal(decode(t, data), in) {
		t.Fatalf("round trip failed")
	}
}

func TestEncodeShortBuffer(t *testing.T) {
	in := make([]byte, 1000)
	rand.New(rand.NewSource(2)).Read(in)

	_, err := (&Encoder{}).Encode(in, make([]byte, 100))
	if !errors.Is(err, io.ErrShortBuffer) {
		t.Fatalf("expected short buffer, got %v", err)
	}
}

func TestCodecSubsets(t *testing.T) {
	const width = 37
	const height = 10

	c := New()
	c.SetDimensions(width, height)
	c.SetBitsPerPixel(4)
	c.SetLinePaddingBits(3)
	c.SetSubsetHeight(3)

	stride := c.LineBytes()
	image := make([]byte, stride*height)
	for n := range image {
		image[n] = byte(n / 7)
	}

	var chunks [][]byte
	for y := 0; y < height; y += 3 {
		lines := c.SubsetLines()
		out := make([]byte, c.SubsetMaxCompressedSize())
		n, err := c.CompressSubset(image[y*stride:(y+lines)*stride], out)
		if err != nil {
			t.Fatalf("line %v: %v", y, err)
		}
		chunks = append(chunks, out[:n])
	}

	if c.State() != codec.StateIdle {
		t.Fatalf("expected idle, got %v", c.State())
	}

	var got []byte
	for _, chunk := range chunks {
		out := make([]byte, c.SubsetBytes())
		_, err := c.DecompressSubset(chunk, out)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, out...)
	}

	if !bytes.Equal(got, image) {
		t.Fatalf("round trip failed")
	}
}

func TestCodecCorrupt(t *testing.T) {
	c := New()
	c.SetDimensions(16, 1)
	c.SetBitsPerPixel(8)

	data := encode(t, make([]byte, 8))
	_, err := c.DecompressSubset(data, make([]byte, 16))
	if !errors.Is(err, codec.ErrCorrupt) {
		t.Fatalf("expected corrupt data, got %v", err)
	}
}
