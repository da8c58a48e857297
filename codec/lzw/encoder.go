//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package lzw

import (
	"fmt"
	"io"
)

const (
	bitsMin = 9
	bitsMax = 12

	codeClear = 256
	codeEOI   = 257
	codeFirst = 258
	codeMax   = (1 << bitsMax) - 1

	hashSize  = 9001 // 91% occupancy
	hashShift = 13 - 8
)

func maxCode(bits uint) int {
	return (1 << bits) - 1
}

type hashEntry struct {
	hash int32 // (byte << bitsMax) + prefix code, -1 when empty
	code uint16
}

// Encoder compresses byte streams with TIFF flavored LZW: MSB first codes
// of 9 to 12 bits, the width growing after the code that fills it
type Encoder struct {
	table [hashSize]hashEntry

	out      []byte
	n        int
	nextData uint32
	nextBits uint
	err      error
}

// MaxEncodedSize bounds the size of an encoded stream of size bytes
func MaxEncodedSize(size int) int {
	if size == 0 {
		return 0
	}

	codes := size + size/(codeMax-codeFirst) + 4
	return (codes*bitsMax+7)/8 + 4
}

func (enc *Encoder) clearTable() {
	for n := range enc.table {
		enc.table[n].hash = -1
	}
}

func (enc *Encoder) putCode(code int, bits uint) {
	if enc.err != nil {
		return
	}

	if enc.n+2 > len(enc.out) {
		enc.err = fmt.Errorf("lzw: output full at %d bytes: %w", enc.n, io.ErrShortBuffer)
		return
	}

	enc.nextData = (enc.nextData << bits) | uint32(code)
	enc.nextBits += bits

	for enc.nextBits >= 8 {
		enc.out[enc.n] = byte(enc.nextData >> (enc.nextBits - 8))
		enc.n++
		enc.nextBits -= 8
	}
}

// Encode compresses in as one complete stream into out. An empty input
// encodes to nothing; otherwise the stream starts with a clear code and
// ends with an end of information code.
func (enc *Encoder) Encode(in, out []byte) (n int, err error) {
	if len(in) == 0 {
		return
	}

	enc.out = out
	enc.n = 0
	enc.nextData = 0
	enc.nextBits = 0
	enc.err = nil
	enc.clearTable()

	bits := uint(bitsMin)
	limit := maxCode(bits)
	freeEntry := codeFirst

	enc.putCode(codeClear, bits)
	ent := int(in[0])

	for _, c := range in[1:] {
		fcode := int32(c)<<bitsMax + int32(ent)
		h := (int(c) << hashShift) ^ ent

		if enc.table[h].hash == fcode {
			ent = int(enc.table[h].code)
			continue
		}

		if enc.table[h].hash >= 0 {
			disp := hashSize - h
			if h == 0 {
				disp = 1
			}

			found := false
			for {
				h -= disp
				if h < 0 {
					h += hashSize
				}
				if enc.table[h].hash == fcode {
					found = true
					break
				}
				if enc.table[h].hash < 0 {
					break
				}
			}

			if found {
				ent = int(enc.table[h].code)
				continue
			}
		}

		enc.putCode(ent, bits)
		ent = int(c)
		enc.table[h] = hashEntry{hash: fcode, code: uint16(freeEntry)}
		freeEntry++

		if freeEntry == codeMax-1 {
			enc.clearTable()
			freeEntry = codeFirst
			enc.putCode(codeClear, bits)
			bits = bitsMin
			limit = maxCode(bits)
		} else if freeEntry > limit {
			bits++
			limit = maxCode(bits)
		}
	}

	// The last code still grows the decoder's table
	enc.putCode(ent, bits)
	freeEntry++
	if freeEntry == codeMax-1 {
		enc.putCode(codeClear, bits)
		bits = bitsMin
	} else if freeEntry > limit {
		bits++
	}

	enc.putCode(codeEOI, bits)

	if enc.nextBits > 0 && enc.err == nil {
		if enc.n < len(enc.out) {
			enc.out[enc.n] = byte(enc.nextData << (8 - enc.nextBits))
			enc.n++
		} else {
			enc.err = fmt.Errorf("lzw: no room for padding: %w", io.ErrShortBuffer)
		}
	}

	n, err = enc.n, enc.err
	enc.out = nil

	return
}
