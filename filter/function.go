//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package filter

import (
	"encoding/binary"
	"fmt"

	"github.com/ezrec/imagepp/pixel"
)

// PixelFunc transforms count pixels in place
type PixelFunc func(pix []byte, count int)

// FunctionFilter applies a PixelFunc in its filter pixel type
type FunctionFilter struct {
	typed
	fn PixelFunc
}

// NewFunctionFilter creates a filter that runs fn on lines of filterType
func NewFunctionFilter(filterType *pixel.PixelType, fn PixelFunc) (ff *FunctionFilter) {
	ff = &FunctionFilter{
		typed: typed{filterType: filterType},
		fn:    fn,
	}

	return
}

// Convert runs the function over every line of in, writing out
func (ff *FunctionFilter) Convert(in, out *pixel.Buffer) (err error) {
	return ff.convert(in, out, ff.fn)
}

// Clone copies the filter; the function is shared
func (ff *FunctionFilter) Clone() Filter {
	clone := *ff
	return &clone
}

// NewChannelMap16 remaps every 16-bit channel of filterType through its own
// 65536 entry table. A nil table leaves its channel alone.
func NewChannelMap16(filterType *pixel.PixelType, maps ...[]uint16) (ff *FunctionFilter, err error) {
	org := filterType.ChannelOrg()
	if filterType.IsIndexed() {
		err = fmt.Errorf("%v: indexed types cannot be channel mapped: %w", filterType, pixel.ErrUnsupported)
		return
	}

	for _, ch := range org {
		if ch.Bits != 16 || ch.Data != pixel.DataInteger {
			err = fmt.Errorf("%v: not a 16-bit channel type: %w", filterType, pixel.ErrUnsupported)
			return
		}
	}

	if len(maps) > len(org) {
		err = fmt.Errorf("%v: %d maps for %d channels", filterType, len(maps), len(org))
		return
	}

	for n, table := range maps {
		if table != nil && len(table) != 0x10000 {
			err = fmt.Errorf("channel %d: map has %d entries, expected 65536", n, len(table))
			return
		}
	}

	channels := len(org)
	tables := append([][]uint16(nil), maps...)

	remap := func(pix []byte, count int) {
		for n := 0; n < count; n++ {
			for c, table := range tables {
				if table == nil {
					continue
				}
				offset := (n*channels + c) * 2
				v := binary.LittleEndian.Uint16(pix[offset:])
				binary.LittleEndian.PutUint16(pix[offset:], table[v])
			}
		}
	}

	ff = NewFunctionFilter(filterType, remap)

	return
}
