//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package filter

import (
	"fmt"
	"math"

	"github.com/ezrec/imagepp/pixel"
)

// Map8 is a lookup table for one 8-bit channel
type Map8 [256]byte

// IdentityMap8 maps every value to itself
func IdentityMap8() (m *Map8) {
	m = &Map8{}
	for n := range m {
		m[n] = byte(n)
	}

	return
}

// MapFilter passes every 8-bit channel through its own lookup table
type MapFilter struct {
	typed
	maps []*Map8 // nil leaves the channel alone
}

// NewMapFilter creates a lookup filter on a type of 8-bit integer channels
func NewMapFilter(filterType *pixel.PixelType, maps ...*Map8) (mf *MapFilter, err error) {
	org := filterType.ChannelOrg()
	if filterType.IsIndexed() {
		err = fmt.Errorf("%v: indexed types cannot be mapped: %w", filterType, pixel.ErrUnsupported)
		return
	}

	for _, ch := range org {
		if ch.Bits != 8 || ch.Data != pixel.DataInteger {
			err = fmt.Errorf("%v: not an 8-bit channel type: %w", filterType, pixel.ErrUnsupported)
			return
		}
	}

	if len(maps) > len(org) {
		err = fmt.Errorf("%v: %d maps for %d channels", filterType, len(maps), len(org))
		return
	}

	mf = &MapFilter{
		typed: typed{filterType: filterType},
		maps:  make([]*Map8, len(org)),
	}
	copy(mf.maps, maps)

	return
}

// Map returns the table of a channel, or nil
func (mf *MapFilter) Map(channel int) *Map8 {
	return mf.maps[channel]
}

func (mf *MapFilter) apply(pix []byte, count int) {
	channels := len(mf.maps)

	for c, m := range mf.maps {
		if m == nil {
			continue
		}
		for n := 0; n < count; n++ {
			offset := n*channels + c
			pix[offset] = m[pix[offset]]
		}
	}
}

// Convert maps every line of in, writing out
func (mf *MapFilter) Convert(in, out *pixel.Buffer) (err error) {
	return mf.convert(in, out, mf.apply)
}

// Clone copies the filter and its tables
func (mf *MapFilter) Clone() Filter {
	clone := &MapFilter{
		typed: mf.typed,
		maps:  make([]*Map8, len(mf.maps)),
	}

	for n, m := range mf.maps {
		if m != nil {
			dup := *m
			clone.maps[n] = &dup
		}
	}

	return clone
}

// Then merges this filter followed by next into one filter. ok is false when
// the filters work on different pixel types.
func (mf *MapFilter) Then(next *MapFilter) (merged *MapFilter, ok bool) {
	if mf.filterType.ID() != next.filterType.ID() {
		return
	}

	merged = mf.Clone().(*MapFilter)
	merged.ports = next.ports

	for c, m := range next.maps {
		if m == nil {
			continue
		}

		first := merged.maps[c]
		if first == nil {
			dup := *m
			merged.maps[c] = &dup
			continue
		}

		for v := range first {
			first[v] = m[first[v]]
		}
	}

	ok = true

	return
}

func colorMaps(filterType *pixel.PixelType, build func(v int) byte) (maps []*Map8) {
	m := &Map8{}
	for v := range m {
		m[v] = build(v)
	}

	for _, ch := range filterType.ChannelOrg() {
		switch ch.Role {
		case pixel.RoleAlpha, pixel.RoleUnused, pixel.RoleVoid:
			maps = append(maps, nil)
		default:
			dup := *m
			maps = append(maps, &dup)
		}
	}

	return
}

func clamp8(v float64) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}

	return byte(math.Round(v))
}

// NewInvertFilter inverts every color channel, leaving alpha alone
func NewInvertFilter(filterType *pixel.PixelType) (*MapFilter, error) {
	return NewMapFilter(filterType, colorMaps(filterType, func(v int) byte { return byte(255 - v) })...)
}

// NewContrastFilter scales color channels around mid-gray
func NewContrastFilter(filterType *pixel.PixelType, contrast float64) (*MapFilter, error) {
	return NewMapFilter(filterType, colorMaps(filterType, func(v int) byte {
		return clamp8((float64(v)-128)*contrast + 128)
	})...)
}

// NewGammaFilter applies a gamma correction to color channels
func NewGammaFilter(filterType *pixel.PixelType, gamma float64) (mf *MapFilter, err error) {
	if gamma <= 0 {
		err = fmt.Errorf("gamma %v: must be positive", gamma)
		return
	}

	return NewMapFilter(filterType, colorMaps(filterType, func(v int) byte {
		return clamp8(255 * math.Pow(float64(v)/255, 1/gamma))
	})...)
}
