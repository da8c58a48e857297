//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package pixel

import (
	"bytes"
	"image/color"
)

// Palette is a table of composite values in its own channel organization.
//
// A palette installed in a PixelType is frozen; it may only be edited
// between PixelType.LockPalette and PixelType.UnlockPalette.
type Palette struct {
	org        ChannelOrg
	maxEntries int
	count      int
	entries    []byte
	frozen     bool
}

// NewPalette creates an empty, editable palette. Only 8-bit RGB and RGBA
// entry organizations are supported.
func NewPalette(org ChannelOrg, maxEntries int) (pal *Palette) {
	if !org.Equal(orgR8G8B8) && !org.Equal(orgR8G8B8A8) {
		panic("pixel: unsupported palette organization " + org.String())
	}

	pal = &Palette{
		org:        org.Clone(),
		maxEntries: maxEntries,
		entries:    make([]byte, maxEntries*org.Bits()/8),
	}

	return
}

func (pal *Palette) entrySize() int {
	return pal.org.Bits() / 8
}

// Org is the channel organization of an entry
func (pal *Palette) Org() ChannelOrg {
	return pal.org
}

// MaxEntries is the capacity of the palette
func (pal *Palette) MaxEntries() int {
	return pal.maxEntries
}

// Count is the number of entries in use
func (pal *Palette) Count() int {
	return pal.count
}

// Entry returns the raw bytes of an entry
func (pal *Palette) Entry(index int) []byte {
	size := pal.entrySize()
	return pal.entries[index*size : (index+1)*size]
}

// Color returns an entry as a non-premultiplied color
func (pal *Palette) Color(index int) (c color.NRGBA) {
	if index >= pal.count {
		c.A = 0xff
		return
	}

	entry := pal.Entry(index)
	c = color.NRGBA{R: entry[0], G: entry[1], B: entry[2], A: 0xff}
	if len(entry) == 4 {
		c.A = entry[3]
	}

	return
}

func (pal *Palette) mustEdit() {
	if pal.frozen {
		panic("pixel: palette is not locked for editing")
	}
}

// SetColor replaces an entry, growing the used count if needed
func (pal *Palette) SetColor(index int, c color.NRGBA) {
	pal.mustEdit()
	if index < 0 || index >= pal.maxEntries {
		panic("pixel: palette index out of range")
	}

	entry := pal.Entry(index)
	entry[0], entry[1], entry[2] = c.R, c.G, c.B
	if len(entry) == 4 {
		entry[3] = c.A
	}

	if index >= pal.count {
		pal.count = index + 1
	}
}

// Add appends an entry; ok is false when the palette is full
func (pal *Palette) Add(c color.NRGBA) (index int, ok bool) {
	if pal.count >= pal.maxEntries {
		return
	}

	index = pal.count
	pal.SetColor(index, c)
	ok = true

	return
}

// Clear removes all entries
func (pal *Palette) Clear() {
	pal.mustEdit()

	for n := range pal.entries {
		pal.entries[n] = 0
	}
	pal.count = 0
}

// Clone returns an editable deep copy
func (pal *Palette) Clone() (clone *Palette) {
	clone = &Palette{
		org:        pal.org.Clone(),
		maxEntries: pal.maxEntries,
		count:      pal.count,
		entries:    append([]byte(nil), pal.entries...),
	}

	return
}

// Equal compares organization, capacity and the entries in use
func (pal *Palette) Equal(other *Palette) bool {
	if pal.maxEntries != other.maxEntries || pal.count != other.count || !pal.org.Equal(other.org) {
		return false
	}

	used := pal.count * pal.entrySize()

	return bytes.Equal(pal.entries[:used], other.entries[:used])
}

// Nearest finds the entry closest to the color. Exact matches win, first
// entry first.
func (pal *Palette) Nearest(c color.NRGBA) (index int) {
	hasAlpha := pal.org.Has(RoleAlpha)
	best := -1

	for n := 0; n < pal.count; n++ {
		e := pal.Color(n)
		dr := int(e.R) - int(c.R)
		dg := int(e.G) - int(c.G)
		db := int(e.B) - int(c.B)
		dist := dr*dr + dg*dg + db*db
		if hasAlpha {
			da := int(e.A) - int(c.A)
			dist += da * da
		}

		if dist == 0 {
			return n
		}

		if best < 0 || dist < best {
			best = dist
			index = n
		}
	}

	return
}
