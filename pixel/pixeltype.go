//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

// Package pixel describes raw pixel layouts, their palettes, and the
// converters between them
package pixel

import (
	"errors"
	"fmt"
	"image/color"
)

// ErrUnsupported is returned when no pixel type or converter exists for a
// request
var ErrUnsupported = errors.New("pixel format not supported")

// ClassID identifies a concrete pixel format
type ClassID uint32

const (
	InvalidClassID = ClassID(iota)
	I1R8G8B8
	I1R8G8B8A8
	I4R8G8B8
	I4R8G8B8A8
	I8R8G8B8
	I8R8G8B8A8
	V1Gray1
	V8Gray8
	V8GrayWhite8
	V16Gray16
	V16R5G6B5
	V24R8G8B8
	V24B8G8R8
	V32R8G8B8A8
	V32R8G8B8X8
	V48R16G16B16
	V64R16G16B16A16
	V96R32G32B32
	V32C8M8Y8K8
	V32Float32
)

var classNames = map[ClassID]string{
	I1R8G8B8:        "I1R8G8B8",
	I1R8G8B8A8:      "I1R8G8B8A8",
	I4R8G8B8:        "I4R8G8B8",
	I4R8G8B8A8:      "I4R8G8B8A8",
	I8R8G8B8:        "I8R8G8B8",
	I8R8G8B8A8:      "I8R8G8B8A8",
	V1Gray1:         "V1Gray1",
	V8Gray8:         "V8Gray8",
	V8GrayWhite8:    "V8GrayWhite8",
	V16Gray16:       "V16Gray16",
	V16R5G6B5:       "V16R5G6B5",
	V24R8G8B8:       "V24R8G8B8",
	V24B8G8R8:       "V24B8G8R8",
	V32R8G8B8A8:     "V32R8G8B8A8",
	V32R8G8B8X8:     "V32R8G8B8X8",
	V48R16G16B16:    "V48R16G16B16",
	V64R16G16B16A16: "V64R16G16B16A16",
	V96R32G32B32:    "V96R32G32B32",
	V32C8M8Y8K8:     "V32C8M8Y8K8",
	V32Float32:      "V32Float32",
}

func (id ClassID) String() string {
	name, ok := classNames[id]
	if !ok {
		name = fmt.Sprintf("ClassID(%d)", uint32(id))
	}

	return name
}

// ParseClassID finds a class identifier by name
func ParseClassID(name string) (id ClassID, err error) {
	for id, n := range classNames {
		if n == name {
			return id, nil
		}
	}

	err = fmt.Errorf("%s: %w", name, ErrUnsupported)
	return
}

// PixelType is an immutable description of a pixel layout. Only the palette
// of an indexed type may change, and only while locked.
type PixelType struct {
	id        ClassID
	org       ChannelOrg
	indexBits int
	palette   *Palette
	layout    layout
	locked    bool
}

// ID is the class identifier
func (pt *PixelType) ID() ClassID {
	return pt.id
}

func (pt *PixelType) String() string {
	return pt.id.String()
}

// ChannelOrg is the channel organization of a pixel value. For indexed
// types this is the organization of the palette entries.
func (pt *PixelType) ChannelOrg() ChannelOrg {
	return pt.org
}

// CountIndexBits is the width of the palette index, or 0
func (pt *PixelType) CountIndexBits() int {
	return pt.indexBits
}

// CountPixelRawDataBits is the storage width of one pixel
func (pt *PixelType) CountPixelRawDataBits() int {
	if pt.indexBits > 0 {
		return pt.indexBits
	}

	return pt.org.Bits()
}

// IsIndexed reports whether pixels are palette indexes
func (pt *PixelType) IsIndexed() bool {
	return pt.indexBits > 0
}

// Palette is the read-only palette of an indexed type, or nil
func (pt *PixelType) Palette() *Palette {
	return pt.palette
}

// LockPalette makes the palette editable until UnlockPalette
func (pt *PixelType) LockPalette() (pal *Palette) {
	if pt.palette == nil {
		panic("pixel: " + pt.String() + " has no palette")
	}
	if pt.locked {
		panic("pixel: palette already locked")
	}

	pt.locked = true
	pt.palette.frozen = false
	pal = pt.palette

	return
}

// UnlockPalette freezes the palette again
func (pt *PixelType) UnlockPalette() {
	if !pt.locked {
		panic("pixel: palette not locked")
	}

	pt.palette.frozen = true
	pt.locked = false
}

// Clone returns an independent copy, including a deep copy of the palette
func (pt *PixelType) Clone() (clone *PixelType) {
	clone = &PixelType{
		id:        pt.id,
		org:       pt.org.Clone(),
		indexBits: pt.indexBits,
		layout:    pt.layout,
	}

	if pt.palette != nil {
		clone.palette = pt.palette.Clone()
		clone.palette.frozen = true
	}

	return
}

// HasSamePixelInterpretation compares channel roles and data types,
// but not widths
func (pt *PixelType) HasSamePixelInterpretation(other *PixelType) bool {
	if pt.IsIndexed() != other.IsIndexed() {
		return false
	}

	return pt.org.SameInterpretation(other.org)
}

// LineBytes is the byte length of a line of pixels plus padding bits
func (pt *PixelType) LineBytes(width int, paddingBits int) int {
	return (width*pt.CountPixelRawDataBits() + paddingBits + 7) / 8
}

// ColorAt decodes the n'th pixel of a raw buffer
func (pt *PixelType) ColorAt(pix []byte, n int) color.NRGBA64 {
	return pt.layout.get(pix, n, pt.palette)
}

// SetColorAt encodes the n'th pixel of a raw buffer
func (pt *PixelType) SetColorAt(pix []byte, n int, c color.NRGBA64) {
	pt.layout.set(pix, n, c, pt.palette)
}
