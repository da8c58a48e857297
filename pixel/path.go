//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package pixel

import (
	"fmt"
)

// Path converts between two pixel types, directly when a converter is
// registered, otherwise in two steps through an anchor format
type Path struct {
	steps   []*Converter
	scratch []byte
}

// FindPath returns a conversion path, or ErrUnsupported
func FindPath(from, to *PixelType) (path *Path, err error) {
	conv := from.HasConverterTo(to)
	if conv != nil {
		path = &Path{steps: []*Converter{conv}}
		return
	}

	// The 16-bit RGBA anchor carries every channel of every format
	for _, id := range append([]ClassID{V64R16G16B16A16}, Anchors...) {
		mid := DefaultFactory().CreateByID(id)
		first := from.HasConverterTo(mid)
		second := mid.HasConverterTo(to)
		if first != nil && second != nil {
			path = &Path{steps: []*Converter{first, second}}
			return
		}
	}

	err = fmt.Errorf("%v to %v: %w", from, to, ErrUnsupported)
	return
}

// Steps is the number of converters applied
func (path *Path) Steps() int {
	return len(path.steps)
}

// Convert writes count converted pixels of src to dst
func (path *Path) Convert(src, dst []byte, count int) {
	if len(path.steps) == 1 {
		path.steps[0].Convert(src, dst, count)
		return
	}

	mid := path.steps[0].To()
	size := mid.LineBytes(count, 0)
	if cap(path.scratch) < size {
		path.scratch = make([]byte, size)
	}
	scratch := path.scratch[:size]

	path.steps[0].Convert(src, scratch, count)
	path.steps[1].Convert(scratch, dst, count)
}
