//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package filter

import (
	"github.com/ezrec/imagepp/pixel"
)

// TypeAdaptFilter holds several variants of a filter, each working on its own
// pixel type, and dispatches to the one matching the input pixel type
type TypeAdaptFilter struct {
	ports
	filters []TypedFilter
	cursor  int
}

// NewTypeAdaptFilter creates an adapter from the filters, in order
func NewTypeAdaptFilter(filters ...TypedFilter) (ta *TypeAdaptFilter) {
	ta = &TypeAdaptFilter{}
	for _, tf := range filters {
		ta.Insert(tf)
	}

	return
}

// Insert adds a clone of tf at the cursor, and moves the cursor past it
func (ta *TypeAdaptFilter) Insert(tf TypedFilter) {
	clone := tf.Clone().(TypedFilter)
	if ta.input != nil {
		clone.SetInputPixelType(ta.input)
	}
	if ta.output != nil {
		clone.SetOutputPixelType(ta.output)
	}

	ta.filters = append(ta.filters, nil)
	copy(ta.filters[ta.cursor+1:], ta.filters[ta.cursor:])
	ta.filters[ta.cursor] = clone
	ta.cursor++
}

// SetCursor moves the insertion point
func (ta *TypeAdaptFilter) SetCursor(cursor int) {
	if cursor < 0 || cursor > len(ta.filters) {
		panic("filter: cursor out of range")
	}
	ta.cursor = cursor
}

// Filters returns the sub-filters in dispatch order
func (ta *TypeAdaptFilter) Filters() []TypedFilter {
	return ta.filters
}

// SetInputPixelType sets the input type of every sub-filter, then its own
func (ta *TypeAdaptFilter) SetInputPixelType(pt *pixel.PixelType) {
	for _, tf := range ta.filters {
		tf.SetInputPixelType(pt)
	}
	ta.input = pt
}

// SetOutputPixelType sets the output type of every sub-filter, then its own
func (ta *TypeAdaptFilter) SetOutputPixelType(pt *pixel.PixelType) {
	for _, tf := range ta.filters {
		tf.SetOutputPixelType(pt)
	}
	ta.output = pt
}

// GetPreferredFilterFor returns the first sub-filter with the same pixel
// interpretation as pt, or the first sub-filter when none match
func (ta *TypeAdaptFilter) GetPreferredFilterFor(pt *pixel.PixelType) (tf TypedFilter) {
	if len(ta.filters) == 0 {
		return
	}

	for _, tf = range ta.filters {
		if tf.FilterPixelType().HasSamePixelInterpretation(pt) {
			return
		}
	}

	tf = ta.filters[0]
	return
}

// Convert runs the preferred sub-filter for the input pixel type
func (ta *TypeAdaptFilter) Convert(in, out *pixel.Buffer) (err error) {
	checkBuffers(&ta.ports, in, out)

	if len(ta.filters) == 0 {
		panic("filter: no filters to adapt")
	}

	tf := ta.GetPreferredFilterFor(ta.input)
	logger().Debug("filter selected", "input", ta.input, "filter", tf.FilterPixelType())

	return tf.Convert(in, out)
}

// Clone deep copies the sub-filters
func (ta *TypeAdaptFilter) Clone() Filter {
	clone := &TypeAdaptFilter{
		ports:   ta.ports,
		filters: make([]TypedFilter, len(ta.filters)),
		cursor:  ta.cursor,
	}

	for n, tf := range ta.filters {
		clone.filters[n] = tf.Clone().(TypedFilter)
	}

	return clone
}
