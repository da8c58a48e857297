//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package filter

import (
	"github.com/ezrec/imagepp/pixel"
)

// Chain runs filters one after the other. Between two filters the data is
// kept in the pixel type the next filter works in.
type Chain struct {
	ports
	filters []Filter
}

// NewChain creates a chain of clones of the filters
func NewChain(filters ...Filter) (chain *Chain) {
	chain = &Chain{}
	for _, f := range filters {
		chain.Append(f)
	}

	return
}

// Append adds a clone of f to the end of the chain. A MapFilter following a
// MapFilter of the same pixel type is merged into it.
func (chain *Chain) Append(f Filter) {
	if last := len(chain.filters) - 1; last >= 0 {
		prev, ok := chain.filters[last].(*MapFilter)
		next, isMap := f.(*MapFilter)
		if ok && isMap {
			merged, ok := prev.Then(next)
			if ok {
				chain.filters[last] = merged
				return
			}
		}
	}

	chain.filters = append(chain.filters, f.Clone())
}

// Len is the number of filters in the chain
func (chain *Chain) Len() int {
	return len(chain.filters)
}

// Filters returns the filters in order
func (chain *Chain) Filters() []Filter {
	return chain.filters
}

// link assigns the pixel types between each pair of filters
func (chain *Chain) link() (types []*pixel.PixelType) {
	types = make([]*pixel.PixelType, len(chain.filters)+1)
	types[0] = chain.input
	types[len(chain.filters)] = chain.output

	for n := 1; n < len(chain.filters); n++ {
		if tf, ok := chain.filters[n].(TypedFilter); ok {
			types[n] = tf.FilterPixelType()
		} else {
			types[n] = chain.output
		}
	}

	for n, f := range chain.filters {
		f.SetInputPixelType(types[n])
		f.SetOutputPixelType(types[n+1])
	}

	return
}

// Convert runs every filter in turn. An empty chain converts in directly to
// out.
func (chain *Chain) Convert(in, out *pixel.Buffer) (err error) {
	checkBuffers(&chain.ports, in, out)

	if len(chain.filters) == 0 {
		var path *pixel.Path
		path, err = pixel.FindPath(chain.input, chain.output)
		if err != nil {
			return
		}
		for y := 0; y < in.Height; y++ {
			path.Convert(in.Line(y), out.Line(y), in.Width)
		}
		return
	}

	types := chain.link()

	src := in
	for n, f := range chain.filters {
		dst := out
		if n < len(chain.filters)-1 {
			dst = pixel.NewBuffer(types[n+1], in.Width, in.Height, 0)
		}

		err = f.Convert(src, dst)
		if err != nil {
			return
		}

		src = dst
	}

	return
}

// Clone deep copies the chain
func (chain *Chain) Clone() Filter {
	clone := &Chain{
		ports:   chain.ports,
		filters: make([]Filter, len(chain.filters)),
	}

	for n, f := range chain.filters {
		clone.filters[n] = f.Clone()
	}

	return clone
}
