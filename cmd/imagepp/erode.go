//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package main

import (
	"github.com/spf13/pflag"

	"github.com/ezrec/imagepp/pixel"
)

type ErodeCommand struct {
	*pflag.FlagSet

	Passes int
}

func NewErodeCommand() (ec *ErodeCommand) {
	ec = &ErodeCommand{
		FlagSet: pflag.NewFlagSet("erode", pflag.ContinueOnError),
	}

	ec.SetInterspersed(false)
	ec.IntVarP(&ec.Passes, "passes", "n", 1, "Number of erosion passes")

	return
}

// erodePlane thresholds a gray plane, keeping only lit pixels whose eight
// neighbors are also lit. Outside the plane counts as lit.
func erodePlane(plane []byte, width, height int) (out []byte) {
	lit := func(x, y int) bool {
		if x < 0 || y < 0 || x >= width || y >= height {
			return true
		}
		return plane[y*width+x] > 127
	}

	out = make([]byte, len(plane))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			on := true
			for dy := -1; dy <= 1 && on; dy++ {
				for dx := -1; dx <= 1 && on; dx++ {
					on = lit(x+dx, y+dy)
				}
			}
			if on {
				out[y*width+x] = 0xff
			}
		}
	}

	return
}

func (ec *ErodeCommand) Filter(input *Image) (output *Image, err error) {
	in := input.Buffer
	if in == nil {
		err = errNoImage
		return
	}

	gray := pixel.NewBuffer(pixel.New(pixel.V8Gray8), in.Width, in.Height, 0)

	into, err := pixel.FindPath(in.Type, gray.Type)
	if err != nil {
		return
	}

	outof, err := pixel.FindPath(gray.Type, in.Type)
	if err != nil {
		return
	}

	for y := 0; y < in.Height; y++ {
		into.Convert(in.Line(y), gray.Line(y), in.Width)
	}

	for pass := 0; pass < ec.Passes; pass++ {
		gray.Pix = erodePlane(gray.Pix, gray.Width, gray.Height)
	}

	out := pixel.NewBuffer(in.Type, in.Width, in.Height, in.PaddingBits)
	for y := 0; y < in.Height; y++ {
		outof.Convert(gray.Line(y), out.Line(y), in.Width)
	}

	next := *input
	next.Buffer = out
	output = &next

	return
}
