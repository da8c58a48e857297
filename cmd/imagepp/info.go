//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

var errNoImage = errors.New("no image loaded")

type InfoCommand struct {
	*pflag.FlagSet

	Palette bool
}

func NewInfoCommand() (info *InfoCommand) {
	info = &InfoCommand{
		FlagSet: pflag.NewFlagSet("info", pflag.ContinueOnError),
	}

	info.SetInterspersed(false)
	info.BoolVarP(&info.Palette, "palette", "P", false, "List the palette of indexed images")

	return
}

func (info *InfoCommand) Filter(input *Image) (output *Image, err error) {
	buf := input.Buffer
	if buf == nil {
		err = errNoImage
		return
	}

	fmt.Printf("Image: %vx%v %v, %v bits per pixel, %v bytes per line\n",
		buf.Width, buf.Height, buf.Type, buf.Type.CountPixelRawDataBits(), buf.Stride())

	layout := &input.Layout
	fmt.Printf("Strips: %v, %v lines per strip, %v padding bits", layout.Codec, layout.StripHeight, layout.PaddingBits)
	if layout.LineHeader {
		fmt.Print(", line headers")
	}
	fmt.Println()

	pal := buf.Type.Palette()
	if info.Palette && pal != nil {
		for n := 0; n < pal.Count(); n++ {
			c := pal.Color(n)
			fmt.Printf("%4d: #%02x%02x%02x%02x\n", n, c.R, c.G, c.B, c.A)
		}
	}

	output = input

	return
}
