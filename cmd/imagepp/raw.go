//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/ezrec/imagepp/pixel"
)

type RawCommand struct {
	*pflag.FlagSet

	Type        string
	Width       int
	Height      int
	PaddingBits int
	AlignBits   int
}

func NewRawCommand() (rc *RawCommand) {
	rc = &RawCommand{
		FlagSet: pflag.NewFlagSet("raw", pflag.ContinueOnError),
	}

	rc.SetInterspersed(false)
	rc.StringVarP(&rc.Type, "type", "t", pixel.V8Gray8.String(), "Pixel type of raw files")
	rc.IntVarP(&rc.Width, "width", "W", 0, "Width in pixels")
	rc.IntVarP(&rc.Height, "height", "H", 0, "Height in lines")
	rc.IntVarP(&rc.PaddingBits, "padding", "P", 0, "Padding bits after each line")
	rc.IntVarP(&rc.AlignBits, "align", "a", 0, "Pad each line to a multiple of this many bits")

	return
}

func (rc *RawCommand) Filter(input *Image) (output *Image, err error) {
	id, err := pixel.ParseClassID(rc.Type)
	if err != nil {
		return
	}

	if rc.Width <= 0 || rc.Height <= 0 {
		err = fmt.Errorf("invalid geometry %dx%d", rc.Width, rc.Height)
		return
	}

	pt := pixel.New(id)

	padding := rc.PaddingBits
	if rc.AlignBits > 0 {
		padding = pixel.AlignedPadding(pt, rc.Width, rc.AlignBits)
	}

	next := *input
	next.Raw = RawGeometry{
		Type:        pt,
		Width:       rc.Width,
		Height:      rc.Height,
		PaddingBits: padding,
	}
	output = &next

	return
}
