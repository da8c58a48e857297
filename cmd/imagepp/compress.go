//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package main

import (
	"github.com/spf13/pflag"

	"github.com/ezrec/imagepp/codec"
	"github.com/ezrec/imagepp/pixel"
)

type CompressCommand struct {
	*pflag.FlagSet

	Codec       string
	StripHeight int
	PaddingBits int
	AlignBits   int
	LineHeader  bool
}

func NewCompressCommand() (cc *CompressCommand) {
	cc = &CompressCommand{
		FlagSet: pflag.NewFlagSet("compress", pflag.ContinueOnError),
	}

	cc.SetInterspersed(false)
	cc.StringVarP(&cc.Codec, "codec", "c", "", "Codec of written strips (default: unchanged)")
	cc.IntVarP(&cc.StripHeight, "strip-height", "s", -1, "Lines per strip, 0 for one strip (default: unchanged)")
	cc.IntVarP(&cc.PaddingBits, "padding", "P", -1, "Padding bits after each stored line (default: unchanged)")
	cc.IntVarP(&cc.AlignBits, "align", "a", 0, "Pad each stored line to a multiple of this many bits")
	cc.BoolVarP(&cc.LineHeader, "line-header", "l", false, "Write line headers, for codecs that have them")

	return
}

func (cc *CompressCommand) Filter(input *Image) (output *Image, err error) {
	next := *input
	layout := &next.Layout

	if cc.Codec != "" {
		_, err = codec.New(cc.Codec)
		if err != nil {
			return
		}
		layout.Codec = cc.Codec
	}

	if cc.StripHeight >= 0 {
		layout.StripHeight = cc.StripHeight
	}

	if cc.PaddingBits >= 0 {
		layout.PaddingBits = cc.PaddingBits
	}

	if cc.AlignBits > 0 {
		if input.Buffer == nil {
			err = errNoImage
			return
		}
		layout.PaddingBits = pixel.AlignedPadding(input.Buffer.Type, input.Buffer.Width, cc.AlignBits)
	}

	if cc.Changed("line-header") {
		layout.LineHeader = cc.LineHeader
	}

	output = &next

	return
}
