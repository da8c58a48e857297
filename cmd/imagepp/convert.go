//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package main

import (
	"fmt"
	"image/color"

	"github.com/spf13/pflag"
	"golang.org/x/image/colornames"

	"github.com/ezrec/imagepp/pixel"
)

type ConvertCommand struct {
	*pflag.FlagSet

	Type       string
	Compose    bool
	Background string
}

func NewConvertCommand() (cc *ConvertCommand) {
	cc = &ConvertCommand{
		FlagSet: pflag.NewFlagSet("convert", pflag.ContinueOnError),
	}

	cc.SetInterspersed(false)
	cc.StringVarP(&cc.Type, "type", "t", pixel.V32R8G8B8A8.String(), "Target pixel type")
	cc.BoolVarP(&cc.Compose, "compose", "C", false, "Blend onto the background instead of replacing it, for direct converters")
	cc.StringVarP(&cc.Background, "background", "b", "black", "SVG color name of the background")

	return
}

// fill paints every pixel of buf with the named color
func fill(buf *pixel.Buffer, name string) (err error) {
	named, ok := colornames.Map[name]
	if !ok {
		err = fmt.Errorf("%v: unknown color name", name)
		return
	}

	c := color.NRGBA64Model.Convert(named).(color.NRGBA64)
	for y := 0; y < buf.Height; y++ {
		line := buf.Line(y)
		for x := 0; x < buf.Width; x++ {
			buf.Type.SetColorAt(line, x, c)
		}
	}

	return
}

func (cc *ConvertCommand) Filter(input *Image) (output *Image, err error) {
	in := input.Buffer
	if in == nil {
		err = errNoImage
		return
	}

	id, err := pixel.ParseClassID(cc.Type)
	if err != nil {
		return
	}

	to := pixel.New(id)
	out := pixel.NewBuffer(to, in.Width, in.Height, 0)

	if cc.Compose {
		conv := in.Type.HasConverterTo(to)
		if conv == nil {
			err = fmt.Errorf("%v to %v: no direct converter: %w", in.Type, to, pixel.ErrUnsupported)
			return
		}

		err = fill(out, cc.Background)
		if err != nil {
			return
		}

		for y := 0; y < in.Height; y++ {
			conv.Compose(in.Line(y), out.Line(y), in.Width)
		}
	} else {
		var path *pixel.Path
		path, err = pixel.FindPath(in.Type, to)
		if err != nil {
			return
		}
		for y := 0; y < in.Height; y++ {
			path.Convert(in.Line(y), out.Line(y), in.Width)
		}
	}

	next := *input
	next.Buffer = out
	output = &next

	return
}
