//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package main

import (
	"fmt"
	"image"

	"github.com/spf13/pflag"
	"golang.org/x/image/draw"

	"github.com/ezrec/imagepp/pixel"
)

var interpolators = map[string]draw.Interpolator{
	"nearest":    draw.NearestNeighbor,
	"approx":     draw.ApproxBiLinear,
	"bilinear":   draw.BiLinear,
	"catmullrom": draw.CatmullRom,
}

type ScaleCommand struct {
	*pflag.FlagSet

	Width  int
	Height int
	Method string
}

func NewScaleCommand() (sc *ScaleCommand) {
	sc = &ScaleCommand{
		FlagSet: pflag.NewFlagSet("scale", pflag.ContinueOnError),
	}

	sc.SetInterspersed(false)
	sc.IntVarP(&sc.Width, "width", "W", 0, "New width in pixels")
	sc.IntVarP(&sc.Height, "height", "H", 0, "New height in lines (default: keep the aspect ratio)")
	sc.StringVarP(&sc.Method, "method", "m", "bilinear", "Interpolation: nearest, approx, bilinear or catmullrom")

	return
}

// toNRGBA converts buf into an image the draw package can sample
func toNRGBA(buf *pixel.Buffer) (img *image.NRGBA, err error) {
	path, err := pixel.FindPath(buf.Type, pixel.New(pixel.V32R8G8B8A8))
	if err != nil {
		return
	}

	img = image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		path.Convert(buf.Line(y), img.Pix[y*img.Stride:], buf.Width)
	}

	return
}

func (sc *ScaleCommand) Filter(input *Image) (output *Image, err error) {
	in := input.Buffer
	if in == nil {
		err = errNoImage
		return
	}

	interp, ok := interpolators[sc.Method]
	if !ok {
		err = fmt.Errorf("%v: unknown interpolation", sc.Method)
		return
	}

	width, height := sc.Width, sc.Height
	if height <= 0 && width > 0 {
		height = (in.Height*width + in.Width/2) / in.Width
	}

	if width <= 0 || height <= 0 {
		err = fmt.Errorf("invalid size %dx%d", width, height)
		return
	}

	src, err := toNRGBA(in)
	if err != nil {
		return
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	interp.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	path, err := pixel.FindPath(pixel.New(pixel.V32R8G8B8A8), in.Type)
	if err != nil {
		return
	}

	out := pixel.NewBuffer(in.Type, width, height, 0)
	for y := 0; y < height; y++ {
		path.Convert(dst.Pix[y*dst.Stride:], out.Line(y), width)
	}

	next := *input
	next.Buffer = out
	output = &next

	return
}
