//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

// Package filter applies per-pixel transformations to pixel buffers
package filter

import (
	"fmt"

	"github.com/ezrec/imagepp/pixel"
)

// Filter transforms a buffer of the input pixel type into a buffer of the
// output pixel type. Both types must be set before Convert.
type Filter interface {
	Convert(in, out *pixel.Buffer) (err error)
	SetInputPixelType(pt *pixel.PixelType)
	SetOutputPixelType(pt *pixel.PixelType)
	InputPixelType() *pixel.PixelType
	OutputPixelType() *pixel.PixelType
	Clone() Filter
}

// TypedFilter works internally on one pixel type
type TypedFilter interface {
	Filter
	FilterPixelType() *pixel.PixelType
}

// ports holds the input and output pixel types of a filter
type ports struct {
	input  *pixel.PixelType
	output *pixel.PixelType
}

func (fp *ports) SetInputPixelType(pt *pixel.PixelType) {
	fp.input = pt
}

func (fp *ports) SetOutputPixelType(pt *pixel.PixelType) {
	fp.output = pt
}

func (fp *ports) InputPixelType() *pixel.PixelType {
	return fp.input
}

func (fp *ports) OutputPixelType() *pixel.PixelType {
	return fp.output
}

func checkBuffers(fp *ports, in, out *pixel.Buffer) {
	if fp.input == nil || fp.output == nil {
		panic("filter: input and output pixel types must be set before Convert")
	}

	if in.Width != out.Width || in.Height != out.Height {
		panic(fmt.Sprintf("filter: buffer size mismatch %dx%d vs %dx%d", in.Width, in.Height, out.Width, out.Height))
	}
}

// typed runs a per-pixel function in its own pixel type, converting lines
// in and out of it
type typed struct {
	ports
	filterType *pixel.PixelType
}

func (tf *typed) FilterPixelType() *pixel.PixelType {
	return tf.filterType
}

func (tf *typed) convert(in, out *pixel.Buffer, apply func(pix []byte, count int)) (err error) {
	checkBuffers(&tf.ports, in, out)

	into, err := pixel.FindPath(tf.input, tf.filterType)
	if err != nil {
		return
	}

	outof, err := pixel.FindPath(tf.filterType, tf.output)
	if err != nil {
		return
	}

	scratch := make([]byte, tf.filterType.LineBytes(in.Width, 0))
	for y := 0; y < in.Height; y++ {
		into.Convert(in.Line(y), scratch, in.Width)
		apply(scratch, in.Width)
		outof.Convert(scratch, out.Line(y), out.Width)
	}

	return
}
