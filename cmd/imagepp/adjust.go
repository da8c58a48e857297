//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package main

import (
	"fmt"
	"math"

	"github.com/spf13/pflag"

	"github.com/ezrec/imagepp/filter"
	"github.com/ezrec/imagepp/pixel"
)

// Map filters are built for each of these, in order of preference
var workTypes = []pixel.ClassID{
	pixel.V32R8G8B8A8,
	pixel.V24R8G8B8,
	pixel.V8Gray8,
}

type AdjustCommand struct {
	*pflag.FlagSet

	Invert   bool
	Gamma    float64
	Contrast float64
	Deep     bool // 16-bit gamma tables
}

func newAdjustCommand(name string) (ac *AdjustCommand) {
	ac = &AdjustCommand{
		FlagSet:  pflag.NewFlagSet(name, pflag.ContinueOnError),
		Gamma:    1.0,
		Contrast: 1.0,
	}

	ac.SetInterspersed(false)

	return
}

func NewLevelsCommand() (ac *AdjustCommand) {
	ac = newAdjustCommand("levels")
	ac.BoolVarP(&ac.Invert, "invert", "i", false, "Invert the color channels")
	ac.Float64VarP(&ac.Gamma, "gamma", "g", 1.0, "Gamma correction")
	ac.Float64VarP(&ac.Contrast, "contrast", "c", 1.0, "Contrast scale around mid gray")
	ac.BoolVarP(&ac.Deep, "deep", "d", false, "Apply gamma with 16 bits per channel")

	return
}

func NewInvertCommand() (ac *AdjustCommand) {
	ac = newAdjustCommand("invert")
	ac.Invert = true

	return
}

func NewGammaCommand() (ac *AdjustCommand) {
	ac = newAdjustCommand("gamma")
	ac.Float64VarP(&ac.Gamma, "gamma", "g", 2.2, "Gamma correction")
	ac.BoolVarP(&ac.Deep, "deep", "d", false, "Apply gamma with 16 bits per channel")

	return
}

func NewContrastCommand() (ac *AdjustCommand) {
	ac = newAdjustCommand("contrast")
	ac.Float64VarP(&ac.Contrast, "contrast", "c", 1.5, "Contrast scale around mid gray")

	return
}

type mapBuilder func(filterType *pixel.PixelType) (*filter.MapFilter, error)

// stage runs build directly on the image type when it is a work type, and
// through a type adapter otherwise
func stage(pt *pixel.PixelType, build mapBuilder) (f filter.Filter, err error) {
	for _, id := range workTypes {
		if pt.ID() == id {
			return build(pixel.New(id))
		}
	}

	adapter := filter.NewTypeAdaptFilter()
	for _, id := range workTypes {
		var mf *filter.MapFilter
		mf, err = build(pixel.New(id))
		if err != nil {
			return
		}
		adapter.Insert(mf)
	}

	f = adapter

	return
}

// deepGamma builds a gamma curve on 16-bit RGBA, leaving alpha alone
func deepGamma(gamma float64) (f filter.Filter, err error) {
	if gamma <= 0 {
		err = fmt.Errorf("gamma %v: must be positive", gamma)
		return
	}

	table := make([]uint16, 0x10000)
	for v := range table {
		table[v] = uint16(math.Round(0xffff * math.Pow(float64(v)/0xffff, 1/gamma)))
	}

	return filter.NewChannelMap16(pixel.New(pixel.V64R16G16B16A16), table, table, table, nil)
}

func (ac *AdjustCommand) Filter(input *Image) (output *Image, err error) {
	in := input.Buffer
	if in == nil {
		err = errNoImage
		return
	}

	var stages []filter.Filter
	add := func(f filter.Filter, ferr error) {
		if err == nil && ferr == nil {
			stages = append(stages, f)
		} else if err == nil {
			err = ferr
		}
	}

	if ac.Contrast != 1.0 {
		add(stage(in.Type, func(pt *pixel.PixelType) (*filter.MapFilter, error) {
			return filter.NewContrastFilter(pt, ac.Contrast)
		}))
	}

	if ac.Gamma != 1.0 {
		if ac.Deep {
			add(deepGamma(ac.Gamma))
		} else {
			add(stage(in.Type, func(pt *pixel.PixelType) (*filter.MapFilter, error) {
				return filter.NewGammaFilter(pt, ac.Gamma)
			}))
		}
	}

	if ac.Invert {
		add(stage(in.Type, filter.NewInvertFilter))
	}

	if err != nil {
		return
	}

	chain := filter.NewChain(stages...)
	chain.SetInputPixelType(in.Type)
	chain.SetOutputPixelType(in.Type)

	out := pixel.NewBuffer(in.Type, in.Width, in.Height, in.PaddingBits)
	err = chain.Convert(in, out)
	if err != nil {
		return
	}

	next := *input
	next.Buffer = out
	output = &next

	return
}
