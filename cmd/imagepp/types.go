//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ezrec/imagepp/codec"
	"github.com/ezrec/imagepp/pixel"
)

type TypesCommand struct {
	*pflag.FlagSet

	Converters bool
}

func NewTypesCommand() (tc *TypesCommand) {
	tc = &TypesCommand{
		FlagSet: pflag.NewFlagSet("types", pflag.ContinueOnError),
	}

	tc.SetInterspersed(false)
	tc.BoolVarP(&tc.Converters, "converters", "c", false, "List the direct converters of each type")

	return
}

func (tc *TypesCommand) Filter(input *Image) (output *Image, err error) {
	factory := pixel.DefaultFactory()
	ids := factory.IDs()

	for _, id := range ids {
		pt := factory.CreateByID(id)
		fmt.Printf("%-16v %2d bits", id, pt.CountPixelRawDataBits())
		if pt.IsIndexed() {
			fmt.Printf(", %d index bits", pt.CountIndexBits())
		}
		fmt.Printf(", %v\n", pt.ChannelOrg())

		if !tc.Converters {
			continue
		}

		var targets []string
		for _, to := range ids {
			if to != id && pt.HasConverterTo(factory.CreateByID(to)) != nil {
				targets = append(targets, to.String())
			}
		}
		fmt.Printf("    -> %v\n", strings.Join(targets, " "))
	}

	fmt.Printf("Codecs: %v\n", strings.Join(codec.Names(), " "))

	output = input

	return
}
