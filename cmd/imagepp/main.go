//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/pflag"

	"github.com/ezrec/imagepp"

	_ "github.com/ezrec/imagepp/codec/crl8"
	_ "github.com/ezrec/imagepp/codec/lzw"
	_ "github.com/ezrec/imagepp/codec/zlib"
	_ "github.com/ezrec/imagepp/codec/zstd"
)

var param struct {
	verbose  bool
	progress bool
}

// Command is one step of the pipeline
type Command interface {
	Parse(args []string) error
	Args() []string
	PrintDefaults()
	Filter(input *Image) (output *Image, err error)
}

type commandEntry struct {
	NewCommand  func() Command
	Description string
}

var commandMap = map[string]commandEntry{
	"types":    {func() Command { return NewTypesCommand() }, "List pixel types and their converters"},
	"info":     {func() Command { return NewInfoCommand() }, "Dump information about the image"},
	"raw":      {func() Command { return NewRawCommand() }, "Set the geometry of raw pixel files"},
	"compress": {func() Command { return NewCompressCommand() }, "Set how strip files are written"},
	"convert":  {func() Command { return NewConvertCommand() }, "Convert the image to another pixel type"},
	"invert":   {func() Command { return NewInvertCommand() }, "Invert the color channels"},
	"gamma":    {func() Command { return NewGammaCommand() }, "Apply a gamma curve"},
	"contrast": {func() Command { return NewContrastCommand() }, "Scale the contrast around mid gray"},
	"erode":    {func() Command { return NewErodeCommand() }, "Erode the lit areas of the image"},
	"levels":   {func() Command { return NewLevelsCommand() }, "Contrast, gamma and inversion in one pass"},
	"scale":    {func() Command { return NewScaleCommand() }, "Resize the image"},
}

func init() {
	pflag.BoolVarP(&param.verbose, "verbose", "v", false, "Log debug events to stderr")
	pflag.BoolVarP(&param.progress, "progress", "p", false, "Show the progress of strip transfers")
	pflag.CommandLine.SetInterspersed(false)
}

// Usage prints the options of every command
func Usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "  imagepp [options] INFILE [command [options] | OUTFILE]...")
	fmt.Fprintln(os.Stderr, "  imagepp [options] @cmdfile")
	fmt.Fprintln(os.Stderr)
	pflag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Files ending in .impp are strip files, files ending in .raw are raw pixels.")
	fmt.Fprintln(os.Stderr)

	keys := []string{}
	for key := range commandMap {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		item := commandMap[key]
		fmt.Fprintf(os.Stderr, "  %-20s %s\n", key, item.Description)
		item.NewCommand().PrintDefaults()
		fmt.Fprintln(os.Stderr)
	}
}

// evaluate runs the pipeline. The first file is read, every later file
// receives the image as it is at that point.
func evaluate(args []string) (err error) {
	image := NewImage()

	for len(args) > 0 {
		name := args[0]

		item, found := commandMap[name]
		if !found {
			image, err = image.Transfer(name)
			if err != nil {
				return
			}
			args = args[1:]
			continue
		}

		cmd := item.NewCommand()
		err = cmd.Parse(args[1:])
		if err != nil {
			err = fmt.Errorf("%v: %w", name, err)
			return
		}
		args = cmd.Args()

		image, err = cmd.Filter(image)
		if err != nil {
			err = fmt.Errorf("%v: %w", name, err)
			return
		}
	}

	return
}

func main() {
	pflag.Usage = Usage
	pflag.Parse()

	if param.verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		imagepp.SetLogger(slog.New(handler))
	}

	if param.progress {
		imagepp.SetProgress(&stderrProgress{})
	}

	args, err := ExpandArgs(pflag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if len(args) == 0 {
		Usage()
		os.Exit(1)
	}

	err = evaluate(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
