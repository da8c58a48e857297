//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ezrec/imagepp"
	"github.com/ezrec/imagepp/pixel"
)

const (
	defaultCodec       = "lzw"
	defaultStripHeight = 64
)

// RawGeometry describes the pixels of .raw files
type RawGeometry struct {
	Type        *pixel.PixelType
	Width       int
	Height      int
	PaddingBits int
}

// Image is the state passed along the pipeline
type Image struct {
	Buffer *pixel.Buffer       // Loaded pixels, nil until the input is read
	Layout imagepp.StripLayout // How .impp files are written
	Raw    RawGeometry
}

// NewImage has no pixels yet
func NewImage() *Image {
	return &Image{
		Layout: imagepp.StripLayout{
			Codec:       defaultCodec,
			StripHeight: defaultStripHeight,
		},
	}
}

// Transfer reads the image from name when nothing is loaded yet, and writes
// it to name otherwise
func (image *Image) Transfer(name string) (out *Image, err error) {
	next := *image
	out = &next

	switch filepath.Ext(name) {
	case ".impp":
		if image.Buffer == nil {
			err = out.readStrips(name)
		} else {
			err = out.writeStrips(name)
		}
	case ".raw":
		if image.Buffer == nil {
			err = out.readRaw(name)
		} else {
			err = os.WriteFile(name, image.Buffer.Pix, 0o644)
		}
	default:
		err = fmt.Errorf("%v: not a command or a recognized file type", name)
	}

	if err != nil {
		out = nil
	}

	return
}

func (image *Image) readStrips(name string) (err error) {
	file, err := os.Open(name)
	if err != nil {
		return
	}
	defer file.Close()

	sf, err := imagepp.OpenStripFile(imagepp.NewFileRaster(file))
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
		return
	}

	ed, err := imagepp.NewEditor(sf, nil)
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
		return
	}
	defer ed.Close()

	layout := sf.Layout()
	buf, err := ed.ReadImage(layout.Type)
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
		return
	}

	image.Buffer = buf
	image.Layout = layout

	return
}

func (image *Image) writeStrips(name string) (err error) {
	layout := image.Layout
	layout.Type = image.Buffer.Type
	layout.Width = image.Buffer.Width
	layout.Height = image.Buffer.Height

	file, err := os.Create(name)
	if err != nil {
		return
	}
	defer file.Close()

	sf, err := imagepp.CreateStripFile(imagepp.NewFileRaster(file), layout)
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
		return
	}

	ed, err := imagepp.NewEditor(sf, nil)
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
		return
	}
	defer ed.Close()

	err = ed.WriteImage(image.Buffer)
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
		return
	}

	return
}

func (image *Image) readRaw(name string) (err error) {
	raw := &image.Raw
	if raw.Type == nil || raw.Width <= 0 || raw.Height <= 0 {
		err = fmt.Errorf("%v: raw geometry not set, use the 'raw' command first", name)
		return
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return
	}

	size := raw.Type.LineBytes(raw.Width, raw.PaddingBits) * raw.Height
	if len(data) < size {
		err = fmt.Errorf("%v: %d bytes, expected %d: %w", name, len(data), size, imagepp.ErrTruncated)
		return
	}

	image.Buffer = pixel.NewBufferView(raw.Type, raw.Width, raw.Height, raw.PaddingBits, data[:size])

	return
}

// stderrProgress shows the completion percentage on stderr
type stderrProgress struct{}

func (sp *stderrProgress) Show(percent float32) {
	fmt.Fprintf(os.Stderr, "\r%3.0f%%", percent)
}

func (sp *stderrProgress) Stop() {
	fmt.Fprintln(os.Stderr)
}
