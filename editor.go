//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package imagepp

import (
	"fmt"
	"io"
	"sync"

	"github.com/ezrec/imagepp/codec"
	"github.com/ezrec/imagepp/filter"
	"github.com/ezrec/imagepp/pixel"
)

const (
	defaultCachedStrips = 16
)

// Editor reads and writes the strips of a strip file as blocks of pixels.
// Blocks are whole strips: posBlockX is always 0 and posBlockY is the first
// line of a strip.
//
// The lock is held around every access to the file; the editor itself is
// not safe for concurrent use.
type Editor struct {
	strips *StripFile
	layout StripLayout
	lock   sync.Locker
	codec  codec.Codec
	filter filter.Filter
	cache  *stripCache
}

// NewEditor creates an editor on a strip file. A nil lock uses a private
// mutex.
func NewEditor(strips *StripFile, lock sync.Locker) (ed *Editor, err error) {
	layout := strips.Layout()

	c, err := codec.New(layout.Codec)
	if err != nil {
		return
	}

	bits := layout.Type.CountPixelRawDataBits()
	if !c.IsBitsPerPixelSupported(bits) {
		err = fmt.Errorf("%v: %v, %d bits per pixel: %w", c.Name(), layout.Type, bits, pixel.ErrUnsupported)
		return
	}

	c.SetDimensions(layout.Width, layout.Height)
	c.SetSubsetHeight(layout.StripHeight)
	c.SetBitsPerPixel(bits)
	c.SetLinePaddingBits(layout.PaddingBits)

	if layout.LineHeader {
		lh, ok := c.(interface{ SetLineHeader(bool) })
		if !ok {
			err = fmt.Errorf("%v: no line headers: %w", c.Name(), pixel.ErrUnsupported)
			return
		}
		lh.SetLineHeader(true)
	}

	if lock == nil {
		lock = &sync.Mutex{}
	}

	ed = &Editor{
		strips: strips,
		layout: layout,
		lock:   lock,
		codec:  c,
		cache:  newStripCache(defaultCachedStrips),
	}

	return
}

// Close releases any resources held by the codec
func (ed *Editor) Close() (err error) {
	if closer, ok := ed.codec.(io.Closer); ok {
		err = closer.Close()
	}

	return
}

// Layout describes the stored image
func (ed *Editor) Layout() StripLayout {
	return ed.layout
}

// SetFilter converts blocks through f instead of the pixel converters.
// nil removes the filter.
func (ed *Editor) SetFilter(f filter.Filter) {
	ed.filter = f
}

// SetCacheDepth sets how many decompressed strips are kept. Zero disables
// the cache.
func (ed *Editor) SetCacheDepth(depth int) {
	ed.cache = newStripCache(depth)
}

func (ed *Editor) stripIndex(posBlockX, posBlockY int, buf *pixel.Buffer) (index int, err error) {
	if posBlockX != 0 || posBlockY < 0 || posBlockY >= ed.layout.Height || posBlockY%ed.layout.StripHeight != 0 {
		err = fmt.Errorf("block (%d, %d): not the origin of a strip", posBlockX, posBlockY)
		return
	}

	index = posBlockY / ed.layout.StripHeight
	lines := ed.layout.StripLines(index)

	if buf.Width != ed.layout.Width || buf.Height != lines {
		err = fmt.Errorf("block (%d, %d): %dx%d buffer, expected %dx%d", posBlockX, posBlockY, buf.Width, buf.Height, ed.layout.Width, lines)
		return
	}

	return
}

func (ed *Editor) convert(in, out *pixel.Buffer) (err error) {
	if ed.filter != nil {
		ed.filter.SetInputPixelType(in.Type)
		ed.filter.SetOutputPixelType(out.Type)
		return ed.filter.Convert(in, out)
	}

	path, err := pixel.FindPath(in.Type, out.Type)
	if err != nil {
		return
	}

	for y := 0; y < in.Height; y++ {
		path.Convert(in.Line(y), out.Line(y), in.Width)
	}

	return
}

func (ed *Editor) readStrip(index int) (raw []byte, err error) {
	raw, found := ed.cache.Strip(index)
	if found {
		return
	}

	ed.lock.Lock()
	data, err := ed.strips.ReadStrip(index)
	ed.lock.Unlock()
	if err != nil {
		return
	}

	lines := ed.layout.StripLines(index)
	raw = make([]byte, lines*ed.layout.Type.LineBytes(ed.layout.Width, ed.layout.PaddingBits))

	ed.codec.Reset()
	ed.codec.SetSubsetPosY(index * ed.layout.StripHeight)
	_, err = ed.codec.DecompressSubset(data, raw)
	ed.codec.Reset()
	if err != nil {
		err = fmt.Errorf("strip %d: %w", index, err)
		raw = nil
		return
	}

	ed.cache.SetStrip(index, raw)

	return
}

// ReadBlock decompresses the strip at posBlockY, converting it into out
func (ed *Editor) ReadBlock(posBlockX, posBlockY int, out *pixel.Buffer) (err error) {
	index, err := ed.stripIndex(posBlockX, posBlockY, out)
	if err != nil {
		return
	}

	raw, err := ed.readStrip(index)
	if err != nil {
		return
	}

	stored := pixel.NewBufferView(ed.layout.Type, ed.layout.Width, out.Height, ed.layout.PaddingBits, raw)

	return ed.convert(stored, out)
}

// WriteBlock converts in, and compresses it as the strip at posBlockY
func (ed *Editor) WriteBlock(posBlockX, posBlockY int, in *pixel.Buffer) (err error) {
	index, err := ed.stripIndex(posBlockX, posBlockY, in)
	if err != nil {
		return
	}

	stored := pixel.NewBuffer(ed.layout.Type, ed.layout.Width, in.Height, ed.layout.PaddingBits)
	err = ed.convert(in, stored)
	if err != nil {
		return
	}

	data := make([]byte, ed.codec.SubsetMaxCompressedSize())

	ed.codec.Reset()
	ed.codec.SetSubsetPosY(posBlockY)
	n, err := ed.codec.CompressSubset(stored.Pix, data)
	ed.codec.Reset()
	if err != nil {
		err = fmt.Errorf("strip %d: %w", index, err)
		return
	}

	ed.lock.Lock()
	err = ed.strips.WriteStrip(index, data[:n])
	ed.lock.Unlock()
	if err != nil {
		return
	}

	ed.cache.SetStrip(index, stored.Pix)
	Logger().Debug("strip written", "strip", index, "raw", len(stored.Pix), "compressed", n)

	return
}

// stripView is the part of buf holding one strip
func (ed *Editor) stripView(buf *pixel.Buffer, index int) *pixel.Buffer {
	start := index * ed.layout.StripHeight
	lines := ed.layout.StripLines(index)

	return pixel.NewBufferView(buf.Type, buf.Width, lines, buf.PaddingBits, buf.Pix[start*buf.Stride():])
}

// ReadImage reads every strip into a new buffer of type pt
func (ed *Editor) ReadImage(pt *pixel.PixelType) (buf *pixel.Buffer, err error) {
	image := pixel.NewBuffer(pt, ed.layout.Width, ed.layout.Height, 0)

	strips := ed.layout.Strips()
	prog := NewProgress(strips)
	defer prog.Close()

	for index := 0; index < strips; index++ {
		err = ed.ReadBlock(0, index*ed.layout.StripHeight, ed.stripView(image, index))
		if err != nil {
			return
		}
		prog.Indicate()
	}

	buf = image

	return
}

// WriteImage writes every strip from buf
func (ed *Editor) WriteImage(buf *pixel.Buffer) (err error) {
	if buf.Width != ed.layout.Width || buf.Height != ed.layout.Height {
		err = fmt.Errorf("image is %dx%d, expected %dx%d", buf.Width, buf.Height, ed.layout.Width, ed.layout.Height)
		return
	}

	strips := ed.layout.Strips()
	prog := NewProgress(strips)
	defer prog.Close()

	for index := 0; index < strips; index++ {
		err = ed.WriteBlock(0, index*ed.layout.StripHeight, ed.stripView(buf, index))
		if err != nil {
			return
		}
		prog.Indicate()
	}

	return
}
