//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package imagepp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/go-restruct/restruct"

	"github.com/ezrec/imagepp/pixel"
)

const (
	stripMagic   = "IMPP"
	stripVersion = 1

	flagLineHeader = 1 << 0
)

// RasterFile is the storage under a strip file
type RasterFile interface {
	io.ReadWriteSeeker
	Size() (size int64, err error)
}

type osRaster struct {
	*os.File
}

// NewFileRaster wraps an open file
func NewFileRaster(file *os.File) RasterFile {
	return &osRaster{File: file}
}

func (raster *osRaster) Size() (size int64, err error) {
	info, err := raster.Stat()
	if err != nil {
		return
	}

	size = info.Size()
	return
}

type stripHeader struct {
	Magic        [4]byte
	Version      uint32
	Width        uint32
	Height       uint32
	ClassID      uint32
	StripHeight  uint32
	PaddingBits  uint32
	Flags        uint32
	Codec        [8]byte
	PaletteCount uint32
	Strips       uint32
}

type stripEntry struct {
	Offset uint32
	Size   uint32
}

type paletteEntry struct {
	R, G, B, A uint8
}

// StripLayout describes the image stored in a strip file
type StripLayout struct {
	Type        *pixel.PixelType // Stored pixel type, with its palette
	Width       int
	Height      int
	StripHeight int // Lines per strip, the whole image when zero
	PaddingBits int // Padding after every line
	Codec       string
	LineHeader  bool // Line headers, for codecs that have them
}

// Strips is the number of strips
func (layout StripLayout) Strips() int {
	return (layout.Height + layout.StripHeight - 1) / layout.StripHeight
}

// StripLines is the number of lines in a strip
func (layout StripLayout) StripLines(index int) int {
	lines := layout.Height - index*layout.StripHeight
	if lines > layout.StripHeight {
		lines = layout.StripHeight
	}

	return lines
}

// StripFile is a header, a palette, a strip table and the compressed
// strips, all little endian
type StripFile struct {
	file        RasterFile
	layout      StripLayout
	table       []stripEntry
	tableOffset int64
}

func readFull(file RasterFile, offset int64, data []byte) (err error) {
	_, err = file.Seek(offset, io.SeekStart)
	if err != nil {
		return
	}

	_, err = io.ReadFull(file, data)
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		err = fmt.Errorf("%d bytes at %d: %w", len(data), offset, ErrTruncated)
	}

	return
}

func writeAt(file RasterFile, offset int64, data []byte) (err error) {
	_, err = file.Seek(offset, io.SeekStart)
	if err != nil {
		return
	}

	_, err = file.Write(data)
	return
}

// CreateStripFile writes the header and an empty strip table to file
func CreateStripFile(file RasterFile, layout StripLayout) (sf *StripFile, err error) {
	if layout.Type == nil || layout.Width <= 0 || layout.Height <= 0 {
		err = fmt.Errorf("strip file: invalid layout %dx%d %v", layout.Width, layout.Height, layout.Type)
		return
	}

	if layout.StripHeight <= 0 || layout.StripHeight > layout.Height {
		layout.StripHeight = layout.Height
	}

	header := stripHeader{
		Version:     stripVersion,
		Width:       uint32(layout.Width),
		Height:      uint32(layout.Height),
		ClassID:     uint32(layout.Type.ID()),
		StripHeight: uint32(layout.StripHeight),
		PaddingBits: uint32(layout.PaddingBits),
		Strips:      uint32(layout.Strips()),
	}
	copy(header.Magic[:], stripMagic)

	if len(layout.Codec) > len(header.Codec) {
		err = fmt.Errorf("strip file: codec name %q too long", layout.Codec)
		return
	}
	copy(header.Codec[:], layout.Codec)

	if layout.LineHeader {
		header.Flags |= flagLineHeader
	}

	pal := layout.Type.Palette()
	if pal != nil {
		header.PaletteCount = uint32(pal.Count())
	}

	var fileData []byte
	headerData, err := restruct.Pack(binary.LittleEndian, &header)
	if err != nil {
		return
	}
	fileData = append(fileData, headerData...)

	for n := 0; n < int(header.PaletteCount); n++ {
		c := pal.Color(n)
		entry := paletteEntry{R: c.R, G: c.G, B: c.B, A: c.A}
		var entryData []byte
		entryData, err = restruct.Pack(binary.LittleEndian, &entry)
		if err != nil {
			return
		}
		fileData = append(fileData, entryData...)
	}

	sf = &StripFile{
		file:        file,
		layout:      layout,
		table:       make([]stripEntry, layout.Strips()),
		tableOffset: int64(len(fileData)),
	}

	entrySize, _ := restruct.SizeOf(&stripEntry{})
	fileData = append(fileData, make([]byte, entrySize*len(sf.table))...)

	err = writeAt(file, 0, fileData)
	if err != nil {
		sf = nil
		return
	}

	Logger().Debug("strip file created", "type", layout.Type, "width", layout.Width, "height", layout.Height, "codec", layout.Codec)

	return
}

// OpenStripFile reads the header, palette and strip table of file
func OpenStripFile(file RasterFile) (sf *StripFile, err error) {
	size, err := file.Size()
	if err != nil {
		return
	}

	var header stripHeader
	headerSize, _ := restruct.SizeOf(&header)
	headerData := make([]byte, headerSize)
	err = readFull(file, 0, headerData)
	if err != nil {
		return
	}

	err = restruct.Unpack(headerData, binary.LittleEndian, &header)
	if err != nil {
		return
	}

	if string(header.Magic[:]) != stripMagic || header.Version != stripVersion {
		err = fmt.Errorf("strip file: bad magic %q version %d", header.Magic[:], header.Version)
		return
	}

	if header.Width == 0 || header.Height == 0 || header.StripHeight == 0 || header.StripHeight > header.Height {
		err = fmt.Errorf("strip file: bad geometry %dx%d, %d lines per strip", header.Width, header.Height, header.StripHeight)
		return
	}

	factory := pixel.DefaultFactory()
	id := pixel.ClassID(header.ClassID)
	if !factory.Has(id) {
		err = fmt.Errorf("strip file: pixel type %v: %w", id, pixel.ErrUnsupported)
		return
	}

	layout := StripLayout{
		Type:        factory.CreateByID(id),
		Width:       int(header.Width),
		Height:      int(header.Height),
		StripHeight: int(header.StripHeight),
		PaddingBits: int(header.PaddingBits),
		Codec:       strings.TrimRight(string(header.Codec[:]), "\x00"),
		LineHeader:  header.Flags&flagLineHeader != 0,
	}

	if int(header.Strips) != layout.Strips() {
		err = fmt.Errorf("strip file: %d strips, expected %d", header.Strips, layout.Strips())
		return
	}

	offset := int64(headerSize)

	if header.PaletteCount > 0 {
		pal := layout.Type.Palette()
		if pal == nil || int(header.PaletteCount) > pal.MaxEntries() {
			err = fmt.Errorf("strip file: %d palette entries for %v", header.PaletteCount, id)
			return
		}

		entrySize, _ := restruct.SizeOf(&paletteEntry{})
		data := make([]byte, entrySize*int(header.PaletteCount))
		err = readFull(file, offset, data)
		if err != nil {
			return
		}
		offset += int64(len(data))

		pal = layout.Type.LockPalette()
		pal.Clear()
		for n := 0; n < int(header.PaletteCount); n++ {
			var entry paletteEntry
			err = restruct.Unpack(data[n*entrySize:], binary.LittleEndian, &entry)
			if err != nil {
				layout.Type.UnlockPalette()
				return
			}
			pal.Add(color.NRGBA{R: entry.R, G: entry.G, B: entry.B, A: entry.A})
		}
		layout.Type.UnlockPalette()
	}

	sf = &StripFile{
		file:        file,
		layout:      layout,
		table:       make([]stripEntry, header.Strips),
		tableOffset: offset,
	}

	entrySize, _ := restruct.SizeOf(&stripEntry{})
	data := make([]byte, entrySize*len(sf.table))
	err = readFull(file, offset, data)
	if err != nil {
		sf = nil
		return
	}

	for n := range sf.table {
		entry := &sf.table[n]
		err = restruct.Unpack(data[n*entrySize:], binary.LittleEndian, entry)
		if err != nil {
			sf = nil
			return
		}

		if int64(entry.Offset)+int64(entry.Size) > size {
			err = fmt.Errorf("strip %d at %d+%d: %w", n, entry.Offset, entry.Size, ErrTruncated)
			sf = nil
			return
		}
	}

	return
}

// Layout describes the stored image
func (sf *StripFile) Layout() StripLayout {
	return sf.layout
}

// Written reports whether a strip has data
func (sf *StripFile) Written(index int) bool {
	return sf.table[index].Size > 0
}

// ReadStrip returns the compressed data of a strip
func (sf *StripFile) ReadStrip(index int) (data []byte, err error) {
	if index < 0 || index >= len(sf.table) {
		err = fmt.Errorf("strip %d: out of range", index)
		return
	}

	entry := sf.table[index]
	if entry.Size == 0 {
		err = fmt.Errorf("strip %d: not written", index)
		return
	}

	data = make([]byte, entry.Size)
	err = readFull(sf.file, int64(entry.Offset), data)
	if err != nil {
		data = nil
		return
	}

	return
}

// WriteStrip appends the compressed data of a strip, and updates its table
// entry. The space of a rewritten strip is not reclaimed.
func (sf *StripFile) WriteStrip(index int, data []byte) (err error) {
	if index < 0 || index >= len(sf.table) {
		err = fmt.Errorf("strip %d: out of range", index)
		return
	}

	offset, err := sf.file.Seek(0, io.SeekEnd)
	if err != nil {
		return
	}

	if offset+int64(len(data)) > 0xffffffff {
		err = fmt.Errorf("strip %d: file too large", index)
		return
	}

	_, err = sf.file.Write(data)
	if err != nil {
		return
	}

	entry := stripEntry{Offset: uint32(offset), Size: uint32(len(data))}
	entryData, err := restruct.Pack(binary.LittleEndian, &entry)
	if err != nil {
		return
	}

	err = writeAt(sf.file, sf.tableOffset+int64(index*len(entryData)), entryData)
	if err != nil {
		return
	}

	sf.table[index] = entry

	return
}
