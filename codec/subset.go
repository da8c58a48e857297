//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package codec

import (
	"fmt"
)

// State of a codec between subsets
type State int

const (
	StateIdle State = iota
	StateCompressing
	StateDecompressing
)

func (state State) String() string {
	switch state {
	case StateIdle:
		return "idle"
	case StateCompressing:
		return "compressing"
	case StateDecompressing:
		return "decompressing"
	}

	return fmt.Sprintf("State(%d)", int(state))
}

// Subset tracks the image geometry and the vertical position shared by
// every codec. Embed it to implement most of Codec.
type Subset struct {
	width           int
	height          int
	subsetHeight    int
	bitsPerPixel    int
	linePaddingBits int

	posY  int
	state State
}

func (ss *Subset) mustBeIdle() {
	if ss.state != StateIdle {
		panic(fmt.Sprintf("codec: reconfigured while %v", ss.state))
	}
}

// SetDimensions sets the image size. The subset height defaults to the whole
// image.
func (ss *Subset) SetDimensions(width, height int) {
	ss.mustBeIdle()
	ss.width = width
	ss.height = height
	if ss.subsetHeight == 0 || ss.subsetHeight > height {
		ss.subsetHeight = height
	}
}

func (ss *Subset) SetSubsetHeight(height int) {
	ss.mustBeIdle()
	ss.subsetHeight = height
}

func (ss *Subset) SetBitsPerPixel(bits int) {
	ss.mustBeIdle()
	ss.bitsPerPixel = bits
}

func (ss *Subset) SetLinePaddingBits(bits int) {
	ss.mustBeIdle()
	ss.linePaddingBits = bits
}

func (ss *Subset) Width() int           { return ss.width }
func (ss *Subset) Height() int          { return ss.height }
func (ss *Subset) SubsetHeight() int    { return ss.subsetHeight }
func (ss *Subset) BitsPerPixel() int    { return ss.bitsPerPixel }
func (ss *Subset) LinePaddingBits() int { return ss.linePaddingBits }
func (ss *Subset) SubsetPosY() int      { return ss.posY }
func (ss *Subset) State() State         { return ss.state }

// SetSubsetPosY positions the next subset at line posY
func (ss *Subset) SetSubsetPosY(posY int) {
	ss.mustBeIdle()
	if posY < 0 || (ss.height > 0 && posY >= ss.height) {
		panic(fmt.Sprintf("codec: line %d outside the image", posY))
	}
	ss.posY = posY
}

// LineBytes is the byte length of one line, padding included
func (ss *Subset) LineBytes() int {
	return (ss.width*ss.bitsPerPixel + ss.linePaddingBits + 7) / 8
}

// SubsetLines is the number of lines in the next subset
func (ss *Subset) SubsetLines() int {
	lines := ss.height - ss.posY
	if lines > ss.subsetHeight {
		lines = ss.subsetHeight
	}

	return lines
}

// SubsetBytes is the byte length of the next subset
func (ss *Subset) SubsetBytes() int {
	return ss.SubsetLines() * ss.LineBytes()
}

// Reset returns to idle at the top of the image
func (ss *Subset) Reset() {
	ss.posY = 0
	ss.state = StateIdle
}

// Begin enters state for the next subset. Mixing compression and
// decompression within one image panics.
func (ss *Subset) Begin(state State) {
	if ss.width <= 0 || ss.height <= 0 || ss.subsetHeight <= 0 || ss.bitsPerPixel <= 0 {
		panic("codec: dimensions and bits per pixel must be set")
	}

	switch ss.state {
	case StateIdle:
		ss.state = state
	case state:
	default:
		panic(fmt.Sprintf("codec: %v requested while %v", state, ss.state))
	}
}

// Advance moves down by lines, resetting at the bottom of the image
func (ss *Subset) Advance(lines int) {
	ss.posY += lines
	if ss.posY >= ss.height {
		logger().Debug("codec reset", "state", ss.state, "height", ss.height)
		ss.Reset()
	}
}
