//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package pixel

import (
	"image/color"
)

func integer(role Role, bits int) Channel {
	return Channel{Role: role, Bits: bits, Data: DataInteger}
}

func float(role Role, bits int) Channel {
	return Channel{Role: role, Bits: bits, Data: DataFloat}
}

var (
	orgR8G8B8   = ChannelOrg{integer(RoleRed, 8), integer(RoleGreen, 8), integer(RoleBlue, 8)}
	orgR8G8B8A8 = ChannelOrg{integer(RoleRed, 8), integer(RoleGreen, 8), integer(RoleBlue, 8), integer(RoleAlpha, 8)}
)

// defaultPalette fills an indexed prototype: black and white for 1 bit, a
// gray ramp for 4 bits, and a 6x6x6 color cube plus a gray ramp for 8 bits
func defaultPalette(org ChannelOrg, indexBits int) (pal *Palette) {
	entries := 1 << uint(indexBits)
	pal = NewPalette(org, entries)

	switch indexBits {
	case 1:
		pal.Add(color.NRGBA{A: 0xff})
		pal.Add(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	case 4:
		for n := 0; n < entries; n++ {
			y := uint8(n * 0x11)
			pal.Add(color.NRGBA{R: y, G: y, B: y, A: 0xff})
		}
	default:
		for r := 0; r < 6; r++ {
			for g := 0; g < 6; g++ {
				for b := 0; b < 6; b++ {
					pal.Add(color.NRGBA{R: uint8(r * 51), G: uint8(g * 51), B: uint8(b * 51), A: 0xff})
				}
			}
		}
		for n := 0; pal.Count() < entries; n++ {
			y := uint8(8 + n*6)
			pal.Add(color.NRGBA{R: y, G: y, B: y, A: 0xff})
		}
	}

	pal.frozen = true

	return
}

func newIndexed(id ClassID, org ChannelOrg, indexBits int) *PixelType {
	return &PixelType{
		id:        id,
		org:       org,
		indexBits: indexBits,
		palette:   defaultPalette(org, indexBits),
		layout:    indexLayout{bits: indexBits},
	}
}

func newValue(id ClassID, org ChannelOrg, lay layout) *PixelType {
	return &PixelType{
		id:     id,
		org:    org,
		layout: lay,
	}
}

// Prototypes returns a fresh prototype of every supported format, in
// registration order
func Prototypes() []*PixelType {
	rgb := []Role{RoleRed, RoleGreen, RoleBlue}
	rgba := []Role{RoleRed, RoleGreen, RoleBlue, RoleAlpha}

	return []*PixelType{
		newIndexed(I1R8G8B8, orgR8G8B8, 1),
		newIndexed(I1R8G8B8A8, orgR8G8B8A8, 1),
		newIndexed(I4R8G8B8, orgR8G8B8, 4),
		newIndexed(I4R8G8B8A8, orgR8G8B8A8, 4),
		newIndexed(I8R8G8B8, orgR8G8B8, 8),
		newIndexed(I8R8G8B8A8, orgR8G8B8A8, 8),
		newValue(V1Gray1, ChannelOrg{integer(RoleGray, 1)}, grayLayout{bits: 1}),
		newValue(V8Gray8, ChannelOrg{integer(RoleGray, 8)}, grayLayout{bits: 8}),
		newValue(V8GrayWhite8, ChannelOrg{integer(RoleWhite, 8)}, grayLayout{bits: 8, white: true}),
		newValue(V16Gray16, ChannelOrg{integer(RoleGray, 16)}, grayLayout{bits: 16}),
		newValue(V16R5G6B5, ChannelOrg{integer(RoleRed, 5), integer(RoleGreen, 6), integer(RoleBlue, 5)}, rgb565Layout{}),
		newValue(V24R8G8B8, orgR8G8B8.Clone(), channelLayout{roles: rgb, size: 1}),
		newValue(V24B8G8R8, ChannelOrg{integer(RoleBlue, 8), integer(RoleGreen, 8), integer(RoleRed, 8)},
			channelLayout{roles: []Role{RoleBlue, RoleGreen, RoleRed}, size: 1}),
		newValue(V32R8G8B8A8, orgR8G8B8A8.Clone(), channelLayout{roles: rgba, size: 1}),
		newValue(V32R8G8B8X8, ChannelOrg{integer(RoleRed, 8), integer(RoleGreen, 8), integer(RoleBlue, 8), integer(RoleUnused, 8)},
			channelLayout{roles: []Role{RoleRed, RoleGreen, RoleBlue, RoleUnused}, size: 1}),
		newValue(V48R16G16B16, ChannelOrg{integer(RoleRed, 16), integer(RoleGreen, 16), integer(RoleBlue, 16)},
			channelLayout{roles: rgb, size: 2}),
		newValue(V64R16G16B16A16, ChannelOrg{integer(RoleRed, 16), integer(RoleGreen, 16), integer(RoleBlue, 16), integer(RoleAlpha, 16)},
			channelLayout{roles: rgba, size: 2}),
		newValue(V96R32G32B32, ChannelOrg{float(RoleRed, 32), float(RoleGreen, 32), float(RoleBlue, 32)},
			channelLayout{roles: rgb, size: 4}),
		newValue(V32C8M8Y8K8, ChannelOrg{integer(RoleCyan, 8), integer(RoleMagenta, 8), integer(RoleYellow, 8), integer(RoleBlack, 8)},
			cmykLayout{}),
		newValue(V32Float32, ChannelOrg{float(RoleGray, 32)}, channelLayout{roles: []Role{RoleGray}, size: 4}),
	}
}
