//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package pixel

import (
	"fmt"
	"strings"
)

// Role is the meaning of a channel within a pixel
type Role uint8

const (
	RoleVoid = Role(iota)
	RoleRed
	RoleGreen
	RoleBlue
	RoleAlpha
	RoleGray
	RoleUnused
	RoleCyan
	RoleMagenta
	RoleYellow
	RoleBlack
	RoleWhite // Inverted gray: zero is white
)

var roleNames = map[Role]string{
	RoleVoid:    "void",
	RoleRed:     "red",
	RoleGreen:   "green",
	RoleBlue:    "blue",
	RoleAlpha:   "alpha",
	RoleGray:    "gray",
	RoleUnused:  "unused",
	RoleCyan:    "cyan",
	RoleMagenta: "magenta",
	RoleYellow:  "yellow",
	RoleBlack:   "black",
	RoleWhite:   "white",
}

func (role Role) String() string {
	name, ok := roleNames[role]
	if !ok {
		name = fmt.Sprintf("role(%d)", uint8(role))
	}

	return name
}

// DataType is the storage interpretation of a channel
type DataType uint8

const (
	DataInteger = DataType(iota)
	DataFloat
)

// Channel is one bit range of a pixel
type Channel struct {
	Role Role
	Bits int
	Data DataType
}

// ChannelOrg is the ordered channel layout of a pixel, most significant first
type ChannelOrg []Channel

// Bits is the total width of all the channels
func (org ChannelOrg) Bits() (bits int) {
	for _, ch := range org {
		bits += ch.Bits
	}

	return
}

// Equal compares role, width and data type of every channel
func (org ChannelOrg) Equal(other ChannelOrg) bool {
	if len(org) != len(other) {
		return false
	}

	for n := range org {
		if org[n] != other[n] {
			return false
		}
	}

	return true
}

// SameInterpretation compares roles and data types, ignoring widths
func (org ChannelOrg) SameInterpretation(other ChannelOrg) bool {
	if len(org) != len(other) {
		return false
	}

	for n := range org {
		if org[n].Role != other[n].Role || org[n].Data != other[n].Data {
			return false
		}
	}

	return true
}

// Index returns the position of the first channel with the role, or -1
func (org ChannelOrg) Index(role Role) int {
	for n, ch := range org {
		if ch.Role == role {
			return n
		}
	}

	return -1
}

// Has reports whether a channel with the role exists
func (org ChannelOrg) Has(role Role) bool {
	return org.Index(role) >= 0
}

// Clone returns an independent copy
func (org ChannelOrg) Clone() ChannelOrg {
	return append(ChannelOrg(nil), org...)
}

func (org ChannelOrg) String() string {
	parts := make([]string, 0, len(org))
	for _, ch := range org {
		part := fmt.Sprintf("%v%d", ch.Role, ch.Bits)
		if ch.Data == DataFloat {
			part += "f"
		}
		parts = append(parts, part)
	}

	return strings.Join(parts, ":")
}

// colorRole reports whether the role carries color or intensity
func colorRole(role Role) bool {
	switch role {
	case RoleRed, RoleGreen, RoleBlue, RoleGray, RoleWhite, RoleCyan, RoleMagenta, RoleYellow, RoleBlack:
		return true
	}

	return false
}

// represents reports whether the organization can carry the information of
// the role. All color roles stand in for each other; only alpha can be lost.
func (org ChannelOrg) represents(role Role) bool {
	switch {
	case role == RoleUnused, role == RoleVoid:
		return true
	case colorRole(role):
		for _, ch := range org {
			if colorRole(ch.Role) {
				return true
			}
		}
		return false
	}

	return org.Has(role)
}
