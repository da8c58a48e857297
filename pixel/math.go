//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package pixel

// DivideBy255ToByte divides a product of two bytes by 255, rounding to the
// nearest integer. Valid for 0 <= x <= 255*255. Every compose path uses it,
// so converters agree on the rounding direction.
func DivideBy255ToByte(x uint32) uint8 {
	t := x + 128
	return uint8((t + (t >> 8)) >> 8)
}

// blend8 is source-over for one 8-bit channel
func blend8(src, dst, alpha uint8) uint8 {
	return DivideBy255ToByte(uint32(src)*uint32(alpha) + uint32(dst)*uint32(255-alpha))
}
