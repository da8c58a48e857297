//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package pixel

import (
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var opaqueColors = []color.NRGBA{
	{0x00, 0x00, 0x00, 0xff},
	{0xff, 0xff, 0xff, 0xff},
	{0x80, 0x80, 0x80, 0xff},
	{0x33, 0x33, 0x33, 0xff},
	{0xff, 0x00, 0x00, 0xff},
	{0x00, 0xff, 0x00, 0xff},
	{0x00, 0x00, 0xff, 0xff},
}

func rawBytes(pt *PixelType, count int) []byte {
	return make([]byte, (pt.CountPixelRawDataBits()*count+7)/8)
}

// roundTrip converts a color A -> B -> A and returns it as an 8-bit color
func roundTrip(t *testing.T, a, b *PixelType, c color.NRGBA) color.NRGBA {
	to := a.HasConverterTo(b)
	back := b.HasConverterTo(a)

	src := rawBytes(a, 1)
	a.SetColorAt(src, 0, to16NRGBA(c))

	mid := rawBytes(b, 1)
	to.Convert(src, mid, 1)

	out := rawBytes(a, 1)
	back.Convert(mid, out, 1)

	return to8NRGBA(a.ColorAt(out, 0))
}

func TestConverterSymmetry(t *testing.T) {
	factory := DefaultFactory()
	ids := factory.IDs()

	pairs := 0
	for _, idA := range ids {
		for _, idB := range ids {
			a := factory.CreateByID(idA)
			b := factory.CreateByID(idB)

			if a.HasConverterTo(b) == nil || b.HasConverterFrom(a) == nil {
				continue
			}
			if b.HasConverterTo(a) == nil || a.HasConverterFrom(b) == nil {
				continue
			}
			pairs++

			lost := a.HasConverterTo(b).LostChannels()
			alphaLost := false
			for _, role := range lost {
				if role != RoleAlpha {
					t.Errorf("%v -> %v: unexpected lost channel %v", idA, idB, role)
				}
				alphaLost = true
			}

			expectAlphaLost := a.ChannelOrg().Has(RoleAlpha) && !b.ChannelOrg().Has(RoleAlpha)
			if alphaLost != expectAlphaLost {
				t.Errorf("%v -> %v: alpha lost %v, expected %v", idA, idB, alphaLost, expectAlphaLost)
			}

			for _, c := range opaqueColors {
				once := roundTrip(t, a, b, c)
				twice := roundTrip(t, a, b, once)
				if !cmp.Equal(once, twice) {
					t.Errorf("%v <-> %v: %v not idempotent: %v then %v", idA, idB, c, once, twice)
				}
			}
		}
	}

	if pairs < len(ids)*len(Anchors) {
		t.Fatalf("expected every format to pair with the anchors, only %v pairs", pairs)
	}
}

func TestConverterLostChannels(t *testing.T) {
	table := []struct {
		from, to ClassID
		lost     []Role
	}{
		{V32R8G8B8A8, V8Gray8, []Role{RoleAlpha}},
		{V32R8G8B8A8, V24R8G8B8, []Role{RoleAlpha}},
		{V64R16G16B16A16, I8R8G8B8, []Role{RoleAlpha}},
		{I8R8G8B8A8, V24R8G8B8, []Role{RoleAlpha}},
		{V24R8G8B8, V8Gray8, nil},
		{V8Gray8, V32R8G8B8A8, nil},
		{V32C8M8Y8K8, V24R8G8B8, nil},
		{V32R8G8B8A8, V64R16G16B16A16, nil},
	}

	for _, item := range table {
		conv := New(item.from).HasConverterTo(New(item.to))
		if conv == nil {
			t.Fatalf("%v -> %v: no converter", item.from, item.to)
		}

		if !cmp.Equal(conv.LostChannels(), item.lost) {
			t.Errorf("%v -> %v: expected lost %v, got %v", item.from, item.to, item.lost, conv.LostChannels())
		}
	}
}

func TestConverterUnsupported(t *testing.T) {
	// Neither side is an anchor
	if New(V16R5G6B5).HasConverterTo(New(V32C8M8Y8K8)) != nil {
		t.Fatalf("expected no direct 565 -> CMYK converter")
	}

	if New(V1Gray1).HasConverterFrom(New(V96R32G32B32)) != nil {
		t.Fatalf("expected no direct float RGB -> 1-bit converter")
	}
}

func TestConverterBulkMatchesSingle(t *testing.T) {
	from := New(V24R8G8B8)
	to := New(V16R5G6B5)
	conv := from.HasConverterTo(to)

	src := []byte{
		0x10, 0x20, 0x30,
		0xff, 0x80, 0x01,
		0x00, 0x00, 0x00,
		0x7f, 0x7f, 0x7f,
	}

	bulk := make([]byte, 8)
	conv.Convert(src, bulk, 4)

	for n := 0; n < 4; n++ {
		single := make([]byte, 2)
		conv.Convert(src[n*3:], single, 1)
		if !cmp.Equal(single, bulk[n*2:n*2+2]) {
			t.Errorf("pixel %v: bulk %x, single %x", n, bulk[n*2:n*2+2], single)
		}
	}
}

func TestConverterBounds(t *testing.T) {
	from := New(V8Gray8)
	to := New(V1Gray1)
	conv := from.HasConverterTo(to)

	src := []byte{0xff, 0x00, 0xff, 0xff, 0x00}
	dst := []byte{0x00, 0xff}

	conv.Convert(src, dst, 5)

	// 10110 then the three remaining bits of the first byte are untouched (0)
	if dst[0] != 0xb0 {
		t.Fatalf("expected 0xb0, got %#x", dst[0])
	}
	if dst[1] != 0xff {
		t.Fatalf("wrote past the pixel count: %#x", dst[1])
	}
}

func TestConverterIdentityPacked(t *testing.T) {
	pt := New(I4R8G8B8)
	conv := pt.HasConverterTo(New(I4R8G8B8))

	src := []byte{0x12, 0x34}
	dst := []byte{0xff, 0xff}
	conv.Convert(src, dst, 3)

	expect := []byte{0x12, 0x3f}
	if !cmp.Equal(dst, expect) {
		t.Fatalf("expected %x, got %x", expect, dst)
	}
}

func TestConverterIdentityPaletteMismatch(t *testing.T) {
	a := New(I1R8G8B8)
	b := New(I1R8G8B8)

	// Swap black and white in b
	pal := b.LockPalette()
	pal.SetColor(0, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	pal.SetColor(1, color.NRGBA{A: 0xff})
	b.UnlockPalette()

	src := []byte{0xf0}
	dst := []byte{0x00}
	a.HasConverterTo(b).Convert(src, dst, 8)

	if dst[0] != 0x0f {
		t.Fatalf("expected remapped indexes 0x0f, got %#x", dst[0])
	}
}

func TestConverterPaletteLookup(t *testing.T) {
	from := New(V24R8G8B8)
	to := New(I8R8G8B8)
	conv := from.HasConverterTo(to)

	src := []byte{0xff, 0x00, 0x00, 0x00, 0x00, 0xff}
	dst := make([]byte, 2)
	conv.Convert(src, dst, 2)

	for n, expect := range []color.NRGBA{{0xff, 0, 0, 0xff}, {0, 0, 0xff, 0xff}} {
		got := to.Palette().Color(int(dst[n]))
		if !cmp.Equal(got, expect) {
			t.Errorf("pixel %v: expected %v, got %v", n, expect, got)
		}
	}
}

func TestDivideBy255ToByte(t *testing.T) {
	for x := uint32(0); x <= 255*255; x++ {
		expect := uint8(math.Round(float64(x) / 255))
		if got := DivideBy255ToByte(x); got != expect {
			t.Fatalf("%v: expected %v, got %v", x, expect, got)
		}
	}
}

func TestComposeGrayWhite(t *testing.T) {
	from := New(V32R8G8B8A8)
	to := New(V8GrayWhite8)
	conv := from.HasConverterTo(to)

	table := []struct {
		src  [4]byte
		dest byte
	}{
		{[4]byte{0xff, 0xff, 0xff, 0xff}, 0x00},
		{[4]byte{0x00, 0x00, 0x00, 0x00}, 0x40},
		{[4]byte{0x80, 0x80, 0x80, 0x80}, 0xc0},
		{[4]byte{0x10, 0x90, 0x30, 0x33}, 0x21},
	}

	for n, item := range table {
		gray := uint32(gray8(item.src[0], item.src[1], item.src[2]))
		alpha := uint32(item.src[3])
		dest := uint32(item.dest)
		expect := 255 - DivideBy255ToByte(gray*alpha+(255-dest)*(255-alpha))

		dst := []byte{item.dest}
		conv.Compose(item.src[:], dst, 1)
		if dst[0] != expect {
			t.Errorf("%v: expected %#x, got %#x", n, expect, dst[0])
		}
	}

	// Fully transparent leaves the destination alone
	dst := []byte{0x5a}
	conv.Compose([]byte{1, 2, 3, 0}, dst, 1)
	if dst[0] != 0x5a {
		t.Fatalf("expected untouched destination, got %#x", dst[0])
	}
}

func TestComposeGeneric(t *testing.T) {
	from := New(V32R8G8B8A8)
	to := New(V48R16G16B16)
	conv := from.HasConverterTo(to)

	dst := rawBytes(to, 2)
	to.SetColorAt(dst, 0, to16NRGBA(color.NRGBA{R: 0, G: 0, B: 0, A: 0xff}))
	to.SetColorAt(dst, 1, to16NRGBA(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}))

	src := []byte{
		0xff, 0xff, 0xff, 0xff, // opaque white over black
		0x00, 0x00, 0x00, 0x80, // half black over white
	}
	conv.Compose(src, dst, 2)

	got := []color.NRGBA{to8NRGBA(to.ColorAt(dst, 0)), to8NRGBA(to.ColorAt(dst, 1))}
	expect := []color.NRGBA{{0xff, 0xff, 0xff, 0xff}, {0x7f, 0x7f, 0x7f, 0xff}}
	if !cmp.Equal(got, expect) {
		t.Fatalf("expected %v, got %v", expect, got)
	}
}

func TestConvertersLazyTables(t *testing.T) {
	convs := NewConverters()
	convs.Register(V8Gray8, V16Gray16, Conversion{Convert: convertGeneric})

	small := New(V8Gray8)
	large := New(V16Gray16)

	if convs.ConverterTo(large, small) != nil {
		t.Fatalf("unexpected reverse converter")
	}

	// Registration after a table was built invalidates it
	convs.Register(V16Gray16, V8Gray8, Conversion{Convert: convertGeneric})
	if convs.ConverterTo(large, small) == nil {
		t.Fatalf("expected converter after registration")
	}
	if convs.ConverterFrom(small, large) == nil {
		t.Fatalf("expected from-table entry")
	}
}

func TestConverter565GrayStable(t *testing.T) {
	for _, id := range []ClassID{V8Gray8, V16Gray16} {
		gray := New(id)
		rgb := New(V16R5G6B5)
		to := gray.HasConverterTo(rgb)
		back := rgb.HasConverterTo(gray)

		for v := 0; v < 256; v++ {
			src := rawBytes(gray, 1)
			gray.SetColorAt(src, 0, to16NRGBA(color.NRGBA{R: uint8(v), G: uint8(v), B: uint8(v), A: 0xff}))

			first := rawBytes(rgb, 1)
			to.Convert(src, first, 1)

			mid := rawBytes(gray, 1)
			back.Convert(first, mid, 1)

			second := rawBytes(rgb, 1)
			to.Convert(mid, second, 1)

			if !cmp.Equal(first, second) {
				t.Errorf("%v gray %#x: 565 code %x then %x", id, v, first, second)
			}
		}
	}
}
