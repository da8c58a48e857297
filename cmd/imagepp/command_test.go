//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ezrec/imagepp/pixel"
)

func TestCommandExpand(t *testing.T) {
	table := map[string]struct {
		In      string
		Out     []string
		WantErr bool
	}{
		"hello":  {`hello world`, []string{"hello", "world"}, false},
		"setenv": {`hello ${MONKEY}`, []string{"hello", "monkey"}, false},
		"oct":    {`\101`, []string{"A"}, false},
		"octend": {`\101\60x`, []string{"A0x"}, false},
		"escape": {`hello\ you\e[7m\z\e[m\r\n\101`, []string{"hello you\033[7mz\033[m\r\nA"}, false},
		"quotes": {`"hello world" 'and you "too"'`, []string{"hello world", "and you \"too\""}, false},
		"quoted": {`"hello 'nice' world" "you \'too"`, []string{"hello 'nice' world", "you 'too"}, false},
		"multi": {`in.raw
compress --codec crl8 --strip-height 16
out.impp
`, []string{"in.raw", "compress", "--codec", "crl8", "--strip-height", "16", "out.impp"}, false},
		"unterminated": {`"hello`, nil, true},
		"dangling":     {`hello\`, nil, true},
	}

	os.Setenv("MONKEY", "monkey")

	for key, item := range table {
		args, err := CommandExpand(bytes.NewReader([]byte(item.In)))
		if (err != nil) != item.WantErr {
			t.Errorf("%v: expected error %v, got %v", key, item.WantErr, err)
			continue
		}

		if !cmp.Equal(item.Out, args) {
			t.Errorf("%v: %v", key, cmp.Diff(item.Out, args))
		}
	}
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	cmdfile := filepath.Join(dir, "cmds")
	err := os.WriteFile(cmdfile, []byte("invert\ngamma -g 2\n"), 0o644)
	if err != nil {
		t.Fatalf("%v", err)
	}

	args, err := ExpandArgs([]string{"in.impp", "@" + cmdfile, "out.raw"})
	if err != nil {
		t.Fatalf("%v", err)
	}

	expected := []string{"in.impp", "invert", "gamma", "-g", "2", "out.raw"}
	if !cmp.Equal(expected, args) {
		t.Errorf("%v", cmp.Diff(expected, args))
	}

	_, err = ExpandArgs([]string{"@" + filepath.Join(dir, "missing")})
	if err == nil {
		t.Errorf("missing command file: expected an error")
	}
}

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.raw")
	mid := filepath.Join(dir, "mid.impp")
	out := filepath.Join(dir, "out.raw")

	pix := []byte{0x00, 0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70, 0x80, 0x90, 0xa0, 0xb0}
	err := os.WriteFile(in, pix, 0o644)
	if err != nil {
		t.Fatalf("%v", err)
	}

	for _, codec := range []string{"crl8", "lzw", "zlib", "zstd"} {
		err = evaluate([]string{
			"raw", "--type", "V8Gray8", "--width", "4", "--height", "3",
			in,
			"compress", "--codec", codec, "--strip-height", "2",
			mid,
		})
		if err != nil {
			t.Fatalf("%v: %v", codec, err)
		}

		err = evaluate([]string{mid, "invert", out})
		if err != nil {
			t.Fatalf("%v: %v", codec, err)
		}

		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("%v: %v", codec, err)
		}

		expected := make([]byte, len(pix))
		for n, v := range pix {
			expected[n] = 0xff - v
		}

		if !cmp.Equal(expected, data) {
			t.Errorf("%v: %v", codec, cmp.Diff(expected, data))
		}
	}
}

func TestPipelineErrors(t *testing.T) {
	dir := t.TempDir()
	short := filepath.Join(dir, "short.raw")
	err := os.WriteFile(short, []byte{1, 2, 3}, 0o644)
	if err != nil {
		t.Fatalf("%v", err)
	}

	table := map[string]struct {
		Args []string
		Is   error
	}{
		"no-geometry": {[]string{short}, nil},
		"unknown":     {[]string{filepath.Join(dir, "image.bmp")}, nil},
		"no-image":    {[]string{"invert"}, errNoImage},
		"bad-type":    {[]string{"raw", "--type", "V9Bogus", "-W", "1", "-H", "1"}, pixel.ErrUnsupported},
		"bad-flag":    {[]string{"gamma", "--bogus"}, nil},
		"short-raw":   {[]string{"raw", "-W", "2", "-H", "2", short}, nil},
		"crl8-rgb": {[]string{
			"raw", "-t", "V24R8G8B8", "-W", "1", "-H", "1", short,
			"compress", "-c", "crl8", filepath.Join(dir, "rgb.impp"),
		}, pixel.ErrUnsupported},
	}

	for key, item := range table {
		err := evaluate(item.Args)
		if err == nil {
			t.Errorf("%v: expected an error", key)
			continue
		}

		if item.Is != nil && !errors.Is(err, item.Is) {
			t.Errorf("%v: expected %v, got %v", key, item.Is, err)
		}
	}
}

func TestInvertAdapted(t *testing.T) {
	buf := pixel.NewBuffer(pixel.New(pixel.V24B8G8R8), 2, 1, 0)
	copy(buf.Pix, []byte{1, 2, 3, 0x80, 0x00, 0xff})

	output, err := NewInvertCommand().Filter(&Image{Buffer: buf})
	if err != nil {
		t.Fatalf("%v", err)
	}

	expected := []byte{0xfe, 0xfd, 0xfc, 0x7f, 0xff, 0x00}
	if !cmp.Equal(expected, output.Buffer.Pix) {
		t.Errorf("%v", cmp.Diff(expected, output.Buffer.Pix))
	}

	if buf.Pix[0] != 1 {
		t.Errorf("input buffer modified")
	}
}

func TestDeepGamma(t *testing.T) {
	buf := pixel.NewBuffer(pixel.New(pixel.V64R16G16B16A16), 1, 1, 0)
	for n, v := range []uint16{0x0000, 0xffff, 0x4000, 0x1234} {
		binary.LittleEndian.PutUint16(buf.Pix[n*2:], v)
	}

	cmd := NewGammaCommand()
	err := cmd.Parse([]string{"--gamma", "2", "--deep"})
	if err != nil {
		t.Fatalf("%v", err)
	}

	output, err := cmd.Filter(&Image{Buffer: buf})
	if err != nil {
		t.Fatalf("%v", err)
	}

	var got []uint16
	for n := 0; n < 4; n++ {
		got = append(got, binary.LittleEndian.Uint16(output.Buffer.Pix[n*2:]))
	}

	expected := []uint16{0x0000, 0xffff, 0x8000, 0x1234}
	if !cmp.Equal(expected, got) {
		t.Errorf("%v", cmp.Diff(expected, got))
	}

	_, err = deepGamma(0)
	if err == nil {
		t.Errorf("gamma 0: expected an error")
	}
}

func TestConvertCompose(t *testing.T) {
	buf := pixel.NewBuffer(pixel.New(pixel.V32R8G8B8A8), 2, 1, 0)
	copy(buf.Pix, []byte{0x00, 0x00, 0x00, 0x00, 0x40, 0x40, 0x40, 0xff})

	cmd := NewConvertCommand()
	err := cmd.Parse([]string{"--type", "V8Gray8", "--compose", "--background", "white"})
	if err != nil {
		t.Fatalf("%v", err)
	}

	output, err := cmd.Filter(&Image{Buffer: buf})
	if err != nil {
		t.Fatalf("%v", err)
	}

	expected := []byte{0xff, 0x40}
	if !cmp.Equal(expected, output.Buffer.Pix) {
		t.Errorf("%v", cmp.Diff(expected, output.Buffer.Pix))
	}

	cmd = NewConvertCommand()
	err = cmd.Parse([]string{"--type", "V8Gray8", "--compose", "--background", "no-such-color"})
	if err != nil {
		t.Fatalf("%v", err)
	}

	_, err = cmd.Filter(&Image{Buffer: buf})
	if err == nil {
		t.Errorf("unknown background: expected an error")
	}
}

func TestScale(t *testing.T) {
	buf := pixel.NewBuffer(pixel.New(pixel.V8Gray8), 2, 1, 0)
	copy(buf.Pix, []byte{0x00, 0xff})

	cmd := NewScaleCommand()
	err := cmd.Parse([]string{"--width", "4", "--method", "nearest"})
	if err != nil {
		t.Fatalf("%v", err)
	}

	output, err := cmd.Filter(&Image{Buffer: buf})
	if err != nil {
		t.Fatalf("%v", err)
	}

	out := output.Buffer
	if out.Width != 4 || out.Height != 2 || out.Type.ID() != pixel.V8Gray8 {
		t.Fatalf("expected 4x2 V8Gray8, got %vx%v %v", out.Width, out.Height, out.Type)
	}

	expected := []byte{0x00, 0x00, 0xff, 0xff, 0x00, 0x00, 0xff, 0xff}
	if !cmp.Equal(expected, out.Pix) {
		t.Errorf("%v", cmp.Diff(expected, out.Pix))
	}

	cmd = NewScaleCommand()
	err = cmd.Parse([]string{"--width", "4", "--method", "sinc"})
	if err != nil {
		t.Fatalf("%v", err)
	}

	_, err = cmd.Filter(&Image{Buffer: buf})
	if err == nil {
		t.Errorf("unknown method: expected an error")
	}
}
