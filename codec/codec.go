//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

// Package codec compresses and decompresses images one subset of lines at
// a time
package codec

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/ezrec/imagepp/internal/logging"
)

var (
	// ErrCorrupt is returned when compressed data cannot be decoded
	ErrCorrupt = errors.New("corrupt compressed data")
	// ErrUnknownCodec is returned for unregistered codec names
	ErrUnknownCodec = errors.New("unknown codec")
)

// Codec compresses the subsets of an image, top to bottom. The dimensions,
// subset height, bits per pixel and line padding are set before the first
// subset.
type Codec interface {
	Name() string

	SetDimensions(width, height int)
	SetSubsetHeight(height int)
	SetBitsPerPixel(bits int)
	SetLinePaddingBits(bits int)
	IsBitsPerPixelSupported(bits int) bool

	// CompressSubset compresses the next subset of in into out
	CompressSubset(in, out []byte) (n int, err error)
	// DecompressSubset decompresses in into the next subset of out
	DecompressSubset(in, out []byte) (n int, err error)
	// SubsetMaxCompressedSize bounds the compressed size of one subset
	SubsetMaxCompressedSize() int

	SubsetPosY() int
	SetSubsetPosY(posY int)
	State() State
	Reset()
	Clone() Codec
}

// NewCodec creates an idle codec
type NewCodec func() Codec

var (
	registryMutex sync.RWMutex
	registry      = map[string]NewCodec{}
)

// Register adds a codec by name. Registering a name twice panics.
func Register(name string, newCodec NewCodec) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	_, found := registry[name]
	if found {
		panic(fmt.Sprintf("codec: %v registered twice", name))
	}

	registry[name] = newCodec
}

// New creates a codec by name
func New(name string) (codec Codec, err error) {
	registryMutex.RLock()
	newCodec, found := registry[name]
	registryMutex.RUnlock()

	if !found {
		err = fmt.Errorf("%v: %w", name, ErrUnknownCodec)
		return
	}

	codec = newCodec()
	return
}

// Names lists the registered codecs, sorted
func Names() (names []string) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return
}

func logger() *slog.Logger {
	return logging.Logger()
}
