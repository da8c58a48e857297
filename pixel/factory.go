//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package pixel

import (
	"fmt"
	"sync"
)

// Factory maps channel organizations and class identifiers to prototype
// pixel types. Every Create returns a clone of a prototype.
type Factory struct {
	mutex      sync.RWMutex
	prototypes []*PixelType
	byID       map[ClassID]*PixelType
}

// NewFactory returns an empty factory
func NewFactory() (factory *Factory) {
	factory = &Factory{
		byID: make(map[ClassID]*PixelType),
	}

	return
}

var (
	defaultFactory     *Factory
	defaultFactoryOnce sync.Once
)

// DefaultFactory is the process-wide factory holding a prototype of every
// supported format
func DefaultFactory() *Factory {
	defaultFactoryOnce.Do(func() {
		factory := NewFactory()
		for _, proto := range Prototypes() {
			factory.Register(proto)
		}
		defaultFactory = factory
	})

	return defaultFactory
}

// Register adds a prototype. Registering a class identifier twice is a
// programming error.
func (factory *Factory) Register(proto *PixelType) {
	factory.mutex.Lock()
	defer factory.mutex.Unlock()

	_, found := factory.byID[proto.ID()]
	if found {
		panic(fmt.Sprintf("pixel: %v already registered", proto.ID()))
	}

	factory.byID[proto.ID()] = proto
	factory.prototypes = append(factory.prototypes, proto)
}

// IDs lists the registered class identifiers in registration order
func (factory *Factory) IDs() (ids []ClassID) {
	factory.mutex.RLock()
	defer factory.mutex.RUnlock()

	for _, proto := range factory.prototypes {
		ids = append(ids, proto.ID())
	}

	return
}

// Create finds the first prototype with exactly the channel organization
// and index width. ok is false when the format is unsupported.
func (factory *Factory) Create(org ChannelOrg, indexBits int) (pt *PixelType, ok bool) {
	factory.mutex.RLock()
	defer factory.mutex.RUnlock()

	for _, proto := range factory.prototypes {
		if proto.CountIndexBits() == indexBits && proto.ChannelOrg().Equal(org) {
			pt = proto.Clone()
			ok = true
			return
		}
	}

	return
}

// CreateFromPalette finds an indexed prototype matching the palette size and
// organization, and installs a copy of the palette in the clone
func (factory *Factory) CreateFromPalette(pal *Palette) (pt *PixelType, ok bool) {
	factory.mutex.RLock()
	defer factory.mutex.RUnlock()

	for _, proto := range factory.prototypes {
		protoPal := proto.Palette()
		if protoPal == nil {
			continue
		}

		if protoPal.MaxEntries() == pal.MaxEntries() && protoPal.Org().Equal(pal.Org()) {
			pt = proto.Clone()

			edit := pt.LockPalette()
			*edit = *pal.Clone()
			pt.UnlockPalette()

			ok = true
			return
		}
	}

	return
}

// CreateByID clones the prototype of a registered class identifier. An
// unregistered identifier is a programming error.
func (factory *Factory) CreateByID(id ClassID) (pt *PixelType) {
	factory.mutex.RLock()
	proto, found := factory.byID[id]
	factory.mutex.RUnlock()

	if !found {
		panic(fmt.Sprintf("pixel: %v is not registered", id))
	}

	pt = proto.Clone()

	return
}

// Has reports whether a class identifier is registered
func (factory *Factory) Has(id ClassID) bool {
	factory.mutex.RLock()
	defer factory.mutex.RUnlock()

	_, found := factory.byID[id]

	return found
}

// New clones a prototype from the default factory
func New(id ClassID) *PixelType {
	return DefaultFactory().CreateByID(id)
}
