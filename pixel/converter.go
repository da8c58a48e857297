//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package pixel

import (
	"sync"
)

// ConvertFunc transforms count pixels of src into dst. It must not touch
// more than count pixels on either side.
type ConvertFunc func(from, to *PixelType, src, dst []byte, count int)

// Conversion is a registered transformation between two formats
type Conversion struct {
	Convert ConvertFunc
	Compose ConvertFunc // nil selects the generic source-over compose
}

// Converter is a Conversion bound to a source and destination pixel type
type Converter struct {
	from, to   *PixelType
	conversion Conversion
}

// From is the source pixel type
func (conv *Converter) From() *PixelType {
	return conv.from
}

// To is the destination pixel type
func (conv *Converter) To() *PixelType {
	return conv.to
}

// Convert writes count converted pixels of src to dst
func (conv *Converter) Convert(src, dst []byte, count int) {
	if count <= 0 {
		panic("pixel: Convert needs a positive pixel count")
	}

	conv.conversion.Convert(conv.from, conv.to, src, dst, count)
}

// Compose blends count pixels of src over the existing pixels of dst
func (conv *Converter) Compose(src, dst []byte, count int) {
	if count <= 0 {
		panic("pixel: Compose needs a positive pixel count")
	}

	compose := conv.conversion.Compose
	if compose == nil {
		compose = composeGeneric
	}

	compose(conv.from, conv.to, src, dst, count)
}

// LostChannels lists the source channel roles the destination cannot carry
func (conv *Converter) LostChannels() (lost []Role) {
	seen := map[Role]bool{}

	for _, ch := range conv.from.ChannelOrg() {
		if seen[ch.Role] {
			continue
		}
		seen[ch.Role] = true

		if !conv.to.ChannelOrg().represents(ch.Role) {
			lost = append(lost, ch.Role)
		}
	}

	return
}

type pairKey struct {
	from, to ClassID
}

// Converters is a registry of conversions. The per-format lookup tables are
// built lazily on first use and are read-only afterwards.
type Converters struct {
	mutex sync.RWMutex
	pairs map[pairKey]Conversion

	fromTables map[ClassID]map[ClassID]Conversion // destination -> source -> conversion
	toTables   map[ClassID]map[ClassID]Conversion // source -> destination -> conversion
}

// NewConverters returns an empty registry
func NewConverters() (convs *Converters) {
	convs = &Converters{
		pairs:      make(map[pairKey]Conversion),
		fromTables: make(map[ClassID]map[ClassID]Conversion),
		toTables:   make(map[ClassID]map[ClassID]Conversion),
	}

	return
}

// Register adds or replaces the conversion between two formats
func (convs *Converters) Register(from, to ClassID, conversion Conversion) {
	if conversion.Convert == nil {
		panic("pixel: conversion without Convert")
	}

	convs.mutex.Lock()
	defer convs.mutex.Unlock()

	convs.pairs[pairKey{from: from, to: to}] = conversion

	delete(convs.fromTables, to)
	delete(convs.toTables, from)
}

func (convs *Converters) table(tables map[ClassID]map[ClassID]Conversion, id ClassID, isFrom bool) map[ClassID]Conversion {
	convs.mutex.RLock()
	table, found := tables[id]
	convs.mutex.RUnlock()

	if found {
		return table
	}

	convs.mutex.Lock()
	defer convs.mutex.Unlock()

	table, found = tables[id]
	if found {
		return table
	}

	table = make(map[ClassID]Conversion)
	for key, conversion := range convs.pairs {
		switch {
		case isFrom && key.to == id:
			table[key.from] = conversion
		case !isFrom && key.from == id:
			table[key.to] = conversion
		}
	}

	tables[id] = table
	logger().Debug("converter table built", "type", id, "from", isFrom, "entries", len(table))

	return table
}

// ConverterFrom finds the converter from src into dst, or nil
func (convs *Converters) ConverterFrom(dst, src *PixelType) *Converter {
	conversion, found := convs.table(convs.fromTables, dst.ID(), true)[src.ID()]
	if !found {
		return nil
	}

	return &Converter{from: src, to: dst, conversion: conversion}
}

// ConverterTo finds the converter from src to dst, or nil
func (convs *Converters) ConverterTo(src, dst *PixelType) *Converter {
	conversion, found := convs.table(convs.toTables, src.ID(), false)[dst.ID()]
	if !found {
		return nil
	}

	return &Converter{from: src, to: dst, conversion: conversion}
}

var (
	defaultConverters     *Converters
	defaultConvertersOnce sync.Once
)

// Anchors are the formats every other format converts to and from
var Anchors = []ClassID{
	V24R8G8B8,
	V32R8G8B8A8,
	V8Gray8,
	V16Gray16,
	V48R16G16B16,
	V64R16G16B16A16,
	I8R8G8B8,
}

// DefaultConverters is the process-wide registry with identity, anchor and
// fast path conversions for every registered format
func DefaultConverters() *Converters {
	defaultConvertersOnce.Do(func() {
		convs := NewConverters()
		generic := Conversion{Convert: convertGeneric}

		ids := DefaultFactory().IDs()
		for _, id := range ids {
			convs.Register(id, id, Conversion{Convert: convertIdentity})
			for _, anchor := range Anchors {
				if anchor == id {
					continue
				}
				convs.Register(id, anchor, generic)
				convs.Register(anchor, id, generic)
			}
		}

		registerFastPaths(convs)

		defaultConverters = convs
	})

	return defaultConverters
}

// HasConverterFrom returns the converter from src into this type, or nil
func (pt *PixelType) HasConverterFrom(src *PixelType) *Converter {
	return DefaultConverters().ConverterFrom(pt, src)
}

// HasConverterTo returns the converter from this type into dst, or nil
func (pt *PixelType) HasConverterTo(dst *PixelType) *Converter {
	return DefaultConverters().ConverterTo(pt, dst)
}
