//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package imagepp

// stripCache keeps decompressed strips, dropping an arbitrary one when full
type stripCache struct {
	cacheDepth int
	stripCache map[int][]byte
}

func newStripCache(cacheDepth int) (sc *stripCache) {
	sc = &stripCache{
		stripCache: make(map[int][]byte, cacheDepth),
		cacheDepth: cacheDepth,
	}
	return
}

func (sc *stripCache) Strip(index int) (raw []byte, found bool) {
	raw, found = sc.stripCache[index]
	return
}

func (sc *stripCache) SetStrip(index int, raw []byte) {
	if sc.cacheDepth <= 0 {
		return
	}

	_, found := sc.stripCache[index]
	if !found && len(sc.stripCache) >= sc.cacheDepth {
		for key := range sc.stripCache {
			delete(sc.stripCache, key)
			break
		}
	}

	sc.stripCache[index] = raw
}
