//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package zlib

import (
	"github.com/ezrec/imagepp/codec"
)

func init() {
	codec.Register(Name, func() codec.Codec { return New() })
}
