//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package crl8

import (
	"github.com/ezrec/imagepp/codec"
)

func init() {
	codec.Register(Name, func() codec.Codec { return New() })
}
