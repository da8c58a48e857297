//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package filter

import (
	"log/slog"

	"github.com/ezrec/imagepp/internal/logging"
)

func logger() *slog.Logger {
	return logging.Logger()
}
