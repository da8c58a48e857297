//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

// Package imagepp reads and writes strip compressed raster files, converting
// pixels between the types of the pixel package on the way
package imagepp

import (
	"errors"
	"log/slog"

	"github.com/ezrec/imagepp/internal/logging"
)

// ErrTruncated is returned when a raster file ends inside a structure
var ErrTruncated = errors.New("truncated raster file")

// SetLogger sets the logger of every imagepp package. nil silences them.
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Logger returns the current logger
func Logger() *slog.Logger {
	return logging.Logger()
}
