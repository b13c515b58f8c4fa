// @license
// Copyright (C) 2025  Dinko Korunic
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/dkorunic/aurion-scraper/logger"
	"github.com/rs/zerolog"
)

// initLog sets the global log level to the level specified by the -v
// command-line flag or the LOG_LEVEL environment variable. If the
// -v flag is specified, the log level is set to DebugLevel. If LOG_LEVEL
// environment variable is set, the log level is set to the value of the
// variable. If neither are specified, the log level is set to InfoLevel.
//
// Colored console logging is used when the -l flag is specified or when
// standard error is an interactive terminal.
func initLog() {
	logLevel := zerolog.InfoLevel
	if *debug {
		logLevel = zerolog.DebugLevel
	} else if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		logLevel = parseLogLevel(v, logLevel)
	}

	zerolog.SetGlobalLevel(logLevel)

	// schedules go to stdout, logs always to stderr
	if *colorLogs || isTerminal(os.Stderr) {
		logger.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(logLevel).
			With().
			Timestamp().
			Caller().
			Logger()
	}
}

// parseLogLevel accepts both numeric zerolog levels and level names, returning def when v is neither.
func parseLogLevel(v string, def zerolog.Level) zerolog.Level {
	if l, err := strconv.ParseInt(v, 10, 8); err == nil {
		return zerolog.Level(l)
	} else if errors.Is(err, strconv.ErrRange) {
		return def
	}

	if l, err := zerolog.ParseLevel(v); err == nil && v != "" {
		return l
	}

	return def
}
