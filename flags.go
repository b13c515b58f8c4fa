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
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/dkorunic/aurion-scraper/format"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

const (
	DefaultConfFile = ".aurion.toml" // default configuration filename
	DefaultRetries  = 3              // default login and fetch attempts
	EnvVarPrefix    = "AURION"       // environment variables prefix
)

var (
	debug, colorLogs, listGroups, showVersion *bool
	confFile, outFile, outFormat, startDate   *string
	endDate, listenAddr, menuID               *string
	retries                                   *uint
)

var ErrInvalidFormat = errors.New("invalid output format")

// parseFlags parses input arguments and flags, with AURION_ prefixed environment variables as fallback.
func parseFlags() {
	fs := ff.NewFlagSet("aurion-scraper")

	debug = fs.Bool('v', "verbose", "enable verbose/debug log level")
	colorLogs = fs.Bool('l', "colorlogs", "enable colorized console logs")
	confFile = fs.String('f', "conffile", DefaultConfFile, "configuration file (in TOML)")
	outFile = fs.String('o', "output", "", "output file, standard output when empty")
	outFormat = fs.String('t', "format", format.Table, "output format: "+strings.Join(format.Names(), ", "))
	startDate = fs.String('s', "start", "", "schedule start date, school year start when empty")
	endDate = fs.String('e', "end", "", "schedule end date, school year end when empty")
	retries = fs.Uint('r', "retries", DefaultRetries, "default retry attempts on network errors")
	listenAddr = fs.StringLong("listen", "", "serve schedules over HTTP on this address instead of a single run")
	menuID = fs.StringLong("menu", "", "list children of a sidebar menu ID and exit")
	listGroups = fs.Bool('g', "groups", "list class groups of every groups planning and exit")
	showVersion = fs.Bool('V', "version", "display version and exit")

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix(EnvVarPrefix)); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))

		if errors.Is(err, ff.ErrHelp) {
			os.Exit(0)
		}

		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if !slices.Contains(format.Names(), *outFormat) {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v: %q\n", ErrInvalidFormat, *outFormat)
		os.Exit(1)
	}

	if *retries == 0 {
		*retries = 1
	}
}
