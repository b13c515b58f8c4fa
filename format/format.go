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

package format

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/dkorunic/aurion-scraper/scrape"
)

const (
	Table    = "table"    // go-pretty table
	Markdown = "markdown" // Markdown table
	Plain    = "plain"    // cleartext listing grouped by day
	JSON     = "json"     // indented JSON document
	ICal     = "ical"     // iCalendar feed
)

var ErrUnknownFormat = errors.New("unknown output format")

// Formatter renders a schedule for a user to w.
type Formatter func(w io.Writer, username string, s scrape.Schedule) error

var formatters = map[string]Formatter{
	Table:    TableMsg,
	Markdown: MarkdownMsg,
	Plain:    PlainMsg,
	JSON:     JSONMsg,
	ICal:     ICalMsg,
}

var contentTypes = map[string]string{
	Table:    "text/plain; charset=utf-8",
	Markdown: "text/markdown; charset=utf-8",
	Plain:    "text/plain; charset=utf-8",
	JSON:     "application/json; charset=utf-8",
	ICal:     "text/calendar; charset=utf-8",
}

// Names returns all known format names, sorted.
func Names() []string {
	names := make([]string, 0, len(formatters))
	for n := range formatters {
		names = append(names, n)
	}

	slices.Sort(names)

	return names
}

// Lookup returns Formatter by its name.
func Lookup(name string) (Formatter, error) {
	f, ok := formatters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}

	return f, nil
}

// ContentType returns HTTP media type for a format name.
func ContentType(name string) string {
	if ct, ok := contentTypes[name]; ok {
		return ct
	}

	return "application/octet-stream"
}

// Write renders schedule s of username to w in format name.
func Write(w io.Writer, name, username string, s scrape.Schedule) error {
	f, err := Lookup(name)
	if err != nil {
		return err
	}

	return f(w, username, s)
}
