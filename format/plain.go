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
	"io"
	"strings"
	"time"

	"github.com/dkorunic/aurion-scraper/scrape"
)

const (
	DayLayout  = "Monday 02 January 2006" // day header layout
	TimeLayout = "15:04"                  // event start and end layout
	EmptyMsg   = "No events."             // schedule without events
)

// PlainMsg formats schedule as cleartext listing grouped by day.
func PlainMsg(w io.Writer, username string, s scrape.Schedule) error {
	sb := &strings.Builder{}

	plainAddHeader(sb, username, s)

	if len(s.Events) == 0 {
		sb.WriteString(EmptyMsg)
		sb.WriteString("\n")
	}

	var day string

	for _, e := range s.Events {
		// new day header whenever the date changes, events are already in ERP order
		if d := e.Start.Format(DayLayout); d != day {
			day = d

			sb.WriteString("\n")
			sb.WriteString(day)
			sb.WriteString("\n")
		}

		plainFormatEvent(sb, e)
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// plainFormatEvent formats a single event line.
//
//nolint:interfacer
func plainFormatEvent(sb *strings.Builder, e scrape.Event) {
	sb.WriteString("  ")
	sb.WriteString(e.Start.Format(TimeLayout))
	sb.WriteString("-")
	sb.WriteString(e.End.Format(TimeLayout))
	sb.WriteString(" [")
	sb.WriteString(e.Kind.String())
	sb.WriteString("] ")
	sb.WriteString(e.Subject)

	if loc := e.Location(); loc != "" {
		sb.WriteString(" @ ")
		sb.WriteString(loc)
	}

	if e.Chapter != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Chapter)
	}

	if len(e.Instructors) > 0 {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(e.Instructors, ", "))
		sb.WriteString(")")
	}

	sb.WriteString("\n")
}

// plainAddHeader adds cleartext header containing username and schedule range.
func plainAddHeader(sb *strings.Builder, user string, s scrape.Schedule) {
	sb.WriteString(user)

	if !s.Start.IsZero() && !s.End.IsZero() {
		sb.WriteString(" / ")
		sb.WriteString(s.Start.Format(time.DateOnly))
		sb.WriteString(" - ")
		sb.WriteString(s.End.Format(time.DateOnly))
	}

	sb.WriteString("\n")
}
