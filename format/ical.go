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
	"github.com/google/uuid"
	"github.com/jordic/goics"
)

const (
	ICalProdID  = "-//dkorunic//aurion-scraper//EN" // calendar producer
	ICalDomain  = "aurion-scraper"                   // UID domain part
	ICalSummary = " - "                              // subject and kind separator
)

// now is overridden in tests to get stable DTSTAMP values.
var now = time.Now

// calendar adapts a user schedule to goics.ICalEmiter.
type calendar struct {
	username string
	schedule scrape.Schedule
}

// EmitICal builds VCALENDAR with one VEVENT per event.
func (c calendar) EmitICal() goics.Componenter {
	cal := goics.NewComponent()
	cal.SetType("VCALENDAR")
	cal.AddProperty("VERSION", "2.0")
	cal.AddProperty("CALSCALE", "GREGORIAN")
	cal.AddProperty("PRODID", ICalProdID)
	cal.AddProperty("X-WR-CALNAME", c.username)

	stamp := now()

	for _, e := range c.schedule.Events {
		ev := goics.NewComponent()
		ev.SetType("VEVENT")

		k, v := goics.FormatDateTimeField("DTSTART", e.Start)
		ev.AddProperty(k, v)

		k, v = goics.FormatDateTimeField("DTEND", e.End)
		ev.AddProperty(k, v)

		k, v = goics.FormatDateTimeField("DTSTAMP", stamp)
		ev.AddProperty(k, v)

		ev.AddProperty("UID", EventUID(c.username, e))
		ev.AddProperty("SUMMARY", e.Subject+ICalSummary+e.Kind.String())
		ev.AddProperty("CATEGORIES", strings.ToUpper(e.Kind.String()))

		if loc := e.Location(); loc != "" {
			ev.AddProperty("LOCATION", loc)
		}

		if d := eventDescription(e); d != "" {
			ev.AddProperty("DESCRIPTION", d)
		}

		cal.AddComponent(ev)
	}

	return cal
}

// ICalMsg renders schedule as an iCalendar feed.
func ICalMsg(w io.Writer, username string, s scrape.Schedule) error {
	ew := &errWriter{w: w}
	goics.NewICalEncode(ew).Encode(calendar{username: username, schedule: s})

	return ew.err
}

// errWriter keeps the first write error, since goics encoder discards them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}

	n, err := ew.w.Write(p)
	if err != nil {
		ew.err = err
	}

	return n, err
}

// EventUID returns UID stable across runs, so calendar clients update events instead of duplicating them.
func EventUID(username string, e scrape.Event) string {
	name := username + "/" + e.ID + "/" + e.Start.UTC().Format(time.RFC3339)

	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String() + "@" + ICalDomain
}

// eventDescription joins chapter and instructors on a single line.
func eventDescription(e scrape.Event) string {
	parts := make([]string, 0, 2)

	if e.Chapter != "" {
		parts = append(parts, e.Chapter)
	}

	if len(e.Instructors) > 0 {
		parts = append(parts, strings.Join(e.Instructors, " / "))
	}

	return strings.Join(parts, " | ")
}
