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

	"github.com/dkorunic/aurion-scraper/scrape"
	"github.com/hako/durafmt"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var tableHeader = table.Row{"Date", "Time", "Duration", "Kind", "Subject", "Rooms", "Chapter", "Instructors"}

// TableMsg renders schedule as a rounded box table with a mixed case footer.
func TableMsg(w io.Writer, username string, s scrape.Schedule) error {
	t := newTable(username, s)

	_, err := io.WriteString(w, t.Render()+"\n")

	return err
}

// MarkdownMsg renders schedule as a Markdown table.
func MarkdownMsg(w io.Writer, username string, s scrape.Schedule) error {
	t := newTable(username, s)

	_, err := io.WriteString(w, t.RenderMarkdown()+"\n")

	return err
}

func newTable(username string, s scrape.Schedule) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.SetTitle(username)
	t.AppendHeader(tableHeader)

	for _, e := range s.Events {
		t.AppendRow(table.Row{
			e.Start.Format(DayLayout),
			e.Start.Format(TimeLayout) + "-" + e.End.Format(TimeLayout),
			durafmt.Parse(e.End.Sub(e.Start)).LimitFirstN(2).String(),
			e.Kind.String(),
			e.Subject,
			e.Location(),
			e.Chapter,
			strings.Join(e.Instructors, ", "),
		})
	}

	t.AppendFooter(table.Row{"", "", "", "", "", "", "Events", len(s.Events)})

	return t
}
