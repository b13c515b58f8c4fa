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

	"github.com/dkorunic/aurion-scraper/scrape"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// MenuMsg renders sidebar menu nodes as a table.
func MenuMsg(w io.Writer, parent string, nodes []scrape.MenuNode) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle(parent)
	t.AppendHeader(table.Row{"ID", "Name", "Leaf"})

	for _, n := range nodes {
		t.AppendRow(table.Row{n.ID, n.Name, n.Leaf})
	}

	_, err := io.WriteString(w, t.Render()+"\n")

	return err
}

// GroupsMsg renders class groups of a single groups planning as a table.
func GroupsMsg(w io.Writer, planning string, groups []scrape.ClassGroup) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.SetTitle(planning)
	t.AppendHeader(table.Row{"ID", "Group"})

	for _, g := range groups {
		t.AppendRow(table.Row{g.ID, g.Name})
	}

	t.AppendFooter(table.Row{"Groups", len(groups)})

	_, err := io.WriteString(w, t.Render()+"\n")

	return err
}
