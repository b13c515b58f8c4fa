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
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dkorunic/aurion-scraper/scrape"
)

const testUser = "student"

func testSchedule() scrape.Schedule {
	cest := time.FixedZone("CEST", 2*60*60)

	return scrape.Schedule{
		Start: time.Date(2025, 9, 15, 0, 0, 0, 0, cest),
		End:   time.Date(2025, 9, 21, 23, 59, 59, 0, cest),
		Events: []scrape.Event{
			{
				ID:          "1001",
				Kind:        scrape.Course,
				Start:       time.Date(2025, 9, 15, 8, 0, 0, 0, cest),
				End:         time.Date(2025, 9, 15, 10, 0, 0, 0, cest),
				Subject:     "Math101",
				Rooms:       []string{"A204"},
				Chapter:     "Vectors",
				Instructors: []string{"John Doe"},
			},
			{
				ID:      "1003",
				Kind:    scrape.Exam,
				Start:   time.Date(2025, 9, 15, 13, 30, 0, 0, cest),
				End:     time.Date(2025, 9, 15, 15, 30, 0, 0, cest),
				Subject: "Chemistry",
				Rooms:   []string{"C001"},
			},
			{
				ID:          "1002",
				Kind:        scrape.PracticalWork,
				Start:       time.Date(2025, 9, 16, 10, 15, 0, 0, cest),
				End:         time.Date(2025, 9, 16, 12, 15, 0, 0, cest),
				Subject:     "Physics",
				Rooms:       []string{"B101", "B102"},
				Chapter:     "Optics",
				Instructors: []string{"Jane Roe", "Max Mustermann"},
			},
		},
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	expected := []string{ICal, JSON, Markdown, Plain, Table}
	if got := Names(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Names() = %v, want %v", got, expected)
	}
}

func TestWriteUnknown(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := Write(&buf, "yaml", testUser, testSchedule())
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got: %v", err)
	}

	if buf.Len() != 0 {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{JSON, "application/json; charset=utf-8"},
		{ICal, "text/calendar; charset=utf-8"},
		{Plain, "text/plain; charset=utf-8"},
		{"yaml", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := ContentType(tt.name); got != tt.want {
			t.Errorf("ContentType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestJSONMsg(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	if err := Write(&buf, JSON, testUser, testSchedule()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var doc struct {
		Username string `json:"username"`
		Events   []struct {
			ID    string   `json:"id"`
			Kind  string   `json:"kind"`
			Start string   `json:"start"`
			Rooms []string `json:"rooms"`
		} `json:"events"`
	}

	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if doc.Username != testUser || len(doc.Events) != 3 {
		t.Fatalf("unexpected document: %+v", doc)
	}

	first := doc.Events[0]
	if first.ID != "1001" || first.Kind != "Course" || first.Start != "2025-09-15T08:00:00+02:00" {
		t.Errorf("unexpected first event: %+v", first)
	}

	if !reflect.DeepEqual(doc.Events[2].Rooms, []string{"B101", "B102"}) {
		t.Errorf("unexpected rooms: %v", doc.Events[2].Rooms)
	}

	if strings.Count(buf.String(), `"instructors"`) != 2 {
		t.Errorf("empty instructors should be omitted")
	}
}

func TestTableMsg(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	if err := Write(&buf, Table, testUser, testSchedule()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := buf.String()
	for _, s := range []string{testUser, "Math101", "2 hours", "B101 / B102", "Jane Roe, Max Mustermann", "Events"} {
		if !strings.Contains(out, s) {
			t.Errorf("table output misses %q:\n%s", s, out)
		}
	}
}

func TestMarkdownMsg(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	if err := Write(&buf, Markdown, testUser, testSchedule()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := buf.String()
	for _, s := range []string{"| Math101 |", "| Course |", "| Chemistry |", "| Events | 3 |"} {
		if !strings.Contains(out, s) {
			t.Errorf("markdown output misses %q:\n%s", s, out)
		}
	}
}
