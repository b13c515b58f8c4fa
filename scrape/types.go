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

package scrape

import (
	"strings"
	"time"
)

// EventKind is a kind of timetable entry, derived from the ERP CSS class name.
type EventKind int

const (
	Other EventKind = iota
	Course
	Exam
	Leave
	Meeting
	PracticalWork
	SupervisedWork
	Project
)

var kindNames = [...]string{
	Other:          "Other",
	Course:         "Course",
	Exam:           "Exam",
	Leave:          "Leave",
	Meeting:        "Meeting",
	PracticalWork:  "PracticalWork",
	SupervisedWork: "SupervisedWork",
	Project:        "Project",
}

// String returns the kind name.
func (k EventKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[Other]
	}

	return kindNames[k]
}

// MarshalText encodes the kind as its name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name, unknown names map to Other.
func (k *EventKind) UnmarshalText(text []byte) error {
	*k = Other

	for i, n := range kindNames {
		if strings.EqualFold(n, string(text)) {
			*k = EventKind(i)

			break
		}
	}

	return nil
}

// Event structure holds a single timetable entry. Optional fields the ERP did not render are left empty.
type Event struct {
	ID          string    `json:"id"`
	Kind        EventKind `json:"kind"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Subject     string    `json:"subject"`
	Rooms       []string  `json:"rooms,omitempty"`
	Chapter     string    `json:"chapter,omitempty"`
	Instructors []string  `json:"instructors,omitempty"`
}

// Location returns all event rooms as a single string.
func (e Event) Location() string {
	return strings.Join(e.Rooms, RoomSeparator)
}

// Schedule structure holds events for a time range, in the order the ERP rendered them.
type Schedule struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Events []Event   `json:"events"`
}

// RawEntry is a calendar entry as found in the schedule update, before its title is parsed.
type RawEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Start     string `json:"start"`
	End       string `json:"end"`
	AllDay    bool   `json:"allDay"`
	Editable  bool   `json:"editable"`
	ClassName string `json:"className"`
}

// MenuNode structure holds a single sidebar menu entry.
type MenuNode struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Parent string `json:"parent"`
	Leaf   bool   `json:"leaf"`
}

// ClassGroup structure holds a class group listed on the planning choice page.
type ClassGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
