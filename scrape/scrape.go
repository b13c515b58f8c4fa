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
	"bytes"
	"encoding/xml"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// partialResponse is a JSF/PrimeFaces ajax partial response.
type partialResponse struct {
	XMLName  xml.Name        `xml:"partial-response"`
	Updates  []partialUpdate `xml:"changes>update"`
	Redirect *struct {
		URL string `xml:"url,attr"`
	} `xml:"redirect"`
}

// partialUpdate is a single updated component, its content is usually CDATA.
type partialUpdate struct {
	ID      string `xml:"id,attr"`
	Content string `xml:",chardata"`
}

// scheduleUpdate is the JSON document PrimeFaces schedule widget receives.
type scheduleUpdate struct {
	Events *[]RawEntry `json:"events"`
}

// extractUpdate decodes a partial response and returns the content of the update with the given component ID.
func extractUpdate(raw []byte, id string) (string, error) {
	var pr partialResponse

	if err := xml.NewDecoder(bytes.NewReader(raw)).Decode(&pr); err != nil {
		return "", &ParseError{Element: "partial-response", Index: -1, Err: err}
	}

	if pr.Redirect != nil {
		return "", &ParseError{Element: "partial-response", Index: -1, Detail: "redirect to " + pr.Redirect.URL,
			Err: ErrRedirected}
	}

	for _, u := range pr.Updates {
		if u.ID == id {
			return u.Content, nil
		}
	}

	return "", missing(`update[id="` + id + `"]`)
}

// ExtractEntries locates the calendar container (partial update with containerID) in a raw schedule response and
// returns its entries in markup order. This is the only place that knows where calendar entries live.
func ExtractEntries(raw []byte, containerID string) ([]RawEntry, error) {
	content, err := extractUpdate(raw, containerID)
	if err != nil {
		return nil, err
	}

	var su scheduleUpdate

	if err := json.Unmarshal([]byte(content), &su); err != nil {
		return nil, &ParseError{Element: EventsKey, Index: -1, Err: err}
	}

	if su.Events == nil {
		return nil, missing(EventsKey)
	}

	return *su.Events, nil
}

// ParseSchedule parses raw schedule response into a Schedule, keeping the order of entries. An empty events list
// yields an empty Schedule.
func ParseSchedule(raw []byte, containerID string) (Schedule, error) {
	entries, err := ExtractEntries(raw, containerID)
	if err != nil {
		return Schedule{}, err
	}

	events := make([]Event, 0, len(entries))

	for i, e := range entries {
		ev, err := parseEntry(i, e)
		if err != nil {
			return Schedule{}, err
		}

		events = append(events, ev)
	}

	return Schedule{Events: events}, nil
}

// parseEntry converts a raw entry into an Event.
func parseEntry(i int, e RawEntry) (Event, error) {
	start, err := parseTime(e.Start)
	if err != nil {
		return Event{}, &ParseError{Element: "start", Index: i, Detail: e.Start, Err: err}
	}

	end, err := parseTime(e.End)
	if err != nil {
		return Event{}, &ParseError{Element: "end", Index: i, Detail: e.End, Err: err}
	}

	t, err := parseTitle(e.Title)
	if err != nil {
		return Event{}, &ParseError{Element: "title", Index: i, Detail: err.Error()}
	}

	return Event{
		ID:          e.ID,
		Kind:        mapKind(e.ClassName),
		Start:       start,
		End:         end,
		Subject:     t.subject,
		Rooms:       t.rooms,
		Chapter:     t.chapter,
		Instructors: t.instructors,
	}, nil
}

// parseTime parses event timestamps as rendered by the ERP, falling back to flexible parsing.
func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errEmptyValue
	}

	return parseFirstDateTime(eventLayouts, value)
}
