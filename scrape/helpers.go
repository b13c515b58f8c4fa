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
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	LayoutAurion          = "2006-01-02T15:04:05-0700" // event timestamps with numeric zone
	LayoutAurionNoTZ      = "2006-01-02T15:04:05"      // event timestamps in server local time
	minTitleFields        = 4                          // rooms, type, subject and group
	titleChapterPosition  = 3                          // first chapter field
	titleSubjectPosition  = 2                          // subject field
	titleRoomsPosition    = 0                          // rooms field
	titleTrailingFieldLen = 1                          // group field dropped at the end
)

var (
	errEmptyValue      = errors.New("empty value")
	errTitlePrefix     = errors.New(`title does not start with "HHhMM à HHhMM - " or "HHhMM - HHhMM - "`)
	errTitleFields     = errors.New("title has too few fields")
	eventLayouts       = []string{LayoutAurion, time.RFC3339, LayoutAurionNoTZ}
	titlePrefixRegex   = regexp.MustCompile(`^\s*\d{1,2}h\d{2}\s+(?:à|-)\s+\d{1,2}h\d{2}\s+-\s?`)
	sidebarMenuIDRegex = regexp.MustCompile(`form:sidebar_menuid'\s*:\s*'([^']+)'`)
	menuFormIDRegex    = regexp.MustCompile(`chargerSousMenu\s*=\s*function\(\)\s*\{\s*PrimeFaces\.ab\(\{\s*s:\s*"(form:j_idt\d+)"`)
)

// kinds maps lowercase ERP CSS class names to event kinds.
var kinds = map[string]EventKind{
	"conges":      Leave,
	"cm":          Course,
	"cours":       Course,
	"est-epreuve": Exam,
	"evaluation":  Exam,
	"ds":          Exam,
	"reunion":     Meeting,
	"td":          SupervisedWork,
	"cours_td":    SupervisedWork,
	"tp":          PracticalWork,
	"projet":      Project,
}

// mapKind maps ERP CSS class name to EventKind. Multiple classes are allowed, first known one wins.
func mapKind(className string) EventKind {
	for _, c := range strings.Fields(strings.ToLower(className)) {
		if k, ok := kinds[c]; ok {
			return k
		}
	}

	return Other
}

// title holds fields decoded from an event title.
type title struct {
	subject     string
	chapter     string
	rooms       []string
	instructors []string
}

// parseTitle decodes event title in the form "08h00 à 10h00 - rooms - type - subject - chapter - instructors - group"
// where chapter can itself contain the field separator and instructors and chapter may be missing.
func parseTitle(s string) (title, error) {
	loc := titlePrefixRegex.FindStringIndex(s)
	if loc == nil {
		return title{}, errTitlePrefix
	}

	fields := strings.Split(s[loc[1]:], FieldSeparator)
	if len(fields) < minTitleFields {
		return title{}, fmt.Errorf("%w: got %d, want at least %d", errTitleFields, len(fields), minTitleFields)
	}

	// last field is the group, not used
	fields = fields[:len(fields)-titleTrailingFieldLen]

	t := title{
		rooms:   splitList(fields[titleRoomsPosition]),
		subject: trimAllSpace(fields[titleSubjectPosition]),
	}

	if len(fields) > titleChapterPosition {
		t.instructors = splitList(fields[len(fields)-1])
		t.chapter = strings.TrimSpace(strings.Join(fields[titleChapterPosition:len(fields)-1], FieldSeparator))
	}

	return t, nil
}

// splitList splits a " / " separated list, dropping empty items. It returns nil for an empty list.
func splitList(s string) []string {
	var out []string

	for _, p := range strings.Split(s, RoomSeparator) {
		if p = trimAllSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// parseFirstDateTime tries each layout in turn and falls back to flexible parsing, returning first parsed time.
func parseFirstDateTime(layouts []string, value string) (time.Time, error) {
	for _, l := range layouts {
		if t, err := time.Parse(l, value); err == nil {
			return t, nil
		}
	}

	return dateparse.ParseAny(value)
}

// trimAllSpace removes all leading, trailing, and repeated spaces from the input string.
// It returns a single-space separated string.
func trimAllSpace(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")

	return strings.Join(strings.Fields(s), " ")
}
