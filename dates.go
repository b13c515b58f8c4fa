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
	"time"

	"github.com/araddon/dateparse"
	"github.com/dkorunic/aurion-scraper/fetch"
)

var ErrInvalidDate = errors.New("invalid date")

// parseRange builds a schedule date range from free-form dates. Missing sides default to the school year
// containing now, and a date-only end covers the whole day.
func parseRange(start, end string, now time.Time) (fetch.DateRange, error) {
	r := fetch.SchoolYear(now)

	if start != "" {
		t, err := dateparse.ParseIn(start, now.Location())
		if err != nil {
			return fetch.DateRange{}, fmt.Errorf("%w %q: %w", ErrInvalidDate, start, err)
		}

		r.Start = t
	}

	if end != "" {
		t, err := dateparse.ParseIn(end, now.Location())
		if err != nil {
			return fetch.DateRange{}, fmt.Errorf("%w %q: %w", ErrInvalidDate, end, err)
		}

		if isMidnight(t) {
			t = t.AddDate(0, 0, 1).Add(-time.Second)
		}

		r.End = t
	}

	if err := r.Validate(); err != nil {
		return fetch.DateRange{}, err
	}

	return r, nil
}

func isMidnight(t time.Time) bool {
	h, m, s := t.Clock()

	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}
