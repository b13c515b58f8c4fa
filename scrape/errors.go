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
	"strconv"
	"strings"
)

var (
	ErrParse      = errors.New("unable to parse ERP markup")
	ErrRedirected = errors.New("ERP requested a redirect")
)

// ParseError describes markup that did not have the expected shape. Element names what was missing or malformed
// and Index is the calendar entry position, or -1 when the error is not tied to an entry.
type ParseError struct {
	Element string
	Index   int
	Detail  string
	Err     error
}

// Error implements error interface.
func (e *ParseError) Error() string {
	var sb strings.Builder

	sb.WriteString(ErrParse.Error())

	if e.Index >= 0 {
		sb.WriteString(": entry ")
		sb.WriteString(strconv.Itoa(e.Index))
	}

	sb.WriteString(": ")
	sb.WriteString(e.Element)

	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

// Unwrap returns the underlying decoder error, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ParseError as ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse //nolint:errorlint
}

// missing returns a ParseError for an element that could not be found.
func missing(element string) *ParseError {
	return &ParseError{Element: element, Index: -1, Detail: "not found"}
}
