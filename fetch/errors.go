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

package fetch

import (
	"context"
	"errors"
	"net"

	"github.com/dkorunic/aurion-scraper/scrape"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNetwork            = errors.New("network failure")
	ErrTimeout            = errors.New("request timed out")
	ErrUnexpectedResponse = errors.New("unexpected ERP response")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrUnexpectedStatus   = errors.New("unexpected status code")
	ErrInvalidURL         = errors.New("URL needs scheme and host")
	ErrParse              = scrape.ErrParse
	errNoRedirect         = errors.New("menu navigation did not redirect")
	errNoSessionCookie    = errors.New("no " + SessionCookie + " cookie issued")
	errNoMenuForm         = errors.New("sidebar menu form ID is unknown")
)

// AuthError is returned by Login. Kind is one of ErrInvalidCredentials, ErrNetwork or ErrUnexpectedResponse.
type AuthError struct {
	Kind error
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "login: " + e.Kind.Error()
	}

	return "login: " + e.Kind.Error() + ": " + e.Err.Error()
}

func (e *AuthError) Unwrap() []error {
	return nonNil(e.Kind, e.Err)
}

// FetchError is returned by data retrieval calls. Kind is one of ErrNotAuthenticated, ErrNetwork, ErrTimeout,
// ErrParse, ErrUnexpectedResponse or ErrInvalidDateRange.
type FetchError struct {
	Op   string
	Kind error
	Err  error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err == nil:
		return e.Op + ": " + e.Kind.Error()
	case errors.Is(e.Err, e.Kind):
		// inner error already describes its kind
		return e.Op + ": " + e.Err.Error()
	default:
		return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
	}
}

func (e *FetchError) Unwrap() []error {
	return nonNil(e.Kind, e.Err)
}

// transportKind classifies a failed HTTP round trip as ErrTimeout or ErrNetwork.
func transportKind(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrTimeout
	}

	return ErrNetwork
}

func nonNil(errs ...error) []error {
	out := make([]error, 0, len(errs))

	for _, e := range errs {
		if e != nil {
			out = append(out, e)
		}
	}

	return out
}
