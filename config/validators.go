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

//nolint:godot
package config

import (
	"net"
	"net/url"
	"regexp"
	"strconv"
)

var menuIDRegex = regexp.MustCompile(`^(submenu_)?\d+(_\d+)?$`)

// isValidURL checks if the given string is an absolute http or https URL.
//
// Parameters:
// - s: the URL to validate
//
// Returns:
// - true if the URL is valid, false otherwise
func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// isPlainHTTP checks if the given URL uses unencrypted http.
func isPlainHTTP(s string) bool {
	u, err := url.Parse(s)

	return err == nil && u.Scheme == "http"
}

// isValidMenuID checks if the given string is a webAurion sidebar menu ID
// (submenu_NNN for submenus, N_N or NNN for leaves).
//
// Parameters:
// - id: the menu ID to validate
//
// Returns:
// - true if the menu ID is valid, false otherwise
func isValidMenuID(id string) bool {
	return menuIDRegex.MatchString(id)
}

// isValidListen checks if the given string is a host:port listen address with a numeric port.
//
// Parameters:
// - addr: the listen address to validate
//
// Returns:
// - true if the listen address is valid, false otherwise
func isValidListen(addr string) bool {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}

	p, err := strconv.ParseUint(port, 10, 16)

	return err == nil && p > 0
}
