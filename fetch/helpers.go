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
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/dkorunic/aurion-scraper/logger"
	"github.com/dkorunic/aurion-scraper/scrape"
	"github.com/dustin/go-humanize"
)

// response holds a fully read ERP response.
type response struct {
	status   int
	location string
	body     []byte
}

// do sends a single request and reads the whole response body. Redirects are never followed.
func (c *Client) do(ctx context.Context, hc *http.Client, ua, method, target, referer string,
	form url.Values,
) (response, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return response{}, err
	}

	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	}

	// PrimeFaces only answers with a partial response to ajax requests
	if form.Has(fieldPartialAjax) {
		req.Header.Set("Faces-Request", "partial/ajax")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}

	req.Header.Set("User-Agent", ua)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	c.limiter.Take()

	// context may have ended while waiting for a rate limit slot
	if err := ctx.Err(); err != nil {
		return response{}, err
	}

	resp, err := hc.Do(req)
	if err != nil {
		select {
		case <-ctx.Done():
			return response{}, ctx.Err()
		default:
			return response{}, err
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, err
	}

	logger.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Str("size", humanize.Bytes(uint64(len(raw)))).
		Msg("ERP request done")

	return response{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		body:     raw,
	}, nil
}

// call sends a request within an authenticated session, detecting session expiry and HTTP failures.
func (c *Client) call(ctx context.Context, s *Session, op, method, target, referer string,
	form url.Values,
) (response, error) {
	r, err := c.do(ctx, s.httpClient, s.userAgent, method, target, referer, form)
	if err != nil {
		return response{}, &FetchError{Op: op, Kind: transportKind(err), Err: err}
	}

	switch {
	case r.location != "" && c.pages.isLogin(r.location):
		return response{}, c.expired(s, op)
	case r.status == http.StatusOK && scrape.IsLoginPage(r.body):
		return response{}, c.expired(s, op)
	case r.status >= http.StatusBadRequest:
		return response{}, &FetchError{
			Op:   op,
			Kind: ErrUnexpectedResponse,
			Err:  fmt.Errorf("%w: %v", ErrUnexpectedStatus, r.status),
		}
	}

	return r, nil
}

// expired marks the session logged out. There is no silent re-login, caller decides whether to log in again.
func (c *Client) expired(s *Session, op string) error {
	s.expire()

	logger.Debug().Str("username", s.username).Str("op", op).Msg("ERP session expired")

	return &FetchError{Op: op, Kind: ErrNotAuthenticated, Err: ErrSessionExpired}
}

// parseFailure wraps a markup parsing error. A PrimeFaces redirect instead of the requested update means the
// server side view is gone.
func (c *Client) parseFailure(s *Session, op string, err error) error {
	if errors.Is(err, scrape.ErrRedirected) {
		return c.expired(s, op)
	}

	return &FetchError{Op: op, Kind: ErrParse, Err: err}
}

// navigate follows the sidebar entry menuID, making it the server side current page.
func (c *Client) navigate(ctx context.Context, s *Session, op, menuID string) error {
	r, err := c.call(ctx, s, op, http.MethodPost, c.pages.MainMenu, c.pages.Service, menuParams(s.viewState, menuID))
	if err != nil {
		return err
	}

	// successful navigation always redirects to the target page
	if r.location == "" {
		return &FetchError{Op: op, Kind: ErrUnexpectedResponse, Err: fmt.Errorf("%w: %v", errNoRedirect, menuID)}
	}

	return nil
}

// expand lazily loads children of sidebar submenu menuID.
func (c *Client) expand(ctx context.Context, s *Session, op, menuID string) ([]MenuNode, error) {
	if s.menuFormID == "" {
		return nil, &FetchError{Op: op, Kind: ErrUnexpectedResponse, Err: errNoMenuForm}
	}

	r, err := c.call(ctx, s, op, http.MethodPost, c.pages.MainMenu, c.pages.MainMenu,
		submenuParams(s.menuFormID, s.viewState, menuID))
	if err != nil {
		return nil, err
	}

	nodes, err := scrape.ParseMenu(r.body, menuID)
	if err != nil {
		return nil, c.parseFailure(s, op, err)
	}

	return nodes, nil
}

// expandPath expands every non-empty submenu in order, each one being a child of the previous.
func (c *Client) expandPath(ctx context.Context, s *Session, op string, menuIDs ...string) error {
	for _, id := range menuIDs {
		if id == "" {
			continue
		}

		if _, err := c.expand(ctx, s, op, id); err != nil {
			return err
		}
	}

	return nil
}

// sessionToken returns the servlet session cookie stored in jar for the ERP.
func sessionToken(jar *cookiejar.Jar, p Pages) string {
	u, err := url.Parse(p.Login)
	if err != nil {
		return ""
	}

	for _, ck := range jar.Cookies(u) {
		if ck.Name == SessionCookie {
			return ck.Value
		}
	}

	return ""
}
