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
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dkorunic/aurion-scraper/scrape"
	"go.uber.org/ratelimit"
)

type (
	Event      = scrape.Event
	Schedule   = scrape.Schedule
	MenuNode   = scrape.MenuNode
	ClassGroup = scrape.ClassGroup
)

// Client structure holds ERP endpoints and HTTP settings shared by all sessions. It is not modified after
// construction and is safe for concurrent use.
type Client struct {
	pages     Pages
	planning  Planning
	transport http.RoundTripper
	limiter   ratelimit.Limiter
	timeout   time.Duration
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTransport sets HTTP transport used by all sessions.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithUserAgent sets fixed User-Agent instead of a random one per session.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRateLimit limits outgoing requests to rps per second across all sessions. Zero means no limit.
func WithRateLimit(rps int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = ratelimit.New(rps)
		}
	}
}

// WithPlanning sets sidebar menu IDs for ERP instances other than ISEN Ouest.
func WithPlanning(p Planning) Option {
	return func(c *Client) {
		c.planning = p
	}
}

// Session structure holds an authenticated ERP session. It is returned by Login and passed to every data call;
// nothing but Logout and expiry detection changes it.
type Session struct {
	httpClient *http.Client
	username   string
	token      string
	viewState  string
	menuFormID string
	userAgent  string
	created    time.Time
	loggedOut  atomic.Bool
}

// Token returns the session cookie value issued by the ERP.
func (s *Session) Token() string {
	return s.token
}

// Username returns the user the session was opened for.
func (s *Session) Username() string {
	return s.username
}

// CreatedAt returns login time.
func (s *Session) CreatedAt() time.Time {
	return s.created
}

// Valid reports whether the session can still be used.
func (s *Session) Valid() bool {
	return s != nil && !s.loggedOut.Load()
}

func (s *Session) expire() {
	s.loggedOut.Store(true)
}

// DateRange is a closed time range. Zero value means the current school year.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// SchoolYear returns range from 1 August to 31 July of the school year containing now, in now's location.
func SchoolYear(now time.Time) DateRange {
	year := now.Year()
	if now.Month() < time.August {
		year--
	}

	return DateRange{
		Start: time.Date(year, time.August, 1, 0, 0, 0, 0, now.Location()),
		End:   time.Date(year+1, time.July, 31, 23, 59, 59, 0, now.Location()),
	}
}

// IsZero reports whether both ends are unset.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Validate checks that both ends are set and End is not before Start.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: both start and end are required", ErrInvalidDateRange)
	}

	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: end %v is before start %v", ErrInvalidDateRange, r.End.Format(time.RFC3339),
			r.Start.Format(time.RFC3339))
	}

	return nil
}
