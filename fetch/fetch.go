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
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/corpix/uarand"
	"github.com/dkorunic/aurion-scraper/logger"
	"github.com/dkorunic/aurion-scraper/scrape"
	"go.uber.org/ratelimit"
)

const Timeout = 60 * time.Second // site can get really slow sometimes

// NewClient creates new *Client for the ERP instance at baseURL, DefaultURL when empty.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultURL
	}

	pages, err := NewPages(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		pages:    pages,
		planning: DefaultPlanning,
		limiter:  ratelimit.NewUnlimited(),
		timeout:  Timeout,
	}

	for _, o := range opts {
		o(c)
	}

	return c, nil
}

// Pages returns ERP endpoint URLs.
func (c *Client) Pages() Pages {
	return c.pages
}

// Planning returns sidebar menu IDs in use.
func (c *Client) Planning() Planning {
	return c.planning
}

// Login authenticates username and opens a new Session with its own cookie jar and random User-Agent.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	// Cookie Jar holds the servlet session cookie
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, &AuthError{Kind: ErrNetwork, Err: err}
	}

	s := &Session{
		httpClient: &http.Client{
			Transport: c.transport,
			Jar:       jar,
			Timeout:   c.timeout,
			// success of login and menu navigation is told by the redirect itself
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		username:  username,
		userAgent: c.userAgent,
		created:   time.Now(),
	}

	// generate random User-Agent per session
	if s.userAgent == "" {
		s.userAgent = uarand.GetRandom()
	}

	// POST data struct corresponding to input form fields
	data := url.Values{
		"username": {username},
		"password": {password},
	}

	r, err := c.do(ctx, s.httpClient, s.userAgent, http.MethodPost, c.pages.Login, c.pages.Login, data)
	if err != nil {
		return nil, &AuthError{Kind: ErrNetwork, Err: err}
	}

	switch {
	case r.location != "" && !c.pages.isLogin(r.location):
		// redirect away from login page means success
	case r.location != "", r.status == http.StatusOK:
		logger.Debug().Str("username", username).Msg("ERP rejected credentials")

		return nil, &AuthError{Kind: ErrInvalidCredentials}
	default:
		return nil, &AuthError{Kind: ErrUnexpectedResponse, Err: fmt.Errorf("%w: %v", ErrUnexpectedStatus, r.status)}
	}

	// main page holds the view state and sidebar form ID needed by every later request
	r, err = c.do(ctx, s.httpClient, s.userAgent, http.MethodGet, c.pages.Service, c.pages.Login, nil)
	if err != nil {
		return nil, &AuthError{Kind: ErrNetwork, Err: err}
	}

	if r.status != http.StatusOK {
		return nil, &AuthError{Kind: ErrUnexpectedResponse, Err: fmt.Errorf("%w: %v", ErrUnexpectedStatus, r.status)}
	}

	if s.viewState, err = scrape.ViewState(r.body); err != nil {
		return nil, &AuthError{Kind: ErrUnexpectedResponse, Err: err}
	}

	if s.menuFormID, err = scrape.MenuFormID(r.body); err != nil {
		logger.Debug().Err(err).Msg("Sidebar form ID not found, submenus will not be expanded")
	}

	if s.token = sessionToken(jar, c.pages); s.token == "" {
		return nil, &AuthError{Kind: ErrUnexpectedResponse, Err: errNoSessionCookie}
	}

	logger.Debug().Str("username", username).Str("menu_form", s.menuFormID).Msg("ERP login successful")

	return s, nil
}

// Logout ends the session on the ERP. Session is unusable afterwards even when the request fails.
func (c *Client) Logout(ctx context.Context, s *Session) error {
	if !s.Valid() {
		return nil
	}

	defer s.expire()

	if _, err := c.do(ctx, s.httpClient, s.userAgent, http.MethodGet, c.pages.Logout, c.pages.Service, nil); err != nil {
		return &FetchError{Op: "logout", Kind: transportKind(err), Err: err}
	}

	return nil
}

// GetSchedule fetches the user planning for r, the current school year when r is zero.
func (c *Client) GetSchedule(ctx context.Context, s *Session, r DateRange) (Schedule, error) {
	const op = "schedule"

	if !s.Valid() {
		return Schedule{}, &FetchError{Op: op, Kind: ErrNotAuthenticated}
	}

	if r.IsZero() {
		r = SchoolYear(time.Now())
	}

	if err := r.Validate(); err != nil {
		return Schedule{}, &FetchError{Op: op, Kind: ErrInvalidDateRange, Err: err}
	}

	// planning entry is only reachable once its parent submenu has been loaded
	if s.menuFormID != "" {
		if err := c.expandPath(ctx, s, op, c.planning.SchoolingID); err != nil {
			return Schedule{}, err
		}
	}

	if err := c.navigate(ctx, s, op, c.planning.UserPlanningID); err != nil {
		return Schedule{}, err
	}

	sched, err := c.fetchPlanning(ctx, s, op, r)
	if err != nil {
		return Schedule{}, err
	}

	logger.Debug().Str("username", s.username).Int("events", len(sched.Events)).Msg("Schedule fetched")

	return sched, nil
}

// fetchPlanning loads the planning page made current by navigate and requests its events for r.
func (c *Client) fetchPlanning(ctx context.Context, s *Session, op string, r DateRange) (Schedule, error) {
	page, err := c.call(ctx, s, op, http.MethodGet, c.pages.Planning, c.pages.MainMenu, nil)
	if err != nil {
		return Schedule{}, err
	}

	formID, err := scrape.ScheduleFormID(page.body)
	if err != nil {
		return Schedule{}, c.parseFailure(s, op, err)
	}

	// planning page has its own view
	viewState, err := scrape.ViewState(page.body)
	if err != nil {
		return Schedule{}, c.parseFailure(s, op, err)
	}

	resp, err := c.call(ctx, s, op, http.MethodPost, c.pages.Planning, c.pages.Planning,
		scheduleParams(formID, viewState, r.Start, r.End))
	if err != nil {
		return Schedule{}, err
	}

	sched, err := scrape.ParseSchedule(resp.body, formID)
	if err != nil {
		return Schedule{}, c.parseFailure(s, op, err)
	}

	sched.Start, sched.End = r.Start, r.End

	return sched, nil
}

// GetMenuNodes loads children of sidebar submenu menuID, in menu order. Parent submenus must be loaded first.
func (c *Client) GetMenuNodes(ctx context.Context, s *Session, menuID string) ([]MenuNode, error) {
	const op = "menu"

	if !s.Valid() {
		return nil, &FetchError{Op: op, Kind: ErrNotAuthenticated}
	}

	return c.expand(ctx, s, op, menuID)
}

// GetClassGroups navigates to groups planning leaf nodeID and lists favourite class groups.
func (c *Client) GetClassGroups(ctx context.Context, s *Session, nodeID string) ([]ClassGroup, error) {
	const op = "groups"

	if !s.Valid() {
		return nil, &FetchError{Op: op, Kind: ErrNotAuthenticated}
	}

	if s.menuFormID != "" {
		if err := c.expandPath(ctx, s, op, c.planning.SchoolingID, c.planning.GroupsPlanningID); err != nil {
			return nil, err
		}
	}

	if err := c.navigate(ctx, s, op, nodeID); err != nil {
		return nil, err
	}

	page, err := c.call(ctx, s, op, http.MethodGet, c.pages.PlanningChoice, c.pages.MainMenu, nil)
	if err != nil {
		return nil, err
	}

	groups, err := scrape.ParseClassGroups(page.body)
	if err != nil {
		return nil, c.parseFailure(s, op, err)
	}

	return groups, nil
}
