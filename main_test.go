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
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dkorunic/aurion-scraper/config"
	"github.com/dkorunic/aurion-scraper/fetch"
	"github.com/dkorunic/aurion-scraper/format"
	"github.com/dkorunic/aurion-scraper/scrape"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	testUser     = "student"
	testPassword = "secret"
	testForm     = "form:j_idt117"
)

const testMainPage = `<html><head>
<script type="text/javascript">chargerSousMenu = function() {PrimeFaces.ab({s:"form:j_idt52",f:"form",u:"form:sidebar"});}</script>
</head><body><form id="form"><input type="hidden" name="javax.faces.ViewState" value="1:1" /></form></body></html>`

const testPlanningPage = `<html><body><form id="form"><div id="` + testForm + `" class="schedule"></div>
<input type="hidden" name="javax.faces.ViewState" value="2:2" /></form></body></html>`

const testSidebar = `<div id="form:sidebar"><ul>
<li class="ui-widget ui-menuitem ui-menu-parent submenu_291906"><a href="#"><span class="ui-menuitem-text">Scolarité</span></a><ul>
<li class="ui-menuitem"><a href="#" onclick="PrimeFaces.addSubmitParam('form',{'form:sidebar':'form:sidebar','form:sidebar_menuid':'1_3'}).submit('form');"><span class="ui-menuitem-text">Mon planning</span></a></li>
</ul></li></ul></div>`

const testEvents = `{"events" : [
{"id":"1001","title":"08h00 à 10h00 - A204 - CM - Math101 - Vectors - John Doe - 3A","start":"2025-09-15T08:00:00+0200","end":"2025-09-15T10:00:00+0200","allDay":false,"editable":true,"className":"CM"}
]}`

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testPartial(id, content string) []byte {
	return []byte(`<?xml version='1.0' encoding='UTF-8'?>
<partial-response id="j_id1"><changes><update id="` + id + `"><![CDATA[` + content + `]]></update></changes></partial-response>`)
}

// newTestERP starts a minimal webAurion stand-in accepting a single User.
func newTestERP(t *testing.T) string {
	t.Helper()

	redirect := func(w http.ResponseWriter, location string) {
		w.Header().Set("Location", location)
		w.WriteHeader(http.StatusFound)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /webAurion/login", func(w http.ResponseWriter, r *http.Request) {
		if r.PostFormValue("username") != testUser || r.PostFormValue("password") != testPassword {
			w.Write([]byte(`<form action="/webAurion/login"><input name="username"/></form>`)) //nolint:errcheck

			return
		}

		http.SetCookie(w, &http.Cookie{Name: fetch.SessionCookie, Value: "token", Path: "/webAurion"})
		redirect(w, "/webAurion/")
	})
	mux.HandleFunc("GET /webAurion/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(testMainPage)) //nolint:errcheck
	})
	mux.HandleFunc("POST /webAurion/faces/MainMenuPage.xhtml", func(w http.ResponseWriter, r *http.Request) {
		if r.PostFormValue("javax.faces.partial.ajax") == "true" {
			w.Write(testPartial("form:sidebar", testSidebar)) //nolint:errcheck

			return
		}

		redirect(w, "/webAurion/faces/Planning.xhtml")
	})
	mux.HandleFunc("GET /webAurion/faces/Planning.xhtml", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(testPlanningPage)) //nolint:errcheck
	})
	mux.HandleFunc("POST /webAurion/faces/Planning.xhtml", func(w http.ResponseWriter, _ *http.Request) {
		w.Write(testPartial(testForm, testEvents)) //nolint:errcheck
	})
	mux.HandleFunc("GET /webAurion/logout", func(w http.ResponseWriter, _ *http.Request) {
		redirect(w, "/webAurion/login")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv.URL + "/webAurion"
}

func newTestServer(t *testing.T, base string) *httptest.Server {
	t.Helper()

	c, err := fetch.NewClient(base, fetch.WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	cfg := config.TomlConfig{User: []config.User{{Username: testUser, Password: testPassword}}}

	s := newScheduleServer(c, cfg, format.JSON, 1)
	s.now = func() time.Time { return time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC) }

	srv := httptest.NewServer(s.router())
	t.Cleanup(srv.Close)

	return srv
}

func TestScheduleServer(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, newTestERP(t))

	tests := []struct {
		name        string
		path        string
		status      int
		contentType string
		body        string
	}{
		{
			name:   "Health",
			path:   "/healthz",
			status: http.StatusOK,
			body:   "ok",
		},
		{
			name:        "DefaultFormat",
			path:        "/schedule/" + testUser,
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `"subject": "Math101"`,
		},
		{
			name:        "ICal",
			path:        "/schedule/" + testUser + "?format=ical&start=2025-09-15&end=2025-09-21",
			status:      http.StatusOK,
			contentType: "text/calendar",
			body:        "SUMMARY:Math101 - Course",
		},
		{
			name:   "UnknownUser",
			path:   "/schedule/nobody",
			status: http.StatusNotFound,
			body:   ErrUnknownUser.Error(),
		},
		{
			name:   "UnknownFormat",
			path:   "/schedule/" + testUser + "?format=xml",
			status: http.StatusBadRequest,
			body:   format.ErrUnknownFormat.Error(),
		},
		{
			name:   "InvalidDate",
			path:   "/schedule/" + testUser + "?start=someday",
			status: http.StatusBadRequest,
			body:   ErrInvalidDate.Error(),
		},
		{
			name:   "InvertedRange",
			path:   "/schedule/" + testUser + "?start=2025-09-21&end=2025-09-15",
			status: http.StatusBadRequest,
			body:   fetch.ErrInvalidDateRange.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, err := http.Get(srv.URL + tt.path) //nolint:noctx
			if err != nil {
				t.Fatalf("GET %v failed: %v", tt.path, err)
			}
			defer resp.Body.Close()

			body := readAll(t, resp)

			if resp.StatusCode != tt.status {
				t.Errorf("GET %v status = %d, want %d: %s", tt.path, resp.StatusCode, tt.status, body)
			}

			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("GET %v Content-Type = %q, want %q", tt.path, ct, tt.contentType)
			}

			if !strings.Contains(body, tt.body) {
				t.Errorf("GET %v body = %s, want it to contain %q", tt.path, body, tt.body)
			}
		})
	}
}

func TestScheduleServerUnreachable(t *testing.T) {
	t.Parallel()

	erp := httptest.NewServer(http.NotFoundHandler())
	base := erp.URL
	erp.Close()

	srv := newTestServer(t, base)

	resp, err := http.Get(srv.URL + "/schedule/" + testUser) //nolint:noctx
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadGateway)
	}
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body failed: %v", err)
	}

	return string(b)
}

func TestParseRange(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC)
	year := fetch.SchoolYear(now)

	tests := []struct {
		name    string
		start   string
		end     string
		want    fetch.DateRange
		wantErr error
	}{
		{
			name: "Defaults",
			want: year,
		},
		{
			name:  "StartOnly",
			start: "2025-09-15",
			want:  fetch.DateRange{Start: time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC), End: year.End},
		},
		{
			name:  "DateOnlyEnd",
			start: "2025-09-15",
			end:   "2025-09-21",
			want: fetch.DateRange{
				Start: time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2025, time.September, 21, 23, 59, 59, 0, time.UTC),
			},
		},
		{
			name:  "EndWithTime",
			start: "2025-09-15 08:00",
			end:   "2025-09-15 18:30",
			want: fetch.DateRange{
				Start: time.Date(2025, time.September, 15, 8, 0, 0, 0, time.UTC),
				End:   time.Date(2025, time.September, 15, 18, 30, 0, 0, time.UTC),
			},
		},
		{
			name:    "InvalidStart",
			start:   "someday",
			wantErr: ErrInvalidDate,
		},
		{
			name:    "InvalidEnd",
			end:     "never",
			wantErr: ErrInvalidDate,
		},
		{
			name:    "Inverted",
			start:   "2025-09-21",
			end:     "2025-09-15",
			wantErr: fetch.ErrInvalidDateRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseRange(tt.start, tt.end, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("parseRange() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("parseRange() error = %v", err)
			}

			if !got.Start.Equal(tt.want.Start) || !got.End.Equal(tt.want.End) {
				t.Errorf("parseRange() = %v - %v, want %v - %v", got.Start, got.End, tt.want.Start, tt.want.End)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "Network", err: &fetch.FetchError{Op: "schedule", Kind: fetch.ErrNetwork}, want: true},
		{name: "Timeout", err: &fetch.FetchError{Op: "schedule", Kind: fetch.ErrTimeout}, want: true},
		{name: "LoginNetwork", err: &fetch.AuthError{Kind: fetch.ErrNetwork}, want: true},
		{name: "Credentials", err: &fetch.AuthError{Kind: fetch.ErrInvalidCredentials}},
		{name: "Expired", err: &fetch.FetchError{Op: "schedule", Kind: fetch.ErrNotAuthenticated, Err: fetch.ErrSessionExpired}},
		{name: "Parse", err: &fetch.FetchError{Op: "schedule", Kind: fetch.ErrParse, Err: &scrape.ParseError{Element: "events"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isTransient(tt.err); got != tt.want {
				t.Errorf("isTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "Range", err: fmt.Errorf("%w: end before start", fetch.ErrInvalidDateRange), want: http.StatusBadRequest},
		{name: "Timeout", err: &fetch.FetchError{Op: "schedule", Kind: fetch.ErrTimeout}, want: http.StatusGatewayTimeout},
		{name: "Canceled", err: &fetch.FetchError{Op: "schedule", Kind: fetch.ErrNetwork, Err: context.Canceled}, want: http.StatusServiceUnavailable},
		{name: "Credentials", err: &fetch.AuthError{Kind: fetch.ErrInvalidCredentials}, want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := errorStatus(tt.err); got != tt.want {
				t.Errorf("errorStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{in: "debug", want: zerolog.DebugLevel},
		{in: "warn", want: zerolog.WarnLevel},
		{in: "-1", want: zerolog.TraceLevel},
		{in: "3", want: zerolog.ErrorLevel},
		{in: "300", want: zerolog.InfoLevel},
		{in: "-129", want: zerolog.InfoLevel},
		{in: "bogus", want: zerolog.InfoLevel},
		{in: "", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := parseLogLevel(tt.in, zerolog.InfoLevel); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestUserPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, username, want string
	}{
		{path: "schedule.ics", username: "jdoe", want: "schedule-jdoe.ics"},
		{path: "out/schedule.json", username: "jdoe", want: "out/schedule-jdoe.json"},
		{path: "schedule", username: "a/b", want: "schedule-a_b"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := userPath(tt.path, tt.username); got != tt.want {
				t.Errorf("userPath(%q, %q) = %q, want %q", tt.path, tt.username, got, tt.want)
			}
		})
	}
}

func TestWriteSchedule(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.txt")

	s := scrape.Schedule{
		Start: time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.September, 21, 23, 59, 59, 0, time.UTC),
		Events: []scrape.Event{{
			ID:      "1001",
			Kind:    scrape.Course,
			Start:   time.Date(2025, time.September, 15, 8, 0, 0, 0, time.UTC),
			End:     time.Date(2025, time.September, 15, 10, 0, 0, 0, time.UTC),
			Subject: "Math101",
		}},
	}

	if err := writeSchedule(path, format.Plain, "jdoe", s, true); err != nil {
		t.Fatalf("writeSchedule() error = %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "schedule-jdoe.txt"))
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}

	if !strings.Contains(string(b), "Math101") {
		t.Errorf("output = %s, want it to contain Math101", b)
	}

	if err := writeSchedule(filepath.Join(dir, "missing", "out.txt"), format.Plain, "jdoe", s, false); !errors.Is(err, ErrWriteOutput) {
		t.Errorf("writeSchedule() into missing dir error = %v, want %v", err, ErrWriteOutput)
	}
}
