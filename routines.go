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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/dkorunic/aurion-scraper/config"
	"github.com/dkorunic/aurion-scraper/fetch"
	"github.com/dkorunic/aurion-scraper/format"
	"github.com/dkorunic/aurion-scraper/logger"
	"github.com/dkorunic/aurion-scraper/scrape"
	"github.com/google/renameio/v2/maybe"
	"github.com/tj/go-spin"
)

const (
	retryDelay         = 2 * time.Second        // initial delay between attempts
	logoutTimeout      = 10 * time.Second       // logout deadline, survives cancellation
	spinnerRotateDelay = 100 * time.Millisecond // spinner delay
	outFileMode        = 0o644
)

var (
	ErrScrapingUser = errors.New("error scraping data for User")
	ErrWriteOutput  = errors.New("unable to write output")
)

// result holds a single scraped schedule.
type result struct {
	username string
	schedule scrape.Schedule
}

// isTransient reports if a failed ERP call is worth another attempt.
func isTransient(err error) bool {
	return errors.Is(err, fetch.ErrNetwork) || errors.Is(err, fetch.ErrTimeout)
}

func retryOpts(ctx context.Context, username, op string, attempts uint) []retry.Option {
	return []retry.Option{
		retry.Attempts(attempts),
		retry.Context(ctx),
		retry.Delay(retryDelay),
		retry.RetryIf(isTransient),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn().Msgf("Retrying %v for %v (attempt %d): %v", op, username, n+2, err)
		}),
	}
}

// withSession logs User in, calls fn with the session and always logs out afterwards. Network failures and
// timeouts are retried up to attempts times, everything else fails immediately.
func withSession(ctx context.Context, c *fetch.Client, u config.User, attempts uint,
	fn func(*fetch.Session) error,
) error {
	var s *fetch.Session

	err := retry.Do(
		func() error {
			var err error

			s, err = c.Login(ctx, u.Username, u.Password)

			return err
		},
		retryOpts(ctx, u.Username, "login", attempts)...,
	)
	if err != nil {
		return err
	}

	defer func() {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logoutTimeout)
		defer cancel()

		if err := c.Logout(lctx, s); err != nil {
			logger.Debug().Msgf("Logout for %v failed: %v", u.Username, err)
		}
	}()

	return retry.Do(
		func() error {
			return fn(s)
		},
		retryOpts(ctx, u.Username, "fetch", attempts)...,
	)
}

// fetchUser returns schedule of a single User within date range.
func fetchUser(ctx context.Context, c *fetch.Client, u config.User, r fetch.DateRange,
	attempts uint,
) (scrape.Schedule, error) {
	var sched scrape.Schedule

	err := withSession(ctx, c, u, attempts, func(s *fetch.Session) error {
		var err error

		sched, err = c.GetSchedule(ctx, s, r)

		return err
	})

	return sched, err
}

// scrapers will fetch schedule for every configured User and send it to a channel.
func scrapers(ctx context.Context, wgScrape *sync.WaitGroup, c *fetch.Client, users []config.User,
	r fetch.DateRange, scraped chan<- result,
) {
	logger.Debug().Msg("Starting scrapers")

	for _, u := range users {
		wgScrape.Add(1)

		go func() {
			defer wgScrape.Done()

			sched, err := fetchUser(ctx, c, u, r, *retries)
			if err != nil {
				logger.Warn().Msgf("%v %v: %v", ErrScrapingUser, u.Username, err)
				exitWithError.Store(true)

				return
			}

			logger.Debug().Msgf("Fetched %d events for %v", len(sched.Events), u.Username)

			scraped <- result{username: u.Username, schedule: sched}
		}()
	}
}

// singleRun fetches schedules of all Users and writes them in configured order.
func singleRun(ctx context.Context, c *fetch.Client, cfg config.TomlConfig, r fetch.DateRange) {
	logger.Info().Msgf("Fetching schedules from %v to %v", r.Start.Format(time.DateTime), r.End.Format(time.DateTime))

	scraped := make(chan result, len(cfg.User))

	var wgScrape sync.WaitGroup

	scrapers(ctx, &wgScrape, c, cfg.User, r, scraped)

	wgScrape.Wait()
	close(scraped)

	schedules := make(map[string]scrape.Schedule, len(cfg.User))
	for res := range scraped {
		schedules[res.username] = res.schedule
	}

	perUser := len(cfg.User) > 1

	for _, u := range cfg.User {
		sched, ok := schedules[u.Username]
		if !ok {
			continue
		}

		if err := writeSchedule(*outFile, *outFormat, u.Username, sched, perUser); err != nil {
			logger.Error().Msgf("%v", err)
			exitWithError.Store(true)
		}
	}
}

// writeSchedule renders schedule and writes it to standard output or atomically replaces output file.
func writeSchedule(path, name, username string, s scrape.Schedule, perUser bool) error {
	var buf bytes.Buffer

	if err := format.Write(&buf, name, username, s); err != nil {
		return err
	}

	if path == "" {
		_, err := os.Stdout.Write(buf.Bytes())

		return err
	}

	if perUser {
		path = userPath(path, username)
	}

	if err := maybe.WriteFile(path, buf.Bytes(), outFileMode); err != nil {
		return fmt.Errorf("%w %v: %w", ErrWriteOutput, path, err)
	}

	logger.Info().Msgf("Wrote %d events for %v to %v", len(s.Events), username, path)

	return nil
}

// userPath inserts username before output file extension.
func userPath(path, username string) string {
	safe := strings.Map(func(r rune) rune {
		if r == '/' || r == os.PathSeparator {
			return '_'
		}

		return r
	}, username)

	ext := filepath.Ext(path)

	return strings.TrimSuffix(path, ext) + "-" + safe + ext
}

// listMenu prints children of a sidebar menu node as seen by the first configured User.
func listMenu(ctx context.Context, c *fetch.Client, cfg config.TomlConfig, menuID string) error {
	return withSession(ctx, c, cfg.User[0], *retries, func(s *fetch.Session) error {
		if p := c.Planning(); p.SchoolingID != "" && menuID != p.SchoolingID {
			if _, err := c.GetMenuNodes(ctx, s, p.SchoolingID); err != nil {
				return err
			}
		}

		nodes, err := c.GetMenuNodes(ctx, s, menuID)
		if err != nil {
			return err
		}

		return format.MenuMsg(os.Stdout, menuID, nodes)
	})
}

// listGroupPlannings prints class groups of every groups planning leaf as seen by the first configured User.
func listGroupPlannings(ctx context.Context, c *fetch.Client, cfg config.TomlConfig) error {
	type planning struct {
		name   string
		groups []scrape.ClassGroup
	}

	var plannings []planning

	err := withSession(ctx, c, cfg.User[0], *retries, func(s *fetch.Session) error {
		p := c.Planning()
		plannings = plannings[:0]

		if p.SchoolingID != "" {
			if _, err := c.GetMenuNodes(ctx, s, p.SchoolingID); err != nil {
				return err
			}
		}

		nodes, err := c.GetMenuNodes(ctx, s, p.GroupsPlanningID)
		if err != nil {
			return err
		}

		for _, n := range nodes {
			if !n.Leaf {
				continue
			}

			groups, err := c.GetClassGroups(ctx, s, n.ID)
			if err != nil {
				return err
			}

			plannings = append(plannings, planning{name: n.Name, groups: groups})
		}

		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range plannings {
		if err := format.GroupsMsg(os.Stdout, p.name, p.groups); err != nil {
			return err
		}
	}

	return nil
}

// spinner shows a spiffy terminal spinner while waiting endlessly.
func spinner() {
	s := spin.New()

	for {
		fmt.Fprintf(os.Stderr, "\rWaiting... %v", s.Next())
		time.Sleep(spinnerRotateDelay)
	}
}
