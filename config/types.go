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

package config

import (
	"time"

	"github.com/dkorunic/aurion-scraper/fetch"
)

// User struct holds a single webAurion login.
type User struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Aurion struct holds ERP instance configuration. Empty values fall back to ISEN Ouest defaults.
type Aurion struct {
	URL              string        `toml:"url"`
	Timeout          string        `toml:"timeout"`
	UserAgent        string        `toml:"user_agent"`
	SchoolingID      string        `toml:"schooling_id"`
	UserPlanningID   string        `toml:"user_planning_id"`
	GroupsPlanningID string        `toml:"groups_planning_id"`
	RateLimit        int           `toml:"rate_limit"`
	timeout          time.Duration
}

// Server struct holds HTTP serve mode configuration.
type Server struct {
	Listen string `toml:"listen"`
}

// TomlConfig struct holds all other configuration structures.
type TomlConfig struct {
	Aurion Aurion `toml:"aurion"`
	Server Server `toml:"server"`
	User   []User `toml:"user"`
}

// Planning returns sidebar menu IDs.
func (a Aurion) Planning() fetch.Planning {
	return fetch.Planning{
		SchoolingID:      a.SchoolingID,
		UserPlanningID:   a.UserPlanningID,
		GroupsPlanningID: a.GroupsPlanningID,
	}
}

// RequestTimeout returns parsed per-request timeout.
func (a Aurion) RequestTimeout() time.Duration {
	return a.timeout
}

// ClientOptions returns fetch.Client options matching the configuration.
func (a Aurion) ClientOptions() []fetch.Option {
	opts := []fetch.Option{
		fetch.WithPlanning(a.Planning()),
		fetch.WithTimeout(a.timeout),
		fetch.WithRateLimit(a.RateLimit),
	}

	if a.UserAgent != "" {
		opts = append(opts, fetch.WithUserAgent(a.UserAgent))
	}

	return opts
}
