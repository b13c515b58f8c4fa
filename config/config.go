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
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dkorunic/aurion-scraper/fetch"
	"github.com/dkorunic/aurion-scraper/logger"
)

var (
	ErrNoUsers          = errors.New("no users defined")
	ErrUserCredentials  = errors.New("user requires username and password")
	ErrDuplicateUser    = errors.New("duplicate username")
	ErrInvalidURL       = errors.New("ERP URL is not a valid http(s) URL")
	ErrInvalidMenuID    = errors.New("invalid sidebar menu ID")
	ErrInvalidTimeout   = errors.New("invalid timeout")
	ErrInvalidRateLimit = errors.New("rate limit must not be negative")
	ErrInvalidListen    = errors.New("listen address is not host:port")
)

// LoadConfig attempts to load and decode configuration file in TOML format, doing a minimal sanity checking and
// optionally returning an error.
func LoadConfig(file string) (TomlConfig, error) {
	var config TomlConfig
	if _, err := toml.DecodeFile(file, &config); err != nil {
		return config, err
	}

	if err := checkUserConf(config); err != nil {
		return config, err
	}

	if err := checkAurionConf(&config.Aurion); err != nil {
		return config, err
	}

	if err := checkServerConf(config.Server); err != nil {
		return config, err
	}

	return config, nil
}

// checkUserConf does a minimal sanity check on the User configuration block, ensuring that:
//
// 1. at least one User is defined
//
// 2. all users have both username and password
//
// 3. no username is listed twice
func checkUserConf(config TomlConfig) error {
	if len(config.User) == 0 {
		return fmt.Errorf("configuration error: %w", ErrNoUsers)
	}

	seen := make(map[string]struct{}, len(config.User))

	for _, u := range config.User {
		if u.Username == "" || u.Password == "" {
			return fmt.Errorf("configuration error: %w: %q", ErrUserCredentials, u.Username)
		}

		if _, ok := seen[u.Username]; ok {
			return fmt.Errorf("configuration error: %w: %q", ErrDuplicateUser, u.Username)
		}

		seen[u.Username] = struct{}{}
	}

	return nil
}

// checkAurionConf fills in defaults for the ERP configuration block and checks that:
//
// 1. the URL is a valid http or https URL (a warning is logged for plain http)
//
// 2. all sidebar menu IDs look like webAurion menu IDs
//
// 3. timeout is a positive Go duration
//
// 4. rate limit is not negative
func checkAurionConf(a *Aurion) error {
	if a.URL == "" {
		a.URL = fetch.DefaultURL
	}

	if !isValidURL(a.URL) {
		return fmt.Errorf("configuration error: %w: %q", ErrInvalidURL, a.URL)
	}

	if isPlainHTTP(a.URL) {
		logger.Warn().Msgf("Configuration issue: ERP URL is not using HTTPS, credentials are sent in clear: %q", a.URL)
	}

	if a.SchoolingID == "" {
		a.SchoolingID = fetch.DefaultPlanning.SchoolingID
	}

	if a.UserPlanningID == "" {
		a.UserPlanningID = fetch.DefaultPlanning.UserPlanningID
	}

	if a.GroupsPlanningID == "" {
		a.GroupsPlanningID = fetch.DefaultPlanning.GroupsPlanningID
	}

	for _, id := range []string{a.SchoolingID, a.UserPlanningID, a.GroupsPlanningID} {
		if !isValidMenuID(id) {
			return fmt.Errorf("configuration error: %w: %q", ErrInvalidMenuID, id)
		}
	}

	a.timeout = fetch.Timeout

	if a.Timeout != "" {
		d, err := time.ParseDuration(a.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("configuration error: %w: %q", ErrInvalidTimeout, a.Timeout)
		}

		a.timeout = d
	}

	if a.RateLimit < 0 {
		return fmt.Errorf("configuration error: %w: %d", ErrInvalidRateLimit, a.RateLimit)
	}

	return nil
}

// checkServerConf checks the optional listen address.
func checkServerConf(s Server) error {
	if s.Listen != "" && !isValidListen(s.Listen) {
		return fmt.Errorf("configuration error: %w: %q", ErrInvalidListen, s.Listen)
	}

	return nil
}
