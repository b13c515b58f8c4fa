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
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/dkorunic/aurion-scraper/config"
	"github.com/dkorunic/aurion-scraper/fetch"
	"github.com/dkorunic/aurion-scraper/logger"
	"github.com/dkorunic/aurion-scraper/version"
	"github.com/dustin/go-humanize"
	sysdnotify "github.com/iguanesolutions/go-systemd/v6/notify"
)

const maxMemRatio = 0.9

var (
	exitWithError atomic.Bool
	GitTag        = ""
	GitCommit     = ""
	GitDirty      = ""
	BuildTime     = ""
)

// fatalIfErrors exits with an error code if any errors were encountered during runtime.
func fatalIfErrors() {
	if exitWithError.Load() {
		logger.Fatal().Msg("Exiting, during run some errors were encountered.")
	}

	logger.Info().Msg("Exiting with a success.")
}

// main parses flags, loads the TOML config and then either lists sidebar menus or class groups, serves
// schedules over HTTP or does a single run for all configured Users.
func main() {
	parseFlags()

	if *showVersion {
		fmt.Printf("aurion-scraper %v %v%v, built on %v, with %v\n%v\n", GitTag, GitCommit, GitDirty, BuildTime,
			runtime.Version(), version.Summary(version.Modules...))

		return
	}

	initLog()

	logger.Info().Msgf("aurion-scraper %v %v%v, built on %v, with %v", GitTag, GitCommit, GitDirty,
		BuildTime, runtime.Version())

	// configure GOMEMLIMIT to 90% of available memory (Cgroups v2/v1 or system)
	limit, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithRatio(maxMemRatio),
		memlimit.WithProvider(
			memlimit.ApplyFallback(
				memlimit.FromCgroup,
				memlimit.FromSystem,
			),
		),
	)

	if err != nil {
		logger.Warn().Msgf("Unable to get/set GOMEMLIMIT: %v", err)
	} else {
		logger.Debug().Msgf("GOMEMLIMIT is set to: %v", humanize.Bytes(uint64(limit))) //nolint:gosec
	}

	logger.Debug().Msgf("GOMAXPROCS limit is set to: %v", runtime.GOMAXPROCS(0))

	if sysdnotify.IsEnabled() {
		logger.Debug().Msg("Detected and enabled systemd notify support")
	}

	// context with signal integration
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// load TOML config
	cfg, err := config.LoadConfig(*confFile)
	if err != nil {
		logger.Fatal().Msgf("Error loading configuration: %v", err)
	}

	client, err := fetch.NewClient(cfg.Aurion.URL, cfg.Aurion.ClientOptions()...)
	if err != nil {
		logger.Fatal().Msgf("Error creating ERP client: %v", err)
	}

	logger.Debug().Msgf("Using ERP at %v with request timeout %v", client.Pages().Base,
		cfg.Aurion.RequestTimeout())

	listen := *listenAddr
	if listen == "" {
		listen = cfg.Server.Listen
	}

	switch {
	case *menuID != "":
		err = listMenu(ctx, client, cfg, *menuID)
	case *listGroups:
		err = listGroupPlannings(ctx, client, cfg)
	case listen != "":
		err = serve(ctx, newScheduleServer(client, cfg, *outFormat, *retries), listen)
	default:
		var r fetch.DateRange

		r, err = parseRange(*startDate, *endDate, time.Now())
		if err == nil {
			singleRun(ctx, client, cfg, r)
		}
	}

	if err != nil {
		logger.Error().Msgf("%v", err)
		exitWithError.Store(true)
	}

	fatalIfErrors()
}
