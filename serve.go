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
	"net/http"
	"os"
	"time"

	"github.com/dkorunic/aurion-scraper/config"
	"github.com/dkorunic/aurion-scraper/fetch"
	"github.com/dkorunic/aurion-scraper/format"
	"github.com/dkorunic/aurion-scraper/logger"
	"github.com/gin-gonic/gin"
	sysdnotify "github.com/iguanesolutions/go-systemd/v6/notify"
	sysdwatchdog "github.com/iguanesolutions/go-systemd/v6/notify/watchdog"
)

const (
	shutdownTimeout = 30 * time.Second
	serveActive     = "Serving schedules"
	serveStopping   = "Waiting for in-flight requests"
)

var (
	ErrHTTPServer  = errors.New("unable to start HTTP server")
	ErrUnknownUser = errors.New("unknown user")
)

// scheduleServer serves schedules of configured Users on demand.
type scheduleServer struct {
	client  *fetch.Client
	users   map[string]config.User
	format  string
	retries uint
	now     func() time.Time
}

func newScheduleServer(c *fetch.Client, cfg config.TomlConfig, defFormat string, attempts uint) *scheduleServer {
	users := make(map[string]config.User, len(cfg.User))
	for _, u := range cfg.User {
		users[u.Username] = u
	}

	return &scheduleServer{
		client:  c,
		users:   users,
		format:  defFormat,
		retries: attempts,
		now:     time.Now,
	}
}

// router returns gin engine with all routes registered.
func (s *scheduleServer) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", s.health)
	r.GET("/schedule/:username", s.schedule)

	return r
}

func (s *scheduleServer) health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *scheduleServer) schedule(c *gin.Context) {
	username := c.Param("username")

	u, ok := s.users[username]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%v: %v", ErrUnknownUser, username)})

		return
	}

	name := c.DefaultQuery("format", s.format)
	if _, err := format.Lookup(name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	r, err := parseRange(c.Query("start"), c.Query("end"), s.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	sched, err := fetchUser(c.Request.Context(), s.client, u, r, s.retries)
	if err != nil {
		logger.Warn().Msgf("%v %v: %v", ErrScrapingUser, username, err)
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})

		return
	}

	var buf bytes.Buffer
	if err := format.Write(&buf, name, username, sched); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.Data(http.StatusOK, format.ContentType(name), buf.Bytes())
}

// errorStatus maps ERP failures to gateway status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, fetch.ErrInvalidDateRange):
		return http.StatusBadRequest
	case errors.Is(err, fetch.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// requestLogger logs every request through zerolog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")
	}
}

// serve runs HTTP server until context gets cancelled, then waits for in-flight requests to finish.
func serve(ctx context.Context, s *scheduleServer, addr string) error {
	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router(),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	logger.Info().Msgf("%v on %v", serveActive, addr)

	_ = sysdnotify.Ready()
	_ = sysdnotify.Status(serveActive)

	startSystemdWatchdog(ctx)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%w: %w", ErrHTTPServer, err)
		}

		return nil
	case <-ctx.Done():
		logger.Info().Msg("Received stop signal, shutting down HTTP server")
	}

	_ = sysdnotify.Stopping()
	_ = sysdnotify.Status(serveStopping)

	if isTerminal(os.Stderr) {
		go spinner()
	}

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(sctx)
}

// startSystemdWatchdog sends periodic heartbeats to systemd until context gets cancelled.
func startSystemdWatchdog(ctx context.Context) {
	watchdog, _ := sysdwatchdog.New()
	if watchdog != nil {
		logger.Debug().Msg("Detected and enabled systemd watchdog support")

		go func() {
			ticker := watchdog.NewTicker()
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					_ = watchdog.SendHeartbeat()
				case <-ctx.Done():
					return
				}
			}
		}()
	}
}
