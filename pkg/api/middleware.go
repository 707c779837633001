package api

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hangarhq/hangar/pkg/events"
	"github.com/hangarhq/hangar/pkg/metrics"
	"github.com/labstack/echo/v4"
)

// requestLogger logs every request with method, route, status and latency
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			s.logger.Debug().
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Int("status", c.Response().Status).
				Dur("duration", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}

// requestMetrics records request counts and latency per route. Routes are
// labeled by their registered pattern, not the raw URL, so path parameters
// do not explode label cardinality.
func requestMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			method := c.Request().Method
			path := c.Path()
			status := strconv.Itoa(c.Response().Status)

			metrics.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
			metrics.APIRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// writeSSE writes one event in server-sent-event framing
func writeSSE(w io.Writer, event *events.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
	return err
}
