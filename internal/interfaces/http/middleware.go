package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const localRequestID = "requestid"

// RequestID echoes X-Request-ID or generates a uuid.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: localRequestID,
	})
}

func requestID(c *fiber.Ctx) string {
	s, _ := c.Locals(localRequestID).(string)
	return s
}

// RequestLogger logs one line per request.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", requestID(c)).
			Msg("http request")
		return err
	}
}

// RequestRecorder observes HTTP requests; *metrics.Metrics implements it.
type RequestRecorder interface {
	RecordRequest(method, route string, statusCode int, elapsed time.Duration)
}

// Metrics records method, matched route and status for every request.
func Metrics(rec RequestRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		rec.RecordRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}

// maxTrackedClients bounds the limiter table; it is reset when exceeded.
const maxTrackedClients = 10_000

// LoginLimiter per-IP token bucket for the login route. 429 once the burst is spent.
func LoginLimiter(perMinute, burst int) fiber.Handler {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 1
	}
	every := rate.Every(time.Minute / time.Duration(perMinute))

	var mu sync.Mutex
	clients := make(map[string]*rate.Limiter)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := clients[ip]
		if !ok {
			if len(clients) >= maxTrackedClients {
				clients = make(map[string]*rate.Limiter)
			}
			l = rate.NewLimiter(every, burst)
			clients[ip] = l
		}
		return l
	}

	return func(c *fiber.Ctx) error {
		if !limiterFor(c.IP()).Allow() {
			return respondError(c, fiber.StatusTooManyRequests, "RATE_LIMITED", "too many login attempts, try again later")
		}
		return c.Next()
	}
}
