// Package middleware provides crudy transport middleware and hook sets.
package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/broady/crudy"
)

// Logging returns transport middleware that logs every request using slog,
// with its method, URL, status and duration.
func Logging(logger *slog.Logger) crudy.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next crudy.Transport) crudy.Transport {
		return crudy.TransportFunc(func(ctx context.Context, url string, req *crudy.Request) (*crudy.Response, error) {
			start := time.Now()

			logger.DebugContext(ctx, "request started",
				slog.String("method", req.Method),
				slog.String("url", url),
			)

			res, err := next.Do(ctx, url, req)
			duration := time.Since(start)

			switch {
			case err != nil:
				logger.ErrorContext(ctx, "request failed",
					slog.String("method", req.Method),
					slog.String("url", url),
					slog.Duration("duration", duration),
					slog.Any("error", err),
				)
			case !res.OK():
				logger.WarnContext(ctx, "request returned error status",
					slog.String("method", req.Method),
					slog.String("url", url),
					slog.Int("status", res.StatusCode),
					slog.Duration("duration", duration),
				)
			default:
				logger.InfoContext(ctx, "request completed",
					slog.String("method", req.Method),
					slog.String("url", url),
					slog.Int("status", res.StatusCode),
					slog.Duration("duration", duration),
				)
			}

			return res, err
		})
	}
}

// LoggingHooks returns hooks that log the outcome of every dispatch,
// including validation failures that never reach the transport.
func LoggingHooks(logger *slog.Logger) crudy.Hooks {
	if logger == nil {
		logger = slog.Default()
	}

	return crudy.Hooks{
		OnSuccess: func(ctx context.Context, verb string, result any) {
			logger.DebugContext(ctx, "call succeeded", slog.String("method", verb))
		},
		OnError: func(ctx context.Context, verb string, err error) {
			logger.ErrorContext(ctx, "call failed",
				slog.String("method", verb),
				slog.Any("error", err),
			)
		},
	}
}
