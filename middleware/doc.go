// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

  - WithLogging: slog request/completion logging
  - CORS: cross-origin headers and preflight handling
  - JSONResponse / ErrorResponse / ParseJSONBody: JSON plumbing
  - GetClientIP: X-Forwarded-For / X-Real-IP aware client address
  - IPRateLimiter: per-IP token bucket (golang.org/x/time/rate) for the
    upload endpoint
*/
package middleware
