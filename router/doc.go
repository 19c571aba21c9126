// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines all API routes using Go 1.22+ method routing on
http.ServeMux.

NewRouter wires the handlers against whichever EntryStore backend main
selected, wraps every route in request logging, and puts the upload
endpoint behind a per-IP rate limit.
*/
package router
