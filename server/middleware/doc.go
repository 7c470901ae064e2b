// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP request handling chain for ConsentGate:
request context setup, response buffering with centralized error handling,
server timing, and default response headers.

The consent middleware itself lives in package extension, since it needs the
configured registry.
*/
package middleware
