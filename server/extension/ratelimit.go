// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extension

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client's limiter survives without activity
// before the cleanup pass drops it.
const limiterIdleTTL = 10 * time.Minute

// updateLimiter caps JSON consent updates per client address.
type updateLimiter struct {
	mu      sync.Mutex
	perMin  int
	clients map[string]*clientLimiter
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newUpdateLimiter builds a limiter allowing perMinute updates per client.
// A non-positive rate disables limiting entirely.
func newUpdateLimiter(perMinute int) *updateLimiter {
	return &updateLimiter{
		perMin:  perMinute,
		clients: make(map[string]*clientLimiter),
	}
}

// allow reports whether the client identified by addr may perform another
// consent update right now.
func (ul *updateLimiter) allow(addr string) bool {
	if ul.perMin <= 0 {
		return true
	}

	ul.mu.Lock()
	defer ul.mu.Unlock()

	now := time.Now()

	cl, ok := ul.clients[addr]
	if !ok {
		// Burst matches the per-minute rate so a fresh client can submit a
		// normal banner interaction without tripping the limiter. lastSeen
		// must be set before the cleanup pass so the new entry survives it.
		cl = &clientLimiter{
			limiter:  rate.NewLimiter(rate.Limit(float64(ul.perMin)/60), ul.perMin),
			lastSeen: now,
		}
		ul.clients[addr] = cl

		ul.cleanupLocked(now)
	}

	cl.lastSeen = now

	return cl.limiter.Allow()
}

// cleanupLocked drops limiters idle past limiterIdleTTL. Caller holds ul.mu.
func (ul *updateLimiter) cleanupLocked(now time.Time) {
	for addr, cl := range ul.clients {
		if now.Sub(cl.lastSeen) > limiterIdleTTL {
			delete(ul.clients, addr)
		}
	}
}
