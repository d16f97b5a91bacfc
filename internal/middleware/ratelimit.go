// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// clientWindow holds the recent request times for one client IP.
type clientWindow struct {
	mu   sync.Mutex
	seen []time.Time
}

// RateLimiter caps how many requests a single client IP may make within
// a sliding window. The credential endpoints (signin, signup) sit behind
// it to slow down guessing.
type RateLimiter struct {
	mu      sync.RWMutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
	stopCh  chan struct{}
}

// NewRateLimiter creates a limiter allowing limit requests per window
// per client. A background goroutine prunes idle clients until Stop.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop terminates the background pruning goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// allow records a request for key and reports whether it fits the limit.
func (rl *RateLimiter) allow(key string) bool {
	rl.mu.RLock()
	cw, ok := rl.clients[key]
	rl.mu.RUnlock()

	if !ok {
		rl.mu.Lock()
		// Another request may have created the window meanwhile.
		cw, ok = rl.clients[key]
		if !ok {
			cw = &clientWindow{}
			rl.clients[key] = cw
		}
		rl.mu.Unlock()
	}

	now := time.Now()
	cutoff := now.Add(-rl.window)

	cw.mu.Lock()
	defer cw.mu.Unlock()

	recent := cw.seen[:0]
	for _, ts := range cw.seen {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	cw.seen = recent

	if len(cw.seen) >= rl.limit {
		return false
	}
	cw.seen = append(cw.seen, now)
	return true
}

// cleanup drops clients whose every recorded request has left the window.
func (rl *RateLimiter) cleanup() {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, cw := range rl.clients {
		cw.mu.Lock()
		active := false
		for _, ts := range cw.seen {
			if ts.After(cutoff) {
				active = true
				break
			}
		}
		cw.mu.Unlock()

		if !active {
			delete(rl.clients, key)
		}
	}
}

// Middleware rejects over-limit requests with a 429 JSON error.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP resolves the client address behind proxies: leftmost
// X-Forwarded-For entry, then X-Real-IP, then RemoteAddr minus the port.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
