// Package ratelimit throttles inquiry submissions per guest email and per
// client IP.
package ratelimit

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds rate limit configuration.
type Config struct {
	Cooldown       time.Duration // Minimum time between submissions from one email (default: 30s)
	MaxPerWindow   int           // Max submissions per email per window (default: 5)
	MaxIPPerWindow int           // Max submissions per IP per window (default: 20)
	Window         time.Duration // Counting window (default: 1h)

	// Clock for testing (nil uses real time)
	Clock Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		Cooldown:       30 * time.Second,
		MaxPerWindow:   5,
		MaxIPPerWindow: 20,
		Window:         time.Hour,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

// window counts the submissions of one key since start. prev is the
// submission time before last, restored when a reservation is released.
type window struct {
	count int
	start time.Time
	last  time.Time
	prev  time.Time
}

// bucket is a fixed-window counter for one kind of key.
type bucket struct {
	limit int
	span  time.Duration
	keys  map[string]window
}

func newBucket(limit int, span time.Duration) *bucket {
	return &bucket{limit: limit, span: span, keys: make(map[string]window)}
}

// get returns the live window for key, if any.
func (b *bucket) get(key string, now time.Time) (window, bool) {
	w, ok := b.keys[key]
	if !ok || now.Sub(w.start) >= b.span {
		return window{}, false
	}
	return w, true
}

func (b *bucket) full(key string, now time.Time) (time.Duration, bool) {
	w, ok := b.get(key, now)
	if !ok || w.count < b.limit {
		return 0, false
	}
	return b.span - now.Sub(w.start), true
}

func (b *bucket) hit(key string, now time.Time) {
	w, ok := b.get(key, now)
	if !ok {
		w = window{start: now}
	}
	w.count++
	w.prev = w.last
	w.last = now
	b.keys[key] = w
}

// unhit undoes the latest hit on key.
func (b *bucket) unhit(key string) {
	w, ok := b.keys[key]
	if !ok {
		return
	}
	w.count--
	if w.count <= 0 {
		delete(b.keys, key)
		return
	}
	w.last = w.prev
	b.keys[key] = w
}

func (b *bucket) sweep(now time.Time) {
	for key, w := range b.keys {
		if now.Sub(w.last) > b.span {
			delete(b.keys, key)
		}
	}
}

// Limiter keeps in-memory submission counters. Counters are lost on restart.
type Limiter struct {
	config *Config
	clock  Clock

	mu     sync.Mutex
	emails *bucket
	ips    *bucket

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a new rate limiter with the given config and starts its
// sweeper. Zero fields take their defaults.
func New(cfg *Config) *Limiter {
	def := DefaultConfig()
	if cfg == nil {
		cfg = def
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.MaxPerWindow <= 0 {
		cfg.MaxPerWindow = def.MaxPerWindow
	}
	if cfg.MaxIPPerWindow <= 0 {
		cfg.MaxIPPerWindow = def.MaxIPPerWindow
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}

	l := &Limiter{
		config: cfg,
		clock:  clock,
		emails: newBucket(cfg.MaxPerWindow, cfg.Window),
		ips:    newBucket(cfg.MaxIPPerWindow, cfg.Window),
		done:   make(chan struct{}),
	}
	l.wg.Add(1)
	go l.sweepLoop(min(cfg.Window, 5*time.Minute))
	return l
}

// Close stops the sweeper.
func (l *Limiter) Close() {
	l.closeOnce.Do(func() { close(l.done) })
	l.wg.Wait()
}

// ReserveInquiry checks whether a submission from email and ip is allowed
// and, if so, counts it in the same critical section, so concurrent
// submissions cannot all slip under the limit. Call ReleaseInquiry when the
// submission is not accepted after all.
func (l *Limiter) ReserveInquiry(email, ip string) LimitResult {
	now := l.clock.Now()
	email = normalizeEmail(email)

	l.mu.Lock()
	defer l.mu.Unlock()

	if res := l.check(email, ip, now); !res.Allowed {
		return res
	}
	l.emails.hit(email, now)
	l.ips.hit(ip, now)
	return LimitResult{Allowed: true}
}

// ReleaseInquiry gives back a slot taken by ReserveInquiry.
func (l *Limiter) ReleaseInquiry(email, ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.emails.unhit(normalizeEmail(email))
	l.ips.unhit(ip)
}

// ReserveIP counts one request from ip against the per-IP window only.
func (l *Limiter) ReserveIP(ip string) LimitResult {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()
	if wait, full := l.ips.full(ip, now); full {
		return LimitResult{RetryAfter: wait, Reason: "ip_limit"}
	}
	l.ips.hit(ip, now)
	return LimitResult{Allowed: true}
}

func (l *Limiter) check(email, ip string, now time.Time) LimitResult {
	if w, ok := l.emails.get(email, now); ok {
		if since := now.Sub(w.last); since < l.config.Cooldown {
			return LimitResult{RetryAfter: l.config.Cooldown - since, Reason: "cooldown"}
		}
	}
	if wait, full := l.emails.full(email, now); full {
		return LimitResult{RetryAfter: wait, Reason: "email_limit"}
	}
	if wait, full := l.ips.full(ip, now); full {
		return LimitResult{RetryAfter: wait, Reason: "ip_limit"}
	}
	return LimitResult{Allowed: true}
}

func (l *Limiter) sweepLoop(every time.Duration) {
	defer l.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// sweep drops windows that have been idle for longer than the window.
func (l *Limiter) sweep() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.emails.sweep(now)
	l.ips.sweep(now)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SanitizeIdentifier masks an email or phone for logging.
func SanitizeIdentifier(identifier string) string {
	identifier = normalizeEmail(identifier)
	local, domain, isEmail := strings.Cut(identifier, "@")
	switch {
	case isEmail && len(local) > 2:
		return local[:2] + "***@" + domain
	case isEmail:
		return "***@" + domain
	case len(identifier) >= 4:
		return "***" + identifier[len(identifier)-4:]
	default:
		return "***"
	}
}

// LogRateLimitExceeded logs a throttled submission with the email masked.
func LogRateLimitExceeded(email, ip, reason string) {
	log.Warn().
		Str("event", "rate_limit_exceeded").
		Str("email", SanitizeIdentifier(email)).
		Str("ip", ip).
		Str("reason", reason).
		Msg("Inquiry rate limit exceeded")
}
