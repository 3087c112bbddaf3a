package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// AdminHeader carries the admin password on mutating requests
const AdminHeader = "X-Admin-Password"

// failureLimiter hands every client IP a small budget of wrong admin passwords that refills slowly
type failureLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

func newFailureLimiter(attempts int, refill time.Duration) *failureLimiter {
	return &failureLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(refill),
		burst:    attempts,
		now:      time.Now,
	}
}

func (l *failureLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, exists := l.limiters[ip]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(l.rate, l.burst)
	l.limiters[ip] = limiter
	return limiter
}

// blocked reports whether the client has used up its failure budget
func (l *failureLimiter) blocked(ip string) bool {
	return l.getLimiter(ip).TokensAt(l.now()) < 1
}

func (l *failureLimiter) fail(ip string) {
	l.getLimiter(ip).AllowN(l.now(), 1)
}

// sweep forgets clients whose budget has refilled completely, they are indistinguishable from
// clients never seen
func (l *failureLimiter) sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	removed := 0
	for ip, limiter := range l.limiters {
		if limiter.TokensAt(now) >= float64(l.burst) {
			delete(l.limiters, ip)
			removed++
		}
	}
	return removed
}

func (l *failureLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// SweepLoop periodically drops idle admin throttling state until ctx is done
func (s *Server) SweepLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if removed := s.failures.sweep(); removed > 0 {
				s.logger.Debug("swept idle admin limiters", slog.Int("removed", removed))
			}
		}
	}
}

func clientIP(r *http.Request) string {
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}

// adminOnly checks the admin password against the configured bcrypt hash
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminHash == "" {
			s.errorResponse(w, r, http.StatusForbidden, "forbidden", "admin access is not configured")
			return
		}

		ip := clientIP(r)
		if s.failures.blocked(ip) {
			w.Header().Set("Retry-After", "60")
			s.errorResponse(w, r, http.StatusTooManyRequests, "rate_limited", "too many failed admin attempts")
			return
		}

		password := r.Header.Get(AdminHeader)
		if password == "" || bcrypt.CompareHashAndPassword([]byte(s.adminHash), []byte(password)) != nil {
			s.failures.fail(ip)
			s.logger.Warn("admin authentication failed", slog.String("ip", ip), slog.String("path", r.URL.Path))
			s.errorResponse(w, r, http.StatusUnauthorized, "unauthorized", "invalid admin password")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request once it has been served
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// HashPassword produces the bcrypt hash to put in the configuration
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
