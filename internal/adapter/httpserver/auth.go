package httpserver

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/restorehq/control-plane/internal/domain"
)

type ownerIDKey struct{}

// Authenticate extracts the bearer credential and resolves it to an owner
// id via the configured verifier (spec §4.1 admission step 1).
func (s *Server) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := s.Verifier.Verify(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		ctx := context.WithValue(r.Context(), ownerIDKey{}, ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OwnerIDFrom extracts the authenticated owner id set by Authenticate.
func OwnerIDFrom(r *http.Request) string {
	if v := r.Context().Value(ownerIDKey{}); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// RateLimit applies the two-bucket admission chain of spec §4.4:
// (user, id) then (peer, address). The first bucket to deny wins.
func (s *Server) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := OwnerIDFrom(r)
		if ownerID != "" {
			if !s.checkBucket(w, r, "user", ownerID) {
				return
			}
		}
		peer := peerAddress(r)
		if !s.checkBucket(w, r, "ip", peer) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkBucket(w http.ResponseWriter, r *http.Request, scope, principal string) bool {
	admitted, remaining, limit, resetAt, err := s.Limiter.Allow(r.Context(), scope, principal)
	if err != nil {
		// Fail open at the HTTP layer: the limiter's own in-process fallback
		// already degrades gracefully, so a remaining error here means both
		// tiers failed and blocking every request would be worse than a
		// brief window of unmetered admission.
		return true
	}
	w.Header().Set("RateLimit-Limit", strconv.FormatInt(limit, 10))
	w.Header().Set("RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	w.Header().Set("RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
	if !admitted {
		retryAfter := resetAt.Unix() - time.Now().Unix()
		if retryAfter < 0 {
			retryAfter = 0
		}
		w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
		writeError(w, r, domain.ErrRateLimited, map[string]interface{}{"scope": scope})
		return false
	}
	return true
}

func peerAddress(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
