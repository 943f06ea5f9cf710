// Package session keeps the per-shopper state container: one cart and one
// promo tracker per session token.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/domain"
)

// Session is the state of one shopper. Cart and Promo are safe for
// concurrent use.
type Session struct {
	Token     string
	Cart      *cart.Store
	Promo     *checkout.PromoTracker
	CreatedAt time.Time

	expiresAt time.Time
}

type Service struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func New(ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Issue starts a session with an empty cart.
func (s *Service) Issue(ctx context.Context) (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	now := s.now()
	sess := &Session{
		Token:     id.String(),
		Cart:      cart.NewStore(),
		Promo:     checkout.NewPromoTracker(),
		CreatedAt: now,
		expiresAt: now.Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()
	s.logger.Debug("session issued", zap.String("session", sess.Token))
	return sess, nil
}

// Lookup returns a live session and extends its expiry.
func (s *Service) Lookup(ctx context.Context, token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	now := s.now()
	if now.After(sess.expiresAt) {
		delete(s.sessions, token)
		return nil, domain.ErrSessionNotFound
	}
	sess.expiresAt = now.Add(s.ttl)
	return sess, nil
}

// End tears a session down. Unknown tokens are ignored.
func (s *Service) End(ctx context.Context, token string) {
	s.mu.Lock()
	sess, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()
	if ok {
		sess.Cart.Clear()
		sess.Promo.Clear()
		s.logger.Debug("session ended", zap.String("session", token))
	}
}

// Sweep evicts expired sessions and returns how many were removed.
func (s *Service) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("expired sessions evicted", zap.Int("count", n))
			}
		}
	}
}

func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
