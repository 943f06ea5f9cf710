package checkout

import (
	"sync"

	"storefront/internal/domain"
)

// PromoTracker holds the active promo of one session. Validation calls may
// overlap; only the result of the most recently begun request is applied.
type PromoTracker struct {
	mu     sync.Mutex
	seq    uint64
	active *domain.PromoApplication
}

func NewPromoTracker() *PromoTracker {
	return &PromoTracker{}
}

// Begin registers a new validation request and returns its sequence number.
func (t *PromoTracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	return t.seq
}

// Resolve applies promo if seq is still the latest request. It reports whether
// the result was applied. A nil promo (rejected code) leaves the active one.
func (t *PromoTracker) Resolve(seq uint64, promo *domain.PromoApplication) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seq != t.seq {
		return false
	}
	if promo != nil {
		p := *promo
		t.active = &p
	}
	return true
}

// IsLatest reports whether seq is still the most recently begun request.
func (t *PromoTracker) IsLatest(seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return seq == t.seq
}

// Active returns a copy of the applied promo, or nil.
func (t *PromoTracker) Active() *domain.PromoApplication {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return nil
	}
	p := *t.active
	return &p
}

// Clear drops the promo and invalidates in-flight requests.
func (t *PromoTracker) Clear() {
	t.mu.Lock()
	t.seq++
	t.active = nil
	t.mu.Unlock()
}
