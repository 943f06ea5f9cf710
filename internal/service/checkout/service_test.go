package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/domain"
	"storefront/internal/payment"
	"storefront/internal/service/session"
)

type stubPromos struct {
	results map[string]payment.PromoResult
	err     error
	// gate, when set, blocks validation of gateCode until closed
	gate     chan struct{}
	gateCode string
	entered  chan struct{}
	failCode string
}

func (s *stubPromos) ValidatePromoCode(_ context.Context, code string) (payment.PromoResult, error) {
	if s.gate != nil && code == s.gateCode {
		close(s.entered)
		<-s.gate
	}
	if s.err != nil {
		return payment.PromoResult{}, s.err
	}
	if s.failCode != "" && code == s.failCode {
		return payment.PromoResult{}, errors.New("validator timeout")
	}
	return s.results[code], nil
}

type stubSessions struct {
	url     string
	err     error
	calls   int
	lastReq checkout.SessionRequest
}

func (s *stubSessions) CreateCheckoutSession(_ context.Context, req checkout.SessionRequest) (payment.Session, error) {
	s.calls++
	s.lastReq = req
	return payment.Session{URL: s.url}, s.err
}

type stubEvents struct {
	mu    sync.Mutex
	types []string
}

func (s *stubEvents) Publish(_ context.Context, eventType, _ string, _ any) {
	s.mu.Lock()
	s.types = append(s.types, eventType)
	s.mu.Unlock()
}

func newSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.New(time.Hour, nil).Issue(context.Background())
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return sess
}

func customer() checkout.Customer {
	return checkout.Customer{
		Email: "a@b.c",
		Name:  "A",
		Shipping: checkout.ShippingAddress{
			Line1:      "1 Main",
			City:       "Austin",
			PostalCode: "78701",
			Country:    "US",
		},
	}
}

var validPromos = map[string]payment.PromoResult{
	"SAVE10": {Valid: true, DiscountPercentage: 10, Message: "10% off"},
	"SAVE20": {Valid: true, DiscountPercentage: 20},
	"BOGUS":  {Valid: false, Message: "Code expired"},
}

func TestApplyPromoAndCheckout(t *testing.T) {
	promos := &stubPromos{results: validPromos}
	sessions := &stubSessions{url: "https://pay/1"}
	ev := &stubEvents{}
	svc := New(promos, sessions, ev, nil)
	sess := newSession(t)
	sess.Cart.AddItem(domain.CartLineItem{ProductID: "chains:1", UnitPrice: 10000, ProcessorPriceID: "price_1", Quantity: 1})

	out, err := svc.ApplyPromo(context.Background(), sess, " save10 ")
	if err != nil {
		t.Fatalf("ApplyPromo: %v", err)
	}
	if out.Promo == nil || out.Promo.Code != "SAVE10" || out.Promo.DiscountPercentage != 10 {
		t.Fatalf("unexpected outcome %+v", out)
	}

	preview := svc.Preview(sess)
	if preview.DiscountAmount != 1000 || preview.FinalTotal != 9000 {
		t.Fatalf("unexpected preview %+v", preview)
	}

	res, err := svc.Checkout(context.Background(), sess, customer())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.URL != "https://pay/1" || res.Assembly.FinalTotal != 9000 {
		t.Fatalf("unexpected result %+v", res)
	}
	if sessions.lastReq.PromoCode != "SAVE10" || *sessions.lastReq.DiscountPercentage != 10 {
		t.Fatalf("unexpected request %+v", sessions.lastReq)
	}
	if len(ev.types) != 2 || ev.types[1] != "checkout.session_created" {
		t.Fatalf("unexpected events %v", ev.types)
	}
	if sess.Cart.TotalItems() != 1 {
		t.Fatalf("expected cart kept until payment completes")
	}
}

func TestApplyPromoRejectedKeepsActive(t *testing.T) {
	svc := New(&stubPromos{results: validPromos}, &stubSessions{}, nil, nil)
	sess := newSession(t)

	if _, err := svc.ApplyPromo(context.Background(), sess, "SAVE20"); err != nil {
		t.Fatalf("ApplyPromo: %v", err)
	}
	out, err := svc.ApplyPromo(context.Background(), sess, "bogus")
	if !errors.Is(err, domain.ErrInvalidPromo) || err.Error() != "Code expired" {
		t.Fatalf("expected invalid promo error, got %v", err)
	}
	if out.Promo == nil || out.Promo.Code != "SAVE20" {
		t.Fatalf("expected SAVE20 kept, got %+v", out.Promo)
	}

	if _, err := svc.ApplyPromo(context.Background(), sess, "  "); !errors.Is(err, domain.ErrInvalidPromo) {
		t.Fatalf("expected blank code rejected, got %v", err)
	}
}

func TestApplyPromoRemoteFailure(t *testing.T) {
	svc := New(&stubPromos{err: errors.New("dial tcp: refused")}, &stubSessions{}, nil, nil)
	sess := newSession(t)
	if _, err := svc.ApplyPromo(context.Background(), sess, "SAVE10"); !errors.Is(err, domain.ErrRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if sess.Promo.Active() != nil {
		t.Fatalf("expected no promo")
	}
}

func TestApplyPromoSupersededRequestIgnored(t *testing.T) {
	promos := &stubPromos{
		results:  validPromos,
		gate:     make(chan struct{}),
		gateCode: "SAVE10",
		entered:  make(chan struct{}),
	}
	svc := New(promos, &stubSessions{}, nil, nil)
	sess := newSession(t)

	slow := make(chan PromoOutcome)
	go func() {
		out, _ := svc.ApplyPromo(context.Background(), sess, "SAVE10")
		slow <- out
	}()
	<-promos.entered

	if _, err := svc.ApplyPromo(context.Background(), sess, "SAVE20"); err != nil {
		t.Fatalf("ApplyPromo SAVE20: %v", err)
	}
	close(promos.gate)
	out := <-slow
	if !out.Superseded {
		t.Fatalf("expected superseded outcome, got %+v", out)
	}
	if got := sess.Promo.Active(); got == nil || got.Code != "SAVE20" {
		t.Fatalf("expected SAVE20 active, got %+v", got)
	}
}

func TestApplyPromoSupersededFailureIgnored(t *testing.T) {
	promos := &stubPromos{
		results:  validPromos,
		gate:     make(chan struct{}),
		gateCode: "SAVE10",
		entered:  make(chan struct{}),
		failCode: "SAVE10",
	}
	svc := New(promos, &stubSessions{}, nil, nil)
	sess := newSession(t)

	type result struct {
		out PromoOutcome
		err error
	}
	slow := make(chan result)
	go func() {
		out, err := svc.ApplyPromo(context.Background(), sess, "SAVE10")
		slow <- result{out, err}
	}()
	<-promos.entered

	if _, err := svc.ApplyPromo(context.Background(), sess, "SAVE20"); err != nil {
		t.Fatalf("ApplyPromo SAVE20: %v", err)
	}
	close(promos.gate)
	got := <-slow
	if got.err != nil {
		t.Fatalf("expected no error from the older request, got %v", got.err)
	}
	if !got.out.Superseded {
		t.Fatalf("expected superseded outcome, got %+v", got.out)
	}
	if active := sess.Promo.Active(); active == nil || active.Code != "SAVE20" {
		t.Fatalf("expected SAVE20 active, got %+v", active)
	}
}

func TestCheckoutValidationMakesNoRemoteCall(t *testing.T) {
	sessions := &stubSessions{url: "https://pay/1"}
	svc := New(&stubPromos{}, sessions, nil, nil)
	sess := newSession(t)

	_, err := svc.Checkout(context.Background(), sess, customer())
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
	if sessions.calls != 0 {
		t.Fatalf("expected no remote call, got %d", sessions.calls)
	}
}

func TestCheckoutRemoteFailureKeepsCart(t *testing.T) {
	sessions := &stubSessions{err: errors.New("503")}
	svc := New(&stubPromos{}, sessions, nil, nil)
	sess := newSession(t)
	sess.Cart.AddItem(domain.CartLineItem{ProductID: "x", UnitPrice: 100, ProcessorPriceID: "p"})

	_, err := svc.Checkout(context.Background(), sess, customer())
	if !errors.Is(err, domain.ErrRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if sessions.calls != 1 {
		t.Fatalf("expected one remote call, got %d", sessions.calls)
	}
	if sess.Cart.TotalItems() != 1 {
		t.Fatalf("expected cart unchanged")
	}
}
