package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	cartstore "storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/payment"
	"storefront/internal/service/session"
)

type promoValidator interface {
	ValidatePromoCode(ctx context.Context, code string) (payment.PromoResult, error)
}

type sessionCreator interface {
	CreateCheckoutSession(ctx context.Context, req checkout.SessionRequest) (payment.Session, error)
}

// Service runs the two remote steps of checkout: promo validation and
// payment session creation.
type Service struct {
	promos   promoValidator
	sessions sessionCreator
	events   events.Publisher
	logger   *zap.Logger
}

func New(promos promoValidator, sessions sessionCreator, publisher events.Publisher, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{promos: promos, sessions: sessions, events: publisher, logger: logger}
}

// PromoOutcome reports what happened to an apply-promo request.
type PromoOutcome struct {
	Promo *domain.PromoApplication
	// Superseded is set when a newer request was issued while this one was in
	// flight; its result was discarded.
	Superseded bool
	Message    string
}

// ApplyPromo validates code remotely and makes it the session's active promo.
// A rejected code returns a validation error and keeps any earlier promo.
func (s *Service) ApplyPromo(ctx context.Context, sess *session.Session, code string) (PromoOutcome, error) {
	code = domain.CanonicalPromoCode(code)
	if code == "" {
		return PromoOutcome{}, domain.NewValidationError(domain.ErrInvalidPromo, "code", "Please enter a promo code")
	}
	seq := sess.Promo.Begin()
	res, err := s.promos.ValidatePromoCode(ctx, code)
	if err != nil {
		if !sess.Promo.IsLatest(seq) {
			s.logger.Debug("superseded promo validation failed", zap.String("code", code), zap.Error(err))
			return PromoOutcome{Promo: sess.Promo.Active(), Superseded: true}, nil
		}
		s.logger.Warn("promo validation failed", zap.String("code", code), zap.Error(err))
		return PromoOutcome{Promo: sess.Promo.Active()}, asRemote(err)
	}
	if !res.Valid {
		applied := sess.Promo.Resolve(seq, nil)
		msg := strings.TrimSpace(res.Message)
		if msg == "" {
			msg = "Invalid promo code"
		}
		if !applied {
			return PromoOutcome{Promo: sess.Promo.Active(), Superseded: true, Message: msg}, nil
		}
		return PromoOutcome{Promo: sess.Promo.Active(), Message: msg}, domain.NewValidationError(domain.ErrInvalidPromo, "code", msg)
	}

	promo := domain.NewPromoApplication(code, res.DiscountPercentage)
	if !sess.Promo.Resolve(seq, &promo) {
		return PromoOutcome{Promo: sess.Promo.Active(), Superseded: true, Message: res.Message}, nil
	}
	s.events.Publish(ctx, events.EventPromoApplied, sess.Token, events.PromoAppliedPayload{
		SessionToken:       sess.Token,
		Code:               promo.Code,
		DiscountPercentage: promo.DiscountPercentage,
	})
	return PromoOutcome{Promo: &promo, Message: res.Message}, nil
}

// RemovePromo drops the active promo.
func (s *Service) RemovePromo(sess *session.Session) {
	sess.Promo.Clear()
}

// Totals is the pre-redirect price breakdown.
type Totals struct {
	Subtotal       int64
	DiscountAmount int64
	FinalTotal     int64
	Promo          *domain.PromoApplication
}

// Preview computes the totals the shopper sees before checking out.
func (s *Service) Preview(sess *session.Session) Totals {
	promo := sess.Promo.Active()
	subtotal := cartstore.Subtotal(sess.Cart.Items())
	discount, final := checkout.Totals(subtotal, promo)
	return Totals{Subtotal: subtotal, DiscountAmount: discount, FinalTotal: final, Promo: promo}
}

// Result is a created payment session and the totals it charges.
type Result struct {
	URL      string
	Assembly checkout.Assembly
}

// Checkout assembles the session request from the cart and active promo and
// creates the payment session. Validation failures make no remote call. The
// cart is left as is on every outcome so a failed attempt can be retried.
func (s *Service) Checkout(ctx context.Context, sess *session.Session, customer checkout.Customer) (Result, error) {
	assembly, err := checkout.Assemble(sess.Cart.Items(), sess.Promo.Active(), customer)
	if err != nil {
		return Result{}, err
	}
	created, err := s.sessions.CreateCheckoutSession(ctx, assembly.Request)
	if err != nil {
		err = asRemote(err)
		s.logger.Warn("checkout session failed", zap.String("session", sess.Token), zap.Error(err))
		return Result{}, err
	}

	items := make([]events.LineItem, 0, len(assembly.Request.LineItems))
	for _, li := range assembly.Request.LineItems {
		items = append(items, events.LineItem{ProcessorPriceID: li.ProcessorPriceID, Quantity: li.Quantity})
	}
	s.events.Publish(ctx, events.EventCheckoutSessionCreated, sess.Token, events.CheckoutSessionCreatedPayload{
		SessionToken:  sess.Token,
		Items:         items,
		SubtotalCents: assembly.Subtotal,
		DiscountCents: assembly.DiscountAmount,
		FinalCents:    assembly.FinalTotal,
		PromoCode:     assembly.Request.PromoCode,
		CustomerEmail: assembly.Request.CustomerEmail,
	})
	s.logger.Info("checkout session created",
		zap.String("session", sess.Token),
		zap.Int64("final_total", assembly.FinalTotal),
		zap.Int("lines", len(items)))
	return Result{URL: created.URL, Assembly: assembly}, nil
}

func asRemote(err error) error {
	if errors.Is(err, domain.ErrRemote) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrRemote, err)
}
