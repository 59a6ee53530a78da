package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"halalfood-backend/internal/domain"
	"halalfood-backend/internal/infrastructure/sslcommerz"
)

const maxTransactionIDAttempts = 5

type OrderRepo interface {
	InsertOrder(ctx context.Context, o *domain.Order) (string, error)
	GetOrderByTransactionID(ctx context.Context, tranID string) (*domain.Order, bool, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	// MarkOrderPaid flips paidStatus on the unpaid order with tranID and
	// reports how many orders changed.
	MarkOrderPaid(ctx context.Context, tranID string) (int64, error)
	// DeleteUnpaidOrder removes the unpaid order with tranID and reports how
	// many orders were deleted.
	DeleteUnpaidOrder(ctx context.Context, tranID string) (int64, error)
}

type PaymentGateway interface {
	InitSession(ctx context.Context, req sslcommerz.InitRequest) (sslcommerz.InitResponse, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev domain.OrderEvent) error
}

type OrderService struct {
	Repo    OrderRepo
	Gateway PaymentGateway
	Events  EventPublisher
	// PublicBaseURL is where the gateway reaches our callback routes.
	PublicBaseURL string
	Rand          io.Reader
	Log           *slog.Logger
}

type CheckoutInput struct {
	Cart     []domain.LineItem
	Total    decimal.Decimal
	Currency string
	Customer sslcommerz.Customer
}

type CheckoutResult struct {
	GatewayPageURL string
	TransactionID  string
}

// Checkout opens a gateway session for the cart and persists the provisional
// order. Nothing is stored unless the gateway accepted the session.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	cart, err := normalizeCart(in.Cart)
	if err != nil {
		return nil, err
	}
	if !in.Total.IsPositive() {
		return nil, ErrBadRequest("total must be positive")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		return nil, ErrBadRequest("currency required")
	}

	tranID, err := s.newTransactionID(ctx)
	if err != nil {
		return nil, err
	}
	o := &domain.Order{
		Cart:          cart,
		Total:         in.Total,
		Currency:      currency,
		TransactionID: tranID,
		PaidStatus:    false,
		CreatedAt:     time.Now().UTC(),
	}

	resp, err := s.Gateway.InitSession(ctx, s.initRequest(o, in.Customer))
	if err != nil {
		return nil, ErrGateway{Err: err}
	}

	id, err := s.Repo.InsertOrder(ctx, o)
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, ErrConflict("transaction id already in use")
	}
	if err != nil {
		return nil, err
	}
	o.ID = id
	s.logger().Info("order placed", "transactionId", tranID, "total", o.Total.String(), "currency", currency)
	s.publish(ctx, domain.OrderPlaced, o, tranID, "")
	return &CheckoutResult{GatewayPageURL: resp.GatewayPageURL, TransactionID: tranID}, nil
}

// ConfirmPayment moves the order from created to paid. A second confirmation,
// or one for an unknown id, changes nothing and reports ErrNotFound.
func (s *OrderService) ConfirmPayment(ctx context.Context, tranID string) error {
	n, err := s.Repo.MarkOrderPaid(ctx, tranID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound("unpaid order")
	}
	o, _, err := s.Repo.GetOrderByTransactionID(ctx, tranID)
	if err != nil {
		s.logger().Warn("reload paid order", "transactionId", tranID, "err", err)
	}
	s.logger().Info("order paid", "transactionId", tranID)
	s.publish(ctx, domain.OrderPaid, o, tranID, "")
	return nil
}

// FailPayment deletes the provisional order; failed attempts are not kept.
func (s *OrderService) FailPayment(ctx context.Context, tranID string) error {
	return s.remove(ctx, tranID, "failed")
}

// CancelPayment treats a cancelled checkout like a failed one.
func (s *OrderService) CancelPayment(ctx context.Context, tranID string) error {
	return s.remove(ctx, tranID, "cancelled")
}

func (s *OrderService) Get(ctx context.Context, tranID string) (*domain.Order, error) {
	o, ok, err := s.Repo.GetOrderByTransactionID(ctx, tranID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound("order")
	}
	return o, nil
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.Repo.ListOrders(ctx)
}

func (s *OrderService) remove(ctx context.Context, tranID, reason string) error {
	o, _, err := s.Repo.GetOrderByTransactionID(ctx, tranID)
	if err != nil {
		return err
	}
	n, err := s.Repo.DeleteUnpaidOrder(ctx, tranID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound("unpaid order")
	}
	s.logger().Info("order removed", "transactionId", tranID, "reason", reason)
	s.publish(ctx, domain.OrderRemoved, o, tranID, reason)
	return nil
}

// newTransactionID re-draws when the id is already taken. The store's unique
// index remains the final arbiter for concurrent checkouts.
func (s *OrderService) newTransactionID(ctx context.Context) (string, error) {
	r := s.Rand
	if r == nil {
		r = rand.Reader
	}
	for i := 0; i < maxTransactionIDAttempts; i++ {
		id, err := NewTransactionID(r)
		if err != nil {
			return "", err
		}
		_, taken, err := s.Repo.GetOrderByTransactionID(ctx, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
		s.logger().Warn("transaction id collision", "transactionId", id, "attempt", i+1)
	}
	return "", ErrConflict("could not allocate a unique transaction id")
}

func (s *OrderService) initRequest(o *domain.Order, cus sslcommerz.Customer) sslcommerz.InitRequest {
	base := strings.TrimRight(s.PublicBaseURL, "/")
	return sslcommerz.InitRequest{
		TotalAmount:     o.Total,
		Currency:        o.Currency,
		TranID:          o.TransactionID,
		SuccessURL:      base + "/payment/success/" + o.TransactionID,
		FailURL:         base + "/payment/fail/" + o.TransactionID,
		CancelURL:       base + "/payment/cancel/" + o.TransactionID,
		ProductName:     strings.Join(o.ProductNames(), ", "),
		ProductCategory: "Food",
		ProductProfile:  "general",
		ShippingMethod:  "Courier",
		Customer:        withCustomerDefaults(cus),
	}
}

func (s *OrderService) publish(ctx context.Context, typ domain.OrderEventType, o *domain.Order, tranID, reason string) {
	if s.Events == nil {
		return
	}
	ev := domain.OrderEvent{Type: typ, TransactionID: tranID, Reason: reason, At: time.Now().UTC()}
	if o != nil {
		ev.Total = o.Total
		ev.Currency = o.Currency
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		s.logger().Warn("publish order event", "type", string(typ), "transactionId", tranID, "err", err)
	}
}

func (s *OrderService) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

func normalizeCart(in []domain.LineItem) ([]domain.LineItem, error) {
	if len(in) == 0 {
		return nil, ErrBadRequest("cart is empty")
	}
	out := make([]domain.LineItem, 0, len(in))
	for _, it := range in {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" {
			return nil, ErrBadRequest("cart item name required")
		}
		if it.Price.IsNegative() {
			return nil, ErrBadRequest("cart item price must not be negative")
		}
		if it.Quantity < 0 {
			return nil, ErrBadRequest("cart item quantity must not be negative")
		}
		if it.Quantity == 0 {
			it.Quantity = 1
		}
		out = append(out, it)
	}
	return out, nil
}

func withCustomerDefaults(c sslcommerz.Customer) sslcommerz.Customer {
	def := func(v, d string) string {
		if strings.TrimSpace(v) == "" {
			return d
		}
		return v
	}
	c.Name = def(c.Name, "Customer Name")
	c.Email = def(c.Email, "customer@example.com")
	c.Address = def(c.Address, "Dhaka")
	c.City = def(c.City, "Dhaka")
	c.State = def(c.State, "Dhaka")
	c.Postcode = def(c.Postcode, "1000")
	c.Country = def(c.Country, "Bangladesh")
	c.Phone = def(c.Phone, "01711111111")
	return c
}
