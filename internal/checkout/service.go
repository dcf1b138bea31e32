package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nikolayk812/freshmart-cart/internal/domain"
	"github.com/nikolayk812/freshmart-cart/internal/port"
	"go.uber.org/zap"
)

var (
	ErrMissingContact = errors.New("full name and email are required to place an order")
	ErrEmptyCart      = errors.New("cart is empty")
)

type Service struct {
	submitter port.OrderSubmitter
	logger    *zap.Logger
}

func NewService(submitter port.OrderSubmitter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		submitter: submitter,
		logger:    logger,
	}
}

// PlaceOrder submits the contents of store as one order. The cart is cleared
// only after the submitter accepted the order.
func (s *Service) PlaceOrder(ctx context.Context, store port.CartStore, customer domain.Customer) (domain.OrderConfirmation, error) {
	customer = trimCustomer(customer)
	if customer.FullName == "" || customer.Email == "" {
		return domain.OrderConfirmation{}, ErrMissingContact
	}

	items := store.Load(ctx)
	if len(items) == 0 {
		return domain.OrderConfirmation{}, ErrEmptyCart
	}

	order := domain.OrderRequest{
		FullName: customer.FullName,
		Email:    customer.Email,
		Address:  customer.Address,
		City:     customer.City,
		Notes:    customer.Notes,
		UserID:   customer.UserID,
		Items:    domain.OrderItemsFrom(items),
	}

	confirmation, err := s.submitter.SubmitOrder(ctx, order)
	if err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("submitter.SubmitOrder: %w", err)
	}

	store.Clear(ctx)

	totals := store.Totals(ctx, items)
	s.logger.Info("order placed",
		zap.String("order_id", confirmation.ID),
		zap.Int("count", totals.Count),
		zap.Stringer("total", totals.Total))

	return confirmation, nil
}

func trimCustomer(c domain.Customer) domain.Customer {
	return domain.Customer{
		FullName: strings.TrimSpace(c.FullName),
		Email:    strings.TrimSpace(c.Email),
		Address:  strings.TrimSpace(c.Address),
		City:     strings.TrimSpace(c.City),
		Notes:    strings.TrimSpace(c.Notes),
		UserID:   domain.UserID(strings.TrimSpace(string(c.UserID))),
	}
}
