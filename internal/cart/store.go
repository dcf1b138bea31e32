package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/nikolayk812/freshmart-cart/internal/domain"
	"github.com/nikolayk812/freshmart-cart/internal/port"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

const DefaultSlotKey = "freshmart_cart"

// Store keeps one shopper's cart in a single storage slot. Every operation
// reads, mutates and rewrites the whole collection before returning.
// A Store is meant for one session and is not safe for concurrent use.
type Store struct {
	storage  port.SlotStorage
	key      string
	currency currency.Unit
	logger   *zap.Logger

	lastErr error
}

var _ port.CartStore = (*Store)(nil)

type Option func(*Store)

func WithCurrency(unit currency.Unit) Option {
	return func(s *Store) {
		s.currency = unit
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(storage port.SlotStorage, key string, opts ...Option) *Store {
	if key == "" {
		key = DefaultSlotKey
	}

	s := &Store{
		storage:  storage,
		key:      key,
		currency: currency.EUR,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("slot", key))

	return s
}

// LastError returns the most recent storage failure absorbed by the store,
// or nil if the last operation persisted cleanly.
func (s *Store) LastError() error {
	return s.lastErr
}

func (s *Store) Load(ctx context.Context) []domain.LineItem {
	return absorb(s, "load", s.read(ctx))
}

// Save overwrites the slot with items.
func (s *Store) Save(ctx context.Context, items []domain.LineItem) []domain.LineItem {
	return absorb(s, "save", s.write(ctx, slices.Clone(items)))
}

// Add merges quantity into the line for product.ID, or appends a new line.
// A product without an id is ignored.
func (s *Store) Add(ctx context.Context, product domain.Product, quantity int) []domain.LineItem {
	if product.ID == "" {
		return s.Load(ctx)
	}
	qty := domain.ClampQuantity(quantity)

	return s.mutate(ctx, "add", func(items []domain.LineItem) []domain.LineItem {
		if i := indexOf(items, product.ID); i >= 0 {
			items[i].Quantity = domain.AddQuantity(items[i].Quantity, qty)
			return items
		}

		return append(items, domain.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     domain.NonNegative(product.Price),
			Quantity:  qty,
			ImageURL:  product.ImageURL,
			Category:  product.Category,
		})
	})
}

func (s *Store) UpdateQuantity(ctx context.Context, productID domain.ProductID, quantity int) []domain.LineItem {
	qty := domain.ClampQuantity(quantity)

	return s.mutate(ctx, "update_quantity", func(items []domain.LineItem) []domain.LineItem {
		if i := indexOf(items, productID); i >= 0 {
			items[i].Quantity = qty
		}
		return items
	})
}

func (s *Store) Remove(ctx context.Context, productID domain.ProductID) []domain.LineItem {
	return s.mutate(ctx, "remove", func(items []domain.LineItem) []domain.LineItem {
		return slices.DeleteFunc(items, func(item domain.LineItem) bool {
			return item.ProductID == productID
		})
	})
}

func (s *Store) Clear(ctx context.Context) {
	absorb(s, "clear", s.write(ctx, []domain.LineItem{}))
}

// Totals computes count, subtotal and total over items, or over the persisted
// cart when items is nil.
func (s *Store) Totals(ctx context.Context, items []domain.LineItem) domain.Totals {
	if items == nil {
		items = s.Load(ctx)
	}

	return domain.TotalsOf(items, s.currency)
}

func (s *Store) read(ctx context.Context) result[[]domain.LineItem] {
	raw, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, port.ErrSlotNotFound) {
		return ok([]domain.LineItem{})
	}
	if err != nil {
		return failed([]domain.LineItem{}, fmt.Errorf("storage.Get: %w", err))
	}

	items, err := decodeItems(raw)
	if err != nil {
		return failed(items, fmt.Errorf("decodeItems: %w", err))
	}

	return ok(items)
}

func (s *Store) write(ctx context.Context, items []domain.LineItem) result[[]domain.LineItem] {
	if items == nil {
		items = []domain.LineItem{}
	}

	data, err := encodeItems(items)
	if err != nil {
		return failed(items, fmt.Errorf("encodeItems: %w", err))
	}

	if err := s.storage.Set(ctx, s.key, data); err != nil {
		return failed(items, fmt.Errorf("storage.Set: %w", err))
	}

	return ok(items)
}

func (s *Store) mutate(ctx context.Context, op string, fn func([]domain.LineItem) []domain.LineItem) []domain.LineItem {
	if updater, isUpdater := s.storage.(port.SlotUpdater); isUpdater {
		return absorb(s, op, s.update(ctx, updater, fn))
	}

	current := s.Load(ctx)
	return absorb(s, op, s.write(ctx, fn(current)))
}

func (s *Store) update(ctx context.Context, updater port.SlotUpdater, fn func([]domain.LineItem) []domain.LineItem) result[[]domain.LineItem] {
	var (
		out    []domain.LineItem
		called bool
	)

	err := updater.Update(ctx, s.key, func(current []byte) ([]byte, error) {
		called = true

		items, err := decodeItems(current)
		if err != nil {
			s.logger.Warn("discarding unreadable cart", zap.Error(err))
		}

		out = fn(items)
		return encodeItems(out)
	})
	if err != nil {
		if !called {
			out = fn(s.Load(ctx))
		}
		return failed(out, fmt.Errorf("storage.Update: %w", err))
	}

	return ok(out)
}

func absorb[T any](s *Store, op string, r result[T]) T {
	s.lastErr = r.err
	if r.Failed() {
		s.logger.Warn("cart storage failure absorbed", zap.String("op", op), zap.Error(r.err))
	}

	return r.value
}

func indexOf(items []domain.LineItem, productID domain.ProductID) int {
	return slices.IndexFunc(items, func(item domain.LineItem) bool {
		return item.ProductID == productID
	})
}
