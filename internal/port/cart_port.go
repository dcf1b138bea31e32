package port

import (
	"context"
	"errors"

	"github.com/nikolayk812/freshmart-cart/internal/domain"
)

var ErrSlotNotFound = errors.New("slot not found")

// SlotStorage holds opaque blobs under named slots.
// Get returns ErrSlotNotFound when nothing was ever written to the slot.
type SlotStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// SlotUpdater is implemented by backends that can read-modify-write a slot
// atomically. fn receives nil when the slot is empty.
type SlotUpdater interface {
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}

type SlotRepository interface {
	SlotStorage
	SlotUpdater
}

// CartStore never returns errors: storage failures are absorbed and the best
// effort collection is returned.
type CartStore interface {
	Load(ctx context.Context) []domain.LineItem
	Save(ctx context.Context, items []domain.LineItem) []domain.LineItem
	Add(ctx context.Context, product domain.Product, quantity int) []domain.LineItem
	UpdateQuantity(ctx context.Context, productID domain.ProductID, quantity int) []domain.LineItem
	Remove(ctx context.Context, productID domain.ProductID) []domain.LineItem
	Clear(ctx context.Context)
	Totals(ctx context.Context, items []domain.LineItem) domain.Totals
}
