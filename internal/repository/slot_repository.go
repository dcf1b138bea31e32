package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/freshmart-cart/internal/db"
	"github.com/nikolayk812/freshmart-cart/internal/port"
)

type slotRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewSlots(pool *pgxpool.Pool) port.SlotRepository {
	return &slotRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewSlotsWithTx(tx pgx.Tx) port.SlotRepository {
	return &slotRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *slotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	payload, err := r.q.GetSlot(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("q.GetSlot: %w", err)
	}

	return payload, nil
}

func (r *slotRepository) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	err := r.q.UpsertSlot(ctx, db.UpsertSlotParams{
		SlotKey: key,
		Payload: value,
	})
	if err != nil {
		return fmt.Errorf("q.UpsertSlot: %w", err)
	}

	return nil
}

// Update locks the slot row for the duration of fn. A slot that does not
// exist yet is not locked, so two first writes race and the last one wins.
func (r *slotRepository) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		current, err := q.GetSlotForUpdate(ctx, key)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return struct{}{}, fmt.Errorf("q.GetSlotForUpdate: %w", err)
		}

		next, err := fn(current)
		if err != nil {
			return struct{}{}, fmt.Errorf("fn: %w", err)
		}

		err = q.UpsertSlot(ctx, db.UpsertSlotParams{
			SlotKey: key,
			Payload: next,
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("q.UpsertSlot: %w", err)
		}

		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

// PurgeSlots deletes slots not written since olderThan and reports how many
// were removed.
func PurgeSlots(ctx context.Context, pool *pgxpool.Pool, olderThan time.Time) (int64, error) {
	deleted, err := db.New(pool).DeleteSlotsOlderThan(ctx, olderThan)
	if err != nil {
		return 0, fmt.Errorf("q.DeleteSlotsOlderThan: %w", err)
	}

	return deleted, nil
}
