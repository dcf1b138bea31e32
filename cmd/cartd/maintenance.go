package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/freshmart-cart/internal/cart"
	"github.com/nikolayk812/freshmart-cart/internal/config"
	"github.com/nikolayk812/freshmart-cart/internal/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	showSession string
	olderThan   time.Duration
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a session's cart and totals",
	Long: `Prints the line items stored for a session followed by its totals.

Example:
  cartd show --session 3f1e0a2f-4c11-4f0a-9a55-b6f0c9f26f0e`,
	RunE: runShow,
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete carts not touched for a while (postgres backend)",
	RunE:  runPurge,
}

func init() {
	showCmd.Flags().StringVar(&showSession, "session", "", "cart session id")
	_ = showCmd.MarkFlagRequired("session")

	purgeCmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age of the last write")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	slots, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("openStorage: %w", err)
	}
	defer closeStorage()

	store := cart.New(slots, cfg.CartSlotKey+":"+showSession,
		cart.WithCurrency(cfg.Currency),
		cart.WithLogger(logger))

	items := store.Load(ctx)
	if err := store.LastError(); err != nil {
		logger.Warn("cart could not be read cleanly", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	for _, item := range items {
		if err := enc.Encode(map[string]any{
			"product_id": item.ProductID,
			"name":       item.Name,
			"price":      json.Number(item.Price.String()),
			"quantity":   item.Quantity,
		}); err != nil {
			return fmt.Errorf("enc.Encode: %w", err)
		}
	}

	totals := store.Totals(ctx, items)
	_, err = fmt.Fprintf(out, "%d item(s), total %s\n", totals.Count, totals.Total)
	return err
}

func runPurge(cmd *cobra.Command, args []string) error {
	if cfg.CartBackend != config.BackendPostgres {
		return fmt.Errorf("purge needs the %s backend, configured: %s", config.BackendPostgres, cfg.CartBackend)
	}

	ctx := cmd.Context()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	deleted, err := repository.PurgeSlots(ctx, pool, time.Now().Add(-olderThan))
	if err != nil {
		return fmt.Errorf("repository.PurgeSlots: %w", err)
	}

	logger.Info("purged carts", zap.Int64("deleted", deleted), zap.Duration("older_than", olderThan))
	return nil
}
