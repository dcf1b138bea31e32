package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nikolayk812/freshmart-cart/internal/domain"
	"github.com/nikolayk812/freshmart-cart/internal/port"
	"go.uber.org/zap"
)

var _ port.OrderSubmitter = (*Client)(nil)

type orderResponse struct {
	ID json.Number `json:"id"`
}

// SubmitOrder posts the order to the order-creation endpoint.
func (c *Client) SubmitOrder(ctx context.Context, order domain.OrderRequest) (domain.OrderConfirmation, error) {
	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/orders/", order, &resp); err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("c.do: %w", err)
	}

	c.logger.Info("order created",
		zap.String("order_id", resp.ID.String()),
		zap.Int("items", len(order.Items)))

	return domain.OrderConfirmation{ID: resp.ID.String()}, nil
}
