package port

import (
	"context"
	"errors"

	"github.com/nikolayk812/freshmart-cart/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type ProductCatalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error)
}

type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, order domain.OrderRequest) (domain.OrderConfirmation, error)
}
