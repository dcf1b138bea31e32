package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nikolayk812/freshmart-cart/internal/domain"
	"github.com/nikolayk812/freshmart-cart/internal/port"
)

var _ port.ProductCatalog = (*Client)(nil)

type productDTO struct {
	ID       domain.ProductID `json:"id"`
	Name     string           `json:"name"`
	Price    json.RawMessage  `json:"price"`
	ImageURL string           `json:"image_url"`
	Category string           `json:"category"`
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var dtos []productDTO
	if err := c.do(ctx, http.MethodGet, "/products/", nil, &dtos); err != nil {
		return nil, fmt.Errorf("c.do: %w", err)
	}

	products := make([]domain.Product, 0, len(dtos))
	for _, dto := range dtos {
		products = append(products, mapProductToDomain(dto))
	}

	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, fmt.Errorf("product id is empty")
	}

	var dto productDTO
	err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(string(id)), nil, &dto)

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", id, port.ErrProductNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("c.do: %w", err)
	}

	return mapProductToDomain(dto), nil
}

func mapProductToDomain(dto productDTO) domain.Product {
	return domain.Product{
		ID:       dto.ID,
		Name:     dto.Name,
		Price:    domain.ParsePrice(dto.Price),
		ImageURL: dto.ImageURL,
		Category: dto.Category,
	}
}
