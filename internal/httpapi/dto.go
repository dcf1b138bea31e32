package httpapi

import (
	"encoding/json"

	"github.com/nikolayk812/freshmart-cart/internal/domain"
)

type lineItemDTO struct {
	ProductID domain.ProductID `json:"product_id"`
	Name      string           `json:"name"`
	Price     json.Number      `json:"price"`
	Quantity  int              `json:"quantity"`
	LineTotal json.Number      `json:"line_total"`
	ImageURL  string           `json:"image_url,omitempty"`
	Category  string           `json:"category,omitempty"`
}

type totalsDTO struct {
	Count    int         `json:"count"`
	Subtotal json.Number `json:"subtotal"`
	Total    json.Number `json:"total"`
	Currency string      `json:"currency"`
	Display  string      `json:"display"`
}

type cartDTO struct {
	Items  []lineItemDTO `json:"items"`
	Totals totalsDTO     `json:"totals"`
}

type productDTO struct {
	ID       domain.ProductID `json:"id"`
	Name     string           `json:"name"`
	Price    json.RawMessage  `json:"price"`
	ImageURL string           `json:"image_url"`
	Category string           `json:"category"`
}

// addItemRequest either carries the product inline, taken at face value, or
// just its id, which is then looked up in the catalog.
type addItemRequest struct {
	Product   *productDTO      `json:"product"`
	ProductID domain.ProductID `json:"product_id"`
	Quantity  json.RawMessage  `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

type checkoutRequest struct {
	FullName string        `json:"full_name"`
	Email    string        `json:"email"`
	Address  string        `json:"address"`
	City     string        `json:"city"`
	Notes    string        `json:"notes"`
	UserID   domain.UserID `json:"user_id"`
}

type orderDTO struct {
	ID string `json:"id"`
}

type errorDTO struct {
	Error string `json:"error"`
}

func mapCartToDTO(items []domain.LineItem, totals domain.Totals) cartDTO {
	dtos := make([]lineItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, lineItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     json.Number(item.Price.String()),
			Quantity:  item.Quantity,
			LineTotal: json.Number(item.LineTotal().String()),
			ImageURL:  item.ImageURL,
			Category:  item.Category,
		})
	}

	return cartDTO{
		Items:  dtos,
		Totals: mapTotalsToDTO(totals),
	}
}

func mapTotalsToDTO(totals domain.Totals) totalsDTO {
	return totalsDTO{
		Count:    totals.Count,
		Subtotal: json.Number(totals.Subtotal.Amount.String()),
		Total:    json.Number(totals.Total.Amount.String()),
		Currency: totals.Total.Currency.String(),
		Display:  totals.Total.String(),
	}
}

func mapProductsToDTO(products []domain.Product) []productDTO {
	dtos := make([]productDTO, 0, len(products))
	for _, product := range products {
		dtos = append(dtos, productDTO{
			ID:       product.ID,
			Name:     product.Name,
			Price:    json.RawMessage(product.Price.String()),
			ImageURL: product.ImageURL,
			Category: product.Category,
		})
	}
	return dtos
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
