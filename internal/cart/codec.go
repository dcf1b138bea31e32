package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nikolayk812/freshmart-cart/internal/domain"
)

// record is the persisted shape of a line item. Field names follow the order
// API (product_id, quantity) so items can be forwarded as-is.
type record struct {
	ProductID domain.ProductID `json:"product_id"`
	Name      string           `json:"name"`
	Price     json.RawMessage  `json:"price"`
	Quantity  json.RawMessage  `json:"quantity"`
	ImageURL  string           `json:"image_url,omitempty"`
	Category  string           `json:"category,omitempty"`
}

// decodeItems reads a persisted blob. An empty blob is an empty cart.
// Lines without a product id are dropped and quantities are clamped.
func decodeItems(raw []byte) ([]domain.LineItem, error) {
	items := []domain.LineItem{}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return items, nil
	}
	if raw[0] != '[' {
		return items, fmt.Errorf("cart blob is not an array")
	}

	var records []record
	if err := json.Unmarshal(raw, &records); err != nil {
		return items, fmt.Errorf("json.Unmarshal: %w", err)
	}

	for _, r := range records {
		if r.ProductID == "" {
			continue
		}
		items = append(items, mapRecordToDomain(r))
	}

	return items, nil
}

func encodeItems(items []domain.LineItem) ([]byte, error) {
	records := make([]record, 0, len(items))
	for _, item := range items {
		records = append(records, mapDomainToRecord(item))
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

func mapRecordToDomain(r record) domain.LineItem {
	return domain.LineItem{
		ProductID: r.ProductID,
		Name:      r.Name,
		Price:     domain.ParsePrice(r.Price),
		Quantity:  domain.QuantityFromJSON(r.Quantity),
		ImageURL:  r.ImageURL,
		Category:  r.Category,
	}
}

func mapDomainToRecord(item domain.LineItem) record {
	return record{
		ProductID: item.ProductID,
		Name:      item.Name,
		Price:     json.RawMessage(item.Price.String()),
		Quantity:  json.RawMessage(strconv.Itoa(item.Quantity)),
		ImageURL:  item.ImageURL,
		Category:  item.Category,
	}
}
