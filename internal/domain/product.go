package domain

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// ProductID is an opaque catalog identifier. The catalog issues integer ids,
// so integers are kept as bare JSON numbers on the wire.
type ProductID string

func (id ProductID) MarshalJSON() ([]byte, error) {
	return marshalID(string(id))
}

func (id *ProductID) UnmarshalJSON(data []byte) error {
	s, err := unmarshalID(data)
	if err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	*id = ProductID(s)

	return nil
}

// UserID identifies a signed-in shopper. The backend keys users by integer,
// so it follows the same wire rule as ProductID.
type UserID string

func (id UserID) MarshalJSON() ([]byte, error) {
	return marshalID(string(id))
}

func (id *UserID) UnmarshalJSON(data []byte) error {
	s, err := unmarshalID(data)
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = UserID(s)

	return nil
}

// marshalID writes canonical integers as bare numbers and anything else as a
// string.
func marshalID(id string) ([]byte, error) {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil && strconv.FormatInt(n, 10) == id {
		return []byte(id), nil
	}

	return json.Marshal(id)
}

func unmarshalID(data []byte) (string, error) {
	if string(data) == "null" {
		return "", nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", fmt.Errorf("json.Unmarshal: %w", err)
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", fmt.Errorf("[%s] is not a string or number: %w", data, err)
	}

	return n.String(), nil
}

type Product struct {
	ID       ProductID
	Name     string
	Price    decimal.Decimal
	ImageURL string
	Category string
}
