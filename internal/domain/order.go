package domain

// Customer holds the contact details collected on the checkout form.
type Customer struct {
	FullName string
	Email    string
	Address  string
	City     string
	Notes    string
	UserID   UserID
}

// OrderRequest is the payload accepted by the order-creation endpoint.
type OrderRequest struct {
	FullName string      `json:"full_name"`
	Email    string      `json:"email"`
	Address  string      `json:"address"`
	City     string      `json:"city"`
	Notes    string      `json:"notes"`
	UserID   UserID      `json:"user_id,omitempty"`
	Items    []OrderItem `json:"items"`
}

type OrderItem struct {
	ProductID ProductID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type OrderConfirmation struct {
	ID string
}

// OrderItemsFrom keeps only what the order endpoint needs from each line item.
func OrderItemsFrom(items []LineItem) []OrderItem {
	result := make([]OrderItem, 0, len(items))
	for _, item := range items {
		result = append(result, OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	return result
}
