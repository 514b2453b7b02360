package domain

// ShippingSKU is the synthetic SKU under which shipping is carried as a
// line item. A cart holds at most one of these.
const ShippingSKU = "SHIP"

type Cart struct {
	Total float64    `json:"total"`
	Tax   float64    `json:"tax"`
	Items []LineItem `json:"items"`
}

type LineItem struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Qty      int     `json:"qty"`
	Subtotal float64 `json:"subtotal"`
}

// ItemIndex returns the position of the line item for sku, or -1.
func (c *Cart) ItemIndex(sku string) int {
	for i := range c.Items {
		if c.Items[i].SKU == sku {
			return i
		}
	}
	return -1
}
