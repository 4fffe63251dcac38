package domain

import "time"

type CartItem struct {
	ProductID string    `json:"productId" bson:"product_id"`
	Name      string    `json:"name" bson:"name"`
	ImageURL  string    `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	UnitPrice Money     `json:"unitPrice" bson:"unit_price"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	AddedAt   time.Time `json:"addedAt" bson:"added_at"`
}

func (i CartItem) Subtotal() Money {
	return i.UnitPrice.Times(i.Quantity)
}

// Cart is an ordered list of line items, unique by product id.
// Every item in a cart has Quantity >= 1.
type Cart struct {
	Items []CartItem `json:"items" bson:"items"`
}

// AddOrUpdate inserts item with the given quantity, or overwrites the
// quantity of the existing line for the same product. The line keeps its
// position in the cart.
func (c *Cart) AddOrUpdate(item CartItem, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	item.Quantity = quantity
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}

	if i := c.indexOf(item.ProductID); i >= 0 {
		item.AddedAt = c.Items[i].AddedAt
		c.Items[i] = item
		return nil
	}
	c.Items = append(c.Items, item)
	return nil
}

// Remove deletes the line for productID. Unknown ids are ignored.
func (c *Cart) Remove(productID string) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// SetQuantity changes the quantity of an existing line. Values below 1 are
// clamped to 1.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	i := c.indexOf(productID)
	if i < 0 {
		return ErrItemNotInCart
	}
	if quantity < 1 {
		quantity = 1
	}
	c.Items[i].Quantity = quantity
	return nil
}

func (c *Cart) Clear() {
	c.Items = nil
}

// TotalAmount is recomputed from the lines on every call.
func (c *Cart) TotalAmount() Money {
	var total Money
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Find(productID string) (CartItem, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i], true
	}
	return CartItem{}, false
}

// Snapshot returns a copy of the lines that shares no memory with the cart.
func (c *Cart) Snapshot() []CartItem {
	out := make([]CartItem, len(c.Items))
	copy(out, c.Items)
	return out
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
