package orders

import (
	"encoding/json"
	"strings"
	"time"
)

// Status is the fulfilment state of an order.
type Status string

// Order statuses
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus is the payment state reported by the backend.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentFailed  PaymentStatus = "failed"
	PaymentCOD     PaymentStatus = "cod"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPaid, PaymentPending, PaymentFailed, PaymentCOD:
		return true
	}
	return false
}

// LineItem is one product line of an order.
type LineItem struct {
	Product  string  `json:"product" dynamodbav:"product"`
	Name     string  `json:"name,omitempty" dynamodbav:"name,omitempty"`
	Quantity int     `json:"quantity" dynamodbav:"quantity"`
	Price    float64 `json:"price" dynamodbav:"price"`
	Color    string  `json:"color,omitempty" dynamodbav:"color,omitempty"`
	Size     string  `json:"size,omitempty" dynamodbav:"size,omitempty"`
	Variant  string  `json:"variant,omitempty" dynamodbav:"variant,omitempty"`
}

type Address struct {
	Name    string `json:"name,omitempty" dynamodbav:"name,omitempty"`
	Street  string `json:"street,omitempty" dynamodbav:"street,omitempty"`
	City    string `json:"city,omitempty" dynamodbav:"city,omitempty"`
	State   string `json:"state,omitempty" dynamodbav:"state,omitempty"`
	Pincode string `json:"pincode,omitempty" dynamodbav:"pincode,omitempty"`
	Country string `json:"country,omitempty" dynamodbav:"country,omitempty"`
	Phone   string `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
}

// Customer is the account that placed the order. A nil Customer means guest checkout.
type Customer struct {
	ID    string `json:"id,omitempty" dynamodbav:"id,omitempty"`
	Name  string `json:"name,omitempty" dynamodbav:"name,omitempty"`
	Email string `json:"email,omitempty" dynamodbav:"email,omitempty"`
}

// OrderRecord is one customer order as returned by the backend. Totals are
// trusted verbatim; nothing here recomputes them from the line items.
type OrderRecord struct {
	ID              string        `json:"id" dynamodbav:"order_id"` // PK
	OrderNumber     string        `json:"orderNumber,omitempty" dynamodbav:"order_number,omitempty"`
	Receipt         string        `json:"receipt,omitempty" dynamodbav:"receipt,omitempty"`
	CreatedAt       time.Time     `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt       *time.Time    `json:"updatedAt,omitempty" dynamodbav:"updated_at,omitempty"`
	Status          Status        `json:"status" dynamodbav:"status"`
	PaymentStatus   PaymentStatus `json:"paymentStatus,omitempty" dynamodbav:"payment_status,omitempty"`
	PaymentMethod   string        `json:"paymentMethod,omitempty" dynamodbav:"payment_method,omitempty"`
	GrandTotal      *float64      `json:"grandTotal,omitempty" dynamodbav:"grand_total,omitempty"`
	TotalAmount     *float64      `json:"totalAmount,omitempty" dynamodbav:"total_amount,omitempty"`
	Products        []LineItem    `json:"products,omitempty" dynamodbav:"products,omitempty"`
	Items           []LineItem    `json:"items,omitempty" dynamodbav:"items,omitempty"`
	ShippingAddress *Address      `json:"shippingAddress,omitempty" dynamodbav:"shipping_address,omitempty"`
	User            *Customer     `json:"user,omitempty" dynamodbav:"user,omitempty"`

	// order-detail response only
	Subtotal         *float64   `json:"subtotal,omitempty" dynamodbav:"subtotal,omitempty"`
	Shipping         *float64   `json:"shipping,omitempty" dynamodbav:"shipping,omitempty"`
	Tax              *float64   `json:"tax,omitempty" dynamodbav:"tax,omitempty"`
	Discount         *float64   `json:"discount,omitempty" dynamodbav:"discount,omitempty"`
	Total            *float64   `json:"total,omitempty" dynamodbav:"total,omitempty"`
	ExpectedDelivery *time.Time `json:"expectedDelivery,omitempty" dynamodbav:"expected_delivery,omitempty"`
}

// UnmarshalJSON accepts the Mongo-style "_id" key as well as "id".
func (o *OrderRecord) UnmarshalJSON(data []byte) error {
	type plain OrderRecord
	aux := struct {
		*plain
		MongoID string `json:"_id"`
	}{plain: (*plain)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if o.ID == "" {
		o.ID = aux.MongoID
	}
	return nil
}

// Amount is the order's monetary total: grandTotal, then totalAmount, else 0.
func (o OrderRecord) Amount() float64 {
	if o.GrandTotal != nil {
		return *o.GrandTotal
	}
	if o.TotalAmount != nil {
		return *o.TotalAmount
	}
	return 0
}

func (o OrderRecord) hasAmount() bool {
	return o.GrandTotal != nil || o.TotalAmount != nil
}

// LineItems returns items, falling back to products.
func (o OrderRecord) LineItems() []LineItem {
	if len(o.Items) > 0 {
		return o.Items
	}
	return o.Products
}

// DisplayNumber is the human-facing identifier shown in lists.
func (o OrderRecord) DisplayNumber() string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	if o.Receipt != "" {
		return o.Receipt
	}
	id := o.ID
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return "#" + strings.ToUpper(id)
}

// CustomerName prefers the shipping name over the account name.
func (o OrderRecord) CustomerName() string {
	if o.ShippingAddress != nil && o.ShippingAddress.Name != "" {
		return o.ShippingAddress.Name
	}
	if o.User != nil {
		return o.User.Name
	}
	return ""
}

// ReplaceRecord returns a copy of snapshot with the record matching
// updated.ID swapped for updated. snapshot itself is left untouched.
func ReplaceRecord(snapshot []OrderRecord, updated OrderRecord) []OrderRecord {
	out := make([]OrderRecord, len(snapshot))
	copy(out, snapshot)
	for i := range out {
		if out[i].ID == updated.ID {
			out[i] = updated
		}
	}
	return out
}
