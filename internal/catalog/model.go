package catalog

// OrderStatus is the fulfilment stage of an order.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered:
		return true
	default:
		return false
	}
}

// Order is a customer order. Tracking and date fields are only set for the
// statuses that carry them: processing orders have no tracking number.
type Order struct {
	ID                string      `json:"id" yaml:"id"`
	Status            OrderStatus `json:"status" yaml:"status"`
	TrackingNumber    string      `json:"trackingNumber,omitempty" yaml:"trackingNumber"`
	Carrier           string      `json:"carrier,omitempty" yaml:"carrier"`
	EstimatedDelivery string      `json:"estimatedDelivery,omitempty" yaml:"estimatedDelivery"`
	ShippedDate       string      `json:"shippedDate,omitempty" yaml:"shippedDate"`
	DeliveredDate     string      `json:"deliveredDate,omitempty" yaml:"deliveredDate"`
	DeliveredTime     string      `json:"deliveredTime,omitempty" yaml:"deliveredTime"`
	Items             []OrderItem `json:"items" yaml:"items"`
	Total             float64     `json:"total" yaml:"total"`
	Customer          Customer    `json:"customer" yaml:"customer"`
	MenuLabel         string      `json:"menuLabel,omitempty" yaml:"menuLabel"`
}

// OrderItem is a line of an order.
type OrderItem struct {
	Name     string  `json:"name" yaml:"name"`
	Quantity int     `json:"quantity" yaml:"quantity"`
	Price    float64 `json:"price" yaml:"price"`
	SKU      string  `json:"sku" yaml:"sku"`
}

// Customer is the buyer of an order.
type Customer struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// PrimaryItemName is the name of the first line item, or "" for an empty order.
func (o Order) PrimaryItemName() string {
	if len(o.Items) == 0 {
		return ""
	}
	return o.Items[0].Name
}

// Label is the short name shown in order menus. It falls back to the
// primary item name when no menu label is set.
func (o Order) Label() string {
	if o.MenuLabel != "" {
		return o.MenuLabel
	}
	return o.PrimaryItemName()
}

func (o Order) clone() Order {
	o.Items = append([]OrderItem(nil), o.Items...)
	return o
}

// Product is a sellable item. InStock is stored alongside Stock; see
// Catalog.Inconsistencies for disagreements between the two.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Price       float64  `json:"price" yaml:"price"`
	InStock     bool     `json:"inStock" yaml:"inStock"`
	Stock       int      `json:"stock" yaml:"stock"`
	Category    string   `json:"category" yaml:"category"`
	Description string   `json:"description" yaml:"description"`
	Features    []string `json:"features" yaml:"features"`
	RestockDate string   `json:"restockDate,omitempty" yaml:"restockDate"`
}

func (p Product) clone() Product {
	p.Features = append([]string(nil), p.Features...)
	return p
}

// Policies groups the static store policies.
type Policies struct {
	Shipping ShippingPolicy `json:"shipping" yaml:"shipping"`
	Returns  ReturnsPolicy  `json:"returns" yaml:"returns"`
	Contact  ContactPolicy  `json:"contact" yaml:"contact"`
}

// ShippingPolicy describes delivery options and carriers.
type ShippingPolicy struct {
	Standard      string   `json:"standard" yaml:"standard"`
	Express       string   `json:"express" yaml:"express"`
	International string   `json:"international" yaml:"international"`
	FreeThreshold float64  `json:"freeThreshold" yaml:"freeThreshold"`
	Carriers      []string `json:"carriers" yaml:"carriers"`
}

// ReturnsPolicy describes the return window and refund process.
type ReturnsPolicy struct {
	Period     int    `json:"period" yaml:"period"`
	Condition  string `json:"condition" yaml:"condition"`
	Process    string `json:"process" yaml:"process"`
	RefundTime string `json:"refundTime" yaml:"refundTime"`
}

// ContactPolicy lists the support channels.
type ContactPolicy struct {
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone" yaml:"phone"`
	Hours    string `json:"hours" yaml:"hours"`
	LiveChat string `json:"liveChat" yaml:"liveChat"`
}
