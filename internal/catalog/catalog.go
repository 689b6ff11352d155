package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

var (
	// ErrOrderNotFound is returned when an order id is not in the catalog.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound is returned when a SKU is not in the catalog.
	ErrProductNotFound = errors.New("product not found")
)

// Catalog is the read-only set of orders, products and store policies.
// A Catalog is never mutated after construction and is safe for concurrent use.
type Catalog struct {
	orders       []Order
	orderIndex   map[string]int
	products     []Product
	productIndex map[string]int
	policies     Policies
}

type seedFile struct {
	Orders   []Order   `yaml:"orders"`
	Products []Product `yaml:"products"`
	Policies Policies  `yaml:"policies"`
}

// Default returns the catalog built from the embedded seed data.
func Default() (*Catalog, error) {
	return Parse(seedYAML)
}

// Load reads a YAML catalog from path, or the embedded seed when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		orders:       make([]Order, 0, len(seed.Orders)),
		orderIndex:   make(map[string]int, len(seed.Orders)),
		products:     make([]Product, 0, len(seed.Products)),
		productIndex: make(map[string]int, len(seed.Products)),
		policies:     seed.Policies,
	}

	for _, o := range seed.Orders {
		o.ID = NormalizeID(o.ID)
		if o.ID == "" {
			return nil, fmt.Errorf("order without id")
		}
		if _, dup := c.orderIndex[o.ID]; dup {
			return nil, fmt.Errorf("duplicate order id %s", o.ID)
		}
		if !o.Status.Valid() {
			return nil, fmt.Errorf("order %s: unknown status %q", o.ID, o.Status)
		}
		c.orderIndex[o.ID] = len(c.orders)
		c.orders = append(c.orders, o)
	}

	for _, p := range seed.Products {
		p.ID = NormalizeID(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("product without id")
		}
		if _, dup := c.productIndex[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %s", p.ID)
		}
		c.productIndex[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

// NormalizeID canonicalises order ids and SKUs for lookup.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Order looks up an order by id, ignoring case.
func (c *Catalog) Order(id string) (Order, error) {
	idx, ok := c.orderIndex[NormalizeID(id)]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	return c.orders[idx].clone(), nil
}

// Product looks up a product by SKU, ignoring case.
func (c *Catalog) Product(id string) (Product, error) {
	idx, ok := c.productIndex[NormalizeID(id)]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return c.products[idx].clone(), nil
}

// FindProduct returns the first product, in seed order, whose name contains keyword.
func (c *Catalog) FindProduct(keyword string) (Product, bool) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return Product{}, false
	}
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), keyword) {
			return p.clone(), true
		}
	}
	return Product{}, false
}

// Orders lists all orders in seed order.
func (c *Catalog) Orders() []Order {
	res := make([]Order, len(c.orders))
	for i, o := range c.orders {
		res[i] = o.clone()
	}
	return res
}

// Products lists all products in seed order.
func (c *Catalog) Products() []Product {
	res := make([]Product, len(c.products))
	for i, p := range c.products {
		res[i] = p.clone()
	}
	return res
}

// Policies returns the store policies.
func (c *Catalog) Policies() Policies {
	p := c.policies
	p.Shipping.Carriers = append([]string(nil), c.policies.Shipping.Carriers...)
	return p
}

// Inconsistencies reports products whose in-stock flag disagrees with their stock count.
// The flag stays authoritative for replies; callers are expected to surface these.
func (c *Catalog) Inconsistencies() []string {
	var res []string
	for _, p := range c.products {
		if p.InStock != (p.Stock > 0) {
			res = append(res, fmt.Sprintf("product %s: inStock=%t but stock=%d", p.ID, p.InStock, p.Stock))
		}
	}
	return res
}
