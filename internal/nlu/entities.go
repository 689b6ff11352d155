package nlu

import (
	"regexp"
	"strings"
)

// OrderNumberParam is the parameter key an upstream NLU layer uses for a
// pre-parsed order number.
const OrderNumberParam = "orderNumber"

var orderNumberRegex = regexp.MustCompile(`(?i)(ORDER-?)?(\d{3,})`)

// productKeywords are checked in order; the first contained keyword wins.
var productKeywords = []string{"headphone", "watch", "laptop", "phone", "smartphone"}

// Entities holds the values pulled out of a message. Empty fields mean
// nothing was found, which is a normal outcome.
type Entities struct {
	OrderNumber    string
	ProductKeyword string
}

// Extract collects entities from text, preferring an order number supplied in params.
func Extract(text string, params map[string]string) Entities {
	orderNumber := NormalizeOrderNumber(params[OrderNumberParam])
	if orderNumber == "" {
		orderNumber = ExtractOrderNumber(text)
	}
	return Entities{
		OrderNumber:    orderNumber,
		ProductKeyword: ExtractProductKeyword(text),
	}
}

// ExtractOrderNumber finds an order reference such as "ORDER-123", "order123"
// or a bare "123" and returns it as "ORDER-<digits>".
func ExtractOrderNumber(text string) string {
	m := orderNumberRegex.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return "ORDER-" + m[2]
}

// NormalizeOrderNumber canonicalises a caller-supplied order number. Values
// that do not look like an order reference are upper-cased as-is.
func NormalizeOrderNumber(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if id := ExtractOrderNumber(raw); id != "" {
		return id
	}
	return strings.ToUpper(raw)
}

// ExtractProductKeyword returns the first known product noun in text.
func ExtractProductKeyword(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range productKeywords {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return ""
}
