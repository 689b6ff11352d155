package convo

import (
	"fmt"
	"log/slog"
	"strings"

	"shopbot/internal/catalog"
	"shopbot/internal/metrics"
	"shopbot/internal/nlu"
)

// ApologyText is returned whenever a request cannot be processed.
const ApologyText = "I apologize, but I'm having trouble processing your request. Please try again or contact our support team."

// ThrottledText is returned when a session sends messages faster than allowed.
const ThrottledText = "You're sending messages a little too quickly. Please wait a moment and try again."

// ChatResponse is the reply shown to the user.
type ChatResponse struct {
	Text         string
	QuickReplies []string
}

// Result carries the classification alongside the reply.
type Result struct {
	Intent   nlu.Intent
	Entities nlu.Entities
	Response ChatResponse
}

// Engine answers chat messages from the catalog. It holds no per-request
// state and is safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a conversation engine instance.
func New(cat *catalog.Catalog, metrics *metrics.Metrics, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		catalog: cat,
		metrics: metrics,
		logger:  logger.With("component", "convo"),
	}
}

// Reply classifies text and builds the matching response. params may carry
// entities already resolved by an upstream NLU layer.
func (e *Engine) Reply(text string, params map[string]string) Result {
	entities := nlu.Extract(text, params)
	intent := nlu.Classify(text)
	resp := e.routeIntent(intent, entities)

	e.logger.Debug("message answered",
		"intent", intent,
		"order_number", entities.OrderNumber,
		"product_keyword", entities.ProductKeyword,
	)
	return Result{Intent: intent, Entities: entities, Response: resp}
}

func (e *Engine) routeIntent(intent nlu.Intent, entities nlu.Entities) ChatResponse {
	switch intent {
	case nlu.IntentTrackOrder:
		return e.handleTrackOrder(entities.OrderNumber)
	case nlu.IntentCheckStock:
		return e.handleCheckStock(entities.ProductKeyword)
	case nlu.IntentShippingInfo:
		return shippingReply(e.catalog.Policies().Shipping)
	case nlu.IntentReturnsInfo:
		return returnsReply(e.catalog.Policies().Returns)
	case nlu.IntentContactInfo:
		return contactReply(e.catalog.Policies().Contact)
	case nlu.IntentGreeting:
		return ChatResponse{Text: greetingMessage(), QuickReplies: mainMenuReplies()}
	case nlu.IntentSmallTalk:
		return ChatResponse{Text: smallTalkMessage(), QuickReplies: mainMenuReplies()}
	default:
		return ChatResponse{Text: fallbackMessage(), QuickReplies: mainMenuReplies()}
	}
}

func (e *Engine) handleTrackOrder(orderNumber string) ChatResponse {
	if orderNumber == "" {
		return e.orderMenu()
	}
	order, err := e.catalog.Order(orderNumber)
	if err != nil {
		e.metrics.ObserveLookup("order", false)
		return e.orderMenu()
	}
	e.metrics.ObserveLookup("order", true)

	item := order.PrimaryItemName()
	switch order.Status {
	case catalog.StatusDelivered:
		text := fmt.Sprintf("✅ Order %s was delivered on %s at %s.\n\n📦 %s\n🎯 Tracking: %s (%s)\n💰 Total: $%s\n\nHope you're enjoying your purchase!",
			order.ID, order.DeliveredDate, order.DeliveredTime, item, order.TrackingNumber, order.Carrier, formatPrice(order.Total))
		return ChatResponse{Text: text, QuickReplies: []string{"Start Return", "Contact Support", "Track Another Order"}}
	case catalog.StatusShipped:
		text := fmt.Sprintf("🚚 Order %s is shipped and on the way!\n\n📦 %s\n📅 Shipped: %s\n🎯 Expected: %s\n📦 Tracking: %s (%s)\n\nYou can track your package using the tracking number above.",
			order.ID, item, order.ShippedDate, order.EstimatedDelivery, order.TrackingNumber, order.Carrier)
		return ChatResponse{Text: text, QuickReplies: []string{"Tracking Updates", "Contact Support", "Another Order"}}
	case catalog.StatusProcessing:
		text := fmt.Sprintf("⏳ Order %s is being processed.\n\n📦 %s\n📅 Expected to ship by: %s\n\nWe're preparing your order for shipment. You'll receive tracking info once it ships.",
			order.ID, item, order.EstimatedDelivery)
		return ChatResponse{Text: text, QuickReplies: []string{"Contact Support", "Track Another Order", "Shipping Info"}}
	default:
		return ChatResponse{
			Text:         fmt.Sprintf("Order %s status: %s", order.ID, order.Status),
			QuickReplies: []string{"Contact Support", "Track Another Order"},
		}
	}
}

// orderMenu lists the catalog's orders so the user can pick one.
func (e *Engine) orderMenu() ChatResponse {
	orders := e.catalog.Orders()
	lines := make([]string, len(orders))
	replies := make([]string, 0, len(orders)+1)
	for i, o := range orders {
		lines[i] = fmt.Sprintf("• %s %s (%s - %s)", statusIcon(o.Status), o.ID, titleCase(string(o.Status)), o.Label())
		replies = append(replies, o.ID)
	}
	replies = append(replies, "Contact Support")

	var sb strings.Builder
	sb.WriteString("I can help you track your order! We have these demo orders:\n\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n\nWhich order would you like to check?")
	return ChatResponse{Text: sb.String(), QuickReplies: replies}
}

func (e *Engine) handleCheckStock(keyword string) ChatResponse {
	if keyword != "" {
		product, ok := e.catalog.FindProduct(keyword)
		e.metrics.ObserveLookup("product", ok)
		if ok {
			if product.InStock {
				return ChatResponse{Text: formatInStock(product), QuickReplies: []string{"Add to Cart", "Shipping Info", "Other Products"}}
			}
			return ChatResponse{Text: formatOutOfStock(product), QuickReplies: []string{"Notify Me", "Similar Products", "Contact Support"}}
		}
	}
	return ChatResponse{
		Text:         formatProductMenu(e.catalog.Products()),
		QuickReplies: []string{"Headphones", "Smart Watch", "Laptop", "Smartphone"},
	}
}

func shippingReply(p catalog.ShippingPolicy) ChatResponse {
	text := fmt.Sprintf("📦 SHIPPING INFORMATION\n\n• 🆓 FREE Standard Shipping on orders over $%s\n• 🚚 Standard Delivery: %s\n• ⚡ Express Delivery: %s\n• 🌍 International: %s\n• 📦 Carriers: %s\n\nAll packages include tracking and insurance.",
		formatPrice(p.FreeThreshold), p.Standard, p.Express, p.International, strings.Join(p.Carriers, ", "))
	return ChatResponse{Text: text, QuickReplies: []string{"Track Order", "Return Policy", "Contact Support"}}
}

func returnsReply(p catalog.ReturnsPolicy) ChatResponse {
	text := fmt.Sprintf("🔄 RETURNS & EXCHANGES\n\n• 📅 %d-Day Return Policy\n• ✅ %s\n• 📦 %s\n• 💰 Refunds processed in %s\n\nExchanges are available for different sizes or colors.",
		p.Period, p.Condition, p.Process, p.RefundTime)
	return ChatResponse{Text: text, QuickReplies: []string{"Start Return", "Contact Returns", "Shipping Info"}}
}

func contactReply(p catalog.ContactPolicy) ChatResponse {
	text := fmt.Sprintf("📞 CONTACT & SUPPORT\n\n• 📧 Email: %s\n• 📞 Phone: %s\n• 🕒 Hours: %s\n• 💬 Live Chat: %s\n\nWe're here to help! What can we assist you with?",
		p.Email, p.Phone, p.Hours, p.LiveChat)
	return ChatResponse{Text: text, QuickReplies: []string{"Track Order", "Product Question", "Returns Help", "Shipping Question"}}
}

const capabilities = "• 📦 Order Tracking & Status\n• 🏪 Product Availability & Info\n• 📦 Shipping & Delivery\n• 🔄 Returns & Exchanges\n• 📞 Customer Support"

func greetingMessage() string {
	return "👋 Hello! Welcome to TechStore! I'm your shopping assistant. I can help you with:\n\n" + capabilities + "\n\nHow can I help you today?"
}

func smallTalkMessage() string {
	return "Hello! I'm doing great, thank you for asking!. How are you doing today? 😊. I can help you with:\n\n" + capabilities + "\n\nHow can I help you today?"
}

func fallbackMessage() string {
	return "I'm here to help with your shopping needs! I can assist with:\n\n• Order tracking and status updates\n• Product availability and information\n• Shipping and delivery details\n• Returns and exchanges\n• General customer support\n\nWhat would you like to know?"
}

func mainMenuReplies() []string {
	return []string{"Track Order", "Check Stock", "Shipping Info", "Contact Support"}
}

func statusIcon(s catalog.OrderStatus) string {
	switch s {
	case catalog.StatusShipped:
		return "📦"
	case catalog.StatusDelivered:
		return "✅"
	case catalog.StatusProcessing:
		return "⏳"
	default:
		return "•"
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
