package convo

import (
	"fmt"
	"strconv"
	"strings"

	"shopbot/internal/catalog"
)

func formatInStock(p catalog.Product) string {
	features := make([]string, len(p.Features))
	for i, f := range p.Features {
		features[i] = "• " + f
	}
	return fmt.Sprintf("✅ %s is IN STOCK! 🎉\n\n💰 Price: $%s\n📦 Available: %d units\n📝 %s\n\nKey Features:\n%s",
		p.Name, formatPrice(p.Price), p.Stock, p.Description, strings.Join(features, "\n"))
}

func formatOutOfStock(p catalog.Product) string {
	restock := p.RestockDate
	if restock == "" {
		restock = "TBD"
	}
	return fmt.Sprintf("❌ %s is currently OUT OF STOCK\n\n💰 Price: $%s\n📦 Expected Restock: %s\n📝 %s\n\nWould you like to be notified when it's available again?",
		p.Name, formatPrice(p.Price), restock, p.Description)
}

func formatProductMenu(products []catalog.Product) string {
	lines := make([]string, len(products))
	for i, p := range products {
		availability := "In Stock"
		if !p.InStock {
			availability = "Restocking Soon"
		}
		lines[i] = fmt.Sprintf("• %s %s - $%s (%s)", iconForCategory(p.Category), p.Name, formatPrice(p.Price), availability)
	}
	return "I can check product availability! Here's what we have:\n\n" + strings.Join(lines, "\n") + "\n\nWhich product are you interested in?"
}

func iconForCategory(category string) string {
	switch strings.ToLower(category) {
	case "audio":
		return "🎧"
	case "wearables":
		return "⌚"
	case "computers":
		return "💻"
	case "phones":
		return "📱"
	default:
		return "🛍️"
	}
}

// formatPrice renders amounts with the shortest exact decimal form: 99.99, 50.
func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
