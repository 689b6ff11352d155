package nlu

import "strings"

// Intent is the category chosen for an incoming message.
type Intent string

const (
	IntentTrackOrder   Intent = "track-order"
	IntentCheckStock   Intent = "check-stock"
	IntentShippingInfo Intent = "shipping-info"
	IntentReturnsInfo  Intent = "returns-info"
	IntentContactInfo  Intent = "contact-info"
	IntentGreeting     Intent = "greeting"
	IntentSmallTalk    Intent = "small-talk"
	IntentFallback     Intent = "fallback"
)

type rule struct {
	intent   Intent
	keywords []string
}

// rules are evaluated top to bottom and the first hit wins. The order settles
// overlapping vocabulary: "help me return my order" is a track-order, and
// "help with my return" is returns-info rather than contact-info.
var rules = []rule{
	{IntentTrackOrder, []string{"track", "order", "status"}},
	{IntentCheckStock, []string{"stock", "available", "have", "in stock"}},
	{IntentShippingInfo, []string{"shipping", "delivery", "ship"}},
	{IntentReturnsInfo, []string{"return", "refund", "exchange"}},
	{IntentContactInfo, []string{"contact", "support", "help", "call"}},
	{IntentGreeting, []string{"hello", "hi", "hey"}},
	{IntentSmallTalk, []string{"how are you", "how r u", "good"}},
}

// Classify maps a message to exactly one intent. Keywords are matched as
// substrings of the lower-cased message.
func Classify(message string) Intent {
	lower := strings.ToLower(message)
	for _, r := range rules {
		if containsAny(lower, r.keywords) {
			return r.intent
		}
	}
	return IntentFallback
}

// Intents lists every intent in priority order, ending with the fallback.
func Intents() []Intent {
	res := make([]Intent, 0, len(rules)+1)
	for _, r := range rules {
		res = append(res, r.intent)
	}
	return append(res, IntentFallback)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
