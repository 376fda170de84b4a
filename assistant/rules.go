// Package assistant is the storefront's canned shopping assistant.
package assistant

import (
	"math/rand"
	"strings"
)

// Rule answers with Reply when the message contains any keyword.
type Rule struct {
	Keywords []string
	Reply    string
}

// Picker chooses one of n fallback replies.
type Picker func(n int) int

// RandomPicker is the production Picker.
func RandomPicker(n int) int {
	return rand.Intn(n)
}

// DefaultRules are checked in order; the first match wins.
var DefaultRules = []Rule{
	{
		Keywords: []string{"price", "cost"},
		Reply:    "Our watches range from ₹1,34,999 to ₹4,19,999. We also offer EMI options and special financing for premium pieces. Would you like to know about a specific watch?",
	},
	{
		Keywords: []string{"shipping", "delivery"},
		Reply:    "We offer free shipping on orders above ₹75,000. Standard delivery takes 3-5 business days, and express delivery is available for urgent orders. All watches come with secure packaging and insurance.",
	},
	{
		Keywords: []string{"warranty", "guarantee"},
		Reply:    "All our watches come with manufacturer warranty ranging from 2-5 years depending on the brand. We also provide authenticity certificates and after-sales service support.",
	},
	{
		Keywords: []string{"luxury", "premium"},
		Reply:    "Our luxury collection features premium brands with Swiss movements, precious metals, and limited editions. Would you like me to show you our Royal Heritage or Luxury Crown collections?",
	},
	{
		Keywords: []string{"sport", "fitness"},
		Reply:    "Our sports collection includes water-resistant, shock-proof watches perfect for active lifestyles. The Sport Elite series is particularly popular among fitness enthusiasts.",
	},
	{
		Keywords: []string{"gift", "present"},
		Reply:    "Watches make excellent gifts! We offer premium gift wrapping, personalized engraving services, and gift cards. Would you like recommendations based on the recipient's style?",
	},
	{
		Keywords: []string{"hello", "hi"},
		Reply:    "Hello! Welcome to Skouce. I'm here to help you discover the perfect timepiece. Are you looking for something specific today?",
	},
	{
		Keywords: []string{"thank"},
		Reply:    "You're welcome! Is there anything else I can help you with regarding our watch collections or services?",
	},
}

var DefaultFallbacks = []string{
	"That's a great question! Let me help you with that. Could you provide more details about what you're looking for?",
	"I'd be happy to assist you with that. Are you interested in a particular style or brand of watch?",
	"Thank you for your interest in Skouce. Would you like me to connect you with one of our watch specialists for personalized assistance?",
	"I can help you find the perfect watch. What's your budget range and preferred style?",
	"Our collection includes luxury, sport, classic, and smart watches. Which category interests you most?",
}

const Greeting = "Hello! I'm your Skouce assistant. How can I help you find the perfect watch today?"

// Responder maps a message to a reply. Matching is case-insensitive
// substring containment, so "hi" also matches inside longer words.
type Responder struct {
	rules     []Rule
	fallbacks []string
	pick      Picker
}

func NewResponder(rules []Rule, fallbacks []string, pick Picker) *Responder {
	if pick == nil {
		pick = RandomPicker
	}
	return &Responder{rules: rules, fallbacks: fallbacks, pick: pick}
}

// DefaultResponder uses the built-in rule table.
func DefaultResponder(pick Picker) *Responder {
	return NewResponder(DefaultRules, DefaultFallbacks, pick)
}

func (r *Responder) Reply(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range r.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Reply
			}
		}
	}
	if len(r.fallbacks) == 0 {
		return ""
	}
	i := r.pick(len(r.fallbacks))
	if i < 0 || i >= len(r.fallbacks) {
		i = 0
	}
	return r.fallbacks[i]
}
