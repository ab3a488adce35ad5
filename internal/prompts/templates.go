package prompts

import (
	"github.com/avvvet/couponbuddy-assistant/internal/intent"
)

// Placeholders substituted by the response selector. Only the first
// occurrence in a template is replaced.
const (
	PlaceholderCount    = "X"
	PlaceholderDiscount = "Y"
	PlaceholderCode     = "X"
)

const FallbackMessage = "I'm sorry, I couldn't work that out. Could you ask again about coupons or savings for this store?"

var defaultResponses = map[intent.Intent][]string{
	intent.Greeting: {
		"Hi! I'm your savings assistant. I can find the best coupon for your cart, explain how codes work, or check if a code is still valid.",
		"Hello! Looking for a deal? Tell me what's in your cart and I'll find the best code.",
		"Hey there! Ask me about coupons, free shipping, or student discounts for this store.",
	},
	intent.BestDeal: {
		"The best deal is the top coupon in the list above. I ranked every code by how much it saves on your cart and how often it works.",
		"I compare each code's savings against your cart total and its success rate, then put the winner first. Start with the top one!",
		"For the biggest savings, try the highest-ranked code first. If it fails, the next one down is your best backup.",
	},
	intent.Shipping: {
		"Free shipping codes are marked in the list. They usually beat small percentage discounts on cheaper orders.",
		"If there's a free shipping code for this store, I'll show it with a shipping label. Some stores also ship free above a minimum order.",
		"Shipping codes can't always be combined with other discounts, so compare the savings before picking one.",
	},
	intent.HowToUse: {
		"Click \"Apply\" next to any coupon and I'll paste it into the checkout form for you. You can also copy the code and enter it manually.",
		"Go to the cart or checkout page, find the promo code box, and paste the code. Or just press Apply and I'll do it.",
		"Most stores show a \"Promo code\" or \"Discount code\" field at checkout. Copy a code from the list and paste it there.",
	},
	intent.Student: {
		"Student discounts usually need a verified school email. Look for codes starting with STUDENT or EDU in the list.",
		"Many stores offer 10-15% off for students through a verification service. I'll flag any student codes I find.",
		"If you're a student, check the store's student page too. Their codes sometimes stack with free shipping.",
	},
	intent.Stacking: {
		"Most stores only accept one coupon per order, so I recommend the single code that saves you the most.",
		"Stacking is rarely allowed. Pick the top-ranked code; I've already worked out which one saves the most on its own.",
		"Some stores let you combine a free shipping code with a percentage code, but usually only one code applies.",
	},
	intent.Expiry: {
		"Codes that are about to expire are flagged in the list. Use them soon!",
		"I check how recently each code was verified. Codes verified in the last day are the most reliable.",
		"Expiry dates aren't always published, but recently verified codes are much more likely to still work.",
	},
	intent.SpecificCode: {
		"Here's what I know: X. Want me to try it at checkout?",
		"X. I can apply it for you automatically.",
		"Good find! X, and I'll test it against your cart when you press Apply.",
	},
	intent.Availability: {
		"I found X coupons for this store! The best one gives Y% off.",
		"Good news: X active codes are available here, with savings up to Y%.",
		"There are X verified coupons right now. Top discount: Y%.",
	},
	intent.NotWorking: {
		"Sorry that code didn't work! Codes can have a minimum order or only apply to some items. Try the next one in the list.",
		"Some codes expire without notice. I'll lower its ranking; the next code down is a good bet.",
		"Check that your cart meets the code's minimum purchase. If it does, try another code from the list.",
	},
	intent.GeneralHelp: {
		"I can find and rank coupon codes for this store, apply them at checkout, and answer questions about shipping, student discounts, or expiry.",
		"Ask me things like \"what's the best code?\", \"is there free shipping?\", or \"does SAVE20 work?\".",
		"I'm here to help you save. Try asking about the best deal, how to apply a code, or which coupons are available.",
	},
}

var defaultConversational = []string{
	"Got it! Anything else I can help you save on?",
	"Sure thing. Just ask if you want me to find a better deal.",
	"Okay! I'm here if you need a coupon.",
	"Happy to help. Want me to check the best code for your cart?",
}

var defaultCodeDescriptions = map[string]string{
	"SAVE20":    "SAVE20 gives you 20% off your entire order",
	"SAVE10":    "SAVE10 takes 10% off orders over $50",
	"FREESHIP":  "FREESHIP unlocks free standard shipping",
	"FLASH50":   "FLASH50 is a flash sale code for 50% off select items",
	"MEGA30":    "MEGA30 takes 30% off orders over $100",
	"STUDENT15": "STUDENT15 gives verified students 15% off",
	"EDU10":     "EDU10 gives 10% off with a valid school email",
}
