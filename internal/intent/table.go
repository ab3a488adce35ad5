package intent

import "regexp"

// rule holds the matching data for one intent.
type rule struct {
	intent   Intent
	patterns []*regexp.Regexp
	keywords []string
}

// rawRule is an uncompiled rule entry.
type rawRule struct {
	intent   Intent
	patterns []string
	keywords []string
}

// rules is evaluated top to bottom; order matters for both passes.
var rules []rule

func init() {
	rules = compileRules(rawRules)
}

var rawRules = []rawRule{
	{
		intent: Greeting,
		patterns: []string{
			`^(hi|hello|hey)`,
			`^good (morning|afternoon|evening)`,
		},
		keywords: []string{"hello", "hey there", "greetings", "good morning"},
	},
	{
		intent: BestDeal,
		patterns: []string{
			`best (deal|coupon|code|discount|offer)`,
			`(biggest|highest|max(imum)?) (discount|saving)`,
			`which (code|coupon) (should|is)`,
		},
		keywords: []string{"best", "deal", "cheapest", "savings", "save", "discount"},
	},
	{
		intent: Shipping,
		patterns: []string{
			`free ship`,
			`shipping (code|coupon|cost|fee)`,
			`deliver(y|ed)? (fee|cost|charge)`,
		},
		keywords: []string{"shipping", "delivery", "ship"},
	},
	{
		intent: HowToUse,
		patterns: []string{
			`how (do|can|should) i (use|apply|redeem)`,
			`where (do|should|can) i (enter|put|paste)`,
			`apply (a|the|this) (code|coupon)`,
		},
		keywords: []string{"apply", "redeem", "enter", "checkout", "use"},
	},
	{
		intent: Student,
		patterns: []string{
			`\bstudents?\b`,
			`\b(college|university)\b`,
			`\.edu\b`,
		},
		keywords: []string{"student", "college", "university", "school"},
	},
	{
		intent: Stacking,
		patterns: []string{
			`\bstack`,
			`(combine|multiple|two|2) (codes|coupons)`,
			`more than one (code|coupon)`,
		},
		keywords: []string{"stack", "combine", "together", "multiple"},
	},
	{
		intent: Expiry,
		patterns: []string{
			`\bexpir`,
			`still valid`,
			`(how long|until when).*valid`,
		},
		keywords: []string{"expire", "valid", "deadline", "last until"},
	},
	{
		intent: SpecificCode,
		patterns: []string{
			`\b(SAVE|FREE|FLASH|MEGA|STUDENT|EDU|SHIP|NO)\w*\d+\b`,
			`(does|will|is) (the )?code \w+`,
			`what (is|does) (the )?code`,
		},
		keywords: []string{"this code", "that code", "promo code"},
	},
	{
		intent: Availability,
		patterns: []string{
			`(any|are there|got) (coupons|codes|deals|discounts)`,
			`how many (coupons|codes|deals)`,
			`(coupons|codes) (available|for this)`,
		},
		keywords: []string{"available", "any coupons", "any codes", "how many"},
	},
	{
		intent: NotWorking,
		patterns: []string{
			`(not|isn'?t|doesn'?t|didn'?t|won'?t) work`,
			`\b(invalid|rejected|declined)\b`,
			`(error|problem) (with|applying|when)`,
		},
		keywords: []string{"broken", "error", "failed", "problem", "wrong", "not working"},
	},
	{
		intent: GeneralHelp,
		patterns: []string{
			`^help\b`,
			`what can you do`,
			`\bhelp me\b`,
		},
		keywords: []string{"help", "assist", "support", "question"},
	},
}

// compileRules compiles every pattern case-insensitively.
func compileRules(raws []rawRule) []rule {
	out := make([]rule, len(raws))
	for i, r := range raws {
		compiled := make([]*regexp.Regexp, len(r.patterns))
		for j, p := range r.patterns {
			compiled[j] = regexp.MustCompile(`(?i)` + p)
		}
		out[i] = rule{intent: r.intent, patterns: compiled, keywords: r.keywords}
	}
	return out
}
