package assistant

import (
	"strconv"
	"strings"

	"github.com/avvvet/couponbuddy-assistant/internal/intent"
	"github.com/avvvet/couponbuddy-assistant/internal/prompts"
	"github.com/avvvet/couponbuddy-assistant/internal/rng"
)

// GenerateResponse picks a canned reply for i. With no used responses the
// first entry is returned; otherwise an unused entry is preferred.
func (a *Assistant) GenerateResponse(i intent.Intent, c Context) string {
	candidates := a.render(i, c)
	if len(c.UsedResponses) == 0 {
		return candidates[0]
	}
	return a.pick(unused(candidates, c.UsedResponses, ""), candidates)
}

// render returns the response list for i with placeholders substituted.
func (a *Assistant) render(i intent.Intent, c Context) []string {
	templates := a.kb.Responses(i)
	if len(templates) == 0 {
		return []string{prompts.FallbackMessage}
	}

	out := make([]string, len(templates))
	for n, tmpl := range templates {
		switch i {
		case intent.Availability:
			tmpl = strings.Replace(tmpl, prompts.PlaceholderCount, strconv.Itoa(c.CouponCount), 1)
			tmpl = strings.Replace(tmpl, prompts.PlaceholderDiscount, c.BestDiscount, 1)
		case intent.SpecificCode:
			tmpl = strings.Replace(tmpl, prompts.PlaceholderCode, a.kb.DescribeCode(c.RequestedCode), 1)
		}
		out[n] = tmpl
	}
	return out
}

// unused filters out used entries and skip.
func unused(candidates []string, used map[string]bool, skip string) []string {
	var out []string
	for _, s := range candidates {
		if used[s] || (skip != "" && s == skip) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// pick draws from preferred, or from fallback when preferred is empty.
func (a *Assistant) pick(preferred, fallback []string) string {
	list := preferred
	if len(list) == 0 {
		list = fallback
	}
	if len(list) == 0 {
		return prompts.FallbackMessage
	}
	return list[rng.Pick(a.rand, len(list))]
}
