package assistant

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/avvvet/couponbuddy-assistant/internal/intent"
	"github.com/avvvet/couponbuddy-assistant/internal/models"
)

// Context defaults
const (
	DefaultMerchantName = "this store"
	DefaultCouponCount  = 8
	DefaultBestDiscount = "30"
)

var (
	codePattern = regexp.MustCompile(`(?i)\b(SAVE|FREE|FLASH|MEGA|STUDENT|EDU|SHIP|NO)\w*\d*`)
	cartPattern = regexp.MustCompile(`\$([0-9]+\.?[0-9]*)`)
)

// Context is rebuilt from the full history on every call.
type Context struct {
	CartTotal      *float64
	HasAskedBefore map[intent.Intent]bool
	UsedResponses  map[string]bool
	MerchantName   string
	CouponCount    int
	BestDiscount   string
	RequestedCode  string // uppercased; empty when none was mentioned
}

// NewContext returns a Context holding the defaults.
func NewContext() Context {
	return Context{
		HasAskedBefore: make(map[intent.Intent]bool),
		UsedResponses:  make(map[string]bool),
		MerchantName:   DefaultMerchantName,
		CouponCount:    DefaultCouponCount,
		BestDiscount:   DefaultBestDiscount,
	}
}

// PageDataProvider supplies the coupons currently shown for the page.
// A nil result means no page data is available.
type PageDataProvider interface {
	GetCoupons() []models.Coupon
}

// ExtractContext scans messages oldest to newest and layers page data on top.
// Cart totals and codes follow last-write-wins, starting from the cart total
// set with WithCartTotal.
func (a *Assistant) ExtractContext(messages []models.ChatMessage) Context {
	c := NewContext()
	if a.cartTotal != nil {
		v := *a.cartTotal
		c.CartTotal = &v
	}
	for _, msg := range messages {
		switch msg.Role {
		case models.RoleUser:
			c.HasAskedBefore[intent.Classify(msg.Content)] = true
			c.absorbCode(msg.Content)
		case models.RoleAssistant:
			c.UsedResponses[msg.Content] = true
		}
		c.absorbCartTotal(msg.Content)
	}
	a.applyPageData(&c)
	return c
}

func (c *Context) absorbCode(text string) {
	matches := codePattern.FindAllString(text, -1)
	if len(matches) > 0 {
		c.RequestedCode = strings.ToUpper(matches[len(matches)-1])
	}
}

func (c *Context) absorbCartTotal(text string) {
	matches := cartPattern.FindAllStringSubmatch(text, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		v, err := strconv.ParseFloat(matches[i][1], 64)
		if err != nil {
			continue
		}
		c.CartTotal = &v
		return
	}
}

func (a *Assistant) applyPageData(c *Context) {
	if a.pageData == nil {
		return
	}
	coupons := a.pageData.GetCoupons()
	if coupons == nil {
		return
	}
	c.CouponCount = len(coupons)
	ranked := a.scorer.Rank(coupons, c.CartTotal)
	if len(ranked) > 0 {
		c.BestDiscount = strconv.FormatFloat(ranked[0].DiscountValue, 'f', -1, 64)
	}
}
