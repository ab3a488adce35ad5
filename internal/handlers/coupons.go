package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/avvvet/couponbuddy-assistant/internal/coupons"
	"github.com/avvvet/couponbuddy-assistant/internal/models"
	"github.com/avvvet/couponbuddy-assistant/internal/ranking"
)

// CouponHandler ranks coupons and derives recommendations for a domain
type CouponHandler struct {
	source      coupons.Source
	scorer      *ranking.Scorer
	recommender *ranking.Recommender
}

// NewCouponHandler creates a coupon handler sharing scorer with the recommender
func NewCouponHandler(source coupons.Source, scorer *ranking.Scorer) *CouponHandler {
	return &CouponHandler{
		source:      source,
		scorer:      scorer,
		recommender: ranking.NewRecommender(scorer),
	}
}

// Rank returns the ranked coupons together with recommendations
func (h *CouponHandler) Rank(ctx context.Context, request *models.RankRequest) (*models.RankResponse, error) {
	list, errResp := h.resolve(ctx, request)
	if errResp != nil {
		return errResp, nil
	}

	log.Printf("Ranking %d coupons for %s", len(list), request.Domain)

	return &models.RankResponse{
		Domain:          request.Domain,
		Coupons:         h.scorer.Rank(list, request.CartTotal),
		Recommendations: h.recommender.Recommend(list, request.CartTotal),
	}, nil
}

// Recommend returns recommendations only
func (h *CouponHandler) Recommend(ctx context.Context, request *models.RankRequest) (*models.RankResponse, error) {
	list, errResp := h.resolve(ctx, request)
	if errResp != nil {
		return errResp, nil
	}

	recs := h.recommender.Recommend(list, request.CartTotal)
	log.Printf("Generated %d recommendations for %s", len(recs), request.Domain)

	return &models.RankResponse{
		Domain:          request.Domain,
		Coupons:         []models.RankedCoupon{},
		Recommendations: recs,
	}, nil
}

// List returns the domain's coupons as tagged views: ranked when a cart
// total is known, raw otherwise.
func (h *CouponHandler) List(ctx context.Context, domain string, cartTotal *float64) ([]models.TaggedCoupon, error) {
	list, err := h.source.Coupons(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch coupons: %w", err)
	}

	views := make([]models.CouponView, 0, len(list))
	if cartTotal == nil {
		for _, c := range list {
			views = append(views, c)
		}
	} else {
		for _, rc := range h.scorer.Rank(list, cartTotal) {
			views = append(views, rc)
		}
	}

	out := make([]models.TaggedCoupon, len(views))
	for i, v := range views {
		out[i] = models.Tag(v)
	}
	return out, nil
}

// resolve returns the inline coupons, or fetches them from the source
func (h *CouponHandler) resolve(ctx context.Context, request *models.RankRequest) ([]models.Coupon, *models.RankResponse) {
	if request.Coupons != nil {
		return request.Coupons, nil
	}
	if request.Domain == "" {
		return nil, h.createErrorResponse(request, models.ErrorParseError, "domain or coupons is required")
	}

	list, err := h.source.Coupons(ctx, request.Domain)
	if err != nil {
		log.Printf("Failed to fetch coupons for %s: %v", request.Domain, err)
		return nil, h.createErrorResponse(request, models.ErrorSourceFailed, err.Error())
	}
	return list, nil
}

func (h *CouponHandler) createErrorResponse(request *models.RankRequest, errorCode, errorMessage string) *models.RankResponse {
	return &models.RankResponse{
		Domain:          request.Domain,
		Coupons:         []models.RankedCoupon{},
		Recommendations: []models.AIRecommendation{},
		ErrorCode:       &errorCode,
		ErrorMessage:    &errorMessage,
	}
}
