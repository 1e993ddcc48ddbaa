package handlers

import (
	"github.com/energyrank/energyrank-backend/internal/services"
	"github.com/energyrank/energyrank-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type BrandHandler struct {
	ratingService      *services.RatingService
	leaderboardService *services.LeaderboardService
}

func NewBrandHandler(ratingService *services.RatingService, leaderboardService *services.LeaderboardService) *BrandHandler {
	return &BrandHandler{
		ratingService:      ratingService,
		leaderboardService: leaderboardService,
	}
}

// GetBrand returns one brand with its freshly computed aggregate.
func (h *BrandHandler) GetBrand(c *gin.Context) {
	brandID, ok := parseIDParam(c, "brand_id")
	if !ok {
		return
	}

	detail, err := h.ratingService.BrandDetail(c.Request.Context(), brandID)
	if err != nil {
		respondError(c, "Failed to fetch brand", err)
		return
	}
	utils.SendSuccess(c, "Brand retrieved successfully", detail)
}

// GetBrandProducts returns the brand's products ordered by the canonical
// chart order, each carrying its chart-wide absolute rank.
func (h *BrandHandler) GetBrandProducts(c *gin.Context) {
	brandID, ok := parseIDParam(c, "brand_id")
	if !ok {
		return
	}
	page, ok := parsePageQuery(c)
	if !ok {
		return
	}

	// Brand existence gives callers NotFound instead of an empty chart.
	if _, err := h.ratingService.BrandDetail(c.Request.Context(), brandID); err != nil {
		respondError(c, "Failed to fetch brand", err)
		return
	}

	filter := services.LeaderboardFilter{BrandID: &brandID}
	board, err := h.leaderboardService.TopProducts(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, "Failed to fetch brand products", err)
		return
	}
	utils.SendSuccess(c, "Brand products retrieved successfully", board)
}
