package handlers

import (
	"strconv"

	"github.com/energyrank/energyrank-backend/internal/services"
	"github.com/energyrank/energyrank-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

func (h *LeaderboardHandler) TopProducts(c *gin.Context) {
	filter, page, ok := parseLeaderboardQuery(c)
	if !ok {
		return
	}

	board, err := h.leaderboardService.TopProducts(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, "Failed to build product chart", err)
		return
	}
	utils.SendSuccess(c, "Product chart retrieved successfully", board)
}

func (h *LeaderboardHandler) TopBrands(c *gin.Context) {
	filter, page, ok := parseLeaderboardQuery(c)
	if !ok {
		return
	}

	board, err := h.leaderboardService.TopBrands(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, "Failed to build brand chart", err)
		return
	}
	utils.SendSuccess(c, "Brand chart retrieved successfully", board)
}

func parseLeaderboardQuery(c *gin.Context) (services.LeaderboardFilter, services.Page, bool) {
	var filter services.LeaderboardFilter
	var page services.Page

	filter.Search = c.Query("search")

	if raw := c.Query("min_rating"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.SendValidationError(c, "Invalid min_rating")
			return filter, page, false
		}
		filter.MinRating = &value
	}
	if raw := c.Query("max_rating"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.SendValidationError(c, "Invalid max_rating")
			return filter, page, false
		}
		filter.MaxRating = &value
	}
	if raw := c.Query("brand_id"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.SendValidationError(c, "Invalid brand_id")
			return filter, page, false
		}
		brandID := uint(value)
		filter.BrandID = &brandID
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		utils.SendValidationError(c, "Invalid limit")
		return filter, page, false
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		utils.SendValidationError(c, "Invalid offset")
		return filter, page, false
	}
	page.Limit = limit
	page.Offset = offset
	return filter, page, true
}
