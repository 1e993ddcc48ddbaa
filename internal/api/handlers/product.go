package handlers

import (
	"strconv"

	"github.com/energyrank/energyrank-backend/internal/services"
	"github.com/energyrank/energyrank-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	ratingService *services.RatingService
	reviewService *services.ReviewService
}

func NewProductHandler(ratingService *services.RatingService, reviewService *services.ReviewService) *ProductHandler {
	return &ProductHandler{
		ratingService: ratingService,
		reviewService: reviewService,
	}
}

// GetProduct returns one product with its freshly computed aggregate.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}

	detail, err := h.ratingService.ProductDetail(c.Request.Context(), productID)
	if err != nil {
		respondError(c, "Failed to fetch product", err)
		return
	}
	utils.SendSuccess(c, "Product retrieved successfully", detail)
}

// GetProductReviews returns one page of a product's reviews with ratings.
func (h *ProductHandler) GetProductReviews(c *gin.Context) {
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	page, ok := parsePageQuery(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListProductReviews(c.Request.Context(), productID, page)
	if err != nil {
		respondError(c, "Failed to fetch reviews", err)
		return
	}
	utils.SendSuccess(c, "Reviews retrieved successfully", reviews)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.SendValidationError(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func parsePageQuery(c *gin.Context) (services.Page, bool) {
	var page services.Page
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		utils.SendValidationError(c, "Invalid limit")
		return page, false
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		utils.SendValidationError(c, "Invalid offset")
		return page, false
	}
	page.Limit = limit
	page.Offset = offset
	return page, true
}
