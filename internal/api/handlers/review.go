package handlers

import (
	"github.com/energyrank/energyrank-backend/internal/services"
	"github.com/energyrank/energyrank-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.SubmitReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	review, err := h.reviewService.SubmitReview(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, "Failed to create review", err)
		return
	}
	utils.SendCreated(c, "Review created successfully", review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	var req services.UpdateReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), reviewID, userID, req)
	if err != nil {
		respondError(c, "Failed to update review", err)
		return
	}
	utils.SendSuccess(c, "Review updated successfully", review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	caller := services.Identity{
		UserID:   c.GetUint("user_id"),
		Elevated: c.GetBool("is_elevated"),
	}

	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), reviewID, caller); err != nil {
		respondError(c, "Failed to delete review", err)
		return
	}
	utils.SendSuccess(c, "Review deleted successfully", nil)
}
