package handlers

import (
	"github.com/energyrank/energyrank-backend/internal/services"
	"github.com/energyrank/energyrank-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	ratingService *services.RatingService
	reviewService *services.ReviewService
}

func NewUserHandler(ratingService *services.RatingService, reviewService *services.ReviewService) *UserHandler {
	return &UserHandler{
		ratingService: ratingService,
		reviewService: reviewService,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	profile, err := h.ratingService.UserProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Failed to fetch user profile", err)
		return
	}
	utils.SendSuccess(c, "User profile retrieved successfully", profile)
}

func (h *UserHandler) GetUserReviews(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	page, ok := parsePageQuery(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListUserReviews(c.Request.Context(), userID, page)
	if err != nil {
		respondError(c, "Failed to fetch user reviews", err)
		return
	}
	utils.SendSuccess(c, "User reviews retrieved successfully", reviews)
}
