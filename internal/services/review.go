package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/energyrank/energyrank-backend/internal/models"
	"github.com/energyrank/energyrank-backend/internal/store"
	"github.com/energyrank/energyrank-backend/internal/utils"
)

// Identity is the authenticated caller as reported by the identity
// collaborator. The engine trusts it as given input.
type Identity struct {
	UserID   uint
	Elevated bool
}

type RatingInput struct {
	CriterionID uint    `json:"criterion_id" binding:"required"`
	Value       float64 `json:"value"`
}

type SubmitReviewInput struct {
	ProductID uint          `json:"product_id" binding:"required"`
	Text      string        `json:"text"`
	Ratings   []RatingInput `json:"ratings" binding:"required"`
}

// UpdateReviewInput carries only the fields the caller wants to change.
// A non-nil Ratings slice fully replaces the prior set.
type UpdateReviewInput struct {
	Text    *string        `json:"text"`
	Ratings *[]RatingInput `json:"ratings"`
}

// ReviewDetail is a review together with its ratings and their pooled mean.
type ReviewDetail struct {
	models.Review
	ProductName string  `json:"product_name,omitempty"`
	BrandName   string  `json:"brand_name,omitempty"`
	Average     float64 `json:"average_rating"`
}

// ReviewService owns the review write path and the one-review-per-
// (author, product) rule. Every mutation is a single store transaction.
type ReviewService struct {
	catalog store.CatalogStore
	reviews store.ReviewStore
	users   store.UserStore
}

func NewReviewService(catalog store.CatalogStore, reviews store.ReviewStore, users store.UserStore) *ReviewService {
	return &ReviewService{
		catalog: catalog,
		reviews: reviews,
		users:   users,
	}
}

// SubmitReview creates a review and its initial rating set atomically. The
// duplicate pre-check is an optimization only; the authoritative guard is the
// store's unique index, whose violation surfaces here as a conflict.
func (s *ReviewService) SubmitReview(ctx context.Context, userID uint, in SubmitReviewInput) (*models.Review, error) {
	ratings, err := s.buildRatings(ctx, in.Ratings)
	if err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetProduct(ctx, in.ProductID); err != nil {
		return nil, fromStore(err, "submit review")
	}
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, fromStore(err, "submit review")
	}

	if _, err := s.reviews.GetReviewByAuthorAndProduct(ctx, userID, in.ProductID); err == nil {
		return nil, fmt.Errorf("%w: user %d already reviewed product %d", ErrConflict, userID, in.ProductID)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fromStore(err, "submit review")
	}

	review := &models.Review{
		ProductID: in.ProductID,
		AuthorID:  userID,
		Text:      utils.SanitizeString(in.Text),
	}
	if err := s.reviews.InsertReview(ctx, review, ratings); err != nil {
		return nil, fromStore(err, "submit review")
	}
	return review, nil
}

// UpdateReview lets the original author change the text and/or replace the
// rating set. Replacement is all-or-nothing, never a partial merge.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, callerUserID uint, in UpdateReviewInput) (*models.Review, error) {
	review, err := s.reviews.GetReview(ctx, reviewID)
	if err != nil {
		return nil, fromStore(err, "update review")
	}
	if review.AuthorID != callerUserID {
		return nil, fmt.Errorf("%w: only the author may update a review", ErrForbidden)
	}

	var ratings []models.Rating
	replace := in.Ratings != nil
	if replace {
		ratings, err = s.buildRatings(ctx, *in.Ratings)
		if err != nil {
			return nil, err
		}
	}
	if in.Text != nil {
		review.Text = utils.SanitizeString(*in.Text)
	}

	if err := s.reviews.UpdateReview(ctx, review, ratings, replace); err != nil {
		return nil, fromStore(err, "update review")
	}
	return review, nil
}

// DeleteReview removes a review and its ratings. Allowed for the author and
// for elevated callers.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID uint, caller Identity) error {
	review, err := s.reviews.GetReview(ctx, reviewID)
	if err != nil {
		return fromStore(err, "delete review")
	}
	if review.AuthorID != caller.UserID && !caller.Elevated {
		return fmt.Errorf("%w: only the author or an elevated caller may delete a review", ErrForbidden)
	}
	if err := s.reviews.DeleteReview(ctx, reviewID); err != nil {
		return fromStore(err, "delete review")
	}
	return nil
}

// ListProductReviews returns one page of a product's reviews, each with its
// ratings and their pooled mean.
func (s *ReviewService) ListProductReviews(ctx context.Context, productID uint, page Page) ([]ReviewDetail, error) {
	page, err := page.normalize()
	if err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, fromStore(err, "list product reviews")
	}

	reviews, err := s.reviews.ListReviewsOfProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, fromStore(err, "list product reviews")
	}
	return s.attachRatings(ctx, reviews, nil)
}

// ListUserReviews returns one page of a user's reviews with product and brand
// names attached.
func (s *ReviewService) ListUserReviews(ctx context.Context, userID uint, page Page) ([]ReviewDetail, error) {
	page, err := page.normalize()
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, fromStore(err, "list user reviews")
	}

	reviews, err := s.reviews.ListReviewsOfUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, fromStore(err, "list user reviews")
	}

	productIDs := make([]uint, 0, len(reviews))
	for _, review := range reviews {
		productIDs = append(productIDs, review.ProductID)
	}
	products, err := s.catalog.ListProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, fromStore(err, "list user reviews")
	}
	productByID := make(map[uint]*models.Product, len(products))
	for i := range products {
		productByID[products[i].ID] = &products[i]
	}
	return s.attachRatings(ctx, reviews, productByID)
}

// buildRatings validates the supplied (criterion, value) pairs against the
// criteria catalog and the 0..10 range before any row is written.
func (s *ReviewService) buildRatings(ctx context.Context, inputs []RatingInput) ([]models.Rating, error) {
	criteria, err := s.catalog.ListCriteria(ctx)
	if err != nil {
		return nil, fromStore(err, "validate ratings")
	}
	known := make(map[uint]struct{}, len(criteria))
	for _, criterion := range criteria {
		known[criterion.ID] = struct{}{}
	}

	ratings := make([]models.Rating, 0, len(inputs))
	seen := make(map[uint]struct{}, len(inputs))
	for _, in := range inputs {
		if !utils.IsValidRatingValue(in.Value) {
			return nil, fmt.Errorf("%w: rating value %.4f outside 0..10", ErrInvalid, in.Value)
		}
		if _, ok := known[in.CriterionID]; !ok {
			return nil, fmt.Errorf("%w: criterion %d", ErrNotFound, in.CriterionID)
		}
		if _, dup := seen[in.CriterionID]; dup {
			return nil, fmt.Errorf("%w: criterion %d rated twice", ErrInvalid, in.CriterionID)
		}
		seen[in.CriterionID] = struct{}{}
		ratings = append(ratings, models.Rating{
			CriterionID: in.CriterionID,
			Value:       in.Value,
		})
	}
	return ratings, nil
}

func (s *ReviewService) attachRatings(ctx context.Context, reviews []models.Review, productByID map[uint]*models.Product) ([]ReviewDetail, error) {
	reviewIDs := make([]uint, len(reviews))
	for i, review := range reviews {
		reviewIDs[i] = review.ID
	}
	ratings, err := s.reviews.ListRatingsForReviews(ctx, reviewIDs)
	if err != nil {
		return nil, fromStore(err, "list ratings")
	}
	ratingsOfReview := make(map[uint][]models.Rating, len(reviews))
	for _, rating := range ratings {
		ratingsOfReview[rating.ReviewID] = append(ratingsOfReview[rating.ReviewID], rating)
	}

	details := make([]ReviewDetail, 0, len(reviews))
	for _, review := range reviews {
		review.Ratings = ratingsOfReview[review.ID]
		detail := ReviewDetail{Review: review}
		if len(review.Ratings) > 0 {
			var sum float64
			for _, rating := range review.Ratings {
				sum += rating.Value
			}
			detail.Average = Round4(sum / float64(len(review.Ratings)))
		}
		if product, ok := productByID[review.ProductID]; ok {
			detail.ProductName = product.Name
			detail.BrandName = product.Brand.Name
		}
		details = append(details, detail)
	}
	return details, nil
}
