package store

import (
	"context"
	"errors"

	"github.com/energyrank/energyrank-backend/internal/models"
)

// Storage-level sentinel errors. The service layer translates these into its
// own taxonomy; no gorm error type leaves this package.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// ProductStats is one row of the bulk per-product rating scan: the raw
// ingredients of a product average, never the average itself.
type ProductStats struct {
	ProductID   uint
	RatingSum   float64
	RatingCount int64
	ReviewCount int64
}

// CatalogStore provides read access to brands, products and criteria.
type CatalogStore interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	GetBrand(ctx context.Context, id uint) (*models.Brand, error)
	GetCriterion(ctx context.Context, id uint) (*models.Criterion, error)
	ListCriteria(ctx context.Context) ([]models.Criterion, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	// ListProducts returns every product with its brand attached.
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListProductsOfBrand(ctx context.Context, brandID uint) ([]models.Product, error)
	ListProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
}

// ReviewStore provides read access to review and rating rows plus the
// transactional write path. All multi-row mutations are all-or-nothing.
type ReviewStore interface {
	GetReview(ctx context.Context, id uint) (*models.Review, error)
	GetReviewByAuthorAndProduct(ctx context.Context, authorID, productID uint) (*models.Review, error)
	// ListReviewsOfProduct and ListReviewsOfUser apply limit/offset when
	// limit > 0 and return the full set otherwise.
	ListReviewsOfProduct(ctx context.Context, productID uint, limit, offset int) ([]models.Review, error)
	ListReviewsOfUser(ctx context.Context, userID uint, limit, offset int) ([]models.Review, error)
	ListRatings(ctx context.Context, reviewID uint) ([]models.Rating, error)
	ListRatingsForReviews(ctx context.Context, reviewIDs []uint) ([]models.Rating, error)
	// StatsByProduct performs one grouped scan over reviews and ratings.
	// With no ids it covers every product that has at least one review;
	// products absent from the result have no reviews at all.
	StatsByProduct(ctx context.Context, productIDs ...uint) (map[uint]ProductStats, error)

	// InsertReview creates the review and its initial rating set in one
	// transaction. A violation of the (author, product) unique index is
	// reported as ErrDuplicate.
	InsertReview(ctx context.Context, review *models.Review, ratings []models.Rating) error
	// UpdateReview persists the review's text fields and, when
	// replaceRatings is set, swaps the full rating set in the same
	// transaction.
	UpdateReview(ctx context.Context, review *models.Review, ratings []models.Rating, replaceRatings bool) error
	// DeleteReview removes the review's ratings and then the review itself
	// in one transaction.
	DeleteReview(ctx context.Context, reviewID uint) error
}

// UserStore provides the existence checks the write path and profile
// statistics need. User rows themselves are owned by the identity provider.
type UserStore interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}
