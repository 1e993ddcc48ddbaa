package store

import (
	"context"
	"fmt"

	"github.com/energyrank/energyrank-backend/internal/models"
	"gorm.io/gorm"
)

type GormReviewStore struct {
	db *gorm.DB
}

func NewGormReviewStore(db *gorm.DB) *GormReviewStore {
	return &GormReviewStore{db: db}
}

func (s *GormReviewStore) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := s.db.WithContext(ctx).Preload("Ratings").First(&review, id).Error
	if err != nil {
		return nil, translateGormError(err, "review")
	}
	return &review, nil
}

func (s *GormReviewStore) GetReviewByAuthorAndProduct(ctx context.Context, authorID, productID uint) (*models.Review, error) {
	var review models.Review
	err := s.db.WithContext(ctx).
		Where("author_id = ? AND product_id = ?", authorID, productID).
		First(&review).Error
	if err != nil {
		return nil, translateGormError(err, "review")
	}
	return &review, nil
}

func (s *GormReviewStore) ListReviewsOfProduct(ctx context.Context, productID uint, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	query := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list reviews of product %d: %w", productID, err)
	}
	return reviews, nil
}

func (s *GormReviewStore) ListReviewsOfUser(ctx context.Context, userID uint, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	query := s.db.WithContext(ctx).
		Where("author_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list reviews of user %d: %w", userID, err)
	}
	return reviews, nil
}

func (s *GormReviewStore) ListRatings(ctx context.Context, reviewID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	err := s.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("criterion_id").
		Find(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("list ratings of review %d: %w", reviewID, err)
	}
	return ratings, nil
}

func (s *GormReviewStore) ListRatingsForReviews(ctx context.Context, reviewIDs []uint) ([]models.Rating, error) {
	if len(reviewIDs) == 0 {
		return nil, nil
	}
	var ratings []models.Rating
	err := s.db.WithContext(ctx).
		Where("review_id IN ?", reviewIDs).
		Order("review_id, criterion_id").
		Find(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("list ratings for reviews: %w", err)
	}
	return ratings, nil
}

func (s *GormReviewStore) StatsByProduct(ctx context.Context, productIDs ...uint) (map[uint]ProductStats, error) {
	query := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("reviews.product_id AS product_id, " +
			"COALESCE(SUM(ratings.value), 0) AS rating_sum, " +
			"COUNT(ratings.id) AS rating_count, " +
			"COUNT(DISTINCT reviews.id) AS review_count").
		Joins("LEFT JOIN ratings ON ratings.review_id = reviews.id").
		Group("reviews.product_id")
	if len(productIDs) > 0 {
		query = query.Where("reviews.product_id IN ?", productIDs)
	}

	var rows []ProductStats
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("product rating stats: %w", err)
	}

	stats := make(map[uint]ProductStats, len(rows))
	for _, row := range rows {
		stats[row.ProductID] = row
	}
	return stats, nil
}

func (s *GormReviewStore) InsertReview(ctx context.Context, review *models.Review, ratings []models.Rating) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		if len(ratings) == 0 {
			return nil
		}
		for i := range ratings {
			ratings[i].ReviewID = review.ID
		}
		return tx.Create(&ratings).Error
	})
	if err != nil {
		return translateGormError(err, "review")
	}
	review.Ratings = ratings
	return nil
}

func (s *GormReviewStore) UpdateReview(ctx context.Context, review *models.Review, ratings []models.Rating, replaceRatings bool) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"text":      review.Text,
			"image_url": review.ImageURL,
		}
		if err := tx.Model(&models.Review{}).Where("id = ?", review.ID).Updates(updates).Error; err != nil {
			return err
		}
		if !replaceRatings {
			return nil
		}
		// Full replacement, never a partial merge.
		if err := tx.Where("review_id = ?", review.ID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		if len(ratings) == 0 {
			return nil
		}
		for i := range ratings {
			ratings[i].ID = 0
			ratings[i].ReviewID = review.ID
		}
		return tx.Create(&ratings).Error
	})
	if err != nil {
		return translateGormError(err, "review")
	}
	if replaceRatings {
		review.Ratings = ratings
	}
	return nil
}

func (s *GormReviewStore) DeleteReview(ctx context.Context, reviewID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Review{}, reviewID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return translateGormError(err, "review")
	}
	return nil
}
