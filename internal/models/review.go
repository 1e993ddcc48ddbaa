package models

import (
	"time"
)

// Review is one user's submission for one product. The composite unique
// index is the authoritative guard for the one-review-per-(author, product)
// rule; service-level pre-checks are an optimization only.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_reviews_author_product,priority:2"`
	AuthorID  uint      `json:"author_id" gorm:"not null;uniqueIndex:idx_reviews_author_product,priority:1"`
	Text      string    `json:"text,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Product Product  `json:"product,omitempty"`
	Author  User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Ratings []Rating `json:"ratings,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// Rating is a single (criterion, value) pair attached to a review.
// Value is on the 0..10 scale with four fractional digits.
type Rating struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	ReviewID    uint    `json:"review_id" gorm:"not null;uniqueIndex:idx_ratings_review_criterion,priority:1"`
	CriterionID uint    `json:"criterion_id" gorm:"not null;uniqueIndex:idx_ratings_review_criterion,priority:2"`
	Value       float64 `json:"value" gorm:"type:numeric(6,4);not null"`

	// Relations
	Criterion Criterion `json:"criterion,omitempty"`
}
