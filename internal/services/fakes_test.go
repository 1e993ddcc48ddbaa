package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/energyrank/energyrank-backend/internal/models"
	"github.com/energyrank/energyrank-backend/internal/store"
)

// fakeStore is an in-memory implementation of the store contracts, shared by
// the calculator, leaderboard and write-path tests.
type fakeStore struct {
	brands   []models.Brand
	products []models.Product
	criteria []models.Criterion
	users    []models.User
	reviews  []models.Review
	ratings  []models.Rating

	nextReviewID uint
	nextRatingID uint

	// blindDuplicateCheck makes the duplicate pre-check miss, simulating
	// the check-then-insert race. The unique-index emulation in
	// InsertReview still fires.
	blindDuplicateCheck bool
}

var (
	_ store.CatalogStore = (*fakeStore)(nil)
	_ store.ReviewStore  = (*fakeStore)(nil)
	_ store.UserStore    = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{nextReviewID: 1, nextRatingID: 1}
}

func (f *fakeStore) addBrand(id uint, name string) {
	f.brands = append(f.brands, models.Brand{ID: id, Name: name})
}

func (f *fakeStore) addProduct(id, brandID uint, name string) {
	f.products = append(f.products, models.Product{ID: id, Name: name, BrandID: brandID})
}

func (f *fakeStore) addCriterion(id uint, name string) {
	f.criteria = append(f.criteria, models.Criterion{ID: id, Name: name})
}

func (f *fakeStore) addUser(id uint, name string) {
	f.users = append(f.users, models.User{ID: id, Username: name, Email: name + "@example.com"})
}

// addReview seeds a review plus one rating per (criterion, value) pair.
func (f *fakeStore) addReview(productID, authorID uint, values map[uint]float64) uint {
	review := models.Review{
		ID:        f.nextReviewID,
		ProductID: productID,
		AuthorID:  authorID,
		CreatedAt: time.Unix(int64(1700000000+f.nextReviewID), 0),
	}
	f.nextReviewID++
	f.reviews = append(f.reviews, review)

	criterionIDs := make([]uint, 0, len(values))
	for criterionID := range values {
		criterionIDs = append(criterionIDs, criterionID)
	}
	sort.Slice(criterionIDs, func(i, j int) bool { return criterionIDs[i] < criterionIDs[j] })
	for _, criterionID := range criterionIDs {
		f.ratings = append(f.ratings, models.Rating{
			ID:          f.nextRatingID,
			ReviewID:    review.ID,
			CriterionID: criterionID,
			Value:       values[criterionID],
		})
		f.nextRatingID++
	}
	return review.ID
}

func (f *fakeStore) brandByID(id uint) (models.Brand, bool) {
	for _, brand := range f.brands {
		if brand.ID == id {
			return brand, true
		}
	}
	return models.Brand{}, false
}

func (f *fakeStore) withBrand(product models.Product) models.Product {
	if brand, ok := f.brandByID(product.BrandID); ok {
		product.Brand = brand
	}
	return product
}

// --- CatalogStore ---

func (f *fakeStore) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	for _, product := range f.products {
		if product.ID == id {
			product = f.withBrand(product)
			return &product, nil
		}
	}
	return nil, fmt.Errorf("product: %w", store.ErrNotFound)
}

func (f *fakeStore) GetBrand(ctx context.Context, id uint) (*models.Brand, error) {
	if brand, ok := f.brandByID(id); ok {
		return &brand, nil
	}
	return nil, fmt.Errorf("brand: %w", store.ErrNotFound)
}

func (f *fakeStore) GetCriterion(ctx context.Context, id uint) (*models.Criterion, error) {
	for _, criterion := range f.criteria {
		if criterion.ID == id {
			return &criterion, nil
		}
	}
	return nil, fmt.Errorf("criterion: %w", store.ErrNotFound)
}

func (f *fakeStore) ListCriteria(ctx context.Context) ([]models.Criterion, error) {
	return append([]models.Criterion(nil), f.criteria...), nil
}

func (f *fakeStore) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return append([]models.Brand(nil), f.brands...), nil
}

func (f *fakeStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	out := make([]models.Product, len(f.products))
	for i, product := range f.products {
		out[i] = f.withBrand(product)
	}
	return out, nil
}

func (f *fakeStore) ListProductsOfBrand(ctx context.Context, brandID uint) ([]models.Product, error) {
	var out []models.Product
	for _, product := range f.products {
		if product.BrandID == brandID {
			out = append(out, f.withBrand(product))
		}
	}
	return out, nil
}

func (f *fakeStore) ListProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	wanted := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var out []models.Product
	for _, product := range f.products {
		if _, ok := wanted[product.ID]; ok {
			out = append(out, f.withBrand(product))
		}
	}
	return out, nil
}

// --- UserStore ---

func (f *fakeStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user: %w", store.ErrNotFound)
}

// --- ReviewStore ---

func (f *fakeStore) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	for _, review := range f.reviews {
		if review.ID == id {
			ratings, _ := f.ListRatings(ctx, id)
			review.Ratings = ratings
			return &review, nil
		}
	}
	return nil, fmt.Errorf("review: %w", store.ErrNotFound)
}

func (f *fakeStore) GetReviewByAuthorAndProduct(ctx context.Context, authorID, productID uint) (*models.Review, error) {
	if f.blindDuplicateCheck {
		return nil, fmt.Errorf("review: %w", store.ErrNotFound)
	}
	for _, review := range f.reviews {
		if review.AuthorID == authorID && review.ProductID == productID {
			return &review, nil
		}
	}
	return nil, fmt.Errorf("review: %w", store.ErrNotFound)
}

func (f *fakeStore) listReviews(match func(models.Review) bool, limit, offset int) []models.Review {
	var out []models.Review
	for _, review := range f.reviews {
		if match(review) {
			out = append(out, review)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit <= 0 {
		return out
	}
	if offset > len(out) {
		return nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeStore) ListReviewsOfProduct(ctx context.Context, productID uint, limit, offset int) ([]models.Review, error) {
	return f.listReviews(func(r models.Review) bool { return r.ProductID == productID }, limit, offset), nil
}

func (f *fakeStore) ListReviewsOfUser(ctx context.Context, userID uint, limit, offset int) ([]models.Review, error) {
	return f.listReviews(func(r models.Review) bool { return r.AuthorID == userID }, limit, offset), nil
}

func (f *fakeStore) ListRatings(ctx context.Context, reviewID uint) ([]models.Rating, error) {
	var out []models.Rating
	for _, rating := range f.ratings {
		if rating.ReviewID == reviewID {
			out = append(out, rating)
		}
	}
	return out, nil
}

func (f *fakeStore) ListRatingsForReviews(ctx context.Context, reviewIDs []uint) ([]models.Rating, error) {
	wanted := make(map[uint]struct{}, len(reviewIDs))
	for _, id := range reviewIDs {
		wanted[id] = struct{}{}
	}
	var out []models.Rating
	for _, rating := range f.ratings {
		if _, ok := wanted[rating.ReviewID]; ok {
			out = append(out, rating)
		}
	}
	return out, nil
}

func (f *fakeStore) StatsByProduct(ctx context.Context, productIDs ...uint) (map[uint]store.ProductStats, error) {
	wanted := make(map[uint]struct{}, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = struct{}{}
	}
	stats := make(map[uint]store.ProductStats)
	for _, review := range f.reviews {
		if len(productIDs) > 0 {
			if _, ok := wanted[review.ProductID]; !ok {
				continue
			}
		}
		st := stats[review.ProductID]
		st.ProductID = review.ProductID
		st.ReviewCount++
		for _, rating := range f.ratings {
			if rating.ReviewID == review.ID {
				st.RatingSum += rating.Value
				st.RatingCount++
			}
		}
		stats[review.ProductID] = st
	}
	return stats, nil
}

func (f *fakeStore) InsertReview(ctx context.Context, review *models.Review, ratings []models.Rating) error {
	// Unique-index emulation: the authoritative duplicate guard.
	for _, existing := range f.reviews {
		if existing.AuthorID == review.AuthorID && existing.ProductID == review.ProductID {
			return fmt.Errorf("review: %w", store.ErrDuplicate)
		}
	}
	review.ID = f.nextReviewID
	f.nextReviewID++
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Unix(int64(1700000000+review.ID), 0)
	}
	f.reviews = append(f.reviews, *review)
	for i := range ratings {
		ratings[i].ID = f.nextRatingID
		f.nextRatingID++
		ratings[i].ReviewID = review.ID
		f.ratings = append(f.ratings, ratings[i])
	}
	review.Ratings = ratings
	return nil
}

func (f *fakeStore) UpdateReview(ctx context.Context, review *models.Review, ratings []models.Rating, replaceRatings bool) error {
	found := false
	for i := range f.reviews {
		if f.reviews[i].ID == review.ID {
			f.reviews[i].Text = review.Text
			f.reviews[i].ImageURL = review.ImageURL
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("review: %w", store.ErrNotFound)
	}
	if !replaceRatings {
		return nil
	}
	kept := f.ratings[:0]
	for _, rating := range f.ratings {
		if rating.ReviewID != review.ID {
			kept = append(kept, rating)
		}
	}
	f.ratings = kept
	for i := range ratings {
		ratings[i].ID = f.nextRatingID
		f.nextRatingID++
		ratings[i].ReviewID = review.ID
		f.ratings = append(f.ratings, ratings[i])
	}
	review.Ratings = ratings
	return nil
}

func (f *fakeStore) DeleteReview(ctx context.Context, reviewID uint) error {
	found := false
	keptReviews := f.reviews[:0]
	for _, review := range f.reviews {
		if review.ID == reviewID {
			found = true
			continue
		}
		keptReviews = append(keptReviews, review)
	}
	if !found {
		return fmt.Errorf("review: %w", store.ErrNotFound)
	}
	f.reviews = keptReviews

	keptRatings := f.ratings[:0]
	for _, rating := range f.ratings {
		if rating.ReviewID != reviewID {
			keptRatings = append(keptRatings, rating)
		}
	}
	f.ratings = keptRatings
	return nil
}
