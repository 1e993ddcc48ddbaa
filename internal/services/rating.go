package services

import (
	"context"
	"math"
	"sort"

	"github.com/energyrank/energyrank-backend/internal/models"
	"github.com/energyrank/energyrank-backend/internal/store"
)

// BrandCombiner folds the averages of a brand's rated products into the brand
// average. Swapping the policy here leaves ranking and pagination untouched.
type BrandCombiner func(productAverages []float64) float64

// MeanOfProductMeans is the default brand policy: an unweighted mean of
// per-product means. A product with three ratings counts exactly as much as a
// product with three hundred.
func MeanOfProductMeans(productAverages []float64) float64 {
	if len(productAverages) == 0 {
		return 0
	}
	var sum float64
	for _, avg := range productAverages {
		sum += avg
	}
	return sum / float64(len(productAverages))
}

// Round4 rounds half-up to four fractional digits, the precision every
// reported average uses.
func Round4(value float64) float64 {
	return math.Floor(value*10000+0.5) / 10000
}

type ProductAggregate struct {
	ProductID   uint    `json:"product_id"`
	Average     float64 `json:"average_rating"`
	RatingCount int64   `json:"rating_count"`
	ReviewCount int64   `json:"review_count"`
}

type BrandAggregate struct {
	BrandID           uint    `json:"brand_id"`
	Average           float64 `json:"average_rating"`
	ProductCount      int64   `json:"product_count"`
	RatedProductCount int64   `json:"rated_product_count"`
	ReviewCount       int64   `json:"review_count"`
	RatingCount       int64   `json:"rating_count"`
}

type UserProfile struct {
	UserID          uint            `json:"user_id"`
	ReviewCount     int64           `json:"review_count"`
	Average         float64         `json:"average_rating"`
	FavoriteBrand   *models.Brand   `json:"favorite_brand,omitempty"`
	FavoriteProduct *models.Product `json:"favorite_product,omitempty"`
}

// RatingService recomputes aggregates from current rows on every call.
// Nothing is cached or persisted, so reads are always current and repeated
// calls without intervening writes return identical results.
type RatingService struct {
	catalog store.CatalogStore
	reviews store.ReviewStore
	users   store.UserStore
	combine BrandCombiner
}

func NewRatingService(catalog store.CatalogStore, reviews store.ReviewStore, users store.UserStore, combine BrandCombiner) *RatingService {
	if combine == nil {
		combine = MeanOfProductMeans
	}
	return &RatingService{
		catalog: catalog,
		reviews: reviews,
		users:   users,
		combine: combine,
	}
}

// ProductAverage pools every rating value across every review of the product,
// over all criteria together. A product that exists but has no ratings yields
// a zero aggregate with zero counts; a missing product is a NotFound error.
func (s *RatingService) ProductAverage(ctx context.Context, productID uint) (*ProductAggregate, error) {
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, fromStore(err, "product average")
	}

	stats, err := s.reviews.StatsByProduct(ctx, productID)
	if err != nil {
		return nil, fromStore(err, "product average")
	}

	agg := &ProductAggregate{ProductID: productID}
	if st, ok := stats[productID]; ok {
		agg.RatingCount = st.RatingCount
		agg.ReviewCount = st.ReviewCount
		if st.RatingCount > 0 {
			agg.Average = Round4(st.RatingSum / float64(st.RatingCount))
		}
	}
	return agg, nil
}

// BrandAverage combines the averages of the brand's rated products. Unrated
// products are excluded from the combine step but still counted in
// ProductCount.
func (s *RatingService) BrandAverage(ctx context.Context, brandID uint) (*BrandAggregate, error) {
	if _, err := s.catalog.GetBrand(ctx, brandID); err != nil {
		return nil, fromStore(err, "brand average")
	}

	products, err := s.catalog.ListProductsOfBrand(ctx, brandID)
	if err != nil {
		return nil, fromStore(err, "brand average")
	}

	agg := &BrandAggregate{BrandID: brandID, ProductCount: int64(len(products))}
	if len(products) == 0 {
		return agg, nil
	}

	ids := make([]uint, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	stats, err := s.reviews.StatsByProduct(ctx, ids...)
	if err != nil {
		return nil, fromStore(err, "brand average")
	}

	var averages []float64
	for _, p := range products {
		st, ok := stats[p.ID]
		if !ok {
			continue
		}
		agg.ReviewCount += st.ReviewCount
		agg.RatingCount += st.RatingCount
		if st.RatingCount > 0 {
			averages = append(averages, Round4(st.RatingSum/float64(st.RatingCount)))
		}
	}
	agg.RatedProductCount = int64(len(averages))
	if agg.RatedProductCount > 0 {
		agg.Average = Round4(s.combine(averages))
	}
	return agg, nil
}

// ProductDetail is a catalog product together with its current aggregate.
type ProductDetail struct {
	models.Product
	Average     float64 `json:"average_rating"`
	RatingCount int64   `json:"rating_count"`
	ReviewCount int64   `json:"review_count"`
}

// BrandDetail is a brand together with its current aggregate.
type BrandDetail struct {
	models.Brand
	BrandAggregate
}

func (s *RatingService) ProductDetail(ctx context.Context, productID uint) (*ProductDetail, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, fromStore(err, "product detail")
	}
	agg, err := s.ProductAverage(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{
		Product:     *product,
		Average:     agg.Average,
		RatingCount: agg.RatingCount,
		ReviewCount: agg.ReviewCount,
	}, nil
}

func (s *RatingService) BrandDetail(ctx context.Context, brandID uint) (*BrandDetail, error) {
	brand, err := s.catalog.GetBrand(ctx, brandID)
	if err != nil {
		return nil, fromStore(err, "brand detail")
	}
	agg, err := s.BrandAverage(ctx, brandID)
	if err != nil {
		return nil, err
	}
	return &BrandDetail{Brand: *brand, BrandAggregate: *agg}, nil
}

// UserProfile computes a user's review statistics. The average divides the
// summed rating values by reviewCount x the catalog-wide criteria count: a
// review that skips criteria is penalized for the ones it left unrated. This
// is the criteria-coverage-penalty policy, kept deliberately.
func (s *RatingService) UserProfile(ctx context.Context, userID uint) (*UserProfile, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, fromStore(err, "user profile")
	}

	reviews, err := s.reviews.ListReviewsOfUser(ctx, userID, 0, 0)
	if err != nil {
		return nil, fromStore(err, "user profile")
	}

	profile := &UserProfile{UserID: userID, ReviewCount: int64(len(reviews))}
	if len(reviews) == 0 {
		return profile, nil
	}

	criteria, err := s.catalog.ListCriteria(ctx)
	if err != nil {
		return nil, fromStore(err, "user profile")
	}

	reviewIDs := make([]uint, len(reviews))
	productOfReview := make(map[uint]uint, len(reviews))
	productIDs := make([]uint, 0, len(reviews))
	for i, review := range reviews {
		reviewIDs[i] = review.ID
		productOfReview[review.ID] = review.ProductID
		productIDs = append(productIDs, review.ProductID)
	}

	ratings, err := s.reviews.ListRatingsForReviews(ctx, reviewIDs)
	if err != nil {
		return nil, fromStore(err, "user profile")
	}

	products, err := s.catalog.ListProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, fromStore(err, "user profile")
	}
	productByID := make(map[uint]*models.Product, len(products))
	for i := range products {
		productByID[products[i].ID] = &products[i]
	}

	var total float64
	productSums := make(map[uint]float64)
	brandSums := make(map[uint]float64)
	for _, rating := range ratings {
		total += rating.Value
		productID := productOfReview[rating.ReviewID]
		productSums[productID] += rating.Value
		if product, ok := productByID[productID]; ok {
			brandSums[product.BrandID] += rating.Value
		}
	}

	denominator := profile.ReviewCount * int64(len(criteria))
	if denominator > 0 {
		profile.Average = Round4(total / float64(denominator))
	}

	if favoriteID, ok := maxSumID(productSums); ok {
		profile.FavoriteProduct = productByID[favoriteID]
	}
	if favoriteID, ok := maxSumID(brandSums); ok {
		brand, err := s.catalog.GetBrand(ctx, favoriteID)
		if err != nil {
			return nil, fromStore(err, "user profile")
		}
		profile.FavoriteBrand = brand
	}
	return profile, nil
}

// maxSumID picks the id with the highest summed value. Candidates are visited
// in ascending id order and only a strictly greater sum displaces the current
// maximum, so ties resolve to the lowest id.
func maxSumID(sums map[uint]float64) (uint, bool) {
	if len(sums) == 0 {
		return 0, false
	}
	ids := make([]uint, 0, len(sums))
	for id := range sums {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	best := ids[0]
	for _, id := range ids[1:] {
		if sums[id] > sums[best] {
			best = id
		}
	}
	return best, true
}
