package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound4(t *testing.T) {
	assert.Equal(t, 7.6667, Round4(23.0/3.0))
	assert.Equal(t, 0.0, Round4(0))
	assert.Equal(t, 10.0, Round4(9.99999))
	assert.Equal(t, 0.1235, Round4(0.12345))
}

func newRatingFixture() *fakeStore {
	f := newFakeStore()
	f.addBrand(1, "Volt")
	f.addBrand(2, "Nitro")
	f.addCriterion(1, "taste")
	f.addCriterion(2, "price")
	f.addUser(1, "alice")
	f.addUser(2, "bob")
	f.addProduct(1, 1, "Volt Classic")
	f.addProduct(2, 1, "Volt Zero")
	f.addProduct(3, 2, "Nitro Surge")
	return f
}

func newRatingService(f *fakeStore) *RatingService {
	return NewRatingService(f, f, f, nil)
}

func TestProductAverageWorkedExample(t *testing.T) {
	f := newRatingFixture()
	// Review A rates taste=8 and price=6, review B rates taste=9 only.
	f.addReview(1, 1, map[uint]float64{1: 8.0, 2: 6.0})
	f.addReview(1, 2, map[uint]float64{1: 9.0})

	agg, err := newRatingService(f).ProductAverage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 7.6667, agg.Average)
	assert.Equal(t, int64(3), agg.RatingCount)
	assert.Equal(t, int64(2), agg.ReviewCount)
}

func TestProductAverageUnrated(t *testing.T) {
	f := newRatingFixture()

	agg, err := newRatingService(f).ProductAverage(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, agg.Average)
	assert.Equal(t, int64(0), agg.RatingCount)
	assert.Equal(t, int64(0), agg.ReviewCount)
}

func TestProductAverageNotFound(t *testing.T) {
	f := newRatingFixture()

	_, err := newRatingService(f).ProductAverage(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductAverageWithinScale(t *testing.T) {
	f := newRatingFixture()
	f.addReview(1, 1, map[uint]float64{1: 10.0, 2: 10.0})

	agg, err := newRatingService(f).ProductAverage(context.Background(), 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, agg.Average, 0.0)
	assert.LessOrEqual(t, agg.Average, 10.0)
}

func TestProductAverageIdempotent(t *testing.T) {
	f := newRatingFixture()
	f.addReview(1, 1, map[uint]float64{1: 7.5, 2: 3.25})
	svc := newRatingService(f)

	first, err := svc.ProductAverage(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.ProductAverage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBrandAverageExcludesUnratedProducts(t *testing.T) {
	f := newRatingFixture()
	// Product 1 averages 8.0, product 2 stays unrated.
	f.addReview(1, 1, map[uint]float64{1: 8.0})

	agg, err := newRatingService(f).BrandAverage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 8.0, agg.Average)
	assert.Equal(t, int64(2), agg.ProductCount)
	assert.Equal(t, int64(1), agg.RatedProductCount)
	assert.Equal(t, int64(1), agg.ReviewCount)
	assert.Equal(t, int64(1), agg.RatingCount)
}

func TestBrandAverageUnweighted(t *testing.T) {
	f := newRatingFixture()
	// Product 1 collects many ratings averaging 6, product 2 one rating of 10.
	f.addReview(1, 1, map[uint]float64{1: 6.0, 2: 6.0})
	f.addReview(1, 2, map[uint]float64{1: 6.0, 2: 6.0})
	f.addReview(2, 1, map[uint]float64{1: 10.0})

	agg, err := newRatingService(f).BrandAverage(context.Background(), 1)
	require.NoError(t, err)
	// Mean of per-product means, not of the pooled ratings.
	assert.Equal(t, 8.0, agg.Average)
}

func TestBrandAverageNoRatedProducts(t *testing.T) {
	f := newRatingFixture()

	agg, err := newRatingService(f).BrandAverage(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, agg.Average)
	assert.Equal(t, int64(1), agg.ProductCount)
	assert.Equal(t, int64(0), agg.RatedProductCount)
}

func TestBrandAverageNotFound(t *testing.T) {
	f := newRatingFixture()

	_, err := newRatingService(f).BrandAverage(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBrandCombinerSwappable(t *testing.T) {
	f := newRatingFixture()
	f.addReview(1, 1, map[uint]float64{1: 4.0})
	f.addReview(2, 1, map[uint]float64{1: 9.0})

	maxCombiner := func(averages []float64) float64 {
		var max float64
		for _, avg := range averages {
			if avg > max {
				max = avg
			}
		}
		return max
	}
	svc := NewRatingService(f, f, f, maxCombiner)

	agg, err := svc.BrandAverage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 9.0, agg.Average)
}

func TestUserProfileCriteriaCoveragePenalty(t *testing.T) {
	f := newRatingFixture()
	// Two criteria exist catalog-wide but the single review rates only one,
	// so the denominator is 1 review x 2 criteria.
	f.addReview(1, 1, map[uint]float64{1: 8.0})

	profile, err := newRatingService(f).UserProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.ReviewCount)
	assert.Equal(t, 4.0, profile.Average)
}

func TestUserProfileFavorites(t *testing.T) {
	f := newRatingFixture()
	// Product 1 (Volt) sums to 14, product 3 (Nitro) to 9.
	f.addReview(1, 1, map[uint]float64{1: 8.0, 2: 6.0})
	f.addReview(3, 1, map[uint]float64{1: 9.0})

	profile, err := newRatingService(f).UserProfile(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, profile.FavoriteProduct)
	require.NotNil(t, profile.FavoriteBrand)
	assert.Equal(t, uint(1), profile.FavoriteProduct.ID)
	assert.Equal(t, uint(1), profile.FavoriteBrand.ID)
}

func TestUserProfileFavoriteTieBreaksToLowestID(t *testing.T) {
	f := newRatingFixture()
	// Products 1 and 3 tie at a summed value of 9.
	f.addReview(1, 1, map[uint]float64{1: 9.0})
	f.addReview(3, 1, map[uint]float64{1: 9.0})

	profile, err := newRatingService(f).UserProfile(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, profile.FavoriteProduct)
	require.NotNil(t, profile.FavoriteBrand)
	assert.Equal(t, uint(1), profile.FavoriteProduct.ID)
	assert.Equal(t, uint(1), profile.FavoriteBrand.ID)
}

func TestUserProfileNoReviews(t *testing.T) {
	f := newRatingFixture()

	profile, err := newRatingService(f).UserProfile(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), profile.ReviewCount)
	assert.Equal(t, 0.0, profile.Average)
	assert.Nil(t, profile.FavoriteBrand)
	assert.Nil(t, profile.FavoriteProduct)
}

func TestUserProfileNotFound(t *testing.T) {
	f := newRatingFixture()

	_, err := newRatingService(f).UserProfile(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductDetailCarriesAggregate(t *testing.T) {
	f := newRatingFixture()
	f.addReview(1, 1, map[uint]float64{1: 8.0, 2: 6.0})

	detail, err := newRatingService(f).ProductDetail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Volt Classic", detail.Name)
	assert.Equal(t, "Volt", detail.Brand.Name)
	assert.Equal(t, 7.0, detail.Average)
	assert.Equal(t, int64(1), detail.ReviewCount)
}
