package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/energyrank/energyrank-backend/internal/store"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// LeaderboardFilter narrows a leaderboard after ranking. Search is a
// case-insensitive multi-token substring match: every token must occur in the
// product name or its brand name (brand name only on the brand chart).
// MinRating/MaxRating bound the computed average inclusively.
type LeaderboardFilter struct {
	Search    string
	MinRating *float64
	MaxRating *float64
	// BrandID restricts the product chart to one brand's products.
	BrandID *uint
}

// Page bounds one leaderboard slice. A zero Limit means DefaultPageSize;
// values outside the declared bounds are rejected as invalid, never clamped.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) normalize() (Page, error) {
	if p.Limit == 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit < 1 || p.Limit > MaxPageSize {
		return p, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalid, MaxPageSize)
	}
	if p.Offset < 0 {
		return p, fmt.Errorf("%w: offset must not be negative", ErrInvalid)
	}
	return p, nil
}

// ProductRankEntry is one product chart row. AbsoluteRank is the product's
// 1-based position in the complete unfiltered ordering and does not change
// when a filter or page is applied.
type ProductRankEntry struct {
	AbsoluteRank int     `json:"absolute_rank"`
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	BrandID      uint    `json:"brand_id"`
	BrandName    string  `json:"brand_name"`
	ImageURL     string  `json:"image_url,omitempty"`
	Average      float64 `json:"average_rating"`
	ReviewCount  int64   `json:"review_count"`
	RatingCount  int64   `json:"rating_count"`
}

type BrandRankEntry struct {
	AbsoluteRank      int     `json:"absolute_rank"`
	ID                uint    `json:"id"`
	Name              string  `json:"name"`
	Average           float64 `json:"average_rating"`
	ProductCount      int64   `json:"product_count"`
	RatedProductCount int64   `json:"rated_product_count"`
	ReviewCount       int64   `json:"review_count"`
	RatingCount       int64   `json:"rating_count"`
}

type ProductLeaderboard struct {
	Items      []ProductRankEntry `json:"items"`
	TotalCount int                `json:"total_count"`
}

type BrandLeaderboard struct {
	Items      []BrandRankEntry `json:"items"`
	TotalCount int              `json:"total_count"`
}

// LeaderboardService ranks the full candidate set first and filters second,
// so a row's absolute rank survives any filter or page.
type LeaderboardService struct {
	catalog store.CatalogStore
	reviews store.ReviewStore
	combine BrandCombiner
}

func NewLeaderboardService(catalog store.CatalogStore, reviews store.ReviewStore, combine BrandCombiner) *LeaderboardService {
	if combine == nil {
		combine = MeanOfProductMeans
	}
	return &LeaderboardService{
		catalog: catalog,
		reviews: reviews,
		combine: combine,
	}
}

// TopProducts returns one page of the product chart. The canonical order is
// average desc, review count desc, brand name asc, product name asc, id asc.
func (s *LeaderboardService) TopProducts(ctx context.Context, filter LeaderboardFilter, page Page) (*ProductLeaderboard, error) {
	page, err := page.normalize()
	if err != nil {
		return nil, err
	}
	if err := validateRatingBounds(filter); err != nil {
		return nil, err
	}

	entries, err := s.rankedProducts(ctx)
	if err != nil {
		return nil, err
	}

	tokens := searchTokens(filter.Search)
	filtered := entries[:0:0]
	for _, entry := range entries {
		if filter.BrandID != nil && entry.BrandID != *filter.BrandID {
			continue
		}
		if !matchesTokens(tokens, entry.Name, entry.BrandName) {
			continue
		}
		if !withinBounds(entry.Average, filter.MinRating, filter.MaxRating) {
			continue
		}
		filtered = append(filtered, entry)
	}

	board := &ProductLeaderboard{
		Items:      []ProductRankEntry{},
		TotalCount: len(filtered),
	}
	lo, hi := pageBounds(len(filtered), page)
	board.Items = append(board.Items, filtered[lo:hi]...)
	return board, nil
}

// TopBrands returns one page of the brand chart. The canonical order is
// average desc, product count desc, review count desc, name asc, id asc.
func (s *LeaderboardService) TopBrands(ctx context.Context, filter LeaderboardFilter, page Page) (*BrandLeaderboard, error) {
	page, err := page.normalize()
	if err != nil {
		return nil, err
	}
	if err := validateRatingBounds(filter); err != nil {
		return nil, err
	}

	entries, err := s.rankedBrands(ctx)
	if err != nil {
		return nil, err
	}

	tokens := searchTokens(filter.Search)
	filtered := entries[:0:0]
	for _, entry := range entries {
		if !matchesTokens(tokens, entry.Name) {
			continue
		}
		if !withinBounds(entry.Average, filter.MinRating, filter.MaxRating) {
			continue
		}
		filtered = append(filtered, entry)
	}

	board := &BrandLeaderboard{
		Items:      []BrandRankEntry{},
		TotalCount: len(filtered),
	}
	lo, hi := pageBounds(len(filtered), page)
	board.Items = append(board.Items, filtered[lo:hi]...)
	return board, nil
}

// rankedProducts builds the complete product chart: one bulk product scan,
// one grouped rating scan, one sort, ranks assigned over the whole set.
func (s *LeaderboardService) rankedProducts(ctx context.Context) ([]ProductRankEntry, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fromStore(err, "product chart")
	}
	stats, err := s.reviews.StatsByProduct(ctx)
	if err != nil {
		return nil, fromStore(err, "product chart")
	}

	entries := make([]ProductRankEntry, 0, len(products))
	for _, product := range products {
		entry := ProductRankEntry{
			ID:        product.ID,
			Name:      product.Name,
			BrandID:   product.BrandID,
			BrandName: product.Brand.Name,
			ImageURL:  product.ImageURL,
		}
		if st, ok := stats[product.ID]; ok {
			entry.ReviewCount = st.ReviewCount
			entry.RatingCount = st.RatingCount
			if st.RatingCount > 0 {
				entry.Average = Round4(st.RatingSum / float64(st.RatingCount))
			}
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Average != b.Average {
			return a.Average > b.Average
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		if a.BrandName != b.BrandName {
			return a.BrandName < b.BrandName
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	for i := range entries {
		entries[i].AbsoluteRank = i + 1
	}
	return entries, nil
}

func (s *LeaderboardService) rankedBrands(ctx context.Context) ([]BrandRankEntry, error) {
	brands, err := s.catalog.ListBrands(ctx)
	if err != nil {
		return nil, fromStore(err, "brand chart")
	}
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fromStore(err, "brand chart")
	}
	stats, err := s.reviews.StatsByProduct(ctx)
	if err != nil {
		return nil, fromStore(err, "brand chart")
	}

	productsOfBrand := make(map[uint][]uint, len(brands))
	for _, product := range products {
		productsOfBrand[product.BrandID] = append(productsOfBrand[product.BrandID], product.ID)
	}

	entries := make([]BrandRankEntry, 0, len(brands))
	for _, brand := range brands {
		entry := BrandRankEntry{ID: brand.ID, Name: brand.Name}
		var averages []float64
		for _, productID := range productsOfBrand[brand.ID] {
			entry.ProductCount++
			st, ok := stats[productID]
			if !ok {
				continue
			}
			entry.ReviewCount += st.ReviewCount
			entry.RatingCount += st.RatingCount
			if st.RatingCount > 0 {
				averages = append(averages, Round4(st.RatingSum/float64(st.RatingCount)))
			}
		}
		entry.RatedProductCount = int64(len(averages))
		if entry.RatedProductCount > 0 {
			entry.Average = Round4(s.combine(averages))
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Average != b.Average {
			return a.Average > b.Average
		}
		if a.ProductCount != b.ProductCount {
			return a.ProductCount > b.ProductCount
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	for i := range entries {
		entries[i].AbsoluteRank = i + 1
	}
	return entries, nil
}

func validateRatingBounds(filter LeaderboardFilter) error {
	if filter.MinRating != nil && filter.MaxRating != nil && *filter.MinRating > *filter.MaxRating {
		return fmt.Errorf("%w: min_rating must not exceed max_rating", ErrInvalid)
	}
	return nil
}

func searchTokens(search string) []string {
	return strings.Fields(strings.ToLower(search))
}

// matchesTokens requires every token to occur in at least one of the fields.
func matchesTokens(tokens []string, fields ...string) bool {
	if len(tokens) == 0 {
		return true
	}
	lowered := make([]string, len(fields))
	for i, field := range fields {
		lowered[i] = strings.ToLower(field)
	}
	for _, token := range tokens {
		found := false
		for _, field := range lowered {
			if strings.Contains(field, token) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func withinBounds(value float64, min, max *float64) bool {
	if min != nil && value < *min {
		return false
	}
	if max != nil && value > *max {
		return false
	}
	return true
}

func pageBounds(total int, page Page) (int, int) {
	lo := page.Offset
	if lo > total {
		lo = total
	}
	hi := lo + page.Limit
	if hi > total {
		hi = total
	}
	return lo, hi
}
