package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/energyrank/energyrank-backend/internal/models"
	"gorm.io/gorm"
)

type GormCatalogStore struct {
	db *gorm.DB
}

func NewGormCatalogStore(db *gorm.DB) *GormCatalogStore {
	return &GormCatalogStore{db: db}
}

func (s *GormCatalogStore) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Brand").Preload("Category").First(&product, id).Error
	if err != nil {
		return nil, translateGormError(err, "product")
	}
	return &product, nil
}

func (s *GormCatalogStore) GetBrand(ctx context.Context, id uint) (*models.Brand, error) {
	var brand models.Brand
	if err := s.db.WithContext(ctx).First(&brand, id).Error; err != nil {
		return nil, translateGormError(err, "brand")
	}
	return &brand, nil
}

func (s *GormCatalogStore) GetCriterion(ctx context.Context, id uint) (*models.Criterion, error) {
	var criterion models.Criterion
	if err := s.db.WithContext(ctx).First(&criterion, id).Error; err != nil {
		return nil, translateGormError(err, "criterion")
	}
	return &criterion, nil
}

func (s *GormCatalogStore) ListCriteria(ctx context.Context) ([]models.Criterion, error) {
	var criteria []models.Criterion
	if err := s.db.WithContext(ctx).Order("id").Find(&criteria).Error; err != nil {
		return nil, fmt.Errorf("list criteria: %w", err)
	}
	return criteria, nil
}

func (s *GormCatalogStore) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	if err := s.db.WithContext(ctx).Order("id").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return brands, nil
}

func (s *GormCatalogStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Preload("Brand").Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *GormCatalogStore) ListProductsOfBrand(ctx context.Context, brandID uint) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).Preload("Brand").
		Where("brand_id = ?", brandID).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products of brand %d: %w", brandID, err)
	}
	return products, nil
}

func (s *GormCatalogStore) ListProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := s.db.WithContext(ctx).Preload("Brand").
		Where("id IN ?", ids).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products by ids: %w", err)
	}
	return products, nil
}

// translateGormError maps gorm errors onto the store sentinels. It relies on
// gorm's TranslateError mode for constraint violations.
func translateGormError(err error, entity string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", entity, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", entity, err)
}
