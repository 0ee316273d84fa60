package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradenet/backend/internal/domain/directory"
	"github.com/tradenet/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSellerRepository implements SellerRepository using GORM
type GormSellerRepository struct {
	db *gorm.DB
}

// NewGormSellerRepository creates a new GormSellerRepository
func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// FindByID finds a seller by its ID with products preloaded
func (r *GormSellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Seller, error) {
	var seller directory.Seller
	if err := r.db.WithContext(ctx).Preload("Products").First(&seller, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &seller, nil
}

// FindByIDs finds multiple sellers by their IDs
func (r *GormSellerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]directory.Seller, error) {
	if len(ids) == 0 {
		return []directory.Seller{}, nil
	}

	var sellers []directory.Seller
	if err := r.db.WithContext(ctx).Preload("Products").
		Where("id IN ?", ids).
		Find(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}

// FindAll finds all sellers matching the filter with products preloaded
func (r *GormSellerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directory.Seller, error) {
	var sellers []directory.Seller
	query := r.applyFilter(r.db.WithContext(ctx).Model(&directory.Seller{}).Preload("Products"), filter)

	if err := query.Find(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}

// Save creates or updates a seller and syncs its product associations
func (r *GormSellerRepository) Save(ctx context.Context, seller *directory.Seller) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Products").Save(seller).Error; err != nil {
			return err
		}
		return tx.Model(seller).Association("Products").Replace(seller.Products)
	})
}

// Delete deletes a seller. Sellers supplied by it keep existing with their
// supplier reference cleared, matching ON DELETE SET NULL.
func (r *GormSellerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&directory.Seller{}).
			Where("supplier_id = ?", id).
			Update("supplier_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM seller_products WHERE seller_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&directory.Seller{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ResetDebt sets debt to zero for the given sellers, or for all sellers when
// ids is nil. Sellers whose debt is already zero are left untouched.
// Returns the number of sellers updated.
func (r *GormSellerRepository) ResetDebt(ctx context.Context, ids []uuid.UUID) (int64, error) {
	query := r.db.WithContext(ctx).Model(&directory.Seller{}).Where("debt <> ?", decimal.Zero)
	if ids != nil {
		if len(ids) == 0 {
			return 0, nil
		}
		query = query.Where("id IN ?", ids)
	}

	result := query.Update("debt", decimal.Zero)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Count counts sellers matching the filter
func (r *GormSellerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutOrdering(r.db.WithContext(ctx).Model(&directory.Seller{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// sellerSortColumns lists the columns client-supplied ordering may use.
// Anything else falls back to the default order; the value is interpolated
// into the ORDER BY clause and must never come from the request verbatim.
var sellerSortColumns = map[string]bool{
	"name":        true,
	"country":     true,
	"city":        true,
	"seller_type": true,
	"debt":        true,
	"created_at":  true,
	"updated_at":  true,
}

func (r *GormSellerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutOrdering(query, filter)

	if sellerSortColumns[filter.OrderBy] {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at ASC")
	}
	// deterministic order for rows sharing a timestamp
	query = query.Order("id ASC")

	return query
}

func (r *GormSellerRepository) applyFilterWithoutOrdering(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "country":
			if s, ok := value.(string); ok {
				query = query.Where("country = ?", strings.ToUpper(s))
			}
		case "city":
			query = query.Where("city = ?", value)
		case "seller_type":
			query = query.Where("seller_type = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "has_debt":
			if value == true {
				query = query.Where("debt > 0")
			} else {
				query = query.Where("debt = 0")
			}
		}
	}
	return query
}

var _ directory.SellerRepository = (*GormSellerRepository)(nil)
