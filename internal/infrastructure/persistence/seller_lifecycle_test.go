package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradenet/backend/internal/domain/catalog"
	"github.com/tradenet/backend/internal/domain/directory"
	"github.com/tradenet/backend/internal/domain/shared"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Product{}, &directory.Seller{}))
	return db
}

func mustNewSeller(t *testing.T, name string, sellerType directory.SellerType) *directory.Seller {
	seller, err := directory.NewSeller(name, sellerType)
	require.NoError(t, err)
	return seller
}

func TestSellerLifecycle_SaveSyncsProducts(t *testing.T) {
	db := newSQLiteDB(t)
	sellerRepo := NewGormSellerRepository(db)
	productRepo := NewGormProductRepository(db)
	ctx := context.Background()

	product, err := catalog.NewProduct("Laptop", "X-200")
	require.NoError(t, err)
	require.NoError(t, productRepo.Save(ctx, product))

	seller := mustNewSeller(t, "Acme Factory", directory.SellerTypeFactory)
	seller.SetProducts([]catalog.Product{*product})
	require.NoError(t, sellerRepo.Save(ctx, seller))

	loaded, err := sellerRepo.FindByID(ctx, seller.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Products, 1)
	assert.Equal(t, product.ID, loaded.Products[0].ID)

	// Replacing the association with an empty set detaches all products
	loaded.SetProducts(nil)
	require.NoError(t, sellerRepo.Save(ctx, loaded))

	loaded, err = sellerRepo.FindByID(ctx, seller.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Products)
}

func TestSellerLifecycle_DeleteClearsDependents(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormSellerRepository(db)
	ctx := context.Background()

	supplier := mustNewSeller(t, "Factory", directory.SellerTypeFactory)
	require.NoError(t, repo.Save(ctx, supplier))

	dependent := mustNewSeller(t, "Retailer", directory.SellerTypeRetailNetwork)
	require.NoError(t, dependent.AssignSupplier(supplier.ID))
	require.NoError(t, repo.Save(ctx, dependent))

	require.NoError(t, repo.Delete(ctx, supplier.ID))

	_, err := repo.FindByID(ctx, supplier.ID)
	assert.Equal(t, shared.ErrNotFound, err)

	// The dependent seller survives with its supplier reference cleared
	survivor, err := repo.FindByID(ctx, dependent.ID)
	require.NoError(t, err)
	assert.Nil(t, survivor.SupplierID)
}

func TestSellerLifecycle_ResetDebt(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormSellerRepository(db)
	ctx := context.Background()

	debtor := mustNewSeller(t, "Debtor", directory.SellerTypeSoleProprietor)
	require.NoError(t, debtor.SetDebt(decimal.RequireFromString("50.00")))
	require.NoError(t, repo.Save(ctx, debtor))

	clean := mustNewSeller(t, "Clean", directory.SellerTypeRetailNetwork)
	require.NoError(t, repo.Save(ctx, clean))

	affected, err := repo.ResetDebt(ctx, []uuid.UUID{debtor.ID, clean.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	loaded, err := repo.FindByID(ctx, debtor.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Debt.IsZero())

	// A second reset over the same sellers touches nothing
	affected, err = repo.ResetDebt(ctx, []uuid.UUID{debtor.ID, clean.ID})
	require.NoError(t, err)
	assert.Zero(t, affected)
}
