package directory

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradenet/backend/internal/domain/shared"
)

// SellerRepository defines the persistence contract for sellers
type SellerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Seller, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Seller, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Seller, error)
	Save(ctx context.Context, seller *Seller) error
	// Delete removes the seller and clears the supplier reference on all
	// dependents in the same transaction.
	Delete(ctx context.Context, id uuid.UUID) error
	// ResetDebt zeroes the debt balance for the given sellers and returns the
	// number of rows whose balance changed. A nil id set targets all sellers.
	ResetDebt(ctx context.Context, ids []uuid.UUID) (int64, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
