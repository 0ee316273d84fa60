package directory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradenet/backend/internal/domain/catalog"
	"github.com/tradenet/backend/internal/domain/directory"
	"github.com/tradenet/backend/internal/domain/shared"
)

// SellerService handles seller-related business operations
type SellerService struct {
	sellerRepo  directory.SellerRepository
	productRepo catalog.ProductRepository
}

// NewSellerService creates a new SellerService
func NewSellerService(sellerRepo directory.SellerRepository, productRepo catalog.ProductRepository) *SellerService {
	return &SellerService{
		sellerRepo:  sellerRepo,
		productRepo: productRepo,
	}
}

// Create creates a new seller. Debt may be set here; afterwards it can only
// be cleared through the debt reset operation.
func (s *SellerService) Create(ctx context.Context, req CreateSellerRequest) (*SellerResponse, error) {
	seller, err := directory.NewSeller(req.Name, directory.SellerType(req.SellerType))
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := seller.SetEmail(normalizeOptional(req.Email)); err != nil {
			return nil, err
		}
	}
	if req.Country != nil {
		if err := seller.SetCountry(normalizeOptional(req.Country)); err != nil {
			return nil, err
		}
	}
	if req.City != nil || req.Street != nil || req.HouseNumber != nil {
		if err := seller.SetAddress(req.City, req.Street, req.HouseNumber); err != nil {
			return nil, err
		}
	}

	if req.Debt != nil {
		amount, err := decimal.NewFromString(*req.Debt)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DEBT", "Debt must be a decimal number")
		}
		if err := seller.SetDebt(amount); err != nil {
			return nil, err
		}
	}

	var supplier *directory.Seller
	if req.SupplierID != nil {
		supplier, err = s.sellerRepo.FindByID(ctx, *req.SupplierID)
		if err != nil {
			if err == shared.ErrNotFound {
				return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier does not exist")
			}
			return nil, err
		}
		if err := seller.AssignSupplier(supplier.ID); err != nil {
			return nil, err
		}
	}

	if len(req.ProductIDs) > 0 {
		products, err := s.resolveProducts(ctx, req.ProductIDs)
		if err != nil {
			return nil, err
		}
		seller.SetProducts(products)
	}

	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		return nil, err
	}

	response := ToSellerResponse(seller, supplier)
	return &response, nil
}

// GetByID retrieves a seller by ID
func (s *SellerService) GetByID(ctx context.Context, id uuid.UUID) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	supplier, err := s.loadSupplier(ctx, seller)
	if err != nil {
		return nil, err
	}

	response := ToSellerResponse(seller, supplier)
	return &response, nil
}

// List retrieves all sellers matching the filter
func (s *SellerService) List(ctx context.Context, filter SellerListFilter) ([]SellerResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Country != "" {
		domainFilter.Filters["country"] = filter.Country
	}
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}
	if filter.SellerType != "" {
		domainFilter.Filters["seller_type"] = filter.SellerType
	}
	if filter.HasDebt != nil {
		domainFilter.Filters["has_debt"] = *filter.HasDebt
	}

	sellers, err := s.sellerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.sellerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	suppliers, err := s.loadSuppliers(ctx, sellers)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SellerResponse, len(sellers))
	for i := range sellers {
		var supplier *directory.Seller
		if sellers[i].SupplierID != nil {
			supplier = suppliers[*sellers[i].SupplierID]
		}
		responses[i] = ToSellerResponse(&sellers[i], supplier)
	}
	return responses, total, nil
}

// Update updates a seller. Debt cannot be changed here.
func (s *SellerService) Update(ctx context.Context, id uuid.UUID, req UpdateSellerRequest) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := seller.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.SellerType != nil {
		if err := seller.SetSellerType(directory.SellerType(*req.SellerType)); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		if err := seller.SetEmail(normalizeOptional(req.Email)); err != nil {
			return nil, err
		}
	}
	if req.Country != nil {
		if err := seller.SetCountry(normalizeOptional(req.Country)); err != nil {
			return nil, err
		}
	}
	if req.City != nil || req.Street != nil || req.HouseNumber != nil {
		city := orCurrent(req.City, seller.City)
		street := orCurrent(req.Street, seller.Street)
		houseNumber := orCurrent(req.HouseNumber, seller.HouseNumber)
		if err := seller.SetAddress(city, street, houseNumber); err != nil {
			return nil, err
		}
	}

	if req.SupplierID.Set {
		if req.SupplierID.Value == nil {
			seller.ClearSupplier()
		} else {
			supplier, err := s.sellerRepo.FindByID(ctx, *req.SupplierID.Value)
			if err != nil {
				if err == shared.ErrNotFound {
					return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier does not exist")
				}
				return nil, err
			}
			if err := seller.AssignSupplier(supplier.ID); err != nil {
				return nil, err
			}
		}
	}

	if req.ProductIDs != nil {
		products, err := s.resolveProducts(ctx, *req.ProductIDs)
		if err != nil {
			return nil, err
		}
		seller.SetProducts(products)
	}

	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		return nil, err
	}

	supplier, err := s.loadSupplier(ctx, seller)
	if err != nil {
		return nil, err
	}

	response := ToSellerResponse(seller, supplier)
	return &response, nil
}

// Delete deletes a seller. Sellers supplied by it survive with their supplier
// reference cleared.
func (s *SellerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.sellerRepo.Delete(ctx, id)
}

// ResetDebt clears the debt of the selected sellers, or of every seller when
// no selection is given. The operation is idempotent.
func (s *SellerService) ResetDebt(ctx context.Context, req DebtResetRequest) (*DebtResetResponse, error) {
	affected, err := s.sellerRepo.ResetDebt(ctx, req.SellerIDs)
	if err != nil {
		return nil, err
	}
	return &DebtResetResponse{UpdatedCount: affected}, nil
}

// resolveProducts loads products by ID and fails if any of them is missing
func (s *SellerService) resolveProducts(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[uuid.UUID]bool, len(products))
	for _, p := range products {
		found[p.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product does not exist")
		}
	}
	return products, nil
}

// loadSupplier fetches the seller's immediate supplier for level derivation
func (s *SellerService) loadSupplier(ctx context.Context, seller *directory.Seller) (*directory.Seller, error) {
	if seller.SupplierID == nil {
		return nil, nil
	}
	supplier, err := s.sellerRepo.FindByID(ctx, *seller.SupplierID)
	if err != nil {
		if err == shared.ErrNotFound {
			// Dangling reference, treat as no supplier chain beyond this hop
			return nil, nil
		}
		return nil, err
	}
	return supplier, nil
}

// loadSuppliers batch-fetches the distinct suppliers referenced by a page of sellers
func (s *SellerService) loadSuppliers(ctx context.Context, sellers []directory.Seller) (map[uuid.UUID]*directory.Seller, error) {
	idSet := make(map[uuid.UUID]bool)
	for i := range sellers {
		if sellers[i].SupplierID != nil {
			idSet[*sellers[i].SupplierID] = true
		}
	}
	if len(idSet) == 0 {
		return map[uuid.UUID]*directory.Seller{}, nil
	}

	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	suppliers, err := s.sellerRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]*directory.Seller, len(suppliers))
	for i := range suppliers {
		result[suppliers[i].ID] = &suppliers[i]
	}
	return result, nil
}

// normalizeOptional maps an empty string to nil so clients can clear a field
func normalizeOptional(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}

func orCurrent(requested, current *string) *string {
	if requested != nil {
		return normalizeOptional(requested)
	}
	return current
}
