package directory

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tradenet/backend/internal/domain/directory"
)

// timeLayout renders timestamps as UTC with microsecond precision
const timeLayout = "2006-01-02T15:04:05.000000Z"

// NullableUUID distinguishes an absent field from an explicit null in
// update payloads. Absent means "leave unchanged", null means "clear".
type NullableUUID struct {
	Set   bool
	Value *uuid.UUID
}

// UnmarshalJSON implements json.Unmarshaler
func (n *NullableUUID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

// CreateSellerRequest is the request to create a seller
type CreateSellerRequest struct {
	Name        string      `json:"name" binding:"required,max=100"`
	SellerType  string      `json:"seller_type" binding:"required,seller_type"`
	Email       *string     `json:"email" binding:"omitempty,email,max=200"`
	Country     *string     `json:"country" binding:"omitempty,len=2"`
	City        *string     `json:"city" binding:"omitempty,max=50"`
	Street      *string     `json:"street" binding:"omitempty,max=50"`
	HouseNumber *string     `json:"house_number" binding:"omitempty,max=50"`
	Debt        *string     `json:"debt"`
	SupplierID  *uuid.UUID  `json:"supplier"`
	ProductIDs  []uuid.UUID `json:"products"`
}

// UpdateSellerRequest is the request to update a seller.
// Debt is deliberately not part of this payload. It can only be set at
// creation time or cleared through the debt reset operation, so a stray
// debt key in an update body is ignored.
type UpdateSellerRequest struct {
	Name        *string      `json:"name" binding:"omitempty,max=100"`
	SellerType  *string      `json:"seller_type" binding:"omitempty,seller_type"`
	Email       *string      `json:"email" binding:"omitempty,max=200"`
	Country     *string      `json:"country"`
	City        *string      `json:"city" binding:"omitempty,max=50"`
	Street      *string      `json:"street" binding:"omitempty,max=50"`
	HouseNumber *string      `json:"house_number" binding:"omitempty,max=50"`
	SupplierID  NullableUUID `json:"supplier"`
	ProductIDs  *[]uuid.UUID `json:"products"`
}

// SellerListFilter holds list query parameters
type SellerListFilter struct {
	Country    string `form:"country"`
	City       string `form:"city"`
	SellerType string `form:"seller_type"`
	HasDebt    *bool  `form:"has_debt"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir"`
}

// DebtResetRequest selects the sellers whose debt should be cleared.
// A nil seller list means every seller.
type DebtResetRequest struct {
	SellerIDs []uuid.UUID `json:"sellers"`
}

// DebtResetResponse reports how many sellers were updated
type DebtResetResponse struct {
	UpdatedCount int64 `json:"updated_count"`
}

// SellerResponse is the API representation of a seller
type SellerResponse struct {
	ID                uuid.UUID   `json:"id"`
	Name              string      `json:"name"`
	Email             *string     `json:"email"`
	Country           *string     `json:"country"`
	City              *string     `json:"city"`
	Street            *string     `json:"street"`
	HouseNumber       *string     `json:"house_number"`
	Debt              string      `json:"debt"`
	TradeNetworkLevel int         `json:"trade_network_level"`
	Supplier          *uuid.UUID  `json:"supplier"`
	Products          []uuid.UUID `json:"products"`
	SellerType        string      `json:"seller_type"`
	CreatedAt         string      `json:"created_at"`
	UpdatedAt         string      `json:"updated_at"`
}

// ToSellerResponse converts a domain seller to its API representation.
// supplier is the seller's immediate supplier, or nil when it has none.
// It must be preloaded by the caller so the network level can be derived.
// A supplier reference that no longer resolves is reported as null.
func ToSellerResponse(seller *directory.Seller, supplier *directory.Seller) SellerResponse {
	var supplierID *uuid.UUID
	if supplier != nil {
		supplierID = seller.SupplierID
	}
	return SellerResponse{
		ID:                seller.ID,
		Name:              seller.Name,
		Email:             seller.Email,
		Country:           seller.Country,
		City:              seller.City,
		Street:            seller.Street,
		HouseNumber:       seller.HouseNumber,
		Debt:              seller.Debt.StringFixed(2),
		TradeNetworkLevel: seller.NetworkLevel(supplier),
		Supplier:          supplierID,
		Products:          seller.ProductIDs(),
		SellerType:        string(seller.SellerType),
		CreatedAt:         formatTime(seller.CreatedAt),
		UpdatedAt:         formatTime(seller.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
