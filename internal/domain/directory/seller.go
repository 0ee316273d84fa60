package directory

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradenet/backend/internal/domain/catalog"
	"github.com/tradenet/backend/internal/domain/shared"
)

// SellerType classifies a seller within the trade network
type SellerType string

const (
	SellerTypeFactory        SellerType = "factory"
	SellerTypeRetailNetwork  SellerType = "retail network"
	SellerTypeSoleProprietor SellerType = "individual entrepreneur"
)

// MaxNetworkLevel caps the derived trade-network level. The supplier chain is
// inspected at most two hops deep; longer chains still report this value.
const MaxNetworkLevel = 2

// Seller represents a member of the trade network. It is the aggregate root
// for the directory context.
//
// The supplier link is stored as a nullable identifier, one hop at a time;
// the derived network level is never persisted.
type Seller struct {
	shared.BaseEntity
	Name        string            `gorm:"type:varchar(100);not null"`
	Email       *string           `gorm:"type:varchar(200)"`
	Country     *string           `gorm:"type:varchar(2);index"`
	City        *string           `gorm:"type:varchar(50)"`
	Street      *string           `gorm:"type:varchar(50)"`
	HouseNumber *string           `gorm:"type:varchar(50)"`
	Products    []catalog.Product `gorm:"many2many:seller_products"`
	SupplierID  *uuid.UUID        `gorm:"type:uuid;index"`
	Debt        decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0"`
	SellerType  SellerType        `gorm:"type:varchar(30);not null"`
}

// TableName returns the table name for GORM
func (Seller) TableName() string {
	return "sellers"
}

// NewSeller creates a new seller with required fields and zero debt
func NewSeller(name string, sellerType SellerType) (*Seller, error) {
	if err := validateSellerName(name); err != nil {
		return nil, err
	}
	if err := validateSellerType(sellerType); err != nil {
		return nil, err
	}

	return &Seller{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Debt:       decimal.Zero,
		SellerType: sellerType,
	}, nil
}

// Rename updates the seller's name
func (s *Seller) Rename(name string) error {
	if err := validateSellerName(name); err != nil {
		return err
	}
	s.Name = name
	s.UpdatedAt = time.Now()
	return nil
}

// SetSellerType changes the seller's classification
func (s *Seller) SetSellerType(t SellerType) error {
	if err := validateSellerType(t); err != nil {
		return err
	}
	s.SellerType = t
	s.UpdatedAt = time.Now()
	return nil
}

// SetEmail sets or clears the contact email
func (s *Seller) SetEmail(email *string) error {
	if email != nil {
		if err := validateEmail(*email); err != nil {
			return err
		}
	}
	s.Email = email
	s.UpdatedAt = time.Now()
	return nil
}

// SetCountry sets or clears the ISO 3166-1 alpha-2 country code
func (s *Seller) SetCountry(country *string) error {
	if country != nil {
		code := strings.ToUpper(*country)
		if err := validateCountryCode(code); err != nil {
			return err
		}
		country = &code
	}
	s.Country = country
	s.UpdatedAt = time.Now()
	return nil
}

// SetAddress sets or clears the seller's address components
func (s *Seller) SetAddress(city, street, houseNumber *string) error {
	for _, field := range []*string{city, street, houseNumber} {
		if field != nil && len(*field) > 50 {
			return shared.NewDomainError("INVALID_ADDRESS", "Address fields cannot exceed 50 characters")
		}
	}
	s.City = city
	s.Street = street
	s.HouseNumber = houseNumber
	s.UpdatedAt = time.Now()
	return nil
}

// AssignSupplier links the seller to its immediate supplier. A seller cannot
// supply itself; cycles longer than one hop are not detected here.
func (s *Seller) AssignSupplier(supplierID uuid.UUID) error {
	if supplierID == s.ID {
		return shared.NewDomainError("INVALID_SUPPLIER", "Seller cannot be its own supplier")
	}
	s.SupplierID = &supplierID
	s.UpdatedAt = time.Now()
	return nil
}

// ClearSupplier removes the supplier link
func (s *Seller) ClearSupplier() {
	s.SupplierID = nil
	s.UpdatedAt = time.Now()
}

// maxDebt matches the decimal(10,2) column capacity
var maxDebt = decimal.RequireFromString("99999999.99")

// SetDebt sets the monetary debt owed to the immediate supplier
func (s *Seller) SetDebt(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_DEBT", "Debt cannot be negative")
	}
	if amount.GreaterThan(maxDebt) {
		return shared.NewDomainError("INVALID_DEBT", "Debt exceeds the maximum allowed amount")
	}
	s.Debt = amount
	s.UpdatedAt = time.Now()
	return nil
}

// ResetDebt zeroes the debt balance. Resetting an already-zero balance is a no-op.
func (s *Seller) ResetDebt() {
	if s.Debt.IsZero() {
		return
	}
	s.Debt = decimal.Zero
	s.UpdatedAt = time.Now()
}

// SetProducts replaces the associated product set
func (s *Seller) SetProducts(products []catalog.Product) {
	s.Products = products
	s.UpdatedAt = time.Now()
}

// ProductIDs returns the identifiers of the associated products
func (s *Seller) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(s.Products))
	for i, p := range s.Products {
		ids[i] = p.ID
	}
	return ids
}

// NetworkLevel derives the seller's position in the supply chain from its
// supplier and, when present, the supplier's own supplier reference. The walk
// is capped at two hops: 0 means a factory with no supplier, 1 one hop, 2 two
// or more hops.
func (s *Seller) NetworkLevel(supplier *Seller) int {
	if s.SupplierID == nil {
		return 0
	}
	if supplier == nil || supplier.SupplierID == nil {
		return 1
	}
	return MaxNetworkLevel
}

// Validation functions

func validateSellerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Seller name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Seller name cannot exceed 100 characters")
	}
	return nil
}

func validateSellerType(t SellerType) error {
	switch t {
	case SellerTypeFactory, SellerTypeRetailNetwork, SellerTypeSoleProprietor:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Invalid seller type")
	}
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validateCountryCode(code string) error {
	if len(code) != 2 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country must be an ISO 3166-1 alpha-2 code")
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return shared.NewDomainError("INVALID_COUNTRY", "Country must be an ISO 3166-1 alpha-2 code")
		}
	}
	return nil
}
