package catalog

import (
	"time"

	"github.com/tradenet/backend/internal/domain/shared"
)

// Product represents a sellable item in the catalog context.
// ReleasedAt is assigned once at creation and never mutates afterwards.
type Product struct {
	shared.BaseEntity
	Name       string    `gorm:"type:varchar(100);not null"`
	Model      string    `gorm:"type:varchar(100);not null"`
	ReleasedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with required fields
func NewProduct(name, model string) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateProductModel(model); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Model:      model,
		ReleasedAt: time.Now(),
	}, nil
}

// Update updates the product's name and model designation
func (p *Product) Update(name, model string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateProductModel(model); err != nil {
		return err
	}

	p.Name = name
	p.Model = model
	p.UpdatedAt = time.Now()

	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 100 characters")
	}
	return nil
}

func validateProductModel(model string) error {
	if model == "" {
		return shared.NewDomainError("INVALID_MODEL", "Product model cannot be empty")
	}
	if len(model) > 100 {
		return shared.NewDomainError("INVALID_MODEL", "Product model cannot exceed 100 characters")
	}
	return nil
}
