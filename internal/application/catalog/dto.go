package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradenet/backend/internal/domain/catalog"
)

// timeLayout renders timestamps as UTC with microsecond precision
const timeLayout = "2006-01-02T15:04:05.000000Z"

// CreateProductRequest is the request to create a product
type CreateProductRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Model string `json:"model" binding:"required,max=100"`
}

// UpdateProductRequest is the request to update a product.
// The release date is immutable and cannot be changed here.
type UpdateProductRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=100"`
	Model *string `json:"model" binding:"omitempty,max=100"`
}

// ProductListFilter holds list query parameters
type ProductListFilter struct {
	Name     string `form:"name"`
	Model    string `form:"model"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Model      string    `json:"model"`
	ReleasedAt string    `json:"released_at"`
	CreatedAt  string    `json:"created_at"`
	UpdatedAt  string    `json:"updated_at"`
}

// ToProductResponse converts a domain product to its API representation
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:         product.ID,
		Name:       product.Name,
		Model:      product.Model,
		ReleasedAt: formatTime(product.ReleasedAt),
		CreatedAt:  formatTime(product.CreatedAt),
		UpdatedAt:  formatTime(product.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
