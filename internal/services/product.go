package services

import (
	"context"
	"errors"

	"github.com/stocktrack/apiserver/internal/apperr"
	"github.com/stocktrack/apiserver/internal/store"
	"github.com/stocktrack/apiserver/types"
)

const (
	maxLimit      = 100
	maxNameLength = 100
	maxTypeLength = 50
	minSKULength  = 3
	maxSKULength  = 50
)

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	List(ctx context.Context, offset, limit int) ([]types.Product, int, error)
	GetByID(ctx context.Context, id int) (types.Product, error)
	GetBySKU(ctx context.Context, sku string) (types.Product, error)
	Create(ctx context.Context, product types.Product) (types.Product, error)
	UpdateQuantity(ctx context.Context, product types.Product) (types.Product, error)
}

// CreateProductInput carries the fields of a product-creation request.
// Quantity and Price are pointers so a missing field is distinguishable
// from a zero value.
type CreateProductInput struct {
	Name        string
	Type        string
	SKU         string
	ImageURL    string
	Description string
	Quantity    *int
	Price       *float64
}

// ProductService encapsulates product use-cases.
type ProductService struct {
	repo ProductRepository
}

func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// Create validates input and persists a new product. SKU uniqueness is
// pre-checked here, but the store's unique index remains authoritative.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (types.Product, error) {
	if input.Name == "" || input.Type == "" || input.SKU == "" || input.Quantity == nil || input.Price == nil {
		return types.Product{}, apperr.Validation("Name, type, SKU, quantity, and price are required")
	}
	if *input.Quantity < 0 {
		return types.Product{}, apperr.Validation("Quantity must be a non-negative number")
	}
	if *input.Price < 0 {
		return types.Product{}, apperr.Validation("Price must be a non-negative number")
	}
	if len(input.SKU) < minSKULength {
		return types.Product{}, apperr.Validation("SKU must be at least 3 characters long")
	}
	if len(input.Name) > maxNameLength {
		return types.Product{}, apperr.Validation("Name must be between 1 and 100 characters")
	}
	if len(input.Type) > maxTypeLength {
		return types.Product{}, apperr.Validation("Type must be between 1 and 50 characters")
	}
	if len(input.SKU) > maxSKULength {
		return types.Product{}, apperr.Validation("SKU must be between 3 and 50 characters")
	}

	if _, err := s.repo.GetBySKU(ctx, input.SKU); err == nil {
		return types.Product{}, apperr.Conflict("Product with this SKU already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.Product{}, apperr.Internal("Internal server error", err)
	}

	product, err := s.repo.Create(ctx, types.Product{
		Name:        input.Name,
		Type:        input.Type,
		SKU:         input.SKU,
		ImageURL:    input.ImageURL,
		Description: input.Description,
		Quantity:    *input.Quantity,
		Price:       *input.Price,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.Product{}, apperr.Conflict("Product with this SKU already exists")
		}
		return types.Product{}, apperr.Internal("Internal server error", err)
	}

	return product, nil
}

// List returns one page of products, newest first, with pagination totals.
func (s *ProductService) List(ctx context.Context, page, limit int) (types.ProductPage, error) {
	if page < 1 {
		return types.ProductPage{}, apperr.Validation("Page must be a positive number")
	}
	if limit < 1 || limit > maxLimit {
		return types.ProductPage{}, apperr.Validation("Limit must be between 1 and 100")
	}

	offset := (page - 1) * limit
	products, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return types.ProductPage{}, apperr.Internal("Internal server error", err)
	}

	return types.ProductPage{
		Products:   products,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// UpdateQuantity sets a product's stock level. This is the only mutating
// path for an existing product.
func (s *ProductService) UpdateQuantity(ctx context.Context, id int, quantity *int) (types.Product, error) {
	if id < 1 {
		return types.Product{}, apperr.Validation("Product ID is required")
	}
	if quantity == nil || *quantity < 0 {
		return types.Product{}, apperr.Validation("Quantity must be a non-negative number")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Product{}, apperr.NotFound("Product not found")
		}
		return types.Product{}, apperr.Internal("Internal server error", err)
	}

	if err := product.UpdateQuantity(*quantity); err != nil {
		return types.Product{}, apperr.Validation(err.Error())
	}

	updated, err := s.repo.UpdateQuantity(ctx, product)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Product{}, apperr.NotFound("Product not found")
		}
		return types.Product{}, apperr.Internal("Internal server error", err)
	}

	return updated, nil
}
