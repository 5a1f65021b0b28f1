package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/stocktrack/apiserver/internal/apperr"
	"github.com/stocktrack/apiserver/internal/services"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ProductHandler provides HTTP handlers for the product catalog.
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler constructs a handler with the provided service.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ProductRouter registers product routes on the given router. All routes
// require authentication when authMiddleware is provided.
func ProductRouter(r chi.Router, productService *services.ProductService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewProductHandler(productService)

	if authMiddleware != nil {
		r.Use(authMiddleware)
	}
	r.Get("/", handler.ListProducts)
	r.Post("/", handler.CreateProduct)
	r.Put("/{productID}/quantity", handler.UpdateProductQuantity)
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePagination(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	result, err := h.productService.List(r.Context(), page, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Products retrieved successfully", result)
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.productService.Create(r.Context(), services.CreateProductInput{
		Name:        strings.TrimSpace(req.Name),
		Type:        strings.TrimSpace(req.Type),
		SKU:         strings.TrimSpace(req.SKU),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Description: req.Description,
		Quantity:    req.Quantity,
		Price:       req.Price,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Product created successfully", product)
}

func (h *ProductHandler) UpdateProductQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.productService.UpdateQuantity(r.Context(), id, req.Quantity)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Product quantity updated successfully", product)
}

// CreateProductRequest is the product-creation payload. Quantity and Price
// are pointers so that an explicit zero is distinguishable from an omitted
// field.
type CreateProductRequest struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	SKU         string   `json:"sku"`
	ImageURL    string   `json:"imageUrl"`
	Description string   `json:"description"`
	Quantity    *int     `json:"quantity"`
	Price       *float64 `json:"price"`
}

// UpdateQuantityRequest is the quantity-update payload.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func parsePagination(r *http.Request) (page, limit int, err error) {
	page = defaultPage
	limit = defaultLimit

	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, apperr.Validation("Page must be a positive number")
		}
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, apperr.Validation("Limit must be between 1 and 100")
		}
	}

	return page, limit, nil
}

func parseProductID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "productID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, apperr.Validation("Product ID is required")
	}
	return id, nil
}
