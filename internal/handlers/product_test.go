package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stocktrack/apiserver/internal/services"
	"github.com/stocktrack/apiserver/internal/store"
	"github.com/stocktrack/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductRepo is an in-memory services.ProductRepository.
type fakeProductRepo struct {
	products map[int]types.Product
	nextID   int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int]types.Product), nextID: 1}
}

func (r *fakeProductRepo) List(ctx context.Context, offset, limit int) ([]types.Product, int, error) {
	all := make([]types.Product, 0, len(r.products))
	for _, product := range r.products {
		all = append(all, product)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	if offset >= len(all) {
		return []types.Product{}, len(all), nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id int) (types.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return types.Product{}, store.ErrNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) GetBySKU(ctx context.Context, sku string) (types.Product, error) {
	for _, product := range r.products {
		if product.SKU == sku {
			return product, nil
		}
	}
	return types.Product{}, store.ErrNotFound
}

func (r *fakeProductRepo) Create(ctx context.Context, product types.Product) (types.Product, error) {
	for _, existing := range r.products {
		if existing.SKU == product.SKU {
			return types.Product{}, store.ErrDuplicate
		}
	}
	product.ID = r.nextID
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.nextID++
	r.products[product.ID] = product
	return product, nil
}

func (r *fakeProductRepo) UpdateQuantity(ctx context.Context, product types.Product) (types.Product, error) {
	if _, ok := r.products[product.ID]; !ok {
		return types.Product{}, store.ErrNotFound
	}
	r.products[product.ID] = product
	return product, nil
}

// newProductRouter wires the product routes without auth, plus the 404
// fallback the server installs.
func newProductRouter(repo *fakeProductRepo) chi.Router {
	productService := services.NewProductService(repo)
	router := chi.NewRouter()
	router.Route("/products", func(r chi.Router) {
		ProductRouter(r, productService, nil)
	})
	router.NotFound(NotFound)
	return router
}

func putJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validProductPayload() map[string]any {
	return map[string]any{
		"name":     "Widget",
		"type":     "Tool",
		"sku":      "WID-001",
		"quantity": 5,
		"price":    9.99,
	}
}

func TestCreateProductEndpoint(t *testing.T) {
	router := newProductRouter(newFakeProductRepo())

	rec := postJSON(t, router, "/products", validProductPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	parsed := decodeResponse(t, rec)
	assert.Equal(t, true, parsed["success"])
	assert.Equal(t, "Product created successfully", parsed["message"])

	data, ok := parsed["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["id"])
	assert.Equal(t, "WID-001", data["sku"])
	assert.Equal(t, float64(5), data["quantity"])
	assert.InDelta(t, 9.99, data["price"].(float64), 0.001)
}

func TestCreateProductEndpointMissingFields(t *testing.T) {
	router := newProductRouter(newFakeProductRepo())

	payload := validProductPayload()
	delete(payload, "quantity")

	rec := postJSON(t, router, "/products", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Name, type, SKU, quantity, and price are required", decodeResponse(t, rec)["message"])
}

func TestCreateProductEndpointDuplicateSKU(t *testing.T) {
	router := newProductRouter(newFakeProductRepo())

	require.Equal(t, http.StatusCreated, postJSON(t, router, "/products", validProductPayload()).Code)

	rec := postJSON(t, router, "/products", validProductPayload())
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Product with this SKU already exists", decodeResponse(t, rec)["message"])
}

func TestListProductsEndpoint(t *testing.T) {
	router := newProductRouter(newFakeProductRepo())

	for i := 0; i < 25; i++ {
		payload := validProductPayload()
		payload["sku"] = fmt.Sprintf("WID-%03d", i)
		require.Equal(t, http.StatusCreated, postJSON(t, router, "/products", payload).Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/products?page=3&limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	parsed := decodeResponse(t, rec)
	assert.Equal(t, "Products retrieved successfully", parsed["message"])

	data, ok := parsed["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(25), data["total"])
	assert.Equal(t, float64(3), data["page"])
	assert.Equal(t, float64(10), data["limit"])
	assert.Equal(t, float64(3), data["totalPages"])
	assert.Len(t, data["products"], 5)
}

func TestListProductsEndpointDefaults(t *testing.T) {
	router := newProductRouter(newFakeProductRepo())

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	data, ok := decodeResponse(t, rec)["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["page"])
	assert.Equal(t, float64(10), data["limit"])
}

func TestListProductsEndpointInvalidQuery(t *testing.T) {
	router := newProductRouter(newFakeProductRepo())

	tests := []struct {
		query   string
		message string
	}{
		{"?page=abc", "Page must be a positive number"},
		{"?page=0", "Page must be a positive number"},
		{"?limit=abc", "Limit must be between 1 and 100"},
		{"?limit=101", "Limit must be between 1 and 100"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/products"+tt.query, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.query)
		assert.Equal(t, tt.message, decodeResponse(t, rec)["message"], tt.query)
	}
}

func TestUpdateQuantityEndpoint(t *testing.T) {
	router := newProductRouter(newFakeProductRepo())

	require.Equal(t, http.StatusCreated, postJSON(t, router, "/products", validProductPayload()).Code)

	rec := putJSON(t, router, "/products/1/quantity", map[string]any{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)

	parsed := decodeResponse(t, rec)
	assert.Equal(t, "Product quantity updated successfully", parsed["message"])

	data, ok := parsed["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(0), data["quantity"])
}

func TestUpdateQuantityEndpointNotFound(t *testing.T) {
	router := newProductRouter(newFakeProductRepo())

	rec := putJSON(t, router, "/products/99/quantity", map[string]any{"quantity": 1})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decodeResponse(t, rec)["message"])
}

func TestUpdateQuantityEndpointNegative(t *testing.T) {
	router := newProductRouter(newFakeProductRepo())

	require.Equal(t, http.StatusCreated, postJSON(t, router, "/products", validProductPayload()).Code)

	rec := putJSON(t, router, "/products/1/quantity", map[string]any{"quantity": -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Quantity must be a non-negative number", decodeResponse(t, rec)["message"])
}

func TestUpdateQuantityEndpointBadID(t *testing.T) {
	router := newProductRouter(newFakeProductRepo())

	rec := putJSON(t, router, "/products/abc/quantity", map[string]any{"quantity": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Product ID is required", decodeResponse(t, rec)["message"])
}

func TestUnknownRouteFallback(t *testing.T) {
	router := newProductRouter(newFakeProductRepo())

	req := httptest.NewRequest(http.MethodGet, "/no-such-route", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "Route not found"}`, rec.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/health", Health)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	parsed := decodeResponse(t, rec)
	assert.Equal(t, "OK", parsed["status"])
	assert.NotEmpty(t, parsed["timestamp"])
	assert.NotContains(t, parsed, "success")
}
