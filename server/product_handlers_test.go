package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/example/tuuze/pkg/models"
	"github.com/example/tuuze/pkg/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	vendor, token := env.seedUser(t, "Vera Vendor", "vera@example.com", models.RoleVendor)
	env.seedStore(t, vendor.ID)

	w := env.do(t, http.MethodPost, "/api/products", token, gin.H{
		"name":      "Sourdough Loaf",
		"price":     10.00,
		"inventory": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decodeBody(t, w)["data"].(map[string]any)["product"].(map[string]any)
	assert.Equal(t, true, product["isAvailable"])

	w = env.do(t, http.MethodPost, "/api/products", token, gin.H{"price": 10.00})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/products", token, gin.H{"name": "Bad", "price": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProductRequiresVerifiedStore(t *testing.T) {
	env := newTestEnv(t)
	vendor, token := env.seedUser(t, "Vera Vendor", "vera@example.com", models.RoleVendor)

	// No store at all.
	w := env.do(t, http.MethodPost, "/api/products", token, gin.H{"name": "Loaf", "price": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	store := &models.Store{OwnerID: vendor.ID, Name: "Corner Bakery", IsActive: true, IsVerified: false}
	require.NoError(t, env.mem.Stores().Create(context.Background(), store))

	w = env.do(t, http.MethodPost, "/api/products", token, gin.H{"name": "Loaf", "price": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateProductOwnership(t *testing.T) {
	env := newTestEnv(t)
	vendor, token := env.seedUser(t, "Vera Vendor", "vera@example.com", models.RoleVendor)
	other, otherToken := env.seedUser(t, "Oscar Other", "oscar@example.com", models.RoleVendor)
	store := env.seedStore(t, vendor.ID)
	env.seedStore(t, other.ID)
	product := env.seedProduct(t, store.ID, 10.00, 5)

	w := env.do(t, http.MethodPatch, "/api/products/"+product.ID, otherToken, gin.H{"price": 1.00})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPatch, "/api/products/"+product.ID, token, gin.H{"price": 12.50})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, err := env.mem.Products().GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.50, got.Price)
	assert.Equal(t, "Sourdough Loaf", got.Name, "unset fields stay untouched")
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	vendor, token := env.seedUser(t, "Vera Vendor", "vera@example.com", models.RoleVendor)
	store := env.seedStore(t, vendor.ID)
	product := env.seedProduct(t, store.ID, 10.00, 5)

	w := env.do(t, http.MethodDelete, "/api/products/"+product.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, err := env.mem.Products().GetByID(context.Background(), product.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetStoreProductsHidesUnavailable(t *testing.T) {
	env := newTestEnv(t)
	vendor, token := env.seedUser(t, "Vera Vendor", "vera@example.com", models.RoleVendor)
	store := env.seedStore(t, vendor.ID)
	env.seedProduct(t, store.ID, 10.00, 5)

	hidden := &models.Product{StoreID: store.ID, Name: "Day-old Rye", Price: 4, Inventory: 5, IsAvailable: false}
	require.NoError(t, env.mem.Products().Create(context.Background(), hidden))

	w := env.do(t, http.MethodGet, "/api/products/store/"+store.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])

	// The vendor's own listing includes hidden products.
	w = env.do(t, http.MethodGet, "/api/products/me/products", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["count"])
}

func TestSearchProducts(t *testing.T) {
	env := newTestEnv(t)
	vendor, _ := env.seedUser(t, "Vera Vendor", "vera@example.com", models.RoleVendor)
	store := env.seedStore(t, vendor.ID)

	bread := &models.Product{StoreID: store.ID, Name: "Sourdough Loaf", Category: "bakery", Price: 10, Inventory: 5, IsAvailable: true}
	require.NoError(t, env.mem.Products().Create(context.Background(), bread))
	fruit := &models.Product{StoreID: store.ID, Name: "Mangoes", Category: "produce", Price: 2.50, Inventory: 10, IsAvailable: true}
	require.NoError(t, env.mem.Products().Create(context.Background(), fruit))

	w := env.do(t, http.MethodGet, "/api/products/search?query=sourdough", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])

	w = env.do(t, http.MethodGet, "/api/products/search?category=produce", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])
}
