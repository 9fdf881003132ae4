package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/example/tuuze/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStoreUpgradesRole(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(t, "Carl Customer", "carl@example.com", models.RoleCustomer)

	w := env.do(t, http.MethodPost, "/api/stores", token, gin.H{
		"name":        "Corner Bakery",
		"description": "Fresh bread daily",
		"longitude":   36.8172,
		"latitude":    -1.2864,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	store := decodeBody(t, w)["data"].(map[string]any)["store"].(map[string]any)
	assert.Equal(t, false, store["isVerified"], "new stores start unverified")

	updated, err := env.mem.Users().GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleVendor, updated.Role)

	// One store per account.
	w = env.do(t, http.MethodPost, "/api/stores", token, gin.H{
		"name":        "Second Shop",
		"description": "Nope",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateStoreValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "Carl Customer", "carl@example.com", models.RoleCustomer)

	w := env.do(t, http.MethodPost, "/api/stores", token, gin.H{"name": "No Description"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateMyStorePartial(t *testing.T) {
	env := newTestEnv(t)
	vendor, token := env.seedUser(t, "Vera Vendor", "vera@example.com", models.RoleVendor)
	store := env.seedStore(t, vendor.ID)

	w := env.do(t, http.MethodPatch, "/api/stores/me/store", token, gin.H{
		"description": "Now with pastries",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, err := env.mem.Stores().GetByID(context.Background(), store.ID)
	require.NoError(t, err)
	assert.Equal(t, "Now with pastries", got.Description)
	assert.Equal(t, "Corner Bakery", got.Name, "unset fields stay untouched")
}

func TestDeactivateStore(t *testing.T) {
	env := newTestEnv(t)
	vendor, token := env.seedUser(t, "Vera Vendor", "vera@example.com", models.RoleVendor)
	store := env.seedStore(t, vendor.ID)

	w := env.do(t, http.MethodPatch, "/api/stores/me/store/deactivate", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	got, err := env.mem.Stores().GetByID(context.Background(), store.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestVerifyStoreIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	vendor, vendorToken := env.seedUser(t, "Vera Vendor", "vera@example.com", models.RoleVendor)
	_, adminToken := env.seedUser(t, "Ada Admin", "ada@example.com", models.RoleAdmin)
	store := &models.Store{OwnerID: vendor.ID, Name: "Corner Bakery", IsActive: true}
	require.NoError(t, env.mem.Stores().Create(context.Background(), store))

	w := env.do(t, http.MethodPatch, "/api/stores/"+store.ID+"/verify", vendorToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPatch, "/api/stores/"+store.ID+"/verify", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	got, err := env.mem.Stores().GetByID(context.Background(), store.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
}

func TestGetNearbyStores(t *testing.T) {
	env := newTestEnv(t)
	vendor, _ := env.seedUser(t, "Vera Vendor", "vera@example.com", models.RoleVendor)
	store := &models.Store{
		OwnerID: vendor.ID, Name: "Corner Bakery", IsActive: true, IsVerified: true,
		Location: models.NewGeoPoint(36.8172, -1.2864),
	}
	require.NoError(t, env.mem.Stores().Create(context.Background(), store))

	w := env.do(t, http.MethodGet, "/api/stores/nearby?longitude=36.8219&latitude=-1.2921", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])

	w = env.do(t, http.MethodGet, "/api/stores/nearby?latitude=-1.2921", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/stores/nearby?longitude=abc&latitude=-1.2921", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
