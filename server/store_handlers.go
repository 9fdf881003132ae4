package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/example/tuuze/pkg/models"
	"github.com/example/tuuze/pkg/repository"
	"github.com/gin-gonic/gin"
)

func (s *Server) getNearbyStores(c *gin.Context) {
	lngStr := c.Query("longitude")
	latStr := c.Query("latitude")
	if lngStr == "" || latStr == "" {
		respondError(c, http.StatusBadRequest, "Please provide longitude and latitude coordinates")
		return
	}
	lng, err1 := strconv.ParseFloat(lngStr, 64)
	lat, err2 := strconv.ParseFloat(latStr, 64)
	if err1 != nil || err2 != nil {
		respondError(c, http.StatusBadRequest, "Invalid coordinates")
		return
	}
	distance, err := strconv.ParseInt(c.DefaultQuery("distance", "10000"), 10, 64)
	if err != nil || distance <= 0 {
		distance = 10000
	}

	stores, err := s.stores.Nearby(c.Request.Context(), lng, lat, distance)
	if err != nil {
		s.handleError(c, err)
		return
	}
	respondList(c, http.StatusOK, len(stores), gin.H{"stores": stores})
}

func (s *Server) getStore(c *gin.Context) {
	store, err := s.stores.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Store not found")
			return
		}
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"store": store})
}

type createStoreRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Address     models.Address `json:"address"`
	Longitude   float64        `json:"longitude"`
	Latitude    float64        `json:"latitude"`
	Contact     models.Contact `json:"contact"`
	Categories  []string       `json:"categories"`
}

func (s *Server) createStore(c *gin.Context) {
	var req createStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Description == "" {
		respondError(c, http.StatusBadRequest, "Please provide a store name and description")
		return
	}

	user := currentUser(c)
	if _, err := s.stores.GetByOwner(c.Request.Context(), user.ID); err == nil {
		respondError(c, http.StatusBadRequest, "You already have a store. You can only have one store per account.")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.handleError(c, err)
		return
	}

	// Opening a store makes the caller a vendor.
	if user.Role != models.RoleVendor {
		user.Role = models.RoleVendor
		if err := s.users.Update(c.Request.Context(), user); err != nil {
			s.handleError(c, err)
			return
		}
	}

	store := &models.Store{
		OwnerID:        user.ID,
		Name:           req.Name,
		Description:    req.Description,
		Logo:           "default-store.png",
		CoverImage:     "default-cover.png",
		Address:        req.Address,
		Location:       models.NewGeoPoint(req.Longitude, req.Latitude),
		Contact:        req.Contact,
		OperatingHours: models.DefaultOperatingHours(),
		Categories:     req.Categories,
		IsActive:       true,
	}
	if err := s.stores.Create(c.Request.Context(), store); err != nil {
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"store": store})
}

func (s *Server) getMyStore(c *gin.Context) {
	store, err := s.stores.GetByOwner(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "You do not have a store yet")
			return
		}
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"store": store})
}

type updateStoreRequest struct {
	Name           *string                 `json:"name"`
	Description    *string                 `json:"description"`
	Address        *models.Address         `json:"address"`
	Longitude      *float64                `json:"longitude"`
	Latitude       *float64                `json:"latitude"`
	Contact        *models.Contact         `json:"contact"`
	Categories     []string                `json:"categories"`
	OperatingHours []models.OperatingHours `json:"operatingHours"`
}

func (s *Server) updateMyStore(c *gin.Context) {
	var req updateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	store, err := s.stores.GetByOwner(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Store not found")
			return
		}
		s.handleError(c, err)
		return
	}

	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.Description != nil {
		store.Description = *req.Description
	}
	if req.Address != nil {
		store.Address = *req.Address
	}
	if req.Longitude != nil && req.Latitude != nil {
		store.Location = models.NewGeoPoint(*req.Longitude, *req.Latitude)
	}
	if req.Contact != nil {
		store.Contact = *req.Contact
	}
	if req.Categories != nil {
		store.Categories = req.Categories
	}
	if req.OperatingHours != nil {
		store.OperatingHours = req.OperatingHours
	}

	if err := s.stores.Update(c.Request.Context(), store); err != nil {
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"store": store})
}

func (s *Server) deactivateStore(c *gin.Context) {
	store, err := s.stores.GetByOwner(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Store not found")
			return
		}
		s.handleError(c, err)
		return
	}

	store.IsActive = false
	if err := s.stores.Update(c.Request.Context(), store); err != nil {
		s.handleError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Store deactivated successfully")
}

func (s *Server) listStores(c *gin.Context) {
	stores, err := s.stores.List(c.Request.Context())
	if err != nil {
		s.handleError(c, err)
		return
	}
	respondList(c, http.StatusOK, len(stores), gin.H{"stores": stores})
}

func (s *Server) verifyStore(c *gin.Context) {
	store, err := s.stores.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Store not found")
			return
		}
		s.handleError(c, err)
		return
	}

	store.IsVerified = true
	if err := s.stores.Update(c.Request.Context(), store); err != nil {
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"store": store})
}
