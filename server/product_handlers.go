package server

import (
	"errors"
	"net/http"

	"github.com/example/tuuze/pkg/models"
	"github.com/example/tuuze/pkg/repository"
	"github.com/gin-gonic/gin"
)

func (s *Server) searchProducts(c *gin.Context) {
	products, err := s.products.Search(c.Request.Context(), repository.ProductSearch{
		Query:    c.Query("query"),
		Category: c.Query("category"),
	})
	if err != nil {
		s.handleError(c, err)
		return
	}
	respondList(c, http.StatusOK, len(products), gin.H{"products": products})
}

func (s *Server) getStoreProducts(c *gin.Context) {
	products, err := s.products.ListByStore(c.Request.Context(), c.Param("storeId"), true)
	if err != nil {
		s.handleError(c, err)
		return
	}
	respondList(c, http.StatusOK, len(products), gin.H{"products": products})
}

func (s *Server) getProduct(c *gin.Context) {
	product, err := s.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"product": product})
}

func (s *Server) getMyProducts(c *gin.Context) {
	store, err := s.stores.GetByOwner(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Store not found")
			return
		}
		s.handleError(c, err)
		return
	}

	products, err := s.products.ListByStore(c.Request.Context(), store.ID, false)
	if err != nil {
		s.handleError(c, err)
		return
	}
	respondList(c, http.StatusOK, len(products), gin.H{"products": products})
}

type createProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Inventory   int64    `json:"inventory"`
	Tags        []string `json:"tags"`
}

func (s *Server) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(c, http.StatusBadRequest, "Please provide a product name")
		return
	}
	if req.Price < 0 || req.Inventory < 0 {
		respondError(c, http.StatusBadRequest, "Price and inventory must not be negative")
		return
	}

	store, err := s.stores.GetByOwner(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Store not found. Please create a store first.")
			return
		}
		s.handleError(c, err)
		return
	}
	if !store.IsVerified {
		respondError(c, http.StatusForbidden, "Your store needs to be verified before adding products.")
		return
	}

	product := &models.Product{
		StoreID:     store.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Inventory:   req.Inventory,
		Tags:        req.Tags,
		IsAvailable: true,
	}
	if err := s.products.Create(c.Request.Context(), product); err != nil {
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"product": product})
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Subcategory *string  `json:"subcategory"`
	Inventory   *int64   `json:"inventory"`
	IsAvailable *bool    `json:"isAvailable"`
	Tags        []string `json:"tags"`
}

func (s *Server) updateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Price != nil && *req.Price < 0 {
		respondError(c, http.StatusBadRequest, "Price must not be negative")
		return
	}
	if req.Inventory != nil && *req.Inventory < 0 {
		respondError(c, http.StatusBadRequest, "Inventory must not be negative")
		return
	}

	product, err := s.ownedProduct(c)
	if err != nil {
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Subcategory != nil {
		product.Subcategory = *req.Subcategory
	}
	if req.Inventory != nil {
		product.Inventory = *req.Inventory
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}

	if err := s.products.Update(c.Request.Context(), product); err != nil {
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"product": product})
}

func (s *Server) deleteProduct(c *gin.Context) {
	product, err := s.ownedProduct(c)
	if err != nil {
		return
	}
	if err := s.products.Delete(c.Request.Context(), product.ID); err != nil {
		s.handleError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Product deleted successfully")
}

// ownedProduct loads the :id product and verifies it belongs to the
// calling vendor's store. It writes the error response itself; a non-nil
// error just signals the handler to stop.
func (s *Server) ownedProduct(c *gin.Context) (*models.Product, error) {
	product, err := s.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return nil, err
		}
		s.handleError(c, err)
		return nil, err
	}

	store, err := s.stores.GetByOwner(c.Request.Context(), currentUser(c).ID)
	if err != nil || product.StoreID != store.ID {
		respondError(c, http.StatusForbidden, "You are not authorized to modify this product")
		return nil, errors.New("forbidden")
	}
	return product, nil
}
