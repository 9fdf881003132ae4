package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/example/tuuze/pkg/models"
	"github.com/example/tuuze/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) getStats(c *gin.Context) {
	ctx := c.Request.Context()

	if s.cache != nil {
		if stats, err := s.cache.GetStatsCache(ctx); err == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
			return
		}
	}

	stats := &repository.PlatformStats{}
	var err error
	if stats.UserCount, err = s.users.Count(ctx); err != nil {
		s.handleError(c, err)
		return
	}
	if stats.StoreCount, err = s.stores.Count(ctx); err != nil {
		s.handleError(c, err)
		return
	}
	if stats.PendingStores, err = s.stores.CountVerified(ctx, false); err != nil {
		s.handleError(c, err)
		return
	}
	if stats.VerifiedStores, err = s.stores.CountVerified(ctx, true); err != nil {
		s.handleError(c, err)
		return
	}
	if stats.ProductCount, err = s.products.Count(ctx); err != nil {
		s.handleError(c, err)
		return
	}
	if stats.OrderCount, err = s.orders.Count(ctx); err != nil {
		s.handleError(c, err)
		return
	}
	if stats.ActiveOrders, err = s.orders.CountByStatus(ctx,
		models.OrderStatusPending, models.OrderStatusAccepted, models.OrderStatusReady); err != nil {
		s.handleError(c, err)
		return
	}
	if stats.CompletedOrders, err = s.orders.CountByStatus(ctx, models.OrderStatusCompleted); err != nil {
		s.handleError(c, err)
		return
	}

	if s.cache != nil {
		if err := s.cache.CacheStats(ctx, stats); err != nil {
			s.logger.Warn("failed to cache stats", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func (s *Server) listUsers(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)

	users, total, err := s.users.List(c.Request.Context(), repository.UserFilter{
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"totalCount": total,
		"data":       gin.H{"users": users},
	})
}

type updateUserRoleRequest struct {
	Role string `json:"role"`
}

func (s *Server) updateUserRole(c *gin.Context) {
	var req updateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidRole(req.Role) {
		respondError(c, http.StatusBadRequest, "Invalid role specified")
		return
	}

	user, err := s.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		s.handleError(c, err)
		return
	}

	user.Role = req.Role
	if err := s.users.Update(c.Request.Context(), user); err != nil {
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"user": user})
}

type updateUserStatusRequest struct {
	Active *bool `json:"active"`
}

func (s *Server) updateUserStatus(c *gin.Context) {
	var req updateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		respondError(c, http.StatusBadRequest, "Invalid active status specified")
		return
	}

	user, err := s.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		s.handleError(c, err)
		return
	}

	user.Active = *req.Active
	if err := s.users.Update(c.Request.Context(), user); err != nil {
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"user": user})
}
