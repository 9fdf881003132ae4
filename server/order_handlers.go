package server

import (
	"net/http"
	"time"

	"github.com/example/tuuze/pkg/workflow"
	"github.com/gin-gonic/gin"
)

type orderItemRequest struct {
	Product  string `json:"product"`
	Quantity int64  `json:"quantity"`
}

type createOrderRequest struct {
	StoreID    string             `json:"storeId"`
	OrderItems []orderItemRequest `json:"orderItems"`
	PickupDate string             `json:"pickupDate"`
	PickupTime string             `json:"pickupTime"`
	Notes      string             `json:"notes"`
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	pickupDate, err := parsePickupDate(req.PickupDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid pickup date")
		return
	}

	items := make([]workflow.CreateOrderItem, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		items = append(items, workflow.CreateOrderItem{
			ProductID: item.Product,
			Quantity:  item.Quantity,
		})
	}

	order, err := s.engine.Create(c.Request.Context(), currentUser(c).ID, workflow.CreateOrderInput{
		StoreID:    req.StoreID,
		Items:      items,
		PickupDate: pickupDate,
		PickupTime: req.PickupTime,
		Notes:      req.Notes,
	})
	if err != nil {
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"order": order})
}

func (s *Server) getMyOrders(c *gin.Context) {
	orders, err := s.engine.ListMine(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.handleError(c, err)
		return
	}
	respondList(c, http.StatusOK, len(orders), gin.H{"orders": orders})
}

func (s *Server) getStoreOrders(c *gin.Context) {
	orders, err := s.engine.ListForStore(c.Request.Context(), currentUser(c).ID,
		c.Query("status"), c.DefaultQuery("sort", "-created_at"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	respondList(c, http.StatusOK, len(orders), gin.H{"orders": orders})
}

func (s *Server) getOrder(c *gin.Context) {
	user := currentUser(c)
	order, err := s.engine.Get(c.Request.Context(), workflow.Actor{ID: user.ID, Role: user.Role}, c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"order": order})
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := s.engine.UpdateStatus(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.Status)
	if err != nil {
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"order": order})
}

func (s *Server) cancelOrder(c *gin.Context) {
	order, err := s.engine.Cancel(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"order": order})
}

// parsePickupDate accepts RFC 3339 timestamps and plain dates.
func parsePickupDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
