// Package workflow implements the order lifecycle: creation with inventory
// reservation, the vendor status machine, and customer cancellation with
// restocking.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/example/tuuze/pkg/models"
	"github.com/example/tuuze/pkg/repository"
	"go.uber.org/zap"
)

const maxNotesLength = 500

// Actor identifies the authenticated caller of a workflow operation.
type Actor struct {
	ID   string
	Role string
}

type CreateOrderItem struct {
	ProductID string
	Quantity  int64
}

type CreateOrderInput struct {
	StoreID    string
	Items      []CreateOrderItem
	PickupDate time.Time
	PickupTime string
	Notes      string
}

type Engine struct {
	stores   repository.StoreRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	logger   *zap.Logger

	// allowAnyTransition disables the status transition table and falls
	// back to enum-membership checking only.
	allowAnyTransition bool
}

func NewEngine(stores repository.StoreRepository, products repository.ProductRepository, orders repository.OrderRepository, allowAnyTransition bool, logger *zap.Logger) *Engine {
	return &Engine{
		stores:             stores,
		products:           products,
		orders:             orders,
		allowAnyTransition: allowAnyTransition,
		logger:             logger,
	}
}

// Create places a pickup order for the customer. Validation runs in two
// phases: first every line item is checked without mutating anything, then
// each quantity is reserved with an atomic conditional decrement. If a
// reservation fails partway, which can only happen when concurrent orders
// deplete stock between the phases, the already-reserved quantities are
// released before the error is returned.
func (e *Engine) Create(ctx context.Context, customerID string, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, validationf("No order items provided")
	}
	if in.PickupDate.IsZero() {
		return nil, validationf("Please provide a pickup date")
	}
	if in.PickupDate.Before(truncateToDay(time.Now())) {
		return nil, validationf("Pickup date cannot be in the past")
	}
	if in.PickupTime == "" {
		return nil, validationf("Please provide a pickup time")
	}
	if len(in.Notes) > maxNotesLength {
		return nil, validationf("Notes cannot be more than %d characters", maxNotesLength)
	}

	if _, err := e.stores.GetByID(ctx, in.StoreID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("Store not found")
		}
		return nil, err
	}

	// Phase one: validate every item and capture the snapshots.
	items := make([]models.OrderItem, 0, len(in.Items))
	var totalAmount float64
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return nil, validationf("Quantity must be at least 1")
		}
		product, err := e.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, notFoundf("Product with ID %s not found", item.ProductID)
			}
			return nil, err
		}
		if !product.IsAvailable {
			return nil, validationf("Product %q is not available", product.Name)
		}
		if product.Inventory < item.Quantity {
			return nil, validationf("Not enough inventory for %q", product.Name)
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
		totalAmount += product.Price * float64(item.Quantity)
	}

	// Phase two: reserve each quantity.
	for i, item := range items {
		if err := e.products.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			e.releaseItems(ctx, items[:i])
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return nil, notFoundf("Product with ID %s not found", item.ProductID)
			case errors.Is(err, repository.ErrProductUnavailable):
				return nil, validationf("Product %q is not available", item.Name)
			case errors.Is(err, repository.ErrInsufficientInventory):
				return nil, validationf("Not enough inventory for %q", item.Name)
			}
			return nil, err
		}
	}

	order := &models.Order{
		CustomerID:  customerID,
		StoreID:     in.StoreID,
		Items:       items,
		TotalAmount: totalAmount,
		Status:      models.OrderStatusPending,
		PickupDate:  in.PickupDate,
		PickupTime:  in.PickupTime,
		Notes:       in.Notes,
	}
	if err := e.orders.Create(ctx, order); err != nil {
		e.releaseItems(ctx, items)
		return nil, err
	}

	e.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("customer_id", customerID),
		zap.String("store_id", in.StoreID),
		zap.Float64("total_amount", totalAmount))
	return order, nil
}

// UpdateStatus moves an order through the vendor status machine. It never
// touches inventory: a rejected order keeps its reservation until the
// customer cancels.
func (e *Engine) UpdateStatus(ctx context.Context, vendorID, orderID, status string) (*models.Order, error) {
	if status == "" {
		return nil, validationf("Please provide status")
	}
	next, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, validationf("Invalid status %q", status)
	}

	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("Order not found")
		}
		return nil, err
	}

	store, err := e.stores.GetByOwner(ctx, vendorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("Store not found")
		}
		return nil, err
	}
	if order.StoreID != store.ID {
		return nil, forbiddenf("You are not authorized to update this order")
	}

	if e.allowAnyTransition {
		// Legacy mode still keeps cancellation out of the vendor's reach.
		if next == models.OrderStatusCancelled {
			return nil, validationf("Orders are cancelled through the cancellation endpoint")
		}
	} else if !order.Status.CanTransitionTo(next) {
		return nil, validationf("Cannot transition order from %s to %s", order.Status, next)
	}

	order.Status = next
	if err := e.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	e.logger.Info("order status updated",
		zap.String("order_id", order.ID),
		zap.String("status", string(next)))
	return order, nil
}

// Cancel sets the order to cancelled and restocks every line item.
// Restocking tolerates products deleted since the order was placed.
func (e *Engine) Cancel(ctx context.Context, customerID, orderID string) (*models.Order, error) {
	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("Order not found")
		}
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, forbiddenf("You are not authorized to cancel this order")
	}
	if !order.Status.Cancellable() {
		return nil, validationf("Order cannot be cancelled when in %s status", order.Status)
	}

	order.Status = models.OrderStatusCancelled
	if err := e.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	e.releaseItems(ctx, order.Items)

	e.logger.Info("order cancelled",
		zap.String("order_id", order.ID),
		zap.String("customer_id", customerID))
	return order, nil
}

// Get enforces the view rule: the customer who placed the order, the vendor
// owning its store, or an admin.
func (e *Engine) Get(ctx context.Context, actor Actor, orderID string) (*models.Order, error) {
	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("Order not found")
		}
		return nil, err
	}

	if actor.Role == models.RoleAdmin || order.CustomerID == actor.ID {
		return order, nil
	}

	store, err := e.stores.GetByOwner(ctx, actor.ID)
	if err != nil || order.StoreID != store.ID {
		return nil, forbiddenf("You are not authorized to view this order")
	}
	return order, nil
}

func (e *Engine) ListMine(ctx context.Context, customerID string) ([]models.Order, error) {
	return e.orders.ListByCustomer(ctx, customerID)
}

// ListForStore returns the orders of the vendor's store, optionally
// filtered by status and sorted by the given expression.
func (e *Engine) ListForStore(ctx context.Context, vendorID, status, sort string) ([]models.Order, error) {
	store, err := e.stores.GetByOwner(ctx, vendorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("Store not found")
		}
		return nil, err
	}
	return e.orders.ListByStore(ctx, store.ID, repository.OrderFilter{Status: status, Sort: sort})
}

func (e *Engine) releaseItems(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if err := e.products.Release(ctx, item.ProductID, item.Quantity); err != nil {
			e.logger.Error("failed to release reserved inventory",
				zap.String("product_id", item.ProductID),
				zap.Int64("quantity", item.Quantity),
				zap.Error(err))
		}
	}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
