package repository

import (
	"context"
	"errors"

	"github.com/example/tuuze/pkg/models"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a user registration collides with
	// an existing account.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrProductUnavailable is returned by Reserve when the product is
	// flagged unavailable.
	ErrProductUnavailable = errors.New("product not available")

	// ErrInsufficientInventory is returned by Reserve when the requested
	// quantity exceeds the available inventory.
	ErrInsufficientInventory = errors.New("insufficient inventory")
)

type UserFilter struct {
	Search string
	Page   int64
	Limit  int64
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, tokenHash string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	List(ctx context.Context, f UserFilter) ([]models.User, int64, error)
	Count(ctx context.Context) (int64, error)
}

type StoreRepository interface {
	Create(ctx context.Context, s *models.Store) error
	GetByID(ctx context.Context, id string) (*models.Store, error)
	GetByOwner(ctx context.Context, ownerID string) (*models.Store, error)
	Update(ctx context.Context, s *models.Store) error
	List(ctx context.Context) ([]models.Store, error)
	// Nearby returns active, verified stores within maxDistance meters.
	Nearby(ctx context.Context, longitude, latitude float64, maxDistance int64) ([]models.Store, error)
	Count(ctx context.Context) (int64, error)
	CountVerified(ctx context.Context, verified bool) (int64, error)
}

type ProductSearch struct {
	Query    string
	Category string
}

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
	ListByStore(ctx context.Context, storeID string, onlyAvailable bool) ([]models.Product, error)
	Search(ctx context.Context, s ProductSearch) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)

	// Reserve atomically decrements inventory by quantity if and only if the
	// product exists, is available, and holds at least that much stock.
	// Failures are reported as ErrNotFound, ErrProductUnavailable or
	// ErrInsufficientInventory; on any failure inventory is untouched.
	Reserve(ctx context.Context, id string, quantity int64) error

	// Release increments inventory by quantity. A missing product is a
	// no-op so a cancellation never fails on a since-deleted product.
	Release(ctx context.Context, id string, quantity int64) error
}

type OrderFilter struct {
	Status string
	Sort   string
}

type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	// ListByCustomer returns the customer's orders newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	ListByStore(ctx context.Context, storeID string, f OrderFilter) ([]models.Order, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, statuses ...models.OrderStatus) (int64, error)
}
