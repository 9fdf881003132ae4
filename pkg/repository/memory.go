package repository

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/tuuze/pkg/models"
	"github.com/google/uuid"
)

// Memory is an in-process implementation of all four repositories behind a
// single RWMutex. It backs the test suite and the -memory development mode.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]models.User
	stores   map[string]models.Store
	products map[string]models.Product
	orders   map[string]models.Order
	orderSeq map[string]int64
	seq      int64
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]models.User),
		stores:   make(map[string]models.Store),
		products: make(map[string]models.Product),
		orders:   make(map[string]models.Order),
		orderSeq: make(map[string]int64),
	}
}

func (m *Memory) Users() UserRepository       { return &memoryUsers{m} }
func (m *Memory) Stores() StoreRepository     { return &memoryStores{m} }
func (m *Memory) Products() ProductRepository { return &memoryProducts{m} }
func (m *Memory) Orders() OrderRepository     { return &memoryOrders{m} }

type memoryUsers struct{ m *Memory }

var _ UserRepository = (*memoryUsers)(nil)

func (r *memoryUsers) Create(ctx context.Context, u *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.m.users[u.ID] = *u
	return nil
}

func (r *memoryUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (r *memoryUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, u := range r.m.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUsers) GetByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	now := time.Now().UTC()
	for _, u := range r.m.users {
		if u.PasswordResetToken == tokenHash && u.PasswordResetExpires.After(now) {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUsers) Update(ctx context.Context, u *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[u.ID]; !ok {
		return ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	r.m.users[u.ID] = *u
	return nil
}

func (r *memoryUsers) List(ctx context.Context, f UserFilter) ([]models.User, int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	matched := make([]models.User, 0)
	for _, u := range r.m.users {
		if f.Search != "" &&
			!containsIgnoreCase(u.Name, f.Search) &&
			!containsIgnoreCase(u.Email, f.Search) {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= total {
		return []models.User{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *memoryUsers) Count(ctx context.Context) (int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return int64(len(r.m.users)), nil
}

type memoryStores struct{ m *Memory }

var _ StoreRepository = (*memoryStores)(nil)

func (r *memoryStores) Create(ctx context.Context, s *models.Store) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.m.stores[s.ID] = *s
	return nil
}

func (r *memoryStores) GetByID(ctx context.Context, id string) (*models.Store, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	s, ok := r.m.stores[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := s
	return &cp, nil
}

func (r *memoryStores) GetByOwner(ctx context.Context, ownerID string) (*models.Store, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, s := range r.m.stores {
		if s.OwnerID == ownerID {
			cp := s
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryStores) Update(ctx context.Context, s *models.Store) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.stores[s.ID]; !ok {
		return ErrNotFound
	}
	s.UpdatedAt = time.Now().UTC()
	r.m.stores[s.ID] = *s
	return nil
}

func (r *memoryStores) List(ctx context.Context) ([]models.Store, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := make([]models.Store, 0, len(r.m.stores))
	for _, s := range r.m.stores {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryStores) Nearby(ctx context.Context, longitude, latitude float64, maxDistance int64) ([]models.Store, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := make([]models.Store, 0)
	for _, s := range r.m.stores {
		if !s.IsActive || !s.IsVerified || len(s.Location.Coordinates) != 2 {
			continue
		}
		d := haversineMeters(latitude, longitude, s.Location.Coordinates[1], s.Location.Coordinates[0])
		if d <= float64(maxDistance) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memoryStores) Count(ctx context.Context) (int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return int64(len(r.m.stores)), nil
}

func (r *memoryStores) CountVerified(ctx context.Context, verified bool) (int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var n int64
	for _, s := range r.m.stores {
		if s.IsVerified == verified {
			n++
		}
	}
	return n, nil
}

type memoryProducts struct{ m *Memory }

var _ ProductRepository = (*memoryProducts)(nil)

func (r *memoryProducts) Create(ctx context.Context, p *models.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.m.products[p.ID] = *p
	return nil
}

func (r *memoryProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	p, ok := r.m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (r *memoryProducts) Update(ctx context.Context, p *models.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.products[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	r.m.products[p.ID] = *p
	return nil
}

func (r *memoryProducts) Delete(ctx context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.products, id)
	return nil
}

func (r *memoryProducts) ListByStore(ctx context.Context, storeID string, onlyAvailable bool) ([]models.Product, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := make([]models.Product, 0)
	for _, p := range r.m.products {
		if p.StoreID != storeID {
			continue
		}
		if onlyAvailable && !p.IsAvailable {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryProducts) Search(ctx context.Context, s ProductSearch) ([]models.Product, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := make([]models.Product, 0)
	for _, p := range r.m.products {
		if !p.IsAvailable {
			continue
		}
		if s.Category != "" && p.Category != s.Category {
			continue
		}
		if s.Query != "" &&
			!containsIgnoreCase(p.Name, s.Query) &&
			!containsIgnoreCase(p.Description, s.Query) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryProducts) Count(ctx context.Context) (int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return int64(len(r.m.products)), nil
}

// Reserve holds the write lock across the check and the decrement, giving
// the same no-overcommit guarantee as the Mongo conditional update.
func (r *memoryProducts) Reserve(ctx context.Context, id string, quantity int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.products[id]
	if !ok {
		return ErrNotFound
	}
	if !p.IsAvailable {
		return ErrProductUnavailable
	}
	if p.Inventory < quantity {
		return ErrInsufficientInventory
	}
	p.Inventory -= quantity
	p.UpdatedAt = time.Now().UTC()
	r.m.products[id] = p
	return nil
}

func (r *memoryProducts) Release(ctx context.Context, id string, quantity int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.products[id]
	if !ok {
		return nil
	}
	p.Inventory += quantity
	p.UpdatedAt = time.Now().UTC()
	r.m.products[id] = p
	return nil
}

type memoryOrders struct{ m *Memory }

var _ OrderRepository = (*memoryOrders)(nil)

func (r *memoryOrders) Create(ctx context.Context, o *models.Order) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	r.m.seq++
	r.m.orderSeq[o.ID] = r.m.seq
	r.m.orders[o.ID] = *o
	return nil
}

func (r *memoryOrders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	o, ok := r.m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (r *memoryOrders) Update(ctx context.Context, o *models.Order) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.orders[o.ID]; !ok {
		return ErrNotFound
	}
	o.UpdatedAt = time.Now().UTC()
	r.m.orders[o.ID] = *o
	return nil
}

func (r *memoryOrders) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := make([]models.Order, 0)
	for _, o := range r.m.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	r.sortNewestFirst(out)
	return out, nil
}

func (r *memoryOrders) ListByStore(ctx context.Context, storeID string, f OrderFilter) ([]models.Order, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := make([]models.Order, 0)
	for _, o := range r.m.orders {
		if o.StoreID != storeID {
			continue
		}
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		out = append(out, o)
	}
	if f.Sort == "created_at" {
		seq := r.m.orderSeq
		sort.Slice(out, func(i, j int) bool { return seq[out[i].ID] < seq[out[j].ID] })
	} else {
		r.sortNewestFirst(out)
	}
	return out, nil
}

func (r *memoryOrders) Count(ctx context.Context) (int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return int64(len(r.m.orders)), nil
}

func (r *memoryOrders) CountByStatus(ctx context.Context, statuses ...models.OrderStatus) (int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var n int64
	for _, o := range r.m.orders {
		for _, s := range statuses {
			if o.Status == s {
				n++
				break
			}
		}
	}
	return n, nil
}

// Insertion sequence breaks creation-time ties, which matter in tests
// where several orders land within one clock tick.
func (r *memoryOrders) sortNewestFirst(orders []models.Order) {
	seq := r.m.orderSeq
	sort.Slice(orders, func(i, j int) bool { return seq[orders[i].ID] > seq[orders[j].ID] })
}

func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadius * math.Asin(math.Sqrt(a))
}
