// Package memory implements the repositories in process memory. It backs
// DB_DRIVER=memory, runs without Redis, and serves the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"aquashop/cart"
	"aquashop/models"
	"aquashop/repository"

	"github.com/google/uuid"
)

var (
	_ repository.FishRepository    = (*FishRepository)(nil)
	_ repository.OrderRepository   = (*OrderRepository)(nil)
	_ repository.SessionRepository = (*SessionRepository)(nil)
	_ cart.Storage                 = (*CartStore)(nil)
)

// FishRepository provides an in-memory catalog.
type FishRepository struct {
	mu     sync.RWMutex
	fishes map[string]models.Fish
}

func NewFishRepository() *FishRepository {
	return &FishRepository{fishes: make(map[string]models.Fish)}
}

func (r *FishRepository) GetFishById(ctx context.Context, id string) (models.Fish, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fishes[id]
	return f, ok, nil
}

func (r *FishRepository) ListFishes(ctx context.Context, category string) ([]models.Fish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Fish, 0, len(r.fishes))
	for _, f := range r.fishes {
		if category == "" || f.Category == category {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Id < out[j].Id
	})
	return out, nil
}

func (r *FishRepository) ListCategories(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]bool{}
	cats := []string{}
	for _, f := range r.fishes {
		if f.Category != "" && !seen[f.Category] {
			seen[f.Category] = true
			cats = append(cats, f.Category)
		}
	}
	sort.Strings(cats)
	return cats, nil
}

func (r *FishRepository) CreateFish(ctx context.Context, f models.Fish) error {
	if err := repository.ValidateFish(f); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fishes[f.Id]; ok {
		return models.ErrNotAllowed
	}
	r.fishes[f.Id] = f
	return nil
}

func (r *FishRepository) UpdateFish(ctx context.Context, f models.Fish) error {
	if err := repository.ValidateFish(f); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fishes[f.Id]; !ok {
		return models.ErrNotFoundError
	}
	r.fishes[f.Id] = f
	return nil
}

func (r *FishRepository) UpsertFish(ctx context.Context, f models.Fish) error {
	if err := repository.ValidateFish(f); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fishes[f.Id] = f
	return nil
}

func (r *FishRepository) DeleteFish(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fishes[id]; !ok {
		return models.ErrNotFoundError
	}
	delete(r.fishes, id)
	return nil
}

// OrderRepository keeps orders in insertion order.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.Order
	seq    []string
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]models.Order)}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, o models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.Id]; ok {
		return models.ErrServerError
	}
	o.Items = append([]models.OrderItem(nil), o.Items...)
	r.orders[o.Id] = o
	r.seq = append(r.seq, o.Id)
	return nil
}

func (r *OrderRepository) GetOrderById(ctx context.Context, id string) (models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return models.Order{}, models.ErrNotFoundError
	}
	return o, nil
}

func (r *OrderRepository) ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Order{}
	for i := len(r.seq) - 1; i >= 0; i-- {
		o := r.orders[r.seq[i]]
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *OrderRepository) SetOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return models.ErrNotFoundError
	}
	o.Status = status
	r.orders[id] = o
	return nil
}

type session struct {
	username string
	expires  time.Time
}

// SessionRepository holds admin sessions with expiry.
type SessionRepository struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]session
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionRepository{ttl: ttl, now: time.Now, sessions: make(map[string]session)}
}

func (r *SessionRepository) CreateSession(ctx context.Context, username string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	r.sessions[id] = session{username: username, expires: r.now().Add(r.ttl)}
	return id, nil
}

func (r *SessionRepository) lookup(id string) (session, bool) {
	s, ok := r.sessions[id]
	if !ok {
		return session{}, false
	}
	if !r.now().Before(s.expires) {
		delete(r.sessions, id)
		return session{}, false
	}
	return s, true
}

func (r *SessionRepository) CheckSession(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.lookup(id)
	return ok, nil
}

func (r *SessionRepository) GetSessionUser(ctx context.Context, id string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.lookup(id)
	return s.username, ok, nil
}

func (r *SessionRepository) DeleteSession(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// CartStore is a cart.Storage over a map.
type CartStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewCartStore() *CartStore {
	return &CartStore{data: make(map[string][]byte)}
}

func (s *CartStore) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *CartStore) Write(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), data...)
	return nil
}
