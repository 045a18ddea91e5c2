package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Storage is the key-value capability carts are mirrored to. Read returns
// nil data and a nil error when nothing is stored under key.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Session owns one cart. Dispatch calls are serialized.
type Session struct {
	key   string
	m     *Manager
	mu    sync.Mutex
	state State
}

// State returns a snapshot of the current cart.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// Dispatch applies a and queues a write when the line items changed.
func (s *Session) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	s.state = Reduce(prev, a)
	if s.state.Changed(prev) {
		s.m.persist(s, s.state.Items)
	}
	return s.state.Snapshot()
}

type write struct {
	key  string
	data []byte
}

// unflushed is the latest session for a key that still has writes queued.
type unflushed struct {
	s      *Session
	writes int
}

// Manager keeps live cart sessions and writes their items back to Storage
// from a single goroutine, in the order the transitions happened.
type Manager struct {
	store        Storage
	log          *zap.Logger
	writeTimeout time.Duration

	sessions *lru.Cache
	loads    singleflight.Group

	mu      sync.Mutex
	pending map[string]*unflushed

	closing sync.RWMutex
	closed  bool
	writes  chan write
	done    chan struct{}
}

var ErrManagerClosed = errors.New("cart manager closed")

// NewManager starts the writer goroutine. Close must be called to stop it.
func NewManager(store Storage, log *zap.Logger, cacheSize int) (*Manager, error) {
	if store == nil {
		return nil, errors.New("cart storage must be non-nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	m := &Manager{
		store:        store,
		log:          log,
		writeTimeout: 5 * time.Second,
		sessions:     cache,
		pending:      map[string]*unflushed{},
		writes:       make(chan write, 256),
		done:         make(chan struct{}),
	}
	go m.run()
	return m, nil
}

// Open returns the live session for key, hydrating it from storage the first
// time. Unreadable or corrupt stored data yields an empty cart. A session
// evicted while its writes are still queued is revived instead of re-read.
func (m *Manager) Open(ctx context.Context, key string) *Session {
	if v, ok := m.sessions.Get(key); ok {
		return v.(*Session)
	}
	if s := m.queued(key); s != nil {
		if prev, ok, _ := m.sessions.PeekOrAdd(key, s); ok {
			return prev.(*Session)
		}
		return s
	}
	v, _, _ := m.loads.Do(key, func() (interface{}, error) {
		s := &Session{key: key, m: m, state: Reduce(Empty(), Load{Items: m.load(ctx, key)})}
		if prev, ok, _ := m.sessions.PeekOrAdd(key, s); ok {
			return prev, nil
		}
		return s, nil
	})
	return v.(*Session)
}

// Forget drops the live session for key. Stored data is left alone.
func (m *Manager) Forget(key string) {
	m.sessions.Remove(key)
}

// Close flushes queued writes and stops the writer.
func (m *Manager) Close() error {
	m.closing.Lock()
	if m.closed {
		m.closing.Unlock()
		return ErrManagerClosed
	}
	m.closed = true
	close(m.writes)
	m.closing.Unlock()
	<-m.done
	return nil
}

func (m *Manager) load(ctx context.Context, key string) []LineItem {
	data, err := m.store.Read(ctx, key)
	if err != nil {
		m.log.Warn("cart read failed, starting empty", zap.String("cart", key), zap.Error(err))
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		m.log.Warn("discarding malformed cart", zap.String("cart", key), zap.Error(err))
		return nil
	}
	return items
}

func (m *Manager) queued(key string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.pending[key]; ok {
		return u.s
	}
	return nil
}

func (m *Manager) persist(s *Session, items []LineItem) {
	key := s.key
	data, err := json.Marshal(items)
	if err != nil {
		m.log.Error("cart encode failed", zap.String("cart", key), zap.Error(err))
		return
	}
	m.closing.RLock()
	defer m.closing.RUnlock()
	if m.closed {
		m.log.Warn("cart write dropped after close", zap.String("cart", key))
		return
	}
	m.mu.Lock()
	u, ok := m.pending[key]
	if !ok {
		u = &unflushed{}
		m.pending[key] = u
	}
	u.s = s
	u.writes++
	m.mu.Unlock()
	m.writes <- write{key: key, data: data}
}

func (m *Manager) run() {
	defer close(m.done)
	for w := range m.writes {
		ctx, cancel := context.WithTimeout(context.Background(), m.writeTimeout)
		if err := m.store.Write(ctx, w.key, w.data); err != nil {
			m.log.Warn("cart write failed", zap.String("cart", w.key), zap.Error(err))
		}
		cancel()
		m.flushed(w.key)
	}
}

func (m *Manager) flushed(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.pending[key]; ok {
		u.writes--
		if u.writes <= 0 {
			delete(m.pending, key)
		}
	}
}
