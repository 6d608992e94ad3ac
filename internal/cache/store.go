package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/therealutkarshpriyadarshi/streamtv/pkg/models"
)

// Store persists per-viewer state: the my-list set, watch progress and UI
// preferences. Implementations must be safe for concurrent use.
type Store interface {
	// AddToMyList is idempotent; re-adding keeps the original position.
	AddToMyList(ctx context.Context, contentID int) error
	RemoveFromMyList(ctx context.Context, contentID int) error
	InMyList(ctx context.Context, contentID int) (bool, error)
	// MyList returns content ids, most recently added first.
	MyList(ctx context.Context) ([]int, error)

	// SaveProgress replaces any existing record for the same content id.
	SaveProgress(ctx context.Context, progress models.WatchProgress) error
	// Progress returns nil without error on a miss.
	Progress(ctx context.Context, contentID int) (*models.WatchProgress, error)
	// ListProgress returns all records, most recently watched first.
	ListProgress(ctx context.Context) ([]models.WatchProgress, error)

	Preference(ctx context.Context, key string) (string, bool, error)
	SetPreference(ctx context.Context, key, value string) error

	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Cache)(nil)
)

// Store drivers
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Memory is an in-process Store
type Memory struct {
	mu          sync.RWMutex
	myList      []int
	progress    map[int]models.WatchProgress
	preferences map[string]string
}

// NewMemory creates an empty in-process store
func NewMemory() *Memory {
	return &Memory{
		progress:    make(map[int]models.WatchProgress),
		preferences: make(map[string]string),
	}
}

// AddToMyList appends contentID unless it is already present
func (m *Memory) AddToMyList(ctx context.Context, contentID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.myList {
		if id == contentID {
			return nil
		}
	}
	m.myList = append(m.myList, contentID)
	return nil
}

// RemoveFromMyList removes contentID if present
func (m *Memory) RemoveFromMyList(ctx context.Context, contentID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, id := range m.myList {
		if id == contentID {
			m.myList = append(m.myList[:i], m.myList[i+1:]...)
			return nil
		}
	}
	return nil
}

// InMyList reports membership
func (m *Memory) InMyList(ctx context.Context, contentID int) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.myList {
		if id == contentID {
			return true, nil
		}
	}
	return false, nil
}

// MyList returns ids most recently added first
func (m *Memory) MyList(ctx context.Context) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int, 0, len(m.myList))
	for i := len(m.myList) - 1; i >= 0; i-- {
		ids = append(ids, m.myList[i])
	}
	return ids, nil
}

// SaveProgress upserts a progress record
func (m *Memory) SaveProgress(ctx context.Context, progress models.WatchProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.progress[progress.ContentID] = progress
	return nil
}

// Progress returns the record for contentID or nil
func (m *Memory) Progress(ctx context.Context, contentID int) (*models.WatchProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.progress[contentID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// ListProgress returns every record, most recently watched first
func (m *Memory) ListProgress(ctx context.Context) ([]models.WatchProgress, error) {
	m.mu.RLock()
	records := make([]models.WatchProgress, 0, len(m.progress))
	for _, p := range m.progress {
		records = append(records, p)
	}
	m.mu.RUnlock()

	sortByLastWatched(records)
	return records, nil
}

// Preference returns the stored value for key
func (m *Memory) Preference(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.preferences[key]
	return v, ok, nil
}

// SetPreference stores value under key
func (m *Memory) SetPreference(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.preferences[key] = value
	return nil
}

// Ping always succeeds
func (m *Memory) Ping(ctx context.Context) error { return nil }

// Close is a no-op
func (m *Memory) Close() error { return nil }

// sortByLastWatched orders records newest first, breaking ties by content id
func sortByLastWatched(records []models.WatchProgress) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].LastWatched.Equal(records[j].LastWatched) {
			return records[i].ContentID < records[j].ContentID
		}
		return records[i].LastWatched.After(records[j].LastWatched)
	})
}

// StoreOptions configures NewStore
type StoreOptions struct {
	Driver    string
	KeyPrefix string
	Host      string
	Port      int
	Password  string
	DB        int
}

// NewStore builds the Store selected by opts.Driver
func NewStore(opts StoreOptions) (Store, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		c, err := NewCache(opts.Host, opts.Port, opts.Password, opts.DB)
		if err != nil {
			return nil, err
		}
		return c.WithKeyPrefix(opts.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
