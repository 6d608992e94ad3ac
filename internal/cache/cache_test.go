package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/streamtv/pkg/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	// Create a mini Redis server for testing
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	cache, err := NewCache(mr.Host(), mr.Server().Addr().Port, "", 0)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create cache: %v", err)
	}

	return cache, mr
}

// storeFactories lets every behavioural test run against both backends
func storeFactories(t *testing.T) map[string]func() Store {
	return map[string]func() Store{
		"memory": func() Store { return NewMemory() },
		"redis": func() Store {
			cache, mr := setupTestCache(t)
			t.Cleanup(func() {
				cache.Close()
				mr.Close()
			})
			return cache
		},
	}
}

func TestNewCache(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	require.NotNil(t, cache)
	assert.NoError(t, cache.Ping(context.Background()))
}

func TestNewCacheConnectionFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	host, port := mr.Host(), mr.Server().Addr().Port
	mr.Close()

	_, err = NewCache(host, port, "", 0)
	assert.Error(t, err)
}

func TestStoreMyList(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			ctx := context.Background()

			in, err := s.InMyList(ctx, 1)
			require.NoError(t, err)
			assert.False(t, in)

			require.NoError(t, s.AddToMyList(ctx, 1))
			require.NoError(t, s.AddToMyList(ctx, 2))
			require.NoError(t, s.AddToMyList(ctx, 3))
			require.NoError(t, s.AddToMyList(ctx, 1))

			ids, err := s.MyList(ctx)
			require.NoError(t, err)
			assert.Equal(t, []int{3, 2, 1}, ids)

			in, err = s.InMyList(ctx, 1)
			require.NoError(t, err)
			assert.True(t, in)

			require.NoError(t, s.RemoveFromMyList(ctx, 2))
			require.NoError(t, s.RemoveFromMyList(ctx, 99))

			ids, err = s.MyList(ctx)
			require.NoError(t, err)
			assert.Equal(t, []int{3, 1}, ids)
		})
	}
}

func TestStoreProgress(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			ctx := context.Background()
			base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

			miss, err := s.Progress(ctx, 1)
			require.NoError(t, err)
			assert.Nil(t, miss)

			require.NoError(t, s.SaveProgress(ctx, models.WatchProgress{ContentID: 1, ElapsedSeconds: 10, LastWatched: base}))
			require.NoError(t, s.SaveProgress(ctx, models.WatchProgress{ContentID: 2, ElapsedSeconds: 20, LastWatched: base.Add(time.Minute)}))
			require.NoError(t, s.SaveProgress(ctx, models.WatchProgress{ContentID: 1, ElapsedSeconds: 300, LastWatched: base.Add(2 * time.Minute)}))

			got, err := s.Progress(ctx, 1)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, 300.0, got.ElapsedSeconds)
			assert.True(t, got.LastWatched.Equal(base.Add(2*time.Minute)))

			records, err := s.ListProgress(ctx)
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, 1, records[0].ContentID)
			assert.Equal(t, 2, records[1].ContentID)
		})
	}
}

func TestStorePreferences(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			ctx := context.Background()

			_, ok, err := s.Preference(ctx, "layoutDirection")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.SetPreference(ctx, "layoutDirection", "rtl"))
			v, ok, err := s.Preference(ctx, "layoutDirection")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "rtl", v)

			require.NoError(t, s.SetPreference(ctx, "layoutDirection", "ltr"))
			v, _, err = s.Preference(ctx, "layoutDirection")
			require.NoError(t, err)
			assert.Equal(t, "ltr", v)
		})
	}
}

func TestCacheKeyPrefix(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()
	cache.WithKeyPrefix("tenant-a")
	require.NoError(t, cache.AddToMyList(ctx, 7))
	require.NoError(t, cache.SetPreference(ctx, "layoutDirection", "rtl"))

	assert.True(t, mr.Exists("tenant-a:mylist"))
	assert.True(t, mr.Exists("tenant-a:preferences"))
	assert.Equal(t, "rtl", mr.HGet("tenant-a:preferences", "layoutDirection"))

	require.NoError(t, cache.Flush(ctx))
	assert.False(t, mr.Exists("tenant-a:mylist"))
	assert.False(t, mr.Exists("tenant-a:mylist:seq"))
}

func TestCacheCorruptProgress(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	mr.HSet("streamtv:progress", "5", "not json")

	_, err := cache.Progress(context.Background(), 5)
	assert.Error(t, err)
	_, err = cache.ListProgress(context.Background())
	assert.Error(t, err)
}

func TestNewStore(t *testing.T) {
	s, err := NewStore(StoreOptions{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	mr := miniredis.RunT(t)
	s, err = NewStore(StoreOptions{Driver: DriverRedis, Host: mr.Host(), Port: mr.Server().Addr().Port, KeyPrefix: "x"})
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &Cache{}, s)

	_, err = NewStore(StoreOptions{Driver: "etcd"})
	assert.Error(t, err)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(id int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_ = s.AddToMyList(ctx, id)
				_ = s.SaveProgress(ctx, models.WatchProgress{ContentID: id, ElapsedSeconds: float64(j)})
				_, _ = s.MyList(ctx)
				_, _ = s.ListProgress(ctx)
			}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	ids, err := s.MyList(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 10)
}
