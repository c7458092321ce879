package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aTrapDeer/portfolio-backend/internal/logger"
)

type item struct {
	Name string `json:"name"`
}

func TestRememberCachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(time.Minute)
	log := logger.Nop()

	calls := 0
	fetch := func(context.Context) ([]item, error) {
		calls++
		return []item{{Name: "a"}}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Remember(ctx, s, log, Key("projects", "list"), fetch)
		require.NoError(t, err)
		assert.Equal(t, []item{{Name: "a"}}, got)
	}
	assert.Equal(t, 1, calls)

	Invalidate(ctx, s, log, "projects")
	_, err := Remember(ctx, s, log, Key("projects", "list"), fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestInvalidateDuringFetchDiscardsTheStaleResult(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(time.Minute)
	log := logger.Nop()
	key := Key("resources", "list")

	var mu sync.Mutex
	current := "old"
	read := func() string {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(context.Context) (item, error) {
		v := read()
		close(started)
		<-release
		return item{Name: v}, nil
	}
	fast := func(context.Context) (item, error) { return item{Name: read()}, nil }

	type result struct {
		v   item
		err error
	}
	first := make(chan result, 1)
	go func() {
		v, err := Remember(ctx, s, log, key, slow)
		first <- result{v, err}
	}()
	<-started

	mu.Lock()
	current = "new"
	mu.Unlock()
	Invalidate(ctx, s, log, "resources")

	// a read after the write does not join the fetch that is still running
	got, err := Remember(ctx, s, log, key, fast)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)

	close(release)
	r := <-first
	require.NoError(t, r.err)
	assert.Equal(t, "old", r.v.Name)

	got, err = Remember(ctx, s, log, key, func(context.Context) (item, error) {
		t.Fatal("expected a cache hit")
		return item{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
}

func TestStaleFetchIsNotCachedWithoutAnotherRead(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(time.Minute)
	log := logger.Nop()
	key := Key("skills", "list")

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Remember(ctx, s, log, key, func(context.Context) (item, error) {
			close(started)
			<-release
			return item{Name: "old"}, nil
		})
	}()
	<-started
	Invalidate(ctx, s, log, "skills")
	close(release)
	<-done

	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(time.Minute)

	calls := 0
	fetch := func(context.Context) (item, error) {
		calls++
		return item{}, errors.New("boom")
	}
	_, err := Remember(ctx, s, logger.Nop(), "k", fetch)
	require.Error(t, err)
	_, err = Remember(ctx, s, logger.Nop(), "k", fetch)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestInvalidateIsScopedToEntity(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(time.Minute)

	require.NoError(t, s.Set(ctx, Key("projects", "list"), []byte("1")))
	require.NoError(t, s.Set(ctx, Key("projects", "show", "site"), []byte("2")))
	require.NoError(t, s.Set(ctx, Key("resources", "list"), []byte("3")))

	Invalidate(ctx, s, logger.Nop(), "projects")

	_, ok, _ := s.Get(ctx, Key("projects", "list"))
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, Key("projects", "show", "site"))
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, Key("resources", "list"))
	assert.True(t, ok)
}

func TestEntityOf(t *testing.T) {
	assert.Equal(t, "projects", entityOf(Key("projects", "show", "site")))
	assert.Equal(t, "projects", entityOf(Key("projects")))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "portfolio:public:projects", Key("projects"))
	assert.Equal(t, "portfolio:public:projects:show:site", Key("projects", "show", "site"))
}
