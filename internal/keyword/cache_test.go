package keyword

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKeywordStore struct {
	err      error
	keywords []string
	loads    int
}

func (f *fakeKeywordStore) LoadCustomKeywords(_ context.Context) ([]string, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	return append([]string(nil), f.keywords...), nil
}

func (f *fakeKeywordStore) AddCustomKeyword(_ context.Context, keyword string) error {
	f.keywords = append(f.keywords, keyword)
	return nil
}

func (f *fakeKeywordStore) RemoveCustomKeyword(_ context.Context, _ string) error {
	return nil
}

func newTestCache(store *fakeKeywordStore, ttl time.Duration) (*Cache, *time.Time) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache(store, ttl, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.now = func() time.Time { return clock }
	return c, &clock
}

func TestNewList_MergesAndDeduplicates(t *testing.T) {
	l := NewList([]string{"bank", "VA", " "}, []string{"Bank", "acme widgets"})
	assert.Equal(t, []string{"BANK", "VA", "ACME WIDGETS"}, l.Keywords())
	assert.Equal(t, 3, l.Len())
}

func TestCache_ServesWithinTTL(t *testing.T) {
	store := &fakeKeywordStore{keywords: []string{"Acme Widgets"}}
	c, clock := newTestCache(store, time.Minute)
	ctx := context.Background()

	first := c.Current(ctx)
	assert.True(t, first.Check("ACME WIDGETS").IsExcluded)
	assert.True(t, first.Check("VA Medical Center").IsExcluded)

	*clock = clock.Add(30 * time.Second)
	assert.Same(t, first, c.Current(ctx))
	assert.Equal(t, 1, store.loads)
}

func TestCache_CopyOnRefresh(t *testing.T) {
	store := &fakeKeywordStore{}
	c, clock := newTestCache(store, time.Minute)
	ctx := context.Background()

	before := c.Current(ctx)
	require.NoError(t, store.AddCustomKeyword(ctx, "Globex"))

	*clock = clock.Add(2 * time.Minute)
	after := c.Current(ctx)

	assert.NotSame(t, before, after)
	assert.False(t, before.Check("Globex").IsExcluded, "old snapshot must not change")
	assert.True(t, after.Check("Globex").IsExcluded)
	assert.Equal(t, 2, store.loads)
}

func TestCache_RefreshFailureKeepsPrevious(t *testing.T) {
	store := &fakeKeywordStore{keywords: []string{"Globex"}}
	c, clock := newTestCache(store, time.Minute)
	ctx := context.Background()

	before := c.Current(ctx)
	store.err = errors.New("database is locked")
	*clock = clock.Add(2 * time.Minute)

	assert.Same(t, before, c.Current(ctx))
}

func TestCache_FirstLoadFailureServesBuiltin(t *testing.T) {
	store := &fakeKeywordStore{err: errors.New("no database")}
	c, _ := newTestCache(store, time.Minute)

	l := c.Current(context.Background())
	assert.Equal(t, len(NewList(builtin).Keywords()), len(l.Keywords()))
}

func TestCache_Invalidate(t *testing.T) {
	store := &fakeKeywordStore{}
	c, _ := newTestCache(store, time.Hour)
	ctx := context.Background()

	c.Current(ctx)
	c.Invalidate()
	c.Current(ctx)
	assert.Equal(t, 2, store.loads)
}

func TestStatic(t *testing.T) {
	p := Static([]string{"BANK", "VA"})
	l := p.Current(context.Background())
	assert.Equal(t, []string{"BANK", "VA"}, l.Keywords())
	assert.Same(t, l, p.Current(context.Background()))
}
