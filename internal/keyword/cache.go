package keyword

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/payee-classifier/internal/model"
	"github.com/Veraticus/payee-classifier/internal/service"
)

// DefaultCacheTTL is how long a loaded keyword list is served before the
// custom keywords are reloaded.
const DefaultCacheTTL = 5 * time.Minute

// List is an immutable, ordered and deduplicated keyword snapshot.
type List struct {
	matcher  *Matcher
	keywords []string
}

// NewList merges keyword sets in order, upper-casing entries and dropping
// blanks and duplicates.
func NewList(sets ...[]string) *List {
	seen := make(map[string]struct{})
	var keywords []string
	for _, set := range sets {
		for _, kw := range set {
			kw = strings.ToUpper(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
	}
	return &List{keywords: keywords, matcher: NewMatcher(keywords)}
}

// Keywords returns a copy of the keywords in scan order.
func (l *List) Keywords() []string {
	out := make([]string, len(l.keywords))
	copy(out, l.keywords)
	return out
}

// Len returns the number of keywords that can match a name.
func (l *List) Len() int {
	return l.matcher.Len()
}

// Check runs the exclusion test against this snapshot.
func (l *List) Check(name string) model.KeywordExclusionResult {
	return l.matcher.Check(name)
}

// Provider hands out the keyword list to use for a classification run.
type Provider interface {
	Current(ctx context.Context) *List
}

type staticProvider struct {
	list *List
}

// Static returns a Provider that always serves the given keywords.
func Static(keywords []string) Provider {
	return staticProvider{list: NewList(keywords)}
}

func (s staticProvider) Current(_ context.Context) *List {
	return s.list
}

// Cache serves the built-in keywords merged with custom keywords from a
// store. A refresh builds a new List and swaps it in, so callers holding an
// older snapshot keep iterating it unchanged.
type Cache struct {
	loadedAt time.Time
	store    service.KeywordStore
	logger   *slog.Logger
	current  *List
	now      func() time.Time
	ttl      time.Duration
	mu       sync.Mutex
}

// NewCache creates a keyword cache. A nil store serves the built-in list only.
func NewCache(store service.KeywordStore, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Current returns the cached list, reloading custom keywords when the TTL
// has expired. When the reload fails the previous list is kept.
func (c *Cache) Current(ctx context.Context) *List {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.current != nil && now.Sub(c.loadedAt) < c.ttl {
		return c.current
	}

	c.loadedAt = now
	if c.store == nil {
		c.current = NewList(builtin)
		return c.current
	}

	custom, err := c.store.LoadCustomKeywords(ctx)
	if err != nil {
		c.logger.Warn("Failed to load custom keywords, serving previous list", "error", err)
		if c.current == nil {
			c.current = NewList(builtin)
		}
		return c.current
	}

	c.current = NewList(builtin, custom)
	c.logger.Debug("Refreshed keyword list", "custom", len(custom), "total", len(c.current.keywords))
	return c.current
}

// Invalidate forces the next Current call to reload.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}
