// Package assets resolves card art. The game core only sees Lookup, which
// never blocks; Cache fills it in the background.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/magefree/mage-client-go/internal/config"
)

// Lookup resolves an art key ("set:collector") to a location the renderer
// can load. Version changes whenever new art becomes available.
type Lookup interface {
	URL(key string) (string, bool)
	Version() uint64
}

// None is the Lookup used when art is disabled.
type None struct{}

func (None) URL(string) (string, bool) { return "", false }
func (None) Version() uint64           { return 0 }

// ErrFetch is returned when the art server does not deliver an image.
var ErrFetch = errors.New("art fetch failed")

// Cache downloads art once, keeps it in a Store and serves lookups from
// memory.
type Cache struct {
	logger  *zap.Logger
	baseURL string
	client  *http.Client
	store   *Store
	limiter *rate.Limiter
	group   singleflight.Group

	mu      sync.RWMutex
	ready   map[string]bool
	pending map[string]bool
	failed  map[string]bool

	queue   chan string
	version atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCache opens the store at cfg.CachePath and starts the background
// fetcher. A nil client uses http.DefaultClient.
func NewCache(cfg config.AssetsConfig, client *http.Client, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		client = http.DefaultClient
	}
	store, err := OpenStore(cfg.CachePath)
	if err != nil {
		return nil, err
	}
	keys, err := store.Keys()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("list cached art: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		logger:  logger,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		store:   store,
		limiter: rate.NewLimiter(rate.Every(cfg.FetchInterval), cfg.Burst),
		ready:   make(map[string]bool, len(keys)),
		pending: make(map[string]bool),
		failed:  make(map[string]bool),
		queue:   make(chan string, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, k := range keys {
		c.ready[k] = true
	}

	c.wg.Add(1)
	go c.drain()

	logger.Info("art cache opened",
		zap.String("path", cfg.CachePath),
		zap.Int("cached", len(keys)),
	)
	return c, nil
}

// URL returns the art location when it is cached. Otherwise the art is
// queued for download and false is returned.
func (c *Cache) URL(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	c.mu.RLock()
	ready, known := c.ready[key], c.pending[key] || c.failed[key]
	c.mu.RUnlock()
	if ready {
		return c.SourceURL(key), true
	}
	if !known {
		c.enqueue(key)
	}
	return "", false
}

// Version increases every time art finishes downloading.
func (c *Cache) Version() uint64 {
	return c.version.Load()
}

// Image returns the cached bytes for key.
func (c *Cache) Image(key string) ([]byte, error) {
	return c.store.Get(key)
}

// SourceURL is the remote location of the art crop for key.
func (c *Cache) SourceURL(key string) string {
	set, number, _ := strings.Cut(key, ":")
	return fmt.Sprintf("%s/%s/%s?format=image&version=art_crop",
		c.baseURL, url.PathEscape(set), url.PathEscape(number))
}

// Fetch returns the art for key, downloading it if needed. Concurrent
// fetches of the same key share one download.
func (c *Cache) Fetch(ctx context.Context, key string) ([]byte, error) {
	if data, err := c.store.Get(key); err == nil {
		return data, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		if data, err := c.store.Get(key); err == nil {
			return data, nil
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		data, err := c.download(ctx, key)
		if err != nil {
			return nil, err
		}
		if err := c.store.Put(key, data); err != nil {
			c.logger.Warn("failed to persist art", zap.String("key", key), zap.Error(err))
		}
		c.markReady(key)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("art fetch shared", zap.String("key", key))
	}
	return v.([]byte), nil
}

// Close stops the fetcher and closes the store.
func (c *Cache) Close() error {
	c.cancel()
	c.wg.Wait()
	return c.store.Close()
}

func (c *Cache) enqueue(key string) {
	c.mu.Lock()
	if c.pending[key] || c.ready[key] {
		c.mu.Unlock()
		return
	}
	c.pending[key] = true
	c.mu.Unlock()

	select {
	case c.queue <- key:
	default:
		// Dropped keys are retried on the next lookup.
		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()
		c.logger.Debug("art queue full", zap.String("key", key))
	}
}

func (c *Cache) drain() {
	defer c.wg.Done()
	for {
		select {
		case <-c.ctx.Done():
			return
		case key := <-c.queue:
			_, err := c.Fetch(c.ctx, key)
			c.mu.Lock()
			delete(c.pending, key)
			if err != nil && c.ctx.Err() == nil {
				c.failed[key] = true
			}
			c.mu.Unlock()
			if err != nil && c.ctx.Err() == nil {
				c.logger.Warn("art fetch failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
}

func (c *Cache) download(ctx context.Context, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SourceURL(key), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrFetch, key, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return data, nil
}

func (c *Cache) markReady(key string) {
	c.mu.Lock()
	already := c.ready[key]
	c.ready[key] = true
	c.mu.Unlock()
	if !already {
		c.version.Add(1)
	}
}
