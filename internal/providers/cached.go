package providers

import (
	"context"

	"github.com/chainguard-dev/clog"

	"nathanbeddoewebdev/reseed/internal/cache"
	"nathanbeddoewebdev/reseed/internal/domain"
)

// imageCache answers RootDeviceName from a cache, falling back to the
// wrapped provider. Image attributes are immutable, so only successful
// lookups are stored.
type imageCache struct {
	domain.Provider
	cache   *cache.Cache
	region  string
	refresh bool
}

// ImageCacheOption customizes WithImageCache.
type ImageCacheOption func(*imageCache)

// RefreshImageCache drops any cached answer and stores the fresh one.
func RefreshImageCache() ImageCacheOption {
	return func(c *imageCache) { c.refresh = true }
}

// WithImageCache wraps p so that image root device lookups are cached per
// region. A nil cache returns p unchanged.
func WithImageCache(p domain.Provider, c *cache.Cache, region string, opts ...ImageCacheOption) domain.Provider {
	if c == nil {
		return p
	}
	ic := &imageCache{Provider: p, cache: c, region: region}
	for _, opt := range opts {
		opt(ic)
	}
	return ic
}

func (c *imageCache) RootDeviceName(ctx context.Context, imageID string) (string, error) {
	log := clog.FromContext(ctx)
	key := "root-device/" + c.region + "/" + imageID

	var device string
	if c.refresh {
		if err := c.cache.Invalidate(key); err != nil {
			log.Debug("image cache invalidate failed", "key", key, "error", err)
		}
	} else if hit, err := c.cache.Get(key, &device); err != nil {
		log.Debug("image cache read failed", "key", key, "error", err)
	} else if hit && device != "" {
		log.Debug("image root device from cache", "image", imageID, "device", device)
		return device, nil
	}

	device, err := c.Provider.RootDeviceName(ctx, imageID)
	if err != nil {
		return "", err
	}
	if device == "" {
		return device, nil
	}
	if err := c.cache.Set(key, device); err != nil {
		log.Debug("image cache write failed", "key", key, "error", err)
	}
	return device, nil
}
