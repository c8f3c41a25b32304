package service

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rcliao/wellness-profile/internal/model"
)

const defaultCacheSize = 256

// ProfileCache is a bounded LRU of the latest profile per user. It stores
// and returns clones so callers never share a profile with the cache.
type ProfileCache struct {
	lru *lru.Cache[string, *model.Profile]
}

// NewProfileCache returns a cache holding up to size profiles. A size of
// zero or less uses the default.
func NewProfileCache(size int) (*ProfileCache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, err := lru.New[string, *model.Profile](size)
	if err != nil {
		return nil, err
	}
	return &ProfileCache{lru: c}, nil
}

func (c *ProfileCache) Get(userID string) (*model.Profile, bool) {
	if c == nil {
		return nil, false
	}
	p, ok := c.lru.Get(userID)
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

func (c *ProfileCache) Add(userID string, p *model.Profile) {
	if c == nil || p == nil {
		return
	}
	c.lru.Add(userID, p.Clone())
}

func (c *ProfileCache) Remove(userID string) {
	if c == nil {
		return
	}
	c.lru.Remove(userID)
}

func (c *ProfileCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
