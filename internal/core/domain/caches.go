package domain

import (
	"maps"
	"slices"
	"sync"

	"go.trai.ch/zerr"
)

// ConfigCache stores configurations by identifier and by identity.
// It is safe for concurrent use.
type ConfigCache struct {
	mu         sync.RWMutex
	byID       map[int]*Configuration
	byIdentity map[ConfigurationIdentity]int
}

// NewConfigCache creates an empty ConfigCache.
func NewConfigCache() *ConfigCache {
	return &ConfigCache{
		byID:       make(map[int]*Configuration),
		byIdentity: make(map[ConfigurationIdentity]int),
	}
}

// Add inserts a configuration. It fails with ErrDuplicateConfiguration when a configuration
// with the same identity or the same identifier is already present.
func (c *ConfigCache) Add(cfg *Configuration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity := cfg.Identity()
	if existing, ok := c.byIdentity[identity]; ok {
		return zerr.With(zerr.With(zerr.Wrap(ErrDuplicateConfiguration, "add configuration"),
			"project", cfg.ProjectPath), "existing_id", existing)
	}
	if _, ok := c.byID[cfg.ID]; ok {
		return zerr.With(zerr.With(zerr.Wrap(ErrDuplicateConfiguration, "add configuration"),
			"project", cfg.ProjectPath), "id", cfg.ID)
	}

	c.byID[cfg.ID] = cfg
	c.byIdentity[identity] = cfg.ID
	return nil
}

// Get returns the configuration with the given identifier.
func (c *ConfigCache) Get(id int) (*Configuration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cfg, ok := c.byID[id]
	return cfg, ok
}

// Match returns the configuration sharing the identity of cfg, if any.
func (c *ConfigCache) Match(cfg *Configuration) (*Configuration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id, ok := c.byIdentity[cfg.Identity()]
	if !ok {
		return nil, false
	}
	return c.byID[id], true
}

// All returns every configuration ordered by identifier.
func (c *ConfigCache) All() []*Configuration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := slices.Sorted(maps.Keys(c.byID))
	out := make([]*Configuration, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.byID[id])
	}
	return out
}

// Len returns the number of configurations.
func (c *ConfigCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// MaxID returns the largest identifier in the cache, or InvalidConfigurationID when empty.
func (c *ConfigCache) MaxID() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	highest := InvalidConfigurationID
	for id := range c.byID {
		highest = max(highest, id)
	}
	return highest
}

// Reindex rebuilds the identity index. It must be called after project paths or global
// properties of stored configurations were rewritten in place.
func (c *ConfigCache) Reindex() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byIdentity = make(map[ConfigurationIdentity]int, len(c.byID))
	for id, cfg := range c.byID {
		c.byIdentity[cfg.Identity()] = id
	}
}

// ResultsCache stores results by configuration identifier. It is safe for concurrent use.
type ResultsCache struct {
	mu     sync.RWMutex
	byConf map[int]*Result
}

// NewResultsCache creates an empty ResultsCache.
func NewResultsCache() *ResultsCache {
	return &ResultsCache{byConf: make(map[int]*Result)}
}

// Add stores a result. When a result for the same configuration already exists, the
// target entries of r are merged into it and the first recorded error is kept.
func (c *ResultsCache) Add(r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.byConf[r.ConfigurationID]
	if !ok {
		c.byConf[r.ConfigurationID] = r
		return
	}
	if existing == r {
		return
	}
	for name, tr := range r.Targets {
		existing.AddTarget(name, tr)
	}
	if existing.Error == "" {
		existing.Error = r.Error
	}
}

// Get returns the result for a configuration.
func (c *ResultsCache) Get(configurationID int) (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.byConf[configurationID]
	return r, ok
}

// All returns every result ordered by configuration identifier.
func (c *ResultsCache) All() []*Result {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := slices.Sorted(maps.Keys(c.byConf))
	out := make([]*Result, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.byConf[id])
	}
	return out
}

// Len returns the number of results.
func (c *ResultsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byConf)
}
