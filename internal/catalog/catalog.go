// Package catalog serves the reference data a strategy's actions and
// damage instances are validated against: the action catalog (job tag ->
// available actions) and per-raid info (headcount, duration, damage
// instances). Both are read-mostly and cached, the action catalog loaded
// once in full and the raid catalog read-through backed by ristretto.
package catalog

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"

	"github.com/carrotnibbles/stratsync/internal/model"
)

// Store is the persistence-facing contract catalog needs: loading the
// full action catalog once at startup, and raid info per raid on demand.
type Store interface {
	LoadActionCatalog(ctx context.Context) (map[model.Job][]model.ActionInfo, error)
	LoadRaidInfo(ctx context.Context, raidID uuid.UUID) (model.RaidInfo, error)
}

// ActionCatalog is the full job-tag -> action-list catalog, loaded once
// and held immutably for the process lifetime: actions never change
// without a process restart, so there is no cache invalidation to do.
type ActionCatalog struct {
	byJob map[model.Job][]model.ActionInfo
	byID  map[uuid.UUID]model.ActionInfo
}

// LoadActionCatalog reads the catalog from store and indexes it both by
// job and by action id, the latter for feasibility-check lookups.
func LoadActionCatalog(ctx context.Context, store Store) (*ActionCatalog, error) {
	byJob, err := store.LoadActionCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: load actions: %w", err)
	}
	byID := make(map[uuid.UUID]model.ActionInfo)
	for _, actions := range byJob {
		for _, a := range actions {
			byID[a.ID] = a
		}
	}
	return &ActionCatalog{byJob: byJob, byID: byID}, nil
}

// ForJob returns the actions available to job, or nil if job has none.
func (c *ActionCatalog) ForJob(job model.Job) []model.ActionInfo {
	return c.byJob[job]
}

// Lookup returns the ActionInfo for id, or false if id is unknown.
func (c *ActionCatalog) Lookup(id uuid.UUID) (model.ActionInfo, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// RaidCatalog lazily caches per-raid info, keyed by raid id. Unlike the
// action catalog, raids are numerous enough (and added to over time
// independently of a server restart) to warrant an eviction-backed cache
// rather than a fully preloaded map.
type RaidCatalog struct {
	store Store
	cache *ristretto.Cache[uuid.UUID, model.RaidInfo]
}

// NewRaidCatalog builds a RaidCatalog backed by store, with room for up
// to maxItems distinct raids cached at once.
func NewRaidCatalog(store Store, maxItems int64) (*RaidCatalog, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[uuid.UUID, model.RaidInfo]{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: new raid cache: %w", err)
	}
	return &RaidCatalog{store: store, cache: cache}, nil
}

// Get returns the RaidInfo for raidID, loading and caching it from store
// on a miss.
func (c *RaidCatalog) Get(ctx context.Context, raidID uuid.UUID) (model.RaidInfo, error) {
	if info, ok := c.cache.Get(raidID); ok {
		return info, nil
	}
	info, err := c.store.LoadRaidInfo(ctx, raidID)
	if err != nil {
		return model.RaidInfo{}, fmt.Errorf("catalog: load raid %s: %w", raidID, err)
	}
	c.cache.Set(raidID, info, 1)
	c.cache.Wait()
	return info, nil
}
