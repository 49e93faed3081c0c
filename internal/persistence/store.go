// Package persistence defines the storage contract the registry and
// service layers depend on, and a pgx/v5-backed Postgres implementation
// of it. Handlers and the registry only ever see the Store interface,
// never a concrete *Postgres, so tests can swap in an in-memory fake.
package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/carrotnibbles/stratsync/internal/model"
)

// Store is the full persistence contract: loading a strategy session on
// subscribe, and persisting each mutation an RPC accepts.
type Store interface {
	// LoadStrategy loads everything needed to populate a SessionContext:
	// the strategy row, its players, damage options, entries and notes.
	LoadStrategy(ctx context.Context, strategyID uuid.UUID) (model.Strategy, error)

	// LoadActionCatalog and LoadRaidInfo satisfy catalog.Store.
	LoadActionCatalog(ctx context.Context) (map[model.Job][]model.ActionInfo, error)
	LoadRaidInfo(ctx context.Context, raidID uuid.UUID) (model.RaidInfo, error)

	// SetPasswordHash persists a strategy's elevation password hash. No
	// RPC handler calls it; Elevate only reads the hash via ElevationInfo.
	SetPasswordHash(ctx context.Context, strategyID uuid.UUID, hash string) error

	// ElevationInfo returns the current password hash (nil if unset) and
	// whether the strategy currently permits elevation at all.
	ElevationInfo(ctx context.Context, strategyID uuid.UUID) (hash *string, editable bool, err error)

	// UpsertDamageOption persists a strategy's share/target assignment for
	// one raid-wide damage instance, keyed by (strategy, damage).
	UpsertDamageOption(ctx context.Context, strategyID uuid.UUID, opt model.DamageOption) error

	// UpdatePlayerJob persists a player's job tag, which may be nil to
	// clear it.
	UpdatePlayerJob(ctx context.Context, strategyID, playerID uuid.UUID, job *model.Job) error

	// UpsertEntries persists the accepted half of a MutateEntries batch.
	UpsertEntries(ctx context.Context, strategyID uuid.UUID, entries []model.Entry) error

	// DeleteEntries removes the given entry ids from a strategy's timeline.
	DeleteEntries(ctx context.Context, strategyID uuid.UUID, ids []uuid.UUID) error

	// UpsertNote persists a single note.
	UpsertNote(ctx context.Context, strategyID uuid.UUID, note model.Note) error

	// DeleteNote removes a single note by id.
	DeleteNote(ctx context.Context, strategyID uuid.UUID, noteID uuid.UUID) error

	// TouchModifiedAt bumps a strategy's mtime column. Every mutating
	// method above except SetPasswordHash runs the same update_modified_at
	// procedure inside its own transaction, so no handler calls this;
	// it is exported only so a handler that needs to bump mtime without
	// an accompanying row change (none currently do) is able to.
	TouchModifiedAt(ctx context.Context, strategyID uuid.UUID) error
}
