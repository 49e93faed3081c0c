// Package collab holds the pure, registry-independent algorithms shared
// by the timeline RPCs: the cooldown-feasibility sweep and the
// validators every mutating RPC runs payloads through before touching a
// session. None of it depends on persistence, the actor, or gRPC, so it
// is exercised directly by table-driven tests.
package collab

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/carrotnibbles/stratsync/internal/model"
)

// UpsertRequest is one caller-submitted timeline placement awaiting a
// feasibility decision.
type UpsertRequest struct {
	ID       uuid.UUID
	PlayerID uuid.UUID
	ActionID uuid.UUID
	UseAt    int32
}

// MutateResult is the outcome of applying a batch of upserts and deletes
// to a strategy's timeline.
type MutateResult struct {
	// Entries is the full post-mutation timeline.
	Entries []model.Entry
	// AcceptedUpserts and AcceptedDeletes are what must be persisted and
	// broadcast to every other peer.
	AcceptedUpserts []model.Entry
	AcceptedDeletes []uuid.UUID
	// RejectedUpserts failed the feasibility check; the caller (and only
	// the caller) needs a reconciliation event for each one.
	RejectedUpserts []UpsertRequest
}

// MutateEntries applies upserts and deletes to entries, column by column
// (one column per distinct player+action pair touched), using a
// sweep-line cooldown-feasibility check per column: a column is only
// committed in full if its post-mutation use times never require more
// simultaneous charges of that action than the player's job allows.
//
// playerJob maps a player id to their current job, and actionsByJob maps
// a job to its available actions; a player with no job set, or an
// action's cooldown/charges not found for the resolved job, is a
// precondition failure for that upsert and aborts the whole call (the
// original draws this as an immediate invalid_argument/failed_precondition,
// not a per-column rejection).
func MutateEntries(
	entries []model.Entry,
	upserts []UpsertRequest,
	deletes []uuid.UUID,
	playerJob map[uuid.UUID]model.Job,
	actionsByJob map[model.Job]map[uuid.UUID]model.ActionInfo,
	raidDuration int32,
) (MutateResult, error) {
	type columnKey struct {
		player uuid.UUID
		action uuid.UUID
	}

	grouped := make(map[columnKey][]UpsertRequest)
	for _, u := range upserts {
		if u.UseAt < -MaxCountdown || u.UseAt > raidDuration {
			return MutateResult{}, fmt.Errorf("use_at is out of range")
		}
		job, ok := playerJob[u.PlayerID]
		if !ok {
			return MutateResult{}, fmt.Errorf("player not found")
		}
		if job == "" {
			return MutateResult{}, fmt.Errorf("cannot upsert entries with an empty job")
		}
		grouped[columnKey{u.PlayerID, u.ActionID}] = append(grouped[columnKey{u.PlayerID, u.ActionID}], u)
	}

	byID := make(map[uuid.UUID]model.Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	var acceptedDeletes []uuid.UUID
	for _, id := range deletes {
		existing, ok := byID[id]
		if !ok {
			continue
		}
		if col, ok := grouped[columnKey{existing.PlayerID, existing.ActionID}]; ok {
			for _, u := range col {
				if u.ID == id {
					return MutateResult{}, fmt.Errorf("cannot delete an entry that is being upserted")
				}
			}
		}
		acceptedDeletes = append(acceptedDeletes, id)
	}

	deletedSet := make(map[uuid.UUID]struct{}, len(acceptedDeletes))
	for _, id := range acceptedDeletes {
		deletedSet[id] = struct{}{}
	}

	entriesAfter := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if _, gone := deletedSet[e.ID]; !gone {
			entriesAfter = append(entriesAfter, e)
		}
	}

	var acceptedUpserts []model.Entry
	var rejectedUpserts []UpsertRequest

	for key, col := range grouped {
		job := playerJob[key.player]
		actions := actionsByJob[job]
		action, ok := actions[key.action]
		if !ok {
			return MutateResult{}, fmt.Errorf("action not available to player's job")
		}

		var existingCol []ColumnUpsert
		var keptOutsideCol []model.Entry
		for _, e := range entriesAfter {
			if e.PlayerID == key.player && e.ActionID == key.action {
				existingCol = append(existingCol, ColumnUpsert{ID: e.ID, UseAt: e.UseAt})
			} else {
				keptOutsideCol = append(keptOutsideCol, e)
			}
		}

		candidateUpserts := make([]ColumnUpsert, len(col))
		for i, u := range col {
			candidateUpserts[i] = ColumnUpsert{ID: u.ID, UseAt: u.UseAt}
		}

		merged := mergeColumn(existingCol, candidateUpserts)

		if SweepFeasible(merged, action.Cooldown, action.Charges) {
			acceptedUpserts = append(acceptedUpserts, upsertBatch(col).toEntries(key.player, key.action)...)

			entriesAfter = keptOutsideCol
			for _, m := range merged {
				entriesAfter = append(entriesAfter, model.Entry{
					ID:       m.ID,
					PlayerID: key.player,
					ActionID: key.action,
					UseAt:    m.UseAt,
				})
			}
		} else {
			rejectedUpserts = append(rejectedUpserts, col...)
		}
	}

	return MutateResult{
		Entries:         entriesAfter,
		AcceptedUpserts: acceptedUpserts,
		AcceptedDeletes: acceptedDeletes,
		RejectedUpserts: rejectedUpserts,
	}, nil
}

type upsertBatch []UpsertRequest

func (b upsertBatch) toEntries(playerID, actionID uuid.UUID) []model.Entry {
	out := make([]model.Entry, len(b))
	for i, u := range b {
		out[i] = model.Entry{ID: u.ID, PlayerID: playerID, ActionID: actionID, UseAt: u.UseAt}
	}
	return out
}

// ColumnUpsert is one (id, use_at) candidate within a single
// player+action column, as fed to SweepFeasible.
type ColumnUpsert struct {
	ID    uuid.UUID
	UseAt int32
}

// mergeColumn combines existing placements with upsert candidates,
// keyed by id, with upserts taking precedence over an existing entry of
// the same id (HashMap::extend semantics in the original sweep).
func mergeColumn(existing, upserts []ColumnUpsert) []ColumnUpsert {
	byID := make(map[uuid.UUID]int32, len(existing)+len(upserts))
	order := make([]uuid.UUID, 0, len(existing)+len(upserts))
	for _, e := range existing {
		if _, ok := byID[e.ID]; !ok {
			order = append(order, e.ID)
		}
		byID[e.ID] = e.UseAt
	}
	for _, u := range upserts {
		if _, ok := byID[u.ID]; !ok {
			order = append(order, u.ID)
		}
		byID[u.ID] = u.UseAt
	}
	out := make([]ColumnUpsert, len(order))
	for i, id := range order {
		out[i] = ColumnUpsert{ID: id, UseAt: byID[id]}
	}
	return out
}

// SweepFeasible reports whether column can be placed without requiring
// more than charges simultaneous uses of an action whose effect lasts
// cooldown seconds. Each use opens an interval [use_at, use_at+cooldown)
// one; the charges ceiling is checked by sweeping every interval
// boundary in order, closing events (-1) processed before opening
// events (+1) at equal timestamps so a use ending exactly when another
// begins does not count as an overlap.
func SweepFeasible(column []ColumnUpsert, cooldown, charges int32) bool {
	type event struct {
		at    int32
		delta int32
	}
	events := make([]event, 0, len(column)*2)
	for _, c := range column {
		events = append(events, event{at: c.UseAt, delta: 1})
		events = append(events, event{at: c.UseAt + cooldown, delta: -1})
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].delta < events[j].delta
	})

	var current, max int32
	for _, ev := range events {
		current += ev.delta
		if current > max {
			max = current
		}
	}
	return max <= charges
}

// MaxCountdown is the earliest an entry or note may sit relative to
// pull, mirroring config.MaxCountdown without importing config (collab
// must stay dependency-free of the process wiring layer).
const MaxCountdown = 1800
