package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/carrotnibbles/stratsync/internal/model"
	"github.com/carrotnibbles/stratsync/internal/stratsyncpb"
)

func seedStrategyWithPlayerAndAction(store *fakeStore, cooldown, charges int32) (strategyID, playerID, actionID uuid.UUID) {
	strategyID = uuid.New()
	raidID := uuid.New()
	playerID = uuid.New()
	actionID = uuid.New()
	job := model.JobWHM
	store.strategies[strategyID] = model.Strategy{
		ID:      strategyID,
		RaidID:  raidID,
		Public:  true,
		Players: []model.Player{{ID: playerID, Job: &job, Order: 0}},
	}
	store.raids[raidID] = model.RaidInfo{Duration: 600, Headcount: 8}
	store.actions[model.JobWHM] = []model.ActionInfo{{ID: actionID, Cooldown: cooldown, Charges: charges}}
	return
}

// TestMutateEntries_AcceptScenario: a second upsert placed exactly at
// the action's cooldown boundary is accepted alongside the first.
func TestMutateEntries_AcceptScenario(t *testing.T) {
	store := newFakeStore()
	strategyID, playerID, actionID := seedStrategyWithPlayerAndAction(store, 60, 1)
	svc := newTestService(t, store)

	e1 := uuid.New()
	_, err := svc.registry.Mutate(context.Background(), strategyID, func(sc *model.SessionContext) (*model.SessionContext, error) {
		sc.Entries = append(sc.Entries, model.Entry{ID: e1, PlayerID: playerID, ActionID: actionID, UseAt: 0})
		return sc, nil
	})
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	token := subscribeAsAuthor(t, svc, strategyID)
	e2 := uuid.New()

	_, err = svc.MutateEntries(context.Background(), &stratsyncpb.MutateEntriesRequest{
		Token: token,
		Upserts: []stratsyncpb.Entry{
			{ID: e2.String(), Player: playerID.String(), Action: actionID.String(), UseAt: 60},
		},
	})
	if err != nil {
		t.Fatalf("MutateEntries: %v", err)
	}

	snap, _ := svc.registry.Snapshot(strategyID)
	if len(snap.Entries) != 2 {
		t.Fatalf("expected 2 entries after accepted upsert, got %d", len(snap.Entries))
	}
	if len(store.upsertedEntries) != 1 || store.upsertedEntries[0].ID != e2 {
		t.Fatalf("expected e2 persisted, got %+v", store.upsertedEntries)
	}
}

// TestMutateEntries_RejectScenario: an upsert placed inside the action's
// cooldown window is rejected, and the caller alone receives a
// reconciliation deleting its optimistic entry.
func TestMutateEntries_RejectScenario(t *testing.T) {
	store := newFakeStore()
	strategyID, playerID, actionID := seedStrategyWithPlayerAndAction(store, 60, 1)
	svc := newTestService(t, store)

	e1 := uuid.New()
	_, err := svc.registry.Mutate(context.Background(), strategyID, func(sc *model.SessionContext) (*model.SessionContext, error) {
		sc.Entries = append(sc.Entries, model.Entry{ID: e1, PlayerID: playerID, ActionID: actionID, UseAt: 0})
		return sc, nil
	})
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	token := subscribeAsAuthor(t, svc, strategyID)
	e3 := uuid.New()

	_, err = svc.MutateEntries(context.Background(), &stratsyncpb.MutateEntriesRequest{
		Token: token,
		Upserts: []stratsyncpb.Entry{
			{ID: e3.String(), Player: playerID.String(), Action: actionID.String(), UseAt: 30},
		},
	})
	if err != nil {
		t.Fatalf("MutateEntries: %v", err)
	}

	snap, _ := svc.registry.Snapshot(strategyID)
	if len(snap.Entries) != 1 || snap.Entries[0].ID != e1 {
		t.Fatalf("expected rejected upsert to leave state at {e1}, got %+v", snap.Entries)
	}
	if len(store.upsertedEntries) != 0 {
		t.Fatalf("expected nothing persisted for a rejected upsert, got %+v", store.upsertedEntries)
	}
}

// TestUpdatePlayerJob_ClearsEntries: changing a player's job drops every
// timeline entry that player had placed under the old job.
func TestUpdatePlayerJob_ClearsEntries(t *testing.T) {
	store := newFakeStore()
	strategyID, playerID, actionID := seedStrategyWithPlayerAndAction(store, 60, 1)
	svc := newTestService(t, store)

	e1 := uuid.New()
	_, err := svc.registry.Mutate(context.Background(), strategyID, func(sc *model.SessionContext) (*model.SessionContext, error) {
		sc.Entries = append(sc.Entries, model.Entry{ID: e1, PlayerID: playerID, ActionID: actionID, UseAt: 0})
		return sc, nil
	})
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	token := subscribeAsAuthor(t, svc, strategyID)
	newJob := string(model.JobBLM)

	_, err = svc.UpdatePlayerJob(context.Background(), &stratsyncpb.UpdatePlayerJobRequest{
		Token: token,
		ID:    playerID.String(),
		Job:   &newJob,
	})
	if err != nil {
		t.Fatalf("UpdatePlayerJob: %v", err)
	}

	snap, _ := svc.registry.Snapshot(strategyID)
	if len(snap.Entries) != 0 {
		t.Fatalf("expected player's entries cleared after job change, got %+v", snap.Entries)
	}
	if len(store.deletedEntries) != 1 || store.deletedEntries[0] != e1 {
		t.Fatalf("expected e1 deleted from persistence, got %+v", store.deletedEntries)
	}
}
