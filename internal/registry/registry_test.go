package registry

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/carrotnibbles/stratsync/internal/log"
	"github.com/carrotnibbles/stratsync/internal/model"
)

// fakeStore is a minimal in-memory persistence.Store sufficient to drive
// the registry in tests, without a database.
type fakeStore struct {
	strategies map[uuid.UUID]model.Strategy
}

func newFakeStore() *fakeStore {
	return &fakeStore{strategies: make(map[uuid.UUID]model.Strategy)}
}

func (f *fakeStore) LoadStrategy(_ context.Context, id uuid.UUID) (model.Strategy, error) {
	s, ok := f.strategies[id]
	if !ok {
		return model.Strategy{}, errNotFound{}
	}
	return s, nil
}

type errNotFound struct{}

func (errNotFound) Error() string { return "not found" }

func (f *fakeStore) LoadActionCatalog(context.Context) (map[model.Job][]model.ActionInfo, error) {
	return nil, nil
}
func (f *fakeStore) LoadRaidInfo(context.Context, uuid.UUID) (model.RaidInfo, error) {
	return model.RaidInfo{}, nil
}
func (f *fakeStore) SetPasswordHash(context.Context, uuid.UUID, string) error { return nil }
func (f *fakeStore) ElevationInfo(context.Context, uuid.UUID) (*string, bool, error) {
	return nil, true, nil
}
func (f *fakeStore) UpsertDamageOption(context.Context, uuid.UUID, model.DamageOption) error {
	return nil
}
func (f *fakeStore) UpdatePlayerJob(context.Context, uuid.UUID, uuid.UUID, *model.Job) error {
	return nil
}
func (f *fakeStore) UpsertEntries(context.Context, uuid.UUID, []model.Entry) error { return nil }
func (f *fakeStore) DeleteEntries(context.Context, uuid.UUID, []uuid.UUID) error   { return nil }
func (f *fakeStore) UpsertNote(context.Context, uuid.UUID, model.Note) error       { return nil }
func (f *fakeStore) DeleteNote(context.Context, uuid.UUID, uuid.UUID) error        { return nil }
func (f *fakeStore) TouchModifiedAt(context.Context, uuid.UUID) error              { return nil }

func newTestRegistry(t *testing.T, store *fakeStore) *Registry {
	t.Helper()
	r, err := New(store, log.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestSubscribeUnsubscribe(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	strategyID := uuid.New()
	store.strategies[strategyID] = model.Strategy{ID: strategyID, RaidID: uuid.New(), Public: true}

	r := newTestRegistry(t, store)

	token, ch, snap, err := r.Subscribe(ctx, strategyID, nil)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, ok := snap.Peers[token]; !ok {
		t.Fatal("expected peer token registered on session snapshot")
	}

	r.Unsubscribe(ctx, strategyID, token)

	if _, ok := <-ch; ok {
		t.Fatal("expected channel closed after Unsubscribe")
	}
	if _, ok := r.PeerContext(token); ok {
		t.Fatal("expected peer context removed after Unsubscribe")
	}
}

// TestElevatedPeersSubsetOfPeers is P3: elevated_peers ⊆ peers after
// every operation.
func TestElevatedPeersSubsetOfPeers(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	strategyID := uuid.New()
	store.strategies[strategyID] = model.Strategy{ID: strategyID, RaidID: uuid.New(), Public: true}

	r := newTestRegistry(t, store)

	tokenA, _, _, err := r.Subscribe(ctx, strategyID, nil)
	if err != nil {
		t.Fatalf("Subscribe A: %v", err)
	}
	tokenB, _, _, err := r.Subscribe(ctx, strategyID, nil)
	if err != nil {
		t.Fatalf("Subscribe B: %v", err)
	}

	if err := r.Elevate(ctx, strategyID, tokenA); err != nil {
		t.Fatalf("Elevate: %v", err)
	}

	snap, ok := r.Snapshot(strategyID)
	if !ok {
		t.Fatal("expected live session")
	}
	for elevated := range snap.ElevatedPeers {
		if _, isPeer := snap.Peers[elevated]; !isPeer {
			t.Fatalf("elevated peer %s is not a current peer", elevated)
		}
	}

	r.Unsubscribe(ctx, strategyID, tokenA)
	snap, ok = r.Snapshot(strategyID)
	if !ok {
		t.Fatal("expected live session after one peer departs")
	}
	if _, stillElevated := snap.ElevatedPeers[tokenA]; stillElevated {
		t.Fatal("expected departed peer's elevation revoked")
	}
	if _, stillPeer := snap.Peers[tokenB]; !stillPeer {
		t.Fatal("expected remaining peer still present")
	}
}

func TestMutateAppliesCopyOnWrite(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	strategyID := uuid.New()
	playerID := uuid.New()
	store.strategies[strategyID] = model.Strategy{
		ID:      strategyID,
		RaidID:  uuid.New(),
		Public:  true,
		Players: []model.Player{{ID: playerID, Order: 0}},
	}

	r := newTestRegistry(t, store)

	before, ok := r.Snapshot(strategyID)
	if ok {
		t.Fatal("expected no live session before first access")
	}

	job := model.JobWHM
	after, err := r.Mutate(ctx, strategyID, func(sc *model.SessionContext) (*model.SessionContext, error) {
		sc.Players[0].Job = &job
		return sc, nil
	})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if after.Players[0].Job == nil || *after.Players[0].Job != model.JobWHM {
		t.Fatalf("expected mutated job to stick, got %+v", after.Players[0])
	}
	if before != nil {
		t.Fatal("sanity: before snapshot should have been absent")
	}
}

// TestTerminatePeerSendsAbortedThenCloses exercises the same
// send-aborted-then-close behavior the peer cache's OnEvict hook
// triggers on idle timeout (via detachPeer) and ClearOtherSessions
// triggers via terminatePeer.
func TestTerminatePeerSendsAbortedThenCloses(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	strategyID := uuid.New()
	store.strategies[strategyID] = model.Strategy{ID: strategyID, RaidID: uuid.New(), Public: true}

	r := newTestRegistry(t, store)

	token, ch, _, err := r.Subscribe(ctx, strategyID, nil)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	r.terminatePeer(ctx, strategyID, token, "peer idle timeout")

	ev, ok := <-ch
	if !ok || ev.Err == nil {
		t.Fatal("expected a terminal aborted event before the channel closed")
	}
	if _, ok := <-ch; ok {
		t.Fatal("expected channel closed after the terminal event")
	}
	if _, ok := r.PeerContext(token); ok {
		t.Fatal("expected peer bookkeeping removed after termination")
	}
	snap, ok := r.Snapshot(strategyID)
	if !ok {
		t.Fatal("expected live session to remain for the other peers")
	}
	if _, stillPeer := snap.Peers[token]; stillPeer {
		t.Fatal("expected terminated peer removed from the session")
	}
}

func TestClearOtherSessionsKeepsOnlyTheCaller(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	strategyID := uuid.New()
	store.strategies[strategyID] = model.Strategy{ID: strategyID, RaidID: uuid.New(), Public: true}

	r := newTestRegistry(t, store)

	keep, keepCh, _, err := r.Subscribe(ctx, strategyID, nil)
	if err != nil {
		t.Fatalf("Subscribe keep: %v", err)
	}
	drop, dropCh, _, err := r.Subscribe(ctx, strategyID, nil)
	if err != nil {
		t.Fatalf("Subscribe drop: %v", err)
	}

	if err := r.ClearOtherSessions(ctx, strategyID, keep); err != nil {
		t.Fatalf("ClearOtherSessions: %v", err)
	}

	ev, ok := <-dropCh
	if !ok || ev.Err == nil {
		t.Fatal("expected dropped peer to receive a terminal aborted event")
	}
	if _, ok := <-dropCh; ok {
		t.Fatal("expected dropped peer's channel closed after the terminal event")
	}
	select {
	case <-keepCh:
		t.Fatal("expected kept peer's channel to remain open")
	default:
	}

	snap, ok := r.Snapshot(strategyID)
	if !ok {
		t.Fatal("expected live session")
	}
	if _, stillThere := snap.Peers[drop]; stillThere {
		t.Fatal("expected dropped peer removed from session")
	}
	if _, stillThere := snap.Peers[keep]; !stillThere {
		t.Fatal("expected kept peer still present")
	}
}
