package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/carrotnibbles/stratsync/internal/bcryptpool"
	"github.com/carrotnibbles/stratsync/internal/catalog"
	"github.com/carrotnibbles/stratsync/internal/config"
	"github.com/carrotnibbles/stratsync/internal/log"
	"github.com/carrotnibbles/stratsync/internal/model"
	"github.com/carrotnibbles/stratsync/internal/registry"
)

// fakeStore is an in-memory persistence.Store for RPC-level tests, so
// handlers can be exercised without a database.
type fakeStore struct {
	strategies map[uuid.UUID]model.Strategy
	actions    map[model.Job][]model.ActionInfo
	raids      map[uuid.UUID]model.RaidInfo

	upsertedDamageOptions []model.DamageOption
	upsertedEntries       []model.Entry
	deletedEntries        []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		strategies: make(map[uuid.UUID]model.Strategy),
		actions:    make(map[model.Job][]model.ActionInfo),
		raids:      make(map[uuid.UUID]model.RaidInfo),
	}
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
	return f.actions, nil
}
func (f *fakeStore) LoadRaidInfo(_ context.Context, id uuid.UUID) (model.RaidInfo, error) {
	info, ok := f.raids[id]
	if !ok {
		return model.RaidInfo{}, errNotFound{}
	}
	return info, nil
}
func (f *fakeStore) SetPasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	s := f.strategies[id]
	s.PasswordHash = &hash
	f.strategies[id] = s
	return nil
}
func (f *fakeStore) ElevationInfo(_ context.Context, id uuid.UUID) (*string, bool, error) {
	s, ok := f.strategies[id]
	if !ok {
		return nil, false, errNotFound{}
	}
	return s.PasswordHash, true, nil
}
func (f *fakeStore) UpsertDamageOption(_ context.Context, _ uuid.UUID, opt model.DamageOption) error {
	f.upsertedDamageOptions = append(f.upsertedDamageOptions, opt)
	return nil
}
func (f *fakeStore) UpdatePlayerJob(context.Context, uuid.UUID, uuid.UUID, *model.Job) error {
	return nil
}
func (f *fakeStore) UpsertEntries(_ context.Context, _ uuid.UUID, entries []model.Entry) error {
	f.upsertedEntries = append(f.upsertedEntries, entries...)
	return nil
}
func (f *fakeStore) DeleteEntries(_ context.Context, _ uuid.UUID, ids []uuid.UUID) error {
	f.deletedEntries = append(f.deletedEntries, ids...)
	return nil
}
func (f *fakeStore) UpsertNote(context.Context, uuid.UUID, model.Note) error { return nil }
func (f *fakeStore) DeleteNote(context.Context, uuid.UUID, uuid.UUID) error  { return nil }
func (f *fakeStore) TouchModifiedAt(context.Context, uuid.UUID) error        { return nil }

// newTestService wires a Service over fakeStore, a real registry,
// catalog, and bcrypt pool, so RPC handlers run their real logic end to
// end against in-memory state.
func newTestService(t *testing.T, store *fakeStore) *Service {
	t.Helper()

	reg, err := registry.New(store, log.Nop())
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	actions, err := catalog.LoadActionCatalog(context.Background(), store)
	if err != nil {
		t.Fatalf("LoadActionCatalog: %v", err)
	}
	raids, err := catalog.NewRaidCatalog(store, config.StrategyCapacity)
	if err != nil {
		t.Fatalf("NewRaidCatalog: %v", err)
	}
	bcrypt := bcryptpool.New(1)
	t.Cleanup(bcrypt.Close)

	return New(store, reg, actions, raids, bcrypt, []byte("test-secret"), log.Nop())
}
