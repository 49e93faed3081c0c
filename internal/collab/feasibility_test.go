package collab

import (
	"testing"

	"github.com/google/uuid"

	"github.com/carrotnibbles/stratsync/internal/model"
)

func newID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

// TestSweepFeasible_ChargesOne covers the single-charge case: a second
// use before the first's cooldown elapses is infeasible, and one placed
// exactly at the cooldown boundary is feasible.
func TestSweepFeasible_ChargesOne(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	feasible := SweepFeasible([]ColumnUpsert{{ID: a, UseAt: 0}, {ID: b, UseAt: 60}}, 60, 1)
	if !feasible {
		t.Fatal("expected {0, 60} with cooldown 60 to be feasible (half-open interval)")
	}

	infeasible := SweepFeasible([]ColumnUpsert{{ID: a, UseAt: 0}, {ID: b, UseAt: 30}}, 60, 1)
	if infeasible {
		t.Fatal("expected {0, 30} with cooldown 60 charges 1 to be infeasible")
	}
}

// TestSweepFeasible_ChargesTwo mirrors scenario 4: a second charge lets
// two uses overlap.
func TestSweepFeasible_ChargesTwo(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	feasible := SweepFeasible([]ColumnUpsert{{ID: a, UseAt: 0}, {ID: b, UseAt: 30}}, 120, 2)
	if !feasible {
		t.Fatal("expected peak usage of 2 to be feasible with charges=2")
	}
	infeasible := SweepFeasible([]ColumnUpsert{{ID: a, UseAt: 0}, {ID: b, UseAt: 30}}, 120, 1)
	if infeasible {
		t.Fatal("expected peak usage of 2 to be infeasible with charges=1")
	}
}

func TestMergeColumn_UpsertsOverrideExisting(t *testing.T) {
	id := uuid.New()
	existing := []ColumnUpsert{{ID: id, UseAt: 10}}
	upserts := []ColumnUpsert{{ID: id, UseAt: 20}}
	merged := mergeColumn(existing, upserts)
	if len(merged) != 1 || merged[0].UseAt != 20 {
		t.Fatalf("expected upsert to override existing use_at, got %+v", merged)
	}
}

func TestMutateEntries_AcceptsFeasibleUpsert(t *testing.T) {
	player, action := newID(t), newID(t)
	e1 := newID(t)
	entries := []model.Entry{{ID: e1, PlayerID: player, ActionID: action, UseAt: 0}}

	e2 := newID(t)
	upserts := []UpsertRequest{{ID: e2, PlayerID: player, ActionID: action, UseAt: 60}}

	playerJob := map[uuid.UUID]model.Job{player: model.JobWHM}
	actionsByJob := map[model.Job]map[uuid.UUID]model.ActionInfo{
		model.JobWHM: {action: {ID: action, Cooldown: 60, Charges: 1}},
	}

	result, err := MutateEntries(entries, upserts, nil, playerJob, actionsByJob, 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.RejectedUpserts) != 0 {
		t.Fatalf("expected no rejections, got %+v", result.RejectedUpserts)
	}
	if len(result.AcceptedUpserts) != 1 || result.AcceptedUpserts[0].ID != e2 {
		t.Fatalf("expected e2 accepted, got %+v", result.AcceptedUpserts)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries in post-state, got %d", len(result.Entries))
	}
}

func TestMutateEntries_RejectsInfeasibleNewEntry(t *testing.T) {
	player, action := newID(t), newID(t)
	e1 := newID(t)
	entries := []model.Entry{{ID: e1, PlayerID: player, ActionID: action, UseAt: 0}}

	e3 := newID(t)
	upserts := []UpsertRequest{{ID: e3, PlayerID: player, ActionID: action, UseAt: 30}}

	playerJob := map[uuid.UUID]model.Job{player: model.JobWHM}
	actionsByJob := map[model.Job]map[uuid.UUID]model.ActionInfo{
		model.JobWHM: {action: {ID: action, Cooldown: 60, Charges: 1}},
	}

	result, err := MutateEntries(entries, upserts, nil, playerJob, actionsByJob, 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.AcceptedUpserts) != 0 {
		t.Fatalf("expected no acceptances, got %+v", result.AcceptedUpserts)
	}
	if len(result.RejectedUpserts) != 1 || result.RejectedUpserts[0].ID != e3 {
		t.Fatalf("expected e3 rejected, got %+v", result.RejectedUpserts)
	}
	if len(result.Entries) != 1 || result.Entries[0].ID != e1 {
		t.Fatalf("expected post-state unchanged at {e1}, got %+v", result.Entries)
	}
}

func TestMutateEntries_RejectsInfeasibleExistingEntryMove(t *testing.T) {
	player, action := newID(t), newID(t)
	e1 := newID(t)
	entries := []model.Entry{{ID: e1, PlayerID: player, ActionID: action, UseAt: 0}}

	e2 := newID(t)
	upserts := []UpsertRequest{
		{ID: e1, PlayerID: player, ActionID: action, UseAt: 0},
		{ID: e2, PlayerID: player, ActionID: action, UseAt: 30},
	}

	playerJob := map[uuid.UUID]model.Job{player: model.JobWHM}
	actionsByJob := map[model.Job]map[uuid.UUID]model.ActionInfo{
		model.JobWHM: {action: {ID: action, Cooldown: 60, Charges: 1}},
	}

	result, err := MutateEntries(entries, upserts, nil, playerJob, actionsByJob, 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.AcceptedUpserts) != 0 {
		t.Fatalf("expected whole column rejected as a unit, got %+v", result.AcceptedUpserts)
	}
	if len(result.RejectedUpserts) != 2 {
		t.Fatalf("expected both upserts in the column rejected, got %+v", result.RejectedUpserts)
	}
}

func TestMutateEntries_DeletingAnUpsertedEntryIsRejected(t *testing.T) {
	player, action := newID(t), newID(t)
	e1 := newID(t)
	entries := []model.Entry{{ID: e1, PlayerID: player, ActionID: action, UseAt: 0}}

	playerJob := map[uuid.UUID]model.Job{player: model.JobWHM}
	actionsByJob := map[model.Job]map[uuid.UUID]model.ActionInfo{
		model.JobWHM: {action: {ID: action, Cooldown: 60, Charges: 1}},
	}

	_, err := MutateEntries(entries, []UpsertRequest{{ID: e1, PlayerID: player, ActionID: action, UseAt: 60}}, []uuid.UUID{e1}, playerJob, actionsByJob, 600)
	if err == nil {
		t.Fatal("expected an error deleting an id that is simultaneously being upserted")
	}
}

func TestMutateEntries_UseAtOutOfRange(t *testing.T) {
	player, action := newID(t), newID(t)
	playerJob := map[uuid.UUID]model.Job{player: model.JobWHM}
	actionsByJob := map[model.Job]map[uuid.UUID]model.ActionInfo{
		model.JobWHM: {action: {ID: action, Cooldown: 60, Charges: 1}},
	}

	_, err := MutateEntries(nil, []UpsertRequest{{ID: newID(t), PlayerID: player, ActionID: action, UseAt: -1801}}, nil, playerJob, actionsByJob, 600)
	if err == nil {
		t.Fatal("expected use_at = -1801 to be rejected")
	}

	_, err = MutateEntries(nil, []UpsertRequest{{ID: newID(t), PlayerID: player, ActionID: action, UseAt: -1800}}, nil, playerJob, actionsByJob, 600)
	if err != nil {
		t.Fatalf("expected use_at = -1800 to be accepted, got %v", err)
	}

	_, err = MutateEntries(nil, []UpsertRequest{{ID: newID(t), PlayerID: player, ActionID: action, UseAt: 601}}, nil, playerJob, actionsByJob, 600)
	if err == nil {
		t.Fatal("expected use_at = duration+1 to be rejected")
	}

	_, err = MutateEntries(nil, []UpsertRequest{{ID: newID(t), PlayerID: player, ActionID: action, UseAt: 600}}, nil, playerJob, actionsByJob, 600)
	if err != nil {
		t.Fatalf("expected use_at = duration to be accepted, got %v", err)
	}
}

func TestValidateUseAt_Boundaries(t *testing.T) {
	if err := ValidateUseAt(-1800, 600); err != nil {
		t.Errorf("use_at = -1800 should be accepted: %v", err)
	}
	if err := ValidateUseAt(-1801, 600); err == nil {
		t.Error("use_at = -1801 should be rejected")
	}
	if err := ValidateUseAt(600, 600); err != nil {
		t.Errorf("use_at = duration should be accepted: %v", err)
	}
	if err := ValidateUseAt(601, 600); err == nil {
		t.Error("use_at = duration+1 should be rejected")
	}
}

func TestValidateNote_Boundaries(t *testing.T) {
	const headcount = 8
	if err := ValidateNote(headcount+1, 0.5, 0, 600, headcount, "ok"); err != nil {
		t.Errorf("block = headcount+1 should be accepted: %v", err)
	}
	if err := ValidateNote(headcount+2, 0.5, 0, 600, headcount, "ok"); err == nil {
		t.Error("block = headcount+2 should be rejected")
	}

	content128 := string(make([]byte, 128))
	if err := ValidateNote(1, 0, 0, 600, headcount, content128); err != nil {
		t.Errorf("content length 128 should be accepted: %v", err)
	}
	content129 := string(make([]byte, 129))
	if err := ValidateNote(1, 0, 0, 600, headcount, content129); err == nil {
		t.Error("content length 129 should be rejected")
	}
}
