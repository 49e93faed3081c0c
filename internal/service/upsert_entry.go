package service

import (
	"context"
	"sort"

	"github.com/carrotnibbles/stratsync/internal/apperr"
	"github.com/carrotnibbles/stratsync/internal/collab"
	"github.com/carrotnibbles/stratsync/internal/model"
	"github.com/carrotnibbles/stratsync/internal/stratsyncpb"
)

// UpsertEntry places or moves a single timeline entry, supplementing
// the batched MutateEntries RPC with a standalone single-entry mutator.
// It delegates to the same sweep-line feasibility routine MutateEntries
// uses, applied to the column the entry belongs to, keeping the two
// RPCs' accept/reject decisions identical for the same resulting
// column.
func (s *Service) UpsertEntry(ctx context.Context, req *stratsyncpb.UpsertEntryRequest) (*stratsyncpb.Empty, error) {
	p, err := s.elevatedPeer(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	entry, err := entryFromWire(req.Entry)
	if err != nil {
		return nil, err
	}

	snap, ok := s.registry.Snapshot(p.StrategyID)
	if !ok {
		return nil, apperr.Unauthenticated("Strategy not opened")
	}
	raid, err := s.raids.Get(ctx, snap.RaidID)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	if err := collab.ValidateUseAt(entry.UseAt, raid.Duration); err != nil {
		return nil, apperr.InvalidArgument(err.Error())
	}

	var job *model.Job
	for _, pl := range snap.Players {
		if pl.ID == entry.PlayerID {
			job = pl.Job
			break
		}
	}
	if job == nil {
		return nil, apperr.FailedPrecondition("Player not found or has an empty job")
	}
	var action *model.ActionInfo
	for _, a := range s.actions.ForJob(*job) {
		if a.ID == entry.ActionID {
			action = &a
			break
		}
	}
	if action == nil {
		return nil, apperr.FailedPrecondition("Action not found")
	}

	var original *model.Entry
	var column []collab.ColumnUpsert
	for _, e := range snap.Entries {
		if e.ID == entry.ID {
			o := e
			original = &o
		}
		if e.PlayerID == entry.PlayerID && e.ActionID == entry.ActionID && e.ID != entry.ID {
			column = append(column, collab.ColumnUpsert{ID: e.ID, UseAt: e.UseAt})
		}
	}
	column = append(column, collab.ColumnUpsert{ID: entry.ID, UseAt: entry.UseAt})
	sort.Slice(column, func(i, j int) bool { return column[i].UseAt < column[j].UseAt })

	if !collab.SweepFeasible(column, action.Cooldown, action.Charges) {
		if original != nil {
			s.registry.SendToPeer(p.Token, &stratsyncpb.EventResponse{
				UpsertEntry: &stratsyncpb.UpsertEntryEvent{Entry: toWireEntries([]model.Entry{*original})[0]},
			})
		} else {
			s.registry.SendToPeer(p.Token, &stratsyncpb.EventResponse{
				DeleteEntry: &stratsyncpb.DeleteEntryEvent{ID: entry.ID.String()},
			})
		}
		return &stratsyncpb.Empty{}, nil
	}

	if err := s.store.UpsertEntries(ctx, p.StrategyID, []model.Entry{entry}); err != nil {
		return nil, apperr.Wrap(err)
	}

	_, err = s.registry.Mutate(ctx, p.StrategyID, func(sc *model.SessionContext) (*model.SessionContext, error) {
		replaced := false
		for i := range sc.Entries {
			if sc.Entries[i].ID == entry.ID {
				sc.Entries[i] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			sc.Entries = append(sc.Entries, entry)
		}
		return sc, nil
	})
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	wireEntry := toWireEntries([]model.Entry{entry})[0]
	_ = s.registry.Broadcast(context.Background(), p.StrategyID, p.Token, &stratsyncpb.EventResponse{
		UpsertEntry: &stratsyncpb.UpsertEntryEvent{Entry: wireEntry},
	})

	return &stratsyncpb.Empty{}, nil
}
