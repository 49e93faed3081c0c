package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/carrotnibbles/stratsync/internal/apperr"
	"github.com/carrotnibbles/stratsync/internal/collab"
	"github.com/carrotnibbles/stratsync/internal/model"
	"github.com/carrotnibbles/stratsync/internal/stratsyncpb"
)

// MutateEntries applies a batch of timeline upserts and deletes, column
// by column, accepting or rejecting each (player, action) column as a
// unit by a cooldown-feasibility sweep. Rejected upserts are
// reconciled back to the caller alone; accepted changes broadcast to
// everyone else.
func (s *Service) MutateEntries(ctx context.Context, req *stratsyncpb.MutateEntriesRequest) (*stratsyncpb.Empty, error) {
	p, err := s.elevatedPeer(ctx, req.Token)
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

	playerJob := make(map[uuid.UUID]model.Job, len(snap.Players))
	for _, pl := range snap.Players {
		if pl.Job != nil {
			playerJob[pl.ID] = *pl.Job
		} else {
			playerJob[pl.ID] = ""
		}
	}
	actionsByJob := make(map[model.Job]map[uuid.UUID]model.ActionInfo)
	for _, pl := range snap.Players {
		if pl.Job == nil {
			continue
		}
		if _, ok := actionsByJob[*pl.Job]; ok {
			continue
		}
		byID := make(map[uuid.UUID]model.ActionInfo)
		for _, a := range s.actions.ForJob(*pl.Job) {
			byID[a.ID] = a
		}
		actionsByJob[*pl.Job] = byID
	}

	upserts := make([]collab.UpsertRequest, len(req.Upserts))
	for i, u := range req.Upserts {
		entry, err := entryFromWire(u)
		if err != nil {
			return nil, err
		}
		if err := collab.ValidateUseAt(entry.UseAt, raid.Duration); err != nil {
			return nil, apperr.InvalidArgument(err.Error())
		}
		upserts[i] = collab.UpsertRequest{ID: entry.ID, PlayerID: entry.PlayerID, ActionID: entry.ActionID, UseAt: entry.UseAt}
	}
	deletes := make([]uuid.UUID, len(req.Deletes))
	for i, d := range req.Deletes {
		id, err := parseUUID(d, "id")
		if err != nil {
			return nil, err
		}
		deletes[i] = id
	}

	preChangeEntries := snap.Entries

	result, mutErr := collab.MutateEntries(snap.Entries, upserts, deletes, playerJob, actionsByJob, raid.Duration)
	if mutErr != nil {
		return nil, apperr.FailedPrecondition(mutErr.Error())
	}

	if err := s.store.DeleteEntries(ctx, p.StrategyID, result.AcceptedDeletes); err != nil {
		return nil, apperr.Wrap(err)
	}
	if err := s.store.UpsertEntries(ctx, p.StrategyID, result.AcceptedUpserts); err != nil {
		return nil, apperr.Wrap(err)
	}

	_, err = s.registry.Mutate(ctx, p.StrategyID, func(sc *model.SessionContext) (*model.SessionContext, error) {
		sc.Entries = result.Entries
		return sc, nil
	})
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	if len(result.RejectedUpserts) > 0 {
		byID := make(map[uuid.UUID]model.Entry, len(preChangeEntries))
		for _, e := range preChangeEntries {
			byID[e.ID] = e
		}
		var reconcileUpserts []stratsyncpb.Entry
		var reconcileDeletes []string
		for _, r := range result.RejectedUpserts {
			if existing, ok := byID[r.ID]; ok {
				reconcileUpserts = append(reconcileUpserts, toWireEntries([]model.Entry{existing})[0])
			} else {
				reconcileDeletes = append(reconcileDeletes, r.ID.String())
			}
		}
		if len(reconcileUpserts) > 0 || len(reconcileDeletes) > 0 {
			s.sendReconciliation(p.Token, &stratsyncpb.EventResponse{
				MutateEntries: &stratsyncpb.MutateEntriesEvent{Upserts: reconcileUpserts, Deletes: reconcileDeletes},
			})
		}
	}

	if len(result.AcceptedUpserts) > 0 || len(result.AcceptedDeletes) > 0 {
		deleteStrs := make([]string, len(result.AcceptedDeletes))
		for i, id := range result.AcceptedDeletes {
			deleteStrs[i] = id.String()
		}
		event := &stratsyncpb.EventResponse{
			MutateEntries: &stratsyncpb.MutateEntriesEvent{
				Upserts: toWireEntries(result.AcceptedUpserts),
				Deletes: deleteStrs,
			},
		}
		_ = s.registry.Broadcast(context.Background(), p.StrategyID, p.Token, event)
	}

	return &stratsyncpb.Empty{}, nil
}

// sendReconciliation delivers an event to the originating peer alone,
// bypassing Broadcast (which always excludes the source token).
func (s *Service) sendReconciliation(peerToken uuid.UUID, event *stratsyncpb.EventResponse) {
	s.registry.SendToPeer(peerToken, event)
}
