package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/carrotnibbles/stratsync/internal/apperr"
	"github.com/carrotnibbles/stratsync/internal/model"
	"github.com/carrotnibbles/stratsync/internal/stratsyncpb"
)

// DeleteEntry removes a single timeline entry, supplementing the
// batched MutateEntries RPC with a standalone single-entry deleter.
func (s *Service) DeleteEntry(ctx context.Context, req *stratsyncpb.DeleteEntryRequest) (*stratsyncpb.Empty, error) {
	p, err := s.elevatedPeer(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	id, err := parseUUID(req.ID, "id")
	if err != nil {
		return nil, err
	}

	snap, ok := s.registry.Snapshot(p.StrategyID)
	if !ok {
		return nil, apperr.Unauthenticated("Strategy not opened")
	}
	found := false
	for _, e := range snap.Entries {
		if e.ID == id {
			found = true
			break
		}
	}
	if !found {
		return nil, apperr.FailedPrecondition("Entry not found")
	}

	if err := s.store.DeleteEntries(ctx, p.StrategyID, []uuid.UUID{id}); err != nil {
		return nil, apperr.Wrap(err)
	}

	_, err = s.registry.Mutate(ctx, p.StrategyID, func(sc *model.SessionContext) (*model.SessionContext, error) {
		kept := sc.Entries[:0]
		for _, e := range sc.Entries {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		sc.Entries = kept
		return sc, nil
	})
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	_ = s.registry.Broadcast(context.Background(), p.StrategyID, p.Token, &stratsyncpb.EventResponse{
		DeleteEntry: &stratsyncpb.DeleteEntryEvent{ID: id.String()},
	})

	return &stratsyncpb.Empty{}, nil
}
