package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/carrotnibbles/stratsync/internal/apperr"
	"github.com/carrotnibbles/stratsync/internal/model"
	"github.com/carrotnibbles/stratsync/internal/stratsyncpb"
)

// UpdatePlayerJob changes a player's job tag, dropping every entry the
// player had placed since cooldowns differ across jobs.
func (s *Service) UpdatePlayerJob(ctx context.Context, req *stratsyncpb.UpdatePlayerJobRequest) (*stratsyncpb.Empty, error) {
	p, err := s.elevatedPeer(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	playerID, err := parseUUID(req.ID, "id")
	if err != nil {
		return nil, err
	}

	var job *model.Job
	if req.Job != nil {
		j := model.Job(*req.Job)
		if !j.Valid() {
			return nil, apperr.InvalidArgument("Invalid job")
		}
		job = &j
	}

	snap, ok := s.registry.Snapshot(p.StrategyID)
	if !ok {
		return nil, apperr.Unauthenticated("Strategy not opened")
	}
	found := false
	for _, pl := range snap.Players {
		if pl.ID == playerID {
			found = true
			break
		}
	}
	if !found {
		return nil, apperr.FailedPrecondition("Player not found")
	}

	if err := s.store.UpdatePlayerJob(ctx, p.StrategyID, playerID, job); err != nil {
		return nil, apperr.Wrap(err)
	}
	var dropped []uuid.UUID
	for _, e := range snap.Entries {
		if e.PlayerID == playerID {
			dropped = append(dropped, e.ID)
		}
	}
	if err := s.store.DeleteEntries(ctx, p.StrategyID, dropped); err != nil {
		return nil, apperr.Wrap(err)
	}

	_, err = s.registry.Mutate(ctx, p.StrategyID, func(sc *model.SessionContext) (*model.SessionContext, error) {
		for i := range sc.Players {
			if sc.Players[i].ID == playerID {
				sc.Players[i].Job = job
				break
			}
		}
		kept := sc.Entries[:0]
		for _, e := range sc.Entries {
			if e.PlayerID != playerID {
				kept = append(kept, e)
			}
		}
		sc.Entries = kept
		return sc, nil
	})
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	event := &stratsyncpb.EventResponse{
		UpdatePlayerJob: &stratsyncpb.UpdatePlayerJobEvent{PlayerID: playerID.String(), Job: req.Job},
	}
	_ = s.registry.Broadcast(context.Background(), p.StrategyID, p.Token, event)

	return &stratsyncpb.Empty{}, nil
}
