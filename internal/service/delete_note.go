package service

import (
	"context"

	"github.com/carrotnibbles/stratsync/internal/apperr"
	"github.com/carrotnibbles/stratsync/internal/model"
	"github.com/carrotnibbles/stratsync/internal/stratsyncpb"
)

// DeleteNote removes a note annotation. Like UpsertNote this is never
// broadcast on its own.
func (s *Service) DeleteNote(ctx context.Context, req *stratsyncpb.DeleteNoteRequest) (*stratsyncpb.Empty, error) {
	p, err := s.elevatedPeer(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	id, err := parseUUID(req.ID, "id")
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteNote(ctx, p.StrategyID, id); err != nil {
		return nil, apperr.Wrap(err)
	}

	_, err = s.registry.Mutate(ctx, p.StrategyID, func(sc *model.SessionContext) (*model.SessionContext, error) {
		kept := sc.Notes[:0]
		for _, n := range sc.Notes {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		sc.Notes = kept
		return sc, nil
	})
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	s.noteBroadcastHook(p.StrategyID, &stratsyncpb.EventResponse{})

	return &stratsyncpb.Empty{}, nil
}
