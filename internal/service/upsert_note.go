package service

import (
	"context"

	"github.com/carrotnibbles/stratsync/internal/apperr"
	"github.com/carrotnibbles/stratsync/internal/collab"
	"github.com/carrotnibbles/stratsync/internal/model"
	"github.com/carrotnibbles/stratsync/internal/stratsyncpb"
)

// UpsertNote persists a note annotation on the timeline. Notes are not
// broadcast by default: this only calls Service.noteBroadcastHook,
// a no-op unless a caller wires one in.
func (s *Service) UpsertNote(ctx context.Context, req *stratsyncpb.UpsertNoteRequest) (*stratsyncpb.Empty, error) {
	p, err := s.elevatedPeer(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	noteID, err := parseUUID(req.Note.ID, "Note id")
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

	if err := collab.ValidateNote(req.Note.Block, req.Note.Offset, req.Note.At, raid.Duration, raid.Headcount, req.Note.Content); err != nil {
		return nil, apperr.InvalidArgument(err.Error())
	}

	note := model.Note{ID: noteID, Block: req.Note.Block, Offset: req.Note.Offset, At: req.Note.At, Content: req.Note.Content}
	if err := s.store.UpsertNote(ctx, p.StrategyID, note); err != nil {
		return nil, apperr.Wrap(err)
	}

	_, err = s.registry.Mutate(ctx, p.StrategyID, func(sc *model.SessionContext) (*model.SessionContext, error) {
		replaced := false
		for i := range sc.Notes {
			if sc.Notes[i].ID == noteID {
				sc.Notes[i] = note
				replaced = true
				break
			}
		}
		if !replaced {
			sc.Notes = append(sc.Notes, note)
		}
		return sc, nil
	})
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	s.noteBroadcastHook(p.StrategyID, &stratsyncpb.EventResponse{})

	return &stratsyncpb.Empty{}, nil
}
