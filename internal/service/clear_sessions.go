package service

import (
	"context"

	"github.com/carrotnibbles/stratsync/internal/apperr"
	"github.com/carrotnibbles/stratsync/internal/stratsyncpb"
)

// ClearOtherSessions evicts every peer on the caller's strategy except
// the caller itself; only the strategy's author may do this.
func (s *Service) ClearOtherSessions(ctx context.Context, req *stratsyncpb.ClearOtherSessionsRequest) (*stratsyncpb.Empty, error) {
	p, err := s.peer(req.Token)
	if err != nil {
		return nil, err
	}

	snap, ok := s.registry.Snapshot(p.StrategyID)
	if !ok {
		return nil, apperr.Unauthenticated("Strategy not opened")
	}
	isAuthor := p.UserID != nil && snap.AuthorID != nil && *p.UserID == *snap.AuthorID
	if !isAuthor {
		return nil, apperr.PermissionDenied("Only the author can clear other sessions")
	}

	if err := s.registry.ClearOtherSessions(ctx, p.StrategyID, p.Token); err != nil {
		return nil, apperr.Wrap(err)
	}
	return &stratsyncpb.Empty{}, nil
}
