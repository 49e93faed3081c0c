package service

import (
	"context"

	"github.com/carrotnibbles/stratsync/internal/apperr"
	"github.com/carrotnibbles/stratsync/internal/stratsyncpb"
)

// Elevate marks a peer as elevated on its strategy once it proves
// knowledge of the strategy's password.
func (s *Service) Elevate(ctx context.Context, req *stratsyncpb.ElevateRequest) (*stratsyncpb.Empty, error) {
	p, err := s.peer(req.Token)
	if err != nil {
		return nil, err
	}

	snap, ok := s.registry.Snapshot(p.StrategyID)
	if !ok {
		return nil, apperr.Unauthenticated("Strategy not opened")
	}
	if _, already := snap.ElevatedPeers[p.Token]; already {
		return nil, apperr.FailedPrecondition("Already elevated")
	}

	hash, editable, err := s.store.ElevationInfo(ctx, p.StrategyID)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	if !editable {
		return nil, apperr.PermissionDenied("Strategy is not editable")
	}
	if hash == nil {
		return nil, apperr.PermissionDenied("Strategy password is not set")
	}
	if err := s.bcrypt.Compare(ctx, *hash, req.Password); err != nil {
		return nil, apperr.PermissionDenied("Invalid password")
	}

	if err := s.registry.Elevate(ctx, p.StrategyID, p.Token); err != nil {
		return nil, apperr.Wrap(err)
	}
	return &stratsyncpb.Empty{}, nil
}
