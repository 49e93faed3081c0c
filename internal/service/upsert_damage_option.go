package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/carrotnibbles/stratsync/internal/apperr"
	"github.com/carrotnibbles/stratsync/internal/model"
	"github.com/carrotnibbles/stratsync/internal/stratsyncpb"
)

// UpsertDamageOption replaces a strategy's share/target assignment for
// one raid-wide damage instance.
func (s *Service) UpsertDamageOption(ctx context.Context, req *stratsyncpb.UpsertDamageOptionRequest) (*stratsyncpb.Empty, error) {
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

	damageID, err := parseUUID(req.DamageOption.Damage, "Damage id")
	if err != nil {
		return nil, err
	}
	var primaryTarget *uuid.UUID
	if req.DamageOption.PrimaryTarget != nil {
		id, err := parseUUID(*req.DamageOption.PrimaryTarget, "Primary target id")
		if err != nil {
			return nil, err
		}
		primaryTarget = &id
	}

	var damage *model.Damage
	for i := range raid.Damages {
		if raid.Damages[i].ID == damageID {
			damage = &raid.Damages[i]
			break
		}
	}
	if damage == nil {
		return nil, apperr.FailedPrecondition("Damage not found or not belongs to the specified raid")
	}
	if req.DamageOption.NumShared != nil && *req.DamageOption.NumShared > damage.MaxShared {
		return nil, apperr.FailedPrecondition("num_shared is greater than max_shared")
	}
	if primaryTarget != nil {
		found := false
		for _, pl := range snap.Players {
			if pl.ID == *primaryTarget {
				found = true
				break
			}
		}
		if !found {
			return nil, apperr.FailedPrecondition("Primary target not found")
		}
	}

	opt := model.DamageOption{Damage: damageID, NumShared: req.DamageOption.NumShared, PrimaryTarget: primaryTarget}

	if err := s.store.UpsertDamageOption(ctx, p.StrategyID, opt); err != nil {
		return nil, apperr.Wrap(err)
	}

	_, err = s.registry.Mutate(ctx, p.StrategyID, func(sc *model.SessionContext) (*model.SessionContext, error) {
		replaced := false
		for i := range sc.DamageOptions {
			if sc.DamageOptions[i].Damage == damageID {
				sc.DamageOptions[i] = opt
				replaced = true
				break
			}
		}
		if !replaced {
			sc.DamageOptions = append(sc.DamageOptions, opt)
		}
		return sc, nil
	})
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	event := &stratsyncpb.EventResponse{
		UpsertDamageOption: &stratsyncpb.UpsertDamageOptionEvent{DamageOption: req.DamageOption},
	}
	_ = s.registry.Broadcast(context.Background(), p.StrategyID, p.Token, event)

	return &stratsyncpb.Empty{}, nil
}
