package service

import (
	"github.com/carrotnibbles/stratsync/internal/apperr"
	"github.com/carrotnibbles/stratsync/internal/model"
	"github.com/carrotnibbles/stratsync/internal/stratsyncpb"
)

// Event implements the server-streaming subscription RPC: it resolves
// access, opens or joins the strategy's live session, and streams the
// initialization snapshot followed by every subsequent broadcast event
// until the peer disconnects or is evicted.
func (s *Service) Event(req *stratsyncpb.SubscriptionRequest, stream stratsyncpb.StratSync_EventServer) error {
	ctx := stream.Context()

	strategyID, err := parseUUID(req.StrategyID, "Strategy id")
	if err != nil {
		return err
	}

	strategy, err := s.store.LoadStrategy(ctx, strategyID)
	if err != nil {
		return apperr.PermissionDenied("Access denied to strategy")
	}

	userID, err := s.authenticate(ctx)
	if err != nil {
		return err
	}
	isAuthor := userID != nil && strategy.AuthorID != nil && *userID == *strategy.AuthorID

	if !strategy.Public && !isAuthor {
		return apperr.PermissionDenied("Access denied to strategy")
	}

	if _, err := s.raids.Get(ctx, strategy.RaidID); err != nil {
		return apperr.Wrap(err)
	}

	peerToken, ch, snapshot, err := s.registry.Subscribe(ctx, strategyID, userID)
	if err != nil {
		return apperr.Wrap(err)
	}
	if isAuthor {
		if err := s.registry.Elevate(ctx, strategyID, peerToken); err != nil {
			return apperr.Wrap(err)
		}
	}

	init := &stratsyncpb.EventResponse{
		Initialization: &stratsyncpb.InitializationEvent{
			Token:         peerToken.String(),
			Players:       toWirePlayers(snapshot.Players),
			DamageOptions: toWireDamageOptions(snapshot.DamageOptions),
			Entries:       toWireEntries(snapshot.Entries),
		},
	}
	if err := stream.Send(init); err != nil {
		s.registry.Unsubscribe(ctx, strategyID, peerToken)
		return err
	}

	defer s.registry.Unsubscribe(ctx, strategyID, peerToken)

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if ev.Err != nil {
				return apperr.Aborted(ev.Err.Error())
			}
			resp, ok := ev.Payload.(*stratsyncpb.EventResponse)
			if !ok {
				continue
			}
			if err := stream.Send(resp); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func toWirePlayers(players []model.Player) []stratsyncpb.Player {
	out := make([]stratsyncpb.Player, len(players))
	for i, p := range players {
		var job *string
		if p.Job != nil {
			j := string(*p.Job)
			job = &j
		}
		out[i] = stratsyncpb.Player{ID: p.ID.String(), Job: job, Order: p.Order}
	}
	return out
}

func toWireDamageOptions(opts []model.DamageOption) []stratsyncpb.DamageOption {
	out := make([]stratsyncpb.DamageOption, len(opts))
	for i, o := range opts {
		var target *string
		if o.PrimaryTarget != nil {
			t := o.PrimaryTarget.String()
			target = &t
		}
		out[i] = stratsyncpb.DamageOption{Damage: o.Damage.String(), NumShared: o.NumShared, PrimaryTarget: target}
	}
	return out
}

func toWireEntries(entries []model.Entry) []stratsyncpb.Entry {
	out := make([]stratsyncpb.Entry, len(entries))
	for i, e := range entries {
		out[i] = stratsyncpb.Entry{ID: e.ID.String(), Player: e.PlayerID.String(), Action: e.ActionID.String(), UseAt: e.UseAt}
	}
	return out
}

func entryFromWire(e stratsyncpb.Entry) (model.Entry, error) {
	id, err := parseUUID(e.ID, "id")
	if err != nil {
		return model.Entry{}, err
	}
	playerID, err := parseUUID(e.Player, "player")
	if err != nil {
		return model.Entry{}, err
	}
	actionID, err := parseUUID(e.Action, "action")
	if err != nil {
		return model.Entry{}, err
	}
	return model.Entry{ID: id, PlayerID: playerID, ActionID: actionID, UseAt: e.UseAt}, nil
}
