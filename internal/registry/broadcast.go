package registry

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Broadcast fans payload out to every peer currently subscribed to
// strategyID except skip (the originating peer, which receives its own
// response directly from the RPC handler rather than a second time
// through the broadcast). Slow or dead peers never block the others: a
// peer whose channel is already full is reaped rather than waited on.
// Callers should pass a context independent of the originating RPC's
// lifetime (ctx.Done firing mid-fan-out may skip delivery to any peer
// still pending, without reaping it) so a client disconnecting right
// after its own write commits cannot race a live peer's delivery out of
// the broadcast.
func (r *Registry) Broadcast(ctx context.Context, strategyID uuid.UUID, skip uuid.UUID, payload any) error {
	e, ok := r.sessions.Get(strategyID)
	if !ok {
		return nil
	}

	e.mu.Lock()
	targets := make(map[uuid.UUID]chan Event, len(e.peerChans))
	for token, ch := range e.peerChans {
		if token == skip {
			continue
		}
		targets[token] = ch
	}
	e.mu.Unlock()

	var dead []uuid.UUID
	var deadMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for token, ch := range targets {
		token, ch := token, ch
		g.Go(func() error {
			select {
			case ch <- Event{StrategyID: strategyID, Payload: payload}:
				return nil
			case <-gctx.Done():
				return nil
			default:
				deadMu.Lock()
				dead = append(dead, token)
				deadMu.Unlock()
				return nil
			}
		})
	}
	_ = g.Wait()

	for _, token := range dead {
		r.Unsubscribe(ctx, strategyID, token)
	}
	return nil
}

// BroadcastAborted sends a terminal aborted event to every peer on
// strategyID, then closes every channel. Used when a whole strategy
// session is evicted, as opposed to terminatePeer/detachPeer which
// handle a single peer.
func (r *Registry) BroadcastAborted(ctx context.Context, strategyID uuid.UUID, reason string) {
	e, ok := r.sessions.Get(strategyID)
	if !ok {
		return
	}
	r.abortSession(strategyID, e, reason)
}

// abortSession is the entry-holding half of BroadcastAborted, taking the
// entry directly so it can also run from a ristretto OnEvict callback,
// where the entry has already been removed from the sessions cache and
// so can no longer be looked up by strategyID.
func (r *Registry) abortSession(strategyID uuid.UUID, e *entry, reason string) {
	e.mu.Lock()
	targets := make(map[uuid.UUID]chan Event, len(e.peerChans))
	for token, ch := range e.peerChans {
		targets[token] = ch
	}
	e.peerChans = make(map[uuid.UUID]chan Event)
	e.mu.Unlock()

	for token, ch := range targets {
		select {
		case ch <- Event{StrategyID: strategyID, Err: errAborted(reason)}:
		default:
		}
		close(ch)
		r.peers.Del(token)
	}
}

type errAborted string

func (e errAborted) Error() string { return string(e) }

// SendToPeer delivers payload to peerToken alone, best-effort: a full or
// missing channel silently drops it rather than blocking the caller.
func (r *Registry) SendToPeer(peerToken uuid.UUID, payload any) {
	pc, ok := r.peers.Get(peerToken)
	if !ok {
		return
	}

	e, ok := r.sessions.Get(pc.StrategyID)
	if !ok {
		return
	}
	e.mu.Lock()
	ch, ok := e.peerChans[peerToken]
	e.mu.Unlock()
	if !ok {
		return
	}

	select {
	case ch <- Event{StrategyID: pc.StrategyID, Payload: payload}:
	default:
	}
}
