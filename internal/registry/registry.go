// Package registry holds the in-memory, copy-on-write session and peer
// state for every strategy currently being edited. Every read of a
// session hands back an immutable snapshot; every write goes through
// the owning strategy's actor, swapping in a freshly cloned snapshot
// once the write completes.
package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"

	"github.com/carrotnibbles/stratsync/internal/config"
	"github.com/carrotnibbles/stratsync/internal/log"
	"github.com/carrotnibbles/stratsync/internal/model"
	"github.com/carrotnibbles/stratsync/internal/persistence"
	"github.com/carrotnibbles/stratsync/internal/strategyactor"
)

// entry is the registry's bookkeeping for one live strategy session: the
// actor serializing mutations against it, the current immutable
// snapshot, and the outbound event channels of its subscribed peers.
type entry struct {
	actor *strategyactor.Actor

	mu      sync.Mutex // guards session and peerChans together
	session *model.SessionContext
	peerChans map[uuid.UUID]chan Event
}

// Event is a single message destined for one peer's outbound stream,
// carried through the bounded channel the service layer's Subscribe
// handler drains.
type Event struct {
	StrategyID uuid.UUID
	Payload    any
	Err        error
}

// Registry owns every live strategy session and peer, TTL-evicting both
// on ristretto's cost-based eviction with a per-key TTL: a strategy with
// no recent activity ages its session out, and a peer that stops
// renewing its own activity ages out independently of its strategy.
type Registry struct {
	store persistence.Store
	log   log.Logger

	sessions *ristretto.Cache[uuid.UUID, *entry]
	peers    *ristretto.Cache[uuid.UUID, *model.PeerContext]

	mu sync.Mutex // guards creation of session cache entries
}

// New builds a Registry backed by store, with the capacities and TTLs
// config.StrategyCapacity/PeerCapacity/StrategyTTI/PeerTTI describe.
func New(store persistence.Store, logger log.Logger) (*Registry, error) {
	if logger == nil {
		logger = log.Nop()
	}
	r := &Registry{
		store: store,
		log:   logger,
	}

	sessions, err := ristretto.NewCache(&ristretto.Config[uuid.UUID, *entry]{
		NumCounters: config.StrategyCapacity * 10,
		MaxCost:     config.StrategyCapacity,
		BufferItems: 64,
		OnEvict: func(item *ristretto.Item[*entry]) {
			e := item.Value
			e.mu.Lock()
			strategyID := e.session.StrategyID
			e.mu.Unlock()
			r.abortSession(strategyID, e, "strategy session idle timeout")
			e.actor.Stop()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("registry: new session cache: %w", err)
	}
	r.sessions = sessions

	peers, err := ristretto.NewCache(&ristretto.Config[uuid.UUID, *model.PeerContext]{
		NumCounters: config.PeerCapacity * 10,
		MaxCost:     config.PeerCapacity,
		BufferItems: 64,
		OnEvict: func(item *ristretto.Item[*model.PeerContext]) {
			pc := item.Value
			r.detachPeer(context.Background(), pc.StrategyID, pc.Token, "peer idle timeout")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("registry: new peer cache: %w", err)
	}
	r.peers = peers

	return r, nil
}

// OpenOrCreate returns the live entry for strategyID, loading it from
// the store on first access. Creation and lookup happen under the same
// critical section so no two callers can race to load the same
// strategy twice.
func (r *Registry) OpenOrCreate(ctx context.Context, strategyID uuid.UUID) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.sessions.Get(strategyID); ok {
		r.sessions.SetWithTTL(strategyID, e, 1, config.StrategyTTI)
		return e, nil
	}

	strategy, err := r.store.LoadStrategy(ctx, strategyID)
	if err != nil {
		return nil, fmt.Errorf("registry: load strategy %s: %w", strategyID, err)
	}

	e := &entry{
		actor: strategyactor.New(strategyID),
		session: &model.SessionContext{
			StrategyID:    strategy.ID,
			RaidID:        strategy.RaidID,
			AuthorID:      strategy.AuthorID,
			Public:        strategy.Public,
			PasswordHash:  strategy.PasswordHash,
			Players:       strategy.Players,
			DamageOptions: strategy.DamageOptions,
			Entries:       strategy.Entries,
			Notes:         strategy.Notes,
			Peers:         make(map[uuid.UUID]struct{}),
			ElevatedPeers: make(map[uuid.UUID]struct{}),
		},
		peerChans: make(map[uuid.UUID]chan Event),
	}
	r.sessions.SetWithTTL(strategyID, e, 1, config.StrategyTTI)
	r.sessions.Wait()
	r.log.Log(log.LevelInfo, "session opened", "strategy_id", strategyID)
	return e, nil
}

// Snapshot returns the current immutable SessionContext for strategyID,
// or false if no session is live.
func (r *Registry) Snapshot(strategyID uuid.UUID) (*model.SessionContext, bool) {
	e, ok := r.sessions.Get(strategyID)
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session, true
}

// Mutate runs fn against strategyID's session serialized through its
// actor, the copy-on-write way: fn receives a clone of the current
// snapshot, mutates it freely, and its return value becomes the new
// published snapshot (or the old one, if fn returns nil to signal "no
// change" after deciding the op is a no-op or rejected).
func (r *Registry) Mutate(ctx context.Context, strategyID uuid.UUID, fn func(*model.SessionContext) (*model.SessionContext, error)) (*model.SessionContext, error) {
	e, err := r.OpenOrCreate(ctx, strategyID)
	if err != nil {
		return nil, err
	}

	var result *model.SessionContext
	var fnErr error
	runErr := e.actor.Do(ctx, func(ctx context.Context) {
		e.mu.Lock()
		current := e.session
		e.mu.Unlock()

		next, err := fn(current.Clone())
		if err != nil {
			fnErr = err
			return
		}
		if next == nil {
			result = current
			return
		}
		e.mu.Lock()
		e.session = next
		e.mu.Unlock()
		result = next
	})
	if runErr != nil {
		return nil, fmt.Errorf("registry: mutate %s: %w", strategyID, runErr)
	}
	if fnErr != nil {
		return nil, fnErr
	}
	return result, nil
}

// Subscribe registers a new peer on strategyID and returns the channel
// its events arrive on, along with the initial snapshot to send as the
// peer's InitializationEvent.
func (r *Registry) Subscribe(ctx context.Context, strategyID uuid.UUID, userID *uuid.UUID) (peerToken uuid.UUID, ch <-chan Event, snapshot *model.SessionContext, err error) {
	e, err := r.OpenOrCreate(ctx, strategyID)
	if err != nil {
		return uuid.Nil, nil, nil, err
	}

	peerToken = uuid.New()
	out := make(chan Event, config.PeerOutboundCapacity)

	runErr := e.actor.Do(ctx, func(ctx context.Context) {
		e.mu.Lock()
		defer e.mu.Unlock()
		cloned := e.session.Clone()
		cloned.Peers[peerToken] = struct{}{}
		e.session = cloned
		e.peerChans[peerToken] = out
		snapshot = cloned
	})
	if runErr != nil {
		return uuid.Nil, nil, nil, fmt.Errorf("registry: subscribe %s: %w", strategyID, runErr)
	}

	pc := &model.PeerContext{
		Token:      peerToken,
		StrategyID: strategyID,
		UserID:     userID,
		LastSeen:   timeNow(),
	}
	r.peers.SetWithTTL(peerToken, pc, 1, config.PeerTTI)
	r.peers.Wait()

	r.log.Log(log.LevelInfo, "peer subscribed", "strategy_id", strategyID, "peer_token", peerToken)
	return peerToken, out, snapshot, nil
}

// Unsubscribe tears a peer out of its strategy's session, closing its
// outbound channel. The session entry stays in the cache even when this
// removes its last peer; it goes away only when its own TTL lapses or
// the cache evicts it. This is a voluntary disconnect, so unlike
// terminatePeer it does not send a terminal event first.
func (r *Registry) Unsubscribe(ctx context.Context, strategyID, peerToken uuid.UUID) {
	e, ok := r.sessions.Get(strategyID)
	if !ok {
		return
	}

	_ = e.actor.Do(ctx, func(ctx context.Context) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if ch, ok := e.peerChans[peerToken]; ok {
			close(ch)
			delete(e.peerChans, peerToken)
		}
		cloned := e.session.Clone()
		delete(cloned.Peers, peerToken)
		delete(cloned.ElevatedPeers, peerToken)
		e.session = cloned
	})

	r.peers.Del(peerToken)

	r.log.Log(log.LevelInfo, "peer unsubscribed", "strategy_id", strategyID, "peer_token", peerToken)
}

// PeerContext returns the bookkeeping for peerToken, or false if unknown.
// A successful lookup counts as activity and renews the peer's idle TTL,
// the same way OpenOrCreate renews a session's TTL on access.
func (r *Registry) PeerContext(peerToken uuid.UUID) (*model.PeerContext, bool) {
	p, ok := r.peers.Get(peerToken)
	if !ok {
		return nil, false
	}
	p.LastSeen = timeNow()
	r.peers.SetWithTTL(peerToken, p, 1, config.PeerTTI)
	return p, true
}

// Elevate marks peerToken as elevated on its strategy.
func (r *Registry) Elevate(ctx context.Context, strategyID, peerToken uuid.UUID) error {
	_, err := r.Mutate(ctx, strategyID, func(s *model.SessionContext) (*model.SessionContext, error) {
		s.ElevatedPeers[peerToken] = struct{}{}
		return s, nil
	})
	if err != nil {
		return err
	}
	if p, ok := r.peers.Get(peerToken); ok {
		p.Elevated = true
	}
	return nil
}

// ClearOtherSessions drops every peer on strategyID except keep, routing
// each through terminatePeer so it receives a terminal aborted event
// before its channel closes.
func (r *Registry) ClearOtherSessions(ctx context.Context, strategyID, keep uuid.UUID) error {
	if _, err := r.OpenOrCreate(ctx, strategyID); err != nil {
		return err
	}

	snap, ok := r.Snapshot(strategyID)
	if !ok {
		return nil
	}
	for token := range snap.Peers {
		if token == keep {
			continue
		}
		r.terminatePeer(ctx, strategyID, token, "session cleared by another connection")
	}
	return nil
}

// terminatePeer evicts peerToken from strategyID's session and drops its
// bookkeeping from the peer cache. Used by ClearOtherSessions, where the
// peer cache entry is still live and must be explicitly removed.
func (r *Registry) terminatePeer(ctx context.Context, strategyID, peerToken uuid.UUID, reason string) {
	r.detachPeer(ctx, strategyID, peerToken, reason)
	r.peers.Del(peerToken)
}

// detachPeer sends a terminal aborted event on peerToken's outbound
// channel before closing it, and removes the peer from the session's
// Peers/ElevatedPeers sets. It does not touch the peer cache itself:
// the peer cache's own OnEvict hook calls this directly, since the entry
// is already being removed from that cache by the time OnEvict runs, and
// a synchronous Del on the cache's own eviction path risks deadlocking
// against ristretto's internal eviction processing.
func (r *Registry) detachPeer(ctx context.Context, strategyID, peerToken uuid.UUID, reason string) {
	e, ok := r.sessions.Get(strategyID)
	if !ok {
		return
	}

	_ = e.actor.Do(ctx, func(ctx context.Context) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if ch, ok := e.peerChans[peerToken]; ok {
			select {
			case ch <- Event{StrategyID: strategyID, Err: errAborted(reason)}:
			default:
			}
			close(ch)
			delete(e.peerChans, peerToken)
		}
		cloned := e.session.Clone()
		delete(cloned.Peers, peerToken)
		delete(cloned.ElevatedPeers, peerToken)
		e.session = cloned
	})
}

// timeNow exists so tests can be written without depending on wall
// clock behavior beyond "later calls return a later time."
var timeNow = func() time.Time { return time.Now() }
