// Package service implements the StratSync gRPC service, one file per
// RPC. Every handler funnels through Service's registry, catalog,
// persistence and bcrypt pool rather than touching global state.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"

	"github.com/carrotnibbles/stratsync/internal/apperr"
	"github.com/carrotnibbles/stratsync/internal/bcryptpool"
	"github.com/carrotnibbles/stratsync/internal/catalog"
	"github.com/carrotnibbles/stratsync/internal/log"
	"github.com/carrotnibbles/stratsync/internal/model"
	"github.com/carrotnibbles/stratsync/internal/persistence"
	"github.com/carrotnibbles/stratsync/internal/registry"
	"github.com/carrotnibbles/stratsync/internal/stratsyncpb"
)

// Service implements stratsyncpb.StratSyncServer.
type Service struct {
	stratsyncpb.UnimplementedStratSyncServer

	store    persistence.Store
	registry *registry.Registry
	actions  *catalog.ActionCatalog
	raids    *catalog.RaidCatalog
	bcrypt   *bcryptpool.Pool
	log      log.Logger

	jwtSecret []byte

	// noteBroadcastHook is invoked after a note mutation commits, instead
	// of a direct broadcast call. New sets it to a no-op and nothing
	// outside this package can replace it; it is called with an
	// EventResponse that has no field set, since there is no note event.
	noteBroadcastHook func(strategyID uuid.UUID, event *stratsyncpb.EventResponse)
}

// New builds a Service. jwtSecret authenticates bearer tokens on Event.
func New(store persistence.Store, reg *registry.Registry, actions *catalog.ActionCatalog, raids *catalog.RaidCatalog, bcrypt *bcryptpool.Pool, jwtSecret []byte, logger log.Logger) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:             store,
		registry:          reg,
		actions:           actions,
		raids:             raids,
		bcrypt:            bcrypt,
		jwtSecret:         jwtSecret,
		log:               logger,
		noteBroadcastHook: func(uuid.UUID, *stratsyncpb.EventResponse) {},
	}
}

// claims is the JWT payload shape this service authenticates against:
// audience "authenticated", subject the user id.
type claims struct {
	jwt.RegisteredClaims
}

// authenticate extracts and validates the bearer token carried on ctx's
// incoming metadata, if any. A missing header is not an error: it
// yields (nil, nil), since subscription to a public strategy requires
// no token at all.
func (s *Service) authenticate(ctx context.Context) (*uuid.UUID, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, nil
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, nil
	}

	tokenType, token, found := strings.Cut(values[0], " ")
	if !found {
		return nil, apperr.InvalidArgument("Invalid authorization header")
	}
	if tokenType != "Bearer" {
		return nil, apperr.InvalidArgument("Invalid token type")
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithAudience("authenticated"))
	if err != nil || !parsed.Valid {
		return nil, apperr.Unauthenticated("Invalid token")
	}

	c, ok := parsed.Claims.(*claims)
	if !ok {
		return nil, apperr.Unauthenticated("Invalid token")
	}
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, apperr.InvalidArgument("sub has an invalid format")
	}
	return &userID, nil
}

// peer resolves a request's token to its PeerContext.
func (s *Service) peer(token string) (*model.PeerContext, error) {
	peerToken, err := uuid.Parse(token)
	if err != nil {
		return nil, apperr.Unauthenticated("Token not found")
	}
	p, ok := s.registry.PeerContext(peerToken)
	if !ok {
		return nil, apperr.Unauthenticated("Token not found")
	}
	return p, nil
}

// elevatedPeer resolves token and additionally requires it to be
// elevated on its strategy.
func (s *Service) elevatedPeer(ctx context.Context, token string) (*model.PeerContext, error) {
	p, err := s.peer(token)
	if err != nil {
		return nil, err
	}
	snap, ok := s.registry.Snapshot(p.StrategyID)
	if !ok {
		return nil, apperr.Unauthenticated("Strategy not opened")
	}
	if _, elevated := snap.ElevatedPeers[p.Token]; !elevated {
		return nil, apperr.PermissionDenied("Not elevated")
	}
	return p, nil
}

func parseUUID(s, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperr.InvalidArgument(fmt.Sprintf("%s has an invalid format", field))
	}
	return id, nil
}
