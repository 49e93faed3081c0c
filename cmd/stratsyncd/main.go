// Command stratsyncd runs the strategy-sync gRPC server: it loads
// configuration from the environment, opens the persistence pool,
// preloads the action catalog, and serves the StratSync service until
// an interrupt signal asks it to drain.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"github.com/carrotnibbles/stratsync/internal/bcryptpool"
	"github.com/carrotnibbles/stratsync/internal/catalog"
	"github.com/carrotnibbles/stratsync/internal/config"
	"github.com/carrotnibbles/stratsync/internal/log"
	"github.com/carrotnibbles/stratsync/internal/persistence"
	"github.com/carrotnibbles/stratsync/internal/registry"
	"github.com/carrotnibbles/stratsync/internal/service"
	"github.com/carrotnibbles/stratsync/internal/stratsyncpb"
)

const bcryptWorkers = 4

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stdout)

	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("stratsyncd: %w", err)
	}

	store, err := persistence.NewPostgres(ctx, cfg.DatabaseURL, cfg.MaxPoolConns)
	if err != nil {
		return fmt.Errorf("stratsyncd: %w", err)
	}
	defer store.Close()

	actions, err := catalog.LoadActionCatalog(ctx, store)
	if err != nil {
		return fmt.Errorf("stratsyncd: %w", err)
	}
	raids, err := catalog.NewRaidCatalog(store, config.StrategyCapacity)
	if err != nil {
		return fmt.Errorf("stratsyncd: %w", err)
	}

	reg, err := registry.New(store, logger)
	if err != nil {
		return fmt.Errorf("stratsyncd: %w", err)
	}

	bcrypt := bcryptpool.New(bcryptWorkers)
	defer bcrypt.Close()

	svc := service.New(store, reg, actions, raids, bcrypt, []byte(cfg.JWTSecret), logger)

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("stratsyncd: listen: %w", err)
	}

	srv := grpc.NewServer(grpc.ForceServerCodec(stratsyncpb.Codec))
	stratsyncpb.RegisterStratSyncServer(srv, svc)

	errCh := make(chan error, 1)
	go func() {
		logger.Log(log.LevelInfo, "serving", "addr", cfg.ListenAddr)
		errCh <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		logger.Log(log.LevelInfo, "shutting down")
		srv.GracefulStop()
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("stratsyncd: serve: %w", err)
		}
		return nil
	}
}
