// Package config loads process configuration from the environment,
// failing fast on any required variable that is unset rather than
// falling back to a guessed default.
package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// DefaultListenAddr is the address the gRPC server listens on when
	// LISTEN_ADDR is unset.
	DefaultListenAddr = "[::]:8080"

	// DefaultMaxPoolConns bounds the Postgres connection pool size.
	DefaultMaxPoolConns = int32(32)

	// StrategyCapacity and PeerCapacity bound the registry's TTL caches:
	// the number of distinct strategies and peers held live at once,
	// beyond which ristretto's frequency-based policy evicts entries.
	StrategyCapacity = 65536
	PeerCapacity     = 65536

	// StrategyTTI and PeerTTI are the idle-eviction windows for strategy
	// sessions and individual peer connections, respectively.
	StrategyTTI = 24 * time.Hour
	PeerTTI     = 12 * time.Hour

	// MaxCountdown is the earliest a timeline entry or note may be placed
	// relative to pull, in seconds.
	MaxCountdown = 1800

	// MaxNoteLength bounds note content length.
	MaxNoteLength = 128

	// PeerOutboundCapacity is the bound on each peer's outbound event
	// channel; a peer whose channel fills up is reaped rather than
	// allowed to backpressure the rest of the strategy's peers.
	PeerOutboundCapacity = 32
)

// Config holds the environment-derived settings for the server process.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	ListenAddr  string
	MaxPoolConns int32
}

// FromEnv reads Config from the process environment, returning an error for
// any required variable that is unset rather than panicking, so callers
// (tests, alternate entrypoints) can handle the failure themselves.
func FromEnv() (Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set on the environment")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set on the environment")
	}
	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = DefaultListenAddr
	}
	return Config{
		DatabaseURL:  databaseURL,
		JWTSecret:    jwtSecret,
		ListenAddr:   listenAddr,
		MaxPoolConns: DefaultMaxPoolConns,
	}, nil
}
