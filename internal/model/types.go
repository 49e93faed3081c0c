// Package model holds the domain types shared across the registry,
// collab, persistence and service packages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Job identifies a job tag as worn by a player slot.
type Job string

const (
	JobPLD Job = "PLD"
	JobWAR Job = "WAR"
	JobDRK Job = "DRK"
	JobGNB Job = "GNB"
	JobWHM Job = "WHM"
	JobAST Job = "AST"
	JobSCH Job = "SCH"
	JobSGE Job = "SGE"
	JobMNK Job = "MNK"
	JobDRG Job = "DRG"
	JobNIN Job = "NIN"
	JobSAM Job = "SAM"
	JobRPR Job = "RPR"
	JobVPR Job = "VPR"
	JobBRD Job = "BRD"
	JobMCH Job = "MCH"
	JobDNC Job = "DNC"
	JobBLM Job = "BLM"
	JobRDM Job = "RDM"
	JobSMN Job = "SMN"
	JobPCT Job = "PCT"
	JobBLU Job = "BLU"
	JobLB  Job = "LB"
)

// Jobs enumerates every recognized job tag, for validating that a
// player's job, if set, is one the server knows about.
var Jobs = map[Job]struct{}{
	JobPLD: {}, JobWAR: {}, JobDRK: {}, JobGNB: {},
	JobWHM: {}, JobAST: {}, JobSCH: {}, JobSGE: {},
	JobMNK: {}, JobDRG: {}, JobNIN: {}, JobSAM: {}, JobRPR: {}, JobVPR: {},
	JobBRD: {}, JobMCH: {}, JobDNC: {},
	JobBLM: {}, JobRDM: {}, JobSMN: {}, JobPCT: {}, JobBLU: {},
	JobLB: {},
}

// Valid reports whether j is one of the recognized job tags.
func (j Job) Valid() bool {
	_, ok := Jobs[j]
	return ok
}

// Player is one headcount slot in a strategy's raid composition.
type Player struct {
	ID    uuid.UUID
	Job   *Job
	Order int32
}

// DamageOption is a strategy's chosen share/target assignment against
// one raid-wide damage instance.
type DamageOption struct {
	Damage        uuid.UUID
	NumShared     *int32
	PrimaryTarget *uuid.UUID
}

// Entry is one timeline placement of a player's action.
type Entry struct {
	ID       uuid.UUID
	PlayerID uuid.UUID
	ActionID uuid.UUID
	UseAt    int32
}

// Note is a freeform annotation pinned to a timeline block.
type Note struct {
	ID      uuid.UUID
	Block   int32
	Offset  float32
	At      int32
	Content string
}

// ActionInfo is catalog metadata for one action: its cooldown length and
// charge count, used by the feasibility sweep.
type ActionInfo struct {
	ID       uuid.UUID
	Cooldown int32
	Charges  int32
}

// Damage is catalog metadata for one raid-wide damage instance: how many
// players may share it and how many distinct targets it supports.
type Damage struct {
	ID         uuid.UUID
	MaxShared  int32
	NumTargets int32
}

// RaidInfo is the catalog snapshot for a single raid: its duration,
// expected headcount, and the damage instances it defines.
type RaidInfo struct {
	Duration  int32
	Headcount int32
	Damages   []Damage
}

// Strategy is the persisted, author-owned document a session wraps.
type Strategy struct {
	ID             uuid.UUID
	RaidID         uuid.UUID
	AuthorID       *uuid.UUID
	Public         bool
	PasswordHash   *string
	Players        []Player
	DamageOptions  []DamageOption
	Entries        []Entry
	Notes          []Note
}

// PeerContext is the per-connection state held by the registry for one
// subscribed client of a strategy session.
type PeerContext struct {
	Token      uuid.UUID
	StrategyID uuid.UUID
	UserID     *uuid.UUID
	Elevated   bool
	LastSeen   time.Time
}

// SessionContext is the in-memory, copy-on-write snapshot the registry
// keeps for a strategy while its entry is held in the session cache.
type SessionContext struct {
	StrategyID     uuid.UUID
	RaidID         uuid.UUID
	AuthorID       *uuid.UUID
	Public         bool
	PasswordHash   *string
	Players        []Player
	DamageOptions  []DamageOption
	Entries        []Entry
	Notes          []Note
	Peers          map[uuid.UUID]struct{}
	ElevatedPeers  map[uuid.UUID]struct{}
}

// Clone returns a deep-enough copy of s for copy-on-write mutation: the
// slice and map headers are independent, but shared immutable fields
// (AuthorID, PasswordHash) are aliased since they are never mutated in
// place.
func (s *SessionContext) Clone() *SessionContext {
	cp := *s
	cp.Players = append([]Player(nil), s.Players...)
	cp.DamageOptions = append([]DamageOption(nil), s.DamageOptions...)
	cp.Entries = append([]Entry(nil), s.Entries...)
	cp.Notes = append([]Note(nil), s.Notes...)
	cp.Peers = make(map[uuid.UUID]struct{}, len(s.Peers))
	for k, v := range s.Peers {
		cp.Peers[k] = v
	}
	cp.ElevatedPeers = make(map[uuid.UUID]struct{}, len(s.ElevatedPeers))
	for k, v := range s.ElevatedPeers {
		cp.ElevatedPeers[k] = v
	}
	return &cp
}
