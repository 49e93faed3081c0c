// Package stratsyncpb holds the wire messages and gRPC service contract
// for the strategy-sync service. These are written in the shape
// protoc-gen-go/protoc-gen-go-grpc would produce from a stratsync.proto,
// but carry plain Go fields and are marshaled by the package's own codec
// (see codec.go) rather than generated protobuf reflection, since this
// tree is built without ever invoking protoc.
package stratsyncpb

import "github.com/google/uuid"

// SubscriptionRequest is the payload for the Event RPC.
type SubscriptionRequest struct {
	StrategyID string
}

// EventResponse is one message on the Event stream. Exactly one of the
// Event fields is set, the way a oneof field would be.
type EventResponse struct {
	Initialization     *InitializationEvent
	UpsertDamageOption *UpsertDamageOptionEvent
	MutateEntries      *MutateEntriesEvent
	UpdatePlayerJob    *UpdatePlayerJobEvent
	UpsertEntry        *UpsertEntryEvent
	DeleteEntry        *DeleteEntryEvent
}

// InitializationEvent is the first message sent on every Event stream.
type InitializationEvent struct {
	Token         string
	Players       []Player
	DamageOptions []DamageOption
	Entries       []Entry
}

// UpsertDamageOptionEvent mirrors a committed UpsertDamageOption.
type UpsertDamageOptionEvent struct {
	DamageOption DamageOption
}

// MutateEntriesEvent mirrors a committed (or reconciled) MutateEntries
// batch.
type MutateEntriesEvent struct {
	Upserts []Entry
	Deletes []string
}

// UpdatePlayerJobEvent mirrors a committed UpdatePlayerJob.
type UpdatePlayerJobEvent struct {
	PlayerID string
	Job      *string
}

// UpsertEntryEvent mirrors a committed UpsertEntry, or carries the
// authoritative entry back to a caller whose upsert was rejected.
type UpsertEntryEvent struct {
	Entry Entry
}

// DeleteEntryEvent mirrors a committed DeleteEntry, or tells a caller
// whose rejected upsert had no prior entry to delete its optimistic copy.
type DeleteEntryEvent struct {
	ID string
}

// Player is the wire shape of model.Player.
type Player struct {
	ID    string
	Job   *string
	Order int32
}

// DamageOption is the wire shape of model.DamageOption.
type DamageOption struct {
	Damage        string
	NumShared     *int32
	PrimaryTarget *string
}

// Entry is the wire shape of model.Entry.
type Entry struct {
	ID       string
	Player   string
	Action   string
	UseAt    int32
}

// Note is the wire shape of model.Note.
type Note struct {
	ID      string
	Block   int32
	Offset  float32
	At      int32
	Content string
}

// ElevateRequest is the payload for the Elevate RPC.
type ElevateRequest struct {
	Token    string
	Password string
}

// ClearOtherSessionsRequest is the payload for the ClearOtherSessions RPC.
type ClearOtherSessionsRequest struct {
	Token string
}

// UpsertDamageOptionRequest is the payload for the UpsertDamageOption RPC.
type UpsertDamageOptionRequest struct {
	Token        string
	DamageOption DamageOption
}

// UpdatePlayerJobRequest is the payload for the UpdatePlayerJob RPC.
type UpdatePlayerJobRequest struct {
	Token string
	ID    string
	Job   *string
}

// MutateEntriesRequest is the payload for the MutateEntries RPC.
type MutateEntriesRequest struct {
	Token   string
	Upserts []Entry
	Deletes []string
}

// UpsertEntryRequest is the payload for the UpsertEntry RPC, a
// standalone single-entry mutator alongside the batched MutateEntries.
type UpsertEntryRequest struct {
	Token string
	Entry Entry
}

// DeleteEntryRequest is the payload for the DeleteEntry RPC, a
// standalone single-entry mutator alongside the batched MutateEntries.
type DeleteEntryRequest struct {
	Token string
	ID    string
}

// UpsertNoteRequest is the payload for the UpsertNote RPC.
type UpsertNoteRequest struct {
	Token string
	Note  Note
}

// DeleteNoteRequest is the payload for the DeleteNote RPC.
type DeleteNoteRequest struct {
	Token string
	ID    string
}

// Empty is the shared unary response for RPCs with no meaningful return
// value.
type Empty struct{}

// newUUIDString mints a fresh random identifier in its string form. It
// is unexported and nothing in the module calls it.
func newUUIDString() string {
	return uuid.New().String()
}
