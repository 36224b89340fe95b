package rewardstack

import "context"

// IEndpoint is the surface of the RewardSTACK provider consumed by this
// service. Every program-scoped call is keyed by the workspace's program id.
type IEndpoint interface {
	// CreateParticipant creates or fetches the remote participant matching
	// the given profile inside a program.
	CreateParticipant(ctx context.Context, programID string, req CreateParticipantRequest) (Participant, error)

	// CreateTransaction issues a point/monetary adjustment or a SKU order
	// against a participant of a program.
	CreateTransaction(ctx context.Context, programID string, req CreateTransactionRequest) (Transaction, error)
}
