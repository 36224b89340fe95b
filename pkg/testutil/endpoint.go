package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/pkg/api/rewardstack"
)

// MockRewardStackEndpoint counts provider calls and lets a test inject
// behavior per call. Unset funcs succeed with canned values.
type MockRewardStackEndpoint struct {
	mutex sync.Mutex

	ParticipantCalls int
	TransactionCalls int

	CreateParticipantFunc func(context.Context, string, rewardstack.CreateParticipantRequest) (rewardstack.Participant, error)
	CreateTransactionFunc func(context.Context, string, rewardstack.CreateTransactionRequest) (rewardstack.Transaction, error)
}

func (e *MockRewardStackEndpoint) CreateParticipant(
	ctx context.Context, programID string, req rewardstack.CreateParticipantRequest,
) (rewardstack.Participant, error) {
	e.mutex.Lock()
	e.ParticipantCalls++
	e.mutex.Unlock()

	if e.CreateParticipantFunc != nil {
		return e.CreateParticipantFunc(ctx, programID, req)
	}

	return rewardstack.Participant{ID: "participant-" + req.Email, Status: "active"}, nil
}

func (e *MockRewardStackEndpoint) CreateTransaction(
	ctx context.Context, programID string, req rewardstack.CreateTransactionRequest,
) (rewardstack.Transaction, error) {
	e.mutex.Lock()
	e.TransactionCalls++
	e.mutex.Unlock()

	if e.CreateTransactionFunc != nil {
		return e.CreateTransactionFunc(ctx, programID, req)
	}

	return rewardstack.Transaction{
		TransactionID: "txn-1",
		AdjustmentID:  "adj-1",
		Status:        "complete",
	}, nil
}

// InlineDispatcher records dispatched tasks. When Handler is set, every
// dispatch also runs it synchronously, which lets a test drive the
// background issuance without a queue.
type InlineDispatcher struct {
	Dispatched []any
	Handler    func(ctx context.Context, taskType string, payload any) error
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, taskType string, payload any) error {
	d.Dispatched = append(d.Dispatched, payload)
	if d.Handler != nil {
		return d.Handler(ctx, taskType, payload)
	}

	return nil
}

// FailDispatcher rejects every dispatch.
type FailDispatcher struct{}

func (d *FailDispatcher) Dispatch(ctx context.Context, taskType string, payload any) error {
	return errors.New("queue is down")
}

type MockEmailSender struct {
	Sent int
}

func (s *MockEmailSender) SendShippingConfirmation(
	ctx context.Context, user *entity.User, issuance *entity.RewardIssuance,
) error {
	s.Sent++
	return nil
}
