package task

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Dispatcher hands a task to the background queue. Dispatching never waits
// for the task to run; the caller only knows the handoff succeeded.
type Dispatcher interface {
	Dispatch(ctx context.Context, taskType string, payload any) error
}

type asynqDispatcher struct {
	client *asynq.Client
}

func NewAsynqDispatcher(client *asynq.Client) *asynqDispatcher {
	return &asynqDispatcher{client: client}
}

func (d *asynqDispatcher) Dispatch(ctx context.Context, taskType string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = d.client.EnqueueContext(ctx, asynq.NewTask(taskType, b))
	return err
}
