package queue

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NotifyRetryDelay is how long a failed card update waits before the worker
// picks it up.
const NotifyRetryDelay = 30 * time.Second

// TaskClient is satisfied by *asynq.Client.
type TaskClient interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Enqueuer struct {
	client   TaskClient
	maxRetry int
	delay    time.Duration
}

func NewEnqueuer(client TaskClient, maxRetry int) *Enqueuer {
	return &Enqueuer{
		client:   client,
		maxRetry: maxRetry,
		delay:    NotifyRetryDelay,
	}
}

func (e *Enqueuer) EnqueuePostingAccountNotification(cardID, account string) error {
	return EnqueueNotification(e.client, NotifyPostingAccountPayload{
		TrelloCardID: cardID,
		Account:      account,
	}, e.delay, e.maxRetry)
}

func EnqueueNotification(client TaskClient, payload NotifyPostingAccountPayload, delay time.Duration, maxRetry int) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	id, err := gonanoid.New()
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeNotifyPostingAccount, taskPayload)

	_, err = client.Enqueue(task,
		asynq.TaskID(id),
		asynq.ProcessIn(delay),
		asynq.MaxRetry(maxRetry),
	)
	if err != nil {
		return err
	}

	slog.Info("task scheduled", "type", TaskTypeNotifyPostingAccount, "task_id", id,
		"trello_card_id", payload.TrelloCardID, "account", payload.Account)
	return nil
}
