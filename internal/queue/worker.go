package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// HandleNotifyPostingAccountTask retries the Trello card update.
// Malformed payloads are not retried.
func (j *Queue) HandleNotifyPostingAccountTask(ctx context.Context, task *asynq.Task) error {
	var payload NotifyPostingAccountPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.TrelloCardID == "" || payload.Account == "" {
		return fmt.Errorf("empty notification payload: %w", asynq.SkipRetry)
	}

	if err := j.notifier.Notify(ctx, payload.TrelloCardID, payload.Account); err != nil {
		slog.Error("retrying trello card update failed",
			"trello_card_id", payload.TrelloCardID, "account", payload.Account, "error", err)
		return err
	}

	slog.Info("trello card updated", "trello_card_id", payload.TrelloCardID, "account", payload.Account)
	return nil
}
