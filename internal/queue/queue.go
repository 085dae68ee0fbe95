package queue

import (
	"context"
)

// Notifier is the part of the posting account notifier the worker needs.
type Notifier interface {
	Notify(ctx context.Context, cardID, account string) error
}

type Queue struct {
	notifier Notifier
}

func NewQueue(notifier Notifier) *Queue {
	return &Queue{
		notifier: notifier,
	}
}

const TaskTypeNotifyPostingAccount = "notify:posting_account"

type NotifyPostingAccountPayload struct {
	TrelloCardID string `json:"trello_card_id"`
	Account      string `json:"account"`
}
