package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/writer-dashboard/internal/cache"
	"github.com/maheshrc27/writer-dashboard/internal/models"
	"github.com/maheshrc27/writer-dashboard/internal/transfer"
)

const (
	PostingAccountFieldName = "Posting Account"
	customFieldTypeList     = "list"
)

// customFieldBody builds one candidate request body for setting a dropdown
// custom field. Trello has accepted different shapes over time.
type customFieldBody struct {
	name  string
	build func(optionID, text string) interface{}
}

var customFieldBodies = []customFieldBody{
	{
		name: "value.idValue",
		build: func(optionID, _ string) interface{} {
			return map[string]interface{}{"value": map[string]string{"idValue": optionID}}
		},
	},
	{
		name: "idValue",
		build: func(optionID, _ string) interface{} {
			return map[string]string{"idValue": optionID}
		},
	},
	{
		name: "value.text",
		build: func(_, text string) interface{} {
			return map[string]interface{}{"value": map[string]string{"text": text}}
		},
	},
}

type PostingAccountNotifier interface {
	SetPostingAccountValue(ctx context.Context, creds *models.TrelloCredentials, cardID, account string) error
	AddPostingAccountComment(ctx context.Context, creds *models.TrelloCredentials, cardID, account string) error
	// Update sets the field and posts the comment. When Trello rejects creds
	// the cached credentials are dropped and the update is tried once more.
	Update(ctx context.Context, creds *models.TrelloCredentials, cardID, account string) error
	// Notify loads credentials and performs Update.
	Notify(ctx context.Context, cardID, account string) error
}

type postingAccountNotifier struct {
	trello TrelloService
	creds  CredentialsService
	cache  cache.Cache
	ttl    time.Duration
}

func NewPostingAccountNotifier(trello TrelloService, creds CredentialsService, c cache.Cache, ttl time.Duration) PostingAccountNotifier {
	return &postingAccountNotifier{
		trello: trello,
		creds:  creds,
		cache:  c,
		ttl:    ttl,
	}
}

func PostingAccountComment(account string) string {
	return fmt.Sprintf("Recommended Posting Account: **%s**", account)
}

func (n *postingAccountNotifier) Notify(ctx context.Context, cardID, account string) error {
	creds, err := n.creds.TrelloCredentials(ctx)
	if err != nil {
		return err
	}

	return n.Update(ctx, creds, cardID, account)
}

func (n *postingAccountNotifier) Update(ctx context.Context, creds *models.TrelloCredentials, cardID, account string) error {
	err := n.update(ctx, creds, cardID, account)
	if !errors.Is(err, ErrTrelloUnauthorized) {
		return err
	}

	slog.Warn("trello rejected credentials, reloading", "trello_card_id", cardID, "error", err)
	if err := n.creds.Invalidate(ctx); err != nil {
		slog.Warn("credentials cache invalidation failed", "error", err)
	}
	creds, err = n.creds.TrelloCredentials(ctx)
	if err != nil {
		return err
	}
	return n.update(ctx, creds, cardID, account)
}

func (n *postingAccountNotifier) update(ctx context.Context, creds *models.TrelloCredentials, cardID, account string) error {
	if err := n.SetPostingAccountValue(ctx, creds, cardID, account); err != nil {
		return err
	}
	return n.AddPostingAccountComment(ctx, creds, cardID, account)
}

func (n *postingAccountNotifier) AddPostingAccountComment(ctx context.Context, creds *models.TrelloCredentials, cardID, account string) error {
	return n.trello.AddComment(ctx, creds, cardID, PostingAccountComment(account))
}

func (n *postingAccountNotifier) SetPostingAccountValue(ctx context.Context, creds *models.TrelloCredentials, cardID, account string) error {
	if account == "" {
		return errors.New("account name is empty")
	}

	card, err := n.trello.GetCard(ctx, creds, cardID)
	if err != nil {
		return err
	}

	fields, cached, err := n.boardCustomFields(ctx, creds, card.IDBoard, false)
	if err != nil {
		return err
	}

	field, option, err := findPostingAccountOption(fields, account)
	if err != nil && cached {
		// The board may have changed since it was cached.
		slog.Info("posting account option missing from cached fields, refetching",
			"board_id", card.IDBoard, "account", account, "error", err)
		fields, _, err = n.boardCustomFields(ctx, creds, card.IDBoard, true)
		if err != nil {
			return err
		}
		field, option, err = findPostingAccountOption(fields, account)
	}
	if err != nil {
		return err
	}

	var lastErr error
	for _, body := range customFieldBodies {
		err := n.trello.SetCustomFieldItem(ctx, creds, cardID, field.ID, body.build(option.ID, account))
		if err == nil {
			slog.Info("set posting account custom field",
				"trello_card_id", cardID, "account", account, "option_id", option.ID, "body", body.name)
			return nil
		}
		slog.Warn("custom field body rejected", "body", body.name, "error", err)
		lastErr = err
	}

	return fmt.Errorf("failed to set dropdown value, tried %d formats: %w", len(customFieldBodies), lastErr)
}

// boardCustomFields reports whether the fields came from the cache. With
// refresh set the cached entry is dropped and Trello is always asked.
func (n *postingAccountNotifier) boardCustomFields(ctx context.Context, creds *models.TrelloCredentials, boardID string, refresh bool) ([]transfer.TrelloCustomField, bool, error) {
	key := "trello:board:" + boardID + ":customFields"

	var fields []transfer.TrelloCustomField
	if refresh {
		if err := n.cache.Delete(ctx, key); err != nil {
			slog.Warn("custom field cache delete failed", "board_id", boardID, "error", err)
		}
	} else {
		ok, err := n.cache.Get(ctx, key, &fields)
		if err != nil {
			slog.Warn("custom field cache read failed", "board_id", boardID, "error", err)
		}
		if ok {
			return fields, true, nil
		}
	}

	fields, err := n.trello.GetBoardCustomFields(ctx, creds, boardID)
	if err != nil {
		return nil, false, err
	}

	if err := n.cache.Set(ctx, key, fields, n.ttl); err != nil {
		slog.Warn("custom field cache write failed", "board_id", boardID, "error", err)
	}
	return fields, false, nil
}

func findPostingAccountOption(fields []transfer.TrelloCustomField, account string) (*transfer.TrelloCustomField, *transfer.TrelloCustomFieldOption, error) {
	field, err := findPostingAccountField(fields)
	if err != nil {
		return nil, nil, err
	}
	option, err := findFieldOption(field, account)
	if err != nil {
		return nil, nil, err
	}
	return field, option, nil
}

func findPostingAccountField(fields []transfer.TrelloCustomField) (*transfer.TrelloCustomField, error) {
	names := make([]string, 0, len(fields))
	for i := range fields {
		if fields[i].Name == PostingAccountFieldName {
			if fields[i].Type != customFieldTypeList {
				return nil, fmt.Errorf("posting account field is not a dropdown, type: %s", fields[i].Type)
			}
			return &fields[i], nil
		}
		names = append(names, fields[i].Name)
	}
	return nil, fmt.Errorf("custom field %q not found on the board, available fields: %s",
		PostingAccountFieldName, strings.Join(names, ", "))
}

func findFieldOption(field *transfer.TrelloCustomField, account string) (*transfer.TrelloCustomFieldOption, error) {
	texts := make([]string, 0, len(field.Options))
	for i := range field.Options {
		if strings.EqualFold(field.Options[i].Value.Text, account) {
			return &field.Options[i], nil
		}
		texts = append(texts, field.Options[i].Value.Text)
	}
	return nil, fmt.Errorf("option %q not found in dropdown, available options: %s",
		account, strings.Join(texts, ", "))
}
