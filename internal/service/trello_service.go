package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/maheshrc27/writer-dashboard/internal/models"
	"github.com/maheshrc27/writer-dashboard/internal/transfer"
)

type TrelloService interface {
	GetCard(ctx context.Context, creds *models.TrelloCredentials, cardID string) (*transfer.TrelloCard, error)
	GetBoardCustomFields(ctx context.Context, creds *models.TrelloCredentials, boardID string) ([]transfer.TrelloCustomField, error)
	SetCustomFieldItem(ctx context.Context, creds *models.TrelloCredentials, cardID, fieldID string, body interface{}) error
	AddComment(ctx context.Context, creds *models.TrelloCredentials, cardID, text string) error
}

type trelloService struct {
	client *resty.Client
}

func NewTrelloClient(baseURL string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}

func NewTrelloService(client *resty.Client) TrelloService {
	return &trelloService{client: client}
}

func (s *trelloService) request(ctx context.Context, creds *models.TrelloCredentials) *resty.Request {
	return s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":   creds.APIKey,
			"token": creds.Token,
		}).
		SetError(&transfer.TrelloErrorResponse{})
}

func (s *trelloService) GetCard(ctx context.Context, creds *models.TrelloCredentials, cardID string) (*transfer.TrelloCard, error) {
	var card transfer.TrelloCard
	resp, err := s.request(ctx, creds).
		SetResult(&card).
		Get("/1/cards/" + url.PathEscape(cardID))
	if err := checkTrelloResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch card %s: %w", cardID, err)
	}

	return &card, nil
}

func (s *trelloService) GetBoardCustomFields(ctx context.Context, creds *models.TrelloCredentials, boardID string) ([]transfer.TrelloCustomField, error) {
	var fields []transfer.TrelloCustomField
	resp, err := s.request(ctx, creds).
		SetResult(&fields).
		Get("/1/boards/" + url.PathEscape(boardID) + "/customFields")
	if err := checkTrelloResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch custom fields for board %s: %w", boardID, err)
	}

	return fields, nil
}

func (s *trelloService) SetCustomFieldItem(ctx context.Context, creds *models.TrelloCredentials, cardID, fieldID string, body interface{}) error {
	resp, err := s.request(ctx, creds).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Put("/1/cards/" + url.PathEscape(cardID) + "/customField/" + url.PathEscape(fieldID) + "/item")
	return checkTrelloResponse(resp, err)
}

func (s *trelloService) AddComment(ctx context.Context, creds *models.TrelloCredentials, cardID, text string) error {
	resp, err := s.request(ctx, creds).
		SetQueryParam("text", text).
		Post("/1/cards/" + url.PathEscape(cardID) + "/actions/comments")
	if err := checkTrelloResponse(resp, err); err != nil {
		return fmt.Errorf("failed to comment on card %s: %w", cardID, err)
	}
	return nil
}

func checkTrelloResponse(resp *resty.Response, err error) error {
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if !resp.IsError() {
		return nil
	}

	msg := resp.String()
	if e, ok := resp.Error().(*transfer.TrelloErrorResponse); ok && e.Message != "" {
		msg = e.Message
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return fmt.Errorf("trello returned %d: %s: %w", resp.StatusCode(), msg, ErrTrelloUnauthorized)
	}
	return fmt.Errorf("trello returned %d: %s", resp.StatusCode(), msg)
}
