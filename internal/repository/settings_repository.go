package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/writer-dashboard/internal/models"
)

type SettingsRepository interface {
	GetTrelloCredentials(ctx context.Context) (*models.TrelloCredentials, bool, error)
}

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetTrelloCredentials(ctx context.Context) (*models.TrelloCredentials, bool, error) {
	query := `SELECT api_key, token FROM settings ORDER BY id DESC LIMIT 1`

	var creds models.TrelloCredentials
	var apiKey, token sql.NullString
	err := r.db.QueryRowContext(ctx, query).Scan(&apiKey, &token)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	creds.APIKey = apiKey.String
	creds.Token = token.String
	return &creds, true, nil
}
