package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/writer-dashboard/internal/models"
)

type AppSettingsRepository interface {
	GetByKey(ctx context.Context, tx *sql.Tx, key string) (*models.AppSetting, bool, error)
	AdvanceValue(ctx context.Context, tx *sql.Tx, key, value string) (bool, error)
}

type appSettingsRepository struct {
	db *sql.DB
}

func NewAppSettingsRepository(db *sql.DB) AppSettingsRepository {
	return &appSettingsRepository{db: db}
}

func (r *appSettingsRepository) GetByKey(ctx context.Context, tx *sql.Tx, key string) (*models.AppSetting, bool, error) {
	query := `SELECT key, value, updated_at FROM app_settings WHERE key = $1`

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query, key)
	} else {
		row = r.db.QueryRowContext(ctx, query, key)
	}

	var s models.AppSetting
	if err := row.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &s, true, nil
}

// AdvanceValue inserts key or replaces its value, but only with a value that
// sorts after the stored one. It reports whether a row was written.
func (r *appSettingsRepository) AdvanceValue(ctx context.Context, tx *sql.Tx, key, value string) (bool, error) {
	query := `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key)
		DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = CURRENT_TIMESTAMP
		WHERE app_settings.value < EXCLUDED.value
	`

	var result sql.Result
	var err error
	if tx != nil {
		result, err = tx.ExecContext(ctx, query, key, value)
	} else {
		result, err = r.db.ExecContext(ctx, query, key, value)
	}
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected > 0, nil
}
