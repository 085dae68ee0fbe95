package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/writer-dashboard/internal/models"
)

type PostingAccountRepository interface {
	ListEligibleByTrelloCard(ctx context.Context, trelloCardID string) ([]*models.EligibleAccount, error)
	ListAll(ctx context.Context, limit int) ([]*models.EligibleAccount, error)
	List(ctx context.Context) ([]*models.PostingAccount, error)
	GetByID(ctx context.Context, id int64) (*models.PostingAccount, error)
	IncrementDailyUsed(ctx context.Context, id int64) (int, bool, error)
	ResetDailyUsed(ctx context.Context, tx *sql.Tx) error
}

type postingAccountRepository struct {
	db *sql.DB
}

func NewPostingAccountRepository(db *sql.DB) PostingAccountRepository {
	return &postingAccountRepository{db: db}
}

// ListEligibleByTrelloCard asks the database which accounts the card's writer may
// still use today. The stored function owns the limit and status rules.
func (r *postingAccountRepository) ListEligibleByTrelloCard(ctx context.Context, trelloCardID string) ([]*models.EligibleAccount, error) {
	query := `SELECT id, account FROM post_accts_by_trello_id_v4($1) ORDER BY id`
	return r.listEligible(ctx, query, trelloCardID)
}

func (r *postingAccountRepository) ListAll(ctx context.Context, limit int) ([]*models.EligibleAccount, error) {
	query := `SELECT id, account FROM post_acct_list ORDER BY id LIMIT $1`
	return r.listEligible(ctx, query, limit)
}

func (r *postingAccountRepository) listEligible(ctx context.Context, query string, args ...interface{}) ([]*models.EligibleAccount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.EligibleAccount
	for rows.Next() {
		var a models.EligibleAccount
		if err := rows.Scan(&a.ID, &a.Account); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, &a)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return accounts, nil
}

func (r *postingAccountRepository) List(ctx context.Context) ([]*models.PostingAccount, error) {
	query := `
		SELECT id, account, platform, status, writer_id, daily_limit, daily_used
		FROM posting_accounts
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.PostingAccount
	for rows.Next() {
		var pa models.PostingAccount
		err := rows.Scan(&pa.ID, &pa.Account, &pa.Platform, &pa.Status,
			&pa.WriterID, &pa.DailyLimit, &pa.DailyUsed)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, &pa)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return accounts, nil
}

func (r *postingAccountRepository) GetByID(ctx context.Context, id int64) (*models.PostingAccount, error) {
	query := `
		SELECT id, account, platform, status, writer_id, daily_limit, daily_used
		FROM posting_accounts
		WHERE id = $1
	`
	var pa models.PostingAccount
	err := r.db.QueryRowContext(ctx, query, id).Scan(&pa.ID, &pa.Account, &pa.Platform,
		&pa.Status, &pa.WriterID, &pa.DailyLimit, &pa.DailyUsed)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &pa, nil
}

// IncrementDailyUsed bumps the counter by one and returns the new value. The
// boolean is false when no row matched id.
func (r *postingAccountRepository) IncrementDailyUsed(ctx context.Context, id int64) (int, bool, error) {
	query := `
		UPDATE posting_accounts
		SET daily_used = daily_used + 1
		WHERE id = $1
		RETURNING daily_used
	`
	var dailyUsed int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&dailyUsed)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		slog.Info(err.Error())
		return 0, false, err
	}

	return dailyUsed, true, nil
}

func (r *postingAccountRepository) ResetDailyUsed(ctx context.Context, tx *sql.Tx) error {
	var err error

	query := `CALL reset_posting_daily_used()`
	if tx != nil {
		_, err = tx.ExecContext(ctx, query)
	} else {
		_, err = r.db.ExecContext(ctx, query)
	}

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
