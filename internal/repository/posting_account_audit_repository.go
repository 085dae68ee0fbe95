package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/writer-dashboard/internal/models"
)

type PostingAccountAuditRepository interface {
	Create(ctx context.Context, entry *models.PostingAccountAudit) (int64, error)
	ListByAccountID(ctx context.Context, postAcctID int64, limit int) ([]*models.PostingAccountAudit, error)
}

type postingAccountAuditRepository struct {
	db *sql.DB
}

func NewPostingAccountAuditRepository(db *sql.DB) PostingAccountAuditRepository {
	return &postingAccountAuditRepository{db: db}
}

func (r *postingAccountAuditRepository) Create(ctx context.Context, entry *models.PostingAccountAudit) (int64, error) {
	query := `
		INSERT INTO posting_account_audit (post_acct_id, post_acct_name, trello_card_id, timestamp)
		VALUES ($1, $2, $3, NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, entry.PostAcctID, entry.PostAcctName, entry.TrelloCardID).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postingAccountAuditRepository) ListByAccountID(ctx context.Context, postAcctID int64, limit int) ([]*models.PostingAccountAudit, error) {
	query := `
		SELECT id, post_acct_id, post_acct_name, trello_card_id, timestamp
		FROM posting_account_audit
		WHERE post_acct_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, postAcctID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var entries []*models.PostingAccountAudit
	for rows.Next() {
		var e models.PostingAccountAudit
		if err := rows.Scan(&e.ID, &e.PostAcctID, &e.PostAcctName, &e.TrelloCardID, &e.Timestamp); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return entries, nil
}
