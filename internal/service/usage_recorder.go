package service

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/writer-dashboard/internal/models"
	"github.com/maheshrc27/writer-dashboard/internal/repository"
	"github.com/maheshrc27/writer-dashboard/pkg/utils"
)

// AuditFieldMaxLen is the width of the audit table's name and card columns.
const AuditFieldMaxLen = 30

// recordUsage never fails the allocation: counter and audit errors are logged.
func (s *postingAccountService) recordUsage(ctx context.Context, accountID int64, account, cardID string, ignoreDailyLimit bool) {
	if ignoreDailyLimit {
		slog.Info("skipping daily usage update", "account", account, "ignore_daily_limit", true)
	} else {
		used, ok, err := s.pa.IncrementDailyUsed(ctx, accountID)
		switch {
		case err != nil:
			slog.Error("error updating usage counter", "account", account, "account_id", accountID, "error", err)
		case !ok:
			slog.Warn("no rows updated for account", "account", account, "account_id", accountID)
		default:
			slog.Info("updated daily_used", "account", account, "account_id", accountID, "daily_used", used)
		}
	}

	s.logAccountActivity(ctx, accountID, account, cardID)
}

func (s *postingAccountService) logAccountActivity(ctx context.Context, accountID int64, account, cardID string) bool {
	if accountID <= 0 || account == "" || cardID == "" {
		slog.Error("invalid parameters for account activity", "account_id", accountID, "account", account, "trello_card_id", cardID)
		return false
	}

	entry := &models.PostingAccountAudit{
		PostAcctID:   accountID,
		PostAcctName: utils.Truncate(account, AuditFieldMaxLen),
		TrelloCardID: utils.Truncate(cardID, AuditFieldMaxLen),
	}

	id, err := s.au.Create(ctx, entry)
	if err != nil {
		detail := repository.ErrorDetail(err)
		switch repository.ClassifyError(err) {
		case repository.ErrorKindDuplicate:
			slog.Error("duplicate entry when logging account activity", "detail", detail)
		case repository.ErrorKindForeignKey:
			slog.Error("foreign key constraint when logging account activity", "detail", detail)
		case repository.ErrorKindStringTooLong:
			slog.Error("data too long when logging account activity", "detail", detail)
		default:
			slog.Error("error logging account activity", "error", err)
		}
		return false
	}

	slog.Info("logged account activity", "id", id, "account", account, "account_id", accountID, "trello_card_id", cardID)
	return true
}
