package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/maheshrc27/writer-dashboard/internal/models"
	"github.com/maheshrc27/writer-dashboard/internal/repository"
	"github.com/maheshrc27/writer-dashboard/internal/transfer"
)

// MaxAccountList caps the unfiltered account query.
const MaxAccountList = 1000

// NotificationEnqueuer schedules another attempt at updating a Trello card.
type NotificationEnqueuer interface {
	EnqueuePostingAccountNotification(cardID, account string) error
}

type PostingAccountService interface {
	Allocate(ctx context.Context, req *transfer.PostingAccountRequest) (*transfer.Allocation, error)
	List(ctx context.Context) ([]*models.PostingAccount, error)
	AuditLog(ctx context.Context, accountID int64, limit int) ([]*models.PostingAccountAudit, error)
	SetPostingAccount(ctx context.Context, cardID, account string) error
}

type postingAccountService struct {
	pa       repository.PostingAccountRepository
	au       repository.PostingAccountAuditRepository
	reset    CounterResetService
	creds    CredentialsService
	notifier PostingAccountNotifier
	enqueuer NotificationEnqueuer
	pick     func(n int) int
}

func NewPostingAccountService(
	pa repository.PostingAccountRepository,
	au repository.PostingAccountAuditRepository,
	reset CounterResetService,
	creds CredentialsService,
	notifier PostingAccountNotifier,
	enqueuer NotificationEnqueuer) PostingAccountService {
	return &postingAccountService{
		pa:       pa,
		au:       au,
		reset:    reset,
		creds:    creds,
		notifier: notifier,
		enqueuer: enqueuer,
		pick:     rand.IntN,
	}
}

func (s *postingAccountService) Allocate(ctx context.Context, req *transfer.PostingAccountRequest) (*transfer.Allocation, error) {
	cardID := strings.TrimSpace(req.TrelloCardID)
	if cardID == "" {
		return nil, fmt.Errorf("%w: trello_card_id", ErrMissingParameter)
	}

	s.reset.CheckAndResetCounters(ctx)

	if req.IgnoreDailyLimit {
		slog.Info("request is ignoring daily usage limits", "trello_card_id", cardID)
	}

	creds, err := s.creds.TrelloCredentials(ctx)
	if err != nil {
		slog.Error("error retrieving trello credentials", "error", err)
		return nil, err
	}

	accounts, err := s.eligibleAccounts(ctx, cardID, req.IgnoreDailyLimit)
	if err != nil {
		return nil, err
	}

	accountID, account, err := s.selectAccount(accounts)
	if err != nil {
		return nil, err
	}

	s.recordUsage(ctx, accountID, account, cardID, req.IgnoreDailyLimit)

	return &transfer.Allocation{
		AccountID:         accountID,
		Account:           account,
		IgnoredDailyLimit: req.IgnoreDailyLimit,
		Notified:          s.notify(ctx, creds, cardID, account),
	}, nil
}

// eligibleAccounts returns the candidate set. When the writer specific lookup
// fails the full list is used instead and daily limits are not re-checked.
func (s *postingAccountService) eligibleAccounts(ctx context.Context, cardID string, ignoreDailyLimit bool) ([]*models.EligibleAccount, error) {
	var accounts []*models.EligibleAccount
	var err error

	if ignoreDailyLimit {
		accounts, err = s.pa.ListAll(ctx, MaxAccountList)
		if err != nil {
			slog.Error("error retrieving accounts", "error", err)
			return nil, &AccountLookupError{Primary: err}
		}
	} else {
		accounts, err = s.pa.ListEligibleByTrelloCard(ctx, cardID)
		if err != nil {
			slog.Error("eligibility lookup failed, falling back to full account list",
				"trello_card_id", cardID, "error", err, "detail", repository.ErrorDetail(err))

			var fbErr error
			accounts, fbErr = s.pa.ListAll(ctx, MaxAccountList)
			if fbErr != nil {
				slog.Error("fallback account query failed", "error", fbErr)
				return nil, &AccountLookupError{Primary: err, Fallback: fbErr}
			}
			slog.Info("fallback account query succeeded", "count", len(accounts))
		}
	}

	if len(accounts) == 0 {
		return nil, ErrNoAccountsAvailable
	}

	slog.Info("found available accounts", "count", len(accounts), "ignore_daily_limit", ignoreDailyLimit)
	return accounts, nil
}

// selectAccount picks uniformly among the distinct account names. Names keep
// their first-seen order, and a repeated name maps to the last id it appeared with.
func (s *postingAccountService) selectAccount(accounts []*models.EligibleAccount) (int64, string, error) {
	idByName := make(map[string]int64, len(accounts))
	names := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if a == nil || a.Account == "" {
			continue
		}
		if _, seen := idByName[a.Account]; !seen {
			names = append(names, a.Account)
		}
		idByName[a.Account] = a.ID
	}

	if len(names) == 0 {
		slog.Error("no accounts available for selection after filtering")
		return 0, "", ErrNoAccountsAvailable
	}

	selected := names[s.pick(len(names))]
	id := idByName[selected]
	if id <= 0 {
		slog.Error("selected account has no valid id", "account", selected)
		return 0, "", fmt.Errorf("%w: %q", ErrSelectionInconsistency, selected)
	}

	return id, selected, nil
}

func (s *postingAccountService) notify(ctx context.Context, creds *models.TrelloCredentials, cardID, account string) bool {
	err := s.notifier.Update(ctx, creds, cardID, account)
	if err == nil {
		return true
	}

	slog.Error("error updating trello card", "trello_card_id", cardID, "account", account, "error", err)
	if s.enqueuer != nil {
		if qErr := s.enqueuer.EnqueuePostingAccountNotification(cardID, account); qErr != nil {
			slog.Error("error scheduling trello card update", "trello_card_id", cardID, "error", qErr)
		}
	}
	return false
}

func (s *postingAccountService) List(ctx context.Context) ([]*models.PostingAccount, error) {
	return s.pa.List(ctx)
}

func (s *postingAccountService) AuditLog(ctx context.Context, accountID int64, limit int) ([]*models.PostingAccountAudit, error) {
	if limit <= 0 || limit > MaxAccountList {
		limit = 100
	}

	account, err := s.pa.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %d", ErrAccountNotFound, accountID)
	}

	return s.au.ListByAccountID(ctx, accountID, limit)
}

func (s *postingAccountService) SetPostingAccount(ctx context.Context, cardID, account string) error {
	cardID = strings.TrimSpace(cardID)
	account = strings.TrimSpace(account)
	if cardID == "" || account == "" {
		return fmt.Errorf("%w: trello_card_id and posting_account_value", ErrMissingParameter)
	}

	creds, err := s.creds.TrelloCredentials(ctx)
	if err != nil {
		return err
	}

	return s.notifier.SetPostingAccountValue(ctx, creds, cardID, account)
}
