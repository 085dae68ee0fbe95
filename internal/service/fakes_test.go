package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"

	"github.com/maheshrc27/writer-dashboard/internal/models"
	"github.com/maheshrc27/writer-dashboard/internal/transfer"
)

type fakeTransactor struct {
	committed  int
	rolledBack int
}

func (f *fakeTransactor) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := fn(nil); err != nil {
		f.rolledBack++
		return err
	}
	f.committed++
	return nil
}

// fakePostingAccountRepo keeps accounts in memory. Its eligibility lookup
// mirrors the stored function: Active accounts still under their limit.
type fakePostingAccountRepo struct {
	mu          sync.Mutex
	accounts    map[int64]*models.PostingAccount
	eligibleErr error
	listAllErr  error
	incErr      error
	resetErr    error
	resetCalls  int
}

func newFakePostingAccountRepo(accounts ...*models.PostingAccount) *fakePostingAccountRepo {
	r := &fakePostingAccountRepo{accounts: map[int64]*models.PostingAccount{}}
	for _, a := range accounts {
		r.accounts[a.ID] = a
	}
	return r
}

func (r *fakePostingAccountRepo) sorted() []*models.PostingAccount {
	out := make([]*models.PostingAccount, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakePostingAccountRepo) ListEligibleByTrelloCard(ctx context.Context, trelloCardID string) ([]*models.EligibleAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.eligibleErr != nil {
		return nil, r.eligibleErr
	}
	var out []*models.EligibleAccount
	for _, a := range r.sorted() {
		if a.Status == models.AccountStatusActive && a.DailyUsed < a.DailyLimit {
			out = append(out, &models.EligibleAccount{ID: a.ID, Account: a.Account})
		}
	}
	return out, nil
}

func (r *fakePostingAccountRepo) ListAll(ctx context.Context, limit int) ([]*models.EligibleAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listAllErr != nil {
		return nil, r.listAllErr
	}
	var out []*models.EligibleAccount
	for _, a := range r.sorted() {
		if len(out) == limit {
			break
		}
		out = append(out, &models.EligibleAccount{ID: a.ID, Account: a.Account})
	}
	return out, nil
}

func (r *fakePostingAccountRepo) List(ctx context.Context) ([]*models.PostingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

func (r *fakePostingAccountRepo) GetByID(ctx context.Context, id int64) (*models.PostingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[id], nil
}

func (r *fakePostingAccountRepo) IncrementDailyUsed(ctx context.Context, id int64) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.incErr != nil {
		return 0, false, r.incErr
	}
	a, ok := r.accounts[id]
	if !ok {
		return 0, false, nil
	}
	a.DailyUsed++
	return a.DailyUsed, true, nil
}

func (r *fakePostingAccountRepo) ResetDailyUsed(ctx context.Context, tx *sql.Tx) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resetErr != nil {
		return r.resetErr
	}
	r.resetCalls++
	for _, a := range r.accounts {
		a.DailyUsed = 0
	}
	return nil
}

func (r *fakePostingAccountRepo) dailyUsed(id int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[id].DailyUsed
}

type fakeAppSettingsRepo struct {
	values map[string]string
	getErr error
}

func (r *fakeAppSettingsRepo) GetByKey(ctx context.Context, tx *sql.Tx, key string) (*models.AppSetting, bool, error) {
	if r.getErr != nil {
		return nil, false, r.getErr
	}
	v, ok := r.values[key]
	if !ok {
		return nil, false, nil
	}
	return &models.AppSetting{Key: key, Value: v}, true, nil
}

func (r *fakeAppSettingsRepo) AdvanceValue(ctx context.Context, tx *sql.Tx, key, value string) (bool, error) {
	if r.values == nil {
		r.values = map[string]string{}
	}
	if cur, ok := r.values[key]; ok && cur >= value {
		return false, nil
	}
	r.values[key] = value
	return true, nil
}

type fakeAuditRepo struct {
	mu        sync.Mutex
	entries   []*models.PostingAccountAudit
	createErr error
}

func (r *fakeAuditRepo) Create(ctx context.Context, entry *models.PostingAccountAudit) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return 0, r.createErr
	}
	entry.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, entry)
	return entry.ID, nil
}

func (r *fakeAuditRepo) ListByAccountID(ctx context.Context, postAcctID int64, limit int) ([]*models.PostingAccountAudit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PostingAccountAudit
	for _, e := range r.entries {
		if e.PostAcctID == postAcctID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeCredentials switches to next once invalidated, like a rotated token
// showing up after the cache entry is dropped.
type fakeCredentials struct {
	creds       *models.TrelloCredentials
	next        *models.TrelloCredentials
	err         error
	invalidated int
}

func (f *fakeCredentials) TrelloCredentials(ctx context.Context) (*models.TrelloCredentials, error) {
	return f.creds, f.err
}

func (f *fakeCredentials) Invalidate(ctx context.Context) error {
	f.invalidated++
	if f.next != nil {
		f.creds = f.next
	}
	return nil
}

type fakeNotifier struct {
	setErr     error
	commentErr error
	set        []string
	comments   []string
}

func (f *fakeNotifier) SetPostingAccountValue(ctx context.Context, creds *models.TrelloCredentials, cardID, account string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.set = append(f.set, cardID+"="+account)
	return nil
}

func (f *fakeNotifier) AddPostingAccountComment(ctx context.Context, creds *models.TrelloCredentials, cardID, account string) error {
	if f.commentErr != nil {
		return f.commentErr
	}
	f.comments = append(f.comments, cardID+"="+account)
	return nil
}

func (f *fakeNotifier) Update(ctx context.Context, creds *models.TrelloCredentials, cardID, account string) error {
	if err := f.SetPostingAccountValue(ctx, creds, cardID, account); err != nil {
		return err
	}
	return f.AddPostingAccountComment(ctx, creds, cardID, account)
}

func (f *fakeNotifier) Notify(ctx context.Context, cardID, account string) error {
	return errors.New("not used")
}

type fakeEnqueuer struct {
	tasks []string
	err   error
}

func (f *fakeEnqueuer) EnqueuePostingAccountNotification(cardID, account string) error {
	if f.err != nil {
		return f.err
	}
	f.tasks = append(f.tasks, cardID+"="+account)
	return nil
}

type fakeReset struct {
	calls int
	run   func()
}

func (f *fakeReset) CheckAndResetCounters(ctx context.Context) {
	f.calls++
	if f.run != nil {
		f.run()
	}
}

func (f *fakeReset) ResetIfStale(ctx context.Context) (*transfer.CounterReset, error) {
	f.calls++
	return &transfer.CounterReset{}, nil
}

func (f *fakeReset) CurrentDate() string { return "2026-10-14" }
