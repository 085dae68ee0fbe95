package transfer

type PostingAccountRequest struct {
	TrelloCardID     string `json:"trello_card_id" validate:"required"`
	IgnoreDailyLimit bool   `json:"ignore_daily_limit"`
}

type PostingAccountResponse struct {
	Success           bool   `json:"success"`
	Account           string `json:"account"`
	IgnoredDailyLimit bool   `json:"ignored_daily_limit"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Allocation is the outcome of choosing an account for a card.
type Allocation struct {
	AccountID         int64
	Account           string
	IgnoredDailyLimit bool
	Notified          bool
}

type SetPostingAccountRequest struct {
	TrelloCardID        string `json:"trello_card_id" validate:"required"`
	PostingAccountValue string `json:"posting_account_value" validate:"required"`
}

type CounterReset struct {
	Date  string `json:"date"`
	Reset bool   `json:"reset"`
}
