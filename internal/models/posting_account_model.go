package models

import "time"

const (
	AccountStatusActive    = "Active"
	AccountStatusInactive  = "Inactive"
	AccountStatusReserved  = "Reserved"
	AccountStatusExclusive = "Exclusive"
)

type PostingAccount struct {
	ID         int64  `db:"id" json:"id"`
	Account    string `db:"account" json:"account"`
	Platform   string `db:"platform" json:"platform"`
	Status     string `db:"status" json:"status"`
	WriterID   *int64 `db:"writer_id" json:"writer_id"` // set only for Exclusive accounts
	DailyLimit int    `db:"daily_limit" json:"daily_limit"`
	DailyUsed  int    `db:"daily_used" json:"daily_used"`
}

// EligibleAccount is one row of an eligibility lookup: only the id and display name.
type EligibleAccount struct {
	ID      int64  `db:"id" json:"id"`
	Account string `db:"account" json:"account"`
}

type PostingAccountAudit struct {
	ID           int64     `db:"id" json:"id"`
	PostAcctID   int64     `db:"post_acct_id" json:"post_acct_id"`
	PostAcctName string    `db:"post_acct_name" json:"post_acct_name"`
	TrelloCardID string    `db:"trello_card_id" json:"trello_card_id"`
	Timestamp    time.Time `db:"timestamp" json:"timestamp"`
}
