package models

import "time"

const LastCounterResetKey = "last_counter_reset_date"

type AppSetting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TrelloCredentials is the newest row of the settings table.
type TrelloCredentials struct {
	APIKey string `db:"api_key" json:"api_key"`
	Token  string `db:"token" json:"token"`
}
