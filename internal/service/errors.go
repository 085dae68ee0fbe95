package service

import "errors"

var (
	ErrMissingParameter       = errors.New("missing required parameter")
	ErrCredentialsUnavailable = errors.New("trello credentials unavailable")
	ErrNoAccountsAvailable    = errors.New("no posting accounts available")
	ErrSelectionInconsistency = errors.New("selected account has no id")
	ErrAccountLookup          = errors.New("failed to retrieve accounts")
	ErrAccountNotFound        = errors.New("posting account not found")
	ErrTrelloUnauthorized     = errors.New("trello rejected the credentials")
)

// AccountLookupError is returned when neither the eligibility lookup nor the
// full account list could be read.
type AccountLookupError struct {
	Primary  error
	Fallback error
}

func (e *AccountLookupError) Error() string {
	if e.Fallback != nil {
		return "failed to retrieve accounts: " + e.Primary.Error() + "; fallback: " + e.Fallback.Error()
	}
	return "failed to retrieve accounts: " + e.Primary.Error()
}

func (e *AccountLookupError) Unwrap() error { return e.Primary }

func (e *AccountLookupError) Is(target error) bool { return target == ErrAccountLookup }
