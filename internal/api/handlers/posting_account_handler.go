package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/writer-dashboard/internal/service"
	"github.com/maheshrc27/writer-dashboard/internal/transfer"
)

const (
	msgCardIDRequired      = "Trello card ID is required."
	msgNoAccounts          = "No accounts available. Please check account status and usage limits."
	msgCredentials         = "Failed to retrieve Trello credentials."
	msgAccountLookup       = "Failed to retrieve accounts from database."
	msgInvalidSelection    = "Internal error: Invalid account selection."
	msgUnexpected          = "An unexpected error occurred while processing your request."
	msgSetAccountRequired  = "trello_card_id and posting_account_value are required."
	msgInvalidAccountID    = "Invalid posting account id."
	msgListAccountsFailure = "Unable to list posting accounts."
	msgMalformedBody       = "Malformed request body."
)

type PostingAccountHandler struct {
	s     service.PostingAccountService
	reset service.CounterResetService
}

func NewPostingAccountHandler(s service.PostingAccountService, reset service.CounterResetService) *PostingAccountHandler {
	return &PostingAccountHandler{s: s, reset: reset}
}

func (h *PostingAccountHandler) GetPostingAccount(c *fiber.Ctx) error {
	var req transfer.PostingAccountRequest
	// An empty body is a request without a card id, not a malformed one.
	if len(c.Body()) == 0 {
		return errorJSON(c, fiber.StatusBadRequest, msgCardIDRequired, "")
	}
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("unable to parse posting account request", "request_id", GetRequestID(c), "error", err)
		return errorJSON(c, fiber.StatusBadRequest, msgMalformedBody, err.Error())
	}
	if err := validate.Struct(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgCardIDRequired, "")
	}

	slog.Info("received request for posting account", "request_id", GetRequestID(c),
		"trello_card_id", req.TrelloCardID, "ignore_daily_limit", req.IgnoreDailyLimit)

	alloc, err := h.s.Allocate(c.UserContext(), &req)
	if err != nil {
		return h.allocationError(c, err)
	}

	if !alloc.Notified {
		slog.Warn("account allocated but trello card not updated", "request_id", GetRequestID(c),
			"trello_card_id", req.TrelloCardID, "account", alloc.Account)
	}

	return c.JSON(transfer.PostingAccountResponse{
		Success:           true,
		Account:           alloc.Account,
		IgnoredDailyLimit: alloc.IgnoredDailyLimit,
	})
}

func (h *PostingAccountHandler) allocationError(c *fiber.Ctx, err error) error {
	var lookupErr *service.AccountLookupError

	switch {
	case errors.Is(err, service.ErrMissingParameter):
		return errorJSON(c, fiber.StatusBadRequest, msgCardIDRequired, "")
	case errors.Is(err, service.ErrNoAccountsAvailable):
		return errorJSON(c, fiber.StatusBadRequest, msgNoAccounts, "")
	case errors.Is(err, service.ErrCredentialsUnavailable):
		return errorJSON(c, fiber.StatusInternalServerError, msgCredentials, "")
	case errors.As(err, &lookupErr):
		return errorJSON(c, fiber.StatusInternalServerError, msgAccountLookup, lookupErr.Primary.Error())
	case errors.Is(err, service.ErrSelectionInconsistency):
		return errorJSON(c, fiber.StatusInternalServerError, msgInvalidSelection, "")
	}

	slog.Error("unexpected error in posting account endpoint", "request_id", GetRequestID(c), "error", err)
	return errorJSON(c, fiber.StatusInternalServerError, msgUnexpected, err.Error())
}

func (h *PostingAccountHandler) ListPostingAccounts(c *fiber.Ctx) error {
	accounts, err := h.s.List(c.UserContext())
	if err != nil {
		slog.Error("error listing posting accounts", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, msgListAccountsFailure, err.Error())
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"count":    len(accounts),
		"accounts": accounts,
	})
}

func (h *PostingAccountHandler) ListAudit(c *fiber.Ctx) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidAccountID, "")
	}

	entries, err := h.s.AuditLog(c.UserContext(), id, c.QueryInt("limit", 100))
	if errors.Is(err, service.ErrAccountNotFound) {
		return errorJSON(c, fiber.StatusNotFound, "Posting account not found.", "")
	}
	if err != nil {
		slog.Error("error listing audit log", "account_id", id, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Unable to list audit log.", err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"entries": entries,
	})
}

func (h *PostingAccountHandler) SetPostingAccount(c *fiber.Ctx) error {
	var req transfer.SetPostingAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgMalformedBody, err.Error())
	}
	if err := validate.Struct(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgSetAccountRequired, "")
	}

	err := h.s.SetPostingAccount(c.UserContext(), req.TrelloCardID, req.PostingAccountValue)
	if err != nil {
		if errors.Is(err, service.ErrMissingParameter) {
			return errorJSON(c, fiber.StatusBadRequest, msgSetAccountRequired, "")
		}
		slog.Error("error setting posting account", "user_id", GetUserID(c),
			"trello_card_id", req.TrelloCardID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, err.Error(), "")
	}

	slog.Info("posting account set manually", "user_id", GetUserID(c),
		"trello_card_id", req.TrelloCardID, "account", req.PostingAccountValue)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Successfully set posting account to " + req.PostingAccountValue,
	})
}

func (h *PostingAccountHandler) ResetCounters(c *fiber.Ctx) error {
	result, err := h.reset.ResetIfStale(c.UserContext())
	if err != nil {
		slog.Error("manual counter reset failed", "user_id", GetUserID(c), "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to reset daily counters.", err.Error())
	}

	slog.Info("manual counter reset", "user_id", GetUserID(c), "reset", result.Reset, "date", result.Date)
	return c.JSON(fiber.Map{
		"success": true,
		"reset":   result.Reset,
		"date":    result.Date,
	})
}
