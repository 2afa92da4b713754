/*
handlers.go - HTTP API handlers for the finance ledger engine

PURPOSE:
  Exposes the ledger engine via an RPC-style JSON API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Accounts:
    POST   /api/accounts           Create account
    GET    /api/accounts           List accounts + default id
    POST   /api/accounts/default   Set the default account
    DELETE /api/accounts/{id}      Delete account

  Transactions:
    POST   /api/transactions       Create transaction (applies effect)
    PUT    /api/transactions/{id}  Edit (reverse old, apply new)
    DELETE /api/transactions/{id}  Delete row
    GET    /api/transactions       List (?account_id= filter)

  Reporting:
    GET    /api/summary/daily      Per-day income/expense/net series
    POST   /api/budget             Upsert current-month budget
    GET    /api/budget             Budget + month-to-date expense

  Jobs:
    POST   /api/jobs/recurring/trigger   Trigger phase (cron entry)
    POST   /api/jobs/recurring/process   Process phase (event entry)

  Webhook:
    POST   /api/webhook/user       Provision a local user record

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 401: No resolvable caller identity
  - 404: Resource not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - auth.go: Caller identity middleware
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbook/ledger-engine/ledger"
	"github.com/finbook/ledger-engine/recurring"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *ledger.Service
	Runner  *recurring.Runner
	Users   ledger.Store
	Log     zerolog.Logger
}

// NewHandler creates a new handler.
func NewHandler(service *ledger.Service, runner *recurring.Runner, store ledger.Store, log zerolog.Logger) *Handler {
	return &Handler{Service: service, Runner: runner, Users: store, Log: log}
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

// CreateAccount creates an account for the caller.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.Service.CreateAccount(r.Context(), userID, ledger.CreateAccountInput{
		Name:      req.Name,
		Type:      ledger.AccountType(req.Type),
		Balance:   decimal.NewFromFloat(req.Balance),
		Currency:  ledger.Currency(req.Currency),
		IsDefault: req.IsDefault,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountDTO(*account))
}

// GetAccountDetails lists the caller's accounts and the default id.
func (h *Handler) GetAccountDetails(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	details, err := h.Service.GetAccountDetails(r.Context(), userID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	dto := AccountDetailsDTO{
		Accounts:         make([]AccountDTO, len(details.Accounts)),
		DefaultAccountID: string(details.DefaultAccountID),
	}
	for i, a := range details.Accounts {
		dto.Accounts[i] = toAccountDTO(a)
	}
	writeJSON(w, http.StatusOK, dto)
}

// SetDefaultAccount atomically moves the default flag to one account.
func (h *Handler) SetDefaultAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req SetDefaultAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccountID == "" {
		writeError(w, http.StatusBadRequest, "account_id required")
		return
	}

	if err := h.Service.SetDefaultAccount(r.Context(), userID, ledger.AccountID(req.AccountID)); err != nil {
		writeLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAccount removes an account.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	id := ledger.AccountID(chi.URLParam(r, "id"))
	if err := h.Service.DeleteAccount(r.Context(), userID, id); err != nil {
		writeLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// CreateTransaction records a transaction and applies its effect.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format (use RFC3339 or YYYY-MM-DD)")
		return
	}

	tx, err := h.Service.CreateTransaction(r.Context(), userID, input)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(*tx))
}

// EditTransaction reverses the old effect and applies the new one.
func (h *Handler) EditTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format (use RFC3339 or YYYY-MM-DD)")
		return
	}

	id := ledger.TransactionID(chi.URLParam(r, "id"))
	tx, err := h.Service.EditTransaction(r.Context(), userID, id, input)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTO(*tx))
}

// DeleteTransaction removes a transaction row.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	id := ledger.TransactionID(chi.URLParam(r, "id"))
	if err := h.Service.DeleteTransaction(r.Context(), userID, id); err != nil {
		writeLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTransactions returns the caller's transactions, newest first.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	accountID := ledger.AccountID(r.URL.Query().Get("account_id"))
	txs, err := h.Service.ListTransactions(r.Context(), userID, accountID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTOs(txs))
}

// =============================================================================
// REPORTING HANDLERS
// =============================================================================

// GetDailySummary returns the per-day income/expense/net series.
func (h *Handler) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 365")
			return
		}
		days = n
	}

	summaries, err := h.Service.GetDailySummary(r.Context(), userID, days)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	dtos := make([]DaySummaryDTO, len(summaries))
	for i, s := range summaries {
		income, _ := s.Income.Float64()
		expense, _ := s.Expense.Float64()
		net, _ := s.Net.Float64()
		dtos[i] = DaySummaryDTO{Date: s.Date, Income: income, Expense: expense, Net: net}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertBudget creates or replaces the caller's current-month budget.
func (h *Handler) UpsertBudget(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req UpsertBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	budget, err := h.Service.UpsertBudget(r.Context(), userID, decimal.NewFromFloat(req.Amount))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTO(budget))
}

// GetCurrentBudget returns the budget joined with the month-to-date
// expense total of the default account.
func (h *Handler) GetCurrentBudget(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	accountID := ledger.AccountID(r.URL.Query().Get("account_id"))
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "account_id required")
		return
	}

	status, err := h.Service.GetCurrentBudget(r.Context(), userID, accountID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	expense, _ := status.CurrentExpense.Float64()
	remaining, _ := status.Remaining.Float64()
	writeJSON(w, http.StatusOK, BudgetStatusDTO{
		Budget:         toBudgetDTO(status.Budget),
		CurrentExpense: expense,
		Remaining:      remaining,
	})
}

// =============================================================================
// JOB HANDLERS
// =============================================================================

// TriggerRecurring runs the trigger phase of the recurring orchestrator.
// Cron-style entry point; returns counts for observability.
func (h *Handler) TriggerRecurring(w http.ResponseWriter, r *http.Request) {
	result := h.Runner.Trigger(r.Context())
	writeJSON(w, http.StatusOK, TriggerResultDTO{
		Triggered:  result.Triggered,
		TotalFound: result.TotalFound,
		Timestamp:  result.Timestamp.Format(time.RFC3339),
	})
}

// ProcessRecurring runs the process phase for one work item. Event-style
// entry point; non-fatal skips and item failures come back in the body,
// never as an HTTP error.
func (h *Handler) ProcessRecurring(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.TransactionID == "" || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "transaction_id and user_id required")
		return
	}

	result := h.Runner.Process(r.Context(), recurring.WorkItem{
		TransactionID: ledger.TransactionID(req.TransactionID),
		UserID:        ledger.UserID(req.UserID),
	})

	dto := ProcessResultDTO{
		Success:          result.Success,
		TransactionID:    string(result.TransactionID),
		NewTransactionID: string(result.NewTransactionID),
		Reason:           result.Reason,
	}
	if result.Err != nil {
		dto.Error = result.Err.Error()
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// WEBHOOK HANDLER
// =============================================================================

// UserWebhook provisions a local user record from an identity-provider
// event. Always answers 200 so the provider does not retry forever;
// failures are logged.
func (h *Handler) UserWebhook(w http.ResponseWriter, r *http.Request) {
	var req UserWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Data.ID == "" {
		h.Log.Error().Msg("user webhook: malformed payload")
		w.WriteHeader(http.StatusOK)
		return
	}

	var email string
	if len(req.Data.EmailAddresses) > 0 {
		email = req.Data.EmailAddresses[0].EmailAddress
	}
	user := ledger.User{
		ID:         ledger.UserID(req.Data.ID),
		Email:      email,
		Name:       strings.TrimSpace(req.Data.FirstName + " " + req.Data.LastName),
		ProfileURL: req.Data.ImageURL,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.Users.SaveUser(r.Context(), user); err != nil {
		h.Log.Error().Err(err).Str("user_id", req.Data.ID).Msg("user webhook: save failed")
	}
	w.WriteHeader(http.StatusOK)
}
