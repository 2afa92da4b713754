/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.
  Money crosses the wire as float64; internally everything is
  decimal.Decimal.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - ledger/types.go: The domain model these map onto
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/ledger-engine/ledger"
)

// =============================================================================
// ACCOUNTS
// =============================================================================

// CreateAccountRequest is the body of POST /api/accounts.
type CreateAccountRequest struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency,omitempty"`
	IsDefault bool    `json:"is_default"`
}

// AccountDTO is an account as returned to clients.
type AccountDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
	IsDefault bool    `json:"is_default"`
	CreatedAt string  `json:"created_at"`
}

// AccountDetailsDTO is the account list plus the default account id.
type AccountDetailsDTO struct {
	Accounts         []AccountDTO `json:"accounts"`
	DefaultAccountID string       `json:"default_account_id,omitempty"`
}

// SetDefaultAccountRequest is the body of POST /api/accounts/default.
type SetDefaultAccountRequest struct {
	AccountID string `json:"account_id"`
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// TransactionRequest is the body of POST/PUT /api/transactions.
type TransactionRequest struct {
	AccountID   string   `json:"account_id,omitempty"`
	Amount      float64  `json:"amount"`
	Currency    string   `json:"currency"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	Description string   `json:"description"`
	Date        string   `json:"date"` // RFC3339 or YYYY-MM-DD
	Tags        []string `json:"tags,omitempty"`
	IsRecurring bool     `json:"is_recurring"`
	Interval    string   `json:"recurring_interval,omitempty"`
}

// TransactionDTO is a transaction as returned to clients.
type TransactionDTO struct {
	ID             string   `json:"id"`
	Amount         float64  `json:"amount"`
	Currency       string   `json:"currency"`
	Type           string   `json:"type"`
	Status         string   `json:"status"`
	Description    string   `json:"description"`
	Date           string   `json:"date"`
	Tags           []string `json:"tags,omitempty"`
	IsRecurring    bool     `json:"is_recurring"`
	Interval       string   `json:"recurring_interval,omitempty"`
	LastProcessed  string   `json:"last_processed,omitempty"`
	NextOccurrence string   `json:"next_occurrence,omitempty"`
	AccountID      string   `json:"account_id"`
	CreatedAt      string   `json:"created_at"`
}

// =============================================================================
// BUDGET & SUMMARY
// =============================================================================

// UpsertBudgetRequest is the body of POST /api/budget.
type UpsertBudgetRequest struct {
	Amount float64 `json:"amount"`
}

// BudgetDTO is a budget row as returned to clients.
type BudgetDTO struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}

// BudgetStatusDTO joins the budget with the month-to-date expense.
type BudgetStatusDTO struct {
	Budget         *BudgetDTO `json:"budget"`
	CurrentExpense float64    `json:"current_expense"`
	Remaining      float64    `json:"remaining"`
}

// DaySummaryDTO is one day of the daily income/expense/net series.
type DaySummaryDTO struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// =============================================================================
// RECURRING JOBS
// =============================================================================

// TriggerResultDTO reports a trigger run.
type TriggerResultDTO struct {
	Triggered  int    `json:"triggered"`
	TotalFound int    `json:"total_found"`
	Timestamp  string `json:"timestamp"`
}

// ProcessRequest is the body of POST /api/jobs/recurring/process.
type ProcessRequest struct {
	TransactionID string `json:"transaction_id"`
	UserID        string `json:"user_id"`
}

// ProcessResultDTO reports one processed work item.
type ProcessResultDTO struct {
	Success          bool   `json:"success"`
	TransactionID    string `json:"transaction_id"`
	NewTransactionID string `json:"new_transaction_id,omitempty"`
	Reason           string `json:"reason,omitempty"`
	Error            string `json:"error,omitempty"`
}

// =============================================================================
// WEBHOOK
// =============================================================================

// UserWebhookRequest is the identity-provider event that provisions a
// local user record.
type UserWebhookRequest struct {
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		ImageURL       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toAccountDTO(a ledger.Account) AccountDTO {
	balance, _ := a.Balance.Float64()
	return AccountDTO{
		ID:        string(a.ID),
		Name:      a.Name,
		Type:      string(a.Type),
		Balance:   balance,
		Currency:  string(a.Currency),
		Status:    string(a.Status),
		IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

func toTransactionDTO(tx ledger.Transaction) TransactionDTO {
	amount, _ := tx.Amount.Float64()
	dto := TransactionDTO{
		ID:          string(tx.ID),
		Amount:      amount,
		Currency:    string(tx.Currency),
		Type:        string(tx.Type),
		Status:      string(tx.Status),
		Description: tx.Description,
		Date:        tx.Date.Format(time.RFC3339),
		Tags:        tx.Tags,
		IsRecurring: tx.IsRecurring,
		Interval:    string(tx.Interval),
		AccountID:   string(tx.AccountID),
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.LastProcessed != nil {
		dto.LastProcessed = tx.LastProcessed.Format(time.RFC3339)
	}
	if tx.NextOccurrence != nil {
		dto.NextOccurrence = tx.NextOccurrence.Format(time.RFC3339)
	}
	return dto
}

func toTransactionDTOs(txs []ledger.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toTransactionDTO(tx)
	}
	return dtos
}

func toBudgetDTO(b *ledger.Budget) *BudgetDTO {
	if b == nil {
		return nil
	}
	amount, _ := b.Amount.Float64()
	return &BudgetDTO{
		ID:        string(b.ID),
		Amount:    amount,
		StartDate: b.StartDate.Format(time.RFC3339),
		EndDate:   b.EndDate.Format(time.RFC3339),
	}
}

func (r TransactionRequest) toInput() (ledger.TransactionInput, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return ledger.TransactionInput{}, err
	}
	return ledger.TransactionInput{
		AccountID:   ledger.AccountID(r.AccountID),
		Amount:      decimal.NewFromFloat(r.Amount),
		Currency:    ledger.Currency(r.Currency),
		Type:        ledger.TransactionType(r.Type),
		Status:      ledger.TransactionStatus(r.Status),
		Description: r.Description,
		Date:        date,
		Tags:        r.Tags,
		IsRecurring: r.IsRecurring,
		Interval:    ledger.RecurringInterval(r.Interval),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeLedgerError maps the domain error taxonomy onto HTTP statuses.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
