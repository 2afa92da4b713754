/*
handlers_test.go - HTTP-level tests over the full stack

Routes are exercised through the real router, service, runner, and an
in-memory SQLite store; only the HTTP client is simulated.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook/ledger-engine/ledger"
	"github.com/finbook/ledger-engine/logger"
	"github.com/finbook/ledger-engine/recurring"
	"github.com/finbook/ledger-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type testAPI struct {
	router http.Handler
	store  *sqlite.Store
}

func newTestAPI(t *testing.T) *testAPI {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := logger.NewWithWriter(io.Discard)
	service := ledger.NewService(store)
	runner := recurring.NewRunner(store, log, 0)
	handler := NewHandler(service, runner, store, log)

	return &testAPI{router: NewRouter(handler), store: store}
}

// do performs a JSON request as the given user and decodes the response
// into out (when out is non-nil).
func (a *testAPI) do(t *testing.T, method, path, userID string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func (a *testAPI) createAccount(t *testing.T, userID string, balance float64, isDefault bool) AccountDTO {
	t.Helper()
	var account AccountDTO
	rec := a.do(t, http.MethodPost, "/api/accounts", userID, CreateAccountRequest{
		Name:      "Everyday Checking",
		Type:      "CHECKING",
		Balance:   balance,
		Currency:  "USD",
		IsDefault: isDefault,
	}, &account)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return account
}

func transactionBody(accountID string, amount float64, txType string) TransactionRequest {
	return TransactionRequest{
		AccountID:   accountID,
		Amount:      amount,
		Currency:    "USD",
		Type:        txType,
		Status:      "COMPLETED",
		Description: "Monthly utilities bill",
		Date:        "2026-03-15",
	}
}

// =============================================================================
// IDENTITY
// =============================================================================

func TestAPI_MissingUserHeaderIs401(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/accounts", "", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_WebhookNeedsNoUserHeader(t *testing.T) {
	api := newTestAPI(t)

	body := map[string]any{"data": map[string]any{
		"id":         "user-webhook-1",
		"first_name": "Pat",
		"last_name":  "Example",
		"email_addresses": []map[string]any{
			{"email_address": "pat@example.com"},
		},
	}}
	rec := api.do(t, http.MethodPost, "/api/webhook/user", "", body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	user, err := api.store.GetUser(context.Background(), "user-webhook-1")
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", user.Email)
	assert.Equal(t, "Pat Example", user.Name)
}

func TestAPI_WebhookSwallowsBadPayload(t *testing.T) {
	// The identity provider retries non-200 responses; a malformed
	// event is logged and acknowledged.
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook/user",
		bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func TestAPI_AccountLifecycle(t *testing.T) {
	api := newTestAPI(t)

	created := api.createAccount(t, "user-1", 1000, true)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, float64(1000), created.Balance)

	var details AccountDetailsDTO
	rec := api.do(t, http.MethodGet, "/api/accounts", "user-1", nil, &details)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, details.Accounts, 1)
	assert.Equal(t, created.ID, details.DefaultAccountID)

	rec = api.do(t, http.MethodDelete, "/api/accounts/"+created.ID, "user-1", nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	details = AccountDetailsDTO{}
	rec = api.do(t, http.MethodGet, "/api/accounts", "user-1", nil, &details)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, details.Accounts)
}

func TestAPI_CreateAccount_ValidationIs400(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/accounts", "user-1", CreateAccountRequest{
		Name: "Ops", Type: "CHECKING",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_SetDefaultAccount(t *testing.T) {
	api := newTestAPI(t)
	first := api.createAccount(t, "user-1", 100, true)
	second := api.createAccount(t, "user-1", 0, false)

	rec := api.do(t, http.MethodPost, "/api/accounts/default", "user-1",
		SetDefaultAccountRequest{AccountID: second.ID}, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var details AccountDetailsDTO
	api.do(t, http.MethodGet, "/api/accounts", "user-1", nil, &details)
	assert.Equal(t, second.ID, details.DefaultAccountID)
	assert.NotEqual(t, first.ID, details.DefaultAccountID)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestAPI_CreateTransaction_MovesBalance(t *testing.T) {
	api := newTestAPI(t)
	account := api.createAccount(t, "user-1", 1000, true)

	var tx TransactionDTO
	rec := api.do(t, http.MethodPost, "/api/transactions", "user-1",
		transactionBody(account.ID, 200, "PAYMENT"), &tx)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, account.ID, tx.AccountID)

	var details AccountDetailsDTO
	api.do(t, http.MethodGet, "/api/accounts", "user-1", nil, &details)
	require.Len(t, details.Accounts, 1)
	assert.Equal(t, float64(800), details.Accounts[0].Balance)
}

func TestAPI_EditTransaction(t *testing.T) {
	api := newTestAPI(t)
	account := api.createAccount(t, "user-1", 1000, true)

	var tx TransactionDTO
	api.do(t, http.MethodPost, "/api/transactions", "user-1",
		transactionBody(account.ID, 200, "PAYMENT"), &tx)

	rec := api.do(t, http.MethodPut, "/api/transactions/"+tx.ID, "user-1",
		transactionBody(account.ID, 300, "PAYMENT"), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var details AccountDetailsDTO
	api.do(t, http.MethodGet, "/api/accounts", "user-1", nil, &details)
	assert.Equal(t, float64(700), details.Accounts[0].Balance)
}

func TestAPI_TransactionsAreOwnerScoped(t *testing.T) {
	api := newTestAPI(t)
	account := api.createAccount(t, "user-1", 1000, true)

	var tx TransactionDTO
	api.do(t, http.MethodPost, "/api/transactions", "user-1",
		transactionBody(account.ID, 200, "PAYMENT"), &tx)

	rec := api.do(t, http.MethodDelete, "/api/transactions/"+tx.ID, "user-2", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var txs []TransactionDTO
	rec = api.do(t, http.MethodGet, "/api/transactions", "user-2", nil, &txs)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, txs)
}

func TestAPI_ListTransactions_AccountFilter(t *testing.T) {
	api := newTestAPI(t)
	first := api.createAccount(t, "user-1", 1000, true)
	second := api.createAccount(t, "user-1", 1000, false)

	api.do(t, http.MethodPost, "/api/transactions", "user-1",
		transactionBody(first.ID, 100, "PAYMENT"), nil)
	api.do(t, http.MethodPost, "/api/transactions", "user-1",
		transactionBody(second.ID, 50, "PAYMENT"), nil)

	var txs []TransactionDTO
	rec := api.do(t, http.MethodGet, "/api/transactions?account_id="+second.ID, "user-1", nil, &txs)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, txs, 1)
	assert.Equal(t, second.ID, txs[0].AccountID)
}

// =============================================================================
// REPORTING
// =============================================================================

func TestAPI_DailySummary(t *testing.T) {
	api := newTestAPI(t)
	account := api.createAccount(t, "user-1", 1000, true)

	body := transactionBody(account.ID, 200, "PAYMENT")
	body.Date = time.Now().UTC().Format("2006-01-02")
	api.do(t, http.MethodPost, "/api/transactions", "user-1", body, nil)

	var days []DaySummaryDTO
	rec := api.do(t, http.MethodGet, "/api/summary/daily?days=7", "user-1", nil, &days)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, days, 7)
	assert.Equal(t, float64(200), days[6].Expense)
}

func TestAPI_DailySummary_BadDaysIs400(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/summary/daily?days=9999", "user-1", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_BudgetUpsertAndStatus(t *testing.T) {
	api := newTestAPI(t)
	account := api.createAccount(t, "user-1", 1000, true)

	rec := api.do(t, http.MethodPost, "/api/budget", "user-1",
		UpsertBudgetRequest{Amount: 2000}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := transactionBody(account.ID, 300, "PAYMENT")
	body.Date = time.Now().UTC().Format("2006-01-02")
	api.do(t, http.MethodPost, "/api/transactions", "user-1", body, nil)

	var status BudgetStatusDTO
	rec = api.do(t, http.MethodGet, "/api/budget?account_id="+account.ID, "user-1", nil, &status)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, status.Budget)
	assert.Equal(t, float64(2000), status.Budget.Amount)
	assert.Equal(t, float64(300), status.CurrentExpense)
	assert.Equal(t, float64(1700), status.Remaining)
}

// =============================================================================
// RECURRING JOBS
// =============================================================================

func TestAPI_TriggerAndProcessRecurring(t *testing.T) {
	api := newTestAPI(t)
	account := api.createAccount(t, "user-1", 1000, true)

	body := transactionBody(account.ID, 200, "PAYMENT")
	body.IsRecurring = true
	body.Interval = "MONTHLY"
	var tx TransactionDTO
	rec := api.do(t, http.MethodPost, "/api/transactions", "user-1", body, &tx)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var trigger TriggerResultDTO
	rec = api.do(t, http.MethodPost, "/api/jobs/recurring/trigger", "user-1", nil, &trigger)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, trigger.TotalFound)
	assert.Equal(t, 1, trigger.Triggered)

	var result ProcessResultDTO
	rec = api.do(t, http.MethodPost, "/api/jobs/recurring/process", "user-1",
		ProcessRequest{TransactionID: tx.ID, UserID: "user-1"}, &result)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, result.Success, result.Reason)
	assert.NotEmpty(t, result.NewTransactionID)

	// Original payment (-200) plus the processed occurrence (-200).
	var details AccountDetailsDTO
	api.do(t, http.MethodGet, "/api/accounts", "user-1", nil, &details)
	assert.Equal(t, float64(600), details.Accounts[0].Balance)
}

func TestAPI_ProcessRecurring_SkipIsStill200(t *testing.T) {
	api := newTestAPI(t)

	var result ProcessResultDTO
	rec := api.do(t, http.MethodPost, "/api/jobs/recurring/process", "user-1",
		ProcessRequest{TransactionID: "missing", UserID: "user-1"}, &result)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, result.Success)
	assert.Equal(t, "transaction not found or not due for processing", result.Reason)
}
