/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements ledger.Store and ledger.TxStore using SQLite. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

ATOMIC UNITS:
  WithTx runs the callback against a session bound to a single
  database transaction. Balance reads and row writes made through that
  session are one atomic unit; an error from the callback rolls the
  whole unit back. SQLite allows a single writer at a time, which is
  what makes the read-modify-write of account balances safe against
  lost updates.

KEY TABLES:
  users:        Locally provisioned identities
  accounts:     Balance containers, one default per user
  transactions: Ledger rows; recurrence bookkeeping columns
  budgets:      One row per user (UNIQUE(user_id), upsert)

INDEXES:
  - idx_transactions_user_date: daily summary window scans
  - idx_transactions_account_date: budget expense aggregation
  - idx_transactions_due: the recurring trigger scan
    (is_recurring, status, next_occurrence)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers
  don't block, a single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/ledger.db")   // or ":memory:"
  svc := ledger.NewService(store)

SEE ALSO:
  - ledger/store.go: Interface definitions
  - ledger/service.go: The only writer of balance+row pairs
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/finbook/ledger-engine/ledger"
)

// Store implements ledger.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: SQLite has a single writer, and ":memory:" gives
	// every pooled connection its own separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		name TEXT NOT NULL,
		profile_url TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		account_type TEXT NOT NULL,
		balance TEXT NOT NULL,
		currency TEXT NOT NULL,
		status TEXT NOT NULL,
		is_default INTEGER NOT NULL DEFAULT 0,
		user_id TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_user
		ON accounts(user_id);
	CREATE INDEX IF NOT EXISTS idx_accounts_user_default
		ON accounts(user_id, is_default);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		tx_type TEXT NOT NULL,
		status TEXT NOT NULL,
		description TEXT NOT NULL,
		date TEXT NOT NULL,
		tags_json TEXT,
		is_recurring INTEGER NOT NULL DEFAULT 0,
		recurring_interval TEXT,
		last_processed TEXT,
		next_occurrence TEXT,
		user_id TEXT NOT NULL,
		account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_user_date
		ON transactions(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_transactions_account_date
		ON transactions(account_id, date);
	-- Hot path for the recurring trigger scan
	CREATE INDEX IF NOT EXISTS idx_transactions_due
		ON transactions(is_recurring, status, next_occurrence);

	CREATE TABLE IF NOT EXISTS budgets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		amount TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// conn is satisfied by both *sql.DB and *sql.Tx so the same session
// methods serve direct calls and WithTx units.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// TRANSACTIONAL STORE (ledger.TxStore interface)
// =============================================================================

// WithTx executes fn within a database transaction. The session passed
// to fn routes every read and write through the same *sql.Tx.
func (s *Store) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&session{c: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// session binds the store operations to one connection: the root DB for
// direct calls, a *sql.Tx inside WithTx.
type session struct {
	c conn
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func (s *Store) SaveAccount(ctx context.Context, a ledger.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{c: s.db}).SaveAccount(ctx, a)
}

func (se *session) SaveAccount(ctx context.Context, a ledger.Account) error {
	query := `
		INSERT INTO accounts (id, name, account_type, balance, currency, status, is_default, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			account_type = excluded.account_type,
			balance = excluded.balance,
			currency = excluded.currency,
			status = excluded.status,
			is_default = excluded.is_default
	`
	_, err := se.c.ExecContext(ctx, query,
		a.ID, a.Name, a.Type, a.Balance.String(), a.Currency, a.Status,
		boolToInt(a.IsDefault), a.UserID, a.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id ledger.AccountID) (*ledger.Account, error) {
	return (&session{c: s.db}).GetAccount(ctx, id)
}

func (se *session) GetAccount(ctx context.Context, id ledger.AccountID) (*ledger.Account, error) {
	row := se.c.QueryRowContext(ctx, accountSelect+" WHERE id = ?", id)
	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Store) ListAccounts(ctx context.Context, userID ledger.UserID) ([]ledger.Account, error) {
	return (&session{c: s.db}).ListAccounts(ctx, userID)
}

func (se *session) ListAccounts(ctx context.Context, userID ledger.UserID) ([]ledger.Account, error) {
	rows, err := se.c.QueryContext(ctx, accountSelect+" WHERE user_id = ? ORDER BY created_at ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []ledger.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

func (s *Store) DeleteAccount(ctx context.Context, id ledger.AccountID, userID ledger.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{c: s.db}).DeleteAccount(ctx, id, userID)
}

func (se *session) DeleteAccount(ctx context.Context, id ledger.AccountID, userID ledger.UserID) error {
	res, err := se.c.ExecContext(ctx, "DELETE FROM accounts WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireRows(res, ledger.ErrAccountNotFound)
}

func (s *Store) GetDefaultAccount(ctx context.Context, userID ledger.UserID) (*ledger.Account, error) {
	return (&session{c: s.db}).GetDefaultAccount(ctx, userID)
}

func (se *session) GetDefaultAccount(ctx context.Context, userID ledger.UserID) (*ledger.Account, error) {
	row := se.c.QueryRowContext(ctx,
		accountSelect+" WHERE user_id = ? AND is_default = 1 LIMIT 1", userID)
	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrNoDefaultAccount
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Store) ClearDefaultAccounts(ctx context.Context, userID ledger.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{c: s.db}).ClearDefaultAccounts(ctx, userID)
}

func (se *session) ClearDefaultAccounts(ctx context.Context, userID ledger.UserID) error {
	_, err := se.c.ExecContext(ctx,
		"UPDATE accounts SET is_default = 0 WHERE user_id = ? AND is_default = 1", userID)
	return err
}

func (s *Store) SetAccountDefault(ctx context.Context, id ledger.AccountID, userID ledger.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{c: s.db}).SetAccountDefault(ctx, id, userID)
}

func (se *session) SetAccountDefault(ctx context.Context, id ledger.AccountID, userID ledger.UserID) error {
	res, err := se.c.ExecContext(ctx,
		"UPDATE accounts SET is_default = 1 WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireRows(res, ledger.ErrAccountNotFound)
}

func (s *Store) UpdateAccountBalance(ctx context.Context, id ledger.AccountID, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{c: s.db}).UpdateAccountBalance(ctx, id, balance)
}

func (se *session) UpdateAccountBalance(ctx context.Context, id ledger.AccountID, balance decimal.Decimal) error {
	res, err := se.c.ExecContext(ctx,
		"UPDATE accounts SET balance = ? WHERE id = ?", balance.String(), id)
	if err != nil {
		return err
	}
	return requireRows(res, ledger.ErrAccountNotFound)
}

const accountSelect = `
	SELECT id, name, account_type, balance, currency, status, is_default, user_id, created_at
	FROM accounts`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*ledger.Account, error) {
	var (
		a         ledger.Account
		balance   string
		isDefault int
		createdAt string
	)
	err := row.Scan(&a.ID, &a.Name, &a.Type, &balance, &a.Currency, &a.Status,
		&isDefault, &a.UserID, &createdAt)
	if err != nil {
		return nil, err
	}
	a.Balance = mustDecimal(balance)
	a.IsDefault = isDefault != 0
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (s *Store) SaveTransaction(ctx context.Context, tx ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{c: s.db}).SaveTransaction(ctx, tx)
}

func (se *session) SaveTransaction(ctx context.Context, tx ledger.Transaction) error {
	tagsJSON, _ := json.Marshal(tx.Tags)
	query := `
		INSERT INTO transactions
		(id, amount, currency, tx_type, status, description, date, tags_json,
		 is_recurring, recurring_interval, last_processed, next_occurrence,
		 user_id, account_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := se.c.ExecContext(ctx, query,
		tx.ID, tx.Amount.String(), tx.Currency, tx.Type, tx.Status,
		tx.Description, tx.Date.UTC().Format(time.RFC3339), string(tagsJSON),
		boolToInt(tx.IsRecurring), nullString(string(tx.Interval)),
		nullTime(tx.LastProcessed), nullTime(tx.NextOccurrence),
		tx.UserID, tx.AccountID, tx.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id ledger.TransactionID, userID ledger.UserID) (*ledger.Transaction, error) {
	return (&session{c: s.db}).GetTransaction(ctx, id, userID)
}

func (se *session) GetTransaction(ctx context.Context, id ledger.TransactionID, userID ledger.UserID) (*ledger.Transaction, error) {
	row := se.c.QueryRowContext(ctx,
		transactionSelect+" WHERE id = ? AND user_id = ?", id, userID)
	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{c: s.db}).UpdateTransaction(ctx, tx)
}

func (se *session) UpdateTransaction(ctx context.Context, tx ledger.Transaction) error {
	tagsJSON, _ := json.Marshal(tx.Tags)
	query := `
		UPDATE transactions SET
			amount = ?, currency = ?, tx_type = ?, status = ?, description = ?,
			date = ?, tags_json = ?, is_recurring = ?, recurring_interval = ?,
			last_processed = ?, next_occurrence = ?
		WHERE id = ? AND user_id = ?
	`
	res, err := se.c.ExecContext(ctx, query,
		tx.Amount.String(), tx.Currency, tx.Type, tx.Status, tx.Description,
		tx.Date.UTC().Format(time.RFC3339), string(tagsJSON),
		boolToInt(tx.IsRecurring), nullString(string(tx.Interval)),
		nullTime(tx.LastProcessed), nullTime(tx.NextOccurrence),
		tx.ID, tx.UserID,
	)
	if err != nil {
		return err
	}
	return requireRows(res, ledger.ErrTransactionNotFound)
}

func (s *Store) DeleteTransaction(ctx context.Context, id ledger.TransactionID, userID ledger.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{c: s.db}).DeleteTransaction(ctx, id, userID)
}

func (se *session) DeleteTransaction(ctx context.Context, id ledger.TransactionID, userID ledger.UserID) error {
	res, err := se.c.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireRows(res, ledger.ErrTransactionNotFound)
}

func (s *Store) ListTransactions(ctx context.Context, userID ledger.UserID, accountID ledger.AccountID) ([]ledger.Transaction, error) {
	return (&session{c: s.db}).ListTransactions(ctx, userID, accountID)
}

func (se *session) ListTransactions(ctx context.Context, userID ledger.UserID, accountID ledger.AccountID) ([]ledger.Transaction, error) {
	query := transactionSelect + " WHERE user_id = ?"
	args := []any{userID}
	if accountID != "" {
		query += " AND account_id = ?"
		args = append(args, accountID)
	}
	query += " ORDER BY date DESC, created_at DESC"
	return se.queryTransactions(ctx, query, args...)
}

func (s *Store) ListTransactionsInWindow(ctx context.Context, userID ledger.UserID, w ledger.Window) ([]ledger.Transaction, error) {
	return (&session{c: s.db}).ListTransactionsInWindow(ctx, userID, w)
}

func (se *session) ListTransactionsInWindow(ctx context.Context, userID ledger.UserID, w ledger.Window) ([]ledger.Transaction, error) {
	query := transactionSelect + `
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`
	return se.queryTransactions(ctx, query, userID,
		w.Start.UTC().Format(time.RFC3339), w.End.UTC().Format(time.RFC3339))
}

func (s *Store) ListDueRecurring(ctx context.Context, now time.Time, limit int) ([]ledger.Transaction, error) {
	return (&session{c: s.db}).ListDueRecurring(ctx, now, limit)
}

func (se *session) ListDueRecurring(ctx context.Context, now time.Time, limit int) ([]ledger.Transaction, error) {
	query := transactionSelect + `
		WHERE is_recurring = 1
		  AND status = ?
		  AND recurring_interval IS NOT NULL
		  AND (last_processed IS NULL OR next_occurrence <= ?)
		ORDER BY date ASC
		LIMIT ?`
	return se.queryTransactions(ctx, query,
		ledger.StatusCompleted, now.UTC().Format(time.RFC3339), limit)
}

func (s *Store) SetRecurrenceProcessed(ctx context.Context, id ledger.TransactionID, processedAt, next time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{c: s.db}).SetRecurrenceProcessed(ctx, id, processedAt, next)
}

func (se *session) SetRecurrenceProcessed(ctx context.Context, id ledger.TransactionID, processedAt, next time.Time) error {
	res, err := se.c.ExecContext(ctx,
		"UPDATE transactions SET last_processed = ?, next_occurrence = ? WHERE id = ?",
		processedAt.UTC().Format(time.RFC3339), next.UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	return requireRows(res, ledger.ErrTransactionNotFound)
}

func (s *Store) SumTransactionAmounts(ctx context.Context, userID ledger.UserID, accountID ledger.AccountID, w ledger.Window, types []ledger.TransactionType) (decimal.Decimal, error) {
	return (&session{c: s.db}).SumTransactionAmounts(ctx, userID, accountID, w, types)
}

func (se *session) SumTransactionAmounts(ctx context.Context, userID ledger.UserID, accountID ledger.AccountID, w ledger.Window, types []ledger.TransactionType) (decimal.Decimal, error) {
	if len(types) == 0 {
		return decimal.Zero, nil
	}

	// Amounts are stored as TEXT for precision; sum in Go rather than
	// through SQLite's float arithmetic.
	query := transactionSelect + `
		WHERE user_id = ? AND account_id = ?
		  AND date >= ? AND date <= ?
		  AND tx_type IN (` + placeholders(len(types)) + `)`
	args := []any{userID, accountID,
		w.Start.UTC().Format(time.RFC3339), w.End.UTC().Format(time.RFC3339)}
	for _, t := range types {
		args = append(args, t)
	}

	txs, err := se.queryTransactions(ctx, query, args...)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total, nil
}

const transactionSelect = `
	SELECT id, amount, currency, tx_type, status, description, date, tags_json,
	       is_recurring, recurring_interval, last_processed, next_occurrence,
	       user_id, account_id, created_at
	FROM transactions`

func (se *session) queryTransactions(ctx context.Context, query string, args ...any) ([]ledger.Transaction, error) {
	rows, err := se.c.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []ledger.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}
	return txs, rows.Err()
}

func scanTransaction(row rowScanner) (*ledger.Transaction, error) {
	var (
		tx             ledger.Transaction
		amount         string
		date           string
		tagsJSON       sql.NullString
		isRecurring    int
		interval       sql.NullString
		lastProcessed  sql.NullString
		nextOccurrence sql.NullString
		createdAt      string
	)
	err := row.Scan(&tx.ID, &amount, &tx.Currency, &tx.Type, &tx.Status,
		&tx.Description, &date, &tagsJSON, &isRecurring, &interval,
		&lastProcessed, &nextOccurrence, &tx.UserID, &tx.AccountID, &createdAt)
	if err != nil {
		return nil, err
	}

	tx.Amount = mustDecimal(amount)
	tx.Date, _ = time.Parse(time.RFC3339, date)
	tx.IsRecurring = isRecurring != 0
	tx.Interval = ledger.RecurringInterval(interval.String)
	tx.LastProcessed = parseNullTime(lastProcessed)
	tx.NextOccurrence = parseNullTime(nextOccurrence)
	tx.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if tagsJSON.Valid && tagsJSON.String != "" {
		json.Unmarshal([]byte(tagsJSON.String), &tx.Tags)
	}
	return &tx, nil
}

// =============================================================================
// BUDGETS
// =============================================================================

func (s *Store) UpsertBudget(ctx context.Context, b ledger.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{c: s.db}).UpsertBudget(ctx, b)
}

func (se *session) UpsertBudget(ctx context.Context, b ledger.Budget) error {
	query := `
		INSERT INTO budgets (id, user_id, amount, start_date, end_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			amount = excluded.amount,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			updated_at = excluded.updated_at
	`
	_, err := se.c.ExecContext(ctx, query,
		b.ID, b.UserID, b.Amount.String(),
		b.StartDate.UTC().Format(time.RFC3339),
		b.EndDate.UTC().Format(time.RFC3339),
		b.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}
	return nil
}

func (s *Store) GetBudget(ctx context.Context, userID ledger.UserID) (*ledger.Budget, error) {
	return (&session{c: s.db}).GetBudget(ctx, userID)
}

func (se *session) GetBudget(ctx context.Context, userID ledger.UserID) (*ledger.Budget, error) {
	var (
		b         ledger.Budget
		amount    string
		start     string
		end       string
		updatedAt string
	)
	err := se.c.QueryRowContext(ctx,
		"SELECT id, user_id, amount, start_date, end_date, updated_at FROM budgets WHERE user_id = ?",
		userID,
	).Scan(&b.ID, &b.UserID, &amount, &start, &end, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrBudgetNotFound
	}
	if err != nil {
		return nil, err
	}
	b.Amount = mustDecimal(amount)
	b.StartDate, _ = time.Parse(time.RFC3339, start)
	b.EndDate, _ = time.Parse(time.RFC3339, end)
	b.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &b, nil
}

// =============================================================================
// USERS
// =============================================================================

func (s *Store) SaveUser(ctx context.Context, u ledger.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&session{c: s.db}).SaveUser(ctx, u)
}

func (se *session) SaveUser(ctx context.Context, u ledger.User) error {
	query := `
		INSERT INTO users (id, email, name, profile_url, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			profile_url = excluded.profile_url
	`
	_, err := se.c.ExecContext(ctx, query,
		u.ID, u.Email, u.Name, u.ProfileURL,
		u.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetUser(ctx context.Context, id ledger.UserID) (*ledger.User, error) {
	return (&session{c: s.db}).GetUser(ctx, id)
}

func (se *session) GetUser(ctx context.Context, id ledger.UserID) (*ledger.User, error) {
	var (
		u          ledger.User
		profileURL sql.NullString
		createdAt  string
	)
	err := se.c.QueryRowContext(ctx,
		"SELECT id, email, name, profile_url, created_at FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Email, &u.Name, &profileURL, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.ProfileURL = profileURL.String
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &u, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func requireRows(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	out := "?"
	for i := 1; i < n; i++ {
		out += ", ?"
	}
	return out
}
