package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransactionInput() TransactionInput {
	return TransactionInput{
		Amount:      decimal.NewFromInt(100),
		Currency:    CurrencyUSD,
		Type:        TxPayment,
		Status:      StatusCompleted,
		Description: "Grocery run at the market",
		Date:        time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, field, verr.Field)
}

// =============================================================================
// ACCOUNT INPUT
// =============================================================================

func TestCreateAccountInput_Validate(t *testing.T) {
	valid := CreateAccountInput{
		Name:    "Everyday Checking",
		Type:    AccountChecking,
		Balance: decimal.NewFromInt(1000),
	}
	assert.NoError(t, valid.validate())

	short := valid
	short.Name = "Ops"
	assertFieldError(t, short.validate(), "name")

	negative := valid
	negative.Balance = decimal.NewFromInt(-1)
	assertFieldError(t, negative.validate(), "balance")

	huge := valid
	huge.Balance = decimal.NewFromInt(100_000_001)
	assertFieldError(t, huge.validate(), "balance")

	badType := valid
	badType.Type = AccountType("OFFSHORE")
	assertFieldError(t, badType.validate(), "type")
}

// =============================================================================
// TRANSACTION INPUT
// =============================================================================

func TestTransactionInput_Validate_Bounds(t *testing.T) {
	assert.NoError(t, validTransactionInput().validate())

	tiny := validTransactionInput()
	tiny.Amount = decimal.RequireFromString("0.99")
	assertFieldError(t, tiny.validate(), "amount")

	huge := validTransactionInput()
	huge.Amount = decimal.NewFromInt(10_000_001)
	assertFieldError(t, huge.validate(), "amount")

	shortDesc := validTransactionInput()
	shortDesc.Description = "Coffee"
	assertFieldError(t, shortDesc.validate(), "description")

	noDate := validTransactionInput()
	noDate.Date = time.Time{}
	assertFieldError(t, noDate.validate(), "date")
}

func TestTransactionInput_Validate_RecurringNeedsInterval(t *testing.T) {
	in := validTransactionInput()
	in.IsRecurring = true

	assertFieldError(t, in.validate(), "recurring_interval")

	in.Interval = IntervalMonthly
	assert.NoError(t, in.validate())
}

func TestValidateBudgetAmount(t *testing.T) {
	assert.NoError(t, validateBudgetAmount(decimal.NewFromInt(1)))
	assert.NoError(t, validateBudgetAmount(decimal.NewFromInt(1_000_000_000)))
	assert.Error(t, validateBudgetAmount(decimal.Zero))
	assert.Error(t, validateBudgetAmount(decimal.NewFromInt(1_000_000_001)))
}
