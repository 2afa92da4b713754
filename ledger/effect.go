/*
effect.go - Signed balance deltas per transaction type

PURPOSE:
  Pure mapping from a transaction type + positive amount to the signed
  delta it applies to an account balance, and the exact inverse used
  when a transaction is edited or reversed.

CONTRACT:
  DEPOSIT, REFUND                  -> +amount
  WITHDRAWAL, TRANSFER, PAYMENT    -> -amount
  anything else                    ->  0 (unknown types never move a balance)

  Reverse(t, Apply(t, b, a), a) == b for every type and amount.

SEE ALSO:
  - service.go: Applies effects inside the store's atomic unit
  - recurrence.go: The orchestrator applies the forward effect of clones
*/
package ledger

import "github.com/shopspring/decimal"

// EffectOf returns the signed balance delta for a transaction type.
// Total over the enum domain: unknown types map to zero.
func EffectOf(t TransactionType, amount decimal.Decimal) decimal.Decimal {
	switch t {
	case TxDeposit, TxRefund:
		return amount.Abs()
	case TxWithdrawal, TxTransfer, TxPayment:
		return amount.Abs().Neg()
	default:
		return decimal.Zero
	}
}

// Apply returns the balance after a transaction's effect.
func Apply(t TransactionType, balance, amount decimal.Decimal) decimal.Decimal {
	return balance.Add(EffectOf(t, amount))
}

// Reverse returns the balance an account had before a transaction's
// effect was applied. It is the algebraic inverse of Apply.
func Reverse(t TransactionType, balance, amount decimal.Decimal) decimal.Decimal {
	return balance.Sub(EffectOf(t, amount))
}

// IsIncome reports whether a type increases the balance.
func IsIncome(t TransactionType) bool {
	return t == TxDeposit || t == TxRefund
}

// IsExpense reports whether a type decreases the balance.
func IsExpense(t TransactionType) bool {
	return t == TxWithdrawal || t == TxTransfer || t == TxPayment
}
