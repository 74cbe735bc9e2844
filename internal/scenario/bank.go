package scenario

import (
	"fmt"
	"io"

	"github.com/xgx-io/esm"
)

// KindInsufficientFunds is raised by a withdrawal larger than the balance.
var KindInsufficientFunds = esm.MustRegisterKind("insufficient_funds", esm.CategoryDomain)

// Account is a minimal bank account.
type Account struct {
	balance int
}

// NewAccount opens an account with the given balance.
func NewAccount(balance int) *Account {
	if balance < 0 {
		esm.Raisef(esm.KindInvalidArgument, "opening balance %d is negative", balance)
	}
	return &Account{balance: balance}
}

// Balance returns the current balance.
func (a *Account) Balance() int { return a.balance }

// Withdraw takes amount from the account. The balance is unchanged when it
// raises.
func (a *Account) Withdraw(amount int) {
	if amount <= 0 {
		esm.Raisef(esm.KindInvalidArgument, "withdrawal amount %d must be positive", amount)
	}
	if a.balance < amount {
		esm.Raisef(KindInsufficientFunds, "balance %d, requested %d", a.balance, amount)
	}
	a.balance -= amount
}

// TryWithdraw is Withdraw returning the failure instead of raising it.
func (a *Account) TryWithdraw(amount int) (err error) {
	defer esm.Recover(&err)
	a.Withdraw(amount)
	return nil
}

// Bank opens an account with balance and withdraws amount, handling a
// shortfall. It returns the final balance.
func Bank(w io.Writer, balance, amount int) int {
	acct := NewAccount(balance)
	esm.Run(func() {
		acct.Withdraw(amount)
		fmt.Fprintf(w, "withdrew %d, balance %d\n", amount, acct.Balance())
	}, esm.MustDeclare(esm.Catch(esm.OnKind(KindInsufficientFunds), func(e *esm.Error) struct{} {
		fmt.Fprintf(w, "error occurred: %v\n", e)
		return struct{}{}
	})), esm.Finally(func() {
		fmt.Fprintln(w, "program reached the end")
	}))
	return acct.Balance()
}
