package events

import (
	"strconv"

	"fiducialens/core/types"
	"fiducialens/crypto"
)

const (
	// TypeLoanPoolDeposited is emitted when collateral is added to a position.
	TypeLoanPoolDeposited = "loanpool.deposited"
	// TypeLoanPoolBorrowed is emitted when a borrow succeeds.
	TypeLoanPoolBorrowed = "loanpool.borrowed"
	// TypeLoanPoolRepaid is emitted when a repayment is applied.
	TypeLoanPoolRepaid = "loanpool.repaid"
	// TypeLoanPoolWithdrawn is emitted when collateral is returned to its owner.
	TypeLoanPoolWithdrawn = "loanpool.withdrawn"
	// TypeLoanPoolLiquidated is emitted when an underwater position is closed.
	TypeLoanPoolLiquidated = "loanpool.liquidated"
	// TypeLoanPoolRegistered is emitted when an account opts in to the pool.
	TypeLoanPoolRegistered = "loanpool.registered"
)

// LoanPoolDeposited captures a collateral deposit.
type LoanPoolDeposited struct {
	Account crypto.Address
	Amount  uint64
}

// EventType satisfies the Event interface.
func (LoanPoolDeposited) EventType() string { return TypeLoanPoolDeposited }

// Event converts the structured payload into a broadcastable event.
func (e LoanPoolDeposited) Event() *types.Event {
	return &types.Event{
		Type: TypeLoanPoolDeposited,
		Attributes: map[string]string{
			"account": e.Account.String(),
			"amount":  formatAmount(e.Amount),
		},
	}
}

// LoanPoolBorrowed captures a successful borrow and the score it was priced with.
type LoanPoolBorrowed struct {
	Account     crypto.Address
	Amount      uint64
	CreditScore uint64
	ScoreSet    bool
}

// EventType satisfies the Event interface.
func (LoanPoolBorrowed) EventType() string { return TypeLoanPoolBorrowed }

// Event converts the structured payload into a broadcastable event.
func (e LoanPoolBorrowed) Event() *types.Event {
	attrs := map[string]string{
		"account": e.Account.String(),
		"amount":  formatAmount(e.Amount),
	}
	if e.ScoreSet {
		attrs["creditScore"] = formatAmount(e.CreditScore)
	}
	return &types.Event{Type: TypeLoanPoolBorrowed, Attributes: attrs}
}

// LoanPoolRepaid captures a repayment including the interest accrued since the
// last debt-affecting operation.
type LoanPoolRepaid struct {
	Account       crypto.Address
	Amount        uint64
	Accrued       uint64
	RemainingDebt uint64
}

// EventType satisfies the Event interface.
func (LoanPoolRepaid) EventType() string { return TypeLoanPoolRepaid }

// Event converts the structured payload into a broadcastable event.
func (e LoanPoolRepaid) Event() *types.Event {
	return &types.Event{
		Type: TypeLoanPoolRepaid,
		Attributes: map[string]string{
			"account":       e.Account.String(),
			"amount":        formatAmount(e.Amount),
			"accrued":       formatAmount(e.Accrued),
			"remainingDebt": formatAmount(e.RemainingDebt),
		},
	}
}

// LoanPoolWithdrawn captures a collateral withdrawal.
type LoanPoolWithdrawn struct {
	Account crypto.Address
	Amount  uint64
}

// EventType satisfies the Event interface.
func (LoanPoolWithdrawn) EventType() string { return TypeLoanPoolWithdrawn }

// Event converts the structured payload into a broadcastable event.
func (e LoanPoolWithdrawn) Event() *types.Event {
	return &types.Event{
		Type: TypeLoanPoolWithdrawn,
		Attributes: map[string]string{
			"account": e.Account.String(),
			"amount":  formatAmount(e.Amount),
		},
	}
}

// LoanPoolLiquidated captures the close-out of an underwater position.
type LoanPoolLiquidated struct {
	Liquidator crypto.Address
	Target     crypto.Address
	Penalty    uint64
	DebtClosed uint64
}

// EventType satisfies the Event interface.
func (LoanPoolLiquidated) EventType() string { return TypeLoanPoolLiquidated }

// Event converts the structured payload into a broadcastable event.
func (e LoanPoolLiquidated) Event() *types.Event {
	return &types.Event{
		Type: TypeLoanPoolLiquidated,
		Attributes: map[string]string{
			"liquidator": e.Liquidator.String(),
			"target":     e.Target.String(),
			"penalty":    formatAmount(e.Penalty),
			"debtClosed": formatAmount(e.DebtClosed),
		},
	}
}

// LoanPoolRegistered captures an account opting in to the pool.
type LoanPoolRegistered struct {
	Account crypto.Address
}

// EventType satisfies the Event interface.
func (LoanPoolRegistered) EventType() string { return TypeLoanPoolRegistered }

// Event converts the structured payload into a broadcastable event.
func (e LoanPoolRegistered) Event() *types.Event {
	return &types.Event{
		Type: TypeLoanPoolRegistered,
		Attributes: map[string]string{
			"account": e.Account.String(),
		},
	}
}

func formatAmount(v uint64) string {
	return strconv.FormatUint(v, 10)
}
