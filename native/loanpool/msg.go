package loanpool

import (
	"fmt"

	"fiducialens/crypto"
)

// Msg is the closed set of operations the pool ledger accepts. Each variant
// carries its own typed argument payload; Engine.Execute dispatches over the
// set exhaustively so an unhandled operation cannot exist.
type Msg interface {
	isMsg()
}

// MsgDeposit adds collateral to the caller's position. It must be accompanied
// by an inbound transfer of exactly Amount to the pool.
type MsgDeposit struct {
	Amount uint64
}

// MsgBorrow draws Amount against the caller's collateral. CreditScore is
// optional; when present it is stored on the position and a score of 70 or
// above raises the loan-to-value ceiling.
type MsgBorrow struct {
	Amount      uint64
	CreditScore *uint64
}

// MsgRepay settles debt with the bundle's inbound transfer amount. Accrued
// interest is folded into the outstanding debt before the payment is applied.
type MsgRepay struct{}

// MsgWithdraw returns Amount of collateral to the caller. Only permitted while
// the position carries no debt.
type MsgWithdraw struct {
	Amount uint64
}

// MsgLiquidate closes out the target's underwater position, paying the caller
// a liquidation penalty.
type MsgLiquidate struct {
	Target crypto.Address
}

func (MsgDeposit) isMsg()   {}
func (MsgBorrow) isMsg()    {}
func (MsgRepay) isMsg()     {}
func (MsgWithdraw) isMsg()  {}
func (MsgLiquidate) isMsg() {}

// Receipt reports the observable outcome of a committed call.
type Receipt struct {
	// Outbound is the value transfer the hosting runtime must execute toward
	// the caller as part of the same atomic unit, or nil when the operation
	// moves no value out of the pool.
	Outbound *Transfer
}

// Execute dispatches a single call to its handler. Every call either commits
// a consistent new state or returns an error with no observable effect.
func (e *Engine) Execute(caller crypto.Address, msg Msg, bundle Bundle) (*Receipt, error) {
	switch m := msg.(type) {
	case MsgDeposit:
		return e.Deposit(caller, m.Amount, bundle)
	case MsgBorrow:
		return e.Borrow(caller, m.Amount, m.CreditScore)
	case MsgRepay:
		return e.Repay(caller, bundle)
	case MsgWithdraw:
		return e.Withdraw(caller, m.Amount)
	case MsgLiquidate:
		return e.Liquidate(caller, m.Target)
	default:
		return nil, fmt.Errorf("%w: unsupported operation %T", ErrInvalidArgument, msg)
	}
}
