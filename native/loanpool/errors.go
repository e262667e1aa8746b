package loanpool

import "errors"

var (
	errNilState = errors.New("loanpool engine: state not configured")
	errNilPool  = errors.New("loanpool engine: pool not initialised")
)

var (
	// ErrPoolExists is returned when initialisation is attempted twice.
	ErrPoolExists = errors.New("loanpool: pool already initialised")
	// ErrInvalidArgument covers non-positive amounts, malformed targets and
	// missing or mismatched companion transfers.
	ErrInvalidArgument = errors.New("loanpool: invalid argument")
	// ErrInsufficientCollateral is returned when a call needs more collateral
	// than the position holds.
	ErrInsufficientCollateral = errors.New("loanpool: insufficient collateral")
	// ErrLtvExceeded is returned when a borrow would breach the loan-to-value
	// ceiling.
	ErrLtvExceeded = errors.New("loanpool: borrow exceeds loan-to-value ceiling")
	// ErrOutstandingDebt is returned when a withdrawal is attempted while the
	// position still carries debt.
	ErrOutstandingDebt = errors.New("loanpool: outstanding debt")
	// ErrNotLiquidatable is returned when the targeted position is at or below
	// the loan-to-value ceiling, or holds no debt or collateral.
	ErrNotLiquidatable = errors.New("loanpool: position not eligible for liquidation")
	// ErrArithmeticOverflow is returned when a computation would exceed the
	// representable range. The call aborts; values never wrap or saturate.
	ErrArithmeticOverflow = errors.New("loanpool: arithmetic overflow")
	// ErrInvariantViolation is returned when a delta would drive a pool total
	// negative.
	ErrInvariantViolation = errors.New("loanpool: pool total would go negative")
	// ErrAlreadyRegistered is returned on a duplicate registration attempt.
	ErrAlreadyRegistered = errors.New("loanpool: account already registered")
)
