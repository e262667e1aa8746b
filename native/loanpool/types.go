package loanpool

import "fiducialens/crypto"

// PoolState captures the global accounting state for the loan pool. Amounts
// are denominated in base value units and expressed as unsigned integers to
// match the hosting ledger's state encoding.
//
// Handler code mutates the totals exclusively through the checked delta
// methods below so that under- and overflow checks stay centralised; the
// fields remain exported for the state codec.
type PoolState struct {
	// TotalCollateral is the sum of collateral across all positions.
	TotalCollateral uint64
	// TotalBorrow tracks the outstanding principal borrowed across all
	// accounts.
	TotalBorrow uint64
	// MaxLTVBps is the base loan-to-value ceiling in percentage points.
	MaxLTVBps uint64
	// InterestRateBps is the nominal annual rate in percentage points. It is
	// informational; the accrual formula in Accrue is authoritative.
	InterestRateBps uint64
}

// Position maintains the pool record for an individual participant.
type Position struct {
	// Address is the unique account identity within the pool.
	Address crypto.Address
	// Collateral is the amount pledged as collateral for borrowing.
	Collateral uint64
	// Debt stores the outstanding principal; interest is folded in only at
	// repay time.
	Debt uint64
	// CreditScore is the last score supplied with a borrow. Advisory only.
	CreditScore uint64
	// LastInterestUpdate records the ledger time of the last debt-affecting
	// operation.
	LastInterestUpdate uint64
}

// Clone returns a deep copy of the pool state.
func (p *PoolState) Clone() *PoolState {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// Clone returns a deep copy of the position.
func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// AddCollateral applies a positive collateral delta to the pool totals.
func (p *PoolState) AddCollateral(amount uint64) error {
	total, err := checkedAdd(p.TotalCollateral, amount)
	if err != nil {
		return err
	}
	p.TotalCollateral = total
	return nil
}

// SubCollateral applies a negative collateral delta to the pool totals. A
// delta that would drive the total negative aborts with ErrInvariantViolation.
func (p *PoolState) SubCollateral(amount uint64) error {
	total, err := checkedSub(p.TotalCollateral, amount)
	if err != nil {
		return ErrInvariantViolation
	}
	p.TotalCollateral = total
	return nil
}

// AddBorrow applies a positive borrow delta to the pool totals.
func (p *PoolState) AddBorrow(amount uint64) error {
	total, err := checkedAdd(p.TotalBorrow, amount)
	if err != nil {
		return err
	}
	p.TotalBorrow = total
	return nil
}

// SubBorrow applies a negative borrow delta to the pool totals. A delta that
// would drive the total negative aborts with ErrInvariantViolation.
func (p *PoolState) SubBorrow(amount uint64) error {
	total, err := checkedSub(p.TotalBorrow, amount)
	if err != nil {
		return ErrInvariantViolation
	}
	p.TotalBorrow = total
	return nil
}
