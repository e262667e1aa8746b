package loanpool

import (
	"fmt"

	"fiducialens/core/events"
	"fiducialens/crypto"
	nativecommon "fiducialens/native/common"
)

const moduleName = "loanpool"

const (
	// creditScoreBoostThreshold is the advisory score at or above which the
	// loan-to-value ceiling is raised for a borrow.
	creditScoreBoostThreshold = 70
	// ltvBoostBps is the ceiling increase granted to high-score borrowers, in
	// percentage points.
	ltvBoostBps = 10
	// liquidationPenaltyDivisor derives the liquidator's reward as a fraction
	// of the seized collateral.
	liquidationPenaltyDivisor = 10
)

type engineState interface {
	GetPool() (*PoolState, error)
	PutPool(pool *PoolState) error
	GetPosition(addr crypto.Address) (*Position, error)
	PutPosition(position *Position) error
}

// Engine executes the state transitions of the loan pool. It is invoked once
// per submitted call, in the serial order determined by the hosting ledger,
// and assumes that ordering as its only isolation mechanism. Every handler
// validates its preconditions in full before the first state write.
type Engine struct {
	state       engineState
	poolAddress crypto.Address
	now         uint64
	pauses      nativecommon.PauseView
	emitter     events.Emitter
}

// NewEngine constructs a loan pool engine. The pool address is the recipient
// all companion transfers must name.
func NewEngine(poolAddress crypto.Address) *Engine {
	return &Engine{poolAddress: poolAddress}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetPauses wires the module pause switches consulted before every mutation.
func (e *Engine) SetPauses(p nativecommon.PauseView) {
	if e == nil {
		return
	}
	e.pauses = p
}

// SetEmitter wires the emitter that receives one event per committed call.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if e == nil {
		return
	}
	e.emitter = emitter
}

// SetNow records the ledger timestamp, in seconds, that subsequent calls are
// evaluated at. The hosting runtime refreshes it once per transaction.
func (e *Engine) SetNow(now uint64) {
	if e == nil {
		return
	}
	e.now = now
}

// PoolAddress returns the address companion transfers must be paid to.
func (e *Engine) PoolAddress() crypto.Address {
	return e.poolAddress
}

// Initialize creates the global pool record with the configured ceiling and
// rate. It runs exactly once per pool; a second call fails with ErrPoolExists.
func (e *Engine) Initialize(cfg Config) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	cfg.EnsureDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	existing, err := e.state.GetPool()
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrPoolExists
	}
	return e.state.PutPool(&PoolState{
		MaxLTVBps:       cfg.MaxLTVBps,
		InterestRateBps: cfg.InterestRateBps,
	})
}

// Register opts an account in to the pool by creating its zero-valued
// position. Registering twice fails with ErrAlreadyRegistered.
func (e *Engine) Register(addr crypto.Address) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	existing, err := e.state.GetPosition(addr)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyRegistered
	}
	if err := e.state.PutPosition(&Position{Address: addr}); err != nil {
		return err
	}
	e.emit(events.LoanPoolRegistered{Account: addr})
	return nil
}

// Deposit adds collateral to the caller's position. The bundle must carry an
// inbound transfer of exactly amount to the pool address.
func (e *Engine) Deposit(caller crypto.Address, amount uint64, bundle Bundle) (*Receipt, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}
	inbound, err := e.requireInbound(bundle)
	if err != nil {
		return nil, err
	}
	if inbound != amount {
		return nil, fmt.Errorf("%w: companion transfer of %d does not match deposit of %d", ErrInvalidArgument, inbound, amount)
	}

	pool, err := e.ensurePool()
	if err != nil {
		return nil, err
	}
	position, err := e.ensurePosition(caller)
	if err != nil {
		return nil, err
	}

	if err := pool.AddCollateral(amount); err != nil {
		return nil, err
	}
	collateral, err := checkedAdd(position.Collateral, amount)
	if err != nil {
		return nil, err
	}
	position.Collateral = collateral

	if err := e.persist(pool, position); err != nil {
		return nil, err
	}
	e.emit(events.LoanPoolDeposited{Account: caller, Amount: amount})
	return &Receipt{}, nil
}

// Borrow draws amount against the caller's collateral and instructs the host
// to pay it out. A credit score of creditScoreBoostThreshold or above raises
// the effective loan-to-value ceiling by ltvBoostBps percentage points.
func (e *Engine) Borrow(caller crypto.Address, amount uint64, creditScore *uint64) (*Receipt, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}

	pool, err := e.ensurePool()
	if err != nil {
		return nil, err
	}
	position, err := e.ensurePosition(caller)
	if err != nil {
		return nil, err
	}
	if position.Collateral == 0 {
		return nil, ErrInsufficientCollateral
	}

	effectiveLTV := pool.MaxLTVBps
	if creditScore != nil && *creditScore >= creditScoreBoostThreshold {
		effectiveLTV += ltvBoostBps
	}
	scaled, err := checkedMul(position.Collateral, effectiveLTV)
	if err != nil {
		return nil, err
	}
	maxBorrow := scaled / 100

	projectedDebt, err := checkedAdd(position.Debt, amount)
	if err != nil {
		return nil, err
	}
	if projectedDebt > maxBorrow {
		return nil, ErrLtvExceeded
	}

	if err := pool.AddBorrow(amount); err != nil {
		return nil, err
	}
	if creditScore != nil {
		position.CreditScore = *creditScore
	}
	position.Debt = projectedDebt
	position.LastInterestUpdate = e.now

	if err := e.persist(pool, position); err != nil {
		return nil, err
	}
	e.emit(events.LoanPoolBorrowed{
		Account:     caller,
		Amount:      amount,
		CreditScore: position.CreditScore,
		ScoreSet:    creditScore != nil,
	})
	return &Receipt{Outbound: &Transfer{From: e.poolAddress, To: caller, Amount: amount}}, nil
}

// Repay settles the caller's debt with the bundle's inbound transfer. Interest
// accrued since the last debt-affecting operation is folded into the
// outstanding debt before the payment is applied.
func (e *Engine) Repay(caller crypto.Address, bundle Bundle) (*Receipt, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	repayAmount, err := e.requireInbound(bundle)
	if err != nil {
		return nil, err
	}

	pool, err := e.ensurePool()
	if err != nil {
		return nil, err
	}
	position, err := e.ensurePosition(caller)
	if err != nil {
		return nil, err
	}

	accrued, err := Accrue(position.Debt, position.LastInterestUpdate, e.now)
	if err != nil {
		return nil, err
	}
	totalDebt, err := checkedAdd(position.Debt, accrued)
	if err != nil {
		return nil, err
	}
	if repayAmount > totalDebt {
		return nil, fmt.Errorf("%w: repayment of %d exceeds outstanding debt of %d", ErrInvalidArgument, repayAmount, totalDebt)
	}

	if err := pool.SubBorrow(repayAmount); err != nil {
		return nil, err
	}
	position.Debt = totalDebt - repayAmount
	position.LastInterestUpdate = e.now

	if err := e.persist(pool, position); err != nil {
		return nil, err
	}
	e.emit(events.LoanPoolRepaid{
		Account:       caller,
		Amount:        repayAmount,
		Accrued:       accrued,
		RemainingDebt: position.Debt,
	})
	return &Receipt{}, nil
}

// Withdraw returns amount of collateral to the caller. It never executes while
// the position carries debt.
func (e *Engine) Withdraw(caller crypto.Address, amount uint64) (*Receipt, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}

	pool, err := e.ensurePool()
	if err != nil {
		return nil, err
	}
	position, err := e.ensurePosition(caller)
	if err != nil {
		return nil, err
	}
	if position.Debt != 0 {
		return nil, ErrOutstandingDebt
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}
	if amount > position.Collateral {
		return nil, ErrInsufficientCollateral
	}

	if err := pool.SubCollateral(amount); err != nil {
		return nil, err
	}
	position.Collateral -= amount

	if err := e.persist(pool, position); err != nil {
		return nil, err
	}
	e.emit(events.LoanPoolWithdrawn{Account: caller, Amount: amount})
	return &Receipt{Outbound: &Transfer{From: e.poolAddress, To: caller, Amount: amount}}, nil
}

// Liquidate closes out the target's position once its loan-to-value ratio has
// crossed the ceiling, paying the caller one tenth of the seized collateral.
//
// The eligibility check runs on the recorded principal; interest is
// deliberately not re-accrued here. Only the penalty leaves the pool: the rest
// of the seized collateral is retained against the cancelled debt and remains
// counted in TotalCollateral even though no live position backs it, so after
// any liquidation TotalCollateral exceeds the sum of positions by exactly
// collateral - penalty.
func (e *Engine) Liquidate(caller, target crypto.Address) (*Receipt, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if target.IsZero() {
		return nil, fmt.Errorf("%w: liquidation target not set", ErrInvalidArgument)
	}

	pool, err := e.ensurePool()
	if err != nil {
		return nil, err
	}
	position, err := e.ensurePosition(target)
	if err != nil {
		return nil, err
	}
	if position.Debt == 0 || position.Collateral == 0 {
		return nil, ErrNotLiquidatable
	}

	scaledDebt, err := checkedMul(position.Debt, 100)
	if err != nil {
		return nil, err
	}
	currentLTV := scaledDebt / position.Collateral
	if currentLTV <= pool.MaxLTVBps {
		return nil, ErrNotLiquidatable
	}

	penalty := position.Collateral / liquidationPenaltyDivisor
	debtClosed := position.Debt

	if err := pool.SubCollateral(penalty); err != nil {
		return nil, err
	}
	if err := pool.SubBorrow(debtClosed); err != nil {
		return nil, err
	}
	position.Collateral = 0
	position.Debt = 0

	if err := e.persist(pool, position); err != nil {
		return nil, err
	}
	e.emit(events.LoanPoolLiquidated{
		Liquidator: caller,
		Target:     target,
		Penalty:    penalty,
		DebtClosed: debtClosed,
	})
	return &Receipt{Outbound: &Transfer{From: e.poolAddress, To: caller, Amount: penalty}}, nil
}

// Pool returns a copy of the global pool record.
func (e *Engine) Pool() (*PoolState, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.ensurePool()
}

// PositionOf returns a copy of the account's position. Accounts that never
// registered are reported as the zero-valued record.
func (e *Engine) PositionOf(addr crypto.Address) (*Position, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.ensurePosition(addr)
}

func (e *Engine) requireInbound(bundle Bundle) (uint64, error) {
	return bundle.requireInbound(e.poolAddress)
}

// ensurePool loads a private copy of the pool record so a failed call leaves
// the stored state untouched.
func (e *Engine) ensurePool() (*PoolState, error) {
	pool, err := e.state.GetPool()
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, errNilPool
	}
	return pool.Clone(), nil
}

// ensurePosition loads a private copy of the account's position, substituting
// the zero-valued record for accounts that never registered.
func (e *Engine) ensurePosition(addr crypto.Address) (*Position, error) {
	position, err := e.state.GetPosition(addr)
	if err != nil {
		return nil, err
	}
	if position == nil {
		return &Position{Address: addr}, nil
	}
	return position.Clone(), nil
}

func (e *Engine) persist(pool *PoolState, position *Position) error {
	if err := e.state.PutPool(pool); err != nil {
		return err
	}
	return e.state.PutPosition(position)
}

func (e *Engine) emit(event events.Event) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(event)
}
