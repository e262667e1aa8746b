package loanpool

import (
	"math"
	"testing"
)

func absInt64(v int64) int64 {
	if v == math.MinInt64 {
		return math.MaxInt64
	}
	if v < 0 {
		return -v
	}
	return v
}

func FuzzDepositBorrowRepayWithdrawAmounts(f *testing.F) {
	f.Add(int64(1_000_000), int64(400_000), uint64(80))
	f.Add(int64(100), int64(59), uint64(80))
	f.Add(int64(42), int64(17), uint64(12))
	f.Add(int64(1), int64(1), uint64(70))

	f.Fuzz(func(t *testing.T, depositRaw, borrowRaw int64, score uint64) {
		deposit := uint64(absInt64(depositRaw)%1_000_000_000_000 + 1)
		borrow := uint64(absInt64(borrowRaw)%1_000_000_000_000 + 1)

		state := newMockEngineState()
		engine := NewEngine(makeAddress(0x01))
		engine.SetState(state)
		if err := engine.Initialize(Config{}); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		engine.SetNow(1_000)
		account := makeAddress(0x02)

		if _, err := engine.Deposit(account, deposit, inbound(account, engine, deposit)); err != nil {
			t.Fatalf("deposit of %d: %v", deposit, err)
		}

		_, err := engine.Borrow(account, borrow, &score)
		if err != nil {
			// A rejected borrow must leave the accepted deposit untouched.
			if state.pool.TotalBorrow != 0 || state.pool.TotalCollateral != deposit {
				t.Fatalf("rejected borrow mutated state: %+v", state.pool)
			}
			return
		}

		effectiveLTV := uint64(DefaultMaxLTVBps)
		if score >= creditScoreBoostThreshold {
			effectiveLTV += ltvBoostBps
		}
		if borrow > deposit*effectiveLTV/100 {
			t.Fatalf("borrow of %d accepted above ceiling for collateral %d", borrow, deposit)
		}
		if state.pool.TotalBorrow != state.sumDebt() {
			t.Fatalf("borrow invariant broken: %d vs %d", state.pool.TotalBorrow, state.sumDebt())
		}

		// Same-timestamp repay accrues nothing, so the principal settles exactly.
		if _, err := engine.Repay(account, inbound(account, engine, borrow)); err != nil {
			t.Fatalf("repay of %d: %v", borrow, err)
		}
		if _, err := engine.Withdraw(account, deposit); err != nil {
			t.Fatalf("withdraw of %d: %v", deposit, err)
		}

		if state.pool.TotalCollateral != 0 || state.pool.TotalBorrow != 0 {
			t.Fatalf("totals not restored: %+v", state.pool)
		}
		if state.sumCollateral() != 0 || state.sumDebt() != 0 {
			t.Fatalf("positions not restored")
		}
	})
}
