package loanpool

import (
	"errors"
	"math"
	"testing"
)

func TestPoolStateCheckedDeltas(t *testing.T) {
	pool := &PoolState{MaxLTVBps: DefaultMaxLTVBps}

	if err := pool.AddCollateral(100); err != nil {
		t.Fatalf("add collateral: %v", err)
	}
	if err := pool.SubCollateral(40); err != nil {
		t.Fatalf("sub collateral: %v", err)
	}
	if pool.TotalCollateral != 60 {
		t.Fatalf("unexpected total collateral: %d", pool.TotalCollateral)
	}

	if err := pool.SubCollateral(61); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}
	if pool.TotalCollateral != 60 {
		t.Fatalf("failed delta mutated total: %d", pool.TotalCollateral)
	}

	if err := pool.AddCollateral(math.MaxUint64); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}

	if err := pool.AddBorrow(30); err != nil {
		t.Fatalf("add borrow: %v", err)
	}
	if err := pool.SubBorrow(31); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}
	if err := pool.SubBorrow(30); err != nil {
		t.Fatalf("sub borrow: %v", err)
	}
	if pool.TotalBorrow != 0 {
		t.Fatalf("unexpected total borrow: %d", pool.TotalBorrow)
	}
}

func TestCheckedMathHelpers(t *testing.T) {
	if _, err := checkedAdd(math.MaxUint64, 1); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("add overflow not detected: %v", err)
	}
	if _, err := checkedSub(0, 1); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("sub underflow not detected: %v", err)
	}
	if _, err := checkedMul(math.MaxUint64, 2); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("mul overflow not detected: %v", err)
	}
	if got, err := checkedMul(1<<32, 1<<31); err != nil || got != 1<<63 {
		t.Fatalf("mul at boundary: got (%d, %v)", got, err)
	}
}

func TestClonesAreIndependent(t *testing.T) {
	pool := &PoolState{TotalCollateral: 10, TotalBorrow: 5, MaxLTVBps: 50, InterestRateBps: 5}
	clone := pool.Clone()
	clone.TotalCollateral = 99
	if pool.TotalCollateral != 10 {
		t.Fatalf("pool clone shares state")
	}

	position := &Position{Collateral: 7, Debt: 3}
	positionClone := position.Clone()
	positionClone.Debt = 42
	if position.Debt != 3 {
		t.Fatalf("position clone shares state")
	}
}

func TestConfigDefaultsAndValidation(t *testing.T) {
	cfg := Config{}
	cfg.EnsureDefaults()
	if cfg.MaxLTVBps != DefaultMaxLTVBps || cfg.InterestRateBps != DefaultInterestRateBps {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	if err := (Config{MaxLTVBps: 101, InterestRateBps: 5}).Validate(); err == nil {
		t.Fatal("expected validation failure for ceiling above 100")
	}
	if err := (Config{MaxLTVBps: 50, InterestRateBps: 101}).Validate(); err == nil {
		t.Fatal("expected validation failure for rate above 100")
	}
}
