package loanpool

import (
	"errors"
	"math"
	"testing"
)

func TestAccrueZeroCases(t *testing.T) {
	for _, principal := range []uint64{0, 1, 1_000_000, math.MaxUint64} {
		got, err := Accrue(principal, 500, 500)
		if err != nil || got != 0 {
			t.Fatalf("zero elapsed: got (%d, %v)", got, err)
		}
	}
	for _, elapsed := range []uint64{1, SecondsDivisor, math.MaxUint64 / 2} {
		got, err := Accrue(0, 0, elapsed)
		if err != nil || got != 0 {
			t.Fatalf("zero principal: got (%d, %v)", got, err)
		}
	}
	// Clock regression clamps elapsed time at zero rather than underflowing.
	if got, err := Accrue(1_000, 500, 100); err != nil || got != 0 {
		t.Fatalf("clock regression: got (%d, %v)", got, err)
	}
}

func TestAccrueLinearRate(t *testing.T) {
	// One full divisor period yields interest equal to the principal.
	got, err := Accrue(100, 0, SecondsDivisor)
	if err != nil {
		t.Fatalf("accrue: %v", err)
	}
	if got != 100 {
		t.Fatalf("unexpected interest: %d", got)
	}

	// One year of elapsed time yields 5% of principal.
	got, err = Accrue(1_000, 0, 31_536_000)
	if err != nil {
		t.Fatalf("accrue: %v", err)
	}
	if got != 50 {
		t.Fatalf("unexpected annual interest: %d", got)
	}
}

func TestAccrueTruncatesTowardZero(t *testing.T) {
	// principal * elapsed just below the divisor floors to zero.
	got, err := Accrue(1, 0, SecondsDivisor-1)
	if err != nil {
		t.Fatalf("accrue: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected truncation to zero, got %d", got)
	}
}

func TestAccrueAbortsWhenResultOverflows(t *testing.T) {
	_, err := Accrue(math.MaxUint64, 0, 2*SecondsDivisor)
	if !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}
}
