package loanpool

import "github.com/holiman/uint256"

// SecondsDivisor converts principal-seconds into accrued interest. It is
// 31_536_000 seconds per year scaled by a 20x precision multiplier, so a full
// year of elapsed time yields roughly 5% of principal with reduced truncation
// error.
const SecondsDivisor = 630_720_000

// Accrue computes the simple linear interest owed on principal between
// lastUpdate and now, both expressed as ledger timestamps in seconds.
//
// interest = principal * elapsed / SecondsDivisor, truncating toward zero.
// A zero principal or non-positive elapsed time yields zero. The numerator is
// computed at 256-bit width so it cannot silently wrap; the call fails with
// ErrArithmeticOverflow only when the final quotient no longer fits uint64.
func Accrue(principal, lastUpdate, now uint64) (uint64, error) {
	if principal == 0 || now <= lastUpdate {
		return 0, nil
	}
	elapsed := now - lastUpdate
	interest := new(uint256.Int).Mul(
		uint256.NewInt(principal),
		uint256.NewInt(elapsed),
	)
	interest.Div(interest, uint256.NewInt(SecondsDivisor))
	if !interest.IsUint64() {
		return 0, ErrArithmeticOverflow
	}
	return interest.Uint64(), nil
}
