package loanpool

import (
	"fmt"

	"fiducialens/crypto"
)

// Transfer describes a single value movement accompanying a call. Inbound
// transfers are validated by the engine; outbound transfers are returned in
// the receipt for the hosting runtime to execute within the same atomic unit.
type Transfer struct {
	From   crypto.Address
	To     crypto.Address
	Amount uint64
}

// Bundle is the atomic submission handed to the engine: the call itself plus
// zero or one companion value transfer. It decouples the handler logic from
// any specific ledger's transaction-grouping mechanism.
type Bundle struct {
	Transfer *Transfer
}

// requireInbound validates that the bundle carries exactly one inbound
// transfer to the pool address and returns its amount.
func (b Bundle) requireInbound(pool crypto.Address) (uint64, error) {
	if b.Transfer == nil {
		return 0, fmt.Errorf("%w: companion transfer missing", ErrInvalidArgument)
	}
	if !b.Transfer.To.Equal(pool) {
		return 0, fmt.Errorf("%w: companion transfer receiver is not the pool", ErrInvalidArgument)
	}
	if b.Transfer.Amount == 0 {
		return 0, fmt.Errorf("%w: companion transfer amount must be positive", ErrInvalidArgument)
	}
	return b.Transfer.Amount, nil
}
