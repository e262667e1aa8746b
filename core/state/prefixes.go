package state

var (
	loanPoolStateKey       = []byte("loanpool/pool")
	loanPoolPositionPrefix = []byte("loanpool/position/")
)
