package state

import (
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"fiducialens/crypto"
	"fiducialens/native/loanpool"
	"fiducialens/storage"
)

// Manager reads and writes the pool ledger records in the hosting ledger's
// key-value state facility. Records are RLP encoded and stored under
// keccak-hashed, prefixed keys. It satisfies the loan pool engine's state
// interface.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided store.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

// poolRecord is the persisted form of the global pool state.
type poolRecord struct {
	TotalCollateral uint64
	TotalBorrow     uint64
	MaxLTVBps       uint64
	InterestRateBps uint64
}

// positionRecord is the persisted form of a participant position.
type positionRecord struct {
	Prefix             string
	Addr               []byte
	Collateral         uint64
	Debt               uint64
	CreditScore        uint64
	LastInterestUpdate uint64
}

func kvKey(key []byte) []byte {
	return ethcrypto.Keccak256(key)
}

func positionKey(addr crypto.Address) []byte {
	buf := make([]byte, len(loanPoolPositionPrefix)+len(addr.Bytes()))
	copy(buf, loanPoolPositionPrefix)
	copy(buf[len(loanPoolPositionPrefix):], addr.Bytes())
	return kvKey(buf)
}

// GetPool loads the global pool record, or nil when the pool has not been
// initialised yet.
func (m *Manager) GetPool() (*loanpool.PoolState, error) {
	data, err := m.db.Get(kvKey(loanPoolStateKey))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	record := new(poolRecord)
	if err := rlp.DecodeBytes(data, record); err != nil {
		return nil, fmt.Errorf("decode pool state: %w", err)
	}
	return &loanpool.PoolState{
		TotalCollateral: record.TotalCollateral,
		TotalBorrow:     record.TotalBorrow,
		MaxLTVBps:       record.MaxLTVBps,
		InterestRateBps: record.InterestRateBps,
	}, nil
}

// PutPool persists the global pool record.
func (m *Manager) PutPool(pool *loanpool.PoolState) error {
	if pool == nil {
		return fmt.Errorf("put pool state: nil record")
	}
	encoded, err := rlp.EncodeToBytes(&poolRecord{
		TotalCollateral: pool.TotalCollateral,
		TotalBorrow:     pool.TotalBorrow,
		MaxLTVBps:       pool.MaxLTVBps,
		InterestRateBps: pool.InterestRateBps,
	})
	if err != nil {
		return fmt.Errorf("encode pool state: %w", err)
	}
	return m.db.Put(kvKey(loanPoolStateKey), encoded)
}

// GetPosition loads the position for an account, or nil when the account has
// never registered.
func (m *Manager) GetPosition(addr crypto.Address) (*loanpool.Position, error) {
	data, err := m.db.Get(positionKey(addr))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	record := new(positionRecord)
	if err := rlp.DecodeBytes(data, record); err != nil {
		return nil, fmt.Errorf("decode position: %w", err)
	}
	stored, err := crypto.NewAddress(crypto.AddressPrefix(record.Prefix), record.Addr)
	if err != nil {
		return nil, fmt.Errorf("decode position address: %w", err)
	}
	return &loanpool.Position{
		Address:            stored,
		Collateral:         record.Collateral,
		Debt:               record.Debt,
		CreditScore:        record.CreditScore,
		LastInterestUpdate: record.LastInterestUpdate,
	}, nil
}

// PutPosition persists the position under its account key.
func (m *Manager) PutPosition(position *loanpool.Position) error {
	if position == nil {
		return fmt.Errorf("put position: nil record")
	}
	encoded, err := rlp.EncodeToBytes(&positionRecord{
		Prefix:             string(position.Address.Prefix()),
		Addr:               position.Address.Bytes(),
		Collateral:         position.Collateral,
		Debt:               position.Debt,
		CreditScore:        position.CreditScore,
		LastInterestUpdate: position.LastInterestUpdate,
	})
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}
	return m.db.Put(positionKey(position.Address), encoded)
}
