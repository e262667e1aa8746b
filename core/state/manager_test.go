package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fiducialens/crypto"
	"fiducialens/native/loanpool"
	"fiducialens/storage"
)

func testAddress(t *testing.T, suffix byte) crypto.Address {
	t.Helper()
	raw := make([]byte, crypto.AddressLength)
	raw[len(raw)-1] = suffix
	return crypto.MustNewAddress(crypto.FidPrefix, raw)
}

func TestPoolStateRoundTrip(t *testing.T) {
	manager := NewManager(storage.NewMemDB())

	missing, err := manager.GetPool()
	require.NoError(t, err)
	require.Nil(t, missing)

	pool := &loanpool.PoolState{
		TotalCollateral: 1_000,
		TotalBorrow:     400,
		MaxLTVBps:       50,
		InterestRateBps: 5,
	}
	require.NoError(t, manager.PutPool(pool))

	loaded, err := manager.GetPool()
	require.NoError(t, err)
	require.Equal(t, pool, loaded)
}

func TestPositionRoundTrip(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	account := testAddress(t, 0x02)

	missing, err := manager.GetPosition(account)
	require.NoError(t, err)
	require.Nil(t, missing)

	position := &loanpool.Position{
		Address:            account,
		Collateral:         700,
		Debt:               150,
		CreditScore:        82,
		LastInterestUpdate: 1_700_000_000,
	}
	require.NoError(t, manager.PutPosition(position))

	loaded, err := manager.GetPosition(account)
	require.NoError(t, err)
	require.Equal(t, position.Collateral, loaded.Collateral)
	require.Equal(t, position.Debt, loaded.Debt)
	require.Equal(t, position.CreditScore, loaded.CreditScore)
	require.Equal(t, position.LastInterestUpdate, loaded.LastInterestUpdate)
	require.True(t, loaded.Address.Equal(account))
}

func TestPositionsAreKeyedPerAccount(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	alice := testAddress(t, 0x03)
	bob := testAddress(t, 0x04)

	require.NoError(t, manager.PutPosition(&loanpool.Position{Address: alice, Collateral: 10}))
	require.NoError(t, manager.PutPosition(&loanpool.Position{Address: bob, Collateral: 20}))

	loadedAlice, err := manager.GetPosition(alice)
	require.NoError(t, err)
	require.EqualValues(t, 10, loadedAlice.Collateral)

	loadedBob, err := manager.GetPosition(bob)
	require.NoError(t, err)
	require.EqualValues(t, 20, loadedBob.Collateral)
}

func TestManagerBacksEngine(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	engine := loanpool.NewEngine(testAddress(t, 0x01))
	engine.SetState(manager)
	require.NoError(t, engine.Initialize(loanpool.Config{}))

	account := testAddress(t, 0x05)
	require.NoError(t, engine.Register(account))

	_, err := engine.Deposit(account, 500, loanpool.Bundle{
		Transfer: &loanpool.Transfer{From: account, To: engine.PoolAddress(), Amount: 500},
	})
	require.NoError(t, err)

	_, err = engine.Borrow(account, 250, nil)
	require.NoError(t, err)

	pool, err := manager.GetPool()
	require.NoError(t, err)
	require.EqualValues(t, 500, pool.TotalCollateral)
	require.EqualValues(t, 250, pool.TotalBorrow)

	position, err := manager.GetPosition(account)
	require.NoError(t, err)
	require.EqualValues(t, 500, position.Collateral)
	require.EqualValues(t, 250, position.Debt)
}
