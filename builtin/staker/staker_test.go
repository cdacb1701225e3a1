// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xylabs/xl1-ledger/builtin/staker/reverts"
	"github.com/xylabs/xl1-ledger/test/datagen"
	"github.com/xylabs/xl1-ledger/xl1"
)

func TestStaker_Initialize(t *testing.T) {
	env := newTestEnv(t)

	params, err := env.staker.Params()
	require.NoError(t, err)
	assert.Equal(t, env.owner, params.Owner)
	assert.Equal(t, tokenAddr, params.Token)
	assert.Equal(t, uint32(3), params.MinWithdrawalBlocks)
	assert.Equal(t, uint64(10), params.MaxStakersPerAddress)
	assert.Equal(t, xl1.NetworkStakingAddress, params.UnlimitedStakerAddress)
	assert.Equal(t, "3", params.MinStake.String())

	err = env.staker.Initialize(DefaultParams(env.owner, tokenAddr))
	assert.ErrorContains(t, err, "already initialized")
}

func TestStaker_AddRemoveWithdraw(t *testing.T) {
	env := newTestEnv(t)
	staker := datagen.RandAddress()
	staked := datagen.RandAddress()
	amount := big.NewInt(1000)

	env.fund(t, staker, amount)

	id, err := env.staker.AddStake(staker, staked, amount)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)
	assert.Equal(t, "0", env.balance(t, staker).String())
	assert.Equal(t, "1000", env.balance(t, stakingAddr).String())

	AssertGlobal(env.staker).Active(1000).Pending(0).Assert(t)
	AssertStaker(env.staker, staker).Active(1000).Assert(t)
	AssertStaked(env.staker, staked).Active(1000).Assert(t)

	stake, err := env.staker.GetStake(staker, 0)
	require.NoError(t, err)
	assert.Equal(t, staked, stake.Staked)
	assert.Equal(t, uint32(1), stake.AddBlock)
	assert.True(t, stake.IsActive())

	env.clock.Advance(1)
	require.NoError(t, env.staker.RemoveStake(staker, 0))
	AssertGlobal(env.staker).Active(0).Pending(1000).Assert(t)
	AssertStaker(env.staker, staker).Active(0).Pending(1000).Assert(t)

	_, err = env.staker.WithdrawStake(staker, 0)
	assert.ErrorIs(t, err, reverts.ErrNotWithdrawable)

	env.clock.Advance(2)
	_, err = env.staker.WithdrawStake(staker, 0)
	assert.ErrorIs(t, err, reverts.ErrNotWithdrawable)

	env.clock.Advance(1)
	withdrawn, err := env.staker.WithdrawStake(staker, 0)
	require.NoError(t, err)
	assert.Equal(t, "1000", withdrawn.String())
	assert.Equal(t, "1000", env.balance(t, staker).String())

	AssertGlobal(env.staker).Active(0).Pending(0).Withdrawn(1000).Assert(t)
	AssertStaker(env.staker, staker).Active(0).Pending(0).Withdrawn(1000).Assert(t)
	AssertStaked(env.staker, staked).Active(0).Pending(0).Withdrawn(1000).Assert(t)

	// the original amount stays queryable
	original, err := env.staker.GetAccountStakeBySlot(staker, 0)
	require.NoError(t, err)
	assert.Equal(t, "1000", original.String())

	_, err = env.staker.WithdrawStake(staker, 0)
	assert.ErrorIs(t, err, reverts.ErrNotWithdrawable)

	assert.Equal(t, []string{EventStakeAdded, EventStakeRemoved, EventStakeWithdrawn}, env.eventNames())
}

func TestStaker_AddStakeRejections(t *testing.T) {
	env := newTestEnv(t)
	staker := datagen.RandAddress()
	staked := datagen.RandAddress()

	_, err := env.staker.AddStake(staker, staked, big.NewInt(0))
	assert.ErrorIs(t, err, reverts.ErrInvalidAmount)
	assert.Equal(t, reverts.InvalidAmount, reverts.KindOf(err))

	_, err = env.staker.AddStake(staker, staked, big.NewInt(-1))
	assert.ErrorIs(t, err, reverts.ErrInvalidAmount)

	// no allowance
	_, err = env.staker.AddStake(staker, staked, big.NewInt(10))
	assert.ErrorIs(t, err, reverts.ErrAllowanceExceeded)
	assert.Equal(t, reverts.InsufficientFunds, reverts.KindOf(err))

	// allowance without balance
	require.NoError(t, env.token.Approve(staker, stakingAddr, big.NewInt(10)))
	_, err = env.staker.AddStake(staker, staked, big.NewInt(10))
	assert.ErrorIs(t, err, reverts.ErrExceedsBalance)

	count, err := env.staker.StakeCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
	AssertGlobal(env.staker).Active(0).Assert(t)
	assert.Empty(t, env.events)
}

func TestStaker_RemoveStakeRejections(t *testing.T) {
	env := newTestEnv(t)
	staker := datagen.RandAddress()
	staked := datagen.RandAddress()

	err := env.staker.RemoveStake(staker, 0)
	assert.ErrorIs(t, err, reverts.ErrStakeNotFound)

	NewSequence(env).
		Fund(staker, big.NewInt(100)).
		AddStake(staker, staked, big.NewInt(100)).
		RemoveStake(staker, 0).
		Run(t)

	err = env.staker.RemoveStake(staker, 0)
	assert.ErrorIs(t, err, reverts.ErrNotRemovable)

	err = env.staker.RemoveStake(staker, 1)
	assert.ErrorIs(t, err, reverts.ErrStakeNotFound)

	_, err = env.staker.WithdrawStake(staker, 1)
	assert.ErrorIs(t, err, reverts.ErrStakeNotFound)

	AssertGlobal(env.staker).Active(0).Pending(100).Assert(t)
}

func TestStaker_WithdrawActiveStake(t *testing.T) {
	env := newTestEnv(t)
	staker := datagen.RandAddress()

	NewSequence(env).
		Fund(staker, big.NewInt(100)).
		AddStake(staker, staker, big.NewInt(100)).
		Advance(10).
		Run(t)

	_, err := env.staker.WithdrawStake(staker, 0)
	assert.ErrorIs(t, err, reverts.ErrNotWithdrawable)
}

func TestStaker_SlotsAndIDs(t *testing.T) {
	env := newTestEnv(t)
	a := datagen.RandAddress()
	b := datagen.RandAddress()
	staked := datagen.RandAddress()

	NewSequence(env).
		Fund(a, big.NewInt(300)).
		Fund(b, big.NewInt(300)).
		AddStake(a, staked, big.NewInt(100)).
		AddStake(b, staked, big.NewInt(100)).
		AddStake(a, b, big.NewInt(50)).
		Run(t)

	stake, err := env.staker.GetStake(a, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stake.ID)
	assert.Equal(t, b, stake.Staked)

	byID, err := env.staker.GetStakeByID(1)
	require.NoError(t, err)
	assert.Equal(t, b, byID.Staker)
	assert.Equal(t, uint64(0), byID.Slot)

	_, err = env.staker.GetStakeByID(3)
	assert.ErrorIs(t, err, reverts.ErrStakeNotFound)
	_, err = env.staker.GetAccountStakeBySlot(b, 1)
	assert.ErrorIs(t, err, reverts.ErrStakeNotFound)

	n, err := env.staker.StakeCountForStaker(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	n, err = env.staker.GetStakeCountForAddress(staked)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	all, err := env.staker.StakesByStaker(a)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, uint64(0), all[0].ID)
	assert.Equal(t, uint64(2), all[1].ID)

	onStaked, err := env.staker.StakesByStaked(staked)
	require.NoError(t, err)
	require.Len(t, onStaked, 2)

	AssertStaker(env.staker, a).Active(150).Assert(t)
	AssertStaked(env.staker, staked).Active(200).Assert(t)
	AssertStaked(env.staker, b).Active(50).Assert(t)
}

func TestStaker_QueriesUnknownAddress(t *testing.T) {
	env := newTestEnv(t)
	unknown := datagen.RandAddress()

	for _, fn := range []func(xl1.Address) (*big.Int, error){
		env.staker.ActiveByStaker,
		env.staker.PendingByStaker,
		env.staker.WithdrawnByStaker,
		env.staker.SlashedByStaker,
		env.staker.ActiveByAddressStaked,
		env.staker.PendingByAddressStaked,
	} {
		v, err := fn(unknown)
		require.NoError(t, err)
		assert.Equal(t, 0, v.Sign())
	}
	for _, fn := range []func() (*big.Int, error){
		env.staker.Active,
		env.staker.Pending,
		env.staker.Withdrawn,
		env.staker.Slashed,
		env.staker.Evicted,
	} {
		v, err := fn()
		require.NoError(t, err)
		assert.Equal(t, 0, v.Sign())
	}
}

func TestStaker_Slash(t *testing.T) {
	amount := xl1.Tokens(1000)
	half := new(big.Int).Quo(amount, big.NewInt(2))
	quarter := new(big.Int).Quo(amount, big.NewInt(4))

	t.Run("less than staked", func(t *testing.T) {
		env := newTestEnv(t)
		staker, staked := datagen.RandAddress(), datagen.RandAddress()
		NewSequence(env).Fund(staker, amount).AddStake(staker, staked, amount).Run(t)

		slashed, err := env.staker.SlashStake(env.owner, staked, half)
		require.NoError(t, err)
		assert.Equal(t, half.String(), slashed.String())

		got, _ := env.staker.Slashed()
		assert.Equal(t, half.String(), got.String())
		got, _ = env.staker.ActiveByStaker(staker)
		assert.Equal(t, half.String(), got.String())
		got, _ = env.staker.ActiveByAddressStaked(staked)
		assert.Equal(t, half.String(), got.String())
		got, _ = env.staker.SlashedByStaker(staker)
		assert.Equal(t, half.String(), got.String())
		assert.Equal(t, EventStakeSlashed, env.events[len(env.events)-1].Name)
	})

	t.Run("more than staked", func(t *testing.T) {
		env := newTestEnv(t)
		staker, staked := datagen.RandAddress(), datagen.RandAddress()
		NewSequence(env).Fund(staker, amount).AddStake(staker, staked, amount).Run(t)

		slashed, err := env.staker.SlashStake(env.owner, staked, new(big.Int).Mul(amount, big.NewInt(2)))
		require.NoError(t, err)
		assert.Equal(t, amount.String(), slashed.String())

		got, _ := env.staker.Slashed()
		assert.Equal(t, amount.String(), got.String())
		got, _ = env.staker.ActiveByAddressStaked(staked)
		assert.Equal(t, 0, got.Sign())

		n, err := env.staker.GetStakeCountForAddress(staked)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), n)

		_, err = env.staker.SlashStake(env.owner, staked, big.NewInt(1))
		assert.ErrorIs(t, err, reverts.ErrAddressNotStaked)
	})

	t.Run("only pending", func(t *testing.T) {
		env := newTestEnv(t)
		staker, staked := datagen.RandAddress(), datagen.RandAddress()
		NewSequence(env).
			Fund(staker, amount).
			AddStake(staker, staked, amount).
			RemoveStake(staker, 0).
			Slash(staked, half).
			Run(t)

		AssertGlobal(env.staker).Active(0).Assert(t)
		got, _ := env.staker.Pending()
		assert.Equal(t, half.String(), got.String())
		got, _ = env.staker.ActiveByStaker(staker)
		assert.Equal(t, 0, got.Sign())

		// the slashed remainder is what comes back
		env.clock.Advance(3)
		withdrawn, err := env.staker.WithdrawStake(staker, 0)
		require.NoError(t, err)
		assert.Equal(t, half.String(), withdrawn.String())
		assert.Equal(t, half.String(), env.balance(t, staker).String())
	})

	t.Run("equal active and pending", func(t *testing.T) {
		env := newTestEnv(t)
		staker, staked := datagen.RandAddress(), datagen.RandAddress()
		NewSequence(env).
			Fund(staker, amount).
			AddStake(staker, staked, half).
			AddStake(staker, staked, half).
			RemoveStake(staker, 0).
			Slash(staked, half).
			Run(t)

		for _, fn := range []func() (*big.Int, error){env.staker.Active, env.staker.Pending} {
			got, err := fn()
			require.NoError(t, err)
			assert.Equal(t, quarter.String(), got.String())
		}
		got, _ := env.staker.ActiveByStaker(staker)
		assert.Equal(t, quarter.String(), got.String())
		got, _ = env.staker.ActiveByAddressStaked(staked)
		assert.Equal(t, quarter.String(), got.String())
	})

	t.Run("remainder goes in id order", func(t *testing.T) {
		env := newTestEnv(t)
		a, b, staked := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()
		NewSequence(env).
			Fund(a, big.NewInt(10)).
			Fund(b, big.NewInt(10)).
			AddStake(a, staked, big.NewInt(10)).
			AddStake(b, staked, big.NewInt(10)).
			Slash(staked, big.NewInt(3)).
			Run(t)

		first, _ := env.staker.GetStakeByID(0)
		second, _ := env.staker.GetStakeByID(1)
		assert.Equal(t, "2", first.Slashed.String())
		assert.Equal(t, "1", second.Slashed.String())
		AssertStaked(env.staker, staked).Active(17).Slashed(3).Assert(t)
	})

	t.Run("rejections", func(t *testing.T) {
		env := newTestEnv(t)
		staker, staked := datagen.RandAddress(), datagen.RandAddress()
		NewSequence(env).Fund(staker, amount).AddStake(staker, staked, amount).Run(t)

		_, err := env.staker.SlashStake(staker, staked, half)
		assert.ErrorIs(t, err, reverts.ErrNotOwner)
		assert.Equal(t, reverts.Unauthorized, reverts.KindOf(err))

		_, err = env.staker.SlashStake(env.owner, datagen.RandAddress(), half)
		assert.ErrorIs(t, err, reverts.ErrAddressNotStaked)

		_, err = env.staker.SlashStake(env.owner, staked, big.NewInt(0))
		assert.ErrorIs(t, err, reverts.ErrInvalidAmount)

		got, _ := env.staker.Slashed()
		assert.Equal(t, 0, got.Sign())
	})
}

func TestStaker_SlashKeepsCustody(t *testing.T) {
	env := newTestEnv(t)
	staker, staked := datagen.RandAddress(), datagen.RandAddress()
	NewSequence(env).
		Fund(staker, big.NewInt(300)).
		AddStake(staker, staked, big.NewInt(100)).
		AddStake(staker, staked, big.NewInt(100)).
		AddStake(staker, staked, big.NewInt(100)).
		RemoveStake(staker, 0).
		Run(t)

	slashed, err := env.staker.SlashStake(env.owner, staked, big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, "7", slashed.String())

	// 7*100/300 rounds down to 2 each, the remaining unit goes to the lowest id
	pending, _ := env.staker.GetStake(staker, 0)
	assert.Equal(t, "3", pending.Slashed.String())
	AssertGlobal(env.staker).Active(196).Pending(97).Slashed(7).Assert(t)
	assert.Equal(t, "300", env.balance(t, stakingAddr).String())
}

func TestStaker_SlashWithdrawnStakeUntouched(t *testing.T) {
	env := newTestEnv(t)
	staker, staked := datagen.RandAddress(), datagen.RandAddress()
	NewSequence(env).
		Fund(staker, big.NewInt(200)).
		AddStake(staker, staked, big.NewInt(100)).
		AddStake(staker, staked, big.NewInt(100)).
		RemoveStake(staker, 0).
		Advance(3).
		Withdraw(staker, 0).
		Slash(staked, big.NewInt(1000)).
		Run(t)

	withdrawn, _ := env.staker.GetStake(staker, 0)
	assert.Equal(t, 0, withdrawn.Slashed.Sign())
	AssertStaked(env.staker, staked).Active(0).Pending(0).Withdrawn(100).Slashed(100).Assert(t)
}

func TestStaker_Eviction(t *testing.T) {
	env := newTestEnvWith(t, func(p *Params) { p.MaxStakersPerAddress = 3 })
	staked := datagen.RandAddress()
	stakers := datagen.RandAddresses(4)

	seq := NewSequence(env)
	for i, s := range stakers {
		amount := big.NewInt(int64(100 * (i + 1)))
		seq.Fund(s, amount).AddStake(s, staked, amount)
	}
	seq.Run(t)

	n, err := env.staker.GetStakeCountForAddress(staked)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	members, err := env.staker.StakersOf(staked)
	require.NoError(t, err)
	assert.Equal(t, stakers[1:], members)

	// the smallest staker was refunded in full
	assert.Equal(t, "100", env.balance(t, stakers[0]).String())
	stake, err := env.staker.GetStake(stakers[0], 0)
	require.NoError(t, err)
	assert.True(t, stake.Evicted)
	assert.True(t, stake.IsWithdrawn())
	assert.Equal(t, stake.RemoveBlock, stake.WithdrawBlock)

	AssertGlobal(env.staker).Active(900).Pending(0).Withdrawn(0).Evicted(100).Assert(t)
	AssertStaker(env.staker, stakers[0]).Active(0).Evicted(100).Assert(t)
	assert.Equal(t, EventStakeEvicted, env.events[len(env.events)-1].Name)
}

func TestStaker_EvictionNewcomerAndTies(t *testing.T) {
	env := newTestEnvWith(t, func(p *Params) { p.MaxStakersPerAddress = 2 })
	staked := datagen.RandAddress()
	a, b, c := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()

	NewSequence(env).
		Fund(a, big.NewInt(50)).
		Fund(b, big.NewInt(50)).
		Fund(c, big.NewInt(10)).
		AddStake(a, staked, big.NewInt(50)).
		AddStake(b, staked, big.NewInt(50)).
		AddStake(c, staked, big.NewInt(10)).
		Run(t)

	// the newcomer is the smallest and goes straight back
	members, err := env.staker.StakersOf(staked)
	require.NoError(t, err)
	assert.Equal(t, []xl1.Address{a, b}, members)
	assert.Equal(t, "10", env.balance(t, c).String())

	d := datagen.RandAddress()
	NewSequence(env).
		Fund(d, big.NewInt(50)).
		AddStake(d, staked, big.NewInt(50)).
		Run(t)

	// ties evict the earliest inserted
	members, err = env.staker.StakersOf(staked)
	require.NoError(t, err)
	assert.Equal(t, []xl1.Address{b, d}, members)
	assert.Equal(t, "50", env.balance(t, a).String())
}

func TestStaker_EvictionAllStakesOfVictim(t *testing.T) {
	env := newTestEnvWith(t, func(p *Params) { p.MaxStakersPerAddress = 1 })
	staked := datagen.RandAddress()
	a, b := datagen.RandAddress(), datagen.RandAddress()

	NewSequence(env).
		Fund(a, big.NewInt(60)).
		Fund(b, big.NewInt(100)).
		AddStake(a, staked, big.NewInt(30)).
		AddStake(a, staked, big.NewInt(30)).
		AddStake(b, staked, big.NewInt(100)).
		Run(t)

	assert.Equal(t, "60", env.balance(t, a).String())
	AssertStaked(env.staker, staked).Active(100).Evicted(60).Assert(t)
	for slot := range uint64(2) {
		s, err := env.staker.GetStake(a, slot)
		require.NoError(t, err)
		assert.True(t, s.Evicted)
	}
}

func TestStaker_UnlimitedStakerAddress(t *testing.T) {
	env := newTestEnvWith(t, func(p *Params) { p.MaxStakersPerAddress = 1 })
	unlimited := xl1.NetworkStakingAddress

	seq := NewSequence(env)
	for _, s := range datagen.RandAddresses(5) {
		seq.Fund(s, big.NewInt(10)).AddStake(s, unlimited, big.NewInt(10))
	}
	seq.Run(t)

	n, err := env.staker.GetStakeCountForAddress(unlimited)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), n)
	AssertGlobal(env.staker).Active(50).Evicted(0).Assert(t)
}

func TestStaker_MinStakeIndex(t *testing.T) {
	env := newTestEnv(t)
	staker := datagen.RandAddress()
	small, large := datagen.RandAddress(), datagen.RandAddress()

	NewSequence(env).
		Fund(staker, big.NewInt(100)).
		AddStake(staker, small, big.NewInt(2)).
		AddStake(staker, large, big.NewInt(5)).
		Run(t)

	addrs, err := env.staker.StakedAddressesWithMinStake()
	require.NoError(t, err)
	assert.Equal(t, []xl1.Address{large}, addrs)

	NewSequence(env).AddStake(staker, small, big.NewInt(1)).Run(t)
	count, err := env.staker.StakedAddressesWithMinStakeCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	// drop out on remove
	NewSequence(env).RemoveStake(staker, 1).Run(t)
	addrs, err = env.staker.StakedAddressesWithMinStake()
	require.NoError(t, err)
	assert.Equal(t, []xl1.Address{small}, addrs)

	// raising the threshold reindexes
	err = env.staker.SetMinStake(staker, big.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrNotOwner)

	require.NoError(t, env.staker.SetMinStake(env.owner, big.NewInt(4)))
	count, err = env.staker.StakedAddressesWithMinStakeCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	require.NoError(t, env.staker.SetMinStake(env.owner, big.NewInt(1)))
	addrs, err = env.staker.StakedAddressesWithMinStake()
	require.NoError(t, err)
	assert.Equal(t, []xl1.Address{small}, addrs)

	minStake, err := env.staker.MinStake()
	require.NoError(t, err)
	assert.Equal(t, "1", minStake.String())
	assert.Equal(t, EventMinStakeChanged, env.events[len(env.events)-1].Name)

	// slashing below the threshold drops the address
	NewSequence(env).Slash(small, big.NewInt(3)).Run(t)
	count, err = env.staker.StakedAddressesWithMinStakeCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestStaker_TransferOwnership(t *testing.T) {
	env := newTestEnv(t)
	next := datagen.RandAddress()

	err := env.staker.TransferOwnership(next, next)
	assert.ErrorIs(t, err, reverts.ErrNotOwner)

	err = env.staker.TransferOwnership(env.owner, xl1.Address{})
	assert.Error(t, err)
	assert.True(t, reverts.IsRevertErr(err))

	require.NoError(t, env.staker.TransferOwnership(env.owner, next))
	owner, err := env.staker.Owner()
	require.NoError(t, err)
	assert.Equal(t, next, owner)

	ev := env.events[len(env.events)-1]
	assert.Equal(t, EventOwnershipTransferred, ev.Name)
	assert.Equal(t, env.owner, ev.Staker)
	assert.Equal(t, next, ev.Staked)

	err = env.staker.SetMinStake(env.owner, big.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrNotOwner)
	require.NoError(t, env.staker.SetMinStake(next, big.NewInt(1)))
}

type failingToken struct {
	Token
	failTransfer bool
}

func (f *failingToken) Transfer(from, to xl1.Address, amount *big.Int) error {
	if f.failTransfer {
		return errors.New("transfer failed")
	}
	return f.Token.Transfer(from, to, amount)
}

func TestStaker_RevertOnTokenFailure(t *testing.T) {
	env := newTestEnvWith(t, func(p *Params) { p.MaxStakersPerAddress = 1 })
	failing := &failingToken{Token: env.token}
	env.staker.token = failing

	staked := datagen.RandAddress()
	a, b := datagen.RandAddress(), datagen.RandAddress()
	NewSequence(env).
		Fund(a, big.NewInt(10)).
		Fund(b, big.NewInt(20)).
		AddStake(a, staked, big.NewInt(10)).
		Run(t)
	before := len(env.events)

	// the eviction refund fails, so the whole add is rolled back
	failing.failTransfer = true
	_, err := env.staker.AddStake(b, staked, big.NewInt(20))
	require.Error(t, err)
	assert.False(t, reverts.IsRevertErr(err))

	assert.Equal(t, before, len(env.events))
	assert.Equal(t, "20", env.balance(t, b).String())
	count, err := env.staker.StakeCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
	members, err := env.staker.StakersOf(staked)
	require.NoError(t, err)
	assert.Equal(t, []xl1.Address{a}, members)
	AssertGlobal(env.staker).Active(10).Evicted(0).Assert(t)

	failing.failTransfer = false
	NewSequence(env).AddStake(b, staked, big.NewInt(20)).Run(t)
	AssertGlobal(env.staker).Active(20).Evicted(10).Assert(t)
}

func TestStaker_CommitAndReload(t *testing.T) {
	env := newTestEnv(t)
	staker, staked := datagen.RandAddress(), datagen.RandAddress()
	NewSequence(env).
		Fund(staker, big.NewInt(100)).
		AddStake(staker, staked, big.NewInt(100)).
		Run(t)

	require.NoError(t, env.state.Commit())
	assert.False(t, env.state.Dirty())

	reloaded := New(stakingAddr, env.state, env.token, env.clock, nil)
	AssertStaked(reloaded, staked).Active(100).Assert(t)
	stake, err := reloaded.GetStake(staker, 0)
	require.NoError(t, err)
	assert.Equal(t, "100", stake.Amount.String())
}
