// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xylabs/xl1-ledger/blockclock"
	"github.com/xylabs/xl1-ledger/builtin"
	"github.com/xylabs/xl1-ledger/genesis"
	"github.com/xylabs/xl1-ledger/lvldb"
	"github.com/xylabs/xl1-ledger/state"
	"github.com/xylabs/xl1-ledger/xl1"
)

const doc = `
owner: "0x000000000000000000000000000000000000a11c"
fork:
  chainId: "0x00000000000000000000000000000000000000c1"
  blockNumber: 42
  hash: "0x00000000000000000000000000000000000000000000000000000000000000ff"
staking:
  minWithdrawalBlocks: 5
  maxStakersPerAddress: 4
  minStake: "0x10"
rewards:
  initialReward: 1234
  stepSize: 1
  stepFactorNumerator: 95
  stepFactorDenominator: 100
  minRewardPerBlock: 1
  floorPlaces: 2
allocations:
  - address: "0x0000000000000000000000000000000000000b0b"
    balance: "1000000000000000000000"
`

func TestParse(t *testing.T) {
	gen, err := genesis.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, xl1.MustParseAddress("0x000000000000000000000000000000000000a11c"), xl1.Address(gen.Owner))
	assert.Equal(t, uint64(42), gen.Fork.BlockNumber)
	assert.Equal(t, uint32(5), gen.Staking.MinWithdrawalBlocks)
	assert.Equal(t, "16", gen.Staking.MinStake.Big().String())
	// omitted fields keep the defaults
	assert.Equal(t, xl1.NetworkStakingAddress, xl1.Address(gen.Staking.UnlimitedStakerAddress))
	assert.Equal(t, "5000", gen.Rewards.GenesisReward.Big().String())
	require.Len(t, gen.Allocations, 1)
	assert.Equal(t, xl1.Tokens(1000).String(), gen.Allocations[0].Balance.Big().String())
}

func TestParseRejects(t *testing.T) {
	for name, data := range map[string]string{
		"no owner":        `staking: {minWithdrawalBlocks: 1}`,
		"bad address":     `owner: "0x12"`,
		"bad number":      "owner: \"0x000000000000000000000000000000000000a11c\"\nrewards: {stepSize: abc}",
		"zero step":       "owner: \"0x000000000000000000000000000000000000a11c\"\nrewards: {stepSize: 0}",
		"zero denom":      "owner: \"0x000000000000000000000000000000000000a11c\"\nrewards: {stepFactorDenominator: 0}",
		"missing balance": "owner: \"0x000000000000000000000000000000000000a11c\"\nallocations: [{address: \"0x0000000000000000000000000000000000000b0b\"}]",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := genesis.Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadAndID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	gen, err := genesis.Load(path)
	require.NoError(t, err)
	id, err := gen.ID()
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	// the canonical encoding round trips to the same id
	data, err := gen.Encode()
	require.NoError(t, err)
	again, err := genesis.Parse(data)
	require.NoError(t, err)
	id2, err := again.ID()
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	other := genesis.Default(xl1.Address(gen.Owner))
	id3, err := other.ID()
	require.NoError(t, err)
	assert.NotEqual(t, id, id3)
}

func TestBuild(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gen, err := genesis.Parse([]byte(doc))
	require.NoError(t, err)

	st := state.New(db)
	require.NoError(t, gen.Build(st))
	assert.False(t, st.Dirty())

	bob := xl1.MustParseAddress("0x0000000000000000000000000000000000000b0b")
	balance, err := builtin.Token.WithState(st).BalanceOf(bob)
	require.NoError(t, err)
	assert.Equal(t, xl1.Tokens(1000).String(), balance.String())

	s := builtin.Staker.Native(st, blockclock.NewManual(), nil)
	params, err := s.Params()
	require.NoError(t, err)
	assert.Equal(t, uint32(5), params.MinWithdrawalBlocks)
	assert.Equal(t, uint64(4), params.MaxStakersPerAddress)
	assert.Equal(t, builtin.Token.Address, params.Token)

	reward, err := builtin.Rewards.WithState(st).CalcBlockReward(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1100), reward.Uint64())

	chain := builtin.Chain.WithState(st, s)
	fork, err := chain.Fork()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), fork.BlockNumber)
	rewardsAddr, err := chain.RewardsContract()
	require.NoError(t, err)
	assert.Equal(t, builtin.Rewards.Address, rewardsAddr)

	// a second deployment on the same state fails and leaves it untouched
	assert.Error(t, gen.Build(st))
	assert.False(t, st.Dirty())
}
