// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/blockclock"
	"github.com/xylabs/xl1-ledger/builtin/solidity"
	"github.com/xylabs/xl1-ledger/builtin/staker/aggregation"
	"github.com/xylabs/xl1-ledger/builtin/staker/capacity"
	"github.com/xylabs/xl1-ledger/builtin/staker/delta"
	"github.com/xylabs/xl1-ledger/builtin/staker/globalstats"
	"github.com/xylabs/xl1-ledger/builtin/staker/minstake"
	"github.com/xylabs/xl1-ledger/builtin/staker/reverts"
	"github.com/xylabs/xl1-ledger/builtin/staker/stakes"
	"github.com/xylabs/xl1-ledger/log"
	"github.com/xylabs/xl1-ledger/state"
	"github.com/xylabs/xl1-ledger/xl1"
)

var (
	logger = log.WithContext("pkg", "staker")

	slotOwner               = xl1.BytesToBytes32([]byte("owner"))
	slotToken               = xl1.BytesToBytes32([]byte("staking-token"))
	slotUnlimitedStaker     = xl1.BytesToBytes32([]byte("unlimited-staker"))
	slotMinWithdrawalBlocks = xl1.BytesToBytes32([]byte("min-withdrawal-blocks"))
	slotMaxStakers          = xl1.BytesToBytes32([]byte("max-stakers-per-address"))

	errZeroOwner = reverts.New("Ownable: new owner is the zero address")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Token moves the staking token in and out of the staking contract.
type Token interface {
	Transfer(from, to xl1.Address, amount *big.Int) error
	TransferFrom(spender, from, to xl1.Address, amount *big.Int) error
}

// Staker implements the address staking contract.
type Staker struct {
	addr  xl1.Address
	state *state.State
	token Token
	clock blockclock.Clock

	owner               *solidity.Address
	stakingToken        *solidity.Address
	unlimitedStaker     *solidity.Address
	minWithdrawalBlocks *solidity.Uint256
	maxStakers          *solidity.Uint256

	stakesService      *stakes.Service
	globalStatsService *globalstats.Service
	aggregationService *aggregation.Service
	minStakeService    *minstake.Service
	capacityService    *capacity.Service

	sink    EventSink
	pending []*Event
}

// New create a new instance.
func New(addr xl1.Address, st *state.State, token Token, clock blockclock.Clock, access solidity.AccessFunc) *Staker {
	sctx := solidity.NewContext(addr, st, access)
	return &Staker{
		addr:  addr,
		state: st,
		token: token,
		clock: clock,

		owner:               solidity.NewAddress(sctx, slotOwner),
		stakingToken:        solidity.NewAddress(sctx, slotToken),
		unlimitedStaker:     solidity.NewAddress(sctx, slotUnlimitedStaker),
		minWithdrawalBlocks: solidity.NewUint256(sctx, slotMinWithdrawalBlocks),
		maxStakers:          solidity.NewUint256(sctx, slotMaxStakers),

		stakesService:      stakes.New(sctx),
		globalStatsService: globalstats.New(sctx),
		aggregationService: aggregation.New(sctx),
		minStakeService:    minstake.New(sctx),
		capacityService:    capacity.New(sctx),
	}
}

// SetEventSink registers the receiver of emitted events.
func (s *Staker) SetEventSink(sink EventSink) {
	s.sink = sink
}

// Address of the staking contract, the custodian of staked tokens.
func (s *Staker) Address() xl1.Address {
	return s.addr
}

// Initialize stores the deployment parameters. It can run once.
func (s *Staker) Initialize(p Params) error {
	return s.atomically(func() error {
		token, err := s.stakingToken.Get()
		if err != nil {
			return err
		}
		if !token.IsZero() {
			return errors.New("staking contract already initialized")
		}
		if p.Token.IsZero() {
			return errors.New("staking token address required")
		}
		if p.MinStake == nil || p.MinStake.Sign() < 0 {
			return errors.New("invalid min stake")
		}
		s.owner.Set(&p.Owner)
		s.stakingToken.Set(&p.Token)
		s.unlimitedStaker.Set(&p.UnlimitedStakerAddress)
		if err := s.minWithdrawalBlocks.Set(new(big.Int).SetUint64(uint64(p.MinWithdrawalBlocks))); err != nil {
			return err
		}
		if err := s.maxStakers.Set(new(big.Int).SetUint64(p.MaxStakersPerAddress)); err != nil {
			return err
		}
		return s.minStakeService.SetMinStake(p.MinStake, s.ActiveByAddressStaked)
	})
}

// atomically runs fn inside a state checkpoint. On error every write made by fn
// is reverted and its events are dropped; on success events go to the sink.
func (s *Staker) atomically(fn func() error) error {
	rev := s.state.NewCheckpoint()
	s.pending = nil
	if err := fn(); err != nil {
		s.state.RevertTo(rev)
		s.pending = nil
		return err
	}
	events := s.pending
	s.pending = nil
	if s.sink != nil {
		for _, ev := range events {
			s.sink(ev)
		}
	}
	return nil
}

func (s *Staker) emit(ev *Event) {
	s.pending = append(s.pending, ev)
}

func (s *Staker) onlyOwner(caller xl1.Address) error {
	owner, err := s.owner.Get()
	if err != nil {
		return err
	}
	if caller != owner {
		return reverts.ErrNotOwner
	}
	return nil
}

// apply records a transition at every totals level.
func (s *Staker) apply(staker, staked xl1.Address, d *delta.Delta) error {
	if d.IsZero() {
		return nil
	}
	if err := s.globalStatsService.Apply(d); err != nil {
		return errors.Wrap(err, "global totals")
	}
	return s.aggregationService.Apply(staker, staked, d)
}

func (s *Staker) refreshMinStake(staked xl1.Address) error {
	active, err := s.ActiveByAddressStaked(staked)
	if err != nil {
		return err
	}
	_, err = s.minStakeService.Update(staked, active)
	return err
}

//
// Getters - no state change
//

func (s *Staker) Owner() (xl1.Address, error) {
	return s.owner.Get()
}

func (s *Staker) StakingTokenAddress() (xl1.Address, error) {
	return s.stakingToken.Get()
}

func (s *Staker) UnlimitedStakerAddress() (xl1.Address, error) {
	return s.unlimitedStaker.Get()
}

func (s *Staker) MinWithdrawalBlocks() (uint32, error) {
	v, err := s.minWithdrawalBlocks.Get()
	if err != nil {
		return 0, err
	}
	return uint32(v.Uint64()), nil
}

func (s *Staker) MaxStakersPerAddress() (uint64, error) {
	v, err := s.maxStakers.Get()
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

func (s *Staker) MinStake() (*big.Int, error) {
	return s.minStakeService.MinStake()
}

// Params returns the current staking parameters.
func (s *Staker) Params() (*Params, error) {
	var (
		p   Params
		err error
	)
	if p.Owner, err = s.Owner(); err != nil {
		return nil, err
	}
	if p.Token, err = s.StakingTokenAddress(); err != nil {
		return nil, err
	}
	if p.UnlimitedStakerAddress, err = s.UnlimitedStakerAddress(); err != nil {
		return nil, err
	}
	if p.MinWithdrawalBlocks, err = s.MinWithdrawalBlocks(); err != nil {
		return nil, err
	}
	if p.MaxStakersPerAddress, err = s.MaxStakersPerAddress(); err != nil {
		return nil, err
	}
	if p.MinStake, err = s.MinStake(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Totals returns the contract-wide totals.
func (s *Staker) Totals() (*stakes.Totals, error) {
	return s.globalStatsService.Totals()
}

func (s *Staker) Active() (*big.Int, error) {
	return s.globalField(func(t *stakes.Totals) *big.Int { return t.Active })
}
func (s *Staker) Pending() (*big.Int, error) {
	return s.globalField(func(t *stakes.Totals) *big.Int { return t.Pending })
}
func (s *Staker) Withdrawn() (*big.Int, error) {
	return s.globalField(func(t *stakes.Totals) *big.Int { return t.Withdrawn })
}
func (s *Staker) Slashed() (*big.Int, error) {
	return s.globalField(func(t *stakes.Totals) *big.Int { return t.Slashed })
}
func (s *Staker) Evicted() (*big.Int, error) {
	return s.globalField(func(t *stakes.Totals) *big.Int { return t.Evicted })
}

func (s *Staker) globalField(field func(*stakes.Totals) *big.Int) (*big.Int, error) {
	t, err := s.Totals()
	if err != nil {
		return nil, err
	}
	return field(t), nil
}

// TotalsByStaker returns the totals of stakes funded by staker.
func (s *Staker) TotalsByStaker(staker xl1.Address) (*stakes.Totals, error) {
	return s.aggregationService.ByStaker(staker)
}

// TotalsByStaked returns the totals of stakes credited to staked.
func (s *Staker) TotalsByStaked(staked xl1.Address) (*stakes.Totals, error) {
	return s.aggregationService.ByStaked(staked)
}

func (s *Staker) ActiveByStaker(staker xl1.Address) (*big.Int, error) {
	t, err := s.TotalsByStaker(staker)
	if err != nil {
		return nil, err
	}
	return t.Active, nil
}

func (s *Staker) PendingByStaker(staker xl1.Address) (*big.Int, error) {
	t, err := s.TotalsByStaker(staker)
	if err != nil {
		return nil, err
	}
	return t.Pending, nil
}

func (s *Staker) WithdrawnByStaker(staker xl1.Address) (*big.Int, error) {
	t, err := s.TotalsByStaker(staker)
	if err != nil {
		return nil, err
	}
	return t.Withdrawn, nil
}

func (s *Staker) SlashedByStaker(staker xl1.Address) (*big.Int, error) {
	t, err := s.TotalsByStaker(staker)
	if err != nil {
		return nil, err
	}
	return t.Slashed, nil
}

func (s *Staker) ActiveByAddressStaked(staked xl1.Address) (*big.Int, error) {
	t, err := s.TotalsByStaked(staked)
	if err != nil {
		return nil, err
	}
	return t.Active, nil
}

func (s *Staker) PendingByAddressStaked(staked xl1.Address) (*big.Int, error) {
	t, err := s.TotalsByStaked(staked)
	if err != nil {
		return nil, err
	}
	return t.Pending, nil
}

// GetStake returns the staker's stake at slot.
func (s *Staker) GetStake(staker xl1.Address, slot uint64) (*stakes.Stake, error) {
	stake, err := s.stakesService.GetBySlot(staker, slot)
	if err != nil {
		return nil, err
	}
	if stake == nil {
		return nil, reverts.ErrStakeNotFound
	}
	return stake, nil
}

// GetStakeByID returns the stake with the given global id.
func (s *Staker) GetStakeByID(id uint64) (*stakes.Stake, error) {
	stake, err := s.stakesService.Get(id)
	if err != nil {
		return nil, err
	}
	if stake == nil {
		return nil, reverts.ErrStakeNotFound
	}
	return stake, nil
}

// GetAccountStakeBySlot returns the original amount of the staker's stake at slot.
func (s *Staker) GetAccountStakeBySlot(staker xl1.Address, slot uint64) (*big.Int, error) {
	stake, err := s.GetStake(staker, slot)
	if err != nil {
		return nil, err
	}
	return stake.Amount, nil
}

// GetStakeCountForAddress is the number of distinct stakers with active stake on staked.
func (s *Staker) GetStakeCountForAddress(staked xl1.Address) (uint64, error) {
	return s.capacityService.Count(staked)
}

// StakersOf lists the stakers with active stake on staked, in insertion order.
func (s *Staker) StakersOf(staked xl1.Address) ([]xl1.Address, error) {
	return s.capacityService.Stakers(staked)
}

// StakeCountForStaker is the number of stakes ever opened by staker.
func (s *Staker) StakeCountForStaker(staker xl1.Address) (uint64, error) {
	return s.stakesService.SlotCount(staker)
}

// StakeCount is the number of stakes ever opened.
func (s *Staker) StakeCount() (uint64, error) {
	return s.stakesService.Count()
}

// StakesByStaker lists the staker's stakes in slot order.
func (s *Staker) StakesByStaker(staker xl1.Address) ([]*stakes.Stake, error) {
	var all []*stakes.Stake
	err := s.stakesService.IterStaker(staker, func(stake *stakes.Stake) error {
		all = append(all, stake)
		return nil
	})
	return all, err
}

// StakesByStaked lists the stakes credited to staked in id order.
func (s *Staker) StakesByStaked(staked xl1.Address) ([]*stakes.Stake, error) {
	var all []*stakes.Stake
	err := s.stakesService.IterStaked(staked, func(stake *stakes.Stake) error {
		all = append(all, stake)
		return nil
	})
	return all, err
}

func (s *Staker) StakedAddressesWithMinStake() ([]xl1.Address, error) {
	return s.minStakeService.Addresses()
}

func (s *Staker) StakedAddressesWithMinStakeCount() (uint64, error) {
	return s.minStakeService.Count()
}

//
// Setters - state change
//

// AddStake locks amount of the staker's tokens for staked and returns the new stake id.
func (s *Staker) AddStake(staker, staked xl1.Address, amount *big.Int) (uint64, error) {
	logger.Debug("adding stake", "staker", staker, "staked", staked, "amount", amount)

	var id uint64
	err := s.atomically(func() error {
		if amount == nil || amount.Sign() <= 0 {
			return reverts.ErrInvalidAmount
		}
		block := s.clock.CurrentBlock()

		if err := s.token.TransferFrom(s.addr, staker, s.addr, amount); err != nil {
			return err
		}
		stake, err := s.stakesService.Create(staker, staked, amount, block)
		if err != nil {
			return err
		}
		id = stake.ID
		if err := s.apply(staker, staked, delta.Staked(amount)); err != nil {
			return err
		}
		if err := s.capacityService.Adjust(staked, staker, amount); err != nil {
			return err
		}
		s.emit(stakeEvent(EventStakeAdded, block, staker, staked, stake.ID, amount))

		if err := s.enforceCapacity(staked, block); err != nil {
			return err
		}
		return s.refreshMinStake(staked)
	})
	if err != nil {
		logger.Info("add stake failed", "staker", staker, "staked", staked, "error", err)
		return 0, err
	}

	logger.Info("added stake", "id", id, "staker", staker, "staked", staked)
	return id, nil
}

// enforceCapacity evicts the smallest stakers of staked until the cap holds.
func (s *Staker) enforceCapacity(staked xl1.Address, block uint32) error {
	unlimited, err := s.unlimitedStaker.Get()
	if err != nil {
		return err
	}
	if staked == unlimited {
		return nil
	}
	limit, err := s.MaxStakersPerAddress()
	if err != nil {
		return err
	}
	for {
		victim, ok, err := s.capacityService.SelectEviction(staked, limit)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := s.evict(staked, victim, block); err != nil {
			return err
		}
	}
}

// evict refunds every active stake victim holds on staked.
func (s *Staker) evict(staked, victim xl1.Address, block uint32) error {
	logger.Debug("evicting staker", "staked", staked, "staker", victim)

	return s.stakesService.IterStaked(staked, func(stake *stakes.Stake) error {
		if stake.Staker != victim || !stake.IsActive() {
			return nil
		}
		remaining := stake.Remaining()
		stake.RemoveBlock = block
		stake.WithdrawBlock = block
		stake.Evicted = true
		if err := s.stakesService.Update(stake); err != nil {
			return err
		}
		if err := s.apply(victim, staked, delta.Evicted(remaining)); err != nil {
			return err
		}
		if err := s.capacityService.Adjust(staked, victim, new(big.Int).Neg(remaining)); err != nil {
			return err
		}
		if remaining.Sign() > 0 {
			if err := s.token.Transfer(s.addr, victim, remaining); err != nil {
				return err
			}
		}
		s.emit(stakeEvent(EventStakeEvicted, block, victim, staked, stake.ID, remaining))
		return nil
	})
}

// RemoveStake starts the withdrawal period of the staker's stake at slot.
func (s *Staker) RemoveStake(staker xl1.Address, slot uint64) error {
	logger.Debug("removing stake", "staker", staker, "slot", slot)

	err := s.atomically(func() error {
		stake, err := s.GetStake(staker, slot)
		if err != nil {
			return err
		}
		if !stake.IsActive() {
			return reverts.ErrNotRemovable
		}
		block := s.clock.CurrentBlock()
		remaining := stake.Remaining()

		stake.RemoveBlock = block
		if err := s.stakesService.Update(stake); err != nil {
			return err
		}
		if err := s.apply(staker, stake.Staked, delta.Unstaked(remaining)); err != nil {
			return err
		}
		if err := s.capacityService.Adjust(stake.Staked, staker, new(big.Int).Neg(remaining)); err != nil {
			return err
		}
		if err := s.refreshMinStake(stake.Staked); err != nil {
			return err
		}
		s.emit(stakeEvent(EventStakeRemoved, block, staker, stake.Staked, stake.ID, remaining))
		return nil
	})
	if err != nil {
		logger.Info("remove stake failed", "staker", staker, "slot", slot, "error", err)
		return err
	}
	logger.Info("removed stake", "staker", staker, "slot", slot)
	return nil
}

// WithdrawStake returns the remaining amount of a removed stake to its staker
// once the withdrawal period has passed.
func (s *Staker) WithdrawStake(staker xl1.Address, slot uint64) (*big.Int, error) {
	logger.Debug("withdrawing stake", "staker", staker, "slot", slot)

	var remaining *big.Int
	err := s.atomically(func() error {
		stake, err := s.GetStake(staker, slot)
		if err != nil {
			return err
		}
		minBlocks, err := s.MinWithdrawalBlocks()
		if err != nil {
			return err
		}
		block := s.clock.CurrentBlock()
		if !stake.Withdrawable(block, minBlocks) {
			return reverts.ErrNotWithdrawable
		}
		remaining = stake.Remaining()

		stake.WithdrawBlock = block
		if err := s.stakesService.Update(stake); err != nil {
			return err
		}
		if err := s.apply(staker, stake.Staked, delta.Withdrawn(remaining)); err != nil {
			return err
		}
		if remaining.Sign() > 0 {
			if err := s.token.Transfer(s.addr, staker, remaining); err != nil {
				return err
			}
		}
		s.emit(stakeEvent(EventStakeWithdrawn, block, staker, stake.Staked, stake.ID, remaining))
		return nil
	})
	if err != nil {
		logger.Info("withdraw failed", "staker", staker, "slot", slot, "error", err)
		return nil, err
	}
	logger.Info("withdrew stake", "staker", staker, "slot", slot, "amount", remaining)
	return remaining, nil
}

// SlashStake moves up to amount of the stake credited to staked into the
// slashed bucket, spread over its active and pending stakes in proportion to
// their remaining amounts. Slashed tokens stay in the contract's custody.
// It returns the amount actually slashed.
func (s *Staker) SlashStake(caller, staked xl1.Address, amount *big.Int) (*big.Int, error) {
	logger.Debug("slashing stake", "staked", staked, "amount", amount)

	var slashed *big.Int
	err := s.atomically(func() error {
		if err := s.onlyOwner(caller); err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return reverts.ErrInvalidAmount
		}
		totals, err := s.TotalsByStaked(staked)
		if err != nil {
			return err
		}
		available := totals.Available()
		if available.Sign() == 0 {
			return reverts.ErrAddressNotStaked
		}
		slashed = amount
		if amount.Cmp(available) > 0 {
			slashed = available
		}

		var targets []*stakes.Stake
		if err := s.stakesService.IterStaked(staked, func(stake *stakes.Stake) error {
			if !stake.IsWithdrawn() && stake.Remaining().Sign() > 0 {
				targets = append(targets, stake)
			}
			return nil
		}); err != nil {
			return err
		}

		shares := proportionalShares(targets, slashed, available)
		block := s.clock.CurrentBlock()
		applied := delta.New()
		for i, stake := range targets {
			share := shares[i]
			if share.Sign() == 0 {
				continue
			}
			stake.Slashed = new(big.Int).Add(stake.Slashed, share)
			if err := s.stakesService.Update(stake); err != nil {
				return err
			}
			d := delta.Slashed(share, new(big.Int))
			if stake.IsPending() {
				d = delta.Slashed(new(big.Int), share)
			} else if err := s.capacityService.Adjust(staked, stake.Staker, new(big.Int).Neg(share)); err != nil {
				return err
			}
			if err := s.apply(stake.Staker, staked, d); err != nil {
				return err
			}
			applied.Add(d)
		}
		if applied.Slashed.Cmp(slashed) != 0 || applied.Net().Sign() != 0 {
			return errors.Errorf("slash shares sum to %v, want %v", applied.Slashed, slashed)
		}
		if err := s.refreshMinStake(staked); err != nil {
			return err
		}
		s.emit(&Event{
			Name:   EventStakeSlashed,
			Block:  block,
			Staked: staked,
			Amount: new(big.Int).Set(slashed),
		})
		return nil
	})
	if err != nil {
		logger.Info("slash failed", "staked", staked, "error", err)
		return nil, err
	}
	logger.Info("slashed stake", "staked", staked, "amount", slashed)
	return slashed, nil
}

// proportionalShares splits toSlash over targets as remaining*toSlash/available,
// rounding down, then hands out the remainder one unit at a time in id order.
func proportionalShares(targets []*stakes.Stake, toSlash, available *big.Int) []*big.Int {
	shares := make([]*big.Int, len(targets))
	distributed := new(big.Int)
	for i, stake := range targets {
		share := new(big.Int).Mul(stake.Remaining(), toSlash)
		share.Quo(share, available)
		shares[i] = share
		distributed.Add(distributed, share)
	}

	rest := new(big.Int).Sub(toSlash, distributed)
	one := big.NewInt(1)
	for rest.Sign() > 0 {
		progressed := false
		for i, stake := range targets {
			if rest.Sign() == 0 {
				break
			}
			if shares[i].Cmp(stake.Remaining()) < 0 {
				shares[i].Add(shares[i], one)
				rest.Sub(rest, one)
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return shares
}

// SetMinStake changes the threshold of the min stake index and reindexes it.
func (s *Staker) SetMinStake(caller xl1.Address, value *big.Int) error {
	logger.Debug("setting min stake", "value", value)

	err := s.atomically(func() error {
		if err := s.onlyOwner(caller); err != nil {
			return err
		}
		if value == nil || value.Sign() < 0 {
			return reverts.ErrInvalidAmount
		}
		if err := s.minStakeService.SetMinStake(value, s.ActiveByAddressStaked); err != nil {
			return err
		}
		s.emit(&Event{
			Name:   EventMinStakeChanged,
			Block:  s.clock.CurrentBlock(),
			Staker: caller,
			Amount: new(big.Int).Set(value),
		})
		return nil
	})
	if err != nil {
		logger.Info("set min stake failed", "error", err)
		return err
	}
	logger.Info("min stake changed", "value", value)
	return nil
}

// TransferOwnership hands the owner role to newOwner.
func (s *Staker) TransferOwnership(caller, newOwner xl1.Address) error {
	return s.atomically(func() error {
		if err := s.onlyOwner(caller); err != nil {
			return err
		}
		if newOwner.IsZero() {
			return errZeroOwner
		}
		s.owner.Set(&newOwner)
		s.emit(&Event{
			Name:   EventOwnershipTransferred,
			Block:  s.clock.CurrentBlock(),
			Staker: caller,
			Staked: newOwner,
		})
		return nil
	})
}
