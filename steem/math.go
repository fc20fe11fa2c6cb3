package steem

import (
	"time"

	"github.com/shopspring/decimal"
)

// Chain constants (condenser-era mainnet values).
const (
	// PercentBase is the fixed-point base for vote weights and beneficiary
	// shares: 10000 == 100%.
	PercentBase = 10000

	// MinReplyInterval is the minimum time between two comments by the same
	// account; the node rejects faster replies outright.
	MinReplyInterval = 20 * time.Second

	// MaxBeneficiaries is the per-comment cap on beneficiary routes.
	MaxBeneficiaries = 8

	voteRegenSeconds     = 432000 // 5 days to full power
	votePowerReserveRate = 10
)

// maxVoteDenom scales a single full-power vote to 1/50th of current power,
// so that ten full votes per day sustain equilibrium.
const maxVoteDenom = votePowerReserveRate * voteRegenSeconds / (60 * 60 * 24)

var million = decimal.NewFromInt(1_000_000)

// VestsToSteem converts raw vesting shares to liquid-equivalent STEEM using
// the global vesting fund ratio (total_vesting_fund_steem /
// total_vesting_shares).
func VestsToSteem(vests, fundSteem, fundVests decimal.Decimal) decimal.Decimal {
	if fundVests.IsZero() {
		return decimal.Zero
	}
	return vests.Mul(fundSteem).Div(fundVests)
}

// SteemToVests is the inverse of VestsToSteem.
func SteemToVests(steem, fundSteem, fundVests decimal.Decimal) decimal.Decimal {
	if fundSteem.IsZero() {
		return decimal.Zero
	}
	return steem.Mul(fundVests).Div(fundSteem)
}

// VoteRshares computes the reward shares generated by a vote of weightBP
// (basis points, magnitude) cast by an account holding steemPower at
// votingPowerBP current power.
//
//	usedPower = ceil(votingPower * weight / PercentBase / maxVoteDenom)
//	rshares   = vests * 1e6 * usedPower / PercentBase
func VoteRshares(steemPower, fundSteem, fundVests decimal.Decimal, votingPowerBP, weightBP int64) decimal.Decimal {
	if weightBP < 0 {
		weightBP = -weightBP
	}
	used := decimal.NewFromInt(votingPowerBP * weightBP).
		Div(decimal.NewFromInt(PercentBase)).
		Div(decimal.NewFromInt(maxVoteDenom)).
		Ceil()
	vests := SteemToVests(steemPower, fundSteem, fundVests)
	return vests.Mul(million).Mul(used).Div(decimal.NewFromInt(PercentBase))
}

// VotePctFromRshares inverts VoteRshares: given an observed rshares
// magnitude, it returns the vote weight in basis points that the holder of
// steemPower at votingPowerBP would have needed to produce it. The result is
// not clamped; values above PercentBase mean the observed vote outweighs a
// full-power 100% vote from this account.
func VotePctFromRshares(rshares int64, steemPower, fundSteem, fundVests decimal.Decimal, votingPowerBP int64) decimal.Decimal {
	if rshares < 0 {
		rshares = -rshares
	}
	if votingPowerBP <= 0 {
		return decimal.Zero
	}
	vests := SteemToVests(steemPower, fundSteem, fundVests)
	if vests.IsZero() {
		return decimal.Zero
	}
	used := decimal.NewFromInt(rshares).
		Mul(decimal.NewFromInt(PercentBase)).
		Div(vests.Mul(million))
	return used.Mul(decimal.NewFromInt(maxVoteDenom)).
		Mul(decimal.NewFromInt(PercentBase)).
		Div(decimal.NewFromInt(votingPowerBP))
}

// RsharesToSBD converts a reward-share magnitude to its SBD-equivalent value
// using the reward fund ratio and the current median feed price.
func RsharesToSBD(rshares int64, rewardBalance decimal.Decimal, recentClaims decimal.Decimal, medianPrice decimal.Decimal) decimal.Decimal {
	if rshares < 0 {
		rshares = -rshares
	}
	if recentClaims.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(rshares).Mul(rewardBalance).Div(recentClaims).Mul(medianPrice)
}
