package steem

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestVestsConversionRoundTrip(t *testing.T) {
	assert := assert.New(t)

	fundSteem := decimal.RequireFromString("180000000.000")
	fundVests := decimal.RequireFromString("360000000000.000000")

	sp := VestsToSteem(decimal.RequireFromString("2000000.000000"), fundSteem, fundVests)
	assert.True(sp.Equal(decimal.RequireFromString("1000")), "got %s", sp)

	back := SteemToVests(sp, fundSteem, fundVests)
	assert.True(back.Equal(decimal.RequireFromString("2000000")), "got %s", back)

	assert.True(VestsToSteem(decimal.NewFromInt(1), fundSteem, decimal.Zero).IsZero())
}

func TestVoteRsharesInverse(t *testing.T) {
	assert := assert.New(t)

	fundSteem := decimal.RequireFromString("180000000.000")
	fundVests := decimal.RequireFromString("360000000000.000000")
	sp := decimal.RequireFromString("12000.000")

	// a full-power full-weight vote produces some rshares; feeding them
	// back through the inverse recovers roughly the full weight
	full := VoteRshares(sp, fundSteem, fundVests, PercentBase, PercentBase)
	assert.True(full.IsPositive())

	pct := VotePctFromRshares(full.IntPart(), sp, fundSteem, fundVests, PercentBase)
	diff := pct.Sub(decimal.NewFromInt(PercentBase)).Abs()
	assert.True(diff.LessThan(decimal.NewFromInt(100)), "recovered %s", pct)

	// half the rshares needs about half the weight
	half := VotePctFromRshares(full.IntPart()/2, sp, fundSteem, fundVests, PercentBase)
	diff = half.Sub(decimal.NewFromInt(PercentBase / 2)).Abs()
	assert.True(diff.LessThan(decimal.NewFromInt(100)), "recovered %s", half)

	// the inverse is agnostic to vote sign
	neg := VotePctFromRshares(-full.IntPart(), sp, fundSteem, fundVests, PercentBase)
	assert.True(neg.Equal(pct))

	// degenerate inputs
	assert.True(VotePctFromRshares(1000, sp, fundSteem, fundVests, 0).IsZero())
	assert.True(VotePctFromRshares(1000, decimal.Zero, fundSteem, fundVests, PercentBase).IsZero())
}

func TestRsharesToSBD(t *testing.T) {
	assert := assert.New(t)

	balance := decimal.RequireFromString("800000.000")
	claims := decimal.RequireFromString("400000000000000")
	price := decimal.RequireFromString("0.250")

	v := RsharesToSBD(1_000_000_000, balance, claims, price)
	assert.True(v.Equal(decimal.RequireFromString("0.5")), "got %s", v)

	// magnitude only
	assert.True(RsharesToSBD(-1_000_000_000, balance, claims, price).Equal(v))

	assert.True(RsharesToSBD(1000, balance, decimal.Zero, price).IsZero())
}

func TestSlugify(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("steem-flag-rewards-report-8-flagger-post", slugify("Steem Flag Rewards Report - 8 Flagger Post"))
	assert.Equal("re-alice-re-spam", slugify("re-alice-re-spam"))
	assert.Equal("post", slugify("!!!"))
	assert.Equal("a-b", slugify("a///B"))
}
