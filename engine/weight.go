package engine

import (
	"github.com/shopspring/decimal"

	"github.com/steemflagrewards/sfrbot/steem"
)

// flagBonusPct rewards acting promptly and independently: small downvotes
// still earn a meaningful approval vote.
const flagBonusPct = 17

// fullWeightFloorPct is where the bonus would saturate anyway; at or above
// it the weight clamps straight to 100.
const fullWeightFloorPct = 100 - flagBonusPct

// basePctFromVoteBP converts a vote weight in basis points (10000 = a full
// 100% vote by the shared account) to the rounded 0-100 percent scale.
func basePctFromVoteBP(voteBP decimal.Decimal) int {
	return int(voteBP.Div(decimal.NewFromInt(steem.PercentBase / 100)).Round(0).IntPart())
}

// FinalWeight applies the incentive bonus and clamps to [0,100]. A basePct
// of zero means the downvote was negligible relative to the shared
// account's capacity ("apparently not flagged") and stays zero.
func FinalWeight(basePct int) int {
	if basePct <= 0 {
		return 0
	}
	if basePct >= fullWeightFloorPct {
		return 100
	}
	return basePct + flagBonusPct
}
