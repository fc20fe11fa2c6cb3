package engine

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/steemflagrewards/sfrbot/flagstore"
	"github.com/steemflagrewards/sfrbot/steem"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchOf(counts map[string]int) []flagstore.FlagRecord {
	base := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	var out []flagstore.FlagRecord
	for reporter, n := range counts {
		for i := 0; i < n; i++ {
			out = append(out, flagstore.FlagRecord{
				Reporter:      reporter,
				ReportComment: reporter + "/re-" + string(rune('a'+i)),
				Category:      "spam",
				CreatedAt:     base,
				RemovedValue:  decimal.RequireFromString("0.100"),
			})
		}
	}
	return out
}

func weightSum(bens []steem.Beneficiary) int {
	sum := 0
	for _, b := range bens {
		sum += b.WeightBP
	}
	return sum
}

func TestBeneficiaryWeightsExactSplit(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	// 8 records across 7 reporters: one contributes 2, six contribute 1
	bens, err := beneficiaryWeights(batchOf(map[string]int{
		"alice": 2, "bob": 1, "carol": 1, "dave": 1, "erin": 1, "frank": 1, "grace": 1,
	}), 100)
	require.NoError(err)
	require.Len(bens, 7)

	assert.Equal(10000, weightSum(bens))
	for _, b := range bens {
		if b.Account == "alice" {
			assert.Equal(2500, b.WeightBP)
		} else {
			assert.Equal(1250, b.WeightBP)
		}
	}

	// sorted by account name for deterministic op ordering
	for i := 1; i < len(bens); i++ {
		assert.True(bens[i-1].Account < bens[i].Account)
	}
}

func TestBeneficiaryWeightsRemainderDeterministic(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	// 10000/3 is inexact: equal remainders, so the extra unit goes to the
	// first reporter by name
	bens, err := beneficiaryWeights(batchOf(map[string]int{
		"alice": 1, "bob": 1, "carol": 1,
	}), 100)
	require.NoError(err)
	require.Len(bens, 3)
	assert.Equal(10000, weightSum(bens))
	assert.Equal(3334, bens[0].WeightBP)
	assert.Equal("alice", bens[0].Account)
	assert.Equal(3333, bens[1].WeightBP)
	assert.Equal(3333, bens[2].WeightBP)

	// repeated runs give identical output
	again, err := beneficiaryWeights(batchOf(map[string]int{
		"alice": 1, "bob": 1, "carol": 1,
	}), 100)
	require.NoError(err)
	assert.Equal(bens, again)

	// uneven counts: the larger remainder wins the spare unit
	bens, err = beneficiaryWeights(batchOf(map[string]int{
		"alice": 2, "bob": 1,
	}), 100)
	require.NoError(err)
	assert.Equal(10000, weightSum(bens))
	assert.Equal(6667, bens[0].WeightBP) // alice: 20000/3 floor 6666, remainder 2
	assert.Equal(3333, bens[1].WeightBP) // bob: 10000/3 floor 3333, remainder 1
}

func TestBeneficiaryWeightsPartialShare(t *testing.T) {
	require := require.New(t)

	bens, err := beneficiaryWeights(batchOf(map[string]int{
		"alice": 1, "bob": 1,
	}), 50)
	require.NoError(err)
	require.Equal(5000, weightSum(bens))
}

func TestBeneficiaryWeightsCaps(t *testing.T) {
	assert := assert.New(t)

	nine := map[string]int{}
	for _, r := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"} {
		nine[r] = 1
	}
	_, err := beneficiaryWeights(batchOf(nine), 100)
	assert.True(errors.Is(err, ErrBeneficiaryLimit))

	_, err = beneficiaryWeights(batchOf(map[string]int{"a": 1}), 101)
	assert.True(errors.Is(err, ErrBeneficiaryLimit))
}

func TestRenderStatementBody(t *testing.T) {
	assert := assert.New(t)

	body := renderStatementBody(batchOf(map[string]int{"alice": 1}), 8)
	assert.Contains(body, "|Link|Flagger|Removed Rewards|Category|")
	assert.Contains(body, "|[Comment](https://steemit.com/@alice/re-a)|@alice|$0.100|spam|")
	assert.True(strings.HasPrefix(body, "## "))
}
