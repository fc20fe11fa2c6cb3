package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status is a read-only snapshot for the front end. It takes no approval
// lock; concurrent status reads run freely against the store.
type Status struct {
	PendingReporters int             `json:"pendingReporters"`
	PendingRecords   int             `json:"pendingRecords"`
	QuorumThreshold  int             `json:"quorumThreshold"`
	RemovedValueWeek decimal.Decimal `json:"removedValueWeek"`

	// live shared-account figures; zero when the gateway was unreachable
	VotingPowerPct float64         `json:"votingPowerPct"`
	SteemPower     decimal.Decimal `json:"steemPower"`
	Reputation     int64           `json:"reputation"`
	VoteValueSBD   decimal.Decimal `json:"voteValueSBD"`
}

func (eng *Engine) Status(ctx context.Context) (*Status, error) {
	reporters, err := eng.Store.CountDistinctPendingReporters(ctx)
	if err != nil {
		return nil, err
	}
	records, err := eng.Store.CountPendingRecords(ctx)
	if err != nil {
		return nil, err
	}
	weekSum, err := eng.Store.SumRemovedValueSince(ctx, eng.clock().Add(-7*24*time.Hour))
	if err != nil {
		return nil, err
	}

	st := &Status{
		PendingReporters: reporters,
		PendingRecords:   records,
		QuorumThreshold:  eng.QuorumThreshold,
		RemovedValueWeek: weekSum,
	}

	// chain-state figures are best effort; the store-backed numbers above
	// are the load-bearing part of the response
	if shared, err := eng.Ledger.GetAccount(ctx, eng.Account); err == nil {
		st.VotingPowerPct = shared.VotingPowerPct()
		st.SteemPower = shared.SteemPower
		st.Reputation = shared.Reputation
		if v, err := eng.Ledger.VoteValueSBD(ctx, eng.Account); err == nil {
			st.VoteValueSBD = v
		}
	} else {
		eng.Logger.Warn("status: shared account fetch failed", "err", err)
	}

	return st, nil
}
