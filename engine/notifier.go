package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/steemflagrewards/sfrbot/steem"
)

// Notifier receives the engine's outward-facing events. Failures to deliver
// are logged by the engine, never propagated into approval state.
type Notifier interface {
	// a candidate report was approved: vote cast, acknowledgment posted,
	// record stored. Fires before any statement the approval triggers.
	ReportApproved(ctx context.Context, out *Outcome) error

	// a reward statement was published
	StatementPublished(ctx context.Context, ref steem.ContentRef) error

	// advisory: shared-account voting power dropped below the configured
	// floor; voteValueSBD is the current worth of a full vote
	LowCapacity(ctx context.Context, votingPowerPct float64, voteValueSBD decimal.Decimal) error
}

type NoopNotifier struct{}

func (NoopNotifier) ReportApproved(ctx context.Context, out *Outcome) error {
	return nil
}

func (NoopNotifier) StatementPublished(ctx context.Context, ref steem.ContentRef) error {
	return nil
}

func (NoopNotifier) LowCapacity(ctx context.Context, votingPowerPct float64, voteValueSBD decimal.Decimal) error {
	return nil
}
