// Package engine holds the flag approval state machine: candidate reports
// are validated against chain state, scored, persisted at most once, and
// periodically swept into a published reward statement.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/steemflagrewards/sfrbot/category"
	"github.com/steemflagrewards/sfrbot/flagstore"
	"github.com/steemflagrewards/sfrbot/steem"
)

// ReportStore is the durable-state surface the engine depends on;
// flagstore.Store is the gorm implementation.
type ReportStore interface {
	TryInsert(ctx context.Context, rec *flagstore.FlagRecord) (bool, error)
	CountDistinctPendingReporters(ctx context.Context) (int, error)
	CountPendingRecords(ctx context.Context) (int, error)
	SelectPendingBatch(ctx context.Context, limit int) ([]flagstore.FlagRecord, error)
	MarkIncluded(ctx context.Context, reporters []string) (int64, error)
	SumRemovedValueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
}

type Engine struct {
	Logger   *slog.Logger
	Ledger   steem.Gateway
	Store    ReportStore
	Notifier Notifier

	// shared broadcast account (the one voting and posting)
	Account string

	// distinct pending reporters needed to trigger a statement
	QuorumThreshold int

	// percent of statement post rewards routed to reporters
	SharePct int

	// voting-power floor (0-100) under which the low-capacity advisory
	// fires; advisory only, approvals continue
	LowPowerFloorPct float64

	StatementTags []string

	// approvals are serialized: one vote-and-reply sequence, including the
	// reply-interval wait, completes before the next begins. Status reads
	// do not take this lock.
	approvalLk sync.Mutex

	// overridable in tests
	now func() time.Time
}

func (eng *Engine) clock() time.Time {
	if eng.now != nil {
		return eng.now()
	}
	return time.Now().UTC()
}

func (eng *Engine) notifier() Notifier {
	if eng.Notifier != nil {
		return eng.Notifier
	}
	return NoopNotifier{}
}

// Outcome describes an accepted candidate report.
type Outcome struct {
	Reporter      string
	ReportComment steem.ContentRef
	Category      string
	// final vote weight on the human 0-100 scale
	Weight int
	// SBD-equivalent of the punitive downvote
	RemovedValue decimal.Decimal
	// distinct pending reporters after this approval
	PendingReporters int
	// set when this approval tripped the quorum and a statement went out
	Statement *steem.ContentRef
}

// ProcessReport runs the full approval pipeline for one candidate report
// link. Expected rejections come back as sentinel errors (see errors.go)
// with a nil Outcome. When the approval itself landed but a follow-up step
// failed (statement composition, advisory), the Outcome is returned
// alongside the error.
func (eng *Engine) ProcessReport(ctx context.Context, link string) (*Outcome, error) {
	eng.approvalLk.Lock()
	defer eng.approvalLk.Unlock()

	out, err := eng.processReport(ctx, link)
	switch {
	case err == nil:
		reportsProcessed.WithLabelValues("accepted").Inc()
	case out != nil:
		// accepted, but a post-approval step failed
		reportsProcessed.WithLabelValues("accepted").Inc()
	default:
		reportsProcessed.WithLabelValues(RejectKind(err)).Inc()
	}
	return out, err
}

func (eng *Engine) processReport(ctx context.Context, link string) (*Outcome, error) {
	ref, err := steem.ParseContentRef(link)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	logger := eng.Logger.With("reportComment", ref.String())

	reportComment, err := eng.Ledger.GetComment(ctx, ref)
	if err != nil {
		if errors.Is(err, steem.ErrNotFound) {
			return nil, fmt.Errorf("%w: report comment %s", ErrNotFound, ref)
		}
		return nil, err
	}
	reporter, err := eng.Ledger.GetAccount(ctx, reportComment.Author)
	if err != nil {
		if errors.Is(err, steem.ErrNotFound) {
			return nil, fmt.Errorf("%w: reporter account %s", ErrNotFound, reportComment.Author)
		}
		return nil, err
	}

	cat, ok := category.Classify(reportComment.Body)
	if !ok {
		return nil, ErrNoCategory
	}
	logger = logger.With("reporter", reporter.Name, "category", cat)

	if reportComment.IsTopLevel() {
		return nil, fmt.Errorf("%w: report comment has no parent content", ErrNotFound)
	}
	flagged, err := eng.Ledger.GetComment(ctx, reportComment.ParentRef)
	if err != nil {
		if errors.Is(err, steem.ErrNotFound) {
			return nil, fmt.Errorf("%w: flagged content %s", ErrNotFound, reportComment.ParentRef)
		}
		return nil, err
	}

	// the reporter's punitive downvote is the evidence the report is real
	var downvote *steem.VoteEntry
	for i, v := range flagged.ActiveVotes {
		if v.Voter == reporter.Name && v.Rshares < 0 {
			downvote = &flagged.ActiveVotes[i]
			break
		}
	}
	if downvote == nil {
		return nil, ErrNoActionFound
	}
	magnitude := -downvote.Rshares

	voted, err := eng.Ledger.HasVoted(ctx, eng.Account, ref)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, ErrAlreadyApproved
	}

	// shared-account snapshot is re-fetched for every candidate, never
	// carried across approval cycles
	shared, err := eng.Ledger.GetAccount(ctx, eng.Account)
	if err != nil {
		return nil, fmt.Errorf("fetching shared account: %w", err)
	}
	votePctBP, err := eng.Ledger.VotePctFromRshares(ctx, magnitude, shared)
	if err != nil {
		return nil, fmt.Errorf("scoring downvote: %w", err)
	}
	basePct := basePctFromVoteBP(votePctBP)
	weight := FinalWeight(basePct)
	if weight == 0 {
		return nil, ErrWeightZero
	}
	logger = logger.With("basePct", basePct, "weight", weight)

	removedValue, err := eng.Ledger.RsharesToSBD(ctx, magnitude)
	if err != nil {
		return nil, fmt.Errorf("valuing downvote: %w", err)
	}

	// ledger writes begin here. Nothing has been persisted locally yet: a
	// cancellation during the reply wait leaves the store untouched.
	if err := eng.Ledger.CastVote(ctx, eng.Account, ref, weight*100); err != nil {
		return nil, fmt.Errorf("casting approval vote: %w", err)
	}

	if err := eng.waitReplyInterval(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPartialApproval, err)
	}
	ackBody := fmt.Sprintf("Steem Flag Rewards mention comment has been approved! Thank you for reporting this abuse, @%s, categorized as %s.",
		reporter.Name, cat)
	if _, err := eng.Ledger.PostComment(ctx, eng.Account, ref, ackBody); err != nil {
		return nil, fmt.Errorf("%w: posting acknowledgment: %v", ErrPartialApproval, err)
	}

	rec := &flagstore.FlagRecord{
		Reporter:       reporter.Name,
		ReportComment:  ref.String(),
		FlaggedContent: flagged.Ref().String(),
		Category:       cat,
		CreatedAt:      reportComment.Created,
		RemovedValue:   removedValue,
	}
	inserted, err := eng.Store.TryInsert(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("%w: persisting record: %v", ErrPartialApproval, err)
	}
	if !inserted {
		return nil, ErrAlreadyApproved
	}

	out := &Outcome{
		Reporter:      reporter.Name,
		ReportComment: ref,
		Category:      cat,
		Weight:        weight,
		RemovedValue:  removedValue,
	}

	// quorum is recomputed from the store on every approval
	pending, err := eng.Store.CountDistinctPendingReporters(ctx)
	if err != nil {
		return out, fmt.Errorf("counting pending reporters: %w", err)
	}
	out.PendingReporters = pending
	logger.Info("report approved", "pendingReporters", pending, "removedValue", removedValue)

	if err := eng.notifier().ReportApproved(ctx, out); err != nil {
		logger.Warn("approval notification failed", "err", err)
	}

	if pending >= eng.QuorumThreshold {
		stmt, err := eng.ComposeStatement(ctx)
		if err != nil {
			return out, err
		}
		out.Statement = stmt
	}

	eng.checkCapacity(ctx, logger)
	return out, nil
}

// checkCapacity re-fetches the shared account after an approval and emits
// the low-capacity advisory when voting power has drained below the floor.
// Advisory only: approvals keep flowing regardless.
func (eng *Engine) checkCapacity(ctx context.Context, logger *slog.Logger) {
	if eng.LowPowerFloorPct <= 0 {
		return
	}
	shared, err := eng.Ledger.GetAccount(ctx, eng.Account)
	if err != nil {
		logger.Warn("capacity check failed", "err", err)
		return
	}
	pct := shared.VotingPowerPct()
	if pct >= eng.LowPowerFloorPct {
		return
	}
	lowCapacityWarnings.Inc()
	voteValue, err := eng.Ledger.VoteValueSBD(ctx, eng.Account)
	if err != nil {
		logger.Warn("vote value lookup failed", "err", err)
	}
	logger.Warn("voting power below floor", "votingPowerPct", pct, "floorPct", eng.LowPowerFloorPct, "voteValueSBD", voteValue)
	if err := eng.notifier().LowCapacity(ctx, pct, voteValue); err != nil {
		logger.Warn("low-capacity notification failed", "err", err)
	}
}
