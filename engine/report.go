package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/steemflagrewards/sfrbot/flagstore"
	"github.com/steemflagrewards/sfrbot/steem"
)

// ComposeStatement sweeps the pending batch into a published reward
// statement: it selects all pending records of the earliest QuorumThreshold
// distinct reporters, renders the statement body, submits it with the
// reporters as post beneficiaries (self-vote disabled), and only then marks
// the batch included. A marking failure after a successful submission is
// ErrPostedButNotRecorded: operator territory, never re-submitted here.
func (eng *Engine) ComposeStatement(ctx context.Context) (*steem.ContentRef, error) {
	batch, err := eng.Store.SelectPendingBatch(ctx, eng.QuorumThreshold)
	if err != nil {
		return nil, fmt.Errorf("selecting pending batch: %w", err)
	}
	if len(batch) == 0 {
		return nil, nil
	}

	beneficiaries, err := beneficiaryWeights(batch, eng.SharePct)
	if err != nil {
		statementFailures.WithLabelValues(RejectKind(err)).Inc()
		return nil, err
	}

	title := fmt.Sprintf("Steem Flag Rewards Report - %d Flagger Post - %s",
		eng.QuorumThreshold, eng.clock().Format("2006-01-02 15:04"))
	body := renderStatementBody(batch, eng.QuorumThreshold)

	ref, err := eng.Ledger.PostTopLevel(ctx, eng.Account, title, body, eng.StatementTags, beneficiaries)
	if err != nil {
		statementFailures.WithLabelValues("submit").Inc()
		return nil, fmt.Errorf("submitting statement: %w", err)
	}

	reporters := make([]string, 0, len(beneficiaries))
	for _, b := range beneficiaries {
		reporters = append(reporters, b.Account)
	}
	if _, err := eng.Store.MarkIncluded(ctx, reporters); err != nil {
		statementFailures.WithLabelValues(RejectKind(ErrPostedButNotRecorded)).Inc()
		eng.Logger.Error("statement published but batch not marked included",
			"statement", ref.String(), "reporters", strings.Join(reporters, ","), "err", err)
		return &ref, fmt.Errorf("%w: statement %s: %v", ErrPostedButNotRecorded, ref, err)
	}

	statementsPublished.Inc()
	eng.Logger.Info("statement published", "statement", ref.String(), "records", len(batch), "reporters", len(reporters))
	if nerr := eng.notifier().StatementPublished(ctx, ref); nerr != nil {
		eng.Logger.Warn("statement notification failed", "err", nerr)
	}
	return &ref, nil
}

// beneficiaryWeights splits SharePct of the statement's rewards across the
// batch's reporters, proportional to record count, in parts-per-10000.
// Integer division runs floor-first; the remainder is then distributed one
// unit at a time by largest fractional remainder, ties broken by reporter
// name ascending, so the result is deterministic and sums exactly to
// sharePct*100. Chain caps (8 beneficiaries, 10000 total) abort with
// ErrBeneficiaryLimit before anything is submitted.
func beneficiaryWeights(batch []flagstore.FlagRecord, sharePct int) ([]steem.Beneficiary, error) {
	totalBP := sharePct * 100
	if totalBP > steem.PercentBase {
		return nil, fmt.Errorf("%w: share %d%% exceeds total rewards", ErrBeneficiaryLimit, sharePct)
	}

	counts := map[string]int{}
	for _, rec := range batch {
		counts[rec.Reporter]++
	}
	if len(counts) > steem.MaxBeneficiaries {
		return nil, fmt.Errorf("%w: %d reporters, chain cap is %d", ErrBeneficiaryLimit, len(counts), steem.MaxBeneficiaries)
	}

	reporters := make([]string, 0, len(counts))
	for r := range counts {
		reporters = append(reporters, r)
	}
	sort.Strings(reporters)

	total := len(batch)
	out := make([]steem.Beneficiary, 0, len(reporters))
	remainders := make([]int, len(reporters))
	assigned := 0
	for i, r := range reporters {
		share := counts[r] * totalBP
		out = append(out, steem.Beneficiary{Account: r, WeightBP: share / total})
		remainders[i] = share % total
		assigned += share / total
	}

	// largest remainder first; sort.SliceStable keeps the name-ascending
	// order as the tiebreak
	order := make([]int, len(reporters))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})
	for i := 0; assigned < totalBP; i++ {
		out[order[i%len(order)]].WeightBP++
		assigned++
	}

	return out, nil
}

func renderStatementBody(batch []flagstore.FlagRecord, threshold int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## This post triggers once we have approved flags from %d distinct flaggers via the SteemFlagRewards abuse fighting community.\n\n", threshold)
	b.WriteString("Flaggers have been designated as post beneficiaries. Our goal is to empower abuse-fighting plankton and minnows and promote a Steem that is less friendly to abuse. Building abuse fighters equals less abuse.\n\n")
	b.WriteString("|Link|Flagger|Removed Rewards|Category|\n|:----|:-------|:---------------:|:--------|\n")
	for _, rec := range batch {
		fmt.Fprintf(&b, "|[Comment](https://steemit.com/@%s)|@%s|$%s|%s|\n",
			rec.ReportComment, rec.Reporter, rec.RemovedValue.StringFixed(3), rec.Category)
	}
	return b.String()
}
