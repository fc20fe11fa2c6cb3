package engine

import (
	"context"
	"time"

	"github.com/steemflagrewards/sfrbot/steem"
)

// how far back to scan account history for the last self-authored comment
const replyHistoryWindow = 100

// nextReplyDelay computes how long the shared account must still wait before
// it may post another comment without tripping the chain's minimum reply
// interval. Only the single most recent self-authored comment is consulted;
// this keeps one queued reply safe, it is not a concurrency-safe limiter.
func (eng *Engine) nextReplyDelay(ctx context.Context) (time.Duration, error) {
	history, err := eng.Ledger.ListRecentComments(ctx, eng.Account, replyHistoryWindow)
	if err != nil {
		return 0, err
	}
	for _, hc := range history {
		if hc.Author != eng.Account {
			continue
		}
		elapsed := eng.clock().Sub(hc.Timestamp)
		if elapsed >= steem.MinReplyInterval {
			return 0, nil
		}
		return steem.MinReplyInterval - elapsed, nil
	}
	return 0, nil
}

// waitReplyInterval sleeps out the remaining reply-interval delay, honoring
// context cancellation. This is the approval pipeline's only suspension
// point; the vote itself is never delayed.
func (eng *Engine) waitReplyInterval(ctx context.Context) error {
	delay, err := eng.nextReplyDelay(ctx)
	if err != nil {
		return err
	}
	replyWaitSeconds.Observe(delay.Seconds())
	if delay <= 0 {
		return nil
	}
	eng.Logger.Debug("waiting out reply interval", "delay", delay)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
