package steem

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateway is the capability set the approval engine consumes. Client is the
// JSON-RPC implementation; tests substitute in-memory fakes.
type Gateway interface {
	// GetComment resolves a post or comment; ErrNotFound if absent.
	GetComment(ctx context.Context, ref ContentRef) (*Comment, error)

	// GetAccount resolves an account snapshot; ErrNotFound if absent.
	GetAccount(ctx context.Context, name string) (*Account, error)

	// HasVoted reports whether voter already has a vote (of either sign) on
	// the referenced content.
	HasVoted(ctx context.Context, voter string, ref ContentRef) (bool, error)

	// ListRecentComments returns the account's most recent comment
	// operations, newest first, up to limit.
	ListRecentComments(ctx context.Context, account string, limit int) ([]HistoryComment, error)

	// CastVote broadcasts a vote at weightBP basis points (positive for an
	// upvote).
	CastVote(ctx context.Context, voter string, ref ContentRef, weightBP int) error

	// PostComment broadcasts a reply under parent and returns its reference.
	PostComment(ctx context.Context, author string, parent ContentRef, body string) (ContentRef, error)

	// PostTopLevel broadcasts a new root post with the given beneficiary
	// routes. No vote operation is attached, so the post is never
	// self-voted.
	PostTopLevel(ctx context.Context, author, title, body string, tags []string, beneficiaries []Beneficiary) (ContentRef, error)

	// RsharesToSBD converts a reward-share magnitude to SBD at current
	// reward fund and feed price state.
	RsharesToSBD(ctx context.Context, rshares int64) (decimal.Decimal, error)

	// VotePctFromRshares returns the vote weight in basis points that the
	// named account would need, at its current power, to produce the given
	// rshares magnitude.
	VotePctFromRshares(ctx context.Context, rshares int64, account *Account) (decimal.Decimal, error)

	// VoteValueSBD returns the SBD value of a full-weight vote by the named
	// account at its current power.
	VoteValueSBD(ctx context.Context, account string) (decimal.Decimal, error)
}
