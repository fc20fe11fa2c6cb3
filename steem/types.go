package steem

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ContentRef is a stable author+permlink reference to a post or comment.
type ContentRef struct {
	Author   string
	Permlink string
}

func (r ContentRef) String() string {
	return r.Author + "/" + r.Permlink
}

func (r ContentRef) IsZero() bool {
	return r.Author == "" && r.Permlink == ""
}

// ParseContentRef accepts either a bare "author/permlink" pair or a full
// frontend URL like "https://steemit.com/category/@author/permlink". The
// leading '@' on the author is optional in both forms.
func ParseContentRef(raw string) (ContentRef, error) {
	s := raw
	if idx := strings.LastIndex(s, "@"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.Trim(s, "/")
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ContentRef{}, fmt.Errorf("%w: %q", ErrBadRef, raw)
	}
	return ContentRef{Author: parts[0], Permlink: parts[1]}, nil
}

// VoteEntry is one row of a comment's active vote list. Negative rshares
// indicate a downvote.
type VoteEntry struct {
	Voter   string
	Rshares int64
	Time    time.Time
}

type Comment struct {
	Author      string
	Permlink    string
	ParentRef   ContentRef
	Body        string
	Created     time.Time
	ActiveVotes []VoteEntry
}

func (c *Comment) Ref() ContentRef {
	return ContentRef{Author: c.Author, Permlink: c.Permlink}
}

// IsTopLevel reports whether the comment is a root post (no parent author).
func (c *Comment) IsTopLevel() bool {
	return c.ParentRef.Author == ""
}

// Account is a point-in-time snapshot of an on-chain account. Snapshots are
// re-fetched for every evaluation step that needs one; they are never cached
// across an approval cycle.
type Account struct {
	Name string

	// current voting power in basis points (10000 = 100%)
	VotingPowerBP int64

	// effective Steem Power: own plus received minus delegated vesting,
	// converted through the global vesting fund ratio at fetch time
	SteemPower decimal.Decimal

	// raw received vesting shares (nonzero means an active incoming delegation)
	ReceivedVests decimal.Decimal

	Reputation int64
	Created    time.Time
}

// VotingPowerPct returns voting power on the human 0-100 scale.
func (a *Account) VotingPowerPct() float64 {
	return float64(a.VotingPowerBP) / 100.0
}

// HistoryComment is a comment operation from an account's history, newest
// first. Only the fields the reply rate limiter needs are retained.
type HistoryComment struct {
	Author    string
	Permlink  string
	Timestamp time.Time
}

// Beneficiary assigns a parts-per-10000 share of a post's rewards to an
// account.
type Beneficiary struct {
	Account  string `json:"account"`
	WeightBP int    `json:"weight"`
}
