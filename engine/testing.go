package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/steemflagrewards/sfrbot/steem"
)

// FakeGateway is an in-memory steem.Gateway for tests: chain state is seeded
// directly, broadcasts are recorded instead of sent, and vote-weight math is
// driven by a fixed full-vote rshares figure.
type FakeGateway struct {
	Comments map[string]*steem.Comment
	Accounts map[string]*steem.Account
	Voted    map[string]map[string]bool
	History  []steem.HistoryComment

	// rshares of a full-weight vote by the shared account; drives
	// VotePctFromRshares
	FullVoteRshares int64

	// SBD value per rshare; drives RsharesToSBD
	SBDPerRshare decimal.Decimal

	// recorded broadcasts
	VoteCalls     []VoteCall
	CommentCalls  []CommentCall
	TopLevelCalls []TopLevelCall

	// error injection
	FailCastVote    error
	FailPostComment error
	FailPostTop     error
}

type VoteCall struct {
	Voter    string
	Ref      steem.ContentRef
	WeightBP int
}

type CommentCall struct {
	Author string
	Parent steem.ContentRef
	Body   string
}

type TopLevelCall struct {
	Author        string
	Title         string
	Body          string
	Tags          []string
	Beneficiaries []steem.Beneficiary
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		Comments:        map[string]*steem.Comment{},
		Accounts:        map[string]*steem.Account{},
		Voted:           map[string]map[string]bool{},
		FullVoteRshares: 1_000_000,
		SBDPerRshare:    decimal.RequireFromString("0.000001"),
	}
}

func (g *FakeGateway) AddComment(c *steem.Comment) {
	g.Comments[c.Ref().String()] = c
}

func (g *FakeGateway) AddAccount(a *steem.Account) {
	g.Accounts[a.Name] = a
}

func (g *FakeGateway) GetComment(ctx context.Context, ref steem.ContentRef) (*steem.Comment, error) {
	c, ok := g.Comments[ref.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", steem.ErrNotFound, ref)
	}
	return c, nil
}

func (g *FakeGateway) GetAccount(ctx context.Context, name string) (*steem.Account, error) {
	a, ok := g.Accounts[name]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", steem.ErrNotFound, name)
	}
	return a, nil
}

func (g *FakeGateway) HasVoted(ctx context.Context, voter string, ref steem.ContentRef) (bool, error) {
	return g.Voted[ref.String()][voter], nil
}

func (g *FakeGateway) ListRecentComments(ctx context.Context, account string, limit int) ([]steem.HistoryComment, error) {
	return g.History, nil
}

func (g *FakeGateway) CastVote(ctx context.Context, voter string, ref steem.ContentRef, weightBP int) error {
	if g.FailCastVote != nil {
		return g.FailCastVote
	}
	g.VoteCalls = append(g.VoteCalls, VoteCall{Voter: voter, Ref: ref, WeightBP: weightBP})
	if g.Voted[ref.String()] == nil {
		g.Voted[ref.String()] = map[string]bool{}
	}
	g.Voted[ref.String()][voter] = true
	return nil
}

func (g *FakeGateway) PostComment(ctx context.Context, author string, parent steem.ContentRef, body string) (steem.ContentRef, error) {
	if g.FailPostComment != nil {
		return steem.ContentRef{}, g.FailPostComment
	}
	g.CommentCalls = append(g.CommentCalls, CommentCall{Author: author, Parent: parent, Body: body})
	return steem.ContentRef{Author: author, Permlink: fmt.Sprintf("re-%s-%d", parent.Permlink, len(g.CommentCalls))}, nil
}

func (g *FakeGateway) PostTopLevel(ctx context.Context, author, title, body string, tags []string, beneficiaries []steem.Beneficiary) (steem.ContentRef, error) {
	if g.FailPostTop != nil {
		return steem.ContentRef{}, g.FailPostTop
	}
	g.TopLevelCalls = append(g.TopLevelCalls, TopLevelCall{Author: author, Title: title, Body: body, Tags: tags, Beneficiaries: beneficiaries})
	return steem.ContentRef{Author: author, Permlink: fmt.Sprintf("statement-%d", len(g.TopLevelCalls))}, nil
}

func (g *FakeGateway) RsharesToSBD(ctx context.Context, rshares int64) (decimal.Decimal, error) {
	if rshares < 0 {
		rshares = -rshares
	}
	return g.SBDPerRshare.Mul(decimal.NewFromInt(rshares)), nil
}

func (g *FakeGateway) VotePctFromRshares(ctx context.Context, rshares int64, account *steem.Account) (decimal.Decimal, error) {
	if rshares < 0 {
		rshares = -rshares
	}
	if g.FullVoteRshares == 0 {
		return decimal.Zero, nil
	}
	return decimal.NewFromInt(rshares).
		Mul(decimal.NewFromInt(steem.PercentBase)).
		Div(decimal.NewFromInt(g.FullVoteRshares)), nil
}

func (g *FakeGateway) VoteValueSBD(ctx context.Context, account string) (decimal.Decimal, error) {
	return g.RsharesToSBD(ctx, g.FullVoteRshares)
}

var _ steem.Gateway = (*FakeGateway)(nil)
