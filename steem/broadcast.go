package steem

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Broadcasts are built as condenser-format operation tuples and handed to
// the wallet endpoint's sign_transaction, which signs with the shared
// account's keys and submits.

type operation [2]any

type unsignedTx struct {
	Operations []operation `json:"operations"`
	Extensions []any       `json:"extensions"`
}

func (c *Client) broadcast(ctx context.Context, ops ...operation) error {
	if c.WalletURL == "" {
		return fmt.Errorf("%w: no wallet endpoint configured", ErrRPCFailure)
	}
	tx := unsignedTx{Operations: ops, Extensions: []any{}}
	return c.call(ctx, c.WalletURL, "sign_transaction", []any{tx, true}, nil)
}

func (c *Client) CastVote(ctx context.Context, voter string, ref ContentRef, weightBP int) error {
	op := operation{"vote", map[string]any{
		"voter":    voter,
		"author":   ref.Author,
		"permlink": ref.Permlink,
		"weight":   weightBP,
	}}
	if err := c.broadcast(ctx, op); err != nil {
		return fmt.Errorf("casting vote on %s: %w", ref, err)
	}
	c.Logger.Info("vote broadcast", "voter", voter, "target", ref.String(), "weightBP", weightBP)
	return nil
}

func (c *Client) PostComment(ctx context.Context, author string, parent ContentRef, body string) (ContentRef, error) {
	permlink := replyPermlink(parent)
	op := operation{"comment", map[string]any{
		"parent_author":   parent.Author,
		"parent_permlink": parent.Permlink,
		"author":          author,
		"permlink":        permlink,
		"title":           "",
		"body":            body,
		"json_metadata":   "{}",
	}}
	if err := c.broadcast(ctx, op); err != nil {
		return ContentRef{}, fmt.Errorf("posting reply under %s: %w", parent, err)
	}
	ref := ContentRef{Author: author, Permlink: permlink}
	c.Logger.Info("reply broadcast", "author", author, "parent", parent.String(), "permlink", permlink)
	return ref, nil
}

func (c *Client) PostTopLevel(ctx context.Context, author, title, body string, tags []string, beneficiaries []Beneficiary) (ContentRef, error) {
	if len(beneficiaries) > MaxBeneficiaries {
		return ContentRef{}, fmt.Errorf("beneficiary count %d exceeds chain cap %d", len(beneficiaries), MaxBeneficiaries)
	}
	permlink := slugify(title) + "-" + time.Now().UTC().Format("20060102t150405z")
	parentPermlink := "steemflagrewards"
	if len(tags) > 0 {
		parentPermlink = tags[0]
	}
	meta, err := json.Marshal(map[string]any{"tags": tags, "app": "sfrbot"})
	if err != nil {
		return ContentRef{}, err
	}

	commentOp := operation{"comment", map[string]any{
		"parent_author":   "",
		"parent_permlink": parentPermlink,
		"author":          author,
		"permlink":        permlink,
		"title":           title,
		"body":            body,
		"json_metadata":   string(meta),
	}}
	optionsOp := operation{"comment_options", map[string]any{
		"author":                 author,
		"permlink":               permlink,
		"max_accepted_payout":    "1000000.000 SBD",
		"percent_steem_dollars":  PercentBase,
		"allow_votes":            true,
		"allow_curation_rewards": true,
		"extensions": []any{
			[]any{0, map[string]any{"beneficiaries": beneficiaries}},
		},
	}}
	// comment and comment_options must land in the same transaction; no vote
	// op is attached here, so the statement is never self-voted
	if err := c.broadcast(ctx, commentOp, optionsOp); err != nil {
		return ContentRef{}, fmt.Errorf("posting top-level %q: %w", title, err)
	}
	ref := ContentRef{Author: author, Permlink: permlink}
	c.Logger.Info("post broadcast", "author", author, "permlink", permlink, "beneficiaries", len(beneficiaries))
	return ref, nil
}

func replyPermlink(parent ContentRef) string {
	base := "re-" + parent.Author + "-" + parent.Permlink
	if len(base) > 200 {
		base = base[:200]
	}
	return slugify(base) + "-" + time.Now().UTC().Format("20060102t150405z")
}

var nonSlug = regexp.MustCompile(`[^a-z0-9-]+`)

// slugify reduces a string to the lowercase [a-z0-9-] alphabet permlinks
// allow.
func slugify(s string) string {
	s = strings.ToLower(s)
	s = nonSlug.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	if s == "" {
		s = "post"
	}
	return s
}
