package steem

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// Client talks condenser-style JSON-RPC to a public API node for reads, and
// to a separate signing wallet endpoint for broadcasts. The wallet holds the
// shared account's keys; this module never sees them.
type Client struct {
	APIURL    string
	WalletURL string
	HTTPC     *http.Client
	Logger    *slog.Logger

	// client-side throttle across both endpoints, to stay friendly with
	// public nodes
	Limiter *rate.Limiter

	reqID int64
}

type ClientConfig struct {
	APIURL    string
	WalletURL string
	// requests per second against the API node; zero means a conservative
	// default
	RateLimit float64
	Logger    *slog.Logger
	HTTPC     *http.Client
}

func NewClient(config ClientConfig) *Client {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	httpc := config.HTTPC
	if httpc == nil {
		httpc = http.DefaultClient
	}
	rps := config.RateLimit
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		APIURL:    config.APIURL,
		WalletURL: config.WalletURL,
		HTTPC:     httpc,
		Logger:    logger,
		Limiter:   rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int64  `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, url, method string, params any, out any) error {
	if err := c.Limiter.Wait(ctx); err != nil {
		return err
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      atomic.AddInt64(&c.reqID, 1),
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPC.Do(req)
	if err != nil {
		rpcRequestsErrored.WithLabelValues(method).Inc()
		return fmt.Errorf("%w: %s: %v", ErrRPCFailure, method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		rpcRequestsErrored.WithLabelValues(method).Inc()
		return fmt.Errorf("%w: %s: HTTP %d", ErrRPCFailure, method, resp.StatusCode)
	}
	var rr rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		rpcRequestsErrored.WithLabelValues(method).Inc()
		return fmt.Errorf("%w: %s: decoding response: %v", ErrRPCFailure, method, err)
	}
	if rr.Error != nil {
		rpcRequestsErrored.WithLabelValues(method).Inc()
		return fmt.Errorf("%w: %s: node error %d: %s", ErrRPCFailure, method, rr.Error.Code, rr.Error.Message)
	}
	rpcRequests.WithLabelValues(method).Inc()
	if out != nil {
		if err := json.Unmarshal(rr.Result, out); err != nil {
			return fmt.Errorf("%w: %s: decoding result: %v", ErrRPCFailure, method, err)
		}
	}
	return nil
}

// wire shapes for condenser_api results

type rawVote struct {
	Voter   string      `json:"voter"`
	Rshares json.Number `json:"rshares"`
	Time    string      `json:"time"`
}

type rawContent struct {
	ID             int64     `json:"id"`
	Author         string    `json:"author"`
	Permlink       string    `json:"permlink"`
	ParentAuthor   string    `json:"parent_author"`
	ParentPermlink string    `json:"parent_permlink"`
	Body           string    `json:"body"`
	Created        string    `json:"created"`
	ActiveVotes    []rawVote `json:"active_votes"`
}

type rawAccount struct {
	Name                   string      `json:"name"`
	VotingPower            int64       `json:"voting_power"`
	VestingShares          string      `json:"vesting_shares"`
	ReceivedVestingShares  string      `json:"received_vesting_shares"`
	DelegatedVestingShares string      `json:"delegated_vesting_shares"`
	Reputation             json.Number `json:"reputation"`
	Created                string      `json:"created"`
}

type rawGlobalProps struct {
	TotalVestingFundSteem string `json:"total_vesting_fund_steem"`
	TotalVestingShares    string `json:"total_vesting_shares"`
}

type rawRewardFund struct {
	RewardBalance string      `json:"reward_balance"`
	RecentClaims  json.Number `json:"recent_claims"`
}

type rawPrice struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

// parseAmount decodes asset strings like "12.345 STEEM" or "0.456 VESTS".
func parseAmount(s string) (decimal.Decimal, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return decimal.Zero, fmt.Errorf("empty asset amount")
	}
	return decimal.NewFromString(fields[0])
}

// parseChainTime handles the zone-less ISO timestamps condenser nodes emit
// ("2018-05-31T12:00:00"); they are always UTC.
func parseChainTime(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing chain timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

func (c *Client) GetComment(ctx context.Context, ref ContentRef) (*Comment, error) {
	var raw rawContent
	if err := c.call(ctx, c.APIURL, "condenser_api.get_content", []any{ref.Author, ref.Permlink}, &raw); err != nil {
		return nil, err
	}
	// condenser returns an empty object (id 0, empty author) for unknown refs
	if raw.Author == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	created, err := parseChainTime(raw.Created)
	if err != nil {
		return nil, err
	}
	out := &Comment{
		Author:   raw.Author,
		Permlink: raw.Permlink,
		Body:     raw.Body,
		Created:  created,
	}
	if raw.ParentAuthor != "" {
		out.ParentRef = ContentRef{Author: raw.ParentAuthor, Permlink: raw.ParentPermlink}
	}
	for _, v := range raw.ActiveVotes {
		rshares, err := v.Rshares.Int64()
		if err != nil {
			return nil, fmt.Errorf("vote rshares by %s on %s: %w", v.Voter, ref, err)
		}
		vt, err := parseChainTime(v.Time)
		if err != nil {
			return nil, err
		}
		out.ActiveVotes = append(out.ActiveVotes, VoteEntry{Voter: v.Voter, Rshares: rshares, Time: vt})
	}
	return out, nil
}

func (c *Client) GetAccount(ctx context.Context, name string) (*Account, error) {
	var raws []rawAccount
	if err := c.call(ctx, c.APIURL, "condenser_api.get_accounts", []any{[]string{name}}, &raws); err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("%w: account %s", ErrNotFound, name)
	}
	raw := raws[0]

	own, err := parseAmount(raw.VestingShares)
	if err != nil {
		return nil, fmt.Errorf("account %s vesting_shares: %w", name, err)
	}
	received, err := parseAmount(raw.ReceivedVestingShares)
	if err != nil {
		return nil, fmt.Errorf("account %s received_vesting_shares: %w", name, err)
	}
	delegated, err := parseAmount(raw.DelegatedVestingShares)
	if err != nil {
		return nil, fmt.Errorf("account %s delegated_vesting_shares: %w", name, err)
	}
	created, err := parseChainTime(raw.Created)
	if err != nil {
		return nil, err
	}

	fundSteem, fundVests, err := c.vestingFund(ctx)
	if err != nil {
		return nil, err
	}
	effective := own.Add(received).Sub(delegated)
	rep, err := raw.Reputation.Int64()
	if err != nil {
		return nil, fmt.Errorf("account %s reputation: %w", name, err)
	}

	return &Account{
		Name:          raw.Name,
		VotingPowerBP: raw.VotingPower,
		SteemPower:    VestsToSteem(effective, fundSteem, fundVests),
		ReceivedVests: received,
		Reputation:    rep,
		Created:       created,
	}, nil
}

func (c *Client) vestingFund(ctx context.Context) (fundSteem, fundVests decimal.Decimal, err error) {
	var props rawGlobalProps
	if err = c.call(ctx, c.APIURL, "condenser_api.get_dynamic_global_properties", []any{}, &props); err != nil {
		return
	}
	if fundSteem, err = parseAmount(props.TotalVestingFundSteem); err != nil {
		return
	}
	fundVests, err = parseAmount(props.TotalVestingShares)
	return
}

func (c *Client) HasVoted(ctx context.Context, voter string, ref ContentRef) (bool, error) {
	var votes []rawVote
	if err := c.call(ctx, c.APIURL, "condenser_api.get_active_votes", []any{ref.Author, ref.Permlink}, &votes); err != nil {
		return false, err
	}
	for _, v := range votes {
		if v.Voter == voter {
			return true, nil
		}
	}
	return false, nil
}

type rawHistoryOp struct {
	Timestamp string            `json:"timestamp"`
	Op        []json.RawMessage `json:"op"`
}

func (c *Client) ListRecentComments(ctx context.Context, account string, limit int) ([]HistoryComment, error) {
	if limit <= 0 {
		limit = 100
	}
	// history comes back oldest-first; -1 starts from the newest entry
	var entries [][2]json.RawMessage
	if err := c.call(ctx, c.APIURL, "condenser_api.get_account_history", []any{account, -1, limit}, &entries); err != nil {
		return nil, err
	}
	var out []HistoryComment
	for i := len(entries) - 1; i >= 0; i-- {
		var op rawHistoryOp
		if err := json.Unmarshal(entries[i][1], &op); err != nil {
			return nil, fmt.Errorf("decoding history entry: %w", err)
		}
		if len(op.Op) != 2 {
			continue
		}
		var name string
		if err := json.Unmarshal(op.Op[0], &name); err != nil || name != "comment" {
			continue
		}
		var body struct {
			Author   string `json:"author"`
			Permlink string `json:"permlink"`
		}
		if err := json.Unmarshal(op.Op[1], &body); err != nil {
			return nil, fmt.Errorf("decoding history comment op: %w", err)
		}
		ts, err := parseChainTime(op.Timestamp)
		if err != nil {
			return nil, err
		}
		out = append(out, HistoryComment{Author: body.Author, Permlink: body.Permlink, Timestamp: ts})
	}
	return out, nil
}

func (c *Client) RsharesToSBD(ctx context.Context, rshares int64) (decimal.Decimal, error) {
	var fund rawRewardFund
	if err := c.call(ctx, c.APIURL, "condenser_api.get_reward_fund", []any{"post"}, &fund); err != nil {
		return decimal.Zero, err
	}
	balance, err := parseAmount(fund.RewardBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reward_balance: %w", err)
	}
	claims, err := decimal.NewFromString(fund.RecentClaims.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("recent_claims: %w", err)
	}
	price, err := c.medianPrice(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return RsharesToSBD(rshares, balance, claims, price), nil
}

func (c *Client) medianPrice(ctx context.Context) (decimal.Decimal, error) {
	var raw rawPrice
	if err := c.call(ctx, c.APIURL, "condenser_api.get_current_median_history_price", []any{}, &raw); err != nil {
		return decimal.Zero, err
	}
	base, err := parseAmount(raw.Base)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price base: %w", err)
	}
	quote, err := parseAmount(raw.Quote)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price quote: %w", err)
	}
	if quote.IsZero() {
		return decimal.Zero, nil
	}
	return base.Div(quote), nil
}

func (c *Client) VotePctFromRshares(ctx context.Context, rshares int64, account *Account) (decimal.Decimal, error) {
	fundSteem, fundVests, err := c.vestingFund(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return VotePctFromRshares(rshares, account.SteemPower, fundSteem, fundVests, account.VotingPowerBP), nil
}

func (c *Client) VoteValueSBD(ctx context.Context, account string) (decimal.Decimal, error) {
	acc, err := c.GetAccount(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}
	fundSteem, fundVests, err := c.vestingFund(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	full := VoteRshares(acc.SteemPower, fundSteem, fundVests, acc.VotingPowerBP, PercentBase)
	return c.RsharesToSBD(ctx, full.IntPart())
}
