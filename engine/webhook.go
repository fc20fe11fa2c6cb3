package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/steemflagrewards/sfrbot/steem"
)

// WebhookNotifier delivers events as simple JSON messages to an
// incoming-webhook URL (the chat front end owns formatting beyond that).
type WebhookNotifier struct {
	URL   string
	HTTPC *http.Client
}

type webhookBody struct {
	Content string `json:"content"`
}

func (n *WebhookNotifier) ReportApproved(ctx context.Context, out *Outcome) error {
	msg := fmt.Sprintf("Upvoted and commented! @%s's %s report is approved, now at %d pending flaggers.\nhttps://steemit.com/@%s",
		out.Reporter, out.Category, out.PendingReporters, out.ReportComment)
	return n.send(ctx, msg)
}

func (n *WebhookNotifier) StatementPublished(ctx context.Context, ref steem.ContentRef) error {
	msg := fmt.Sprintf("Successfully posted a new report! Check it out! (And upvote it as well :P)\nhttps://steemit.com/@%s", ref)
	return n.send(ctx, msg)
}

func (n *WebhookNotifier) LowCapacity(ctx context.Context, votingPowerPct float64, voteValueSBD decimal.Decimal) error {
	msg := fmt.Sprintf("Voting power is down to %.2f%%, time for a break. A full vote is currently worth about %s SBD.",
		votingPowerPct, voteValueSBD.StringFixed(3))
	return n.send(ctx, msg)
}

func (n *WebhookNotifier) send(ctx context.Context, msg string) error {
	body, err := json.Marshal(webhookBody{Content: msg})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	client := n.HTTPC
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook POST failed: status=%d", resp.StatusCode)
	}
	return nil
}
