package sdl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/steemflagrewards/sfrbot/engine"
	"github.com/steemflagrewards/sfrbot/steem"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testRoster(t *testing.T) (*Roster, *engine.FakeGateway) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	gw := engine.NewFakeGateway()
	roster, err := NewRoster(db, gw, nil)
	require.NoError(t, err)
	return roster, gw
}

func chainAccount(name string, delegated bool) *steem.Account {
	received := decimal.Zero
	if delegated {
		received = decimal.RequireFromString("5000.000000")
	}
	return &steem.Account{
		Name:          name,
		ReceivedVests: received,
		Created:       time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRosterAddRemoveList(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	roster, gw := testRoster(t)

	gw.AddAccount(chainAccount("zeta", false))
	gw.AddAccount(chainAccount("alpha", true))

	entry, err := roster.Add(ctx, "zeta")
	require.NoError(err)
	assert.False(entry.Delegation)

	entry, err = roster.Add(ctx, "alpha")
	require.NoError(err)
	assert.True(entry.Delegation)

	// unknown on chain: rejected before touching the roster
	_, err = roster.Add(ctx, "ghost")
	assert.True(errors.Is(err, steem.ErrNotFound), "got %v", err)

	// duplicate
	_, err = roster.Add(ctx, "zeta")
	assert.True(errors.Is(err, ErrAlreadyListed), "got %v", err)

	// delegated first, then names ascending
	entries, err := roster.List(ctx)
	require.NoError(err)
	require.Len(entries, 2)
	assert.Equal("alpha", entries[0].Name)
	assert.Equal("zeta", entries[1].Name)

	require.NoError(roster.Remove(ctx, "zeta"))
	assert.True(errors.Is(roster.Remove(ctx, "zeta"), ErrNotListed))
}

func TestRosterRefreshDelegations(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	roster, gw := testRoster(t)

	gw.AddAccount(chainAccount("keeper", true))
	gw.AddAccount(chainAccount("loser", true))
	_, err := roster.Add(ctx, "keeper")
	require.NoError(err)
	_, err = roster.Add(ctx, "loser")
	require.NoError(err)

	// the delegation to "loser" is withdrawn on chain
	gw.AddAccount(chainAccount("loser", false))

	cleared, err := roster.RefreshDelegations(ctx)
	require.NoError(err)
	assert.Equal([]string{"loser"}, cleared)

	entries, err := roster.List(ctx)
	require.NoError(err)
	for _, e := range entries {
		if e.Name == "keeper" {
			assert.True(e.Delegation)
		} else {
			assert.False(e.Delegation)
		}
	}
}

func TestRosterExport(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	roster, gw := testRoster(t)

	for _, name := range []string{"bravo", "alpha"} {
		gw.AddAccount(chainAccount(name, false))
		_, err := roster.Add(ctx, name)
		require.NoError(err)
	}

	out, err := roster.Export(ctx)
	require.NoError(err)
	require.Equal("alpha\nbravo\n", out)
}
