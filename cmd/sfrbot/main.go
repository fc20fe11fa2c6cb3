package main

import (
	"log/slog"
	"os"

	"github.com/steemflagrewards/sfrbot/util/cliutil"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "sfrbot",
		Usage:   "flag approval and reward report daemon",
		Version: versioninfo.Short(),
	}

	app.Commands = []*cli.Command{
		runCmd,
	}

	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the service",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "steem-api-url",
			Usage:   "HTTP endpoint of a condenser-API node",
			Value:   "https://api.steemit.com",
			EnvVars: []string{"STEEM_API_URL"},
		},
		&cli.StringFlag{
			Name:    "wallet-url",
			Usage:   "HTTP endpoint of the signing wallet (holds the shared account keys)",
			EnvVars: []string{"STEEM_WALLET_URL"},
		},
		&cli.StringFlag{
			Name:    "account",
			Usage:   "shared broadcast account name",
			Value:   "steemflagrewards",
			EnvVars: []string{"SFR_ACCOUNT"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			Value:   "sqlite://data/sfrbot/sfrbot.db",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.IntFlag{
			Name:    "max-db-connections",
			EnvVars: []string{"MAX_DB_CONNECTIONS"},
			Value:   40,
		},
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "IP or address, and port, to listen on for the JSON API",
			Value:   ":3888",
			EnvVars: []string{"SFRBOT_BIND"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics",
			Value:   ":3889",
			EnvVars: []string{"SFRBOT_METRICS_LISTEN"},
		},
		&cli.IntFlag{
			Name:    "quorum",
			Usage:   "distinct pending reporters needed to trigger a statement",
			Value:   8,
			EnvVars: []string{"SFRBOT_QUORUM"},
		},
		&cli.IntFlag{
			Name:    "share-pct",
			Usage:   "percent of statement rewards routed to reporters",
			Value:   100,
			EnvVars: []string{"SFRBOT_SHARE_PCT"},
		},
		&cli.Float64Flag{
			Name:    "low-power-floor",
			Usage:   "voting power percent under which the advisory fires (0 disables)",
			Value:   75,
			EnvVars: []string{"SFRBOT_LOW_POWER_FLOOR"},
		},
		&cli.StringFlag{
			Name:    "webhook-url",
			Usage:   "incoming-webhook URL for statement and advisory notifications",
			EnvVars: []string{"SFRBOT_WEBHOOK_URL"},
		},
		&cli.Float64Flag{
			Name:    "node-rate-limit",
			Usage:   "max requests per second against the API node",
			Value:   10,
			EnvVars: []string{"SFRBOT_NODE_RATE_LIMIT"},
		},
	},
	Action: func(cctx *cli.Context) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		db, err := cliutil.SetupDatabase(cctx.String("database-url"), cctx.Int("max-db-connections"))
		if err != nil {
			return err
		}

		srv, err := NewServer(db, Config{
			SteemAPIURL:      cctx.String("steem-api-url"),
			WalletURL:        cctx.String("wallet-url"),
			Account:          cctx.String("account"),
			QuorumThreshold:  cctx.Int("quorum"),
			SharePct:         cctx.Int("share-pct"),
			LowPowerFloorPct: cctx.Float64("low-power-floor"),
			WebhookURL:       cctx.String("webhook-url"),
			NodeRateLimit:    cctx.Float64("node-rate-limit"),
			Logger:           logger,
		})
		if err != nil {
			return err
		}

		go func() {
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("metrics listener failed", "err", err)
				os.Exit(1)
			}
		}()

		return srv.RunAPI(cctx.String("bind"))
	},
}
