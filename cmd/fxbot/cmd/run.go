package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rustyeddy/fxbot/broker"
	"github.com/rustyeddy/fxbot/broker/oanda"
	"github.com/rustyeddy/fxbot/config"
	"github.com/rustyeddy/fxbot/journal"
	"github.com/rustyeddy/fxbot/market"
	"github.com/rustyeddy/fxbot/notify"
	"github.com/rustyeddy/fxbot/reconcile"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the live bot from a config file",
	Long: `Run the live trading bot using settings from a configuration file.

The bot recovers open positions from the broker, then consumes the account
transaction stream and keeps the trade ledger in sync with every fill,
replacement, rejection and cancelation.

Example:
  fxbot run -f configs/live.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := "live"
	if cfg.Oanda.Practice {
		env = "practice"
	}
	base, err := oanda.BaseURL(env)
	if err != nil {
		return err
	}
	client := &oanda.Client{
		BaseURL:   base,
		Token:     cfg.Oanda.Token,
		AccountID: cfg.Oanda.AccountID,
	}

	pips, err := resolvePips(ctx, client, cfg)
	if err != nil {
		return fmt.Errorf("pip table: %w", err)
	}

	ledger, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer ledger.Close()

	sink, tg, err := buildSinks(ctx, cfg, ledger)
	if err != nil {
		return err
	}
	if tg != nil {
		rep := notify.NewReporter(tg, cfg.Telegram.ReportHour)
		go rep.Run(ctx, time.Minute)
	}

	rc := reconcile.New(reconcile.Config{
		Account:         cfg.Oanda.AccountType(),
		Language:        cfg.Trading.Language,
		Currency:        cfg.Account.Currency,
		Pips:            pips,
		ProfitRiskRatio: cfg.Trading.ProfitRiskRatio,
		Debug:           cfg.Debug,
	}, ledger, sink)

	if err := rc.Recover(ctx, client); err != nil {
		return fmt.Errorf("recover positions: %w", err)
	}

	fmt.Printf("fxbot running on %s account %s\n", env, cfg.Oanda.AccountID)
	fmt.Printf("  Instruments: %v\n", cfg.Trading.Instruments)
	fmt.Printf("  Ledger: %s\n\n", cfg.Journal.DBPath)

	return streamLoop(ctx, client, rc)
}

// streamLoop consumes the transaction stream and reconnects after transient
// failures until the context is canceled.
func streamLoop(ctx context.Context, client *oanda.Client, rc *reconcile.Reconciler) error {
	for {
		err := client.StreamTransactions(ctx, func(ev broker.TransactionEvent) error {
			msg, err := rc.HandleTransaction(ev)
			if err != nil {
				return err
			}
			if msg != "" {
				log.Println(msg)
			}
			return nil
		})
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			log.Printf("stream: %v, reconnecting", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(5 * time.Second):
		}

		// state may have moved while disconnected
		if err := rc.Recover(ctx, client); err != nil {
			log.Printf("recover: %v", err)
		}
	}
}

// resolvePips asks the broker for the pip location of every configured
// instrument, then applies any config overrides on top.
func resolvePips(ctx context.Context, client *oanda.Client, cfg *config.Config) (market.PipTable, error) {
	pips, err := client.PipTable(ctx, cfg.Trading.Instruments)
	if err != nil {
		return nil, err
	}
	for in, units := range cfg.Trading.Pips {
		pips[in] = units
	}
	return pips, nil
}

func buildSinks(ctx context.Context, cfg *config.Config, ledger journal.Ledger) (notify.Sink, *notify.Telegram, error) {
	var sinks notify.Multi
	var tg *notify.Telegram

	if cfg.TTS.Enabled {
		sinks = append(sinks, notify.NewTTS(cfg.TTS.Language))
	}
	if cfg.Telegram.Token != "" {
		tg = notify.NewTelegram(
			cfg.Telegram.Token, cfg.Telegram.ChatID,
			cfg.Telegram.Frequency, cfg.Account.Currency, ledger,
		)
		if err := tg.Check(ctx); err != nil {
			return nil, nil, fmt.Errorf("telegram: %w", err)
		}
		sinks = append(sinks, tg)
	}

	if len(sinks) == 0 {
		return notify.Noop{}, nil, nil
	}
	return sinks, tg, nil
}
