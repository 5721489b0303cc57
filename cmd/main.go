package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cryptomomentum/internal/analyzer"
	"cryptomomentum/internal/backtest"
	"cryptomomentum/internal/config"
	"cryptomomentum/internal/daemon"
	"cryptomomentum/internal/insights"
	"cryptomomentum/internal/logging"
	"cryptomomentum/internal/ohlc"
	"cryptomomentum/internal/playbook"
	"cryptomomentum/internal/recorder"
	"cryptomomentum/internal/types"

	"github.com/spf13/cobra"
)

const (
	appName           = "cryptomomentum"
	appVersion        = "1.0.0"
	defaultConfigPath = "./config.json"
)

var (
	cfgPath string
	cfg     *config.Config
)

func main() {
	root := &cobra.Command{
		Use:     appName,
		Short:   "Cross-sectional crypto momentum backtester and playbook generator",
		Version: appVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			logging.InitGlobalLogger(cfg.Logging)
			return nil
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, "path to configuration file")

	root.AddCommand(
		newOhlcCmd(),
		newRunCmd(),
		newAnalyzeCmd(),
		newTradeCmd(),
		newDaemonCmd(),
		newDeployCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newOhlcCmd() *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "ohlc",
		Short: "Download daily OHLC candles for the baseline and top-N coins",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := signalContext()

			endDate := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)
			if end != "" {
				var err error
				if endDate, err = time.Parse(types.DateFormat, end); err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
			}
			startDate := endDate.AddDate(0, 0, -cfg.Data.Days)
			if start != "" {
				var err error
				if startDate, err = time.Parse(types.DateFormat, start); err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
			}

			return ohlc.NewSyncer(cfg.Data).Sync(ctx, startDate, endDate)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD, default: end minus configured days)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD, default: yesterday)")
	return cmd
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the backtest over downloaded data and export signal tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, closeRec, err := openRecorder()
			if err != nil {
				return err
			}
			defer closeRec()

			results, err := backtest.NewRunner(cfg, rec).Run()
			if err != nil {
				return err
			}

			m := results.Metrics
			fmt.Printf("Run %s: %d assets over %d days\n", results.RunID, len(results.Assets), m.Days)
			fmt.Printf("  Total return %.2f%%, CAGR %.2f%%, Sharpe %.2f, MaxDD %.2f%%, Win %.2f%%\n",
				m.TotalReturn*100, m.CAGR*100, m.SharpeAnnualized, m.MaxDrawdown*100, m.WinRate*100)
			fmt.Printf("  Tables written to %s\n", cfg.Data.SignalsDir)
			return nil
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	var signalsDir, detailAsset string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze exported signal tables and rank profitable assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := signalsDir
			if dir == "" {
				dir = cfg.Data.SignalsDir
			}
			analyses, err := analyzer.AnalyzeDir(dir, func(path string, err error) {
				logging.Warnf("skipping unreadable signal table %s: %v", path, err)
			})
			if err != nil {
				return err
			}

			if detailAsset != "" {
				for _, a := range analyses {
					if a.Stats.Asset == detailAsset {
						analyzer.WriteDetail(os.Stdout, a)
						return nil
					}
				}
				return fmt.Errorf("no signal table for asset %q in %s", detailAsset, dir)
			}

			analyzer.WriteSummary(os.Stdout, analyses)
			return nil
		},
	}
	cmd.Flags().StringVar(&signalsDir, "signals-dir", "", "directory of signals_*.csv tables (default: configured)")
	cmd.Flags().StringVar(&detailAsset, "detailed", "", "print the day-by-day detail for one asset")
	return cmd
}

func newTradeCmd() *cobra.Command {
	var signalsDir, outputJSON string
	var topN int
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Generate position-sizing playbooks for the top profitable assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := signalsDir
			if dir == "" {
				dir = cfg.Data.SignalsDir
			}
			if topN <= 0 {
				topN = cfg.Playbook.TopN
			}

			analyses, err := analyzer.AnalyzeDir(dir, func(path string, err error) {
				logging.Warnf("skipping unreadable signal table %s: %v", path, err)
			})
			if err != nil {
				return err
			}

			var provider insights.Provider
			if cfg.Insights.Enabled && cfg.Insights.APIKey != "" {
				provider = insights.NewOpenAIProvider(cfg.Insights.APIKey, cfg.Insights.Model, cfg.Insights.Timeout)
			}
			builder := playbook.NewBuilder(playbook.Params{
				PortfolioValue: cfg.Playbook.PortfolioValue,
				MinSignals:     cfg.Strategy.MinSignals,
			}, provider)

			inputs := make([]playbook.AnalysisInput, 0, len(analyses))
			for _, a := range analyses {
				inputs = append(inputs, playbook.AnalysisInput{Stats: a.Stats, Signals: a.Signals})
			}
			plans := builder.TopPlans(inputs, topN)

			playbook.WritePlans(os.Stdout, plans)
			for _, p := range plans {
				playbook.WriteExecution(os.Stdout, p)
			}

			if outputJSON != "" {
				if err := playbook.SaveJSON(plans, outputJSON); err != nil {
					return err
				}
				fmt.Printf("Playbooks saved to %s\n", outputJSON)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&signalsDir, "signals-dir", "", "directory of signals_*.csv tables (default: configured)")
	cmd.Flags().StringVar(&outputJSON, "output-json", "", "also save plans as JSON to this path")
	cmd.Flags().IntVar(&topN, "top", 0, "number of plans to generate (default: configured)")
	return cmd
}

func newDaemonCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run scheduled pipeline cycles (fetch, backtest, analyze, playbooks)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := signalContext()

			rec, closeRec, err := openRecorder()
			if err != nil {
				return err
			}
			defer closeRec()

			d := daemon.New(cfg, rec)
			if once {
				return d.RunOnce(ctx)
			}
			if err := d.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "run a single cycle and exit")
	return cmd
}

func newDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Generate deployment files for the daemon",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "systemd",
			Short: "Generate a systemd unit file",
			RunE: func(cmd *cobra.Command, args []string) error {
				return daemon.WriteSystemdService(os.Stdout, "./cryptomomentum.service",
					cfg.Playbook.PortfolioValue)
			},
		},
		&cobra.Command{
			Use:   "cron",
			Short: "Generate a cron.d entry",
			RunE: func(cmd *cobra.Command, args []string) error {
				return daemon.WriteCronJob(os.Stdout, "./cryptomomentum.cron", cfg.Schedule.CronSpec)
			},
		},
		&cobra.Command{
			Use:   "docker",
			Short: "Generate a docker compose file",
			RunE: func(cmd *cobra.Command, args []string) error {
				return daemon.WriteDockerCompose(os.Stdout, "./docker-compose.yml", cfg.Playbook.PortfolioValue)
			},
		},
	)
	return cmd
}

func openRecorder() (recorder.Recorder, func(), error) {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0755); err != nil {
		return nil, nil, err
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	return rec, func() { rec.Close() }, nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx
}
