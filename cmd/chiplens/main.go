package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ChipLens/internal/analyzer"
	"ChipLens/internal/config"
	"ChipLens/internal/model"
	"ChipLens/internal/notifier"
	"ChipLens/internal/scheduler"
	"ChipLens/internal/store"
)

const version = "v1.2.0"

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:     "chiplens",
		Short:   "Chip (cost) distribution analysis for daily OHLCV series",
		Version: version,
		Long: `ChipLens reconstructs where trading volume is notionally held across
historical price levels, classifies the resulting shape, and emits a
heuristic directional signal with confidence and price targets.

Bars are supplied through CSV import into a local SQLite store; ChipLens
performs no data acquisition of its own.`,
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "path to YAML config")

	importCmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import daily bars from a CSV file into the bar store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol, _ := cmd.Flags().GetString("symbol")
			return runImport(cfgPath, symbol, args[0])
		},
	}
	importCmd.Flags().String("symbol", "", "symbol to file the bars under (required)")
	importCmd.MarkFlagRequired("symbol")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the chip analysis pipeline for one symbol",
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol, _ := cmd.Flags().GetString("symbol")
			asJSON, _ := cmd.Flags().GetBool("json")
			withSeries, _ := cmd.Flags().GetBool("series")
			return runAnalyze(cfgPath, symbol, asJSON, withSeries)
		},
	}
	analyzeCmd.Flags().String("symbol", "", "symbol to analyze (required)")
	analyzeCmd.Flags().Bool("json", false, "print the full result as JSON")
	analyzeCmd.Flags().Bool("series", false, "include per-day snapshots and metrics")
	analyzeCmd.MarkFlagRequired("symbol")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-analyze tracked symbols on a cron schedule and push signal cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			runOnStart, _ := cmd.Flags().GetBool("run-on-start")
			return runWatch(cfgPath, runOnStart)
		},
	}
	watchCmd.Flags().Bool("run-on-start", false, "run one analysis pass immediately")

	rootCmd.AddCommand(importCmd, analyzeCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if v := os.Getenv("CHIPLENS_CONFIG"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

// setup loads and validates config and builds the logger; every subcommand
// starts here.
func setup(cfgPath string) (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation: %w", err)
	}

	logCfg := zap.NewProductionConfig()
	logCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	var level zapcore.Level
	if err := level.Set(cfg.Log.Level); err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}
	logCfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := logCfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger.Sugar(), nil
}

func runImport(cfgPath, symbol, csvPath string) error {
	cfg, log, err := setup(cfgPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	bars, err := store.ImportCSV(csvPath)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Database.SQLitePath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveBars(symbol, bars); err != nil {
		return err
	}
	log.Infow("import complete", "symbol", symbol, "bars", len(bars), "file", csvPath)
	return nil
}

func runAnalyze(cfgPath, symbol string, asJSON, withSeries bool) error {
	cfg, log, err := setup(cfgPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := store.Open(cfg.Database.SQLitePath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	bars, err := st.LoadBars(symbol)
	if err != nil {
		return err
	}

	an, err := analyzer.New(cfg.EngineParams())
	if err != nil {
		return err
	}

	var result *model.Analysis
	var ok bool
	if withSeries {
		result, ok = an.AnalyzeSeries(bars)
	} else {
		result, ok = an.Analyze(bars)
	}
	if !ok {
		fmt.Printf("insufficient data for %s: %d bars\n", symbol, len(bars))
		return nil
	}
	result.Symbol = symbol

	if asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(notifier.FormatSignalCard(symbol, result))
	return nil
}

func runWatch(cfgPath string, runOnStart bool) error {
	cfg, log, err := setup(cfgPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := store.Open(cfg.Database.SQLitePath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	an, err := analyzer.New(cfg.EngineParams())
	if err != nil {
		return err
	}

	var nt notifier.Notifier
	if cfg.Telegram.BotToken != "" {
		nt = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		log.Info("telegram notifier enabled")
	} else {
		nt = notifier.NewNoopNotifier()
		log.Info("telegram not configured, signal cards logged only")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(ctx, st, an, nt, cfg.Watch.Symbols, log)
	if err := sched.Register(cfg.Watch.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if runOnStart {
		go sched.RunNow()
	}

	log.Infow("watch mode running", "cron", cfg.Watch.Cron, "symbols", cfg.Watch.Symbols)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping")
	cancel()
	return nil
}
