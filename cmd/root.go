package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arenahq/arena/internal/catalog"
	"github.com/arenahq/arena/internal/checkpoint"
	"github.com/arenahq/arena/internal/config"
	"github.com/arenahq/arena/internal/executor"
	"github.com/arenahq/arena/internal/llm"
	"github.com/arenahq/arena/internal/models"
	"github.com/arenahq/arena/internal/output"
	"github.com/arenahq/arena/internal/phases"
	"github.com/arenahq/arena/internal/prompts"
	"github.com/arenahq/arena/internal/store"
	"github.com/arenahq/arena/internal/tool"
)

// Package-level shared state, initialized in cobra.OnInitialize.
var (
	ui *output.UI

	cfgFile      string
	manifestFile string
	verbose      bool
	force        bool
	filterPR     string
	filterModel  string
	concurrency  int
	resultsDir   string
)

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "AI code review arena - evaluate review agents against PRs with known bugs",
	Long: `arena orchestrates external AI CLI agents through a review pipeline:
independent reviews, multi-model debates, cross-judging of known bugs,
anonymized quality scoring, and aggregated reports.

Every task writes a checkpoint file; re-running any phase skips work
that already has a result, so interrupted runs resume where they left off.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return pipelineRun(cmd.Context())
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&force, "force", "f", false, "Re-run tasks even when a result exists")
	rootCmd.PersistentFlags().StringVar(&filterPR, "pr", "", "Limit to a single PR id")
	rootCmd.PersistentFlags().StringVar(&filterModel, "model", "", "Limit to a single model id")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "Worker count (overrides config)")
	rootCmd.PersistentFlags().StringVar(&resultsDir, "results", "", "Results directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&manifestFile, "manifest", "", "PR manifest file (default prs/manifest.yaml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ARENA")
	viper.AutomaticEnv()
	_ = viper.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY")

	config.SetDefaults(viper.GetViper())

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
}

// app bundles the loaded dataset and stores shared by every command.
type app struct {
	cfg      *config.Config
	manifest *config.Manifest
	store    *checkpoint.Store
	ledger   store.Ledger
}

// loadApp loads and validates config plus the PR manifest and opens the
// checkpoint store. The run ledger is opened best-effort: it records
// history only, so an unopenable ledger degrades to a warning.
func loadApp() (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if concurrency > 0 {
		cfg.Concurrency = concurrency
	}
	if resultsDir != "" {
		cfg.ResultsDir = resultsDir
	}
	if manifestFile != "" {
		cfg.ManifestPath = manifestFile
	}

	manifest, err := config.LoadManifest(cfg.ManifestPath)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		manifest: manifest,
		store:    checkpoint.New(cfg.ResultsDir),
	}
	a.ledger = openLedger(cfg)
	return a, nil
}

func openLedger(cfg *config.Config) store.Ledger {
	if cfg.LedgerPath == "" {
		return nil
	}
	ledger, err := store.NewSQLiteLedger(cfg.LedgerPath)
	if err != nil {
		ui.Warning("run ledger unavailable: %v", err)
		return nil
	}
	if err := ledger.Migrate(context.Background()); err != nil {
		ui.Warning("run ledger unavailable: %v", err)
		_ = ledger.Close()
		return nil
	}
	return ledger
}

// newRunner builds a phase runner with a fresh worker pool. The recorder may
// be nil when no ledger run is open.
func (a *app) newRunner(recorder executor.Recorder) *phases.Runner {
	api := llm.NewClient(a.cfg.AnthropicAPIKey)
	judge := &tool.JudgeRunner{Timeout: a.cfg.Timeouts.Judge, API: api}
	rawJudge := &tool.JudgeRunner{Timeout: a.cfg.Timeouts.Raw, API: api}

	return &phases.Runner{
		Cfg:      a.cfg,
		Manifest: a.manifest,
		Store:    a.store,
		UI:       ui,
		Pool: &executor.Pool{
			Workers:  a.cfg.Concurrency,
			Force:    force,
			Store:    a.store,
			UI:       ui,
			Recorder: recorder,
		},
		Orch: &tool.Orchestrator{
			ConfigsDir: a.cfg.ConfigsDir,
			Timeout:    a.cfg.Timeouts.Orchestrator,
		},
		Judge:    judge,
		RawJudge: rawJudge,
		Prompts:  &prompts.Loader{Dir: a.cfg.PromptsDir},
		Filter:   catalog.Filter{PR: filterPR, Model: filterModel},
	}
}

// runPhase executes one phase under a ledger run and returns its summary.
func (a *app) runPhase(ctx context.Context, name string, fn func(context.Context, *phases.Runner) executor.Summary) executor.Summary {
	var recorder executor.Recorder
	var ledgerRun *models.Run

	if a.ledger != nil {
		lr, err := a.ledger.BeginRun(ctx, name)
		if err != nil {
			ui.VerboseLog("ledger: begin run: %v", err)
		} else {
			ledgerRun = lr
			recorder = &store.RunRecorder{Ledger: a.ledger, RunID: lr.ID, UI: ui}
		}
	}

	summary := fn(ctx, a.newRunner(recorder))

	if ledgerRun != nil {
		ledgerRun.Completed = summary.Completed
		ledgerRun.Skipped = summary.Skipped
		ledgerRun.Failed = summary.Failed
		if err := a.ledger.FinishRun(ctx, ledgerRun); err != nil {
			ui.VerboseLog("ledger: finish run: %v", err)
		}
	}
	return summary
}

// failErr converts a phase summary into a command error so the process
// exits non-zero when any task failed.
func failErr(summary executor.Summary) error {
	if summary.OK() {
		return nil
	}
	return fmt.Errorf("%d task(s) failed", summary.Failed)
}

// pipelineRun handles `arena` with no subcommand: the full standard pipeline.
// Raw reviews are a separate experiment and stay opt-in via `arena raw`.
func pipelineRun(ctx context.Context) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	var total executor.Summary
	total.Merge(a.runPhase(ctx, "Review", func(ctx context.Context, r *phases.Runner) executor.Summary {
		return r.Review(ctx)
	}))
	total.Merge(a.runPhase(ctx, "Debate", func(ctx context.Context, r *phases.Runner) executor.Summary {
		return r.Debate(ctx, false)
	}))
	total.Merge(a.runPhase(ctx, "Judge-Hard", func(ctx context.Context, r *phases.Runner) executor.Summary {
		return r.JudgeHard(ctx, catalog.SourceReview)
	}))
	total.Merge(a.runPhase(ctx, "Judge-Soft", func(ctx context.Context, r *phases.Runner) executor.Summary {
		return r.JudgeSoft(ctx)
	}))

	if err := reportRun(a); err != nil {
		return err
	}
	return failErr(total)
}
