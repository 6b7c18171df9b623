package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"risk-assessor/internal/config"
	"risk-assessor/internal/logger"
	"risk-assessor/internal/models"
	"risk-assessor/internal/services"
	"risk-assessor/internal/storage"
	"risk-assessor/internal/timing"
	"risk-assessor/internal/views"

	"github.com/spf13/cobra"
)

// runtimeEnv is the resolved configuration shared by every subcommand.
type runtimeEnv struct {
	cfg config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	env := &runtimeEnv{}

	root := &cobra.Command{
		Use:           "risk-assessor",
		Short:         "Alzheimer's disease risk assessment",
		Long:          "Trains a Gaussian Naive Bayes model on a patient table and assesses the risk for new patients.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.resolve(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(env.cfg, env.log)
		},
	}

	root.PersistentFlags().String("config", "", "Path to YAML config file (overrides RISK_CONFIG)")
	root.PersistentFlags().String("dataset", "", "Path to the training CSV (overrides dataset_path)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(newGUICmd(env))
	root.AddCommand(newEvaluateCmd(env))
	root.AddCommand(newPredictCmd(env))
	root.AddCommand(newHistoryCmd(env))
	return root
}

// resolve applies flags on top of config.Load and builds the logger.
func (e *runtimeEnv) resolve(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("dataset"); p != "" {
		cfg.DatasetPath = p
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.log = logger.New(level, cfg.JSONLogs)
	return nil
}

func newModelService(env *runtimeEnv) *services.ModelService {
	return services.NewModelService(env.cfg, models.NewModelStateRepository(), timing.NewTracker(env.log), env.log)
}

func newGUICmd(env *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the assessment form (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(env.cfg, env.log)
		},
	}
}

func newEvaluateCmd(env *runtimeEnv) *cobra.Command {
	var allFeatures bool

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Train on a stratified split and report accuracy",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := newModelService(env).Evaluate(cmd.Context(), allFeatures)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&allFeatures, "all-features", false, "Use every non-identifier column instead of the form's features")
	return cmd
}

func printReport(w io.Writer, r *services.TrainingReport) {
	fmt.Fprintf(w, "Dataset: %s\n", r.Dataset)
	fmt.Fprintf(w, "Features: %d\n", len(r.Features))
	fmt.Fprintf(w, "Rows: %d (train %d, test %d)\n", r.Rows, r.TrainRows, r.TestRows)
	fmt.Fprintf(w, "Train accuracy: %.2f%%\n", r.TrainAccuracy*100)
	fmt.Fprintf(w, "Accuracy: %.2f%%\n", r.TestAccuracy*100)
	fmt.Fprintln(w)
	fmt.Fprintln(w, r.Confusion.String())
}

func newPredictCmd(env *runtimeEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Assess one patient given as flags",
		Example: "  risk-assessor predict --Age 72 --Gender Female --BMI 24.5 --AlcoholConsumption 3 \\\n" +
			"    --DietQuality 6 --FamilyHistoryAlzheimers No --HeadInjury No --CholesterolTotal 210 \\\n" +
			"    --MMSE 27 --MemoryComplaints No --BehavioralProblems No --ADL 8 --Confusion No --Forgetfulness Yes",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := make(map[string]string, models.FeatureCount)
			for _, key := range models.FeatureKeys() {
				raw[key], _ = cmd.Flags().GetString(key)
			}
			if _, err := models.ParseFeatureVector(raw); err != nil {
				return err
			}
			return runPredict(cmd.Context(), env, cmd.OutOrStdout(), raw)
		},
	}

	for _, spec := range models.FeatureSchema() {
		usage := spec.Label + " (" + spec.Placeholder() + ")"
		cmd.Flags().String(spec.Key, "", usage)
	}
	return cmd
}

func runPredict(ctx context.Context, env *runtimeEnv, w io.Writer, raw map[string]string) error {
	model := newModelService(env)
	if _, err := model.Train(ctx); err != nil {
		return err
	}

	var store services.HistoryStore
	if env.cfg.HistoryDB != "" {
		hs, err := storage.Open(env.cfg.HistoryDB)
		if err != nil {
			return err
		}
		store = hs
	}
	assessments := services.NewAssessmentService(model, models.NewAssessmentRepository(1), store, env.log)
	defer assessments.Shutdown()

	a, err := assessments.Assess(ctx, raw)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s (probability of diagnosis %.1f%%)\n", a.Risk, a.Probability*100)
	return nil
}

var errHistoryDisabled = errors.New("history is disabled: set history_db or RISK_HISTORY_DB")

func newHistoryCmd(env *runtimeEnv) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List persisted assessments, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if env.cfg.HistoryDB == "" {
				return errHistoryDisabled
			}
			if limit <= 0 {
				limit = env.cfg.HistoryLimit
			}
			store, err := storage.Open(env.cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), views.FormatHistory(items))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of assessments to show (default history_limit)")
	return cmd
}
