package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screening-agent/internal/config"
	"alfredoptarigan/cv-screening-agent/internal/logger"
	"alfredoptarigan/cv-screening-agent/internal/services"
)

const app = "cv-screener"

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "cv-screener evaluates PDF CVs against a hiring rubric with a language model",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
}

// setup loads configuration, applies logging flags and builds the logger.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg := config.Load()

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Log.Debug = true
	}
	if json, _ := cmd.Flags().GetBool("json"); json {
		cfg.Log.JSON = true
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	return cfg, log, nil
}

func buildEvaluator(cfg *config.Config, log *zap.Logger) (services.EvaluatorService, error) {
	rubric, err := services.LoadRubric(cfg.Rubric.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load rubric: %w", err)
	}

	client := services.NewModelClient(cfg, log)
	if !client.Configured() {
		log.Warn("model API key not configured, evaluations will fail until MODEL_API_KEY is set",
			zap.String(logger.FieldProvider, client.Provider()))
	}

	evaluator, err := services.NewEvaluatorService(cfg, rubric, client, services.NewPDFParserService(), log)
	if err != nil {
		return nil, err
	}

	log.Info("evaluator ready",
		zap.String(logger.FieldProvider, client.Provider()),
		zap.String(logger.FieldModel, cfg.Model.Name),
		zap.String("rubric_version", rubric.Version),
		zap.Bool("strict_status", cfg.Rubric.StrictStatus),
	)

	return evaluator, nil
}
