package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/cv-screening-agent/internal/services"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <file.pdf>",
	Short: "Evaluate a single CV and print the scorecard as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return evaluate(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().BoolP("pretty", "p", false, "indent the JSON output")
}

func evaluate(cmd *cobra.Command, path string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if ext := strings.ToLower(filepath.Ext(path)); !slices.Contains(cfg.Upload.AllowedExtensions, ext) {
		return fmt.Errorf("invalid file type %q: only PDF files are accepted", ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() > cfg.MaxFileSizeBytes() {
		return fmt.Errorf("file too large: maximum size is %dMB", cfg.Upload.MaxFileSizeMB)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	evaluator, err := buildEvaluator(cfg, log)
	if err != nil {
		return err
	}

	card, err := evaluator.EvaluateDocument(cmd.Context(), data, filepath.Base(path))
	if err != nil {
		if services.KindOf(err) == services.KindInvalidInput {
			return fmt.Errorf("invalid input: %s", services.MessageOf(err))
		}
		return fmt.Errorf("evaluation failed: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(card)
}
