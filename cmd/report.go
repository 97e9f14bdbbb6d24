// -- cmd/report.go --
package cmd

import (
	"fmt"
	"os"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/faultline/internal/analysis"
	"github.com/xkilldash9x/faultline/internal/config"
	"github.com/xkilldash9x/faultline/internal/model"
	"github.com/xkilldash9x/faultline/internal/observability"
	"github.com/xkilldash9x/faultline/internal/report"
)

// newReportCmd creates and configures the `report` command.
func newReportCmd() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Assembles a fault-tree model and renders the analysis report",
		Long: `Loads a JSON model definition, registers and finalizes every fault tree,
consumes the analysis results file produced by the external engines, and
writes the canonical XML report document.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags so they override config file and environment values
			// with the right precedence.
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			var cfg config.Config
			if err := viper.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("failed to unmarshal config with flag overrides: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			modelPath := viper.GetString("model")
			resultsPath := viper.GetString("results")
			outputPath := viper.GetString("output")

			m, err := model.LoadFile(modelPath)
			if err != nil {
				return err
			}
			logger.Info("Model loaded",
				zap.String("model", modelPath),
				zap.Int("faultTrees", m.Summary.FaultTrees),
				zap.Int("gates", m.Summary.Gates),
				zap.Int("primaryEvents", m.Summary.PrimaryEvents))

			rs, err := analysis.LoadFile(resultsPath, m)
			if err != nil {
				return err
			}

			doc := etree.NewDocument()
			doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
			rep := report.Reporter{Version: Version}

			if err := rep.SetupReport(m.Summary, cfg.Analysis, doc); err != nil {
				return err
			}
			if len(m.Orphans) > 0 {
				logger.Warn("Model declares unused primary events", zap.Int("count", len(m.Orphans)))
				if err := rep.ReportOrphans(m.Orphans, doc); err != nil {
					return err
				}
			}

			// Per tree: the sum-of-products section first, then the writers
			// that append to its calculation-time entry.
			for _, entry := range rs.Entries {
				if err := rep.ReportFaultTree(entry.Name, entry.FaultTree, entry.Probability, doc); err != nil {
					return err
				}
				if cfg.Analysis.ImportanceAnalysis && entry.Probability != nil && len(entry.Probability.Importance) > 0 {
					if err := rep.ReportImportance(entry.Name, entry.Probability, doc); err != nil {
						return err
					}
				}
				if cfg.Analysis.UncertaintyAnalysis && entry.Uncertainty != nil {
					if err := rep.ReportUncertainty(entry.Name, entry.Uncertainty, doc); err != nil {
						return err
					}
				}
			}

			doc.Indent(2)
			if outputPath == "" || outputPath == "stdout" {
				if _, err := doc.WriteTo(os.Stdout); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
			} else {
				if err := doc.WriteToFile(outputPath); err != nil {
					return fmt.Errorf("failed to write report to %s: %w", outputPath, err)
				}
				logger.Info("Report written", zap.String("output", outputPath))
			}
			return nil
		},
	}

	reportCmd.Flags().String("model", "model.json", "path to the JSON model definition")
	reportCmd.Flags().String("results", "results.json", "path to the analysis results file")
	reportCmd.Flags().StringP("output", "o", "stdout", "report output path, or 'stdout'")
	return reportCmd
}
