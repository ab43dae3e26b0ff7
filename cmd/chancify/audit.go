package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chancify/chancify/internal/audit"
	"github.com/chancify/chancify/internal/config"
	"github.com/chancify/chancify/internal/formula"
)

func auditCmd() *cobra.Command {
	var (
		weightsPath string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "audit <request-file>",
		Short: "Show the full factor breakdown for a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(args[0])
			if err != nil {
				return err
			}

			weights := config.LoadWeightsOrDefault(weightsPath)
			mapper := formula.NewLogisticMapper(weights)

			rate := req.College.AcceptanceRateOrDefault()
			result := mapper.Map(req.Student.FactorScores, rate,
				req.College.UsesTesting(), req.College.NeedAware())
			report := result.Report(rate)

			if jsonOutput(asJSON) {
				return printJSON(report)
			}
			fmt.Print(audit.FormatReport(report))
			return nil
		},
	}
	cmd.Flags().StringVar(&weightsPath, "weights", "", "path to a factor weights YAML (default: built-in table)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "force JSON output")
	return cmd
}
