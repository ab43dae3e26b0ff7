package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chancify/chancify/internal/config"
	"github.com/chancify/chancify/internal/predict"
)

func predictCmd() *cobra.Command {
	var (
		weightsPath     string
		calibrationPath string
		asJSON          bool
	)
	cmd := &cobra.Command{
		Use:   "predict <request-file>",
		Short: "Predict admission probability from a request file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(args[0])
			if err != nil {
				return err
			}

			weights := config.LoadWeightsOrDefault(weightsPath)
			table := config.LoadCalibrationOrDefault(calibrationPath)

			blender := predict.NewBlender(weights, table, nil)
			result := blender.Predict(cmd.Context(), req.Student, req.College, req.PredictOptions())

			if jsonOutput(asJSON) {
				return printJSON(result)
			}
			printPrediction(req.College.Name, result)
			return nil
		},
	}
	configFlags(cmd.Flags(), &weightsPath, &calibrationPath)
	cmd.Flags().BoolVar(&asJSON, "json", false, "force JSON output")
	return cmd
}

func printPrediction(college string, r predict.Result) {
	fmt.Printf("%s\n", college)
	fmt.Printf("%s\n", strings.Repeat("-", len(college)))
	fmt.Printf("  Probability:  %.1f%%  (%s)\n", r.Probability*100, r.Band)
	fmt.Printf("  Interval:     %.1f%% - %.1f%%\n", r.ConfidenceLower*100, r.ConfidenceUpper*100)
	fmt.Printf("  Composite:    %.1f / 1000\n", r.CompositeScore)
	fmt.Printf("  Model:        %s\n", r.ModelUsed)
	fmt.Printf("  %s\n", r.Explanation)
	for _, note := range r.PolicyNotes {
		fmt.Printf("  note: %s\n", note)
	}
}
