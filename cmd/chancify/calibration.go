package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chancify/chancify/internal/config"
)

func calibrationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibration",
		Short: "Inspect the elite calibration table",
	}
	cmd.AddCommand(calibrationListCmd())
	return cmd
}

func calibrationListCmd() *cobra.Command {
	var (
		calibrationPath string
		asJSON          bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List calibration entries in match priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := config.LoadCalibrationOrDefault(calibrationPath)
			entries := table.Entries()

			if jsonOutput(asJSON) {
				return printJSON(entries)
			}

			fmt.Printf("%-40s %-18s %-8s %-8s %s\n", "College", "Category", "Factor", "Cap", "Rate")
			for _, ne := range entries {
				fmt.Printf("%-40s %-18s %-8.4f %-8.4f %.3f\n",
					ne.Name, ne.Entry.Category,
					ne.Entry.CalibrationFactor, ne.Entry.MaxProbability, ne.Entry.AcceptanceRate)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&calibrationPath, "calibration", "", "path to a calibration YAML (default: built-in table)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "force JSON output")
	return cmd
}
