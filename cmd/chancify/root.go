package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:   "chancify",
		Short: "College admission probability engine",
	}
	root.AddCommand(predictCmd())
	root.AddCommand(auditCmd())
	root.AddCommand(calibrationCmd())
	return root.ExecuteContext(ctx)
}

// configFlags registers the table-override flags for commands that run the
// full pipeline.
func configFlags(fs *pflag.FlagSet, weightsPath, calibrationPath *string) {
	fs.StringVar(weightsPath, "weights", "", "path to a factor weights YAML (default: built-in table)")
	fs.StringVar(calibrationPath, "calibration", "", "path to a calibration YAML (default: built-in table)")
}
