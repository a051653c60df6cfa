package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/sdprov/cmd/sdprov/handlers"
)

// Provision returns the command that creates the storage domain.
//
// Optional flags:
//
//	--answer, -a: Scripted answer as name=value, repeatable
//	--answer-file: YAML file of scripted answers
//	--output, -o: Write a preseed file after success
//	--force: Overwrite an existing preseed file without asking
//	--metrics-file: Write Prometheus metrics in text format on exit
//	--skip-final-cleanup: Keep temporary resources for inspection
//	--max-attempts: Give up after this many interactive attempts
//	--retry-delay: Pause before the first interactive retry
func Provision(g *handlers.Globals) *cobra.Command {
	var opts handlers.ProvisionOptions

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create the storage domain",
		Long: `Create the hosted engine storage domain.

Without storage values in the settings file the backend and its parameters
are asked interactively, and any failure restarts from backend selection.
With at least one storage value preset the run is unattended: missing values
come from scripted answers or defaults and the first failure ends the run.

Examples:
  # Interactive run
  sdprov provision

  # Unattended run from a preseed written by a previous run
  SDPROV_ADMIN_PASSWORD=secret sdprov provision -c preseed.yaml

  # Pick the first LUN without being asked
  sdprov provision -a lun=1 -o preseed.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), *g, opts)
		},
	}

	cmd.Flags().StringToStringVarP(&opts.Answers, "answer", "a", nil, "Scripted answer as name=value (repeatable)")
	cmd.Flags().StringVar(&opts.AnswerFile, "answer-file", "", "YAML file of scripted answers")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "Write a preseed file after success")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing preseed file without asking")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics in text format on exit")
	cmd.Flags().BoolVar(&opts.SkipFinalCleanup, "skip-final-cleanup", false, "Keep temporary resources for inspection")
	cmd.Flags().IntVar(&opts.MaxAttempts, "max-attempts", 0, "Give up after this many interactive attempts (0 for no limit)")
	cmd.Flags().DurationVar(&opts.RetryDelay, "retry-delay", time.Second, "Pause before the first interactive retry, doubled on each further retry")

	return cmd
}
