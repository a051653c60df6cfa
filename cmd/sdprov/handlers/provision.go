package handlers

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/imamik/sdprov/internal/config"
	"github.com/imamik/sdprov/internal/prompt"
	"github.com/imamik/sdprov/internal/provisioning"
	"github.com/imamik/sdprov/internal/storage"
)

// QueryOverwritePreseed is the answer key of the preseed overwrite question.
const QueryOverwritePreseed = "overwrite_preseed"

// ProvisionOptions holds the flags of the provision command.
type ProvisionOptions struct {
	// Answers override answers from the settings and the answer file.
	Answers    map[string]string
	AnswerFile string

	OutputPath       string
	Force            bool
	MetricsFile      string
	SkipFinalCleanup bool

	// MaxAttempts caps interactive attempts; zero means no cap.
	MaxAttempts int
	RetryDelay  time.Duration
}

// Provision creates the storage domain.
//
// The workflow:
//  1. Loads settings and checks that the executor is installed
//  2. Builds the prompter from scripted answers with the terminal as fallback
//  3. Runs the provisioning state machine until the domain is active
//  4. Writes the preseed file and the metrics textfile when requested
//  5. Removes temporary resources unless disabled
func Provision(ctx context.Context, g Globals, opts ProvisionOptions) error {
	log := g.logger()

	s, err := loadSettings(g)
	if err != nil {
		return err
	}
	if err := requireExecutor(ctx, s); err != nil {
		return err
	}

	answers, err := mergeAnswers(s.Answers, opts)
	if err != nil {
		return err
	}
	var p prompt.Prompter = prompt.NewAnswers(answers, newTerminal(), log)
	unattended := s.Storage.HasBackendFields()

	exec := newExecutor(s, log)
	identity := identityOf(s)
	m := provisioning.NewMachine(exec, p, provisioning.Options{
		Identity:    identity,
		LocalVMDir:  s.Engine.LocalVMDir,
		Discoverer:  newDiscoverer(exec, identity, log),
		RetryDelay:  opts.RetryDelay,
		MaxAttempts: opts.MaxAttempts,
	}, log)

	if opts.MetricsFile != "" {
		defer func() {
			if err := writeMetrics(opts.MetricsFile); err != nil {
				log.WithError(err).Warn("Failed to write metrics")
			}
		}()
	}
	if !opts.SkipFinalCleanup {
		defer func() {
			if err := m.FinalCleanup(context.WithoutCancel(ctx)); err != nil {
				log.WithError(err).Warn("Temporary resources were not removed")
			}
		}()
	}

	outcome, err := m.Run(ctx, &s.Storage)
	if err != nil {
		return fmt.Errorf("storage domain provisioning failed: %w", err)
	}
	printSummary(outcome, &s.Storage)

	if opts.OutputPath == "" {
		return nil
	}
	if unattended {
		p = prompt.Unattended(p, log)
	}
	return savePreseed(ctx, p, s, opts)
}

func mergeAnswers(base map[string]string, opts ProvisionOptions) (map[string]string, error) {
	answers := maps.Clone(base)
	if answers == nil {
		answers = map[string]string{}
	}
	if opts.AnswerFile != "" {
		fromFile, err := loadAnswerFile(opts.AnswerFile)
		if err != nil {
			return nil, err
		}
		maps.Copy(answers, fromFile)
	}
	maps.Copy(answers, opts.Answers)
	return answers, nil
}

func savePreseed(ctx context.Context, p prompt.Prompter, s *config.Settings, opts ProvisionOptions) error {
	if fileExists(opts.OutputPath) && !opts.Force {
		ok, err := prompt.Confirm(ctx, p, QueryOverwritePreseed,
			fmt.Sprintf("%s already exists. Overwrite it?", opts.OutputPath), false)
		if err != nil {
			return fmt.Errorf("failed to confirm preseed overwrite: %w", err)
		}
		if !ok {
			fmt.Printf("Preseed not written, %s left unchanged\n", opts.OutputPath)
			return nil
		}
	}

	if err := writePreseed(s, opts.OutputPath); err != nil {
		return err
	}
	fmt.Printf("Preseed written to %s\n", opts.OutputPath)
	return nil
}

func printSummary(outcome *provisioning.Outcome, cfg *storage.Config) {
	fmt.Printf("\nStorage domain %s is active\n", cfg.DomainName)
	fmt.Printf("  Backend:    %s\n", outcome.Backend)
	if cfg.Connection != "" {
		fmt.Printf("  Connection: %s\n", cfg.Connection)
	}
	if cfg.ISCSITarget != "" {
		fmt.Printf("  Target:     %s (tpgt %s)\n", cfg.ISCSITarget, cfg.ISCSITPGT)
	}
	if cfg.LunID != "" {
		fmt.Printf("  LUN:        %s\n", cfg.LunID)
	}
	if outcome.AvailableBytes > 0 {
		fmt.Printf("  Available:  %s\n", humanize.IBytes(uint64(outcome.AvailableBytes)))
	}
	fmt.Printf("  Attempts:   %d\n", outcome.Attempts)
}
