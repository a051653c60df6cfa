// Package handlers implements the business logic for CLI commands.
//
// Handlers are called by the command definitions in the commands package.
// Every external collaborator is reached through a factory variable so the
// handlers can be tested without ansible or a terminal.
package handlers

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/imamik/sdprov/internal/config"
	"github.com/imamik/sdprov/internal/discovery"
	"github.com/imamik/sdprov/internal/executor"
	"github.com/imamik/sdprov/internal/metrics"
	"github.com/imamik/sdprov/internal/prompt"
	"github.com/imamik/sdprov/internal/provisioning"
	"github.com/imamik/sdprov/internal/util/prerequisites"
)

// Globals carries the values of the root command's persistent flags.
type Globals struct {
	ConfigPath    string
	AdminPassword string
	Log           *logrus.Logger
}

func (g Globals) logger() *logrus.Logger {
	if g.Log == nil {
		return logrus.StandardLogger()
	}
	return g.Log
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads settings from file.
	loadConfigFile = config.LoadFile

	// checkPrereqs looks up host tools.
	checkPrereqs = prerequisites.Check

	// newExecutor creates the instrumented ansible executor.
	newExecutor = func(s *config.Settings, log logrus.FieldLogger) executor.Executor {
		return executor.WithMetrics(executor.NewAnsible(executor.AnsibleConfig{
			Binary:        s.Ansible.Binary,
			Playbook:      s.Ansible.Playbook,
			UserExtraVars: s.Ansible.UserExtraVars,
			LogDir:        s.Ansible.LogDir,
		}, log))
	}

	// newDiscoverer creates the discovery adapter.
	newDiscoverer = func(exec executor.Executor, id discovery.Identity, log logrus.FieldLogger) provisioning.Discoverer {
		return discovery.NewClient(exec, id, log)
	}

	// newTerminal creates the interactive prompter.
	newTerminal = func() prompt.Prompter {
		return prompt.NewTerminal(os.Stdin, os.Stdout)
	}

	// loadAnswerFile reads an answer file.
	loadAnswerFile = prompt.LoadAnswers

	// writePreseed writes the preseed file.
	writePreseed = config.WritePreseed

	// writeMetrics writes the metrics textfile.
	writeMetrics = metrics.WriteTextfile

	// fileExists reports whether path exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}
)

// loadSettings loads the settings file and applies global overrides.
func loadSettings(g Globals) (*config.Settings, error) {
	s, err := loadConfigFile(g.ConfigPath)
	if err != nil {
		return nil, err
	}
	if g.AdminPassword != "" {
		s.Engine.AdminPassword = g.AdminPassword
	}
	return s, nil
}

func identityOf(s *config.Settings) discovery.Identity {
	return discovery.Identity{
		FQDN:          s.Engine.FQDN,
		HostName:      s.Engine.HostName,
		AdminPassword: s.Engine.AdminPassword,
	}
}

// requireExecutor fails when the configured ansible binary is missing.
func requireExecutor(ctx context.Context, s *config.Settings) error {
	return checkPrereqs(ctx, prerequisites.ExecutorTools(s.Ansible.Binary)).Error()
}
