package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/imamik/sdprov/internal/config"
	"github.com/imamik/sdprov/internal/util/prerequisites"
)

// Doctor checks the settings file and the host tools and prints a report.
// It returns an error when provisioning could not start.
func Doctor(ctx context.Context, g Globals) error {
	var errs []error

	fmt.Println("Settings")
	binary := config.DefaultAnsibleBinary
	s, err := loadSettings(g)
	if err != nil {
		printRow(g.ConfigPath, statusFailed, err.Error())
		errs = append(errs, err)
	} else {
		printRow(g.ConfigPath, statusOK, s.Engine.FQDN)
		printRow("Mode", statusOK, runMode(s))
		binary = s.Ansible.Binary
		if _, err := os.Stat(s.Ansible.Playbook); err != nil {
			printRow("Playbook", statusFailed, s.Ansible.Playbook)
			errs = append(errs, fmt.Errorf("playbook not found: %w", err))
		} else {
			printRow("Playbook", statusOK, s.Ansible.Playbook)
		}
	}

	fmt.Println("\nTools")
	tools := append(prerequisites.ExecutorTools(binary), prerequisites.OptionalTools()...)
	results := checkPrereqs(ctx, tools)
	for _, r := range results.Results {
		switch {
		case r.Found:
			extra := r.Path
			if r.Version != "" {
				extra += " (" + r.Version + ")"
			}
			printRow(r.Tool.Name, statusOK, extra)
		case r.Tool.Required:
			printRow(r.Tool.Name, statusFailed, r.Tool.InstallHint)
		default:
			printRow(r.Tool.Name, statusWarning, r.Tool.InstallHint)
		}
	}
	errs = append(errs, results.Error())

	return errors.Join(errs...)
}

type status int

const (
	statusOK status = iota
	statusWarning
	statusFailed
)

func (s status) indicator() string {
	switch s {
	case statusOK:
		return "✅"
	case statusWarning:
		return "⚠️"
	default:
		return "❌"
	}
}

func printRow(name string, s status, extra string) {
	if extra == "" {
		fmt.Printf("  %s %s\n", s.indicator(), name)
		return
	}
	fmt.Printf("  %s %-20s %s\n", s.indicator(), name, extra)
}

func runMode(s *config.Settings) string {
	if !s.Storage.HasBackendFields() {
		return "interactive"
	}
	if s.Storage.DomainType == "" {
		return "unattended"
	}
	return fmt.Sprintf("unattended (%s)", s.Storage.DomainType)
}
