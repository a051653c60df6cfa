package handlers

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/imamik/sdprov/internal/config"
	"github.com/imamik/sdprov/internal/discovery"
	"github.com/imamik/sdprov/internal/executor"
	"github.com/imamik/sdprov/internal/executor/fakes"
	"github.com/imamik/sdprov/internal/prompt"
	"github.com/imamik/sdprov/internal/provisioning"
	"github.com/imamik/sdprov/internal/util/prerequisites"
	"github.com/imamik/sdprov/internal/util/ptr"
)

// saveFactories restores every factory variable when the test ends.
func saveFactories(t *testing.T) {
	t.Helper()
	origLoad := loadConfigFile
	origPrereqs := checkPrereqs
	origExecutor := newExecutor
	origDiscoverer := newDiscoverer
	origTerminal := newTerminal
	origAnswerFile := loadAnswerFile
	origPreseed := writePreseed
	origMetrics := writeMetrics
	origExists := fileExists
	t.Cleanup(func() {
		loadConfigFile = origLoad
		checkPrereqs = origPrereqs
		newExecutor = origExecutor
		newDiscoverer = origDiscoverer
		newTerminal = origTerminal
		loadAnswerFile = origAnswerFile
		writePreseed = origPreseed
		writeMetrics = origMetrics
		fileExists = origExists
	})

	// no test may reach a real terminal or PATH lookup
	newTerminal = func() prompt.Prompter { return &refusingPrompter{} }
	checkPrereqs = func(_ context.Context, tools []prerequisites.Tool) *prerequisites.CheckResults {
		results := &prerequisites.CheckResults{}
		for _, tool := range tools {
			results.Results = append(results.Results, prerequisites.CheckResult{Tool: tool, Found: true, Path: "/usr/bin/" + tool.Name})
		}
		return results
	}
}

// useSettings makes loadConfigFile return s.
func useSettings(s *config.Settings) {
	loadConfigFile = func(string) (*config.Settings, error) { return s, nil }
}

// useExecutor makes newExecutor return f.
func useExecutor(f *fakes.Executor) {
	newExecutor = func(*config.Settings, logrus.FieldLogger) executor.Executor { return f }
}

func testGlobals() Globals {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return Globals{ConfigPath: "/etc/sdprov/settings.yaml", Log: log}
}

func nfsSettings() *config.Settings {
	s := config.Default()
	s.Engine = config.EngineConfig{FQDN: "engine.example.com", HostName: "host1", AdminPassword: "secret"}
	s.Storage.DomainType = "nfs"
	s.Storage.Connection = "10.0.0.1:/data"
	s.Storage.MountOptions = ptr.String("")
	s.Storage.NFSVersion = "v4"
	return s
}

func nfsActiveResult() executor.Result {
	return executor.Result{
		executor.ReturnCodeKey: float64(0),
		"otopi_storage_domain_details": map[string]any{
			"storagedomain": map[string]any{
				"status":    "active",
				"available": float64(107374182400),
				"storage":   map[string]any{"type": "nfs", "address": "10.0.0.1", "path": "/data", "nfs_version": "v4"},
			},
		},
	}
}

// refusingPrompter fails every question.
type refusingPrompter struct {
	asked []string
	notes []string
}

func (r *refusingPrompter) QueryString(_ context.Context, q prompt.Query) (string, error) {
	r.asked = append(r.asked, q.Name)
	return "", prompt.ErrAborted
}

func (r *refusingPrompter) Note(text string) { r.notes = append(r.notes, text) }

// operatorPrompter answers like a person at the terminal.
type operatorPrompter struct {
	answers map[string]string
	asked   []string
	notes   []string
}

func (o *operatorPrompter) QueryString(_ context.Context, q prompt.Query) (string, error) {
	o.asked = append(o.asked, q.Name)
	return q.Resolve(o.answers[q.Name])
}

func (o *operatorPrompter) Note(text string) { o.notes = append(o.notes, text) }

type fakeDiscoverer struct {
	targets []discovery.Target
	luns    []discovery.LUN
	err     error

	portals     []discovery.ISCSIPortal
	lunTargets  []string
	fcRequested bool
}

func (f *fakeDiscoverer) ISCSITargets(_ context.Context, portal discovery.ISCSIPortal) ([]discovery.Target, error) {
	f.portals = append(f.portals, portal)
	return f.targets, f.err
}

func (f *fakeDiscoverer) ISCSILUNs(_ context.Context, portal discovery.ISCSIPortal, target string) ([]discovery.LUN, error) {
	f.portals = append(f.portals, portal)
	f.lunTargets = append(f.lunTargets, target)
	return f.luns, f.err
}

func (f *fakeDiscoverer) FCLUNs(context.Context) ([]discovery.LUN, error) {
	f.fcRequested = true
	return f.luns, f.err
}

func useDiscoverer(d provisioning.Discoverer) {
	newDiscoverer = func(executor.Executor, discovery.Identity, logrus.FieldLogger) provisioning.Discoverer { return d }
}

// captureOutput captures stdout during function execution.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}
