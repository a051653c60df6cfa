package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/imamik/sdprov/internal/storage"
)

// ResultFileEnv names the environment variable that tells the engine's
// callback plugin where to write the result document.
const ResultFileEnv = "SDPROV_RESULT_FILE"

// AnsibleConfig configures the ansible-playbook runner.
type AnsibleConfig struct {
	Binary        string
	Playbook      string
	UserExtraVars string
	LogDir        string
}

// Ansible runs operations with ansible-playbook.
type Ansible struct {
	cfg AnsibleConfig
	log *logrus.Entry

	// command builds the process, swapped in tests.
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewAnsible creates an ansible-playbook runner.
func NewAnsible(cfg AnsibleConfig, log logrus.FieldLogger) *Ansible {
	return &Ansible{
		cfg:     cfg,
		log:     log.WithField("component", "executor"),
		command: exec.CommandContext,
	}
}

// Run executes the playbook restricted to tag. A nonzero exit code is
// reported as storage.ErrExecutorFailure together with whatever result the
// callback managed to write.
func (a *Ansible) Run(ctx context.Context, tag Tag, extraVars map[string]any, inventory string) (Result, error) {
	runID := uuid.NewString()
	log := a.log.WithFields(logrus.Fields{"tag": tag, "run": runID})

	workDir, err := os.MkdirTemp("", "sdprov-"+string(tag)+"-")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create work dir: %v", storage.ErrExecutorFailure, err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	varsFile := filepath.Join(workDir, "extra-vars.yaml")
	if err := writeVars(varsFile, extraVars); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrExecutorFailure, err)
	}
	resultFile := filepath.Join(workDir, "result.json")

	cmd := a.command(ctx, a.cfg.Binary, a.args(tag, varsFile, inventory)...)
	cmd.Env = append(os.Environ(), ResultFileEnv+"="+resultFile)
	if a.cfg.LogDir != "" {
		logPath := filepath.Join(a.cfg.LogDir, fmt.Sprintf("%s-%s-%s.log", tag, time.Now().Format("20060102150405"), runID[:8]))
		cmd.Env = append(cmd.Env, "ANSIBLE_LOG_PATH="+logPath)
		log = log.WithField("log", logPath)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.WithField("vars", Vars(extraVars).Redacted()).Debug("starting executor")
	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	level := logrus.DebugLevel
	if stderr.Len() > 0 {
		level = logrus.WarnLevel
	}
	log = log.WithFields(logrus.Fields{
		"cmd":      strings.Join(cmd.Args, " "),
		"duration": duration.String(),
	})

	rc := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			log.WithError(runErr).Error("executor could not be started")
			return nil, fmt.Errorf("%w: %s: %v", storage.ErrExecutorFailure, tag, runErr)
		}
		rc = exitErr.ExitCode()
		level = logrus.ErrorLevel
	}
	log.Logf(level, "executor finished with code %d, stderr: %s", rc, strings.TrimSpace(stderr.String()))

	result, err := readResult(resultFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", storage.ErrExecutorFailure, tag, err)
	}
	result[ReturnCodeKey] = rc
	return result, result.Err(tag)
}

func (a *Ansible) args(tag Tag, varsFile, inventory string) []string {
	args := []string{"--tags", string(tag), "--extra-vars", "@" + varsFile}
	if inventory != "" {
		args = append(args, "--inventory", inventory)
	}
	if a.cfg.UserExtraVars != "" {
		args = append(args, "--extra-vars", a.cfg.UserExtraVars)
	}
	return append(args, a.cfg.Playbook)
}

func writeVars(path string, vars map[string]any) error {
	data, err := yaml.Marshal(vars)
	if err != nil {
		return fmt.Errorf("failed to marshal extra vars: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write extra vars: %w", err)
	}
	return nil
}

// readResult loads the callback document. A missing file yields an empty
// result; the engine writes nothing when no task registered output.
func readResult(path string) (Result, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Result{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read result: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Result{}, nil
	}

	result := Result{}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return result, nil
}
