package provisioning

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/imamik/sdprov/internal/discovery"
	"github.com/imamik/sdprov/internal/executor"
	"github.com/imamik/sdprov/internal/metrics"
	"github.com/imamik/sdprov/internal/prompt"
	"github.com/imamik/sdprov/internal/storage"
	"github.com/imamik/sdprov/internal/util/ptr"
	"github.com/imamik/sdprov/internal/util/retry"
)

// ErrAlreadyRunning is returned by Run while another Run is in flight.
var ErrAlreadyRunning = errors.New("storage domain provisioning already in progress")

// ErrScriptedRetry ends an interactive run whose failed attempt was answered
// entirely from script, since a retry would replay the same answers.
var ErrScriptedRetry = errors.New("attempt asked no question of an operator")

// retryNote is shown to the operator before an interactive retry.
const retryNote = "There was some problem with the storage domain, please try again"

const (
	defaultRetryDelay    = time.Second
	defaultMaxRetryDelay = 30 * time.Second
)

// Options configures a Machine.
type Options struct {
	Identity   discovery.Identity
	LocalVMDir string

	// Discoverer defaults to a discovery.Client on the machine's executor.
	Discoverer Discoverer
	// Observer defaults to a ConsoleObserver on the machine's logger.
	Observer   Observer

	// RetryDelay is the pause before the first interactive retry, doubled on
	// each further retry up to MaxRetryDelay.
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
	// MaxAttempts caps interactive attempts; zero means no cap.
	MaxAttempts   int
}

// Outcome summarizes a successful run.
type Outcome struct {
	Attempts       int
	Backend        storage.DomainType
	AvailableBytes int64
}

// Machine drives storage domain creation until the domain is active or the
// workflow fails.
type Machine struct {
	mu sync.Mutex

	exec       executor.Executor
	prompter   prompt.Prompter
	discoverer Discoverer
	observer   Observer
	log        logrus.FieldLogger
	opts       Options

	cleaned bool
}

// NewMachine creates a state machine.
func NewMachine(exec executor.Executor, p prompt.Prompter, opts Options, log logrus.FieldLogger) *Machine {
	m := &Machine{
		exec:       exec,
		prompter:   p,
		discoverer: opts.Discoverer,
		observer:   opts.Observer,
		log:        log.WithField("component", "provisioning"),
		opts:       opts,
	}
	if m.discoverer == nil {
		m.discoverer = discovery.NewClient(exec, opts.Identity, log)
	}
	if m.observer == nil {
		m.observer = NewConsoleObserver(m.log)
	}
	return m
}

// Run provisions the storage domain described by cfg.
//
// The run is unattended when cfg arrives with any backend field set: nothing
// is asked of the operator beyond scripted answers and defaults, and the
// first error ends the run. Otherwise every recoverable error restarts the
// loop from backend selection. Each attempt works on a copy of cfg; cfg is
// only updated, with the values reported by the engine, once the domain is
// active. Since every attempt starts from a fresh copy, an interactive retry
// asks every field again, not only the one that failed. A failed interactive
// attempt in which every question was answered from script ends the run with
// ErrScriptedRetry.
func (m *Machine) Run(ctx context.Context, cfg *storage.Config) (*Outcome, error) {
	if !m.mu.TryLock() {
		return nil, ErrAlreadyRunning
	}
	defer m.mu.Unlock()

	interactive := !cfg.HasBackendFields()
	mode := "interactive"
	p := m.prompter
	if !interactive {
		mode = "unattended"
		p = prompt.Unattended(p, m.log)
	}
	observer := m.observer.WithFields(map[string]string{"mode": mode})
	counter := &countingPrompter{Prompter: p}
	sess := &session{prompter: counter, discoverer: m.discoverer, log: m.log}

	if err := m.initialCleanup(ctx, observer); err != nil {
		logState(observer, StateFatal, 0, cfg.DomainType, err.Error())
		return nil, err
	}

	if cfg.NormalizeLegacyType() {
		m.log.WithField("nfs_version", cfg.NFSVersion).Info("Legacy storage type rewritten to nfs")
	}

	outcome := &Outcome{}
	err := retry.Until(ctx, func(attempt int) error {
		outcome.Attempts = attempt
		logAttemptStart(observer, attempt)

		draft := cfg.Clone()
		counter.reset()
		details, err := m.attempt(ctx, observer, attempt, sess, draft)
		metrics.RecordAttempt(string(draft.DomainType), metrics.ResultLabel(err))
		if err != nil {
			m.log.WithError(err).Error("Storage domain attempt failed")
			if !interactive || isAlwaysFatal(err) {
				return retry.Fatal(err)
			}
			if counter.asked == 0 {
				return retry.Fatal(fmt.Errorf("%w: %w", ErrScriptedRetry, err))
			}
			return err
		}

		*cfg = *draft
		outcome.Backend = cfg.DomainType
		outcome.AvailableBytes = *details.Available
		metrics.RecordDomainSize(float64(outcome.AvailableBytes))
		logState(observer, StateActive, attempt, cfg.DomainType, "storage domain is active")
		return nil
	}, m.retryOptions(observer, p)...)
	if err != nil {
		logState(observer, StateFatal, outcome.Attempts, cfg.DomainType, err.Error())
		return nil, err
	}
	return outcome, nil
}

func (m *Machine) retryOptions(observer Observer, p prompt.Prompter) []retry.Option {
	opts := []retry.Option{
		retry.WithInitialDelay(cmp.Or(m.opts.RetryDelay, defaultRetryDelay)),
		retry.WithMaxDelay(cmp.Or(m.opts.MaxRetryDelay, defaultMaxRetryDelay)),
		retry.WithOnRetry(func(attempt int, err error) {
			logState(observer, StateRetry, attempt, "", err.Error())
			p.Note(retryNote)
		}),
	}
	if m.opts.MaxAttempts > 0 {
		opts = append(opts, retry.WithMaxRetries(m.opts.MaxAttempts-1))
	}
	return opts
}

// countingPrompter counts the questions of one attempt that reach an
// operator.
type countingPrompter struct {
	prompt.Prompter
	asked int
}

func (c *countingPrompter) QueryString(ctx context.Context, q prompt.Query) (string, error) {
	if prompt.ReachesOperator(c.Prompter, q) {
		c.asked++
	}
	return c.Prompter.QueryString(ctx, q)
}

func (c *countingPrompter) reset() { c.asked = 0 }

// attempt runs one pass: resolve the backend, collect, create, interpret.
func (m *Machine) attempt(ctx context.Context, observer Observer, n int, sess *session, draft *storage.Config) (*DomainDetails, error) {
	logState(observer, StateCollecting, n, draft.DomainType, "collecting storage parameters")

	if draft.DomainType == "" {
		answer, err := sess.prompter.QueryString(ctx, domainTypeQuery())
		if err != nil {
			return nil, err
		}
		draft.DomainType = storage.DomainType(answer)
	}
	collector, err := collectorFor(draft.DomainType)
	if err != nil {
		return nil, err
	}

	loc, err := collector.Collect(ctx, sess, draft)
	if err != nil {
		return nil, err
	}

	logState(observer, StateCreating, n, draft.DomainType, "creating storage domain")
	m.log.Info("Creating Storage Domain")
	result, err := m.exec.Run(ctx, executor.TagCreateStorageDomain, m.createVars(draft, loc), executor.InventoryFor(""))
	if err != nil {
		return nil, fmt.Errorf("failed creating storage domain: %w", err)
	}

	details, err := InterpretResult(result)
	if err != nil {
		return nil, fmt.Errorf("failed creating storage domain: %w", err)
	}
	if err := Canonicalize(draft, details, loc, m.log); err != nil {
		return nil, fmt.Errorf("failed creating storage domain: %w", err)
	}
	return details, nil
}

// createVars assembles the parameter bag of the creation call. Unset values
// are sent as null.
func (m *Machine) createVars(cfg *storage.Config, loc Location) executor.Vars {
	name := cfg.DomainName
	if name == "" {
		name = storage.DefaultDomainName
	}
	return m.opts.Identity.Vars().Merge(executor.Vars{
		"he_local_vm_dir":        optional(m.opts.LocalVMDir),
		"he_storage_domain_name": name,
		"he_storage_domain_addr": optional(loc.Address),
		"he_storage_domain_path": optional(loc.Path),
		"he_mount_options":       optionalPtr(cfg.MountOptions),
		"he_nfs_version":         optional(cfg.NFSVersion),
		"he_vfs_type":            optional(cfg.VFSType),
		"he_domain_type":         string(cfg.DomainType),
		"he_iscsi_portal_port":   optional(cfg.ISCSIPort),
		"he_iscsi_target":        optional(cfg.ISCSITarget),
		"he_lun_id":              optional(cfg.LunID),
		"he_iscsi_username":      optionalPtr(cfg.ISCSIUser),
		"he_iscsi_password":      optionalPtr(cfg.ISCSIPassword),
		"he_discard":             cfg.Discard,
	})
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optionalPtr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func domainTypeQuery() prompt.Query {
	valid := make([]string, len(storage.DomainTypes))
	for i, t := range storage.DomainTypes {
		valid[i] = string(t)
	}
	return prompt.Query{
		Name:          QueryDomainType,
		Note:          "Please specify the storage you would like to use",
		ValidValues:   valid,
		Default:       ptr.String(string(storage.NFS)),
		CaseSensitive: true,
	}
}

// initialCleanup tears down leftovers of a previous aborted run, once per
// machine.
func (m *Machine) initialCleanup(ctx context.Context, observer Observer) error {
	if m.cleaned {
		return nil
	}
	tag := string(executor.TagInitialClean)
	logCleanup(observer, EventCleanupStarted, tag, nil)
	m.log.Info("Cleaning previous attempts")

	vars := m.opts.Identity.Vars().Merge(executor.Vars{"he_local_vm_dir": optional(m.opts.LocalVMDir)})
	if _, err := m.exec.Run(ctx, executor.TagInitialClean, vars, executor.InventoryFor(m.opts.Identity.FQDN)); err != nil {
		logCleanup(observer, EventCleanupFailed, tag, err)
		return fmt.Errorf("initial cleanup failed: %w", err)
	}
	m.cleaned = true
	logCleanup(observer, EventCleanupCompleted, tag, nil)
	return nil
}

// FinalCleanup removes temporary resources left by the workflow. It is safe
// to call after both success and failure.
func (m *Machine) FinalCleanup(ctx context.Context) error {
	tag := string(executor.TagFinalClean)
	logCleanup(m.observer, EventCleanupStarted, tag, nil)
	m.log.Info("Cleaning temporary resources")

	vars := executor.Vars{
		"he_fqdn":         m.opts.Identity.FQDN,
		"he_local_vm_dir": optional(m.opts.LocalVMDir),
	}
	if _, err := m.exec.Run(ctx, executor.TagFinalClean, vars, executor.InventoryFor("")); err != nil {
		logCleanup(m.observer, EventCleanupFailed, tag, err)
		return fmt.Errorf("final cleanup failed: %w", err)
	}
	logCleanup(m.observer, EventCleanupCompleted, tag, nil)
	return nil
}

// isAlwaysFatal reports errors that end the run even when interactive.
// Scripted answers that are missing or rejected would fail the same way on
// every retry.
func isAlwaysFatal(err error) bool {
	return errors.Is(err, storage.ErrNoResourcesFound) ||
		errors.Is(err, storage.ErrUnsupportedBackend) ||
		errors.Is(err, prompt.ErrAborted) ||
		errors.Is(err, prompt.ErrNoAnswer) ||
		errors.Is(err, prompt.ErrInvalidAnswer) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
