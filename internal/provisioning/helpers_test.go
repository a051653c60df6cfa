package provisioning

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"

	"github.com/imamik/sdprov/internal/discovery"
	"github.com/imamik/sdprov/internal/executor"
	"github.com/imamik/sdprov/internal/prompt"
)

func testLogger() logrus.FieldLogger {
	log, _ := logrustest.NewNullLogger()
	return log
}

// scriptPrompter answers from per-question queues and falls back to the
// query default.
type scriptPrompter struct {
	mu      sync.Mutex
	answers map[string][]string
	asked   []string
	notes   []string
}

func newScriptPrompter(answers map[string][]string) *scriptPrompter {
	if answers == nil {
		answers = map[string][]string{}
	}
	return &scriptPrompter{answers: answers}
}

func (s *scriptPrompter) QueryString(_ context.Context, q prompt.Query) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, q.Name)

	queue := s.answers[q.Name]
	if len(queue) == 0 {
		if q.Default == nil {
			return "", fmt.Errorf("%w for %s", prompt.ErrNoAnswer, q.Name)
		}
		return q.Resolve("")
	}
	s.answers[q.Name] = queue[1:]
	return q.Resolve(queue[0])
}

func (s *scriptPrompter) Note(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, text)
}

func (s *scriptPrompter) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.asked...)
}

// fakeDiscoverer returns canned discovery results.
type fakeDiscoverer struct {
	targets    []discovery.Target
	iscsiLUNs  []discovery.LUN
	fcLUNs     []discovery.LUN
	err        error
	portals    []discovery.ISCSIPortal
	lunTargets []string
}

func (f *fakeDiscoverer) ISCSITargets(_ context.Context, portal discovery.ISCSIPortal) ([]discovery.Target, error) {
	f.portals = append(f.portals, portal)
	if f.err != nil {
		return nil, f.err
	}
	return f.targets, nil
}

func (f *fakeDiscoverer) ISCSILUNs(_ context.Context, portal discovery.ISCSIPortal, target string) ([]discovery.LUN, error) {
	f.portals = append(f.portals, portal)
	f.lunTargets = append(f.lunTargets, target)
	if f.err != nil {
		return nil, f.err
	}
	return f.iscsiLUNs, nil
}

func (f *fakeDiscoverer) FCLUNs(context.Context) ([]discovery.LUN, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.fcLUNs, nil
}

// recordingObserver keeps every event.
type recordingObserver struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingObserver) Event(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) WithFields(map[string]string) Observer { return r }

func (r *recordingObserver) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// activeResult builds a creation result for an active domain.
func activeResult(storageRecord map[string]any) executor.Result {
	return domainResult("active", float64(107374182400), storageRecord)
}

func domainResult(status string, available any, storageRecord map[string]any) executor.Result {
	domain := map[string]any{"status": status}
	if storageRecord != nil {
		domain["storage"] = storageRecord
	}
	if available != nil {
		domain["available"] = available
	}
	return executor.Result{
		executor.ReturnCodeKey: float64(0),
		keyDomainDetails:       map[string]any{keyStorageDomain: domain},
	}
}
